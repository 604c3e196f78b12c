package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dododo1295/quicknotes/model"
	"github.com/dododo1295/quicknotes/repository"
	"github.com/dododo1295/quicknotes/utils"
)

const (
	noteNotFound      = "Note not found"
	ownerRequired     = "User ID required"
	ownerAndIDMissing = "User ID and Note ID are required"
	invalidIDFormat   = "Invalid ID format"
)

// Note fields are validated after trimming.
type noteInput struct {
	Title   string `validate:"required,max=100"`
	Content string `validate:"required,max=1000"`
}

type titlePatch struct {
	Title string `validate:"required,max=100"`
}

type contentPatch struct {
	Content string `validate:"required,max=1000"`
}

// NotePatch carries the fields of an update. Nil means unchanged.
type NotePatch struct {
	Title   *string
	Content *string
}

type NotesService struct {
	store    repository.NoteStore
	validate *validator.Validate
	now      func() time.Time
}

type Option func(*NotesService)

// WithClock replaces time.Now for updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *NotesService) {
		s.now = now
	}
}

func NewNotesService(store repository.NoteStore, opts ...Option) *NotesService {
	s := &NotesService{
		store:    store,
		validate: utils.NewValidator(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// guard turns a panic into a Failure and counts the outcome.
func guard[T any](op, fallback string, res *Result[T]) {
	if r := recover(); r != nil {
		slog.Error("note operation panicked", slog.String("op", op), slog.Any("panic", r))
		utils.TrackError("service", "panic")
		*res = failure[T](nil, fallback)
	}
	utils.TrackNoteOperation(op, res.Kind.String())
}

func parseNoteID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func normalizeAll(notes []model.Note) []model.Note {
	for i := range notes {
		notes[i] = notes[i].Normalize()
	}
	return notes
}

// GetNoteByID returns one of the owner's notes.
// owner must come from the auth middleware.
func (s *NotesService) GetNoteByID(ctx context.Context, owner model.Owner, noteID string) (res Result[model.Note]) {
	const fallback = "Failed to fetch note"
	defer guard("get", fallback, &res)

	if owner.IsZero() || strings.TrimSpace(noteID) == "" {
		return invalid[model.Note](ownerAndIDMissing)
	}
	id, valid := parseNoteID(noteID)
	if !valid {
		return invalid[model.Note](invalidIDFormat)
	}

	notes, err := s.store.Find(ctx, owner.ID(), repository.ByID(id))
	if err != nil {
		return failure[model.Note](err, fallback)
	}
	if len(notes) == 0 {
		return notFound[model.Note](noteNotFound)
	}

	return ok("Note found", notes[0].Normalize())
}

// GetAllNotes lists the owner's notes, newest first.
// owner must come from the auth middleware.
func (s *NotesService) GetAllNotes(ctx context.Context, owner model.Owner) (res Result[[]model.Note]) {
	const fallback = "Failed to fetch notes"
	defer guard("list", fallback, &res)

	if owner.IsZero() {
		return invalid[[]model.Note](ownerRequired)
	}

	notes, err := s.store.Find(ctx, owner.ID(), repository.Filter{})
	if err != nil {
		return failure[[]model.Note](err, fallback)
	}

	return okList("Notes found", normalizeAll(notes))
}

// CreateNote stores a new note for owner. Title and content are trimmed first.
// owner must come from the auth middleware.
func (s *NotesService) CreateNote(ctx context.Context, owner model.Owner, title, content string) (res Result[model.Note]) {
	const fallback = "Failed to create note"
	defer guard("create", fallback, &res)

	if owner.IsZero() {
		return invalid[model.Note](ownerRequired)
	}

	input := noteInput{
		Title:   strings.TrimSpace(title),
		Content: strings.TrimSpace(content),
	}
	if err := s.validate.Struct(input); err != nil {
		return invalid[model.Note](utils.ValidationMessage(err))
	}

	note, err := s.store.Insert(ctx, model.Note{
		UserID:  owner.ID(),
		Title:   input.Title,
		Content: input.Content,
	})
	if err != nil {
		return failure[model.Note](err, fallback)
	}
	if note.ID == 0 {
		return failure[model.Note](nil, fallback)
	}

	return ok("Note created", note.Normalize())
}

// UpdateNote applies patch to one of the owner's notes and stamps updated_at.
// owner must come from the auth middleware.
func (s *NotesService) UpdateNote(ctx context.Context, owner model.Owner, noteID string, patch NotePatch) (res Result[model.Note]) {
	const fallback = "Failed to update note"
	defer guard("update", fallback, &res)

	if owner.IsZero() || strings.TrimSpace(noteID) == "" {
		return invalid[model.Note](ownerAndIDMissing)
	}
	id, valid := parseNoteID(noteID)
	if !valid {
		return invalid[model.Note](invalidIDFormat)
	}
	if patch.Title == nil && patch.Content == nil {
		return invalid[model.Note]("Title or content is required")
	}

	changes := model.NoteChanges{UpdatedAt: s.now().UTC()}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if err := s.validate.Struct(titlePatch{Title: title}); err != nil {
			return invalid[model.Note](utils.ValidationMessage(err))
		}
		changes.Title = &title
	}
	if patch.Content != nil {
		content := strings.TrimSpace(*patch.Content)
		if err := s.validate.Struct(contentPatch{Content: content}); err != nil {
			return invalid[model.Note](utils.ValidationMessage(err))
		}
		changes.Content = &content
	}

	note, err := s.store.Update(ctx, owner.ID(), id, changes)
	if err != nil {
		return failure[model.Note](err, fallback)
	}

	return ok("Note updated", note.Normalize())
}

// DeleteNote removes one of the owner's notes. Deleting a note that does not
// exist succeeds.
// owner must come from the auth middleware.
func (s *NotesService) DeleteNote(ctx context.Context, owner model.Owner, noteID string) (res Result[struct{}]) {
	const fallback = "Failed to delete note"
	defer guard("delete", fallback, &res)

	if owner.IsZero() || strings.TrimSpace(noteID) == "" {
		return invalid[struct{}](ownerAndIDMissing)
	}
	id, valid := parseNoteID(noteID)
	if !valid {
		return invalid[struct{}](invalidIDFormat)
	}

	if err := s.store.Delete(ctx, owner.ID(), id); err != nil {
		return failure[struct{}](err, fallback)
	}

	return ok("Note deleted", struct{}{})
}

// SearchNotes finds the owner's notes whose title or content contains term,
// ignoring case.
// owner must come from the auth middleware.
func (s *NotesService) SearchNotes(ctx context.Context, owner model.Owner, term string) (res Result[[]model.Note]) {
	const fallback = "Failed to search notes"
	defer guard("search", fallback, &res)

	if owner.IsZero() {
		return invalid[[]model.Note](ownerRequired)
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return invalid[[]model.Note]("Search term is required")
	}

	notes, err := s.store.Find(ctx, owner.ID(), repository.Filter{Contains: term})
	if err != nil {
		return failure[[]model.Note](err, fallback)
	}

	return okList("Notes found", normalizeAll(notes))
}

// GetNotesByDate lists the owner's notes created between start and end,
// both inclusive.
// owner must come from the auth middleware.
func (s *NotesService) GetNotesByDate(ctx context.Context, owner model.Owner, start, end time.Time) (res Result[[]model.Note]) {
	const fallback = "Failed to fetch notes"
	defer guard("by_date", fallback, &res)

	if owner.IsZero() {
		return invalid[[]model.Note](ownerRequired)
	}
	if start.IsZero() || end.IsZero() {
		return invalid[[]model.Note]("Start and end dates are required")
	}
	if start.After(end) {
		return invalid[[]model.Note]("Start date must not be after end date")
	}

	notes, err := s.store.Find(ctx, owner.ID(), repository.Filter{
		CreatedFrom: start.UTC(),
		CreatedTo:   end.UTC(),
	})
	if err != nil {
		return failure[[]model.Note](err, fallback)
	}

	return okList("Notes found", normalizeAll(notes))
}

// GetNotesByTitle lists the owner's notes whose title equals title, ignoring
// case.
// owner must come from the auth middleware.
func (s *NotesService) GetNotesByTitle(ctx context.Context, owner model.Owner, title string) (res Result[[]model.Note]) {
	const fallback = "Failed to fetch notes"
	defer guard("by_title", fallback, &res)

	if owner.IsZero() {
		return invalid[[]model.Note](ownerRequired)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return invalid[[]model.Note]("Title is required")
	}

	notes, err := s.store.Find(ctx, owner.ID(), repository.Filter{TitleEquals: title})
	if err != nil {
		return failure[[]model.Note](err, fallback)
	}

	return okList("Notes found", normalizeAll(notes))
}

// IsNoRow reports whether a Failure was caused by an update that matched nothing.
func IsNoRow[T any](res Result[T]) bool {
	return res.Kind == KindFailure && errors.Is(res.cause, repository.ErrNoteNotFound)
}
