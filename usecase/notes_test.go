package usecase

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dododo1295/quicknotes/model"
	"github.com/dododo1295/quicknotes/repository"
)

// countingStore records how often the service touched the store.
type countingStore struct {
	repository.NoteStore
	calls atomic.Int64
}

func (c *countingStore) Find(ctx context.Context, ownerID string, f repository.Filter) ([]model.Note, error) {
	c.calls.Add(1)
	return c.NoteStore.Find(ctx, ownerID, f)
}

func (c *countingStore) Insert(ctx context.Context, n model.Note) (model.Note, error) {
	c.calls.Add(1)
	return c.NoteStore.Insert(ctx, n)
}

func (c *countingStore) Update(ctx context.Context, ownerID string, id int64, ch model.NoteChanges) (model.Note, error) {
	c.calls.Add(1)
	return c.NoteStore.Update(ctx, ownerID, id, ch)
}

func (c *countingStore) Delete(ctx context.Context, ownerID string, id int64) error {
	c.calls.Add(1)
	return c.NoteStore.Delete(ctx, ownerID, id)
}

// brokenStore fails or panics on every call.
type brokenStore struct {
	err   error
	panic bool
}

func (b brokenStore) fail() error {
	if b.panic {
		panic("store exploded")
	}
	return b.err
}

func (b brokenStore) Find(context.Context, string, repository.Filter) ([]model.Note, error) {
	return nil, b.fail()
}

func (b brokenStore) Insert(context.Context, model.Note) (model.Note, error) {
	return model.Note{}, b.fail()
}

func (b brokenStore) Update(context.Context, string, int64, model.NoteChanges) (model.Note, error) {
	return model.Note{}, b.fail()
}

func (b brokenStore) Delete(context.Context, string, int64) error {
	return b.fail()
}

func (b brokenStore) Ping(context.Context) error {
	return b.fail()
}

// emptyInsertStore accepts inserts but returns no row.
type emptyInsertStore struct {
	repository.NoteStore
}

func (emptyInsertStore) Insert(context.Context, model.Note) (model.Note, error) {
	return model.Note{}, nil
}

var (
	alice = model.TrustedOwner("alice")
	bob   = model.TrustedOwner("bob")
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService(t *testing.T) (*NotesService, *countingStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)}
	store := &countingStore{NoteStore: repository.NewMemoryNotesRepo(repository.WithClock(clock.Now))}
	return NewNotesService(store, WithClock(clock.Now)), store, clock
}

func mustCreate(t *testing.T, s *NotesService, owner model.Owner, title, content string) model.Note {
	t.Helper()
	res := s.CreateNote(context.Background(), owner, title, content)
	require.Equal(t, KindOK, res.Kind, res.Error)
	return res.Data
}

func strPtr(s string) *string { return &s }

func TestCreateNote(t *testing.T) {
	svc, _, clock := newTestService(t)

	res := svc.CreateNote(context.Background(), alice, "  Groceries  ", "  milk, eggs \n")
	require.Equal(t, KindOK, res.Kind)
	assert.Equal(t, "Note created", res.Message)
	assert.Equal(t, "Groceries", res.Data.Title)
	assert.Equal(t, "milk, eggs", res.Data.Content)
	assert.Equal(t, "alice", res.Data.UserID)
	assert.NotZero(t, res.Data.ID)
	assert.Equal(t, clock.now, res.Data.CreatedAt)
	assert.Nil(t, res.Total)
}

func TestCreateNote_Validation(t *testing.T) {
	tests := []struct {
		name    string
		owner   model.Owner
		title   string
		content string
		want    string
	}{
		{"no owner", model.Owner{}, "t", "c", "User ID required"},
		{"blank title", alice, "   ", "c", "Title is required"},
		{"blank content", alice, "t", "\t\n", "Content is required"},
		{"long title", alice, strings.Repeat("a", 101), "c", "Title must be at most 100 characters"},
		{"long content", alice, "t", strings.Repeat("b", 1001), "Content must be at most 1000 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newTestService(t)

			res := svc.CreateNote(context.Background(), tt.owner, tt.title, tt.content)
			assert.Equal(t, KindInvalid, res.Kind)
			assert.Equal(t, tt.want, res.Error)
			assert.Empty(t, res.Message)
			assert.Zero(t, store.calls.Load(), "store must not be called")
		})
	}
}

func TestCreateNote_LengthLimitsCountCharacters(t *testing.T) {
	svc, _, _ := newTestService(t)

	res := svc.CreateNote(context.Background(), alice, strings.Repeat("é", 100), strings.Repeat("ü", 1000))
	assert.Equal(t, KindOK, res.Kind, res.Error)

	res = svc.CreateNote(context.Background(), alice, "  "+strings.Repeat("a", 100)+"  ", "c")
	assert.Equal(t, KindOK, res.Kind, "limit applies after trimming")
}

func TestCreateNote_EmptyInsertResult(t *testing.T) {
	svc := NewNotesService(emptyInsertStore{NoteStore: repository.NewMemoryNotesRepo()})

	res := svc.CreateNote(context.Background(), alice, "t", "c")
	assert.Equal(t, KindFailure, res.Kind)
	assert.Equal(t, "Failed to create note", res.Error)
}

func TestGetNoteByID(t *testing.T) {
	svc, _, _ := newTestService(t)
	note := mustCreate(t, svc, alice, "Title", "Body")

	res := svc.GetNoteByID(context.Background(), alice, " "+itoa(note.ID)+" ")
	require.Equal(t, KindOK, res.Kind)
	assert.Equal(t, "Note found", res.Message)
	assert.Equal(t, note, res.Data)
}

func TestGetNoteByID_OtherOwnerIsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	note := mustCreate(t, svc, alice, "Title", "Body")

	res := svc.GetNoteByID(context.Background(), bob, itoa(note.ID))
	assert.Equal(t, KindNotFound, res.Kind)
	assert.Equal(t, "Note not found", res.Message)
	assert.Empty(t, res.Error)
}

func TestGetNoteByID_Validation(t *testing.T) {
	tests := []struct {
		name  string
		owner model.Owner
		id    string
		want  string
	}{
		{"no owner", model.Owner{}, "1", "User ID and Note ID are required"},
		{"no id", alice, "  ", "User ID and Note ID are required"},
		{"letters", alice, "abc", "Invalid ID format"},
		{"fraction", alice, "1.5", "Invalid ID format"},
		{"negative", alice, "-3", "Invalid ID format"},
		{"zero", alice, "0", "Invalid ID format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newTestService(t)

			res := svc.GetNoteByID(context.Background(), tt.owner, tt.id)
			assert.Equal(t, KindInvalid, res.Kind)
			assert.Equal(t, tt.want, res.Error)
			assert.Zero(t, store.calls.Load())
		})
	}
}

func TestGetAllNotes(t *testing.T) {
	svc, _, clock := newTestService(t)

	first := mustCreate(t, svc, alice, "first", "1")
	clock.Advance(time.Minute)
	second := mustCreate(t, svc, alice, "second", "2")
	clock.Advance(time.Minute)
	mustCreate(t, svc, bob, "bob's", "3")

	res := svc.GetAllNotes(context.Background(), alice)
	require.Equal(t, KindOK, res.Kind)
	assert.Equal(t, "Notes found", res.Message)
	require.NotNil(t, res.Total)
	assert.Equal(t, 2, *res.Total)
	assert.Equal(t, []model.Note{second, first}, res.Data)
}

func TestGetAllNotes_Empty(t *testing.T) {
	svc, _, _ := newTestService(t)

	res := svc.GetAllNotes(context.Background(), alice)
	require.Equal(t, KindOK, res.Kind)
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	require.NotNil(t, res.Total)
	assert.Zero(t, *res.Total)
}

func TestGetAllNotes_NoOwner(t *testing.T) {
	svc, store, _ := newTestService(t)

	res := svc.GetAllNotes(context.Background(), model.Owner{})
	assert.Equal(t, KindInvalid, res.Kind)
	assert.Equal(t, "User ID required", res.Error)
	assert.Zero(t, store.calls.Load())
}

func TestUpdateNote(t *testing.T) {
	svc, _, clock := newTestService(t)
	note := mustCreate(t, svc, alice, "before", "body")

	clock.Advance(time.Hour)
	res := svc.UpdateNote(context.Background(), alice, itoa(note.ID), NotePatch{Title: strPtr("  after ")})
	require.Equal(t, KindOK, res.Kind, res.Error)
	assert.Equal(t, "Note updated", res.Message)
	assert.Equal(t, "after", res.Data.Title)
	assert.Equal(t, "body", res.Data.Content)
	assert.Equal(t, note.CreatedAt, res.Data.CreatedAt)
	assert.Equal(t, clock.now, res.Data.UpdatedAt)
	assert.True(t, res.Data.UpdatedAt.After(note.UpdatedAt))

	res = svc.UpdateNote(context.Background(), alice, itoa(note.ID), NotePatch{Content: strPtr("new body")})
	require.Equal(t, KindOK, res.Kind)
	assert.Equal(t, "after", res.Data.Title)
	assert.Equal(t, "new body", res.Data.Content)
}

func TestUpdateNote_Validation(t *testing.T) {
	tests := []struct {
		name  string
		owner model.Owner
		id    string
		patch NotePatch
		want  string
	}{
		{"no owner", model.Owner{}, "1", NotePatch{Title: strPtr("t")}, "User ID and Note ID are required"},
		{"no id", alice, "", NotePatch{Title: strPtr("t")}, "User ID and Note ID are required"},
		{"bad id", alice, "x1", NotePatch{Title: strPtr("t")}, "Invalid ID format"},
		{"empty patch", alice, "1", NotePatch{}, "Title or content is required"},
		{"blank title", alice, "1", NotePatch{Title: strPtr("  ")}, "Title is required"},
		{"blank content", alice, "1", NotePatch{Content: strPtr("")}, "Content is required"},
		{"long title", alice, "1", NotePatch{Title: strPtr(strings.Repeat("x", 101))}, "Title must be at most 100 characters"},
		{"long content", alice, "1", NotePatch{Content: strPtr(strings.Repeat("x", 1001))}, "Content must be at most 1000 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newTestService(t)

			res := svc.UpdateNote(context.Background(), tt.owner, tt.id, tt.patch)
			assert.Equal(t, KindInvalid, res.Kind)
			assert.Equal(t, tt.want, res.Error)
			assert.Zero(t, store.calls.Load())
		})
	}
}

func TestUpdateNote_NoMatchingRow(t *testing.T) {
	svc, _, _ := newTestService(t)
	note := mustCreate(t, svc, alice, "mine", "body")

	res := svc.UpdateNote(context.Background(), bob, itoa(note.ID), NotePatch{Title: strPtr("stolen")})
	assert.Equal(t, KindFailure, res.Kind)
	assert.Equal(t, "Note not found", res.Error)
	assert.True(t, IsNoRow(res))
	assert.ErrorIs(t, res.Cause(), repository.ErrNoteNotFound)

	got := svc.GetNoteByID(context.Background(), alice, itoa(note.ID))
	require.Equal(t, KindOK, got.Kind)
	assert.Equal(t, "mine", got.Data.Title)
}

func TestDeleteNote(t *testing.T) {
	svc, _, _ := newTestService(t)
	note := mustCreate(t, svc, alice, "t", "c")

	res := svc.DeleteNote(context.Background(), bob, itoa(note.ID))
	require.Equal(t, KindOK, res.Kind)
	assert.Equal(t, KindOK, svc.GetNoteByID(context.Background(), alice, itoa(note.ID)).Kind)

	res = svc.DeleteNote(context.Background(), alice, itoa(note.ID))
	require.Equal(t, KindOK, res.Kind)
	assert.Equal(t, "Note deleted", res.Message)
	assert.Equal(t, KindNotFound, svc.GetNoteByID(context.Background(), alice, itoa(note.ID)).Kind)

	res = svc.DeleteNote(context.Background(), alice, itoa(note.ID))
	assert.Equal(t, KindOK, res.Kind, "deleting twice succeeds")
}

func TestDeleteNote_Validation(t *testing.T) {
	svc, store, _ := newTestService(t)

	assert.Equal(t, "User ID and Note ID are required", svc.DeleteNote(context.Background(), model.Owner{}, "1").Error)
	assert.Equal(t, "User ID and Note ID are required", svc.DeleteNote(context.Background(), alice, "").Error)
	assert.Equal(t, "Invalid ID format", svc.DeleteNote(context.Background(), alice, "one").Error)
	assert.Zero(t, store.calls.Load())
}

func TestSearchNotes(t *testing.T) {
	svc, _, clock := newTestService(t)

	a := mustCreate(t, svc, alice, "Shopping", "eggs")
	clock.Advance(time.Second)
	b := mustCreate(t, svc, alice, "Weekend", "go SHOPPING for shoes")
	clock.Advance(time.Second)
	mustCreate(t, svc, alice, "Work", "meetings")
	mustCreate(t, svc, bob, "shopping", "bob")

	res := svc.SearchNotes(context.Background(), alice, "  shopping ")
	require.Equal(t, KindOK, res.Kind)
	assert.Equal(t, []model.Note{b, a}, res.Data)
	assert.Equal(t, 2, *res.Total)

	res = svc.SearchNotes(context.Background(), alice, "%")
	require.Equal(t, KindOK, res.Kind)
	assert.Empty(t, res.Data, "pattern characters match literally")
}

func TestSearchNotes_Validation(t *testing.T) {
	svc, store, _ := newTestService(t)

	assert.Equal(t, KindInvalid, svc.SearchNotes(context.Background(), model.Owner{}, "x").Kind)
	res := svc.SearchNotes(context.Background(), alice, "   ")
	assert.Equal(t, KindInvalid, res.Kind)
	assert.Equal(t, "Search term is required", res.Error)
	assert.Zero(t, store.calls.Load())
}

func TestGetNotesByDate(t *testing.T) {
	svc, _, clock := newTestService(t)

	start := clock.now
	early := mustCreate(t, svc, alice, "early", "x")
	clock.Advance(24 * time.Hour)
	mid := mustCreate(t, svc, alice, "mid", "x")
	clock.Advance(24 * time.Hour)
	mustCreate(t, svc, alice, "late", "x")

	res := svc.GetNotesByDate(context.Background(), alice, start, mid.CreatedAt)
	require.Equal(t, KindOK, res.Kind)
	assert.Equal(t, []model.Note{mid, early}, res.Data, "bounds are inclusive")

	res = svc.GetNotesByDate(context.Background(), bob, start, clock.now)
	require.Equal(t, KindOK, res.Kind)
	assert.Empty(t, res.Data)

	local := time.FixedZone("UTC+2", 2*3600)
	res = svc.GetNotesByDate(context.Background(), alice, start.In(local), start.In(local))
	require.Equal(t, KindOK, res.Kind)
	assert.Equal(t, []model.Note{early}, res.Data)
}

func TestGetNotesByDate_Validation(t *testing.T) {
	svc, store, _ := newTestService(t)
	now := time.Now()

	res := svc.GetNotesByDate(context.Background(), alice, now, now.Add(-time.Second))
	assert.Equal(t, KindInvalid, res.Kind)
	assert.Equal(t, "Start date must not be after end date", res.Error)

	assert.Equal(t, KindInvalid, svc.GetNotesByDate(context.Background(), alice, time.Time{}, now).Kind)
	assert.Equal(t, KindInvalid, svc.GetNotesByDate(context.Background(), model.Owner{}, now, now).Kind)
	assert.Zero(t, store.calls.Load())
}

func TestGetNotesByTitle(t *testing.T) {
	svc, _, clock := newTestService(t)

	a := mustCreate(t, svc, alice, "Groceries", "x")
	clock.Advance(time.Second)
	b := mustCreate(t, svc, alice, "GROCERIES", "y")
	mustCreate(t, svc, alice, "Groceries list", "z")
	mustCreate(t, svc, bob, "groceries", "w")

	res := svc.GetNotesByTitle(context.Background(), alice, " groceries ")
	require.Equal(t, KindOK, res.Kind)
	assert.Equal(t, []model.Note{b, a}, res.Data)
	assert.Equal(t, 2, *res.Total)

	res = svc.GetNotesByTitle(context.Background(), alice, "Grocer_es")
	require.Equal(t, KindOK, res.Kind)
	assert.Empty(t, res.Data)
}

func TestGetNotesByTitle_Validation(t *testing.T) {
	svc, store, _ := newTestService(t)

	res := svc.GetNotesByTitle(context.Background(), alice, "  ")
	assert.Equal(t, KindInvalid, res.Kind)
	assert.Equal(t, "Title is required", res.Error)
	assert.Equal(t, KindInvalid, svc.GetNotesByTitle(context.Background(), model.Owner{}, "x").Kind)
	assert.Zero(t, store.calls.Load())
}

func TestStoreFailures(t *testing.T) {
	ctx := context.Background()
	svc := NewNotesService(brokenStore{err: errors.New("connection refused")})

	checks := map[string]Kind{
		"get":      svc.GetNoteByID(ctx, alice, "1").Kind,
		"list":     svc.GetAllNotes(ctx, alice).Kind,
		"create":   svc.CreateNote(ctx, alice, "t", "c").Kind,
		"update":   svc.UpdateNote(ctx, alice, "1", NotePatch{Title: strPtr("t")}).Kind,
		"delete":   svc.DeleteNote(ctx, alice, "1").Kind,
		"search":   svc.SearchNotes(ctx, alice, "t").Kind,
		"by_date":  svc.GetNotesByDate(ctx, alice, time.Now(), time.Now()).Kind,
		"by_title": svc.GetNotesByTitle(ctx, alice, "t").Kind,
	}
	for op, kind := range checks {
		assert.Equal(t, KindFailure, kind, op)
	}

	res := svc.GetAllNotes(ctx, alice)
	assert.Equal(t, "connection refused", res.Error, "store message is passed through")
	assert.False(t, IsNoRow(res))
}

func TestStorePanicsBecomeFailures(t *testing.T) {
	ctx := context.Background()
	svc := NewNotesService(brokenStore{panic: true})

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"get", svc.GetNoteByID(ctx, alice, "1").Error, "Failed to fetch note"},
		{"list", svc.GetAllNotes(ctx, alice).Error, "Failed to fetch notes"},
		{"create", svc.CreateNote(ctx, alice, "t", "c").Error, "Failed to create note"},
		{"update", svc.UpdateNote(ctx, alice, "1", NotePatch{Content: strPtr("c")}).Error, "Failed to update note"},
		{"delete", svc.DeleteNote(ctx, alice, "1").Error, "Failed to delete note"},
		{"search", svc.SearchNotes(ctx, alice, "t").Error, "Failed to search notes"},
		{"by_date", svc.GetNotesByDate(ctx, alice, time.Now(), time.Now()).Error, "Failed to fetch notes"},
		{"by_title", svc.GetNotesByTitle(ctx, alice, "t").Error, "Failed to fetch notes"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.got, tt.name)
	}
}

func TestStoredRowsAreTrimmedOnRead(t *testing.T) {
	store := repository.NewMemoryNotesRepo()
	note, err := store.Insert(context.Background(), model.Note{UserID: "alice", Title: " padded ", Content: "\tbody\n"})
	require.NoError(t, err)

	svc := NewNotesService(store)
	res := svc.GetNoteByID(context.Background(), alice, itoa(note.ID))
	require.Equal(t, KindOK, res.Kind)
	assert.Equal(t, "padded", res.Data.Title)
	assert.Equal(t, "body", res.Data.Content)

	list := svc.GetAllNotes(context.Background(), alice)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "padded", list.Data[0].Title)
}
