package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dododo1295/quicknotes/model"
)

var _ NoteStore = (*MemoryNotesRepo)(nil)

// MemoryNotesRepo keeps notes in a map. It backs STORE_DRIVER=memory and the tests.
type MemoryNotesRepo struct {
	mu     sync.RWMutex
	notes  map[int64]model.Note
	lastID int64
	now    func() time.Time
}

type MemoryOption func(*MemoryNotesRepo)

// WithClock replaces time.Now for assigned timestamps.
func WithClock(now func() time.Time) MemoryOption {
	return func(r *MemoryNotesRepo) {
		r.now = now
	}
}

func NewMemoryNotesRepo(opts ...MemoryOption) *MemoryNotesRepo {
	r := &MemoryNotesRepo{
		notes: make(map[int64]model.Note),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *MemoryNotesRepo) Find(ctx context.Context, ownerID string, filter Filter) ([]model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := make([]model.Note, 0)
	for _, note := range r.notes {
		if note.UserID == ownerID && filter.matches(note) {
			notes = append(notes, note)
		}
	}

	sort.Slice(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].ID > notes[j].ID
		}
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})

	return notes, nil
}

func (r *MemoryNotesRepo) Insert(ctx context.Context, note model.Note) (model.Note, error) {
	if note.UserID == "" {
		return model.Note{}, errors.New("user ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	now := r.now().UTC()
	note.ID = r.lastID
	note.CreatedAt = now
	note.UpdatedAt = now
	r.notes[note.ID] = note

	return note, nil
}

func (r *MemoryNotesRepo) Update(ctx context.Context, ownerID string, id int64, changes model.NoteChanges) (model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	note, ok := r.notes[id]
	if !ok || note.UserID != ownerID {
		return model.Note{}, ErrNoteNotFound
	}

	if changes.Title != nil {
		note.Title = *changes.Title
	}
	if changes.Content != nil {
		note.Content = *changes.Content
	}
	note.UpdatedAt = changes.UpdatedAt
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = r.now().UTC()
	}
	r.notes[id] = note

	return note, nil
}

func (r *MemoryNotesRepo) Delete(ctx context.Context, ownerID string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if note, ok := r.notes[id]; ok && note.UserID == ownerID {
		delete(r.notes, id)
	}
	return nil
}

func (r *MemoryNotesRepo) Ping(context.Context) error {
	return nil
}
