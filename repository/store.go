package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dododo1295/quicknotes/model"
)

var (
	ErrNoteNotFound = errors.New("note not found")
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// NoteStore is the persistent notes table. Every method takes the owner id as
// a separate argument and scopes its query to it.
type NoteStore interface {
	// Find returns matching notes ordered by created_at, newest first.
	Find(ctx context.Context, ownerID string, filter Filter) ([]model.Note, error)
	// Insert stores a note and returns the stored row with id and timestamps.
	Insert(ctx context.Context, note model.Note) (model.Note, error)
	// Update applies changes and returns the row after the update. It returns
	// ErrNoteNotFound when no row matches.
	Update(ctx context.Context, ownerID string, id int64, changes model.NoteChanges) (model.Note, error)
	// Delete removes the note if it exists. Deleting nothing is not an error.
	Delete(ctx context.Context, ownerID string, id int64) error
	Ping(ctx context.Context) error
}

type UserStore interface {
	AddUser(ctx context.Context, user model.User) error
	FindUserByUsername(ctx context.Context, username string) (model.User, error)
	FindUser(ctx context.Context, userID string) (model.User, error)
	Ping(ctx context.Context) error
}

// Filter narrows a Find. Zero fields are ignored; set fields are combined with AND.
type Filter struct {
	ID *int64
	// Inclusive bounds on created_at.
	CreatedFrom time.Time
	CreatedTo   time.Time
	// Case-insensitive equality on title. Pattern characters match literally.
	TitleEquals string
	// Case-insensitive substring of title or content, matched literally.
	Contains string
}

func ByID(id int64) Filter {
	return Filter{ID: &id}
}

func (f Filter) matches(n model.Note) bool {
	if f.ID != nil && n.ID != *f.ID {
		return false
	}
	if !f.CreatedFrom.IsZero() && n.CreatedAt.Before(f.CreatedFrom) {
		return false
	}
	if !f.CreatedTo.IsZero() && n.CreatedAt.After(f.CreatedTo) {
		return false
	}
	if f.TitleEquals != "" && !strings.EqualFold(n.Title, f.TitleEquals) {
		return false
	}
	if f.Contains != "" {
		term := strings.ToLower(f.Contains)
		if !strings.Contains(strings.ToLower(n.Title), term) &&
			!strings.Contains(strings.ToLower(n.Content), term) {
			return false
		}
	}
	return true
}
