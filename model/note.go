package model

import (
	"strings"
	"time"
)

type Note struct {
	ID        int64     `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Normalize trims title and content. Rows pass through it on the way in and out.
func (n Note) Normalize() Note {
	n.Title = strings.TrimSpace(n.Title)
	n.Content = strings.TrimSpace(n.Content)
	return n
}

// NoteChanges is the set of columns an update may touch.
type NoteChanges struct {
	Title     *string
	Content   *string
	UpdatedAt time.Time
}
