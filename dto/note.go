package dto

import (
	"strconv"
	"time"

	"github.com/dododo1295/quicknotes/model"
)

type Link struct {
	Href   string `json:"href"`
	Method string `json:"method,omitempty"` // Optional: GET, POST, PUT, PATCH, DELETE
}

// CreateNoteRequest is bound without binding tags; the service validates
// trimmed values.
type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateNoteRequest distinguishes an absent field (nil) from an empty one.
type UpdateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type NoteResponse struct {
	ID        int64           `json:"id"`
	UserID    string          `json:"user_id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Links     map[string]Link `json:"_links,omitempty"`
}

func NoteLinks(id int64) map[string]Link {
	self := "/api/notes/" + strconv.FormatInt(id, 10)
	return map[string]Link{
		"self":   {Href: self, Method: "GET"},
		"update": {Href: self, Method: "PATCH"},
		"delete": {Href: self, Method: "DELETE"},
	}
}

// Convert a single note to NoteResponse
func ToNoteResponse(note model.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		UserID:    note.UserID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
		Links:     NoteLinks(note.ID),
	}
}

// Convert slice of notes to slice of NoteResponse
func ToNoteResponses(notes []model.Note) []NoteResponse {
	responses := make([]NoteResponse, len(notes))
	for i, note := range notes {
		responses[i] = ToNoteResponse(note)
	}
	return responses
}
