package model

import "time"

type UserStats struct {
	NotesStats    NotesStats    `json:"notes"`
	ActivityStats ActivityStats `json:"activity"`
}

type NotesStats struct {
	Total    int `json:"total"`
	LastWeek int `json:"last_week"`
	Edited   int `json:"edited"` // updated after creation
}

type ActivityStats struct {
	AccountCreated time.Time  `json:"account_created"`
	LastNoteAt     *time.Time `json:"last_note_at,omitempty"`
	LastEditAt     *time.Time `json:"last_edit_at,omitempty"`
}

// SummarizeNotes fills the note counters from notes ordered newest first.
func SummarizeNotes(notes []Note, now time.Time) (NotesStats, ActivityStats) {
	var ns NotesStats
	var as ActivityStats

	weekAgo := now.Add(-7 * 24 * time.Hour)
	ns.Total = len(notes)
	for i, n := range notes {
		if !n.CreatedAt.Before(weekAgo) {
			ns.LastWeek++
		}
		if n.UpdatedAt.After(n.CreatedAt) {
			ns.Edited++
			if as.LastEditAt == nil || n.UpdatedAt.After(*as.LastEditAt) {
				edited := n.UpdatedAt
				as.LastEditAt = &edited
			}
		}
		if i == 0 {
			created := n.CreatedAt
			as.LastNoteAt = &created
		}
	}
	return ns, as
}
