package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dododo1295/quicknotes/model"
	"github.com/dododo1295/quicknotes/utils"
)

const noteColumns = "id, user_id, title, content, created_at, updated_at"

var _ NoteStore = (*NotesPGRepo)(nil)

type NotesPGRepo struct {
	db DB
}

func NewNotesPGRepo(db DB) *NotesPGRepo {
	return &NotesPGRepo{db: db}
}

type noteRow struct {
	ID        int64     `db:"id"`
	UserID    string    `db:"user_id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (n noteRow) toModel() model.Note {
	return model.Note{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt.UTC(),
		UpdatedAt: n.UpdatedAt.UTC(),
	}
}

func (r *NotesPGRepo) Find(ctx context.Context, ownerID string, filter Filter) ([]model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	where, args := pgNoteWhere(ownerID, filter)
	query := "SELECT " + noteColumns + " FROM notes WHERE " + where +
		" ORDER BY created_at DESC, id DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select notes: %w", err)
	}

	found, err := pgx.CollectRows(rows, pgx.RowToStructByName[noteRow])
	if err != nil {
		return nil, fmt.Errorf("scan notes: %w", err)
	}

	notes := make([]model.Note, 0, len(found))
	for _, row := range found {
		notes = append(notes, row.toModel())
	}
	return notes, nil
}

func (r *NotesPGRepo) Insert(ctx context.Context, note model.Note) (model.Note, error) {
	timer := utils.TrackDBOperation("insert", "notes")
	defer timer.ObserveDuration()

	if note.UserID == "" {
		return model.Note{}, errors.New("user ID is required")
	}

	rows, err := r.db.Query(ctx,
		"INSERT INTO notes (user_id, title, content) VALUES ($1, $2, $3) RETURNING "+noteColumns,
		note.UserID, note.Title, note.Content,
	)
	if err != nil {
		return model.Note{}, fmt.Errorf("insert note: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[noteRow])
	if err != nil {
		return model.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return row.toModel(), nil
}

func (r *NotesPGRepo) Update(ctx context.Context, ownerID string, id int64, changes model.NoteChanges) (model.Note, error) {
	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()

	sets := []string{"updated_at = $1"}
	args := []any{changes.UpdatedAt.UTC()}
	if changes.Title != nil {
		args = append(args, *changes.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if changes.Content != nil {
		args = append(args, *changes.Content)
		sets = append(sets, fmt.Sprintf("content = $%d", len(args)))
	}
	args = append(args, id, ownerID)

	query := fmt.Sprintf(
		"UPDATE notes SET %s WHERE id = $%d AND user_id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args)-1, len(args), noteColumns,
	)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Note{}, fmt.Errorf("update note: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[noteRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Note{}, ErrNoteNotFound
		}
		return model.Note{}, fmt.Errorf("update note: %w", err)
	}
	return row.toModel(), nil
}

func (r *NotesPGRepo) Delete(ctx context.Context, ownerID string, id int64) error {
	timer := utils.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()

	if _, err := r.db.Exec(ctx, "DELETE FROM notes WHERE id = $1 AND user_id = $2", id, ownerID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func (r *NotesPGRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// pgNoteWhere renders filter as a WHERE clause with positional arguments.
func pgNoteWhere(ownerID string, f Filter) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{ownerID}

	add := func(format string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}

	if f.ID != nil {
		add("id = $%d", *f.ID)
	}
	if !f.CreatedFrom.IsZero() {
		add("created_at >= $%d", f.CreatedFrom)
	}
	if !f.CreatedTo.IsZero() {
		add("created_at <= $%d", f.CreatedTo)
	}
	if f.TitleEquals != "" {
		add("lower(title) = lower($%d)", f.TitleEquals)
	}
	if f.Contains != "" {
		args = append(args, "%"+likeEscaper.Replace(f.Contains)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(`(title ILIKE $%d ESCAPE '\' OR content ILIKE $%d ESCAPE '\')`, n, n))
	}

	return strings.Join(conds, " AND "), args
}
