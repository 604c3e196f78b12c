package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dododo1295/quicknotes/model"
)

func strPtr(s string) *string { return &s }

// runNoteStoreContract exercises behaviour every NoteStore must share.
func runNoteStoreContract(t *testing.T, newStore func(t *testing.T) NoteStore) {
	ctx := context.Background()

	t.Run("insert assigns id and timestamps", func(t *testing.T) {
		store := newStore(t)

		note, err := store.Insert(ctx, model.Note{UserID: "alice", Title: "Groceries", Content: "milk"})
		require.NoError(t, err)
		assert.NotZero(t, note.ID)
		assert.False(t, note.CreatedAt.IsZero())
		assert.Equal(t, note.CreatedAt, note.UpdatedAt)
		assert.Equal(t, "alice", note.UserID)
	})

	t.Run("insert without owner fails", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Insert(ctx, model.Note{Title: "orphan", Content: "x"})
		assert.Error(t, err)
	})

	t.Run("find is scoped to owner and newest first", func(t *testing.T) {
		store := newStore(t)

		first, err := store.Insert(ctx, model.Note{UserID: "alice", Title: "one", Content: "a"})
		require.NoError(t, err)
		second, err := store.Insert(ctx, model.Note{UserID: "alice", Title: "two", Content: "b"})
		require.NoError(t, err)
		_, err = store.Insert(ctx, model.Note{UserID: "bob", Title: "three", Content: "c"})
		require.NoError(t, err)

		notes, err := store.Find(ctx, "alice", Filter{})
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, second.ID, notes[0].ID)
		assert.Equal(t, first.ID, notes[1].ID)

		notes, err = store.Find(ctx, "carol", Filter{})
		require.NoError(t, err)
		assert.NotNil(t, notes)
		assert.Empty(t, notes)
	})

	t.Run("find by id respects owner", func(t *testing.T) {
		store := newStore(t)

		note, err := store.Insert(ctx, model.Note{UserID: "alice", Title: "mine", Content: "x"})
		require.NoError(t, err)

		notes, err := store.Find(ctx, "alice", ByID(note.ID))
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "mine", notes[0].Title)

		notes, err = store.Find(ctx, "bob", ByID(note.ID))
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("contains matches title or content literally", func(t *testing.T) {
		store := newStore(t)

		for _, n := range []model.Note{
			{UserID: "alice", Title: "Shopping list", Content: "eggs"},
			{UserID: "alice", Title: "Work", Content: "Plan the SHOPPING trip"},
			{UserID: "alice", Title: "100% done", Content: "a_b"},
			{UserID: "alice", Title: "Other", Content: "nothing"},
			{UserID: "bob", Title: "shopping", Content: "bob's"},
		} {
			_, err := store.Insert(ctx, n)
			require.NoError(t, err)
		}

		notes, err := store.Find(ctx, "alice", Filter{Contains: "shopping"})
		require.NoError(t, err)
		assert.Len(t, notes, 2)

		notes, err = store.Find(ctx, "alice", Filter{Contains: "%"})
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "100% done", notes[0].Title)

		notes, err = store.Find(ctx, "alice", Filter{Contains: "_"})
		require.NoError(t, err)
		assert.Len(t, notes, 1)

		notes, err = store.Find(ctx, "alice", Filter{Contains: ".*"})
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("title equals is case-insensitive and exact", func(t *testing.T) {
		store := newStore(t)

		for _, title := range []string{"Groceries", "groceries list", "GROCERIES"} {
			_, err := store.Insert(ctx, model.Note{UserID: "alice", Title: title, Content: "x"})
			require.NoError(t, err)
		}

		notes, err := store.Find(ctx, "alice", Filter{TitleEquals: "groceries"})
		require.NoError(t, err)
		assert.Len(t, notes, 2)

		notes, err = store.Find(ctx, "alice", Filter{TitleEquals: "grocer%"})
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("created range is inclusive", func(t *testing.T) {
		store := newStore(t)

		note, err := store.Insert(ctx, model.Note{UserID: "alice", Title: "dated", Content: "x"})
		require.NoError(t, err)

		notes, err := store.Find(ctx, "alice", Filter{CreatedFrom: note.CreatedAt, CreatedTo: note.CreatedAt})
		require.NoError(t, err)
		assert.Len(t, notes, 1)

		notes, err = store.Find(ctx, "alice", Filter{CreatedFrom: note.CreatedAt.Add(time.Hour)})
		require.NoError(t, err)
		assert.Empty(t, notes)

		notes, err = store.Find(ctx, "alice", Filter{CreatedTo: note.CreatedAt.Add(-time.Hour)})
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("update changes only given fields", func(t *testing.T) {
		store := newStore(t)

		note, err := store.Insert(ctx, model.Note{UserID: "alice", Title: "before", Content: "body"})
		require.NoError(t, err)

		later := note.UpdatedAt.Add(time.Minute)
		updated, err := store.Update(ctx, "alice", note.ID, model.NoteChanges{Title: strPtr("after"), UpdatedAt: later})
		require.NoError(t, err)
		assert.Equal(t, "after", updated.Title)
		assert.Equal(t, "body", updated.Content)
		assert.Equal(t, note.CreatedAt, updated.CreatedAt)
		assert.True(t, updated.UpdatedAt.Equal(later))
	})

	t.Run("update of foreign or missing note is not found", func(t *testing.T) {
		store := newStore(t)

		note, err := store.Insert(ctx, model.Note{UserID: "alice", Title: "t", Content: "c"})
		require.NoError(t, err)

		_, err = store.Update(ctx, "bob", note.ID, model.NoteChanges{Title: strPtr("hijack"), UpdatedAt: time.Now()})
		assert.ErrorIs(t, err, ErrNoteNotFound)

		_, err = store.Update(ctx, "alice", note.ID+1000, model.NoteChanges{Title: strPtr("x"), UpdatedAt: time.Now()})
		assert.ErrorIs(t, err, ErrNoteNotFound)

		notes, err := store.Find(ctx, "alice", ByID(note.ID))
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "t", notes[0].Title)
	})

	t.Run("delete is owner scoped and idempotent", func(t *testing.T) {
		store := newStore(t)

		note, err := store.Insert(ctx, model.Note{UserID: "alice", Title: "t", Content: "c"})
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, "bob", note.ID))
		notes, err := store.Find(ctx, "alice", ByID(note.ID))
		require.NoError(t, err)
		assert.Len(t, notes, 1)

		require.NoError(t, store.Delete(ctx, "alice", note.ID))
		require.NoError(t, store.Delete(ctx, "alice", note.ID))
		notes, err = store.Find(ctx, "alice", ByID(note.ID))
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(ctx))
	})
}

func runUserStoreContract(t *testing.T, newStore func(t *testing.T) UserStore) {
	ctx := context.Background()
	user := model.User{
		UserID:    "u-1",
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "salt$hash",
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	t.Run("add and find", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.AddUser(ctx, user))

		byName, err := store.FindUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.UserID, byName.UserID)
		assert.Equal(t, user.Password, byName.Password)

		byID, err := store.FindUser(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", byID.Email)
	})

	t.Run("duplicates are rejected", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.AddUser(ctx, user))

		dupName := user
		dupName.UserID = "u-2"
		dupName.Email = "other@example.com"
		assert.ErrorIs(t, store.AddUser(ctx, dupName), ErrUserExists)

		dupEmail := user
		dupEmail.UserID = "u-3"
		dupEmail.Username = "alice2"
		dupEmail.Email = "ALICE@example.com"
		assert.ErrorIs(t, store.AddUser(ctx, dupEmail), ErrUserExists)
	})

	t.Run("missing user", func(t *testing.T) {
		store := newStore(t)

		_, err := store.FindUserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrUserNotFound)

		_, err = store.FindUser(ctx, "nobody")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
