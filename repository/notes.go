package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dododo1295/quicknotes/model"
	"github.com/dododo1295/quicknotes/utils"
)

const countersCollection = "counters"

var _ NoteStore = (*NotesRepo)(nil)

type NotesRepo struct {
	MongoCollection *mongo.Collection
	Counters        *mongo.Collection
}

func GetNotesRepo(db *mongo.Database, collection string) *NotesRepo {
	return &NotesRepo{
		MongoCollection: db.Collection(collection),
		Counters:        db.Collection(countersCollection),
	}
}

// Find retrieves the owner's notes matching filter, newest first
func (r *NotesRepo) Find(ctx context.Context, ownerID string, filter Filter) ([]model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := r.MongoCollection.Find(ctx, mongoNoteFilter(ownerID, filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find notes: %w", err)
	}
	defer cursor.Close(ctx)

	notes := make([]model.Note, 0)
	if err = cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	return notes, nil
}

// Insert assigns the next id from the counters collection and stores the note
func (r *NotesRepo) Insert(ctx context.Context, note model.Note) (model.Note, error) {
	timer := utils.TrackDBOperation("insert", "notes")
	defer timer.ObserveDuration()

	if note.UserID == "" {
		return model.Note{}, errors.New("user ID is required")
	}

	id, err := r.nextID(ctx)
	if err != nil {
		return model.Note{}, err
	}

	// BSON dates carry milliseconds.
	now := time.Now().UTC().Truncate(time.Millisecond)
	note.ID = id
	note.CreatedAt = now
	note.UpdatedAt = now

	if _, err := r.MongoCollection.InsertOne(ctx, note); err != nil {
		return model.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return note, nil
}

// Update sets the changed fields and returns the document after the update
func (r *NotesRepo) Update(ctx context.Context, ownerID string, id int64, changes model.NoteChanges) (model.Note, error) {
	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()

	set := bson.M{"updated_at": changes.UpdatedAt.UTC().Truncate(time.Millisecond)}
	if changes.Title != nil {
		set["title"] = *changes.Title
	}
	if changes.Content != nil {
		set["content"] = *changes.Content
	}

	filter := bson.M{
		"_id":     id,
		"user_id": ownerID,
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var note model.Note
	err := r.MongoCollection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Note{}, ErrNoteNotFound
		}
		return model.Note{}, fmt.Errorf("update note: %w", err)
	}
	return note, nil
}

// Delete removes the owner's note. A missing note is not an error
func (r *NotesRepo) Delete(ctx context.Context, ownerID string, id int64) error {
	timer := utils.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     id,
		"user_id": ownerID,
	}

	if _, err := r.MongoCollection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func (r *NotesRepo) Ping(ctx context.Context) error {
	return r.MongoCollection.Database().Client().Ping(ctx, readpref.Primary())
}

func (r *NotesRepo) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.Counters.FindOneAndUpdate(ctx,
		bson.M{"_id": r.MongoCollection.Name()},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next note id: %w", err)
	}
	return counter.Seq, nil
}

func mongoNoteFilter(ownerID string, f Filter) bson.M {
	filter := bson.M{"user_id": ownerID}

	if f.ID != nil {
		filter["_id"] = *f.ID
	}

	if !f.CreatedFrom.IsZero() || !f.CreatedTo.IsZero() {
		created := bson.M{}
		if !f.CreatedFrom.IsZero() {
			created["$gte"] = f.CreatedFrom
		}
		if !f.CreatedTo.IsZero() {
			created["$lte"] = f.CreatedTo
		}
		filter["created_at"] = created
	}

	if f.TitleEquals != "" {
		filter["title"] = primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(f.TitleEquals) + "$",
			Options: "i",
		}
	}

	if f.Contains != "" {
		term := primitive.Regex{Pattern: regexp.QuoteMeta(f.Contains), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": term},
			bson.M{"content": term},
		}
	}

	return filter
}
