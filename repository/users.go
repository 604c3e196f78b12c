package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dododo1295/quicknotes/model"
	"github.com/dododo1295/quicknotes/utils"
)

var _ UserStore = (*UserRepo)(nil)

func GetUserRepo(db *mongo.Database, collection string) *UserRepo {
	return &UserRepo{
		MongoCollection: db.Collection(collection),
	}
}

type UserRepo struct {
	MongoCollection *mongo.Collection
}

func (r *UserRepo) AddUser(ctx context.Context, user model.User) error {
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	if user.Username == "" || user.Password == "" {
		utils.TrackError("database", "invalid_user_data")
		return errors.New("username and password required")
	}

	if _, err := r.MongoCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserExists
		}
		utils.TrackError("database", "user_creation_failed")
		return fmt.Errorf("add user: %w", err)
	}
	return nil
}

func (r *UserRepo) FindUserByUsername(ctx context.Context, username string) (model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

func (r *UserRepo) FindUser(ctx context.Context, userID string) (model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "user_id", Value: userID}})
}

func (r *UserRepo) Ping(ctx context.Context) error {
	return r.MongoCollection.Database().Client().Ping(ctx, readpref.Primary())
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.D) (model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, ErrUserNotFound
		}
		utils.TrackError("database", "user_lookup_error")
		return model.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
