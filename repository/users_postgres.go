package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dododo1295/quicknotes/model"
	"github.com/dododo1295/quicknotes/utils"
)

const userColumns = "user_id, username, email, display_name, password, created_at"

var _ UserStore = (*UserPGRepo)(nil)

type UserPGRepo struct {
	db DB
}

func NewUserPGRepo(db DB) *UserPGRepo {
	return &UserPGRepo{db: db}
}

type userRow struct {
	UserID      string    `db:"user_id"`
	Username    string    `db:"username"`
	Email       string    `db:"email"`
	DisplayName string    `db:"display_name"`
	Password    string    `db:"password"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r *UserPGRepo) AddUser(ctx context.Context, user model.User) error {
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	if user.Username == "" || user.Password == "" {
		utils.TrackError("database", "invalid_user_data")
		return errors.New("username and password required")
	}

	_, err := r.db.Exec(ctx,
		"INSERT INTO users ("+userColumns+") VALUES ($1, $2, $3, $4, $5, $6)",
		user.UserID, user.Username, user.Email, user.DisplayName, user.Password, user.CreatedAt.UTC(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrUserExists
		}
		utils.TrackError("database", "user_creation_failed")
		return fmt.Errorf("add user: %w", err)
	}
	return nil
}

func (r *UserPGRepo) FindUserByUsername(ctx context.Context, username string) (model.User, error) {
	return r.findOne(ctx, "username = $1", username)
}

func (r *UserPGRepo) FindUser(ctx context.Context, userID string) (model.User, error) {
	return r.findOne(ctx, "user_id = $1", userID)
}

func (r *UserPGRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *UserPGRepo) findOne(ctx context.Context, where string, arg any) (model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	rows, err := r.db.Query(ctx, "SELECT "+userColumns+" FROM users WHERE "+where, arg)
	if err != nil {
		return model.User{}, fmt.Errorf("find user: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[userRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		utils.TrackError("database", "user_lookup_error")
		return model.User{}, fmt.Errorf("find user: %w", err)
	}

	return model.User{
		UserID:      row.UserID,
		Username:    row.Username,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		Password:    row.Password,
		CreatedAt:   row.CreatedAt.UTC(),
	}, nil
}
