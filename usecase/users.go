package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dododo1295/quicknotes/model"
	"github.com/dododo1295/quicknotes/repository"
	"github.com/dododo1295/quicknotes/services"
	"github.com/dododo1295/quicknotes/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// ValidationError carries a message naming the offending field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type RegisterInput struct {
	Username    string `validate:"required,min=3,max=32,alphanum"`
	Email       string `validate:"required,email,max=254"`
	Password    string `validate:"required,password"`
	DisplayName string `validate:"max=50"`
}

type UserService struct {
	users     repository.UserStore
	tokens    *services.TokenIssuer
	blacklist services.TokenBlacklist
	validate  *validator.Validate
	now       func() time.Time
}

func NewUserService(users repository.UserStore, tokens *services.TokenIssuer, blacklist services.TokenBlacklist) *UserService {
	return &UserService{
		users:     users,
		tokens:    tokens,
		blacklist: blacklist,
		validate:  utils.NewValidator(),
		now:       time.Now,
	}
}

// Register creates an account and signs the user in.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (model.User, services.TokenPair, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.DisplayName = strings.TrimSpace(in.DisplayName)

	if err := s.validate.Struct(in); err != nil {
		utils.TrackAuthAttempt("failure", "register")
		return model.User{}, services.TokenPair{}, &ValidationError{Message: utils.ValidationMessage(err)}
	}

	userID, err := utils.GenerateUserID()
	if err != nil {
		return model.User{}, services.TokenPair{}, err
	}

	hashed, err := services.HashPassword(in.Password)
	if err != nil {
		return model.User{}, services.TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		UserID:      userID,
		Username:    in.Username,
		Email:       in.Email,
		DisplayName: in.DisplayName,
		Password:    hashed,
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
	}

	if err := s.users.AddUser(ctx, user); err != nil {
		utils.TrackAuthAttempt("failure", "register")
		return model.User{}, services.TokenPair{}, err
	}

	pair, err := s.tokens.IssuePair(user.UserID)
	if err != nil {
		return model.User{}, services.TokenPair{}, err
	}

	utils.TrackAuthAttempt("success", "register")
	return user, pair, nil
}

// Login checks the password and returns a fresh token pair.
func (s *UserService) Login(ctx context.Context, username, password string) (model.User, services.TokenPair, error) {
	user, err := s.users.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		utils.TrackAuthAttempt("failure", "login")
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.User{}, services.TokenPair{}, ErrInvalidCredentials
		}
		return model.User{}, services.TokenPair{}, err
	}

	if !services.ComparePasswords(user.Password, password) {
		utils.TrackAuthAttempt("failure", "login")
		return model.User{}, services.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.UserID)
	if err != nil {
		return model.User{}, services.TokenPair{}, err
	}

	utils.TrackAuthAttempt("success", "login")
	return user, pair, nil
}

// Authorize verifies an access token and returns the identity it carries.
func (s *UserService) Authorize(ctx context.Context, accessToken string) (model.Owner, error) {
	claims, err := s.checkToken(ctx, accessToken, services.AccessToken)
	if err != nil {
		return model.Owner{}, err
	}
	return model.TrustedOwner(claims.Subject), nil
}

// Refresh trades a refresh token for a new pair and revokes the old one.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (services.TokenPair, error) {
	claims, err := s.checkToken(ctx, refreshToken, services.RefreshToken)
	if err != nil {
		utils.TrackAuthAttempt("failure", "refresh")
		return services.TokenPair{}, err
	}

	if _, err := s.users.FindUser(ctx, claims.Subject); err != nil {
		utils.TrackAuthAttempt("failure", "refresh")
		return services.TokenPair{}, err
	}

	if err := s.blacklist.Revoke(ctx, refreshToken, claims.ExpiresAt.Time); err != nil {
		return services.TokenPair{}, err
	}
	utils.TrackTokenUsage(string(services.RefreshToken), "revoked")

	pair, err := s.tokens.IssuePair(claims.Subject)
	if err != nil {
		return services.TokenPair{}, err
	}

	utils.TrackAuthAttempt("success", "refresh")
	return pair, nil
}

// Logout revokes the access token and, when given, the refresh token.
func (s *UserService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	claims, err := s.tokens.Parse(accessToken, services.AccessToken)
	if err != nil {
		return err
	}
	if err := s.blacklist.Revoke(ctx, accessToken, claims.ExpiresAt.Time); err != nil {
		return err
	}
	utils.TrackTokenUsage(string(services.AccessToken), "revoked")

	if refreshToken == "" {
		return nil
	}

	refresh, err := s.tokens.Parse(refreshToken, services.RefreshToken)
	if err != nil {
		return err
	}
	if refresh.Subject != claims.Subject {
		return fmt.Errorf("%w: refresh token belongs to another user", services.ErrInvalidToken)
	}
	if err := s.blacklist.Revoke(ctx, refreshToken, refresh.ExpiresAt.Time); err != nil {
		return err
	}
	utils.TrackTokenUsage(string(services.RefreshToken), "revoked")
	return nil
}

// Profile loads the owner's account.
func (s *UserService) Profile(ctx context.Context, owner model.Owner) (model.User, error) {
	if owner.IsZero() {
		return model.User{}, repository.ErrUserNotFound
	}
	return s.users.FindUser(ctx, owner.ID())
}

func (s *UserService) checkToken(ctx context.Context, token string, want services.TokenType) (*services.Claims, error) {
	claims, err := s.tokens.Parse(token, want)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}
