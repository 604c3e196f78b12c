package dto

import (
	"time"

	"github.com/dododo1295/quicknotes/model"
	"github.com/dododo1295/quicknotes/services"
)

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

func ToTokenResponse(pair services.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(pair.ExpiresIn.Seconds()),
	}
}

type AuthResponse struct {
	User   UserProfileResponse `json:"user"`
	Tokens TokenResponse       `json:"tokens"`
}

type UserProfileResponse struct {
	UserID      string          `json:"user_id"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	DisplayName string          `json:"display_name,omitempty"`
	Greeting    string          `json:"greeting"`
	CreatedAt   time.Time       `json:"created_at"`
	Links       map[string]Link `json:"_links,omitempty"`
}

func ToUserProfileResponse(user model.User) UserProfileResponse {
	return UserProfileResponse{
		UserID:      user.UserID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Greeting:    "Hey, " + user.Name() + "!",
		CreatedAt:   user.CreatedAt,
		Links: map[string]Link{
			"self":   {Href: "/api/user/profile", Method: "GET"},
			"notes":  {Href: "/api/notes", Method: "GET"},
			"logout": {Href: "/api/user/logout", Method: "POST"},
		},
	}
}
