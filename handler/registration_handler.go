package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/dododo1295/quicknotes/dto"
	"github.com/dododo1295/quicknotes/repository"
	"github.com/dododo1295/quicknotes/usecase"
	"github.com/dododo1295/quicknotes/utils"
)

func RegistrationHandler(c *gin.Context, userService *usecase.UserService) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("auth", "invalid_request")
		utils.BadRequest(c, "Invalid request body")
		return
	}

	user, pair, err := userService.Register(c.Request.Context(), usecase.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		var verr *usecase.ValidationError
		switch {
		case errors.As(err, &verr):
			utils.BadRequest(c, verr.Message)
		case errors.Is(err, repository.ErrUserExists):
			utils.Conflict(c, "Username or email already exists")
		default:
			slog.ErrorContext(c.Request.Context(), "registration failed", utils.Err(err))
			utils.InternalError(c, "Failed to register user")
		}
		return
	}

	utils.Created(c, "User registered", dto.AuthResponse{
		User:   dto.ToUserProfileResponse(user),
		Tokens: dto.ToTokenResponse(pair),
	})
}
