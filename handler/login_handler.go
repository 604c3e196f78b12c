package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/dododo1295/quicknotes/dto"
	"github.com/dododo1295/quicknotes/usecase"
	"github.com/dododo1295/quicknotes/utils"
)

func LoginHandler(c *gin.Context, userService *usecase.UserService) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("auth", "invalid_request")
		utils.TrackAuthAttempt("failure", "validation")
		utils.BadRequest(c, "Invalid request body")
		return
	}

	user, pair, err := userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			utils.Unauthorized(c, "Invalid username or password")
			return
		}
		slog.ErrorContext(c.Request.Context(), "login failed", utils.Err(err))
		utils.InternalError(c, "Failed to log in")
		return
	}

	utils.Success(c, "Login successful", dto.AuthResponse{
		User:   dto.ToUserProfileResponse(user),
		Tokens: dto.ToTokenResponse(pair),
	})
}
