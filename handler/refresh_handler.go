package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/dododo1295/quicknotes/dto"
	"github.com/dododo1295/quicknotes/middleware"
	"github.com/dododo1295/quicknotes/repository"
	"github.com/dododo1295/quicknotes/services"
	"github.com/dododo1295/quicknotes/usecase"
	"github.com/dododo1295/quicknotes/utils"
)

func RefreshTokenHandler(c *gin.Context, userService *usecase.UserService) {
	refreshToken, ok := middleware.BearerToken(c)
	if !ok {
		utils.Unauthorized(c, "Missing or invalid refresh token")
		return
	}

	pair, err := userService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidToken),
			errors.Is(err, services.ErrWrongTokenType),
			errors.Is(err, usecase.ErrTokenRevoked),
			errors.Is(err, repository.ErrUserNotFound):
			utils.Unauthorized(c, "Invalid refresh token")
		default:
			slog.ErrorContext(c.Request.Context(), "token refresh failed", utils.Err(err))
			utils.InternalError(c, "Failed to refresh token")
		}
		return
	}

	utils.Success(c, "Token refreshed", dto.ToTokenResponse(pair))
}
