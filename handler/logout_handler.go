package handler

import (
	"errors"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/dododo1295/quicknotes/dto"
	"github.com/dododo1295/quicknotes/middleware"
	"github.com/dododo1295/quicknotes/services"
	"github.com/dododo1295/quicknotes/usecase"
	"github.com/dododo1295/quicknotes/utils"
)

// LogoutHandler revokes the caller's access token. A refresh token may be
// passed in the body or the Refresh-Token header.
func LogoutHandler(c *gin.Context, userService *usecase.UserService) {
	var req dto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(c, "Invalid request body")
		return
	}
	if req.RefreshToken == "" {
		req.RefreshToken = c.GetHeader("Refresh-Token")
	}

	err := userService.Logout(c.Request.Context(), middleware.AccessToken(c), req.RefreshToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) || errors.Is(err, services.ErrWrongTokenType) {
			utils.BadRequest(c, "Invalid refresh token")
			return
		}
		slog.ErrorContext(c.Request.Context(), "logout failed", utils.Err(err))
		utils.InternalError(c, "Failed to log out")
		return
	}

	utils.Success(c, "Logged out", nil)
}
