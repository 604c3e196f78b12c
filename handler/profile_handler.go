package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/dododo1295/quicknotes/dto"
	"github.com/dododo1295/quicknotes/middleware"
	"github.com/dododo1295/quicknotes/repository"
	"github.com/dododo1295/quicknotes/usecase"
	"github.com/dododo1295/quicknotes/utils"
)

func GetUserProfileHandler(c *gin.Context, userService *usecase.UserService) {
	user, err := userService.Profile(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.NotFound(c, "User not found")
			return
		}
		slog.ErrorContext(c.Request.Context(), "profile lookup failed", utils.Err(err))
		utils.InternalError(c, "Could not fetch user details")
		return
	}

	utils.Success(c, "Profile found", dto.ToUserProfileResponse(user))
}
