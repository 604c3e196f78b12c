package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dododo1295/quicknotes/middleware"
	"github.com/dododo1295/quicknotes/model"
	"github.com/dododo1295/quicknotes/repository"
	"github.com/dododo1295/quicknotes/usecase"
	"github.com/dododo1295/quicknotes/utils"
)

type StatsHandler struct {
	userService  *usecase.UserService
	notesService *usecase.NotesService
	now          func() time.Time
}

func NewStatsHandler(userService *usecase.UserService, notesService *usecase.NotesService) *StatsHandler {
	return &StatsHandler{
		userService:  userService,
		notesService: notesService,
		now:          time.Now,
	}
}

func (h *StatsHandler) GetUserStats(c *gin.Context) {
	ctx := c.Request.Context()
	owner := middleware.Owner(c)

	user, err := h.userService.Profile(ctx, owner)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.NotFound(c, "User not found")
			return
		}
		slog.ErrorContext(ctx, "error fetching user", slog.String("user_id", owner.ID()), utils.Err(err))
		utils.InternalError(c, "Failed to fetch user details")
		return
	}

	res := h.notesService.GetAllNotes(ctx, owner)
	if !res.OK() {
		respond(c, res, 0, nil)
		return
	}

	var stats model.UserStats
	stats.NotesStats, stats.ActivityStats = model.SummarizeNotes(res.Data, h.now())
	stats.ActivityStats.AccountCreated = user.CreatedAt

	utils.Success(c, "Stats found", gin.H{
		"stats": stats,
	})
}
