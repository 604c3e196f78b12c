package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dododo1295/quicknotes/utils"
)

func EnhancedRecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.ErrorContext(c.Request.Context(), "panic while handling request",
					slog.Any("panic", err),
					slog.String("request_id", c.GetString(requestIDKey)),
					slog.String("path", c.Request.URL.Path),
				)
				utils.TrackError("http", "panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, &utils.Response{
					Error: "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
