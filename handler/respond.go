package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dododo1295/quicknotes/usecase"
	"github.com/dododo1295/quicknotes/utils"
)

// respond writes a service result as an envelope. render shapes the payload
// of an OK result and may be nil when there is none.
func respond[T any](c *gin.Context, res usecase.Result[T], okStatus int, render func(T) interface{}) {
	switch res.Kind {
	case usecase.KindOK:
		body := &utils.Response{
			Success: true,
			Message: res.Message,
			Total:   res.Total,
		}
		if render != nil {
			body.Data = render(res.Data)
		}
		c.JSON(okStatus, body)
	case usecase.KindNotFound:
		utils.NotFound(c, res.Message)
	case usecase.KindInvalid:
		utils.BadRequest(c, res.Error)
	default:
		if usecase.IsNoRow(res) {
			utils.Fail(c, http.StatusNotFound, res.Error)
			return
		}
		if cause := res.Cause(); cause != nil {
			_ = c.Error(cause)
		}
		utils.TrackError("notes", "store_failure")
		utils.InternalError(c, res.Error)
	}
}
