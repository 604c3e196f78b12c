package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/dododo1295/quicknotes/middleware"
	"github.com/dododo1295/quicknotes/model"
	"github.com/dododo1295/quicknotes/repository"
	"github.com/dododo1295/quicknotes/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// tokenIsOwner accepts any bearer token and treats it as the user id.
type tokenIsOwner struct{}

func (tokenIsOwner) Authorize(_ context.Context, token string) (model.Owner, error) {
	return model.TrustedOwner(token), nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
	Total   *int            `json:"total"`
}

func newNotesRouter(store repository.NoteStore) *gin.Engine {
	svc := usecase.NewNotesService(store)

	router := gin.New()
	notes := router.Group("/api/notes", middleware.AuthMiddleware(tokenIsOwner{}))
	notes.GET("", func(c *gin.Context) { GetUserNotesHandler(c, svc) })
	notes.GET("/search", func(c *gin.Context) { SearchNotesHandler(c, svc) })
	notes.GET("/by-date", func(c *gin.Context) { GetNotesByDateHandler(c, svc) })
	notes.GET("/by-title", func(c *gin.Context) { GetNotesByTitleHandler(c, svc) })
	notes.GET("/:id", func(c *gin.Context) { GetNoteHandler(c, svc) })
	notes.POST("", func(c *gin.Context) { CreateNoteHandler(c, svc) })
	notes.PATCH("/:id", func(c *gin.Context) { UpdateNoteHandler(c, svc) })
	notes.DELETE("/:id", func(c *gin.Context) { DeleteNoteHandler(c, svc) })
	return router
}

func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}
