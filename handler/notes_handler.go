package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dododo1295/quicknotes/dto"
	"github.com/dododo1295/quicknotes/middleware"
	"github.com/dododo1295/quicknotes/model"
	"github.com/dododo1295/quicknotes/usecase"
	"github.com/dododo1295/quicknotes/utils"
)

const dateOnly = "2006-01-02"

func renderNote(note model.Note) interface{} {
	return dto.ToNoteResponse(note)
}

func renderNotes(notes []model.Note) interface{} {
	return dto.ToNoteResponses(notes)
}

func GetUserNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	res := notesService.GetAllNotes(c.Request.Context(), middleware.Owner(c))
	respond(c, res, http.StatusOK, renderNotes)
}

func GetNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	res := notesService.GetNoteByID(c.Request.Context(), middleware.Owner(c), c.Param("id"))
	respond(c, res, http.StatusOK, renderNote)
}

func SearchNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	res := notesService.SearchNotes(c.Request.Context(), middleware.Owner(c), c.Query("q"))
	respond(c, res, http.StatusOK, renderNotes)
}

func GetNotesByTitleHandler(c *gin.Context, notesService *usecase.NotesService) {
	res := notesService.GetNotesByTitle(c.Request.Context(), middleware.Owner(c), c.Query("title"))
	respond(c, res, http.StatusOK, renderNotes)
}

func GetNotesByDateHandler(c *gin.Context, notesService *usecase.NotesService) {
	start, err := parseDateParam(c.Query("start"), false)
	if err != nil {
		utils.BadRequest(c, "Invalid start date")
		return
	}
	end, err := parseDateParam(c.Query("end"), true)
	if err != nil {
		utils.BadRequest(c, "Invalid end date")
		return
	}

	res := notesService.GetNotesByDate(c.Request.Context(), middleware.Owner(c), start, end)
	respond(c, res, http.StatusOK, renderNotes)
}

func CreateNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	res := notesService.CreateNote(c.Request.Context(), middleware.Owner(c), req.Title, req.Content)
	respond(c, res, http.StatusCreated, renderNote)
}

func UpdateNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	patch := usecase.NotePatch{Title: req.Title, Content: req.Content}
	res := notesService.UpdateNote(c.Request.Context(), middleware.Owner(c), c.Param("id"), patch)
	respond(c, res, http.StatusOK, renderNote)
}

func DeleteNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	res := notesService.DeleteNote(c.Request.Context(), middleware.Owner(c), c.Param("id"))
	respond(c, res, http.StatusOK, nil)
}

// parseDateParam accepts RFC 3339 timestamps and plain dates. A plain date is
// midnight UTC, or the last instant of that day when endOfDay is set. An empty
// value yields the zero time.
func parseDateParam(raw string, endOfDay bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}

	day, err := time.Parse(dateOnly, raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		return day.Add(24*time.Hour - time.Nanosecond), nil
	}
	return day, nil
}
