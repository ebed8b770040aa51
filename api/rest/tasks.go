package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yunae/gamedash/audit"
	mw "github.com/yunae/gamedash/middleware"
	"github.com/yunae/gamedash/tasks"
)

// TasksHandler handles daily/weekly/monthly task checklists.
type TasksHandler struct {
	tasks *tasks.Service
	aud   *audit.Service
}

// NewTasksHandler creates a TasksHandler.
func NewTasksHandler(svc *tasks.Service, aud *audit.Service) *TasksHandler {
	return &TasksHandler{tasks: svc, aud: aud}
}

// Get returns the game's task set. A game with no configured set is 404.
// GET /api/games/:id/tasks
func (h *TasksHandler) Get(c *gin.Context) {
	gameID, ok := paramID(c, "id")
	if !ok {
		return
	}
	view, err := h.tasks.Get(c.Request.Context(), gameID)
	if err != nil {
		if errors.Is(err, tasks.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no task set for game"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		}
		return
	}
	c.JSON(http.StatusOK, view)
}

// Configure replaces the provided periods' task and reward definitions,
// creating the set on first configuration.
// POST /api/games/:id/tasks/configure
func (h *TasksHandler) Configure(c *gin.Context) {
	gameID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in tasks.ConfigureInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.tasks.Configure(c.Request.Context(), gameID, in)
	if err != nil {
		switch {
		case errors.Is(err, tasks.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		case errors.Is(err, tasks.ErrLengthMismatch), errors.Is(err, tasks.ErrUnknownCurrency):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		}
		return
	}
	h.logWrite(c, "tasks.configure", gameID, in)
	c.JSON(http.StatusOK, view)
}

// UpdateState replaces the provided periods' completion arrays. A length
// mismatch on any provided period rejects the whole call.
// POST /api/tasks/:id/state
func (h *TasksHandler) UpdateState(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in tasks.StateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.tasks.UpdateState(c.Request.Context(), id, in)
	if err != nil {
		switch {
		case errors.Is(err, tasks.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "task set not found"})
		case errors.Is(err, tasks.ErrLengthMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		}
		return
	}
	h.logWrite(c, "tasks.state", id, in)
	c.JSON(http.StatusOK, view)
}

func (h *TasksHandler) logWrite(c *gin.Context, action string, entityID int64, req interface{}) {
	if h.aud == nil {
		return
	}
	h.aud.Log(audit.Entry{
		TraceID:  mw.GetTraceID(c),
		Action:   action,
		Entity:   "task_set",
		EntityID: entityID,
		Request:  req,
		IP:       c.ClientIP(),
	})
}
