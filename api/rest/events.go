package rest

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yunae/gamedash/audit"
	"github.com/yunae/gamedash/clock"
	"github.com/yunae/gamedash/derive"
	mw "github.com/yunae/gamedash/middleware"
	"github.com/yunae/gamedash/model"
	"gorm.io/gorm"
)

// EventsHandler handles timed in-game events.
type EventsHandler struct {
	db  *gorm.DB
	clk clock.Clock
	aud *audit.Service
}

// NewEventsHandler creates an EventsHandler.
func NewEventsHandler(db *gorm.DB, clk clock.Clock, aud *audit.Service) *EventsHandler {
	return &EventsHandler{db: db, clk: clk, aud: aud}
}

type eventOut struct {
	ID        int64   `json:"id"`
	GameID    int64   `json:"game_id"`
	Title     string  `json:"title"`
	Type      string  `json:"type"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Priority  string  `json:"priority"`
	State     string  `json:"state"`
	// RemainDays counts days until an ongoing event's end date; nil when the
	// event is open-ended or not ongoing.
	RemainDays *int `json:"remain_days"`
}

func eventOutOf(e *model.GameEvent, now time.Time) eventOut {
	out := eventOut{
		ID:        e.ID,
		GameID:    e.GameID,
		Title:     e.Title,
		Type:      e.Type,
		StartDate: dateStr(e.StartDate),
		EndDate:   dateStrPtr(e.EndDate),
		Priority:  e.Priority,
		State:     derive.EventState(e.StartDate, e.EndDate, now),
	}
	if out.State == derive.EventOngoing && e.EndDate != nil {
		remain := derive.DaysBetween(now, *e.EndDate)
		out.RemainDays = &remain
	}
	return out
}

// stateOrder sorts ongoing first, scheduled next, ended last.
func stateOrder(state string) int {
	switch state {
	case derive.EventOngoing:
		return 0
	case derive.EventScheduled:
		return 1
	default:
		return 2
	}
}

// List returns the game's events with derived lifecycle state, ongoing first.
// GET /api/games/:id/events
func (h *EventsHandler) List(c *gin.Context) {
	gameID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var events []model.GameEvent
	if err := h.db.WithContext(c.Request.Context()).
		Where("game_id = ?", gameID).
		Order("start_date ASC, id ASC").
		Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	now := h.clk.Now()
	out := make([]eventOut, 0, len(events))
	for i := range events {
		out = append(out, eventOutOf(&events[i], now))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return stateOrder(out[i].State) < stateOrder(out[j].State)
	})
	c.JSON(http.StatusOK, gin.H{"events": out})
}

type eventRequest struct {
	Title     string  `json:"title" binding:"required,max=128"`
	Type      string  `json:"type" binding:"required,max=64"`
	StartDate string  `json:"start_date" binding:"required"`
	EndDate   *string `json:"end_date"`
	Priority  string  `json:"priority" binding:"max=32"`
}

func (r *eventRequest) dates() (time.Time, *time.Time, error) {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return time.Time{}, nil, errors.New("invalid start_date")
	}
	var end *time.Time
	if r.EndDate != nil && *r.EndDate != "" {
		e, err := parseDate(*r.EndDate)
		if err != nil {
			return time.Time{}, nil, errors.New("invalid end_date")
		}
		if e.Before(start) {
			return time.Time{}, nil, errors.New("end_date before start_date")
		}
		end = &e
	}
	return start, end, nil
}

// Create registers a new event for the game.
// POST /api/games/:id/events
func (h *EventsHandler) Create(c *gin.Context) {
	gameID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var game model.Game
	if err := h.db.WithContext(c.Request.Context()).First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		}
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, end, err := req.dates()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := model.GameEvent{
		GameID:    gameID,
		Title:     req.Title,
		Type:      req.Type,
		StartDate: start,
		EndDate:   end,
		Priority:  req.Priority,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	h.logWrite(c, "event.create", event.ID, req)
	c.JSON(http.StatusCreated, eventOutOf(&event, h.clk.Now()))
}

// Update replaces an event's definition.
// POST /api/events/:id
func (h *EventsHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var event model.GameEvent
	if err := h.db.WithContext(c.Request.Context()).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		}
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, end, err := req.dates()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event.Title = req.Title
	event.Type = req.Type
	event.StartDate = start
	event.EndDate = end
	event.Priority = req.Priority
	if err := h.db.WithContext(c.Request.Context()).Save(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	h.logWrite(c, "event.update", event.ID, req)
	c.JSON(http.StatusOK, eventOutOf(&event, h.clk.Now()))
}

func (h *EventsHandler) logWrite(c *gin.Context, action string, entityID int64, req interface{}) {
	if h.aud == nil {
		return
	}
	h.aud.Log(audit.Entry{
		TraceID:  mw.GetTraceID(c),
		Action:   action,
		Entity:   "event",
		EntityID: entityID,
		Request:  req,
		IP:       c.ClientIP(),
	})
}
