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
	"github.com/yunae/gamedash/tasks"
	"gorm.io/gorm"
)

// GamesHandler handles game listing and game-level actions.
type GamesHandler struct {
	db    *gorm.DB
	clk   clock.Clock
	tasks *tasks.Service
	aud   *audit.Service
}

// NewGamesHandler creates a GamesHandler.
func NewGamesHandler(db *gorm.DB, clk clock.Clock, taskSvc *tasks.Service, aud *audit.Service) *GamesHandler {
	return &GamesHandler{db: db, clk: clk, tasks: taskSvc, aud: aud}
}

type periodBadge struct {
	HasTasks bool `json:"has_tasks"`
	Complete bool `json:"complete"`
}

type taskBadges struct {
	Daily   periodBadge `json:"daily"`
	Weekly  periodBadge `json:"weekly"`
	Monthly periodBadge `json:"monthly"`
}

type gameOut struct {
	ID                 int64       `json:"id"`
	Title              string      `json:"title"`
	StartDate          string      `json:"start_date"`
	EndDate            *string     `json:"end_date"`
	PlaytimeDays       int         `json:"playtime_days"`
	PlaytimeLabel      string      `json:"playtime_label"`
	DuringPlay         bool        `json:"during_play"`
	StopPlay           bool        `json:"stop_play"`
	UID                string      `json:"uid"`
	CouponURL          string      `json:"coupon_url"`
	Memo               string      `json:"memo"`
	RefreshDay         *int        `json:"refresh_day"`
	RefreshDayLabel    string      `json:"refresh_day_label"`
	RefreshTime        string      `json:"refresh_time"`
	GachaPullMessage   string      `json:"gacha_pull_message"`
	HasEconomyTracking bool        `json:"has_economy_tracking"`
	Tasks              *taskBadges `json:"tasks,omitempty"`
}

func (h *GamesHandler) gameOut(c *gin.Context, g *model.Game, now time.Time) gameOut {
	out := gameOut{
		ID:                 g.ID,
		Title:              g.Title,
		StartDate:          dateStr(g.StartDate),
		EndDate:            dateStrPtr(g.EndDate),
		PlaytimeDays:       derive.PlaytimeDays(g.StartDate, now),
		PlaytimeLabel:      derive.PlaytimeLabel(g.StartDate, now),
		DuringPlay:         g.DuringPlay(),
		StopPlay:           g.StopPlay,
		UID:                g.UID,
		CouponURL:          g.CouponURL,
		Memo:               g.Memo,
		RefreshDay:         g.RefreshDay,
		RefreshTime:        g.RefreshTime,
		GachaPullMessage:   g.GachaPullMessage,
		HasEconomyTracking: g.HasEconomyTracking,
	}
	if g.RefreshDay != nil {
		out.RefreshDayLabel = derive.WeekdayLabel(*g.RefreshDay)
	}
	if view, err := h.tasks.Get(c.Request.Context(), g.ID); err == nil {
		out.Tasks = &taskBadges{
			Daily:   periodBadge{view.Daily.HasTasks, view.Daily.Complete},
			Weekly:  periodBadge{view.Weekly.HasTasks, view.Weekly.Complete},
			Monthly: periodBadge{view.Monthly.HasTasks, view.Monthly.Complete},
		}
	}
	return out
}

// List returns the game gallery, longest-played first.
// GET /api/games?during_play_only=&include_stopped=
func (h *GamesHandler) List(c *gin.Context) {
	duringPlayOnly := c.Query("during_play_only") == "true"
	includeStopped := c.Query("include_stopped") == "true"

	q := h.db.WithContext(c.Request.Context()).Model(&model.Game{})
	if !includeStopped {
		q = q.Where("stop_play = ?", false)
	}
	if duringPlayOnly {
		q = q.Where("end_date IS NULL")
	}

	var games []model.Game
	if err := q.Find(&games).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	now := h.clk.Now()
	out := make([]gameOut, 0, len(games))
	for i := range games {
		out = append(out, h.gameOut(c, &games[i], now))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PlaytimeDays > out[j].PlaytimeDays
	})
	c.JSON(http.StatusOK, gin.H{"games": out})
}

// Detail returns one game.
// GET /api/games/:id
func (h *GamesHandler) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	game, ok := h.getGame(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.gameOut(c, game, h.clk.Now()))
}

type endGameRequest struct {
	EndDate string `json:"end_date"` // "YYYY-MM-DD", today when empty
}

// End retires a game: records the end date and removes it from the default
// gallery. POST /api/games/:id/end
func (h *GamesHandler) End(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	game, ok := h.getGame(c, id)
	if !ok {
		return
	}

	var req endGameRequest
	_ = c.ShouldBindJSON(&req)

	now := h.clk.Now()
	end := derive.DateOf(now)
	if req.EndDate != "" {
		parsed, err := parseDate(req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
			return
		}
		end = parsed
	}

	game.EndDate = &end
	game.StopPlay = true
	if err := h.db.WithContext(c.Request.Context()).Save(game).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	h.logWrite(c, "game.end", game.ID, req)
	c.JSON(http.StatusOK, h.gameOut(c, game, now))
}

type memoRequest struct {
	Memo string `json:"memo"`
}

// UpdateMemo replaces the game memo.
// POST /api/games/:id/memo
func (h *GamesHandler) UpdateMemo(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	game, ok := h.getGame(c, id)
	if !ok {
		return
	}

	var req memoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	game.Memo = req.Memo
	if err := h.db.WithContext(c.Request.Context()).Save(game).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	h.logWrite(c, "game.memo", game.ID, req)
	c.JSON(http.StatusOK, h.gameOut(c, game, h.clk.Now()))
}

func (h *GamesHandler) getGame(c *gin.Context, id int64) (*model.Game, bool) {
	var game model.Game
	if err := h.db.WithContext(c.Request.Context()).First(&game, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		}
		return nil, false
	}
	return &game, true
}

func (h *GamesHandler) logWrite(c *gin.Context, action string, entityID int64, req interface{}) {
	if h.aud == nil {
		return
	}
	h.aud.Log(audit.Entry{
		TraceID:  mw.GetTraceID(c),
		Action:   action,
		Entity:   "game",
		EntityID: entityID,
		Request:  req,
		IP:       c.ClientIP(),
	})
}
