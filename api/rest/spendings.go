package rest

import (
	"encoding/json"
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
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SpendingsHandler handles recurring payments.
type SpendingsHandler struct {
	db  *gorm.DB
	clk clock.Clock
	aud *audit.Service
}

// NewSpendingsHandler creates a SpendingsHandler.
func NewSpendingsHandler(db *gorm.DB, clk clock.Clock, aud *audit.Service) *SpendingsHandler {
	return &SpendingsHandler{db: db, clk: clk, aud: aud}
}

type spendingOut struct {
	ID               int64               `json:"id"`
	GameID           int64               `json:"game_id"`
	Title            string              `json:"title"`
	Type             string              `json:"type"`
	Paying           string              `json:"paying"`
	PayingDate       string              `json:"paying_date"`
	RewardMode       string              `json:"reward_mode"`
	ExpirationDays   int                 `json:"expiration_days"`
	Rewards          []model.RewardEntry `json:"rewards"`
	PassCurrentLevel *int                `json:"pass_current_level"`
	PassMaxLevel     *int                `json:"pass_max_level"`
	// Derived from paying_date + expiration_days against today. Empty for
	// DISABLED spendings, which carry no schedule.
	NextPayingDate string `json:"next_paying_date,omitempty"`
	RemainDate     *int   `json:"remain_date,omitempty"`
	IsRepaying     string `json:"is_repaying,omitempty"`
}

func spendingOutOf(sp *model.Spending, now time.Time) spendingOut {
	out := spendingOut{
		ID:               sp.ID,
		GameID:           sp.GameID,
		Title:            sp.Title,
		Type:             sp.Type,
		Paying:           sp.Paying,
		PayingDate:       dateStr(sp.PayingDate),
		RewardMode:       sp.RewardMode,
		ExpirationDays:   sp.ExpirationDays,
		Rewards:          decodeRewardList(sp.Rewards),
		PassCurrentLevel: sp.PassCurrentLevel,
		PassMaxLevel:     sp.PassMaxLevel,
	}
	if sp.RewardMode != model.RewardModeDisabled {
		remain := derive.RemainDays(sp.PayingDate, sp.ExpirationDays, now)
		out.NextPayingDate = dateStr(derive.NextPayingDate(sp.PayingDate, sp.ExpirationDays))
		out.RemainDate = &remain
		out.IsRepaying = derive.UrgencyTier(remain)
	}
	return out
}

func decodeRewardList(j datatypes.JSON) []model.RewardEntry {
	out := []model.RewardEntry{}
	if len(j) > 0 {
		_ = json.Unmarshal(j, &out)
	}
	return out
}

// List returns the game's spendings ordered by next payment date ascending,
// most urgent first. DISABLED spendings sort last.
// GET /api/games/:id/spendings
func (h *SpendingsHandler) List(c *gin.Context) {
	gameID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var spendings []model.Spending
	if err := h.db.WithContext(c.Request.Context()).
		Where("game_id = ?", gameID).
		Find(&spendings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	now := h.clk.Now()
	out := make([]spendingOut, 0, len(spendings))
	for i := range spendings {
		out = append(out, spendingOutOf(&spendings[i], now))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.RemainDate == nil) != (b.RemainDate == nil) {
			return a.RemainDate != nil
		}
		if a.RemainDate == nil {
			return a.Title < b.Title
		}
		return *a.RemainDate < *b.RemainDate
	})
	c.JSON(http.StatusOK, gin.H{"spendings": out})
}

type renewRequest struct {
	PayingDate string `json:"paying_date"` // "YYYY-MM-DD", today when empty
}

// Renew records a payment: paying_date moves forward and the urgency timer
// restarts. POST /api/spendings/:id/renew
func (h *SpendingsHandler) Renew(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sp, ok := h.getSpending(c, id)
	if !ok {
		return
	}

	var req renewRequest
	_ = c.ShouldBindJSON(&req)

	now := h.clk.Now()
	paying := derive.DateOf(now)
	if req.PayingDate != "" {
		parsed, err := parseDate(req.PayingDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid paying_date"})
			return
		}
		paying = parsed
	}

	sp.PayingDate = paying
	if err := h.db.WithContext(c.Request.Context()).Save(sp).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	h.logWrite(c, "spending.renew", sp.ID, req)
	c.JSON(http.StatusOK, spendingOutOf(sp, now))
}

type spendingConfigureRequest struct {
	Title            *string              `json:"title" binding:"omitempty,max=128"`
	Type             *string              `json:"type" binding:"omitempty,max=64"`
	Paying           *string              `json:"paying" binding:"omitempty,max=64"`
	RewardMode       *string              `json:"reward_mode" binding:"omitempty,oneof=DAILY ONCE DISABLED"`
	ExpirationDays   *int                 `json:"expiration_days" binding:"omitempty,min=0"`
	Rewards          *[]model.RewardEntry `json:"rewards"`
	PassCurrentLevel *int                 `json:"pass_current_level" binding:"omitempty,min=0"`
	PassMaxLevel     *int                 `json:"pass_max_level" binding:"omitempty,min=0"`
}

// Configure patches a spending's definition. Reward currencies must belong to
// the spending's game; unknown titles reject the whole call.
// POST /api/spendings/:id
func (h *SpendingsHandler) Configure(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sp, ok := h.getSpending(c, id)
	if !ok {
		return
	}

	var req spendingConfigureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Rewards != nil {
		titles, err := h.currencyTitles(c, sp.GameID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		for _, r := range *req.Rewards {
			if !titles[r.CurrencyTitle] {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown reward currency: " + r.CurrencyTitle})
				return
			}
		}
		b, _ := json.Marshal(*req.Rewards)
		sp.Rewards = datatypes.JSON(b)
	}
	if req.Title != nil {
		sp.Title = *req.Title
	}
	if req.Type != nil {
		sp.Type = *req.Type
	}
	if req.Paying != nil {
		sp.Paying = *req.Paying
	}
	if req.RewardMode != nil {
		sp.RewardMode = *req.RewardMode
	}
	if req.ExpirationDays != nil {
		sp.ExpirationDays = *req.ExpirationDays
	}
	if req.PassCurrentLevel != nil {
		sp.PassCurrentLevel = req.PassCurrentLevel
	}
	if req.PassMaxLevel != nil {
		sp.PassMaxLevel = req.PassMaxLevel
	}
	if sp.PassCurrentLevel != nil && sp.PassMaxLevel != nil && *sp.PassCurrentLevel > *sp.PassMaxLevel {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pass_current_level exceeds pass_max_level"})
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(sp).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	h.logWrite(c, "spending.configure", sp.ID, req)
	c.JSON(http.StatusOK, spendingOutOf(sp, h.clk.Now()))
}

func (h *SpendingsHandler) getSpending(c *gin.Context, id int64) (*model.Spending, bool) {
	var sp model.Spending
	if err := h.db.WithContext(c.Request.Context()).First(&sp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "spending not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		}
		return nil, false
	}
	return &sp, true
}

func (h *SpendingsHandler) currencyTitles(c *gin.Context, gameID int64) (map[string]bool, error) {
	var currencies []model.Currency
	if err := h.db.WithContext(c.Request.Context()).
		Where("game_id = ?", gameID).Find(&currencies).Error; err != nil {
		return nil, err
	}
	titles := make(map[string]bool, len(currencies))
	for _, cur := range currencies {
		titles[cur.Title] = true
	}
	return titles, nil
}

func (h *SpendingsHandler) logWrite(c *gin.Context, action string, entityID int64, req interface{}) {
	if h.aud == nil {
		return
	}
	h.aud.Log(audit.Entry{
		TraceID:  mw.GetTraceID(c),
		Action:   action,
		Entity:   "spending",
		EntityID: entityID,
		Request:  req,
		IP:       c.ClientIP(),
	})
}
