package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yunae/gamedash/audit"
	"github.com/yunae/gamedash/ledger"
	mw "github.com/yunae/gamedash/middleware"
	"github.com/yunae/gamedash/model"
	"gorm.io/gorm"
)

// CurrenciesHandler exposes the currency ledger: current counts, manual
// adjustments and bucketed time series.
type CurrenciesHandler struct {
	db     *gorm.DB
	ledger *ledger.Service
	aud    *audit.Service
}

// NewCurrenciesHandler creates a CurrenciesHandler.
func NewCurrenciesHandler(db *gorm.DB, svc *ledger.Service, aud *audit.Service) *CurrenciesHandler {
	return &CurrenciesHandler{db: db, ledger: svc, aud: aud}
}

type currencyOut struct {
	ID         int64  `json:"id"`
	GameID     int64  `json:"game_id"`
	Title      string `json:"title"`
	Count      int64  `json:"count"`
	ObservedAt string `json:"observed_at"`
}

// List returns the game's currencies with their current counts.
// GET /api/games/:id/currencies
func (h *CurrenciesHandler) List(c *gin.Context) {
	gameID, ok := paramID(c, "id")
	if !ok {
		return
	}
	values, err := h.ledger.CurrentByGame(c.Request.Context(), gameID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	out := make([]currencyOut, 0, len(values))
	for _, v := range values {
		out = append(out, currencyOut{
			ID:         v.Currency.ID,
			GameID:     v.Currency.GameID,
			Title:      v.Currency.Title,
			Count:      v.Observation.Count,
			ObservedAt: dateStr(v.Observation.Timestamp),
		})
	}
	c.JSON(http.StatusOK, gin.H{"currencies": out})
}

type adjustRequest struct {
	Count int64 `json:"count"`
}

// Adjust records a new absolute count for a currency. History is append-only;
// every adjustment lands as a new observation.
// POST /api/currencies/:id/adjust
func (h *CurrenciesHandler) Adjust(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	obs, err := h.ledger.Adjust(c.Request.Context(), id, req.Count)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "currency not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		}
		return
	}
	if h.aud != nil {
		h.aud.Log(audit.Entry{
			TraceID:  mw.GetTraceID(c),
			Action:   "currency.adjust",
			Entity:   "currency",
			EntityID: id,
			Request:  req,
			IP:       c.ClientIP(),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"currency_id": obs.CurrencyID,
		"count":       obs.Count,
		"observed_at": dateStr(obs.Timestamp),
	})
}

func seriesOptions(c *gin.Context) ledger.SeriesOptions {
	opts := ledger.SeriesOptions{Weekly: c.Query("interval") == "weekly"}
	if n, err := strconv.Atoi(c.Query("days")); err == nil {
		opts.Days = n
	}
	if n, err := strconv.Atoi(c.Query("weeks")); err == nil {
		opts.Weeks = n
	}
	return opts
}

// TimeSeries returns the bucketed history of the game's currencies. With
// ?title= the response is the single matching currency's series; without it,
// every currency's series over the same bucket timeline.
// GET /api/games/:id/currencies/series?interval=daily|weekly&days=&weeks=&title=
func (h *CurrenciesHandler) TimeSeries(c *gin.Context) {
	gameID, ok := paramID(c, "id")
	if !ok {
		return
	}
	opts := seriesOptions(c)

	if title := c.Query("title"); title != "" {
		var cur model.Currency
		err := h.db.WithContext(c.Request.Context()).
			Where("game_id = ? AND title = ?", gameID, title).
			First(&cur).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "currency not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		series, err := h.ledger.TimeSeries(c.Request.Context(), cur.ID, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"series": []ledger.Series{*series}})
		return
	}

	series, err := h.ledger.TimeSeriesAll(c.Request.Context(), gameID, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}
