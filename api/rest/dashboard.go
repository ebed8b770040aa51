package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yunae/gamedash/alerts"
	"github.com/yunae/gamedash/clock"
	"github.com/yunae/gamedash/derive"
	"github.com/yunae/gamedash/model"
	"gorm.io/gorm"
)

// DashboardHandler serves the aggregated dashboard views.
type DashboardHandler struct {
	db     *gorm.DB
	clk    clock.Clock
	alerts *alerts.Service
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(db *gorm.DB, clk clock.Clock, svc *alerts.Service) *DashboardHandler {
	return &DashboardHandler{db: db, clk: clk, alerts: svc}
}

// Alerts returns today's actionable rollup: ongoing events, payments due
// within a week, and the weekly refresh schedule.
// GET /api/dashboard/alerts
func (h *DashboardHandler) Alerts(c *gin.Context) {
	summary, err := h.alerts.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

type dayMetric struct {
	Date         string `json:"date"`
	WeekdayLabel string `json:"weekday_label"`
	ClickCount   int64  `json:"click_count"`
}

// WeeklyMetrics returns per-day click activity over the last seven days,
// today included.
// GET /api/dashboard/metrics/weekly
func (h *DashboardHandler) WeeklyMetrics(c *gin.Context) {
	today := derive.DateOf(h.clk.Now())
	from := today.AddDate(0, 0, -6)

	var clicks []model.ClickEvent
	if err := h.db.WithContext(c.Request.Context()).
		Where("created_at >= ?", from).
		Find(&clicks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	counts := make(map[string]int64, 7)
	for _, click := range clicks {
		counts[derive.DateOf(click.CreatedAt).Format(dateLayout)]++
	}

	days := make([]dayMetric, 0, 7)
	for d := from; !d.After(today); d = d.AddDate(0, 0, 1) {
		days = append(days, dayMetric{
			Date:         d.Format(dateLayout),
			WeekdayLabel: derive.WeekdayLabel(derive.Weekday1to7(d)),
			ClickCount:   counts[d.Format(dateLayout)],
		})
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}
