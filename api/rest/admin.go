package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yunae/gamedash/clock"
	"github.com/yunae/gamedash/seed"
	"github.com/yunae/gamedash/tasks"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminHandler exposes maintenance operations. The router guards these with
// the admin key middleware, not the session login.
type AdminHandler struct {
	db      *gorm.DB
	clk     clock.Clock
	tasks   *tasks.Service
	seedDir string
	logger  *zap.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(db *gorm.DB, clk clock.Clock, taskSvc *tasks.Service, seedDir string, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{db: db, clk: clk, tasks: taskSvc, seedDir: seedDir, logger: logger}
}

// Reseed re-runs the spreadsheet import. Upserts only: entity fields refresh
// from the files but currency history is never rewritten.
// POST /api/admin/reseed
func (h *AdminHandler) Reseed(c *gin.Context) {
	if err := seed.FromFiles(h.db, h.seedDir, h.clk, h.logger); err != nil {
		h.logger.Error("reseed failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reseed failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ResetTasks forces the due-reset sweep immediately instead of waiting for
// the scheduler tick.
// POST /api/admin/tasks/reset
func (h *AdminHandler) ResetTasks(c *gin.Context) {
	n, err := h.tasks.ApplyDueResets(c.Request.Context())
	if err != nil {
		h.logger.Error("task reset sweep failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset_count": n})
}
