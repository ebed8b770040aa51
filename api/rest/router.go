package rest

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yunae/gamedash/alerts"
	"github.com/yunae/gamedash/audit"
	"github.com/yunae/gamedash/cache"
	"github.com/yunae/gamedash/clock"
	"github.com/yunae/gamedash/config"
	"github.com/yunae/gamedash/ledger"
	mw "github.com/yunae/gamedash/middleware"
	"github.com/yunae/gamedash/tasks"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Deps collects everything the router needs.
type Deps struct {
	DB      *gorm.DB
	Clock   clock.Clock
	Cache   cache.Cache
	Ledger  *ledger.Service
	Tasks   *tasks.Service
	Alerts  *alerts.Service
	Audit   *audit.Service
	Config  *config.Config
	Logger  *zap.Logger
	SeedDir string
}

// NewRouter builds the gin engine: reads are public, writes require the admin
// session, maintenance endpoints require the admin key.
func NewRouter(d Deps) *gin.Engine {
	if d.Config.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID())
	r.Use(mw.Logger(d.Logger))
	r.Use(mw.Recovery(d.Logger))
	r.Use(mw.RateLimit(rate.Limit(d.Config.Security.RateLimitRPS), d.Config.Security.RateLimitBurst))

	authH := NewAuthHandler(d.Cache, d.Config.Security)
	gamesH := NewGamesHandler(d.DB, d.Clock, d.Tasks, d.Audit)
	charsH := NewCharactersHandler(d.DB, d.Audit)
	currH := NewCurrenciesHandler(d.DB, d.Ledger, d.Audit)
	eventsH := NewEventsHandler(d.DB, d.Clock, d.Audit)
	spendH := NewSpendingsHandler(d.DB, d.Clock, d.Audit)
	tasksH := NewTasksHandler(d.Tasks, d.Audit)
	dashH := NewDashboardHandler(d.DB, d.Clock, d.Alerts)
	itemsH := NewItemsHandler(d.DB, d.Audit)
	adminH := NewAdminHandler(d.DB, d.Clock, d.Tasks, d.SeedDir, d.Logger)

	api := r.Group("/api")
	{
		api.POST("/auth/login", authH.Login)
		api.POST("/auth/logout", authH.Logout)

		api.GET("/games", gamesH.List)
		api.GET("/games/:id", gamesH.Detail)
		api.GET("/games/:id/characters", charsH.List)
		api.GET("/games/:id/currencies", currH.List)
		api.GET("/games/:id/currencies/series", currH.TimeSeries)
		api.GET("/games/:id/events", eventsH.List)
		api.GET("/games/:id/spendings", spendH.List)
		api.GET("/games/:id/tasks", tasksH.Get)
		api.GET("/dashboard/alerts", dashH.Alerts)
		api.GET("/dashboard/metrics/weekly", dashH.WeeklyMetrics)
		api.GET("/items", itemsH.List)

		auth := api.Group("", mw.Auth(d.Config.Security, d.Cache))
		{
			auth.POST("/games/:id/end", gamesH.End)
			auth.POST("/games/:id/memo", gamesH.UpdateMemo)
			auth.POST("/games/:id/events", eventsH.Create)
			auth.POST("/games/:id/tasks/configure", tasksH.Configure)
			auth.POST("/characters/:id", charsH.Update)
			auth.POST("/currencies/:id/adjust", currH.Adjust)
			auth.POST("/events/:id", eventsH.Update)
			auth.POST("/spendings/:id", spendH.Configure)
			auth.POST("/spendings/:id/renew", spendH.Renew)
			auth.POST("/tasks/:id/state", tasksH.UpdateState)
			auth.POST("/items", itemsH.Create)
			auth.POST("/items/:id/click", itemsH.Click)
		}

		admin := api.Group("/admin", mw.AdminKey(d.Config.Server.AdminKey))
		{
			admin.POST("/reseed", adminH.Reseed)
			admin.POST("/tasks/reset", adminH.ResetTasks)
		}
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	mountStatic(r, d.Config.Server)
	return r
}

// mountStatic serves game images and the dashboard SPA. Unknown non-API paths
// fall through to index.html so client-side routing works after a reload.
func mountStatic(r *gin.Engine, srv config.ServerConfig) {
	if srv.AssetDir != "" {
		if _, err := os.Stat(srv.AssetDir); err == nil {
			r.Static("/assets", srv.AssetDir)
		}
	}
	if srv.StaticDir == "" {
		return
	}
	index := filepath.Join(srv.StaticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		return
	}
	r.Static("/static", srv.StaticDir)
	r.GET("/", func(c *gin.Context) {
		c.File(index)
	})
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.File(index)
	})
}
