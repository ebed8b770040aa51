package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yunae/gamedash/alerts"
	"github.com/yunae/gamedash/api/rest"
	"github.com/yunae/gamedash/audit"
	"github.com/yunae/gamedash/cache"
	"github.com/yunae/gamedash/clock"
	"github.com/yunae/gamedash/config"
	"github.com/yunae/gamedash/db"
	"github.com/yunae/gamedash/ledger"
	"github.com/yunae/gamedash/model"
	"github.com/yunae/gamedash/scheduler"
	"github.com/yunae/gamedash/seed"
	"github.com/yunae/gamedash/tasks"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "./config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Server.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	database, err := db.Open(cfg.Database)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	if err := model.AutoMigrate(database); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	clk := clock.System{}
	if err := seed.FromFiles(database, cfg.Files.Dir, clk, logger); err != nil {
		logger.Fatal("seed from files", zap.Error(err))
	}

	kv, err := cache.New(cache.Config{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
	})
	if err != nil {
		logger.Fatal("init cache", zap.Error(err))
	}

	ledgerSvc := ledger.NewService(database, clk, logger)
	taskSvc := tasks.NewService(database, clk, cfg.Game.DefaultRefreshTime, logger)
	alertSvc := alerts.NewService(database, clk, logger)
	auditSvc := audit.New(database, logger)

	sched := scheduler.New(logger)
	sched.AddTicker("task_reset", cfg.Game.TaskResetInterval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := taskSvc.ApplyDueResets(ctx); err != nil {
			logger.Error("task reset sweep failed", zap.Error(err))
		}
	})

	router := rest.NewRouter(rest.Deps{
		DB:      database,
		Clock:   clk,
		Cache:   kv,
		Ledger:  ledgerSvc,
		Tasks:   taskSvc,
		Alerts:  alertSvc,
		Audit:   auditSvc,
		Config:  cfg,
		Logger:  logger,
		SeedDir: cfg.Files.Dir,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	sched.Stop()
	auditSvc.Stop(ctx)
	logger.Info("bye")
}
