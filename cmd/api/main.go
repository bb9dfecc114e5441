package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"itam-platform/internal/assets"
	"itam-platform/internal/audit"
	"itam-platform/internal/auth"
	"itam-platform/internal/backups"
	"itam-platform/internal/config"
	"itam-platform/internal/database/migrations"
	"itam-platform/internal/docs"
	"itam-platform/internal/httpapi"
	"itam-platform/internal/reporting"
	"itam-platform/internal/users"
	"itam-platform/pkg/logger"
	"itam-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	revoker := auth.NewRedisRevoker(rdb)

	assetService := assets.NewService(assets.NewPostgresRepo(db))
	docService := docs.NewService(docs.NewPostgresRepo(db), log)
	backupService := backups.NewService(backups.NewPostgresRepo(db))
	userService := users.NewService(users.NewPostgresRepo(db))
	auditService := audit.NewService(audit.NewPostgresRepo(db), log)
	reportService := reporting.NewService(reporting.RepoAdapter{
		Assets:  assets.NewPostgresRepo(db),
		Backups: backups.NewPostgresRepo(db),
		Docs:    docs.NewPostgresRepo(db),
	})

	h := httpapi.Handlers{
		Auth:    authManager,
		Revoker: revoker,
		Users:   userService,
		Assets:  assetService,
		Docs:    docService,
		Backups: backupService,
		Audit:   auditService,
		Reports: reportService,
		Throttle: httpapi.LoginThrottle{
			RDB:         rdb,
			MaxAttempts: cfg.Auth.LoginMaxAttempts,
			Window:      cfg.Auth.LoginWindow,
		},
		Log: log,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, h, authManager, revoker, db)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
