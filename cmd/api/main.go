// @title Kloda API documentation
// @version 1.0.0
// @description Flashcards with categories, reactions and Google Sheets import.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Access token as: Bearer {token}
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	_ "github.com/kloda-app/kloda/backend/docs"
	"github.com/kloda-app/kloda/backend/internal/config"
	"github.com/kloda-app/kloda/backend/internal/logging"
	"github.com/kloda-app/kloda/backend/internal/repository"
	"github.com/kloda-app/kloda/backend/internal/repository/postgres"
	"github.com/kloda-app/kloda/backend/internal/repository/redis"
	"github.com/kloda-app/kloda/backend/internal/service/cards"
	"github.com/kloda-app/kloda/backend/internal/service/cleanup"
	"github.com/kloda-app/kloda/backend/internal/service/session"
	"github.com/kloda-app/kloda/backend/internal/service/sheets"
	"github.com/kloda-app/kloda/backend/internal/service/stats"
	"github.com/kloda-app/kloda/backend/internal/service/users"
	transportHttp "github.com/kloda-app/kloda/backend/internal/transport/http"
	"github.com/kloda-app/kloda/backend/internal/transport/websocket"
	"github.com/kloda-app/kloda/backend/pkg/auth"
	"github.com/kloda-app/kloda/backend/pkg/httputil"
)

func main() {
	started := time.Now()

	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			logging.Info().Msg("No .env file found")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Database unreachable")
	}
	defer db.Close()

	logging.Info().Msg("Running database migrations")
	if err := postgres.RunMigrations(ctx, db); err != nil {
		logging.Fatal().Err(err).Msg("Migration failed")
	}
	store := postgres.NewStore(db)

	var cache repository.Cache
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			logging.Warn().Err(err).Msg("Redis unavailable, caching disabled")
		} else {
			defer client.Close()
			cache = redis.NewCache(client, "kloda:")
		}
	}

	signer := auth.NewSigner(cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	authService := session.NewAuthService(store, signer)

	sheetsOpts, err := cfg.SheetsOptions(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("Google Sheets credentials")
	}
	sheetsClient, err := sheets.NewClient(ctx, sheetsOpts)
	if err != nil {
		logging.Fatal().Err(err).Msg("Google Sheets client")
	}

	cardService := cards.NewService(store, sheetsClient, cache, cfg.ImportCardsLimit)
	userService := users.NewService(store.Users())
	statsService := stats.NewService(store, cache, cfg.CacheTTL)

	router := transportHttp.NewRouter(transportHttp.RouterConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		MaximumRequests:  cfg.MaximumRequests,
		RequestsDuration: cfg.RequestsDuration,
	}, authService, transportHttp.Handlers{
		Auth: transportHttp.NewAuthHandler(authService, httputil.CookieOptions{
			Domain: cfg.Auth.CookieDomain,
			Secure: cfg.Auth.CookieSecure,
			MaxAge: cfg.Auth.RefreshTTL,
		}),
		Cards:  transportHttp.NewCardsHandler(cardService),
		Users:  transportHttp.NewUsersHandler(userService),
		Stats:  transportHttp.NewStatsHandler(statsService),
		Root:   transportHttp.NewRootHandler(cfg.PublicDir, db),
		Uptime: websocket.NewUptimeHandler(started, cfg.UptimeInterval, cfg.AllowedOrigins),
	})

	go cleanup.NewWorker(authService, cfg.SessionCleanupInterval).Run(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Server error")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("Server is shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Server forced to shutdown")
		return
	}
	logging.Info().Msg("Server exited gracefully")
}
