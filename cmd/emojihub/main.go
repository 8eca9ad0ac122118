package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/emojihub/emojihub/internal/app"
	"github.com/emojihub/emojihub/internal/auth"
	"github.com/emojihub/emojihub/internal/emojis"
	"github.com/emojihub/emojihub/internal/observability"
	"github.com/emojihub/emojihub/internal/permissions"
	"github.com/emojihub/emojihub/internal/platform/cache"
	"github.com/emojihub/emojihub/internal/platform/db"
	"github.com/emojihub/emojihub/internal/shared"
	"github.com/emojihub/emojihub/internal/token"
	"github.com/emojihub/emojihub/internal/users"
	"github.com/emojihub/emojihub/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	codec, err := token.NewCodec(cfg.AuthSecret)
	if err != nil {
		logger.Error("init token codec", slog.Any("error", err))
		os.Exit(1)
	}
	issuer := token.NewIssuer(codec,
		token.WithAccessTTL(cfg.AccessTokenLifetime),
		token.WithRefreshTTL(cfg.RefreshTokenLifetime),
	)

	auditLogger := shared.NewAuditLogger(dbpool)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, auditLogger, logger)

	permissionsRepo := permissions.NewRepository(dbpool)
	permissionsCache := permissions.NewCache(permissionsRepo, redisClient, logger)
	permissionsService := permissions.NewService(permissionsRepo, permissionsCache, auditLogger, logger)
	guard := permissions.Guard{Service: permissionsService, Logger: logger}

	authService := auth.NewService(usersService, codec, issuer)
	authMiddleware := auth.Middleware{Service: authService, Logger: logger}
	authHandler := auth.NewHandler(logger, authService, guard)

	emojisRepo := emojis.NewRepository(dbpool)
	emojisService := emojis.NewService(emojisRepo, auditLogger, logger)

	usersHandler := users.NewHandler(logger, usersService, guard)
	permissionsHandler := permissions.NewHandler(logger, permissionsService, guard)
	emojisHandler := emojis.NewHandler(logger, emojisService, guard)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		AuthHandler:        authHandler,
		AuthMiddleware:     authMiddleware,
		Guard:              guard,
		UsersHandler:       usersHandler,
		PermissionsHandler: permissionsHandler,
		EmojisHandler:      emojisHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
