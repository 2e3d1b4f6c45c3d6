package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BradenHooton/egaming/internal/auth"
	"github.com/BradenHooton/egaming/internal/config"
	"github.com/BradenHooton/egaming/internal/database"
	"github.com/BradenHooton/egaming/internal/handlers"
	middlewareCustom "github.com/BradenHooton/egaming/internal/middleware"
	"github.com/BradenHooton/egaming/internal/repositories"
	"github.com/BradenHooton/egaming/internal/routes"
	"github.com/BradenHooton/egaming/internal/services"
	"github.com/BradenHooton/egaming/internal/store"
	pkghttp "github.com/BradenHooton/egaming/pkg/http"
	pkglogger "github.com/BradenHooton/egaming/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	startupCtx, startupCancel := context.WithTimeout(context.Background(), time.Minute)
	db, err := database.NewConnection(startupCtx, &cfg.Database, logger)
	if err != nil {
		startupCancel()
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(startupCtx, cfg.Database.DSN(), logger); err != nil {
		startupCancel()
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	startupCancel()

	credentialStore := store.New(db)
	gameRepo := repositories.NewGameRepository(db.Pool)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiry)
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:    cfg.Timing.BaseDelayMs,
		RandomDelayMs:  cfg.Timing.RandomDelayMs,
		DelayOnSuccess: cfg.Timing.DelayOnSuccess,
	})
	auditLogger := pkglogger.NewAuditLogger(logger)

	notifier, err := newNotifier(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize notifier", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize services
	authService := services.NewAuthService(credentialStore, notifier, tokenManager, timingDelay, services.AuthConfig{
		CodeExpiry:             cfg.Auth.CodeExpiry,
		RefreshTokenExpiry:     cfg.Auth.RefreshTokenExpiry,
		MaxFailedLoginAttempts: cfg.Auth.MaxFailedLoginAttempts,
		LockoutDuration:        cfg.Auth.LockoutDuration,
	}, logger, auditLogger)
	userService := services.NewUserService(credentialStore, logger, auditLogger)
	gameService := services.NewGameService(gameRepo, logger)

	// Bootstrap first admin user if configured
	if cfg.Seed.AdminPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if created, err := userService.EnsureAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
			logger.Error("failed to ensure admin user", slog.Any("error", err))
		} else if created {
			logger.Info("admin user bootstrapped", slog.String("email", pkglogger.SanitizedEmail(cfg.Seed.AdminEmail)))
		}
		cancel()
	}

	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger, ipConfig))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService, ipConfig),
		Users:  handlers.NewUserHandler(userService),
		Games:  handlers.NewGameHandler(gameService),
		Health: handlers.NewHealthHandler(db).Check,
	}, auth.NewGuard(tokenManager, credentialStore.Repos().Users, logger), middlewareCustom.RateLimitConfig{
		Requests: cfg.RateLimit.AuthRequests,
		Window:   cfg.RateLimit.AuthWindow,
		IPConfig: ipConfig,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// let queued code deliveries finish before the pool closes
	authService.Wait()

	logger.Info("server stopped gracefully")
}

// newNotifier picks SES when a sender address is configured
func newNotifier(cfg *config.Config, logger *slog.Logger) (services.Notifier, error) {
	if cfg.Email.MailFrom == "" {
		logger.Warn("MAIL_FROM not set, verification codes will only be logged")
		return services.NewLogNotifier(logger, cfg.Server.Env), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return services.NewSESNotifier(ctx, cfg.Email.AWSRegion, cfg.Email.MailFrom, cfg.Email.AppName, cfg.Auth.CodeExpiry, logger)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
