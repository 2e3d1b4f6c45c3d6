package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/BradenHooton/egaming/internal/config"
	"github.com/BradenHooton/egaming/internal/database"
	"github.com/BradenHooton/egaming/internal/repositories"
	"github.com/BradenHooton/egaming/internal/services"
	"github.com/BradenHooton/egaming/internal/store"
	pkglogger "github.com/BradenHooton/egaming/pkg/logger"
)

func ptr[T any](v T) *T {
	return &v
}

var sampleGames = []services.CreateGameInput{
	{
		Title:        "Snake",
		Description:  ptr("Classic snake game - eat food and grow longer!"),
		GameLink:     "https://playsnake.org/",
		ThumbnailURL: ptr("https://playsnake.org/assets/og-image.png"),
		SortOrder:    ptr(1),
	},
	{
		Title:        "Tetris",
		Description:  ptr("Stack blocks and clear lines in this timeless puzzle game."),
		GameLink:     "https://tetris.com/play-tetris/",
		ThumbnailURL: ptr("https://tetris.com/img/favicon_192x192.png"),
		SortOrder:    ptr(2),
	},
	{
		Title:        "2048",
		Description:  ptr("Slide and merge tiles to reach 2048!"),
		GameLink:     "https://play2048.co/",
		ThumbnailURL: ptr("https://play2048.co/favicon.ico"),
		SortOrder:    ptr(3),
	},
	{
		Title:       "Pac-Man",
		Description: ptr("Navigate the maze, eat pellets, avoid ghosts!"),
		GameLink:    "https://www.google.com/logos/2010/pacman10-i.html",
		SortOrder:   ptr(4),
	},
	{
		Title:       "Wordle",
		Description: ptr("Guess the 5-letter word in 6 tries."),
		GameLink:    "https://www.nytimes.com/games/wordle/index.html",
		SortOrder:   ptr(5),
	},
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.NewConnection(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, cfg.Database.DSN(), logger); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	userService := services.NewUserService(store.New(db), logger, pkglogger.NewAuditLogger(logger))
	gameService := services.NewGameService(repositories.NewGameRepository(db.Pool), logger)

	if cfg.Seed.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD not set, skipping admin user")
	} else {
		created, err := userService.EnsureAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
		if err != nil {
			logger.Error("failed to seed admin user", slog.Any("error", err))
			os.Exit(1)
		}
		if created {
			logger.Info("created admin user", slog.String("email", cfg.Seed.AdminEmail))
		} else {
			logger.Info("admin user already exists", slog.String("email", cfg.Seed.AdminEmail))
		}
	}

	n, err := gameService.SeedCatalog(ctx, sampleGames)
	if err != nil {
		logger.Error("failed to seed games", slog.Any("error", err))
		os.Exit(1)
	}
	if n == 0 {
		logger.Info("games already exist, skipping game seed")
		return
	}
	logger.Info("created sample games", slog.Int("count", n))
}
