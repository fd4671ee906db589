package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go-stockctl/internal/ai"
	"go-stockctl/internal/config"
	"go-stockctl/internal/database"
	"go-stockctl/internal/handlers"
	"go-stockctl/internal/logs"
	"go-stockctl/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to read config: %+v", err)
	}

	logger, err := logs.New(cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		log.Fatalf("Failed to create logger: %+v", err)
	}

	db, err := database.Connect(cfg.DBDriver, cfg.DBDSN, logger, cfg.LogLevel == "debug")
	if err != nil {
		logger.Error("database unavailable", slog.Any("error", err))
		os.Exit(1)
	}
	store := database.NewStore(db)

	// The assistant is optional: no key, no /assistant/ask.
	var assistant handlers.Assistant
	if cfg.GeminiAPIKey != "" {
		agent, err := ai.NewAgent(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, store, logger)
		if err != nil {
			logger.Error("assistant disabled", slog.Any("error", err))
		} else {
			defer agent.Close()
			assistant = agent
		}
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handlers.New(store, logger, assistant).Routes(r, cfg.AllowSeed)

	logger.Info("server starting", slog.String("addr", cfg.Addr()), slog.String("env", cfg.Env))
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Error("server failed to start", slog.Any("error", err))
		os.Exit(1)
	}
}
