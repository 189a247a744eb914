package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/taskmindhq/taskmind/taskmind/chat"
	"github.com/taskmindhq/taskmind/taskmind/chat/adapters"
	"github.com/taskmindhq/taskmind/taskmind/config"
	"github.com/taskmindhq/taskmind/taskmind/db"
	"github.com/taskmindhq/taskmind/taskmind/server"
	"github.com/taskmindhq/taskmind/taskmind/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Auth.JWTSecret == "" {
		logger.Fatal().Msg("auth.jwt_secret is required")
	}
	if cfg.OpenRouter.APIKey == "" {
		logger.Fatal().Msg("openrouter.api_key is required")
	}

	database, err := db.ConnectToDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer database.Close()
	if err := db.InitSchema(context.Background(), database); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize schema")
	}

	tasks := store.NewLibSQLTaskStore(database)
	convs := store.NewLibSQLConversationStore(database)

	provider := adapters.NewOpenRouterClient(
		cfg.OpenRouter.APIKey,
		cfg.OpenRouter.BaseURL,
		cfg.OpenRouter.Model,
		cfg.OpenRouter.Timeout,
		logger,
	)

	orch := chat.NewOrchestrator(provider, tasks, convs, logger, chat.Config{
		HistoryLimit: cfg.Chat.HistoryLimit,
		Temperature:  cfg.Chat.Temperature,
		MaxTokens:    cfg.Chat.MaxTokens,
	})
	resolver := chat.NewResolver(tasks, logger)

	srv := server.New(tasks, orch, resolver, cfg.Auth.JWTSecret, logger)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info().Str("addr", addr).Str("model", cfg.OpenRouter.Model).Msg("starting server")
	if err := srv.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
