package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/ishyv/tx-discord-bot-sub002/internal/api"
	"github.com/ishyv/tx-discord-bot-sub002/internal/config"
	"github.com/ishyv/tx-discord-bot-sub002/internal/constants"
	"github.com/ishyv/tx-discord-bot-sub002/internal/logging"
	"github.com/ishyv/tx-discord-bot-sub002/internal/version"
)

func main() {
	// Local development convenience; in deployed environments the vars
	// come from the process environment and no .env file exists.
	_ = godotenv.Load()

	env, err := config.ParseEnv()
	if err != nil {
		logging.Fatal("Invalid environment configuration", err, nil)
	}
	if env.GatewayToken == "" {
		logging.Fatal("Required environment variable not set", nil, logging.Fields{"var": constants.EnvGatewayToken})
	}

	cfg := loadConfigOrExit(env.ConfigPath)
	if env.ServerAddr != "" {
		cfg.ServerAddress = env.ServerAddr
	}

	db := openStoreOrExit(env.DatabasePath)
	arena := buildArena(db, cfg)
	handler := api.NewFightHandler(arena)

	stopSweeper := startExpirySweeper(arena, cfg.SweepEvery, cfg.SweepBatch)
	defer stopSweeper()

	router := gin.Default()
	registerRoutes(router, handler, env.GatewayToken)

	logging.Info("Server started", logging.Fields{
		constants.LogFieldAddr: cfg.ServerAddress,
		"version":              version.Version,
		"commit":               version.Commit,
	})
	if err := router.Run(cfg.ServerAddress); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
