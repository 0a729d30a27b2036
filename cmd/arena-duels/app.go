package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ishyv/tx-discord-bot-sub002/internal/api"
	"github.com/ishyv/tx-discord-bot-sub002/internal/config"
	"github.com/ishyv/tx-discord-bot-sub002/internal/constants"
	"github.com/ishyv/tx-discord-bot-sub002/internal/items"
	"github.com/ishyv/tx-discord-bot-sub002/internal/logging"
	"github.com/ishyv/tx-discord-bot-sub002/internal/service"
	"github.com/ishyv/tx-discord-bot-sub002/internal/storage"
	"github.com/ishyv/tx-discord-bot-sub002/internal/version"
)

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid arena configuration", err, logging.Fields{
			"config_path": path,
			"hint":        "create an arena_config.json with optional keys: server.address, combat, base_stats, item_list, fight_ttl_seconds, sweep_every_seconds, sweep_batch_size",
		})
	}
	return cfg
}

func openStoreOrExit(dbPath string) *gorm.DB {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, logging.Fields{"db_path": dbPath})
	}
	return db
}

func buildArena(db *gorm.DB, cfg *config.LoadedConfig) *service.Arena {
	return service.New(service.Options{
		Fights:   storage.NewSQLiteFightRepository(db),
		Profiles: storage.NewSQLiteProfileRepository(db),
		Items:    items.NewConfigResolver(cfg.Items),
		Audit:    storage.NewSQLiteAuditSink(db),
		Engine:   cfg.Combat,
		Base: service.BaseStats{
			HP:      cfg.BaseHitPoints,
			Attack:  cfg.BaseAttack,
			Defense: cfg.BaseDefense,
		},
		FightTTL: cfg.FightTTL,
	})
}

func registerRoutes(router *gin.Engine, handler *api.FightHandler, gatewayToken string) {
	router.GET(constants.RouteVersion, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version": version.Version,
			"commit":  version.Commit,
			"date":    version.Date,
			"dirty":   version.Dirty,
		})
	})

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	apiRoutes.Use(api.GatewayAuth(gatewayToken))
	{
		apiRoutes.POST(constants.RouteFights, handler.Challenge)
		apiRoutes.GET(constants.RouteFightByID, handler.GetFight)
		apiRoutes.POST(constants.RouteFightAccept, handler.Accept)
		apiRoutes.POST(constants.RouteFightMove, handler.SubmitMove)
		apiRoutes.POST(constants.RouteFightForfeit, handler.Forfeit)
		apiRoutes.POST(constants.RouteFightExpire, handler.Expire)
		apiRoutes.GET(constants.RouteOpenFight, handler.GetOpenFight)
		apiRoutes.GET(constants.RouteProfile, handler.GetProfile)
	}
}
