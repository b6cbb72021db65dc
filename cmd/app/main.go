package main

import (
	"github.com/rs/zerolog/log"

	"fair/config"
	"fair/di"
	"fair/helper"
	"fair/shared/logger"
)

// @title Fair API
// @version 1.0
// @description Trade fair booth reservation service.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.Setup(cfg, logger.ComponentAPI)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
