package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"fair/config"
	"fair/helper"
	"fair/shared/logger"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action is required: up, down, step-up, drop, version or force <version>")
	}

	cfg := config.Get()

	logger.Setup(cfg, logger.ComponentMigrate)

	if err := helper.Runner(cfg, os.Args[1], os.Args[argLength:]...); err != nil {
		log.Fatal().Err(err).Str("action", os.Args[1]).Msg("Migration failed")
	}
}
