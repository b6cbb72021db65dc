package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"fair/config"
	"fair/di"
	"fair/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.Setup(cfg, logger.ComponentWorker)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("Starting reservation worker.")

	di.InitializeWorker().Run(ctx)

	log.Info().Msg("Reservation worker stopped.")
}
