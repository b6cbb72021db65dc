package logger

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fair/config"
)

// Components tag every line so API, worker and migration logs can be told
// apart once shipped.
const (
	ComponentAPI     = "api"
	ComponentWorker  = "worker"
	ComponentMigrate = "migrate"
)

var output io.Writer = os.Stdout

// InitLogger installs a console logger at trace level. It is used before the
// configuration is available.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339})
}

// Setup replaces the bootstrap logger for the configured environment. Outside
// development lines are JSON and carry the app name and component.
func Setup(cfg *config.Config, component string) {
	InitLogger()

	if !cfg.IsDevelopment() {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		log.Logger = zerolog.New(output).With().
			Timestamp().
			Str("app", cfg.App.Name).
			Str("component", component).
			Logger()
	} else {
		log.Logger = log.With().Str("component", component).Logger()
	}

	SetLogLevel(cfg)
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// SetLogLevel applies LOG_LEVEL. Unknown or empty values keep trace in
// development and info everywhere else.
func SetLogLevel(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || cfg.Server.LogLevel == "" {
		level = zerolog.InfoLevel
		if cfg.IsDevelopment() {
			level = zerolog.TraceLevel
		}

		log.Debug().Str("level", level.String()).Msg("No usable log level configured, using default")
	}

	zerolog.SetGlobalLevel(level)
}
