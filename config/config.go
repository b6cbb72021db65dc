package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const EnvDevelopment = "development"

// PostgresEndpoint is one side of the read/write connection pair.
type PostgresEndpoint struct {
	Host     string `default:"localhost" envconfig:"HOST"`
	Port     string `default:"5432"      envconfig:"PORT"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `default:"fair"      envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `default:"disable"   envconfig:"SSL_MODE"`
}

type Config struct {
	Server struct {
		Env      string `default:"development" envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `default:"8080"        envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `default:"5"  envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `default:"10" envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `default:"fair" envconfig:"APP_NAME"`
		Timezone string `envconfig:"TIMEZONE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `default:"120" envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `default:"60"  envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Reservation struct {
		ValidityPeriodDays   int    `default:"3"   envconfig:"VALIDITY_PERIOD_DAYS"`
		Currency             string `default:"IDR" envconfig:"CURRENCY"`
		ReleaseOnRefund      bool   `envconfig:"RELEASE_ON_REFUND"`
		SweepIntervalSeconds int    `default:"60"  envconfig:"SWEEP_INTERVAL_SECONDS"`
		SweepBatchSize       int    `default:"100" envconfig:"SWEEP_BATCH_SIZE"`
		SweepLockSeconds     int    `default:"55"  envconfig:"SWEEP_LOCK_SECONDS"`
	} `envconfig:"RESERVATION"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `default:"localhost" envconfig:"HOST"`
				Port     string `default:"6379"      envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `default:"300" envconfig:"TTL"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `default:"15"    envconfig:"ACCESS_EXPIRE_MIN"`
		RefreshExpireMin int    `default:"10080" envconfig:"REFRESH_EXPIRE_MIN"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int              `default:"5"                 envconfig:"MAX_RETRY"`
			RetryWaitTime  int              `default:"2"                 envconfig:"RETRY_WAIT_TIME"`
			MigrationTable string           `default:"schema_migrations" envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool             `envconfig:"AUTO_MIGRATE"`
			Prefix         string           `envconfig:"PREFIX"`
			Read           PostgresEndpoint `envconfig:"READ"`
			Write          PostgresEndpoint `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Brokers       []string `envconfig:"BROKERS"`
		ConsumerGroup string   `default:"fair-worker" envconfig:"CONSUMER_GROUP"`
		SASL          struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		Topic struct {
			ReservationEvents string `default:"booth.reservation.events" envconfig:"RESERVATION_EVENTS"`
			PaymentCallback   string `default:"payment.callback"         envconfig:"PAYMENT_CALLBACK"`
		} `envconfig:"TOPIC"`
		Retry struct {
			InitialBackoffMs int `default:"500"   envconfig:"INITIAL_BACKOFF_MS"`
			MaxBackoffMs     int `default:"30000" envconfig:"MAX_BACKOFF_MS"`
			MaxAttempts      int `default:"10"    envconfig:"MAX_ATTEMPTS"`
		} `envconfig:"RETRY"`
		// DeadLetterSuffix names the topic failed messages are parked on after
		// Retry.MaxAttempts. Empty keeps retrying until the message succeeds.
		DeadLetterSuffix string `envconfig:"DEAD_LETTER_SUFFIX"`
	} `envconfig:"KAFKA"`

	Metrics struct {
		Namespace string `default:"fair" envconfig:"NAMESPACE"`
	} `envconfig:"METRICS"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			BucketName      string `envconfig:"BUCKET_NAME"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
		} `envconfig:"S3"`
	} `envconfig:"EXTERNAL"`
}

// IsDevelopment reports whether the service runs with local conveniences
// such as console logging and unchecked secrets.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "" || c.Server.Env == EnvDevelopment
}

// Validate rejects settings the reservation lifecycle cannot run with.
// Secrets are only enforced outside development.
func (c *Config) Validate() error {
	var problems []string

	if c.Reservation.ValidityPeriodDays < 1 {
		problems = append(problems, "RESERVATION_VALIDITY_PERIOD_DAYS must be at least 1")
	}

	if c.Reservation.SweepBatchSize < 1 {
		problems = append(problems, "RESERVATION_SWEEP_BATCH_SIZE must be at least 1")
	}

	if c.Reservation.SweepLockSeconds >= c.Reservation.SweepIntervalSeconds && c.Reservation.SweepIntervalSeconds > 0 {
		problems = append(problems, "RESERVATION_SWEEP_LOCK_SECONDS must be shorter than the sweep interval")
	}

	if !c.IsDevelopment() {
		if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
			problems = append(problems, "JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required")
		}

		if c.JWT.AccessSecret != "" && c.JWT.AccessSecret == c.JWT.RefreshSecret {
			problems = append(problems, "JWT access and refresh secrets must differ")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return nil
}

var (
	conf    Config
	once    sync.Once
	initErr error
)

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	var cfg Config

	if err := godotenv.Load(".env"); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading .env file: %w", err)
		}

		log.Debug().Msg("No .env file found, reading the process environment only")
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func Init() error {
	once.Do(func() {
		var cfg *Config

		cfg, initErr = Load()
		if initErr != nil {
			return
		}

		conf = *cfg

		log.Info().Str("env", conf.Server.Env).Msg("Service configuration initialized")
	})

	return initErr
}

func Get() *Config {
	if err := Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize configuration")
	}

	return &conf
}
