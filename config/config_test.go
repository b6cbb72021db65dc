package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fair/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Reservation.ValidityPeriodDays)
	assert.Equal(t, "IDR", cfg.Reservation.Currency)
	assert.Equal(t, "booth.reservation.events", cfg.Kafka.Topic.ReservationEvents)
	assert.Equal(t, 500, cfg.Kafka.Retry.InitialBackoffMs)
	assert.Equal(t, 30000, cfg.Kafka.Retry.MaxBackoffMs)
	assert.Empty(t, cfg.Kafka.DeadLetterSuffix)
	assert.Equal(t, "5432", cfg.DB.Postgres.Write.Port)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("RESERVATION_VALIDITY_PERIOD_DAYS", "7")
	t.Setenv("DB_POSTGRES_READ_HOST", "replica.fair.internal")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Reservation.ValidityPeriodDays)
	assert.Equal(t, "replica.fair.internal", cfg.DB.Postgres.Read.Host)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		cfg := &config.Config{}
		cfg.Reservation.ValidityPeriodDays = 3
		cfg.Reservation.SweepBatchSize = 100
		cfg.Reservation.SweepIntervalSeconds = 60
		cfg.Reservation.SweepLockSeconds = 55

		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "development defaults", mutate: func(*config.Config) {}},
		{
			name:    "zero validity period",
			mutate:  func(c *config.Config) { c.Reservation.ValidityPeriodDays = 0 },
			wantErr: "VALIDITY_PERIOD_DAYS",
		},
		{
			name:    "lock outlives the sweep interval",
			mutate:  func(c *config.Config) { c.Reservation.SweepLockSeconds = 60 },
			wantErr: "SWEEP_LOCK_SECONDS",
		},
		{
			name:    "production without secrets",
			mutate:  func(c *config.Config) { c.Server.Env = "production" },
			wantErr: "JWT_ACCESS_SECRET",
		},
		{
			name: "production with shared secret",
			mutate: func(c *config.Config) {
				c.Server.Env = "production"
				c.JWT.AccessSecret = "same"
				c.JWT.RefreshSecret = "same"
			},
			wantErr: "must differ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
