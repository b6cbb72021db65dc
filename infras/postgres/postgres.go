package postgres

//nolint:revive
import (
	"context"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"fair/config"
)

const (
	driverName = "postgres"

	maxIdleConnections = 10
	maxOpenConnections = 25
	connMaxLifetime    = 30 * time.Minute
	pingTimeout        = 3 * time.Second
)

// Connection splits reads from writes. Booth locking and every lifecycle
// transition run on Write; listings and statistics may lag on Read.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres
	retry := retryPolicy{attempts: max(pg.MaxRetry, 1), wait: time.Duration(pg.RetryWaitTime) * time.Second}

	return &Connection{
		Read:  mustConnect("read", DSN(pg.Read, pg.Prefix, nil), retry),
		Write: mustConnect("write", DSN(pg.Write, pg.Prefix, nil), retry),
	}
}

// DSN renders a libpq URL for endpoint. Credentials are escaped, the
// database name gets the optional prefix and extra carries driver or
// migration parameters.
func DSN(endpoint config.PostgresEndpoint, prefix string, extra url.Values) string {
	query := url.Values{}

	if endpoint.SSLMode != "" {
		query.Set("sslmode", endpoint.SSLMode)
	}

	if endpoint.Timezone != "" {
		query.Set("timezone", endpoint.Timezone)
	}

	for key, values := range extra {
		query[key] = values
	}

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(endpoint.Username, endpoint.Password),
		Host:     net.JoinHostPort(endpoint.Host, endpoint.Port),
		Path:     "/" + prefix + endpoint.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

type retryPolicy struct {
	attempts int
	wait     time.Duration
}

func mustConnect(role, dsn string, retry retryPolicy) *sqlx.DB {
	db, err := connect(role, dsn, retry)
	if err != nil {
		log.Fatal().Err(err).Str("role", role).Msg("Giving up connecting to database")
	}

	return db
}

func connect(role, dsn string, retry retryPolicy) (*sqlx.DB, error) {
	var err error

	for attempt := 1; attempt <= retry.attempts; attempt++ {
		var db *sqlx.DB

		db, err = sqlx.Connect(driverName, dsn)
		if err == nil {
			db.SetMaxIdleConns(maxIdleConnections)
			db.SetMaxOpenConns(maxOpenConnections)
			db.SetConnMaxLifetime(connMaxLifetime)

			log.Info().Str("role", role).Int("attempt", attempt).Msg("Connected to database")

			return db, nil
		}

		log.Warn().Err(err).Str("role", role).Int("attempt", attempt).Msg("Failed connecting to database")

		if attempt < retry.attempts {
			time.Sleep(retry.wait)
		}
	}

	return nil, errors.Wrapf(err, "connect %s database after %d attempts", role, retry.attempts)
}

// Ping checks both pools.
func (c *Connection) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := c.Write.PingContext(ctx); err != nil {
		return errors.Wrap(err, "ping write database")
	}

	if err := c.Read.PingContext(ctx); err != nil {
		return errors.Wrap(err, "ping read database")
	}

	return nil
}

// Close releases both pools. When read and write share a pool it is closed once.
func (c *Connection) Close() {
	pools := []*sqlx.DB{c.Write}
	if c.Read != c.Write {
		pools = append(pools, c.Read)
	}

	for _, db := range pools {
		if db == nil {
			continue
		}

		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database connection")
		}
	}
}
