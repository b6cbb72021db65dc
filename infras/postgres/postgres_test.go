package postgres_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fair/config"
	"fair/infras/postgres"
)

func TestDSN(t *testing.T) {
	endpoint := config.PostgresEndpoint{
		Host:     "db.fair.internal",
		Port:     "5432",
		Username: "fair",
		Password: "p@ss/word",
		Name:     "fair",
		SSLMode:  "disable",
		Timezone: "UTC",
	}

	dsn := postgres.DSN(endpoint, "staging_", url.Values{"x-migrations-table": {"schema_migrations"}})

	parsed, err := url.Parse(dsn)
	require.NoError(t, err)

	password, _ := parsed.User.Password()
	assert.Equal(t, "p@ss/word", password)
	assert.Equal(t, "db.fair.internal:5432", parsed.Host)
	assert.Equal(t, "/staging_fair", parsed.Path)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
	assert.Equal(t, "UTC", parsed.Query().Get("timezone"))
	assert.Equal(t, "schema_migrations", parsed.Query().Get("x-migrations-table"))
}

func TestConnection_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	shared := sqlx.NewDb(db, "postgres")
	conn := &postgres.Connection{Read: shared, Write: shared}

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("replica down"))

	err = conn.Ping(context.Background())

	assert.ErrorContains(t, err, "ping read database")
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectClose()
	conn.Close()
	assert.NoError(t, mock.ExpectationsWereMet())
}
