// Package migrations embeds the SQL schema so binaries migrate without a
// checkout of the repository next to them.
package migrations

import "embed"

//go:embed postgres/*.sql
var Postgres embed.FS

const PostgresDir = "postgres"
