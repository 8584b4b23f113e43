// Package migrations embeds the SQL schema into the binary.
//
// Importing it for side effects registers the files with the database
// package, so Migrate works without the SQL present on disk.
package migrations

import (
	"embed"

	"github.com/wayneindustries/security-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
