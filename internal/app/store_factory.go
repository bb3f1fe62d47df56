package app

import (
	"fmt"
	"strings"

	"github.com/shrimpsizemoose/qsolog/internal/store"
	"github.com/shrimpsizemoose/qsolog/internal/store/logfile"
	"github.com/shrimpsizemoose/qsolog/internal/store/postgres"
	"github.com/shrimpsizemoose/qsolog/internal/store/sqlite"
)

// NewLogStore returns the store for the session's contest log.
func NewLogStore() store.LogStore {
	return logfile.New()
}

// NewArchive opens the SQL archive named by dsn. DSNs starting with
// "postgres" select Postgres, everything else is an SQLite path.
func NewArchive(dsn, migrationsDir string) (store.ArchiveStore, error) {
	if dsn == "" {
		return nil, ErrArchiveNotConfigured
	}

	dbType := store.DBTypeSQLite
	if strings.HasPrefix(dsn, "postgres") {
		dbType = store.DBTypePostgres
	}

	switch dbType {
	case store.DBTypePostgres:
		return postgres.NewPostgresStore(dsn, migrationsDir)
	case store.DBTypeSQLite:
		return sqlite.NewSQLiteStore(dsn, migrationsDir)
	default:
		return nil, fmt.Errorf("unable to determine database type from DSN: %s", dsn)
	}
}
