//go:build sqlite

package main

import (
	"fmt"
	"path/filepath"

	"github.com/billingcat/userapi/model"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3" // CGO!
)

func migrationsDir() string { return "migrations/sqlite3" }

func migrateDSN(cfg *model.Config) string {
	dbPath := "./" + filepath.ToSlash(filepath.Join("db", cfg.Server().DBName))
	return fmt.Sprintf("sqlite3://%s?_journal_mode=WAL", dbPath)
}
