//go:build !postgres && !sqlite

package main

import "github.com/billingcat/userapi/model"

// migrations need a database driver compiled in
func migrationsDir() string             { return "" }
func migrateDSN(_ *model.Config) string { return "" }
