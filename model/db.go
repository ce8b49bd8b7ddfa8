package model

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MemoryDB selects a private in-memory sqlite database.
const MemoryDB = ":memory:"

// InitDatabase opens the database configured for cfg.Mode.
func InitDatabase(cfg *Config) (*Store, error) {
	var (
		db  *gorm.DB
		err error
	)
	svr := cfg.Server()
	gormConfig := gormLoggerFor(cfg, svr)

	switch svr.Database {
	case "sqlite3":
		filename := svr.DBName
		if filename != MemoryDB {
			if err = os.MkdirAll("db", 0o755); err != nil {
				return nil, err
			}
			filename = filepath.Join("db", svr.DBName)
		}
		slog.Info("use sqlite3", "database", filename)
		db, err = gorm.Open(sqlite.Open(filename), gormConfig)
		if err != nil {
			return nil, err
		}
		if filename == MemoryDB {
			// every new connection would see a fresh, empty database
			sqlDB, err := db.DB()
			if err != nil {
				return nil, err
			}
			sqlDB.SetMaxOpenConns(1)
			sqlDB.SetConnMaxLifetime(0)
		}
	case "postgresql":
		slog.Info("use postgresql", "database", svr.DBName, "host", svr.DBHost)
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
			svr.DBHost, svr.DBUser, svr.DBPassword, svr.DBName, svr.DBPort)
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("database %q not supported", svr.Database)
	}
	return &Store{db: db, Config: cfg}, nil
}

// AutoMigrate creates or updates the schema and fills the search columns of
// rows written before they existed.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&User{}); err != nil {
		return err
	}
	return s.backfillNorms()
}

func (s *Store) backfillNorms() error {
	var users []User
	err := s.db.Select("id", "name", "surname").
		Where("(name_norm = '' AND name <> '') OR (surname_norm = '' AND surname <> '')").
		Find(&users).Error
	if err != nil {
		return err
	}
	for i := range users {
		u := &users[i]
		err = s.db.Model(&User{}).Where("id = ?", u.ID).Updates(map[string]any{
			"name_norm":    normalizeName(u.Name),
			"surname_norm": normalizeName(u.Surname),
		}).Error
		if err != nil {
			return fmt.Errorf("cannot fill search columns of user %s: %w", u.ID, err)
		}
	}
	if len(users) > 0 {
		slog.Info("filled search columns", "users", len(users))
	}
	return nil
}
