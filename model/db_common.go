package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is the main structure of the model
type Store struct {
	db     *gorm.DB
	Config *Config
}

type Config struct {
	Mode        string
	Port        int
	Workers     int
	MaxPageSize int
	Servers     map[string]ServerConfig
}

// ServerConfig holds the database settings of one mode.
type ServerConfig struct {
	Database   string
	DBName     string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     int
	DBLogger   string
}

const (
	defaultPort        = 8090
	defaultWorkers     = 16
	defaultMaxPageSize = 200
)

// Server returns the database settings for the active mode.
func (cfg *Config) Server() ServerConfig {
	return cfg.Servers[cfg.Mode]
}

// LoadConfig reads the TOML file at path (if any) and applies USERAPI_*
// environment overrides on top.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if err == nil {
			if err = toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("cannot parse %s: %w", path, err)
			}
		}
	}
	applyEnv(cfg)
	cfg.setDefaults()
	return cfg, nil
}

// applyEnv overrides the loaded values, e.g. USERAPI_DB_PASSWORD sets
// DBPassword of the server selected by Mode.
func applyEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix("userapi")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{
		"mode", "port", "workers", "maxpagesize",
		"db.database", "db.name", "db.user", "db.password", "db.host", "db.port", "db.logger",
	} {
		_ = v.BindEnv(key)
	}

	if v.IsSet("mode") {
		cfg.Mode = v.GetString("mode")
	}
	if v.IsSet("port") {
		cfg.Port = v.GetInt("port")
	}
	if v.IsSet("workers") {
		cfg.Workers = v.GetInt("workers")
	}
	if v.IsSet("maxpagesize") {
		cfg.MaxPageSize = v.GetInt("maxpagesize")
	}

	if cfg.Mode == "" {
		cfg.Mode = "development"
	}
	if cfg.Servers == nil {
		cfg.Servers = map[string]ServerConfig{}
	}
	svr := cfg.Servers[cfg.Mode]
	if v.IsSet("db.database") {
		svr.Database = v.GetString("db.database")
	}
	if v.IsSet("db.name") {
		svr.DBName = v.GetString("db.name")
	}
	if v.IsSet("db.user") {
		svr.DBUser = v.GetString("db.user")
	}
	if v.IsSet("db.password") {
		svr.DBPassword = v.GetString("db.password")
	}
	if v.IsSet("db.host") {
		svr.DBHost = v.GetString("db.host")
	}
	if v.IsSet("db.port") {
		svr.DBPort = v.GetInt("db.port")
	}
	if v.IsSet("db.logger") {
		svr.DBLogger = v.GetString("db.logger")
	}
	cfg.Servers[cfg.Mode] = svr
}

func (cfg *Config) setDefaults() {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = defaultMaxPageSize
	}
	svr := cfg.Servers[cfg.Mode]
	if svr.Database == "" {
		svr.Database = "sqlite3"
	}
	if svr.DBName == "" {
		svr.DBName = "users.db"
	}
	if svr.DBPort == 0 {
		svr.DBPort = 5432
	}
	cfg.Servers[cfg.Mode] = svr
}

// shared helper for GORM logger
func gormLoggerFor(cfg *Config, svr ServerConfig) *gorm.Config {
	gormConfig := &gorm.Config{}
	switch svr.DBLogger {
	case "info":
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	case "silent":
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	default:
		if cfg.Mode == "development" {
			gormConfig.Logger = logger.Default.LogMode(logger.Info)
		} else {
			gormConfig.Logger = logger.Default.LogMode(logger.Silent)
		}
	}
	return gormConfig
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
