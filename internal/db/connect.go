// Package db opens the warehouse connection for the configured backend.
package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/planhouse/planhouse/internal/config"
)

// Connect opens a gorm connection and verifies it with a ping, so an
// unreachable warehouse fails here rather than mid-run.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	var (
		gdb *gorm.DB
		err error
	)
	switch cfg.DatabaseType {
	case "postgres":
		gdb, err = gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	case "mysql":
		gdb, err = gorm.Open(mysql.Open(cfg.DSN()), gormCfg)
	case "sqlite":
		gdb, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DatabaseType, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("access %s connection: %w", cfg.DatabaseType, err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping %s database: %w", cfg.DatabaseType, err)
	}
	return gdb, nil
}
