// Package config loads run-level configuration from the environment and an
// optional config file. Every key can be set as PLANHOUSE_<KEY>; a
// planhouse.yaml in the working directory fills in the rest.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config carries everything a run needs: where the warehouse is and where
// the media-plan tree lives.
type Config struct {
	DatabaseType string // postgres, mysql or sqlite
	DatabaseDSN  string // full DSN; overrides the individual fields

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	SQLitePath string // used when DatabaseType is sqlite

	PlanRoot string // root directory with one subdirectory per client
}

// Load reads configuration and validates it. A missing config file is fine;
// missing required values are not.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("planhouse")
	v.AutomaticEnv()

	v.SetDefault("db_type", "postgres")
	v.SetDefault("db_port", "5432")
	v.SetDefault("sqlite_path", "planhouse.db")

	v.SetConfigName("planhouse")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		DatabaseType: v.GetString("db_type"),
		DatabaseDSN:  v.GetString("db_dsn"),
		DBHost:       v.GetString("db_host"),
		DBPort:       v.GetString("db_port"),
		DBUser:       v.GetString("db_user"),
		DBPassword:   v.GetString("db_pass"),
		DBName:       v.GetString("db_name"),
		SQLitePath:   v.GetString("sqlite_path"),
		PlanRoot:     v.GetString("plan_root"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that everything required for the selected database type
// is present.
func (c *Config) Validate() error {
	if c.PlanRoot == "" {
		return fmt.Errorf("PLANHOUSE_PLAN_ROOT is required")
	}
	switch c.DatabaseType {
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("PLANHOUSE_SQLITE_PATH is required for sqlite")
		}
	case "postgres", "mysql":
		if c.DatabaseDSN != "" {
			return nil
		}
		if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
			return fmt.Errorf("PLANHOUSE_DB_HOST, PLANHOUSE_DB_USER and PLANHOUSE_DB_NAME are required for %s", c.DatabaseType)
		}
	default:
		return fmt.Errorf("unknown database type %q (expected postgres, mysql or sqlite)", c.DatabaseType)
	}
	return nil
}

// DSN assembles the connection string for the selected database type.
func (c *Config) DSN() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}
	switch c.DatabaseType {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	case "sqlite":
		return c.SQLitePath
	}
	return ""
}
