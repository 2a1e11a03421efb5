package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		DatabaseType: "postgres",
		DBHost:       "localhost",
		DBPort:       "5432",
		DBUser:       "etl",
		DBPassword:   "secret",
		DBName:       "warehouse",
		PlanRoot:     "/data/plans",
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateRequiresPlanRoot(t *testing.T) {
	cfg := validConfig()
	cfg.PlanRoot = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRequiresDatabaseFields(t *testing.T) {
	cfg := validConfig()
	cfg.DBHost = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateDSNOverrideSuffices(t *testing.T) {
	cfg := validConfig()
	cfg.DBHost = ""
	cfg.DatabaseDSN = "host=db user=etl dbname=warehouse"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownDatabaseType(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseType = "oracle"
	assert.Error(t, cfg.Validate())
}

func TestDSNPostgres(t *testing.T) {
	dsn := validConfig().DSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=warehouse")
}

func TestDSNMySQL(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseType = "mysql"
	assert.Equal(t, "etl:secret@tcp(localhost:5432)/warehouse?parseTime=true", cfg.DSN())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PLANHOUSE_DB_TYPE", "sqlite")
	t.Setenv("PLANHOUSE_SQLITE_PATH", "test.db")
	t.Setenv("PLANHOUSE_PLAN_ROOT", "/data/plans")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, "test.db", cfg.SQLitePath)
	assert.Equal(t, "/data/plans", cfg.PlanRoot)
}

func TestLoadMissingRootFails(t *testing.T) {
	t.Setenv("PLANHOUSE_DB_TYPE", "sqlite")
	t.Setenv("PLANHOUSE_PLAN_ROOT", "")

	_, err := Load()
	assert.Error(t, err)
}
