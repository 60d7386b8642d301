package config

import (
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"OPTICA_APP_NAME":          os.Getenv("OPTICA_APP_NAME"),
		"OPTICA_APP_ENV":           os.Getenv("OPTICA_APP_ENV"),
		"OPTICA_APP_PORT":          os.Getenv("OPTICA_APP_PORT"),
		"OPTICA_DATABASE_HOST":     os.Getenv("OPTICA_DATABASE_HOST"),
		"OPTICA_DATABASE_PORT":     os.Getenv("OPTICA_DATABASE_PORT"),
		"OPTICA_DATABASE_USER":     os.Getenv("OPTICA_DATABASE_USER"),
		"OPTICA_DATABASE_PASSWORD": os.Getenv("OPTICA_DATABASE_PASSWORD"),
		"OPTICA_DATABASE_DBNAME":   os.Getenv("OPTICA_DATABASE_DBNAME"),
		"OPTICA_DATABASE_SSLMODE":  os.Getenv("OPTICA_DATABASE_SSLMODE"),
		"OPTICA_POS_TAX_RATE":      os.Getenv("OPTICA_POS_TAX_RATE"),
		"OPTICA_POS_STORE_NAME":    os.Getenv("OPTICA_POS_STORE_NAME"),
		"OPTICA_LOG_LEVEL":         os.Getenv("OPTICA_LOG_LEVEL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "optica-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "optica", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.True(t, cfg.POS.TaxRate.Equal(decimal.NewFromFloat(0.18)))
		assert.Equal(t, "Óptica Neyra", cfg.POS.StoreName)
		assert.Equal(t, "America/Lima", cfg.POS.Timezone)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("env vars override defaults", func(t *testing.T) {
		clearEnv()
		os.Setenv("OPTICA_APP_PORT", "9090")
		os.Setenv("OPTICA_DATABASE_HOST", "db.internal")
		os.Setenv("OPTICA_POS_TAX_RATE", "0.10")
		os.Setenv("OPTICA_POS_STORE_NAME", "Óptica de Prueba")
		os.Setenv("OPTICA_LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.App.Port)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.True(t, cfg.POS.TaxRate.Equal(decimal.NewFromFloat(0.10)))
		assert.Equal(t, "Óptica de Prueba", cfg.POS.StoreName)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("production requires database password", func(t *testing.T) {
		clearEnv()
		os.Setenv("OPTICA_APP_ENV", "production")
		os.Setenv("OPTICA_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")
	})

	t.Run("rejects tax rate of 1 or more", func(t *testing.T) {
		clearEnv()
		os.Setenv("OPTICA_POS_TAX_RATE", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pos.tax_rate")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "optica",
		SSLMode:  "disable",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "p%40ss%2Fword")
	assert.Contains(t, dsn, "sslmode=disable")
}
