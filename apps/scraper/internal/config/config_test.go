package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_NAME", "wallets")
	t.Setenv("DB_USER", "scraper")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("DISCORD_CHANNEL_ID", "1234567890")
}

func TestFromViper(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		unset       []string
		expectError error
		validate    func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.DBHost)
				assert.Equal(t, 5432, cfg.DBPort)
				assert.Equal(t, "disable", cfg.DBSSLMode)
				assert.Equal(t, 30*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, "1234567890", cfg.DiscordChannelID)
				assert.Equal(t, "wallet-notices", cfg.KafkaTopic)
				assert.Equal(t, 100, cfg.BackfillPageSize)
				assert.Equal(t, time.Second, cfg.BackfillPageDelay)
				assert.Equal(t, 1, cfg.BackfillWorkers)
				assert.Equal(t, 8080, cfg.APIPort)
				assert.False(t, cfg.KafkaEnabled())
				assert.False(t, cfg.Debug)
			},
		},
		{
			name: "overrides",
			env: map[string]string{
				"DB_PORT":             "6543",
				"KAFKA_BROKER":        "localhost:9092",
				"BACKFILL_PAGE_DELAY": "250ms",
				"BACKFILL_WORKERS":    "4",
				"DEBUG":               "true",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 6543, cfg.DBPort)
				assert.True(t, cfg.KafkaEnabled())
				assert.Equal(t, 250*time.Millisecond, cfg.BackfillPageDelay)
				assert.Equal(t, 4, cfg.BackfillWorkers)
				assert.True(t, cfg.Debug)
			},
		},
		{
			name: "page size clamped",
			env:  map[string]string{"BACKFILL_PAGE_SIZE": "500"},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 100, cfg.BackfillPageSize)
			},
		},
		{
			name:        "missing token",
			unset:       []string{"DISCORD_BOT_TOKEN"},
			expectError: ErrMissingConfig,
		},
		{
			name:        "missing database settings",
			unset:       []string{"DB_HOST", "DB_PASSWORD"},
			expectError: ErrMissingConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			for _, k := range tt.unset {
				t.Setenv(k, "")
			}

			cfg, err := fromViper(newViper())
			if tt.expectError != nil {
				require.ErrorIs(t, err, tt.expectError)
				for _, k := range tt.unset {
					assert.Contains(t, err.Error(), k)
				}
				return
			}

			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}

func TestFromViperRejectsNonNumericChannel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DISCORD_CHANNEL_ID", "general")

	_, err := fromViper(newViper())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISCORD_CHANNEL_ID")
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "db",
		DBPort:     5432,
		DBUser:     "scraper",
		DBPassword: "it's secret",
		DBName:     "wallets",
		DBSSLMode:  "disable",
	}

	assert.Equal(t,
		`host='db' port=5432 user='scraper' password='it\'s secret' dbname='wallets' sslmode='disable'`,
		cfg.DatabaseDSN())
}
