package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/config"
)

func TestOpenUnreachableDatabase(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := &config.Config{
		DBHost:         "127.0.0.1",
		DBPort:         1,
		DBName:         "scraper",
		DBUser:         "scraper",
		DBPassword:     "secret",
		DBSSLMode:      "disable",
		DBMaxOpenConns: 1,
	}

	db, err := Open(ctx, cfg, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "scraper@127.0.0.1:1")
}
