package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingConfig is returned when one or more required settings are absent.
var ErrMissingConfig = errors.New("missing required configuration")

// maxPageSize is the largest page the Discord history endpoint will return.
const maxPageSize = 100

type Config struct {
	DBHost            string
	DBPort            int
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	DiscordToken     string
	DiscordChannelID string

	KafkaBroker  string
	KafkaTopic   string
	KafkaGroupID string

	APIPort           int
	BackfillPageSize  int
	BackfillPageDelay time.Duration
	BackfillWorkers   int

	Debug bool
}

var requiredKeys = []string{
	"DB_HOST",
	"DB_NAME",
	"DB_USER",
	"DB_PASSWORD",
	"DISCORD_BOT_TOKEN",
	"DISCORD_CHANNEL_ID",
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("KAFKA_TOPIC", "wallet-notices")
	v.SetDefault("KAFKA_GROUP_ID", "notice-materializer")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("BACKFILL_PAGE_SIZE", maxPageSize)
	v.SetDefault("BACKFILL_PAGE_DELAY", "1s")
	v.SetDefault("BACKFILL_WORKERS", 1)
	v.SetDefault("DEBUG", false)

	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	var missing []string
	for _, key := range requiredKeys {
		if strings.TrimSpace(v.GetString(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}

	channelID := strings.TrimSpace(v.GetString("DISCORD_CHANNEL_ID"))
	if _, err := strconv.ParseInt(channelID, 10, 64); err != nil {
		return nil, fmt.Errorf("invalid DISCORD_CHANNEL_ID %q: %w", channelID, err)
	}

	cfg := &Config{
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetInt("DB_PORT"),
		DBName:            v.GetString("DB_NAME"),
		DBUser:            v.GetString("DB_USER"),
		DBPassword:        v.GetString("DB_PASSWORD"),
		DBSSLMode:         v.GetString("DB_SSLMODE"),
		DBMaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		DiscordToken:      v.GetString("DISCORD_BOT_TOKEN"),
		DiscordChannelID:  channelID,
		KafkaBroker:       v.GetString("KAFKA_BROKER"),
		KafkaTopic:        v.GetString("KAFKA_TOPIC"),
		KafkaGroupID:      v.GetString("KAFKA_GROUP_ID"),
		APIPort:           v.GetInt("API_PORT"),
		BackfillPageSize:  v.GetInt("BACKFILL_PAGE_SIZE"),
		BackfillPageDelay: v.GetDuration("BACKFILL_PAGE_DELAY"),
		BackfillWorkers:   v.GetInt("BACKFILL_WORKERS"),
		Debug:             v.GetBool("DEBUG"),
	}

	if cfg.BackfillPageSize <= 0 || cfg.BackfillPageSize > maxPageSize {
		cfg.BackfillPageSize = maxPageSize
	}
	if cfg.BackfillWorkers <= 0 {
		cfg.BackfillWorkers = 1
	}

	return cfg, nil
}

// KafkaEnabled reports whether notices should travel through Kafka instead of
// being handed to the pipeline in-process.
func (c *Config) KafkaEnabled() bool {
	return c.KafkaBroker != ""
}

// DatabaseDSN builds a lib/pq connection string.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		quoteDSN(c.DBHost), c.DBPort, quoteDSN(c.DBUser), quoteDSN(c.DBPassword), quoteDSN(c.DBName), quoteDSN(c.DBSSLMode))
}

func quoteDSN(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	return "'" + value + "'"
}
