package config

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrMissingFeedURL = errors.New("LIBERTA_FEED_URL is not set")
)

type Config struct {
	Server ServerConfig
	Feed   FeedConfig
	Paths  PathsConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type FeedConfig struct {
	URL     string
	Timeout time.Duration
}

// PathsConfig holds every file the pipeline reads or writes. The status
// server shares the same paths read-only.
type PathsConfig struct {
	Markup      string
	CategoryMap string
	State       string
	History     string
	Catalog     string
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("FEED_TIMEOUT_SECONDS", 120)
	viper.SetDefault("MARKUP_PATH", "config/markup.json")
	viper.SetDefault("CATEGORY_MAP_PATH", "config/category-map.json")
	viper.SetDefault("SYNC_STATE_PATH", "data/last-sync.json")
	viper.SetDefault("SYNC_HISTORY_PATH", "public/data/sync-history.json")
	viper.SetDefault("CATALOG_PATH", "public/data/liberta-products.json")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Feed: FeedConfig{
			URL:     viper.GetString("LIBERTA_FEED_URL"),
			Timeout: time.Duration(viper.GetInt("FEED_TIMEOUT_SECONDS")) * time.Second,
		},
		Paths: PathsConfig{
			Markup:      viper.GetString("MARKUP_PATH"),
			CategoryMap: viper.GetString("CATEGORY_MAP_PATH"),
			State:       viper.GetString("SYNC_STATE_PATH"),
			History:     viper.GetString("SYNC_HISTORY_PATH"),
			Catalog:     viper.GetString("CATALOG_PATH"),
		},
	}
}

// Validate checks the settings the sync job cannot run without.
func (c *Config) Validate() error {
	if c.Feed.URL == "" {
		return ErrMissingFeedURL
	}
	return nil
}
