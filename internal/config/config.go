package config

import (
	"log"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Store     StoreConfig
	Snapshot  SnapshotConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

// StoreConfig locates the live embedded store. The file under Path is the
// working copy; the durable copy lives in the snapshot slot.
type StoreConfig struct {
	Path string
}

// SnapshotConfig locates the durable snapshot slot. With PersistOnCommit
// off, commits only mark the slot dirty and the write waits for a manual
// persist or shutdown.
type SnapshotConfig struct {
	Dir             string
	SlotKey         string
	PersistOnCommit bool
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "shopledger-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("STORE_PATH", filepath.Join("data", "live", "ledger.db"))
	viper.SetDefault("SNAPSHOT_DIR", filepath.Join("data", "snapshots"))
	viper.SetDefault("SNAPSHOT_SLOT_KEY", "ledger")
	viper.SetDefault("SNAPSHOT_PERSIST_ON_COMMIT", true)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Store: StoreConfig{
			Path: viper.GetString("STORE_PATH"),
		},
		Snapshot: SnapshotConfig{
			Dir:             viper.GetString("SNAPSHOT_DIR"),
			SlotKey:         viper.GetString("SNAPSHOT_SLOT_KEY"),
			PersistOnCommit: viper.GetBool("SNAPSHOT_PERSIST_ON_COMMIT"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
	}
}
