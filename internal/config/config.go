package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	Storage struct {
		Driver string
	}
	Redis struct {
		URL    string
		Prefix string
	}
	Database struct {
		Host     string
		Username string
		Password string
		Database string
	}
	Mongo struct {
		URI      string
		Database string
	}
	CleanTalk struct {
		AccessKey  string
		Vendor     string
		CheckURL   string
		SyncURL    string
		Timeout    time.Duration
		SkipReason string
	}
	Logger struct {
		LogLevel string
	}
	Production bool
}

func New() *Config {
	cfg := &Config{}

	cfg.HTTP.Addr = getOrDefault("HTTP_ADDR", "0.0.0.0:8080")

	cfg.Storage.Driver = getOrDefault("STORAGE_DRIVER", "memory")

	cfg.Redis.URL = getOrDefault("REDIS_URL", "redis://localhost:6379/0")
	cfg.Redis.Prefix = getOrDefault("REDIS_PREFIX", "spamguard")

	cfg.Database.Database = os.Getenv("POSTGRES_DATABASE")
	cfg.Database.Host = os.Getenv("POSTGRES_HOST")
	cfg.Database.Username = os.Getenv("POSTGRES_USER")
	cfg.Database.Password = os.Getenv("POSTGRES_PASSWORD")

	cfg.Mongo.URI = os.Getenv("MONGO_URI")
	cfg.Mongo.Database = getOrDefault("MONGO_DATABASE", "logs")

	cfg.CleanTalk.AccessKey = os.Getenv("CLEANTALK_ACCESS_KEY")
	cfg.CleanTalk.Vendor = getOrDefault("CLEANTALK_VENDOR", "maskr_relay")
	cfg.CleanTalk.CheckURL = os.Getenv("CLEANTALK_CHECK_URL")
	cfg.CleanTalk.SyncURL = os.Getenv("CLEANTALK_SYNC_URL")
	cfg.CleanTalk.Timeout = time.Duration(getIntOrDefault("CLEANTALK_TIMEOUT_SECONDS", 5)) * time.Second
	cfg.CleanTalk.SkipReason = os.Getenv("CLEANTALK_SKIP_REASON")

	cfg.Logger.LogLevel = getOrDefault("LOG_LEVEL", "debug")

	cfg.Production = getOrDefault("PRODUCTION", "true") == "true"

	return cfg
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host, c.Database.Username, c.Database.Password, c.Database.Database)
}

func getOrDefault(variable string, def string) string {
	result, ok := os.LookupEnv(variable)
	if !ok {
		return def
	}
	return result
}

func getIntOrDefault(variable string, def int) int {
	value, err := strconv.Atoi(getOrDefault(variable, ""))
	if err != nil {
		return def
	}
	return value
}
