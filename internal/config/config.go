package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	MySQLDSN string `mapstructure:"MYSQL_DSN"`
	RedisURL string `mapstructure:"REDIS_URL"`

	KafkaBrokers []string `mapstructure:"KAFKA_BROKERS"`
	AlertTopic   string   `mapstructure:"ALERT_TOPIC"`

	CatalogURL string `mapstructure:"CATALOG_URL"`

	// Adjustment engine retry knobs.
	AdjustMaxRetries    int `mapstructure:"ADJUST_MAX_RETRIES"`
	AdjustRetryBudgetMS int `mapstructure:"ADJUST_RETRY_BUDGET_MS"`

	// Alert publishing pipeline.
	AlertQueueSize int `mapstructure:"ALERT_QUEUE_SIZE"`
	AlertWorkers   int `mapstructure:"ALERT_WORKERS"`
}

// RetryBudget is the cap on total retry time for one adjustment, so a hot
// product cannot stall a checkout indefinitely.
func (c *Config) RetryBudget() time.Duration {
	return time.Duration(c.AdjustRetryBudgetMS) * time.Millisecond
}

// Load reads configuration from environment variables (and optional .env
// file for local development).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", 8080)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("MYSQL_DSN", "root:root@tcp(localhost:3306)/inventory?parseTime=true")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("KAFKA_BROKERS", []string{"localhost:9092"})
	viper.SetDefault("ALERT_TOPIC", "stock-alerts")
	viper.SetDefault("CATALOG_URL", "http://catalog:8081")
	viper.SetDefault("ADJUST_MAX_RETRIES", 5)
	viper.SetDefault("ADJUST_RETRY_BUDGET_MS", 500)
	viper.SetDefault("ALERT_QUEUE_SIZE", 1024)
	viper.SetDefault("ALERT_WORKERS", 2)

	// Missing .env is fine — env vars alone are enough.
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
