package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config groups application configuration, read via viper from environment
// variables (STOCKTRACK_ prefix) with development-friendly defaults.
type Config struct {
	App   AppConfig
	HTTP  HTTPConfig
	DB    DBConfig
	Redis RedisConfig
	Minio MinioConfig
	JWT   JWTConfig
	Jobs  JobsConfig
	Stock StockConfig
}

type AppConfig struct {
	Env      string // development, staging, production
	LogLevel string
}

type HTTPConfig struct {
	Port int
}

type DBConfig struct {
	URL string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type JWTConfig struct {
	Secret string
}

// StockConfig names the tracked commodity. PrimarySKU identifies the item
// the dashboard, trends and alert sweep report on.
type StockConfig struct {
	PrimarySKU string
}

type JobsConfig struct {
	AlertSweepMinutes  int
	ReportExportHours  int
	DefaultTrendDays   int
	RecentActivitySize int
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STOCKTRACK")
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MINIO_BUCKET", "stock-reports")
	v.SetDefault("ALERT_SWEEP_MINUTES", 60)
	v.SetDefault("REPORT_EXPORT_HOURS", 24)
	v.SetDefault("TREND_DAYS", 7)
	v.SetDefault("RECENT_ACTIVITY_SIZE", 5)
	v.SetDefault("PRIMARY_SKU", "POTATO-BULK")

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		HTTP: HTTPConfig{
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			URL: v.GetString("DATABASE_URL"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Minio: MinioConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		Jobs: JobsConfig{
			AlertSweepMinutes:  v.GetInt("ALERT_SWEEP_MINUTES"),
			ReportExportHours:  v.GetInt("REPORT_EXPORT_HOURS"),
			DefaultTrendDays:   v.GetInt("TREND_DAYS"),
			RecentActivitySize: v.GetInt("RECENT_ACTIVITY_SIZE"),
		},
		Stock: StockConfig{
			PrimarySKU: v.GetString("PRIMARY_SKU"),
		},
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("STOCKTRACK_DATABASE_URL is required")
	}

	return cfg, nil
}
