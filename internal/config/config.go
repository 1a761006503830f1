package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"github.com/yukikurage/video-task-dashboard/internal/constants"
	"github.com/yukikurage/video-task-dashboard/internal/models"
)

// Storage drivers
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type Config struct {
	HTTPAddr string
	GinMode  string

	StorageDriver string
	SnapshotKey   string
	SQLitePath    string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string

	RedisHost string
	RedisPort string

	SessionBackend string
	SessionSecret  string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	OverdueHour  int
	PollInterval time.Duration
	Timezone     string
	Location     *time.Location

	Editors []models.Editor
}

// Load reads configuration from defaults, the environment, and the optional
// YAML file named by DASHBOARD_CONFIG.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := os.Getenv("DASHBOARD_CONFIG"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		HTTPAddr:       v.GetString("http_addr"),
		GinMode:        v.GetString("gin_mode"),
		StorageDriver:  v.GetString("storage_driver"),
		SnapshotKey:    v.GetString("snapshot_key"),
		SQLitePath:     v.GetString("sqlite_path"),
		DBHost:         v.GetString("db_host"),
		DBPort:         v.GetString("db_port"),
		DBUser:         v.GetString("db_user"),
		DBPassword:     v.GetString("db_password"),
		DBName:         v.GetString("db_name"),
		RedisHost:      v.GetString("redis_host"),
		RedisPort:      v.GetString("redis_port"),
		SessionBackend: v.GetString("session_backend"),
		SessionSecret:  v.GetString("session_secret"),
		OpenAIAPIKey:   v.GetString("openai_api_key"),
		OpenAIBaseURL:  v.GetString("openai_base_url"),
		OpenAIModel:    v.GetString("openai_model"),
		OverdueHour:    v.GetInt("overdue_hour"),
		PollInterval:   v.GetDuration("poll_interval"),
		Timezone:       v.GetString("timezone"),
	}

	if cfg.OverdueHour < 0 || cfg.OverdueHour > 23 {
		return nil, fmt.Errorf("overdue_hour must be between 0 and 23, got %d", cfg.OverdueHour)
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = constants.DefaultPollInterval
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if v.IsSet("editors") {
		if err := v.UnmarshalKey("editors", &cfg.Editors); err != nil {
			return nil, fmt.Errorf("failed to parse editors: %w", err)
		}
	}
	if len(cfg.Editors) == 0 {
		cfg.Editors = append([]models.Editor(nil), constants.DefaultEditors...)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("gin_mode", "debug")
	v.SetDefault("storage_driver", DriverSQLite)
	v.SetDefault("snapshot_key", constants.DefaultSnapshotKey)
	v.SetDefault("sqlite_path", "dashboard.db")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "3306")
	v.SetDefault("db_user", "taskuser")
	v.SetDefault("db_password", "taskpassword")
	v.SetDefault("db_name", "video_tasks")
	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("session_backend", "cookie")
	v.SetDefault("session_secret", "default-secret-key-change-me")
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_base_url", "")
	v.SetDefault("openai_model", constants.DefaultAIModel)
	v.SetDefault("overdue_hour", constants.DefaultOverdueHour)
	v.SetDefault("poll_interval", constants.DefaultPollInterval)
	v.SetDefault("timezone", "Local")
}

// RedisAddr returns the host:port of the Redis server.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}
