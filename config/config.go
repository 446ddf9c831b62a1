package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Scheduling SchedulingConfig
	Notify     NotifyConfig
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string

	// CORSOrigins lists allowed browser origins; empty allows any.
	CORSOrigins []string
}

// IsDevelopment reports whether verbose SQL logging should be on.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development" || c.Env == "local"
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
	// AuthEnabled turns on the staff guard for every /api/v1 route except health.
	AuthEnabled bool
}

type SchedulingConfig struct {
	SlotMinutes        int
	RequireContainment bool
	QueueCacheTTL      time.Duration
}

type NotifyConfig struct {
	Channel string
}

// LoadConfig reads .env when present and lets environment variables override it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_LOG_LEVEL", "info")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("JWT_ACCESS_EXPIRY", "12h")
	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("SCHEDULING_SLOT_MINUTES", 30)
	v.SetDefault("SCHEDULING_REQUIRE_CONTAINMENT", false)
	v.SetDefault("QUEUE_CACHE_TTL", "24h")
	v.SetDefault("NOTIFY_CHANNEL", "clinic:appointments")

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 12 * time.Hour
	}

	queueCacheTTL, err := time.ParseDuration(v.GetString("QUEUE_CACHE_TTL"))
	if err != nil {
		queueCacheTTL = 24 * time.Hour
	}

	config := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			Env:         v.GetString("APP_ENV"),
			LogLevel:    v.GetString("APP_LOG_LEVEL"),
			CORSOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
			AuthEnabled:  v.GetBool("AUTH_ENABLED"),
		},
		Scheduling: SchedulingConfig{
			SlotMinutes:        v.GetInt("SCHEDULING_SLOT_MINUTES"),
			RequireContainment: v.GetBool("SCHEDULING_REQUIRE_CONTAINMENT"),
			QueueCacheTTL:      queueCacheTTL,
		},
		Notify: NotifyConfig{
			Channel: v.GetString("NOTIFY_CHANNEL"),
		},
	}

	if config.JWT.AuthEnabled && config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required when AUTH_ENABLED is true")
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
