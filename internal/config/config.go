package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// RedisConfig enables shared rate-limit counters when URL is set.
type RedisConfig struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// SyncConfig configures the outbound client for the external audit-management API.
type SyncConfig struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MinInterval time.Duration
	MaxRetries  int
}

// RateLimitConfig holds the request-level and reindex limits.
type RateLimitConfig struct {
	ReindexPerHour  int
	ListPerMinute   int
	RemindPerMinute int
}

// ScoringConfig holds the evidence-sufficiency thresholds.
type ScoringConfig struct {
	MinForms             int
	MinRecentSubmissions int
	WindowDays           int
}

// SchedulerConfig drives the background reminder sweep.
type SchedulerConfig struct {
	Enabled      bool
	ReminderSpec string
	ReminderGap  time.Duration
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost   string
	Port      string
	Env       string
	Timezone  string
	LogLevel  string
	Database  DatabaseConfig
	MinIO     MinIOConfig
	Redis     RedisConfig
	Sync      SyncConfig
	RateLimit RateLimitConfig
	Scoring   ScoringConfig
	Scheduler SchedulerConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("APP_ENV", "development"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Redis: RedisConfig{
			URL:          getEnv("REDIS_URL", ""),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Sync: SyncConfig{
			BaseURL:     getEnv("SYNC_BASE_URL", ""),
			APIKey:      getEnv("SYNC_API_KEY", ""),
			Timeout:     getEnvDuration("SYNC_TIMEOUT", 30*time.Second),
			MinInterval: getEnvDuration("SYNC_MIN_INTERVAL", 100*time.Millisecond),
			MaxRetries:  getEnvInt("SYNC_MAX_RETRIES", 2),
		},
		RateLimit: RateLimitConfig{
			ReindexPerHour:  getEnvInt("RATE_LIMIT_REINDEX_PER_HOUR", 3),
			ListPerMinute:   getEnvInt("RATE_LIMIT_LIST_PER_MINUTE", 60),
			RemindPerMinute: getEnvInt("RATE_LIMIT_REMIND_PER_MINUTE", 10),
		},
		Scoring: ScoringConfig{
			MinForms:             getEnvInt("SCORING_MIN_FORMS", 3),
			MinRecentSubmissions: getEnvInt("SCORING_MIN_RECENT_SUBMISSIONS", 1),
			WindowDays:           getEnvInt("SCORING_WINDOW_DAYS", 90),
		},
		Scheduler: SchedulerConfig{
			Enabled:      getEnvBool("SCHEDULER_ENABLED", true),
			ReminderSpec: getEnv("SCHEDULER_REMINDER_SPEC", "@daily"),
			ReminderGap:  getEnvDuration("SCHEDULER_REMINDER_GAP", 24*time.Hour),
		},
	}
}

// IsProduction reports whether the process runs with production error sanitization.
func (c *AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Location resolves the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate checks the settings that cannot be defaulted safely.
func (c *AppConfig) Validate() error {
	return validation.Errors{
		"sync":      c.Sync.validate(),
		"ratelimit": c.RateLimit.validate(),
		"scoring":   c.Scoring.validate(),
	}.Filter()
}

func (s SyncConfig) validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.BaseURL, validation.When(s.BaseURL != "",
			validation.By(requireHTTPS))),
		validation.Field(&s.Timeout, validation.Min(time.Millisecond)),
		validation.Field(&s.MinInterval, validation.Min(time.Duration(0))),
		validation.Field(&s.MaxRetries, validation.Min(0)),
	)
}

func (r RateLimitConfig) validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ReindexPerHour, validation.Min(1)),
		validation.Field(&r.ListPerMinute, validation.Min(1)),
		validation.Field(&r.RemindPerMinute, validation.Min(1)),
	)
}

func (s ScoringConfig) validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.MinForms, validation.Min(1)),
		validation.Field(&s.MinRecentSubmissions, validation.Min(0)),
		validation.Field(&s.WindowDays, validation.Min(1)),
	)
}

func requireHTTPS(value any) error {
	s, _ := value.(string)
	if !strings.HasPrefix(strings.ToLower(s), "https://") {
		return validation.NewError("validation_https_required", "must use https")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
