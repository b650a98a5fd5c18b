package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	Admin     AdminConfig
	Push      PushConfig
	CORS      CORSConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
	Calendar  CalendarConfig
	Export    ExportConfig
}

type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	SQLitePath   string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled   bool
	Host      string
	Port      int
	Password  string
	DB        int
	RosterTTL time.Duration
}

// AdminConfig holds the single shared administrator secret and the session
// token settings derived from it.
type AdminConfig struct {
	Password    string
	TokenSecret string
	TokenTTL    time.Duration
}

// PushConfig carries the VAPID credentials and delivery tuning for reminders.
type PushConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
	TTL             time.Duration
	Concurrency     int
	Timeout         time.Duration
	ReminderTitle   string
	ReminderBody    string
}

// Configured reports whether both halves of the VAPID keypair are present.
func (p PushConfig) Configured() bool {
	return p.VAPIDPublicKey != "" && p.VAPIDPrivateKey != ""
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// RateLimitConfig throttles the anonymous write endpoints per client IP.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type MetricsConfig struct {
	Enabled bool
}

// CalendarConfig shapes the .ics events offered for a voted slot.
type CalendarConfig struct {
	EventDuration time.Duration
	Summary       string
}

// ExportConfig points the PDF exporter at a TTF font with Cyrillic glyphs.
type ExportConfig struct {
	PDFFontPath string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		SQLitePath:   v.GetString("SQLITE_PATH"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}
	if cfg.Database.Driver != DriverSQLite {
		cfg.Database.Driver = DriverPostgres
	}

	cfg.Redis = RedisConfig{
		Enabled:   v.GetBool("REDIS_ENABLED"),
		Host:      v.GetString("REDIS_HOST"),
		Port:      v.GetInt("REDIS_PORT"),
		Password:  v.GetString("REDIS_PASSWORD"),
		DB:        v.GetInt("REDIS_DB"),
		RosterTTL: parseDuration(v.GetString("ROSTER_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Admin = AdminConfig{
		Password:    v.GetString("ADMIN_PASSWORD"),
		TokenSecret: v.GetString("ADMIN_TOKEN_SECRET"),
		TokenTTL:    parseDuration(v.GetString("ADMIN_TOKEN_TTL"), 12*time.Hour),
	}
	if cfg.Admin.TokenSecret == "" {
		cfg.Admin.TokenSecret = cfg.Admin.Password
	}

	concurrency := v.GetInt("PUSH_CONCURRENCY")
	if concurrency <= 0 {
		concurrency = 8
	}
	cfg.Push = PushConfig{
		VAPIDPublicKey:  strings.TrimSpace(v.GetString("VAPID_PUBLIC_KEY")),
		VAPIDPrivateKey: strings.TrimSpace(v.GetString("VAPID_PRIVATE_KEY")),
		Subscriber:      v.GetString("VAPID_SUBSCRIBER"),
		TTL:             parseDuration(v.GetString("PUSH_TTL"), 24*time.Hour),
		Concurrency:     concurrency,
		Timeout:         parseDuration(v.GetString("PUSH_TIMEOUT"), 10*time.Second),
		ReminderTitle:   v.GetString("REMINDER_TITLE"),
		ReminderBody:    v.GetString("REMINDER_BODY"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.RateLimit = RateLimitConfig{
		RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		Burst: v.GetInt("RATE_LIMIT_BURST"),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	cfg.Calendar = CalendarConfig{
		EventDuration: parseDuration(v.GetString("CALENDAR_EVENT_DURATION"), 2*time.Hour),
		Summary:       v.GetString("CALENDAR_SUMMARY"),
	}

	cfg.Export = ExportConfig{PDFFontPath: v.GetString("EXPORT_PDF_FONT")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 3001)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "volleyboll")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("SQLITE_PATH", "./data.sqlite")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ROSTER_CACHE_TTL", "10m")

	v.SetDefault("ADMIN_PASSWORD", "admin")
	v.SetDefault("ADMIN_TOKEN_SECRET", "")
	v.SetDefault("ADMIN_TOKEN_TTL", "12h")

	v.SetDefault("VAPID_PUBLIC_KEY", "")
	v.SetDefault("VAPID_PRIVATE_KEY", "")
	v.SetDefault("VAPID_SUBSCRIBER", "mailto:admin@volleyboll.local")
	v.SetDefault("PUSH_TTL", "24h")
	v.SetDefault("PUSH_CONCURRENCY", 8)
	v.SetDefault("PUSH_TIMEOUT", "10s")
	v.SetDefault("REMINDER_TITLE", "Волейбол")
	v.SetDefault("REMINDER_BODY", "Привет, {{.FirstName}}! Ты забыл записаться на волейбол на этой неделе!")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("ENABLE_METRICS", true)

	v.SetDefault("CALENDAR_EVENT_DURATION", "2h")
	v.SetDefault("CALENDAR_SUMMARY", "Волейбол")
	v.SetDefault("EXPORT_PDF_FONT", "")
}

// isMissingFile tolerates the explicit .env path being absent; viper only
// returns ConfigFileNotFoundError when searching config paths.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
