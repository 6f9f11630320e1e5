package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Log
		Database
		Auth
		CORS
	}

	HTTP struct {
		Port         int32
		Host         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
	}
	Global struct {
		Environment              string // "development" or "production"
		ShutdownTimeoutInSeconds int
	}
	Log struct {
		Level  string // logrus level name
		Format string // "json" or "text"; empty picks json in production
	}
	Database struct {
		URL         string // postgres DSN; takes precedence over Path
		Path        string // sqlite file
		AutoMigrate bool
	}
	Auth struct {
		JWTSecret     string        // HS256 key, generated at startup if empty
		TokenTTL      time.Duration // lifetime of the session token and its cookie
		BcryptCost    int
		SecureCookies bool // Set to false for local dev without HTTPS

		// Failed login lockout
		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Time window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)

		// Token bucket on every /api/auth request, per client IP
		RequestsPerSecond float64
		RequestBurst      int
	}
	CORS struct {
		AllowedOrigins []string
	}
)

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Global.Environment == EnvProduction
}

// NewConfig reads configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment variables win.
func NewConfig() *Config {
	_ = godotenv.Load()
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 4000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("http_read_timeout", "15s")
	v.SetDefault("http_write_timeout", "15s")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("app_env", EnvDevelopment)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "")

	v.SetDefault("database_url", "")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_auto_migrate", true)

	v.SetDefault("client_origin", DefaultClientOrigin)

	// Auth defaults
	v.SetDefault("jwt_secret", "") // Auto-generated if empty
	v.SetDefault("jwt_expires_in", "7d")
	v.SetDefault("auth_bcrypt_cost", 10)
	v.SetDefault("auth_secure_cookies", strings.EqualFold(v.GetString("APP_ENV"), EnvProduction))
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_rate_limit_window", "15m")
	v.SetDefault("auth_lockout_duration", "30m")
	v.SetDefault("auth_requests_per_second", 5)
	v.SetDefault("auth_request_burst", 10)
	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		HTTP: HTTP{
			Port:         v.GetInt32("PORT"),
			Host:         v.GetString("HOST"),
			ReadTimeout:  v.GetDuration("HTTP_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("HTTP_WRITE_TIMEOUT"),
		},
		Global: Global{
			Environment:              strings.ToLower(v.GetString("APP_ENV")),
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		Database: Database{
			URL:         v.GetString("DATABASE_URL"),
			Path:        v.GetString("DATABASE_PATH"),
			AutoMigrate: v.GetBool("DATABASE_AUTO_MIGRATE"),
		},
		Auth: Auth{
			JWTSecret:         v.GetString("JWT_SECRET"),
			TokenTTL:          ParseTTL(v.GetString("JWT_EXPIRES_IN")),
			BcryptCost:        v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:     v.GetBool("AUTH_SECURE_COOKIES"),
			MaxLoginAttempts:  v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:   v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:   v.GetDuration("AUTH_LOCKOUT_DURATION"),
			RequestsPerSecond: v.GetFloat64("AUTH_REQUESTS_PER_SECOND"),
			RequestBurst:      v.GetInt("AUTH_REQUEST_BURST"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetString("CLIENT_ORIGIN")),
		},
	}
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
