package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTTL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Duration
	}{
		{"bare number is seconds", "90", 90 * time.Second},
		{"seconds", "30s", 30 * time.Second},
		{"minutes", "15m", 15 * time.Minute},
		{"hours", "12h", 12 * time.Hour},
		{"days", "7d", 7 * 24 * time.Hour},
		{"uppercase unit", "2D", 48 * time.Hour},
		{"surrounding spaces", " 1h ", time.Hour},
		{"empty", "", DefaultTokenTTL},
		{"unknown unit", "3w", DefaultTokenTTL},
		{"go duration syntax", "1h30m", DefaultTokenTTL},
		{"negative", "-5m", DefaultTokenTTL},
		{"zero", "0", DefaultTokenTTL},
		{"overflow", "99999999999999999d", DefaultTokenTTL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTTL(tt.input))
		})
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("JWT_EXPIRES_IN", "")
	t.Setenv("CLIENT_ORIGIN", "")

	// viper treats empty env vars as unset
	cfg := fromViper(newViper())

	assert.Equal(t, int32(4000), cfg.HTTP.Port)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, DefaultTokenTTL, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, []string{DefaultClientOrigin}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Auth.SecureCookies)
	assert.False(t, cfg.IsProduction())
}

func TestNewConfig_Production(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("AUTH_SECURE_COOKIES", "")

	cfg := fromViper(newViper())

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Auth.SecureCookies)
}

func TestNewConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("CLIENT_ORIGIN", "https://a.example, https://b.example,")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/books")

	cfg := fromViper(newViper())

	assert.Equal(t, int32(8080), cfg.HTTP.Port)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "postgres://u:p@localhost/books", cfg.Database.URL)
}
