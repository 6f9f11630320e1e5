package config

import "time"

const (
	// DefaultDatabasePath is the sqlite file used when DATABASE_URL is not set
	DefaultDatabasePath = "./books.db"

	// DefaultClientOrigin is the dev server of the web client
	DefaultClientOrigin = "http://localhost:5173"

	// DefaultTokenTTL is used when JWT_EXPIRES_IN is missing or unparsable
	DefaultTokenTTL = 7 * 24 * time.Hour

	EnvProduction  = "production"
	EnvDevelopment = "development"
)
