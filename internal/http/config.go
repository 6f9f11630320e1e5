package http

import (
	"github.com/sirupsen/logrus"

	"github.com/emanuelaromano/book-manager/internal/auth"
	"github.com/emanuelaromano/book-manager/internal/config"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Books    BookStore
	Database Pinger
	Logger   *logrus.Logger

	// Authentication
	AuthService *auth.Service
	AuthConfig  config.Auth

	// Emit HSTS on HTTPS requests
	Production bool

	// Application info
	Version string
}
