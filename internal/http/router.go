package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emanuelaromano/book-manager/internal/auth"
	domainerrors "github.com/emanuelaromano/book-manager/internal/errors"
	"github.com/emanuelaromano/book-manager/internal/http/response"
	"github.com/emanuelaromano/book-manager/internal/logging"
	"github.com/emanuelaromano/book-manager/internal/ratelimit"
)

const hstsMaxAge = 31536000

// Router is the configured gin engine plus the background workers its
// middleware owns. Close stops them.
type Router struct {
	*gin.Engine
	closers []func()
}

// Close stops the limiters' cleanup goroutines.
func (r *Router) Close() {
	for _, closeFn := range r.closers {
		closeFn()
	}
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *Router {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	router := gin.New()
	router.Use(logging.RequestLogger(log))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		response.Abort(c, domainerrors.Internal("panic", fmt.Errorf("%v", recovered)))
	}))

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.Production {
		router.Use(auth.StrictTransportSecurityMiddleware(hstsMaxAge))
	}

	router.NoRoute(func(c *gin.Context) {
		response.Error(c, domainerrors.ErrNotFound)
	})

	r := &Router{Engine: router}

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/", health.Root)
	router.GET("/api/health", health.Status)

	authController := auth.NewAuthController(cfg.AuthService, cfg.AuthConfig)
	authLimiter := ratelimit.New(cfg.AuthConfig.RequestsPerSecond, cfg.AuthConfig.RequestBurst)
	r.closers = append(r.closers, authController.Stop, authLimiter.Stop)

	authGroup := router.Group("/api/auth")
	authController.RegisterRoutes(authGroup, ratelimit.Middleware(authLimiter))

	booksGroup := router.Group("/api/books", authController.Middleware().RequireAuth())
	NewBooksController(cfg.Books).RegisterRoutes(booksGroup)

	return r
}
