package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emanuelaromano/book-manager/internal/auth"
	"github.com/emanuelaromano/book-manager/internal/config"
	"github.com/emanuelaromano/book-manager/internal/database"
	"github.com/emanuelaromano/book-manager/internal/database/books"
	"github.com/emanuelaromano/book-manager/internal/database/users"
	http_controllers "github.com/emanuelaromano/book-manager/internal/http"
	"github.com/emanuelaromano/book-manager/internal/logging"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(handler http.Handler, cfg *config.Config, log *logrus.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-quit:
		log.WithField("signal", sig.String()).Infof("shutting down, waiting up to %v", timeout)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info("server exiting")
	return nil
}

// Run wires the application and serves it.
func Run(cfg *config.Config, version string) error {
	log := logging.New(cfg)
	log.WithFields(logrus.Fields{"version": version, "env": cfg.Global.Environment}).Info("starting book manager")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Auth.JWTSecret == "" {
		secret, err := auth.GenerateSecret()
		if err != nil {
			return fmt.Errorf("generate session secret: %w", err)
		}
		cfg.Auth.JWTSecret = secret
		log.Warn("JWT_SECRET is not set; using a random secret, sessions will not survive a restart")
	}

	db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.WithError(err).Error("error closing database")
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(); err != nil {
			return err
		}
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := auth.NewService(users.NewRepository(db.DB), tokens, cfg.Auth)

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Books:       books.NewRepository(db.DB),
		Database:    db,
		Logger:      log,
		AuthService: authService,
		AuthConfig:  cfg.Auth,
		Production:  cfg.IsProduction(),
		Version:     version,
	})

	handler := http_controllers.WithCORS(router, cfg.CORS.AllowedOrigins)

	return Serve(handler, cfg, log, func(ctx context.Context) {
		router.Close()
	})
}

// Migrate creates or updates the schema and exits.
func Migrate(cfg *config.Config) error {
	log := logging.New(cfg)

	db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return err
	}

	log.WithField("dialect", db.Dialect()).Info("database schema is up to date")
	return nil
}

func openDatabase(cfg *config.Config, log *logrus.Logger) (*database.Database, error) {
	db, err := database.NewDatabase(cfg.Database, logging.NewGormLogger(log))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.WithField("dialect", db.Dialect()).Info("database connected")
	return db, nil
}
