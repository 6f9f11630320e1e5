// Package logging configures logrus for the service and carries a
// request-scoped entry through gin handlers.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/emanuelaromano/book-manager/internal/config"
)

const (
	RequestIDHeader = "X-Request-ID"

	contextKeyEntry = "log_entry"
	maxRequestIDLen = 128
)

// New builds the process logger. JSON output is used in production unless
// LOG_FORMAT says otherwise; an unknown level falls back to info.
func New(cfg *config.Config) *logrus.Logger {
	return newLogger(os.Stdout, cfg.Log, cfg.IsProduction())
}

func newLogger(out io.Writer, cfg config.Log, production bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	format := cfg.Format
	if format == "" && production {
		format = "json"
	}
	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}

// RequestLogger tags each request with an ID, stores a logger entry for
// handlers, and logs one line per completed request.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set(contextKeyEntry, log.WithField("request_id", requestID))

		c.Next()

		status := c.Writer.Status()
		entry := FromContext(c).WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}
	}
}

// FromContext returns the request's entry, or one on the standard logger
// when RequestLogger is not installed.
func FromContext(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get(contextKeyEntry); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// AddFields attaches fields to every later log line of this request.
func AddFields(c *gin.Context, fields logrus.Fields) {
	c.Set(contextKeyEntry, FromContext(c).WithFields(fields))
}
