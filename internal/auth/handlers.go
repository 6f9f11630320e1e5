package auth

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emanuelaromano/book-manager/internal/config"
	domainerrors "github.com/emanuelaromano/book-manager/internal/errors"
	"github.com/emanuelaromano/book-manager/internal/http/response"
	"github.com/emanuelaromano/book-manager/internal/logging"
)

// AuthController handles the /api/auth endpoints.
type AuthController struct {
	service     *Service
	middleware  *Middleware
	config      config.Auth
	rateLimiter *LoginLimiter
}

// NewAuthController creates a new authentication controller.
func NewAuthController(service *Service, cfg config.Auth) *AuthController {
	return &AuthController{
		service:    service,
		middleware: NewMiddleware(service),
		config:     cfg,
		rateLimiter: NewLoginLimiter(LoginLimitConfig{
			MaxAttempts:     cfg.MaxLoginAttempts,
			WindowDuration:  cfg.RateLimitWindow,
			LockoutDuration: cfg.LockoutDuration,
		}),
	}
}

// RegisterRoutes mounts register, login, logout and me on rg, which is
// expected to be the /api/auth group. limit runs only in front of register
// and login; logout and me are never throttled.
func (ac *AuthController) RegisterRoutes(rg *gin.RouterGroup, limit ...gin.HandlerFunc) {
	credentials := rg.Group("", limit...)
	credentials.POST("/register", ac.Register)
	credentials.POST("/login", ac.Login)
	rg.POST("/logout", ac.Logout)
	rg.GET("/me", ac.middleware.RequireAuth(), ac.Me)
}

// Middleware returns the session check for other protected routes.
func (ac *AuthController) Middleware() *Middleware {
	return ac.middleware
}

// Stop cleans up resources (rate limiter background goroutine).
func (ac *AuthController) Stop() {
	if ac.rateLimiter != nil {
		ac.rateLimiter.Stop()
	}
}

// Register creates an account and signs it in.
func (ac *AuthController) Register(c *gin.Context) {
	creds, ok := bindCredentials(c)
	if !ok {
		return
	}

	session, err := ac.service.Register(c.Request.Context(), creds)
	if err != nil {
		response.Error(c, err)
		return
	}

	ac.startSession(c, session)
}

// Login signs in with email and password.
func (ac *AuthController) Login(c *gin.Context) {
	creds, ok := bindCredentials(c)
	if !ok {
		return
	}

	clientIP := c.ClientIP()
	limitKey := strings.ToLower(strings.TrimSpace(creds.Email))

	// Check rate limiting before attempting authentication
	if allowed, retryAfter := ac.rateLimiter.Allow(clientIP, limitKey); !allowed {
		tooManyAttempts(c, retryAfter)
		return
	}

	session, err := ac.service.Login(c.Request.Context(), creds)
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidCredentials) {
			if locked, _ := ac.rateLimiter.RecordFailure(clientIP, limitKey); locked {
				logging.FromContext(c).WithField("email", limitKey).Warn("login locked out after repeated failures")
			}
		}
		response.Error(c, err)
		return
	}

	ac.rateLimiter.RecordSuccess(clientIP, limitKey)
	ac.startSession(c, session)
}

// Logout clears the session cookie. It succeeds with or without a session.
func (ac *AuthController) Logout(c *gin.Context) {
	clearSessionCookie(c, ac.config.SecureCookies)
	response.Ack(c)
}

// Me returns the signed-in user.
func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.service.Me(c.Request.Context(), GetUserID(c))
	if err != nil {
		if errors.Is(err, domainerrors.ErrUnauthorized) {
			clearSessionCookie(c, ac.config.SecureCookies)
		}
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}

func (ac *AuthController) startSession(c *gin.Context, session *Session) {
	setSessionCookie(c, session.Token, session.ExpiresAt, ac.config.SecureCookies)
	logging.AddFields(c, logrus.Fields{"user_id": session.User.ID})
	response.OK(c, session.User)
}

// bindCredentials reads the JSON body. An empty body counts as missing
// credentials rather than malformed input.
func bindCredentials(c *gin.Context) (Credentials, bool) {
	var creds Credentials
	if err := c.ShouldBindJSON(&creds); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, domainerrors.Validation("Invalid JSON body"))
		return creds, false
	}
	return creds, true
}

func tooManyAttempts(c *gin.Context, retryAfter time.Duration) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	c.Header("Retry-After", strconv.Itoa(seconds))
	response.Error(c, domainerrors.RateLimited("Too many login attempts, try again later").
		WithDetails(gin.H{"retryAfterSeconds": seconds}))
}
