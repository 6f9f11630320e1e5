package auth

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
)

// TestSecurityHeaders tests that security headers are set correctly.
func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	headers := map[string]string{
		"X-Frame-Options":         "DENY",
		"X-Content-Type-Options":  "nosniff",
		"Referrer-Policy":         "no-referrer",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
		"Cache-Control":           "no-store",
	}

	for header, expected := range headers {
		if got := rr.Header().Get(header); got != expected {
			t.Errorf("Header %s = %q, want %q", header, got, expected)
		}
	}
}

// TestHSTSHeader tests HSTS header is only set for HTTPS.
func TestHSTSHeader(t *testing.T) {
	router := gin.New()
	router.Use(StrictTransportSecurityMiddleware(31536000))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// HTTP request - should not have HSTS
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if hsts := rr.Header().Get("Strict-Transport-Security"); hsts != "" {
		t.Error("HSTS should not be set for HTTP requests")
	}

	// HTTPS request (via X-Forwarded-Proto) - should have HSTS
	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if hsts := rr.Header().Get("Strict-Transport-Security"); hsts != "max-age=31536000; includeSubDomains" {
		t.Errorf("HSTS = %q for HTTPS request", hsts)
	}
}

// TestLoginLockout tests that repeated failed logins are answered with 429
// until the lockout passes, even with the right password.
func TestLoginLockout(t *testing.T) {
	router, controller := setupTestRouter(t)
	clock := &fakeClock{t: controller.rateLimiter.now()}
	controller.rateLimiter.now = clock.now

	rr := doJSON(router, http.MethodPost, "/api/auth/register", `{"email":"victim@example.com","password":"right"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("register failed: %d %s", rr.Code, rr.Body.String())
	}

	// MaxLoginAttempts is 3 in the test config
	for i := 0; i < 3; i++ {
		rr = doJSON(router, http.MethodPost, "/api/auth/login", `{"email":"victim@example.com","password":"wrong"}`)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, rr.Code)
		}
	}

	rr = doJSON(router, http.MethodPost, "/api/auth/login", `{"email":"victim@example.com","password":"right"}`)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 during lockout, got %d", rr.Code)
	}
	retryAfter, err := strconv.Atoi(rr.Header().Get("Retry-After"))
	if err != nil || retryAfter <= 0 {
		t.Errorf("Retry-After = %q, want a positive number of seconds", rr.Header().Get("Retry-After"))
	}
	if sessionCookie(rr) != nil {
		t.Error("no session should be issued during lockout")
	}

	// Email case does not get around the lockout
	rr = doJSON(router, http.MethodPost, "/api/auth/login", `{"email":"VICTIM@example.com","password":"right"}`)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 for differently cased email, got %d", rr.Code)
	}

	clock.advance(testAuthConfig().LockoutDuration)

	rr = doJSON(router, http.MethodPost, "/api/auth/login", `{"email":"victim@example.com","password":"right"}`)
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 after lockout, got %d", rr.Code)
	}
}

// TestRegisterNotLockedOut tests that the lockout only applies to login.
func TestRegisterNotLockedOut(t *testing.T) {
	router, _ := setupTestRouter(t)

	for i := 0; i < 5; i++ {
		doJSON(router, http.MethodPost, "/api/auth/login", `{"email":"new@example.com","password":"wrong"}`)
	}

	rr := doJSON(router, http.MethodPost, "/api/auth/register", `{"email":"new@example.com","password":"pw"}`)
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
}
