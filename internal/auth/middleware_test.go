package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/emanuelaromano/book-manager/internal/entities"
	"github.com/emanuelaromano/book-manager/internal/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupMiddleware(t *testing.T) (*Middleware, *Service) {
	t.Helper()
	service, _ := setupTestService(t)
	return NewMiddleware(service), service
}

func protectedRouter(m *Middleware) *gin.Engine {
	router := gin.New()
	router.GET("/api/test", m.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":   GetUserID(c),
			"email":     c.GetString(ContextKeyEmail),
			"auth_type": c.MustGet(ContextKeyAuthType),
		})
	})
	return router
}

func registerUser(t *testing.T, service *Service, email string) *Session {
	t.Helper()
	session, err := service.Register(context.Background(), Credentials{Email: email, Password: "password12345"})
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	return session
}

func TestMiddleware_CookieAuth_ValidToken(t *testing.T) {
	middleware, service := setupMiddleware(t)
	session := registerUser(t, service, "cookie@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.Token})
	rr := httptest.NewRecorder()
	protectedRouter(middleware).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var body struct {
		UserID   uint   `json:"user_id"`
		Email    string `json:"email"`
		AuthType string `json:"auth_type"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.UserID != session.User.ID {
		t.Errorf("user_id = %d, want %d", body.UserID, session.User.ID)
	}
	if body.Email != "cookie@example.com" {
		t.Errorf("email = %q, want cookie@example.com", body.Email)
	}
	if body.AuthType != string(AuthTypeCookie) {
		t.Errorf("auth_type = %q, want %q", body.AuthType, AuthTypeCookie)
	}
}

func TestMiddleware_BearerAuth_ValidToken(t *testing.T) {
	middleware, service := setupMiddleware(t)
	session := registerUser(t, service, "bearer@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rr := httptest.NewRecorder()
	protectedRouter(middleware).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["auth_type"] != string(AuthTypeBearer) {
		t.Errorf("auth_type = %v, want %q", body["auth_type"], AuthTypeBearer)
	}
}

func TestMiddleware_InvalidCookieFallsBackToBearer(t *testing.T) {
	middleware, service := setupMiddleware(t)
	session := registerUser(t, service, "fallback@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	req.Header.Set("Authorization", "bearer "+session.Token)
	rr := httptest.NewRecorder()
	protectedRouter(middleware).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
}

func TestMiddleware_Returns401(t *testing.T) {
	middleware, _ := setupMiddleware(t)

	expired := NewTokenManager(testSecret, time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expiredToken, _, err := expired.Issue(&entities.User{ID: 1, Email: "old@example.com"})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	tests := []struct {
		name   string
		cookie string
		header string
	}{
		{name: "no credentials"},
		{name: "invalid cookie", cookie: "invalidtoken123"},
		{name: "expired cookie", cookie: expiredToken},
		{name: "invalid bearer", header: "Bearer invalidtoken123"},
		{name: "missing bearer prefix", header: "invalidtoken123"},
		{name: "basic auth", header: "Basic dXNlcjpwYXNz"},
		{name: "empty bearer", header: "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			protectedRouter(middleware).ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("Expected 401, got %d", rr.Code)
			}
			want := `{"message":"Unauthorized","code":"UNAUTHORIZED"}`
			if rr.Body.String() != want {
				t.Errorf("body = %s, want %s", rr.Body.String(), want)
			}
		})
	}
}

func TestGetUserID_NoAuth(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if id := GetUserID(c); id != 0 {
		t.Errorf("Expected 0, got %d", id)
	}
}

func TestMiddleware_LogsSessionFields(t *testing.T) {
	middleware, service := setupMiddleware(t)
	session := registerUser(t, service, "logged@example.com")

	logger, hook := test.NewNullLogger()
	router := gin.New()
	router.Use(logging.RequestLogger(logger))
	router.GET("/api/test", middleware.RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	router.ServeHTTP(httptest.NewRecorder(), req)

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a request log line")
	}
	if entry.Level != logrus.InfoLevel {
		t.Errorf("level = %v, want info", entry.Level)
	}
	if entry.Data["user_id"] != session.User.ID {
		t.Errorf("user_id = %v, want %d", entry.Data["user_id"], session.User.ID)
	}
	if entry.Data["auth_type"] != AuthTypeBearer {
		t.Errorf("auth_type = %v, want %q", entry.Data["auth_type"], AuthTypeBearer)
	}
}
