// Package auth provides accounts and sessions for the API.
//
// A session is a JWT (HS256) holding the user ID as subject and the email.
// Register and login set it in an http-only "token" cookie; API clients may
// also send it as "Authorization: Bearer <token>".
//
// # Configuration
//
//	JWT_SECRET=<random>         # Generated at startup if empty (sessions end on restart)
//	JWT_EXPIRES_IN=7d           # Token and cookie lifetime: 30s, 15m, 12h, 7d
//	AUTH_BCRYPT_COST=10         # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true    # Defaults to true when APP_ENV=production
//	AUTH_MAX_LOGIN_ATTEMPTS=5   # Failed logins per IP+email before lockout
//
// # Usage
//
//	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
//	service := auth.NewService(usersRepo, tokens, cfg.Auth)
//	controller := auth.NewAuthController(service, cfg.Auth)
//	controller.RegisterRoutes(router.Group("/api/auth"))
//
//	books := router.Group("/api/books", controller.Middleware().RequireAuth())
//
// Extract user in handlers:
//
//	userID := auth.GetUserID(c)
package auth
