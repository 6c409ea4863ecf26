// Package auth provides authentication for the bookshelf web UI.
//
// Accounts are local: passwords are bcrypt-hashed and a successful login
// binds a server-side scs session (stored in the application's SQLite
// database) to the account. Every request then carries an
// identity.Identity resolved from that session, Anonymous when no
// session is bound.
//
// # Configuration
//
//	AUTH_SESSION_SECRET=<hex-32-bytes>  # CSRF signing key, auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h           # Session duration
//	AUTH_BCRYPT_COST=12                 # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true            # HTTPS-only cookies
//	AUTH_MAX_LOGIN_ATTEMPTS=5           # Failed logins before lockout
//
// # Usage
//
//	sessions, _ := auth.NewSessionManager(sqlDB, cfg.Auth)
//	service := auth.NewService(usersRepo, sessions, cfg.Auth)
//	router.Use(sessions.LoadSession())
//	router.Use(auth.NewMiddleware(service).Handler())
//	protected := router.Group("/", auth.RequireAuth())
//
// Extract the caller in handlers:
//
//	id := auth.GetIdentity(c)
package auth
