package api

import (
	"database/sql"
	"net/http"
)

// NewRouter creates the API router with all endpoints registered. Every
// route's required principal is fixed here: public listing/submission,
// admin-only moderation, and owner-or-admin claim management.
func NewRouter(db *sql.DB, jwtSecret, uploadsDir string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{DB: db, UploadsDir: uploadsDir}
	claimsHandler := &ClaimsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret)
	optionalAuth := OptionalAuthMiddleware(jwtSecret)
	admin := func(h http.HandlerFunc) http.Handler {
		return authMW(RequireAdmin(h))
	}

	// Public: browsing, item submission, login, signup.
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("POST /api/items", itemsHandler.Submit)
	mux.HandleFunc("POST /api/admin/login", authHandler.AdminLogin)
	mux.HandleFunc("POST /api/user/login", authHandler.UserLogin)
	mux.HandleFunc("POST /api/user/signup", authHandler.Signup)

	// Item moderation (admin only).
	mux.Handle("GET /api/pending", admin(itemsHandler.Pending))
	mux.Handle("PUT /api/approve/{id}", admin(itemsHandler.Approve))
	mux.Handle("PUT /api/decline/{id}", admin(itemsHandler.Decline))

	// Claims: submission is open (identity from token when present),
	// moderation is admin only, deletion and the profile view require the
	// owning user or an admin.
	mux.Handle("POST /api/claims", optionalAuth(http.HandlerFunc(claimsHandler.Submit)))
	mux.Handle("GET /api/claims/pending", admin(claimsHandler.Pending))
	mux.Handle("PUT /api/claims/approve/{id}", admin(claimsHandler.Approve))
	mux.Handle("PUT /api/claims/decline/{id}", admin(claimsHandler.Decline))
	mux.Handle("DELETE /api/claims/{id}", authMW(http.HandlerFunc(claimsHandler.Delete)))
	mux.Handle("GET /api/user/claims/{username}", authMW(http.HandlerFunc(claimsHandler.UserClaims)))

	// Stored photos are public static files.
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))

	return mux
}
