package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Pages are served at / and /dashboard; the OAuth redirect target is
// /auth/callback. Static assets come from the embedded filesystem.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Page routes.
	mux.HandleFunc("GET /{$}", h.Login)
	mux.HandleFunc("GET /dashboard", h.Dashboard)

	// Auth flow.
	mux.HandleFunc("POST /auth/login", h.StartLogin)
	mux.HandleFunc("GET /auth/callback", h.AuthCallback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
}
