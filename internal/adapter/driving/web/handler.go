// Package web implements the HTML GUI driving adapter.
package web

import (
	"log/slog"
	"net/http"

	"github.com/danovak/bookmarkhub/internal/adapter/driving/session"
	"github.com/danovak/bookmarkhub/internal/adapter/driving/web/templates"
	"github.com/danovak/bookmarkhub/internal/adapter/driving/web/templates/pages"
	"github.com/danovak/bookmarkhub/internal/domain/port/driven"
)

// errorMessages maps the error markers passed back to the login page to the
// human-readable text rendered in the banner.
var errorMessages = map[string]string{
	"auth_failed":  "Authentication failed. Please try again.",
	"missing_code": "Sign-in was interrupted. Please try again.",
	"unconfigured": "Sign-in is not configured on this server.",
}

// Handler is the web GUI driving adapter. gateway is nil when no gateway
// credentials are configured; the auth endpoints then degrade per the
// unconfigured policy instead of panicking.
type Handler struct {
	gateway   driven.IdentityGateway
	sessions  *session.Codec
	provider  string
	publicURL string
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. publicURL is
// the externally visible origin used to build the OAuth callback redirect;
// when empty the request's Host header is used.
func NewHandler(
	gateway driven.IdentityGateway,
	sessions *session.Codec,
	provider string,
	publicURL string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		gateway:   gateway,
		sessions:  sessions,
		provider:  provider,
		publicURL: publicURL,
		logger:    logger,
	}
}

// Login renders the sign-in screen. The error query parameter carries the
// marker set by the auth endpoints; unrecognized values are ignored.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	csrf := ensureCSRFToken(w, r)
	message := errorMessages[r.URL.Query().Get("error")]

	component := pages.Login(message, csrf, h.gateway != nil)
	layout := templates.Layout("BookmarkHub", csrf, component)

	if err := layout.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render login page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// Dashboard renders the bookmark dashboard shell. Data loading happens
// client-side against the JSON API, so an expired session simply shows an
// empty table until the user signs in again.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	csrf := ensureCSRFToken(w, r)

	component := pages.Dashboard(csrf)
	layout := templates.Layout("Bookmarks - BookmarkHub", csrf, component)

	if err := layout.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render dashboard", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// StartLogin redirects the browser to the gateway's OAuth authorize URL with
// the callback pointing back at this host.
func (h *Handler) StartLogin(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	if h.gateway == nil {
		http.Redirect(w, r, "/?error=unconfigured", http.StatusSeeOther)
		return
	}

	redirectTo := h.origin(r) + "/auth/callback"
	http.Redirect(w, r, h.gateway.SignInURL(h.provider, redirectTo), http.StatusSeeOther)
}

// AuthCallback receives the OAuth redirect from the gateway and decides the
// next hop. Three outcomes:
//
//   - no gateway configured: 500 with a machine-readable error, no redirect;
//   - no code parameter: straight back to the login page with a
//     missing_code marker, without attempting an exchange;
//   - code present: exchange it for a session, then the dashboard on
//     success or the login page with an auth_failed marker on failure.
//
// Codes are single-use by the gateway's contract, so a failed exchange is
// never retried within the request.
func (h *Handler) AuthCallback(w http.ResponseWriter, r *http.Request) {
	if h.gateway == nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"identity gateway not configured"}`))
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/?error=missing_code", http.StatusFound)
		return
	}

	sess, err := h.gateway.ExchangeCode(r.Context(), code)
	if err != nil {
		// Internal detail stays in the log; the browser only sees the marker.
		h.logger.Error("authorization code exchange failed", "error", err)
		http.Redirect(w, r, "/?error=auth_failed", http.StatusFound)
		return
	}

	if err := h.sessions.Write(w, sess.AccessToken); err != nil {
		h.logger.Error("failed to write session cookie", "error", err)
		http.Redirect(w, r, "/?error=auth_failed", http.StatusFound)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// Logout clears the session cookie. The gateway-side session is left to
// expire on its own.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	h.sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// origin returns the externally visible scheme://host for building the
// OAuth callback URL.
func (h *Handler) origin(r *http.Request) string {
	if h.publicURL != "" {
		return h.publicURL
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
