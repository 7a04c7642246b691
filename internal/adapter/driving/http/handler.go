// Package httphandler implements the JSON API driving adapter.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danovak/bookmarkhub/internal/adapter/driving/session"
	"github.com/danovak/bookmarkhub/internal/application"
	"github.com/danovak/bookmarkhub/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API consumed by
// the dashboard page.
type Handler struct {
	bookmarks *application.BookmarkService
	notifier  driven.ChangeNotifier
	sessions  *session.Codec
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	bookmarks *application.BookmarkService,
	notifier driven.ChangeNotifier,
	sessions *session.Codec,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		bookmarks: bookmarks,
		notifier:  notifier,
		sessions:  sessions,
		logger:    logger,
	}
}

// RegisterAPIRoutes registers all JSON API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/bookmarks", h.ListBookmarks)
	mux.HandleFunc("POST /api/v1/bookmarks", h.CreateBookmark)
	mux.HandleFunc("PUT /api/v1/bookmarks/{id}", h.UpdateBookmark)
	mux.HandleFunc("DELETE /api/v1/bookmarks/{id}", h.DeleteBookmark)
	mux.HandleFunc("GET /api/v1/events", h.Events)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// ListBookmarks returns the current user's bookmarks, most recent first.
// Without a session this is an empty array, not an error: the dashboard
// fetches before the first sign-in completes.
func (h *Handler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	token := h.sessionToken(r)

	bookmarks, err := h.bookmarks.List(r.Context(), token)
	if err != nil {
		h.writeServiceError(w, "list bookmarks", err)
		return
	}

	resp := make([]BookmarkResponse, 0, len(bookmarks))
	for _, bm := range bookmarks {
		resp = append(resp, toBookmarkResponse(bm))
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateBookmark inserts a new bookmark owned by the current user.
func (h *Handler) CreateBookmark(w http.ResponseWriter, r *http.Request) {
	var req BookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bm, err := h.bookmarks.Create(r.Context(), h.sessionToken(r), req.Title, req.URL)
	if err != nil {
		h.writeServiceError(w, "create bookmark", err)
		return
	}

	writeJSON(w, http.StatusCreated, toBookmarkResponse(bm))
}

// UpdateBookmark updates title and url on the current user's bookmark.
func (h *Handler) UpdateBookmark(w http.ResponseWriter, r *http.Request) {
	var req BookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := r.PathValue("id")
	if err := h.bookmarks.Update(r.Context(), h.sessionToken(r), id, req.Title, req.URL); err != nil {
		h.writeServiceError(w, "update bookmark", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteBookmark removes the current user's bookmark. Deleting a missing or
// non-owned id succeeds with no effect.
func (h *Handler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.bookmarks.Delete(r.Context(), h.sessionToken(r), id); err != nil {
		h.writeServiceError(w, "delete bookmark", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health reports liveness for the container healthcheck.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// sessionToken reads the sealed session cookie; an absent or unreadable
// cookie is simply an empty token (unauthenticated).
func (h *Handler) sessionToken(r *http.Request) string {
	token, err := h.sessions.Read(r)
	if err != nil {
		return ""
	}
	return token
}

// writeServiceError maps the error taxonomy to HTTP statuses. Everything not
// recognized is a store failure: logged in full, surfaced as a displayable
// message.
func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	var vErr *application.ValidationError

	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, driven.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, driven.ErrGatewayUnconfigured):
		writeError(w, http.StatusServiceUnavailable, "identity gateway not configured")
	case errors.Is(err, driven.ErrBookmarkNotFound):
		writeError(w, http.StatusNotFound, "bookmark not found")
	default:
		h.logger.Error("bookmark operation failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
	}
}
