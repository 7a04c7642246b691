package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/danovak/bookmarkhub/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// BookmarkResponse is the JSON representation of a bookmark.
type BookmarkResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
}

// BookmarkRequest is the JSON body for create and update.
type BookmarkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toBookmarkResponse converts a domain Bookmark to its JSON representation.
// UserID is deliberately omitted: the API only ever serves the caller's own
// rows.
func toBookmarkResponse(bm model.Bookmark) BookmarkResponse {
	return BookmarkResponse{
		ID:        bm.ID,
		Title:     bm.Title,
		URL:       bm.URL,
		CreatedAt: bm.CreatedAt.UTC().Format(time.RFC3339),
	}
}
