package httphandler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// keepAliveInterval bounds how long an idle SSE connection goes without
// traffic so intermediaries don't drop it.
const keepAliveInterval = 30 * time.Second

// Events streams change notifications for the bookmarks table as
// server-sent events. The payload carries no row data; clients respond to
// any event by re-fetching the list, which makes the refresh idempotent and
// convergent regardless of event ordering or duplicate delivery.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	changes, unsubscribe := h.notifier.Subscribe("bookmarks")
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case ch, open := <-changes:
			if !open {
				return
			}
			payload, err := json.Marshal(ch)
			if err != nil {
				h.logger.Error("failed to marshal change event", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
