package relay

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

const notConfiguredMessage = "Webhook URL not configured"

// ProxyHandler returns an http.HandlerFunc that forwards the request body
// to the target and relays the upstream response inside a {"data": ...}
// envelope. Every failure is terminal for the request and answered with a
// 500 and a JSON error body; nothing is retried.
func (f *Forwarder) ProxyHandler(target Target) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, target.FailureMessage)
			return
		}
		if !json.Valid(body) {
			WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		data, err := f.Forward(r.Context(), target, body)
		if err != nil {
			WriteForwardError(w, target, err)
			return
		}

		WriteJSON(w, http.StatusOK, map[string]string{"data": data})
	}
}

// WriteForwardError maps a Forward error onto the route's error contract:
// missing configuration and upstream bodies are surfaced verbatim, anything
// else collapses to the target's generic failure message.
func WriteForwardError(w http.ResponseWriter, target Target, err error) {
	var upstream *UpstreamError
	switch {
	case errors.Is(err, ErrNotConfigured):
		WriteError(w, http.StatusInternalServerError, notConfiguredMessage)
	case errors.As(err, &upstream):
		WriteError(w, http.StatusInternalServerError, upstream.Body)
	default:
		WriteError(w, http.StatusInternalServerError, target.FailureMessage)
	}
}

// WriteJSON writes a JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a {"error": ...} body with the given status.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}
