package state

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bbl-digital/sales-enablement-portal/internal/relay"
	"github.com/bbl-digital/sales-enablement-portal/pkg/logging"
)

// sessionHeader identifies the browser. The client generates the value
// once and sends it on every state request.
const sessionHeader = "X-Session-ID"

// Handler exposes the state store over HTTP.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a state handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// scope extracts and validates the session and namespace for a request.
func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (sessionID, ns string, ok bool) {
	sessionID = r.Header.Get(sessionHeader)
	if sessionID == "" {
		relay.WriteError(w, http.StatusBadRequest, "X-Session-ID header is required")
		return "", "", false
	}
	ns = chi.URLParam(r, "namespace")
	if !ValidNamespace(ns) {
		relay.WriteError(w, http.StatusNotFound, "Unknown state namespace")
		return "", "", false
	}
	return sessionID, ns, true
}

// Snapshot handles GET /api/state/{namespace}.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	sessionID, ns, ok := h.scope(w, r)
	if !ok {
		return
	}

	values, err := h.store.Snapshot(r.Context(), sessionID, ns)
	if err != nil {
		h.logger.Error("state: snapshot failed", "namespace", ns, "error", err)
		relay.WriteError(w, http.StatusInternalServerError, "Failed to load saved state")
		return
	}

	relay.WriteJSON(w, http.StatusOK, map[string]any{"state": values})
}

// Put handles PUT /api/state/{namespace}/{key}. The body is the raw JSON
// value to save.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	sessionID, ns, ok := h.scope(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	body, err := io.ReadAll(r.Body)
	if err != nil || !json.Valid(body) {
		relay.WriteError(w, http.StatusBadRequest, "Value must be valid JSON")
		return
	}

	if err := h.store.Put(r.Context(), sessionID, ns, key, body); err != nil {
		h.logger.Error("state: save failed", "namespace", ns, "key", key, "error", err)
		relay.WriteError(w, http.StatusInternalServerError, "Failed to save state")
		return
	}

	relay.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Remove handles DELETE /api/state/{namespace}/{key}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	sessionID, ns, ok := h.scope(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	if err := h.store.Remove(r.Context(), sessionID, ns, key); err != nil {
		h.logger.Error("state: delete failed", "namespace", ns, "key", key, "error", err)
		relay.WriteError(w, http.StatusInternalServerError, "Failed to delete state")
		return
	}

	relay.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Clear handles DELETE /api/state/{namespace}. The qualification surface
// uses this to reset a finished assessment in one call.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID, ns, ok := h.scope(w, r)
	if !ok {
		return
	}

	if err := h.store.Clear(r.Context(), sessionID, ns); err != nil {
		h.logger.Error("state: clear failed", "namespace", ns, "error", err)
		relay.WriteError(w, http.StatusInternalServerError, "Failed to clear state")
		return
	}

	relay.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
