// Package feedback relays thumbs-up/down ratings of AI output to the
// feedback automation webhook.
package feedback

import (
	"encoding/json"
	"net/http"

	"github.com/bbl-digital/sales-enablement-portal/internal/relay"
	"github.com/bbl-digital/sales-enablement-portal/pkg/logging"
)

// Submission is what the portal pages post.
type Submission struct {
	Context   string `json:"context"`
	ThumbsUp  bool   `json:"thumbsUp"`
	Notes     string `json:"notes"`
	System    string `json:"system"`
	Timestamp string `json:"timestamp"`
}

// Payload is the upstream wire format. The receiving automation matches on
// these exact field names, including the space in "Thumbs Up".
type Payload struct {
	System    string `json:"System"`
	Context   string `json:"Context"`
	ThumbsUp  bool   `json:"Thumbs Up"`
	Notes     string `json:"Notes"`
	Timestamp string `json:"Timestamp"`
}

// NewPayload maps a portal submission onto the upstream wire format.
func NewPayload(s Submission) Payload {
	return Payload{
		System:    s.System,
		Context:   s.Context,
		ThumbsUp:  s.ThumbsUp,
		Notes:     s.Notes,
		Timestamp: s.Timestamp,
	}
}

// Handler relays feedback submissions.
type Handler struct {
	forwarder *relay.Forwarder
	target    relay.Target
	logger    *logging.Logger
}

// NewHandler creates a feedback handler.
func NewHandler(forwarder *relay.Forwarder, target relay.Target, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{forwarder: forwarder, target: target, logger: logger}
}

// Submit handles POST /api/feedback. Success answers {"ok": true}; any
// failure leaves the feedback unsubmitted and is answered with a 500 so
// the page does not mark it as sent.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var sub Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.logger.Error("failed to decode feedback submission", "error", err)
		relay.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	body, err := json.Marshal(NewPayload(sub))
	if err != nil {
		relay.WriteForwardError(w, h.target, err)
		return
	}

	if _, err := h.forwarder.Forward(r.Context(), h.target, body); err != nil {
		h.logger.Error("feedback relay failed", "error", err, "system", sub.System)
		relay.WriteForwardError(w, h.target, err)
		return
	}

	h.logger.Info("feedback relayed", "system", sub.System, "thumbs_up", sub.ThumbsUp)
	relay.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
