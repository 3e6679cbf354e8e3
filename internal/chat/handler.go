// Package chat handles the product chatbot surface: relaying user messages
// to the chat automation webhook, extracting the assistant reply from the
// untyped response, and keeping a restorable per-session transcript.
package chat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/bbl-digital/sales-enablement-portal/internal/relay"
	"github.com/bbl-digital/sales-enablement-portal/pkg/logging"
	"github.com/google/uuid"
)

// SendRequest is the chat payload. Field names are the upstream contract.
type SendRequest struct {
	SessionID   string `json:"sessionId"`
	UserMessage string `json:"user_message"`
}

type outputEnvelope struct {
	Output string `json:"output"`
}

// ExtractReply pulls the assistant reply out of the upstream response: the
// first element's "output" field for an array response, the "output" field
// for an object response, or the raw text as a last resort.
func ExtractReply(raw string) string {
	var arr []outputEnvelope
	if err := json.Unmarshal([]byte(raw), &arr); err == nil && len(arr) > 0 {
		return arr[0].Output
	}

	var obj outputEnvelope
	if err := json.Unmarshal([]byte(raw), &obj); err == nil && obj.Output != "" {
		return obj.Output
	}

	return raw
}

// Handler relays chat messages and maintains transcripts.
type Handler struct {
	forwarder  *relay.Forwarder
	target     relay.Target
	transcript TranscriptStore
	logger     *logging.Logger
}

// NewHandler creates a chat handler.
func NewHandler(forwarder *relay.Forwarder, target relay.Target, transcript TranscriptStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		forwarder:  forwarder,
		target:     target,
		transcript: transcript,
		logger:     logger,
	}
}

// generateSessionID creates a random session identifier.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// SendMessage handles POST /api/product-chat. The upstream response is
// relayed in the {"data": ...} envelope; the extracted reply and the user
// message are appended to the session transcript.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		relay.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.UserMessage) == "" {
		relay.WriteError(w, http.StatusBadRequest, "user_message is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = generateSessionID()
	}

	raw, err := h.relayMessage(r.Context(), req)
	if err != nil {
		h.logger.Error("chat relay failed", "error", err, "session_id", req.SessionID)
		relay.WriteForwardError(w, h.target, err)
		return
	}

	relay.WriteJSON(w, http.StatusOK, map[string]string{
		"data":      raw,
		"sessionId": req.SessionID,
	})
}

// relayMessage forwards one user message and records both sides of the
// exchange. The transcript write for the user message happens before the
// upstream call so a failed call still shows the question that was asked.
func (h *Handler) relayMessage(ctx context.Context, req SendRequest) (string, error) {
	h.appendTranscript(ctx, req.SessionID, "user", req.UserMessage)

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	raw, err := h.forwarder.Forward(ctx, h.target, body)
	if err != nil {
		return "", err
	}

	h.appendTranscript(ctx, req.SessionID, "assistant", ExtractReply(raw))
	return raw, nil
}

func (h *Handler) appendTranscript(ctx context.Context, sessionID, role, content string) {
	if h.transcript == nil {
		return
	}
	err := h.transcript.Append(ctx, sessionID, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		h.logger.Warn("failed to append chat transcript", "error", err, "session_id", sessionID)
	}
}

// History handles GET /api/product-chat/history?session=...; it returns
// the stored transcript so a reloaded page can restore the conversation.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		relay.WriteError(w, http.StatusBadRequest, "session is required")
		return
	}

	var msgs []Message
	if h.transcript != nil {
		var err error
		msgs, err = h.transcript.List(r.Context(), sessionID, 0)
		if err != nil {
			h.logger.Error("failed to list chat transcript", "error", err, "session_id", sessionID)
			relay.WriteError(w, http.StatusInternalServerError, "failed to load history")
			return
		}
	}
	if msgs == nil {
		msgs = []Message{}
	}

	relay.WriteJSON(w, http.StatusOK, map[string][]Message{"messages": msgs})
}
