package chat

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/websocket"
)

// InboundFrame is what the chat widget sends.
type InboundFrame struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundFrame is what we send to the widget.
type OutboundFrame struct {
	Type      string    `json:"type"` // "message", "typing", "history", "session", "error", "pong"
	Text      string    `json:"text,omitempty"`
	Role      string    `json:"role,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Timestamp string    `json:"timestamp,omitempty"`
	Messages  []Message `json:"messages,omitempty"`
}

// HandleWebSocket upgrades to WebSocket and handles real-time chat. The
// widget receives its session ID and any stored history on connect, then
// exchanges message frames; a typing frame precedes each reply.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = generateSessionID()
	}

	_ = websocket.JSON.Send(conn, OutboundFrame{Type: "session", SessionID: sessionID})

	if h.transcript != nil {
		if msgs, err := h.transcript.List(r.Context(), sessionID, 50); err == nil && len(msgs) > 0 {
			_ = websocket.JSON.Send(conn, OutboundFrame{Type: "history", Messages: msgs})
		}
	}

	h.logger.Info("chat: websocket opened", "session_id", sessionID)

	for {
		var frame InboundFrame
		if err := websocket.JSON.Receive(conn, &frame); err != nil {
			h.logger.Debug("chat: websocket closed", "session_id", sessionID, "error", err)
			return
		}

		if frame.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundFrame{Type: "pong"})
			continue
		}
		if frame.Type != "message" || strings.TrimSpace(frame.Text) == "" {
			continue
		}

		_ = websocket.JSON.Send(conn, OutboundFrame{Type: "typing"})
		h.replyOverWS(r.Context(), conn, sessionID, frame.Text)
	}
}

func (h *Handler) replyOverWS(ctx context.Context, conn *websocket.Conn, sessionID, text string) {
	raw, err := h.relayMessage(ctx, SendRequest{SessionID: sessionID, UserMessage: text})
	if err != nil {
		h.logger.Error("chat: websocket relay failed", "error", err, "session_id", sessionID)
		_ = websocket.JSON.Send(conn, OutboundFrame{
			Type: "error",
			Text: "I apologize, but I encountered an error. Please try again.",
		})
		return
	}

	_ = websocket.JSON.Send(conn, OutboundFrame{
		Type:      "message",
		Role:      "assistant",
		Text:      ExtractReply(raw),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
