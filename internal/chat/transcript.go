package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const transcriptKeyPrefix = "chat_transcript:"

// transcriptTTL bounds how long an idle session's history is kept.
const transcriptTTL = 30 * 24 * time.Hour

// Message is one entry in a chat transcript.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// TranscriptStore persists per-session chat history. The transcript is
// append-only; List returns messages in append order.
type TranscriptStore interface {
	Append(ctx context.Context, sessionID string, msg Message) error
	List(ctx context.Context, sessionID string, limit int64) ([]Message, error)
}

// RedisTranscriptStore keeps transcripts in Redis lists.
type RedisTranscriptStore struct {
	redis       *redis.Client
	tracer      trace.Tracer
	maxMessages int64
}

// NewRedisTranscriptStore creates a Redis-backed transcript store.
// maxMessages caps the retained history per session; zero keeps everything.
func NewRedisTranscriptStore(redisClient *redis.Client, maxMessages int64) *RedisTranscriptStore {
	if redisClient == nil {
		return nil
	}
	return &RedisTranscriptStore{
		redis:       redisClient,
		tracer:      otel.Tracer("salesportal.internal.chat.transcript"),
		maxMessages: maxMessages,
	}
}

func (s *RedisTranscriptStore) Append(ctx context.Context, sessionID string, msg Message) error {
	if s == nil || s.redis == nil {
		return nil
	}
	if sessionID == "" {
		return errors.New("chat: transcript sessionID required")
	}

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("chat: marshal transcript message: %w", err)
	}

	ctx, span := s.tracer.Start(ctx, "chat.transcript.append")
	defer span.End()

	key := transcriptKey(sessionID)
	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, transcriptTTL)
	if s.maxMessages > 0 {
		pipe.LTrim(ctx, key, -s.maxMessages, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("chat: append transcript message: %w", err)
	}
	return nil
}

func (s *RedisTranscriptStore) List(ctx context.Context, sessionID string, limit int64) ([]Message, error) {
	if s == nil || s.redis == nil {
		return nil, nil
	}
	if sessionID == "" {
		return nil, errors.New("chat: transcript sessionID required")
	}

	ctx, span := s.tracer.Start(ctx, "chat.transcript.list")
	defer span.End()

	start := int64(0)
	if limit > 0 {
		start = -limit
	}

	raw, err := s.redis.LRange(ctx, transcriptKey(sessionID), start, -1).Result()
	if err != nil {
		span.RecordError(err)
		if err == redis.Nil {
			return []Message{}, nil
		}
		return nil, fmt.Errorf("chat: list transcript: %w", err)
	}

	out := make([]Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			span.RecordError(err)
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func transcriptKey(sessionID string) string {
	return transcriptKeyPrefix + sessionID
}

// MemoryTranscriptStore is an in-memory TranscriptStore for tests and for
// running without Redis.
type MemoryTranscriptStore struct {
	mu          sync.RWMutex
	sessions    map[string][]Message
	maxMessages int
}

// NewMemoryTranscriptStore creates an in-memory transcript store.
func NewMemoryTranscriptStore(maxMessages int) *MemoryTranscriptStore {
	return &MemoryTranscriptStore{
		sessions:    make(map[string][]Message),
		maxMessages: maxMessages,
	}
}

func (s *MemoryTranscriptStore) Append(_ context.Context, sessionID string, msg Message) error {
	if sessionID == "" {
		return errors.New("chat: transcript sessionID required")
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := append(s.sessions[sessionID], msg)
	if s.maxMessages > 0 && len(msgs) > s.maxMessages {
		msgs = msgs[len(msgs)-s.maxMessages:]
	}
	s.sessions[sessionID] = msgs
	return nil
}

func (s *MemoryTranscriptStore) List(_ context.Context, sessionID string, limit int64) ([]Message, error) {
	if sessionID == "" {
		return nil, errors.New("chat: transcript sessionID required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.sessions[sessionID]
	if limit > 0 && int64(len(msgs)) > limit {
		msgs = msgs[int64(len(msgs))-limit:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
