// Package state persists per-browser UI state server-side, keyed by a
// session identifier the client sends on every request. Each surface of
// the portal owns a namespace so clearing one never disturbs another.
package state

import (
	"context"
	"encoding/json"
	"fmt"
)

// Namespaces for the portal surfaces: lead qualification, product
// recommendation, and the product chatbot widget.
const (
	NamespaceQualify   = "ql"
	NamespaceRecommend = "pr"
	NamespaceChat      = "chat"
)

var validNamespaces = map[string]bool{
	NamespaceQualify:   true,
	NamespaceRecommend: true,
	NamespaceChat:      true,
}

// ValidNamespace reports whether ns is one of the portal namespaces.
func ValidNamespace(ns string) bool {
	return validNamespaces[ns]
}

// Backend stores string fields grouped into buckets. A bucket holds all
// state for one session+namespace pair and can be dropped in one call.
type Backend interface {
	GetAll(ctx context.Context, bucket string) (map[string]string, error)
	Set(ctx context.Context, bucket, field, value string) error
	Delete(ctx context.Context, bucket, field string) error
	Clear(ctx context.Context, bucket string) error
}

// Store scopes a Backend to session+namespace buckets and keeps values
// as raw JSON so clients round-trip whatever shape they saved.
type Store struct {
	backend Backend
}

// NewStore creates a Store over the given backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

func bucketKey(sessionID, ns string) string {
	return fmt.Sprintf("ui_state:%s:%s", sessionID, ns)
}

// Snapshot returns every saved value in the namespace.
func (s *Store) Snapshot(ctx context.Context, sessionID, ns string) (map[string]json.RawMessage, error) {
	fields, err := s.backend.GetAll(ctx, bucketKey(sessionID, ns))
	if err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		out[k] = json.RawMessage(v)
	}
	return out, nil
}

// Put saves one value under the namespace.
func (s *Store) Put(ctx context.Context, sessionID, ns, key string, value json.RawMessage) error {
	return s.backend.Set(ctx, bucketKey(sessionID, ns), key, string(value))
}

// Remove deletes one key from the namespace.
func (s *Store) Remove(ctx context.Context, sessionID, ns, key string) error {
	return s.backend.Delete(ctx, bucketKey(sessionID, ns), key)
}

// Clear drops the whole namespace for the session.
func (s *Store) Clear(ctx context.Context, sessionID, ns string) error {
	return s.backend.Clear(ctx, bucketKey(sessionID, ns))
}
