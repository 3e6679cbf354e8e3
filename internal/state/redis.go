package state

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// stateTTL keeps abandoned sessions from accumulating forever. Every
// write refreshes it.
const stateTTL = 30 * 24 * time.Hour

var redisTracer = otel.Tracer("salesportal.internal.state.redis")

// RedisBackend stores each bucket as a Redis hash.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend creates a backend over an existing Redis client.
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

// GetAll returns every field in the bucket.
func (b *RedisBackend) GetAll(ctx context.Context, bucket string) (map[string]string, error) {
	ctx, span := redisTracer.Start(ctx, "state.get_all",
		trace.WithAttributes(attribute.String("bucket", bucket)))
	defer span.End()

	fields, err := b.client.HGetAll(ctx, bucket).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("read state bucket: %w", err)
	}
	return fields, nil
}

// Set writes one field and refreshes the bucket TTL.
func (b *RedisBackend) Set(ctx context.Context, bucket, field, value string) error {
	ctx, span := redisTracer.Start(ctx, "state.set",
		trace.WithAttributes(attribute.String("bucket", bucket), attribute.String("field", field)))
	defer span.End()

	pipe := b.client.TxPipeline()
	pipe.HSet(ctx, bucket, field, value)
	pipe.Expire(ctx, bucket, stateTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("write state field: %w", err)
	}
	return nil
}

// Delete removes one field from the bucket.
func (b *RedisBackend) Delete(ctx context.Context, bucket, field string) error {
	if err := b.client.HDel(ctx, bucket, field).Err(); err != nil {
		return fmt.Errorf("delete state field: %w", err)
	}
	return nil
}

// Clear drops the bucket.
func (b *RedisBackend) Clear(ctx context.Context, bucket string) error {
	if err := b.client.Del(ctx, bucket).Err(); err != nil {
		return fmt.Errorf("clear state bucket: %w", err)
	}
	return nil
}
