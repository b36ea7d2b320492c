package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher publishes events as JSON on Redis pub/sub: once on the
// global channel and once on the per-session channel "<prefix>:session:<id>".
type RedisPublisher struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisPublisher creates a publisher using channel prefix (default "allocation")
func NewRedisPublisher(rdb redis.UniversalClient, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = "allocation"
	}
	return &RedisPublisher{rdb: rdb, prefix: prefix}
}

// GlobalChannel is the channel every event is published on
func (p *RedisPublisher) GlobalChannel() string {
	return p.prefix + ":events"
}

// SessionChannel is the channel carrying one session's events
func (p *RedisPublisher) SessionChannel(sessionID string) string {
	return p.prefix + ":session:" + sessionID
}

func (p *RedisPublisher) Notify(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis: marshal event %s: %w", event.Type, err)
	}

	pipe := p.rdb.Pipeline()
	pipe.Publish(ctx, p.GlobalChannel(), payload)
	pipe.Publish(ctx, p.SessionChannel(event.SessionID), payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: publish %s for session %s: %w", event.Type, event.SessionID, err)
	}
	return nil
}

// NewRedisClient connects to addr and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:       addr,
		Password:   password,
		DB:         db,
		MaxRetries: 3,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return rdb, nil
}

var _ Notifier = (*RedisPublisher)(nil)
