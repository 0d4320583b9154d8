package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/cims/internal/port"
)

const (
	changeChannelPrefix = "cims:changes:"
	changeStreamKey     = "cims:changes"
	changeStreamMaxLen  = 10000
)

// RedisPublisher fans committed mutations out on a per-entity pub/sub channel
// and appends them to a capped stream for late subscribers.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (r *RedisPublisher) Publish(ctx context.Context, event port.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Publish(ctx, changeChannelPrefix+event.Entity, payload)
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: changeStreamKey,
		MaxLen: changeStreamMaxLen,
		Approx: true,
		Values: map[string]any{
			"entity": event.Entity,
			"id":     event.ID,
			"action": string(event.Action),
			"at":     time.Now().UTC().Format(time.RFC3339Nano),
		},
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return nil
}
