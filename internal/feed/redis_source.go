package feed

import (
	"context"

	"railcrm/backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// RedisSource implements EventSource over the Redis complaints events
// channel. Every published store change wakes all attached subscriptions.
type RedisSource struct {
	Redis *redis.Client
}

func NewRedisSource(rdb *redis.Client) *RedisSource {
	return &RedisSource{Redis: rdb}
}

// Subscribe opens a Redis Pub/Sub subscription on the complaints events
// channel. The payload is not inspected: any event means "re-run the query".
func (r *RedisSource) Subscribe(ctx context.Context) (<-chan struct{}, func(), error) {
	pubsub := r.Redis.Subscribe(ctx, config.ComplaintEventsChannel)

	// Confirm the subscription before reporting the feed as open.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	events := make(chan struct{}, 1)
	go func() {
		defer close(events)
		for range pubsub.Channel() {
			select {
			case events <- struct{}{}:
			default: // a wakeup is already pending, coalesce
			}
		}
	}()

	detach := func() { _ = pubsub.Close() }
	return events, detach, nil
}
