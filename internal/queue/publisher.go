// Package queue hands admitted webhook deliveries to the relay workers over
// a Redis stream.
package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Publisher struct {
	client *redis.Client
	stream string
}

func NewPublisher(client *redis.Client, stream string) *Publisher {
	return &Publisher{client: client, stream: stream}
}

// Publish appends one delivery to the stream. The raw body travels as-is so
// workers re-parse exactly what the provider sent.
func (p *Publisher) Publish(ctx context.Context, platform, deliveryID string, body []byte) error {
	_, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"platform":    platform,
			"delivery_id": deliveryID,
			"payload":     body,
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}
