package event

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

type Handler func(ctx context.Context, evt Event)

// Bus dispatches domain events synchronously to in-process subscribers and
// mirrors them to redis pub/sub so external consumers can follow along.
type Bus struct {
	redis    *redis.Client
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus(redisClient *redis.Client) *Bus {
	return &Bus{
		redis:    redisClient,
		handlers: map[string][]Handler{},
	}
}

func (b *Bus) Subscribe(eventType string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

func (b *Bus) Publish(ctx context.Context, evt Event) {
	b.mu.RLock()
	handlers := b.handlers[evt.EventType()]
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, evt)
	}

	if b.redis != nil {
		payload, err := json.Marshal(evt)
		if err != nil {
			log.Printf("event marshal error: %v", err)
			return
		}
		if err := b.redis.Publish(ctx, redisChannel(evt.EventType()), payload).Err(); err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func redisChannel(eventType string) string {
	return "events:" + eventType
}
