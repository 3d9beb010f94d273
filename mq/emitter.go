package mq

import (
	"context"
	"encoding/json"
	"log"

	"hostelhub/models"
	"hostelhub/rdx"
)

const channel = "hostel-events"

// Emit publishes a domain event to Redis. Failures are logged and
// swallowed: the event stream feeds caches and live views, never the
// source of truth.
func Emit(ctx context.Context, event models.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] failed to marshal event: %v", err)
		return
	}

	if err := rdx.Conn.Publish(context.Background(), channel, data).Err(); err != nil {
		log.Printf("[Emit] failed to publish event: %v", err)
	}
}

// Handler consumes events delivered by the worker.
type Handler func(ctx context.Context, event models.Event)

// StartWorker subscribes to the hostel-events channel and dispatches each
// event to the registered handlers. It blocks; run it in a goroutine.
func StartWorker(handlers ...Handler) {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, channel)
	ch := sub.Channel()

	log.Println("[EventWorker] listening for hostel events...")

	for msg := range ch {
		var event models.Event
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[EventWorker] failed to parse event: %v", err)
			continue
		}
		for _, h := range handlers {
			h(ctx, event)
		}
	}
}
