package delivery

import (
	"context"
	"log"
	"time"
)

// publishTimeout is the max time allowed for a single async publish.
const publishTimeout = 5 * time.Second

// PublishAsync runs Publish in a goroutine with a short timeout so the caller
// is not blocked on the broker. Use for fire-and-forget delivery after the
// notification row is stored; errors are logged.
//
// publisher and ev may be nil; PublishAsync returns immediately without
// starting a goroutine. The goroutine uses context.Background() so request
// cancellation does not abort an in-flight publish.
func PublishAsync(publisher Publisher, ev *Event) {
	if publisher == nil || ev == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := publisher.Publish(ctx, ev); err != nil {
			log.Printf("notification delivery: async publish failed: %v", err)
		}
	}()
}
