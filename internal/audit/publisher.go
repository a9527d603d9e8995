package audit

import (
	"context"
	"time"
)

// Publisher captures structured audit events. It is append-only and writes
// straight to a Store so tests can swap sinks easily.
type Publisher struct {
	store Store
	now   func() time.Time
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store, now: time.Now}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	return p.store.Append(ctx, stamp(event, p.now))
}

func (p *Publisher) List(ctx context.Context, contactID string) ([]Event, error) {
	return p.store.ListByContact(ctx, contactID)
}

// QueuePublisher hands events to a Worker through a channel. Emit blocks
// until the worker accepts the event or ctx is done.
type QueuePublisher struct {
	queue chan<- Event
	now   func() time.Time
}

func NewQueuePublisher(queue chan<- Event) *QueuePublisher {
	return &QueuePublisher{queue: queue, now: time.Now}
}

func (p *QueuePublisher) Emit(ctx context.Context, event Event) error {
	select {
	case p.queue <- stamp(event, p.now):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func stamp(event Event, now func() time.Time) Event {
	if event.Timestamp.IsZero() {
		event.Timestamp = now()
	}
	if event.Category == "" {
		event.Category = CategoryOf(event.Action)
	}
	return event
}
