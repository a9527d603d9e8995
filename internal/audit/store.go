package audit

import "context"

// Store persists audit events. Implementations must be safe for concurrent use.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByContact(ctx context.Context, contactID string) ([]Event, error)
	ListAll(ctx context.Context) ([]Event, error)
}
