package notification

import (
	"context"
)

// Dispatcher delivers events to interested parties. Implementations
// must not block the caller and must treat delivery failure as
// non-fatal.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event)

	// Stop drains queued events and shuts the dispatcher down.
	Stop()
}
