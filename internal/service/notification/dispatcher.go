package notification

import (
	"context"
	"log/slog"
	"sync"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/notification"
)

// SlogDispatcher is the default notification.Dispatcher: events go
// through a buffered channel to a single worker that logs them. A full
// buffer drops the event rather than blocking the caller.
type SlogDispatcher struct {
	logger *slog.Logger
	queue  chan notification.Event

	stopOnce sync.Once
	done     chan struct{}
}

func NewSlogDispatcher(logger *slog.Logger, bufferSize int) *SlogDispatcher {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	d := &SlogDispatcher{
		logger: logger,
		queue:  make(chan notification.Event, bufferSize),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *SlogDispatcher) run() {
	defer close(d.done)
	for event := range d.queue {
		d.logger.Info("notification",
			slog.String("type", string(event.Type)),
			slog.String("employee_id", event.EmployeeID),
			slog.String("message", event.Message),
			slog.Time("occurred_at", event.OccurredAt),
		)
	}
}

func (d *SlogDispatcher) Dispatch(_ context.Context, event notification.Event) {
	select {
	case d.queue <- event:
	default:
		d.logger.Warn("notification queue full, dropping event",
			slog.String("type", string(event.Type)),
			slog.String("employee_id", event.EmployeeID),
		)
	}
}

// Stop drains the queue and waits for the worker to finish.
func (d *SlogDispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}
