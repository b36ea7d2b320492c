package notify

import (
	"context"
	"time"

	"stall-allocation/internal/metrics"
	"stall-allocation/utils"
)

const (
	defaultQueueSize   = 1024
	defaultSendTimeout = 5 * time.Second
)

// Async decouples callers from slow or failing senders. Notify only enqueues;
// Run drains the queue until its context is cancelled. A full queue drops the
// event with a warning rather than blocking an allocation decision.
type Async struct {
	next        Notifier
	queue       chan Event
	sendTimeout time.Duration
}

// NewAsync wraps next with a bounded queue
func NewAsync(next Notifier, queueSize int) *Async {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Async{
		next:        next,
		queue:       make(chan Event, queueSize),
		sendTimeout: defaultSendTimeout,
	}
}

func (a *Async) Notify(ctx context.Context, event Event) error {
	select {
	case a.queue <- event:
	default:
		metrics.TrackNotificationDropped()
		utils.Warn("notify: queue full, dropping event", map[string]any{
			"event":      string(event.Type),
			"session_id": event.SessionID,
		})
	}
	return nil
}

// Run delivers queued events until ctx is done, then flushes what is left
func (a *Async) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			a.flush()
			return nil
		case ev := <-a.queue:
			a.deliver(context.Background(), ev)
		}
	}
}

func (a *Async) flush() {
	for {
		select {
		case ev := <-a.queue:
			a.deliver(context.Background(), ev)
		default:
			return
		}
	}
}

func (a *Async) deliver(parent context.Context, ev Event) {
	ctx, cancel := context.WithTimeout(parent, a.sendTimeout)
	defer cancel()

	if err := a.next.Notify(ctx, ev); err != nil {
		utils.Error("notify: delivery failed", map[string]any{
			"event":      string(ev.Type),
			"session_id": ev.SessionID,
			"error":      err.Error(),
		})
	}
}
