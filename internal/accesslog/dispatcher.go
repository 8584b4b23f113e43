package accesslog

import (
	"context"
	"sync"
	"time"

	"github.com/wayneindustries/security-core/internal/infrastructure/logging"
)

// dispatchChanSize bounds the queue of committed entries awaiting delivery.
// When it is full new entries are dropped; the database copy is unaffected.
const dispatchChanSize = 256

// sinkTimeout bounds a single delivery.
const sinkTimeout = 5 * time.Second

// Sink is a best-effort consumer of committed entries: the live websocket
// feed, the MQTT event bus or the time-series store.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, e Entry) error
}

// Dispatcher fans committed entries out to sinks from a single goroutine,
// so slow sinks never hold up request handling.
//
// Thread Safety:
//   - Publish is safe for concurrent use.
//   - Run must be called exactly once.
type Dispatcher struct {
	ch     chan Entry
	sinks  []Sink
	logger *logging.Logger

	mu      sync.RWMutex
	stopped bool
	done    chan struct{}
}

// NewDispatcher creates a dispatcher delivering to sinks in order.
func NewDispatcher(logger *logging.Logger, sinks ...Sink) *Dispatcher {
	return &Dispatcher{
		ch:     make(chan Entry, dispatchChanSize),
		sinks:  sinks,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Publish enqueues e without blocking. It is a no-op after Run returns.
func (d *Dispatcher) Publish(e Entry) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return
	}

	select {
	case d.ch <- e:
	default:
		d.logger.Warn("access log dispatch queue full, dropping event",
			"entry_id", e.ID,
			"action", e.Action,
		)
	}
}

// Run delivers entries until ctx is cancelled, then drains what is
// already queued and returns.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case e := <-d.ch:
			d.deliver(e)
		case <-ctx.Done():
			d.mu.Lock()
			d.stopped = true
			d.mu.Unlock()
			for {
				select {
				case e := <-d.ch:
					d.deliver(e)
				default:
					return
				}
			}
		}
	}
}

// Done is closed when Run has returned.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *Dispatcher) deliver(e Entry) {
	for _, sink := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
		if err := sink.Deliver(ctx, e); err != nil {
			d.logger.Error("access log delivery failed",
				"sink", sink.Name(),
				"entry_id", e.ID,
				"error", err,
			)
		}
		cancel()
	}
}
