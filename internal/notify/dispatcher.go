package notify

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const deliverTimeout = 10 * time.Second

// Config controls dispatcher buffering behavior.
type Config struct {
	Enabled    bool
	BufferSize int
	Logger     *slog.Logger
	// OnDrop and OnFailure feed metrics. Both may be nil.
	OnDrop    func()
	OnFailure func()
}

// Dispatcher asynchronously forwards notifications to a sink.
type Dispatcher struct {
	cfg       Config
	sink      Sink
	logger    *slog.Logger
	ch        chan Notification
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	failed    atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewDispatcher starts the delivery goroutine. It returns nil when cfg is
// disabled; a nil Dispatcher ignores every call.
func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	d := &Dispatcher{
		cfg:    cfg,
		sink:   sink,
		logger: logger,
		ch:     make(chan Notification, cfg.BufferSize),
		done:   make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case n := <-d.ch:
			d.deliver(n)
		case <-d.done:
			for {
				select {
				case n := <-d.ch:
					d.deliver(n)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(n Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	if err := d.sink.Deliver(ctx, n); err != nil {
		d.failed.Add(1)
		if d.cfg.OnFailure != nil {
			d.cfg.OnFailure()
		}
		d.logger.WarnContext(ctx, "notification delivery failed",
			"kind", string(n.Kind),
			"user_id", n.UserID,
			"error", err,
		)
	}
}

// Send enqueues n without blocking. A full buffer drops n.
func (d *Dispatcher) Send(ctx context.Context, n Notification) {
	if d == nil || d.closed.Load() {
		return
	}

	select {
	case d.ch <- n:
	case <-d.done:
	default:
		d.dropped.Add(1)
		if d.cfg.OnDrop != nil {
			d.cfg.OnDrop()
		}
		d.logger.WarnContext(ctx, "notification dropped: buffer full",
			"kind", string(n.Kind),
			"user_id", n.UserID,
		)
	}
}

// Close stops accepting notifications and drains the buffer.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

func (d *Dispatcher) Failed() uint64 {
	if d == nil {
		return 0
	}
	return d.failed.Load()
}
