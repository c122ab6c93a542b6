package board

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

// Dispatcher runs persistence calls on detached goroutines. Callers never wait
// for a task; completion order between tasks is not defined.
type Dispatcher struct {
	timeout time.Duration
	retries int
	backoff time.Duration
	onError func(*PersistError)

	mu      sync.Mutex
	running int
	idle    chan struct{}

	inFlight  atomic.Int64
	completed atomic.Int64
	failures  atomic.Int64
}

// DispatcherConfig tunes a Dispatcher. Zero values fall back to defaults.
type DispatcherConfig struct {
	Timeout      time.Duration
	Retries      int
	RetryBackoff time.Duration
	// OnError is called from the task goroutine once retries are exhausted
	OnError func(*PersistError)
}

const (
	defaultTimeout = 10 * time.Second
	defaultBackoff = 200 * time.Millisecond
)

// NewDispatcher creates a dispatcher
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = defaultBackoff
	}
	return &Dispatcher{
		timeout: cfg.Timeout,
		retries: cfg.Retries,
		backoff: cfg.RetryBackoff,
		onError: cfg.OnError,
	}
}

// Go starts fn in the background and returns the task id used in logs
func (d *Dispatcher) Go(op string, fn func(ctx context.Context) error) ulid.ULID {
	return d.GoThen(op, fn, nil)
}

// GoThen is Go with a callback that receives the final outcome of the task,
// nil on success, after retries are exhausted otherwise
func (d *Dispatcher) GoThen(op string, fn func(ctx context.Context) error, then func(error)) ulid.ULID {
	id := ulid.Make()
	d.begin()

	go func() {
		defer d.end()
		err := d.run(id, op, fn)
		if then != nil {
			then(err)
		}
	}()

	return id
}

func (d *Dispatcher) begin() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running == 0 {
		d.idle = make(chan struct{})
	}
	d.running++
	d.inFlight.Add(1)
}

func (d *Dispatcher) end() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.running--
	d.inFlight.Add(-1)
	if d.running == 0 {
		close(d.idle)
	}
}

func (d *Dispatcher) run(id ulid.ULID, op string, fn func(ctx context.Context) error) error {
	var err error
	attempts := 0
	delay := d.backoff

	for attempts <= d.retries {
		attempts++
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err = fn(ctx)
		cancel()
		if err == nil {
			d.completed.Add(1)
			slog.Debug("persisted", "task", id, "op", op, "attempts", attempts)
			return nil
		}
		if attempts <= d.retries {
			slog.Warn("persist failed, retrying", "task", id, "op", op, "attempt", attempts, "error", err)
			time.Sleep(delay)
			delay *= 2
		}
	}

	d.failures.Add(1)
	perr := &PersistError{TaskID: id, Op: op, Attempts: attempts, Err: err}
	slog.Error("persist failed", "task", id, "op", op, "attempts", attempts, "error", err)
	if d.onError != nil {
		d.onError(perr)
	}
	return perr
}

// Wait blocks until no task is running or ctx is done. Tasks started while
// waiting are waited for too.
func (d *Dispatcher) Wait(ctx context.Context) error {
	for {
		d.mu.Lock()
		if d.running == 0 {
			d.mu.Unlock()
			return nil
		}
		idle := d.idle
		d.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// InFlight returns the number of running tasks
func (d *Dispatcher) InFlight() int64 {
	return d.inFlight.Load()
}

// Completed returns the number of tasks that eventually succeeded
func (d *Dispatcher) Completed() int64 {
	return d.completed.Load()
}

// Failures returns the number of tasks that gave up
func (d *Dispatcher) Failures() int64 {
	return d.failures.Load()
}
