// Package coordinator provides a generic periodic cache: one fetch closure
// polled on a fixed interval, with the last successful result held in a
// single-writer snapshot that any number of readers can query.
package coordinator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"luastrack/pkg/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// FetchFunc produces one fresh result. It must honor ctx cancellation.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Coordinator polls fetch on a fixed interval and caches the latest
// successful result. A failed refresh keeps the previous result queryable as
// stale and never stops the schedule.
type Coordinator[T any] struct {
	name     string
	fetch    FetchFunc[T]
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
	tracer   trace.Tracer

	mu          sync.RWMutex
	data        T
	hasData     bool
	lastSuccess bool
	lastErr     error
	subscribers []func()

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func New[T any](name string, fetch FetchFunc[T], interval, timeout time.Duration) *Coordinator[T] {
	return &Coordinator[T]{
		name:     name,
		fetch:    fetch,
		interval: interval,
		timeout:  timeout,
		logger:   slog.Default().With(slog.String("coordinator", name)),
		tracer:   otel.Tracer("coordinator"),
		done:     make(chan struct{}),
	}
}

// RefreshNow performs one blocking refresh. Called once at setup so that
// dependents have data before they are registered.
func (c *Coordinator[T]) RefreshNow(ctx context.Context) error {
	return c.refresh(ctx)
}

// Start launches the periodic refresh loop.
func (c *Coordinator[T]) Start() {
	c.wg.Add(1)
	go c.run()
}

// Stop halts the schedule and waits for the loop to exit. In-flight fetches
// are not aborted but their results are discarded. Idempotent.
func (c *Coordinator[T]) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.wg.Wait()
	})
}

// Data returns the latest cached result. ok is false until the first
// successful refresh completes.
func (c *Coordinator[T]) Data() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data, c.hasData
}

// LastUpdateSuccess reports whether the most recent refresh succeeded. A
// false value with Data ok=true means the cached result is stale.
func (c *Coordinator[T]) LastUpdateSuccess() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSuccess
}

// LastError returns the error from the most recent failed refresh, or nil.
func (c *Coordinator[T]) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Subscribe registers fn to be called after every refresh, successful or
// not. Callbacks run on the refresh goroutine and must not block.
func (c *Coordinator[T]) Subscribe(fn func()) {
	c.mu.Lock()
	c.subscribers = append(c.subscribers, fn)
	c.mu.Unlock()
}

func (c *Coordinator[T]) run() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.refresh(context.Background()); err != nil {
				c.logger.Warn("refresh failed", "err", err)
			}
		case <-c.done:
			c.logger.Debug("coordinator stopped")
			return
		}
	}
}

func (c *Coordinator[T]) refresh(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "coordinator.refresh",
		trace.WithAttributes(attribute.String("coordinator", c.name)),
	)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	data, err := c.fetch(ctx)
	elapsed := time.Since(start)

	// The coordinator may have been stopped while the fetch was in flight;
	// a result arriving after Stop is discarded.
	select {
	case <-c.done:
		return nil
	default:
	}

	c.mu.Lock()
	if err != nil {
		c.lastSuccess = false
		c.lastErr = err
	} else {
		c.data = data
		c.hasData = true
		c.lastSuccess = true
		c.lastErr = nil
	}
	subs := make([]func(), len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.Unlock()

	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
	}
	metrics.RecordRefresh(ctx, c.name, status, elapsed)
	if err == nil {
		metrics.MarkRefreshSuccess(c.name)
	}

	for _, fn := range subs {
		fn()
	}

	return err
}
