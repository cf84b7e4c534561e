package coordinator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRefreshNowCachesResult(t *testing.T) {
	c := New("test", func(ctx context.Context) (int, error) {
		return 42, nil
	}, time.Hour, time.Second)

	if _, ok := c.Data(); ok {
		t.Error("Data should report no data before the first refresh")
	}
	if c.LastUpdateSuccess() {
		t.Error("LastUpdateSuccess should be false before the first refresh")
	}

	if err := c.RefreshNow(context.Background()); err != nil {
		t.Fatalf("RefreshNow: %v", err)
	}

	data, ok := c.Data()
	if !ok || data != 42 {
		t.Errorf("Data = %v/%v, want 42/true", data, ok)
	}
	if !c.LastUpdateSuccess() {
		t.Error("LastUpdateSuccess should be true after a successful refresh")
	}
}

func TestFailedRefreshKeepsStaleData(t *testing.T) {
	var fail atomic.Bool
	fetchErr := errors.New("upstream down")
	c := New("test", func(ctx context.Context) (string, error) {
		if fail.Load() {
			return "", fetchErr
		}
		return "fresh", nil
	}, time.Hour, time.Second)

	if err := c.RefreshNow(context.Background()); err != nil {
		t.Fatal(err)
	}

	fail.Store(true)
	if err := c.RefreshNow(context.Background()); !errors.Is(err, fetchErr) {
		t.Fatalf("RefreshNow error = %v, want %v", err, fetchErr)
	}

	// The old result stays queryable, flagged stale.
	data, ok := c.Data()
	if !ok || data != "fresh" {
		t.Errorf("Data = %v/%v, want fresh/true", data, ok)
	}
	if c.LastUpdateSuccess() {
		t.Error("LastUpdateSuccess should be false after a failed refresh")
	}
	if !errors.Is(c.LastError(), fetchErr) {
		t.Errorf("LastError = %v, want %v", c.LastError(), fetchErr)
	}
}

func TestScheduleSurvivesFailures(t *testing.T) {
	var calls atomic.Int64
	c := New("test", func(ctx context.Context) (int, error) {
		n := calls.Add(1)
		if n%2 == 1 {
			return 0, errors.New("flaky")
		}
		return int(n), nil
	}, 10*time.Millisecond, time.Second)

	c.Start()
	defer c.Stop()

	deadline := time.After(2 * time.Second)
	for calls.Load() < 4 {
		select {
		case <-deadline:
			t.Fatalf("only %d fetches after 2s; schedule stalled", calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStopDiscardsInFlightResult(t *testing.T) {
	fetchStarted := make(chan struct{})
	release := make(chan struct{})
	c := New("test", func(ctx context.Context) (int, error) {
		close(fetchStarted)
		<-release
		return 99, nil
	}, 10*time.Millisecond, time.Second)

	c.Start()
	<-fetchStarted

	stopped := make(chan struct{})
	go func() {
		c.Stop()
		close(stopped)
	}()

	// Let Stop close the done channel while the fetch is still parked, then
	// let the fetch complete.
	time.Sleep(20 * time.Millisecond)
	close(release)

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the fetch completed")
	}

	// The result arrived after Stop, so it must not have been cached.
	if _, ok := c.Data(); ok {
		t.Error("result of a fetch in flight across Stop should be discarded")
	}
	if c.LastUpdateSuccess() {
		t.Error("a discarded result must not mark the last update successful")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	c := New("test", func(ctx context.Context) (int, error) {
		return 1, nil
	}, 10*time.Millisecond, time.Second)

	c.Start()
	c.Stop()
	c.Stop() // must not panic or deadlock
}

func TestSubscriberNotifiedOnEveryRefresh(t *testing.T) {
	var fail atomic.Bool
	c := New("test", func(ctx context.Context) (int, error) {
		if fail.Load() {
			return 0, errors.New("down")
		}
		return 7, nil
	}, time.Hour, time.Second)

	var notified atomic.Int64
	c.Subscribe(func() { notified.Add(1) })

	c.RefreshNow(context.Background())
	fail.Store(true)
	c.RefreshNow(context.Background())

	// Failures notify too so dependents can flip to unavailable promptly.
	if got := notified.Load(); got != 2 {
		t.Errorf("subscriber fired %d times, want 2", got)
	}
}

func TestFetchTimeoutEnforced(t *testing.T) {
	c := New("test", func(ctx context.Context) (int, error) {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(5 * time.Second):
			return 1, nil
		}
	}, time.Hour, 20*time.Millisecond)

	start := time.Now()
	err := c.RefreshNow(context.Background())
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("refresh took %v; timeout not enforced", elapsed)
	}
}
