package integration

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"luastrack/pkg/config"
	"luastrack/pkg/sensor"
	"luastrack/pkg/types"
)

type fakeClient struct {
	forecastCalls atomic.Int64
	statusCalls   atomic.Int64
	forecastErr   error
	statusErr     error
	trams         []types.TramArrival
}

func (f *fakeClient) StopForecast(_ context.Context, stopCode string) (*types.StopForecast, error) {
	f.forecastCalls.Add(1)
	if f.forecastErr != nil {
		return nil, f.forecastErr
	}
	return &types.StopForecast{
		StopCode:  stopCode,
		StopName:  "Ranelagh",
		Trams:     f.trams,
		FetchedAt: time.Now(),
	}, nil
}

func (f *fakeClient) LineStatus(_ context.Context, line types.Line) (string, error) {
	f.statusCalls.Add(1)
	if f.statusErr != nil {
		return "", f.statusErr
	}
	if line == types.LineGreen {
		return "Green Line services operating normally", nil
	}
	return "Red Line services operating normally", nil
}

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Stop = "RAN"
	cfg.Direction = types.DirectionInbound
	// Long intervals so the ticker never fires during a test.
	cfg.ForecastInterval = time.Hour
	cfg.StatusInterval = time.Hour
	return &cfg
}

func TestSetupBuildsEntities(t *testing.T) {
	client := &fakeClient{trams: []types.TramArrival{
		{Due: "DUE", Direction: types.DirectionInbound, Destination: "Broombridge"},
		{Due: "8", Direction: types.DirectionInbound, Destination: "Broombridge"},
	}}

	integ, err := Setup(context.Background(), testConfig(), client)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer integ.Unload()

	if got := integ.Title(); got != "Inbound from Ranelagh" {
		t.Errorf("Title() = %q", got)
	}

	// Four arrivals plus two statuses, no wait-time without a walk time.
	sensors := integ.Sensors()
	if len(sensors) != 6 {
		t.Fatalf("got %d entities, want 6", len(sensors))
	}

	if got := sensors[0].State(); got != "0" {
		t.Errorf("first arrival = %q, want 0", got)
	}
	if got := sensors[1].State(); got != "8" {
		t.Errorf("second arrival = %q, want 8", got)
	}
	if sensors[2].Available() {
		t.Error("third arrival should be unavailable with two trams forecast")
	}
	if got := sensors[4].State(); got != "Green Line services operating normally" {
		t.Errorf("green status = %q", got)
	}
}

func TestSetupWithWalkTime(t *testing.T) {
	cfg := testConfig()
	walk := 5
	cfg.WalkTime = &walk
	client := &fakeClient{trams: []types.TramArrival{
		{Due: "3", Direction: types.DirectionInbound, Destination: "Broombridge"},
		{Due: "9", Direction: types.DirectionInbound, Destination: "Broombridge"},
	}}

	integ, err := Setup(context.Background(), cfg, client)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer integ.Unload()

	sensors := integ.Sensors()
	if len(sensors) != 7 {
		t.Fatalf("got %d entities, want 7", len(sensors))
	}
	wait := sensors[4]
	if got := wait.UniqueID(); got != "luas_wait_time_from_ran" {
		t.Errorf("wait entity UniqueID = %q", got)
	}
	if got := wait.State(); got != "4" {
		t.Errorf("wait = %q, want 4 (9 due minus 5 walk)", got)
	}
}

func TestSetupRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Stop = "NOPE"
	if _, err := Setup(context.Background(), cfg, &fakeClient{}); !errors.Is(err, config.ErrUnknownStop) {
		t.Errorf("Setup error = %v, want ErrUnknownStop", err)
	}
}

func TestSetupSurvivesInitialFailure(t *testing.T) {
	client := &fakeClient{
		forecastErr: errors.New("api down"),
		statusErr:   errors.New("api down"),
	}

	integ, err := Setup(context.Background(), testConfig(), client)
	if err != nil {
		t.Fatalf("Setup should not fail on an unreachable API: %v", err)
	}
	defer integ.Unload()

	for _, s := range integ.Sensors() {
		if s.Available() {
			t.Errorf("%s should be unavailable before any successful refresh", s.UniqueID())
		}
		if got := s.State(); got != sensor.StateUnavailable {
			t.Errorf("%s State() = %q, want %q", s.UniqueID(), got, sensor.StateUnavailable)
		}
	}
}

func TestStatusFetchIsAllOrNothing(t *testing.T) {
	client := &fakeClient{statusErr: errors.New("boom")}
	if _, err := fetchNetworkStatus(context.Background(), client); err == nil {
		t.Error("fetchNetworkStatus should fail when a line status fails")
	}

	ok := &fakeClient{}
	status, err := fetchNetworkStatus(context.Background(), ok)
	if err != nil {
		t.Fatal(err)
	}
	if len(status) != 2 {
		t.Errorf("got %d line entries, want 2", len(status))
	}
}

func TestOnForecastUpdateFires(t *testing.T) {
	client := &fakeClient{}
	cfg := testConfig()
	cfg.ForecastInterval = 10 * time.Millisecond

	integ, err := Setup(context.Background(), cfg, client)
	if err != nil {
		t.Fatal(err)
	}
	defer integ.Unload()

	fired := make(chan struct{}, 1)
	integ.OnForecastUpdate(func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("forecast subscriber never fired")
	}
}
