// Package integration assembles the runtime: two poll coordinators feeding a
// fixed set of sensor entities for one configured journey.
package integration

import (
	"context"
	"fmt"
	"log/slog"

	"luastrack/pkg/config"
	"luastrack/pkg/coordinator"
	"luastrack/pkg/sensor"
	"luastrack/pkg/types"
)

// arrivalSensorCount is how many ranked arrival entities each journey gets.
const arrivalSensorCount = 4

// Forecaster is the API surface the integration needs from the Luas client.
type Forecaster interface {
	StopForecast(ctx context.Context, stopCode string) (*types.StopForecast, error)
	LineStatus(ctx context.Context, line types.Line) (string, error)
}

// Integration owns the coordinators and entities for one journey.
type Integration struct {
	title    string
	logger   *slog.Logger
	forecast *coordinator.Coordinator[*types.StopForecast]
	status   *coordinator.Coordinator[types.NetworkStatus]
	sensors  []sensor.Sensor
}

// Setup validates cfg, performs the initial blocking refreshes, builds the
// entities, and starts both poll loops. On success the caller owns the
// returned Integration and must Unload it.
func Setup(ctx context.Context, cfg *config.Config, client Forecaster) (*Integration, error) {
	title, err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	stop := cfg.StopEntry()
	destination := cfg.DestinationEntry()
	logger := slog.Default().With(slog.String("journey", title))

	forecastCoord := coordinator.New(
		"forecast",
		func(ctx context.Context) (*types.StopForecast, error) {
			return client.StopForecast(ctx, stop.Abbrev)
		},
		cfg.ForecastInterval,
		cfg.ForecastTimeout,
	)

	statusCoord := coordinator.New(
		"status",
		func(ctx context.Context) (types.NetworkStatus, error) {
			return fetchNetworkStatus(ctx, client)
		},
		cfg.StatusInterval,
		cfg.StatusTimeout,
	)

	// First refreshes block so every entity has data before it is exposed.
	// A failure here is not fatal; the schedule retries and the entities
	// report unavailable until it recovers.
	if err := forecastCoord.RefreshNow(ctx); err != nil {
		logger.Warn("initial forecast refresh failed", "err", err)
	}
	if err := statusCoord.RefreshNow(ctx); err != nil {
		logger.Warn("initial status refresh failed", "err", err)
	}

	var sensors []sensor.Sensor
	for i := 0; i < arrivalSensorCount; i++ {
		sensors = append(sensors, sensor.NewArrivalSensor(forecastCoord, i, stop, cfg.Direction, destination))
	}
	if cfg.WalkTime != nil {
		sensors = append(sensors, sensor.NewWaitTimeSensor(forecastCoord, *cfg.WalkTime, stop, cfg.Direction, destination))
	}
	sensors = append(sensors,
		sensor.NewStatusSensor(statusCoord, types.LineGreen),
		sensor.NewStatusSensor(statusCoord, types.LineRed),
	)

	forecastCoord.Start()
	statusCoord.Start()
	logger.Info("integration ready", "entities", len(sensors))

	return &Integration{
		title:    title,
		logger:   logger,
		forecast: forecastCoord,
		status:   statusCoord,
		sensors:  sensors,
	}, nil
}

// fetchNetworkStatus collects the status message for both lines. Either line
// failing fails the whole refresh so stale data stays coherent.
func fetchNetworkStatus(ctx context.Context, client Forecaster) (types.NetworkStatus, error) {
	status := make(types.NetworkStatus, 2)
	for _, line := range []types.Line{types.LineGreen, types.LineRed} {
		msg, err := client.LineStatus(ctx, line)
		if err != nil {
			return nil, fmt.Errorf("fetching %s line status: %w", line, err)
		}
		status[line] = msg
	}
	return status, nil
}

// Title is the display name of the configured journey.
func (i *Integration) Title() string { return i.title }

// Sensors returns every entity in a stable order: ranked arrivals, the
// optional wait-time entity, then the two line statuses.
func (i *Integration) Sensors() []sensor.Sensor {
	out := make([]sensor.Sensor, len(i.sensors))
	copy(out, i.sensors)
	return out
}

// OnForecastUpdate registers fn to run after every forecast refresh.
func (i *Integration) OnForecastUpdate(fn func()) {
	i.forecast.Subscribe(fn)
}

// OnStatusUpdate registers fn to run after every status refresh.
func (i *Integration) OnStatusUpdate(fn func()) {
	i.status.Subscribe(fn)
}

// Unload stops both poll loops and waits for them to exit.
func (i *Integration) Unload() {
	i.forecast.Stop()
	i.status.Stop()
	i.logger.Info("integration unloaded")
}
