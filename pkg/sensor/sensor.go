// Package sensor contains the read-only entity views derived from the
// coordinators' cached data. Sensors never fetch anything themselves; every
// read is a pure projection over the latest snapshot.
package sensor

import (
	"luastrack/pkg/types"
)

const (
	// Icon is the display icon shared by all entities.
	Icon = "mdi:tram"

	// UnitMinutes is the native unit for arrival and wait-time states.
	UnitMinutes = "min"

	// StateUnavailable is the unified signal for any condition where a
	// sensor cannot produce a value (no data yet, fewer arrivals than the
	// configured rank, malformed due token).
	StateUnavailable = "unavailable"

	// StateUnknown is reported by the wait-time sensor when no forecast
	// tram beats the configured walk time.
	StateUnknown = "unknown"
)

// DeviceInfo groups related entities under one logical device.
type DeviceInfo struct {
	Identifiers []string
	Model       string
	Name        string
	EntryType   string
}

// Sensor is the capability surface every entity exposes to the host.
type Sensor interface {
	UniqueID() string
	Name() string
	Unit() string
	Icon() string
	Available() bool
	State() string
	Attributes() map[string]string
	Device() DeviceInfo
}

// ForecastSource is the snapshot accessor arrival-derived sensors read from.
// Satisfied by coordinator.Coordinator[*types.StopForecast].
type ForecastSource interface {
	Data() (*types.StopForecast, bool)
	LastUpdateSuccess() bool
}

// StatusSource is the snapshot accessor status sensors read from.
// Satisfied by coordinator.Coordinator[types.NetworkStatus].
type StatusSource interface {
	Data() (types.NetworkStatus, bool)
	LastUpdateSuccess() bool
}

// filterTrams narrows a forecast list to the configured direction and,
// when set, destination display name. Upstream order is preserved.
func filterTrams(trams []types.TramArrival, direction, destinationName string) []types.TramArrival {
	var out []types.TramArrival
	for _, tram := range trams {
		if tram.Direction != direction {
			continue
		}
		if destinationName != "" && tram.Destination != destinationName {
			continue
		}
		out = append(out, tram)
	}
	return out
}
