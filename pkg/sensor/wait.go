package sensor

import (
	"fmt"
	"strconv"
	"strings"

	"luastrack/pkg/stops"
	"luastrack/pkg/types"
)

// WaitTimeSensor answers "how many minutes until I should leave": the due of
// the first matching tram strictly beyond the configured walk time, minus
// the walk time. Created only when a walk time is configured.
type WaitTimeSensor struct {
	source      ForecastSource
	walkTime    int
	stop        stops.Stop
	direction   string
	destination *stops.Stop
	badge       string
}

func NewWaitTimeSensor(source ForecastSource, walkTime int, stop stops.Stop, direction string, destination *stops.Stop) *WaitTimeSensor {
	return &WaitTimeSensor{
		source:      source,
		walkTime:    walkTime,
		stop:        stop,
		direction:   direction,
		destination: destination,
		badge:       GenerateTramBadge(stop.Line, direction),
	}
}

func (s *WaitTimeSensor) UniqueID() string {
	if s.destination != nil {
		return strings.ToLower(fmt.Sprintf("luas_wait_time_from_%s_to_%s",
			s.stop.Abbrev, s.destination.Abbrev))
	}
	return strings.ToLower(fmt.Sprintf("luas_wait_time_from_%s", s.stop.Abbrev))
}

func (s *WaitTimeSensor) Name() string {
	if s.destination != nil {
		return fmt.Sprintf("Luas wait time from %s to %s %s", s.stop.Name, s.destination.Name, s.direction)
	}
	return fmt.Sprintf("Luas wait time from %s %s", s.stop.Name, s.direction)
}

func (s *WaitTimeSensor) Unit() string { return UnitMinutes }
func (s *WaitTimeSensor) Icon() string { return Icon }

func (s *WaitTimeSensor) Available() bool {
	_, _, err := s.nextCatchable()
	return err == nil
}

// State reports due−walk for the first catchable tram, or "unknown" when
// every forecast tram leaves before the walk completes.
func (s *WaitTimeSensor) State() string {
	due, found, err := s.nextCatchable()
	if err != nil {
		return StateUnavailable
	}
	if !found {
		return StateUnknown
	}
	return strconv.Itoa(due - s.walkTime)
}

func (s *WaitTimeSensor) Attributes() map[string]string {
	if _, _, err := s.nextCatchable(); err != nil {
		return nil
	}
	return map[string]string{
		"walk_time":      strconv.Itoa(s.walkTime),
		"direction":      s.direction,
		"stop":           s.stop.Name,
		"entity_picture": s.badge,
	}
}

func (s *WaitTimeSensor) Device() DeviceInfo {
	return arrivalDevice(s.stop, s.direction, s.destination, s.Name())
}

// nextCatchable returns the due minutes of the first filtered tram with
// due > walkTime. found is false when no tram qualifies; an error means the
// list could not be evaluated at all.
func (s *WaitTimeSensor) nextCatchable() (due int, found bool, err error) {
	forecast, ok := s.source.Data()
	if !ok {
		return 0, false, errNoTram
	}

	destName := ""
	if s.destination != nil {
		destName = s.destination.Name
	}
	for _, tram := range filterTrams(forecast.Trams, s.direction, destName) {
		mins, err := types.ParseDue(tram.Due)
		if err != nil {
			return 0, false, err
		}
		if mins > s.walkTime {
			return mins, true, nil
		}
	}
	return 0, false, nil
}
