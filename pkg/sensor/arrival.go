package sensor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"luastrack/pkg/stops"
	"luastrack/pkg/types"
)

var errNoTram = errors.New("no matching tram at configured rank")

// ArrivalSensor reports the due minutes of the index-th upcoming tram
// matching the configured direction (and destination, if set). Four are
// created per configured stop, index 0..3.
type ArrivalSensor struct {
	source      ForecastSource
	index       int
	stop        stops.Stop
	direction   string
	destination *stops.Stop
	badge       string
}

func NewArrivalSensor(source ForecastSource, index int, stop stops.Stop, direction string, destination *stops.Stop) *ArrivalSensor {
	return &ArrivalSensor{
		source:      source,
		index:       index,
		stop:        stop,
		direction:   direction,
		destination: destination,
		badge:       GenerateTramBadge(stop.Line, direction),
	}
}

func (s *ArrivalSensor) UniqueID() string {
	if s.destination != nil {
		return strings.ToLower(fmt.Sprintf("luas_from_%s_to_%s_%s_%d",
			s.stop.Abbrev, s.destination.Abbrev, s.direction, s.index+1))
	}
	return strings.ToLower(fmt.Sprintf("luas_from_%s_%s_%d",
		s.stop.Abbrev, s.direction, s.index+1))
}

func (s *ArrivalSensor) Name() string {
	if s.destination != nil {
		return fmt.Sprintf("Luas from %s to %s %s", s.stop.Name, s.destination.Name, s.direction)
	}
	return fmt.Sprintf("Luas from %s %s", s.stop.Name, s.direction)
}

func (s *ArrivalSensor) Unit() string { return UnitMinutes }
func (s *ArrivalSensor) Icon() string { return Icon }

func (s *ArrivalSensor) Available() bool {
	_, _, err := s.selectTram()
	return err == nil
}

func (s *ArrivalSensor) State() string {
	_, due, err := s.selectTram()
	if err != nil {
		return StateUnavailable
	}
	return strconv.Itoa(due)
}

func (s *ArrivalSensor) Attributes() map[string]string {
	tram, _, err := s.selectTram()
	if err != nil {
		return nil
	}
	return map[string]string{
		"destination":    tram.Destination,
		"direction":      tram.Direction,
		"stop":           s.stop.Name,
		"entity_picture": s.badge,
	}
}

func (s *ArrivalSensor) Device() DeviceInfo {
	return arrivalDevice(s.stop, s.direction, s.destination, s.Name())
}

// selectTram resolves the index-th filtered arrival and its normalized due
// minutes. Any failure (no data, rank out of range, bad due token) comes
// back as an error; callers surface it as unavailable.
func (s *ArrivalSensor) selectTram() (types.TramArrival, int, error) {
	forecast, ok := s.source.Data()
	if !ok {
		return types.TramArrival{}, 0, errNoTram
	}

	destName := ""
	if s.destination != nil {
		destName = s.destination.Name
	}
	trams := filterTrams(forecast.Trams, s.direction, destName)
	if s.index >= len(trams) {
		return types.TramArrival{}, 0, errNoTram
	}

	tram := trams[s.index]
	due, err := types.ParseDue(tram.Due)
	if err != nil {
		return types.TramArrival{}, 0, err
	}
	return tram, due, nil
}

// arrivalDevice is shared by the arrival and wait-time sensors so they group
// under one device per stop/direction/destination combination.
func arrivalDevice(stop stops.Stop, direction string, destination *stops.Stop, name string) DeviceInfo {
	identifiers := []string{"luas", stop.Abbrev, direction}
	if destination != nil {
		identifiers = append(identifiers, destination.Abbrev)
	}
	return DeviceInfo{
		Identifiers: identifiers,
		Model:       name,
		Name:        name,
		EntryType:   "service",
	}
}
