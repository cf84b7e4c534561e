package sensor

import (
	"fmt"
	"strings"

	"luastrack/pkg/types"
)

// StatusSensor reports the operational status message of one line. Two are
// always created, one per line.
type StatusSensor struct {
	source StatusSource
	line   types.Line
	badge  string
}

func NewStatusSensor(source StatusSource, line types.Line) *StatusSensor {
	return &StatusSensor{
		source: source,
		line:   line,
		badge:  GenerateTramBadge(line, ""),
	}
}

func (s *StatusSensor) UniqueID() string {
	return strings.ToLower(fmt.Sprintf("luas_status_%s", s.line))
}

func (s *StatusSensor) Name() string {
	return fmt.Sprintf("Luas Status %s", capitalize(string(s.line)))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (s *StatusSensor) Unit() string { return "" }
func (s *StatusSensor) Icon() string { return Icon }

func (s *StatusSensor) Available() bool {
	status, ok := s.source.Data()
	if !ok {
		return false
	}
	_, present := status[s.line]
	return present
}

func (s *StatusSensor) State() string {
	status, ok := s.source.Data()
	if !ok {
		return StateUnavailable
	}
	msg, present := status[s.line]
	if !present {
		return StateUnavailable
	}
	return msg
}

func (s *StatusSensor) Attributes() map[string]string {
	if !s.Available() {
		return nil
	}
	return map[string]string{
		"line":           string(s.line),
		"entity_picture": s.badge,
	}
}

func (s *StatusSensor) Device() DeviceInfo {
	return DeviceInfo{
		Identifiers: []string{"luas", "status"},
		Model:       "Dublin Luas Status",
		Name:        "Dublin Luas Status",
		EntryType:   "service",
	}
}
