package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Line identifies one of the two Luas tram lines.
type Line string

const (
	LineGreen Line = "green"
	LineRed   Line = "red"
)

// Direction tokens as reported by the forecast API.
const (
	DirectionInbound  = "Inbound"
	DirectionOutbound = "Outbound"
)

// DueNow is the literal token the forecast API uses for a tram that is
// arriving right now.
const DueNow = "DUE"

// TramArrival is a single forecast entry for a stop. Due is kept as the raw
// wire token ("DUE", "5", ...); normalization happens at read time via
// ParseDue so that malformed values surface per-sensor, not per-poll.
type TramArrival struct {
	Due         string `json:"due"`
	Direction   string `json:"direction"`
	Destination string `json:"destination"`
}

// StopForecast is the parsed result of one forecast poll. Replaced wholesale
// on every successful refresh.
type StopForecast struct {
	StopCode  string        `json:"stop_code"`
	StopName  string        `json:"stop_name"`
	Message   string        `json:"message"`
	Trams     []TramArrival `json:"trams"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// NetworkStatus maps each line to its current operational status message.
// Replaced wholesale on every status poll.
type NetworkStatus map[Line]string

// DataFormatError reports a due value that is neither "DUE" nor an integer.
type DataFormatError struct {
	Value string
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("unparseable due value %q", e.Value)
}

// ParseDue normalizes a raw due token to whole minutes. "DUE" means the tram
// is arriving now and maps to 0.
func ParseDue(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == DueNow {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &DataFormatError{Value: raw}
	}
	return n, nil
}

// ValidDirection reports whether s is one of the two recognized direction
// tokens.
func ValidDirection(s string) bool {
	return s == DirectionInbound || s == DirectionOutbound
}
