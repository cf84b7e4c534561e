package parser

import (
	"context"
	"fmt"
	"strings"

	"luastrack/pkg/metrics"
	"luastrack/pkg/types"

	"github.com/clbanning/mxj/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ForecastParser turns the forecast API's XML payload into typed records.
type ForecastParser struct {
	tracer trace.Tracer
}

func NewForecastParser() *ForecastParser {
	return &ForecastParser{
		tracer: otel.Tracer("forecast-parser"),
	}
}

// ParseForecast parses a stopInfo XML document. The payload shape is:
//
//	<stopInfo created="..." stop="Ranelagh" stopAbv="RAN">
//	  <message>Green Line services operating normally</message>
//	  <direction name="Inbound">
//	    <tram dueMins="DUE" destination="Broombridge"/>
//	  </direction>
//	  ...
//	</stopInfo>
//
// Directions and trams may each appear as a single element or an array.
func (p *ForecastParser) ParseForecast(ctx context.Context, xmlData []byte) (*types.StopForecast, error) {
	_, span := p.tracer.Start(ctx, "parser.parse_forecast",
		trace.WithAttributes(
			attribute.Int("xml_size_bytes", len(xmlData)),
		),
	)
	defer span.End()

	metrics.RecordPayloadSize(ctx, len(xmlData))

	xmlMap, err := mxj.NewMapXml(xmlData)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to parse forecast XML: %w", err)
	}

	stopInfo, ok := xmlMap["stopInfo"].(map[string]interface{})
	if !ok {
		err := fmt.Errorf("forecast XML has no stopInfo element")
		span.RecordError(err)
		return nil, err
	}

	forecast := &types.StopForecast{}
	if name, ok := stopInfo["-stop"].(string); ok {
		forecast.StopName = name
	}
	if code, ok := stopInfo["-stopAbv"].(string); ok {
		forecast.StopCode = code
	}
	if msg, ok := stopInfo["-message"].(string); ok {
		// Some payload variants carry the message as an attribute.
		forecast.Message = strings.TrimSpace(msg)
	}
	if msg, ok := stopInfo["message"].(string); ok {
		forecast.Message = strings.TrimSpace(msg)
	}

	forecast.Trams = p.extractTrams(stopInfo)

	span.SetAttributes(
		attribute.String("stop_code", forecast.StopCode),
		attribute.Int("trams_count", len(forecast.Trams)),
	)
	metrics.RecordTramsExtracted(ctx, len(forecast.Trams))

	return forecast, nil
}

// extractTrams walks the direction elements and flattens their tram entries,
// preserving upstream order within each direction.
func (p *ForecastParser) extractTrams(stopInfo map[string]interface{}) []types.TramArrival {
	var trams []types.TramArrival

	for _, dir := range asList(stopInfo["direction"]) {
		dirMap, ok := dir.(map[string]interface{})
		if !ok {
			continue
		}
		dirName, _ := dirMap["-name"].(string)

		for _, tram := range asList(dirMap["tram"]) {
			tramMap, ok := tram.(map[string]interface{})
			if !ok {
				continue
			}
			arrival := parseTram(tramMap, dirName)
			if arrival != nil {
				trams = append(trams, *arrival)
			}
		}
	}

	return trams
}

// parseTram reads one tram element. Entries carrying the "No trams forecast"
// placeholder destination with an empty due are dropped.
func parseTram(tramMap map[string]interface{}, direction string) *types.TramArrival {
	arrival := &types.TramArrival{Direction: direction}

	if due, ok := tramMap["-dueMins"].(string); ok {
		arrival.Due = strings.TrimSpace(due)
	}
	if dest, ok := tramMap["-destination"].(string); ok {
		arrival.Destination = strings.TrimSpace(dest)
	}

	if arrival.Due == "" && strings.EqualFold(arrival.Destination, "No trams forecast") {
		return nil
	}
	if arrival.Due == "" && arrival.Destination == "" {
		return nil
	}

	return arrival
}

// asList normalizes mxj's single-element-vs-array ambiguity.
func asList(v interface{}) []interface{} {
	switch t := v.(type) {
	case []interface{}:
		return t
	case map[string]interface{}:
		return []interface{}{t}
	default:
		return nil
	}
}
