package luas

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"luastrack/pkg/metrics"
	"luastrack/pkg/otel"
	"luastrack/pkg/parser"
	"luastrack/pkg/types"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	otelapi "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBaseURL is the public Luas forecasting endpoint.
	DefaultBaseURL = "https://luasforecasts.rpa.ie/xml/get.ashx"
)

// statusStops are the reference stops whose forecast message carries each
// line's operational status.
var statusStops = map[types.Line]string{
	types.LineGreen: "STS",
	types.LineRed:   "TAL",
}

// Client fetches stop forecasts and line status from the Luas forecast API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	parser     *parser.ForecastParser
	tracer     trace.Tracer
}

func NewClient() *Client {
	// HTTP client with OpenTelemetry instrumentation
	client := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   30 * time.Second,
	}

	return &Client{
		httpClient: client,
		baseURL:    DefaultBaseURL,
		parser:     parser.NewForecastParser(),
		tracer:     otelapi.Tracer("luas-client"),
	}
}

// SetBaseURL overrides the forecast endpoint. Used by tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// StopForecast fetches and parses the arrival forecast for one stop.
func (c *Client) StopForecast(ctx context.Context, stopCode string) (*types.StopForecast, error) {
	ctx, span := c.tracer.Start(ctx, "luas.stop_forecast",
		trace.WithAttributes(
			attribute.String("stop_code", stopCode),
			attribute.String("api.endpoint", c.baseURL),
		),
	)
	defer span.End()

	body, err := c.fetch(ctx, stopCode)
	if err != nil {
		otel.RecordError(span, err, fetchErrorType(err), true)
		metrics.RecordAPIRequest(ctx, "error")
		return nil, err
	}
	metrics.RecordAPIRequest(ctx, "ok")

	forecast, err := c.parser.ParseForecast(ctx, body)
	if err != nil {
		otel.RecordError(span, err, otel.ErrorTypeParse, false)
		return nil, err
	}

	if forecast.StopCode == "" {
		forecast.StopCode = stopCode
	}
	forecast.FetchedAt = time.Now()

	span.SetAttributes(attribute.Int("trams_count", len(forecast.Trams)))
	otel.SetSpanOk(span)
	return forecast, nil
}

// LineStatus returns the operational status message for a line, read from
// the forecast of that line's reference stop.
func (c *Client) LineStatus(ctx context.Context, line types.Line) (string, error) {
	ctx, span := c.tracer.Start(ctx, "luas.line_status",
		trace.WithAttributes(attribute.String("line", string(line))),
	)
	defer span.End()

	stopCode, ok := statusStops[line]
	if !ok {
		err := fmt.Errorf("unknown line %q", line)
		otel.RecordError(span, err, otel.ErrorTypeValidation, false)
		return "", err
	}

	forecast, err := c.StopForecast(ctx, stopCode)
	if err != nil {
		otel.RecordError(span, err, fetchErrorType(err), true)
		return "", fmt.Errorf("failed to fetch status for %s line: %w", line, err)
	}

	return forecast.Message, nil
}

// fetchErrorType distinguishes a deadline-bound failure from a general
// transport failure for span tagging.
func fetchErrorType(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return otel.ErrorTypeTimeout
	}
	return otel.ErrorTypeNetwork
}

// fetch performs the HTTP GET for one stop and returns the raw XML body.
func (c *Client) fetch(ctx context.Context, stopCode string) ([]byte, error) {
	params := url.Values{}
	params.Set("action", "forecast")
	params.Set("encrypt", "false")
	params.Set("stop", stopCode)
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "luastrack/1.0.0")
	req.Header.Set("Accept", "application/xml, text/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("forecast API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}
