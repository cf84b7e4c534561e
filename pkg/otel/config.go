// Package otel holds the shared OpenTelemetry plumbing: OTLP exporter
// configuration from the standard OTEL_* environment variables, the service
// resource, and span error helpers.
package otel

import (
	"os"
	"strings"
	"time"
)

// Protocol represents the OTLP transport protocol.
type Protocol string

const (
	ProtocolGRPC Protocol = "grpc"
	ProtocolHTTP Protocol = "http/protobuf"
)

// SignalType represents the OTEL signal type.
type SignalType string

const (
	SignalTraces  SignalType = "traces"
	SignalMetrics SignalType = "metrics"
)

// ExporterConfig holds parsed OTLP exporter configuration for one signal.
type ExporterConfig struct {
	Endpoint    string
	Protocol    Protocol
	Headers     map[string]string
	Timeout     time.Duration
	Insecure    bool
	Compression string
}

// IsTracingEnabled reports whether OTEL tracing is enabled.
func IsTracingEnabled() bool {
	return isTrue(getEnv("OTEL_TRACING_ENABLED", "false"))
}

// IsMetricsEnabled reports whether OTEL metrics is enabled.
func IsMetricsEnabled() bool {
	return isTrue(getEnv("OTEL_METRICS_ENABLED", "false"))
}

// GetExporterConfig resolves the exporter configuration for a signal,
// preferring OTEL_EXPORTER_OTLP_<SIGNAL>_* over the base variables.
func GetExporterConfig(signal SignalType) ExporterConfig {
	signalUpper := strings.ToUpper(string(signal))

	protocol := ProtocolHTTP
	if strings.EqualFold(envFallback(
		"OTEL_EXPORTER_OTLP_"+signalUpper+"_PROTOCOL",
		"OTEL_EXPORTER_OTLP_PROTOCOL",
		"http/protobuf"), "grpc") {
		protocol = ProtocolGRPC
	}

	endpoint := resolveEndpoint(signal, signalUpper, protocol)

	timeout := 10 * time.Second
	if d, err := time.ParseDuration(envFallback(
		"OTEL_EXPORTER_OTLP_"+signalUpper+"_TIMEOUT",
		"OTEL_EXPORTER_OTLP_TIMEOUT",
		"10s")); err == nil {
		timeout = d
	}

	insecure := strings.HasPrefix(endpoint, "http://")
	if v := envFallback(
		"OTEL_EXPORTER_OTLP_"+signalUpper+"_INSECURE",
		"OTEL_EXPORTER_OTLP_INSECURE",
		""); v != "" {
		insecure = isTrue(v)
	}

	return ExporterConfig{
		Endpoint: endpoint,
		Protocol: protocol,
		Headers: parseHeaders(envFallback(
			"OTEL_EXPORTER_OTLP_"+signalUpper+"_HEADERS",
			"OTEL_EXPORTER_OTLP_HEADERS",
			"")),
		Timeout:  timeout,
		Insecure: insecure,
		Compression: envFallback(
			"OTEL_EXPORTER_OTLP_"+signalUpper+"_COMPRESSION",
			"OTEL_EXPORTER_OTLP_COMPRESSION",
			""),
	}
}

func resolveEndpoint(signal SignalType, signalUpper string, protocol Protocol) string {
	// A signal-specific endpoint is used verbatim; a base endpoint gets the
	// signal path appended (HTTP only).
	if ep := getEnv("OTEL_EXPORTER_OTLP_"+signalUpper+"_ENDPOINT", ""); ep != "" {
		return normalizeEndpoint(ep, protocol)
	}
	if ep := getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""); ep != "" {
		ep = normalizeEndpoint(ep, protocol)
		if protocol == ProtocolGRPC {
			return ep
		}
		signalPath := "/v1/" + string(signal)
		if strings.HasSuffix(ep, signalPath) {
			return ep
		}
		return strings.TrimSuffix(ep, "/") + signalPath
	}
	if protocol == ProtocolGRPC {
		return "localhost:4317"
	}
	return "http://localhost:4318/v1/" + string(signal)
}

func normalizeEndpoint(endpoint string, protocol Protocol) string {
	if protocol == ProtocolGRPC {
		// gRPC endpoints are bare host:port.
		endpoint = strings.TrimPrefix(endpoint, "http://")
		endpoint = strings.TrimPrefix(endpoint, "https://")
		if idx := strings.Index(endpoint, "/"); idx != -1 {
			endpoint = endpoint[:idx]
		}
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	return endpoint
}

// parseHeaders parses "key1=value1,key2=value2". Values keep everything
// after the first '=' so tokens containing '=' survive.
func parseHeaders(headerStr string) map[string]string {
	headers := make(map[string]string)
	for _, pair := range strings.Split(headerStr, ",") {
		pair = strings.TrimSpace(pair)
		if idx := strings.Index(pair, "="); idx > 0 {
			headers[strings.TrimSpace(pair[:idx])] = pair[idx+1:]
		}
	}
	return headers
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envFallback(signalSpecific, base, defaultValue string) string {
	if value := os.Getenv(signalSpecific); value != "" {
		return value
	}
	if value := os.Getenv(base); value != "" {
		return value
	}
	return defaultValue
}

func isTrue(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
