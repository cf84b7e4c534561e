package otel

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// ServiceName identifies this service in telemetry backends.
const ServiceName = "luastrack"

// Version is set at build time via -ldflags
// e.g., go build -ldflags="-X luastrack/pkg/otel.Version=1.2.3"
var Version = "dev"

func getServiceInstanceID() string {
	if id := os.Getenv("OTEL_SERVICE_INSTANCE_ID"); id != "" {
		return id
	}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		return hostname
	}
	return fmt.Sprintf("luastrack-%d", os.Getpid())
}

func getDeploymentEnvironment() string {
	if v := os.Getenv("OTEL_DEPLOYMENT_ENVIRONMENT"); v != "" {
		return v
	}
	return "production"
}

// NewResource creates the shared resource used by both the tracing and
// metrics providers.
func NewResource() (*resource.Resource, error) {
	return resource.New(context.Background(),
		// Honor OTEL_SERVICE_NAME / OTEL_RESOURCE_ATTRIBUTES overrides
		resource.WithFromEnv(),
		resource.WithHost(),
		resource.WithProcess(),
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(Version),
			semconv.ServiceInstanceID(getServiceInstanceID()),
			semconv.DeploymentEnvironment(getDeploymentEnvironment()),
			semconv.ProcessRuntimeName("go"),
			semconv.ProcessRuntimeVersion(runtime.Version()),
			semconv.ProcessPID(os.Getpid()),
		),
	)
}
