// Copyright 2025 The Arbor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package otelobs

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace/noop"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const scopeName = "github.com/arbor-http/arbor/otelobs"

// initializeProviders wires up the meter and tracer providers according to
// the configured provider, honoring user-supplied providers.
func (r *Recorder) initializeProviders() error {
	r.serviceNameAttr = attribute.String("service.name", r.serviceName)
	r.serviceVersionAttr = attribute.String("service.version", r.serviceVersion)

	if !r.customMeterProvider {
		switch r.provider {
		case PrometheusProvider:
			if err := r.initPrometheusMeterProvider(); err != nil {
				return err
			}
		case OTLPProvider:
			if err := r.initOTLPMeterProvider(); err != nil {
				return err
			}
		case StdoutProvider:
			if err := r.initStdoutMeterProvider(); err != nil {
				return err
			}
		}
	}

	if !r.customTracerProvider {
		switch r.provider {
		case StdoutProvider:
			if err := r.initStdoutTracerProvider(); err != nil {
				return err
			}
		default:
			// Prometheus and OTLP here are metrics-only. Spans are still
			// started so upstream propagation keeps working, but nothing
			// records them.
			r.tracerProvider = noop.NewTracerProvider()
		}
	}

	r.meter = r.meterProvider.Meter(scopeName)
	r.tracer = r.tracerProvider.Tracer(scopeName)

	return r.initializeInstruments()
}

// initPrometheusMeterProvider builds a meter provider backed by a dedicated
// Prometheus registry. A dedicated registry avoids collisions with the
// global one when several recorders live in the same process.
func (r *Recorder) initPrometheusMeterProvider() error {
	if r.prometheusRegistry == nil {
		r.prometheusRegistry = promclient.NewRegistry()
	}

	exporter, err := prometheus.New(prometheus.WithRegisterer(r.prometheusRegistry))
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	r.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	r.prometheusHandler = promhttp.HandlerFor(r.prometheusRegistry, promhttp.HandlerOpts{})
	return nil
}

// initOTLPMeterProvider builds a push-based meter provider exporting to an
// OTLP collector over HTTP on the configured interval.
func (r *Recorder) initOTLPMeterProvider() error {
	if r.otlpEndpoint == "" {
		r.otlpEndpoint = defaultOTLPEndpoint
	}

	host, insecure := parseOTLPEndpoint(r.otlpEndpoint)
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(host)}
	if insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval))
	r.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return nil
}

// parseOTLPEndpoint reduces a collector endpoint to the host:port form the
// exporter expects. A http:// scheme selects plaintext transport; any path
// suffix is dropped since the exporter appends its own signal path.
func parseOTLPEndpoint(endpoint string) (host string, insecure bool) {
	host = endpoint
	if strings.HasPrefix(host, "http://") {
		host = strings.TrimPrefix(host, "http://")
		insecure = true
	} else if strings.HasPrefix(host, "https://") {
		host = strings.TrimPrefix(host, "https://")
	}
	if idx := strings.Index(host, "/"); idx != -1 {
		host = host[:idx]
	}
	return host, insecure
}

func (r *Recorder) initStdoutMeterProvider() error {
	exporter, err := stdoutmetric.New()
	if err != nil {
		return fmt.Errorf("failed to create stdout metric exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval))
	r.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return nil
}

func (r *Recorder) initStdoutTracerProvider() error {
	exporter, err := stdouttrace.New()
	if err != nil {
		return fmt.Errorf("failed to create stdout trace exporter: %w", err)
	}

	r.tracerProvider = sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	return nil
}

// initializeInstruments creates the fixed set of HTTP instruments.
func (r *Recorder) initializeInstruments() error {
	var err error

	r.requestDuration, err = r.meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create request duration histogram: %w", err)
	}

	r.requestCount, err = r.meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create request count counter: %w", err)
	}

	r.activeRequests, err = r.meter.Int64UpDownCounter(
		"http_requests_active",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create active requests gauge: %w", err)
	}

	r.responseSize, err = r.meter.Int64Histogram(
		"http_response_size_bytes",
		metric.WithDescription("Size of HTTP response bodies in bytes"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(r.sizeBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create response size histogram: %w", err)
	}

	r.errorCount, err = r.meter.Int64Counter(
		"http_errors_total",
		metric.WithDescription("Total number of HTTP error responses"),
	)
	if err != nil {
		return fmt.Errorf("failed to create error count counter: %w", err)
	}

	return nil
}
