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
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	promclient "github.com/prometheus/client_golang/prometheus"
)

// Option defines functional options for Recorder configuration.
type Option func(*Recorder)

// WithMeterProvider supplies a custom OpenTelemetry [metric.MeterProvider].
// The Recorder will not manage the provider's lifecycle; Shutdown and
// ForceFlush leave it untouched.
//
// Example:
//
//	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
//	recorder, err := otelobs.New(otelobs.WithMeterProvider(mp))
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(r *Recorder) {
		r.meterProvider = provider
		r.customMeterProvider = true
	}
}

// WithTracerProvider supplies a custom OpenTelemetry [trace.TracerProvider].
// The Recorder will not manage the provider's lifecycle.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(r *Recorder) {
		r.tracerProvider = provider
		r.customTracerProvider = true
	}
}

// WithServiceName sets the service name attached to every measurement.
func WithServiceName(name string) Option {
	return func(r *Recorder) {
		r.serviceName = name
	}
}

// WithServiceVersion sets the service version attached to every measurement.
func WithServiceVersion(version string) Option {
	return func(r *Recorder) {
		r.serviceVersion = version
	}
}

// WithLogger sets the base logger that BuildRequestLogger derives
// request-scoped loggers from. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithPrometheus selects the Prometheus provider (the default). Metrics are
// exposed through the handler returned by [Recorder.Handler].
func WithPrometheus() Option {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
	}
}

// WithPrometheusRegistry selects the Prometheus provider backed by the given
// registry instead of a dedicated one. Useful when the process already
// serves a registry of its own.
func WithPrometheusRegistry(registry *promclient.Registry) Option {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
		r.prometheusRegistry = registry
	}
}

// WithOTLP selects the OTLP provider, pushing metrics to the collector at
// endpoint over HTTP on the export interval. An empty endpoint falls back to
// http://localhost:4318; a http:// scheme selects plaintext transport.
//
// Example:
//
//	recorder := otelobs.MustNew(
//	    otelobs.WithOTLP("http://localhost:4318"),
//	    otelobs.WithServiceName("my-api"),
//	)
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) {
		r.provider = OTLPProvider
		r.otlpEndpoint = endpoint
	}
}

// WithStdout selects the stdout provider for development and debugging.
//
// Example:
//
//	recorder := otelobs.MustNew(
//	    otelobs.WithStdout(),
//	    otelobs.WithExportInterval(time.Second),
//	)
func WithStdout() Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
	}
}

// WithExportInterval sets the export interval for push-based providers.
func WithExportInterval(interval time.Duration) Option {
	return func(r *Recorder) {
		r.exportInterval = interval
	}
}

// WithDurationBuckets sets custom histogram boundaries, in seconds, for the
// request duration histogram. Defaults to DefaultDurationBuckets.
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		r.durationBuckets = buckets
	}
}

// WithSizeBuckets sets custom histogram boundaries, in bytes, for the
// response size histogram. Defaults to DefaultSizeBuckets.
func WithSizeBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		r.sizeBuckets = buckets
	}
}
