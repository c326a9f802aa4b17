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
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	promclient "github.com/prometheus/client_golang/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/arbor-http/arbor"
)

// Default histogram buckets. These follow OpenTelemetry semantic conventions
// and are suitable for most HTTP services.
var (
	// DefaultDurationBuckets are histogram boundaries for request duration in
	// seconds, covering sub-millisecond to 10 second responses.
	DefaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

	// DefaultSizeBuckets are histogram boundaries for response size in bytes,
	// covering 100B to 10MB.
	DefaultSizeBuckets = []float64{100, 1000, 10000, 100000, 1000000, 10000000}
)

// Provider represents the available telemetry providers.
type Provider string

const (
	// PrometheusProvider exports metrics through a pull-based Prometheus
	// endpoint (default). Traces are not exported unless a tracer provider is
	// supplied with WithTracerProvider.
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider pushes metrics to an OTLP collector over HTTP. Traces are
	// not exported unless a tracer provider is supplied with
	// WithTracerProvider.
	OTLPProvider Provider = "otlp"
	// StdoutProvider exports metrics and traces to stdout
	// (development/testing).
	StdoutProvider Provider = "stdout"
)

// defaultOTLPEndpoint is the collector address used when WithOTLP is given an
// empty endpoint.
const defaultOTLPEndpoint = "http://localhost:4318"

// Recorder implements [arbor.ObservabilityRecorder] on top of OpenTelemetry.
// It records per-request metrics keyed by route pattern, opens a server span
// per request, and builds request-scoped loggers carrying the trace ID.
// All methods are safe for concurrent use.
//
// By default the Recorder does NOT set the global OpenTelemetry providers,
// so multiple Recorder instances can coexist in the same process.
type Recorder struct {
	meter          metric.Meter
	meterProvider  metric.MeterProvider
	tracer         trace.Tracer
	tracerProvider trace.TracerProvider

	prometheusHandler  http.Handler
	prometheusRegistry *promclient.Registry

	logger *slog.Logger

	requestDuration metric.Float64Histogram
	requestCount    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
	responseSize    metric.Int64Histogram
	errorCount      metric.Int64Counter

	durationBuckets []float64
	sizeBuckets     []float64

	exportInterval time.Duration
	otlpEndpoint   string

	serviceName    string
	serviceVersion string

	// Pre-computed attributes attached to every measurement.
	serviceNameAttr    attribute.KeyValue
	serviceVersionAttr attribute.KeyValue

	provider             Provider
	customMeterProvider  bool
	customTracerProvider bool
}

// New creates a [Recorder] with the given options. Returns an error if the
// telemetry provider fails to initialize. For a version that panics on
// error, use [MustNew].
func New(opts ...Option) (*Recorder, error) {
	r := newDefaultRecorder()
	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := r.initializeProviders(); err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	return r, nil
}

// MustNew is like [New] but panics on initialization failure.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("otelobs: failed to initialize recorder: %v", err))
	}
	return r
}

func newDefaultRecorder() *Recorder {
	r := &Recorder{
		provider:        PrometheusProvider,
		serviceName:     "arbor-service",
		serviceVersion:  "1.0.0",
		exportInterval:  30 * time.Second,
		durationBuckets: DefaultDurationBuckets,
		sizeBuckets:     DefaultSizeBuckets,
		logger:          arbor.NoopLogger(),
	}
	return r
}

func (r *Recorder) validate() error {
	if r.serviceName == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	if r.serviceVersion == "" {
		return fmt.Errorf("service version cannot be empty")
	}
	if r.exportInterval < time.Second {
		return fmt.Errorf("export interval must be at least 1s, got %v", r.exportInterval)
	}
	if r.customMeterProvider && r.meterProvider == nil {
		return fmt.Errorf("custom meter provider is nil")
	}
	if r.customTracerProvider && r.tracerProvider == nil {
		return fmt.Errorf("custom tracer provider is nil")
	}
	switch r.provider {
	case PrometheusProvider, OTLPProvider, StdoutProvider:
	default:
		return fmt.Errorf("unsupported provider: %s", r.provider)
	}
	return nil
}

// Handler returns the Prometheus scrape [http.Handler]. Returns an error
// when the Recorder was not built with the Prometheus provider.
//
// Example:
//
//	handler, err := recorder.Handler()
//	if err == nil {
//	    mux.Handle("/metrics", handler)
//	}
func (r *Recorder) Handler() (http.Handler, error) {
	if r.prometheusHandler == nil {
		return nil, fmt.Errorf("handler only available with Prometheus provider, current provider: %s", r.provider)
	}
	return r.prometheusHandler, nil
}

// Provider returns the configured telemetry provider.
func (r *Recorder) Provider() Provider { return r.provider }

// ServiceName returns the configured service name.
func (r *Recorder) ServiceName() string { return r.serviceName }

// ServiceVersion returns the configured service version.
func (r *Recorder) ServiceVersion() string { return r.serviceVersion }

// requestState carries per-request telemetry between OnRequestStart and
// OnRequestEnd.
type requestState struct {
	start  time.Time
	method string
	span   trace.Span
}

// OnRequestStart opens a server span, increments the active request gauge
// and returns the span-enriched context. The returned state is handed back
// in OnRequestEnd.
func (r *Recorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	st := &requestState{
		start:  time.Now(),
		method: req.Method,
	}

	// The route pattern is unknown until matching completes; the span is
	// renamed in OnRequestEnd once the pattern is available.
	ctx, st.span = r.tracer.Start(ctx, req.Method,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("url.path", req.URL.Path),
			r.serviceNameAttr,
			r.serviceVersionAttr,
		),
	)

	r.activeRequests.Add(ctx, 1, metric.WithAttributes(r.serviceNameAttr, r.serviceVersionAttr))
	return ctx, st
}

// WrapResponseWriter wraps w so the response status and size can be read
// back in OnRequestEnd.
func (r *Recorder) WrapResponseWriter(w http.ResponseWriter, state any) http.ResponseWriter {
	if state == nil {
		return w
	}
	return arbor.NewResponseWriter(w)
}

// OnRequestEnd records the request metrics keyed by route pattern and closes
// the span. Misses arrive with the router's pattern sentinels, keeping
// metric cardinality bounded by the route table.
func (r *Recorder) OnRequestEnd(ctx context.Context, state any, writer http.ResponseWriter, routePattern string) {
	st, ok := state.(*requestState)
	if !ok {
		return
	}

	statusCode := http.StatusOK
	var size int64
	if info, ok := writer.(arbor.ResponseInfo); ok {
		statusCode = info.StatusCode()
		size = info.Size()
	}

	attrs := metric.WithAttributes(
		r.serviceNameAttr,
		r.serviceVersionAttr,
		attribute.String("http.route", routePattern),
		attribute.String("http.method", st.method),
		attribute.Int("http.status_code", statusCode),
		attribute.String("http.status_class", statusClass(statusCode)),
	)

	r.requestDuration.Record(ctx, time.Since(st.start).Seconds(), attrs)
	r.requestCount.Add(ctx, 1, attrs)
	r.activeRequests.Add(ctx, -1, metric.WithAttributes(r.serviceNameAttr, r.serviceVersionAttr))
	if statusCode >= 400 {
		r.errorCount.Add(ctx, 1, attrs)
	}
	if size > 0 {
		r.responseSize.Record(ctx, size, attrs)
	}

	st.span.SetName(st.method + " " + routePattern)
	st.span.SetAttributes(
		attribute.String("http.route", routePattern),
		attribute.Int("http.status_code", statusCode),
	)
	if statusCode >= 500 {
		st.span.SetStatus(codes.Error, http.StatusText(statusCode))
	}
	st.span.End()
}

// BuildRequestLogger returns a logger pre-populated with the route pattern,
// method and, when a span is recording, the trace ID.
func (r *Recorder) BuildRequestLogger(ctx context.Context, req *http.Request, routePattern string) *slog.Logger {
	logger := r.logger.With(
		slog.String("http.route", routePattern),
		slog.String("http.method", req.Method),
	)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		logger = logger.With(slog.String("trace_id", sc.TraceID().String()))
	}
	return logger
}

// ForceFlush immediately exports any pending telemetry. For the pull-based
// Prometheus provider this is a no-op; metrics are collected when scraped.
func (r *Recorder) ForceFlush(ctx context.Context) error {
	if mp, ok := r.meterProvider.(*sdkmetric.MeterProvider); ok && !r.customMeterProvider {
		if err := mp.ForceFlush(ctx); err != nil {
			return fmt.Errorf("metrics force flush: %w", err)
		}
	}
	if tp, ok := r.tracerProvider.(*sdktrace.TracerProvider); ok && !r.customTracerProvider {
		if err := tp.ForceFlush(ctx); err != nil {
			return fmt.Errorf("traces force flush: %w", err)
		}
	}
	return nil
}

// Shutdown flushes and shuts down the providers the Recorder owns.
// User-supplied providers are left to their owner. Idempotent calls against
// already shut down SDK providers return their error unchanged.
func (r *Recorder) Shutdown(ctx context.Context) error {
	var errs []error

	if mp, ok := r.meterProvider.(*sdkmetric.MeterProvider); ok && !r.customMeterProvider {
		if err := mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	if tp, ok := r.tracerProvider.(*sdktrace.TracerProvider); ok && !r.customTracerProvider {
		if err := tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}

// statusClass returns the HTTP status class (2xx, 3xx, 4xx, 5xx).
func statusClass(statusCode int) string {
	switch statusCode / 100 {
	case 2:
		return "2xx"
	case 3:
		return "3xx"
	case 4:
		return "4xx"
	case 5:
		return "5xx"
	default:
		return "unknown"
	}
}

var _ arbor.ObservabilityRecorder = (*Recorder)(nil)
