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

// Package otelobs provides an OpenTelemetry-backed implementation of
// arbor.ObservabilityRecorder.
//
// The Recorder measures each request that passes through the router's HTTP
// adapter: a duration histogram, request and error counters, an active
// request gauge and a response size histogram, all keyed by route pattern
// rather than raw path so metric cardinality stays bounded by the route
// table. Each request also gets a server span and a request-scoped
// slog.Logger carrying the trace ID.
//
// Basic usage with the default Prometheus provider:
//
//	recorder := otelobs.MustNew(
//	    otelobs.WithServiceName("orders-api"),
//	)
//	router := arbor.MustNew(arbor.WithObservability(recorder))
//
//	metricsHandler, _ := recorder.Handler()
//	mux := http.NewServeMux()
//	mux.Handle("/metrics", metricsHandler)
//	mux.Handle("/", router)
//
// For development, the stdout provider prints metrics and spans to the
// terminal:
//
//	recorder := otelobs.MustNew(otelobs.WithStdout())
//
// To push metrics to an OTLP collector over HTTP instead of exposing a
// scrape endpoint:
//
//	recorder := otelobs.MustNew(otelobs.WithOTLP("http://localhost:4318"))
//
// Processes that already manage their own OpenTelemetry SDK can hand their
// providers to the Recorder with WithMeterProvider and WithTracerProvider;
// the Recorder then never touches provider lifecycles.
package otelobs
