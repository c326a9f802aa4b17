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

package arbor

import (
	"context"
	"log/slog"
	"net/http"
)

// ObservabilityRecorder provides request lifecycle hooks for the net/http
// adapter: metrics, distributed tracing, and access logging in one
// interface. The router core (Match) has no observability of its own; these
// hooks fire around ServeHTTP only.
//
// Lifecycle:
//  1. OnRequestStart(ctx, req) → (enrichedCtx, state). The enriched context
//     is always attached to the request. A nil state excludes the request
//     from the remaining hooks (e.g. /health, /metrics) while keeping
//     context enrichment such as trace propagation.
//  2. WrapResponseWriter wraps the writer to capture status and size; only
//     called when state is non-nil. The wrapped writer should implement
//     ResponseInfo.
//  3. The handler executes.
//  4. OnRequestEnd(ctx, state, writer, routePattern) records the outcome.
//     routePattern is the matched pattern (e.g. "/users/{id}") or a sentinel
//     like "_not_found" or "_method_not_allowed" — never the raw path, to
//     keep metric cardinality bounded.
//
// Thread safety: all methods must be safe for concurrent use.
type ObservabilityRecorder interface {
	OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any)
	WrapResponseWriter(w http.ResponseWriter, state any) http.ResponseWriter
	OnRequestEnd(ctx context.Context, state any, writer http.ResponseWriter, routePattern string)

	// BuildRequestLogger returns a request-scoped structured logger. Return
	// NoopLogger() when logging is disabled.
	BuildRequestLogger(ctx context.Context, req *http.Request, routePattern string) *slog.Logger
}

// ResponseInfo is implemented by response writers that track response
// metadata, letting OnRequestEnd extract status and size from the writer it
// receives.
type ResponseInfo interface {
	StatusCode() int
	Size() int64
}

// Route pattern sentinels reported to OnRequestEnd when no route matched.
// Sentinels, not raw paths, keep unmatched traffic from exploding metric
// cardinality.
const (
	patternNotFound         = "_not_found"
	patternMethodNotAllowed = "_method_not_allowed"
)
