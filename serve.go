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
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// paramsContextKey is the context key under which the adapter stores the
// matched Params.
type paramsContextKey struct{}

// loggerContextKey is the context key under which the adapter stores the
// request-scoped logger.
type loggerContextKey struct{}

// ParamsFromContext returns the path parameters the adapter extracted for
// this request, or nil if the request did not pass through ServeHTTP. The
// returned value is request-scoped; do not retain it past the handler.
func ParamsFromContext(ctx context.Context) *Params {
	p, _ := ctx.Value(paramsContextKey{}).(*Params)
	return p
}

// LoggerFromContext returns the request-scoped logger built by the
// configured ObservabilityRecorder, or the no-op logger when none is set.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok {
		return l
	}
	return noopLogger
}

// ServeHTTP implements http.Handler. It matches the request against the
// router and invokes the registered handler, which must implement
// http.Handler (http.HandlerFunc values qualify). Path parameters are made
// available via ParamsFromContext.
//
// Misses map to HTTP status codes: NotFound → 404 (or the handler set with
// WithNotFoundHandler), MethodNotAllowed → 405 with an Allow header listing
// exactly the registered methods. A registered handler that does not
// implement http.Handler is a wiring bug and yields a 500.
//
// ServeHTTP freezes the router on first use, so a router handed directly to
// an HTTP server without an explicit Freeze call still crosses the
// build/serve boundary before serving.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if !r.frozen.Load() {
		r.Freeze()
	}

	ctx := req.Context()
	var obsState any

	if r.obs != nil {
		var enriched context.Context
		enriched, obsState = r.obs.OnRequestStart(ctx, req)
		if enriched != ctx {
			ctx = enriched
			req = req.WithContext(ctx)
		}
		if obsState != nil {
			w = r.obs.WrapResponseWriter(w, obsState)
		}
	}

	res, err := r.Match(req.Method, req.URL.Path)
	if err != nil {
		r.serveMiss(w, req, err, obsState)
		return
	}

	handler, ok := res.Handler.(http.Handler)
	if !ok {
		// Opaque handlers that are not http.Handler belong to a custom
		// invocation layer, not to this adapter.
		http.Error(w, "handler does not implement http.Handler", http.StatusInternalServerError)
		r.finishObservability(ctx, obsState, w, res.Pattern)
		return
	}

	ps := res.Params
	reqCtx := context.WithValue(ctx, paramsContextKey{}, &ps)
	if r.obs != nil {
		reqCtx = context.WithValue(reqCtx, loggerContextKey{}, r.obs.BuildRequestLogger(ctx, req, res.Pattern))
	}
	handler.ServeHTTP(w, req.WithContext(reqCtx))

	r.finishObservability(ctx, obsState, w, res.Pattern)
}

// serveMiss writes the 404/405 response for a match miss.
func (r *Router) serveMiss(w http.ResponseWriter, req *http.Request, err error, obsState any) {
	var mna *MethodNotAllowedError
	if errors.As(err, &mna) {
		w.Header().Set("Allow", strings.Join(mna.Allowed, ", "))
		if r.methodNotAllowed != nil {
			r.methodNotAllowed.ServeHTTP(w, req)
		} else {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		}
		r.finishObservability(req.Context(), obsState, w, patternMethodNotAllowed)
		return
	}

	if r.notFound != nil {
		r.notFound.ServeHTTP(w, req)
	} else {
		http.NotFound(w, req)
	}
	r.finishObservability(req.Context(), obsState, w, patternNotFound)
}

func (r *Router) finishObservability(ctx context.Context, obsState any, w http.ResponseWriter, pattern string) {
	if obsState != nil {
		r.obs.OnRequestEnd(ctx, obsState, w, pattern)
	}
}

// responseWriter wraps http.ResponseWriter to capture status code and size,
// and suppresses superfluous WriteHeader calls.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int64
	written    bool
}

// NewResponseWriter wraps w so its status code and size can be read back
// through ResponseInfo. ObservabilityRecorder implementations use it in
// WrapResponseWriter.
func NewResponseWriter(w http.ResponseWriter) http.ResponseWriter {
	return &responseWriter{ResponseWriter: w}
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.ResponseWriter.WriteHeader(code)
		rw.written = true
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.written = true
	}
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)
	return n, err
}

// StatusCode returns the HTTP status code, defaulting to 200 when the
// handler never called WriteHeader explicitly.
func (rw *responseWriter) StatusCode() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}
	return rw.statusCode
}

// Size returns the response body size in bytes.
func (rw *responseWriter) Size() int64 { return rw.size }

// Written reports whether headers have been written.
func (rw *responseWriter) Written() bool { return rw.written }

var _ ResponseInfo = (*responseWriter)(nil)

// Hijack implements http.Hijacker when the underlying writer supports it.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, errors.New("arbor: response writer does not implement http.Hijacker")
}

// Flush implements http.Flusher when the underlying writer supports it.
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
