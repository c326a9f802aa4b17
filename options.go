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

import "net/http"

// WithObservability sets the observability recorder for the net/http
// adapter. Pass nil to disable all observability (the default).
//
// Example:
//
//	rec, _ := otelobs.New()
//	r := arbor.MustNew(arbor.WithObservability(rec))
func WithObservability(recorder ObservabilityRecorder) Option {
	return func(r *Router) {
		r.obs = recorder
	}
}

// WithNotFoundHandler sets a custom handler for requests that match no
// registered route. The default writes http.NotFound.
//
// Example:
//
//	r := arbor.MustNew(arbor.WithNotFoundHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
//	    http.Error(w, `{"error":"route not found"}`, http.StatusNotFound)
//	})))
func WithNotFoundHandler(h http.Handler) Option {
	return func(r *Router) {
		r.notFound = h
	}
}

// WithMethodNotAllowedHandler sets a custom handler for requests whose path
// matches a route but whose method does not. The Allow header is set before
// the handler runs. The default writes a plain-text 405.
func WithMethodNotAllowedHandler(h http.Handler) Option {
	return func(r *Router) {
		r.methodNotAllowed = h
	}
}
