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
	"net/http"
	"sync/atomic"
)

// Live publishes a frozen router behind a single atomic pointer, enabling
// hot route reload without reader/writer contention: build the replacement
// router fully off to the side, freeze it, then Swap. In-flight requests
// keep the router they started with; new requests see the replacement.
//
// Example:
//
//	live := arbor.NewLive(buildRouter())
//	http.ListenAndServe(":8080", live)
//
//	// later, on config change:
//	next := buildRouter()
//	next.Freeze()
//	live.Swap(next)
type Live struct {
	router atomic.Pointer[Router]
}

// NewLive wraps a router for atomic publication. The router is frozen if it
// was not already: a published router must never mutate.
func NewLive(r *Router) *Live {
	r.Freeze()
	l := &Live{}
	l.router.Store(r)
	return l
}

// Router returns the currently published router.
func (l *Live) Router() *Router {
	return l.router.Load()
}

// Swap publishes next as the active router. next must already be frozen:
// readers of a published router never take locks, so a still-mutable router
// is rejected with ErrRouterNotFrozen.
func (l *Live) Swap(next *Router) error {
	if next == nil || !next.Frozen() {
		return ErrRouterNotFrozen
	}
	l.router.Store(next)
	return nil
}

// Match delegates to the currently published router.
func (l *Live) Match(method, path string) (MatchResult, error) {
	return l.router.Load().Match(method, path)
}

// ServeHTTP delegates to the currently published router.
func (l *Live) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	l.router.Load().ServeHTTP(w, req)
}
