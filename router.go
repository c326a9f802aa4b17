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
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
)

// Handler is the opaque reference the router stores for a route and returns
// unchanged from Match. The router never inspects or invokes it; resolution
// belongs to the invocation layer. The net/http adapter (ServeHTTP) accepts
// values implementing http.Handler.
type Handler = any

// MethodAny is the sentinel method that dispatches a route for every HTTP
// method not covered by a more specific registration at the same path.
const MethodAny = "*"

// standardMethods is the expansion of MethodAny for allowed-method reporting.
var standardMethods = []string{
	http.MethodDelete,
	http.MethodGet,
	http.MethodHead,
	http.MethodOptions,
	http.MethodPatch,
	http.MethodPost,
	http.MethodPut,
}

// noopLogger is a singleton no-op logger used when no observability is
// configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns the singleton no-op logger. Implementations of
// ObservabilityRecorder can return it when logging is disabled.
func NoopLogger() *slog.Logger {
	return noopLogger
}

// trie is one complete routing table: the segment trie plus the registration
// snapshot used for introspection. A trie is mutable during the build phase
// and logically immutable once published at Freeze.
type trie struct {
	root   *node
	routes []RouteInfo
}

func newTrie() *trie {
	return &trie{root: &node{}}
}

func (t *trie) clone() *trie {
	c := &trie{root: t.root.clone()}
	c.routes = append(c.routes, t.routes...)
	return c
}

// Router matches (method, path) pairs against registered routes in time
// proportional to path depth, not route count.
//
// Lifecycle is two strict phases. During the build phase, Register and
// RegisterGroup mutate the trie behind a write lock and conflicts are
// detected synchronously. Freeze publishes the trie as an immutable snapshot;
// from then on matching is lock-free and registration fails with
// ErrRouterFrozen. For hot route reload, build a new router off to the side
// and publish it through Live.
//
// Example:
//
//	r := arbor.MustNew()
//	r.Register(http.MethodGet, "/users/{id}", getUser, nil)
//	r.Freeze()
//
//	res, err := r.Match(http.MethodGet, "/users/42")
//	// res.Handler == getUser, res.Params.Value("id") == "42"
type Router struct {
	mu       sync.RWMutex          // Serializes build-phase mutation
	build    *trie                 // Mutable trie, valid until freeze
	snapshot atomic.Pointer[trie]  // Published at Freeze; lock-free reads
	frozen   atomic.Bool           // Build/serve phase boundary
	obs      ObservabilityRecorder // Optional request lifecycle hooks

	notFound         http.Handler // Custom 404 for the net/http adapter
	methodNotAllowed http.Handler // Custom 405 for the net/http adapter
}

// Option configures a Router. Options are applied by New and validated
// before the router is returned.
type Option func(*Router)

// New creates a router with optional configuration. The returned router is
// in the build phase: register routes, then call Freeze before serving.
//
// Example:
//
//	r, err := arbor.New(arbor.WithObservability(recorder))
//	if err != nil {
//	    log.Fatalf("router configuration: %v", err)
//	}
func New(opts ...Option) (*Router, error) {
	r := &Router{build: newTrie()}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// MustNew creates a router and panics on invalid configuration. Convenience
// wrapper for startup paths where a configuration error should abort.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("arbor.MustNew: %v", err))
	}
	return r
}

// Register inserts a (method, pattern, handler) triple into the trie.
// metadata is attached to the route unchanged and returned by Match; nil is
// fine.
//
// method is an HTTP method constant or MethodAny. Conflicts are detected
// synchronously, before the insertion becomes visible to matching:
//
//   - ErrInvalidPattern: malformed pattern (bad parameter name, mid-pattern
//     wildcard)
//   - ErrDuplicateRoute: identical method+pattern already registered, or a
//     collision with an any-method registration at the same path
//   - ErrParamNameConflict: a different parameter name already occupies the
//     same trie position
//   - ErrRouterFrozen: the router has been frozen
//
// A failed registration leaves the trie exactly as it was.
func (r *Router) Register(method, pattern string, handler Handler, metadata map[string]any) error {
	if r.frozen.Load() {
		return ErrRouterFrozen
	}

	segments, err := tokenizePattern(pattern)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Recheck under the lock: a concurrent Freeze may have crossed the
	// boundary between the fast-path check and lock acquisition.
	if r.frozen.Load() {
		return ErrRouterFrozen
	}

	return r.build.register(method, pattern, segments, handler, metadata)
}

// register performs conflict detection and insertion on a trie. The caller
// holds the router's write lock (or owns the trie exclusively, as
// RegisterGroup does with its staged clone).
func (t *trie) register(method, pattern string, segments []Segment, handler Handler, metadata map[string]any) error {
	if err := t.root.checkInsert(method, pattern, segments); err != nil {
		return err
	}

	entry := &routeEntry{
		handler:  handler,
		pattern:  pattern,
		metadata: metadata,
	}
	for _, seg := range segments {
		if seg.Kind != SegmentLiteral {
			entry.paramNames = append(entry.paramNames, seg.Text)
		}
	}

	t.root.insert(method, segments, entry)
	t.routes = append(t.routes, RouteInfo{Method: method, Pattern: pattern, Metadata: metadata})
	return nil
}

// RegisterGroup flattens a group tree and registers every entry,
// all-or-nothing: the batch is applied to a staged copy of the trie and the
// copy is published only if every entry succeeds. On error the router is
// left exactly in its pre-call state.
func (r *Router) RegisterGroup(g *Group) error {
	if r.frozen.Load() {
		return ErrRouterFrozen
	}

	entries := g.flatten()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen.Load() {
		return ErrRouterFrozen
	}

	staged := r.build.clone()
	for _, e := range entries {
		segments, err := tokenizePattern(e.pattern)
		if err != nil {
			return fmt.Errorf("register group: %w", err)
		}
		if err := staged.register(e.method, e.pattern, segments, e.handler, e.metadata); err != nil {
			return fmt.Errorf("register group: %w", err)
		}
	}
	r.build = staged
	return nil
}

// Freeze transitions the router to the serve phase. The trie is published as
// an immutable snapshot; matching afterwards is lock-free and registration
// returns ErrRouterFrozen. Freeze is idempotent and safe to call
// concurrently; the boundary is crossed exactly once.
func (r *Router) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.Load() {
		return
	}
	r.snapshot.Store(r.build)
	r.frozen.Store(true)
}

// Frozen reports whether the router has crossed the build/serve boundary.
func (r *Router) Frozen() bool {
	return r.frozen.Load()
}

// activeTrie returns the trie to match against. Frozen routers read the
// published snapshot without locking; during the build phase the read is
// taken under the read lock so a concurrent Register is never observed
// half-applied.
func (r *Router) activeTrie() (*trie, func()) {
	if r.frozen.Load() {
		return r.snapshot.Load(), nil
	}
	r.mu.RLock()
	return r.build, r.mu.RUnlock
}

// Match walks the trie for (method, path) and returns the handler and
// parameter bindings of the winning route.
//
// Precedence at every level is fixed: literal segments beat parameter
// segments, which beat wildcards. A failed branch is backtracked with its
// bindings discarded. The result is deterministic: repeated identical calls
// against a frozen router return equal results.
//
// The two miss outcomes are ordinary values, not faults:
//
//   - errors.Is(err, ErrNotFound): no trie path matches
//   - errors.Is(err, ErrMethodNotAllowed): the path exists, the verb does
//     not; the error is a *MethodNotAllowedError carrying exactly the
//     registered methods
func (r *Router) Match(method, path string) (MatchResult, error) {
	t, release := r.activeTrie()
	if release != nil {
		defer release()
	}

	var res MatchResult
	entry, _, err := matchPath(t.root, method, path, &res.Params)
	if err != nil {
		return MatchResult{}, err
	}

	res.Handler = entry.handler
	res.Pattern = entry.pattern
	res.Metadata = entry.metadata
	return res, nil
}

// RouteExists reports whether an exact (method, pattern) registration exists.
// Comparison is by registered pattern text, not by matching, so
// RouteExists("GET", "/users/{id}") is true only for that exact pattern.
func (r *Router) RouteExists(method, pattern string) bool {
	t, release := r.activeTrie()
	if release != nil {
		defer release()
	}
	for i := range t.routes {
		if t.routes[i].Method == method && t.routes[i].Pattern == pattern {
			return true
		}
	}
	return false
}
