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
	"maps"
	"net/http"
	"strings"
)

// Group is a registration-time tree of routes sharing a path prefix and
// metadata. Groups nest: a child group's prefix is appended to its
// ancestors' prefixes, and its metadata is merged over theirs, child values
// winning on key collisions.
//
// A group has no matching-time role. RegisterGroup flattens the tree in
// pre-order (a group's own routes before its children's) into absolute
// registrations and discards it; registration order, and therefore which
// duplicate wins the conflict error, is reproducible.
//
// Example:
//
//	api := arbor.NewGroup("/api", arbor.Meta("tier", "public"))
//	v1 := api.Group("/v1")
//	v1.GET("/users", listUsers)
//	v1.GET("/users/{id}", getUser)
//
//	if err := r.RegisterGroup(api); err != nil {
//	    log.Fatal(err) // nothing was registered
//	}
type Group struct {
	prefix   string
	metadata map[string]any
	routes   []groupRoute
	children []*Group
}

// groupRoute is one (method, sub-pattern, handler) entry owned by a group
// until flattening consumes it.
type groupRoute struct {
	method  string
	pattern string
	handler Handler
}

// flatEntry is one fully-qualified registration produced by flattening.
type flatEntry struct {
	method   string
	pattern  string
	handler  Handler
	metadata map[string]any
}

// GroupOption configures a group at construction.
type GroupOption func(*Group)

// Meta attaches a metadata key to the group. Metadata is opaque to the
// router; it is merged down the group tree and returned from Match
// unchanged.
func Meta(key string, value any) GroupOption {
	return func(g *Group) {
		if g.metadata == nil {
			g.metadata = make(map[string]any, 4)
		}
		g.metadata[key] = value
	}
}

// NewGroup creates a root group with the given prefix.
func NewGroup(prefix string, opts ...GroupOption) *Group {
	g := &Group{prefix: prefix}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Group creates a nested child group. The child's effective prefix is the
// parent's prefix joined with the given one, slash-normalized.
func (g *Group) Group(prefix string, opts ...GroupOption) *Group {
	child := NewGroup(prefix, opts...)
	g.children = append(g.children, child)
	return child
}

// Set attaches a metadata key to the group and returns the group for
// chaining.
func (g *Group) Set(key string, value any) *Group {
	Meta(key, value)(g)
	return g
}

// Handle adds a route to the group. The pattern is relative to the group's
// effective prefix.
func (g *Group) Handle(method, pattern string, handler Handler) *Group {
	g.routes = append(g.routes, groupRoute{method: method, pattern: pattern, handler: handler})
	return g
}

// GET adds a GET route to the group.
func (g *Group) GET(pattern string, handler Handler) *Group {
	return g.Handle(http.MethodGet, pattern, handler)
}

// POST adds a POST route to the group.
func (g *Group) POST(pattern string, handler Handler) *Group {
	return g.Handle(http.MethodPost, pattern, handler)
}

// PUT adds a PUT route to the group.
func (g *Group) PUT(pattern string, handler Handler) *Group {
	return g.Handle(http.MethodPut, pattern, handler)
}

// PATCH adds a PATCH route to the group.
func (g *Group) PATCH(pattern string, handler Handler) *Group {
	return g.Handle(http.MethodPatch, pattern, handler)
}

// DELETE adds a DELETE route to the group.
func (g *Group) DELETE(pattern string, handler Handler) *Group {
	return g.Handle(http.MethodDelete, pattern, handler)
}

// HEAD adds a HEAD route to the group.
func (g *Group) HEAD(pattern string, handler Handler) *Group {
	return g.Handle(http.MethodHead, pattern, handler)
}

// OPTIONS adds an OPTIONS route to the group.
func (g *Group) OPTIONS(pattern string, handler Handler) *Group {
	return g.Handle(http.MethodOptions, pattern, handler)
}

// Any adds a route dispatched for every method without a more specific
// registration at the same path.
func (g *Group) Any(pattern string, handler Handler) *Group {
	return g.Handle(MethodAny, pattern, handler)
}

// flatten expands the group tree into a linear, stable-order stream of
// absolute registrations: pre-order traversal, a group's own routes first.
func (g *Group) flatten() []flatEntry {
	var out []flatEntry
	g.flattenInto("", nil, &out)
	return out
}

func (g *Group) flattenInto(parentPrefix string, parentMeta map[string]any, out *[]flatEntry) {
	prefix := joinPaths(parentPrefix, g.prefix)
	meta := mergeMetadata(parentMeta, g.metadata)

	for _, rt := range g.routes {
		*out = append(*out, flatEntry{
			method:   rt.method,
			pattern:  joinPaths(prefix, rt.pattern),
			handler:  rt.handler,
			metadata: meta,
		})
	}
	for _, child := range g.children {
		child.flattenInto(prefix, meta, out)
	}
}

// joinPaths concatenates two path fragments with exactly one separating
// slash, preserving a leading slash on the result.
func joinPaths(a, b string) string {
	a = strings.TrimSuffix(a, "/")
	if b == "" {
		return a
	}
	if !strings.HasPrefix(b, "/") {
		b = "/" + b
	}
	return a + b
}

// mergeMetadata layers child metadata over ancestor metadata. Child values
// override same-key ancestor values. Returns nil when both are empty so
// routes without metadata carry none.
func mergeMetadata(parent, child map[string]any) map[string]any {
	if len(parent) == 0 && len(child) == 0 {
		return nil
	}
	merged := make(map[string]any, len(parent)+len(child))
	maps.Copy(merged, parent)
	maps.Copy(merged, child)
	return merged
}
