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
	"slices"
	"sort"
)

// edge is a per-segment literal child. Children are kept in a slice and
// found by linear scan: segment counts per node are small, and the scan
// avoids map hashing in the hot path.
type edge struct {
	label string
	node  *node
}

// paramEdge is the single parameter child a node may carry. The name is
// fixed by the first registration; divergent names at the same position are
// rejected at registration time.
type paramEdge struct {
	name string
	node *node
}

// wildcardEdge is the single catch-all child a node may carry. Its node is
// always terminal: a wildcard consumes the entire path remainder.
type wildcardEdge struct {
	name string
	node *node
}

// node is one trie level keyed by path segments.
//
// Invariants:
//   - literal children are keyed by their full exact segment text
//   - at most one parameter child and at most one wildcard child per node
//   - entries is the per-method dispatch table; a node with a non-empty
//     table is a terminal
//
// Thread safety: nodes are mutated only during the build phase, behind the
// router's write lock. After Freeze the tree is immutable and safe for
// concurrent lock-free reads.
type node struct {
	edges    []edge
	param    *paramEdge
	wildcard *wildcardEdge
	entries  map[string]*routeEntry
}

// routeEntry is the immutable registration record attached to a terminal
// node's dispatch table. The handler and metadata are opaque: the router
// stores and returns them unchanged.
type routeEntry struct {
	handler    Handler
	pattern    string
	paramNames []string
	metadata   map[string]any
}

// findChild returns the literal child with the given label, or nil.
func (n *node) findChild(label string) *node {
	for i := range n.edges {
		if n.edges[i].label == label {
			return n.edges[i].node
		}
	}
	return nil
}

// findOrCreateChild returns the literal child with the given label, creating
// it if needed. Build phase only.
func (n *node) findOrCreateChild(label string) *node {
	if child := n.findChild(label); child != nil {
		return child
	}
	child := &node{}
	n.edges = append(n.edges, edge{label: label, node: child})
	return child
}

// checkInsert walks the existing trie along segments and reports the conflict
// the insertion would hit, without modifying anything. Running the check
// before insert gives registration all-or-nothing semantics: a rejected
// pattern leaves the trie byte-for-byte as it was.
func (n *node) checkInsert(method, pattern string, segments []Segment) error {
	current := n
	for _, seg := range segments {
		switch seg.Kind {
		case SegmentLiteral:
			if current = current.findChild(seg.Text); current == nil {
				return nil // Fresh subtree from here on; nothing to conflict with
			}
		case SegmentParam:
			if current.param == nil {
				return nil
			}
			if current.param.name != seg.Text {
				return &ConflictError{Method: method, Pattern: pattern, Existing: current.param.name, Err: ErrParamNameConflict}
			}
			current = current.param.node
		case SegmentWildcard:
			if current.wildcard == nil {
				return nil
			}
			if current.wildcard.name != seg.Text {
				return &ConflictError{Method: method, Pattern: pattern, Existing: current.wildcard.name, Err: ErrParamNameConflict}
			}
			current = current.wildcard.node
		}
	}

	if existing := current.entryFor(method); existing != nil {
		return &ConflictError{Method: method, Pattern: pattern, Existing: existing.pattern, Err: ErrDuplicateRoute}
	}
	return nil
}

// entryFor returns the dispatch entry that would collide with a registration
// for method: an exact entry, or cross-collisions with the any-method
// sentinel in either direction.
func (n *node) entryFor(method string) *routeEntry {
	if n.entries == nil {
		return nil
	}
	if e, ok := n.entries[method]; ok {
		return e
	}
	if method == MethodAny {
		for _, e := range n.entries {
			return e
		}
	} else if e, ok := n.entries[MethodAny]; ok {
		return e
	}
	return nil
}

// insert attaches entry at the terminal node addressed by segments, creating
// intermediate nodes as needed. Conflicts must have been ruled out by
// checkInsert; insert itself never fails.
func (n *node) insert(method string, segments []Segment, entry *routeEntry) {
	current := n
	for _, seg := range segments {
		switch seg.Kind {
		case SegmentLiteral:
			current = current.findOrCreateChild(seg.Text)
		case SegmentParam:
			if current.param == nil {
				current.param = &paramEdge{name: seg.Text, node: &node{}}
			}
			current = current.param.node
		case SegmentWildcard:
			if current.wildcard == nil {
				current.wildcard = &wildcardEdge{name: seg.Text, node: &node{}}
			}
			current = current.wildcard.node
		}
	}
	if current.entries == nil {
		current.entries = make(map[string]*routeEntry, 2)
	}
	current.entries[method] = entry
}

// match walks the trie from n and returns the terminal node matching path,
// binding parameters into ps along the way. Descent order at every level is
// literal, then parameter, then wildcard; a failed branch rewinds ps to its
// entry mark before the next sibling is tried, so bindings never leak out of
// abandoned branches.
//
// The path is parsed in place with index arithmetic; parameter values are
// substrings of path. start must point one past the leading slash.
//
// Thread safety: safe for concurrent use on a frozen tree.
func (n *node) match(path string, start int, ps *Params) *node {
	if start >= len(path) {
		if len(n.entries) > 0 {
			return n
		}
		// A trailing wildcard matches the empty remainder too
		// (e.g. /files/*rest matched against /files/).
		if n.wildcard != nil && len(n.wildcard.node.entries) > 0 {
			ps.append(n.wildcard.name, "")
			return n.wildcard.node
		}
		return nil
	}

	end := start
	for end < len(path) && path[end] != '/' {
		end++
	}
	segment := path[start:end]

	// Doubled slashes produce empty segments; skip them without consuming
	// a trie level, mirroring the tokenizer.
	if segment == "" {
		return n.match(path, end+1, ps)
	}

	if child := n.findChild(segment); child != nil {
		if terminal := child.match(path, end+1, ps); terminal != nil {
			return terminal
		}
	}

	if n.param != nil {
		mark := ps.mark()
		ps.append(n.param.name, segment)
		if terminal := n.param.node.match(path, end+1, ps); terminal != nil {
			return terminal
		}
		ps.rewind(mark)
	}

	if n.wildcard != nil && len(n.wildcard.node.entries) > 0 {
		ps.append(n.wildcard.name, path[start:])
		return n.wildcard.node
	}

	return nil
}

// allowedMethods returns the sorted set of methods registered at n. The
// any-method sentinel expands to the full standard set, since every verb
// dispatches there.
func (n *node) allowedMethods() []string {
	if len(n.entries) == 0 {
		return nil
	}
	if _, ok := n.entries[MethodAny]; ok {
		return slices.Clone(standardMethods)
	}
	methods := make([]string, 0, len(n.entries))
	for m := range n.entries {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}

// clone deep-copies the node structure. Route entries are immutable and
// shared between the original and the copy. Used by RegisterGroup to stage
// an all-or-nothing batch off to the side.
func (n *node) clone() *node {
	c := &node{}
	if len(n.edges) > 0 {
		c.edges = make([]edge, len(n.edges))
		for i := range n.edges {
			c.edges[i] = edge{label: n.edges[i].label, node: n.edges[i].node.clone()}
		}
	}
	if n.param != nil {
		c.param = &paramEdge{name: n.param.name, node: n.param.node.clone()}
	}
	if n.wildcard != nil {
		c.wildcard = &wildcardEdge{name: n.wildcard.name, node: n.wildcard.node.clone()}
	}
	if n.entries != nil {
		c.entries = make(map[string]*routeEntry, len(n.entries))
		for m, e := range n.entries {
			c.entries[m] = e
		}
	}
	return c
}
