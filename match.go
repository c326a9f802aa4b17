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

// MatchResult is the outcome of a successful match. It is constructed per
// request and owned by the caller; parameter values are substrings of the
// matched path.
type MatchResult struct {
	// Handler is the opaque reference stored at registration, returned
	// unchanged. The router never inspects or invokes it.
	Handler Handler

	// Params holds the parameter bindings extracted during descent.
	Params Params

	// Pattern is the original registered pattern the path matched
	// (e.g. "/users/{id}"). Use it, never the raw path, as a metrics or
	// tracing attribute to keep cardinality bounded.
	Pattern string

	// Metadata is the merged group metadata attached at registration,
	// returned unchanged. Nil when none was attached.
	Metadata map[string]any
}

// matchPath runs the trie descent for path against the given tree root and
// resolves the method against the terminal dispatch table.
func matchPath(root *node, method, path string, ps *Params) (*routeEntry, *node, error) {
	start := 0
	if len(path) > 0 && path[0] == '/' {
		start = 1
	}
	terminal := root.match(path, start, ps)
	if terminal == nil {
		return nil, nil, ErrNotFound
	}

	if e, ok := terminal.entries[method]; ok {
		return e, terminal, nil
	}
	if e, ok := terminal.entries[MethodAny]; ok {
		return e, terminal, nil
	}
	return nil, terminal, &MethodNotAllowedError{Allowed: terminal.allowedMethods()}
}
