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

import "slices"

// RouteInfo describes one registration for introspection: route listings,
// startup logging, documentation generation. Handlers are deliberately not
// exposed here; they remain opaque to everything but Match.
type RouteInfo struct {
	Method   string
	Pattern  string
	Metadata map[string]any
}

// Routes returns a copy of the registration list in registration order.
// On a frozen router the list is stable; during the build phase it reflects
// the registrations applied so far.
func (r *Router) Routes() []RouteInfo {
	t, release := r.activeTrie()
	if release != nil {
		defer release()
	}
	return slices.Clone(t.routes)
}

// AllowedMethods returns the sorted set of methods registered for a path, or
// nil if no route matches it. A path served by an any-method registration
// reports the full standard method set.
func (r *Router) AllowedMethods(path string) []string {
	t, release := r.activeTrie()
	if release != nil {
		defer release()
	}

	var ps Params
	start := 0
	if len(path) > 0 && path[0] == '/' {
		start = 1
	}
	terminal := t.root.match(path, start, &ps)
	if terminal == nil {
		return nil
	}
	return terminal.allowedMethods()
}
