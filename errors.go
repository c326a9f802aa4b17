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
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPattern indicates a malformed route pattern: an empty or
	// illegal parameter name, or a wildcard segment that is not the final
	// segment of the pattern.
	ErrInvalidPattern = errors.New("invalid route pattern")

	// ErrDuplicateRoute indicates that an identical method and pattern
	// combination has already been registered.
	ErrDuplicateRoute = errors.New("duplicate route")

	// ErrParamNameConflict indicates that two routes declare different
	// parameter names at the same trie position (e.g. /users/{id} and
	// /users/{name}). The first registration keeps its name; the second
	// is rejected rather than silently renamed.
	ErrParamNameConflict = errors.New("parameter name conflict")

	// ErrRouterFrozen indicates that route registration was attempted after
	// Freeze. The router rejects post-freeze mutation; build a new router
	// and publish it via Live for hot reload.
	ErrRouterFrozen = errors.New("router is frozen")

	// ErrRouterNotFrozen indicates that an operation requiring a frozen
	// router (such as publishing it through Live) was attempted during the
	// build phase.
	ErrRouterNotFrozen = errors.New("router not frozen yet")

	// ErrNotFound indicates that no registered route matches the request
	// path. This is an expected outcome, not a fault: callers map it to an
	// HTTP 404.
	ErrNotFound = errors.New("no matching route")

	// ErrMethodNotAllowed indicates that the request path matches a route
	// but the method has no handler there. Callers map it to an HTTP 405.
	// Match returns it wrapped in a MethodNotAllowedError carrying the
	// allowed method set.
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// ConflictError describes a registration that was rejected during conflict
// detection. It wraps one of the sentinel registration errors
// (ErrInvalidPattern, ErrDuplicateRoute, ErrParamNameConflict) so callers can
// branch with errors.Is while still seeing the offending pattern.
type ConflictError struct {
	Method   string // HTTP method of the rejected registration
	Pattern  string // Pattern of the rejected registration
	Existing string // Conflicting pattern or parameter name already in the trie
	Err      error  // Underlying sentinel error
}

func (e *ConflictError) Error() string {
	if e.Existing != "" {
		return fmt.Sprintf("%s %s: %v (conflicts with %q)", e.Method, e.Pattern, e.Err, e.Existing)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.Pattern, e.Err)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// MethodNotAllowedError reports the methods that are registered for a path
// when the requested method is not. Allowed is sorted and contains exactly
// the methods with handlers at the matched node.
type MethodNotAllowedError struct {
	Allowed []string
}

func (e *MethodNotAllowedError) Error() string {
	return "method not allowed (allowed: " + strings.Join(e.Allowed, ", ") + ")"
}

// Is reports a match against the ErrMethodNotAllowed sentinel so callers can
// use errors.Is without caring about the allowed set.
func (e *MethodNotAllowedError) Is(target error) bool { return target == ErrMethodNotAllowed }
