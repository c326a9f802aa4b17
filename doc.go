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

// Package arbor is a trie-based HTTP request router.
//
// Given an incoming method and path, arbor determines in time proportional
// to path depth which registered handler should run and extracts dynamic
// path segments as named parameters. Ambiguous route sets fail fast at
// registration instead of misrouting at runtime.
//
// # Pattern grammar
//
// Patterns are segments separated by "/". A segment is one of:
//
//   - a literal: exact, case-sensitive text ("/users/me")
//   - a parameter: {name}, binding the matched segment ("/users/{id}")
//   - a wildcard: *name as the final segment, binding the entire path
//     remainder ("/files/*rest")
//
// No regex, no optional segments, no per-segment constraints.
//
// # Precedence
//
// At every trie level, literal children win over the parameter child, which
// wins over the wildcard child. Given /users/me and /users/{id}, a request
// for /users/me takes the literal route and /users/42 takes the
// parameterized one. Precedence is fixed and not configurable per route.
//
// # Lifecycle
//
// A router is built single-threaded (or behind external serialization),
// then frozen for serving:
//
//	r := arbor.MustNew()
//	r.Register(http.MethodGet, "/users/{id}", http.HandlerFunc(getUser), nil)
//	r.Freeze()
//	http.ListenAndServe(":8080", r)
//
// After Freeze, matching is lock-free and safe for any number of concurrent
// readers; registration returns ErrRouterFrozen. For hot route reload, build
// and freeze a replacement router off to the side and publish it through
// Live.
//
// # Conflict detection
//
// Registration rejects ambiguity synchronously: duplicate method+pattern
// pairs (ErrDuplicateRoute), divergent parameter names at one trie position
// (ErrParamNameConflict), and malformed patterns (ErrInvalidPattern). A
// rejected registration leaves the trie untouched, and a rejected group
// registration retains none of the group's entries.
//
// # Groups
//
// Nested groups compose prefixes and metadata at registration time:
//
//	api := arbor.NewGroup("/api", arbor.Meta("audience", "public"))
//	v1 := api.Group("/v1")
//	v1.GET("/users", http.HandlerFunc(listUsers))
//	r.RegisterGroup(api) // effective route: GET /api/v1/users
//
// Groups are purely a registration-time transform; they play no role in
// matching.
//
// # Handlers are opaque
//
// The router core stores and returns handler references unchanged and never
// invokes them. Match returns the handler, bound parameters, and the matched
// pattern; the invocation layer decides what a handler is. The ServeHTTP
// adapter is one such layer, for handlers implementing http.Handler.
package arbor
