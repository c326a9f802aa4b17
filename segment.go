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
	"strings"
)

// SegmentKind classifies one path segment of a route pattern.
// The matcher's descent logic is an exhaustive switch over these three kinds.
type SegmentKind uint8

const (
	// SegmentLiteral is an exact-text path component (e.g. "users").
	SegmentLiteral SegmentKind = iota

	// SegmentParam is a named dynamic component written as {name}. It binds
	// the matched segment text to the parameter name.
	SegmentParam

	// SegmentWildcard is a final catch-all component written as *name. It
	// binds the entire remainder of the path, slashes included.
	SegmentWildcard
)

// defaultWildcardParam is the parameter name used when a wildcard segment is
// written as a bare "*".
const defaultWildcardParam = "filepath"

// Segment is one classified unit of a route pattern. For SegmentLiteral, Text
// is the exact segment text. For SegmentParam and SegmentWildcard, Text is the
// parameter name. Segments are immutable once produced.
type Segment struct {
	Kind SegmentKind
	Text string
}

// tokenizePattern splits a route pattern on "/" and classifies each segment.
// Leading and trailing slashes are ignored; an empty pattern (or "/") yields
// zero segments and addresses the trie root.
//
// Grammar:
//   - literal segments are arbitrary non-"/" text without "{", "}" or "*"
//   - parameter segments are {identifier}
//   - a wildcard segment is "*" or "*identifier" and must be the final segment
//
// All violations return an error wrapping ErrInvalidPattern. Request paths
// are never tokenized with this function; the matcher treats every incoming
// segment as a literal.
func tokenizePattern(pattern string) ([]Segment, error) {
	trimmed := strings.Trim(pattern, "/")
	if trimmed == "" {
		return nil, nil
	}

	parts := strings.Split(trimmed, "/")
	segments := make([]Segment, 0, len(parts))

	for i, part := range parts {
		switch {
		case part == "":
			// Collapse doubled slashes rather than rejecting them. The
			// matcher skips empty request segments the same way.
			continue

		case strings.HasPrefix(part, "*"):
			if i != len(parts)-1 {
				return nil, fmt.Errorf("%w: wildcard %q must be the final segment of %q", ErrInvalidPattern, part, pattern)
			}
			name := part[1:]
			if name == "" {
				name = defaultWildcardParam
			} else if !isIdentifier(name) {
				return nil, fmt.Errorf("%w: illegal wildcard name %q in %q", ErrInvalidPattern, name, pattern)
			}
			segments = append(segments, Segment{Kind: SegmentWildcard, Text: name})

		case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
			name := part[1 : len(part)-1]
			if !isIdentifier(name) {
				return nil, fmt.Errorf("%w: illegal parameter name %q in %q", ErrInvalidPattern, name, pattern)
			}
			segments = append(segments, Segment{Kind: SegmentParam, Text: name})

		case strings.ContainsAny(part, "{}*"):
			return nil, fmt.Errorf("%w: malformed segment %q in %q", ErrInvalidPattern, part, pattern)

		default:
			segments = append(segments, Segment{Kind: SegmentLiteral, Text: part})
		}
	}

	return segments, nil
}

// isIdentifier reports whether s is a bare identifier: a letter or underscore
// followed by letters, digits, or underscores.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
