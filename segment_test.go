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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizePattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pattern  string
		expected []Segment
	}{
		{"root", "/", nil},
		{"empty", "", nil},
		{"single literal", "/users", []Segment{{SegmentLiteral, "users"}}},
		{"trailing slash ignored", "/users/", []Segment{{SegmentLiteral, "users"}}},
		{"no leading slash", "users", []Segment{{SegmentLiteral, "users"}}},
		{"doubled slash collapsed", "/users//posts", []Segment{{SegmentLiteral, "users"}, {SegmentLiteral, "posts"}}},
		{
			"literal and param", "/users/{id}",
			[]Segment{{SegmentLiteral, "users"}, {SegmentParam, "id"}},
		},
		{
			"multiple params", "/users/{id}/posts/{post_id}",
			[]Segment{{SegmentLiteral, "users"}, {SegmentParam, "id"}, {SegmentLiteral, "posts"}, {SegmentParam, "post_id"}},
		},
		{
			"named wildcard", "/files/*rest",
			[]Segment{{SegmentLiteral, "files"}, {SegmentWildcard, "rest"}},
		},
		{
			"bare wildcard gets default name", "/static/*",
			[]Segment{{SegmentLiteral, "static"}, {SegmentWildcard, "filepath"}},
		},
		{"root wildcard", "/*", []Segment{{SegmentWildcard, "filepath"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			segments, err := tokenizePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, segments)
		})
	}
}

func TestTokenizePatternRejectsMalformed(t *testing.T) {
	t.Parallel()

	patterns := []string{
		"/files/*rest/more",  // wildcard not final
		"/*/users",           // root wildcard not final
		"/users/{}",          // empty parameter name
		"/users/{1id}",       // name starts with a digit
		"/users/{id",         // unterminated brace
		"/users/id}",         // stray closing brace
		"/users/a{b}c",       // brace inside literal
		"/files/*bad-name",   // illegal wildcard name
		"/users/{bad name}",  // space in name
		"/users/{a}{b}",      // two params in one segment
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			t.Parallel()
			_, err := tokenizePattern(pattern)
			require.ErrorIs(t, err, ErrInvalidPattern)
		})
	}
}

func TestIsIdentifier(t *testing.T) {
	t.Parallel()

	assert.True(t, isIdentifier("id"))
	assert.True(t, isIdentifier("post_id"))
	assert.True(t, isIdentifier("_private"))
	assert.True(t, isIdentifier("v2"))
	assert.False(t, isIdentifier(""))
	assert.False(t, isIdentifier("2v"))
	assert.False(t, isIdentifier("with-dash"))
	assert.False(t, isIdentifier("with space"))
}
