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
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsGetAndValue(t *testing.T) {
	t.Parallel()

	var ps Params
	ps.append("id", "42")
	ps.append("name", "ada")

	v, ok := ps.Get("id")
	assert.True(t, ok)
	assert.Equal(t, "42", v)

	assert.Equal(t, "ada", ps.Value("name"))
	assert.Equal(t, "", ps.Value("missing"))

	_, ok = ps.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, 2, ps.Len())
}

func TestParamsOverflowBeyondStackSlots(t *testing.T) {
	t.Parallel()

	var ps Params
	for i := 0; i < maxStackParams+3; i++ {
		ps.append(fmt.Sprintf("p%d", i), fmt.Sprintf("v%d", i))
	}

	assert.Equal(t, maxStackParams+3, ps.Len())
	for i := 0; i < maxStackParams+3; i++ {
		assert.Equal(t, fmt.Sprintf("v%d", i), ps.Value(fmt.Sprintf("p%d", i)))
	}
}

func TestParamsMarkRewind(t *testing.T) {
	t.Parallel()

	var ps Params
	ps.append("a", "1")
	mark := ps.mark()
	ps.append("b", "2")
	ps.append("c", "3")
	ps.rewind(mark)

	assert.Equal(t, 1, ps.Len())
	assert.Equal(t, "1", ps.Value("a"))
	assert.Equal(t, "", ps.Value("b"))
}

func TestParamsRewindAcrossOverflowBoundary(t *testing.T) {
	t.Parallel()

	var ps Params
	for i := 0; i < maxStackParams; i++ {
		ps.append(fmt.Sprintf("p%d", i), "v")
	}
	mark := ps.mark()
	ps.append("spill1", "v")
	ps.append("spill2", "v")
	ps.rewind(mark)

	assert.Equal(t, maxStackParams, ps.Len())
	assert.Equal(t, "", ps.Value("spill1"))

	ps.rewind(3)
	assert.Equal(t, 3, ps.Len())
}

func TestParamsMapIsACopy(t *testing.T) {
	t.Parallel()

	var ps Params
	ps.append("k", "v")

	m := ps.Map()
	m["k"] = "mutated"
	assert.Equal(t, "v", ps.Value("k"))

	var empty Params
	assert.Nil(t, empty.Map())
}

// TestManyParamsThroughRouter drives the overflow path end to end: a route
// with more parameters than the fixed arrays hold.
func TestManyParamsThroughRouter(t *testing.T) {
	t.Parallel()
	r := MustNew()

	var patternParts, pathParts []string
	for i := 0; i < maxStackParams+2; i++ {
		patternParts = append(patternParts, fmt.Sprintf("s%d/{p%d}", i, i))
		pathParts = append(pathParts, fmt.Sprintf("s%d/v%d", i, i))
	}
	pattern := "/" + strings.Join(patternParts, "/")
	path := "/" + strings.Join(pathParts, "/")

	require.NoError(t, r.Register(http.MethodGet, pattern, &handlerToken{}, nil))
	r.Freeze()

	res, err := r.Match(http.MethodGet, path)
	require.NoError(t, err)
	assert.Equal(t, maxStackParams+2, res.Params.Len())
	for i := 0; i < maxStackParams+2; i++ {
		assert.Equal(t, fmt.Sprintf("v%d", i), res.Params.Value(fmt.Sprintf("p%d", i)))
	}
}
