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

// maxStackParams is the number of parameter bindings stored in the
// fixed-size arrays before spilling to the overflow slice. Routes with more
// than eight parameters are rare enough that the spill path is not worth
// optimizing.
const maxStackParams = 8

// Params holds the parameter bindings extracted during a single match.
//
// Values are substrings of the matched path, so no copies are made during
// extraction. The storage is scoped to one match: a Params value must not be
// shared across concurrent requests.
//
// The first eight bindings live in fixed arrays to keep the common case
// allocation-free; additional bindings spill into a slice.
type Params struct {
	keys     [maxStackParams]string
	values   [maxStackParams]string
	count    int
	overflow []paramBinding
}

type paramBinding struct {
	key   string
	value string
}

// Get returns the value bound to name and whether it was bound.
// Lookup is a linear scan; parameter counts are small by construction.
func (p *Params) Get(name string) (string, bool) {
	for i := 0; i < p.count && i < maxStackParams; i++ {
		if p.keys[i] == name {
			return p.values[i], true
		}
	}
	for _, b := range p.overflow {
		if b.key == name {
			return b.value, true
		}
	}
	return "", false
}

// Value returns the value bound to name, or "" if name is unbound.
func (p *Params) Value(name string) string {
	v, _ := p.Get(name)
	return v
}

// Len returns the number of bound parameters.
func (p *Params) Len() int { return p.count + len(p.overflow) }

// Map returns the bindings as a freshly allocated map. Intended for
// diagnostics and tests, not for the hot path.
func (p *Params) Map() map[string]string {
	if p.Len() == 0 {
		return nil
	}
	m := make(map[string]string, p.Len())
	for i := 0; i < p.count && i < maxStackParams; i++ {
		m[p.keys[i]] = p.values[i]
	}
	for _, b := range p.overflow {
		m[b.key] = b.value
	}
	return m
}

// append adds a binding. Used only by the matcher during descent.
func (p *Params) append(key, value string) {
	if p.count < maxStackParams {
		p.keys[p.count] = key
		p.values[p.count] = value
		p.count++
		return
	}
	p.overflow = append(p.overflow, paramBinding{key: key, value: value})
}

// mark returns a restore point for rewind. The matcher takes a mark before
// descending into a branch and rewinds to it when the branch fails, so
// bindings from an abandoned branch never leak into a sibling attempt.
func (p *Params) mark() int { return p.count + len(p.overflow) }

// rewind truncates the bindings back to a previous mark.
func (p *Params) rewind(mark int) {
	if mark >= maxStackParams {
		p.overflow = p.overflow[:mark-maxStackParams]
		return
	}
	p.count = mark
	p.overflow = p.overflow[:0]
}

// reset clears all bindings for reuse.
func (p *Params) reset() {
	p.count = 0
	p.overflow = p.overflow[:0]
}
