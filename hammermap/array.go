// Copyright © 2018-2020 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package hammermap

import "github.com/shenwei356/hammerdb"

const (
	arrayInitCap  = 1000
	arrayGrowStep = 500
)

// Array is a dense, append-only list of packed k-mer codes belonging to
// one source genome (spec.md §3 "Per-genome hammer index"). It grows in
// fixed steps rather than doubling, since per-genome counts are known to
// be modest relative to the whole dictionary.
type Array struct {
	k     int
	codes []hammerdb.Code
}

// NewArray returns an Array for k-mers of length k with the default
// initial capacity.
func NewArray(k int) *Array {
	return &Array{k: k, codes: make([]hammerdb.Code, 0, arrayInitCap)}
}

// Append adds code to the array, growing by arrayGrowStep when full.
func (a *Array) Append(code hammerdb.Code) {
	if len(a.codes) == cap(a.codes) {
		grown := make([]hammerdb.Code, len(a.codes), cap(a.codes)+arrayGrowStep)
		copy(grown, a.codes)
		a.codes = grown
	}
	a.codes = append(a.codes, code)
}

// Len returns the number of codes stored.
func (a *Array) Len() int { return len(a.codes) }

// At returns the code at index i.
func (a *Array) At(i int) hammerdb.Code { return a.codes[i] }

// Codes returns the underlying slice of codes (read-only by convention).
func (a *Array) Codes() []hammerdb.Code { return a.codes }

// Strings decodes every code into its k-mer string, in insertion order.
func (a *Array) Strings() []string {
	out := make([]string, len(a.codes))
	for i, c := range a.codes {
		out[i] = string(hammerdb.Decode(c, a.k))
	}
	return out
}
