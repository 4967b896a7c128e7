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

// present is the singleton payload stored for every member of a Set.
var present = &hammerdb.Source{}

// Set is a Map specialized to membership-only queries: same two-level
// bucket/sub-hash structure, but Add/Contains never look at a payload.
type Set struct {
	m *Map
}

// NewSet allocates a Set for k-mers of length k.
func NewSet(k int) (*Set, error) {
	m, err := New(k)
	if err != nil {
		return nil, err
	}
	return &Set{m: m}, nil
}

// Add inserts code into the set.
func (s *Set) Add(code hammerdb.Code) error {
	_, err := s.m.Insert(code, present)
	return err
}

// Contains reports whether code is a member.
func (s *Set) Contains(code hammerdb.Code) bool {
	_, ok := s.m.Get(code)
	return ok
}

// Size returns the number of members.
func (s *Set) Size() int64 { return s.m.Size() }

// Strings decodes every member into its k-mer string.
func (s *Set) Strings() []string {
	out := make([]string, 0, s.m.Size())
	s.m.Iterate(func(kmer string, _ *hammerdb.Source) bool {
		out = append(out, kmer)
		return true
	})
	return out
}
