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

package scoremap

import "sort"

// SummaryEntry is the simplified per-key record: a maximum-roles counter
// plus per-role weights, without the full Entry.Weight bookkeeping.
type SummaryEntry struct {
	MaxRoleCount int
	Roles        map[string]float64
}

// SummaryMap is the reporting-oriented sibling of Map: it drops the
// running weighted total in favor of a simple "how many distinct roles
// have we seen for this key, at most" counter.
type SummaryMap struct {
	m map[string]*SummaryEntry
}

// NewSummary returns an empty SummaryMap.
func NewSummary() *SummaryMap {
	return &SummaryMap{m: make(map[string]*SummaryEntry)}
}

// Add records one weighted role observation for key.
func (m *SummaryMap) Add(key string, roleID string, weight float64) {
	e, ok := m.m[key]
	if !ok {
		e = &SummaryEntry{Roles: make(map[string]float64)}
		m.m[key] = e
	}
	e.Roles[roleID] += weight
	if len(e.Roles) > e.MaxRoleCount {
		e.MaxRoleCount = len(e.Roles)
	}
}

// Get returns the entry for key, if any.
func (m *SummaryMap) Get(key string) (*SummaryEntry, bool) {
	e, ok := m.m[key]
	return e, ok
}

// Size returns the number of distinct genome ids tracked.
func (m *SummaryMap) Size() int { return len(m.m) }

// SummaryCount is one row of the summary map's sort order.
type SummaryCount struct {
	Key          string
	MaxRoleCount int
}

// SortedCounts orders by MaxRoleCount descending, then key ascending.
func (m *SummaryMap) SortedCounts() []SummaryCount {
	counts := make([]SummaryCount, 0, len(m.m))
	for key, e := range m.m {
		counts = append(counts, SummaryCount{Key: key, MaxRoleCount: e.MaxRoleCount})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].MaxRoleCount != counts[j].MaxRoleCount {
			return counts[i].MaxRoleCount > counts[j].MaxRoleCount
		}
		return counts[i].Key < counts[j].Key
	})
	return counts
}
