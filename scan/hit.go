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

// Package scan implements the dual-strand k-mer scanning engine: it
// walks query sequences (forward and reverse-complemented) against a
// hammer map and dispatches hits to either a positional Hit collector
// or a per-genome score aggregator.
package scan

import (
	"sort"

	"github.com/twotwotwo/sorts"
)

// Strand marks which strand a Hit was found on.
type Strand byte

const (
	Forward Strand = '+'
	Reverse Strand = '-'
)

// Hit is one positional hammer match within a query contig.
type Hit struct {
	Contig      string
	Left, Right int // 1-based; Left>Right signals the minus strand
	Strand      Strand
	FeatureID   string
	RoleID      string
	Strength    float64
	Hammer      string
}

// less orders hits by (Contig, Left, Right, FeatureID) ascending.
func less(a, b Hit) bool {
	if a.Contig != b.Contig {
		return a.Contig < b.Contig
	}
	if a.Left != b.Left {
		return a.Left < b.Left
	}
	if a.Right != b.Right {
		return a.Right < b.Right
	}
	return a.FeatureID < b.FeatureID
}

// HitList is a sortable, deduplicable slice of Hit, ordered per spec.md
// §4.5 step 6 "merged across strands; duplicates ... deduplicated by the
// sorted set ordering".
type HitList []Hit

func (h HitList) Len() int           { return len(h) }
func (h HitList) Less(i, j int) bool { return less(h[i], h[j]) }
func (h HitList) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

// sortThreshold gates the dual sort-library dispatch the same way
// scoremap.sortedCountsThreshold does (teacher idiom, unikmer/cmd/common.go).
const sortThreshold = 4096

// SortAndDedup sorts hits in place and removes exact duplicates (same
// location and feature), matching spec.md §4.5 step 6.
func SortAndDedup(hits HitList) HitList {
	if len(hits) > sortThreshold {
		sorts.Quicksort(hits)
	} else {
		sort.Sort(hits)
	}
	if len(hits) == 0 {
		return hits
	}
	out := hits[:1]
	for _, h := range hits[1:] {
		last := out[len(out)-1]
		if h == last {
			continue
		}
		out = append(out, h)
	}
	return out
}
