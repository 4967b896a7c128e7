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

// Package qualgate implements the quality gate described in spec.md
// §4.8: drop hits whose underlying read quality makes the hammer window
// unlikely to be correctly called.
package qualgate

import (
	"math"

	"github.com/shenwei356/hammerdb/scan"
)

// Phred converts a single Phred+33 ASCII quality byte into the
// probability that the base was called correctly.
func Phred(qualByte byte) float64 {
	q := float64(qualByte) - 33
	if q < 0 {
		q = 0
	}
	return 1 - math.Pow(10, -q/10)
}

// WindowProbability is the product of per-base correctness probability
// across q, i.e. the probability every base in the window was called
// correctly.
func WindowProbability(q []byte) float64 {
	p := 1.0
	for _, b := range q {
		p *= Phred(b)
	}
	return p
}

// Filter drops hits whose hammer window's quality probability falls
// below minQ. quality maps contig id to its Phred+33 quality string; a
// missing entry is a programming error (spec.md §4.8 "Failure
// behavior") -- the hit is dropped and counted, never panicked on.
func Filter(hits scan.HitList, quality map[string][]byte, minQ float64) (kept scan.HitList, dropped int) {
	kept = make(scan.HitList, 0, len(hits))
	for _, h := range hits {
		q, ok := quality[h.Contig]
		if !ok {
			dropped++
			continue
		}

		left, right := h.Left, h.Right
		if left > right {
			left, right = right, left
		}
		// left/right are 1-based inclusive; translate to a 0-based
		// slice range into the forward-strand quality string.
		start := left - 1
		end := right
		if start < 0 || end > len(q) || start >= end {
			dropped++
			continue
		}

		p := WindowProbability(q[start:end])
		if p < minQ {
			dropped++
			continue
		}
		kept = append(kept, h)
	}
	return kept, dropped
}
