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

package binning

// Contig is the minimal view of a query contig a binning rule needs.
type Contig struct {
	Label   string
	Comment string
	Length  int
}

// Rule decides which bin a contig belongs to, or rejects it.
type Rule interface {
	Decide(c Contig) (binID string, ok bool)
}

// MappingBinRule looks a contig's label up in a fixed table, gated by
// minimum length and minimum (parsed) coverage.
type MappingBinRule struct {
	Labels      map[string]string
	MinLength   int
	MinCoverage float64
}

// NewMappingBinRule returns a MappingBinRule with spec.md §4.7's
// defaults (length>=400, coverage>=4.0).
func NewMappingBinRule(labels map[string]string) *MappingBinRule {
	return &MappingBinRule{Labels: labels, MinLength: 400, MinCoverage: 4.0}
}

// Decide implements Rule.
func (r *MappingBinRule) Decide(c Contig) (string, bool) {
	if c.Length < r.MinLength {
		return "", false
	}
	if ComputeCoverage(c.Label, c.Comment) < r.MinCoverage {
		return "", false
	}
	binID, ok := r.Labels[c.Label]
	if !ok {
		return "", false
	}
	return binID, true
}

// MaxHammerBinningRule picks the argmax bin from a per-bin hammer-hit
// score map, requiring the winning margin to be at least MinDiff
// (spec.md §4.7/§8 S4).
type MaxHammerBinningRule struct {
	MinDiff int
}

// DecideFromScores returns the top bin iff top-second >= MinDiff. When
// only one bin was hit, second is treated as 0.
func (r *MaxHammerBinningRule) DecideFromScores(scores map[string]int) (string, bool) {
	var topBin string
	top, second := -1, -1
	for bin, count := range scores {
		switch {
		case count > top:
			second = top
			topBin, top = bin, count
		case count > second:
			second = count
		}
	}
	if topBin == "" {
		return "", false
	}
	if second < 0 {
		second = 0
	}
	if top-second < r.MinDiff {
		return "", false
	}
	return topBin, true
}

// BatchTally is the multi-contig companion to DecideFromScores: once a
// batch of contigs each has a winning bin (or "" for rejected), this
// folds their membership into per-bin occupancy counts across up to 8
// fixed bin slots using TallyByteBins instead of incrementing a map
// entry per contig. AVX2Available is consulted to pick the packing
// chunk size; there is no assembly fast path in this tree, so both
// branches end up calling the same portable tally.
func (r *MaxHammerBinningRule) BatchTally(bins [8]string, winners []string) [8]int32 {
	chunk := 4096
	if AVX2Available {
		chunk = 8192
	}

	var total [8]int32
	buf := make([]byte, 0, chunk)
	flush := func() {
		if len(buf) == 0 {
			return
		}
		var counts [8]int32
		TallyByteBins(&counts, buf)
		for i := range total {
			total[i] += counts[i]
		}
		buf = buf[:0]
	}

	for _, winner := range winners {
		var b byte
		for j, bin := range bins {
			if bin != "" && winner == bin {
				b |= 1 << uint(7-j)
			}
		}
		buf = append(buf, b)
		if len(buf) == chunk {
			flush()
		}
	}
	flush()
	return total
}
