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

// Package binning implements the binning decision rules of spec.md §4.7:
// mapping a contig to a destination bin (or rejection) from either a
// label lookup table or a per-bin hammer-hit score map.
package binning

import (
	"regexp"
	"strconv"
)

// defaultCoverage is used when neither the label nor the comment
// matches a coverage pattern (spec.md §4.7/S5).
const defaultCoverage = 50.0

// coveragePatterns covers both "covg|coverage|cov|multi <num>" style
// free text and "coverage_<num>"/"covg_<num>" label suffixes (SPAdes
// contig naming convention), per spec.md §4.7.
var coveragePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:coverage|covg|cov|multi)[_=\s]+([0-9]+(?:\.[0-9]+)?)`),
}

// ComputeCoverage parses a coverage value out of label or comment,
// falling back to defaultCoverage when neither matches (spec.md §8 S5).
func ComputeCoverage(label, comment string) float64 {
	for _, re := range coveragePatterns {
		if m := re.FindStringSubmatch(label); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return v
			}
		}
		if m := re.FindStringSubmatch(comment); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return v
			}
		}
	}
	return defaultCoverage
}
