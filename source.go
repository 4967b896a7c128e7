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

package hammerdb

import (
	"strings"
	"sync/atomic"
)

// Source is the payload carried by every hammer: the feature it was
// mined from, the role that feature carries, and a confidence strength
// in [0,1]. Sources are immutable after load except for the bad flag,
// which Anchorize sets during construction-time pruning.
type Source struct {
	FeatureID string
	RoleID    string
	Strength  float64

	bad int32 // atomic; 0 = good, 1 = bad
}

// NewSource builds a Source from loaded fields.
func NewSource(featureID, roleID string, strength float64) *Source {
	return &Source{FeatureID: featureID, RoleID: roleID, Strength: strength}
}

// GenomeID extracts the genome id from a feature id of the form
// "fig|<genome_id>.peg.<n>"; see GenomeIDFromFeature for the fallbacks
// applied to feature ids of other shapes.
func (s *Source) GenomeID() string {
	return GenomeIDFromFeature(s.FeatureID)
}

// GenomeIDFromFeature extracts "<genome_id>" out of "fig|<genome_id>.peg.<n>".
// Anything up to the first "|" is always dropped. Without ".peg.", the
// last two dot-separated segments are dropped; an id with fewer than two
// dots after the "|" is returned as it is.
func GenomeIDFromFeature(featureID string) string {
	fid := featureID
	if i := strings.Index(fid, "|"); i >= 0 {
		fid = fid[i+1:]
	}
	if i := strings.Index(fid, ".peg."); i >= 0 {
		return fid[:i]
	}
	// Fall back to stripping the last dot-segment, in case the feature
	// uses a different region type (rna, pseudo, ...).
	if i := strings.LastIndex(fid, "."); i >= 0 {
		if j := strings.LastIndex(fid[:i], "."); j >= 0 {
			return fid[:j]
		}
	}
	return fid
}

// MarkBad flags s as pruned (e.g. by Anchorize). Safe for concurrent use.
func (s *Source) MarkBad() {
	atomic.StoreInt32(&s.bad, 1)
}

// IsBad reports whether s has been flagged bad. Safe for concurrent use.
func (s *Source) IsBad() bool {
	return atomic.LoadInt32(&s.bad) != 0
}
