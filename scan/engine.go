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

package scan

import (
	"sync"

	"github.com/smallnest/ringbuffer"

	"github.com/shenwei356/hammerdb"
	"github.com/shenwei356/hammerdb/scoremap"
)

// SourceLookup is the narrow view of a hammer map the scan engine needs.
// hammermap.Map satisfies it directly; the DB facade passes its map
// through unchanged.
type SourceLookup interface {
	Get(code hammerdb.Code) (*hammerdb.Source, bool)
}

// CountingMethod assigns a weight to a matched Source (spec.md §4.3
// "counting methods").
type CountingMethod int

const (
	CountHits CountingMethod = iota
	CountStrength
)

// Weight returns src's contribution under this counting method.
func (m CountingMethod) Weight(src *hammerdb.Source) float64 {
	if m == CountStrength {
		return src.Strength
	}
	return 1
}

// weightOf is Weight without needing a *Source wrapper, for call sites
// that only have a hit's copied Strength field.
func (m CountingMethod) weightOf(strength float64) float64 {
	if m == CountStrength {
		return strength
	}
	return 1
}

// QuerySeq is one sequence to scan: a label, its bases, and the
// length/coverage pair external-weight scaling needs.
type QuerySeq struct {
	Label    string
	Bases    []byte
	Length   int
	Coverage float64
}

// QuerySeqQ is QuerySeq plus a parallel Phred-encoded quality string,
// for the quality-gated hit path.
type QuerySeqQ struct {
	QuerySeq
	Quality []byte
}

// ExternalWeight computes the "external weight" multiplier described in
// spec.md §4.5 step 4: 1, or len*coverage/180.0 when length-coverage
// scaling is requested.
type ExternalWeight func(length int, coverage float64) float64

// NoScaling is the trivial ExternalWeight: always 1.
func NoScaling(int, float64) float64 { return 1 }

// LengthCoverageScaling implements spec.md's len*coverage/180.0 scaling.
func LengthCoverageScaling(length int, coverage float64) float64 {
	return float64(length) * coverage / 180.0
}

// Engine walks query sequences against a hammer map and dispatches
// matches to a Hit collector or a score aggregator.
type Engine struct {
	Hammers  SourceLookup
	K        int
	Parallel bool
	Workers  int
}

// NewEngine returns an Engine reading k-mers of length k out of hammers.
func NewEngine(hammers SourceLookup, k int) *Engine {
	return &Engine{Hammers: hammers, K: k, Parallel: true, Workers: 0}
}

func (e *Engine) workers() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return 4
}

// walk invokes visit(hit) for every window of seq that hits the hammer
// map, on both strands, per spec.md §4.5 steps 1-3.
func (e *Engine) walk(seq QuerySeq, visit func(Hit)) {
	k := e.K
	bases := seq.Bases
	n := len(bases)
	if k > n {
		return
	}

	for i := 0; i+k <= n; i++ {
		window := bases[i : i+k]
		code := hammerdb.Encode(window, k)
		if code == hammerdb.InvalidCode {
			continue
		}
		if src, ok := e.Hammers.Get(code); ok && !src.IsBad() {
			visit(Hit{
				Contig:    seq.Label,
				Left:      i + 1,
				Right:     i + k,
				Strand:    Forward,
				FeatureID: src.FeatureID,
				RoleID:    src.RoleID,
				Strength:  src.Strength,
				Hammer:    string(window),
			})
		}
	}

	rc := hammerdb.ReverseComplementString(bases)
	contigLen := seq.Length
	if contigLen == 0 {
		contigLen = n
	}
	for i := 0; i+k <= n; i++ {
		window := rc[i : i+k]
		code := hammerdb.Encode(window, k)
		if code == hammerdb.InvalidCode {
			continue
		}
		if src, ok := e.Hammers.Get(code); ok && !src.IsBad() {
			left := contigLen - i
			right := left - k + 1
			visit(Hit{
				Contig:    seq.Label,
				Left:      left,
				Right:     right,
				Strand:    Reverse,
				FeatureID: src.FeatureID,
				RoleID:    src.RoleID,
				Strength:  src.Strength,
				Hammer:    string(window),
			})
		}
	}
}

// Hits scans every sequence and returns the merged, sorted, deduplicated
// hit list (spec.md §4.5).
func (e *Engine) Hits(seqs []QuerySeq) HitList {
	if !e.Parallel || len(seqs) < 2 {
		var all HitList
		for _, seq := range seqs {
			e.walk(seq, func(h Hit) { all = append(all, h) })
		}
		return SortAndDedup(all)
	}

	results := make([]HitList, len(seqs))
	var wg sync.WaitGroup
	tokens := ringbuffer.New(e.workers())
	for i, seq := range seqs {
		wg.Add(1)
		tokens.WriteByte(0)
		go func(i int, seq QuerySeq) {
			defer wg.Done()
			defer tokens.ReadByte()
			var local HitList
			e.walk(seq, func(h Hit) { local = append(local, h) })
			results[i] = local
		}(i, seq)
	}
	wg.Wait()

	var all HitList
	for _, r := range results {
		all = append(all, r...)
	}
	return SortAndDedup(all)
}

// Score scans every sequence and returns the merged score map (spec.md
// §4.4/§4.5), with each hit contributing method.Weight(source)*ew.
func (e *Engine) Score(seqs []QuerySeq, method CountingMethod, ew ExternalWeight) *scoremap.Map {
	if ew == nil {
		ew = NoScaling
	}

	if !e.Parallel || len(seqs) < 2 {
		m := scoremap.New()
		for _, seq := range seqs {
			e.scoreOne(seq, method, ew, m)
		}
		return m
	}

	results := make([]*scoremap.Map, len(seqs))
	var wg sync.WaitGroup
	tokens := ringbuffer.New(e.workers())
	for i, seq := range seqs {
		wg.Add(1)
		tokens.WriteByte(0)
		go func(i int, seq QuerySeq) {
			defer wg.Done()
			defer tokens.ReadByte()
			local := scoremap.New()
			e.scoreOne(seq, method, ew, local)
			results[i] = local
		}(i, seq)
	}
	wg.Wait()

	merged := scoremap.New()
	for _, r := range results {
		merged.Accumulate(r, 1.0)
	}
	return merged
}

// Hammers returns the set of hammer strings present in seq on either
// strand (spec.md §4.3 find_hammers / §9b: every matched hammer is
// added, independent of how many positions it was found at).
func (e *Engine) Hammers(seq []byte) map[string]struct{} {
	out := make(map[string]struct{})
	e.walk(QuerySeq{Bases: seq, Length: len(seq)}, func(h Hit) {
		out[h.Hammer] = struct{}{}
	})
	return out
}

func (e *Engine) scoreOne(seq QuerySeq, method CountingMethod, ew ExternalWeight, m *scoremap.Map) {
	external := ew(seq.Length, seq.Coverage)
	e.walk(seq, func(h Hit) {
		genomeID := hammerdb.GenomeIDFromFeature(h.FeatureID)
		w := method.weightOf(h.Strength) * external
		m.Add(genomeID, w, h.RoleID)
	})
}
