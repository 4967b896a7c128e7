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
	"testing"

	"github.com/shenwei356/hammerdb"
	"github.com/shenwei356/hammerdb/hammermap"
)

func buildTestMap(t *testing.T, k int, entries map[string]*hammerdb.Source) *hammermap.Map {
	t.Helper()
	m, err := hammermap.New(k)
	if err != nil {
		t.Fatal(err)
	}
	for kmer, src := range entries {
		code := hammerdb.Encode([]byte(kmer), k)
		if code == hammerdb.InvalidCode {
			t.Fatalf("bad fixture kmer %s", kmer)
		}
		if _, err := m.Insert(code, src); err != nil {
			t.Fatal(err)
		}
	}
	return m
}

// TestForwardHitLocation checks spec §4.5/§9a: forward strand, window
// index i -> left=i+1, right=i+k.
func TestForwardHitLocation(t *testing.T) {
	k := 4
	m := buildTestMap(t, k, map[string]*hammerdb.Source{
		"ACGT": hammerdb.NewSource("fig|100.1.peg.1", "role1", 0.9),
	})
	e := NewEngine(m, k)
	e.Parallel = false

	hits := e.Hits([]QuerySeq{{Label: "contigA", Bases: []byte("TTACGTTT"), Length: 8}})
	var found bool
	for _, h := range hits {
		if h.Strand == Forward && h.FeatureID == "fig|100.1.peg.1" {
			found = true
			if h.Left != 3 || h.Right != 6 {
				t.Errorf("forward hit location = (%d,%d), want (3,6)", h.Left, h.Right)
			}
		}
	}
	if !found {
		t.Fatal("expected a forward-strand hit")
	}
}

func TestReverseHitLocation(t *testing.T) {
	k := 4
	// ACGT revcomp is ACGT (palindromic under RC), so craft a
	// non-palindromic hammer instead.
	hammer := "AAGG"
	rc := string(hammerdb.ReverseComplementString([]byte(hammer))) // CCTT
	m := buildTestMap(t, k, map[string]*hammerdb.Source{
		hammer: hammerdb.NewSource("fig|200.1.peg.2", "role2", 0.5),
	})
	e := NewEngine(m, k)
	e.Parallel = false

	// Build a contig whose reverse complement contains "AAGG" at a known
	// offset: put rc ("CCTT") directly into the forward sequence so that
	// scanning its reverse complement recovers "AAGG".
	contig := "TT" + rc + "TT" // length 8
	hits := e.Hits([]QuerySeq{{Label: "contigB", Bases: []byte(contig), Length: len(contig)}})

	var found bool
	for _, h := range hits {
		if h.Strand == Reverse && h.FeatureID == "fig|200.1.peg.2" {
			found = true
			if h.Left <= h.Right {
				t.Errorf("reverse hit should have Left>Right, got (%d,%d)", h.Left, h.Right)
			}
		}
	}
	if !found {
		t.Fatal("expected a reverse-strand hit")
	}
}

func TestNoWindowsWhenKLongerThanSeq(t *testing.T) {
	m := buildTestMap(t, 10, map[string]*hammerdb.Source{})
	e := NewEngine(m, 10)
	e.Parallel = false
	hits := e.Hits([]QuerySeq{{Label: "short", Bases: []byte("ACGT"), Length: 4}})
	if len(hits) != 0 {
		t.Errorf("expected no hits for k>len, got %d", len(hits))
	}
}

func TestInvalidBaseSkipsWindow(t *testing.T) {
	k := 4
	m := buildTestMap(t, k, map[string]*hammerdb.Source{
		"ACGT": hammerdb.NewSource("fid", "r", 1),
	})
	e := NewEngine(m, k)
	e.Parallel = false
	hits := e.Hits([]QuerySeq{{Label: "c", Bases: []byte("ACGN"), Length: 4}})
	for _, h := range hits {
		if h.Strand == Forward {
			t.Error("window containing N should not hit")
		}
	}
}

// TestScoreConservation checks spec §8 property 5: sum of aggregator
// weights equals sum of method.weight(hit)*external over all hits.
func TestScoreConservation(t *testing.T) {
	k := 4
	m := buildTestMap(t, k, map[string]*hammerdb.Source{
		"ACGT": hammerdb.NewSource("fig|100.1.peg.1", "role1", 0.8),
		"TTTT": hammerdb.NewSource("fig|100.2.peg.2", "role2", 0.3),
	})
	e := NewEngine(m, k)
	e.Parallel = false

	seqs := []QuerySeq{{Label: "c1", Bases: []byte("ACGTTTTT"), Length: 8, Coverage: 10}}
	scores := e.Score(seqs, CountStrength, NoScaling)

	hits := e.Hits(seqs)
	var want float64
	for _, h := range hits {
		want += h.Strength
	}
	if got := scores.Sum(); got != want {
		t.Errorf("Sum() = %v, want %v (conservation violated)", got, want)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	k := 4
	m := buildTestMap(t, k, map[string]*hammerdb.Source{
		"ACGT": hammerdb.NewSource("fig|1.1.peg.1", "r1", 1),
		"TTTT": hammerdb.NewSource("fig|2.1.peg.1", "r2", 1),
		"GGGG": hammerdb.NewSource("fig|3.1.peg.1", "r3", 1),
	})
	seqs := []QuerySeq{
		{Label: "c1", Bases: []byte("ACGTTTTT"), Length: 8},
		{Label: "c2", Bases: []byte("GGGGACGT"), Length: 8},
		{Label: "c3", Bases: []byte("TTTTGGGG"), Length: 8},
	}

	seq := NewEngine(m, k)
	seq.Parallel = false
	par := NewEngine(m, k)
	par.Parallel = true
	par.Workers = 3

	hSeq := seq.Hits(seqs)
	hPar := par.Hits(seqs)
	if len(hSeq) != len(hPar) {
		t.Fatalf("sequential found %d hits, parallel found %d", len(hSeq), len(hPar))
	}
	for i := range hSeq {
		if hSeq[i] != hPar[i] {
			t.Errorf("hit %d differs: %+v != %+v", i, hSeq[i], hPar[i])
		}
	}
}

func TestLengthCoverageScaling(t *testing.T) {
	if got := LengthCoverageScaling(360, 90); got != 180 {
		t.Errorf("LengthCoverageScaling(360,90) = %v, want 180", got)
	}
}
