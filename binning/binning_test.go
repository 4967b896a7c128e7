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

import (
	"io"
	"testing"
)

// TestS5Coverage mirrors spec §8 S5 exactly.
func TestS5Coverage(t *testing.T) {
	if got := ComputeCoverage("node_12_coverage_17.3_length_4000", ""); got != 17.3 {
		t.Errorf("label coverage = %v, want 17.3", got)
	}
	if got := ComputeCoverage("node_9", "covg=8.0"); got != 8.0 {
		t.Errorf("comment coverage = %v, want 8.0", got)
	}
	if got := ComputeCoverage("node_9", ""); got != defaultCoverage {
		t.Errorf("fallback coverage = %v, want %v", got, defaultCoverage)
	}
}

// TestS4MaxHammerBinning mirrors spec §8 S4 exactly.
func TestS4MaxHammerBinning(t *testing.T) {
	cases := []struct {
		scores map[string]int
		delta  int
		want   string
		ok     bool
	}{
		{map[string]int{"A": 10, "B": 7}, 2, "A", true},
		{map[string]int{"A": 8, "B": 7}, 2, "", false},
		{map[string]int{"A": 5}, 4, "A", true},
	}
	for _, c := range cases {
		rule := &MaxHammerBinningRule{MinDiff: c.delta}
		got, ok := rule.DecideFromScores(c.scores)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("DecideFromScores(%v, delta=%d) = (%s, %v), want (%s, %v)",
				c.scores, c.delta, got, ok, c.want, c.ok)
		}
	}
}

func TestMappingBinRule(t *testing.T) {
	rule := NewMappingBinRule(map[string]string{"contigA": "bin1"})

	if _, ok := rule.Decide(Contig{Label: "contigA", Length: 100}); ok {
		t.Error("should reject contig shorter than MinLength")
	}
	if _, ok := rule.Decide(Contig{Label: "contigA", Length: 500, Comment: "covg=1.0"}); ok {
		t.Error("should reject contig with coverage below MinCoverage")
	}
	got, ok := rule.Decide(Contig{Label: "contigA", Length: 500, Comment: "covg=10.0"})
	if !ok || got != "bin1" {
		t.Errorf("Decide = (%s, %v), want (bin1, true)", got, ok)
	}
	if _, ok := rule.Decide(Contig{Label: "unknown", Length: 500, Comment: "covg=10.0"}); ok {
		t.Error("unmapped label should reject")
	}
}

type nopSink struct{ buf []byte }

func (s *nopSink) Write(p []byte) (int, error) { s.buf = append(s.buf, p...); return len(p), nil }
func (s *nopSink) Close() error                { return nil }

func TestBinBuilderStore(t *testing.T) {
	sinks := map[string]*nopSink{}
	b := NewBinBuilder(func(binID string) (io.WriteCloser, error) {
		s := &nopSink{}
		sinks[binID] = s
		return s, nil
	})

	rule := NewMappingBinRule(map[string]string{"contigA": "bin1"})

	binID, rejected, err := b.Store(Contig{Label: "contigA", Length: 500, Comment: "covg=10.0"}, rule, []byte(">contigA\nACGT\n"))
	if err != nil || rejected || binID != "bin1" {
		t.Fatalf("Store = (%s, %v, %v), want (bin1, false, nil)", binID, rejected, err)
	}

	binID, rejected, err = b.Store(Contig{Label: "contigB", Length: 500, Comment: "covg=10.0"}, rule, []byte(">contigB\nACGT\n"))
	if err != nil || !rejected || binID != RejectedBin {
		t.Fatalf("Store = (%s, %v, %v), want (%s, true, nil)", binID, rejected, err, RejectedBin)
	}

	stats := b.Stats()
	if len(stats) != 2 {
		t.Fatalf("Stats() returned %d entries, want 2", len(stats))
	}
	if stats[0].IsVirtual {
		t.Error("real bins should sort before the rejected virtual bin")
	}
	if stats[0].ContigCount != 1 || stats[0].TotalLength != 500 {
		t.Errorf("bin1 stats = %+v, want count=1 length=500", stats[0])
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if string(sinks["bin1"].buf) != ">contigA\nACGT\n" {
		t.Errorf("bin1 sink content = %q", sinks["bin1"].buf)
	}
}

func TestTallyByteBins(t *testing.T) {
	var counts [8]int32
	// 0b10000001: bins 0 and 7 set.
	TallyByteBins(&counts, []byte{0x81, 0x81})
	if counts[0] != 2 || counts[7] != 2 {
		t.Errorf("counts = %v, want counts[0]=2 counts[7]=2", counts)
	}
	for i := 1; i < 7; i++ {
		if counts[i] != 0 {
			t.Errorf("counts[%d] = %d, want 0", i, counts[i])
		}
	}
}

func TestMaxHammerBinningRuleBatchTally(t *testing.T) {
	rule := &MaxHammerBinningRule{MinDiff: 2}
	bins := [8]string{"bin1", "bin2"}
	winners := []string{"bin1", "bin1", "bin2", "", "bin1"}

	tally := rule.BatchTally(bins, winners)
	if tally[0] != 3 {
		t.Errorf("tally[bin1] = %d, want 3", tally[0])
	}
	if tally[1] != 1 {
		t.Errorf("tally[bin2] = %d, want 1", tally[1])
	}
	for i := 2; i < 8; i++ {
		if tally[i] != 0 {
			t.Errorf("tally[%d] = %d, want 0", i, tally[i])
		}
	}
}
