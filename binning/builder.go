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
	"sort"
)

// RejectedBin is the id of the virtual bin contigs land in when no rule
// accepts them.
const RejectedBin = "REJECTED"

// BinStats tracks one bin's running contig count and total length.
type BinStats struct {
	BinID       string
	ContigCount int
	TotalLength int64
	Sink        io.WriteCloser
	IsVirtual   bool
}

// BinBuilder owns one output sink per bin id plus the rejected virtual
// bin, and records per-bin counters as contigs are stored.
type BinBuilder struct {
	stats map[string]*BinStats
	newSink func(binID string) (io.WriteCloser, error)
}

// NewBinBuilder returns an empty BinBuilder. newSink lazily opens the
// output sink for a bin id the first time a contig is stored into it; it
// may be nil if callers only care about the counters.
func NewBinBuilder(newSink func(binID string) (io.WriteCloser, error)) *BinBuilder {
	return &BinBuilder{stats: make(map[string]*BinStats), newSink: newSink}
}

func (b *BinBuilder) statsFor(binID string, virtual bool) (*BinStats, error) {
	st, ok := b.stats[binID]
	if ok {
		return st, nil
	}
	st = &BinStats{BinID: binID, IsVirtual: virtual}
	if b.newSink != nil && !virtual {
		sink, err := b.newSink(binID)
		if err != nil {
			return nil, err
		}
		st.Sink = sink
	}
	b.stats[binID] = st
	return st, nil
}

// Store decides contig's bin via rule and writes it to the appropriate
// sink, updating (count, length). contigBytes is the raw record to
// write (e.g. a FASTA record); callers that only need the counters may
// pass nil.
func (b *BinBuilder) Store(contig Contig, rule Rule, contigBytes []byte) (binID string, rejected bool, err error) {
	id, ok := rule.Decide(contig)
	virtual := !ok
	if !ok {
		id = RejectedBin
	}

	st, err := b.statsFor(id, virtual)
	if err != nil {
		return "", virtual, err
	}
	st.ContigCount++
	st.TotalLength += int64(contig.Length)
	if st.Sink != nil && contigBytes != nil {
		if _, err := st.Sink.Write(contigBytes); err != nil {
			return id, virtual, err
		}
	}
	return id, virtual, nil
}

// Stats returns every bin's statistics, real bins first (sorted by
// descending length, then ascending id), followed by the rejected
// virtual bin if it received any contigs.
func (b *BinBuilder) Stats() []*BinStats {
	var real, virtual []*BinStats
	for _, st := range b.stats {
		if st.IsVirtual {
			virtual = append(virtual, st)
		} else {
			real = append(real, st)
		}
	}
	sort.Slice(real, func(i, j int) bool {
		if real[i].TotalLength != real[j].TotalLength {
			return real[i].TotalLength > real[j].TotalLength
		}
		return real[i].BinID < real[j].BinID
	})
	sort.Slice(virtual, func(i, j int) bool { return virtual[i].BinID < virtual[j].BinID })
	return append(real, virtual...)
}

// Close closes every bin's sink.
func (b *BinBuilder) Close() error {
	var first error
	for _, st := range b.stats {
		if st.Sink == nil {
			continue
		}
		if err := st.Sink.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
