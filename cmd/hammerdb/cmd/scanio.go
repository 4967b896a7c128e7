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

package cmd

import (
	"io"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"

	"github.com/shenwei356/hammerdb/scan"
)

// readQuerySeqs reads every record in file into a QuerySeq, with
// coverage parsed by the caller if needed (readQuerySeqs leaves
// Coverage at 0). Quality strings, when present (FASTQ input), are
// returned in a parallel map keyed by label.
func readQuerySeqs(file string) ([]scan.QuerySeq, map[string][]byte, error) {
	seq.ValidateSeq = false

	reader, err := fastx.NewDefaultReader(expandPath(file))
	if err != nil {
		return nil, nil, err
	}

	var seqs []scan.QuerySeq
	quality := make(map[string][]byte)
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, err
		}

		bases := make([]byte, len(record.Seq.Seq))
		copy(bases, record.Seq.Seq)

		label := string(record.ID)
		seqs = append(seqs, scan.QuerySeq{
			Label:  label,
			Bases:  bases,
			Length: len(bases),
		})

		if len(record.Seq.Qual) == len(bases) && len(bases) > 0 {
			q := make([]byte, len(record.Seq.Qual))
			copy(q, record.Seq.Qual)
			quality[label] = q
		}
	}
	return seqs, quality, nil
}
