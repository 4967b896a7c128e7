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

import "github.com/klauspost/cpuid"

// AVX2Available reports whether the running CPU has AVX2, the same
// capability check the teacher gates its bit-counting fast path on.
var AVX2Available = cpuid.CPU.AVX2()

// TallyByteBins batches per-bin hit-membership counting: each byte in
// buf packs up to 8 bins' membership bits (one contig's hit/no-hit flag
// per bin, MSB-first), and TallyByteBins returns, for each of the 8 bin
// slots, how many bytes in buf had that bit set. This lets a
// MaxHammerBinningRule caller (see BatchTally) tally hundreds of
// contigs against a fixed small bin set in one pass instead of one map
// increment per contig.
//
// There is no assembly fast path in this tree (the teacher's AVX2
// variant lives outside the retrieved sources); BatchTally still reads
// AVX2Available to size its packing chunks, but TallyByteBins itself
// always runs the portable loop below.
func TallyByteBins(counts *[8]int32, buf []byte) {
	for i := 0; i < len(buf); i++ {
		for j := 0; j < 8; j++ {
			(*counts)[7-j] += int32(buf[i]) >> uint(j) & 1
		}
	}
}
