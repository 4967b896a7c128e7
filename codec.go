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

// Package hammerdb implements the 2-bit DNA k-mer codec and the
// hammer-database facade used to identify representative genomes in
// query sequences by exact k-mer ("hammer") lookup.
package hammerdb

// Code is a packed DNA k-mer, 2 bits per base, MSB-first, stored in the
// low 2*k bits of a uint64.
type Code uint64

// InvalidCode is the sentinel returned for any k-mer containing a
// non-ACGT letter, or for any malformed input. It is distinct from every
// value a valid k-mer of length <= 31 can produce (those only ever use
// the low 62 bits).
const InvalidCode Code = ^Code(0)

// MaxK is the largest k-mer length hammerdb can pack into a Code while
// keeping InvalidCode distinguishable from every valid encoding.
const MaxK = 31

// Encode packs kmer (length must equal k, 1<=k<=31) into a Code.
//
// Codes:
//
//	A    00
//	C    01
//	G    10
//	T    11
//
// Any byte outside {A,C,G,T,a,c,g,t} makes the whole k-mer invalid; this
// is the query-time lookup semantic (spec: "non-ACGT letter invalidates
// the whole k-mer ... yield INVALID and are thereby skipped"). Use
// EncodeStrict during load, where an invalid hammer must fail instead of
// silently dropping out.
func Encode(kmer []byte, k int) Code {
	if k < 1 || k > MaxK || len(kmer) != k {
		return InvalidCode
	}

	var code Code
	for i := range kmer {
		switch kmer[k-1-i] {
		case 'A', 'a':
			code |= 0 << uint(i*2)
		case 'C', 'c':
			code |= 1 << uint(i*2)
		case 'G', 'g':
			code |= 2 << uint(i*2)
		case 'T', 't':
			code |= 3 << uint(i*2)
		default:
			return InvalidCode
		}
	}
	return code
}

// EncodeStrict is like Encode but returns ErrIllegalBase/ErrUnsupportedK
// instead of InvalidCode, for the loader's hammer-validation path where a
// bad hammer must abort the load rather than be skipped.
func EncodeStrict(kmer []byte, k int) (Code, error) {
	if k < 1 || k > MaxK {
		return 0, ErrUnsupportedK
	}
	if len(kmer) != k {
		return 0, ErrInvalidHammerLength
	}
	code := Encode(kmer, k)
	if code == InvalidCode {
		return 0, ErrIllegalBase
	}
	return code, nil
}

var bit2base = [4]byte{'A', 'C', 'G', 'T'}

// Decode returns the lowercase [acgt]* string of length k packed in code.
func Decode(code Code, k int) []byte {
	if k < 1 || k > MaxK {
		panic(ErrUnsupportedK)
	}
	kmer := make([]byte, k)
	for i := 0; i < k; i++ {
		kmer[k-1-i] = bit2base[code&3] + ('a' - 'A')
		code >>= 2
	}
	return kmer
}

// ReverseComplementCode flips each 2-bit pair (A<->T, C<->G) and reverses
// their order, i.e. RevComp(encode(s)) == encode(reverse_complement(s)).
func ReverseComplementCode(code Code, k int) Code {
	if k < 1 || k > MaxK {
		panic(ErrUnsupportedK)
	}
	var c Code
	for i := 0; i < k; i++ {
		c <<= 2
		c |= (code & 3) ^ 3
		code >>= 2
	}
	return c
}

// complement maps a single IUPAC base to its complement, case-preserved.
// Ambiguity letters are complemented per the standard table; any byte
// outside the table (which still includes every base Encode accepts) is
// returned unchanged by the caller's fallback.
var complementTable = map[byte]byte{
	'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C', 'U': 'A',
	'R': 'Y', 'Y': 'R', 'S': 'S', 'W': 'W', 'K': 'M', 'M': 'K',
	'B': 'V', 'V': 'B', 'D': 'H', 'H': 'D', 'N': 'N',
	'a': 't', 't': 'a', 'c': 'g', 'g': 'c', 'u': 'a',
	'r': 'y', 'y': 'r', 's': 's', 'w': 'w', 'k': 'm', 'm': 'k',
	'b': 'v', 'v': 'b', 'd': 'h', 'h': 'd', 'n': 'n',
}

// ReverseComplementString returns the canonical reverse complement of s.
// IUPAC ambiguity letters are complemented where the table defines them;
// any other byte is left unchanged. This lets ambiguity letters survive
// into the k-mer scan (where they will invalidate their window via
// Encode) instead of aborting the whole sequence.
func ReverseComplementString(s []byte) []byte {
	n := len(s)
	out := make([]byte, n)
	for i, b := range s {
		c, ok := complementTable[b]
		if !ok {
			c = b
		}
		out[n-1-i] = c
	}
	return out
}

// KmerCode pairs a packed code with its length, so callers need not carry
// k separately (mirrors the teacher's KmerCode abstraction).
type KmerCode struct {
	Code Code
	K    int
}

// NewKmerCode encodes kmer (query-time semantics: invalid bases yield
// InvalidCode, not an error).
func NewKmerCode(kmer []byte) KmerCode {
	return KmerCode{Code: Encode(kmer, len(kmer)), K: len(kmer)}
}

// Valid reports whether kc holds a real encoding rather than InvalidCode.
func (kc KmerCode) Valid() bool {
	return kc.Code != InvalidCode
}

// Equal reports whether kc and other encode the same k-mer.
func (kc KmerCode) Equal(other KmerCode) bool {
	return kc.K == other.K && kc.Code == other.Code
}

// RevComp returns the KmerCode of the reverse complement.
func (kc KmerCode) RevComp() KmerCode {
	return KmerCode{Code: ReverseComplementCode(kc.Code, kc.K), K: kc.K}
}

// Bytes returns the decoded k-mer.
func (kc KmerCode) Bytes() []byte {
	return Decode(kc.Code, kc.K)
}

// String returns the decoded k-mer as a string.
func (kc KmerCode) String() string {
	return string(Decode(kc.Code, kc.K))
}
