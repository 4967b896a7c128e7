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
	"bytes"
	"math/rand"
	"strings"
	"testing"
)

var randomMers [][]byte
var randomMersN = 10000

func init() {
	randomMers = make([][]byte, randomMersN)
	bases := []byte("ACGT")
	for i := 0; i < randomMersN; i++ {
		k := rand.Intn(MaxK) + 1
		randomMers[i] = make([]byte, k)
		for j := range randomMers[i] {
			randomMers[i][j] = bases[rand.Intn(4)]
		}
	}
}

// TestEncodeDecode checks the round-trip property (spec §8 property 1).
func TestEncodeDecode(t *testing.T) {
	for _, mer := range randomMers {
		kcode := NewKmerCode(mer)
		if !kcode.Valid() {
			t.Fatalf("Encode error: %s", mer)
		}
		if !bytes.Equal(bytes.ToLower(mer), kcode.Bytes()) {
			t.Errorf("Decode error: %s != %s", mer, kcode.Bytes())
		}
	}
}

// TestEncodeInvalid checks that non-ACGT letters invalidate the k-mer.
func TestEncodeInvalid(t *testing.T) {
	for _, mer := range []string{"ACGN", "acgy", "ACG-", ""} {
		code := Encode([]byte(mer), len([]byte(mer)))
		if mer == "" {
			continue // k=0 is handled by EncodeStrict's UnsupportedK path
		}
		if code != InvalidCode {
			t.Errorf("expected InvalidCode for %q, got %x", mer, code)
		}
	}
}

// TestEncodeStrict checks the load-time strict entry point.
func TestEncodeStrict(t *testing.T) {
	if _, err := EncodeStrict([]byte("ACGN"), 4); err != ErrIllegalBase {
		t.Errorf("expected ErrIllegalBase, got %v", err)
	}
	if _, err := EncodeStrict([]byte("ACG"), 4); err != ErrInvalidHammerLength {
		t.Errorf("expected ErrInvalidHammerLength, got %v", err)
	}
	if _, err := EncodeStrict([]byte(strings.Repeat("A", 32)), 32); err != ErrUnsupportedK {
		t.Errorf("expected ErrUnsupportedK, got %v", err)
	}
	code, err := EncodeStrict([]byte("ACGT"), 4)
	if err != nil || code == InvalidCode {
		t.Errorf("expected a valid code, got %x, %v", code, err)
	}
}

// TestRevComp checks reverse-complement idempotence (spec §8 property 2).
func TestRevComp(t *testing.T) {
	for _, mer := range randomMers {
		kcode := NewKmerCode(mer)
		if !kcode.RevComp().RevComp().Equal(kcode) {
			t.Errorf("RevComp() not idempotent for %s", mer)
		}
	}
}

// TestReverseComplementStringIdempotent checks string-level RC idempotence.
func TestReverseComplementStringIdempotent(t *testing.T) {
	for _, mer := range randomMers {
		rc := ReverseComplementString(mer)
		rc2 := ReverseComplementString(rc)
		if !bytes.Equal(mer, rc2) {
			t.Errorf("rc(rc(%s)) = %s", mer, rc2)
		}
	}
}

// TestUniqueness checks distinct k-mers of equal length encode distinctly
// (spec §8 property 3).
func TestUniqueness(t *testing.T) {
	seen := make(map[Code]string, 4096)
	for _, mer := range randomMers {
		k := len(mer)
		code := Encode(mer, k)
		if code == InvalidCode {
			continue
		}
		key := code
		if other, ok := seen[key]; ok && other != string(mer) {
			// collisions across different k are expected (same bit
			// pattern, different lengths aren't compared here); only
			// flag true same-length collisions.
			if len(other) == k {
				t.Errorf("collision: %s and %s both encode to %x", mer, other, code)
			}
		}
		seen[key] = string(mer)
	}
}

// S1 from spec §8: bit-exact encode/decode of a known 20-mer.
func TestS1EncodeDecodeKnown(t *testing.T) {
	s := "ACGTACGTACGTACGTACGT"
	kcode := NewKmerCode([]byte(s))
	if !kcode.Valid() {
		t.Fatalf("expected valid encoding of %s", s)
	}
	if got := kcode.String(); got != strings.ToLower(s) {
		t.Errorf("decode(encode(%s)) = %s, want %s", s, got, strings.ToLower(s))
	}
}

func TestGenomeIDFromFeature(t *testing.T) {
	cases := map[string]string{
		"fig|1278308.3.peg.2084": "1278308.3",
		"fig|1397.4.peg.5364":    "1397.4",
		"fig|565575.4.peg.12":    "565575.4",
	}
	for fid, want := range cases {
		if got := GenomeIDFromFeature(fid); got != want {
			t.Errorf("GenomeIDFromFeature(%s) = %s, want %s", fid, got, want)
		}
	}
}
