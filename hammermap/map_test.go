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

package hammermap

import (
	"fmt"
	"sync"
	"testing"

	"github.com/shenwei356/hammerdb"
)

func TestNewInvalidK(t *testing.T) {
	if _, err := New(0); err != hammerdb.ErrUnsupportedK {
		t.Errorf("expected ErrUnsupportedK for k=0, got %v", err)
	}
	if _, err := New(32); err != hammerdb.ErrUnsupportedK {
		t.Errorf("expected ErrUnsupportedK for k=32, got %v", err)
	}
}

func TestInsertGet(t *testing.T) {
	m, err := New(20)
	if err != nil {
		t.Fatal(err)
	}
	code := hammerdb.Encode([]byte("ACGTACGTACGTACGTACGT"), 20)
	src := hammerdb.NewSource("fig|100.1.peg.1", "roleA", 0.9)

	r, err := m.Insert(code, src)
	if err != nil || r != Added {
		t.Fatalf("expected Added, got %v, %v", r, err)
	}

	r, err = m.Insert(code, src)
	if err != nil || r != Replaced {
		t.Fatalf("expected Replaced, got %v, %v", r, err)
	}

	got, ok := m.Get(code)
	if !ok || got.FeatureID != "fig|100.1.peg.1" {
		t.Fatalf("Get failed: %v, %v", got, ok)
	}

	if m.Size() != 1 {
		t.Errorf("expected size 1, got %d", m.Size())
	}
}

func TestInsertInvalidCode(t *testing.T) {
	m, _ := New(20)
	_, err := m.Insert(hammerdb.InvalidCode, hammerdb.NewSource("x", "y", 0.5))
	if err != hammerdb.ErrIllegalBase {
		t.Errorf("expected ErrIllegalBase, got %v", err)
	}
}

// TestLoadCompleteness verifies spec §8 property 4: for N unique hammers
// loaded, map.Size()==N, and every (h, fid) round-trips.
func TestLoadCompleteness(t *testing.T) {
	m, _ := New(20)
	n := 500
	fids := make(map[hammerdb.Code]string, n)
	for i := 0; i < n; i++ {
		mer := "AAAA" + string(hammerdb.Decode(hammerdb.Code(i), 16))
		code := hammerdb.Encode([]byte(mer), 20)
		if code == hammerdb.InvalidCode {
			continue
		}
		fid := fmt.Sprintf("fig|100.%d.peg.1", i)
		if _, exists := fids[code]; exists {
			continue
		}
		fids[code] = fid
		m.Insert(code, hammerdb.NewSource(fid, "role", 0.5))
	}

	if int(m.Size()) != len(fids) {
		t.Fatalf("Size() = %d, want %d", m.Size(), len(fids))
	}
	for code, fid := range fids {
		src, ok := m.Get(code)
		if !ok || src.FeatureID != fid {
			t.Errorf("Get(%d) = %v, %v; want fid %s", code, src, ok, fid)
		}
	}
}

func TestGetOrInsertWith(t *testing.T) {
	m, _ := New(20)
	code := hammerdb.Encode([]byte("TTTTTTTTTTTTTTTTTTTT"), 20)

	hits := 0
	news := 0
	v := m.GetOrInsertWith(code,
		func(*hammerdb.Source) { hits++ },
		func() *hammerdb.Source { news++; return hammerdb.NewSource("fid", "role", 1) })
	if news != 1 || hits != 0 || v.FeatureID != "fid" {
		t.Fatalf("expected install on first call, got news=%d hits=%d", news, hits)
	}

	v2 := m.GetOrInsertWith(code,
		func(*hammerdb.Source) { hits++ },
		func() *hammerdb.Source { news++; return hammerdb.NewSource("other", "role", 1) })
	if news != 1 || hits != 1 || v2 != v {
		t.Fatalf("expected onHit on second call, got news=%d hits=%d", news, hits)
	}
}

func TestConcurrentInsertGet(t *testing.T) {
	m, _ := New(20)
	var wg sync.WaitGroup
	n := 2000
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mer := "CCCC" + string(hammerdb.Decode(hammerdb.Code(i), 16))
			code := hammerdb.Encode([]byte(mer), 20)
			m.Insert(code, hammerdb.NewSource(fmt.Sprintf("fid%d", i), "r", 0.5))
		}(i)
	}
	wg.Wait()

	if int(m.Size()) != n {
		t.Fatalf("Size() = %d, want %d", m.Size(), n)
	}
	for i := 0; i < n; i++ {
		mer := "CCCC" + string(hammerdb.Decode(hammerdb.Code(i), 16))
		code := hammerdb.Encode([]byte(mer), 20)
		if _, ok := m.Get(code); !ok {
			t.Errorf("missing code for i=%d", i)
		}
	}
}

func TestIterate(t *testing.T) {
	m, _ := New(20)
	n := 50
	for i := 0; i < n; i++ {
		mer := "GGGG" + string(hammerdb.Decode(hammerdb.Code(i), 16))
		code := hammerdb.Encode([]byte(mer), 20)
		m.Insert(code, hammerdb.NewSource(fmt.Sprintf("fid%d", i), "r", 0.5))
	}
	count := 0
	err := m.Iterate(func(kmer string, v *hammerdb.Source) bool {
		count++
		return true
	})
	if err != nil {
		t.Fatalf("unexpected iteration error: %v", err)
	}
	if count != n {
		t.Errorf("iterated %d entries, want %d", count, n)
	}
}

func TestAnchorize(t *testing.T) {
	m, _ := New(4)
	base := hammerdb.Encode([]byte("AAAA"), 4)
	isolated := hammerdb.Encode([]byte("GGGG"), 4)
	neighbor := hammerdb.Encode([]byte("AAAC"), 4) // one substitution from base

	sBase := hammerdb.NewSource("base", "r", 1)
	sIsolated := hammerdb.NewSource("isolated", "r", 1)
	sNeighbor := hammerdb.NewSource("neighbor", "r", 1)
	m.Insert(base, sBase)
	m.Insert(isolated, sIsolated)
	m.Insert(neighbor, sNeighbor)

	m.Anchorize()

	if sBase.IsBad() {
		t.Error("base has a neighbor, should not be bad")
	}
	if sNeighbor.IsBad() {
		t.Error("neighbor has a neighbor, should not be bad")
	}
	if !sIsolated.IsBad() {
		t.Error("isolated has no neighbor, should be marked bad")
	}
}

func TestSet(t *testing.T) {
	s, err := NewSet(10)
	if err != nil {
		t.Fatal(err)
	}
	code := hammerdb.Encode([]byte("ACGTACGTAC"), 10)
	if s.Contains(code) {
		t.Error("should not contain before Add")
	}
	if err := s.Add(code); err != nil {
		t.Fatal(err)
	}
	if !s.Contains(code) {
		t.Error("should contain after Add")
	}
	if s.Size() != 1 {
		t.Errorf("size = %d, want 1", s.Size())
	}
}

func TestArrayGrowth(t *testing.T) {
	a := NewArray(20)
	n := 1600
	for i := 0; i < n; i++ {
		a.Append(hammerdb.Code(i))
	}
	if a.Len() != n {
		t.Fatalf("Len() = %d, want %d", a.Len(), n)
	}
	for i := 0; i < n; i++ {
		if a.At(i) != hammerdb.Code(i) {
			t.Errorf("At(%d) = %d, want %d", i, a.At(i), i)
		}
	}
}
