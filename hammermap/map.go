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

// Package hammermap implements the two-level hammer -> payload map: a
// fixed first-level array indexed by the high bits of a packed k-mer
// code, each slot owning a growable chained sub-hash keyed by the low 30
// bits of the code. Concurrent insert and lookup are supported across
// distinct first-level buckets (and, within a bucket, lookups are
// lock-free with respect to concurrent insert); iteration and Anchorize
// are not safe to run concurrently with mutation.
package hammermap

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/shenwei356/hammerdb"
)

// InsertResult reports whether Insert created a new entry or replaced an
// existing one.
type InsertResult int

const (
	// Added means the key was not present and is now installed.
	Added InsertResult = iota
	// Replaced means the key was already present; its value was updated.
	Replaced
)

const (
	// lowBits is the width, in bits, of the second-level (sub-hash) key
	// space: the low 30 bits of a packed code.
	lowBits  = 30
	lowMask  = (1 << lowBits) - 1
	maxChain = 1 << 28 // bound on a single sub-hash's table length
)

// node is one chain link. Once a node is linked into a table that a
// concurrent reader may be traversing, its key and next link never
// change; only its value pointer may be replaced, by an atomic store.
// Growth allocates fresh nodes for the new table instead of relinking old
// ones, so a reader holding a stale table reference never observes a
// partially linked node.
type node struct {
	key   hammerdb.Code
	value unsafe.Pointer // *hammerdb.Source, published via atomic store
	next  unsafe.Pointer // *node
}

type bucketTable struct {
	buckets []unsafe.Pointer // each slot is a *node chain head
}

// subhash is the second-level chained hash table owned by one
// first-level slot. Mutations are serialized by mu; lookups read the
// current table via an atomic load and need no lock.
type subhash struct {
	mu    sync.Mutex
	table atomic.Value // *bucketTable
	size  int32        // atomic node count
}

func newSubhash() *subhash {
	sh := &subhash{}
	sh.table.Store(&bucketTable{buckets: make([]unsafe.Pointer, 1)})
	return sh
}

func (sh *subhash) loadTable() *bucketTable {
	return sh.table.Load().(*bucketTable)
}

func bucketIndex(code hammerdb.Code, numBuckets int) int {
	return int(uint64(code)&lowMask) % numBuckets
}

// get performs a lock-free lookup within this sub-hash.
func (sh *subhash) get(code hammerdb.Code) (*hammerdb.Source, bool) {
	t := sh.loadTable()
	idx := bucketIndex(code, len(t.buckets))
	n := (*node)(atomic.LoadPointer(&t.buckets[idx]))
	for n != nil {
		if n.key == code {
			return (*hammerdb.Source)(atomic.LoadPointer(&n.value)), true
		}
		n = (*node)(atomic.LoadPointer(&n.next))
	}
	return nil, false
}

// insert installs or replaces code -> value, growing the table if the
// load factor exceeds 0.75 and the table has not hit maxChain.
func (sh *subhash) insert(code hammerdb.Code, value *hammerdb.Source) InsertResult {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	t := sh.loadTable()
	idx := bucketIndex(code, len(t.buckets))
	for n := (*node)(atomic.LoadPointer(&t.buckets[idx])); n != nil; n = (*node)(atomic.LoadPointer(&n.next)) {
		if n.key == code {
			atomic.StorePointer(&n.value, unsafe.Pointer(value))
			return Replaced
		}
	}

	n := &node{key: code, value: unsafe.Pointer(value), next: t.buckets[idx]}
	atomic.StorePointer(&t.buckets[idx], unsafe.Pointer(n))
	newSize := atomic.AddInt32(&sh.size, 1)

	if len(t.buckets) < maxChain && float64(newSize)/float64(len(t.buckets)) > 0.75 {
		sh.grow(t)
	}
	return Added
}

// getOrInsertWith atomically checks presence and either calls onHit on
// the existing value or installs newFn()'s result.
func (sh *subhash) getOrInsertWith(code hammerdb.Code, onHit func(*hammerdb.Source), newFn func() *hammerdb.Source) *hammerdb.Source {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	t := sh.loadTable()
	idx := bucketIndex(code, len(t.buckets))
	for n := (*node)(atomic.LoadPointer(&t.buckets[idx])); n != nil; n = (*node)(atomic.LoadPointer(&n.next)) {
		if n.key == code {
			v := (*hammerdb.Source)(atomic.LoadPointer(&n.value))
			onHit(v)
			return v
		}
	}

	v := newFn()
	n := &node{key: code, value: unsafe.Pointer(v), next: t.buckets[idx]}
	atomic.StorePointer(&t.buckets[idx], unsafe.Pointer(n))
	newSize := atomic.AddInt32(&sh.size, 1)
	if len(t.buckets) < maxChain && float64(newSize)/float64(len(t.buckets)) > 0.75 {
		sh.grow(t)
	}
	return v
}

// grow doubles-plus-one the table and rehashes into freshly allocated
// nodes, leaving the old table (and its nodes) untouched so any reader
// still holding it sees a consistent, if stale, view. Caller must hold mu.
func (sh *subhash) grow(old *bucketTable) {
	newLen := 2*len(old.buckets) + 1
	if newLen > maxChain {
		newLen = maxChain
	}
	nt := &bucketTable{buckets: make([]unsafe.Pointer, newLen)}
	for _, head := range old.buckets {
		for n := (*node)(head); n != nil; n = (*node)(atomic.LoadPointer(&n.next)) {
			idx := bucketIndex(n.key, newLen)
			nn := &node{key: n.key, value: atomic.LoadPointer(&n.value), next: nt.buckets[idx]}
			nt.buckets[idx] = unsafe.Pointer(nn)
		}
	}
	sh.table.Store(nt)
}

func (sh *subhash) iterate(k int, yield func(kmer string, v *hammerdb.Source) bool) bool {
	t := sh.loadTable()
	for _, head := range t.buckets {
		for n := (*node)(head); n != nil; n = (*node)(n.next) {
			v := (*hammerdb.Source)(n.value)
			if !yield(string(hammerdb.Decode(n.key, k)), v) {
				return false
			}
		}
	}
	return true
}

func (sh *subhash) maxChainLen() int {
	t := sh.loadTable()
	max := 0
	for _, head := range t.buckets {
		n := 0
		for cur := (*node)(head); cur != nil; cur = (*node)(cur.next) {
			n++
		}
		if n > max {
			max = n
		}
	}
	return max
}

// Map is the two-level hammer -> Source map described in spec.md §3/§4.2.
type Map struct {
	k          int
	buckets    []*subhash
	generation int64 // atomic; bumped on every structural mutation
	size       int64 // atomic
}

// New allocates a Map for k-mers of length k (1<=k<=31), with
// 4^max(0,k-15) first-level buckets.
func New(k int) (*Map, error) {
	if k < 1 || k > hammerdb.MaxK {
		return nil, hammerdb.ErrUnsupportedK
	}
	numBuckets := 1
	if k > 15 {
		numBuckets = 1 << uint(2*(k-15))
	}
	m := &Map{k: k, buckets: make([]*subhash, numBuckets)}
	for i := range m.buckets {
		m.buckets[i] = newSubhash()
	}
	return m, nil
}

// K returns the k-mer length this map was built for.
func (m *Map) K() int { return m.k }

func (m *Map) bucketFor(code hammerdb.Code) *subhash {
	idx := uint64(code) >> lowBits
	if int(idx) >= len(m.buckets) {
		idx %= uint64(len(m.buckets))
	}
	return m.buckets[idx]
}

// Insert installs or replaces code -> value. It fails only for
// hammerdb.InvalidCode.
func (m *Map) Insert(code hammerdb.Code, value *hammerdb.Source) (InsertResult, error) {
	if code == hammerdb.InvalidCode {
		return Added, hammerdb.ErrIllegalBase
	}
	r := m.bucketFor(code).insert(code, value)
	if r == Added {
		atomic.AddInt64(&m.size, 1)
	}
	atomic.AddInt64(&m.generation, 1)
	return r, nil
}

// Get looks up code, returning its Source if present.
func (m *Map) Get(code hammerdb.Code) (*hammerdb.Source, bool) {
	if code == hammerdb.InvalidCode {
		return nil, false
	}
	return m.bucketFor(code).get(code)
}

// GetOrInsertWith atomically looks up code: if present, onHit is called
// with the current value; otherwise newFn() is installed. The resulting
// (existing or new) value is returned.
func (m *Map) GetOrInsertWith(code hammerdb.Code, onHit func(*hammerdb.Source), newFn func() *hammerdb.Source) *hammerdb.Source {
	added := false
	v := m.bucketFor(code).getOrInsertWith(code, onHit, func() *hammerdb.Source {
		added = true
		return newFn()
	})
	if added {
		atomic.AddInt64(&m.size, 1)
		atomic.AddInt64(&m.generation, 1)
	}
	return v
}

// Size returns the total number of entries across all buckets.
func (m *Map) Size() int64 {
	return atomic.LoadInt64(&m.size)
}

// LoadFactor is total nodes / total slots across every sub-hash.
func (m *Map) LoadFactor() float64 {
	var nodes, slots int64
	for _, sh := range m.buckets {
		t := sh.loadTable()
		slots += int64(len(t.buckets))
		nodes += int64(atomic.LoadInt32(&sh.size))
	}
	if slots == 0 {
		return 0
	}
	return float64(nodes) / float64(slots)
}

// OverloadFactor is the ratio of the longest chain in any sub-hash to the
// map's overall ideal (average) chain length; 1.0 means perfectly even.
func (m *Map) OverloadFactor() float64 {
	ideal := m.LoadFactor()
	if ideal == 0 {
		return 0
	}
	max := 0
	for _, sh := range m.buckets {
		if l := sh.maxChainLen(); l > max {
			max = l
		}
	}
	return float64(max) / ideal
}

// Iterate yields (decoded k-mer, Source) for every entry. It returns
// ErrIterationWhileMutating if a mutation was observed to happen during
// the walk; it is the caller's responsibility to not mutate
// concurrently, this is a best-effort debug guard only.
func (m *Map) Iterate(yield func(kmer string, v *hammerdb.Source) bool) error {
	gen0 := atomic.LoadInt64(&m.generation)
	for _, sh := range m.buckets {
		if !sh.iterate(m.k, yield) {
			break
		}
	}
	if atomic.LoadInt64(&m.generation) != gen0 {
		return hammerdb.ErrIterationWhileMutating
	}
	return nil
}

// Anchorize marks as bad every hammer with no single-base-substitution
// neighbor also present in the map. It scans the map once and mutates in
// place; it must not run concurrently with queries or inserts.
func (m *Map) Anchorize() {
	bases := [4]byte{'A', 'C', 'G', 'T'}
	type entry struct {
		code hammerdb.Code
		src  *hammerdb.Source
	}
	var all []entry
	// Collect codes directly (Iterate only exposes decoded strings, but
	// Anchorize needs the codes to build neighbors cheaply).
	for _, sh := range m.buckets {
		t := sh.loadTable()
		for _, head := range t.buckets {
			for n := (*node)(head); n != nil; n = (*node)(n.next) {
				all = append(all, entry{code: n.key, src: (*hammerdb.Source)(n.value)})
			}
		}
	}

	k := m.k
	for _, e := range all {
		found := false
		for pos := 0; pos < k && !found; pos++ {
			shift := uint(pos * 2)
			orig := (uint64(e.code) >> shift) & 3
			for _, b := range bases {
				var bits uint64
				switch b {
				case 'A':
					bits = 0
				case 'C':
					bits = 1
				case 'G':
					bits = 2
				case 'T':
					bits = 3
				}
				if bits == orig {
					continue
				}
				neighbor := hammerdb.Code((uint64(e.code) &^ (3 << shift)) | (bits << shift))
				if _, ok := m.Get(neighbor); ok {
					found = true
					break
				}
			}
		}
		if !found {
			e.src.MarkBad()
		}
	}
}
