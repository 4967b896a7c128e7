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

package scoremap

import (
	"fmt"
	"testing"
)

func TestAddAndSum(t *testing.T) {
	m := New()
	m.Add("g1", 1.0, "role1")
	m.Add("g1", 0.5, "role2")
	m.Add("g2", 2.0, "role1")

	e1, ok := m.Get("g1")
	if !ok || e1.Weight != 1.5 {
		t.Fatalf("g1 weight = %v, want 1.5", e1)
	}
	if len(e1.Roles) != 2 {
		t.Errorf("g1 role count = %d, want 2", len(e1.Roles))
	}
	if m.Sum() != 3.5 {
		t.Errorf("Sum() = %v, want 3.5", m.Sum())
	}
	if m.Size() != 2 {
		t.Errorf("Size() = %d, want 2", m.Size())
	}
}

func TestAddSameRoleAccumulates(t *testing.T) {
	m := New()
	m.Add("g1", 1.0, "role1")
	m.Add("g1", 1.0, "role1")
	e, _ := m.Get("g1")
	if e.Roles["role1"] != 2.0 {
		t.Errorf("role1 weight = %v, want 2.0", e.Roles["role1"])
	}
	if len(e.Roles) != 1 {
		t.Errorf("role set should not grow on repeat role, got %d", len(e.Roles))
	}
}

func TestAccumulate(t *testing.T) {
	a := New()
	a.Add("g1", 1.0, "role1")
	b := New()
	b.Add("g1", 2.0, "role1")
	b.Add("g2", 3.0, "role2")

	a.Accumulate(b, 1.0)

	e1, _ := a.Get("g1")
	if e1.Weight != 3.0 {
		t.Errorf("g1 weight after merge = %v, want 3.0", e1.Weight)
	}
	e2, ok := a.Get("g2")
	if !ok || e2.Weight != 3.0 {
		t.Errorf("g2 weight after merge = %v, want 3.0", e2)
	}
}

func TestAccumulateScaled(t *testing.T) {
	a := New()
	b := New()
	b.Add("g1", 10.0, "role1")

	a.Accumulate(b, 0.5)

	e, _ := a.Get("g1")
	if e.Weight != 5.0 {
		t.Errorf("g1 weight after scaled merge = %v, want 5.0", e.Weight)
	}
	if e.Roles["role1"] != 5.0 {
		t.Errorf("g1 role1 weight = %v, want 5.0", e.Roles["role1"])
	}
}

// TestSortedCountsOrder checks spec §5 "Score map" ordering: weight desc,
// role count desc, key asc.
func TestSortedCountsOrder(t *testing.T) {
	m := New()
	m.Add("b", 10.0, "r1")
	m.Add("a", 10.0, "r1")
	m.Add("a", 0.0, "r2") // same weight as b, but 2 roles > 1
	m.Add("c", 5.0, "r1")

	counts := m.SortedCounts()
	want := []string{"a", "b", "c"}
	if len(counts) != 3 {
		t.Fatalf("got %d counts, want 3", len(counts))
	}
	for i, w := range want {
		if counts[i].Key != w {
			t.Errorf("counts[%d].Key = %s, want %s", i, counts[i].Key, w)
		}
	}
}

// TestTopPicksHighestWeight mirrors spec §8 S4 data via the score map ordering path:
// {A: 10, B: 7} -> top is A.
func TestTopPicksHighestWeight(t *testing.T) {
	m := New()
	m.Add("A", 10, "r1")
	m.Add("B", 7, "r1")
	top, ok := m.Top()
	if !ok || top.Key != "A" {
		t.Fatalf("Top() = %v, %v, want A", top, ok)
	}
}

func TestTopEmpty(t *testing.T) {
	m := New()
	if _, ok := m.Top(); ok {
		t.Error("Top() on empty map should report false")
	}
}

func TestSortedCountsLargeUsesQuicksortPath(t *testing.T) {
	m := New()
	n := sortedCountsThreshold + 100
	for i := 0; i < n; i++ {
		m.Add(fmt.Sprintf("g%06d", n-i), float64(i), "r")
	}
	counts := m.SortedCounts()
	if len(counts) != n {
		t.Fatalf("got %d counts, want %d", len(counts), n)
	}
	for i := 1; i < len(counts); i++ {
		if counts[i].Weight > counts[i-1].Weight {
			t.Fatalf("not sorted desc at %d: %v > %v", i, counts[i].Weight, counts[i-1].Weight)
		}
	}
}

func TestSummaryMap(t *testing.T) {
	m := NewSummary()
	m.Add("g1", "role1", 1.0)
	m.Add("g1", "role2", 1.0)
	m.Add("g2", "role1", 1.0)

	e1, ok := m.Get("g1")
	if !ok || e1.MaxRoleCount != 2 {
		t.Fatalf("g1 = %v, %v, want MaxRoleCount 2", e1, ok)
	}

	counts := m.SortedCounts()
	if counts[0].Key != "g1" {
		t.Errorf("top summary key = %s, want g1", counts[0].Key)
	}
}
