package reel

import (
	"sort"
	"testing"
)

// box is a minimal Element for ordering tests.
type box struct {
	name string
	z    int
}

func (b *box) Priority() int { return b.z }

func names(elements []Element) []string {
	out := make([]string, len(elements))
	for i, e := range elements {
		switch v := e.(type) {
		case *box:
			out[i] = v.name
		case *Node:
			out[i] = v.Name
		}
	}
	return out
}

// --- Paint order ---

func TestRenderAscendingPriority(t *testing.T) {
	s := NewScene("r", nil, nil)
	s.AddElement(&box{"c", 2})
	s.AddElement(&box{"a", 0})
	s.AddElement(&box{"b", 1})

	got := names(s.Render())
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRenderStableOnTies(t *testing.T) {
	s := NewScene("r", nil, nil)
	s.AddElement(&box{"x1", 1})
	s.AddElement(&box{"y1", 0})
	s.AddElement(&box{"x2", 1})
	s.AddElement(&box{"y2", 0})
	s.AddElement(&box{"x3", 1})

	got := names(s.Render())
	want := []string{"y1", "y2", "x1", "x2", "x3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRenderReadsPriorityEachCall(t *testing.T) {
	s := NewScene("r", nil, nil)
	a := NewNode("a")
	b := NewNode("b")
	s.AddElement(a)
	s.AddElement(b)

	a.SetZIndex(5)
	if got := names(s.Render()); got[0] != "b" {
		t.Errorf("order = %v, want b first", got)
	}
	a.SetZIndex(-5)
	if got := names(s.Render()); got[0] != "a" {
		t.Errorf("order = %v, want a first", got)
	}
}

func TestRenderDoesNotAliasElements(t *testing.T) {
	s := NewScene("r", nil, nil)
	s.AddElement(&box{"b", 1})
	s.AddElement(&box{"a", 0})

	out := s.Render()
	out[0] = nil
	if s.Elements()[0] == nil || s.Elements()[1] == nil {
		t.Error("Render output must not alias scene elements")
	}
}

func TestFrameStateNodesSkipsOtherElements(t *testing.T) {
	n := NewNode("n")
	f := FrameState{Elements: []Element{&box{"b", 0}, n}}
	nodes := f.Nodes()
	if len(nodes) != 1 || nodes[0].Name != "n" {
		t.Errorf("Nodes = %+v, want only n", nodes)
	}
}

// --- Merge sort ---

func TestMergeSortMatchesStdlib(t *testing.T) {
	// Varied priorities with repeated values.
	priorities := []int{2, 0, 0, 1, 0, 2, -3, 1, 0}
	ranked := make([]rankedElement, len(priorities))
	for i, p := range priorities {
		ranked[i] = rankedElement{priority: p, order: i}
	}

	// Reference: stdlib stable sort
	ref := make([]rankedElement, len(ranked))
	copy(ref, ranked)
	sort.SliceStable(ref, func(i, j int) bool { return ref[i].priority < ref[j].priority })

	// Our merge sort
	sorted := mergeSort(ranked, make([]rankedElement, len(ranked)))

	for i := range sorted {
		a, b := sorted[i], ref[i]
		if a.priority != b.priority || a.order != b.order {
			t.Errorf("index %d: mergeSort=(%d,%d), stdlib=(%d,%d)", i, a.priority, a.order, b.priority, b.order)
		}
	}
}

func TestMergeSortStable(t *testing.T) {
	// All same priority: insertion order should be preserved.
	ranked := make([]rankedElement, 100)
	for i := range ranked {
		ranked[i] = rankedElement{order: i}
	}

	sorted := mergeSort(ranked, make([]rankedElement, len(ranked)))

	for i := range sorted {
		if sorted[i].order != i {
			t.Fatalf("stability broken at index %d: order=%d", i, sorted[i].order)
		}
	}
}

func TestMergeSortBufferReuse(t *testing.T) {
	s := NewScene("r", nil, nil)

	// First sort: allocates buffer
	for i := 0; i < 50; i++ {
		s.AddElement(&box{"e", 50 - i})
	}
	s.Render()
	bufCap := cap(s.sortBuf)

	// Second sort with fewer elements: should not reallocate
	for i := 0; i < 20; i++ {
		s.RemoveElement(s.Elements()[0])
	}
	s.Render()

	if cap(s.sortBuf) != bufCap {
		t.Errorf("sortBuf reallocated: was %d, now %d", bufCap, cap(s.sortBuf))
	}
}

func TestMergeSortEmpty(t *testing.T) {
	s := NewScene("r", nil, nil)
	if out := s.Render(); len(out) != 0 {
		t.Errorf("Render = %v, want empty", out)
	}
}

func TestMergeSortSingleElement(t *testing.T) {
	ranked := []rankedElement{{priority: 3, order: 0}}
	sorted := mergeSort(ranked, make([]rankedElement, 1))
	if len(sorted) != 1 || sorted[0].priority != 3 {
		t.Error("single element should remain unchanged")
	}
}
