package reel

// FrameState is the logical state in effect at one frame: which scene is active
// and its elements in paint order. Drawing them is up to the caller.
type FrameState struct {
	Number     int
	Scene      string
	SceneIndex int
	Transition float64
	Elements   []Element
}

// rankedElement pairs an element with its sort keys for one Render call.
type rankedElement struct {
	element  Element
	priority int
	order    int // insertion order, for stable sort
}

// sortedElements returns a new slice holding the scene's elements sorted by
// ascending priority. Priorities are read once per call.
func (s *Scene) sortedElements() []Element {
	n := len(s.elements)
	out := make([]Element, n)
	if n == 0 {
		return out
	}

	if cap(s.sortBuf) < 2*n {
		s.sortBuf = make([]rankedElement, 2*n)
	}
	s.sortBuf = s.sortBuf[:2*n]
	ranked := s.sortBuf[:n]
	for i, e := range s.elements {
		ranked[i] = rankedElement{element: e, priority: e.Priority(), order: i}
	}

	sorted := mergeSort(ranked, s.sortBuf[n:])
	for i := range sorted {
		out[i] = sorted[i].element
	}
	for i := range s.sortBuf {
		s.sortBuf[i].element = nil
	}
	return out
}

// rankedLessOrEqual returns true if a should sort before or at the same
// position as b. Using <= for order ensures stability.
func rankedLessOrEqual(a, b rankedElement) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.order <= b.order
}

// mergeSort sorts a using b as scratch space and returns whichever of the two
// holds the result. Bottom-up merge sort: zero allocations.
func mergeSort(a, b []rankedElement) []rankedElement {
	n := len(a)
	if n <= 1 {
		return a
	}

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := lo + width
			if mid > n {
				mid = n
			}
			hi := lo + 2*width
			if hi > n {
				hi = n
			}
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
	}
	return a
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []rankedElement, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if rankedLessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}

// Nodes returns the state of every Node element in paint order. Other
// element types are skipped.
func (f FrameState) Nodes() []NodeState {
	out := make([]NodeState, 0, len(f.Elements))
	for _, e := range f.Elements {
		if n, ok := e.(*Node); ok {
			out = append(out, n.State())
		}
	}
	return out
}
