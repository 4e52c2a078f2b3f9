package proximity

import (
	"cmp"
	"slices"

	"trailmap/pkg/geo"
	"trailmap/pkg/place"
)

// candidate is a place under consideration, keyed by squared distance,
// then y, then id.
type candidate struct {
	sq geo.SquaredDistance
	y  int
	id place.ID
}

func compareCandidates(a, b candidate) int {
	return cmp.Or(a.sq.Compare(b.sq), cmp.Compare(a.y, b.y), cmp.Compare(a.id, b.id))
}

// boundedHeap is a fixed-capacity max-heap keeping the k best candidates.
// The root is the worst candidate kept.
type boundedHeap struct {
	items []candidate
	limit int
}

func newBoundedHeap(k int) *boundedHeap {
	return &boundedHeap{items: make([]candidate, 0, k), limit: k}
}

func (h *boundedHeap) full() bool { return len(h.items) == h.limit }

func (h *boundedHeap) worst() candidate { return h.items[0] }

// offer adds c if there is room, or replaces the worst candidate if c is better.
func (h *boundedHeap) offer(c candidate) {
	if !h.full() {
		h.items = append(h.items, c)
		h.siftUp(len(h.items) - 1)
		return
	}
	if compareCandidates(c, h.items[0]) >= 0 {
		return
	}
	h.items[0] = c
	h.siftDown(0)
}

// sorted returns the kept candidates best first.
func (h *boundedHeap) sorted() []candidate {
	out := slices.Clone(h.items)
	slices.SortFunc(out, compareCandidates)
	return out
}

func (h *boundedHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if compareCandidates(h.items[i], h.items[parent]) <= 0 {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *boundedHeap) siftDown(i int) {
	n := len(h.items)
	for {
		largest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && compareCandidates(h.items[left], h.items[largest]) > 0 {
			largest = left
		}
		if right < n && compareCandidates(h.items[right], h.items[largest]) > 0 {
			largest = right
		}
		if largest == i {
			break
		}
		h.items[i], h.items[largest] = h.items[largest], h.items[i]
		i = largest
	}
}
