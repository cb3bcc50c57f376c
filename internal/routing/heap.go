package routing

// Uint64Heap is a binary min-heap over raw uint64 values. It exists so
// the search frontier can hold packed node words without boxing: the
// backing store is a bare []uint64, every operation works in place, and
// no per-element allocation ever happens. container/heap is unsuitable
// here because its interface boxes every element through interface{}.
//
// The default order is numeric ascending, which both Node and
// prioritized exploit by encoding their primary sort keys in the high
// bits. A custom comparison can be supplied for other payloads.
//
// Uint64Heap is not safe for concurrent use. A modification counter
// increments on every structural change; iterators captured before a
// modification fail fast (panic) instead of silently yielding stale or
// corrupted results.
type Uint64Heap struct {
	items []uint64
	less  func(a, b uint64) bool // nil = numeric ascending
	mods  uint64
}

// NewUint64Heap returns an empty heap in numeric ascending order.
func NewUint64Heap(capacity int) *Uint64Heap {
	if capacity < 0 {
		capacity = 0
	}
	return &Uint64Heap{items: make([]uint64, 0, capacity)}
}

// NewUint64HeapFunc returns an empty heap ordered by less.
func NewUint64HeapFunc(capacity int, less func(a, b uint64) bool) *Uint64Heap {
	h := NewUint64Heap(capacity)
	h.less = less
	return h
}

func (h *Uint64Heap) cmp(a, b uint64) bool {
	if h.less == nil {
		return a < b
	}
	return h.less(a, b)
}

// Len returns the number of queued values.
func (h *Uint64Heap) Len() int {
	return len(h.items)
}

// Add inserts one value.
func (h *Uint64Heap) Add(v uint64) {
	h.mods++
	h.grow(1)
	h.items = append(h.items, v)
	h.siftUp(len(h.items) - 1)
}

// AddAll inserts every value. When the batch rivals the current size it
// appends everything and re-heapifies, which amortizes better than
// per-element bubble-up; empirically most bulk-added elements need zero
// or one swap either way.
func (h *Uint64Heap) AddAll(vs []uint64) {
	if len(vs) == 0 {
		return
	}
	h.mods++
	h.grow(len(vs))
	if len(vs) > len(h.items) {
		h.items = append(h.items, vs...)
		h.heapify()
		return
	}
	for _, v := range vs {
		h.items = append(h.items, v)
		h.siftUp(len(h.items) - 1)
	}
}

// Peek returns the minimum without removing it.
func (h *Uint64Heap) Peek() (uint64, bool) {
	if len(h.items) == 0 {
		return 0, false
	}
	return h.items[0], true
}

// Poll removes and returns the minimum.
func (h *Uint64Heap) Poll() (uint64, bool) {
	if len(h.items) == 0 {
		return 0, false
	}
	h.mods++
	min := h.items[0]
	last := len(h.items) - 1
	h.items[0] = h.items[last]
	h.items = h.items[:last]
	if last > 0 {
		h.siftDown(0)
	}
	return min, true
}

// Contains reports whether v is queued. Linear scan; the heap keeps no
// index.
func (h *Uint64Heap) Contains(v uint64) bool {
	for _, x := range h.items {
		if x == v {
			return true
		}
	}
	return false
}

// Remove deletes one occurrence of v, reporting whether it was found.
func (h *Uint64Heap) Remove(v uint64) bool {
	for i, x := range h.items {
		if x == v {
			h.removeAt(i)
			return true
		}
	}
	return false
}

// RemoveAll deletes every occurrence of each value, returning how many
// elements were removed.
func (h *Uint64Heap) RemoveAll(vs []uint64) int {
	removed := 0
	for _, v := range vs {
		for h.Remove(v) {
			removed++
		}
	}
	return removed
}

// RemoveIf deletes every value matching pred, returning the count.
// Survivors are compacted in place and the heap property restored with
// one heapify; deleting element by element would let removeAt's sift
// shuffle unvisited values into already-scanned slots.
func (h *Uint64Heap) RemoveIf(pred func(v uint64) bool) int {
	kept := h.items[:0]
	for _, v := range h.items {
		if !pred(v) {
			kept = append(kept, v)
		}
	}
	removed := len(h.items) - len(kept)
	if removed == 0 {
		return 0
	}
	h.mods++
	h.items = kept
	h.heapify()
	return removed
}

// Clear discards all values, keeping capacity.
func (h *Uint64Heap) Clear() {
	h.mods++
	h.items = h.items[:0]
}

// Drain repeatedly polls the minimum into fn until the heap is empty
// or fn returns false. This is the consuming view: values are removed
// as they are yielded.
func (h *Uint64Heap) Drain(fn func(v uint64) bool) {
	for {
		v, ok := h.Poll()
		if !ok {
			return
		}
		if !fn(v) {
			return
		}
	}
}

// Iterator returns a fail-fast iterator over the heap in storage order
// (not sorted order). Any structural modification of the heap after
// the iterator is created makes the next call to Next panic.
func (h *Uint64Heap) Iterator() *HeapIterator {
	return &HeapIterator{h: h, mods: h.mods}
}

// HeapIterator walks a Uint64Heap's backing store.
type HeapIterator struct {
	h    *Uint64Heap
	next int
	mods uint64
}

// Next returns the next value, or false when exhausted. Panics if the
// heap was structurally modified since the iterator was created.
func (it *HeapIterator) Next() (uint64, bool) {
	if it.mods != it.h.mods {
		panic("routing: Uint64Heap modified during iteration")
	}
	if it.next >= len(it.h.items) {
		return 0, false
	}
	v := it.h.items[it.next]
	it.next++
	return v, true
}

func (h *Uint64Heap) removeAt(i int) {
	h.mods++
	last := len(h.items) - 1
	h.items[i] = h.items[last]
	h.items = h.items[:last]
	if i < last {
		h.siftDown(i)
		h.siftUp(i)
	}
}

// grow ensures room for n more elements, expanding capacity by ~1.5x.
// Capacity never shrinks.
func (h *Uint64Heap) grow(n int) {
	need := len(h.items) + n
	if need <= cap(h.items) {
		return
	}
	newCap := cap(h.items) + cap(h.items)/2
	if newCap < need {
		newCap = need
	}
	if newCap < 8 {
		newCap = 8
	}
	items := make([]uint64, len(h.items), newCap)
	copy(items, h.items)
	h.items = items
}

func (h *Uint64Heap) heapify() {
	for i := len(h.items)/2 - 1; i >= 0; i-- {
		h.siftDown(i)
	}
}

func (h *Uint64Heap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.cmp(h.items[i], h.items[parent]) {
			return
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *Uint64Heap) siftDown(i int) {
	n := len(h.items)
	for {
		left := 2*i + 1
		if left >= n {
			return
		}
		least := left
		if right := left + 1; right < n && h.cmp(h.items[right], h.items[left]) {
			least = right
		}
		if !h.cmp(h.items[least], h.items[i]) {
			return
		}
		h.items[i], h.items[least] = h.items[least], h.items[i]
		i = least
	}
}
