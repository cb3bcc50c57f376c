package routing

import "math/bits"

// bitset is a fixed-capacity bit array over uint64 words. The frontier
// and finalized sets are bitsets so that forking a cache clones two
// small word slices instead of copying node state.
type bitset struct {
	words []uint64
}

func newBitset(n int) *bitset {
	return &bitset{words: make([]uint64, (n+63)/64)}
}

func (b *bitset) set(i int) {
	b.words[i>>6] |= 1 << (uint(i) & 63)
}

func (b *bitset) unset(i int) {
	b.words[i>>6] &^= 1 << (uint(i) & 63)
}

func (b *bitset) get(i int) bool {
	return b.words[i>>6]&(1<<(uint(i)&63)) != 0
}

// clone returns an independent copy with the same bits.
func (b *bitset) clone() *bitset {
	w := make([]uint64, len(b.words))
	copy(w, b.words)
	return &bitset{words: w}
}

// or folds every bit of o into b.
func (b *bitset) or(o *bitset) {
	for i, w := range o.words {
		b.words[i] |= w
	}
}

// andNot clears every bit of b that is set in o.
func (b *bitset) andNot(o *bitset) {
	for i, w := range o.words {
		b.words[i] &^= w
	}
}

// any reports whether at least one bit is set.
func (b *bitset) any() bool {
	for _, w := range b.words {
		if w != 0 {
			return true
		}
	}
	return false
}

// count returns the number of set bits.
func (b *bitset) count() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// forEach calls fn with each set bit index in ascending order.
func (b *bitset) forEach(fn func(i int)) {
	for wi, w := range b.words {
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			fn(wi<<6 + bit)
			w &= w - 1
		}
	}
}

// reset clears every bit without reallocating.
func (b *bitset) reset() {
	for i := range b.words {
		b.words[i] = 0
	}
}
