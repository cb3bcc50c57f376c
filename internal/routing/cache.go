package routing

import (
	"sync"
	"sync/atomic"

	"github.com/talgya/hexroute/internal/movement"
)

// cacheKey identifies one cache generation. Any change of origin or
// movement budget invalidates the whole cache: the frontier structure
// is rooted at the origin, so there is no partial reuse across moves.
type cacheKey struct {
	origin       int
	movementLeft movement.Points
	fullMovement movement.Points
}

// Reachable describes one tile reachable within the current turn.
type Reachable struct {
	// Parent is the preceding tile on the optimal same-turn route, or
	// -1 at the origin.
	Parent int

	// Used is the cumulative movement spent to reach the tile.
	Used movement.Points
}

// routeCache is the mutable per-origin search state shared by all
// queries against one validity key.
//
// The node array is shared between the cache and every fork; slots are
// read and written with atomic operations because concurrent searches
// may race on a tile. Such races are benign: every write is
// equal-or-better under node ordering, ties keep the first writer, and
// readers re-read before use, so which improvement wins never affects
// the correctness of the final state.
//
// The two bitsets are the part that genuinely needs exclusion: forks
// clone them and merges fold them back under the cache mutex.
type routeCache struct {
	key   cacheKey
	nodes []uint64

	mu        sync.Mutex
	frontier  *bitset // discovered, neighbors not yet expanded
	finalized *bitset // neighbors fully expanded
	reopened  *bitset // finalized tiles rewritten with less damage, awaiting re-expansion
	reachable map[int]Reachable
}

// newRouteCache builds a cache seeded with a root node at the origin.
// The root carries the movement already spent this turn so same-turn
// reachability respects a partially moved unit.
func newRouteCache(key cacheKey, numTiles int) *routeCache {
	if numTiles <= 0 || numTiles > MaxTiles {
		panic("routing: board size out of range")
	}
	c := &routeCache{
		key:       key,
		nodes:     make([]uint64, numTiles),
		frontier:  newBitset(numTiles),
		finalized: newBitset(numTiles),
		reopened:  newBitset(numTiles),
	}
	used := (key.fullMovement - key.movementLeft).Clamp(0, movement.Max)
	c.setNode(key.origin, rootNode(key.origin, used))
	c.frontier.set(key.origin)
	return c
}

// isValid reports whether the cache serves the given key.
func (c *routeCache) isValid(key cacheKey) bool {
	return c.key == key
}

// node reads the packed node for a tile.
func (c *routeCache) node(i int) Node {
	return Node(atomic.LoadUint64(&c.nodes[i]))
}

// setNode writes the packed node for a tile.
func (c *routeCache) setNode(i int, n Node) {
	atomic.StoreUint64(&c.nodes[i], uint64(n))
}

// fork returns a private view for one search: the same backing node
// array, with independently cloned frontier/finalized bitsets so the
// worker can expand without other in-flight frontier state interfering.
func (c *routeCache) fork() *routeCache {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &routeCache{
		key:       c.key,
		nodes:     c.nodes,
		frontier:  c.frontier.clone(),
		finalized: c.finalized.clone(),
		reopened:  newBitset(len(c.nodes)),
	}
}

// merge folds a fork's results back: its finalized tiles become
// finalized here, are dropped from the shared frontier, and its
// still-open frontier tiles (minus anything finalized) join the shared
// frontier. Tiles the fork reopened with a damage improvement but did
// not get to re-expand shed their stale finalized bit, so a later
// search carries the improvement onward. Atomic with respect to other
// merges via the cache mutex.
func (c *routeCache) merge(f *routeCache) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finalized.or(f.finalized)
	c.finalized.andNot(f.reopened)
	c.frontier.or(f.frontier)
	c.frontier.andNot(c.finalized)
}

// hasFrontier reports whether any tile still awaits expansion.
func (c *routeCache) hasFrontier() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frontier.any()
}

// clear resets all search state for reuse without reallocating the
// backing arrays. The validity key is kept; the root is reseeded.
func (c *routeCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.nodes {
		atomic.StoreUint64(&c.nodes[i], 0)
	}
	c.frontier.reset()
	c.finalized.reset()
	c.reopened.reset()
	c.reachable = nil
	used := (c.key.fullMovement - c.key.movementLeft).Clamp(0, movement.Max)
	c.setNode(c.key.origin, rootNode(c.key.origin, used))
	c.frontier.set(c.key.origin)
}
