package routing

import (
	"log/slog"
	"sync/atomic"
)

// DefaultMaxTurns bounds a query when the caller has no opinion. The
// packed turn field allows up to MaxTurns, but planning that far ahead
// is rarely useful and bounds worst-case query latency.
const DefaultMaxTurns = 20

// PathMap is the public face of the engine: it owns the cache for one
// mover, lazily rebuilds it when the mover's position or movement
// budget changes, and answers path and reachability queries, searching
// only the regions the cache has not yet resolved.
//
// PathMap queries are safe for concurrent use: simultaneous queries
// against the same cache generation each search a private fork and
// merge results back. Clear is the exception; see its doc.
type PathMap struct {
	board Board
	rules Rules
	mover Mover
	cache atomic.Pointer[routeCache]
}

// New builds a PathMap for one mover over one board with the given
// policy callbacks.
func New(board Board, mover Mover, rules Rules) *PathMap {
	if board.NumTiles() > MaxTiles {
		panic("routing: board exceeds MaxTiles")
	}
	return &PathMap{board: board, rules: rules, mover: mover}
}

// current returns the live cache for the mover's present state,
// building one if the validity key changed. When two queries race to
// rebuild, compare-and-swap lets exactly one new cache win; the loser
// re-reads and uses the winner's.
func (p *PathMap) current() *routeCache {
	key := cacheKey{
		origin:       p.mover.Tile(),
		movementLeft: p.mover.MovementLeft(),
		fullMovement: p.mover.FullMovement(),
	}
	for {
		c := p.cache.Load()
		if c != nil && c.isValid(key) {
			return c
		}
		fresh := newRouteCache(key, p.board.NumTiles())
		if p.cache.CompareAndSwap(c, fresh) {
			return fresh
		}
	}
}

// ShortestPath returns the tile sequence of turn-ending waypoints from
// the mover's tile to dest, inclusive of both, or nil when dest is
// unreachable within maxTurns. A destination equal to the origin
// yields a single-element path. maxTurns <= 0 selects DefaultMaxTurns.
//
// Results live in the cache: repeated calls with an unchanged mover
// state cost O(path length), not another search. A search cut off by
// the turn ceiling before reaching dest reports no path; partial
// approach paths are never returned.
func (p *PathMap) ShortestPath(dest int, maxTurns int) []int {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	c := p.current()
	if dest == c.key.origin {
		return []int{dest}
	}
	if !c.node(dest).Initialized() && c.hasFrontier() {
		fork := c.fork()
		pf := newPathfinder(p.board, p.rules, fork, dest, maxTurns)
		pf.run()
		c.merge(fork)
		slog.Debug("path search advanced", "dest", dest, "maxTurns", maxTurns, "expanded", pf.expanded)
	}
	n := c.node(dest)
	if !n.Initialized() || n.Unreachable() || n.Turns() > maxTurns {
		return nil
	}
	return p.reconstruct(c, dest)
}

// ReachableThisTurn returns every tile reachable within the mover's
// remaining movement this turn, with the parent tile and cumulative
// movement used to reach each. Computed once per cache generation.
func (p *PathMap) ReachableThisTurn() map[int]Reachable {
	c := p.current()

	c.mu.Lock()
	if c.reachable != nil {
		r := c.reachable
		c.mu.Unlock()
		return r
	}
	needSearch := c.frontier.any()
	c.mu.Unlock()

	if needSearch {
		fork := c.fork()
		pf := newPathfinder(p.board, p.rules, fork, -1, 1)
		pf.run()
		c.merge(fork)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reachable != nil {
		return c.reachable
	}
	result := make(map[int]Reachable)
	for i := range c.nodes {
		n := c.node(i)
		if !n.Initialized() || n.Unreachable() || n.Turns() != 0 {
			continue
		}
		result[i] = Reachable{Parent: n.ParentTile(p.board), Used: n.MovementUsed()}
	}
	c.reachable = result
	return result
}

// NodeAt exposes the cached node for a tile, for diagnostics and
// tooling. The zero Node means the tile has not been searched.
func (p *PathMap) NodeAt(tile int) Node {
	c := p.cache.Load()
	if c == nil || tile < 0 || tile >= len(c.nodes) {
		return 0
	}
	return c.node(tile)
}

// Clear drops the cache outright. Not thread-safe: the caller must
// hold exclusive access, with no queries in flight, when invalidating
// explicitly. (Implicit invalidation through a changed mover state
// needs no such care.)
func (p *PathMap) Clear() {
	p.cache.Store(nil)
}

// reconstruct walks parent links from dest back to the origin,
// emitting only turn-ending waypoints: a tile is included when its
// turn count is strictly below the last emitted one and it is not
// mid-streak on damaging terrain. The destination and origin are
// always included. The walk runs destination→origin; the returned
// slice is origin→destination.
func (p *PathMap) reconstruct(c *routeCache, dest int) []int {
	path := make([]int, 0, 8)
	tile := dest
	lastEmitted := c.node(dest).Turns() + 1
	for {
		n := c.node(tile)
		root := n.ParentDirection() == DirNone
		if tile == dest || root || (n.Turns() < lastEmitted && n.PauseMovement() == 0) {
			path = append(path, tile)
			lastEmitted = n.Turns()
		}
		if root {
			break
		}
		next := p.board.Neighbor(tile, n.ParentDirection())
		if next < 0 || next == tile {
			break // corrupted parent link; fail closed
		}
		tile = next
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
