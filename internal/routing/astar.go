package routing

import "github.com/talgya/hexroute/internal/movement"

// pathfinder runs one incremental search against a cache fork. It
// pulls the best frontier node, expands its neighbors under the
// multi-turn cost model, and stops when the destination's node becomes
// initialized (by this search or, through the shared node array, by a
// concurrent one), the frontier empties, or the turn ceiling is hit.
//
// Nodes whose turn count already meets the ceiling are never expanded;
// they stay frontier-open so a later query with a longer budget can
// continue from them instead of restarting.
type pathfinder struct {
	board Board
	rules Rules
	cache *routeCache // a fork, never the shared cache
	full  movement.Points
	dest  int // -1 in reachable-set mode
	limit int // turn ceiling

	// minTileCost is the admissible per-tile lower bound: the cheapest
	// edge the mover could possibly cross, taken from the best road
	// tier. In reachable-set mode it is a minimal positive constant
	// that only keeps the queue well ordered.
	minTileCost movement.Points

	open     *Uint64Heap
	expanded int
}

func newPathfinder(board Board, rules Rules, fork *routeCache, dest, maxTurns int) *pathfinder {
	p := &pathfinder{
		board: board,
		rules: rules,
		cache: fork,
		full:  fork.key.fullMovement,
		dest:  dest,
		limit: maxTurns,
	}
	if p.limit > MaxTurns {
		p.limit = MaxTurns
	}
	if dest >= 0 {
		p.minTileCost = rules.RoadCost(dest).AtLeast(1)
	} else {
		p.minTileCost = 1
	}

	// Seed the queue from every tile still needing neighbor expansion.
	p.open = NewUint64Heap(fork.frontier.count())
	fork.frontier.forEach(func(i int) {
		n := fork.node(i)
		if n.Initialized() && !n.Unreachable() {
			p.open.Add(uint64(p.prioritize(n)))
		}
	})
	return p
}

// prioritize computes the node's underestimated total cost: movement
// spent across all turns so far plus the best-case cost of the
// remaining straight-line distance. Never overestimates, which A*
// optimality depends on.
func (p *pathfinder) prioritize(n Node) prioritized {
	spent := movement.Points(n.Turns())*p.full + n.MovementUsed()
	remaining := p.minTileCost
	if p.dest >= 0 {
		remaining = movement.Points(p.board.Distance(n.Tile(), p.dest)) * p.minTileCost
	}
	return prioritize(n, spent+remaining)
}

// run drives the search to one of its three stopping conditions.
func (p *pathfinder) run() {
	for {
		if p.dest >= 0 && p.cache.node(p.dest).Initialized() {
			return
		}
		v, ok := p.open.Poll()
		if !ok {
			return
		}
		cur := prioritized(v).node()
		tile := cur.Tile()
		if p.cache.finalized.get(tile) {
			continue // stale queue entry
		}
		// The slot may have been improved since this entry was queued;
		// always expand the recorded state.
		cur = p.cache.node(tile)
		if !cur.Initialized() || cur.Unreachable() {
			continue
		}
		if cur.Turns() >= p.limit {
			// Left frontier-open for a future continuation.
			continue
		}
		p.expand(cur)
	}
}

// expand computes neighbor nodes for cur, queues the improvements, and
// finalizes cur.
func (p *pathfinder) expand(cur Node) {
	tile := cur.Tile()
	for d := Direction(1); d <= numDirections; d++ {
		nb := p.board.Neighbor(tile, d)
		if nb < 0 {
			continue
		}
		if !p.neighborNeedsCalculating(cur, nb) {
			continue
		}
		if !p.rules.MoveThrough(nb) {
			// Settle the question permanently so no search re-asks.
			p.cache.setNode(nb, noPathNode(nb))
			p.cache.finalized.set(nb)
			continue
		}
		next := p.calculateNeighborNode(cur, nb, d)
		p.cache.setNode(nb, next)
		p.cache.frontier.set(nb)
		if p.cache.finalized.get(nb) {
			// A strictly better damage count rewrote a tile that was
			// already finalized; reopen it so the improvement is
			// expanded onward instead of dying in the slot.
			p.cache.finalized.unset(nb)
			p.cache.reopened.set(nb)
		}
		p.open.Add(uint64(p.prioritize(next)))
	}
	p.cache.frontier.unset(tile)
	p.cache.finalized.set(tile)
	p.cache.reopened.unset(tile)
	p.expanded++
}

// neighborNeedsCalculating reports whether the neighbor's slot could
// still be improved from cur. A tile already recorded, queued or
// finalized, with an equal-or-better damage count is left alone; this
// monotonic "equal-or-better wins, ties keep first" rule is what makes
// concurrent forks safe to merge without node-level locking.
func (p *pathfinder) neighborNeedsCalculating(cur Node, nb int) bool {
	existing := p.cache.node(nb)
	if !existing.Initialized() {
		return true
	}
	if existing.Unreachable() {
		return false
	}
	return existing.DamageCrossed() > cur.DamageCrossed()
}

// calculateNeighborNode applies the multi-turn cost model to one edge.
// Four outcomes, tried in order:
//
//  1. Same turn: enough budget remains; if the neighbor is damaging,
//     budget must be left over afterwards so the mover can in
//     principle keep going rather than end its turn there.
//  2. Next turn: the current tile is safe to end a turn on, so reset
//     movement and cross on a fresh budget.
//  3. Retroactive pause: re-evaluate as though the mover had stopped
//     immediately before the current damaging streak; if the streak
//     plus this edge then fits one fresh turn, reroot the turn
//     accounting there.
//  4. Take the damage: ending the turn inside damaging terrain is
//     unavoidable. Increment the damage counter; the comparator's
//     damage-first ordering deprioritizes everything downstream of it.
func (p *pathfinder) calculateNeighborNode(cur Node, nb int, d Direction) Node {
	edge := p.rules.EdgeCost(cur.Tile(), nb).Clamp(1, p.full)
	damaging := p.rules.EndTurnDamage(nb) > 0
	rel := p.rules.Relationship(nb)
	parent := d.Opposite()

	used := cur.MovementUsed()
	remaining := p.full - used

	// 1. Same-turn move.
	if remaining > edge || (remaining == edge && !damaging) {
		pause := movement.Points(0)
		if damaging {
			if p.rules.EndTurnDamage(cur.Tile()) > 0 {
				// Already inside the streak; keep its entry point. Zero
				// means the streak began at the turn start, where no
				// retroactive pause exists.
				pause = cur.PauseMovement()
			} else {
				pause = used
			}
		}
		return newNode(nb, rel, pause, used+edge, cur.Turns(), parent, cur.DamageCrossed())
	}

	nextTurns := cur.Turns() + 1
	if nextTurns > MaxTurns {
		// Beyond reliable range; clamp rather than reject so distant
		// tiles still read as found.
		nextTurns = MaxTurns
	}

	// 2. End the turn here, cross next turn.
	if p.rules.EndTurnDamage(cur.Tile()) == 0 {
		return newNode(nb, rel, 0, edge, nextTurns, parent, cur.DamageCrossed())
	}

	// 3. Retroactive pause before the streak.
	if pause := cur.PauseMovement(); pause > 0 {
		inStreak := used - pause
		left := p.full - inStreak
		if left > edge || (left == edge && !damaging) {
			return newNode(nb, rel, 0, inStreak+edge, nextTurns, parent, cur.DamageCrossed())
		}
	}

	// 4. Accept the damage.
	damage := cur.DamageCrossed() + 1
	if damage > maxDamage {
		damage = maxDamage
	}
	return newNode(nb, rel, 0, edge, nextTurns, parent, damage)
}
