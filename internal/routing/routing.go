// Package routing implements a cached, incremental multi-turn A*
// pathfinding engine for hex-grid maps.
//
// The engine optimizes turn count first, not raw movement sum: ending a
// turn with leftover movement is free, so a longer road route that
// arrives a turn earlier beats a short route through rough terrain.
// Paths that end turns on damaging terrain are avoided ahead of
// everything else. Search state is packed into flat uint64 arrays so
// the hot path performs no per-node allocation, and partial results are
// cached per origin so repeated queries resume rather than restart.
//
// The tile model is consumed through the Board interface and a bundle
// of pure policy callbacks (Rules); the engine itself knows nothing
// about terrain, units, or diplomacy beyond what those return.
package routing

import "github.com/talgya/hexroute/internal/movement"

// Direction identifies one of the six hex-neighbor edges. The zero
// value is reserved so a packed node word of zero always means
// "uninitialized"; valid edges are 1..6 and DirNone marks a root node.
type Direction uint8

const (
	// DirNone marks a node with no parent (the search origin).
	DirNone Direction = 7

	numDirections = 6
)

// Opposite returns the direction pointing back along the same edge.
func (d Direction) Opposite() Direction {
	if d < 1 || d > numDirections {
		panic("routing: Opposite of invalid direction")
	}
	return (d-1+3)%6 + 1
}

// Board is the tile model the engine searches over. Implementations
// expose dense 0-based tile indices so node state can live in flat
// arrays. All methods must be safe for concurrent use and stable for
// the lifetime of a cache generation.
type Board interface {
	// NumTiles returns the tile count; valid indices are [0, NumTiles).
	NumTiles() int

	// Neighbor returns the index of the tile adjacent to t along d, or
	// -1 when the edge leaves the board.
	Neighbor(t int, d Direction) int

	// Distance returns the hex-grid distance between two tiles, used
	// only as the admissible heuristic's straight-line estimate.
	Distance(a, b int) int
}

// Relationship is the diplomatic standing of a tile's owner toward the
// searching party. Higher values are friendlier; ties between otherwise
// equal routes prefer friendlier territory.
type Relationship uint8

const (
	RelationWar Relationship = iota
	RelationEnemy
	RelationNeutral
	RelationFriend
	RelationAlly
)

// relationStored inverts a relationship for packing: friendlier packs
// smaller, so raw uint64 min-ordering prefers it on ties.
func relationStored(r Relationship) uint64 {
	if r > RelationAlly {
		r = RelationAlly
	}
	return uint64(RelationAlly - r)
}

// Rules bundles the policy callbacks that parameterize a search. Every
// function must be pure over a single cache generation: the engine
// memoizes aggressively and never re-asks a question it has answered.
type Rules struct {
	// MoveThrough reports whether the tile may ever be entered.
	MoveThrough func(t int) bool

	// EdgeCost returns the movement cost of crossing from a tile to an
	// adjacent one. Costs are clamped to the mover's per-turn budget
	// before use.
	EdgeCost func(from, to int) movement.Points

	// EndTurnDamage returns the damage incurred by ending a turn on
	// the tile; zero means safe.
	EndTurnDamage func(t int) int

	// RoadCost returns the best-case single-tile cost used by the
	// admissible heuristic. It must never exceed the true cheapest
	// edge cost reachable by the mover, or optimality is lost.
	RoadCost func(t int) movement.Points

	// Relationship returns the diplomatic standing of the tile's
	// owner.
	Relationship func(t int) Relationship
}

// Mover supplies the caller-side state a PathMap keys its cache by.
// The validity key is recomputed from these on every query; any change
// discards the cache wholesale.
type Mover interface {
	// Tile returns the mover's current tile index.
	Tile() int

	// MovementLeft returns the movement remaining this turn.
	MovementLeft() movement.Points

	// FullMovement returns the full per-turn movement budget.
	FullMovement() movement.Points
}
