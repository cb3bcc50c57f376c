package routing

import (
	"fmt"

	"github.com/talgya/hexroute/internal/movement"
)

// Node packs one search node's full state into a single uint64 so the
// hot path never allocates. Bit layout, most significant ordering field
// first (the 16 bits above are left clear; prioritized rearranges the
// word to splice its estimate in beneath the damage count):
//
//	bits 46..47  damage count     (2 bits, saturating at 3)
//	bits 40..45  turns            (6 bits, capped at 63)
//	bits 31..39  movement used    (9 bits, thirtieths)
//	bits 28..30  relationship     (3 bits, inverted: ally packs as 0)
//	bits 12..27  tile index       (16 bits)
//	bits  3..11  pause movement   (9 bits, thirtieths)
//	bits  0..2   parent direction (3 bits: 1..6 edge, 7 root)
//
// Raw uint64 comparison therefore orders nodes by damage taken, then
// turns, then movement used this turn, then relationship, with tile
// index as an arbitrary final tie-break. A zero word means
// "uninitialized": parent direction is never zero in a constructed
// node.
type Node uint64

const (
	parentShift = 0
	pauseShift  = 3
	tileShift   = 12
	relShift    = 28
	usedShift   = 31
	turnsShift  = 40
	damageShift = 46

	parentMask = 0x7
	pauseMask  = 0x1ff
	tileMask   = 0xffff
	relMask    = 0x7
	usedMask   = 0x1ff
	turnsMask  = 0x3f
	damageMask = 0x3

	// nodeBits covers every ordering field.
	nodeBits = uint64(1)<<48 - 1
)

// MaxTiles is the largest board the packed tile index can address.
const MaxTiles = tileMask + 1

// MaxTurns is the hard cap on the turns field. Nodes whose true turn
// count exceeds it are clamped here and results past this bound are
// approximate.
const MaxTurns = turnsMask

// maxDamage is the saturation point of the damage counter.
const maxDamage = damageMask

// newNode builds a node from its components. Out-of-range components
// are programmer errors and panic; runtime arithmetic that can
// legitimately exceed range must be clamped by the caller first.
func newNode(tile int, rel Relationship, pause, used movement.Points, turns int, parent Direction, damage int) Node {
	if tile < 0 || tile > tileMask {
		panic(fmt.Sprintf("routing: tile index %d out of range", tile))
	}
	if pause < 0 || pause > pauseMask {
		panic(fmt.Sprintf("routing: pause movement %d out of range", pause))
	}
	if used < 0 || used > usedMask {
		panic(fmt.Sprintf("routing: movement used %d out of range", used))
	}
	if turns < 0 || turns > MaxTurns {
		panic(fmt.Sprintf("routing: turns %d out of range", turns))
	}
	if parent != DirNone && (parent < 1 || parent > numDirections) {
		panic(fmt.Sprintf("routing: invalid parent direction %d", parent))
	}
	if damage < 0 || damage > maxDamage {
		panic(fmt.Sprintf("routing: damage count %d out of range", damage))
	}
	return Node(uint64(damage)<<damageShift |
		uint64(turns)<<turnsShift |
		uint64(used)<<usedShift |
		relationStored(rel)<<relShift |
		uint64(tile)<<tileShift |
		uint64(pause)<<pauseShift |
		uint64(parent)<<parentShift)
}

// rootNode builds the search origin: zero turns, no parent, with the
// movement already spent this turn carried in. Relationship does not
// matter for the root; it packs as the best value.
func rootNode(tile int, used movement.Points) Node {
	return newNode(tile, RelationAlly, 0, used, 0, DirNone, 0)
}

// noPathNode is the distinguished "provably unreachable" encoding: all
// fields at maximum except the tile index.
func noPathNode(tile int) Node {
	if tile < 0 || tile > tileMask {
		panic(fmt.Sprintf("routing: tile index %d out of range", tile))
	}
	n := Node(nodeBits &^ (uint64(tileMask) << tileShift))
	return n | Node(uint64(tile)<<tileShift)
}

// Initialized reports whether the node has been constructed at all.
// Relies on parent direction never being zero in a valid node.
func (n Node) Initialized() bool {
	return n != 0
}

// Unreachable reports whether this is the noPathNode sentinel: every
// field at maximum apart from the tile index.
func (n Node) Unreachable() bool {
	const nonTile = nodeBits &^ (uint64(tileMask) << tileShift)
	return uint64(n)&nonTile == nonTile
}

// Tile returns the dense tile index.
func (n Node) Tile() int {
	return int(uint64(n) >> tileShift & tileMask)
}

// Relationship returns the diplomatic standing packed into the node.
func (n Node) Relationship() Relationship {
	return RelationAlly - Relationship(uint64(n)>>relShift&relMask)
}

// PauseMovement returns the movement that would have been used this
// turn had the mover stopped immediately before entering the current
// streak of damaging terrain. Zero when not inside such a streak, or
// when the streak began at the turn start and there is nothing to back
// off to; whether a tile is mid-streak is decided from its own damage
// lookup, never from this value alone.
func (n Node) PauseMovement() movement.Points {
	return movement.Points(uint64(n) >> pauseShift & pauseMask)
}

// MovementUsed returns the movement spent in the turn the node is
// reached.
func (n Node) MovementUsed() movement.Points {
	return movement.Points(uint64(n) >> usedShift & usedMask)
}

// Turns returns the number of full turns elapsed before reaching the
// tile; zero means reachable within the current turn.
func (n Node) Turns() int {
	return int(uint64(n) >> turnsShift & turnsMask)
}

// ParentDirection returns the edge back toward the predecessor, or
// DirNone for the root.
func (n Node) ParentDirection() Direction {
	return Direction(uint64(n) >> parentShift & parentMask)
}

// DamageCrossed returns how many turns on the path ended in damaging
// terrain, saturating at 3. This is the dominant component of node
// ordering.
func (n Node) DamageCrossed() int {
	return int(uint64(n) >> damageShift & damageMask)
}

// ParentTile resolves the predecessor tile through the board, or -1
// for the root.
func (n Node) ParentTile(b Board) int {
	d := n.ParentDirection()
	if d == DirNone {
		return -1
	}
	return b.Neighbor(n.Tile(), d)
}

// String renders the node for diagnostics.
func (n Node) String() string {
	if !n.Initialized() {
		return "Node(uninitialized)"
	}
	if n.Unreachable() {
		return fmt.Sprintf("Node(tile=%d unreachable)", n.Tile())
	}
	return fmt.Sprintf("Node(tile=%d turns=%d used=%s pause=%s dmg=%d parent=%d)",
		n.Tile(), n.Turns(), n.MovementUsed(), n.PauseMovement(), n.DamageCrossed(), n.ParentDirection())
}
