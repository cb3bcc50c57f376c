package routing

import "github.com/talgya/hexroute/internal/movement"

// prioritized rearranges a Node for the frontier queue: the damage
// count stays the topmost key, an underestimated total cost (movement
// spent so far plus an admissible lower bound to the target, in
// thirtieths) is layered directly beneath it, and the node's remaining
// ordering fields tie-break below that. A single raw uint64 comparison
// therefore explores every damage-free option before anything that
// took damage, best estimate first within a damage class, with no
// separate tie-break logic.
//
// Layout: bits 62..63 damage, bits 46..61 estimate, bits 0..45 the
// node word minus its damage field.
type prioritized uint64

const (
	priorityShift = 46
	priorityMask  = 0xffff

	prioDamageShift = 62

	// nodeLowBits covers a node word below its damage field.
	nodeLowBits = uint64(1)<<damageShift - 1
)

// prioritize attaches an estimate to a node, saturating the estimate
// at the width of its band.
func prioritize(n Node, estimate movement.Points) prioritized {
	e := uint64(estimate)
	if estimate < 0 {
		e = 0
	}
	if e > priorityMask {
		e = priorityMask
	}
	damage := uint64(n) >> damageShift & damageMask
	return prioritized(damage<<prioDamageShift | e<<priorityShift | uint64(n)&nodeLowBits)
}

// node reassembles the original node word.
func (p prioritized) node() Node {
	damage := uint64(p) >> prioDamageShift & damageMask
	return Node(damage<<damageShift | uint64(p)&nodeLowBits)
}

// estimate returns the attached cost estimate.
func (p prioritized) estimate() movement.Points {
	return movement.Points(uint64(p) >> priorityShift & priorityMask)
}
