package routing

import (
	"fmt"
	"strings"
)

// DumpCache renders the current cache state as human-readable text,
// one line per searched tile, for tests and tooling. The format is not
// stable and not machine-parseable on purpose.
func (p *PathMap) DumpCache() string {
	c := p.cache.Load()
	if c == nil {
		return "cache: none\n"
	}

	c.mu.Lock()
	frontier := c.frontier.clone()
	finalized := c.finalized.clone()
	c.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "cache: origin=%d left=%s full=%s frontier=%d finalized=%d\n",
		c.key.origin, c.key.movementLeft, c.key.fullMovement,
		frontier.count(), finalized.count())

	for i := range c.nodes {
		n := c.node(i)
		if !n.Initialized() {
			continue
		}
		state := " "
		switch {
		case frontier.get(i):
			state = "~" // awaiting expansion
		case finalized.get(i):
			state = "." // settled
		}
		if n.Unreachable() {
			fmt.Fprintf(&b, "%s %5d  unreachable\n", state, i)
			continue
		}
		fmt.Fprintf(&b, "%s %5d  turns=%-2d used=%-8s pause=%-8s dmg=%d parent=%d\n",
			state, i, n.Turns(), n.MovementUsed(), n.PauseMovement(),
			n.DamageCrossed(), n.ParentDirection())
	}
	return b.String()
}
