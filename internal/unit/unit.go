// Package unit holds the minimal mover state the movement rules
// consume: domain, movement budget, special abilities, and allegiance.
package unit

import "github.com/talgya/hexroute/internal/movement"

// Domain separates land and sea movers.
type Domain uint8

const (
	DomainLand Domain = iota
	DomainSea
)

// Unit is one mover on the board. It implements routing.Mover.
type Unit struct {
	Name   string
	Domain Domain

	// TileIndex is the unit's current position as a dense board index.
	TileIndex int

	// Full is the per-turn movement budget; Left is what remains this
	// turn. Both feed the pathfinding cache's validity key, so any
	// change invalidates cached routes automatically.
	Full movement.Points
	Left movement.Points

	// CanPassImpassable lets the unit cross impassable terrain at the
	// cost of damage when a turn ends there.
	CanPassImpassable bool

	// Civ is the owning civilization, used for diplomatic passability
	// and tie-breaking.
	Civ uint8
}

// New creates a land unit with a whole-point movement budget, fresh
// for the turn.
func New(name string, tile int, movePoints int) *Unit {
	full := movement.FromInt(movePoints)
	return &Unit{
		Name:      name,
		Domain:    DomainLand,
		TileIndex: tile,
		Full:      full,
		Left:      full,
	}
}

// Tile implements routing.Mover.
func (u *Unit) Tile() int {
	return u.TileIndex
}

// MovementLeft implements routing.Mover.
func (u *Unit) MovementLeft() movement.Points {
	return u.Left
}

// FullMovement implements routing.Mover.
func (u *Unit) FullMovement() movement.Points {
	return u.Full
}

// ResetTurn restores the full movement budget.
func (u *Unit) ResetTurn() {
	u.Left = u.Full
}

// Spend consumes movement, flooring at zero.
func (u *Unit) Spend(p movement.Points) {
	u.Left = (u.Left - p).AtLeast(0)
}
