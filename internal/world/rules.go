package world

import (
	"github.com/talgya/hexroute/internal/movement"
	"github.com/talgya/hexroute/internal/routing"
	"github.com/talgya/hexroute/internal/unit"
)

// Movement costs per tile, in movement points. Roads and rails
// override terrain; their denominators are why movement uses base-30
// fixed point.
var (
	costRoad = movement.FromFloat(1.0 / 3.0)
	costRail = movement.FromFloat(1.0 / 10.0)

	terrainCost = map[Terrain]movement.Points{
		TerrainPlains:   movement.FromInt(1),
		TerrainForest:   movement.FromInt(2),
		TerrainHills:    movement.FromInt(2),
		TerrainDesert:   movement.FromInt(1),
		TerrainSwamp:    movement.FromInt(3),
		TerrainTundra:   movement.FromInt(1),
		TerrainMountain: movement.FromInt(2),
		TerrainCoast:    movement.FromInt(1),
		TerrainOcean:    movement.FromInt(1),
	}
)

// MountainDamage is the damage for ending a turn on impassable
// terrain a unit is specially able to cross.
const MountainDamage = 25

// Relations holds pairwise diplomatic standings between civilizations.
// Unset pairs default to neutral; a civilization is always allied with
// itself. Unowned territory reads as neutral.
type Relations struct {
	standings map[[2]CivID]routing.Relationship
}

// NewRelations returns an empty relation table.
func NewRelations() *Relations {
	return &Relations{standings: make(map[[2]CivID]routing.Relationship)}
}

// Set records a symmetric standing between two civilizations.
func (r *Relations) Set(a, b CivID, standing routing.Relationship) {
	r.standings[[2]CivID{a, b}] = standing
	r.standings[[2]CivID{b, a}] = standing
}

// Between returns the standing of b's owner toward a.
func (r *Relations) Between(a, b CivID) routing.Relationship {
	if a == b {
		return routing.RelationAlly
	}
	if b == 0 || a == 0 {
		return routing.RelationNeutral
	}
	if s, ok := r.standings[[2]CivID{a, b}]; ok {
		return s
	}
	return routing.RelationNeutral
}

// edgeCost returns the cost of entering tile to from an adjacent tile.
// Connected improvements beat terrain: crossing between two rail
// tiles costs the rail rate, between two improved tiles the road rate.
func edgeCost(m *Map, from, to int) movement.Points {
	a, b := m.Tile(from), m.Tile(to)
	if a.Improvement == ImprovementRail && b.Improvement == ImprovementRail {
		return costRail
	}
	if a.Improvement != ImprovementNone && b.Improvement != ImprovementNone {
		return costRoad
	}
	if c, ok := terrainCost[b.Terrain]; ok {
		return c
	}
	return movement.FromInt(1)
}

// bestCaseCost is the admissible heuristic bound: no edge the mover
// can cross is ever cheaper than rail.
func bestCaseCost(int) movement.Points {
	return costRail
}

// UnitMovementRules parameterizes the engine for ordinary unit
// movement: domain passability, impassable-crossing damage, and
// diplomatic borders (tiles owned by civilizations at war with or
// hostile to the unit's are closed).
func UnitMovementRules(m *Map, u *unit.Unit, rel *Relations) routing.Rules {
	return routing.Rules{
		MoveThrough: func(t int) bool {
			tile := m.Tile(t)
			if u.Domain == unit.DomainSea {
				return tile.Terrain.Water()
			}
			if tile.Terrain == TerrainOcean {
				return false
			}
			if tile.Terrain == TerrainMountain && !u.CanPassImpassable {
				return false
			}
			standing := rel.Between(CivID(u.Civ), tile.Owner)
			return standing > routing.RelationEnemy
		},
		EdgeCost: func(from, to int) movement.Points {
			return edgeCost(m, from, to)
		},
		EndTurnDamage: func(t int) int {
			if m.Tile(t).Terrain == TerrainMountain {
				return MountainDamage
			}
			return 0
		},
		RoadCost: bestCaseCost,
		Relationship: func(t int) routing.Relationship {
			return rel.Between(CivID(u.Civ), m.Tile(t).Owner)
		},
	}
}

// LandAttackRules parameterizes the engine for land-attack
// reachability: movement legality and borders are ignored (anything
// that is not deep water can be attacked through) and no terrain
// deals end-of-turn damage.
func LandAttackRules(m *Map, u *unit.Unit, rel *Relations) routing.Rules {
	return routing.Rules{
		MoveThrough: func(t int) bool {
			return m.Tile(t).Terrain != TerrainOcean
		},
		EdgeCost: func(from, to int) movement.Points {
			return edgeCost(m, from, to)
		},
		EndTurnDamage: func(int) int { return 0 },
		RoadCost:      bestCaseCost,
		Relationship: func(t int) routing.Relationship {
			return rel.Between(CivID(u.Civ), m.Tile(t).Owner)
		},
	}
}

// AmphibiousAttackRules is LandAttackRules extended to shallow water,
// so coastal assaults can reach sea-adjacent land.
func AmphibiousAttackRules(m *Map, u *unit.Unit, rel *Relations) routing.Rules {
	base := LandAttackRules(m, u, rel)
	base.MoveThrough = func(t int) bool {
		terrain := m.Tile(t).Terrain
		return terrain != TerrainOcean || adjacentToLand(m, t)
	}
	return base
}

// RoadConnectionRules parameterizes the engine for connection
// building: existing improvements are strongly preferred, all other
// passable land is uniform cost, and diplomacy does not apply.
func RoadConnectionRules(m *Map) routing.Rules {
	return routing.Rules{
		MoveThrough: func(t int) bool {
			terrain := m.Tile(t).Terrain
			return !terrain.Water() && terrain != TerrainMountain
		},
		EdgeCost: func(from, to int) movement.Points {
			if m.Tile(to).Improvement != ImprovementNone {
				return movement.FromFloat(0.5)
			}
			return movement.FromInt(1)
		},
		EndTurnDamage: func(int) int { return 0 },
		RoadCost: func(int) movement.Points {
			return movement.FromFloat(0.5)
		},
		Relationship: func(int) routing.Relationship {
			return routing.RelationNeutral
		},
	}
}

// adjacentToLand reports whether any neighbor of t is dry land.
func adjacentToLand(m *Map, t int) bool {
	for d := routing.Direction(1); d <= 6; d++ {
		nb := m.Neighbor(t, d)
		if nb >= 0 && !m.Tile(nb).Terrain.Water() {
			return true
		}
	}
	return false
}

// NewUnitPathMap is the common construction path: a PathMap for a unit
// moving normally over the map.
func NewUnitPathMap(m *Map, u *unit.Unit, rel *Relations) *routing.PathMap {
	return routing.New(m, u, UnitMovementRules(m, u, rel))
}
