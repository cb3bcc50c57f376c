// Package world provides the hex-grid board the routing engine
// searches over: axial coordinates, terrain, road/rail improvements,
// tile ownership, and diplomatic relations between owners.
package world

import "github.com/talgya/hexroute/internal/routing"

// HexCoord is a position on the hex grid in axial coordinates. The
// third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q" yaml:"q"`
	R int `json:"r" yaml:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// hexDirections lists the six neighbor offsets in axial coordinates,
// indexed by routing.Direction-1. The order matters: opposite
// directions sit three apart, which routing.Direction.Opposite relies
// on.
var hexDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbor returns the adjacent coordinate along a routing direction.
func (h HexCoord) Neighbor(d routing.Direction) HexCoord {
	off := hexDirections[d-1]
	return HexCoord{Q: h.Q + off.Q, R: h.R + off.R}
}

// Distance returns the hex distance between two coordinates: the
// largest absolute cube-coordinate difference.
func Distance(a, b HexCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	max := dq
	if dr > max {
		max = dr
	}
	if ds > max {
		max = ds
	}
	return max
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Terrain types for hex tiles, reduced to what movement cares about.
type Terrain uint8

const (
	TerrainPlains   Terrain = iota // Open ground, baseline cost
	TerrainForest                  // Slow going
	TerrainHills                   // Slow going
	TerrainDesert                  // Open but harsh
	TerrainSwamp                   // Very slow
	TerrainTundra                  // Open, cold
	TerrainMountain                // Impassable; damaging to cross for those who can
	TerrainCoast                   // Shallow water
	TerrainOcean                   // Deep water
)

// terrainNames indexes Terrain for display.
var terrainNames = [...]string{
	"plains", "forest", "hills", "desert", "swamp", "tundra",
	"mountain", "coast", "ocean",
}

// Name returns the terrain's display name.
func (t Terrain) Name() string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return "unknown"
}

// TerrainByName resolves a display name back to a Terrain, for
// scenario files. The second result is false for unknown names.
func TerrainByName(name string) (Terrain, bool) {
	for i, n := range terrainNames {
		if n == name {
			return Terrain(i), true
		}
	}
	return 0, false
}

// Water reports whether the terrain is coast or ocean.
func (t Terrain) Water() bool {
	return t == TerrainCoast || t == TerrainOcean
}

// Improvement marks a movement improvement on a tile.
type Improvement uint8

const (
	ImprovementNone Improvement = iota
	ImprovementRoad             // 1/3 movement point per tile
	ImprovementRail             // 1/10 movement point per tile
)

// CivID identifies a civilization owning tiles. Zero means unowned.
type CivID uint8

// Tile is one hex of the board.
type Tile struct {
	Coord       HexCoord
	Terrain     Terrain
	Improvement Improvement
	Owner       CivID
}
