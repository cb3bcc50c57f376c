package world

import (
	"fmt"

	"github.com/talgya/hexroute/internal/routing"
)

// Map is the hex board: a hexagonal region of tiles with dense 0-based
// indexing so the routing engine can keep node state in flat arrays.
// Tile data is mutable (terrain, improvements, ownership); the routing
// cache is keyed only by mover state, so callers mutating the map must
// clear affected PathMaps themselves.
type Map struct {
	Radius int

	tiles []Tile
	index map[HexCoord]int
}

// NewMap creates a map of the given radius filled with the given
// terrain. A radius-R board holds every coordinate with
// max(|q|,|r|,|s|) <= R.
func NewMap(radius int, fill Terrain) *Map {
	if radius < 0 {
		panic("world: negative map radius")
	}
	m := &Map{
		Radius: radius,
		index:  make(map[HexCoord]int),
	}
	for q := -radius; q <= radius; q++ {
		for r := -radius; r <= radius; r++ {
			c := HexCoord{Q: q, R: r}
			if Distance(c, HexCoord{}) > radius {
				continue
			}
			m.index[c] = len(m.tiles)
			m.tiles = append(m.tiles, Tile{Coord: c, Terrain: fill})
		}
	}
	return m
}

// NumTiles implements routing.Board.
func (m *Map) NumTiles() int {
	return len(m.tiles)
}

// Neighbor implements routing.Board.
func (m *Map) Neighbor(t int, d routing.Direction) int {
	c := m.tiles[t].Coord.Neighbor(d)
	i, ok := m.index[c]
	if !ok {
		return -1
	}
	return i
}

// Distance implements routing.Board.
func (m *Map) Distance(a, b int) int {
	return Distance(m.tiles[a].Coord, m.tiles[b].Coord)
}

// Index returns the dense index for a coordinate, or -1 off the board.
func (m *Map) Index(c HexCoord) int {
	i, ok := m.index[c]
	if !ok {
		return -1
	}
	return i
}

// At returns the coordinate for a dense index.
func (m *Map) At(i int) HexCoord {
	return m.tiles[i].Coord
}

// Tile returns a pointer to the tile at a dense index for inspection
// or mutation.
func (m *Map) Tile(i int) *Tile {
	return &m.tiles[i]
}

// TileAt returns the tile at a coordinate, or nil off the board.
func (m *Map) TileAt(c HexCoord) *Tile {
	i, ok := m.index[c]
	if !ok {
		return nil
	}
	return &m.tiles[i]
}

// SetTerrain assigns terrain at a coordinate. No-op off the board.
func (m *Map) SetTerrain(c HexCoord, t Terrain) {
	if tile := m.TileAt(c); tile != nil {
		tile.Terrain = t
	}
}

// SetOwner assigns ownership at a coordinate. No-op off the board.
func (m *Map) SetOwner(c HexCoord, civ CivID) {
	if tile := m.TileAt(c); tile != nil {
		tile.Owner = civ
	}
}

// Improve places a road or rail at a coordinate. No-op off the board.
func (m *Map) Improve(c HexCoord, imp Improvement) {
	if tile := m.TileAt(c); tile != nil {
		tile.Improvement = imp
	}
}

// ImproveLine lays an improvement along each coordinate in turn, for
// building corridors in fixtures and generated worlds.
func (m *Map) ImproveLine(imp Improvement, coords ...HexCoord) {
	for _, c := range coords {
		m.Improve(c, imp)
	}
}

// TerrainCounts tallies tiles by terrain, for logging and sanity
// checks.
func (m *Map) TerrainCounts() map[Terrain]int {
	counts := make(map[Terrain]int)
	for i := range m.tiles {
		counts[m.tiles[i].Terrain]++
	}
	return counts
}

// String returns a one-line summary.
func (m *Map) String() string {
	return fmt.Sprintf("Map(radius=%d, tiles=%d)", m.Radius, len(m.tiles))
}
