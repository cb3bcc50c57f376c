package world

import (
	"testing"

	"github.com/talgya/hexroute/internal/routing"
)

func TestNeighborOppositeRoundTrip(t *testing.T) {
	c := HexCoord{Q: 2, R: -1}
	for d := routing.Direction(1); d <= 6; d++ {
		back := c.Neighbor(d).Neighbor(d.Opposite())
		if back != c {
			t.Fatalf("direction %d: went to %v and came back to %v", d, c.Neighbor(d), back)
		}
	}
}

func TestNeighborsAreDistinctAndAdjacent(t *testing.T) {
	c := HexCoord{}
	seen := map[HexCoord]bool{}
	for d := routing.Direction(1); d <= 6; d++ {
		nb := c.Neighbor(d)
		if seen[nb] {
			t.Fatalf("duplicate neighbor %v", nb)
		}
		seen[nb] = true
		if Distance(c, nb) != 1 {
			t.Fatalf("neighbor %v at distance %d", nb, Distance(c, nb))
		}
	}
}

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b HexCoord
		want int
	}{
		{HexCoord{}, HexCoord{}, 0},
		{HexCoord{}, HexCoord{Q: 3, R: 0}, 3},
		{HexCoord{}, HexCoord{Q: 3, R: -3}, 3},
		{HexCoord{}, HexCoord{Q: 2, R: 2}, 4},
		{HexCoord{Q: -1, R: -1}, HexCoord{Q: 1, R: 1}, 4},
	}
	for _, c := range cases {
		if got := Distance(c.a, c.b); got != c.want {
			t.Errorf("Distance(%v, %v): got %d, want %d", c.a, c.b, got, c.want)
		}
		if got := Distance(c.b, c.a); got != c.want {
			t.Errorf("Distance must be symmetric for %v, %v", c.a, c.b)
		}
	}
}

func TestMapShape(t *testing.T) {
	for radius := 0; radius <= 4; radius++ {
		m := NewMap(radius, TerrainPlains)
		want := 3*radius*radius + 3*radius + 1
		if m.NumTiles() != want {
			t.Errorf("radius %d: %d tiles, want %d", radius, m.NumTiles(), want)
		}
	}

	m := NewMap(3, TerrainPlains)
	for i := 0; i < m.NumTiles(); i++ {
		if m.Index(m.At(i)) != i {
			t.Fatalf("index round trip broken at %d", i)
		}
	}
	if m.Index(HexCoord{Q: 4, R: 0}) != -1 {
		t.Error("off-board coordinate must index to -1")
	}
	if m.Neighbor(m.Index(HexCoord{Q: 3, R: 0}), 1) != -1 {
		t.Error("stepping off the rim must return -1")
	}
}

func TestTerrainNames(t *testing.T) {
	for tr := TerrainPlains; tr <= TerrainOcean; tr++ {
		got, ok := TerrainByName(tr.Name())
		if !ok || got != tr {
			t.Errorf("name round trip for %q: got %d ok=%v", tr.Name(), got, ok)
		}
	}
	if _, ok := TerrainByName("lava"); ok {
		t.Error("unknown name must not resolve")
	}
	if !TerrainOcean.Water() || !TerrainCoast.Water() || TerrainSwamp.Water() {
		t.Error("water classification wrong")
	}
}
