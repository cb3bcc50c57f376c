package routing_test

import (
	"sync"
	"testing"

	"github.com/talgya/hexroute/internal/movement"
	"github.com/talgya/hexroute/internal/routing"
	"github.com/talgya/hexroute/internal/unit"
	"github.com/talgya/hexroute/internal/world"
)

func hex(q, r int) world.HexCoord {
	return world.HexCoord{Q: q, R: r}
}

func indexOf(t *testing.T, m *world.Map, c world.HexCoord) int {
	t.Helper()
	i := m.Index(c)
	if i < 0 {
		t.Fatalf("coordinate %v is off the board", c)
	}
	return i
}

func samePath(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func contains(path []int, tile int) bool {
	for _, p := range path {
		if p == tile {
			return true
		}
	}
	return false
}

func TestShortestPathToOwnTile(t *testing.T) {
	m := world.NewMap(2, world.TerrainPlains)
	u := unit.New("scout", indexOf(t, m, hex(0, 0)), 2)
	pm := world.NewUnitPathMap(m, u, world.NewRelations())

	path := pm.ShortestPath(u.Tile(), 5)
	if len(path) != 1 || path[0] != u.Tile() {
		t.Fatalf("path to own tile: got %v", path)
	}
}

// A long connected rail corridor must beat the short direct walk: seven
// rail edges fit in a single turn while four plain edges take four. The
// corridor corners are laid so no pair of non-consecutive tiles is
// adjacent, leaving no shortcut across a bend.
func TestRailCorridorBeatsDirectRoute(t *testing.T) {
	m := world.NewMap(5, world.TerrainPlains)
	corridor := []world.HexCoord{
		hex(0, 0), hex(0, 1), hex(0, 2), hex(1, 2),
		hex(2, 2), hex(3, 2), hex(4, 1), hex(4, 0),
	}
	m.ImproveLine(world.ImprovementRail, corridor...)

	origin := indexOf(t, m, hex(0, 0))
	dest := indexOf(t, m, hex(4, 0))
	u := unit.New("scout", origin, 1)
	pm := world.NewUnitPathMap(m, u, world.NewRelations())

	path := pm.ShortestPath(dest, 10)
	if !samePath(path, []int{origin, dest}) {
		t.Fatalf("rail route waypoints: got %v, want [%d %d]", path, origin, dest)
	}
	n := pm.NodeAt(dest)
	if n.Turns() != 0 {
		t.Fatalf("rail route turns: got %d, want 0", n.Turns())
	}
	if want := movement.Points(21); n.MovementUsed() != want {
		t.Fatalf("rail route cost: got %s, want %s (seven rail edges)", n.MovementUsed(), want)
	}

	reach := pm.ReachableThisTurn()
	if _, ok := reach[dest]; !ok {
		t.Fatal("rail destination must be reachable this turn")
	}
}

// Crossing the mountain pair directly would end a turn on damaging
// terrain; the engine must take the slower forest detour, ending each
// turn on safe tiles, and pass the second mountain mid-turn without
// stopping.
func TestDamageAvoidedOverFasterRoute(t *testing.T) {
	m := world.NewMap(3, world.TerrainOcean)
	m.SetTerrain(hex(0, 0), world.TerrainPlains)
	m.SetTerrain(hex(1, 0), world.TerrainMountain)
	m.SetTerrain(hex(2, 0), world.TerrainMountain)
	m.SetTerrain(hex(3, 0), world.TerrainPlains)
	m.SetTerrain(hex(0, 1), world.TerrainForest)
	m.SetTerrain(hex(1, 1), world.TerrainForest)
	m.SetTerrain(hex(2, 1), world.TerrainForest)

	origin := indexOf(t, m, hex(0, 0))
	dest := indexOf(t, m, hex(3, 0))
	u := unit.New("climber", origin, 3)
	u.CanPassImpassable = true
	pm := world.NewUnitPathMap(m, u, world.NewRelations())

	path := pm.ShortestPath(dest, 10)
	if path == nil {
		t.Fatal("destination must be reachable")
	}
	n := pm.NodeAt(dest)
	if n.DamageCrossed() != 0 {
		t.Fatalf("route took damage: %s", n)
	}
	if n.Turns() != 2 {
		t.Fatalf("detour turns: got %d, want 2", n.Turns())
	}
	want := []int{
		origin,
		indexOf(t, m, hex(0, 1)),
		indexOf(t, m, hex(1, 1)),
		dest,
	}
	if !samePath(path, want) {
		t.Fatalf("detour waypoints: got %v, want %v", path, want)
	}
}

// A streak of mountains longer than one turn's budget cannot be crossed
// for free: wherever the turn boundary lands, it lands on a mountain.
// The pause accounting must not restart the streak partway in.
func TestLongMountainStreakTakesDamage(t *testing.T) {
	m := world.NewMap(3, world.TerrainOcean)
	m.SetTerrain(hex(-2, 0), world.TerrainPlains)
	m.SetTerrain(hex(-1, 0), world.TerrainMountain)
	m.SetTerrain(hex(0, 0), world.TerrainMountain)
	m.SetTerrain(hex(1, 0), world.TerrainMountain)
	m.SetTerrain(hex(2, 0), world.TerrainPlains)

	origin := indexOf(t, m, hex(-2, 0))
	dest := indexOf(t, m, hex(2, 0))
	u := unit.New("climber", origin, 5)
	u.CanPassImpassable = true
	pm := world.NewUnitPathMap(m, u, world.NewRelations())

	path := pm.ShortestPath(dest, 10)
	if path == nil {
		t.Fatal("destination must be reachable")
	}
	n := pm.NodeAt(dest)
	if n.DamageCrossed() != 1 {
		t.Fatalf("six points of mountain on a five-point budget: got %s, want one damaging turn end", n)
	}
	if n.Turns() != 1 {
		t.Fatalf("crossing turns: got %d, want 1", n.Turns())
	}
	want := []int{origin, indexOf(t, m, hex(0, 0)), dest}
	if !samePath(path, want) {
		t.Fatalf("waypoints: got %v, want %v", path, want)
	}
}

// A tile first settled through a damaging shortcut must be reopened
// when a clean route later reaches it, and the improvement must carry
// to tiles beyond it in a continued search instead of dying in the
// slot.
func TestDamageImprovementReachesTilesBeyond(t *testing.T) {
	m := world.NewMap(4, world.TerrainOcean)
	for _, c := range []world.HexCoord{
		hex(0, 0), hex(2, 0), hex(3, 0), hex(4, 0),
		hex(0, -1), hex(1, -2), hex(2, -2), hex(2, -1),
	} {
		m.SetTerrain(c, world.TerrainPlains)
	}
	m.SetTerrain(hex(1, 0), world.TerrainMountain)

	origin := indexOf(t, m, hex(0, 0))
	near := indexOf(t, m, hex(3, 0))
	far := indexOf(t, m, hex(4, 0))
	u := unit.New("climber", origin, 1)
	u.CanPassImpassable = true
	pm := world.NewUnitPathMap(m, u, world.NewRelations())

	// A tight ceiling blocks the clean detour, so the mountain shortcut
	// wins the first query and settles the tiles behind it with damage.
	if path := pm.ShortestPath(near, 3); path == nil {
		t.Fatal("shortcut must reach the near tile within three turns")
	}
	if got := pm.NodeAt(near).DamageCrossed(); got != 1 {
		t.Fatalf("shortcut damage: got %d, want 1", got)
	}

	// The continuation has budget for the detour. Its clean arrival must
	// re-expand the settled tiles so the far tile comes out damage-free.
	path := pm.ShortestPath(far, 10)
	if path == nil {
		t.Fatal("continuation must reach the far tile")
	}
	if got := pm.NodeAt(far).DamageCrossed(); got != 0 {
		t.Fatalf("far tile damage after the clean route lands: got %d, want 0", got)
	}
	if got := pm.NodeAt(near).DamageCrossed(); got != 0 {
		t.Fatalf("near tile damage after the clean route lands: got %d, want 0", got)
	}
}

// A unit without the crossing ability must treat mountains as walls.
func TestMountainsCloseWithoutAbility(t *testing.T) {
	m := world.NewMap(2, world.TerrainOcean)
	m.SetTerrain(hex(-1, 0), world.TerrainPlains)
	m.SetTerrain(hex(0, 0), world.TerrainMountain)
	m.SetTerrain(hex(1, 0), world.TerrainPlains)

	origin := indexOf(t, m, hex(-1, 0))
	dest := indexOf(t, m, hex(1, 0))
	u := unit.New("settler", origin, 2)
	pm := world.NewUnitPathMap(m, u, world.NewRelations())

	if path := pm.ShortestPath(dest, 10); path != nil {
		t.Fatalf("mountain wall crossed: %v", path)
	}
	if !pm.NodeAt(indexOf(t, m, hex(0, 0))).Unreachable() {
		t.Fatal("wall tile must carry the unreachable sentinel")
	}
}

func TestEnclosedTargetUnreachable(t *testing.T) {
	m := world.NewMap(3, world.TerrainPlains)
	dest := indexOf(t, m, hex(2, 0))
	for _, c := range []world.HexCoord{
		hex(3, 0), hex(3, -1), hex(2, -1), hex(1, 0), hex(1, 1), hex(2, 1),
	} {
		m.SetTerrain(c, world.TerrainOcean)
	}

	u := unit.New("scout", indexOf(t, m, hex(-2, 0)), 2)
	pm := world.NewUnitPathMap(m, u, world.NewRelations())

	if path := pm.ShortestPath(dest, 10); path != nil {
		t.Fatalf("enclosed target reached: %v", path)
	}
	// The verdict must be stable: the exhausted cache answers again
	// without another search.
	if path := pm.ShortestPath(dest, 10); path != nil {
		t.Fatalf("second query disagreed: %v", path)
	}
	if !pm.NodeAt(indexOf(t, m, hex(1, 0))).Unreachable() {
		t.Fatal("ring tile must carry the unreachable sentinel")
	}
	if pm.NodeAt(dest).Initialized() {
		t.Fatal("tile behind the ring must never be touched")
	}
}

// A query cut off by its turn ceiling returns no path but leaves the
// frontier open; a later query with a larger budget continues from
// where the first stopped instead of restarting.
func TestTurnCeilingResumes(t *testing.T) {
	m := world.NewMap(3, world.TerrainPlains)
	origin := indexOf(t, m, hex(-2, 0))
	dest := indexOf(t, m, hex(2, 0))
	u := unit.New("scout", origin, 1)
	pm := world.NewUnitPathMap(m, u, world.NewRelations())

	if path := pm.ShortestPath(dest, 2); path != nil {
		t.Fatalf("three-turn destination found within two: %v", path)
	}
	path := pm.ShortestPath(dest, 5)
	if path == nil {
		t.Fatal("continuation must reach the destination")
	}
	if got := pm.NodeAt(dest).Turns(); got != 3 {
		t.Fatalf("turns after continuation: got %d, want 3", got)
	}
	if len(path) != 5 || path[0] != origin || path[4] != dest {
		t.Fatalf("waypoints: got %v, want origin, three turn ends, destination", path)
	}
}

// Map and diplomacy mutations do not invalidate cached routes on their
// own; Clear does.
func TestStaleAfterMutationUntilClear(t *testing.T) {
	m := world.NewMap(2, world.TerrainPlains)
	origin := indexOf(t, m, hex(-1, 0))
	mid := indexOf(t, m, hex(0, 0))
	dest := indexOf(t, m, hex(1, 0))

	u := unit.New("scout", origin, 1)
	u.Civ = 1
	rel := world.NewRelations()
	pm := world.NewUnitPathMap(m, u, rel)

	first := pm.ShortestPath(dest, 5)
	if !samePath(first, []int{origin, mid, dest}) {
		t.Fatalf("direct route: got %v, want [%d %d %d]", first, origin, mid, dest)
	}

	m.SetOwner(hex(0, 0), 2)
	rel.Set(1, 2, routing.RelationWar)

	if stale := pm.ShortestPath(dest, 5); !samePath(stale, first) {
		t.Fatalf("mutation must not invalidate implicitly: got %v", stale)
	}

	pm.Clear()
	fresh := pm.ShortestPath(dest, 5)
	if fresh == nil {
		t.Fatal("detour around hostile territory must exist")
	}
	if contains(fresh, mid) {
		t.Fatalf("fresh route still crosses hostile tile: %v", fresh)
	}
	if len(fresh) != 4 || pm.NodeAt(dest).Turns() != 2 {
		t.Fatalf("detour: got %v (%d turns)", fresh, pm.NodeAt(dest).Turns())
	}
}

func TestRepeatedQueriesIdempotent(t *testing.T) {
	m := world.NewMap(3, world.TerrainPlains)
	origin := indexOf(t, m, hex(-2, 1))
	dest := indexOf(t, m, hex(2, -1))
	u := unit.New("scout", origin, 2)
	pm := world.NewUnitPathMap(m, u, world.NewRelations())

	first := pm.ShortestPath(dest, 10)
	second := pm.ShortestPath(dest, 10)
	if first == nil || !samePath(first, second) {
		t.Fatalf("repeat query diverged: %v then %v", first, second)
	}
}

func TestReachableThisTurn(t *testing.T) {
	m := world.NewMap(2, world.TerrainPlains)
	origin := indexOf(t, m, hex(0, 0))
	u := unit.New("scout", origin, 2)
	pm := world.NewUnitPathMap(m, u, world.NewRelations())

	reach := pm.ReachableThisTurn()
	if len(reach) != m.NumTiles() {
		t.Fatalf("fresh 2-movement unit on a radius-2 board: got %d tiles, want %d",
			len(reach), m.NumTiles())
	}
	if r := reach[origin]; r.Parent != -1 || r.Used != 0 {
		t.Fatalf("origin entry: got %+v", r)
	}
	nb := indexOf(t, m, hex(1, 0))
	if r := reach[nb]; r.Parent != origin || r.Used != movement.FromInt(1) {
		t.Fatalf("neighbor entry: got %+v", r)
	}

	// Spending movement shrinks the horizon; the cache rebuilds off the
	// changed validity key with the spent movement carried into the root.
	u.Spend(movement.FromInt(1))
	reach = pm.ReachableThisTurn()
	if len(reach) != 7 {
		t.Fatalf("one point left: got %d tiles, want origin plus six neighbors", len(reach))
	}
	if r := reach[nb]; r.Used != movement.FromInt(2) {
		t.Fatalf("neighbor cost with spent movement: got %s, want 2 MP", r.Used)
	}
}

// Concurrent queries against one PathMap must each come back complete
// and optimal; forks share discovered nodes but merge without tearing.
func TestConcurrentQueriesAgree(t *testing.T) {
	m := world.NewMap(4, world.TerrainPlains)
	origin := indexOf(t, m, hex(0, 0))
	u := unit.New("scout", origin, 2)
	pm := world.NewUnitPathMap(m, u, world.NewRelations())

	dests := []int{
		indexOf(t, m, hex(4, 0)),
		indexOf(t, m, hex(-4, 0)),
		indexOf(t, m, hex(0, 4)),
		indexOf(t, m, hex(0, -4)),
		indexOf(t, m, hex(4, -4)),
		indexOf(t, m, hex(-4, 4)),
		indexOf(t, m, hex(2, 2)),
		indexOf(t, m, hex(-2, -2)),
	}

	paths := make([][]int, len(dests))
	var wg sync.WaitGroup
	for i, dest := range dests {
		wg.Add(1)
		go func(i, dest int) {
			defer wg.Done()
			paths[i] = pm.ShortestPath(dest, 10)
		}(i, dest)
	}
	wg.Wait()

	for i, dest := range dests {
		path := paths[i]
		if path == nil {
			t.Fatalf("dest %d unreached", dest)
		}
		if path[0] != origin || path[len(path)-1] != dest {
			t.Fatalf("dest %d: endpoints wrong in %v", dest, path)
		}
		// Two movement over uniform terrain: a tile at distance k costs
		// (k-1)/2 full turns before the arrival turn.
		want := (m.Distance(origin, dest) - 1) / 2
		if got := pm.NodeAt(dest).Turns(); got != want {
			t.Fatalf("dest %d: turns got %d, want %d", dest, got, want)
		}
	}
}

func TestDumpCacheRenders(t *testing.T) {
	m := world.NewMap(2, world.TerrainPlains)
	u := unit.New("scout", indexOf(t, m, hex(0, 0)), 2)
	pm := world.NewUnitPathMap(m, u, world.NewRelations())

	if out := pm.DumpCache(); out != "cache: none\n" {
		t.Fatalf("dump before any query: %q", out)
	}
	pm.ShortestPath(indexOf(t, m, hex(2, 0)), 5)
	out := pm.DumpCache()
	if len(out) == 0 || out == "cache: none\n" {
		t.Fatal("dump after a query must render the cache")
	}
}
