// Command pathlab exercises the routing engine: it builds a board from
// a scenario file or generator seed, runs shortest-path queries, prints
// the results and cache diagnostics, and optionally records timings to
// a SQLite route log for comparison across engine changes.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"gonum.org/v1/gonum/stat"

	"github.com/talgya/hexroute/internal/persistence"
	"github.com/talgya/hexroute/internal/routing"
	"github.com/talgya/hexroute/internal/scenario"
	"github.com/talgya/hexroute/internal/unit"
	"github.com/talgya/hexroute/internal/world"
)

func main() {
	var (
		scenarioPath = flag.String("scenario", "", "scenario YAML file (default: generated demo)")
		seed         = flag.Int64("seed", 42, "board seed when no scenario is given")
		radius       = flag.Int("radius", 22, "board radius when no scenario is given")
		repeat       = flag.Int("repeat", 1, "repetitions per query for latency stats")
		dbPath       = flag.String("db", "", "SQLite route log path (empty = no recording)")
		dump         = flag.Bool("dump", false, "print the cache dump after the run")
		verbose      = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(*scenarioPath, *seed, *radius, *repeat, *dbPath, *dump); err != nil {
		slog.Error("pathlab failed", "error", err)
		os.Exit(1)
	}
}

func run(scenarioPath string, seed int64, radius, repeat int, dbPath string, dump bool) error {
	// ── Board, unit, relations ────────────────────────────────────────
	var (
		m    *world.Map
		u    *unit.Unit
		rel  *world.Relations
		qs   []scenario.Query
		name string
	)

	if scenarioPath != "" {
		s, err := scenario.Load(scenarioPath)
		if err != nil {
			return err
		}
		name = s.Name
		if m, err = s.BuildMap(); err != nil {
			return err
		}
		if u, err = s.BuildUnit(m); err != nil {
			return err
		}
		if rel, err = s.BuildRelations(); err != nil {
			return err
		}
		qs = s.Queries
		seed = s.Map.Seed
	} else {
		name = "demo"
		cfg := world.DefaultGenConfig()
		cfg.Seed = seed
		cfg.Radius = radius
		m = world.Generate(cfg)
		u, rel, qs = demoSetup(m, seed)
	}

	slog.Info("board ready", "scenario", name, "tiles", humanize.Comma(int64(m.NumTiles())))
	for t, c := range m.TerrainCounts() {
		slog.Debug("terrain", "type", t.Name(), "count", c)
	}

	pm := world.NewUnitPathMap(m, u, rel)

	// ── Queries ───────────────────────────────────────────────────────
	var (
		records   []persistence.Route
		durations []float64
	)
	for _, q := range qs {
		dest := m.Index(q.To)
		if dest < 0 {
			slog.Warn("query target off board", "to", q.To)
			continue
		}
		maxTurns := q.MaxTurns
		if maxTurns <= 0 {
			maxTurns = routing.DefaultMaxTurns
		}

		var path []int
		var elapsed time.Duration
		for i := 0; i < repeat; i++ {
			pm.Clear()
			start := time.Now()
			path = pm.ShortestPath(dest, maxTurns)
			elapsed = time.Since(start)
			durations = append(durations, float64(elapsed.Microseconds()))
		}

		turns := -1
		if n := pm.NodeAt(dest); n.Initialized() && !n.Unreachable() {
			turns = n.Turns()
		}
		slog.Info("query",
			"from", m.At(u.Tile()),
			"to", q.To,
			"found", path != nil,
			"waypoints", len(path),
			"turns", turns,
			"took", elapsed.Round(time.Microsecond),
		)
		origin := m.At(u.Tile())
		records = append(records, persistence.Route{
			OriginQ: origin.Q, OriginR: origin.R,
			DestQ: q.To.Q, DestR: q.To.R,
			MaxTurns: maxTurns,
			Found:    path != nil,
			PathLen:  len(path),
			Turns:    turns,
			DurationUS: elapsed.Microseconds(),
		})
	}

	// ── Latency summary ───────────────────────────────────────────────
	if len(durations) > 1 {
		mean, std := stat.MeanStdDev(durations, nil)
		sorted := append([]float64(nil), durations...)
		sort.Float64s(sorted)
		p95 := stat.Quantile(0.95, stat.Empirical, sorted, nil)
		slog.Info("latency µs",
			"queries", len(durations),
			"mean", fmt.Sprintf("%.1f", mean),
			"stddev", fmt.Sprintf("%.1f", std),
			"p95", fmt.Sprintf("%.1f", p95),
		)
	}

	// ── Diagnostics ───────────────────────────────────────────────────
	if dump {
		out := pm.DumpCache()
		if isatty.IsTerminal(os.Stdout.Fd()) {
			out = "\x1b[2m" + out + "\x1b[0m"
		}
		fmt.Print(out)
	}

	// ── Route log ─────────────────────────────────────────────────────
	if dbPath != "" {
		db, err := persistence.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		runID, err := db.NewRun(seed, m.Radius, m.NumTiles(), name)
		if err != nil {
			return err
		}
		for i := range records {
			records[i].RunID = runID
		}
		if err := db.RecordRoutes(records); err != nil {
			return err
		}
		slog.Info("route log written", "db", dbPath, "run", runID, "routes", len(records))
	}
	return nil
}

// demoSetup places a unit on land near the center and aims queries at
// random distant land tiles.
func demoSetup(m *world.Map, seed int64) (*unit.Unit, *world.Relations, []scenario.Query) {
	rng := rand.New(rand.NewSource(seed))

	land := make([]int, 0, m.NumTiles())
	for i := 0; i < m.NumTiles(); i++ {
		t := m.Tile(i).Terrain
		if !t.Water() && t != world.TerrainMountain {
			land = append(land, i)
		}
	}
	if len(land) == 0 {
		land = append(land, m.Index(world.HexCoord{}))
	}

	start := land[0]
	for _, i := range land {
		if m.Distance(i, m.Index(world.HexCoord{})) < m.Distance(start, m.Index(world.HexCoord{})) {
			start = i
		}
	}
	u := unit.New("scout", start, 2)

	// Bounded draw: a near-barren board may offer no target but the
	// start tile, and then fewer (or zero) queries is the right answer.
	var qs []scenario.Query
	for attempts := 0; len(qs) < 8 && attempts < 64; attempts++ {
		dest := land[rng.Intn(len(land))]
		if dest == start {
			continue
		}
		qs = append(qs, scenario.Query{To: m.At(dest), MaxTurns: routing.DefaultMaxTurns})
	}
	return u, world.NewRelations(), qs
}
