// Package scenario loads pathlab scenario definitions: a YAML file
// naming the board (generated from a seed, or a hand-authored CSV tile
// sheet), the unit, diplomatic relations, and the queries to run.
// Tests use the same loader for fixture boards.
package scenario

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/talgya/hexroute/internal/movement"
	"github.com/talgya/hexroute/internal/routing"
	"github.com/talgya/hexroute/internal/unit"
	"github.com/talgya/hexroute/internal/world"
)

// Scenario is a complete pathlab input.
type Scenario struct {
	Name      string     `yaml:"name"`
	Map       MapSpec    `yaml:"map"`
	Unit      UnitSpec   `yaml:"unit"`
	Relations []Standing `yaml:"relations"`
	Queries   []Query    `yaml:"queries"`
}

// MapSpec selects a generated board or a CSV tile sheet. Sheet wins
// when both are present.
type MapSpec struct {
	Seed        int64   `yaml:"seed"`
	Radius      int     `yaml:"radius"`
	SeaLevel    float64 `yaml:"sea_level"`
	MountainLvl float64 `yaml:"mountain_lvl"`
	Sheet       string  `yaml:"sheet"`
}

// UnitSpec describes the mover.
type UnitSpec struct {
	Name              string         `yaml:"name"`
	Start             world.HexCoord `yaml:"start"`
	Movement          float64        `yaml:"movement"`
	CanPassImpassable bool           `yaml:"can_pass_impassable"`
	Civ               uint8          `yaml:"civ"`
}

// Standing is one symmetric diplomatic relation.
type Standing struct {
	A        world.CivID `yaml:"a"`
	B        world.CivID `yaml:"b"`
	Standing string      `yaml:"standing"` // war, enemy, neutral, friend, ally
}

// Query is one shortest-path request.
type Query struct {
	To       world.HexCoord `yaml:"to"`
	MaxTurns int            `yaml:"max_turns"`
}

// tileRow is one line of a CSV tile sheet.
type tileRow struct {
	Q           int    `csv:"q"`
	R           int    `csv:"r"`
	Terrain     string `csv:"terrain"`
	Improvement string `csv:"improvement"` // "", road, rail
	Owner       uint8  `csv:"owner"`
}

// Load reads a scenario YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(s.Queries) == 0 {
		return nil, fmt.Errorf("scenario %s: no queries", path)
	}
	// A sheet path is relative to the scenario file.
	if s.Map.Sheet != "" {
		s.Map.Sheet = filepath.Join(filepath.Dir(path), s.Map.Sheet)
	}
	return &s, nil
}

// BuildMap realizes the scenario's board.
func (s *Scenario) BuildMap() (*world.Map, error) {
	if s.Map.Sheet != "" {
		return LoadSheet(s.Map.Sheet)
	}
	cfg := world.DefaultGenConfig()
	cfg.Seed = s.Map.Seed
	if s.Map.Radius > 0 {
		cfg.Radius = s.Map.Radius
	}
	if s.Map.SeaLevel > 0 {
		cfg.SeaLevel = s.Map.SeaLevel
	}
	if s.Map.MountainLvl > 0 {
		cfg.MountainLvl = s.Map.MountainLvl
	}
	return world.Generate(cfg), nil
}

// BuildUnit realizes the scenario's mover on the given board.
func (s *Scenario) BuildUnit(m *world.Map) (*unit.Unit, error) {
	start := m.Index(s.Unit.Start)
	if start < 0 {
		return nil, fmt.Errorf("unit start %+v is off the board", s.Unit.Start)
	}
	u := unit.New(s.Unit.Name, start, 1)
	u.Full = movement.FromFloat(s.Unit.Movement)
	u.Left = u.Full
	u.CanPassImpassable = s.Unit.CanPassImpassable
	u.Civ = s.Unit.Civ
	return u, nil
}

// BuildRelations realizes the scenario's diplomacy table.
func (s *Scenario) BuildRelations() (*world.Relations, error) {
	rel := world.NewRelations()
	for _, st := range s.Relations {
		standing, ok := standingByName(st.Standing)
		if !ok {
			return nil, fmt.Errorf("unknown standing %q", st.Standing)
		}
		rel.Set(st.A, st.B, standing)
	}
	return rel, nil
}

// LoadSheet reads a CSV tile sheet into a board sized to fit every
// listed coordinate. Unlisted tiles within the radius default to
// plains.
func LoadSheet(path string) (*world.Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sheet: %w", err)
	}
	defer f.Close()

	var rows []*tileRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse sheet %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s: no tiles", path)
	}

	radius := 0
	for _, row := range rows {
		if d := world.Distance(world.HexCoord{Q: row.Q, R: row.R}, world.HexCoord{}); d > radius {
			radius = d
		}
	}

	m := world.NewMap(radius, world.TerrainPlains)
	for _, row := range rows {
		c := world.HexCoord{Q: row.Q, R: row.R}
		terrain, ok := world.TerrainByName(row.Terrain)
		if !ok {
			return nil, fmt.Errorf("sheet %s: unknown terrain %q at %+v", path, row.Terrain, c)
		}
		m.SetTerrain(c, terrain)
		switch row.Improvement {
		case "", "none":
		case "road":
			m.Improve(c, world.ImprovementRoad)
		case "rail":
			m.Improve(c, world.ImprovementRail)
		default:
			return nil, fmt.Errorf("sheet %s: unknown improvement %q at %+v", path, row.Improvement, c)
		}
		m.SetOwner(c, world.CivID(row.Owner))
	}
	return m, nil
}

func standingByName(name string) (routing.Relationship, bool) {
	switch name {
	case "war":
		return routing.RelationWar, true
	case "enemy":
		return routing.RelationEnemy, true
	case "", "neutral":
		return routing.RelationNeutral, true
	case "friend":
		return routing.RelationFriend, true
	case "ally":
		return routing.RelationAlly, true
	}
	return 0, false
}
