package world

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hexroute/internal/routing"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Radius      int     `yaml:"radius"`       // Hex grid radius (~22 for ~1500 tiles)
	Seed        int64   `yaml:"seed"`         // Random seed (0 = random)
	SeaLevel    float64 `yaml:"sea_level"`    // Elevation threshold for ocean (0.0–1.0)
	MountainLvl float64 `yaml:"mountain_lvl"` // Elevation threshold for mountains (0.0–1.0)
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:      22,
		Seed:        0,
		SeaLevel:    0.25,
		MountainLvl: 0.72,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Radius:      6,
		Seed:        42,
		SeaLevel:    0.30,
		MountainLvl: 0.75,
	}
}

// Generate creates a world map with terrain derived from layered
// elevation, rainfall, and temperature noise. Deterministic for a
// fixed nonzero seed.
func Generate(cfg GenConfig) *Map {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	elevNoise := opensimplex.NewNormalized(seed)
	rainNoise := opensimplex.NewNormalized(seed + 1)
	tempNoise := opensimplex.NewNormalized(seed + 2)

	m := NewMap(cfg.Radius, TerrainPlains)

	for i := 0; i < m.NumTiles(); i++ {
		tile := m.Tile(i)
		c := tile.Coord

		// Hex axial → cartesian for noise sampling.
		x := float64(c.Q) + float64(c.R)*0.5
		y := float64(c.R) * math.Sqrt(3.0) / 2.0

		elev := octaveNoise(elevNoise, x, y, 4, 0.08, 0.5)
		rain := octaveNoise(rainNoise, x, y, 3, 0.06, 0.5)
		temp := octaveNoise(tempNoise, x, y, 3, 0.05, 0.5)

		// Continental shaping: lower elevation near the rim so the
		// board is ringed by ocean.
		distFromCenter := math.Sqrt(x*x+y*y) / float64(cfg.Radius)
		edgeFalloff := 1.0 - math.Pow(distFromCenter, 3.5)
		if edgeFalloff < 0 {
			edgeFalloff = 0
		}
		elev *= edgeFalloff

		// Temperature drops with elevation and latitude.
		temp = temp*0.6 + (1.0-math.Abs(y)/float64(cfg.Radius))*0.3 + (1.0-elev)*0.1

		tile.Terrain = deriveTerrain(elev, rain, temp, cfg)
	}

	markCoast(m)
	return m
}

// deriveTerrain maps climate values to a terrain type.
func deriveTerrain(elev, rain, temp float64, cfg GenConfig) Terrain {
	switch {
	case elev < cfg.SeaLevel:
		return TerrainOcean
	case elev >= cfg.MountainLvl:
		return TerrainMountain
	case elev >= cfg.MountainLvl-0.12:
		return TerrainHills
	case temp < 0.25:
		return TerrainTundra
	case rain < 0.25 && temp > 0.6:
		return TerrainDesert
	case rain > 0.75 && elev < cfg.SeaLevel+0.1:
		return TerrainSwamp
	case rain > 0.55:
		return TerrainForest
	default:
		return TerrainPlains
	}
}

// markCoast converts ocean tiles adjacent to land into coast.
func markCoast(m *Map) {
	for i := 0; i < m.NumTiles(); i++ {
		tile := m.Tile(i)
		if tile.Terrain != TerrainOcean {
			continue
		}
		for d := routing.Direction(1); d <= 6; d++ {
			nb := m.Neighbor(i, d)
			if nb >= 0 && !m.Tile(nb).Terrain.Water() {
				tile.Terrain = TerrainCoast
				break
			}
		}
	}
}

// octaveNoise samples multi-octave normalized noise in [0, 1].
func octaveNoise(n opensimplex.Noise, x, y float64, octaves int, freq, persistence float64) float64 {
	var total, amplitude, maxValue float64
	amplitude = 1.0
	for o := 0; o < octaves; o++ {
		total += n.Eval2(x*freq, y*freq) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		freq *= 2
	}
	return total / maxValue
}
