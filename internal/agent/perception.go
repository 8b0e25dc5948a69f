package agent

import (
	"math/rand"

	"neuroconscious/internal/config"
	"neuroconscious/internal/world"
)

// Perception is the read-only environment snapshot an agent builds each
// tick. The cognition core consumes it without touching the grid.
type Perception struct {
	Tick    uint64
	Night   bool
	Weather world.Weather

	FoodGlobal  bool
	WaterGlobal bool

	FoodInSight     bool
	WaterInSight    bool
	ObstacleInSight bool
	// OthersInSight stays false in single-agent runs; it feeds the
	// arbiter's social modifier once multiple agents share a grid.
	OthersInSight bool

	FoodLocations     []world.Coord
	WaterLocations    []world.Coord
	ObstacleLocations []world.Coord
}

// Focus names the stimulus a Focused agent is attending to.
type Focus uint8

const (
	FocusNone Focus = iota
	FocusFood
	FocusWater
	FocusRest
	FocusObstacle
	FocusCuriosity
	FocusLocation
)

func (f Focus) String() string {
	switch f {
	case FocusFood:
		return "food"
	case FocusWater:
		return "water"
	case FocusRest:
		return "rest"
	case FocusObstacle:
		return "obstacle"
	case FocusCuriosity:
		return "curiosity"
	case FocusLocation:
		return "location_target"
	default:
		return "none"
	}
}

// Sense scans the cells around pos and returns a perception snapshot.
// Each cell is noticed with probability accuracy; attention on a
// matching stimulus adds boost to that cell's chance. Missed cells are
// simply absent from the snapshot, so perception is imperfect by design
// of the accuracy parameter alone.
func Sense(g *world.Grid, pos world.Coord, focus Focus, t config.WorldTuning, rng *rand.Rand) Perception {
	p := Perception{
		Tick:        g.Tick,
		Night:       g.TimeOfDay == world.Night,
		Weather:     g.Weather,
		FoodGlobal:  g.FoodGlobal,
		WaterGlobal: g.WaterGlobal,
	}

	r := t.PerceptionRadius
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			c := world.Coord{X: pos.X + dx, Y: pos.Y + dy}
			if !g.InBounds(c) {
				continue
			}
			cell := g.At(c)
			if cell == world.CellEmpty {
				continue
			}

			acc := t.PerceptionAcc
			switch {
			case focus == FocusFood && cell == world.CellFood:
				acc = min1(acc + t.FocusAccBoost)
			case focus == FocusWater && cell == world.CellWater:
				acc = min1(acc + t.FocusAccBoost)
			case focus == FocusObstacle && cell == world.CellObstacle:
				acc = min1(acc + t.FocusAccBoost)
			case focus == FocusLocation:
				acc = min1(acc + t.FocusAccBoost)
			}
			if rng.Float64() >= acc {
				continue
			}

			switch cell {
			case world.CellFood:
				p.FoodInSight = true
				p.FoodLocations = append(p.FoodLocations, c)
			case world.CellWater:
				p.WaterInSight = true
				p.WaterLocations = append(p.WaterLocations, c)
			case world.CellObstacle:
				p.ObstacleInSight = true
				p.ObstacleLocations = append(p.ObstacleLocations, c)
			}
		}
	}
	return p
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
