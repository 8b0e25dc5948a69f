package world

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"neuroconscious/internal/config"
)

// Grid is the mutable simulation environment.
type Grid struct {
	Size  int
	Cells [][]Cell

	Tick        uint64
	TimeOfDay   TimeOfDay
	Weather     Weather
	FoodGlobal  bool // whether any food exists anywhere on the grid
	WaterGlobal bool

	cfg config.WorldTuning
	rng *rand.Rand
}

// Generate builds a grid from the tuning. Obstacles follow a noise field
// so they form short ridges rather than uniform speckle; food and water
// are scattered by the seeded rng.
func Generate(t config.Tuning) *Grid {
	g := &Grid{
		Size:      t.GridSize,
		Cells:     make([][]Cell, t.GridSize),
		TimeOfDay: Day,
		Weather:   WeatherSunny,
		cfg:       t.World,
		rng:       rand.New(rand.NewSource(t.Seed)),
	}

	noise := opensimplex.NewNormalized(t.Seed)
	for x := 0; x < g.Size; x++ {
		g.Cells[x] = make([]Cell, g.Size)
		for y := 0; y < g.Size; y++ {
			// Sample at a coarse frequency so ridges span a few cells.
			v := noise.Eval2(float64(x)*0.35, float64(y)*0.35)
			if v > 1.0-t.World.ObstacleDensity {
				g.Cells[x][y] = CellObstacle
			}
		}
	}

	// Keep the origin clear: agents spawn at (0,0).
	g.Cells[0][0] = CellEmpty

	// Initial resources.
	for i := 0; i < g.Size/2+1; i++ {
		g.scatter(CellFood)
		g.scatter(CellWater)
	}
	g.refreshGlobals()
	return g
}

// scatter places one cell of the given kind on a random empty cell.
func (g *Grid) scatter(kind Cell) {
	for attempt := 0; attempt < 20; attempt++ {
		x := g.rng.Intn(g.Size)
		y := g.rng.Intn(g.Size)
		if g.Cells[x][y] == CellEmpty && !(x == 0 && y == 0) {
			g.Cells[x][y] = kind
			return
		}
	}
}

// Advance moves the environment forward one tick: resource respawn,
// day/night phase, and a weather random walk.
func (g *Grid) Advance() {
	g.Tick++

	if g.rng.Float64() < g.cfg.FoodSpawnChance {
		g.scatter(CellFood)
	}
	if g.rng.Float64() < g.cfg.WaterSpawnChance {
		g.scatter(CellWater)
	}
	g.refreshGlobals()

	half := uint64(g.cfg.DayNightCycle / 2)
	if half == 0 {
		half = 1
	}
	if (g.Tick/half)%2 == 0 {
		g.TimeOfDay = Day
	} else {
		g.TimeOfDay = Night
	}

	if g.rng.Float64() < g.cfg.WeatherShift {
		g.Weather = g.nextWeather()
	}
}

// nextWeather walks one step through the weather states. Storms only
// follow rain, and always clear back toward rain.
func (g *Grid) nextWeather() Weather {
	switch g.Weather {
	case WeatherSunny:
		return WeatherRainy
	case WeatherRainy:
		if g.rng.Float64() < 0.5 {
			return WeatherStormy
		}
		return WeatherSunny
	default:
		return WeatherRainy
	}
}

func (g *Grid) refreshGlobals() {
	g.FoodGlobal = false
	g.WaterGlobal = false
	for x := 0; x < g.Size; x++ {
		for y := 0; y < g.Size; y++ {
			switch g.Cells[x][y] {
			case CellFood:
				g.FoodGlobal = true
			case CellWater:
				g.WaterGlobal = true
			}
		}
	}
}

// InBounds reports whether c lies on the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.Size && c.Y >= 0 && c.Y < g.Size
}

// At returns the cell content at c, or CellEmpty when out of bounds.
func (g *Grid) At(c Coord) Cell {
	if !g.InBounds(c) {
		return CellEmpty
	}
	return g.Cells[c.X][c.Y]
}

// Consume removes a food or water cell at c and reports whether the
// expected resource was actually there.
func (g *Grid) Consume(c Coord, kind Cell) bool {
	if !g.InBounds(c) || g.Cells[c.X][c.Y] != kind {
		return false
	}
	g.Cells[c.X][c.Y] = CellEmpty
	g.refreshGlobals()
	return true
}

// CanEnter reports whether an agent may move onto c.
func (g *Grid) CanEnter(c Coord) bool {
	return g.InBounds(c) && g.Cells[c.X][c.Y] != CellObstacle
}

// MoveObstacle relocates the obstacle at from to the first empty adjacent
// cell, trying right, down, left, up in that order. Returns the new
// location and true on success.
func (g *Grid) MoveObstacle(from Coord) (Coord, bool) {
	if g.At(from) != CellObstacle {
		return Coord{}, false
	}
	candidates := []Coord{
		{X: from.X, Y: from.Y + 1},
		{X: from.X + 1, Y: from.Y},
		{X: from.X, Y: from.Y - 1},
		{X: from.X - 1, Y: from.Y},
	}
	for _, to := range candidates {
		if g.InBounds(to) && g.Cells[to.X][to.Y] == CellEmpty {
			g.Cells[from.X][from.Y] = CellEmpty
			g.Cells[to.X][to.Y] = CellObstacle
			return to, true
		}
	}
	return Coord{}, false
}

// NearestObstacleTo returns the obstacle nearest to c within the bounding
// box spanned by c and target, if any. Used to detect path blockage.
func (g *Grid) NearestObstacleTo(c, target Coord) (Coord, bool) {
	loX, hiX := minmax(c.X, target.X)
	loY, hiY := minmax(c.Y, target.Y)
	best := Coord{}
	bestDist := -1
	for x := loX; x <= hiX; x++ {
		for y := loY; y <= hiY; y++ {
			if g.Cells[x][y] != CellObstacle {
				continue
			}
			candidate := Coord{X: x, Y: y}
			d := c.Manhattan(candidate)
			if bestDist < 0 || d < bestDist {
				best = candidate
				bestDist = d
			}
		}
	}
	return best, bestDist >= 0
}

func minmax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}
