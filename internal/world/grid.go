// Package world provides the grid environment the agents live in:
// cell contents, day/night cycle, weather, and the mutation API agents
// act through.
package world

// Cell enumerates what a grid cell holds.
type Cell uint8

const (
	CellEmpty Cell = iota
	CellFood
	CellWater
	CellObstacle
)

// String returns the lowercase cell name.
func (c Cell) String() string {
	switch c {
	case CellFood:
		return "food"
	case CellWater:
		return "water"
	case CellObstacle:
		return "obstacle"
	default:
		return "empty"
	}
}

// Coord is a grid position. X is the row index, Y the column index.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Manhattan returns the L1 distance between two coordinates.
func (c Coord) Manhattan(o Coord) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

// Adjacent reports whether o is within one step (including diagonals)
// of c. A cell is adjacent to itself.
func (c Coord) Adjacent(o Coord) bool {
	return abs(c.X-o.X) <= 1 && abs(c.Y-o.Y) <= 1
}

// Direction is a cardinal movement direction.
type Direction uint8

const (
	DirUp    Direction = iota // -X
	DirDown                   // +X
	DirLeft                   // -Y
	DirRight                  // +Y
)

// Step returns the coordinate one cell away in direction d.
func (c Coord) Step(d Direction) Coord {
	switch d {
	case DirUp:
		return Coord{X: c.X - 1, Y: c.Y}
	case DirDown:
		return Coord{X: c.X + 1, Y: c.Y}
	case DirLeft:
		return Coord{X: c.X, Y: c.Y - 1}
	default:
		return Coord{X: c.X, Y: c.Y + 1}
	}
}

// TimeOfDay is the day/night phase.
type TimeOfDay uint8

const (
	Day TimeOfDay = iota
	Night
)

func (t TimeOfDay) String() string {
	if t == Night {
		return "night"
	}
	return "day"
}

// Weather enumerates the global weather condition.
type Weather uint8

const (
	WeatherSunny Weather = iota
	WeatherRainy
	WeatherStormy
)

func (w Weather) String() string {
	switch w {
	case WeatherRainy:
		return "rainy"
	case WeatherStormy:
		return "stormy"
	default:
		return "sunny"
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
