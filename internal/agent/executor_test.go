package agent

import (
	"math"
	"math/rand"
	"testing"

	"neuroconscious/internal/config"
	"neuroconscious/internal/world"
)

func newTestAgent(t *testing.T) (*Agent, *world.Grid) {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = 11
	g := world.Generate(cfg)
	a := New("tester", world.Coord{}, rand.New(rand.NewSource(1)))
	a.State.Mood = 0.5 // neutral, so raw and adjusted rewards match
	return a, g
}

func TestExecuteSeekFoodSuccess(t *testing.T) {
	a, g := newTestAgent(t)
	g.Cells[0][0] = world.CellFood
	a.State.Hunger = 0.9

	out := a.Execute(g, ActionSeekFood)
	if !out.Success {
		t.Fatal("expected success on food cell")
	}
	if math.Abs(out.RawReward-0.5) > 1e-9 {
		t.Fatalf("reward=%v want 0.5", out.RawReward)
	}
	if math.Abs(a.State.Hunger-0.2) > 1e-9 {
		t.Fatalf("hunger=%v want 0.2", a.State.Hunger)
	}
	if g.At(a.Pos) != world.CellEmpty {
		t.Fatal("food not consumed")
	}
}

func TestExecuteSeekFoodFailure(t *testing.T) {
	a, g := newTestAgent(t)
	g.Cells[0][0] = world.CellEmpty
	a.State.Hunger = 0.5

	out := a.Execute(g, ActionSeekFood)
	if out.Success {
		t.Fatal("expected failure on empty cell")
	}
	if math.Abs(out.RawReward-(-0.1)) > 1e-9 {
		t.Fatalf("reward=%v want -0.1", out.RawReward)
	}
	if math.Abs(a.State.Hunger-0.52) > 1e-9 {
		t.Fatalf("hunger=%v want 0.52", a.State.Hunger)
	}
}

func TestExecuteDrinkWater(t *testing.T) {
	a, g := newTestAgent(t)
	g.Cells[0][0] = world.CellWater
	a.State.Thirst = 0.9

	out := a.Execute(g, ActionDrinkWater)
	if !out.Success || math.Abs(out.RawReward-0.6) > 1e-9 {
		t.Fatalf("success=%v reward=%v want true 0.6", out.Success, out.RawReward)
	}
	if math.Abs(a.State.Thirst-0.1) > 1e-9 {
		t.Fatalf("thirst=%v want 0.1", a.State.Thirst)
	}

	out = a.Execute(g, ActionDrinkWater)
	if out.Success {
		t.Fatal("second drink should fail, water consumed")
	}
	if math.Abs(out.RawReward-(-0.15)) > 1e-9 {
		t.Fatalf("reward=%v want -0.15", out.RawReward)
	}
}

func TestExecuteRest(t *testing.T) {
	a, g := newTestAgent(t)
	a.State.Fatigue = 0.9

	out := a.Execute(g, ActionRest)
	if !out.Success || math.Abs(out.RawReward-0.4) > 1e-9 {
		t.Fatalf("success=%v reward=%v want true 0.4", out.Success, out.RawReward)
	}
	if math.Abs(a.State.Fatigue-0.3) > 1e-9 {
		t.Fatalf("fatigue=%v want 0.3", a.State.Fatigue)
	}
}

func TestExecuteExploreCostsAllNeeds(t *testing.T) {
	a, g := newTestAgent(t)
	before := a.State

	out := a.Execute(g, ActionExplore)
	if math.Abs(out.RawReward-(-0.05)) > 1e-9 {
		t.Fatalf("reward=%v want -0.05", out.RawReward)
	}
	if a.State.Hunger <= before.Hunger || a.State.Fatigue <= before.Fatigue || a.State.Thirst <= before.Thirst {
		t.Fatal("explore should raise all needs")
	}
}

func TestExecuteMove(t *testing.T) {
	a, g := newTestAgent(t)
	g.Cells[1][0] = world.CellEmpty

	out := a.Execute(g, ActionMoveDown)
	if !out.Moved || a.Pos != (world.Coord{X: 1, Y: 0}) {
		t.Fatalf("moved=%v pos=%v", out.Moved, a.Pos)
	}
	if math.Abs(out.RawReward-(-0.01)) > 1e-9 {
		t.Fatalf("move cost=%v want -0.01", out.RawReward)
	}
}

func TestExecuteMoveBlocked(t *testing.T) {
	a, g := newTestAgent(t)
	g.Cells[1][0] = world.CellObstacle

	out := a.Execute(g, ActionMoveDown)
	if out.Moved || a.Pos != (world.Coord{}) {
		t.Fatal("should not move onto an obstacle")
	}
	if math.Abs(out.RawReward-(-0.1)) > 1e-9 {
		t.Fatalf("blocked penalty=%v want -0.1", out.RawReward)
	}

	// Out of bounds costs the same.
	out = a.Execute(g, ActionMoveUp)
	if out.Moved || math.Abs(out.RawReward-(-0.1)) > 1e-9 {
		t.Fatalf("edge move: moved=%v reward=%v", out.Moved, out.RawReward)
	}
}

func TestExecuteMoveObject(t *testing.T) {
	a, g := newTestAgent(t)
	// Obstacle to the right of the agent with a free cell beyond it.
	g.Cells[0][1] = world.CellObstacle
	g.Cells[0][2] = world.CellEmpty

	out := a.Execute(g, ActionMoveObject)
	if !out.Success || math.Abs(out.RawReward-0.3) > 1e-9 {
		t.Fatalf("success=%v reward=%v want true 0.3", out.Success, out.RawReward)
	}
	if g.At(world.Coord{Y: 1}) != world.CellEmpty {
		t.Fatal("obstacle not moved away")
	}
}

func TestExecuteMoveObjectNothingNearby(t *testing.T) {
	a, g := newTestAgent(t)
	for _, c := range []world.Coord{{X: 0, Y: 1}, {X: 1, Y: 0}} {
		g.Cells[c.X][c.Y] = world.CellEmpty
	}

	out := a.Execute(g, ActionMoveObject)
	if out.Success {
		t.Fatal("no obstacle around, should fail")
	}
	if math.Abs(out.RawReward-(-0.2)) > 1e-9 {
		t.Fatalf("reward=%v want -0.2", out.RawReward)
	}
}
