package mind

import (
	"math/rand"
	"testing"

	"neuroconscious/internal/agent"
	"neuroconscious/internal/config"
	"neuroconscious/internal/world"
)

func TestSeedDefaults(t *testing.T) {
	s := NewGoalStore()
	s.SeedDefaults(10)

	if len(s.All()) != 4 {
		t.Fatalf("len=%d want 4", len(s.All()))
	}
	center := s.Get("goal_reach_center")
	if center == nil || center.Target != (world.Coord{X: 5, Y: 5}) {
		t.Fatalf("reach-center goal=%+v", center)
	}
	sub := s.Get("sub_goal_clear_obstacle")
	if sub == nil || sub.ParentID != "goal_reach_center" {
		t.Fatalf("clear-obstacle sub-goal=%+v", sub)
	}
	if s.Get("goal_stay_fed") == nil || s.Get("goal_stay_hydrated") == nil {
		t.Fatal("maintenance goals missing")
	}
}

func TestMostRelevantUsesParentBoost(t *testing.T) {
	s := NewGoalStore()
	s.Add(&Goal{ID: "parent", Kind: GoalReachLocation, Priority: 0.9})
	s.Add(&Goal{ID: "child", Kind: GoalClearPath, Priority: 0.85, ParentID: "parent"})

	// 0.85 + 0.9*0.1 = 0.94 beats the parent's 0.9.
	if got := s.MostRelevant(0.1); got.ID != "child" {
		t.Fatalf("most relevant=%s want child", got.ID)
	}
	// Without the boost the parent wins.
	if got := s.MostRelevant(0); got.ID != "parent" {
		t.Fatalf("most relevant=%s want parent", got.ID)
	}
	// Once the parent completes, the boost disappears too.
	s.Get("parent").Completed = true
	if got := s.MostRelevant(0.1); got.ID != "child" || s.effectivePriority(got, 0.1) != 0.85 {
		t.Fatalf("completed parent should stop boosting, got %+v", got)
	}
}

func TestMostRelevantSkipsUnmetPrereqs(t *testing.T) {
	s := NewGoalStore()
	s.Add(&Goal{ID: "first", Kind: GoalClearPath, Priority: 0.3})
	s.Add(&Goal{ID: "second", Kind: GoalReachLocation, Priority: 0.9, Prereqs: []string{"first"}})

	if got := s.MostRelevant(0.1); got.ID != "first" {
		t.Fatalf("most relevant=%s, gated goal should not be picked", got.ID)
	}
	s.Get("first").Completed = true
	if got := s.MostRelevant(0.1); got.ID != "second" {
		t.Fatalf("most relevant=%s want second once prereq done", got.ID)
	}
}

func TestGeneratorSpawnsHungerGoal(t *testing.T) {
	s := NewGoalStore()
	g := world.Generate(config.Default())
	gg := NewGoalGenerator(config.Default().Decision, rand.New(rand.NewSource(1)))

	gg.Process(s, g, agent.PhysState{Hunger: 0.7}, 0, 1)
	if !s.HasIncomplete(GoalMaintainHungerLow) {
		t.Fatal("high hunger should spawn a maintenance goal")
	}
	n := len(s.All())

	// Cooldown: a second call right away adds nothing.
	gg.Process(s, g, agent.PhysState{Hunger: 0.7}, 0.9, 2)
	if len(s.All()) != n {
		t.Fatalf("len=%d want %d during cooldown", len(s.All()), n)
	}
}

func TestGeneratorSpawnsExploreGoalOnCuriosity(t *testing.T) {
	s := NewGoalStore()
	cfg := config.Default()
	g := world.Generate(cfg)
	gg := NewGoalGenerator(cfg.Decision, rand.New(rand.NewSource(1)))

	gg.Process(s, g, agent.PhysState{}, 0.8, 1)
	if !s.HasIncomplete(GoalReachLocation) {
		t.Fatal("high curiosity should spawn a reach-location goal")
	}
	target := s.MostRelevant(0).Target
	if target.X < 0 || target.X >= g.Size || target.Y < 0 || target.Y >= g.Size {
		t.Fatalf("target %v outside the grid", target)
	}

	// An open location goal suppresses further exploration targets.
	gg.Process(s, g, agent.PhysState{}, 0.8, 100)
	if len(s.All()) != 1 {
		t.Fatalf("len=%d want 1, no duplicate explore goals", len(s.All()))
	}
}

func TestGeneratorRetiresClearPathGoal(t *testing.T) {
	cfg := config.Default()
	g := world.Generate(cfg)
	s := NewGoalStore()
	s.SeedDefaults(cfg.GridSize)

	sub := s.Get("sub_goal_clear_obstacle")
	sub.HasObstacle = true
	sub.Obstacle = world.Coord{X: 0, Y: 0} // origin is always clear
	gg := NewGoalGenerator(cfg.Decision, rand.New(rand.NewSource(1)))
	gg.Process(s, g, agent.PhysState{}, 0, 1)

	if !sub.Completed {
		t.Fatal("sub-goal should retire once its obstacle is gone")
	}
}
