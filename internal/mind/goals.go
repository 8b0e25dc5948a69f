package mind

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"neuroconscious/internal/agent"
	"neuroconscious/internal/config"
	"neuroconscious/internal/world"
)

// GoalKind names the pursuit strategy a goal uses.
type GoalKind uint8

const (
	GoalReachLocation GoalKind = iota
	GoalClearPath
	GoalMaintainHungerLow
	GoalMaintainThirstLow
	GoalExploreArea
)

func (k GoalKind) String() string {
	switch k {
	case GoalReachLocation:
		return "reach_location"
	case GoalClearPath:
		return "clear_path"
	case GoalMaintainHungerLow:
		return "maintain_hunger_low"
	case GoalMaintainThirstLow:
		return "maintain_thirst_low"
	case GoalExploreArea:
		return "explore_area"
	default:
		return "unknown"
	}
}

// Goal is one objective the agent can pursue. Sub-goals reference their
// parent by ID and inherit a fraction of its priority while the parent
// is incomplete.
type Goal struct {
	ID        string   `json:"id"`
	Kind      GoalKind `json:"kind"`
	Name      string   `json:"name"`
	Priority  float64  `json:"priority"`
	Completed bool     `json:"completed"`

	ParentID string   `json:"parent_id,omitempty"`
	Prereqs  []string `json:"prereqs,omitempty"`

	// Location goals.
	Target world.Coord `json:"target,omitempty"`

	// Maintain goals: the need must stay below Threshold for Duration
	// consecutive ticks.
	Threshold float64 `json:"threshold,omitempty"`
	Duration  int     `json:"duration,omitempty"`
	Held      int     `json:"held,omitempty"`

	// Clear-path goals: the obstacle to remove, once identified.
	Obstacle    world.Coord `json:"obstacle,omitempty"`
	HasObstacle bool        `json:"has_obstacle,omitempty"`
}

// GoalStore holds the agent's active goals in insertion order.
type GoalStore struct {
	goals []*Goal
}

func NewGoalStore() *GoalStore { return &GoalStore{} }

// SeedDefaults installs the starting goal hierarchy: a reach-center main
// goal with a clear-obstacle sub-goal, plus two maintenance goals.
func (s *GoalStore) SeedDefaults(gridSize int) {
	center := gridSize / 2
	s.Add(&Goal{
		ID:       "goal_reach_center",
		Kind:     GoalReachLocation,
		Name:     "reach center of map",
		Priority: 0.9,
		Target:   world.Coord{X: center, Y: center},
	})
	s.Add(&Goal{
		ID:       "sub_goal_clear_obstacle",
		Kind:     GoalClearPath,
		Name:     "clear obstacle on path",
		Priority: 0.85,
		ParentID: "goal_reach_center",
	})
	s.Add(&Goal{
		ID:        "goal_stay_fed",
		Kind:      GoalMaintainHungerLow,
		Name:      "stay fed",
		Priority:  0.6,
		Threshold: 0.3,
		Duration:  20,
	})
	s.Add(&Goal{
		ID:        "goal_stay_hydrated",
		Kind:      GoalMaintainThirstLow,
		Name:      "stay hydrated",
		Priority:  0.7,
		Threshold: 0.2,
		Duration:  15,
	})
}

func (s *GoalStore) Add(g *Goal) { s.goals = append(s.goals, g) }

// Get returns the goal with the given ID, or nil.
func (s *GoalStore) Get(id string) *Goal {
	for _, g := range s.goals {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// All returns the underlying goal slice. Callers must not reorder it.
func (s *GoalStore) All() []*Goal { return s.goals }

// HasIncomplete reports whether any goal of the kind is still open.
func (s *GoalStore) HasIncomplete(kind GoalKind) bool {
	for _, g := range s.goals {
		if g.Kind == kind && !g.Completed {
			return true
		}
	}
	return false
}

// AnyIncomplete reports whether any goal at all is still open.
func (s *GoalStore) AnyIncomplete() bool {
	for _, g := range s.goals {
		if !g.Completed {
			return true
		}
	}
	return false
}

// prereqsMet reports whether every prerequisite goal is completed.
// Unknown prerequisite IDs are treated as met.
func (s *GoalStore) prereqsMet(g *Goal) bool {
	for _, id := range g.Prereqs {
		if p := s.Get(id); p != nil && !p.Completed {
			return false
		}
	}
	return true
}

// effectivePriority is the goal's priority plus a boost proportional to
// its parent's while the parent is still incomplete.
func (s *GoalStore) effectivePriority(g *Goal, boost float64) float64 {
	p := g.Priority
	if g.ParentID != "" {
		if parent := s.Get(g.ParentID); parent != nil && !parent.Completed {
			p += parent.Priority * boost
			if p > 1 {
				p = 1
			}
		}
	}
	return p
}

// MostRelevant returns the open goal with the highest effective priority
// among those whose prerequisites are met, or nil.
func (s *GoalStore) MostRelevant(boost float64) *Goal {
	var best *Goal
	bestP := -1.0
	for _, g := range s.goals {
		if g.Completed || !s.prereqsMet(g) {
			continue
		}
		if p := s.effectivePriority(g, boost); p > bestP {
			bestP = p
			best = g
		}
	}
	return best
}

// GoalGenerator grows the goal set proactively: a hunger-maintenance
// goal when hunger runs high, an exploration target when curiosity does.
// A cooldown keeps it from flooding the store.
type GoalGenerator struct {
	cfg      config.DecisionTuning
	lastStep uint64
	ran      bool
	rng      *rand.Rand
}

func NewGoalGenerator(cfg config.DecisionTuning, rng *rand.Rand) *GoalGenerator {
	return &GoalGenerator{cfg: cfg, rng: rng}
}

// Process inspects the agent's state and adds any goals the rules call
// for. It also retires the clear-path sub-goal once its obstacle is
// gone.
func (gg *GoalGenerator) Process(store *GoalStore, g *world.Grid, state agent.PhysState, curiosity float64, step uint64) {
	if gg.ran && step-gg.lastStep < uint64(gg.cfg.GoalGenerateCooldown) {
		return
	}
	gg.lastStep = step
	gg.ran = true

	if state.Hunger > gg.cfg.GoalGenerateHunger && !store.HasIncomplete(GoalMaintainHungerLow) {
		store.Add(&Goal{
			ID:        "goal_" + uuid.NewString(),
			Kind:      GoalMaintainHungerLow,
			Name:      "satisfy hunger",
			Priority:  0.75,
			Threshold: 0.3,
			Duration:  5,
		})
		slog.Debug("goal generated", "kind", "maintain_hunger_low", "step", step)
	}

	if curiosity > gg.cfg.GoalGenerateCuriosity &&
		!store.HasIncomplete(GoalReachLocation) && !store.HasIncomplete(GoalExploreArea) {
		target := world.Coord{X: gg.rng.Intn(g.Size), Y: gg.rng.Intn(g.Size)}
		store.Add(&Goal{
			ID:       "goal_" + uuid.NewString(),
			Kind:     GoalReachLocation,
			Name:     fmt.Sprintf("explore area (%d,%d)", target.X, target.Y),
			Priority: 0.3,
			Target:   target,
		})
		slog.Debug("goal generated", "kind", "reach_location", "target", target, "step", step)
	}

	if cp := store.Get("sub_goal_clear_obstacle"); cp != nil && !cp.Completed && cp.HasObstacle {
		if g.At(cp.Obstacle) != world.CellObstacle {
			cp.Completed = true
			slog.Debug("goal completed", "goal", cp.Name, "reason", "obstacle gone")
		}
	}
}
