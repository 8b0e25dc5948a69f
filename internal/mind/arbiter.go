package mind

import (
	"fmt"
	"math/rand"

	"neuroconscious/internal/agent"
	"neuroconscious/internal/config"
	"neuroconscious/internal/memory"
	"neuroconscious/internal/world"
)

// Decision is the arbiter's output: the action to take, where in the
// hierarchy it came from, and the reasoning trace that produced it.
type Decision struct {
	Action agent.Action
	Source string
	// ProcedureID is set when a procedure suggested the action, so the
	// executor can report the outcome back to procedural memory.
	ProcedureID string
	Trace       []string
}

func (d *Decision) note(format string, args ...any) {
	d.Trace = append(d.Trace, fmt.Sprintf(format, args...))
}

// Arbiter resolves each tick's action through a fixed hierarchy:
// critical needs, then strong habits, then the value learner's default,
// refined in turn by goals, semantic and working memory, and finally
// weather, curiosity and social modifiers.
type Arbiter struct {
	cfg config.DecisionTuning
	rng *rand.Rand
}

func NewArbiter(cfg config.DecisionTuning, rng *rand.Rand) *Arbiter {
	return &Arbiter{cfg: cfg, rng: rng}
}

// Decide picks the action for one tick. Goal progress tracking happens
// here as a side effect: maintain goals accumulate held ticks and
// location goals complete on arrival.
func (ar *Arbiter) Decide(a *agent.Agent, g *world.Grid, goals *GoalStore, procs *memory.Procedural,
	sem *memory.Semantic, wm *memory.Working, learner *Learner, style DecisionStyle) Decision {

	d := Decision{}
	d.note("decision style: %s", style)

	// Critical needs override everything, in a fixed order.
	switch {
	case a.State.Hunger > ar.cfg.CriticalNeed:
		d.Action, d.Source = agent.ActionSeekFood, "critical"
		d.note("critical hunger %.2f", a.State.Hunger)
		return d
	case a.State.Thirst > ar.cfg.CriticalNeed:
		d.Action, d.Source = agent.ActionDrinkWater, "critical"
		d.note("critical thirst %.2f", a.State.Thirst)
		return d
	case a.State.Fatigue > ar.cfg.CriticalNeed:
		d.Action, d.Source = agent.ActionRest, "critical"
		d.note("critical fatigue %.2f", a.State.Fatigue)
		return d
	}

	// Strong habits short-circuit the rest. The reactive style acts on
	// weaker procedures than the deliberative one does.
	situation := memory.Situation{
		Hunger:          a.State.Hunger,
		Fatigue:         a.State.Fatigue,
		Thirst:          a.State.Thirst,
		FoodInSight:     a.Percept.FoodInSight,
		ObstacleInSight: a.Percept.ObstacleInSight,
		HasLocationGoal: goals.HasIncomplete(GoalReachLocation),
		Step:            a.Step,
	}
	if proc := procs.Triggered(situation); proc != nil {
		gate := ar.cfg.ProcDeliberativeGate
		if style == Reactive {
			gate = ar.cfg.ProcReactiveGate
		}
		if proc.Priority >= gate {
			d.Action, d.Source, d.ProcedureID = proc.Action, "procedure", proc.ID
			d.note("procedure %q fired at priority %.2f", proc.Name, proc.Priority)
			return d
		}
	}

	// Default: the value learner's epsilon-greedy pick.
	d.Action, d.Source = learner.SelectAction(a.State.Vector()), "learner"
	d.note("learner suggests %s", d.Action)

	if style == Deliberative {
		if goal := goals.MostRelevant(ar.cfg.SubGoalBoost); goal != nil {
			ar.pursueGoal(&d, a, g, goals, goal)
		}
		ar.refineFromMemory(&d, a, sem, wm)
	}

	ar.applyModifiers(&d, a, goals)
	return d
}

// pursueGoal steers the decision toward the most relevant open goal.
func (ar *Arbiter) pursueGoal(d *Decision, a *agent.Agent, g *world.Grid, goals *GoalStore, goal *Goal) {
	d.note("pursuing goal %q", goal.Name)

	switch goal.Kind {
	case GoalReachLocation, GoalExploreArea:
		if a.Pos == goal.Target {
			goal.Completed = true
			d.Action, d.Source = agent.ActionExplore, "goal"
			d.note("goal %q completed", goal.Name)
			return
		}
		// A visible obstacle inside the bounding box to the target
		// activates the clear-path sub-goal.
		if obs, blocked := blockingObstacle(a, goal.Target); blocked {
			if cp := goals.Get("sub_goal_clear_obstacle"); cp != nil {
				cp.Obstacle = obs
				cp.HasObstacle = true
				cp.Completed = false
				if chebyshev(a.Pos, obs) <= 1 {
					d.Action, d.Source = agent.ActionMoveObject, "goal"
					d.note("adjacent to blocking obstacle at %v", obs)
				} else {
					d.Action, d.Source = stepTowardByAxis(a.Pos, obs), "goal"
					d.note("approaching blocking obstacle at %v", obs)
				}
				return
			}
		}
		d.Action, d.Source = stepToward(a.Pos, goal.Target), "goal"

	case GoalMaintainHungerLow:
		if a.State.Hunger < goal.Threshold {
			goal.Held++
			if goal.Held >= goal.Duration {
				goal.Completed = true
				d.note("goal %q completed", goal.Name)
			}
		} else {
			goal.Held = 0
		}
		if a.State.Hunger >= goal.Threshold*0.8 && d.Action != agent.ActionSeekFood {
			d.Action, d.Source = agent.ActionSeekFood, "goal"
			d.note("hunger approaching threshold for %q", goal.Name)
		}

	case GoalMaintainThirstLow:
		if a.State.Thirst < goal.Threshold {
			goal.Held++
			if goal.Held >= goal.Duration {
				goal.Completed = true
				d.note("goal %q completed", goal.Name)
			}
		} else {
			goal.Held = 0
		}
		if a.State.Thirst >= goal.Threshold*0.8 && d.Action != agent.ActionDrinkWater {
			d.Action, d.Source = agent.ActionDrinkWater, "goal"
			d.note("thirst approaching threshold for %q", goal.Name)
		}

	case GoalClearPath:
		if !goal.HasObstacle {
			d.Action, d.Source = agent.ActionExplore, "goal"
			d.note("clear-path goal has no obstacle identified yet")
			return
		}
		if g.At(goal.Obstacle) != world.CellObstacle {
			goal.Completed = true
			d.Action, d.Source = agent.ActionExplore, "goal"
			d.note("obstacle at %v already gone", goal.Obstacle)
			return
		}
		if chebyshev(a.Pos, goal.Obstacle) <= 1 {
			d.Action, d.Source = agent.ActionMoveObject, "goal"
		} else {
			d.Action, d.Source = stepTowardByAxis(a.Pos, goal.Obstacle), "goal"
			d.note("moving toward obstacle at %v", goal.Obstacle)
		}
	}
}

// refineFromMemory lets semantic facts and short-lived recalls improve a
// weak default choice. They never override goal-driven movement.
func (ar *Arbiter) refineFromMemory(d *Decision, a *agent.Agent, sem *memory.Semantic, wm *memory.Working) {
	if a.State.Hunger > ar.cfg.SemanticNeed && a.Percept.FoodInSight {
		if effect, ok := sem.Infer("food", "effect"); ok && effect == "reduces_hunger" && !movementish(d.Action) && d.Action != agent.ActionSeekFood {
			d.Action, d.Source = agent.ActionSeekFood, "semantic"
			d.note("food in sight and known to reduce hunger")
		}
	}
	if a.State.Thirst > ar.cfg.SemanticNeed && a.Percept.WaterInSight {
		if effect, ok := sem.Infer("water", "effect"); ok && effect == "reduces_thirst" && !movementish(d.Action) && d.Action != agent.ActionDrinkWater {
			d.Action, d.Source = agent.ActionDrinkWater, "semantic"
			d.note("water in sight and known to reduce thirst")
		}
	}
	if a.State.Fatigue > ar.cfg.SemanticNeed && d.Action != agent.ActionRest {
		if effect, ok := sem.Infer("rest", "effect"); ok && effect == "reduces_fatigue" {
			d.Action, d.Source = agent.ActionRest, "semantic"
			d.note("recalling that rest reduces fatigue")
		}
	}
	if a.Percept.Weather == world.WeatherStormy && d.Action != agent.ActionRest {
		if prop, ok := sem.Infer("shelter", "property"); ok && prop == "provides_safety" {
			d.Action, d.Source = agent.ActionRest, "semantic"
			d.note("storm outside, sheltering")
		}
	}

	if p, ok := wm.NewestFresh(a.Step, ar.cfg.WorkingMemoryHorizon, a.Pos); ok {
		switch p.Kind {
		case memory.PerceivedFood:
			if !movementish(d.Action) && d.Action != agent.ActionSeekFood {
				d.Action, d.Source = stepTowardByAxis(a.Pos, p.Location), "working-memory"
				d.note("recalled food at %v", p.Location)
			}
		case memory.PerceivedWater:
			if !movementish(d.Action) && d.Action != agent.ActionDrinkWater {
				d.Action, d.Source = stepTowardByAxis(a.Pos, p.Location), "working-memory"
				d.note("recalled water at %v", p.Location)
			}
		}
	}
}

// applyModifiers runs the weather, curiosity and social adjustments that
// apply in every style.
func (ar *Arbiter) applyModifiers(d *Decision, a *agent.Agent, goals *GoalStore) {
	switch a.Percept.Weather {
	case world.WeatherStormy:
		if d.Action != agent.ActionRest {
			d.Action, d.Source = agent.ActionRest, "weather"
			d.note("stormy weather forces rest")
		}
	case world.WeatherRainy:
		if d.Action == agent.ActionExplore && ar.rng.Float64() < 0.5 {
			if a.State.Fatigue < 0.8 {
				d.Action = agent.ActionRest
			} else {
				d.Action = agent.ActionSeekFood
			}
			d.Source = "weather"
			d.note("rain discourages exploring")
		}
	}

	curiosityDriven := a.Emotions.Curiosity > ar.cfg.CuriosityGate &&
		a.State.Hunger < ar.cfg.CuriosityNeedCeiling &&
		a.State.Fatigue < ar.cfg.CuriosityNeedCeiling &&
		a.State.Thirst < ar.cfg.CuriosityNeedCeiling &&
		!goals.AnyIncomplete()
	if curiosityDriven && d.Action != agent.ActionExplore && !movementish(d.Action) {
		moves := [4]agent.Action{agent.ActionMoveUp, agent.ActionMoveDown, agent.ActionMoveLeft, agent.ActionMoveRight}
		d.Action, d.Source = moves[ar.rng.Intn(len(moves))], "curiosity"
		d.note("nothing pressing, wandering")
	}

	if a.Percept.OthersInSight && a.State.Hunger > 0.5 && d.Action == agent.ActionExplore {
		d.Action, d.Source = agent.ActionSeekFood, "social"
		d.note("company nearby while hungry, eating first")
	}
}

// FocusOverride applies the Focused mode's bias on top of the arbiter's
// pick: attention on a resource forces pursuit of it, attention on a
// location forces the direct path.
func (ar *Arbiter) FocusOverride(d *Decision, a *agent.Agent, focus agent.Focus, goals *GoalStore, wm *memory.Working) {
	const focusRecallHorizon = 5

	switch focus {
	case agent.FocusFood:
		if a.State.Hunger <= 0.3 {
			return
		}
		if d.Action.IsMove() {
			if p, ok := wm.Recall(memory.PerceivedFood, a.Step, focusRecallHorizon, a.Pos); ok {
				d.Action, d.Source = stepTowardByAxis(a.Pos, p.Location), "focus"
				d.note("focused on food, steering toward %v", p.Location)
			}
		} else if d.Action != agent.ActionSeekFood {
			d.Action, d.Source = agent.ActionSeekFood, "focus"
			d.note("focused on food, seeking it")
		}

	case agent.FocusWater:
		if a.State.Thirst <= 0.3 {
			return
		}
		if d.Action.IsMove() {
			if p, ok := wm.Recall(memory.PerceivedWater, a.Step, focusRecallHorizon, a.Pos); ok {
				d.Action, d.Source = stepTowardByAxis(a.Pos, p.Location), "focus"
				d.note("focused on water, steering toward %v", p.Location)
			}
		} else if d.Action != agent.ActionDrinkWater {
			d.Action, d.Source = agent.ActionDrinkWater, "focus"
			d.note("focused on water, drinking")
		}

	case agent.FocusLocation:
		for _, g := range goals.All() {
			if g.Kind == GoalReachLocation && !g.Completed {
				if a.Pos != g.Target {
					d.Action, d.Source = stepToward(a.Pos, g.Target), "focus"
					d.note("focused on location %v", g.Target)
				}
				return
			}
		}
	}
}

// blockingObstacle reports the first visible obstacle inside the
// bounding box between the agent and the target.
func blockingObstacle(a *agent.Agent, target world.Coord) (world.Coord, bool) {
	if !a.Percept.ObstacleInSight {
		return world.Coord{}, false
	}
	loX, hiX := minmax(a.Pos.X, target.X)
	loY, hiY := minmax(a.Pos.Y, target.Y)
	for _, obs := range a.Percept.ObstacleLocations {
		if obs.X >= loX && obs.X <= hiX && obs.Y >= loY && obs.Y <= hiY {
			return obs, true
		}
	}
	return world.Coord{}, false
}

// stepToward moves along X until aligned, then along Y.
func stepToward(from, to world.Coord) agent.Action {
	switch {
	case from.X < to.X:
		return agent.ActionMoveDown
	case from.X > to.X:
		return agent.ActionMoveUp
	case from.Y < to.Y:
		return agent.ActionMoveRight
	case from.Y > to.Y:
		return agent.ActionMoveLeft
	default:
		return agent.ActionExplore
	}
}

// stepTowardByAxis moves along whichever axis has the larger gap.
func stepTowardByAxis(from, to world.Coord) agent.Action {
	dx, dy := to.X-from.X, to.Y-from.Y
	if abs(dx) > abs(dy) {
		if dx > 0 {
			return agent.ActionMoveDown
		}
		return agent.ActionMoveUp
	}
	if dy > 0 {
		return agent.ActionMoveRight
	}
	if dy < 0 {
		return agent.ActionMoveLeft
	}
	if dx > 0 {
		return agent.ActionMoveDown
	}
	return agent.ActionMoveUp
}

// movementish reports whether the action already expresses pursuit:
// moving or shoving counts, anything else can be overridden.
func movementish(a agent.Action) bool {
	return a.IsMove() || a == agent.ActionMoveObject
}

func chebyshev(a, b world.Coord) int {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func minmax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
