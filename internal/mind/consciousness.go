package mind

import (
	"log/slog"

	"neuroconscious/internal/agent"
	"neuroconscious/internal/config"
)

// Mode is the agent's consciousness mode. Exactly one mode is active at
// a time.
type Mode uint8

const (
	ModeAwake Mode = iota
	ModeAsleep
	ModeFocused
)

func (m Mode) String() string {
	switch m {
	case ModeAsleep:
		return "asleep"
	case ModeFocused:
		return "focused"
	default:
		return "awake"
	}
}

// DecisionStyle is how deeply the arbiter reasons this tick.
type DecisionStyle uint8

const (
	// Deliberative decisions run the full hierarchy: goals, semantic
	// and working memory all weigh in.
	Deliberative DecisionStyle = iota
	// Reactive decisions skip the slow layers and lean on habits.
	Reactive
)

func (d DecisionStyle) String() string {
	if d == Reactive {
		return "reactive"
	}
	return "deliberative"
}

// Consciousness tracks the agent's mode and attention focus across
// ticks. Sleep is sticky: once entered it holds until fatigue drops
// below the exit threshold, which sits well under the entry threshold.
type Consciousness struct {
	mode  Mode
	focus agent.Focus
	cfg   config.NeedsTuning
}

func NewConsciousness(cfg config.NeedsTuning) *Consciousness {
	return &Consciousness{mode: ModeAwake, cfg: cfg}
}

func (c *Consciousness) Mode() Mode         { return c.mode }
func (c *Consciousness) Focus() agent.Focus { return c.focus }

// Transition recomputes mode and attention for the coming tick from the
// agent's needs, emotions and goal set. Focused requires both a focus
// candidate and pressure behind it: either a need past the focus
// threshold or an open goal urgent enough to hold attention by itself.
func (c *Consciousness) Transition(name string, state agent.PhysState, curiosity float64, obstacleInSight bool, goals *GoalStore) {
	prev := c.mode

	if c.mode == ModeAsleep {
		if state.Fatigue < c.cfg.SleepExit {
			c.mode = ModeAwake
		}
	} else if state.Fatigue > c.cfg.SleepEnter {
		c.mode = ModeAsleep
		c.focus = agent.FocusNone
	}

	if c.mode != ModeAsleep {
		c.focus = c.attention(state, curiosity, obstacleInSight, goals)
		if c.focus != agent.FocusNone && (state.MaxNeed() > c.cfg.FocusEnter || urgentGoal(goals, c.cfg.FocusGoalPriority)) {
			c.mode = ModeFocused
		} else {
			c.mode = ModeAwake
		}
	}

	if c.mode != prev {
		slog.Info("consciousness shift", "agent", name, "from", prev, "to", c.mode, "focus", c.focus)
	}
}

// attention picks what the agent attends to: pressing needs first, then
// curiosity, then the top open goal, then a visible obstacle.
func (c *Consciousness) attention(state agent.PhysState, curiosity float64, obstacleInSight bool, goals *GoalStore) agent.Focus {
	switch {
	case state.Hunger > c.cfg.FocusEnter:
		return agent.FocusFood
	case state.Thirst > c.cfg.FocusEnter:
		return agent.FocusWater
	case state.Fatigue > c.cfg.FocusEnter:
		return agent.FocusRest
	}
	if curiosity > 0.6 && !goals.AnyIncomplete() {
		return agent.FocusCuriosity
	}
	if top := topPriorityOpen(goals); top != nil {
		switch top.Kind {
		case GoalReachLocation:
			return agent.FocusLocation
		case GoalMaintainHungerLow:
			return agent.FocusFood
		case GoalMaintainThirstLow:
			return agent.FocusWater
		case GoalClearPath:
			return agent.FocusObstacle
		case GoalExploreArea:
			return agent.FocusCuriosity
		}
		return agent.FocusNone
	}
	if obstacleInSight {
		return agent.FocusObstacle
	}
	return agent.FocusNone
}

// urgentGoal reports whether the top open goal is pressing enough to
// hold focused attention without an elevated need.
func urgentGoal(goals *GoalStore, threshold float64) bool {
	top := topPriorityOpen(goals)
	return top != nil && top.Priority > threshold
}

func topPriorityOpen(goals *GoalStore) *Goal {
	var top *Goal
	for _, g := range goals.All() {
		if g.Completed {
			continue
		}
		if top == nil || g.Priority > top.Priority {
			top = g
		}
	}
	return top
}

// Style returns the decision style for the tick: reactive when any need
// crosses the reactive threshold and otherwise deliberative.
func Style(state agent.PhysState, cfg config.DecisionTuning) DecisionStyle {
	if state.MaxNeed() > cfg.ReactiveNeed {
		return Reactive
	}
	return Deliberative
}

// SleepAct is the restricted action handling while asleep. Resting is
// deep and extra effective; any other attempted action collapses into
// shallow rest.
func SleepAct(a *agent.Agent, action agent.Action) agent.Outcome {
	out := agent.Outcome{Action: agent.ActionRest}
	if action == agent.ActionRest {
		a.State.Fatigue = clamp01(a.State.Fatigue - 0.7)
		out.RawReward = 0.6
		out.Success = true
	} else {
		a.State.Fatigue = clamp01(a.State.Fatigue - 0.2)
		out.RawReward = 0.1
	}
	out.Reward = agent.MoodAdjust(out.RawReward, a.State.Mood)
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
