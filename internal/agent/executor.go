package agent

import (
	"log/slog"

	"neuroconscious/internal/world"
)

// Outcome reports what an executed action did to the agent and the grid.
type Outcome struct {
	Action    Action  `json:"action"`
	Success   bool    `json:"success"`
	RawReward float64 `json:"raw_reward"`
	Reward    float64 `json:"reward"`
	Moved     bool    `json:"moved"`
}

// Execute applies an action's effects to the agent's needs, position and
// the grid, and returns the outcome carrying the mood-adjusted reward.
// Needs drift and mood recomputation happen in the tick loop afterwards,
// not here.
func (a *Agent) Execute(g *world.Grid, action Action) Outcome {
	out := Outcome{Action: action}

	switch action {
	case ActionSeekFood:
		if g.Consume(a.Pos, world.CellFood) {
			a.State.Hunger = clamp01(a.State.Hunger - 0.7)
			out.RawReward = 0.5
			out.Success = true
			slog.Debug("ate food", "agent", a.Name, "pos", a.Pos)
		} else {
			a.State.Hunger = clamp01(a.State.Hunger + 0.02)
			out.RawReward = -0.1
		}

	case ActionDrinkWater:
		if g.Consume(a.Pos, world.CellWater) {
			a.State.Thirst = clamp01(a.State.Thirst - 0.8)
			out.RawReward = 0.6
			out.Success = true
			slog.Debug("drank water", "agent", a.Name, "pos", a.Pos)
		} else {
			a.State.Thirst = clamp01(a.State.Thirst + 0.03)
			out.RawReward = -0.15
		}

	case ActionRest:
		a.State.Fatigue = clamp01(a.State.Fatigue - 0.6)
		out.RawReward = 0.4
		out.Success = true

	case ActionExplore:
		a.State.Hunger = clamp01(a.State.Hunger + 0.05)
		a.State.Fatigue = clamp01(a.State.Fatigue + 0.05)
		a.State.Thirst = clamp01(a.State.Thirst + 0.05)
		out.RawReward = -0.05

	case ActionMoveUp, ActionMoveDown, ActionMoveLeft, ActionMoveRight:
		dst := a.Pos.Step(moveDirection(action))
		if g.CanEnter(dst) {
			a.Pos = dst
			out.RawReward = -0.01
			out.Success = true
			out.Moved = true
		} else {
			// Blocked by an obstacle or the grid edge.
			out.RawReward = -0.1
		}

	case ActionMoveObject:
		// Shove the nearest reachable obstacle: the agent's own cell
		// first, then each neighbor.
		targets := []world.Coord{
			a.Pos,
			a.Pos.Step(world.DirRight),
			a.Pos.Step(world.DirDown),
			a.Pos.Step(world.DirLeft),
			a.Pos.Step(world.DirUp),
		}
		for _, t := range targets {
			if to, ok := g.MoveObstacle(t); ok {
				out.RawReward = 0.3
				out.Success = true
				slog.Debug("moved obstacle", "agent", a.Name, "from", t, "to", to)
				break
			}
		}
		if !out.Success {
			out.RawReward = -0.2
		}

	default:
		slog.Warn("unknown action", "agent", a.Name, "action", uint8(action))
		out.RawReward = -0.2
	}

	out.Reward = MoodAdjust(out.RawReward, a.State.Mood)
	return out
}

// MoodAdjust scales a reward by the agent's mood. A very good mood
// amplifies gains and softens penalties; a very bad mood does the
// opposite. Neutral mood passes the reward through unchanged.
func MoodAdjust(raw, mood float64) float64 {
	switch {
	case mood > 0.7:
		if raw > 0 {
			return raw * 1.2
		}
		if raw < 0 {
			return raw * 0.8
		}
	case mood < 0.3:
		if raw > 0 {
			return raw * 0.7
		}
		if raw < 0 {
			return raw * 1.3
		}
	}
	return raw
}

func moveDirection(a Action) world.Direction {
	switch a {
	case ActionMoveUp:
		return world.DirUp
	case ActionMoveDown:
		return world.DirDown
	case ActionMoveLeft:
		return world.DirLeft
	default:
		return world.DirRight
	}
}
