// Package agent holds the embodied half of a simulated creature: its
// position on the grid, physiological needs, emotional state and the
// sensing and acting code that couples it to the world. Decision making
// lives elsewhere; this package only knows how to perceive and execute.
package agent

import (
	"math/rand"

	"github.com/google/uuid"

	"neuroconscious/internal/config"
	"neuroconscious/internal/world"
)

// Agent is one embodied creature. All fields are plain values so a
// snapshot of the struct is a snapshot of the agent.
type Agent struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Pos  world.Coord `json:"pos"`

	State    PhysState  `json:"state"`
	Emotions Emotions   `json:"emotions"`
	Percept  Perception `json:"-"`

	// Step counts the agent's own lived ticks, used as the timestamp
	// for its memories.
	Step uint64 `json:"step"`

	LastAction Action  `json:"last_action"`
	LastReward float64 `json:"last_reward"`

	rng *rand.Rand
}

func New(name string, pos world.Coord, rng *rand.Rand) *Agent {
	return &Agent{
		ID:       uuid.NewString(),
		Name:     name,
		Pos:      pos,
		State:    NewPhysState(),
		Emotions: NewEmotions(),
		rng:      rng,
	}
}

// Perceive refreshes the agent's view of its surroundings. The focus
// argument sharpens perception of whatever the agent is attending to.
func (a *Agent) Perceive(g *world.Grid, focus Focus, t config.WorldTuning) {
	a.Percept = Sense(g, a.Pos, focus, t, a.rng)
}

// Tick advances the agent's internal clock and lets needs drift. Night
// makes needs grow faster.
func (a *Agent) Tick(t config.NeedsTuning, night bool) {
	scale := 1.0
	if night {
		scale = t.NightMultiplier
	}
	a.State.Update(t, scale)
	a.Emotions.Update(a.Percept, a.State)
	a.Step++
}
