package agent

import "neuroconscious/internal/config"

// PhysState tracks the agent's physiological needs. All needs range from
// 0 (satisfied) to 1 (critical); higher is worse. Mood is derived from
// the inverted needs and ranges 0 (miserable) to 1 (content).
type PhysState struct {
	Hunger  float64 `json:"hunger"`
	Fatigue float64 `json:"fatigue"`
	Thirst  float64 `json:"thirst"`
	Mood    float64 `json:"mood"`
}

// NewPhysState returns the neutral starting state.
func NewPhysState() PhysState {
	s := PhysState{Hunger: 0.5, Fatigue: 0.5, Thirst: 0.5}
	s.recomputeMood()
	return s
}

// Update advances the needs by one tick. timeScale stretches the decay
// rates (1.5 at night); mood is recomputed afterward.
func (s *PhysState) Update(t config.NeedsTuning, timeScale float64) {
	s.Hunger = clamp01(s.Hunger + t.HungerRate*timeScale)
	s.Fatigue = clamp01(s.Fatigue + t.FatigueRate*timeScale)
	s.Thirst = clamp01(s.Thirst + t.ThirstRate*timeScale)
	s.recomputeMood()
}

// recomputeMood blends the inverted needs, hunger weighted heaviest.
func (s *PhysState) recomputeMood() {
	s.Mood = clamp01(((1-s.Hunger)*3 + (1-s.Fatigue)*2 + (1-s.Thirst)*2) / 7)
}

// Snapshot returns an independent copy used as the previous state for
// reward computation.
func (s PhysState) Snapshot() PhysState {
	return s
}

// Vector returns the normalized learner input (hunger, fatigue, thirst).
func (s PhysState) Vector() [3]float64 {
	return [3]float64{s.Hunger, s.Fatigue, s.Thirst}
}

// MaxNeed returns the most urgent need's value.
func (s PhysState) MaxNeed() float64 {
	m := s.Hunger
	if s.Fatigue > m {
		m = s.Fatigue
	}
	if s.Thirst > m {
		m = s.Thirst
	}
	return m
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
