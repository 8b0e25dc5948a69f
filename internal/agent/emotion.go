package agent

// Emotions holds the four emotion channels, each clamped to [0,1].
type Emotions struct {
	Joy         float64 `json:"joy"`
	Fear        float64 `json:"fear"`
	Curiosity   float64 `json:"curiosity"`
	Frustration float64 `json:"frustration"`
}

// NewEmotions returns the neutral starting emotions.
func NewEmotions() Emotions {
	return Emotions{Joy: 0.5, Curiosity: 0.5}
}

// Update applies the rule-based emotion drift for one tick:
// joy tracks food availability against hunger, fear rises at night,
// frustration averages the unmet needs, and curiosity spikes only when
// all needs are comfortable.
func (e *Emotions) Update(p Perception, s PhysState) {
	if p.FoodGlobal {
		e.Joy = clamp01(e.Joy + 0.1)
	} else {
		e.Joy = clamp01(e.Joy - s.Hunger*0.05)
	}

	if p.Night {
		e.Fear = clamp01(e.Fear + 0.05)
	} else {
		e.Fear = clamp01(e.Fear - 0.03)
	}

	e.Frustration = clamp01(0.6 * (s.Hunger + s.Fatigue + s.Thirst) / 3)

	if s.Hunger < 0.5 && s.Fatigue < 0.5 && s.Thirst < 0.5 {
		e.Curiosity = 0.8
	} else {
		e.Curiosity = 0.2
	}
}

// Weight returns the emotional salience used when storing episodes:
// strong feelings in any channel make an experience more memorable.
func (e Emotions) Weight() float64 {
	w := e.Fear
	if e.Joy > w {
		w = e.Joy
	}
	if e.Frustration > w {
		w = e.Frustration
	}
	return w
}
