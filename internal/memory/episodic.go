// Package memory implements the four memory systems of the cognition
// engine. Episodic memory remembers what happened, semantic memory
// remembers what things are, procedural memory remembers how to act,
// and working memory holds the last few perceptions.
package memory

import "neuroconscious/internal/agent"

// Episode is one remembered tick: what the agent saw, felt and did.
type Episode struct {
	Step    uint64             `json:"step"`
	Action  agent.Action       `json:"action"`
	State   agent.PhysState    `json:"state"`
	Percept agent.Perception   `json:"percept"`
	Weight  float64            `json:"weight"` // emotional salience at the time
	Reward  float64            `json:"reward"`
}

// Episodic is a bounded FIFO of episodes. When full, the oldest episode
// is evicted first.
type Episodic struct {
	cap      int
	episodes []Episode
}

func NewEpisodic(capacity int) *Episodic {
	if capacity < 1 {
		capacity = 1
	}
	return &Episodic{cap: capacity}
}

// Add records an episode, evicting the oldest if at capacity.
func (m *Episodic) Add(e Episode) {
	if len(m.episodes) == m.cap {
		copy(m.episodes, m.episodes[1:])
		m.episodes = m.episodes[:m.cap-1]
	}
	m.episodes = append(m.episodes, e)
}

func (m *Episodic) Len() int { return len(m.episodes) }

// All returns the stored episodes oldest first. The slice is a copy.
func (m *Episodic) All() []Episode {
	out := make([]Episode, len(m.episodes))
	copy(out, m.episodes)
	return out
}

// MostSalient returns the episode with the highest emotional weight,
// or false if memory is empty.
func (m *Episodic) MostSalient() (Episode, bool) {
	if len(m.episodes) == 0 {
		return Episode{}, false
	}
	best := m.episodes[0]
	for _, e := range m.episodes[1:] {
		if e.Weight > best.Weight {
			best = e
		}
	}
	return best, true
}
