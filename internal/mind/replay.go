package mind

import (
	"math/rand"

	"neuroconscious/internal/agent"
)

// Experience is one stored transition. Terminal stays false in the
// continuous simulation but is kept so the target computation reads the
// way it would with episodes.
type Experience struct {
	State     [3]float64
	Action    agent.Action
	Reward    float64
	NextState [3]float64
	Terminal  bool
}

// ReplayBuffer is a bounded FIFO of experiences supporting uniform
// random sampling without replacement.
type ReplayBuffer struct {
	cap   int
	buf   []Experience
	start int // index of the oldest entry once the buffer has wrapped
	full  bool
}

func NewReplayBuffer(capacity int) *ReplayBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &ReplayBuffer{cap: capacity, buf: make([]Experience, 0, capacity)}
}

// Push appends an experience, overwriting the oldest when full.
func (b *ReplayBuffer) Push(e Experience) {
	if !b.full {
		b.buf = append(b.buf, e)
		if len(b.buf) == b.cap {
			b.full = true
		}
		return
	}
	b.buf[b.start] = e
	b.start = (b.start + 1) % b.cap
}

func (b *ReplayBuffer) Len() int { return len(b.buf) }

// Sample draws n distinct experiences uniformly at random. Returns nil
// when fewer than n are stored.
func (b *ReplayBuffer) Sample(n int, rng *rand.Rand) []Experience {
	if len(b.buf) < n {
		return nil
	}
	idx := rng.Perm(len(b.buf))[:n]
	out := make([]Experience, n)
	for i, j := range idx {
		out[i] = b.buf[j]
	}
	return out
}

// Oldest returns the experience that would be evicted next.
func (b *ReplayBuffer) Oldest() (Experience, bool) {
	if len(b.buf) == 0 {
		return Experience{}, false
	}
	return b.buf[b.start], true
}
