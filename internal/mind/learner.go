package mind

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"neuroconscious/internal/agent"
	"neuroconscious/internal/config"
)

// Learner is the value-learning half of the mind: a policy network that
// scores actions by need state, a target network for stable bootstrap
// targets, and a replay buffer of past transitions.
type Learner struct {
	policy *Network
	target *Network
	replay *ReplayBuffer

	gamma        float64
	epsilon      float64
	epsilonMin   float64
	epsilonDecay float64
	batchSize    int
	syncEvery    int
	updates      int

	rng *rand.Rand
}

// NewLearner builds a learner from tuning. The hidden layer widths come
// from the tuning's HiddenSizes, bracketed by the need-vector width and
// the action count.
func NewLearner(t config.LearnerTuning, rng *rand.Rand) *Learner {
	sizes := append([]int{3}, t.HiddenSizes...)
	sizes = append(sizes, agent.NumActions)
	policy := NewNetwork(sizes, t.LearningRate, rng)
	target := policy.Clone()
	return &Learner{
		policy:       policy,
		target:       target,
		replay:       NewReplayBuffer(t.ReplayCapacity),
		gamma:        t.Gamma,
		epsilon:      t.Epsilon,
		epsilonMin:   t.EpsilonMin,
		epsilonDecay: t.EpsilonDecay,
		batchSize:    t.BatchSize,
		syncEvery:    t.TargetSyncEvery,
		rng:          rng,
	}
}

// SelectAction picks an action epsilon-greedily: a uniform random action
// with probability epsilon, otherwise the highest-valued action for the
// state.
func (l *Learner) SelectAction(state [3]float64) agent.Action {
	if l.rng.Float64() < l.epsilon {
		return agent.Action(l.rng.Intn(agent.NumActions))
	}
	return l.Greedy(state)
}

// Greedy returns the highest-valued action for the state, ignoring
// exploration.
func (l *Learner) Greedy(state [3]float64) agent.Action {
	q := l.policy.Forward(state[:])
	best := 0
	for i := 1; i < len(q); i++ {
		if q[i] > q[best] {
			best = i
		}
	}
	return agent.Action(best)
}

// Values returns the policy network's estimates for every action.
func (l *Learner) Values(state [3]float64) []float64 {
	return l.policy.Forward(state[:])
}

// Update records a transition and, once the buffer holds a full batch,
// trains the policy network on a random batch. Epsilon decays on every
// call whether or not training ran. The target network is overwritten
// with the policy every syncEvery training steps.
func (l *Learner) Update(prev [3]float64, action agent.Action, reward float64, next [3]float64) {
	l.replay.Push(Experience{State: prev, Action: action, Reward: reward, NextState: next})

	l.epsilon *= l.epsilonDecay
	if l.epsilon < l.epsilonMin {
		l.epsilon = l.epsilonMin
	}

	batch := l.replay.Sample(l.batchSize, l.rng)
	if batch == nil {
		return
	}

	samples := make([]sample, len(batch))
	for i, e := range batch {
		target := e.Reward
		if !e.Terminal {
			nq := l.target.Forward(e.NextState[:])
			best := nq[0]
			for _, v := range nq[1:] {
				if v > best {
					best = v
				}
			}
			target += l.gamma * best
		}
		samples[i] = sample{input: e.State[:], action: int(e.Action), target: target}
	}
	l.policy.train(samples)

	l.updates++
	if l.updates%l.syncEvery == 0 {
		l.target.CopyFrom(l.policy)
		slog.Debug("target network synced", "updates", l.updates)
	}
}

// Epsilon returns the current exploration rate.
func (l *Learner) Epsilon() float64 { return l.epsilon }

// SetEpsilon overrides the exploration rate, clamped to [epsilonMin, 1].
func (l *Learner) SetEpsilon(v float64) {
	switch {
	case v < l.epsilonMin:
		v = l.epsilonMin
	case v > 1:
		v = 1
	}
	l.epsilon = v
}

// Updates returns how many training steps have run.
func (l *Learner) Updates() int { return l.updates }

// ReplayLen returns how many transitions the buffer holds.
func (l *Learner) ReplayLen() int { return l.replay.Len() }

// modelFile is the on-disk form of a saved learner.
type modelFile struct {
	Policy  NetworkSnapshot
	Epsilon float64
	Updates int
}

// Save writes the policy network and exploration state to path as
// gzip-compressed gob.
func (l *Learner) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create model file: %w", err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if err := gob.NewEncoder(zw).Encode(modelFile{
		Policy:  l.policy.Snapshot(),
		Epsilon: l.epsilon,
		Updates: l.updates,
	}); err != nil {
		zw.Close()
		return fmt.Errorf("encode model: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush model: %w", err)
	}
	return f.Sync()
}

// Load restores a saved model into the learner and syncs the target
// network to it. A missing file is not an error: the learner keeps its
// fresh parameters.
func (l *Learner) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("no saved model, starting fresh", "path", path)
			return nil
		}
		return fmt.Errorf("open model file: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("open model stream: %w", err)
	}
	defer zr.Close()

	var m modelFile
	if err := gob.NewDecoder(zr).Decode(&m); err != nil {
		return fmt.Errorf("decode model: %w", err)
	}
	if err := l.policy.Restore(m.Policy); err != nil {
		return fmt.Errorf("restore policy: %w", err)
	}
	l.target.CopyFrom(l.policy)
	l.epsilon = m.Epsilon
	l.updates = m.Updates
	slog.Info("model loaded", "path", path, "epsilon", l.epsilon, "updates", l.updates)
	return nil
}
