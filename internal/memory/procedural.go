package memory

import (
	"fmt"
	"sort"

	"neuroconscious/internal/agent"
)

// Situation is the compact view of the agent a procedure's trigger
// condition is evaluated against.
type Situation struct {
	Hunger  float64
	Fatigue float64
	Thirst  float64

	FoodInSight     bool
	ObstacleInSight bool

	// HasLocationGoal is true while an incomplete reach-location goal
	// exists, which is what makes an obstacle count as "blocking".
	HasLocationGoal bool

	Step uint64
}

// ConditionKind names the trigger class of a procedure.
type ConditionKind uint8

const (
	CondHungerHigh ConditionKind = iota
	CondFatigueHigh
	CondThirstHigh
	CondFoodInSight
	CondObstacleBlocking
)

// Condition is a trigger for a procedure. Threshold only applies to the
// need-level kinds.
type Condition struct {
	Kind      ConditionKind `json:"kind"`
	Threshold float64       `json:"threshold"`
}

func (c Condition) met(s Situation) bool {
	switch c.Kind {
	case CondHungerHigh:
		return s.Hunger >= c.Threshold
	case CondFatigueHigh:
		return s.Fatigue >= c.Threshold
	case CondThirstHigh:
		return s.Thirst >= c.Threshold
	case CondFoodInSight:
		return s.FoodInSight && s.Hunger > 0.5
	case CondObstacleBlocking:
		return s.ObstacleInSight && s.HasLocationGoal
	default:
		return false
	}
}

// Procedure is a learned habit: when its condition holds, it suggests an
// action. Success and failure counts shift its effective priority over
// time.
type Procedure struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Condition Condition    `json:"condition"`
	Action    agent.Action `json:"action"`
	Priority  float64      `json:"priority"`

	Successes     int    `json:"successes"`
	Failures      int    `json:"failures"`
	LastTriggered uint64 `json:"last_triggered"`
}

// EffectivePriority is the base priority boosted when the procedure has
// mostly succeeded and dampened when it has mostly failed.
func (p *Procedure) EffectivePriority() float64 {
	switch {
	case p.Successes > p.Failures && p.Successes > 0:
		v := p.Priority * 1.1
		if v > 1 {
			v = 1
		}
		return v
	case p.Failures > p.Successes && p.Failures > 0:
		return p.Priority * 0.8
	default:
		return p.Priority
	}
}

// Procedural is a small store of habits. At capacity the lowest-priority
// procedure is evicted.
type Procedural struct {
	cap    int
	procs  map[string]*Procedure
	nextID int
}

func NewProcedural(capacity int) *Procedural {
	if capacity < 1 {
		capacity = 1
	}
	return &Procedural{cap: capacity, procs: make(map[string]*Procedure)}
}

// Seed installs the default habits every agent starts with.
func (m *Procedural) Seed() {
	m.Add("emergency food search", Condition{Kind: CondHungerHigh, Threshold: 0.7}, agent.ActionSeekFood, 0.8)
	m.Add("fatigue recovery", Condition{Kind: CondFatigueHigh, Threshold: 0.7}, agent.ActionRest, 0.7)
	m.Add("clear obstacle", Condition{Kind: CondObstacleBlocking}, agent.ActionMoveObject, 0.9)
	m.Add("emergency water search", Condition{Kind: CondThirstHigh, Threshold: 0.7}, agent.ActionDrinkWater, 0.85)
}

// Add stores a new procedure and returns its ID.
func (m *Procedural) Add(name string, cond Condition, action agent.Action, priority float64) string {
	if len(m.procs) >= m.cap {
		var lowest *Procedure
		for _, p := range m.procs {
			if lowest == nil || p.Priority < lowest.Priority {
				lowest = p
			}
		}
		delete(m.procs, lowest.ID)
	}
	id := fmt.Sprintf("proc_%d", m.nextID)
	m.nextID++
	m.procs[id] = &Procedure{ID: id, Name: name, Condition: cond, Action: action, Priority: priority}
	return id
}

// Triggered returns the highest-effective-priority procedure whose
// condition holds in the situation, marking it as triggered. Returns
// nil when nothing fires.
func (m *Procedural) Triggered(s Situation) *Procedure {
	var best *Procedure
	bestPriority := -1.0
	for _, p := range m.procs {
		if !p.Condition.met(s) {
			continue
		}
		if ep := p.EffectivePriority(); ep > bestPriority {
			bestPriority = ep
			best = p
		}
	}
	if best != nil {
		best.LastTriggered = s.Step
	}
	return best
}

// RecordOutcome bumps the success or failure count of a procedure.
func (m *Procedural) RecordOutcome(id string, success bool) {
	p, ok := m.procs[id]
	if !ok {
		return
	}
	if success {
		p.Successes++
	} else {
		p.Failures++
	}
}

// Get returns the procedure with the given ID, or nil.
func (m *Procedural) Get(id string) *Procedure { return m.procs[id] }

// All returns every stored procedure in ID order.
func (m *Procedural) All() []*Procedure {
	ids := make([]string, 0, len(m.procs))
	for id := range m.procs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*Procedure, len(ids))
	for i, id := range ids {
		out[i] = m.procs[id]
	}
	return out
}

func (m *Procedural) Len() int { return len(m.procs) }
