package memory

import "math/rand"

// Semantic stores general knowledge as entity -> property -> value.
// It supports one level of is_a inheritance when a property is missing
// on the entity itself.
type Semantic struct {
	cap   int
	facts map[string]map[string]string
	rng   *rand.Rand
}

func NewSemantic(capacity int, rng *rand.Rand) *Semantic {
	if capacity < 1 {
		capacity = 1
	}
	return &Semantic{cap: capacity, facts: make(map[string]map[string]string), rng: rng}
}

// Seed installs the engine's starting knowledge about the world.
func (m *Semantic) Seed() {
	m.AddFact("food", map[string]string{"is_a": "resource", "property": "edible", "effect": "reduces_hunger"})
	m.AddFact("water", map[string]string{"is_a": "resource", "property": "drinkable", "effect": "reduces_thirst"})
	m.AddFact("obstacle", map[string]string{"is_a": "barrier", "property": "immovable_by_default", "action_needed": "move_object"})
	m.AddFact("rest", map[string]string{"is_a": "action", "effect": "reduces_fatigue", "context": "safe_place"})
	m.AddFact("explore", map[string]string{"is_a": "action", "effect": "gains_information", "cost": "increases_needs"})
	m.AddFact("shelter", map[string]string{"is_a": "structure", "property": "provides_safety", "context": "bad_weather"})
}

// AddFact adds or merges properties for an entity. At capacity a random
// existing entity is forgotten to make space.
func (m *Semantic) AddFact(entity string, props map[string]string) {
	if _, known := m.facts[entity]; !known && len(m.facts) >= m.cap {
		keys := make([]string, 0, len(m.facts))
		for k := range m.facts {
			keys = append(keys, k)
		}
		delete(m.facts, keys[m.rng.Intn(len(keys))])
	}
	if existing, ok := m.facts[entity]; ok {
		for k, v := range props {
			existing[k] = v
		}
		return
	}
	cp := make(map[string]string, len(props))
	for k, v := range props {
		cp[k] = v
	}
	m.facts[entity] = cp
}

// Facts returns the properties known about an entity, or nil.
func (m *Semantic) Facts(entity string) map[string]string {
	return m.facts[entity]
}

// Infer resolves a property for an entity, falling back to the entity's
// is_a parent when the entity itself lacks it.
func (m *Semantic) Infer(entity, property string) (string, bool) {
	if props, ok := m.facts[entity]; ok {
		if v, ok := props[property]; ok {
			return v, true
		}
		if parent, ok := props["is_a"]; ok {
			if pp, ok := m.facts[parent]; ok {
				if v, ok := pp[property]; ok {
					return v, true
				}
			}
		}
	}
	return "", false
}

func (m *Semantic) Len() int { return len(m.facts) }
