package memory

import (
	"neuroconscious/internal/world"
)

// PerceptKind names what a working-memory entry refers to.
type PerceptKind uint8

const (
	PerceivedFood PerceptKind = iota
	PerceivedWater
)

// Percept is one short-lived observation: a resource seen somewhere at
// some tick.
type Percept struct {
	Kind     PerceptKind
	Location world.Coord
	Step     uint64
}

// Working is a tiny fixed-capacity buffer of the most recent
// observations. Old entries fall off the front as new ones arrive.
type Working struct {
	cap   int
	items []Percept

	// Last tick each resource was known to exist anywhere, global
	// sightings included. Zero value means never.
	lastSeen map[PerceptKind]uint64
	seen     map[PerceptKind]bool
}

func NewWorking(capacity int) *Working {
	if capacity < 1 {
		capacity = 1
	}
	return &Working{
		cap:      capacity,
		lastSeen: make(map[PerceptKind]uint64),
		seen:     make(map[PerceptKind]bool),
	}
}

// Note records an observation with a concrete location.
func (m *Working) Note(p Percept) {
	if len(m.items) == m.cap {
		copy(m.items, m.items[1:])
		m.items = m.items[:m.cap-1]
	}
	m.items = append(m.items, p)
	m.Touch(p.Kind, p.Step)
}

// Touch records that a resource was known to exist at a tick, without a
// location. Global availability counts as a sighting.
func (m *Working) Touch(kind PerceptKind, step uint64) {
	m.seen[kind] = true
	m.lastSeen[kind] = step
}

// LastSeen returns the most recent tick the resource was known, and
// whether it was ever seen.
func (m *Working) LastSeen(kind PerceptKind) (uint64, bool) {
	return m.lastSeen[kind], m.seen[kind]
}

// Recall returns the newest buffered observation of the given kind that
// is at most horizon ticks old and not at the excluded position.
func (m *Working) Recall(kind PerceptKind, now uint64, horizon int, exclude world.Coord) (Percept, bool) {
	for i := len(m.items) - 1; i >= 0; i-- {
		p := m.items[i]
		if p.Kind != kind {
			continue
		}
		if now-p.Step > uint64(horizon) {
			continue
		}
		if p.Location == exclude {
			continue
		}
		return p, true
	}
	return Percept{}, false
}

// NewestFresh returns the newest buffered observation of any kind that
// is at most horizon ticks old and not at the excluded position.
func (m *Working) NewestFresh(now uint64, horizon int, exclude world.Coord) (Percept, bool) {
	for i := len(m.items) - 1; i >= 0; i-- {
		p := m.items[i]
		if now-p.Step > uint64(horizon) {
			continue
		}
		if p.Location == exclude {
			continue
		}
		return p, true
	}
	return Percept{}, false
}

func (m *Working) Len() int { return len(m.items) }
