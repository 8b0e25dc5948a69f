package agent

import (
	"math"
	"testing"

	"neuroconscious/internal/config"
)

func TestUpdateRaisesNeeds(t *testing.T) {
	s := NewPhysState()
	n := config.Default().Needs
	s.Update(n, 1.0)

	if math.Abs(s.Hunger-0.6) > 1e-9 {
		t.Fatalf("hunger=%v want 0.6", s.Hunger)
	}
	if math.Abs(s.Fatigue-0.55) > 1e-9 {
		t.Fatalf("fatigue=%v want 0.55", s.Fatigue)
	}
	if math.Abs(s.Thirst-0.57) > 1e-9 {
		t.Fatalf("thirst=%v want 0.57", s.Thirst)
	}
}

func TestUpdateNightScale(t *testing.T) {
	n := config.Default().Needs
	day := NewPhysState()
	night := NewPhysState()
	day.Update(n, 1.0)
	night.Update(n, n.NightMultiplier)

	if night.Hunger <= day.Hunger {
		t.Fatal("night should raise hunger faster than day")
	}
}

func TestUpdateClampsAtOne(t *testing.T) {
	s := PhysState{Hunger: 0.99, Fatigue: 0.99, Thirst: 0.99}
	n := config.Default().Needs
	for i := 0; i < 5; i++ {
		s.Update(n, 1.0)
	}
	if s.Hunger != 1 || s.Fatigue != 1 || s.Thirst != 1 {
		t.Fatalf("needs not clamped: %+v", s)
	}
}

func TestMoodTracksNeeds(t *testing.T) {
	content := PhysState{}
	content.recomputeMood()
	if content.Mood != 1 {
		t.Fatalf("zero needs should give mood 1, got %v", content.Mood)
	}

	miserable := PhysState{Hunger: 1, Fatigue: 1, Thirst: 1}
	miserable.recomputeMood()
	if miserable.Mood != 0 {
		t.Fatalf("maxed needs should give mood 0, got %v", miserable.Mood)
	}
}

func TestMaxNeed(t *testing.T) {
	s := PhysState{Hunger: 0.2, Fatigue: 0.8, Thirst: 0.5}
	if s.MaxNeed() != 0.8 {
		t.Fatalf("max need=%v want 0.8", s.MaxNeed())
	}
}

func TestMoodAdjust(t *testing.T) {
	// Good mood amplifies gains and softens penalties.
	if got := MoodAdjust(0.5, 0.9); math.Abs(got-0.6) > 1e-9 {
		t.Fatalf("good mood gain=%v want 0.6", got)
	}
	if got := MoodAdjust(-0.5, 0.9); math.Abs(got-(-0.4)) > 1e-9 {
		t.Fatalf("good mood penalty=%v want -0.4", got)
	}
	// Bad mood does the opposite.
	if got := MoodAdjust(0.5, 0.1); math.Abs(got-0.35) > 1e-9 {
		t.Fatalf("bad mood gain=%v want 0.35", got)
	}
	if got := MoodAdjust(-0.5, 0.1); math.Abs(got-(-0.65)) > 1e-9 {
		t.Fatalf("bad mood penalty=%v want -0.65", got)
	}
	// Neutral mood passes through.
	if got := MoodAdjust(0.5, 0.5); got != 0.5 {
		t.Fatalf("neutral mood changed reward: %v", got)
	}
}
