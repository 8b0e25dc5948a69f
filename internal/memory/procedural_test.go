package memory

import (
	"testing"

	"neuroconscious/internal/agent"
)

func TestTriggeredPicksHighestEffectivePriority(t *testing.T) {
	m := NewProcedural(10)
	m.Seed()

	// All three need triggers fire; emergency water search (0.85) wins
	// over food search (0.8) and fatigue recovery (0.7).
	s := Situation{Hunger: 0.9, Fatigue: 0.9, Thirst: 0.9, Step: 7}
	p := m.Triggered(s)
	if p == nil || p.Action != agent.ActionDrinkWater {
		t.Fatalf("triggered=%+v want drink_water", p)
	}
	if p.LastTriggered != 7 {
		t.Fatalf("last triggered=%d want 7", p.LastTriggered)
	}
}

func TestTriggeredNothingFires(t *testing.T) {
	m := NewProcedural(10)
	m.Seed()
	if p := m.Triggered(Situation{Hunger: 0.1, Fatigue: 0.1, Thirst: 0.1}); p != nil {
		t.Fatalf("triggered=%+v want nil", p)
	}
}

func TestObstacleBlockingNeedsLocationGoal(t *testing.T) {
	m := NewProcedural(10)
	m.Seed()

	s := Situation{ObstacleInSight: true}
	if p := m.Triggered(s); p != nil {
		t.Fatalf("obstacle without a location goal should not fire, got %+v", p)
	}
	s.HasLocationGoal = true
	p := m.Triggered(s)
	if p == nil || p.Action != agent.ActionMoveObject {
		t.Fatalf("triggered=%+v want move_object", p)
	}
}

func TestEffectivePriorityTracksOutcomes(t *testing.T) {
	m := NewProcedural(10)
	id := m.Add("test habit", Condition{Kind: CondHungerHigh, Threshold: 0.5}, agent.ActionSeekFood, 0.5)

	p := m.Get(id)
	if p.EffectivePriority() != 0.5 {
		t.Fatalf("fresh priority=%v want 0.5", p.EffectivePriority())
	}

	m.RecordOutcome(id, true)
	if got := p.EffectivePriority(); got != 0.5*1.1 {
		t.Fatalf("boosted priority=%v want %v", got, 0.5*1.1)
	}

	m.RecordOutcome(id, false)
	m.RecordOutcome(id, false)
	if got := p.EffectivePriority(); got != 0.5*0.8 {
		t.Fatalf("dampened priority=%v want %v", got, 0.5*0.8)
	}
}

func TestEffectivePriorityCappedAtOne(t *testing.T) {
	p := Procedure{Priority: 0.95, Successes: 3}
	if p.EffectivePriority() != 1 {
		t.Fatalf("priority=%v want 1", p.EffectivePriority())
	}
}

func TestAddEvictsLowestPriority(t *testing.T) {
	m := NewProcedural(2)
	m.Add("low", Condition{Kind: CondHungerHigh, Threshold: 0.5}, agent.ActionSeekFood, 0.2)
	keep := m.Add("high", Condition{Kind: CondThirstHigh, Threshold: 0.5}, agent.ActionDrinkWater, 0.9)
	newest := m.Add("mid", Condition{Kind: CondFatigueHigh, Threshold: 0.5}, agent.ActionRest, 0.5)

	if m.Len() != 2 {
		t.Fatalf("len=%d want 2", m.Len())
	}
	if m.Get(keep) == nil || m.Get(newest) == nil {
		t.Fatal("lowest-priority procedure should have been evicted")
	}
}

func TestAllReturnsIDOrder(t *testing.T) {
	m := NewProcedural(10)
	m.Seed()
	all := m.All()
	if len(all) != 4 {
		t.Fatalf("len=%d want 4", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatalf("not sorted: %s before %s", all[i-1].ID, all[i].ID)
		}
	}
}
