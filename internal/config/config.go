// Package config loads simulation tuning from a YAML file.
// Every behavioral threshold lives here rather than as a hard-coded
// constant, so precedence rules can be tuned without a rebuild.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds every tunable constant of the cognition engine.
type Tuning struct {
	Seed       int64 `yaml:"seed"`
	GridSize   int   `yaml:"grid_size"`
	TotalTicks int   `yaml:"total_ticks"`

	Needs    NeedsTuning    `yaml:"needs"`
	Decision DecisionTuning `yaml:"decision"`
	Learner  LearnerTuning  `yaml:"learner"`
	World    WorldTuning    `yaml:"world"`
}

// NeedsTuning controls physiological decay and mode-transition guards.
type NeedsTuning struct {
	HungerRate  float64 `yaml:"hunger_rate"`  // per-tick hunger increase
	FatigueRate float64 `yaml:"fatigue_rate"` // per-tick fatigue increase
	ThirstRate  float64 `yaml:"thirst_rate"`  // per-tick thirst increase

	NightMultiplier float64 `yaml:"night_multiplier"` // time scale after dark

	SleepEnter float64 `yaml:"sleep_enter"` // fatigue above this -> Asleep
	SleepExit  float64 `yaml:"sleep_exit"`  // fatigue below this -> Awake
	FocusEnter float64 `yaml:"focus_enter"` // any need above this -> Focused

	FocusGoalPriority float64 `yaml:"focus_goal_priority"` // top open goal above this holds Focused on its own
}

// DecisionTuning controls the arbiter's precedence thresholds.
type DecisionTuning struct {
	CriticalNeed          float64 `yaml:"critical_need"`           // hard override threshold
	ReactiveNeed          float64 `yaml:"reactive_need"`           // Awake switches to reactive mode
	ProcReactiveGate      float64 `yaml:"proc_reactive_gate"`      // procedure priority gate, reactive
	ProcDeliberativeGate  float64 `yaml:"proc_deliberative_gate"`  // procedure priority gate, deliberative
	SemanticNeed          float64 `yaml:"semantic_need"`           // need level that consults semantic memory
	CuriosityGate         float64 `yaml:"curiosity_gate"`          // curiosity level that triggers wandering
	CuriosityNeedCeiling  float64 `yaml:"curiosity_need_ceiling"`  // all needs must be below this to wander
	WorkingMemoryHorizon  int     `yaml:"working_memory_horizon"`  // ticks a recalled location stays fresh
	SubGoalBoost          float64 `yaml:"sub_goal_boost"`          // fraction of parent priority added to sub-goals
	GoalGenerateCooldown  int     `yaml:"goal_generate_cooldown"`  // min ticks between generated goals
	GoalGenerateHunger    float64 `yaml:"goal_generate_hunger"`    // hunger that spawns a maintain goal
	GoalGenerateCuriosity float64 `yaml:"goal_generate_curiosity"` // curiosity that spawns an explore goal
}

// LearnerTuning holds the DQN hyperparameters.
type LearnerTuning struct {
	LearningRate     float64 `yaml:"learning_rate"`
	Gamma            float64 `yaml:"gamma"`
	Epsilon          float64 `yaml:"epsilon"`
	EpsilonMin       float64 `yaml:"epsilon_min"`
	EpsilonDecay     float64 `yaml:"epsilon_decay"`
	ReplayCapacity   int     `yaml:"replay_capacity"`
	BatchSize        int     `yaml:"batch_size"`
	TargetSyncEvery  int     `yaml:"target_sync_every"`
	HiddenSizes      []int   `yaml:"hidden_sizes"`
	ModelPath        string  `yaml:"model_path"`
	EpisodicCapacity int     `yaml:"episodic_capacity"`
}

// WorldTuning controls the grid environment.
type WorldTuning struct {
	FoodSpawnChance  float64 `yaml:"food_spawn_chance"`  // per-tick respawn probability
	WaterSpawnChance float64 `yaml:"water_spawn_chance"`
	ObstacleDensity  float64 `yaml:"obstacle_density"`   // noise threshold for obstacle placement
	DayNightCycle    int     `yaml:"day_night_cycle"`    // ticks per full day/night cycle
	WeatherShift     float64 `yaml:"weather_shift"`      // per-tick probability the weather changes
	PerceptionRadius int     `yaml:"perception_radius"`
	PerceptionAcc    float64 `yaml:"perception_accuracy"`
	FocusAccBoost    float64 `yaml:"focus_accuracy_boost"`
}

// Default returns the tuning used when no file is present. Values mirror
// the behavior the engine was calibrated against.
func Default() Tuning {
	return Tuning{
		Seed:       42,
		GridSize:   10,
		TotalTicks: 500,
		Needs: NeedsTuning{
			HungerRate:        0.10,
			FatigueRate:       0.05,
			ThirstRate:        0.07,
			NightMultiplier:   1.5,
			SleepEnter:        0.9,
			SleepExit:         0.2,
			FocusEnter:        0.7,
			FocusGoalPriority: 0.8,
		},
		Decision: DecisionTuning{
			CriticalNeed:          0.85,
			ReactiveNeed:          0.8,
			ProcReactiveGate:      0.7,
			ProcDeliberativeGate:  0.9,
			SemanticNeed:          0.6,
			CuriosityGate:         0.6,
			CuriosityNeedCeiling:  0.7,
			WorkingMemoryHorizon:  3,
			SubGoalBoost:          0.1,
			GoalGenerateCooldown:  10,
			GoalGenerateHunger:    0.6,
			GoalGenerateCuriosity: 0.7,
		},
		Learner: LearnerTuning{
			LearningRate:     0.001,
			Gamma:            0.99,
			Epsilon:          1.0,
			EpsilonMin:       0.01,
			EpsilonDecay:     0.995,
			ReplayCapacity:   10000,
			BatchSize:        64,
			TargetSyncEvery:  100,
			HiddenSizes:      []int{64, 128},
			ModelPath:        "data/dqn.gob.gz",
			EpisodicCapacity: 50,
		},
		World: WorldTuning{
			FoodSpawnChance:  0.3,
			WaterSpawnChance: 0.25,
			ObstacleDensity:  0.15,
			DayNightCycle:    20,
			WeatherShift:     0.1,
			PerceptionRadius: 1,
			PerceptionAcc:    0.9,
			FocusAccBoost:    0.3,
		},
	}
}

// Load reads tuning from path, layered over Default. A missing file is not
// an error: the defaults are returned unchanged.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := t.validate(); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func (t Tuning) validate() error {
	if t.GridSize < 2 {
		return fmt.Errorf("grid_size %d too small", t.GridSize)
	}
	if t.Learner.BatchSize < 1 || t.Learner.BatchSize > t.Learner.ReplayCapacity {
		return fmt.Errorf("batch_size %d out of range", t.Learner.BatchSize)
	}
	if t.Learner.EpsilonMin > t.Learner.Epsilon {
		return fmt.Errorf("epsilon_min %.3f above epsilon %.3f", t.Learner.EpsilonMin, t.Learner.Epsilon)
	}
	if t.Learner.EpsilonDecay <= 0 || t.Learner.EpsilonDecay > 1 {
		return fmt.Errorf("epsilon_decay %.3f out of (0,1]", t.Learner.EpsilonDecay)
	}
	if t.Learner.TargetSyncEvery < 1 {
		return fmt.Errorf("target_sync_every must be positive")
	}
	return nil
}
