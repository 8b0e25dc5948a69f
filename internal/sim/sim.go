// Package sim ties the world, the body and the mind together and runs
// them tick by tick.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"neuroconscious/internal/agent"
	"neuroconscious/internal/config"
	"neuroconscious/internal/memory"
	"neuroconscious/internal/mind"
	"neuroconscious/internal/world"
)

// Event is a notable occurrence during the run.
type Event struct {
	Tick        uint64 `db:"tick" json:"tick"`
	Description string `db:"description" json:"description"`
	Category    string `db:"category" json:"category"` // "action", "goal", "consciousness"
}

// Stats aggregates per-run counters.
type Stats struct {
	ActionCounts   map[string]int `json:"action_counts"`
	TotalReward    float64        `json:"total_reward"`
	GoalsCompleted int            `json:"goals_completed"`
	TicksAsleep    uint64         `json:"ticks_asleep"`
	TicksFocused   uint64         `json:"ticks_focused"`
}

// Simulation holds the complete run state and wires the systems
// together.
type Simulation struct {
	Cfg  config.Tuning
	Grid *world.Grid
	Bot  *agent.Agent

	Consciousness *mind.Consciousness
	Learner       *mind.Learner
	Arbiter       *mind.Arbiter
	Goals         *mind.GoalStore
	Generator     *mind.GoalGenerator

	Episodic   *memory.Episodic
	Semantic   *memory.Semantic
	Procedural *memory.Procedural
	Working    *memory.Working

	Events   []Event
	Stats    Stats
	LastTick uint64

	rng      *rand.Rand
	quit     chan struct{}
	stopOnce sync.Once
}

// New builds a fully wired simulation from tuning. All randomness flows
// from the tuning's seed.
func New(cfg config.Tuning) *Simulation {
	rng := rand.New(rand.NewSource(cfg.Seed))
	grid := world.Generate(cfg)
	bot := agent.New("simbot", world.Coord{}, rng)

	goals := mind.NewGoalStore()
	goals.SeedDefaults(cfg.GridSize)

	procedural := memory.NewProcedural(10)
	procedural.Seed()
	semantic := memory.NewSemantic(50, rng)
	semantic.Seed()

	s := &Simulation{
		Cfg:           cfg,
		Grid:          grid,
		Bot:           bot,
		Consciousness: mind.NewConsciousness(cfg.Needs),
		Learner:       mind.NewLearner(cfg.Learner, rng),
		Arbiter:       mind.NewArbiter(cfg.Decision, rng),
		Goals:         goals,
		Generator:     mind.NewGoalGenerator(cfg.Decision, rng),
		Episodic:      memory.NewEpisodic(cfg.Learner.EpisodicCapacity),
		Semantic:      semantic,
		Procedural:    procedural,
		Working:       memory.NewWorking(5),
		rng:           rng,
		quit:          make(chan struct{}),
	}
	s.Stats.ActionCounts = make(map[string]int)
	return s
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 { return s.LastTick }

// Tick advances the world and runs one full cognition cycle:
// perceive, decay, shift consciousness, decide, act, learn, remember.
func (s *Simulation) Tick() {
	s.Grid.Advance()
	s.LastTick = s.Grid.Tick

	// Perceive with last tick's attention still sharpening the senses.
	s.Bot.Perceive(s.Grid, s.Consciousness.Focus(), s.Cfg.World)
	s.noteSightings()

	night := s.Grid.TimeOfDay == world.Night
	s.Bot.Tick(s.Cfg.Needs, night)

	openBefore := s.openGoals()
	s.Consciousness.Transition(s.Bot.Name, s.Bot.State, s.Bot.Emotions.Curiosity, s.Bot.Percept.ObstacleInSight, s.Goals)

	var out agent.Outcome
	switch s.Consciousness.Mode() {
	case mind.ModeAsleep:
		s.Stats.TicksAsleep++
		out = mind.SleepAct(s.Bot, agent.ActionRest)
		// No learning or episodic recording while asleep.
	default:
		out = s.wakingTick()
	}

	s.Bot.LastAction = out.Action
	s.Bot.LastReward = out.Reward
	s.Stats.ActionCounts[out.Action.String()]++
	s.Stats.TotalReward += out.Reward

	if completed := openBefore - s.openGoals(); completed > 0 {
		s.Stats.GoalsCompleted += completed
	}
	s.recordOutcome(out)
}

// wakingTick runs the full decision cycle for the Awake and Focused
// modes.
func (s *Simulation) wakingTick() agent.Outcome {
	if s.Consciousness.Mode() == mind.ModeFocused {
		s.Stats.TicksFocused++
	}

	s.Generator.Process(s.Goals, s.Grid, s.Bot.State, s.Bot.Emotions.Curiosity, s.Bot.Step)

	style := mind.Style(s.Bot.State, s.Cfg.Decision)
	d := s.Arbiter.Decide(s.Bot, s.Grid, s.Goals, s.Procedural, s.Semantic, s.Working, s.Learner, style)
	if s.Consciousness.Mode() == mind.ModeFocused {
		s.Arbiter.FocusOverride(&d, s.Bot, s.Consciousness.Focus(), s.Goals, s.Working)
	}
	slog.Debug("decision", "tick", s.LastTick, "action", d.Action, "source", d.Source, "trace", d.Trace)

	prev := s.Bot.State.Vector()
	out := s.Bot.Execute(s.Grid, d.Action)

	if d.ProcedureID != "" {
		s.Procedural.RecordOutcome(d.ProcedureID, out.Success)
	}

	s.Learner.Update(prev, out.Action, out.Reward, s.Bot.State.Vector())

	s.Episodic.Add(memory.Episode{
		Step:    s.Bot.Step,
		Action:  out.Action,
		State:   s.Bot.State,
		Percept: s.Bot.Percept,
		Weight:  s.Bot.Emotions.Weight(),
		Reward:  out.Reward,
	})
	return out
}

// noteSightings feeds fresh perceptions into working memory.
func (s *Simulation) noteSightings() {
	for _, loc := range s.Bot.Percept.FoodLocations {
		s.Working.Note(memory.Percept{Kind: memory.PerceivedFood, Location: loc, Step: s.Bot.Step})
	}
	for _, loc := range s.Bot.Percept.WaterLocations {
		s.Working.Note(memory.Percept{Kind: memory.PerceivedWater, Location: loc, Step: s.Bot.Step})
	}
	if s.Bot.Percept.FoodGlobal || s.Bot.Percept.FoodInSight {
		s.Working.Touch(memory.PerceivedFood, s.Bot.Step)
	}
	if s.Bot.Percept.WaterGlobal || s.Bot.Percept.WaterInSight {
		s.Working.Touch(memory.PerceivedWater, s.Bot.Step)
	}
}

func (s *Simulation) openGoals() int {
	n := 0
	for _, g := range s.Goals.All() {
		if !g.Completed {
			n++
		}
	}
	return n
}

func (s *Simulation) recordOutcome(out agent.Outcome) {
	if !out.Success {
		return
	}
	switch out.Action {
	case agent.ActionSeekFood:
		s.addEvent("ate food at %v", s.Bot.Pos)
	case agent.ActionDrinkWater:
		s.addEvent("drank water at %v", s.Bot.Pos)
	case agent.ActionMoveObject:
		s.addEvent("shoved an obstacle near %v", s.Bot.Pos)
	}
}

func (s *Simulation) addEvent(format string, args ...any) {
	s.Events = append(s.Events, Event{
		Tick:        s.LastTick,
		Description: fmt.Sprintf(format, args...),
		Category:    "action",
	})
	// Bound event growth over long runs.
	if len(s.Events) > 1000 {
		s.Events = s.Events[len(s.Events)-1000:]
	}
}

// Stop asks a running Run loop to finish after the current tick.
func (s *Simulation) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
}

// Run executes ticks until the configured total or until Stop is
// called, logging a status line at the interval.
func (s *Simulation) Run(logEvery int) {
	for i := 0; i < s.Cfg.TotalTicks; i++ {
		select {
		case <-s.quit:
			return
		default:
		}
		s.Tick()
		if logEvery > 0 && i%logEvery == 0 {
			s.logStatus()
		}
	}
	slog.Info("run complete",
		"ticks", s.Cfg.TotalTicks,
		"total_reward", fmt.Sprintf("%.2f", s.Stats.TotalReward),
		"goals_completed", s.Stats.GoalsCompleted,
		"ticks_asleep", s.Stats.TicksAsleep,
		"epsilon", fmt.Sprintf("%.3f", s.Learner.Epsilon()),
	)
}

func (s *Simulation) logStatus() {
	slog.Info("status",
		"tick", s.LastTick,
		"mode", s.Consciousness.Mode(),
		"focus", s.Consciousness.Focus(),
		"pos", s.Bot.Pos,
		"hunger", fmt.Sprintf("%.2f", s.Bot.State.Hunger),
		"fatigue", fmt.Sprintf("%.2f", s.Bot.State.Fatigue),
		"thirst", fmt.Sprintf("%.2f", s.Bot.State.Thirst),
		"mood", fmt.Sprintf("%.2f", s.Bot.State.Mood),
		"last_action", s.Bot.LastAction,
		"epsilon", fmt.Sprintf("%.3f", s.Learner.Epsilon()),
		"weather", s.Grid.Weather,
	)
}
