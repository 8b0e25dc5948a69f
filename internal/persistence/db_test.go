package persistence

import (
	"path/filepath"
	"testing"

	"neuroconscious/internal/config"
	"neuroconscious/internal/sim"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "run.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func runSimulation(t *testing.T, ticks int) *sim.Simulation {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = 3
	cfg.GridSize = 8
	cfg.Learner.HiddenSizes = []int{8}
	cfg.Learner.BatchSize = 4
	s := sim.New(cfg)
	for i := 0; i < ticks; i++ {
		s.Tick()
	}
	return s
}

func TestSaveRunStateRoundTrip(t *testing.T) {
	db := openTestDB(t)
	s := runSimulation(t, 20)

	if err := db.SaveRunState(s); err != nil {
		t.Fatalf("save run state: %v", err)
	}

	lastTick, err := db.GetMeta("last_tick")
	if err != nil {
		t.Fatalf("get meta: %v", err)
	}
	if lastTick != "20" {
		t.Fatalf("last_tick=%q want 20", lastTick)
	}
	if _, err := db.GetMeta("stats"); err != nil {
		t.Fatalf("stats meta missing: %v", err)
	}
}

func TestSaveAgentIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	s := runSimulation(t, 5)

	if err := db.SaveAgent(s); err != nil {
		t.Fatalf("first save: %v", err)
	}
	s.Tick()
	if err := db.SaveAgent(s); err != nil {
		t.Fatalf("second save: %v", err)
	}

	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM agent_state"); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("agent rows=%d want 1, saves replace", n)
	}
}

func TestSaveGoalsReplacesPreviousSet(t *testing.T) {
	db := openTestDB(t)
	s := runSimulation(t, 1)

	if err := db.SaveGoals(s); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := db.SaveGoals(s); err != nil {
		t.Fatalf("second save: %v", err)
	}

	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM goals"); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != len(s.Goals.All()) {
		t.Fatalf("goal rows=%d want %d", n, len(s.Goals.All()))
	}
}

func TestRecentEventsNewestFirst(t *testing.T) {
	db := openTestDB(t)

	events := []sim.Event{
		{Tick: 1, Description: "ate food at (1,1)", Category: "action"},
		{Tick: 2, Description: "drank water at (1,2)", Category: "action"},
		{Tick: 3, Description: "shoved an obstacle near (2,2)", Category: "action"},
	}
	if err := db.SaveEvents(events); err != nil {
		t.Fatalf("save events: %v", err)
	}

	got, err := db.RecentEvents(2)
	if err != nil {
		t.Fatalf("recent events: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len=%d want 2", len(got))
	}
	if got[0].Tick != 3 || got[1].Tick != 2 {
		t.Fatalf("events=%+v want newest first", got)
	}
}

func TestGetMetaMissingKey(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.GetMeta("nope"); err == nil {
		t.Fatal("missing key should error")
	}
}

func TestSaveEpisodesAppends(t *testing.T) {
	db := openTestDB(t)
	s := runSimulation(t, 10)

	if err := db.SaveEpisodes(s.Episodic.All()); err != nil {
		t.Fatalf("save: %v", err)
	}
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM episodes"); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != s.Episodic.Len() {
		t.Fatalf("episode rows=%d want %d", n, s.Episodic.Len())
	}
}
