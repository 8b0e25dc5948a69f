// Package persistence provides SQLite-based run state storage: the
// agent's final state, its memories, goals and the event log, so a run
// can be inspected or resumed later.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"neuroconscious/internal/memory"
	"neuroconscious/internal/sim"
)

// DB wraps a SQLite connection for run state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS agent_state (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		pos_x INTEGER NOT NULL,
		pos_y INTEGER NOT NULL,
		hunger REAL NOT NULL,
		fatigue REAL NOT NULL,
		thirst REAL NOT NULL,
		mood REAL NOT NULL,
		step INTEGER NOT NULL,
		emotions_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS episodes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		step INTEGER NOT NULL,
		action TEXT NOT NULL,
		hunger REAL NOT NULL,
		fatigue REAL NOT NULL,
		thirst REAL NOT NULL,
		mood REAL NOT NULL,
		weight REAL NOT NULL,
		reward REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		priority REAL NOT NULL,
		completed INTEGER NOT NULL,
		detail_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS procedures (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		action TEXT NOT NULL,
		priority REAL NOT NULL,
		successes INTEGER NOT NULL,
		failures INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_episodes_step ON episodes(step);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveAgent writes the agent's final snapshot (full replace).
func (db *DB) SaveAgent(s *sim.Simulation) error {
	emotionsJSON, _ := json.Marshal(s.Bot.Emotions)
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO agent_state
		(id, name, pos_x, pos_y, hunger, fatigue, thirst, mood, step, emotions_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Bot.ID, s.Bot.Name, s.Bot.Pos.X, s.Bot.Pos.Y,
		s.Bot.State.Hunger, s.Bot.State.Fatigue, s.Bot.State.Thirst, s.Bot.State.Mood,
		s.Bot.Step, string(emotionsJSON),
	)
	return err
}

// SaveEpisodes appends the episodic memory contents.
func (db *DB) SaveEpisodes(episodes []memory.Episode) error {
	if len(episodes) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO episodes
		(step, action, hunger, fatigue, thirst, mood, weight, reward)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range episodes {
		_, err := stmt.Exec(
			e.Step, e.Action.String(),
			e.State.Hunger, e.State.Fatigue, e.State.Thirst, e.State.Mood,
			e.Weight, e.Reward,
		)
		if err != nil {
			return fmt.Errorf("insert episode at step %d: %w", e.Step, err)
		}
	}

	return tx.Commit()
}

// SaveGoals writes the goal set (full replace).
func (db *DB) SaveGoals(s *sim.Simulation) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM goals"); err != nil {
		return err
	}

	for _, g := range s.Goals.All() {
		detailJSON, _ := json.Marshal(g)
		completed := 0
		if g.Completed {
			completed = 1
		}
		_, err := tx.Exec(`INSERT INTO goals (id, kind, name, priority, completed, detail_json)
			VALUES (?, ?, ?, ?, ?, ?)`,
			g.ID, g.Kind.String(), g.Name, g.Priority, completed, string(detailJSON),
		)
		if err != nil {
			return fmt.Errorf("insert goal %s: %w", g.ID, err)
		}
	}

	return tx.Commit()
}

// SaveProcedures writes the learned habits (full replace).
func (db *DB) SaveProcedures(procs []*memory.Procedure) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM procedures"); err != nil {
		return err
	}

	for _, p := range procs {
		_, err := tx.Exec(`INSERT INTO procedures (id, name, action, priority, successes, failures)
			VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Action.String(), p.Priority, p.Successes, p.Failures,
		)
		if err != nil {
			return fmt.Errorf("insert procedure %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []sim.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (tick, description, category) VALUES (?, ?, ?)",
			e.Tick, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveMeta stores a key-value pair in run metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO run_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM run_meta WHERE key = ?", key)
	return value, err
}

// SaveRunState performs a full save of the run.
func (db *DB) SaveRunState(s *sim.Simulation) error {
	slog.Info("saving run state",
		"tick", s.CurrentTick(),
		"episodes", s.Episodic.Len(),
		"events", len(s.Events),
	)

	if err := db.SaveAgent(s); err != nil {
		return fmt.Errorf("save agent: %w", err)
	}
	if err := db.SaveEpisodes(s.Episodic.All()); err != nil {
		return fmt.Errorf("save episodes: %w", err)
	}
	if err := db.SaveGoals(s); err != nil {
		return fmt.Errorf("save goals: %w", err)
	}
	if err := db.SaveProcedures(s.Procedural.All()); err != nil {
		return fmt.Errorf("save procedures: %w", err)
	}
	if err := db.SaveEvents(s.Events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveMeta("last_tick", fmt.Sprintf("%d", s.CurrentTick())); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	statsJSON, _ := json.Marshal(s.Stats)
	if err := db.SaveMeta("stats", string(statsJSON)); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}

	slog.Info("run state saved")
	return nil
}

// RecentEvents returns the most recent N events.
func (db *DB) RecentEvents(limit int) ([]sim.Event, error) {
	var events []sim.Event
	err := db.conn.Select(&events,
		"SELECT tick, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}
