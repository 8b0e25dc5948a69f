package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().validate(); err != nil {
		t.Fatalf("default tuning invalid: %v", err)
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Default()
	if got.GridSize != want.GridSize || got.Learner.Epsilon != want.Learner.Epsilon {
		t.Fatalf("missing file should return defaults, got grid=%d epsilon=%v", got.GridSize, got.Learner.Epsilon)
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	body := "grid_size: 16\nlearner:\n  epsilon: 0.5\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.GridSize != 16 {
		t.Fatalf("grid_size=%d want 16", got.GridSize)
	}
	if got.Learner.Epsilon != 0.5 {
		t.Fatalf("epsilon=%v want 0.5", got.Learner.Epsilon)
	}
	// Untouched keys keep their defaults.
	if got.Learner.Gamma != Default().Learner.Gamma {
		t.Fatalf("gamma=%v want default %v", got.Learner.Gamma, Default().Learner.Gamma)
	}
}

func TestLoadRejectsBadRanges(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"tiny grid", "grid_size: 1\n"},
		{"batch above capacity", "learner:\n  batch_size: 99999\n"},
		{"epsilon_min above epsilon", "learner:\n  epsilon: 0.1\n  epsilon_min: 0.5\n"},
		{"decay out of range", "learner:\n  epsilon_decay: 1.5\n"},
	}
	for _, tc := range cases {
		path := filepath.Join(t.TempDir(), "tuning.yaml")
		if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
