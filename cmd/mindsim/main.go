// Command mindsim runs the NeuroConscious cognition simulation: one
// embodied agent learning to survive on a small grid world.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"neuroconscious/internal/config"
	"neuroconscious/internal/persistence"
	"neuroconscious/internal/sim"
)

func main() {
	var (
		cfgPath  = flag.String("config", "tuning.yaml", "tuning file (defaults used when absent)")
		dbPath   = flag.String("db", "data/mindsim.db", "run state database")
		ticks    = flag.Int("ticks", 0, "override total ticks (0 keeps the tuning value)")
		logEvery = flag.Int("log-every", 25, "status log interval in ticks")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("failed to load tuning", "error", err)
		os.Exit(1)
	}
	if *ticks > 0 {
		cfg.TotalTicks = *ticks
	}

	slog.Info("NeuroConscious cognition simulation",
		"seed", cfg.Seed,
		"grid", cfg.GridSize,
		"ticks", cfg.TotalTicks,
	)

	os.MkdirAll("data", 0755)
	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", *dbPath)

	s := sim.New(cfg)

	// A previously trained model resumes where it left off.
	if err := s.Learner.Load(cfg.Learner.ModelPath); err != nil {
		slog.Warn("could not load saved model, starting fresh", "error", err)
	}

	// Stop cleanly on SIGINT/SIGTERM, saving what was learned so far.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	fmt.Printf("\n%s wakes up on a %dx%d grid.\n", s.Bot.Name, cfg.GridSize, cfg.GridSize)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	done := make(chan struct{})
	go func() {
		s.Run(*logEvery)
		close(done)
	}()

	select {
	case <-done:
	case sig := <-stop:
		slog.Info("received signal, shutting down", "signal", sig)
		s.Stop()
		<-done
	}

	slog.Info("final save...")
	if err := s.Learner.Save(cfg.Learner.ModelPath); err != nil {
		slog.Error("model save failed", "error", err)
	}
	if err := db.SaveRunState(s); err != nil {
		slog.Error("run state save failed", "error", err)
	}

	fmt.Printf("Simulation stopped at tick %d. Total reward %.2f, epsilon %.3f.\n",
		s.CurrentTick(), s.Stats.TotalReward, s.Learner.Epsilon())
}
