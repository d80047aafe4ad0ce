// Command replaycheck re-runs recorded sessions headlessly and reports any
// whose final physics checksum no longer matches.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/milk9111/boneklod/config"
	"github.com/milk9111/boneklod/levels"
	"github.com/milk9111/boneklod/logger"
	"github.com/milk9111/boneklod/prefabs"
	"github.com/milk9111/boneklod/sim"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to a config yaml")
	jobs := flag.Int("j", runtime.NumCPU(), "replays to run in parallel")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: replaycheck [-config file] [-j n] recording.yaml...\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	player, err := prefabs.LoadPlayerSpec()
	if err != nil {
		log.Fatal("player prefab", zap.Error(err))
	}

	if err := check(cfg, player, flag.Args(), *jobs, log); err != nil {
		for _, e := range multierr.Errors(err) {
			log.Error("replay failed", zap.Error(e))
		}
		os.Exit(1)
	}
}

// check replays every file; failures are collected rather than stopping
// the other replays.
func check(cfg config.Config, player *prefabs.PlayerSpec, files []string, jobs int, log *zap.Logger) error {
	results := make([]error, len(files))
	var g errgroup.Group
	g.SetLimit(max(jobs, 1))
	for i, path := range files {
		g.Go(func() error {
			results[i] = replayFile(cfg, player, path, log)
			return nil
		})
	}
	_ = g.Wait()
	return multierr.Combine(results...)
}

func replayFile(cfg config.Config, player *prefabs.PlayerSpec, path string, log *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rec, err := sim.DecodeRecording(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	// Each replay owns its simulation; only the read-only player spec is shared.
	sum, err := sim.Replay(sim.Options{
		Config: cfg,
		Player: player,
		Levels: levels.Default(),
		Log:    log.With(zap.String("file", path)),
	}, rec)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	log.Info("replay ok",
		zap.String("file", path),
		zap.String("level", rec.Level),
		zap.Int("steps", rec.Steps),
		zap.String("checksum", fmt.Sprintf("%016x", sum)))
	return nil
}
