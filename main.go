package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/boneklod/config"
	"github.com/milk9111/boneklod/levels"
	"github.com/milk9111/boneklod/logger"
	"github.com/milk9111/boneklod/prefabs"
	"github.com/milk9111/boneklod/sfx"
	"github.com/milk9111/boneklod/sim"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to a config yaml")
	debug := flag.Bool("debug", false, "enable debug drawing and logging")
	levelID := flag.String("level", "", "start directly in this level")
	record := flag.String("record", "", "write the session recording to this file on exit")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *debug {
		cfg.Debug = true
	}
	if *levelID != "" {
		cfg.StartLevel = *levelID
	}

	log, err := logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Development: cfg.Debug})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	res, err := loadResources(log)
	if err != nil {
		log.Fatal("failed to load resources", zap.Error(err))
	}

	cues := sfx.NewQueue(0)
	simulation, err := sim.New(sim.Options{
		Config: cfg,
		Player: res.player,
		Camera: res.camera,
		Levels: levels.Default(),
		Cues:   cues,
		Log:    log,
	})
	if err != nil {
		log.Fatal("failed to start simulation", zap.Error(err))
	}
	if cfg.StartLevel != "" {
		if err := simulation.Start(cfg.StartLevel); err != nil {
			log.Warn("start level", zap.String("level", cfg.StartLevel), zap.Error(err))
		}
	}

	game := NewGame(cfg, simulation, newSoundboard(cfg.Audio, res.sounds, log), log)
	defer game.Close()

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Window.Fullscreen)
	ebiten.SetTPS(cfg.Physics.TickRate)

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		log.Error("game exited", zap.Error(err))
	}
	if *record != "" {
		game.SaveRecording(*record)
	}
}

type resources struct {
	player *prefabs.PlayerSpec
	camera *prefabs.CameraSpec
	sounds []clip
}

// loadResources reads the prefabs and decodes every sound in parallel.
func loadResources(log *zap.Logger) (*resources, error) {
	var (
		res    resources
		sounds *prefabs.SoundsSpec
		g      errgroup.Group
	)
	g.Go(func() (err error) {
		res.player, err = prefabs.LoadPlayerSpec()
		return err
	})
	g.Go(func() (err error) {
		res.camera, err = prefabs.LoadCameraSpec()
		return err
	})
	g.Go(func() (err error) {
		sounds, err = prefabs.LoadSoundsSpec()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.sounds = make([]clip, len(sounds.Sounds))
	var sg errgroup.Group
	for i, s := range sounds.Sounds {
		sg.Go(func() error {
			c, err := loadClip(s)
			if err != nil {
				// A missing sound is not fatal; the cue just stays silent.
				log.Warn("sound unavailable", zap.String("sound", s.Name), zap.Error(err))
				return nil
			}
			res.sounds[i] = c
			return nil
		})
	}
	_ = sg.Wait()
	return &res, nil
}
