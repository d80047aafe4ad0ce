package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/boneklod/common"
	"github.com/milk9111/boneklod/config"
	"github.com/milk9111/boneklod/gamestate"
	"github.com/milk9111/boneklod/levels"
	"github.com/milk9111/boneklod/prefabs"
	"github.com/milk9111/boneklod/sim"
	"go.uber.org/zap"
)

type Game struct {
	cfg     config.Config
	sim     *sim.Simulation
	sounds  *soundboard
	menu    *menuUI
	watcher *prefabs.Watcher
	log     *zap.Logger
	frames  common.FrameClock
}

func NewGame(cfg config.Config, s *sim.Simulation, sounds *soundboard, log *zap.Logger) *Game {
	g := &Game{
		cfg:    cfg,
		sim:    s,
		sounds: sounds,
		log:    log.Named("game"),
		frames: common.FrameClock{Max: 0.25},
	}
	g.menu = newMenuUI(s.Activate, func(id string) { s.Navigator().Focus(id) })

	if cfg.Debug && cfg.HotReload {
		w, err := prefabs.NewWatcher(prefabs.DiskDir, levels.DiskDir)
		if err != nil {
			g.log.Warn("hot reload disabled", zap.Error(err))
		} else {
			g.watcher = w
		}
	}
	return g
}

func (g *Game) Update() error {
	frameDT := 1 / float64(ebiten.TPS())
	g.reload()

	g.sim.Update(sampleDevice(), frameDT)
	if g.sim.Quit() {
		return ebiten.Termination
	}

	listener := g.sim.Camera().Pos
	if p, ok := g.sim.Player(); ok {
		listener = p.State.Position
	}
	g.sounds.play(g.sim.Cues().Drain(), listener)

	if g.showMenu() {
		g.menu.sync(g.sim.Navigator().Screen(), g.sim.Navigator().Focused())
		g.menu.ui.Update()
	}
	return nil
}

func (g *Game) showMenu() bool {
	switch g.sim.State() {
	case gamestate.MainMenu, gamestate.Paused, gamestate.LevelComplete, gamestate.GameOver:
		return true
	}
	return false
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.sim.UpdateCamera(g.frames.Tick(time.Now()))

	screen.Fill(skyColor)
	drawWorld(g.sim, screen)
	if g.cfg.Debug {
		if pw := g.sim.Physics(); pw != nil {
			drawPhysicsDebug(pw.Space(), g.sim.Camera(), screen)
		}
	}
	drawHUD(g.sim, screen, g.cfg.Debug)
	if g.showMenu() && g.menu.ui != nil {
		g.menu.ui.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// reload applies prefab and level files edited on disk.
func (g *Game) reload() {
	if g.watcher == nil {
		return
	}
	for _, c := range g.watcher.Poll() {
		dir := filepath.Base(filepath.Dir(c.Path))
		switch {
		case dir == levels.DiskDir:
			g.log.Info("level changed on disk, restart the level to apply", zap.String("file", c.Name()))
			g.sim.RefreshLevels()
		case c.Name() == "player.yaml":
			spec, err := prefabs.LoadPlayerSpec()
			if err != nil {
				g.log.Warn("player reload failed", zap.Error(err))
				continue
			}
			g.sim.ApplyPlayerSpec(spec)
			g.log.Info("player tuning reloaded")
		case c.Name() == "camera.yaml":
			spec, err := prefabs.LoadCameraSpec()
			if err != nil {
				g.log.Warn("camera reload failed", zap.Error(err))
				continue
			}
			g.sim.ApplyCameraSpec(spec)
			g.log.Info("camera reloaded")
		}
	}
}

// SaveRecording writes the inputs of the last played level for replaycheck.
func (g *Game) SaveRecording(path string) {
	rec := g.sim.Recording()
	if rec == nil {
		g.log.Info("nothing to record")
		return
	}
	f, err := os.Create(path)
	if err != nil {
		g.log.Error("save recording", zap.Error(err))
		return
	}
	defer f.Close()
	if err := rec.Encode(f); err != nil {
		g.log.Error("save recording", zap.Error(err))
		return
	}
	g.log.Info("recording saved", zap.String("file", path), zap.Int("steps", rec.Steps))
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.sounds.close()
}
