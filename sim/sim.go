package sim

import (
	"fmt"
	"math"

	"github.com/milk9111/boneklod/camera"
	"github.com/milk9111/boneklod/config"
	"github.com/milk9111/boneklod/gamestate"
	"github.com/milk9111/boneklod/input"
	"github.com/milk9111/boneklod/levels"
	"github.com/milk9111/boneklod/logger"
	"github.com/milk9111/boneklod/prefabs"
	"github.com/milk9111/boneklod/score"
	"github.com/milk9111/boneklod/sfx"
	"github.com/milk9111/boneklod/ui"
	"go.uber.org/zap"
)

// Lister lists the levels offered on the menus.
type Lister interface {
	List() ([]levels.Entry, error)
}

type Options struct {
	Config config.Config
	Player *prefabs.PlayerSpec
	Camera *prefabs.CameraSpec
	Levels levels.Source
	// Menu lists levels for the menus. Defaults to Levels when it lists.
	Menu Lister
	Cues *sfx.Queue
	Log  *zap.Logger
}

// Simulation owns the app state machine, the loaded level and the menus.
// It is driven by Update once per tick and UpdateCamera once per frame.
type Simulation struct {
	cfg        config.Config
	dt         float64
	playerSpec *prefabs.PlayerSpec
	source     levels.Source
	menu       Lister
	entries    []levels.Entry
	log        *zap.Logger

	mapper  *input.Mapper
	machine *gamestate.Machine
	nav     *ui.Navigator
	cues    *sfx.Queue
	rig     *camera.Rig

	level       *level
	accumulator float64
	lastIntent  input.Intent
	recording   *Recording
	quit        bool
}

func New(opts Options) (*Simulation, error) {
	if opts.Player == nil {
		return nil, fmt.Errorf("sim: missing player spec")
	}
	if opts.Levels == nil {
		return nil, fmt.Errorf("sim: missing level source")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	log := logger.OrNop(opts.Log).Named("sim")
	cues := opts.Cues
	if cues == nil {
		cues = sfx.NewQueue(0)
	}
	menu := opts.Menu
	if menu == nil {
		menu, _ = opts.Levels.(Lister)
	}

	ucfg := opts.Config.UI
	s := &Simulation{
		cfg:        opts.Config,
		dt:         opts.Config.FixedDT(),
		playerSpec: opts.Player,
		source:     opts.Levels,
		menu:       menu,
		log:        log,
		mapper:     input.NewMapper(opts.Config.Input.DeadZone, opts.Config.Input.LookSensitivity),
		machine:    gamestate.NewMachine(log),
		nav: ui.NewNavigator(ui.Config{
			RepeatDelay:    ucfg.RepeatDelay,
			RepeatInterval: ucfg.RepeatInterval,
			Threshold:      ucfg.AxisThreshold,
		}),
		cues: cues,
		rig:  camera.NewRig(camera.ConfigFromSpec(opts.Camera)),
	}
	s.nav.OnMove = func(_, _ string) { s.cues.UI(sfx.UIMove) }
	s.machine.OnTransition(s.onTransition)
	s.refreshEntries()
	s.nav.SetScreen(ui.MainMenu(s.entries, ucfg.WrapMainMenu, ""))
	return s, nil
}

func (s *Simulation) refreshEntries() {
	if s.menu == nil {
		return
	}
	entries, err := s.menu.List()
	if err != nil {
		s.log.Warn("some levels failed to load", zap.Error(err))
	}
	s.entries = entries
}

// Start requests a level directly, skipping the menus.
func (s *Simulation) Start(id string) error {
	return s.machine.StartLevel(id)
}

// Update advances one tick of frameDT seconds.
func (s *Simulation) Update(raw input.Raw, frameDT float64) {
	intent := s.mapper.Map(raw)
	s.lastIntent = intent

	switch s.machine.State() {
	case gamestate.Loading:
		s.load()
	case gamestate.Playing:
		if intent.PausePressed {
			s.transition("pause", s.machine.Pause())
			return
		}
		s.advance(intent, frameDT)
	default:
		if act, ok := s.nav.Update(intent, frameDT); ok {
			s.cues.UI(sfx.UISelect)
			s.dispatch(act)
		}
	}
}

func (s *Simulation) advance(intent input.Intent, frameDT float64) {
	if s.level == nil || frameDT <= 0 || math.IsNaN(frameDT) {
		return
	}
	maxSteps := max(s.cfg.Physics.MaxStepsPerFrame, 1)
	s.accumulator += min(frameDT, float64(maxSteps)*s.dt)
	s.level.inputs.Set(intent)

	for steps := 0; s.accumulator >= s.dt && steps < maxSteps; steps++ {
		s.accumulator -= s.dt
		s.step()
		if s.machine.State() != gamestate.Playing {
			s.accumulator = 0
			return
		}
	}
}

// step runs one fixed step of the loaded level.
func (s *Simulation) step() {
	lvl := s.level
	lvl.scheduler.Update(lvl.world)
	if s.recording != nil {
		s.recording.add(lvl.inputs.Applied(), lvl.physics.Checksum())
	}
	s.machine.Evaluate()
}

func (s *Simulation) load() {
	id := s.machine.PendingLevel()
	lvl, err := s.buildLevel(id)
	if err != nil {
		s.log.Error("level failed to load", zap.String("level", id), zap.Error(err))
		s.level = nil
		s.transition("fail_loading", s.machine.FailLoading(err))
		return
	}
	s.level = lvl
	s.accumulator = 0
	s.recording = newRecording(id, s.cfg.Physics.TickRate)
	s.snapCamera()
	s.transition("finish_loading", s.machine.FinishLoading(lvl.session))
}

func (s *Simulation) dispatch(act ui.Action) {
	switch act.Kind {
	case ui.ActionStart, ui.ActionSelectLevel, ui.ActionNextLevel:
		s.transition("start_level", s.machine.StartLevel(act.Level))
	case ui.ActionRestart:
		if s.level != nil {
			s.transition("restart", s.machine.StartLevel(s.level.desc.ID))
		}
	case ui.ActionResume:
		s.transition("resume", s.machine.Resume())
	case ui.ActionMainMenu:
		s.transition("main_menu", s.machine.ReturnToMenu())
	case ui.ActionLevels:
		s.nav.SetScreen(ui.LevelSelect(s.entries, s.cfg.UI.WrapMainMenu))
	case ui.ActionRules:
		s.nav.SetScreen(ui.Rules())
	case ui.ActionBack:
		s.nav.SetScreen(s.mainMenu())
	case ui.ActionQuit:
		s.quit = true
	}
}

// Activate runs the action of a menu element picked with the pointer.
func (s *Simulation) Activate(id string) {
	if !s.machine.Runs(gamestate.GroupUI) {
		return
	}
	if act, ok := s.nav.Activate(id); ok {
		s.cues.UI(sfx.UISelect)
		s.dispatch(act)
	}
}

// RefreshLevels re-reads the level list, for example after a level file
// changed on disk.
func (s *Simulation) RefreshLevels() {
	s.refreshEntries()
	if s.machine.State() != gamestate.MainMenu {
		return
	}
	switch s.nav.Screen().ID {
	case ui.ScreenMainMenu:
		s.nav.SetScreen(s.mainMenu())
	case ui.ScreenLevelSelect:
		s.nav.SetScreen(ui.LevelSelect(s.entries, s.cfg.UI.WrapMainMenu))
	}
}

func (s *Simulation) transition(op string, err error) {
	if err != nil {
		s.log.Warn("transition rejected", zap.String("op", op), zap.Error(err))
	}
}

func (s *Simulation) onTransition(from, to gamestate.AppState) {
	s.log.Info("app state", zap.Stringer("from", from), zap.Stringer("to", to))
	switch to {
	case gamestate.MainMenu:
		s.level = nil
		s.recording = nil
		s.refreshEntries()
		s.nav.SetScreen(s.mainMenu())
	case gamestate.Loading:
		s.level = nil
	case gamestate.Paused:
		s.nav.SetScreen(ui.Pause())
	case gamestate.LevelComplete:
		res := s.finalResult()
		next := ""
		if s.level != nil {
			next = s.level.desc.Next
		}
		s.nav.SetScreen(ui.LevelComplete(res, next))
		if res.Won {
			s.cues.UI(sfx.Complete)
		} else {
			s.cues.UI(sfx.Fail)
		}
	case gamestate.GameOver:
		s.nav.SetScreen(ui.GameOver(s.finalResult()))
		s.cues.UI(sfx.Fail)
	}
}

func (s *Simulation) mainMenu() *ui.Screen {
	msg := ""
	if err := s.machine.Err(); err != nil {
		msg = err.Error()
	}
	return ui.MainMenu(s.entries, s.cfg.UI.WrapMainMenu, msg)
}

func (s *Simulation) finalResult() (res score.Result) {
	if sess := s.machine.Session(); sess != nil && sess.Result != nil {
		return *sess.Result
	}
	return res
}

// ApplyPlayerSpec swaps the klod tuning, also on the live klod.
func (s *Simulation) ApplyPlayerSpec(spec *prefabs.PlayerSpec) {
	if spec == nil {
		return
	}
	s.playerSpec = spec
	if p, ok := s.Player(); ok {
		p.player.Tuning = spec.Controller
	}
}

func (s *Simulation) ApplyCameraSpec(spec *prefabs.CameraSpec) {
	if spec != nil {
		s.rig.SetConfig(camera.ConfigFromSpec(spec))
	}
}

// Quit reports that the player chose Quit.
func (s *Simulation) Quit() bool { return s.quit }

func (s *Simulation) State() gamestate.AppState { return s.machine.State() }

// Err is the last level loading error.
func (s *Simulation) Err() error { return s.machine.Err() }

func (s *Simulation) Session() *gamestate.Session { return s.machine.Session() }

func (s *Simulation) Navigator() *ui.Navigator { return s.nav }

func (s *Simulation) Camera() *camera.Rig { return s.rig }

func (s *Simulation) Cues() *sfx.Queue { return s.cues }

// Level is the loaded level, nil outside a level.
func (s *Simulation) Level() *levels.Descriptor {
	if s.level == nil {
		return nil
	}
	return s.level.desc
}

// RestartHeld is how long restart has been held in the running level.
func (s *Simulation) RestartHeld() float64 {
	if s.level == nil {
		return 0
	}
	return s.level.clock.Held()
}
