package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "BONEKLOD_"

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Window     WindowConfig  `yaml:"window" envPrefix:"WINDOW_"`
	Log        LogConfig     `yaml:"log" envPrefix:"LOG_"`
	Physics    PhysicsConfig `yaml:"physics" envPrefix:"PHYSICS_"`
	Input      InputConfig   `yaml:"input" envPrefix:"INPUT_"`
	UI         UIConfig      `yaml:"ui" envPrefix:"UI_"`
	Audio      AudioConfig   `yaml:"audio" envPrefix:"AUDIO_"`
	StartLevel string        `yaml:"start_level" env:"START_LEVEL"`
	Debug      bool          `yaml:"debug" env:"DEBUG"`
	// HotReload watches prefabs/ and levels/ on disk. Only honoured with Debug.
	HotReload bool `yaml:"hot_reload" env:"HOT_RELOAD"`
}

type WindowConfig struct {
	Title      string `yaml:"title" env:"TITLE"`
	Width      int    `yaml:"width" env:"WIDTH"`
	Height     int    `yaml:"height" env:"HEIGHT"`
	Fullscreen bool   `yaml:"fullscreen" env:"FULLSCREEN"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

type PhysicsConfig struct {
	TickRate           int     `yaml:"tick_rate" env:"TICK_RATE"`
	Iterations         int     `yaml:"iterations" env:"ITERATIONS"`
	Gravity            float64 `yaml:"gravity" env:"GRAVITY"`
	MaxVelocity        float64 `yaml:"max_velocity" env:"MAX_VELOCITY"`
	MaxAngularVelocity float64 `yaml:"max_angular_velocity" env:"MAX_ANGULAR_VELOCITY"`
	MaxStepsPerFrame   int     `yaml:"max_steps_per_frame" env:"MAX_STEPS_PER_FRAME"`
}

type InputConfig struct {
	DeadZone        float64 `yaml:"dead_zone" env:"DEAD_ZONE"`
	LookSensitivity float64 `yaml:"look_sensitivity" env:"LOOK_SENSITIVITY"`
}

type UIConfig struct {
	RepeatDelay    float64 `yaml:"repeat_delay" env:"REPEAT_DELAY"`
	RepeatInterval float64 `yaml:"repeat_interval" env:"REPEAT_INTERVAL"`
	AxisThreshold  float64 `yaml:"axis_threshold" env:"AXIS_THRESHOLD"`
	WrapMainMenu   bool    `yaml:"wrap_main_menu" env:"WRAP_MAIN_MENU"`
}

type AudioConfig struct {
	Master  float64 `yaml:"master" env:"MASTER"`
	Effects float64 `yaml:"effects" env:"EFFECTS"`
	// Falloff is the distance in world units at which cues become silent.
	Falloff float64 `yaml:"falloff" env:"FALLOFF"`
}

func Default() Config {
	return Config{
		Window: WindowConfig{Title: "Bone Klod", Width: 1280, Height: 720},
		Log:    LogConfig{Level: "info", Format: "console"},
		Physics: PhysicsConfig{
			TickRate:           60,
			Iterations:         20,
			Gravity:            30,
			MaxVelocity:        60,
			MaxAngularVelocity: 80,
			MaxStepsPerFrame:   4,
		},
		Input: InputConfig{DeadZone: 0.15, LookSensitivity: 0.02},
		UI: UIConfig{
			RepeatDelay:    0.4,
			RepeatInterval: 0.15,
			AxisThreshold:  0.5,
			WrapMainMenu:   true,
		},
		Audio:      AudioConfig{Master: 0.8, Effects: 1, Falloff: 40},
		StartLevel: "",
	}
}

// Load returns defaults overlaid with the yaml file at path (when non-empty)
// and then with BONEKLOD_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: unmarshal %s: %w", path, err)
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseEnv overlays BONEKLOD_* environment variables onto target.
func ParseEnv(target *Config) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// FixedDT is the simulation step length in seconds.
func (c Config) FixedDT() float64 {
	if c.Physics.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.Physics.TickRate)
}

func (c Config) Validate() error {
	var err error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height))
	}
	if c.Physics.TickRate < 10 || c.Physics.TickRate > 480 {
		err = multierr.Append(err, fmt.Errorf("%w: physics.tick_rate %d outside [10,480]", ErrInvalidConfig, c.Physics.TickRate))
	}
	if c.Physics.Iterations <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: physics.iterations must be positive", ErrInvalidConfig))
	}
	if c.Physics.MaxVelocity <= 0 || c.Physics.MaxAngularVelocity <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: physics velocity limits must be positive", ErrInvalidConfig))
	}
	if c.Physics.MaxStepsPerFrame <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: physics.max_steps_per_frame must be positive", ErrInvalidConfig))
	}
	if c.Input.DeadZone < 0 || c.Input.DeadZone >= 1 {
		err = multierr.Append(err, fmt.Errorf("%w: input.dead_zone %.2f outside [0,1)", ErrInvalidConfig, c.Input.DeadZone))
	}
	if c.UI.RepeatDelay < 0 || c.UI.RepeatInterval <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: ui repeat timings", ErrInvalidConfig))
	}
	if c.UI.AxisThreshold <= 0 || c.UI.AxisThreshold > 1 {
		err = multierr.Append(err, fmt.Errorf("%w: ui.axis_threshold %.2f outside (0,1]", ErrInvalidConfig, c.UI.AxisThreshold))
	}
	if c.Audio.Master < 0 || c.Audio.Master > 1 || c.Audio.Effects < 0 || c.Audio.Effects > 1 {
		err = multierr.Append(err, fmt.Errorf("%w: audio volumes must be within [0,1]", ErrInvalidConfig))
	}
	return err
}
