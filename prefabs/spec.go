package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// PlayerSpec describes the klod body and its controller tuning.
type PlayerSpec struct {
	Name       string         `yaml:"name"`
	Radius     float64        `yaml:"radius"`
	Mass       float64        `yaml:"mass"`
	Friction   float64        `yaml:"friction"`
	Elasticity float64        `yaml:"elasticity"`
	Color      *YAMLColor     `yaml:"color"`
	Controller ControllerSpec `yaml:"controller"`
}

type ControllerSpec struct {
	// MoveForce is applied along move-intent; WeightForce is added per unit
	// of absorbed bone weight so a heavy klod is not stuck.
	MoveForce    float64 `yaml:"move_force"`
	WeightForce  float64 `yaml:"weight_force"`
	RollTorque   float64 `yaml:"roll_torque"`
	MaxSpeed     float64 `yaml:"max_speed"`
	JumpSpeed    float64 `yaml:"jump_speed"`
	GroundAngle  float64 `yaml:"ground_angle_deg"`
	StunImpulse  float64 `yaml:"stun_impulse"`
	StunDuration float64 `yaml:"stun_duration"`
	AirControl   float64 `yaml:"air_control"`
	DoubleJump   bool    `yaml:"double_jump"`

	AbsorbRatio     float64 `yaml:"absorb_ratio"`
	MinSpeedBonus   float64 `yaml:"min_speed_bonus"`
	SpeedBonusScale float64 `yaml:"speed_bonus_scale"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

func (s PlayerSpec) Validate() error {
	switch {
	case s.Radius <= 0:
		return fmt.Errorf("prefabs: player radius must be positive")
	case s.Mass <= 0:
		return fmt.Errorf("prefabs: player mass must be positive")
	case s.Controller.MaxSpeed <= 0:
		return fmt.Errorf("prefabs: controller max_speed must be positive")
	case s.Controller.GroundAngle <= 0 || s.Controller.GroundAngle >= 90:
		return fmt.Errorf("prefabs: controller ground_angle_deg %.1f outside (0,90)", s.Controller.GroundAngle)
	case s.Controller.AirControl < 0 || s.Controller.AirControl > 1:
		return fmt.Errorf("prefabs: controller air_control %.2f outside [0,1]", s.Controller.AirControl)
	}
	return nil
}

// CameraSpec tunes the follow camera. Distances are in world units.
type CameraSpec struct {
	Name        string  `yaml:"name"`
	Zoom        float64 `yaml:"zoom"`
	Behind      float64 `yaml:"behind"`
	Height      float64 `yaml:"height"`
	Smooth90    float64 `yaml:"smooth90"`
	MinDistance float64 `yaml:"min_distance"`
	Padding     float64 `yaml:"padding"`
	LookRange   float64 `yaml:"look_range"`
	LookReturn  float64 `yaml:"look_return"`
}

func LoadCameraSpec() (*CameraSpec, error) {
	spec, err := LoadSpec[CameraSpec]("camera.yaml")
	if err != nil {
		return nil, err
	}
	if spec.Smooth90 < 0 || spec.MinDistance < 0 {
		return nil, fmt.Errorf("prefabs: camera smoothing and min_distance must be non-negative")
	}
	return &spec, nil
}

type AudioSpec struct {
	Name   string  `yaml:"name"`
	File   string  `yaml:"file"`
	Volume float64 `yaml:"volume"`
}

type SoundsSpec struct {
	Sounds []AudioSpec `yaml:"sounds"`
}

func LoadSoundsSpec() (*SoundsSpec, error) {
	spec, err := LoadSpec[SoundsSpec]("sounds.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// RGBA returns the color or fallback when unset.
func (c *YAMLColor) RGBA(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
