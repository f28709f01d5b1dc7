// Package config loads movement tuning from YAML files and watches them for
// live edits.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds every knob the controller feeds into the movement solver.
type Tuning struct {
	// DesiredSpeed is the target horizontal speed in world units per second.
	DesiredSpeed float64 `yaml:"desired_speed"`
	// Acceleration ramps speed up toward DesiredSpeed.
	Acceleration float64 `yaml:"acceleration"`
	// Deceleration ramps speed down toward zero or back under the cap.
	Deceleration float64 `yaml:"deceleration"`
	// JumpStrength is the upward impulse budget granted on jump.
	JumpStrength float64 `yaml:"jump_strength"`

	// SlopeLimit is the minimum vertical normal component for ground.
	SlopeLimit float64 `yaml:"slope_limit"`
	// SkinWidth is the clearance margin kept between body and obstacles.
	SkinWidth float64 `yaml:"skin_width"`
	// MinMoveDistance is the displacement below which moves are dropped.
	MinMoveDistance float64 `yaml:"min_move_distance"`

	// JumpBufferTicks keeps an early jump press armed this many ticks.
	JumpBufferTicks int `yaml:"jump_buffer_ticks"`
	// CoyoteTicks allows a jump this many ticks after walking off a ledge.
	CoyoteTicks int `yaml:"coyote_ticks"`
	// FaceMovement snaps the look direction to the move direction.
	FaceMovement bool `yaml:"face_movement"`
}

// Default returns the stock tuning.
func Default() Tuning {
	return Tuning{
		DesiredSpeed:    10,
		Acceleration:    40,
		Deceleration:    60,
		JumpStrength:    14,
		SlopeLimit:      0.5,
		SkinWidth:       0.05,
		MinMoveDistance: 0.001,
		JumpBufferTicks: 6,
		CoyoteTicks:     4,
		FaceMovement:    true,
	}
}

// Load reads a tuning file. Fields left unset in the file keep their default
// values.
func Load(path string) (Tuning, error) {
	t := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return t, nil
}
