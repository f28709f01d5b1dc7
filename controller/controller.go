// Package controller is the thin facade around the movement core: it holds
// the tunables and the per-tick intent (move direction, jump requests,
// flight), and drives one solver tick per fixed timestep.
package controller

import (
	"math"

	"github.com/jakecoffman/cp/v2"

	"github.com/milk9111/platformkit/config"
	"github.com/milk9111/platformkit/motor"
	"github.com/milk9111/platformkit/nav"
	"github.com/milk9111/platformkit/physics"
)

// Character wires a body, gate, and solver together behind the input-facing
// API. All methods must be called from the tick goroutine.
type Character struct {
	body   physics.Body
	gate   *motor.Gate
	solver *motor.Solver

	tuning config.Tuning

	moveDirection cp.Vector
	lookDirection cp.Vector
	flying        bool

	// jumpBuffer re-arms an early jump press until it lands or expires.
	jumpBuffer int
	// airborneTicks counts ticks since the ground was last under us, for
	// the coyote window.
	airborneTicks int

	follower *nav.Follower
}

// New creates a character around body with the given tuning.
func New(body physics.Body, tuning config.Tuning) *Character {
	c := &Character{
		body:          body,
		tuning:        tuning,
		lookDirection: cp.Vector{X: 1, Y: 0},
	}
	c.gate = motor.NewGate(body, func() bool { return c.flying })
	c.solver = motor.NewSolver(body, c.gate)
	c.solver.SetThresholds(tuning.SlopeLimit, tuning.SkinWidth, tuning.MinMoveDistance)
	return c
}

// Gate exposes the collision gate for other subsystems (spawn passthrough,
// scripted ignores).
func (c *Character) Gate() *motor.Gate { return c.gate }

// Solver exposes the underlying movement solver.
func (c *Character) Solver() *motor.Solver { return c.solver }

// Tuning returns the active tuning.
func (c *Character) Tuning() config.Tuning { return c.tuning }

// SetTuning swaps the tunables, e.g. after a hot reload.
func (c *Character) SetTuning(t config.Tuning) {
	c.tuning = t
	c.solver.SetThresholds(t.SlopeLimit, t.SkinWidth, t.MinMoveDistance)
}

// Position returns the body position.
func (c *Character) Position() cp.Vector { return c.body.Position() }

// Velocity returns the character velocity (grounded representation while
// grounded).
func (c *Character) Velocity() cp.Vector { return c.solver.Velocity() }

// Grounded reports whether the character rests on qualifying ground.
func (c *Character) Grounded() bool { return c.solver.Grounded() }

// Flying reports flight mode.
func (c *Character) Flying() bool { return c.flying }

// SetFlying toggles flight mode. Flying forces platform ignoring on.
func (c *Character) SetFlying(v bool) {
	c.flying = v
	if v {
		c.gate.SetIgnorePlatforms(true)
	}
}

// MoveDirection returns the current normalized move direction.
func (c *Character) MoveDirection() cp.Vector { return c.moveDirection }

// LookDirection returns the facing direction.
func (c *Character) LookDirection() cp.Vector { return c.lookDirection }

// SetLookDirection overrides the facing direction. Zero input is ignored.
func (c *Character) SetLookDirection(dir cp.Vector) {
	if dir.X == 0 && dir.Y == 0 {
		return
	}
	c.lookDirection = dir.Normalize()
}

// SetMoveDirection sets the travel intent. The input is normalized; unless
// flying, any vertical component collapses to a pure horizontal unit vector
// signed by the input's horizontal sign. Zero-length input clears to exactly
// zero.
func (c *Character) SetMoveDirection(dir cp.Vector) {
	if dir.X == 0 && dir.Y == 0 {
		c.moveDirection = cp.Vector{}
		return
	}
	if !c.flying {
		switch {
		case dir.X > 0:
			dir = cp.Vector{X: 1}
		case dir.X < 0:
			dir = cp.Vector{X: -1}
		default:
			dir = cp.Vector{}
		}
	} else {
		dir = dir.Normalize()
	}
	c.moveDirection = dir
	if c.tuning.FaceMovement && (dir.X != 0 || dir.Y != 0) {
		c.lookDirection = dir
	}
}

// SetPosition teleports the character; the solver arms its escape valve in
// case the destination intersects an obstacle.
func (c *Character) SetPosition(pos cp.Vector) { c.solver.SetPosition(pos) }

// RequestJump arms a jump. Pressed slightly early it stays buffered for
// JumpBufferTicks; pressed slightly after walking off a ledge it still fires
// within CoyoteTicks.
func (c *Character) RequestJump() {
	c.solver.RequestJump()
	if c.tuning.JumpBufferTicks > 0 {
		c.jumpBuffer = c.tuning.JumpBufferTicks
	}
	if !c.solver.Grounded() && c.airborneTicks <= c.tuning.CoyoteTicks && !c.flying {
		// Coyote jump: the ground is gone, so launch directly.
		vel := c.solver.Velocity()
		if vel.Y < c.tuning.JumpStrength {
			vel.Y = c.tuning.JumpStrength
			c.solver.SetVelocity(vel)
		}
		c.jumpBuffer = 0
		c.solver.CancelJump()
		c.airborneTicks = c.tuning.CoyoteTicks + 1
	}
}

// IgnoreCollider exposes the gate's explicit ignore toggle.
func (c *Character) IgnoreCollider(col physics.Collider, ignore bool) {
	c.gate.IgnoreCollider(col, ignore)
}

// FollowPath attaches a path follower that will steer this character.
func (c *Character) FollowPath(f *nav.Follower) {
	if c.follower != nil && c.follower != f {
		c.follower.Cancel()
	}
	c.follower = f
}

// Stop cancels path following, zeroes the move direction, and clears jump
// and platform-ignore overrides. Takes effect atomically before the next
// tick.
func (c *Character) Stop() {
	if c.follower != nil {
		c.follower.Cancel()
	}
	c.moveDirection = cp.Vector{}
	c.jumpBuffer = 0
	c.solver.CancelJump()
	c.gate.SetIgnorePlatforms(false)
}

// Update runs one fixed timestep: gate reconciliation, path steering, jump
// buffering, then the solver tick.
func (c *Character) Update(dt float64) {
	c.gate.Reconcile()

	if c.follower != nil {
		c.follower.Update(c)
	}

	if c.jumpBuffer > 0 {
		c.jumpBuffer--
		c.solver.RequestJump()
	}

	c.solver.Tick(dt, motor.TickInput{
		MoveDirection: c.moveDirection,
		DesiredSpeed:  c.tuning.DesiredSpeed,
		Acceleration:  c.tuning.Acceleration,
		Deceleration:  c.tuning.Deceleration,
		JumpStrength:  c.tuning.JumpStrength,
		Flying:        c.flying,
	})

	if c.solver.Grounded() {
		c.airborneTicks = 0
		if c.jumpBuffer > 0 && c.solver.Jump().Jumped {
			c.jumpBuffer = 0
		}
	} else if c.airborneTicks <= c.tuning.CoyoteTicks {
		c.airborneTicks++
	}
}

// State names the character's current movement state for observers:
// "fly", "idle", "run", "jump", or "fall".
func (c *Character) State() string {
	if c.flying {
		return "fly"
	}
	if c.solver.Grounded() {
		if math.Abs(c.solver.Ground().Speed) > 0.01 {
			return "run"
		}
		return "idle"
	}
	if c.solver.Velocity().Y > 0 {
		return "jump"
	}
	return "fall"
}
