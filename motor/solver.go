package motor

import (
	"math"

	"github.com/jakecoffman/cp/v2"

	"github.com/milk9111/platformkit/physics"
)

const (
	defaultSlopeLimit      = 0.5
	defaultSkinWidth       = 0.05
	defaultMinMoveDistance = 0.001

	// jumpDecayRate scales how fast residual jump power bleeds off.
	jumpDecayRate = 5.0
)

// unstuck counter values. Arming hands the body to the host's general solver
// for exactly one tick so it can resolve deep penetration.
const (
	unstuckIdle   = -1
	unstuckRevert = 0
	unstuckArmed  = 1
)

// GroundState describes the surface the body currently rests on.
type GroundState struct {
	Grounded bool
	Collider physics.Collider
	// Normal is the adopted ground contact normal.
	Normal cp.Vector
	// Direction is Normal rotated 90 degrees; the movement axis while
	// grounded.
	Direction cp.Vector
	// Speed is the signed scalar speed along Direction.
	Speed float64
	// Changed is true when Collider differs from the previous tick's.
	Changed bool
}

// Velocity returns Direction scaled by Speed.
func (g *GroundState) Velocity() cp.Vector {
	return g.Direction.Mult(g.Speed)
}

// JumpState tracks the one-shot jump request and the residual jump impulse.
type JumpState struct {
	// Jumping is the pending request. Cleared every tick whether or not it
	// takes effect.
	Jumping bool
	// Jumped is true only on the tick the jump launched.
	Jumped bool
	// Power is the remaining upward impulse budget. Decays while airborne.
	Power float64
}

// TickInput is everything the facade supplies per fixed timestep.
type TickInput struct {
	// MoveDirection is the desired travel direction. Horizontal-only unless
	// flying.
	MoveDirection cp.Vector
	DesiredSpeed  float64
	Acceleration  float64
	Deceleration  float64
	JumpStrength  float64
	// Flying disables gravity and ground adherence entirely.
	Flying bool
}

// Solver resolves one character's movement against the host substrate each
// fixed timestep. It owns the body's mode, the grounded/airborne velocity
// model, and the sweep-and-slide move routine. Not safe for concurrent use;
// one Tick at a time.
type Solver struct {
	body physics.Body
	gate *Gate

	slopeLimit float64
	skinWidth  float64
	minMove    float64

	ground  GroundState
	jump    JumpState
	unstuck int
	flying  bool

	// contacts holds the non-ignored contacts from this tick's scan.
	contacts []physics.Contact
}

// NewSolver creates a solver for body. The gate is created by the caller so
// other subsystems can share it.
func NewSolver(body physics.Body, gate *Gate) *Solver {
	return &Solver{
		body:       body,
		gate:       gate,
		slopeLimit: defaultSlopeLimit,
		skinWidth:  defaultSkinWidth,
		minMove:    defaultMinMoveDistance,
		unstuck:    unstuckIdle,
	}
}

// SetThresholds overrides the slope limit, skin width, and minimum move
// distance. Zero or negative values keep the current setting.
func (s *Solver) SetThresholds(slopeLimit, skinWidth, minMove float64) {
	if slopeLimit > 0 {
		s.slopeLimit = slopeLimit
	}
	if skinWidth > 0 {
		s.skinWidth = skinWidth
	}
	if minMove > 0 {
		s.minMove = minMove
	}
}

// Ground returns the current ground state.
func (s *Solver) Ground() GroundState { return s.ground }

// Jump returns the current jump state.
func (s *Solver) Jump() JumpState { return s.jump }

// Flying reports whether the last tick ran in flight mode.
func (s *Solver) Flying() bool { return s.flying }

// Grounded reports whether the body rests on qualifying ground.
func (s *Solver) Grounded() bool { return s.ground.Grounded }

// RequestJump arms the one-shot jump flag. It is consumed on the next tick
// regardless of grounded state, and only takes effect if grounded when
// consumed.
func (s *Solver) RequestJump() { s.jump.Jumping = true }

// CancelJump clears a pending jump request.
func (s *Solver) CancelJump() { s.jump.Jumping = false }

// Velocity returns the character's velocity: the grounded representation
// while grounded, the body's native velocity while airborne.
func (s *Solver) Velocity() cp.Vector {
	if s.ground.Grounded {
		return s.ground.Velocity()
	}
	return s.body.Velocity()
}

// SetVelocity routes to the grounded speed while grounded and to the body's
// native velocity while airborne.
func (s *Solver) SetVelocity(v cp.Vector) {
	if s.ground.Grounded {
		s.ground.Speed = v.Dot(s.ground.Direction)
		return
	}
	s.body.SetVelocity(v)
}

// SetPosition relocates the body and immediately arms the unstuck escape
// valve so teleporting into an obstacle recovers on the next tick.
func (s *Solver) SetPosition(pos cp.Vector) {
	s.body.SetPosition(pos)
	s.unstuck = unstuckArmed
}

// Tick advances the character by one fixed timestep.
func (s *Solver) Tick(dt float64, in TickInput) {
	s.flying = in.Flying

	s.stepUnstuck()

	if s.flying {
		// Flight runs host-default dynamics: hand any grounded velocity
		// back to the body and skip ground logic entirely.
		s.leaveGround()
		s.jump.Jumped = false
		s.jump.Jumping = false
		s.flyAccelerate(dt, in)
		return
	}

	s.scanContacts()
	s.applyModeHandoff()
	s.accelerate(dt, in)
	s.decayJumpPower(dt)

	s.jump.Jumped = false
	if s.jump.Jumping {
		s.jump.Jumping = false
		if in.JumpStrength > 0 {
			s.jump.Jumped = true
		}
	}

	if s.ground.Grounded {
		if s.jump.Jumped {
			s.jump.Power = in.JumpStrength
		}
		vel := s.ground.Velocity()
		if s.jump.Power > 0 {
			vel.Y += s.jump.Power
		}
		offset := vel.Mult(dt)
		if offset.LengthSq() > s.minMove*s.minMove {
			s.move(offset)
		}
	}
}

// stepUnstuck advances the one-tick escape valve. Armed: go Dynamic for one
// tick, unless no longer grounded (unstuck only makes sense on ground).
// Revert: mode goes back to tracking grounded.
func (s *Solver) stepUnstuck() {
	switch s.unstuck {
	case unstuckArmed:
		if !s.ground.Grounded {
			s.unstuck = unstuckIdle
			return
		}
		s.body.SetMode(physics.ModeDynamic)
		s.unstuck = unstuckRevert
	case unstuckRevert:
		s.unstuck = unstuckIdle
		if s.ground.Grounded {
			s.body.SetMode(physics.ModeKinematic)
		} else {
			s.body.SetMode(physics.ModeDynamic)
		}
	}
}

// scanContacts classifies the current contact set. The first non-ignored
// contact whose normal clears the slope limit is adopted as ground, in
// enumeration order.
func (s *Solver) scanContacts() {
	prev := s.ground.Collider
	s.ground.Grounded = false
	s.ground.Collider = nil
	s.contacts = s.contacts[:0]

	for _, c := range s.body.Contacts() {
		if c.Collider == nil || s.gate.Ignored(c.Collider) {
			continue
		}
		if s.gate.ShouldIgnoreCollider(c.Collider, c.Normal) {
			s.gate.IgnoreCollider(c.Collider, true)
			continue
		}
		s.contacts = append(s.contacts, c)
		if !s.ground.Grounded && c.Normal.Y > s.slopeLimit {
			s.ground.Grounded = true
			s.ground.Collider = c.Collider
			s.ground.Normal = c.Normal
			s.ground.Direction = cp.Vector{X: c.Normal.Y, Y: -c.Normal.X}
		}
	}
	s.ground.Changed = s.ground.Collider != prev
}

// applyModeHandoff converts between the grounded scalar representation and
// the body's free velocity when grounded state flips. Skipped while the
// unstuck valve holds the body Dynamic.
func (s *Solver) applyModeHandoff() {
	vel := s.body.Velocity()
	if s.ground.Grounded && s.body.Mode() == physics.ModeDynamic {
		if s.unstuck != unstuckIdle {
			return
		}
		s.ground.Speed = vel.X * s.ground.Direction.X
		s.jump.Power = 0
		s.body.SetVelocity(cp.Vector{})
		s.body.SetMode(physics.ModeKinematic)
		return
	}
	if !s.ground.Grounded && s.body.Mode() == physics.ModeKinematic {
		s.leaveGround()
	}
}

// leaveGround hands the grounded velocity plus residual jump power back to
// the body and switches it Dynamic.
func (s *Solver) leaveGround() {
	if s.body.Mode() != physics.ModeKinematic {
		if s.ground.Grounded {
			s.ground.Grounded = false
			s.ground.Collider = nil
			s.ground.Speed = 0
		}
		return
	}
	vel := s.ground.Velocity()
	vel.Y += s.jump.Power
	s.body.SetVelocity(vel)
	s.ground.Grounded = false
	s.ground.Collider = nil
	s.ground.Speed = 0
	s.body.SetMode(physics.ModeDynamic)
}

// accelerate moves the horizontal speed toward the desired speed. Grounded
// it works on the scalar grounded speed; airborne it adjusts the body's
// velocity directly, dampened by opposing contact normals.
func (s *Solver) accelerate(dt float64, in TickInput) {
	sign := signOf(in.MoveDirection.X)
	target := in.DesiredSpeed * sign

	if !s.ground.Grounded {
		if sign == 0 {
			// No input in the air: let ambient dynamics act.
			return
		}
		delta := in.Acceleration * dt
		for _, c := range s.contacts {
			if c.Normal.X*sign < 0 {
				// Pushing into a surface: a wall kills the update, a
				// slope scales it, a ceiling flips it.
				delta *= c.Normal.Y
			}
		}
		if delta == 0 {
			return
		}
		if delta < 0 {
			delta = -delta
		}
		vel := s.body.Velocity()
		vel.X = approach(vel.X, target, delta)
		s.body.SetVelocity(vel)
		return
	}

	rate := in.Acceleration
	if target == 0 || math.Abs(s.ground.Speed) > in.DesiredSpeed {
		rate = in.Deceleration
	}
	s.ground.Speed = approach(s.ground.Speed, target, rate*dt)
}

// decayJumpPower bleeds residual jump impulse off the rising body. Once
// vertical velocity stops rising the jump is exhausted.
func (s *Solver) decayJumpPower(dt float64) {
	if s.ground.Grounded || s.jump.Power <= 0 || s.jump.Jumping {
		return
	}
	vel := s.body.Velocity()
	if vel.Y <= 0 {
		s.jump.Power = 0
		return
	}
	dec := math.Max(dt*jumpDecayRate, s.jump.Power*dt*jumpDecayRate)
	vel.Y -= dec
	if vel.Y < 0 {
		vel.Y = 0
	}
	s.jump.Power -= dec
	if s.jump.Power < 0 {
		s.jump.Power = 0
	}
	s.body.SetVelocity(vel)
}

// flyAccelerate is the flight-mode velocity model: constant-rate approach
// toward the input direction scaled by desired speed, or toward zero when
// there is no input.
func (s *Solver) flyAccelerate(dt float64, in TickInput) {
	vel := s.body.Velocity()
	if in.MoveDirection.X == 0 && in.MoveDirection.Y == 0 {
		vel = vel.LerpConst(cp.Vector{}, in.Deceleration*dt)
	} else {
		target := in.MoveDirection.Mult(in.DesiredSpeed)
		vel = vel.LerpConst(target, in.Acceleration*dt)
	}
	s.body.SetVelocity(vel)
}

// approach moves cur toward target by at most delta without overshooting.
func approach(cur, target, delta float64) float64 {
	if cur < target {
		return math.Min(cur+delta, target)
	}
	return math.Max(cur-delta, target)
}

func signOf(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
