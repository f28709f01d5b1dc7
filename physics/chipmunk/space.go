// Package chipmunk implements the physics capability interface over
// Chipmunk2D (github.com/jakecoffman/cp). The space owns the terrain
// colliders; each character gets an Actor whose primary shape is a circle,
// which keeps sweep casts exact.
package chipmunk

import (
	"github.com/jakecoffman/cp/v2"

	"github.com/milk9111/platformkit/physics"
)

const (
	collisionTypeTerrain cp.CollisionType = iota + 1
	collisionTypeActor
)

// Collider wraps a chipmunk shape with its movement layer.
type Collider struct {
	shape *cp.Shape
	layer physics.LayerTag
}

// Layer returns the collider's movement layer.
func (c *Collider) Layer() physics.LayerTag { return c.layer }

// Space wraps a chipmunk space plus the collider bookkeeping the movement
// core needs.
type Space struct {
	space     *cp.Space
	colliders map[*cp.Shape]*Collider
	actors    map[*cp.Shape]*Actor
}

// NewSpace creates a space with the given gravity (Y up, so typically
// negative Y).
func NewSpace(gravity cp.Vector) *Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(gravity)

	s := &Space{
		space:     space,
		colliders: make(map[*cp.Shape]*Collider),
		actors:    make(map[*cp.Shape]*Actor),
	}
	s.setupHandlers()
	return s
}

// Step advances the simulation. Call once per fixed timestep after the
// characters have ticked.
func (s *Space) Step(dt float64) {
	if s == nil || s.space == nil {
		return
	}
	s.space.Step(dt)
}

// Raw returns the underlying chipmunk space.
func (s *Space) Raw() *cp.Space { return s.space }

// AddBox registers a static box collider on the given layer.
func (s *Space) AddBox(layer physics.LayerTag, bb cp.BB) *Collider {
	shape := cp.NewBox2(s.space.StaticBody, bb, 0)
	return s.addStatic(layer, shape)
}

// AddSegment registers a static segment collider, useful for slopes and
// world borders.
func (s *Space) AddSegment(layer physics.LayerTag, a, b cp.Vector, radius float64) *Collider {
	shape := cp.NewSegment(s.space.StaticBody, a, b, radius)
	return s.addStatic(layer, shape)
}

func (s *Space) addStatic(layer physics.LayerTag, shape *cp.Shape) *Collider {
	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionTypeTerrain)
	s.space.AddShape(shape)

	c := &Collider{shape: shape, layer: layer}
	s.colliders[shape] = c
	return c
}

// Colliders returns every registered collider on the given layer.
func (s *Space) Colliders(layer physics.LayerTag) []physics.Collider {
	var out []physics.Collider
	for _, c := range s.colliders {
		if c.layer == layer {
			out = append(out, c)
		}
	}
	return out
}

// setupHandlers installs the pairwise suppression check: contacts between
// an actor and an ignored collider are rejected at solve time.
func (s *Space) setupHandlers() {
	handler := s.space.NewWildcardCollisionHandler(collisionTypeActor)
	handler.UserData = s
	check := func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sp, ok := userData.(*Space)
		if !ok || sp == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		actor, other := sp.actors[shapeA], shapeB
		if actor == nil {
			actor, other = sp.actors[shapeB], shapeA
		}
		if actor == nil {
			return true
		}
		return !actor.ignored[other]
	}
	handler.BeginFunc = check
	handler.PreSolveFunc = check
}

func (s *Space) colliderFor(shape *cp.Shape) physics.Collider {
	if c, ok := s.colliders[shape]; ok {
		return c
	}
	if a, ok := s.actors[shape]; ok {
		return a.collider
	}
	return nil
}
