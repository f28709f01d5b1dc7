package chipmunk

import (
	"math"
	"sort"

	"github.com/jakecoffman/cp/v2"

	"github.com/milk9111/platformkit/physics"
)

// Actor is a character body in the space. It implements physics.Body. The
// primary shape is a circle; rotation is locked so the movement core fully
// owns orientation.
type Actor struct {
	space *Space

	body     *cp.Body
	shape    *cp.Shape
	collider *Collider
	radius   float64
	skin     float64
	mode     physics.BodyMode

	// probe is a detached shape reused for contact and overlap queries,
	// slightly inflated so resting contact at skin distance still reports.
	probeBody *cp.Body
	probe     *cp.Shape

	ignored map[*cp.Shape]bool
}

// NewActor creates a character body at pos. skin is the clearance margin the
// movement solver keeps from obstacles; the contact probe is inflated by
// twice that so grounded contact never flickers.
func (s *Space) NewActor(pos cp.Vector, radius, mass, skin float64) *Actor {
	// Infinite moment: the solver owns orientation, the body never spins.
	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(pos)

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeActor)

	s.space.AddBody(body)
	s.space.AddShape(shape)

	probeBody := cp.NewKinematicBody()
	probeBody.SetPosition(pos)
	probe := cp.NewCircle(probeBody, radius+skin*2, cp.Vector{})

	a := &Actor{
		space:     s,
		body:      body,
		shape:     shape,
		radius:    radius,
		skin:      skin,
		probeBody: probeBody,
		probe:     probe,
		ignored:   make(map[*cp.Shape]bool),
	}
	a.collider = &Collider{shape: shape, layer: physics.LayerActor}
	s.actors[shape] = a
	return a
}

// Remove takes the actor out of the space.
func (a *Actor) Remove() {
	if a == nil || a.space == nil {
		return
	}
	delete(a.space.actors, a.shape)
	a.space.space.RemoveShape(a.shape)
	a.space.space.RemoveBody(a.body)
}

// Collider returns the actor's own collider identity.
func (a *Actor) Collider() physics.Collider { return a.collider }

func (a *Actor) Position() cp.Vector { return a.body.Position() }

func (a *Actor) SetPosition(pos cp.Vector) {
	a.body.SetPosition(pos)
	// Reindex so queries this tick see the new position.
	a.space.space.ReindexShape(a.shape)
}

func (a *Actor) Velocity() cp.Vector { return a.body.Velocity() }

func (a *Actor) SetVelocity(v cp.Vector) { a.body.SetVelocity(v.X, v.Y) }

func (a *Actor) Mode() physics.BodyMode { return a.mode }

func (a *Actor) SetMode(mode physics.BodyMode) {
	if mode == a.mode {
		return
	}
	a.mode = mode
	if mode == physics.ModeKinematic {
		a.body.SetType(cp.BODY_KINEMATIC)
	} else {
		a.body.SetType(cp.BODY_DYNAMIC)
	}
}

// Contacts reports colliders touching the actor, normals pointing toward
// the actor. Implemented as an inflated overlap probe: chipmunk generates
// no arbiters for kinematic-vs-static pairs, and the solver parks the body
// a skin width away from surfaces anyway.
func (a *Actor) Contacts() []physics.Contact {
	var out []physics.Contact
	a.queryProbe(func(shape *cp.Shape, points *cp.ContactPointSet) {
		c := a.space.colliderFor(shape)
		if c == nil {
			return
		}
		// The contact normal points from the probe toward the hit shape;
		// flip it so it points back at the body.
		out = append(out, physics.Contact{Collider: c, Normal: points.Normal.Neg()})
	})
	return out
}

// Overlaps returns the colliders overlapping the actor's primary shape.
func (a *Actor) Overlaps() []physics.Collider {
	var out []physics.Collider
	a.queryProbe(func(shape *cp.Shape, points *cp.ContactPointSet) {
		if c := a.space.colliderFor(shape); c != nil {
			out = append(out, c)
		}
	})
	return out
}

func (a *Actor) queryProbe(fn func(shape *cp.Shape, points *cp.ContactPointSet)) {
	a.probeBody.SetPosition(a.body.Position())
	a.space.space.ShapeQuery(a.probe, func(shape *cp.Shape, points *cp.ContactPointSet) {
		if shape == a.shape || shape.Sensor() {
			return
		}
		fn(shape, points)
	})
}

// SweepCast sweeps the actor's circle along dir for distance and returns
// hits ordered nearest first. Sensors and the actor's own shape are
// excluded.
func (a *Actor) SweepCast(dir cp.Vector, distance float64) []physics.Hit {
	start := a.body.Position()
	end := start.Add(dir.Mult(distance))

	var hits []physics.Hit
	a.space.space.SegmentQuery(start, end, a.radius, cp.SHAPE_FILTER_ALL,
		func(shape *cp.Shape, point, normal cp.Vector, alpha float64, data interface{}) {
			if shape == a.shape || shape.Sensor() {
				return
			}
			c := a.space.colliderFor(shape)
			if c == nil {
				return
			}
			d := alpha * distance
			hits = append(hits, physics.Hit{
				Collider: c,
				Normal:   normal,
				Point:    point,
				Centroid: start.Add(dir.Mult(d)),
				Distance: d,
			})
		}, nil)

	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// CollidersOn returns every known collider on the given layer.
func (a *Actor) CollidersOn(layer physics.LayerTag) []physics.Collider {
	return a.space.Colliders(layer)
}

// SetCollisionIgnored toggles pairwise suppression between the actor and c.
func (a *Actor) SetCollisionIgnored(c physics.Collider, ignored bool) {
	col, ok := c.(*Collider)
	if !ok || col == nil {
		return
	}
	if ignored {
		a.ignored[col.shape] = true
	} else {
		delete(a.ignored, col.shape)
	}
}
