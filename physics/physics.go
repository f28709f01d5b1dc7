// Package physics defines the capability surface the movement core needs
// from a host physics substrate: position/velocity access, body mode
// switching, contact enumeration, overlap queries, sweep casts, and pairwise
// collision suppression. The chipmunk subpackage implements it over
// Chipmunk2D; tests implement it with in-memory fakes.
//
// Coordinate convention is Y up: gravity is negative Y and a floor contact
// has a normal with positive Y.
package physics

import "github.com/jakecoffman/cp/v2"

// LayerTag classifies a collider for movement policy decisions. It is passed
// explicitly to policy functions instead of being read from shared globals.
type LayerTag int

const (
	LayerNone LayerTag = iota
	// LayerTerrain is solid world geometry: floors, walls, slopes.
	LayerTerrain
	// LayerPlatform is a one-way platform: blocks from above only.
	LayerPlatform
	// LayerActor is another character. Actors never collide with each other.
	LayerActor
	// LayerProjectile is a bullet or similar. Ignored by movement.
	LayerProjectile
)

func (t LayerTag) String() string {
	switch t {
	case LayerTerrain:
		return "terrain"
	case LayerPlatform:
		return "platform"
	case LayerActor:
		return "actor"
	case LayerProjectile:
		return "projectile"
	default:
		return "none"
	}
}

// BodyMode selects who integrates the body: the host's general solver
// (Dynamic) or the movement core (Kinematic).
type BodyMode int

const (
	ModeDynamic BodyMode = iota
	ModeKinematic
)

func (m BodyMode) String() string {
	if m == ModeKinematic {
		return "kinematic"
	}
	return "dynamic"
}

// Collider identifies a single collision shape in the host substrate.
// Implementations must be comparable so colliders can key ignore sets.
type Collider interface {
	Layer() LayerTag
}

// Contact is a currently-touching collider and the contact normal pointing
// from the obstacle toward the body.
type Contact struct {
	Collider Collider
	Normal   cp.Vector
}

// Hit is a single sweep-cast result.
type Hit struct {
	Collider Collider
	// Normal is the surface normal at the hit, pointing back against the
	// sweep direction.
	Normal cp.Vector
	// Point is the contact point on the obstacle surface.
	Point cp.Vector
	// Centroid is the body center position at the moment of impact.
	Centroid cp.Vector
	// Distance is how far the body travels along the sweep before impact.
	Distance float64
}

// Body is the host-side physical entity the movement core drives. One Body
// per character; all calls happen on the tick goroutine.
type Body interface {
	Position() cp.Vector
	SetPosition(cp.Vector)
	Velocity() cp.Vector
	SetVelocity(cp.Vector)
	Mode() BodyMode
	SetMode(BodyMode)

	// Contacts enumerates colliders currently touching the body's primary
	// shape, with normals pointing toward the body.
	Contacts() []Contact
	// Overlaps returns the colliders currently overlapping the body's
	// primary shape.
	Overlaps() []Collider
	// SweepCast sweeps the body's primary shape from its current position
	// along dir (unit length) for the given distance and returns hits
	// ordered nearest first. Sensor shapes and the body's own shapes are
	// excluded.
	SweepCast(dir cp.Vector, distance float64) []Hit
	// CollidersOn returns every known collider on the given layer.
	CollidersOn(LayerTag) []Collider
	// SetCollisionIgnored suppresses or restores collision response between
	// the body and the collider.
	SetCollisionIgnored(c Collider, ignored bool)
}
