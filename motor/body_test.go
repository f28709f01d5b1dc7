package motor

import (
	"github.com/jakecoffman/cp/v2"

	"github.com/milk9111/platformkit/physics"
)

// fakeCollider is a test collider with a fixed layer.
type fakeCollider struct {
	name  string
	layer physics.LayerTag
}

func (c *fakeCollider) Layer() physics.LayerTag { return c.layer }

// fakeBody is a scriptable physics.Body. Contacts, overlaps, and sweep hits
// are set by each test; mode changes and ignore toggles are recorded.
type fakeBody struct {
	pos  cp.Vector
	vel  cp.Vector
	mode physics.BodyMode

	contacts  []physics.Contact
	overlaps  []physics.Collider
	platforms []physics.Collider

	// sweepQueue holds one hit slice per SweepCast call; when drained,
	// sweeps report no hits.
	sweepQueue [][]physics.Hit
	sweepDirs  []cp.Vector

	modeLog []physics.BodyMode
	ignored map[physics.Collider]bool
}

func newFakeBody() *fakeBody {
	return &fakeBody{ignored: make(map[physics.Collider]bool)}
}

func (b *fakeBody) Position() cp.Vector { return b.pos }
func (b *fakeBody) SetPosition(pos cp.Vector) { b.pos = pos }
func (b *fakeBody) Velocity() cp.Vector { return b.vel }
func (b *fakeBody) SetVelocity(vel cp.Vector) { b.vel = vel }
func (b *fakeBody) Mode() physics.BodyMode { return b.mode }
func (b *fakeBody) Contacts() []physics.Contact {
	return b.contacts
}

func (b *fakeBody) SetMode(mode physics.BodyMode) {
	b.mode = mode
	b.modeLog = append(b.modeLog, mode)
}

func (b *fakeBody) Overlaps() []physics.Collider { return b.overlaps }

func (b *fakeBody) SweepCast(dir cp.Vector, distance float64) []physics.Hit {
	b.sweepDirs = append(b.sweepDirs, dir)
	if len(b.sweepQueue) == 0 {
		return nil
	}
	hits := b.sweepQueue[0]
	b.sweepQueue = b.sweepQueue[1:]
	return hits
}

func (b *fakeBody) CollidersOn(layer physics.LayerTag) []physics.Collider {
	if layer == physics.LayerPlatform {
		return b.platforms
	}
	return nil
}

func (b *fakeBody) SetCollisionIgnored(c physics.Collider, ignored bool) {
	if ignored {
		b.ignored[c] = true
	} else {
		delete(b.ignored, c)
	}
}

// groundContact is a flat floor contact.
func groundContact(c physics.Collider) physics.Contact {
	return physics.Contact{Collider: c, Normal: cp.Vector{X: 0, Y: 1}}
}

func newTestSolver(b *fakeBody) (*Solver, *Gate) {
	gate := NewGate(b, nil)
	return NewSolver(b, gate), gate
}
