package motor

import (
	"github.com/jakecoffman/cp/v2"

	"github.com/milk9111/platformkit/physics"
)

// Gate owns the ignore set and the one-way platform policy. It decides which
// contacts and sweep hits the solver honors, and suppresses collision
// response in the host for ignored pairs.
type Gate struct {
	body    physics.Body
	ignored map[physics.Collider]bool

	ignorePlatforms bool
	// flying reports whether the character is currently in flight mode.
	// Platform ignoring cannot be disabled while flying.
	flying func() bool
}

// NewGate creates a gate for body. flying may be nil, which reads as never
// flying.
func NewGate(body physics.Body, flying func() bool) *Gate {
	return &Gate{
		body:    body,
		ignored: make(map[physics.Collider]bool),
		flying:  flying,
	}
}

func (g *Gate) isFlying() bool {
	return g.flying != nil && g.flying()
}

// Ignored reports whether c is currently excluded from collision response.
func (g *Gate) Ignored(c physics.Collider) bool {
	if c == nil {
		return false
	}
	return g.ignored[c]
}

// IgnoreCollider adds or removes c from the ignore set and toggles the
// host-level pairwise suppression. Idempotent; no-op for a nil collider.
func (g *Gate) IgnoreCollider(c physics.Collider, ignore bool) {
	if c == nil {
		return
	}
	if g.ignored[c] == ignore {
		return
	}
	if ignore {
		g.ignored[c] = true
	} else {
		delete(g.ignored, c)
	}
	g.body.SetCollisionIgnored(c, ignore)
}

// ShouldIgnoreCollider is the one-way platform rule: a platform collider is
// passable when platform ignoring is on, or when the contact normal's
// vertical component says the body is approaching from below or the side.
func (g *Gate) ShouldIgnoreCollider(c physics.Collider, normal cp.Vector) bool {
	if c == nil || c.Layer() != physics.LayerPlatform {
		return false
	}
	return g.ignorePlatforms || normal.Y <= 0
}

// IgnorePlatforms reports whether platform ignoring is currently enabled.
func (g *Gate) IgnorePlatforms() bool {
	return g.ignorePlatforms
}

// SetIgnorePlatforms toggles global platform passthrough. Enabling it
// immediately ignores every known platform collider. It cannot be disabled
// while flying.
func (g *Gate) SetIgnorePlatforms(v bool) {
	if v == g.ignorePlatforms {
		return
	}
	if !v && g.isFlying() {
		return
	}
	g.ignorePlatforms = v
	if !v {
		return
	}
	for _, c := range g.body.CollidersOn(physics.LayerPlatform) {
		g.IgnoreCollider(c, true)
	}
}

// Reconcile drops ignore entries for colliders that no longer overlap the
// body, restoring normal collision. Skipped while platform ignoring is on:
// platform passthrough is sticky until explicitly toggled off.
func (g *Gate) Reconcile() {
	if g.ignorePlatforms || len(g.ignored) == 0 {
		return
	}
	overlapping := make(map[physics.Collider]bool)
	for _, c := range g.body.Overlaps() {
		overlapping[c] = true
	}
	for c := range g.ignored {
		if !overlapping[c] {
			g.IgnoreCollider(c, false)
		}
	}
}
