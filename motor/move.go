package motor

import (
	"math"

	"github.com/milk9111/platformkit/physics"

	"github.com/jakecoffman/cp/v2"
)

// maxMoveIterations bounds pathological repeated-collision cases.
const maxMoveIterations = 10

// move resolves a frame displacement against obstacles by sweeping the body
// and sliding the leftover motion along whatever it hits.
func (s *Solver) move(offset cp.Vector) {
	for i := 0; i < maxMoveIterations; i++ {
		distSq := offset.LengthSq()
		if distSq < s.minMove*s.minMove {
			return
		}
		dist := math.Sqrt(distSq)
		dir := offset.Mult(1 / dist)

		hit, ok := s.firstHit(dir, dist+s.skinWidth)
		if !ok {
			s.body.SetPosition(s.body.Position().Add(offset))
			return
		}

		if !s.ground.Changed && hit.Distance <= s.skinWidth {
			// Deep penetration against the same ground as last tick:
			// defer to the one-tick escape valve instead of fighting it.
			s.unstuck = unstuckArmed
			return
		}

		if hit.Normal.Y <= s.slopeLimit {
			// Wall or too-steep slope: bleed grounded speed.
			s.ground.Speed *= hit.Normal.Y
		}

		travel := math.Min(hit.Distance-s.skinWidth, dist)
		s.body.SetPosition(hit.Centroid)

		// Slide: redirect the leftover distance along the surface by
		// scaling each axis with the orthogonal component of the normal.
		leftover := dist - travel
		offset = cp.Vector{
			X: dir.X * leftover * (1 - math.Abs(hit.Normal.X)),
			Y: dir.Y * leftover * (1 - math.Abs(hit.Normal.Y)),
		}
	}
}

// firstHit sweeps the body and returns the first hit the gate lets through.
// Other actors and projectiles never block movement; platform passthrough
// hits are added to the ignore set as a side effect.
func (s *Solver) firstHit(dir cp.Vector, distance float64) (physics.Hit, bool) {
	for _, h := range s.body.SweepCast(dir, distance) {
		if h.Collider == nil {
			continue
		}
		switch h.Collider.Layer() {
		case physics.LayerActor, physics.LayerProjectile:
			continue
		}
		if s.gate.Ignored(h.Collider) {
			continue
		}
		if s.gate.ShouldIgnoreCollider(h.Collider, h.Normal) {
			s.gate.IgnoreCollider(h.Collider, true)
			continue
		}
		return h, true
	}
	return physics.Hit{}, false
}
