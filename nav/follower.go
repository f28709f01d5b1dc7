package nav

import (
	"math"

	"github.com/jakecoffman/cp/v2"
)

// Service computes a route between two world positions. Implementations may
// be slow; the follower always calls it off the tick goroutine.
type Service interface {
	FindPath(start, goal cp.Vector) []cp.Vector
}

// Actor is the slice of a character the follower steers. The controller
// package's Character satisfies it.
type Actor interface {
	Position() cp.Vector
	SetMoveDirection(cp.Vector)
	RequestJump()
	Grounded() bool
}

type pathResult struct {
	token uint64
	path  []cp.Vector
}

// Follower turns computed routes into per-tick move direction and jump
// requests. Path queries run asynchronously; every request carries a token,
// and a result whose token no longer matches the current request is
// discarded so a cancelled or superseded query can never apply a stale
// route. All methods except the internal query goroutine run on the tick
// goroutine.
type Follower struct {
	service Service
	results chan pathResult

	token       uint64
	pathfinding bool

	path []cp.Vector
	next int

	// Tolerance is the waypoint arrival radius in world units.
	Tolerance float64
	// JumpRise is how far above the character a waypoint must sit before
	// the follower requests a jump.
	JumpRise float64
}

// NewFollower creates a follower over the given path service.
func NewFollower(service Service) *Follower {
	return &Follower{
		service:   service,
		results:   make(chan pathResult, 1),
		Tolerance: 0.5,
		JumpRise:  0.75,
	}
}

// RequestPath starts an asynchronous route query from start to goal,
// superseding any in-flight request.
func (f *Follower) RequestPath(start, goal cp.Vector) {
	if f == nil || f.service == nil {
		return
	}
	f.token++
	f.pathfinding = true
	token := f.token
	go func() {
		path := f.service.FindPath(start, goal)
		res := pathResult{token: token, path: path}
		for {
			select {
			case f.results <- res:
				return
			default:
			}
			// Channel full: drain the unread result and keep whichever
			// of the two carries the newer token.
			select {
			case old := <-f.results:
				if old.token > res.token {
					res = old
				}
			default:
			}
		}
	}()
}

// Cancel drops the current route and invalidates any in-flight query.
func (f *Follower) Cancel() {
	if f == nil {
		return
	}
	f.token++
	f.pathfinding = false
	f.path = nil
	f.next = 0
}

// Pathfinding reports whether a route query is still in flight.
func (f *Follower) Pathfinding() bool { return f.pathfinding }

// Active reports whether the follower currently has waypoints left.
func (f *Follower) Active() bool { return f.next < len(f.path) }

// Path returns the remaining waypoints, for debugging overlays.
func (f *Follower) Path() []cp.Vector {
	if f.next >= len(f.path) {
		return nil
	}
	return f.path[f.next:]
}

// Update consumes any finished query and steers the actor toward the next
// waypoint. Call once per tick before the solver runs.
func (f *Follower) Update(a Actor) {
	if f == nil || a == nil {
		return
	}

	select {
	case res := <-f.results:
		if res.token != f.token || !f.pathfinding {
			// Cancelled or superseded before the callback fired.
			break
		}
		f.pathfinding = false
		f.path = res.path
		f.next = 0
	default:
	}

	if f.next >= len(f.path) {
		return
	}

	pos := a.Position()
	target := f.path[f.next]
	for target.Sub(pos).Length() <= f.Tolerance {
		f.next++
		if f.next >= len(f.path) {
			a.SetMoveDirection(cp.Vector{})
			return
		}
		target = f.path[f.next]
	}

	delta := target.Sub(pos)
	dir := cp.Vector{}
	if math.Abs(delta.X) > f.Tolerance/2 {
		if delta.X > 0 {
			dir.X = 1
		} else {
			dir.X = -1
		}
	}
	a.SetMoveDirection(dir)

	if delta.Y > f.JumpRise && a.Grounded() {
		a.RequestJump()
	}
}
