package nav

import (
	"testing"
	"time"

	"github.com/jakecoffman/cp/v2"
)

type stubActor struct {
	pos      cp.Vector
	moves    []cp.Vector
	jumps    int
	grounded bool
}

func (a *stubActor) Position() cp.Vector { return a.pos }
func (a *stubActor) SetMoveDirection(d cp.Vector) { a.moves = append(a.moves, d) }
func (a *stubActor) RequestJump() { a.jumps++ }
func (a *stubActor) Grounded() bool { return a.grounded }

func (a *stubActor) lastMove() cp.Vector {
	if len(a.moves) == 0 {
		return cp.Vector{}
	}
	return a.moves[len(a.moves)-1]
}

// gatedService blocks FindPath until release is closed, so tests control
// exactly when the asynchronous result lands.
type gatedService struct {
	release chan struct{}
	path    []cp.Vector
}

func (s *gatedService) FindPath(_, _ cp.Vector) []cp.Vector {
	<-s.release
	return s.path
}

func waitForPath(t *testing.T, f *Follower, a Actor) {
	t.Helper()
	for i := 0; i < 200; i++ {
		f.Update(a)
		if !f.Pathfinding() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("path result never arrived")
}

func TestFollowerSteersAlongPath(t *testing.T) {
	svc := &gatedService{
		release: make(chan struct{}),
		path: []cp.Vector{
			{X: 2, Y: 0},
			{X: 4, Y: 3},
		},
	}
	f := NewFollower(svc)
	actor := &stubActor{grounded: true}

	f.RequestPath(actor.pos, cp.Vector{X: 4, Y: 3})
	if !f.Pathfinding() {
		t.Fatal("expected an in-flight query")
	}
	close(svc.release)
	waitForPath(t, f, actor)

	// first leg: level ground to the right, no jump
	f.Update(actor)
	if got := actor.lastMove(); got.X != 1 || got.Y != 0 {
		t.Fatalf("move = %v, want (1, 0)", got)
	}
	if actor.jumps != 0 {
		t.Fatal("level waypoint must not trigger a jump")
	}

	// arrival at the first waypoint advances to the raised one
	actor.pos = cp.Vector{X: 2, Y: 0}
	f.Update(actor)
	if got := actor.lastMove(); got.X != 1 {
		t.Fatalf("move = %v, want still heading right", got)
	}
	if actor.jumps != 1 {
		t.Fatalf("jumps = %d, want 1 for the raised waypoint", actor.jumps)
	}

	// airborne: no repeated jump requests
	actor.grounded = false
	f.Update(actor)
	if actor.jumps != 1 {
		t.Fatalf("jumps = %d, want no mid-air request", actor.jumps)
	}

	// reaching the final waypoint halts the actor
	actor.pos = cp.Vector{X: 4, Y: 3}
	f.Update(actor)
	if got := actor.lastMove(); got.X != 0 || got.Y != 0 {
		t.Fatalf("move = %v, want cleared at arrival", got)
	}
	if f.Active() {
		t.Fatal("follower should be done")
	}
}

func TestFollowerDiscardsStaleResult(t *testing.T) {
	svc := &gatedService{
		release: make(chan struct{}),
		path:    []cp.Vector{{X: 10, Y: 0}},
	}
	f := NewFollower(svc)
	actor := &stubActor{}

	f.RequestPath(actor.pos, cp.Vector{X: 10, Y: 0})
	f.Cancel()
	close(svc.release)

	// give the query goroutine time to deliver, then confirm the stale
	// result never takes effect
	time.Sleep(20 * time.Millisecond)
	for i := 0; i < 3; i++ {
		f.Update(actor)
	}
	if f.Active() || f.Pathfinding() {
		t.Fatal("cancelled query must not produce a route")
	}
	if len(actor.moves) != 0 {
		t.Fatalf("moves = %v, want no steering from a stale result", actor.moves)
	}
}

func TestFollowerSupersedesInFlightQuery(t *testing.T) {
	old := &gatedService{
		release: make(chan struct{}),
		path:    []cp.Vector{{X: -10, Y: 0}},
	}
	f := NewFollower(old)
	actor := &stubActor{grounded: true}

	f.RequestPath(actor.pos, cp.Vector{X: -10, Y: 0})

	// a newer request replaces the service's answer before the old one
	// lands
	old.path = []cp.Vector{{X: 10, Y: 0}}
	f.RequestPath(actor.pos, cp.Vector{X: 10, Y: 0})
	close(old.release)
	waitForPath(t, f, actor)

	f.Update(actor)
	if got := actor.lastMove(); got.X != 1 {
		t.Fatalf("move = %v, want steering toward the newer goal", got)
	}
}

func TestFollowerNilSafety(t *testing.T) {
	var f *Follower
	f.RequestPath(cp.Vector{}, cp.Vector{})
	f.Cancel()
	f.Update(&stubActor{})

	live := NewFollower(nil)
	live.RequestPath(cp.Vector{}, cp.Vector{})
	if live.Pathfinding() {
		t.Fatal("nil service must not start a query")
	}
}
