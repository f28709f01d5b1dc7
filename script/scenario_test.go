package script

import (
	"testing"

	"github.com/jakecoffman/cp/v2"
)

type recordingActor struct {
	pos      cp.Vector
	grounded bool

	moves  []cp.Vector
	jumps  int
	stops  int
	flying bool
}

func (a *recordingActor) Position() cp.Vector { return a.pos }
func (a *recordingActor) Grounded() bool { return a.grounded }
func (a *recordingActor) SetMoveDirection(d cp.Vector) { a.moves = append(a.moves, d) }
func (a *recordingActor) RequestJump() { a.jumps++ }
func (a *recordingActor) SetFlying(v bool) { a.flying = v }
func (a *recordingActor) Stop() { a.stops++ }

func TestScenarioDrivesActor(t *testing.T) {
	src := `
update := func(actor, tick) {
    if tick < 3 {
        actor.move(1, 0)
    } else {
        actor.stop()
    }
    if actor.grounded() && tick == 1 {
        actor.jump()
    }
}
`
	sc, err := Compile([]byte(src))
	if err != nil {
		t.Fatal(err)
	}

	actor := &recordingActor{grounded: true}
	for tick := 0; tick < 5; tick++ {
		if err := sc.Step(tick, actor); err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
	}

	if len(actor.moves) != 3 {
		t.Fatalf("moves = %v, want 3 move calls", actor.moves)
	}
	for i, m := range actor.moves {
		if m.X != 1 || m.Y != 0 {
			t.Fatalf("move[%d] = %v, want (1, 0)", i, m)
		}
	}
	if actor.jumps != 1 {
		t.Fatalf("jumps = %d, want 1", actor.jumps)
	}
	if actor.stops != 2 {
		t.Fatalf("stops = %d, want 2", actor.stops)
	}
}

func TestScenarioReadsPosition(t *testing.T) {
	src := `
update := func(actor, tick) {
    p := actor.pos()
    if p.x < 5 {
        actor.move(1, 0)
    } else {
        actor.fly(true)
    }
}
`
	sc, err := Compile([]byte(src))
	if err != nil {
		t.Fatal(err)
	}

	actor := &recordingActor{pos: cp.Vector{X: 2}}
	if err := sc.Step(0, actor); err != nil {
		t.Fatal(err)
	}
	if len(actor.moves) != 1 || actor.flying {
		t.Fatalf("expected a move, got moves=%v flying=%v", actor.moves, actor.flying)
	}

	actor.pos.X = 9
	if err := sc.Step(1, actor); err != nil {
		t.Fatal(err)
	}
	if !actor.flying {
		t.Fatal("expected flight past the threshold")
	}
}

func TestCompileRejectsBrokenScript(t *testing.T) {
	if _, err := Compile([]byte("update := func(actor, tick) {")); err == nil {
		t.Fatal("expected a compile error")
	}
	// the dispatch call makes a missing update function a compile error too
	if _, err := Compile([]byte("x := 1")); err == nil {
		t.Fatal("expected a compile error without an update function")
	}
}

func TestStepNilSafety(t *testing.T) {
	var sc *Scenario
	if err := sc.Step(0, &recordingActor{}); err != nil {
		t.Fatal(err)
	}
}
