// Package script runs tengo input scenarios: a script supplies per-tick
// move/jump intent for a character, which backs the demo's bot mode and
// deterministic movement replays.
//
// A scenario script must define an update function:
//
//	update := func(actor, tick) {
//	    if tick < 60 { actor.move(1, 0) } else { actor.stop() }
//	    if actor.grounded() && tick % 90 == 0 { actor.jump() }
//	}
package script

import (
	"fmt"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp/v2"
)

// Actor is the character surface exposed to scenario scripts. The
// controller package's Character satisfies it.
type Actor interface {
	Position() cp.Vector
	Grounded() bool
	SetMoveDirection(cp.Vector)
	RequestJump()
	SetFlying(bool)
	Stop()
}

const dispatchScript = "\nupdate(__actor, __tick)\n"

// Scenario is a compiled input script. Not safe for concurrent use.
type Scenario struct {
	compiled *tengo.Compiled
}

// Load reads and compiles a scenario from a file.
func Load(path string) (*Scenario, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}
	return Compile(src)
}

// Compile builds a scenario from script source.
func Compile(src []byte) (*Scenario, error) {
	s := tengo.NewScript(append(append([]byte{}, src...), []byte(dispatchScript)...))
	s.SetImports(stdlib.GetModuleMap("math", "rand", "fmt"))
	if err := s.Add("__tick", 0); err != nil {
		return nil, fmt.Errorf("script: add tick: %w", err)
	}
	if err := s.Add("__actor", nil); err != nil {
		return nil, fmt.Errorf("script: add actor: %w", err)
	}
	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile: %w", err)
	}
	return &Scenario{compiled: compiled}, nil
}

// Step runs the script's update function for one tick against the actor.
func (sc *Scenario) Step(tick int, a Actor) error {
	if sc == nil || sc.compiled == nil || a == nil {
		return nil
	}
	if err := sc.compiled.Set("__tick", tick); err != nil {
		return fmt.Errorf("script: set tick: %w", err)
	}
	if err := sc.compiled.Set("__actor", buildActorObject(a)); err != nil {
		return fmt.Errorf("script: set actor: %w", err)
	}
	if err := sc.compiled.Run(); err != nil {
		return fmt.Errorf("script: update tick %d: %w", tick, err)
	}
	return nil
}

func buildActorObject(a Actor) tengo.Object {
	return &tengo.Map{Value: map[string]tengo.Object{
		"move": &tengo.UserFunction{
			Name: "move",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				if len(args) != 2 {
					return nil, tengo.ErrWrongNumArguments
				}
				x, _ := tengo.ToFloat64(args[0])
				y, _ := tengo.ToFloat64(args[1])
				a.SetMoveDirection(cp.Vector{X: x, Y: y})
				return tengo.UndefinedValue, nil
			},
		},
		"jump": &tengo.UserFunction{
			Name: "jump",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				a.RequestJump()
				return tengo.UndefinedValue, nil
			},
		},
		"stop": &tengo.UserFunction{
			Name: "stop",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				a.Stop()
				return tengo.UndefinedValue, nil
			},
		},
		"fly": &tengo.UserFunction{
			Name: "fly",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				if len(args) != 1 {
					return nil, tengo.ErrWrongNumArguments
				}
				v, _ := tengo.ToBool(args[0])
				a.SetFlying(v)
				return tengo.UndefinedValue, nil
			},
		},
		"grounded": &tengo.UserFunction{
			Name: "grounded",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				if a.Grounded() {
					return tengo.TrueValue, nil
				}
				return tengo.FalseValue, nil
			},
		},
		"pos": &tengo.UserFunction{
			Name: "pos",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				p := a.Position()
				return &tengo.Map{Value: map[string]tengo.Object{
					"x": &tengo.Float{Value: p.X},
					"y": &tengo.Float{Value: p.Y},
				}}, nil
			},
		},
	}}
}
