package motor

import (
	"testing"

	"github.com/jakecoffman/cp/v2"

	"github.com/milk9111/platformkit/physics"
)

func TestShouldIgnoreCollider(t *testing.T) {
	platform := &fakeCollider{name: "platform", layer: physics.LayerPlatform}
	terrain := &fakeCollider{name: "terrain", layer: physics.LayerTerrain}

	cases := []struct {
		name            string
		collider        physics.Collider
		normal          cp.Vector
		ignorePlatforms bool
		want            bool
	}{
		{name: "nil_collider", collider: nil, normal: cp.Vector{Y: -1}, want: false},
		{name: "terrain_never_passable", collider: terrain, normal: cp.Vector{Y: -1}, want: false},
		{name: "platform_from_above", collider: platform, normal: cp.Vector{Y: 1}, want: false},
		{name: "platform_from_below", collider: platform, normal: cp.Vector{Y: -1}, want: true},
		{name: "platform_from_side", collider: platform, normal: cp.Vector{X: 1, Y: 0}, want: true},
		{name: "drop_through_overrides_normal", collider: platform, normal: cp.Vector{Y: 1}, ignorePlatforms: true, want: true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := NewGate(newFakeBody(), nil)
			g.ignorePlatforms = c.ignorePlatforms
			if got := g.ShouldIgnoreCollider(c.collider, c.normal); got != c.want {
				t.Fatalf("ShouldIgnoreCollider = %v, want %v", got, c.want)
			}
		})
	}
}

func TestIgnoreColliderIdempotent(t *testing.T) {
	platform := &fakeCollider{name: "platform", layer: physics.LayerPlatform}
	body := newFakeBody()
	g := NewGate(body, nil)

	g.IgnoreCollider(platform, true)
	g.IgnoreCollider(platform, true)
	if !g.Ignored(platform) || !body.ignored[platform] {
		t.Fatal("collider should be ignored in both gate and host")
	}

	g.IgnoreCollider(platform, false)
	if g.Ignored(platform) || body.ignored[platform] {
		t.Fatal("ignore entry should be fully lifted")
	}

	// nil is a no-op
	g.IgnoreCollider(nil, true)
	if g.Ignored(nil) {
		t.Fatal("nil collider must never be ignored")
	}
}

func TestSetIgnorePlatformsSweepsKnownPlatforms(t *testing.T) {
	a := &fakeCollider{name: "a", layer: physics.LayerPlatform}
	b := &fakeCollider{name: "b", layer: physics.LayerPlatform}
	body := newFakeBody()
	body.platforms = []physics.Collider{a, b}
	g := NewGate(body, nil)

	g.SetIgnorePlatforms(true)
	if !g.IgnorePlatforms() {
		t.Fatal("expected platform ignoring on")
	}
	if !g.Ignored(a) || !g.Ignored(b) {
		t.Fatal("enabling must ignore every known platform collider")
	}

	// sticky: reconciliation must not lift entries while enabled
	body.overlaps = nil
	g.Reconcile()
	if !g.Ignored(a) || !g.Ignored(b) {
		t.Fatal("drop-through entries must survive reconciliation")
	}

	g.SetIgnorePlatforms(false)
	g.Reconcile()
	if g.Ignored(a) || g.Ignored(b) {
		t.Fatal("entries should lift once disabled and separated")
	}
}

func TestSetIgnorePlatformsRefusedWhileFlying(t *testing.T) {
	flying := true
	g := NewGate(newFakeBody(), func() bool { return flying })

	g.SetIgnorePlatforms(true)
	g.SetIgnorePlatforms(false)
	if !g.IgnorePlatforms() {
		t.Fatal("platform ignoring must stay on while flying")
	}

	flying = false
	g.SetIgnorePlatforms(false)
	if g.IgnorePlatforms() {
		t.Fatal("expected disable to succeed once landed")
	}
}

func TestReconcileKeepsOverlapping(t *testing.T) {
	near := &fakeCollider{name: "near", layer: physics.LayerPlatform}
	far := &fakeCollider{name: "far", layer: physics.LayerPlatform}
	body := newFakeBody()
	g := NewGate(body, nil)

	g.IgnoreCollider(near, true)
	g.IgnoreCollider(far, true)

	body.overlaps = []physics.Collider{near}
	g.Reconcile()

	if !g.Ignored(near) {
		t.Fatal("still-overlapping collider must stay ignored")
	}
	if g.Ignored(far) {
		t.Fatal("separated collider should collide again")
	}
	if body.ignored[far] {
		t.Fatal("host suppression should lift with the gate entry")
	}
}
