package bloomtree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestGrowthBloomRetiresOnNinthTick(t *testing.T) {
	c := newTestCanvas(t, 100, 100)
	b := newGrowthBloom(Star(20, 10, 10), Vec2{50, 50}, red, 1, 0, 0.1, 0.1)
	for i := 1; i <= 9; i++ {
		retired := b.flower(c)
		if retired != (i == 9) {
			t.Fatalf("tick %d: retired = %v (scale %v)", i, retired, b.Scale)
		}
	}
	assertNear(t, "final scale", b.Scale, 1)
	if c.PixelAt(50, 50).A == 0 {
		t.Error("bloom not drawn")
	}
}

func TestBloomDrawUsesAlpha(t *testing.T) {
	c := newTestCanvas(t, 100, 100)
	b := newGrowthBloom(Star(20, 10, 10), Vec2{50, 50}, red, 0.5, 1.2, 1, 0.1)
	b.Draw(c)
	if a := c.PixelAt(50, 50).A; a < 126 || a > 129 {
		t.Errorf("alpha = %d, want ~128", a)
	}
	// Draw leaves the surface state untouched.
	c.Clear()
	c.FillPolygon(square(0, 0, 4), red)
	if c.PixelAt(1, 1).A != 255 {
		t.Error("bloom leaked alpha into later fills")
	}
}

func TestFlightBloomJump(t *testing.T) {
	c := newTestCanvas(t, 200, 200)
	b := newFlightBloom(Star(20, 10, 10), Vec2{100, 0}, red, Vec2{0, 200}, 4)
	if !b.HasFlight() || b.Alpha != 1 || b.Scale != 1 {
		t.Fatalf("flight bloom = %+v", b)
	}
	b.jump(c, 0.05)
	if diff := cmp.Diff(Vec2{75, 50}, b.Point, cmpopts.EquateApprox(0, epsilon)); diff != "" {
		t.Errorf("after first jump (-want +got):\n%s", diff)
	}
	assertNear(t, "angle", b.Angle, 0.05)
	if b.Speed() != 3 {
		t.Errorf("Speed = %d, want 3", b.Speed())
	}
	for b.Speed() > 0 {
		b.jump(c, 0.05)
	}
	if diff := cmp.Diff(Vec2{0, 200}, b.Point, cmpopts.EquateApprox(0, epsilon)); diff != "" {
		t.Errorf("arrived (-want +got):\n%s", diff)
	}
	if b.alive(200) {
		t.Error("bloom with no speed left still alive")
	}
}

func TestBloomAlive(t *testing.T) {
	fig := Star(20, 10, 10)
	tests := []struct {
		name string
		p    Vec2
		want bool
	}{
		{"on stage", Vec2{10, 10}, true},
		{"left margin", Vec2{-20, 10}, true},
		{"past left", Vec2{-21, 10}, false},
		{"past bottom", Vec2{10, 221}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFlightBloom(fig, tt.p, red, Vec2{}, 10)
			if got := b.alive(200); got != tt.want {
				t.Errorf("alive = %v, want %v", got, tt.want)
			}
		})
	}
	if newGrowthBloom(fig, Vec2{}, red, 1, 0, 1, 0.1).alive(200) {
		t.Error("growth bloom reported alive in flight")
	}
}
