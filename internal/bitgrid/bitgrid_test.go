package bitgrid

import "testing"

func TestSetGetReset(t *testing.T) {
	g := New(200)
	for _, pos := range []int{0, 1, 63, 64, 65, 127, 128, 199} {
		if g.Get(pos) {
			t.Fatalf("pos %d should start clear", pos)
		}
		g.Set(pos)
		if !g.Get(pos) {
			t.Fatalf("pos %d should be set", pos)
		}
		g.Reset(pos)
		if g.Get(pos) {
			t.Fatalf("pos %d should be clear after reset", pos)
		}
	}
}

func TestClearRange(t *testing.T) {
	g := New(300)
	for p := 0; p < 300; p++ {
		g.Set(p)
	}
	g.ClearRange(150, true)
	for p := 0; p <= 150; p++ {
		if g.Get(p) {
			t.Fatalf("pos %d should have been cleared", p)
		}
	}
	if !g.Get(151) {
		t.Fatalf("pos 151 should remain set")
	}
}

func TestIsZero(t *testing.T) {
	g := New(128)
	if !g.IsZero() {
		t.Fatalf("fresh grid should be zero")
	}
	g.Set(70)
	if g.IsZero() {
		t.Fatalf("grid with a set bit should not report zero")
	}
}

func TestAndNot(t *testing.T) {
	a := New(128)
	b := New(128)
	out := New(128)
	for _, p := range []int{1, 2, 3, 70} {
		a.Set(p)
	}
	b.Set(2)
	out.AndNot(a, b)
	if out.Get(2) {
		t.Fatalf("bit 2 should be excluded")
	}
	for _, p := range []int{1, 3, 70} {
		if !out.Get(p) {
			t.Fatalf("bit %d should remain", p)
		}
	}
}

func TestSize(t *testing.T) {
	g := New(150)
	if got := g.Size(); got != 150 {
		t.Fatalf("Size() = %d, want 150", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := New(64)
	g.Set(5)
	clone := g.Clone()
	clone.Set(10)
	if g.Get(10) {
		t.Fatalf("mutating the clone must not affect the original")
	}
	if !clone.Get(5) {
		t.Fatalf("clone should carry over bits set before cloning")
	}
}
