package geom

import "testing"

func TestNewBoundsOrdersCorners(t *testing.T) {
	pairs := [][2]Vec3{
		{V3(0, 0, 0), V3(1, 1, 1)},
		{V3(1, 1, 1), V3(0, 0, 0)},
		{V3(-5, 10, 3), V3(5, -10, -3)},
		{V3(7, -2, 0), V3(-7, 2, 0)},
		{V3(64, 64, 64), V3(64, 64, 64)},
	}
	for _, p := range pairs {
		b := NewBounds(p[0], p[1])
		if b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z {
			t.Errorf("NewBounds(%v, %v) = %v, min exceeds max", p[0], p[1], b)
		}
	}
}

func TestVertexOrder(t *testing.T) {
	b := NewBounds(V3(0, 0, 0), V3(1, 2, 3))
	want := [8]Vec3{
		V3(0, 0, 0), // swb
		V3(0, 2, 0), // nwb
		V3(1, 2, 0), // neb
		V3(1, 0, 0), // seb
		V3(0, 0, 3), // swt
		V3(0, 2, 3), // nwt
		V3(1, 2, 3), // net
		V3(1, 0, 3), // set
	}
	got := b.Verts()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("vertex %v = %v, want %v", Corner(i), got[i], want[i])
		}
	}
}

func TestPlanesFaceOutward(t *testing.T) {
	b := NewBounds(V3(0, 0, 0), V3(1, 1, 1))
	want := [6]Vec3{
		V3(0, 0, 1),
		V3(0, 0, -1),
		V3(-1, 0, 0),
		V3(1, 0, 0),
		V3(0, -1, 0),
		V3(0, 1, 0),
	}
	for i, p := range b.Planes() {
		if got := p.Normal(); got != want[i] {
			t.Errorf("plane %d normal = %v, want %v", i, got, want[i])
		}
	}
	if got := b.TopPlane().Normal(); got != V3(0, 0, 1) {
		t.Errorf("top plane normal = %v", got)
	}
	if got := b.BottomPlane().Normal(); got != V3(0, 0, -1) {
		t.Errorf("bottom plane normal = %v", got)
	}
}

func TestCenters(t *testing.T) {
	b := NewBounds(V3(-64, 0, 16), V3(64, 32, 80))
	if got := b.Center(); got != V3(0, 16, 48) {
		t.Errorf("Center = %v", got)
	}
	if got := b.TopCenter(); got != V3(0, 16, 80) {
		t.Errorf("TopCenter = %v", got)
	}
	if got := b.BottomCenter(); got != V3(0, 16, 16) {
		t.Errorf("BottomCenter = %v", got)
	}
	if got := b.CenterXY(); got != (Vec2{0, 16}) {
		t.Errorf("CenterXY = %v", got)
	}
	if b.XLen() != 128 || b.YLen() != 32 || b.ZLen() != 64 {
		t.Errorf("lengths = %v %v %v", b.XLen(), b.YLen(), b.ZLen())
	}
}

func TestUnitRemapRoundTrip(t *testing.T) {
	b := NewBounds(V3(-100, 20, 0), V3(300, 60, 8))
	for _, c := range b.Verts() {
		u := b.ToUnit(c)
		if u.X != -1 && u.X != 1 || u.Y != -1 && u.Y != 1 || u.Z != -1 && u.Z != 1 {
			t.Errorf("corner %v maps to %v, want a unit cube corner", c, u)
		}
		if back := b.FromUnit(u); back != c {
			t.Errorf("FromUnit(ToUnit(%v)) = %v", c, back)
		}
	}
	if got := b.ToUnit(b.Center()); got != (Vec3{}) {
		t.Errorf("center maps to %v, want origin", got)
	}
}

func TestIntervalsOverlap(t *testing.T) {
	tests := []struct {
		a1, a2, b1, b2 float32
		want           bool
	}{
		{0, 10, 5, 15, true},
		{0, 10, 10, 20, false}, // touching
		{0, 10, 11, 20, false},
		{0, 10, 2, 8, true},   // containment
		{0, 10, 0, 10, true},  // identical
		{-5, 5, -10, 10, true},
		{-5, 0, 0, 5, false}, // touching at zero
		{0, 1, -1, 0, false},
		{3, 4, 0, 100, true},
		{-20, -10, -15, -12, true},
		{-20, -10, -10, 0, false},
		{1, 2, 1, 2, true},
	}
	for _, tt := range tests {
		got := IntervalsOverlap(tt.a1, tt.a2, tt.b1, tt.b2)
		if got != tt.want {
			t.Errorf("IntervalsOverlap(%v,%v,%v,%v) = %v, want %v", tt.a1, tt.a2, tt.b1, tt.b2, got, tt.want)
		}
		if sym := IntervalsOverlap(tt.b1, tt.b2, tt.a1, tt.a2); sym != got {
			t.Errorf("overlap not symmetric for (%v,%v) (%v,%v)", tt.a1, tt.a2, tt.b1, tt.b2)
		}
		if rev := IntervalsOverlap(-tt.a2, -tt.a1, -tt.b2, -tt.b1); rev != got {
			t.Errorf("overlap not sign-reversal invariant for (%v,%v) (%v,%v)", tt.a1, tt.a2, tt.b1, tt.b2)
		}
	}
}

func TestBoundsCollides(t *testing.T) {
	a := NewBounds(V3(0, 0, 0), V3(64, 64, 64))
	tests := []struct {
		name string
		b    Bounds
		want bool
	}{
		{"overlap", NewBounds(V3(32, 32, 32), V3(96, 96, 96)), true},
		{"face touch", NewBounds(V3(64, 0, 0), V3(128, 64, 64)), false},
		{"edge touch", NewBounds(V3(64, 64, 0), V3(128, 128, 64)), false},
		{"inside", NewBounds(V3(8, 8, 8), V3(16, 16, 16)), true},
		{"apart on z", NewBounds(V3(0, 0, 100), V3(64, 64, 164)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Collides(tt.b); got != tt.want {
				t.Errorf("Collides = %v, want %v", got, tt.want)
			}
			if got := tt.b.Collides(a); got != tt.want {
				t.Errorf("reverse Collides = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlaneBottomRightAndTranslate(t *testing.T) {
	p := NewPlane(V3(0, 0, 0), V3(0, 0, 10), V3(10, 0, 10))
	if got := p.BottomRight(); got != V3(10, 0, 0) {
		t.Errorf("BottomRight = %v, want 10 0 0", got)
	}
	moved := p.Translate(V3(1, 2, 3))
	if moved.BottomLeft != V3(1, 2, 3) || moved.TopRight != V3(11, 2, 13) {
		t.Errorf("Translate = %v", moved)
	}
	if moved.NormalDir() != p.NormalDir() {
		t.Error("translation changed the normal")
	}
}

func TestNewPlaneRounded(t *testing.T) {
	p := NewPlaneRounded(V3(0.4, 0, 0), V3(0, 0.6, 0), V3(1, 1, 1.5), false)
	if p.BottomLeft != V3(0, 0, 0) || p.TopLeft != V3(0, 1, 0) || p.TopRight != V3(1, 1, 2) {
		t.Errorf("rounded plane = %v", p)
	}
	q := NewPlaneRounded(V3(0.4, 0, 0), V3(0, 0.6, 0), V3(1, 1, 1.5), true)
	if q.BottomLeft.X != 0.4 {
		t.Errorf("fractional plane was rounded: %v", q)
	}
}
