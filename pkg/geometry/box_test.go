package geometry

import "testing"

func TestBoundingBoxCornerMax(t *testing.T) {
	box := NewBoundingBox(Point3i{X: 2, Y: 3, Z: 4}, NewExtent(5, 6, 1))
	want := Point3i{X: 6, Y: 8, Z: 4}
	if got := box.CornerMax(); got != want {
		t.Errorf("CornerMax() = %v, want %v", got, want)
	}
}

func TestBoundingBoxIntersects(t *testing.T) {
	base := NewBoundingBox(Point3i{}, NewExtent(4, 4, 4))

	tests := []struct {
		name  string
		other BoundingBox
		want  bool
	}{
		{"identical", base, true},
		{"overlapping corner", NewBoundingBox(Point3i{X: 3, Y: 3, Z: 3}, NewExtent(2, 2, 2)), true},
		{"adjacent in x", NewBoundingBox(Point3i{X: 4}, NewExtent(2, 2, 2)), false},
		{"separate in z only", NewBoundingBox(Point3i{Z: 10}, NewExtent(4, 4, 4)), false},
		{"contained", NewBoundingBox(Point3i{X: 1, Y: 1, Z: 1}, NewExtent(1, 1, 1)), true},
		{"empty extent", NewBoundingBox(Point3i{X: 1, Y: 1, Z: 1}, NewExtent(0, 1, 1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
			if got := tt.other.Intersects(base); got != tt.want {
				t.Errorf("Intersects() is not symmetric: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundingBoxIntersection(t *testing.T) {
	a := NewBoundingBox(Point3i{}, NewExtent(4, 4, 1))
	b := NewBoundingBox(Point3i{X: 2, Y: 1}, NewExtent(5, 5, 1))

	got, ok := a.Intersection(b)
	if !ok {
		t.Fatal("expected boxes to intersect")
	}
	want := NewBoundingBox(Point3i{X: 2, Y: 1}, NewExtent(2, 3, 1))
	if !got.Equals(want) {
		t.Errorf("Intersection() = %v, want %v", got, want)
	}

	if _, ok := a.Intersection(a.Shift(Point3i{X: 10})); ok {
		t.Error("expected shifted box not to intersect")
	}
}

func TestBoundingBoxGrowClamped(t *testing.T) {
	scene := NewExtent(10, 10, 3)
	box := NewBoundingBox(Point3i{X: 0, Y: 5, Z: 1}, NewExtent(3, 3, 1))

	grown := box.Grow(2, true, &scene)
	want := BoundingBoxFromPoints(Point3i{X: 0, Y: 3, Z: 0}, Point3i{X: 4, Y: 9, Z: 2})
	if !grown.Equals(want) {
		t.Errorf("Grow() = %v, want %v", grown, want)
	}

	unclamped := box.Grow(1, false, nil)
	if unclamped.Corner() != (Point3i{X: -1, Y: 4, Z: 1}) || unclamped.Extent() != NewExtent(5, 5, 1) {
		t.Errorf("Grow() without scene = %v", unclamped)
	}
}

func TestBoundingBoxUnionAndContains(t *testing.T) {
	a := NewBoundingBox(Point3i{X: 1, Y: 1}, NewExtent(2, 2, 1))
	b := NewBoundingBox(Point3i{X: 5, Y: 0, Z: 2}, NewExtent(1, 1, 1))
	u := a.Union(b)

	if !u.ContainsBox(a) || !u.ContainsBox(b) {
		t.Errorf("union %v does not contain both inputs", u)
	}
	if u.Contains(Point3i{X: 0, Y: 0, Z: 0}) {
		t.Errorf("union %v unexpectedly contains the origin", u)
	}
}

func TestNewExtentPanicsOnNegative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for negative extent")
		}
	}()
	NewExtent(1, -1, 1)
}

func TestMaxAbsDistance(t *testing.T) {
	p := Point3i{X: 1, Y: 1, Z: 1}
	if d := p.MaxAbsDistance(Point3i{X: 2, Y: 0, Z: 1}); d != 1 {
		t.Errorf("MaxAbsDistance() = %d, want 1", d)
	}
	if d := p.MaxAbsDistance(Point3i{X: 1, Y: 4, Z: 0}); d != 3 {
		t.Errorf("MaxAbsDistance() = %d, want 3", d)
	}
}
