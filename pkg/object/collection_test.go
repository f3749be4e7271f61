package object_test

import (
	"errors"
	"testing"

	"anchorvoxel/internal/fixture"
	"anchorvoxel/pkg/geometry"
	"anchorvoxel/pkg/object"
	"anchorvoxel/pkg/voxel"
)

func TestDuplicateShallowSharesMasks(t *testing.T) {
	c := fixture.ObjectCollectionFixture()
	shallow := c.DuplicateShallow()
	deep := c.DuplicateDeep()

	if shallow.Get(0) != c.Get(0) {
		t.Error("shallow duplicate should share mask instances")
	}
	if deep.Get(0) == c.Get(0) {
		t.Error("deep duplicate should not share mask instances")
	}
	if !deep.Get(0).Equals(c.Get(0)) {
		t.Error("deep duplicate should be equal in content")
	}

	shallow.Add(fixture.Rectangle(geometry.Point3i{}, geometry.NewExtent(1, 1, 1)))
	if c.Size() != 4 || shallow.Size() != 5 {
		t.Errorf("sizes = %d and %d, want 4 and 5", c.Size(), shallow.Size())
	}
}

func TestCollectionRemove(t *testing.T) {
	c := fixture.ObjectCollectionFixture()
	second := c.Get(2)
	if err := c.Remove(1); err != nil {
		t.Fatalf("Remove(1) error = %v", err)
	}
	if c.Get(1) != second {
		t.Error("later masks should shift down after removal")
	}
	if err := c.Remove(10); !errors.Is(err, object.ErrOperationFailed) {
		t.Errorf("Remove(10) error = %v, want ErrOperationFailed", err)
	}
}

func TestCollectionFilterMapAndBox(t *testing.T) {
	c := fixture.ObjectCollectionFixture()
	big := c.Filter(func(m *object.ObjectMask) bool { return m.NumberOn() > 9 })
	if big.Size() != 2 {
		t.Errorf("Filter() size = %d, want 2", big.Size())
	}
	if n := c.NumberOn(); n != 9+16+16+9 {
		t.Errorf("NumberOn() = %d, want 50", n)
	}

	shifted := c.Map(func(m *object.ObjectMask) *object.ObjectMask { return m.ShiftBy(geometry.Point3i{Z: 1}) })
	box, ok := shifted.BoundingBox()
	if !ok {
		t.Fatal("BoundingBox() of non-empty collection reported empty")
	}
	want := geometry.BoundingBoxFromPoints(geometry.Point3i{Z: 1}, geometry.Point3i{X: 17, Y: 7, Z: 1})
	if !box.Equals(want) {
		t.Errorf("BoundingBox() = %v, want %v", box, want)
	}
	if c.IndexOf(c.Get(3).Duplicate()) != 3 {
		t.Error("IndexOf() should find an equal mask")
	}
}

func TestObjectsFromConnectedComponents(t *testing.T) {
	// Two blobs in plane 0, a diagonal neighbour of the first, and a third
	// blob in plane 1 touching the second across z.
	extent := geometry.NewExtent(8, 5, 2)
	values := voxel.DefaultBinaryValuesByte()
	scene := voxel.NewBinaryVoxels(extent, values)
	for _, p := range []geometry.Point3i{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 1}, // first, diagonal link
		{X: 6, Y: 3}, {X: 7, Y: 3}, // second
		{X: 7, Y: 4, Z: 1}, // touches second across z
		{X: 4, Y: 4}, // isolated single voxel
	} {
		scene.SetOn(p.X, p.Y, p.Z)
	}

	tests := []struct {
		name     string
		useZ     bool
		minSize  int
		wantSize []int
	}{
		{"2d keeps every component", false, 1, []int{3, 2, 1, 1}},
		{"3d joins across planes", true, 1, []int{3, 3, 1}},
		{"minimum size drops singletons", true, 2, []int{3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects := object.ObjectsFromConnectedComponents(scene, tt.useZ, tt.minSize)
			if objects.Size() != len(tt.wantSize) {
				t.Fatalf("found %d objects, want %d", objects.Size(), len(tt.wantSize))
			}
			for i, want := range tt.wantSize {
				if got := objects.Get(i).NumberOn(); got != want {
					t.Errorf("object %d has %d voxels, want %d", i, got, want)
				}
			}
		})
	}

	first := object.ObjectsFromConnectedComponents(scene, true, 1).Get(0)
	want := geometry.BoundingBoxFromPoints(geometry.Point3i{}, geometry.Point3i{X: 2, Y: 1})
	if !first.BoundingBox().Equals(want) {
		t.Errorf("first component box = %v, want %v", first.BoundingBox(), want)
	}
}
