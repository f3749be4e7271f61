package object_test

import (
	"math"
	"testing"

	"anchorvoxel/internal/fixture"
	"anchorvoxel/pkg/geometry"
	"anchorvoxel/pkg/object"
	"anchorvoxel/pkg/voxel"
)

func TestNewPanicsOnExtentMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic when voxel extent differs from box extent")
		}
	}()
	box := geometry.NewBoundingBox(geometry.Point3i{}, geometry.NewExtent(3, 3, 1))
	object.New(box, voxel.NewBinaryVoxels(geometry.NewExtent(3, 2, 1), voxel.DefaultBinaryValuesByte()))
}

func TestDuplicateDoesNotAlias(t *testing.T) {
	original := fixture.Rectangle(geometry.Point3i{X: 1, Y: 2}, geometry.NewExtent(3, 3, 1))
	dup := original.Duplicate()
	dup.BinaryVoxels().SetOff(0, 0, 0)

	if !original.BinaryVoxels().IsOn(0, 0, 0) {
		t.Error("modifying the duplicate changed the original")
	}
	if dup.NumberOn() != 8 || original.NumberOn() != 9 {
		t.Errorf("NumberOn() = %d and %d, want 8 and 9", dup.NumberOn(), original.NumberOn())
	}
}

func TestCenterOfGravity(t *testing.T) {
	ring := fixture.Ring(geometry.Point3i{X: 10, Y: 20, Z: 3}, 5, 1)
	cog := ring.CenterOfGravity()
	if cog.X != 12 || cog.Y != 22 || cog.Z != 3 {
		t.Errorf("CenterOfGravity() = %v, want (12,22,3)", cog)
	}

	empty := object.NewEmpty(geometry.NewBoundingBox(geometry.Point3i{}, geometry.NewExtent(2, 2, 1)), voxel.DefaultBinaryValuesByte())
	if c := empty.CenterOfGravity(); !math.IsNaN(c.X) || !math.IsNaN(c.Y) || !math.IsNaN(c.Z) {
		t.Errorf("CenterOfGravity() of empty mask = %v, want NaN", c)
	}
}

func TestShiftToOriginPreservesContent(t *testing.T) {
	disk := fixture.Disk(geometry.Point3i{X: 7, Y: 8, Z: 2}, 2, 2)
	shifted := disk.ShiftToOrigin()

	if shifted.BoundingBox().Corner() != (geometry.Point3i{}) {
		t.Errorf("corner = %v, want origin", shifted.BoundingBox().Corner())
	}
	if !shifted.BinaryVoxels().SameOnVoxels(disk.BinaryVoxels()) {
		t.Error("shifted mask lost content")
	}
	if !shifted.ShiftBy(geometry.Point3i{X: 7, Y: 8, Z: 2}).Equals(disk) {
		t.Error("shifting back did not reproduce the original mask")
	}
}

func TestHasOnHasOff(t *testing.T) {
	rect := fixture.Rectangle(geometry.Point3i{}, geometry.NewExtent(4, 3, 2))
	if rect.HasOff() {
		t.Error("a filled rectangle should have no off voxel")
	}
	ring := fixture.Ring(geometry.Point3i{}, 4, 1)
	if !ring.HasOff() || !ring.HasOn() {
		t.Error("a ring should have both on and off voxels")
	}
}

func TestIntersectsIsVoxelExact(t *testing.T) {
	ring := fixture.Ring(geometry.Point3i{}, 5, 1)
	inside := fixture.Rectangle(geometry.Point3i{X: 2, Y: 2}, geometry.NewExtent(1, 1, 1))
	onBorder := fixture.Rectangle(geometry.Point3i{X: 4, Y: 2}, geometry.NewExtent(3, 1, 1))

	if !ring.BoundingBox().Intersects(inside.BoundingBox()) {
		t.Fatal("fixture boxes should overlap")
	}
	if ring.Intersects(inside) {
		t.Error("ring should not intersect a voxel in its hole")
	}
	if !ring.Intersects(onBorder) || !onBorder.Intersects(ring) {
		t.Error("ring should intersect a rectangle touching its border")
	}

	overlap, ok := ring.Intersect(onBorder)
	if !ok {
		t.Fatal("Intersect() reported no overlap")
	}
	if overlap.NumberOn() != 1 || !overlap.IsOnGlobal(geometry.Point3i{X: 4, Y: 2}) {
		t.Errorf("Intersect() = %v, want the single voxel (4,2,0)", overlap)
	}
	if _, ok := ring.Intersect(inside); ok {
		t.Error("Intersect() with the hole voxel should be empty")
	}
}

func TestEqualsAcrossEncodings(t *testing.T) {
	corner := geometry.Point3i{X: 1, Y: 1}
	extent := geometry.NewExtent(3, 3, 1)
	diag := func(x, y, z int) bool { return x == y }

	a := fixture.FromPattern(corner, extent, voxel.DefaultBinaryValuesByte(), diag)
	b := fixture.FromPattern(corner, extent, voxel.DefaultBinaryValuesByte().Invert(), diag)
	if !a.Equals(b) {
		t.Error("masks with the same on voxels should be equal regardless of encoding")
	}
	if a.Equals(a.ShiftBy(geometry.Point3i{X: 1})) {
		t.Error("shifted mask should not be equal")
	}
}

func TestCropAndMapInto(t *testing.T) {
	ring := fixture.Ring(geometry.Point3i{X: 3, Y: 3}, 5, 1)
	box := geometry.NewBoundingBox(geometry.Point3i{X: 3, Y: 3}, geometry.NewExtent(2, 5, 1))
	cropped := ring.Crop(box)
	if cropped.NumberOn() != 7 {
		t.Errorf("cropped NumberOn() = %d, want 7", cropped.NumberOn())
	}

	mapped := cropped.MapInto(ring.BoundingBox())
	if !mapped.SubsetOf(ring) {
		t.Error("mapped crop is not a subset of the ring")
	}
	if mapped.NumberOn() != cropped.NumberOn() {
		t.Errorf("MapInto changed the voxel count from %d to %d", cropped.NumberOn(), mapped.NumberOn())
	}
}

func TestExtractSlice(t *testing.T) {
	m := fixture.FromPattern(geometry.Point3i{Z: 5}, geometry.NewExtent(3, 3, 3), voxel.DefaultBinaryValuesByte(), func(x, y, z int) bool {
		return z == 1 && x == 1
	})
	slice := m.ExtractSlice(6)
	if slice.Extent() != geometry.NewExtent(3, 3, 1) || slice.NumberOn() != 3 {
		t.Errorf("ExtractSlice(6) = %v", slice)
	}
	if m.ExtractSlice(5).HasOn() {
		t.Error("plane 5 should be empty")
	}
}

func TestNewFromBytes(t *testing.T) {
	box := geometry.NewBoundingBox(geometry.Point3i{X: 4}, geometry.NewExtent(2, 1, 1))
	m, err := object.NewFromBytes(box, []byte{0, 255}, voxel.DefaultBinaryValuesByte())
	if err != nil {
		t.Fatalf("NewFromBytes() error = %v", err)
	}
	if !m.IsOnGlobal(geometry.Point3i{X: 5}) || m.IsOnGlobal(geometry.Point3i{X: 4}) {
		t.Error("unexpected voxel content")
	}
	if _, err := object.NewFromBytes(box, []byte{0}, voxel.DefaultBinaryValuesByte()); err == nil {
		t.Error("expected error for a short buffer")
	}
}

func TestPrincipalVariances(t *testing.T) {
	tests := []struct {
		name string
		mask *object.ObjectMask
		want [3]float64
	}{
		{"line", fixture.Rectangle(geometry.Point3i{X: 3, Y: 1}, geometry.NewExtent(5, 1, 1)), [3]float64{2.5, 0, 0}},
		{"square", fixture.Rectangle(geometry.Point3i{}, geometry.NewExtent(2, 2, 1)), [3]float64{1.0 / 3, 1.0 / 3, 0}},
		{"single", fixture.Rectangle(geometry.Point3i{X: 4}, geometry.NewExtent(1, 1, 1)), [3]float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.mask.PrincipalVariances()
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("PrincipalVariances() = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}
