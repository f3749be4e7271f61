package spatial

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// Neighbor is the closest other point to a query point.
type Neighbor struct {
	// Index is the position of the neighbour in the input, or -1 when
	// there is no other point.
	Index    int
	Distance float64
}

// NearestNeighbors finds, for every point, the closest other point using a
// k-d tree. Coincident points are each other's neighbours at distance 0.
func NearestNeighbors(points []r3.Vec) []Neighbor {
	out := make([]Neighbor, len(points))
	if len(points) < 2 {
		for i := range out {
			out[i] = Neighbor{Index: -1, Distance: math.Inf(1)}
		}
		return out
	}

	indexed := make(indexedPoints, len(points))
	for i, p := range points {
		indexed[i] = indexedPoint{index: i, pos: p}
	}
	// kdtree.New reorders its input, so it gets its own copy.
	tree := kdtree.New(append(indexedPoints(nil), indexed...), false)

	for _, q := range indexed {
		keeper := kdtree.NewNKeeper(2)
		tree.NearestSet(keeper, q)

		best := Neighbor{Index: -1, Distance: math.Inf(1)}
		for _, item := range keeper.Heap {
			if item.Comparable == nil {
				continue
			}
			p := item.Comparable.(indexedPoint)
			if p.index != q.index && item.Dist < best.Distance*best.Distance {
				best = Neighbor{Index: p.index, Distance: math.Sqrt(item.Dist)}
			}
		}
		out[q.index] = best
	}
	return out
}

// indexedPoint is a position that remembers where it came from.
type indexedPoint struct {
	index int
	pos   r3.Vec
}

// Compare implements the kdtree.Comparable interface
func (p indexedPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(indexedPoint)
	switch d {
	case 0:
		return p.pos.X - q.pos.X
	case 1:
		return p.pos.Y - q.pos.Y
	case 2:
		return p.pos.Z - q.pos.Z
	default:
		panic("illegal dimension")
	}
}

// Dims returns the number of dimensions for the k-d tree
func (p indexedPoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between two points
func (p indexedPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(indexedPoint)
	return r3.Norm2(r3.Sub(p.pos, q.pos))
}

// indexedPoints satisfies kdtree.Interface
type indexedPoints []indexedPoint

func (p indexedPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p indexedPoints) Len() int                              { return len(p) }
func (p indexedPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Pivot implements the kdtree.Interface method
func (p indexedPoints) Pivot(d kdtree.Dim) int {
	plane := pointPlane{indexedPoints: p, Dim: d}
	return kdtree.Partition(plane, kdtree.MedianOfRandoms(plane, 100))
}

// pointPlane implements sort.Interface and kdtree.SortSlicer
type pointPlane struct {
	indexedPoints
	kdtree.Dim
}

func (p pointPlane) Less(i, j int) bool {
	return p.indexedPoints[i].Compare(p.indexedPoints[j], p.Dim) < 0
}

func (p pointPlane) Slice(start, end int) kdtree.SortSlicer {
	return pointPlane{indexedPoints: p.indexedPoints[start:end], Dim: p.Dim}
}

func (p pointPlane) Swap(i, j int) {
	p.indexedPoints[i], p.indexedPoints[j] = p.indexedPoints[j], p.indexedPoints[i]
}
