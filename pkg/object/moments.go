package object

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"anchorvoxel/pkg/geometry"
)

// PrincipalVariances returns the eigenvalues of the covariance of the on
// voxel positions, largest first. All three are zero for fewer than two
// voxels.
func (m *ObjectMask) PrincipalVariances() [3]float64 {
	var out [3]float64
	n := m.NumberOn()
	if n < 2 {
		return out
	}

	positions := mat.NewDense(n, 3, nil)
	row := 0
	m.ForEachOn(func(p geometry.Point3i) {
		positions.SetRow(row, []float64{float64(p.X), float64(p.Y), float64(p.Z)})
		row++
	})

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, positions, nil)

	var eig mat.EigenSym
	if !eig.Factorize(&cov, false) {
		return out
	}
	values := eig.Values(nil)
	for i := range out {
		out[i] = max(0, values[len(values)-1-i])
	}
	return out
}
