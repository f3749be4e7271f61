package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"anchorvoxel/internal/models"
	"anchorvoxel/pkg/object"
	"anchorvoxel/pkg/spatial"
)

func (p *Pipeline) buildReport() *models.Report {
	extent := p.scene.Extent()
	report := &models.Report{
		Source: p.params.InputDir,
		Width:  extent.X,
		Height: extent.Y,
		Depth:  extent.Z,
	}

	objects := p.objects.Objects()
	centroids := make([]r3.Vec, len(objects))
	for i, m := range objects {
		centroids[i] = m.CenterOfGravity()
	}
	neighbors := spatial.NearestNeighbors(centroids)
	for i, m := range objects {
		summary := p.summarizeObject(i, m, centroids[i])
		summary.NearestObject = neighbors[i].Index
		if neighbors[i].Index >= 0 {
			summary.NearestDistance = neighbors[i].Distance
		}
		report.Objects = append(report.Objects, summary)
	}

	for c, members := range p.clusters {
		var weighted r3.Vec
		voxels := 0
		for _, i := range members {
			n := report.Objects[i].Voxels
			weighted = r3.Add(weighted, r3.Scale(float64(n), centroids[i]))
			voxels += n
		}
		report.Clusters = append(report.Clusters, models.ClusterSummary{
			ID:       c,
			Members:  slices.Clone(members),
			Voxels:   voxels,
			Centroid: vecArray(r3.Scale(1/float64(voxels), weighted)),
		})
	}

	report.Statistics = summarize(report)
	return report
}

func (p *Pipeline) summarizeObject(i int, m *object.ObjectMask, centroid r3.Vec) models.ObjectSummary {
	box := m.BoundingBox()
	corner, extent := box.Corner(), box.Extent()

	summary := models.ObjectSummary{
		ID:            i,
		Cluster:       p.clusterOf[i],
		Corner:        [3]int{corner.X, corner.Y, corner.Z},
		Extent:        [3]int{extent.X, extent.Y, extent.Z},
		Voxels:        m.NumberOn(),
		OutlineVoxels: p.outlines[i].NumberOn(),
		Centroid:      vecArray(centroid),

		PrincipalVariances: m.PrincipalVariances(),
	}
	for _, plane := range p.contours[i] {
		for _, c := range plane.Contours {
			summary.Contours = append(summary.Contours, models.ContourSummary{
				Z:      plane.Z,
				Points: len(c.Points),
				Closed: c.Closed,
			})
		}
	}
	return summary
}

// summarize computes size statistics. The standard deviation is zero for
// fewer than two objects.
func summarize(report *models.Report) models.Statistics {
	s := models.Statistics{
		Objects:  len(report.Objects),
		Clusters: len(report.Clusters),
	}
	if s.Objects == 0 {
		return s
	}

	sizes := lo.Map(report.Objects, func(o models.ObjectSummary, _ int) float64 { return float64(o.Voxels) })
	s.TotalVoxels = lo.SumBy(report.Objects, func(o models.ObjectSummary) int { return o.Voxels })
	s.OutlineVoxels = lo.SumBy(report.Objects, func(o models.ObjectSummary) int { return o.OutlineVoxels })
	s.MeanVoxels = stat.Mean(sizes, nil)
	if s.Objects > 1 {
		s.StdDevVoxels = stat.StdDev(sizes, nil)
	}
	slices.Sort(sizes)
	s.MedianVoxels = stat.Quantile(0.5, stat.Empirical, sizes, nil)

	for _, o := range report.Objects {
		closed := lo.CountBy(o.Contours, func(c models.ContourSummary) bool { return c.Closed })
		s.ClosedContours += closed
		s.OpenContours += len(o.Contours) - closed
	}
	return s
}

func vecArray(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func writeReport(report *models.Report, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating report directory: %w", err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("error marshaling report: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// ReadReport loads a report written by a previous run.
func ReadReport(path string) (*models.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading report: %w", err)
	}

	report := &models.Report{}
	if err := yaml.Unmarshal(data, report); err != nil {
		return nil, fmt.Errorf("error parsing report: %w", err)
	}
	return report, nil
}
