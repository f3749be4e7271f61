package pipeline

import (
	"path/filepath"

	"anchorvoxel/pkg/object"
	"anchorvoxel/pkg/visualization"
	"anchorvoxel/pkg/voxel"
)

// saveIntermediaryScene writes every z-plane of a binary stack into a stage
// directory. Failures are logged as warnings.
func (p *Pipeline) saveIntermediaryScene(stage string, scene voxel.BinaryVoxels) {
	if !p.params.SaveIntermediaryResults {
		return
	}
	p.saveStage(stage, visualization.NewBinaryViewer(scene))
}

// saveIntermediaryObjects renders a collection, one gray level per object.
func (p *Pipeline) saveIntermediaryObjects(stage string, objects *object.ObjectCollection) {
	if !p.params.SaveIntermediaryResults {
		return
	}
	viewer, err := visualization.NewViewer(p.scene.Extent(), objects)
	if err != nil {
		p.logger.Printf("Warning: Failed to render %s: %v", stage, err)
		return
	}
	p.saveStage(stage, viewer)
}

func (p *Pipeline) saveStage(stage string, viewer *visualization.Viewer) {
	dir := filepath.Join(p.params.IntermediaryDir, stage)
	if err := viewer.SaveSliceSequence("z", dir); err != nil {
		p.logger.Printf("Warning: Failed to save %s: %v", stage, err)
		return
	}
	p.logger.Printf("Saved %s to %s", stage, dir)
}
