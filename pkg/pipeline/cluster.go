package pipeline

import (
	"fmt"

	"anchorvoxel/pkg/kernel"
	"anchorvoxel/pkg/object"
	"anchorvoxel/pkg/spatial"
)

// clusterObjects dilates every object by the configured distance and groups
// objects whose dilated masks are joined by a chain of intersections.
func (p *Pipeline) clusterObjects() error {
	objects := p.objects.Objects()
	params := kernel.NewParameters(p.params.OutsidePolicy, p.kernelUseZ()).WithScene(p.scene.Extent())
	opts := kernel.DilationOptions{Big: p.params.BigNeighborhood}

	dilated := make([]*object.ObjectMask, len(objects))
	position := make(map[*object.ObjectMask]int, len(objects))
	for i, m := range objects {
		dilated[i] = kernel.Dilate(m, p.params.DilationDistance, opts, params)
		position[dilated[i]] = i
	}

	tree := spatial.NewObjectCollectionRTreeWithOptions(object.NewCollection(dilated...), p.params.Index)
	groups := tree.SpatiallySeparate()

	p.clusterOf = make([]int, len(objects))
	p.clusters = make([][]int, len(groups))
	for c, group := range groups {
		for _, m := range group.Objects() {
			i, ok := position[m]
			if !ok {
				return fmt.Errorf("cluster %d holds an object that was never indexed: %v", c, m)
			}
			p.clusterOf[i] = c
			p.clusters[c] = append(p.clusters[c], i)
		}
	}
	return nil
}
