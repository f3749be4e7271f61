package pipeline

import (
	"errors"
	"fmt"
	"sync"

	"anchorvoxel/pkg/contour"
	"anchorvoxel/pkg/kernel"
	"anchorvoxel/pkg/object"
)

// computeOutlines finds the outline of every object and traverses it plane by
// plane. Objects are split into contiguous chunks, one goroutine per core.
func (p *Pipeline) computeOutlines() error {
	objects := p.objects.Objects()
	n := len(objects)
	p.outlines = make([]*object.ObjectMask, n)
	p.contours = make([][]contour.SliceContours, n)

	numCores := max(1, min(p.params.NumCores, n))
	perCore := (n + numCores - 1) / numCores
	errs := make([]error, numCores)
	scene := p.scene.Extent()

	var wg sync.WaitGroup
	for core := 0; core < numCores; core++ {
		start := core * perCore
		end := min(start+perCore, n)
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(core, start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				outline := kernel.FindOutlineInScene(objects[i], p.params.NumberErosions,
					p.params.Force2D, p.params.OutlineAtBoundary, scene)
				contours, err := contour.TraverseOutlinePerSlice(outline)
				if err != nil {
					errs[core] = fmt.Errorf("object %d: %w", i, err)
					return
				}
				p.outlines[i] = outline
				p.contours[i] = contours
			}
		}(core, start, end)
	}
	wg.Wait()

	return errors.Join(errs...)
}
