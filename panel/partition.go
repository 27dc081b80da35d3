// Package panel splits the sphere into contiguous panels and runs one
// worker per panel. Panels are the unit of parallelism of the frame
// engine: each worker owns its panel's field data exclusively.
package panel

import (
	"fmt"
	"runtime"

	"geof/geom"
	"geof/sphere"
)

// ChoosePanelCount picks the panel count for this machine: eight panels
// when at least eight hardware threads are available, four otherwise.
func ChoosePanelCount() int {
	if runtime.NumCPU() >= 8 {
		return 8
	}
	return 4
}

// shapeFor returns the classification polyhedron for a panel count.
func shapeFor(n int) (geom.Shape, error) {
	switch n {
	case 4:
		return geom.Tetrahedron(), nil
	case 8:
		return geom.Octahedron(), nil
	}
	return geom.Shape{}, fmt.Errorf("panel: unsupported panel count %d (want 4 or 8)", n)
}

// Partition assigns every field of sph to one of n panels by classifying
// its centroid against the n-faced polyhedron. The returned assign slice
// maps flattened field index to panel index; fields lists each panel's
// fields in ascending flattened order. A centroid that misses every face
// (numerical drift on a seam) falls back to the nearest face centre, so
// no field is ever left unassigned.
func Partition(sph *sphere.Sphere, n int) (assign []int, fields [][]int, err error) {
	shape, err := shapeFor(n)
	if err != nil {
		return nil, nil, err
	}

	assign = make([]int, sph.FieldCount())
	fields = make([][]int, n)
	sphere.ForAllFields(sph.Divisions, func(idx sphere.Index) {
		flat := sph.Flatten(idx)
		face := geom.FaceOf(shape, sph.CentroidOf(flat))
		if face < 0 {
			face = geom.NearestFace(shape, sph.CentroidOf(flat))
		}
		assign[flat] = face
	})

	for flat := 0; flat < len(assign); flat++ {
		p := assign[flat]
		fields[p] = append(fields[p], flat)
	}
	for p := range fields {
		if len(fields[p]) == 0 {
			return nil, nil, fmt.Errorf("panel: panel %d is empty", p)
		}
	}
	return assign, fields, nil
}
