// Package mesh turns a sphere's field tiling into GPU-ready geometry.
// Every field becomes one polygon fan: five triangles for a pentagon,
// six for a hexagon. The visualiser depends on that convention to map
// triangles back to fields.
package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"geof/geom"
	"geof/sphere"
)

// Mesh is a triangle-list buffer set: interleavable position and normal
// arrays (three floats per vertex) and a vertex index list. VertexOrder
// maps each flattened field index to its first vertex offset, center
// vertex first, ring vertices following in fan order.
type Mesh struct {
	Position    []float32
	Normal      []float32
	Index       []uint32
	VertexOrder map[int]int
}

// Wire is an edge mesh of the field polygon boundaries.
type Wire struct {
	Position []float32
	Index    []uint32
}

// hexRing, pentRing and poleRing list the neighbour slots of a field in
// cyclic order around it. Pentagons skip NE; the gap closes between NW and E.
var (
	hexRing  = []sphere.Direction{sphere.SE, sphere.SW, sphere.W, sphere.NW, sphere.NE, sphere.E}
	pentRing = []sphere.Direction{sphere.SE, sphere.SW, sphere.W, sphere.NW, sphere.E}
	poleRing = []sphere.Direction{sphere.NW, sphere.W, sphere.SW, sphere.SE, sphere.E}
)

func ringOf(idx sphere.Index, d int) []sphere.Direction {
	switch {
	case idx.Kind != sphere.KindSXY:
		return poleRing
	case sphere.Pentagonal(idx, d):
		return pentRing
	default:
		return hexRing
	}
}

// corners returns the polygon corner positions of one field: each corner
// is the normalised mean of the field centroid and two cyclically
// adjacent neighbour centroids.
func corners(sph *sphere.Sphere, idx sphere.Index) []mgl32.Vec3 {
	adj := sph.Adjacents(idx)
	ring := ringOf(idx, sph.Divisions)
	own := sph.CentroidOf(sph.Flatten(idx))

	out := make([]mgl32.Vec3, 0, len(ring))
	for i := range ring {
		a, _ := adj.At(ring[i])
		b, _ := adj.At(ring[(i+1)%len(ring)])
		ca := sph.CentroidOf(sph.Flatten(a))
		cb := sph.CentroidOf(sph.Flatten(b))
		sum := own.Add(ca).Add(cb)
		out = append(out, vec32(sum).Normalize())
	}
	return out
}

func vec32(v geom.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

func push(dst []float32, v mgl32.Vec3) []float32 {
	return append(dst, v.X(), v.Y(), v.Z())
}

// Build emits the triangle mesh of the whole sphere. Vertices are on the
// unit sphere, so the normal of every vertex equals its position.
func Build(sph *sphere.Sphere) *Mesh {
	m := &Mesh{VertexOrder: make(map[int]int, sph.FieldCount())}

	var base uint32
	sphere.ForAllFields(sph.Divisions, func(idx sphere.Index) {
		flat := sph.Flatten(idx)
		center := vec32(sph.CentroidOf(flat)).Normalize()
		ring := corners(sph, idx)

		m.VertexOrder[flat] = int(base)
		m.Position = push(m.Position, center)
		m.Normal = push(m.Normal, center)
		for _, v := range ring {
			m.Position = push(m.Position, v)
			m.Normal = push(m.Normal, v)
		}

		n := uint32(len(ring))
		for i := uint32(0); i < n; i++ {
			m.Index = append(m.Index, base, base+1+i, base+1+(i+1)%n)
		}
		base += 1 + n
	})
	return m
}

// Wireframe emits the field boundary edges as a line index list.
func Wireframe(sph *sphere.Sphere) *Wire {
	w := &Wire{}

	var base uint32
	sphere.ForAllFields(sph.Divisions, func(idx sphere.Index) {
		ring := corners(sph, idx)
		for _, v := range ring {
			w.Position = push(w.Position, v)
		}
		n := uint32(len(ring))
		for i := uint32(0); i < n; i++ {
			w.Index = append(w.Index, base+i, base+(i+1)%n)
		}
		base += n
	})
	return w
}

// TriangleCount returns the number of triangles Build will emit for a
// sphere with d divisions: six per hexagon, five per pentagon.
func TriangleCount(d int) int {
	hexagons := sphere.FieldCount(d) - 12
	return hexagons*6 + 12*5
}
