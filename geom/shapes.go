package geom

// Triangle is three corner points.
type Triangle struct {
	P0, P1, P2 Vec3
}

// Line is a pair of points. Intersection tests treat it as infinite.
type Line struct {
	A, B Vec3
}

// Center returns the mean of the triangle corners.
func (t Triangle) Center() Vec3 {
	return t.P0.Add(t.P1).Add(t.P2).Scale(1.0 / 3.0)
}

// LineHitsTriangle reports whether the infinite line through l.A and l.B
// crosses the plane of t inside the triangle. The distance parameter along
// the line is ignored on purpose: callers classify rays from the origin and
// a back-face hit is as good a classification as a front-face one.
func LineHitsTriangle(l Line, t Triangle) bool {
	e1 := t.P1.Sub(t.P0)
	e2 := t.P2.Sub(t.P0)
	n := e1.Cross(e2)
	dir := l.A.Sub(l.B)

	d := dir.Dot(n)
	if d == 0 {
		// Line parallel to the triangle plane.
		return false
	}

	ao := l.A.Sub(t.P0)
	u := e2.Cross(dir).Dot(ao) / d
	v := dir.Cross(e1).Dot(ao) / d
	return u >= 0 && v >= 0 && u+v <= 1
}

// Shape is a convex polyhedron centred on the origin, used to classify
// points on the unit sphere into face-indexed regions.
type Shape struct {
	Faces []Triangle
}

// Tetrahedron returns the regular tetrahedron with the classic alternated
// cube-corner vertices. Face order is fixed; classification depends on it.
func Tetrahedron() Shape {
	v0 := Vec3{1, 1, 1}
	v1 := Vec3{1, -1, -1}
	v2 := Vec3{-1, 1, -1}
	v3 := Vec3{-1, -1, 1}
	return Shape{Faces: []Triangle{
		{v1, v2, v3},
		{v0, v3, v2},
		{v0, v1, v3},
		{v0, v2, v1},
	}}
}

// Octahedron returns the unit octahedron with vertices on the axes. The
// eight faces are enumerated octant by octant, positive X first.
func Octahedron() Shape {
	face := func(sx, sy, sz float64) Triangle {
		return Triangle{
			P0: Vec3{sx, 0, 0},
			P1: Vec3{0, sy, 0},
			P2: Vec3{0, 0, sz},
		}
	}
	return Shape{Faces: []Triangle{
		face(1, 1, 1),
		face(1, 1, -1),
		face(1, -1, 1),
		face(1, -1, -1),
		face(-1, 1, 1),
		face(-1, 1, -1),
		face(-1, -1, 1),
		face(-1, -1, -1),
	}}
}

// FaceOf returns the index of the first face crossed by the line from
// the origin through p, or -1 if no face matches. Only faces on p's side
// of the origin are candidates: the same infinite line also crosses the
// far side of the shape, and on the centrally symmetric octahedron that
// far face would otherwise claim every point of the opposite octant.
// First-hit order makes classification of edge points deterministic.
func FaceOf(s Shape, p Vec3) int {
	l := Line{A: p, B: Vec3{}}
	for i, f := range s.Faces {
		if f.Center().Dot(p) > 0 && LineHitsTriangle(l, f) {
			return i
		}
	}
	return -1
}

// FacesOf returns every face on p's side crossed by the line from the
// origin through p. Points inside a face region yield exactly one hit;
// points on edges or vertices of the shape yield two or more.
func FacesOf(s Shape, p Vec3) []int {
	l := Line{A: p, B: Vec3{}}
	var hits []int
	for i, f := range s.Faces {
		if f.Center().Dot(p) > 0 && LineHitsTriangle(l, f) {
			hits = append(hits, i)
		}
	}
	return hits
}

// NearestFace returns the index of the face whose centre is closest to p.
// It never misses, so it serves as the fallback when numerical drift keeps
// FaceOf from finding a face for a point that should be on the sphere.
func NearestFace(s Shape, p Vec3) int {
	best := 0
	bestDist := Distance(p, s.Faces[0].Center())
	for i := 1; i < len(s.Faces); i++ {
		d := Distance(p, s.Faces[i].Center())
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
