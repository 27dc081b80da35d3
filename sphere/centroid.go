package sphere

import (
	"math"

	"geof/geom"
)

// The icosahedron is embedded with the poles on the y axis. The other ten
// vertices form two latitude rings at +/- atan(1/2); the lower ring is
// rotated half a section against the upper one.
var (
	northPole = geom.Vec3{X: 0, Y: 1, Z: 0}
	southPole = geom.Vec3{X: 0, Y: -1, Z: 0}
)

func ringVertex(lat, lonDeg float64) geom.Vec3 {
	lon := lonDeg * math.Pi / 180
	return geom.Vec3{
		X: math.Cos(lat) * math.Cos(lon),
		Y: math.Sin(lat),
		Z: math.Cos(lat) * math.Sin(lon),
	}
}

// topVertex returns the upper-ring icosahedron vertex owned by section s.
func topVertex(s int) geom.Vec3 {
	return ringVertex(math.Atan(0.5), float64(s)*72)
}

// bottomVertex returns the lower-ring vertex between sections s and s+1.
func bottomVertex(s int) geom.Vec3 {
	return ringVertex(-math.Atan(0.5), float64(s)*72+36)
}

// interpRhombus maps (u, v) in the unit square onto the rhombus spanned
// by corners a (0,0), b (1,0), c (0,1) and db (1,1), which folds over the
// b-c diagonal into two icosahedron faces.
func interpRhombus(a, b, c, db geom.Vec3, u, v float64) geom.Vec3 {
	if u+v <= 1 {
		return a.Add(b.Sub(a).Scale(u)).Add(c.Sub(a).Scale(v))
	}
	return db.Add(c.Sub(db).Scale(1 - u)).Add(b.Sub(db).Scale(1 - v))
}

// Centroid returns the unit-sphere position of the centre of field idx on
// a sphere with d divisions. Section s covers two rhombi of the
// icosahedral net: the northern one spanned by the pole, the section's
// own upper vertex and the previous section's upper vertex, and the
// southern one continuing down to the south pole. Field (x, y) sits on
// the triangular lattice point (x+1, y) of that net; planar interpolation
// across the covering face followed by normalisation projects it onto the
// sphere.
func Centroid(idx Index, d int) geom.Vec3 {
	switch idx.Kind {
	case KindNorth:
		return northPole
	case KindSouth:
		return southPole
	}

	s, gx, gy := idx.S, idx.X+1, idx.Y
	prev := (s + 4) % 5
	fd := float64(d)

	var p geom.Vec3
	if gx <= d {
		// Northern rhombus: pole, T(s), T(s-1), B(s-1).
		p = interpRhombus(
			northPole, topVertex(s), topVertex(prev), bottomVertex(prev),
			float64(gx)/fd, float64(gy)/fd,
		)
	} else {
		// Southern rhombus: T(s), B(s), B(s-1), pole.
		p = interpRhombus(
			topVertex(s), bottomVertex(s), bottomVertex(prev), southPole,
			float64(gx-d)/fd, float64(gy)/fd,
		)
	}
	return p.Normalize()
}
