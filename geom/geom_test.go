package geom

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestVectorOps(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, -5, 6}

	if got := a.Add(b); got != (Vec3{5, -3, 9}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != (Vec3{-3, 7, -3}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Neg(); got != (Vec3{-1, -2, -3}) {
		t.Errorf("Neg = %v", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale = %v", got)
	}
	if got := a.Dot(b); !almostEqual(got, 4-10+18) {
		t.Errorf("Dot = %v", got)
	}
	if got := a.Cross(b); got != (Vec3{27, 6, -13}) {
		t.Errorf("Cross = %v", got)
	}
	if got := (Vec3{3, 4, 0}).Length(); !almostEqual(got, 5) {
		t.Errorf("Length = %v", got)
	}
	if got := (Vec3{0, 0, 7}).Normalize(); got != (Vec3{0, 0, 1}) {
		t.Errorf("Normalize = %v", got)
	}
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("Normalize zero = %v", got)
	}
}

func TestLineHitsTriangle(t *testing.T) {
	tri := Triangle{
		P0: Vec3{1, 0, 0},
		P1: Vec3{0, 1, 0},
		P2: Vec3{0, 0, 1},
	}

	tests := []struct {
		name string
		line Line
		want bool
	}{
		{
			name: "through center",
			line: Line{A: Vec3{1, 1, 1}, B: Vec3{}},
			want: true,
		},
		{
			name: "through vertex",
			line: Line{A: Vec3{1, 0, 0}, B: Vec3{}},
			want: true,
		},
		{
			name: "through edge midpoint",
			line: Line{A: Vec3{0.5, 0.5, 0}, B: Vec3{}},
			want: true,
		},
		{
			name: "misses triangle",
			line: Line{A: Vec3{-1, -1, 3}, B: Vec3{}},
			want: false,
		},
		{
			name: "behind origin still hits",
			// The line is infinite, so the antipodal direction hits too.
			line: Line{A: Vec3{-1, -1, -1}, B: Vec3{}},
			want: true,
		},
		{
			name: "parallel to plane",
			// Direction (1,-1,0) has zero dot with the plane normal.
			line: Line{A: Vec3{2, 0, 0}, B: Vec3{1, 1, 0}},
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := LineHitsTriangle(tc.line, tri); got != tc.want {
				t.Errorf("LineHitsTriangle = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFaceOfOctahedron(t *testing.T) {
	octa := Octahedron()

	tests := []struct {
		name string
		p    Vec3
		want int
	}{
		{"first octant", Vec3{1, 1, 1}, 0},
		{"north pole hits first matching face", Vec3{0, 1, 0}, 0},
		{"south pole", Vec3{0, -1, 0}, 2},
		{"negative octant interior", Vec3{-0.5, -0.5, -0.5}, 7},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FaceOf(octa, tc.p)
			if got != tc.want {
				t.Errorf("FaceOf(%v) = %d, want %d", tc.p, got, tc.want)
			}
		})
	}
}

func TestFaceOfIsDeterministic(t *testing.T) {
	tetra := Tetrahedron()
	p := Vec3{0, 1, 0} // on a tetrahedron edge
	first := FaceOf(tetra, p)
	for i := 0; i < 100; i++ {
		if got := FaceOf(tetra, p); got != first {
			t.Fatalf("FaceOf changed from %d to %d on run %d", first, got, i)
		}
	}
}

func TestFaceOfCoversSphereSamples(t *testing.T) {
	shapes := map[string]Shape{
		"tetrahedron": Tetrahedron(),
		"octahedron":  Octahedron(),
	}
	for name, shape := range shapes {
		t.Run(name, func(t *testing.T) {
			// Sweep a latitude/longitude grid of unit vectors; every one
			// must classify to some face without the fallback.
			for i := 0; i <= 20; i++ {
				for j := 0; j < 40; j++ {
					lat := -math.Pi/2 + math.Pi*float64(i)/20
					lon := 2 * math.Pi * float64(j) / 40
					p := Vec3{
						X: math.Cos(lat) * math.Cos(lon),
						Y: math.Sin(lat),
						Z: math.Cos(lat) * math.Sin(lon),
					}
					if face := FaceOf(shape, p); face < 0 {
						t.Fatalf("no face for lat %d lon %d", i, j)
					}
				}
			}
		})
	}
}

func TestFacesOfCountsBoundaries(t *testing.T) {
	octa := Octahedron()

	interior := FacesOf(octa, Vec3{0.5, 0.3, 0.2}.Normalize())
	if len(interior) != 1 {
		t.Errorf("interior point hit %d faces, want exactly 1", len(interior))
	}

	onEdge := FacesOf(octa, Vec3{1, 1, 0}.Normalize())
	if len(onEdge) < 2 {
		t.Errorf("edge point hit %d faces, want at least 2", len(onEdge))
	}
}

func TestNearestFace(t *testing.T) {
	octa := Octahedron()
	for i, f := range octa.Faces {
		c := f.Center()
		if got := NearestFace(octa, c); got != i {
			t.Errorf("NearestFace(center of %d) = %d", i, got)
		}
	}
}
