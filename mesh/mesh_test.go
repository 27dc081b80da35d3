package mesh

import (
	"math"
	"testing"

	"geof/sphere"
)

func buildSphere(t *testing.T, d int) *sphere.Sphere {
	t.Helper()
	sph, err := sphere.New(d)
	if err != nil {
		t.Fatal(err)
	}
	return sph
}

func TestBuildCounts(t *testing.T) {
	for _, d := range []int{1, 2, 3, 8} {
		sph := buildSphere(t, d)
		m := Build(sph)

		fields := sphere.FieldCount(d)
		hexagons := fields - 12
		wantVerts := 12*(1+5) + hexagons*(1+6)
		wantTris := TriangleCount(d)

		if got := len(m.Position) / 3; got != wantVerts {
			t.Errorf("d=%d: %d vertices, want %d", d, got, wantVerts)
		}
		if len(m.Normal) != len(m.Position) {
			t.Errorf("d=%d: normal/position length mismatch", d)
		}
		if got := len(m.Index) / 3; got != wantTris {
			t.Errorf("d=%d: %d triangles, want %d", d, got, wantTris)
		}
		if len(m.VertexOrder) != fields {
			t.Errorf("d=%d: vertex order has %d fields", d, len(m.VertexOrder))
		}
	}
}

func TestBuildIndicesInRange(t *testing.T) {
	sph := buildSphere(t, 2)
	m := Build(sph)
	verts := uint32(len(m.Position) / 3)
	for _, i := range m.Index {
		if i >= verts {
			t.Fatalf("index %d out of %d vertices", i, verts)
		}
	}
}

func TestBuildVerticesOnUnitSphere(t *testing.T) {
	sph := buildSphere(t, 3)
	m := Build(sph)
	for i := 0; i+2 < len(m.Position); i += 3 {
		l := math.Sqrt(float64(
			m.Position[i]*m.Position[i] +
				m.Position[i+1]*m.Position[i+1] +
				m.Position[i+2]*m.Position[i+2]))
		if math.Abs(l-1) > 1e-5 {
			t.Fatalf("vertex %d has length %v", i/3, l)
		}
	}
}

func TestVertexOrderFanSizes(t *testing.T) {
	d := 2
	sph := buildSphere(t, d)
	m := Build(sph)

	// Each field's block is 1 centre + ring; blocks are contiguous, so
	// the gap to the next offset reveals the polygon size.
	offsets := make([]int, 0, len(m.VertexOrder))
	byOffset := make(map[int]int)
	for flat, off := range m.VertexOrder {
		offsets = append(offsets, off)
		byOffset[off] = flat
	}
	totalVerts := len(m.Position) / 3

	for off, flat := range byOffset {
		next := totalVerts
		for _, o := range offsets {
			if o > off && o < next {
				next = o
			}
		}
		block := next - off
		want := 7
		if sphere.Pentagonal(sph.Unflatten(flat), d) {
			want = 6
		}
		if block != want {
			t.Errorf("field %d has a block of %d vertices, want %d", flat, block, want)
		}
	}
}

func TestWireframeCounts(t *testing.T) {
	for _, d := range []int{1, 2, 4} {
		sph := buildSphere(t, d)
		w := Wireframe(sph)

		hexagons := sphere.FieldCount(d) - 12
		wantEdges := 12*5 + hexagons*6
		if got := len(w.Index) / 2; got != wantEdges {
			t.Errorf("d=%d: %d edges, want %d", d, got, wantEdges)
		}
		if got := len(w.Position) / 3; got != wantEdges {
			t.Errorf("d=%d: %d wire vertices, want %d", d, got, wantEdges)
		}
	}
}
