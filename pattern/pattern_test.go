package pattern

import (
	"errors"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"geof/engine"
	"geof/sphere"
)

func paletteSet(palette []rl.Color) map[rl.Color]bool {
	set := make(map[rl.Color]bool, len(palette))
	for _, c := range palette {
		set[c] = true
	}
	return set
}

// TestTetrahedronMinimalSphere is the d=1 scenario: twelve pentagonal
// fields, every colour drawn from the five-colour tetrahedron palette.
func TestTetrahedronMinimalSphere(t *testing.T) {
	colors, err := Tetrahedron(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(colors) != 12 {
		t.Fatalf("got %d entries, want 12", len(colors))
	}
	allowed := paletteSet(tetraPalette[:])
	for flat, c := range colors {
		if !allowed[c] {
			t.Errorf("field %d coloured %v, outside the palette", flat, c)
		}
	}
}

func TestOctahedronPaletteAndCoverage(t *testing.T) {
	const d = 3
	colors, err := Octahedron(d)
	if err != nil {
		t.Fatal(err)
	}
	if len(colors) != sphere.FieldCount(d) {
		t.Fatalf("got %d entries, want %d", len(colors), sphere.FieldCount(d))
	}

	allowed := paletteSet(octaPalette[:])
	used := make(map[rl.Color]bool)
	for flat, c := range colors {
		if !allowed[c] {
			t.Fatalf("field %d coloured %v, outside the palette", flat, c)
		}
		used[c] = true
	}
	// All eight faces show up at this resolution.
	for i, c := range octaPalette[:8] {
		if !used[c] {
			t.Errorf("face colour %d never used", i)
		}
	}
}

func TestHighlightIcosahedron(t *testing.T) {
	const d = 4
	colors, err := HighlightIcosahedron(d)
	if err != nil {
		t.Fatal(err)
	}

	pentagons := 0
	for flat, c := range colors {
		idx := sphere.Unflatten(flat, d)
		switch {
		case sphere.Pentagonal(idx, d):
			pentagons++
			if c != pentagonColor {
				t.Errorf("pentagon %v coloured %v", idx, c)
			}
		case idx.Y == 0 || idx.X == 0:
			if c != seamColor {
				t.Errorf("seam field %v coloured %v", idx, c)
			}
		default:
			if c != baseColor {
				t.Errorf("interior field %v coloured %v", idx, c)
			}
		}
	}
	if pentagons != 12 {
		t.Errorf("%d pentagons coloured, want 12", pentagons)
	}
}

func TestRunUnknownPattern(t *testing.T) {
	if _, err := Run("no_such_pattern", 2); !errors.Is(err, engine.ErrUnknownFunctionRef) {
		t.Errorf("Run error = %v, want ErrUnknownFunctionRef", err)
	}
}

func TestPatternsAreRegistered(t *testing.T) {
	for _, name := range []string{"highlight_icosahedron", "tetrahedron", "octahedron"} {
		if _, err := engine.ResolveFunc(Module, name); err != nil {
			t.Errorf("pattern %q not registered: %v", name, err)
		}
	}
}
