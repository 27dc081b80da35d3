// Package pattern ships the built-in demonstration frames. Each pattern
// is an ordinary per-field function registered in the engine's function
// registry, so the visualiser can start them by name; the top-level
// helpers run one frame on a throwaway sphere and collect the colours.
package pattern

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"geof/engine"
	"geof/geom"
	"geof/panel"
	"geof/sphere"
)

// Module is the registry module name of the built-in patterns.
const Module = "geof.pattern"

// Face palettes. The last entry of each marks fields whose centroid sits
// on a face boundary of the classification shape.
var (
	tetraPalette = [5]rl.Color{rl.Red, rl.Gold, rl.Lime, rl.SkyBlue, rl.White}
	octaPalette  = [9]rl.Color{
		rl.Red, rl.Orange, rl.Gold, rl.Lime,
		rl.SkyBlue, rl.Blue, rl.Purple, rl.Pink,
		rl.White,
	}

	pentagonColor = rl.Gold
	seamColor     = rl.Maroon
	baseColor     = rl.DarkBlue
)

func init() {
	engine.RegisterFunc(Module, "highlight_icosahedron", HighlightIcosahedronField)
	engine.RegisterFunc(Module, "tetrahedron", TetrahedronField)
	engine.RegisterFunc(Module, "octahedron", OctahedronField)
}

// shapeColor classifies the field centroid against shape and returns the
// palette colour of the face, or the final palette entry when the
// centroid lies on a boundary between faces (two or more hits).
func shapeColor(sph *sphere.Sphere, flat int, shape geom.Shape, palette []rl.Color) rl.Color {
	hits := geom.FacesOf(shape, sph.CentroidOf(flat))
	switch {
	case len(hits) == 0:
		return palette[geom.NearestFace(shape, sph.CentroidOf(flat))]
	case len(hits) > 1:
		return palette[len(palette)-1]
	default:
		return palette[hits[0]]
	}
}

// TetrahedronField colours a field by the tetrahedron face of its
// centroid.
func TetrahedronField(idx sphere.Index, _ any, _ panel.AdjacentData, sphereData any) (any, error) {
	sph := sphereData.(*sphere.Sphere)
	return shapeColor(sph, sph.Flatten(idx), geom.Tetrahedron(), tetraPalette[:]), nil
}

// OctahedronField colours a field by the octahedron face of its
// centroid.
func OctahedronField(idx sphere.Index, _ any, _ panel.AdjacentData, sphereData any) (any, error) {
	sph := sphereData.(*sphere.Sphere)
	return shapeColor(sph, sph.Flatten(idx), geom.Octahedron(), octaPalette[:]), nil
}

// HighlightIcosahedronField picks out the icosahedral skeleton: the
// twelve pentagons in gold, the section seam rows in maroon and the
// interior in a dark base tone.
func HighlightIcosahedronField(idx sphere.Index, _ any, _ panel.AdjacentData, sphereData any) (any, error) {
	sph := sphereData.(*sphere.Sphere)
	switch {
	case sphere.Pentagonal(idx, sph.Divisions):
		return pentagonColor, nil
	case idx.Y == 0 || idx.X == 0:
		return seamColor, nil
	default:
		return baseColor, nil
	}
}

// Run executes one named pattern frame on a fresh sphere with d
// divisions and returns the colour of every field by flattened index.
func Run(name string, divisions int) (map[int]rl.Color, error) {
	fn, err := engine.ResolveFunc(Module, name)
	if err != nil {
		return nil, err
	}

	coord, err := engine.CreateSphere(divisions, engine.Options{})
	if err != nil {
		return nil, err
	}
	defer coord.Close()

	reply := make(chan engine.FrameResult, 1)
	if err := coord.StartFrame(fn, coord.Sphere(), reply); err != nil {
		return nil, err
	}
	if res := <-reply; res.Err != nil {
		return nil, res.Err
	}

	data, err := coord.AllFieldData()
	if err != nil {
		return nil, err
	}
	out := make(map[int]rl.Color, len(data))
	for flat, v := range data {
		c, ok := v.(rl.Color)
		if !ok {
			return nil, fmt.Errorf("pattern: field %d produced %T, want color", flat, v)
		}
		out[flat] = c
	}
	return out, nil
}

// HighlightIcosahedron renders the icosahedron-skeleton pattern.
func HighlightIcosahedron(divisions int) (map[int]rl.Color, error) {
	return Run("highlight_icosahedron", divisions)
}

// Tetrahedron renders the tetrahedron-face pattern.
func Tetrahedron(divisions int) (map[int]rl.Color, error) {
	return Run("tetrahedron", divisions)
}

// Octahedron renders the octahedron-face pattern.
func Octahedron(divisions int) (map[int]rl.Color, error) {
	return Run("octahedron", divisions)
}
