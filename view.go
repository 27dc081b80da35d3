package main

import (
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"

	"geof/config"
	"geof/engine"
	"geof/mesh"
	"geof/pattern"
	"geof/sphere"
)

const viewRadius = 2.0

// runViewer opens a native window with an orbit camera and draws the
// coloured field mesh of the configured pattern. Number keys switch
// patterns; W toggles the wireframe overlay.
func runViewer(cfg config.Settings) {
	coord, err := engine.CreateSphere(cfg.Sphere.Divisions, engine.Options{
		Panels:       cfg.Engine.Panels,
		FrameTimeout: cfg.FrameTimeout(),
	})
	if err != nil {
		log.Fatalf("Failed to create sphere: %v", err)
	}
	defer coord.Close()

	sph := coord.Sphere()
	msh := mesh.Build(sph)
	wire := mesh.Wireframe(sph)

	colors, err := runPatternFrame(coord, cfg.Sphere.Pattern)
	if err != nil {
		log.Fatalf("Pattern %q failed: %v", cfg.Sphere.Pattern, err)
	}

	rl.InitWindow(1280, 720, "geof viewer")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	camera := rl.Camera3D{
		Position:   rl.NewVector3(0, 1.2, viewRadius*1.8),
		Target:     rl.NewVector3(0, 0, 0),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}

	showWire := true
	for !rl.WindowShouldClose() {
		rl.UpdateCamera(&camera, rl.CameraOrbital)

		if rl.IsKeyPressed(rl.KeyW) {
			showWire = !showWire
		}
		for key, name := range map[int32]string{
			rl.KeyOne:   "highlight_icosahedron",
			rl.KeyTwo:   "tetrahedron",
			rl.KeyThree: "octahedron",
		} {
			if rl.IsKeyPressed(key) {
				if next, err := runPatternFrame(coord, name); err == nil {
					colors = next
				} else {
					log.Printf("Pattern %q failed: %v", name, err)
				}
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		rl.BeginMode3D(camera)
		drawFieldMesh(sph, msh, colors)
		if showWire {
			drawWireframe(wire)
		}
		rl.EndMode3D()
		rl.DrawFPS(10, 10)
		rl.EndDrawing()
	}
}

func runPatternFrame(coord *engine.Coordinator, name string) (map[int]rl.Color, error) {
	fn, err := engine.ResolveFunc(pattern.Module, name)
	if err != nil {
		return nil, err
	}
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
	colors := make(map[int]rl.Color, len(data))
	for flat, v := range data {
		if c, ok := v.(rl.Color); ok {
			colors[flat] = c
		}
	}
	return colors, nil
}

func meshVertex(m *mesh.Mesh, i uint32) rl.Vector3 {
	return rl.NewVector3(
		m.Position[3*i]*viewRadius,
		m.Position[3*i+1]*viewRadius,
		m.Position[3*i+2]*viewRadius,
	)
}

// drawFieldMesh draws every field's fan in its frame colour. Triangles
// are emitted per field via VertexOrder so each polygon gets one flat
// colour.
func drawFieldMesh(sph *sphere.Sphere, m *mesh.Mesh, colors map[int]rl.Color) {
	for flat, base := range m.VertexOrder {
		col, ok := colors[flat]
		if !ok {
			col = rl.Gray
		}
		n := uint32(6)
		if sphere.Pentagonal(sph.Unflatten(flat), sph.Divisions) {
			n = 5
		}
		b := uint32(base)
		for i := uint32(0); i < n; i++ {
			// Counter-clockwise from outside so the face is not culled.
			rl.DrawTriangle3D(
				meshVertex(m, b),
				meshVertex(m, b+1+(i+1)%n),
				meshVertex(m, b+1+i),
				col,
			)
		}
	}
}

func drawWireframe(w *mesh.Wire) {
	for i := 0; i+1 < len(w.Index); i += 2 {
		a, b := w.Index[i], w.Index[i+1]
		rl.DrawLine3D(
			rl.NewVector3(w.Position[3*a]*viewRadius*1.001, w.Position[3*a+1]*viewRadius*1.001, w.Position[3*a+2]*viewRadius*1.001),
			rl.NewVector3(w.Position[3*b]*viewRadius*1.001, w.Position[3*b+1]*viewRadius*1.001, w.Position[3*b+2]*viewRadius*1.001),
			rl.White,
		)
	}
}
