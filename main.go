package main

import (
	"flag"
	"fmt"
	"log"

	"geof/config"
	"geof/engine"
	"geof/pattern"
	"geof/sphere"
)

func main() {
	var (
		settingsPath = flag.String("settings", "settings.json", "Settings file")
		divisions    = flag.Int("divisions", 0, "Edge subdivisions per icosahedron edge (overrides settings)")
		patternName  = flag.String("pattern", "", "Built-in pattern to run (overrides settings)")
		serve        = flag.Bool("serve", false, "Start the websocket visualiser server")
		view         = flag.Bool("view", false, "Open the native viewer window")
	)
	flag.Parse()

	cfg, err := config.Load(*settingsPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *divisions > 0 {
		cfg.Sphere.Divisions = *divisions
	}
	if *patternName != "" {
		cfg.Sphere.Pattern = *patternName
	}

	fmt.Println("=== GEOF Geodesic Sphere Engine ===")
	fmt.Printf("Divisions: %d (%d fields)\n", cfg.Sphere.Divisions, sphere.FieldCount(cfg.Sphere.Divisions))
	fmt.Printf("Pattern: %s\n", cfg.Sphere.Pattern)

	switch {
	case *serve:
		startServer(cfg)
	case *view:
		runViewer(cfg)
	default:
		runOnce(cfg)
	}
}

// runOnce executes the configured pattern frame once and prints a
// summary, which doubles as a smoke test of the whole engine.
func runOnce(cfg config.Settings) {
	coord, err := engine.CreateSphere(cfg.Sphere.Divisions, engine.Options{
		Panels:       cfg.Engine.Panels,
		FrameTimeout: cfg.FrameTimeout(),
	})
	if err != nil {
		log.Fatalf("Failed to create sphere: %v", err)
	}
	defer coord.Close()
	fmt.Printf("Sphere %d: %d panels\n", coord.ID(), coord.PanelCount())

	fn, err := engine.ResolveFunc(pattern.Module, cfg.Sphere.Pattern)
	if err != nil {
		log.Fatalf("Unknown pattern: %v", err)
	}

	reply := make(chan engine.FrameResult, 1)
	if err := coord.StartFrame(fn, coord.Sphere(), reply); err != nil {
		log.Fatalf("Failed to start frame: %v", err)
	}
	if res := <-reply; res.Err != nil {
		log.Fatalf("Frame failed: %v", res.Err)
	}

	data, err := coord.AllFieldData()
	if err != nil {
		log.Fatalf("Failed to read field data: %v", err)
	}
	fmt.Printf("Frame complete: %d fields coloured\n", len(data))
}
