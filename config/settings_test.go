package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatal(err)
	}
	if s != Default() {
		t.Errorf("missing file settings = %+v, want defaults", s)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	body := `{
		"sphere": {"divisions": 8, "pattern": "octahedron"},
		"server": {"port": 9999, "updateIntervalMs": 250},
		"engine": {"panels": 4, "frameTimeoutMs": 1000, "inactivityTimeoutMs": 2000}
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Sphere.Divisions != 8 || s.Sphere.Pattern != "octahedron" {
		t.Errorf("sphere settings = %+v", s.Sphere)
	}
	if s.Server.Port != 9999 {
		t.Errorf("port = %d", s.Server.Port)
	}
	if s.Engine.Panels != 4 {
		t.Errorf("panels = %d", s.Engine.Panels)
	}
	if s.FrameTimeout() != time.Second || s.InactivityTimeout() != 2*time.Second {
		t.Errorf("timeouts = %v, %v", s.FrameTimeout(), s.InactivityTimeout())
	}
	if s.UpdateInterval() != 250*time.Millisecond {
		t.Errorf("update interval = %v", s.UpdateInterval())
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("bad JSON accepted")
	}
}
