// Package config loads settings.json and applies defaults for everything
// it does not set.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type Settings struct {
	Sphere Sphere `json:"sphere"`
	Server Server `json:"server"`
	Engine Engine `json:"engine"`
}

type Sphere struct {
	Divisions int    `json:"divisions"`
	Pattern   string `json:"pattern"`
}

type Server struct {
	Port             int `json:"port"`
	UpdateIntervalMs int `json:"updateIntervalMs"`
}

type Engine struct {
	// Panels forces the panel count (4 or 8); zero picks by hardware
	// parallelism.
	Panels              int `json:"panels"`
	FrameTimeoutMs      int `json:"frameTimeoutMs"`
	InactivityTimeoutMs int `json:"inactivityTimeoutMs"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Sphere: Sphere{
			Divisions: 16,
			Pattern:   "highlight_icosahedron",
		},
		Server: Server{
			Port:             8080,
			UpdateIntervalMs: 100,
		},
		Engine: Engine{
			FrameTimeoutMs:      30000,
			InactivityTimeoutMs: 60000,
		},
	}
}

// Load reads the given settings file on top of the defaults. A missing
// file is not an error; the defaults apply.
func Load(path string) (Settings, error) {
	s := Default()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&s); err != nil {
		return s, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return s, nil
}

func (s Settings) FrameTimeout() time.Duration {
	return time.Duration(s.Engine.FrameTimeoutMs) * time.Millisecond
}

func (s Settings) InactivityTimeout() time.Duration {
	return time.Duration(s.Engine.InactivityTimeoutMs) * time.Millisecond
}

func (s Settings) UpdateInterval() time.Duration {
	return time.Duration(s.Server.UpdateIntervalMs) * time.Millisecond
}
