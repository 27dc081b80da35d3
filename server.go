package main

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gorilla/websocket"

	"geof/config"
	"geof/engine"
	"geof/mesh"
	"geof/pattern"
)

// MeshMessage carries the static geometry, sent once per client.
type MeshMessage struct {
	Type         string      `json:"type"`
	Divisions    int         `json:"divisions"`
	Position     []float32   `json:"position"`
	Normal       []float32   `json:"normal"`
	Index        []uint32    `json:"index"`
	VertexOrder  map[int]int `json:"vertexOrder"`
	WirePosition []float32   `json:"wirePosition"`
	WireIndex    []uint32    `json:"wireIndex"`
}

// FieldMessage carries one frame of per-field colours, dense by
// flattened field index.
type FieldMessage struct {
	Type    string     `json:"type"`
	Pattern string     `json:"pattern"`
	Colors  [][3]uint8 `json:"colors"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

type server struct {
	cfg   config.Settings
	coord *engine.Coordinator
	msh   *mesh.Mesh
	wire  *mesh.Wire

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
	active  string
}

func startServer(cfg config.Settings) {
	coord, err := engine.CreateSphere(cfg.Sphere.Divisions, engine.Options{
		Panels:       cfg.Engine.Panels,
		FrameTimeout: cfg.FrameTimeout(),
	})
	if err != nil {
		log.Fatalf("Failed to create sphere: %v", err)
	}

	srv := &server{
		cfg:     cfg,
		coord:   coord,
		msh:     mesh.Build(coord.Sphere()),
		wire:    mesh.Wireframe(coord.Sphere()),
		clients: make(map[*websocket.Conn]*sync.Mutex),
		active:  cfg.Sphere.Pattern,
	}

	fmt.Printf("Sphere %d ready: %d fields, %d panels\n",
		coord.ID(), coord.Sphere().FieldCount(), coord.PanelCount())

	go srv.frameLoop()

	http.HandleFunc("/ws", srv.handleWebSocket)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("Server starting on http://localhost%s\n", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}

func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	s.mu.Lock()
	s.clients[conn] = connMutex
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	// Static geometry first; colour frames follow from the broadcast
	// loop.
	connMutex.Lock()
	err = conn.WriteJSON(MeshMessage{
		Type:         "mesh",
		Divisions:    s.cfg.Sphere.Divisions,
		Position:     s.msh.Position,
		Normal:       s.msh.Normal,
		Index:        s.msh.Index,
		VertexOrder:  s.msh.VertexOrder,
		WirePosition: s.wire.Position,
		WireIndex:    s.wire.Index,
	})
	connMutex.Unlock()
	if err != nil {
		log.Println("WebSocket write error:", err)
		return
	}

	for {
		var msg map[string]interface{}
		if err := conn.ReadJSON(&msg); err != nil {
			log.Println("WebSocket read error:", err)
			break
		}
		if name, ok := msg["pattern"].(string); ok {
			if _, err := engine.ResolveFunc(pattern.Module, name); err != nil {
				log.Printf("Ignoring unknown pattern %q", name)
				continue
			}
			s.mu.Lock()
			s.active = name
			s.mu.Unlock()
			fmt.Printf("PATTERN CHANGE: %s\n", name)
		}
	}
}

// frameLoop runs the active pattern as an engine frame on every tick and
// broadcasts the resulting colours.
func (s *server) frameLoop() {
	ticker := time.NewTicker(s.cfg.UpdateInterval())
	defer ticker.Stop()

	reply := make(chan engine.FrameResult, 1)
	for range ticker.C {
		s.mu.RLock()
		name := s.active
		noClients := len(s.clients) == 0
		s.mu.RUnlock()
		if noClients {
			continue
		}

		fn, err := engine.ResolveFunc(pattern.Module, name)
		if err != nil {
			log.Printf("Pattern vanished from registry: %v", err)
			continue
		}
		if err := s.coord.StartFrame(fn, s.coord.Sphere(), reply); err != nil {
			log.Printf("Frame rejected: %v", err)
			continue
		}
		if res := <-reply; res.Err != nil {
			log.Printf("Frame failed: %v", res.Err)
			continue
		}

		data, err := s.coord.AllFieldData()
		if err != nil {
			log.Printf("Snapshot failed: %v", err)
			continue
		}
		s.broadcast(name, data)
	}
}

func (s *server) broadcast(name string, data map[int]any) {
	colors := make([][3]uint8, s.coord.Sphere().FieldCount())
	for flat, v := range data {
		if c, ok := v.(rl.Color); ok {
			colors[flat] = [3]uint8{c.R, c.G, c.B}
		}
	}
	msg := FieldMessage{Type: "fields", Pattern: name, Colors: colors}

	s.mu.RLock()
	var failed []*websocket.Conn
	for client, mutex := range s.clients {
		mutex.Lock()
		err := client.WriteJSON(msg)
		mutex.Unlock()
		if err != nil {
			log.Println("WebSocket write error:", err)
			client.Close()
			failed = append(failed, client)
		}
	}
	s.mu.RUnlock()

	if len(failed) > 0 {
		s.mu.Lock()
		for _, client := range failed {
			delete(s.clients, client)
		}
		s.mu.Unlock()
	}
}
