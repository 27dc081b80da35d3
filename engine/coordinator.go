// Package engine runs the per-sphere frame loop: one coordinator
// goroutine per sphere and one worker per panel, coupled only by
// messages. A frame broadcasts a per-field function to every panel,
// waits for the full ready set, commits every panel's next buffer in a
// synchronous round-trip and then reports frame completion, so a reader
// that saw the completion event observes the post-frame state from every
// panel.
package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"geof/panel"
	"geof/registry"
	"geof/sphere"
)

// SphereID identifies one live sphere. Ids are process-unique and never
// reused.
type SphereID uint64

var lastSphereID atomic.Uint64

// EventType classifies parent notifications.
type EventType uint8

const (
	// EventInactive signals that no operation arrived within the
	// configured inactivity timeout. Soft signal; the sphere keeps its
	// state and resumes on the next operation.
	EventInactive EventType = iota
	// EventDown signals that the sphere died of a frame timeout.
	EventDown
)

// Event is a notification to the parent channel.
type Event struct {
	Type   EventType
	Sphere SphereID
}

// FrameResult is the frame-complete notification. Err is nil for a
// committed frame, a *FieldEvalError for an aborted one,
// ErrFrameTimeout when the sphere died and ErrSphereDown when the sphere
// was closed before the frame completed.
type FrameResult struct {
	Sphere SphereID
	Err    error
}

// Options configures sphere creation.
type Options struct {
	// Panels overrides the panel count (4 or 8). Zero picks by
	// available hardware parallelism.
	Panels int
	// InitialData seeds each field's value. Nil leaves all fields nil.
	InitialData func(idx sphere.Index) any
	// FrameTimeout is the wall-clock budget per frame. On expiry the
	// sphere is torn down. Zero disables the timeout.
	FrameTimeout time.Duration
	// InactivityTimeout hibernates the sphere after a quiet period,
	// notifying Events. Zero disables hibernation.
	InactivityTimeout time.Duration
	// Events receives EventInactive and EventDown notifications.
	// Delivery is best effort; a full channel drops the event.
	Events chan<- Event
}

// Coordinator owns one sphere: its topology record, panel assignment and
// worker handles. All operations are serialised through the coordinator
// goroutine.
type Coordinator struct {
	id      SphereID
	sph     *sphere.Sphere
	assign  []int
	workers []*panel.Worker
	opts    Options

	req     chan any
	signals chan panel.Signal
}

type startReq struct {
	fn     panel.PerFieldFunc
	data   any
	dataFn SphereDataFunc
	reply  chan<- FrameResult
	resp   chan error
}

type getAllResp struct {
	data map[int]any
	err  error
}

type getAllReq struct{ resp chan getAllResp }
type inFrameReq struct{ resp chan bool }
type hibernatedReq struct{ resp chan bool }
type closeReq struct{ resp chan struct{} }

// CreateSphere computes centroids, partitions the fields into panels,
// spawns the workers and registers the sphere. The returned coordinator
// is ready for frames.
func CreateSphere(divisions int, opts Options) (*Coordinator, error) {
	sph, err := sphere.New(divisions)
	if err != nil {
		return nil, err
	}

	n := opts.Panels
	if n == 0 {
		n = panel.ChoosePanelCount()
	}
	assign, fields, err := panel.Partition(sph, n)
	if err != nil {
		return nil, err
	}

	initial := make(map[int]any, sph.FieldCount())
	if opts.InitialData != nil {
		sphere.ForAllFields(divisions, func(idx sphere.Index) {
			initial[sph.Flatten(idx)] = opts.InitialData(idx)
		})
	}

	c := &Coordinator{
		id:      SphereID(lastSphereID.Add(1)),
		sph:     sph,
		assign:  assign,
		opts:    opts,
		req:     make(chan any),
		signals: make(chan panel.Signal, n),
	}
	for p := 0; p < n; p++ {
		w := panel.NewWorker(uint64(c.id), p, sph, fields[p], assign, initial, c.signals)
		c.workers = append(c.workers, w)
		registry.PutPanel(uint64(c.id), p, w)
	}
	registry.PutSphere(uint64(c.id), c)

	go c.run()
	return c, nil
}

// Lookup finds a live sphere's coordinator by id.
func Lookup(id SphereID) (*Coordinator, error) {
	h, ok := registry.Sphere(uint64(id))
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSphere, id)
	}
	return h.(*Coordinator), nil
}

// ID returns the sphere id.
func (c *Coordinator) ID() SphereID { return c.id }

// Divisions returns the sphere's division count.
func (c *Coordinator) Divisions() int { return c.sph.Divisions }

// PanelCount returns the number of panels.
func (c *Coordinator) PanelCount() int { return len(c.workers) }

// Sphere returns the immutable topology record.
func (c *Coordinator) Sphere() *sphere.Sphere { return c.sph }

// PanelOf returns the panel owning the field with the given flattened
// index.
func (c *Coordinator) PanelOf(flat int) int { return c.assign[flat] }

// InFrame reports whether a frame is currently running.
func (c *Coordinator) InFrame() bool {
	r := inFrameReq{resp: make(chan bool)}
	c.req <- r
	return <-r.resp
}

// Hibernated reports whether the sphere is in its inactivity state.
func (c *Coordinator) Hibernated() bool {
	r := hibernatedReq{resp: make(chan bool)}
	c.req <- r
	return <-r.resp
}

// StartFrame begins a frame with literal sphere data. The frame-complete
// notification is sent on reply, which should be buffered; exactly one
// FrameResult is delivered per accepted start.
func (c *Coordinator) StartFrame(fn panel.PerFieldFunc, data any, reply chan<- FrameResult) error {
	r := startReq{fn: fn, data: data, reply: reply, resp: make(chan error)}
	c.req <- r
	return <-r.resp
}

// StartFrameWith begins a frame, evaluating dataFn once to obtain the
// sphere data before the start is broadcast.
func (c *Coordinator) StartFrameWith(fn panel.PerFieldFunc, dataFn SphereDataFunc, reply chan<- FrameResult) error {
	r := startReq{fn: fn, dataFn: dataFn, reply: reply, resp: make(chan error)}
	c.req <- r
	return <-r.resp
}

// StartFrameRef begins a frame from registered function names, resolving
// the per-field function and, when dataModule is non-empty, the
// sphere-data function.
func (c *Coordinator) StartFrameRef(module, name string, dataModule, dataName string, reply chan<- FrameResult) error {
	fn, err := ResolveFunc(module, name)
	if err != nil {
		return err
	}
	if dataModule == "" {
		return c.StartFrame(fn, nil, reply)
	}
	dataFn, err := ResolveDataFunc(dataModule, dataName)
	if err != nil {
		return err
	}
	return c.StartFrameWith(fn, dataFn, reply)
}

// AllFieldData merges every panel's snapshot into one map keyed by
// flattened field index. Safe at any time; during a frame it returns the
// pre-frame state.
func (c *Coordinator) AllFieldData() (map[int]any, error) {
	r := getAllReq{resp: make(chan getAllResp)}
	c.req <- r
	res := <-r.resp
	return res.data, res.err
}

// Close removes the sphere from the registry and stops the workers. A
// frame in progress is not waited for: its workers are abandoned rather
// than stopped, and its reply channel receives ErrSphereDown.
func (c *Coordinator) Close() {
	r := closeReq{resp: make(chan struct{})}
	c.req <- r
	<-r.resp
}

func (c *Coordinator) run() {
	var (
		inFrame    bool
		dead       bool
		hibernated bool
		ready      int
		failure    error
		replyTo    chan<- FrameResult
		frameTimer *time.Timer
		frameC     <-chan time.Time
		idleTimer  *time.Timer
		idleC      <-chan time.Time
	)

	if c.opts.InactivityTimeout > 0 {
		idleTimer = time.NewTimer(c.opts.InactivityTimeout)
		idleC = idleTimer.C
	}
	resetIdle := func() {
		hibernated = false
		if idleTimer == nil {
			return
		}
		if !idleTimer.Stop() {
			select {
			case <-idleTimer.C:
			default:
			}
		}
		idleTimer.Reset(c.opts.InactivityTimeout)
	}
	stopFrameTimer := func() {
		if frameTimer != nil {
			frameTimer.Stop()
			frameTimer = nil
			frameC = nil
		}
	}

	for {
		select {
		case msg := <-c.req:
			// Introspection does not count as activity; everything
			// else resets the inactivity clock and leaves hibernation.
			switch msg.(type) {
			case inFrameReq, hibernatedReq:
			default:
				resetIdle()
			}
			switch m := msg.(type) {
			case startReq:
				switch {
				case dead:
					m.resp <- ErrSphereDown
					continue
				case inFrame:
					m.resp <- ErrAlreadyInFrame
					continue
				}
				data := m.data
				if m.dataFn != nil {
					var err error
					data, err = m.dataFn(c.sph.Divisions)
					if err != nil {
						m.resp <- fmt.Errorf("engine: sphere data function: %w", err)
						continue
					}
				}
				inFrame = true
				ready = 0
				failure = nil
				replyTo = m.reply
				if c.opts.FrameTimeout > 0 {
					frameTimer = time.NewTimer(c.opts.FrameTimeout)
					frameC = frameTimer.C
				}
				for _, w := range c.workers {
					w.StartFrame(m.fn, data)
				}
				m.resp <- nil

			case getAllReq:
				if dead {
					m.resp <- getAllResp{err: ErrSphereDown}
					continue
				}
				data := make(map[int]any, c.sph.FieldCount())
				for _, w := range c.workers {
					w.SnapshotInto(data)
				}
				m.resp <- getAllResp{data: data}

			case inFrameReq:
				m.resp <- inFrame

			case hibernatedReq:
				m.resp <- hibernated

			case closeReq:
				if !dead {
					if !inFrame {
						for _, w := range c.workers {
							w.Stop()
						}
					}
					// Closing mid-frame abandons the workers; a frame
					// cannot be cancelled.
					if inFrame && replyTo != nil {
						replyTo <- FrameResult{Sphere: c.id, Err: ErrSphereDown}
					}
					inFrame = false
					replyTo = nil
					stopFrameTimer()
					registry.Drop(uint64(c.id))
					dead = true
				}
				close(m.resp)
			}

		case sig := <-c.signals:
			if !inFrame {
				// Late signal from a dead frame.
				continue
			}
			ready++
			if sig.Err != nil && failure == nil {
				failure = &FieldEvalError{Field: sig.Field, Err: sig.Err}
			}
			if ready < len(c.workers) {
				continue
			}
			// Full ready set. Commit or roll back every panel in a
			// synchronous round-trip before reporting completion.
			if failure == nil {
				for _, w := range c.workers {
					w.Commit()
				}
			} else {
				for _, w := range c.workers {
					w.Abort()
				}
			}
			stopFrameTimer()
			inFrame = false
			if replyTo != nil {
				replyTo <- FrameResult{Sphere: c.id, Err: failure}
				replyTo = nil
			}

		case <-frameC:
			// Fatal: a panel never reported. Abandon the workers (one
			// of them is stuck inside the user function), unregister
			// and refuse everything from here on.
			frameTimer = nil
			frameC = nil
			inFrame = false
			dead = true
			registry.Drop(uint64(c.id))
			c.emit(Event{Type: EventDown, Sphere: c.id})
			if replyTo != nil {
				replyTo <- FrameResult{Sphere: c.id, Err: ErrFrameTimeout}
				replyTo = nil
			}

		case <-idleC:
			if !inFrame && !dead && !hibernated {
				hibernated = true
				c.emit(Event{Type: EventInactive, Sphere: c.id})
			}
		}
	}
}

// emit delivers a parent notification without ever blocking the
// coordinator.
func (c *Coordinator) emit(ev Event) {
	if c.opts.Events == nil {
		return
	}
	select {
	case c.opts.Events <- ev:
	default:
	}
}
