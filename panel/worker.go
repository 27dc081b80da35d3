package panel

import (
	"fmt"
	"sync/atomic"

	"geof/registry"
	"geof/sphere"
)

// AdjacentData carries the pre-frame values of a field's neighbours, one
// slot per direction. NE is nil and HasNE false for pentagonal fields.
type AdjacentData struct {
	NW, W, SW, SE, E, NE any
	HasNE                bool
}

// PerFieldFunc computes a field's next value from its own pre-frame value,
// its neighbours' pre-frame values and the frame-wide sphere data. It must
// not retain adj past the call.
type PerFieldFunc func(idx sphere.Index, data any, adj AdjacentData, sphereData any) (any, error)

// Signal is a worker's end-of-compute message to the coordinator. Err nil
// means the panel is ready to commit; otherwise the named field's
// evaluation failed and the frame must be aborted.
type Signal struct {
	Panel int
	Field sphere.Index
	Err   error
}

type frameStart struct {
	fn         PerFieldFunc
	sphereData any
}

type commitReq struct{ done chan struct{} }
type abortReq struct{ done chan struct{} }
type stopReq struct{ done chan struct{} }

// neighborRef locates one neighbour of an owned field: its flattened
// index and the panel that owns it.
type neighborRef struct {
	flat    int
	panel   int
	present bool
}

// fieldPlan is the precomputed per-field evaluation context.
type fieldPlan struct {
	flat int
	idx  sphere.Index
	nb   [6]neighborRef // slot order NW, W, SW, SE, E, NE
}

// Worker owns one panel: the set of fields assigned to it and their data
// double buffer. The committed buffer is published through an atomic
// pointer and never mutated, so any goroutine may read it without locks;
// the next buffer exists only between start_frame and commit and is
// written by this worker alone.
type Worker struct {
	sphereID uint64
	panel    int
	plans    []fieldPlan
	cur      atomic.Pointer[map[int]any]
	next     map[int]any
	ctl      chan any
	signals  chan<- Signal
}

// NewWorker builds and starts the worker for one panel. fields is the
// panel's flattened field set, assign the sphere-wide field-to-panel map
// and initial the starting data for every field (missing fields start
// nil). Signals from completed or failed frames are sent on signals.
func NewWorker(sphereID uint64, panelIndex int, sph *sphere.Sphere, fields []int, assign []int, initial map[int]any, signals chan<- Signal) *Worker {
	w := &Worker{
		sphereID: sphereID,
		panel:    panelIndex,
		plans:    make([]fieldPlan, 0, len(fields)),
		ctl:      make(chan any),
		signals:  signals,
	}

	buf := make(map[int]any, len(fields))
	for _, flat := range fields {
		idx := sph.Unflatten(flat)
		plan := fieldPlan{flat: flat, idx: idx}
		adj := sph.Adjacents(idx)
		for _, dir := range sphere.Directions {
			nidx, ok := adj.At(dir)
			if !ok {
				continue
			}
			nflat := sph.Flatten(nidx)
			plan.nb[dir] = neighborRef{flat: nflat, panel: assign[nflat], present: true}
		}
		w.plans = append(w.plans, plan)
		buf[flat] = initial[flat]
	}
	w.cur.Store(&buf)

	go w.run()
	return w
}

// FieldData returns the committed value of one owned field. Safe to call
// from any goroutine at any time; during a frame it still serves the
// pre-frame buffer.
func (w *Worker) FieldData(flat int) (any, bool) {
	v, ok := (*w.cur.Load())[flat]
	return v, ok
}

// SnapshotInto copies the committed value of every owned field into dst.
func (w *Worker) SnapshotInto(dst map[int]any) {
	for flat, v := range *w.cur.Load() {
		dst[flat] = v
	}
}

// FieldCount returns the number of fields owned by this panel.
func (w *Worker) FieldCount() int {
	return len(w.plans)
}

// StartFrame tells the worker to compute the next buffer. The worker
// answers with exactly one Signal on its signals channel.
func (w *Worker) StartFrame(fn PerFieldFunc, sphereData any) {
	w.ctl <- frameStart{fn: fn, sphereData: sphereData}
}

// Commit atomically publishes the next buffer as current and returns once
// the swap is visible. Only valid after the worker signalled readiness.
func (w *Worker) Commit() {
	done := make(chan struct{})
	w.ctl <- commitReq{done: done}
	<-done
}

// Abort discards the next buffer, keeping the pre-frame state. Only valid
// after the worker signalled.
func (w *Worker) Abort() {
	done := make(chan struct{})
	w.ctl <- abortReq{done: done}
	<-done
}

// Stop terminates the worker goroutine. The committed buffer stays
// readable.
func (w *Worker) Stop() {
	done := make(chan struct{})
	w.ctl <- stopReq{done: done}
	<-done
}

func (w *Worker) run() {
	for msg := range w.ctl {
		switch m := msg.(type) {
		case frameStart:
			w.compute(m)
			if !w.waitDecision() {
				return
			}
		case stopReq:
			close(m.done)
			return
		case commitReq:
			// No frame in progress; nothing to publish.
			close(m.done)
		case abortReq:
			close(m.done)
		}
	}
}

// waitDecision blocks until the coordinator commits or aborts the frame.
// Reads keep being served from the published buffer meanwhile. Returns
// false when the worker was stopped instead.
func (w *Worker) waitDecision() bool {
	for msg := range w.ctl {
		switch m := msg.(type) {
		case commitReq:
			next := w.next
			w.next = nil
			w.cur.Store(&next)
			close(m.done)
			return true
		case abortReq:
			w.next = nil
			close(m.done)
			return true
		case stopReq:
			w.next = nil
			close(m.done)
			return false
		}
	}
	return false
}

func (w *Worker) compute(m frameStart) {
	cur := *w.cur.Load()
	next := make(map[int]any, len(w.plans))

	for i := range w.plans {
		plan := &w.plans[i]
		adj, err := w.gather(plan, cur)
		if err == nil {
			var val any
			val, err = evalField(m.fn, plan.idx, cur[plan.flat], adj, m.sphereData)
			next[plan.flat] = val
		}
		if err != nil {
			w.next = next
			w.signals <- Signal{Panel: w.panel, Field: plan.idx, Err: err}
			return
		}
	}

	w.next = next
	w.signals <- Signal{Panel: w.panel}
}

// gather collects the pre-frame neighbour values of one field. Own-panel
// neighbours read the local buffer; the rest go through the registry to
// the owning panel's published buffer, which is not replaced until the
// coordinator commits the frame, after every panel has signalled.
func (w *Worker) gather(plan *fieldPlan, cur map[int]any) (AdjacentData, error) {
	var adj AdjacentData
	for _, dir := range sphere.Directions {
		ref := plan.nb[dir]
		if !ref.present {
			continue
		}
		var val any
		if ref.panel == w.panel {
			val = cur[ref.flat]
		} else {
			peer, ok := registry.Panel(w.sphereID, ref.panel)
			if !ok {
				return AdjacentData{}, fmt.Errorf("panel %d of sphere %d not registered", ref.panel, w.sphereID)
			}
			val, _ = peer.FieldData(ref.flat)
		}
		switch dir {
		case sphere.NW:
			adj.NW = val
		case sphere.W:
			adj.W = val
		case sphere.SW:
			adj.SW = val
		case sphere.SE:
			adj.SE = val
		case sphere.E:
			adj.E = val
		case sphere.NE:
			adj.NE = val
			adj.HasNE = true
		}
	}
	return adj, nil
}

// evalField runs the user function, turning a panic into an error so one
// bad field aborts the frame instead of the process.
func evalField(fn PerFieldFunc, idx sphere.Index, data any, adj AdjacentData, sphereData any) (val any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in per-field function: %v", r)
		}
	}()
	return fn(idx, data, adj, sphereData)
}
