// Package registry is the process-wide directory of running spheres. It
// maps sphere ids to their coordinator handles and (sphere id, panel
// index) pairs to the panel workers, so that any component can reach a
// panel's published field data without holding a reference chain.
package registry

import "sync"

// FieldReader is the read side of a panel worker: lock-free access to the
// panel's committed field data.
type FieldReader interface {
	// FieldData returns the current value of the field with the given
	// flattened index, if this panel owns it.
	FieldData(flat int) (any, bool)
	// SnapshotInto copies every owned field's current value into dst.
	SnapshotInto(dst map[int]any)
}

type panelKey struct {
	sphere uint64
	panel  int
}

var (
	mu      sync.RWMutex
	panels  = make(map[panelKey]FieldReader)
	spheres = make(map[uint64]any)
)

// PutPanel registers the worker for one panel of a sphere.
func PutPanel(sphereID uint64, panel int, r FieldReader) {
	mu.Lock()
	panels[panelKey{sphereID, panel}] = r
	mu.Unlock()
}

// Panel looks up the worker for one panel of a sphere.
func Panel(sphereID uint64, panel int) (FieldReader, bool) {
	mu.RLock()
	r, ok := panels[panelKey{sphereID, panel}]
	mu.RUnlock()
	return r, ok
}

// PutSphere registers a sphere's coordinator handle.
func PutSphere(id uint64, handle any) {
	mu.Lock()
	spheres[id] = handle
	mu.Unlock()
}

// Sphere looks up a sphere's coordinator handle.
func Sphere(id uint64) (any, bool) {
	mu.RLock()
	h, ok := spheres[id]
	mu.RUnlock()
	return h, ok
}

// Drop removes a sphere and all of its panel registrations. Called on
// teardown.
func Drop(id uint64) {
	mu.Lock()
	delete(spheres, id)
	for k := range panels {
		if k.sphere == id {
			delete(panels, k)
		}
	}
	mu.Unlock()
}
