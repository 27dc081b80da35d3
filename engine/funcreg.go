package engine

import (
	"fmt"
	"sync"

	"geof/panel"
)

// SphereDataFunc produces the frame-wide sphere data. When a frame is
// started with one, it is evaluated exactly once before the start is
// broadcast to the panels.
type SphereDataFunc func(divisions int) (any, error)

// The function registry maps (module, function) name pairs to callables.
// It is populated at process start; resolving an unknown name is an
// explicit error, never a silent no-op.
var (
	fnMu        sync.RWMutex
	perFieldFns = make(map[string]panel.PerFieldFunc)
	dataFns     = make(map[string]SphereDataFunc)
)

func fnKey(module, name string) string {
	return module + "." + name
}

// RegisterFunc registers a per-field function under (module, name).
// Later registrations replace earlier ones.
func RegisterFunc(module, name string, fn panel.PerFieldFunc) {
	fnMu.Lock()
	perFieldFns[fnKey(module, name)] = fn
	fnMu.Unlock()
}

// ResolveFunc looks up a per-field function by name.
func ResolveFunc(module, name string) (panel.PerFieldFunc, error) {
	fnMu.RLock()
	fn, ok := perFieldFns[fnKey(module, name)]
	fnMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownFunctionRef, module, name)
	}
	return fn, nil
}

// RegisterDataFunc registers a sphere-data function under (module, name).
func RegisterDataFunc(module, name string, fn SphereDataFunc) {
	fnMu.Lock()
	dataFns[fnKey(module, name)] = fn
	fnMu.Unlock()
}

// ResolveDataFunc looks up a sphere-data function by name.
func ResolveDataFunc(module, name string) (SphereDataFunc, error) {
	fnMu.RLock()
	fn, ok := dataFns[fnKey(module, name)]
	fnMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownFunctionRef, module, name)
	}
	return fn, nil
}
