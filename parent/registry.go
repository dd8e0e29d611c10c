package parent

import (
	"sync"

	"github.com/corrigan-hale/parentcore/erl"
)

// Registry is the optional external lookup table: written only by the
// owning Parent, read-only to everyone else, so readers see a lagging but
// always-consistent snapshot — no torn records.
type Registry interface {
	snapshot(children []ChildInfo)
}

// MapRegistry is the default Registry, grounded on erl.Register's
// mutex-guarded global name table (erl/register.go) but scoped per-Parent
// instead of process-global.
type MapRegistry struct {
	mu       sync.RWMutex
	children []ChildInfo
}

// NewMapRegistry builds an empty external lookup table.
func NewMapRegistry() *MapRegistry {
	return &MapRegistry{}
}

func (r *MapRegistry) snapshot(children []ChildInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.children = children
}

// Lookup reads the last published snapshot for id, short-circuiting a
// query that would otherwise have to ask the owning Parent directly.
func (r *MapRegistry) Lookup(id ChildID) (erl.PID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.children {
		if c.ID == id {
			return c.PID, true
		}
	}
	return erl.UndefinedPID, false
}

// Snapshot returns the last published view of every child.
func (r *MapRegistry) Snapshot() []ChildInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ChildInfo, len(r.children))
	copy(out, r.children)
	return out
}
