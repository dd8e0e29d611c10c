package parent

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/uberbrodt/fungo/fun"

	"github.com/corrigan-hale/parentcore/erl"
)

// State is the in-memory child registry: a pure value, grounded on
// supervisorState's childSpecs (erl/supervisor/supervisor_state.go) but
// extended with an id index, binding reverse-adjacency, and a shutdown-group
// index. State never performs I/O or spawns.
type State struct {
	byPID    map[erl.PID]*childRecord
	idToPID  map[ChildID]erl.PID
	deps     map[erl.PID][]erl.PID // handle -> handles that depend on it
	groups   map[string][]erl.PID
	counter  *RestartCounter
	nextSeq  int64
}

// NewState builds an empty registry with the given parent-wide restart
// budget.
func NewState(maxRestarts, maxSeconds int) *State {
	return &State{
		byPID:   make(map[erl.PID]*childRecord),
		idToPID: make(map[ChildID]erl.PID),
		deps:    make(map[erl.PID][]erl.PID),
		groups:  make(map[string][]erl.PID),
		counter: NewRestartCounter(maxRestarts, maxSeconds),
	}
}

// Register installs a freshly spawned child. Precondition: pid absent.
// Bumps the startup index and installs it into every index.
func (s *State) Register(pid erl.PID, spec ChildSpec, timer erl.TimerRef) error {
	if _, ok := s.byPID[pid]; ok {
		return fmt.Errorf("parent: handle %v already registered", pid)
	}
	if spec.ID != nil {
		if existing, ok := s.idToPID[spec.ID]; ok {
			return AlreadyStartedError{PID: existing}
		}
	}

	rec := &childRecord{
		spec:         spec,
		pid:          pid,
		timer:        timer,
		startupIndex: s.nextSeq,
		counter:      NewRestartCounter(spec.MaxRestarts, spec.MaxSeconds),
	}
	s.nextSeq++

	s.insert(rec)
	return nil
}

// ReRegister re-inserts a previously popped record under a new handle,
// preserving its startup index, spec, and per-child restart counter — the
// rewrite-old-handle-to-new-handle step the restart engine needs when it
// respawns a child under a fresh PID. Fails loudly if newPID is already
// present.
func (s *State) ReRegister(rec childRecord, newPID erl.PID, timer erl.TimerRef) error {
	if _, ok := s.byPID[newPID]; ok {
		return fmt.Errorf("parent: handle %v already registered", newPID)
	}
	rec.pid = newPID
	rec.timer = timer
	rec.terminated = false
	rec.ignored = false
	s.insert(&rec)
	return nil
}

func (s *State) insert(rec *childRecord) {
	s.byPID[rec.pid] = rec
	if rec.spec.ID != nil {
		s.idToPID[rec.spec.ID] = rec.pid
	}
	for _, depID := range rec.spec.BindsTo {
		if depPID, ok := s.idToPID[depID]; ok {
			s.deps[depPID] = append(s.deps[depPID], rec.pid)
		}
	}
	if rec.spec.ShutdownGroup != "" {
		s.groups[rec.spec.ShutdownGroup] = append(s.groups[rec.spec.ShutdownGroup], rec.pid)
	}
}

// resolve maps a lookup ref (erl.PID or ChildID) to a handle.
func (s *State) resolve(ref any) (erl.PID, bool) {
	switch v := ref.(type) {
	case erl.PID:
		_, ok := s.byPID[v]
		return v, ok
	default:
		pid, ok := s.idToPID[ref]
		return pid, ok
	}
}

// Lookup accepts a handle or an id.
func (s *State) Lookup(ref any) (childRecord, bool) {
	pid, ok := s.resolve(ref)
	if !ok {
		return childRecord{}, false
	}
	return *s.byPID[pid], true
}

// PopWithDependents returns the transitive closure of ref under
// shutdown-group membership and binding reverse-edges, removing all of it
// from every index. Closure ordering in the returned slice is
// insertion-order only; callers that need startup-index order must sort.
func (s *State) PopWithDependents(ref any) []childRecord {
	pid, ok := s.resolve(ref)
	if !ok {
		return nil
	}

	visited := make(map[erl.PID]bool)
	var order []erl.PID

	var visit func(erl.PID)
	visit = func(p erl.PID) {
		if visited[p] {
			return
		}
		visited[p] = true
		order = append(order, p)

		rec, ok := s.byPID[p]
		if !ok {
			return
		}
		if rec.spec.ShutdownGroup != "" {
			for _, mate := range s.groups[rec.spec.ShutdownGroup] {
				visit(mate)
			}
		}
		for _, dependent := range s.deps[p] {
			visit(dependent)
		}
	}
	visit(pid)

	out := fun.Map(order, func(_ int, p erl.PID) childRecord {
		return *s.byPID[p]
	})
	for _, p := range order {
		s.remove(p)
	}
	return out
}

// remove deletes a single handle from every index without following the
// closure; used internally once PopWithDependents has already computed it.
func (s *State) remove(pid erl.PID) {
	rec, ok := s.byPID[pid]
	if !ok {
		return
	}
	delete(s.byPID, pid)
	if rec.spec.ID != nil {
		delete(s.idToPID, rec.spec.ID)
	}
	delete(s.deps, pid)
	for depPID, dependents := range s.deps {
		s.deps[depPID] = fun.Filter(dependents, func(p erl.PID) bool { return p != pid })
	}
	if rec.spec.ShutdownGroup != "" {
		group := fun.Filter(s.groups[rec.spec.ShutdownGroup], func(p erl.PID) bool { return p != pid })
		if len(group) == 0 {
			delete(s.groups, rec.spec.ShutdownGroup)
		} else {
			s.groups[rec.spec.ShutdownGroup] = group
		}
	}
}

// ChildrenInGroup returns the live records sharing group g, in index order.
func (s *State) ChildrenInGroup(group string) []childRecord {
	pids := s.groups[group]
	out := make([]childRecord, 0, len(pids))
	for _, p := range pids {
		if rec, ok := s.byPID[p]; ok {
			out = append(out, *rec)
		}
	}
	return out
}

func (s *State) NumChildren() int {
	return len(s.byPID)
}

func (s *State) ChildID(pid erl.PID) (ChildID, bool) {
	rec, ok := s.byPID[pid]
	if !ok {
		return nil, false
	}
	return rec.spec.ID, rec.spec.ID != nil
}

func (s *State) ChildPID(id ChildID) (erl.PID, bool) {
	pid, ok := s.idToPID[id]
	return pid, ok
}

func (s *State) ChildMeta(ref any) (Meta, bool) {
	rec, ok := s.Lookup(ref)
	if !ok {
		return nil, false
	}
	return rec.spec.Meta, true
}

// UpdateMeta applies fn to the child's meta in place.
func (s *State) UpdateMeta(ref any, fn func(Meta) Meta) error {
	pid, ok := s.resolve(ref)
	if !ok {
		return ErrUnknownChild
	}
	rec := s.byPID[pid]
	rec.spec.Meta = fn(rec.spec.Meta)
	return nil
}

// RecordRestart delegates to the parent-wide RestartCounter.
func (s *State) RecordRestart() error {
	return s.counter.Record()
}

// Reinitialize resets the registry to empty, preserving only the startup
// index counter so restarted children never collide with new ones.
func (s *State) Reinitialize() {
	s.byPID = make(map[erl.PID]*childRecord)
	s.idToPID = make(map[ChildID]erl.PID)
	s.deps = make(map[erl.PID][]erl.PID)
	s.groups = make(map[string][]erl.PID)
}

// sortRecordsByStartupIndex sorts any slice of records ascending by startup
// index in place and returns it, used to give PopWithDependents's
// unspecified-order closure a deterministic shutdown order before Stop.
func sortRecordsByStartupIndex(recs []childRecord) []childRecord {
	slices.SortFunc(recs, func(a, b childRecord) int {
		switch {
		case a.startupIndex < b.startupIndex:
			return -1
		case a.startupIndex > b.startupIndex:
			return 1
		default:
			return 0
		}
	})
	return recs
}

// allByStartupIndex returns every live record sorted ascending by startup
// index; used for shutdown-all (reverse) and introspection.
func (s *State) allByStartupIndex() []childRecord {
	out := make([]childRecord, 0, len(s.byPID))
	for _, rec := range s.byPID {
		out = append(out, *rec)
	}
	slices.SortFunc(out, func(a, b childRecord) int {
		switch {
		case a.startupIndex < b.startupIndex:
			return -1
		case a.startupIndex > b.startupIndex:
			return 1
		default:
			return 0
		}
	})
	return out
}
