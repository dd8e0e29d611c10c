package parent

import (
	"fmt"
	"time"

	"github.com/corrigan-hale/parentcore/erl"
	"github.com/corrigan-hale/parentcore/erl/exitreason"
)

// Options configures a Parent, mirroring supervisor.SupFlagsS/NewSupFlags's
// functional-options shape (erl/supervisor/supervisor.go).
type Options struct {
	MaxRestarts int
	MaxSeconds  int
	registry    Registry
}

// Option is a functional option for [New].
type Option func(o Options) Options

// WithMaxRestarts overrides the parent-wide restart budget's count.
// Default 3.
func WithMaxRestarts(n int) Option {
	return func(o Options) Options {
		o.MaxRestarts = n
		return o
	}
}

// WithMaxSeconds overrides the parent-wide restart budget's window.
// Default 5.
func WithMaxSeconds(n int) Option {
	return func(o Options) Options {
		o.MaxSeconds = n
		return o
	}
}

// WithRegistry enables the external, read-only lookup table.
func WithRegistry(r Registry) Option {
	return func(o Options) Options {
		o.registry = r
		return o
	}
}

func newOptions(opts ...Option) Options {
	o := Options{MaxRestarts: 3, MaxSeconds: 5}
	for _, fn := range opts {
		o = fn(o)
	}
	return o
}

// Parent is the embeddable supervision engine. It holds no mutex: it is
// owned exclusively by the host task's single goroutine, so no lock exists
// because no other thread reads or writes its state.
type Parent struct {
	state *State
	opts  Options
	// fatal is set once a restart budget is exhausted; from then on every
	// method that calls checkNotFatal panics. HandleMessage does not consult
	// it: only the Outcome that exhausted the budget carries the reason.
	fatal error
}

// New builds a Parent. Calling any method before New is a misuse panic,
// matching erl.ProcessFlag's "pid cannot be nil" style.
func New(opts ...Option) *Parent {
	o := newOptions(opts...)
	return &Parent{
		state: NewState(o.MaxRestarts, o.MaxSeconds),
		opts:  o,
	}
}

func (p *Parent) checkNotFatal() {
	if p.fatal != nil {
		panic(fmt.Sprintf("parent: called after exitreason.TooManyRestarts: %v", p.fatal))
	}
}

func (p *Parent) publish() {
	if p.opts.registry != nil {
		p.opts.registry.snapshot(p.Children())
	}
}

// StartChild starts and registers a new child. Maps the
// started/already_started/ignored/failed outcome onto (pid, err): a nil
// error with a defined pid is started, a nil pid with a nil error is
// ignored, and AlreadyStartedError carries the pre-existing handle.
func (p *Parent) StartChild(self erl.PID, spec ChildSpec) (erl.PID, error) {
	p.checkNotFatal()
	pid, err := Spawn(self, p.state, spec)
	p.publish()
	return pid, err
}

// ShutdownChild stops and deregisters a live child. Tolerant: returns
// ErrUnknownChild rather than panicking.
func (p *Parent) ShutdownChild(self erl.PID, ref any) error {
	p.checkNotFatal()
	rec, ok := p.state.Lookup(ref)
	if !ok {
		return ErrUnknownChild
	}
	popped := p.state.PopWithDependents(rec.pid)
	Stop(self, reverseByStartupIndex(sortRecordsByStartupIndex(popped)))
	p.publish()
	return nil
}

// RestartChild stops then immediately respawns a live child under a fresh
// handle, preserving its spec and startup index.
func (p *Parent) RestartChild(self erl.PID, ref any) (erl.PID, error) {
	p.checkNotFatal()
	rec, ok := p.state.Lookup(ref)
	if !ok {
		return erl.UndefinedPID, ErrUnknownChild
	}
	popped := sortRecordsByStartupIndex(p.state.PopWithDependents(rec.pid))
	Stop(self, reverseByStartupIndex(popped))

	candidates := make([]restartCandidate, 0, len(popped))
	for _, poppedRec := range popped {
		candidates = append(candidates, restartCandidate{rec: poppedRec})
	}

	plan := planRestart(self, p.state, candidates)
	if plan.fatal != nil {
		p.fatal = plan.fatal
		return erl.UndefinedPID, plan.fatal
	}
	newPID, ok := plan.restarted[rec.pid]
	p.publish()
	if !ok {
		return erl.UndefinedPID, fmt.Errorf("parent: restart of %v did not produce a new handle", ref)
	}
	return newPID, nil
}

// ShutdownAll terminates every child in strict reverse startup-index
// order, resets the registry preserving the startup index counter, and
// returns the stopped set so the host can round-trip it through
// ReturnChildren.
func (p *Parent) ShutdownAll(self erl.PID, reason error) []StoppedChild {
	p.checkNotFatal()
	erl.DebugPrintf("parent[%v] shutting down all children: %v", self, reason)
	all := p.state.allByStartupIndex()
	reversed := make([]childRecord, len(all))
	for i, rec := range all {
		reversed[len(all)-1-i] = rec
	}
	results := Stop(self, reversed)
	p.state.Reinitialize()
	p.publish()

	out := make([]StoppedChild, len(results))
	for i, r := range results {
		out[i] = StoppedChild{rec: r.Record, reason: r.Reason}
	}
	return out
}

// reverseByStartupIndex sorts and reverses records for an ordered stop.
func reverseByStartupIndex(recs []childRecord) []childRecord {
	out := make([]childRecord, len(recs))
	copy(out, recs)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// StoppedChild is the payload ReturnChildren accepts: a previously-popped
// record plus the reason it was stopped, the shape ShutdownAll's caller
// would carry between the two calls.
type StoppedChild struct {
	rec    childRecord
	reason error
}

// ReturnChildren re-inserts previously stopped records, subject to the
// restart plan, and reports which ids the core gave up on.
func (p *Parent) ReturnChildren(self erl.PID, records []StoppedChild) []ChildID {
	p.checkNotFatal()
	candidates := make([]restartCandidate, 0, len(records))
	for _, r := range records {
		candidates = append(candidates, restartCandidate{rec: r.rec, exitReason: r.reason})
	}
	plan := planRestart(self, p.state, candidates)
	if plan.fatal != nil {
		p.fatal = plan.fatal
		return nil
	}
	if len(plan.deferred) > 0 {
		erl.Send(self, resumeRestart{stopped: plan.deferred})
	}
	p.publish()
	return plan.gaveUp
}

// Children returns every live child, in startup-index order.
func (p *Parent) Children() []ChildInfo {
	recs := p.state.allByStartupIndex()
	out := make([]ChildInfo, 0, len(recs))
	for _, rec := range recs {
		out = append(out, ChildInfo{
			ID:      rec.spec.ID,
			PID:     rec.pid,
			Meta:    rec.spec.Meta,
			Type:    rec.spec.Type,
			Status:  rec.status(),
			Restart: rec.spec.RestartPolicy,
		})
	}
	return out
}

// WhichChildren is an alias for Children, named for
// supervisor:which_children/1 parity.
func (p *Parent) WhichChildren() []ChildInfo {
	return p.Children()
}

func (p *Parent) NumChildren() int {
	return p.state.NumChildren()
}

// Child reports whether ref names a live child.
func (p *Parent) Child(ref any) bool {
	_, ok := p.state.Lookup(ref)
	return ok
}

func (p *Parent) ChildID(pid erl.PID) (ChildID, bool) {
	return p.state.ChildID(pid)
}

func (p *Parent) ChildPID(id ChildID) (erl.PID, bool) {
	return p.state.ChildPID(id)
}

func (p *Parent) ChildMeta(ref any) (Meta, bool) {
	return p.state.ChildMeta(ref)
}

// UpdateChildMeta applies fn to ref's meta. Tolerant: ErrUnknownChild on a
// miss.
func (p *Parent) UpdateChildMeta(ref any, fn func(Meta) Meta) error {
	return p.state.UpdateMeta(ref, fn)
}

// CountChildren mirrors supervisor:count_children/1.
func (p *Parent) CountChildren() ChildCount {
	var cc ChildCount
	for _, rec := range p.state.allByStartupIndex() {
		cc.Specs++
		if rec.status() == ChildRunning {
			cc.Active++
		}
		switch rec.spec.Type {
		case ParentChild:
			cc.Parents++
		default:
			cc.Workers++
		}
	}
	return cc
}

// awaitResult is the internal channel payload a monitor-based await uses.
type awaitResult struct {
	reason error
}

// AwaitChildTermination blocks self's goroutine until id exits or timeout
// elapses. Grounded on genserver.Call's select-with-time.After pattern
// (erl/genserver/api.go).
func (p *Parent) AwaitChildTermination(self erl.PID, id ChildID, timeout time.Duration) (AwaitResult, error) {
	p.checkNotFatal()
	rec, ok := p.state.Lookup(id)
	if !ok {
		return AwaitResult{}, ErrUnknownChild
	}

	done := make(chan awaitResult, 1)
	helper := &terminationWaiter{out: done, target: rec.pid}
	erl.SpawnLink(self, helper)

	select {
	case r := <-done:
		return AwaitResult{PID: rec.pid, Meta: rec.spec.Meta, Reason: r.reason}, nil
	case <-time.After(timeout):
		return AwaitResult{}, exitreason.Timeout
	}
}

// terminationWaiter monitors a single child and reports its exit reason
// back over a plain channel, the same shape as stopKiller but without
// driving the exit itself: awaiting a child's termination is read-only,
// it observes, it does not terminate.
type terminationWaiter struct {
	out    chan<- awaitResult
	target erl.PID
}

func (w *terminationWaiter) Receive(self erl.PID, inbox <-chan any) error {
	ref := erl.Monitor(self, w.target)
	for anyMsg := range inbox {
		if msg, ok := anyMsg.(erl.DownMsg); ok && msg.Ref == ref {
			w.out <- awaitResult{reason: msg.Reason}
			return exitreason.Normal
		}
	}
	return exitreason.Normal
}
