// Package parent implements an embeddable child-lifecycle and restart
// supervision engine. Unlike [github.com/corrigan-hale/parentcore/erl/application]'s
// notion of a supervisor process, a [Parent] is a plain value owned by a
// single host task; it exposes child management as in-task operations that
// the host calls from inside its own Receive loop.
package parent

import (
	"errors"
	"fmt"
	"time"

	"github.com/corrigan-hale/parentcore/erl"
)

// ChildID is any host-supplied identity, unique among live children. It must
// be comparable (usable as a map key) if non-nil. A nil ChildID marks an
// anonymous child, reachable only by its erl.PID.
type ChildID any

// Meta is an opaque annotation a host attaches to a child spec. The core
// never inspects it.
type Meta any

// Restart selects when a child is re-entered after it exits.
type Restart string

const (
	// Permanent children are always restarted, regardless of exit reason.
	Permanent Restart = "permanent"
	// Transient children are restarted only on an abnormal exit: anything
	// other than Normal, Shutdown, or SupervisorShutdown.
	Transient Restart = "transient"
	// Temporary children are never restarted and are dropped from the
	// registry the moment they exit.
	Temporary Restart = "temporary"
)

// ChildType is purely informational; it does not affect supervision
// behavior but is reported on [ChildInfo] and nudges a caller's choice of
// Shutdown deadline (a ParentChild should usually get Shutdown.Infinity).
type ChildType string

const (
	WorkerChild ChildType = "worker"
	ParentChild ChildType = "parent"
)

// ChildStatus reports whether a retained record is actually live.
type ChildStatus string

const (
	ChildRunning    ChildStatus = "running"
	ChildTerminated ChildStatus = "terminated"
	ChildUndefined  ChildStatus = "undefined"
)

// Shutdown describes how a child should be stopped. The zero value (Timeout
// nil, BrutalKill/Infinity false) is "unset": normalizeSpec fills in a
// 5000ms graceful deadline. A nil Timeout is what "unset" looks like; an
// explicit zero (via ShutdownAfter(0)) is a distinct, valid deadline that
// escalates to a kill immediately.
type Shutdown struct {
	// BrutalKill sends an unconditional exitreason.Kill and does not wait
	// for a graceful stop. Takes precedence over Timeout/Infinity.
	BrutalKill bool
	// Timeout is the graceful deadline in milliseconds before escalating to
	// a kill, or nil to take the 5000ms default. Ignored if BrutalKill or
	// Infinity is set. Set it with ShutdownAfter rather than a bare struct
	// literal.
	Timeout *int
	// Infinity waits forever for a graceful stop; recommended for
	// ParentChild children whose own subtree needs time to unwind.
	Infinity bool
}

// ShutdownAfter returns a Shutdown with an explicit graceful-timeout
// deadline in milliseconds. ms may be 0: the child is killed with reason
// exitreason.Killed if it hasn't stopped by the time Stop checks.
func ShutdownAfter(ms int) Shutdown {
	return Shutdown{Timeout: &ms}
}

// timeoutDuration resolves a normalized Shutdown's graceful wait as a
// time.Duration. Call only on a Shutdown that has passed through
// normalizeSpec, so the nil-Timeout default has already been applied.
func (s Shutdown) timeoutDuration() time.Duration {
	if s.Infinity {
		return -1
	}
	if s.Timeout == nil {
		return 5000 * time.Millisecond
	}
	return time.Duration(*s.Timeout) * time.Millisecond
}

// StartFunc starts one child, linked to self, and returns its handle.
// Return exitreason.Ignore as the error to signal "ignored": no record is
// registered and Spawn returns erl.UndefinedPID with a nil error.
type StartFunc func(self erl.PID) (erl.PID, error)

// RestartCounterInfinite marks a budget field as unbounded.
const RestartCounterInfinite = -1

// ChildSpec declaratively describes one child.
type ChildSpec struct {
	ID            ChildID
	Start         StartFunc
	Meta          Meta
	Shutdown      Shutdown
	RestartPolicy Restart
	// Timeout is the child's maximum lifetime, or nil to take the default
	// of no limit. A non-nil zero is a distinct, valid deadline: the child
	// is reported exited with reason exitreason.Timeout on the next
	// dispatch after it's started. Set it with Lifetime rather than a bare
	// &time.Duration literal.
	Timeout *time.Duration
	// MaxRestarts/MaxSeconds configure this child's own sliding-window
	// restart budget, independent of the parent-wide one.
	MaxRestarts int
	MaxSeconds  int
	// BindsTo names other children this one depends on. If any of them goes
	// down, this child is dragged down with it.
	BindsTo []ChildID
	// ShutdownGroup, if non-empty, makes this child atomic with its
	// group-mates for both shutdown and restart.
	ShutdownGroup string
	// Ephemeral drops this child from the registry on exit regardless of
	// its declared RestartPolicy: a Permanent or Transient child that would
	// otherwise come back up stays down once Ephemeral is set.
	Ephemeral bool
	// Type is informational only; see [ChildType].
	Type ChildType
}

// Lifetime returns a pointer to d, for use as ChildSpec.Timeout. d may be
// zero, reporting the child timed out immediately on the next dispatch.
func Lifetime(d time.Duration) *time.Duration {
	return &d
}

// normalizeSpec fills in defaults so a partial spec reaching the Spawner
// always has shutdown=5000, restart=permanent, timeout=infinite,
// max_restarts=infinite, meta=nil. A nil Shutdown.Timeout/ChildSpec.Timeout
// is what "unset" looks like; an explicit zero (set via ShutdownAfter(0)/
// Lifetime(0)) is left alone rather than coerced to the default, since it's
// a distinct, valid deadline of its own.
func normalizeSpec(spec ChildSpec) ChildSpec {
	if !spec.Shutdown.BrutalKill && !spec.Shutdown.Infinity && spec.Shutdown.Timeout == nil {
		spec.Shutdown = ShutdownAfter(5000)
	}
	if spec.RestartPolicy == "" {
		spec.RestartPolicy = Permanent
	}
	if spec.Timeout == nil {
		spec.Timeout = Lifetime(infiniteTimeout)
	}
	if spec.MaxRestarts == 0 {
		spec.MaxRestarts = RestartCounterInfinite
	}
	if spec.Type == "" {
		spec.Type = WorkerChild
	}
	return spec
}

// infiniteTimeout mirrors erl/timeout.Infinity without importing it for a
// single constant; a child spec never sets Timeout to this value itself, so
// there is no ambiguity with a legitimately huge duration.
const infiniteTimeout = time.Duration(1<<63 - 1)

// childRecord pairs a normalized spec with its runtime attributes. Created
// only by Spawner.Spawn/State.ReRegister, mutated only by State, and never
// exposed to a host directly — hosts see [ChildInfo].
type childRecord struct {
	spec         ChildSpec
	pid          erl.PID
	timer        erl.TimerRef
	startupIndex int64
	counter      *RestartCounter
	// terminated and ignored select ChildTerminated/ChildUndefined in
	// status(). No code in this package sets either to true, so every
	// registered record reports ChildRunning.
	terminated bool
	ignored    bool
}

func (r childRecord) status() ChildStatus {
	switch {
	case r.ignored:
		return ChildUndefined
	case r.terminated:
		return ChildTerminated
	default:
		return ChildRunning
	}
}

// ChildInfo is the read-only view of a child record exposed to hosts via
// Children/WhichChildren.
type ChildInfo struct {
	ID      ChildID
	PID     erl.PID
	Meta    Meta
	Type    ChildType
	Status  ChildStatus
	Restart Restart
}

// ChildCount mirrors supervisor:count_children/1.
type ChildCount struct {
	Specs   int
	Active  int
	Parents int
	Workers int
}

// StopResult is the per-child outcome of a Stopper pass.
type StopResult struct {
	Record childRecord
	Reason error
}

// AwaitResult is returned by Parent.AwaitChildTermination.
type AwaitResult struct {
	PID    erl.PID
	Meta   Meta
	Reason error
}

// Outcome classifies what HandleMessage did with a dispatched message.
type Outcome struct {
	// Exited is set when the message was a (possibly cascaded) child exit.
	Exited bool
	PID    erl.PID
	ID     ChildID
	Meta   Meta
	Reason error
	// Introspection carries a reply value for a which_children/count_children
	// style query; the host should not otherwise interpret a handled message.
	Introspection any
}

// Sentinel errors, mirroring erl/supervisor/errors.go's vocabulary adapted
// to this core's operation set.
var (
	// ErrUnknownChild is returned by tolerant operations when ref names
	// neither a live handle nor a known id.
	ErrUnknownChild = errors.New("parent: unknown child")
	// ErrAlreadyStarted is what an AlreadyStartedError unwraps to; use
	// errors.As with AlreadyStartedError to recover the existing erl.PID.
	ErrAlreadyStarted = errors.New("parent: child already started")
)

// AlreadyStartedError carries the existing PID for a StartChild collision.
type AlreadyStartedError struct {
	PID erl.PID
}

func (e AlreadyStartedError) Error() string {
	return fmt.Sprintf("parent: child already started with PID %v", e.PID)
}

func (e AlreadyStartedError) Unwrap() error {
	return ErrAlreadyStarted
}
