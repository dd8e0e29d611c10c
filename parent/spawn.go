package parent

import (
	"errors"
	"fmt"

	"github.com/corrigan-hale/parentcore/erl"
	"github.com/corrigan-hale/parentcore/erl/exitreason"
)

// childTimeout is the self-message a child's lifetime timer posts on expiry.
type childTimeout struct {
	pid erl.PID
}

// spawnOne starts a single normalized spec, grounded on
// erl/supervisor/supervisor.go's startChild: it recovers panics from the
// user's StartFunc and converts them to exitreason.Exception, and
// interprets the three StartFunc return shapes: started, ignored, failed.
//
// On success it returns the new handle. It neither arms the lifetime timer
// nor touches State; callers are responsible for armTimer and Register.
func spawnOne(self erl.PID, spec ChildSpec) (pid erl.PID, ignored bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = exitreason.Exception(fmt.Errorf("panic starting child %v: %w", spec.ID, e))
			} else {
				err = exitreason.Exception(fmt.Errorf("panic starting child %v: %v", spec.ID, r))
			}
		}
	}()

	childPID, startErr := spec.Start(self)

	switch {
	case startErr == nil:
		return childPID, false, nil
	case errors.Is(startErr, exitreason.Ignore):
		return erl.UndefinedPID, true, nil
	default:
		return erl.UndefinedPID, false, exitreason.Wrap(startErr)
	}
}

// armTimer arms spec's one-shot lifetime timer if Timeout is finite. The
// returned TimerRef is the zero value when no timer was armed. Call only on
// a normalized spec, so Timeout is never nil.
func armTimer(self erl.PID, pid erl.PID, spec ChildSpec) erl.TimerRef {
	if *spec.Timeout == infiniteTimeout {
		return erl.TimerRef{}
	}
	return erl.SendAfter(self, childTimeout{pid: pid}, *spec.Timeout)
}

// Spawn starts, links, arms the timeout timer for, and registers one child:
// normalize, start, and — unless ignored or failed — install the record in
// state.
func Spawn(self erl.PID, state *State, spec ChildSpec) (erl.PID, error) {
	spec = normalizeSpec(spec)

	if spec.ID != nil {
		if existing, ok := state.ChildPID(spec.ID); ok {
			return erl.UndefinedPID, AlreadyStartedError{PID: existing}
		}
	}

	pid, ignored, err := spawnOne(self, spec)
	if err != nil {
		return erl.UndefinedPID, err
	}
	if ignored {
		return erl.UndefinedPID, nil
	}

	timer := armTimer(self, pid, spec)
	if regErr := state.Register(pid, spec, timer); regErr != nil {
		return erl.UndefinedPID, regErr
	}
	return pid, nil
}
