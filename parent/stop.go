package parent

import (
	"errors"
	"time"

	"github.com/corrigan-hale/parentcore/erl"
	"github.com/corrigan-hale/parentcore/erl/exitreason"
)

// stopKiller terminates exactly one child and reports back over a plain Go
// channel, grounded on erl/supervisor/child_killer.go: spawning a separate
// process to do the monitor+wait lets Stop block the host's call stack
// without competing with the host's own inbox for the DownMsg.
type stopKiller struct {
	caller     chan<- error
	parentPID  erl.PID
	rec        childRecord
	monitorRef erl.Ref
}

func (k *stopKiller) Receive(self erl.PID, inbox <-chan any) error {
	k.monitorRef = erl.Monitor(self, k.rec.pid)
	erl.Unlink(k.parentPID, k.rec.pid)

	shutdown := k.rec.spec.Shutdown
	switch {
	case shutdown.BrutalKill:
		erl.Exit(self, k.rec.pid, exitreason.Kill)
		k.waitDown(inbox)
	case shutdown.Infinity:
		erl.Exit(self, k.rec.pid, exitreason.SupervisorShutdown)
		k.waitDown(inbox)
	default:
		erl.Exit(self, k.rec.pid, exitreason.SupervisorShutdown)
		k.waitDownWithDeadline(self, inbox, shutdown.timeoutDuration())
	}
	return exitreason.Normal
}

func (k *stopKiller) waitDown(inbox <-chan any) {
	for anyMsg := range inbox {
		if msg, ok := anyMsg.(erl.DownMsg); ok && msg.Ref == k.monitorRef {
			k.caller <- msg.Reason
			return
		}
	}
}

func (k *stopKiller) waitDownWithDeadline(self erl.PID, inbox <-chan any, deadline time.Duration) {
	timer := time.NewTimer(deadline)
	defer timer.Stop()
	for {
		select {
		case anyMsg, ok := <-inbox:
			if !ok {
				return
			}
			if msg, ok := anyMsg.(erl.DownMsg); ok && msg.Ref == k.monitorRef {
				k.caller <- msg.Reason
				return
			}
		case <-timer.C:
			erl.Exit(self, k.rec.pid, exitreason.Kill)
			for anyMsg := range inbox {
				if msg, ok := anyMsg.(erl.DownMsg); ok && msg.Ref == k.monitorRef {
					if errors.Is(msg.Reason, exitreason.Kill) {
						k.caller <- exitreason.Killed
					} else {
						k.caller <- msg.Reason
					}
					return
				}
			}
			return
		}
	}
}

// stopOne terminates a single live record and returns the exit reason
// observed. A non-live record (already terminated/ignored) is reported
// Normal without spawning anything.
func stopOne(self erl.PID, rec childRecord) error {
	if rec.timer != (erl.TimerRef{}) {
		_ = erl.CancelTimer(rec.timer)
	}
	if !erl.IsAlive(rec.pid) {
		return exitreason.Normal
	}

	reply := make(chan error, 1)
	erl.SpawnLink(self, &stopKiller{caller: reply, parentPID: self, rec: rec})
	return <-reply
}

// Stop terminates the given records in the provided order — callers pass
// reverse-startup order for a full shutdown — and returns the observed exit
// reason per child. The call is synchronous.
func Stop(self erl.PID, records []childRecord) []StopResult {
	out := make([]StopResult, 0, len(records))
	for _, rec := range records {
		reason := stopOne(self, rec)
		out = append(out, StopResult{Record: rec, Reason: reason})
	}
	return out
}
