package parent

import (
	"github.com/corrigan-hale/parentcore/erl"
	"github.com/corrigan-hale/parentcore/erl/exitreason"
)

// whichChildrenQuery/countChildrenQuery are the supervisor-introspection
// messages a host forwards into HandleMessage the same way it forwards
// erl.ExitMsg/childTimeout/resumeRestart.
type whichChildrenQuery struct{}
type countChildrenQuery struct{}

// HandleMessage is the Lifecycle dispatcher: the single entry point a host
// feeds every message of unknown origin into. The bool return reports
// whether msg was recognized; a caller gets "not applicable" for anything
// else, including exits for unknown handles, so it can interpret the
// message itself — mirroring supervisor.go's HandleInfo default branch.
func (p *Parent) HandleMessage(self erl.PID, msg any) (Outcome, bool) {
	switch m := msg.(type) {
	case erl.ExitMsg:
		return p.handleExit(self, m.Proc, m.Reason)
	case childTimeout:
		return p.handleChildTimeout(self, m.pid)
	case resumeRestart:
		return p.handleResumeRestart(self, m.stopped)
	case whichChildrenQuery:
		return Outcome{Introspection: p.WhichChildren()}, true
	case countChildrenQuery:
		return Outcome{Introspection: p.CountChildren()}, true
	default:
		return Outcome{}, false
	}
}

// handleExit handles a child exit signal for a known handle.
func (p *Parent) handleExit(self erl.PID, pid erl.PID, reason error) (Outcome, bool) {
	rec, ok := p.state.Lookup(pid)
	if !ok {
		return Outcome{}, false
	}
	return p.processExit(self, rec, pid, reason), true
}

// handleChildTimeout implements the "child timeout self-message" branch:
// equivalent to an exit with reason Timeout, but the child must first be
// killed since it's still alive.
func (p *Parent) handleChildTimeout(self erl.PID, pid erl.PID) (Outcome, bool) {
	rec, ok := p.state.Lookup(pid)
	if !ok {
		return Outcome{}, false
	}
	Stop(self, []childRecord{rec})
	return p.processExit(self, rec, pid, exitreason.Timeout), true
}

// processExit is the shared tail of both branches above: cancel the
// timer, pop the transitive closure, stop every live sibling the closure
// dragged in, decide and perform the restart, and report the triggering
// exit exactly once.
func (p *Parent) processExit(self erl.PID, triggering childRecord, pid erl.PID, reason error) Outcome {
	if triggering.timer != (erl.TimerRef{}) {
		_ = erl.CancelTimer(triggering.timer)
	}

	popped := p.state.PopWithDependents(pid)

	// pid itself already exited on its own; everything else in the closure
	// (binds_to dependents, shutdown-group mates) is still live and must be
	// terminated before it is handed to the restart engine as a candidate —
	// otherwise a bound sibling's timer is never cancelled and
	// startSequentially spawns a second, unsupervised instance of it.
	var siblings []childRecord
	for _, rec := range popped {
		if rec.pid != pid {
			siblings = append(siblings, rec)
		}
	}
	Stop(self, reverseByStartupIndex(sortRecordsByStartupIndex(siblings)))

	outcome := Outcome{
		Exited: true,
		PID:    pid,
		ID:     triggering.spec.ID,
		Meta:   triggering.spec.Meta,
		Reason: reason,
	}

	// whether the closure gets restart treatment at all turns on the
	// triggering child's own policy and actual exit reason, not on the
	// synthetic dependency_exit reason a dragged-down sibling exits with —
	// a Transient sibling never itself exited abnormally, so judging it by
	// that synthetic reason would drop it even though the policy-only rule
	// (planRestart's partitionIgnored) says it should come back.
	if !shouldRestart(triggering.spec.RestartPolicy, reason) {
		return outcome
	}

	toRestart := make([]restartCandidate, 0, len(popped))
	for _, rec := range popped {
		if rec.spec.Ephemeral {
			continue
		}
		triggeringEntry := rec.pid == pid
		var entryReason error = exitreason.Shutdown("dependency_exit")
		if triggeringEntry {
			entryReason = reason
		}
		toRestart = append(toRestart, restartCandidate{
			rec:           rec,
			recordRestart: triggeringEntry,
			exitReason:    entryReason,
		})
	}

	if len(toRestart) == 0 {
		return outcome
	}

	plan := planRestart(self, p.state, toRestart)
	if plan.fatal != nil {
		outcome.Reason = plan.fatal
		p.fatal = plan.fatal
		return outcome
	}
	if len(plan.deferred) > 0 {
		erl.Send(self, resumeRestart{stopped: plan.deferred})
	}
	return outcome
}

// handleResumeRestart implements the "deferred-restart self-message"
// branch: re-run restart planning over the carried list.
func (p *Parent) handleResumeRestart(self erl.PID, stopped []restartCandidate) (Outcome, bool) {
	plan := planRestart(self, p.state, stopped)
	if plan.fatal != nil {
		p.fatal = plan.fatal
		return Outcome{Reason: plan.fatal}, true
	}
	if len(plan.deferred) > 0 {
		erl.Send(self, resumeRestart{stopped: plan.deferred})
	}
	return Outcome{}, true
}
