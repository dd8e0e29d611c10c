package parent

import (
	"errors"

	"golang.org/x/exp/slices"

	"github.com/corrigan-hale/parentcore/erl"
	"github.com/corrigan-hale/parentcore/erl/exitreason"
)

// restartCandidate is one entry in a restart plan's input: a popped record
// plus the caller's disposition for it.
type restartCandidate struct {
	rec            childRecord
	recordRestart  bool // this child's failure should count against budgets
	exitReason     error
	includeTemp    bool // caller override: restart even a Temporary child
}

// RestartOpts configures one planRestart call.
type RestartOpts struct {
	State *State
	Self  erl.PID
}

// restartPlan is the result of planning a restart over a stopped set.
type restartPlan struct {
	// restarted maps each successfully-restarted candidate's old handle to
	// its new one, so a caller holding the old handle (e.g. RestartChild's
	// caller) can recover the fresh one.
	restarted map[erl.PID]erl.PID
	// gaveUp holds ids the core will not retry: the to-ignore candidates
	// (Temporary or Ephemeral), plus Temporary children caught up in a cascade.
	gaveUp []ChildID
	// deferred holds the list to re-plan later via a resumeRestart message,
	// the cooperative-backoff tail of a cascaded restart.
	deferred []restartCandidate
	// fatal is set when a budget was exhausted: the host must propagate
	// exitreason.TooManyRestarts and crash.
	fatal error
}

// resumeRestart is the self-message the restart engine posts when it bails
// out partway through a cascade.
type resumeRestart struct {
	stopped []restartCandidate
}

// dropLiveByID is step 1: idempotence under re-entrant restarts. Running
// plan twice on the same input must be a no-op the second time.
func dropLiveByID(state *State, in []restartCandidate) []restartCandidate {
	out := make([]restartCandidate, 0, len(in))
	for _, c := range in {
		if c.rec.spec.ID != nil {
			if _, live := state.ChildPID(c.rec.spec.ID); live {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// sortByStartupIndex orders candidates by original startup order so a
// cascade starts children back up in the sequence they first came up in.
func sortByStartupIndex(in []restartCandidate) []restartCandidate {
	out := slices.Clone(in)
	slices.SortFunc(out, func(a, b restartCandidate) int {
		switch {
		case a.rec.startupIndex < b.rec.startupIndex:
			return -1
		case a.rec.startupIndex > b.rec.startupIndex:
			return 1
		default:
			return 0
		}
	})
	return out
}

// chargeBudgets charges every candidate tagged recordRestart against both
// the parent-wide counter and its own counter. Either rejecting is fatal.
func chargeBudgets(state *State, in []restartCandidate) error {
	for _, c := range in {
		if !c.recordRestart {
			continue
		}
		if err := state.RecordRestart(); err != nil {
			return exitreason.TooManyRestarts
		}
		if c.rec.counter != nil {
			if err := c.rec.counter.Record(); err != nil {
				return exitreason.TooManyRestarts
			}
		}
	}
	return nil
}

// partitionIgnored splits into to-start and to-ignore. A Temporary
// candidate is to-ignore unless explicitly overridden. An Ephemeral
// candidate is to-ignore regardless of its declared restart policy: it is
// dropped from the registry on exit rather than brought back up.
func partitionIgnored(in []restartCandidate) (toStart, toIgnore []restartCandidate) {
	for _, c := range in {
		if c.rec.spec.Ephemeral {
			toIgnore = append(toIgnore, c)
			continue
		}
		if c.rec.spec.RestartPolicy == Temporary && !c.includeTemp {
			toIgnore = append(toIgnore, c)
			continue
		}
		toStart = append(toStart, c)
	}
	return toStart, toIgnore
}

// startSequentially starts each to-start candidate in order, stopping at
// the first failure. BindsTo is expressed by id rather than handle, so a
// prerequisite's fresh pid needs no forward-rewrite into not-yet-started
// candidates: State.insert resolves each dependency by id at the point the
// dependent itself is (re)registered.
func startSequentially(self erl.PID, state *State, toStart []restartCandidate) (started map[erl.PID]erl.PID, failedAt int, failErr error) {
	started = make(map[erl.PID]erl.PID)
	for i, c := range toStart {
		pid, ignored, err := spawnOne(self, c.rec.spec)
		if err != nil {
			return started, i, err
		}
		if ignored {
			// an ignored restart keeps no live handle; move on, matching
			// Spawner semantics.
			continue
		}
		timer := armTimer(self, pid, c.rec.spec)
		if regErr := state.ReRegister(c.rec, pid, timer); regErr != nil {
			return started, i, regErr
		}
		started[c.rec.pid] = pid
	}
	return started, -1, nil
}

// cascadeOnFailure handles the first Spawner failure mid-restart: stop
// every group the unstarted remainder touches (shutdown-group atomicity),
// tag the failing child and its group-mates, and return the list to
// partition between final-ignored and deferred.
func cascadeOnFailure(self erl.PID, state *State, toStart []restartCandidate, failedAt int, failErr error) (final []restartCandidate) {
	failing := toStart[failedAt]
	failing.exitReason = failErr
	failing.recordRestart = true

	unstarted := toStart[failedAt+1:]

	groups := make(map[string]bool)
	for _, c := range unstarted {
		if c.rec.spec.ShutdownGroup != "" {
			groups[c.rec.spec.ShutdownGroup] = true
		}
	}

	// pop before stop: PopWithDependents follows this group's (and any
	// nested group's) membership, so every handle it returns is removed
	// from the registry exactly once and must be stopped exactly once.
	visited := make(map[erl.PID]bool)
	var toStop []childRecord
	for group := range groups {
		for _, rec := range state.ChildrenInGroup(group) {
			if visited[rec.pid] {
				continue
			}
			for _, popped := range state.PopWithDependents(rec.pid) {
				if visited[popped.pid] {
					continue
				}
				visited[popped.pid] = true
				toStop = append(toStop, popped)
			}
		}
	}
	toStop = sortRecordsByStartupIndex(toStop)
	stopResults := Stop(self, toStop)

	groupMates := make([]restartCandidate, 0, len(stopResults))
	for _, sr := range stopResults {
		groupMates = append(groupMates, restartCandidate{
			rec:        sr.Record,
			exitReason: exitreason.Shutdown("shutdown_group_cascade"),
		})
	}

	final = append(final, failing)
	for _, c := range unstarted {
		c.exitReason = exitreason.Shutdown("restart_cascade")
		final = append(final, c)
	}
	final = append(final, groupMates...)
	return final
}

// packageDeferred partitions a cascade's tail into final-ignored
// (Temporary) and deferred-for-retry.
func packageDeferred(in []restartCandidate) (ignored []ChildID, deferred []restartCandidate) {
	for _, c := range in {
		if c.rec.spec.RestartPolicy == Temporary {
			if c.rec.spec.ID != nil {
				ignored = append(ignored, c.rec.spec.ID)
			}
			continue
		}
		deferred = append(deferred, c)
	}
	return ignored, deferred
}

// planRestart runs one restart plan end to end: drop anything already
// live, order by original startup index, charge restart budgets, split off
// anything the policy says to ignore, start the rest in order, and cascade
// a shutdown-group/cooperative-backoff response if one of them fails.
func planRestart(self erl.PID, state *State, in []restartCandidate) restartPlan {
	candidates := dropLiveByID(state, in)
	candidates = sortByStartupIndex(candidates)

	if err := chargeBudgets(state, candidates); err != nil {
		return restartPlan{fatal: err}
	}

	toStart, toIgnore := partitionIgnored(candidates)

	started, failedAt, failErr := startSequentially(self, state, toStart)

	plan := restartPlan{restarted: started}
	for _, c := range toIgnore {
		if c.rec.spec.ID != nil {
			plan.gaveUp = append(plan.gaveUp, c.rec.spec.ID)
		}
	}

	if failedAt >= 0 {
		tail := cascadeOnFailure(self, state, toStart, failedAt, failErr)
		ignored, deferred := packageDeferred(tail)
		plan.gaveUp = append(plan.gaveUp, ignored...)
		plan.deferred = deferred
	}
	return plan
}

// isAbnormal reports whether reason would trigger a Transient restart
// (anything other than Normal/Shutdown/SupervisorShutdown), grounded on
// supervisor.go's restartChild branch.
func isAbnormal(reason error) bool {
	return !(exitreason.IsShutdown(reason) ||
		errors.Is(reason, exitreason.Normal) ||
		errors.Is(reason, exitreason.SupervisorShutdown))
}

// shouldRestart decides restart disposition for one triggering exit based
// on its restart policy: permanent always, transient only on an abnormal
// exit, temporary never.
func shouldRestart(policy Restart, reason error) bool {
	switch policy {
	case Permanent:
		return true
	case Temporary:
		return false
	case Transient:
		return isAbnormal(reason)
	default:
		return true
	}
}
