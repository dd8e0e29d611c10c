package parent

import (
	"errors"
	"time"

	"golang.org/x/exp/slices"

	"github.com/corrigan-hale/parentcore/chronos"
)

// ErrBudgetExhausted is returned by RestartCounter.Record once more than
// max restarts have landed inside the configured window.
var ErrBudgetExhausted = errors.New("parent: restart budget exhausted")

// RestartCounter is a sliding-window budget, grounded on
// supervisorState.addRestart but extracted so both the parent-wide counter
// and each child's own counter share one implementation.
type RestartCounter struct {
	max      int
	seconds  int
	restarts []time.Time
}

// NewRestartCounter builds a counter for (max, seconds). max ==
// RestartCounterInfinite always succeeds. seconds == RestartCounterInfinite
// never prunes, making max an absolute lifetime cap.
func NewRestartCounter(max, seconds int) *RestartCounter {
	return &RestartCounter{max: max, seconds: seconds}
}

// Record appends the current timestamp, prunes entries older than the
// configured window, and reports whether the pruned count is still within
// budget.
func (c *RestartCounter) Record() error {
	if c.max == RestartCounterInfinite {
		return nil
	}

	now := chronos.Now("")
	c.restarts = append(c.restarts, now)

	if c.seconds != RestartCounterInfinite {
		cutoff := now.Add(-time.Duration(c.seconds) * time.Second)
		trim := 0
		for _, r := range c.restarts {
			if r.After(cutoff) {
				break
			}
			trim++
		}
		c.restarts = slices.Delete(c.restarts, 0, trim)
	}

	if len(c.restarts) > c.max {
		return ErrBudgetExhausted
	}
	return nil
}

// count reports the number of restarts currently inside the window, used by
// tests to assert pruning behavior without reaching into private fields.
func (c *RestartCounter) count() int {
	return len(c.restarts)
}
