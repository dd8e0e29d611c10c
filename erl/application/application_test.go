package application

import (
	"errors"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/assert/cmp"

	"github.com/corrigan-hale/parentcore/chronos"
	"github.com/corrigan-hale/parentcore/erl"
	"github.com/corrigan-hale/parentcore/erl/exitreason"
	"github.com/corrigan-hale/parentcore/erl/genserver"
	"github.com/corrigan-hale/parentcore/erl/gensrv"
	"github.com/corrigan-hale/parentcore/parent"
)

type testApp struct {
	startRet func(self erl.PID, args any) (erl.PID, error)
	stopRet  func() error
}

func (ta *testApp) Start(self erl.PID, args any) (erl.PID, error) {
	return ta.startRet(self, args)
}

func (ta *testApp) Stop() error {
	return ta.stopRet()
}

// rootArgs is the argument a test's root task hands to startRootParent: the
// children to install under a fresh Parent and its restart budget.
type rootArgs struct {
	children    []parent.ChildSpec
	maxRestarts int
	maxSeconds  int
}

// startRootParent builds a gensrv-based root task owning a *parent.Parent,
// starts the given children under it, and forwards erl.ExitMsg into
// Parent.HandleMessage. If that ever reports exitreason.TooManyRestarts, the
// root task terminates with that reason, which Application's own
// handleExitMsg observes over the link and turns into a cancel().
func startRootParent(self erl.PID, args rootArgs) (erl.PID, error) {
	return gensrv.StartLink[*parent.Parent](self, args,
		gensrv.RegisterInit(func(self erl.PID, a rootArgs) (*parent.Parent, any, error) {
			p := parent.New(parent.WithMaxRestarts(a.maxRestarts), parent.WithMaxSeconds(a.maxSeconds))
			for _, spec := range a.children {
				if _, err := p.StartChild(self, spec); err != nil {
					return p, nil, err
				}
			}
			erl.ProcessFlag(self, erl.TrapExit, true)
			return p, nil, nil
		}),
		gensrv.RegisterInfo(erl.ExitMsg{}, func(self erl.PID, msg erl.ExitMsg, p *parent.Parent) (*parent.Parent, any, error) {
			outcome, handled := p.HandleMessage(self, msg)
			if !handled {
				return p, nil, nil
			}
			if exitreason.IsTooManyRestarts(outcome.Reason) {
				return p, nil, outcome.Reason
			}
			return p, nil, nil
		}),
	)
}

func basicChildSpec(id string) parent.ChildSpec {
	return parent.ChildSpec{
		ID: id,
		Start: func(self erl.PID) (erl.PID, error) {
			return genserver.StartLink[int](self, genserver.NewTestServer[int](), nil, genserver.InheritOpts(genserver.DefaultOpts()))
		},
	}
}

func TestStart_NoErrors(t *testing.T) {
	startRet := func(self erl.PID, args any) (erl.PID, error) {
		assert.Check(t, cmp.Equal(args, "hello"))
		return startRootParent(self, rootArgs{
			children:    []parent.ChildSpec{basicChildSpec("child1")},
			maxRestarts: 3,
			maxSeconds:  5,
		})
	}
	ta := &testApp{
		startRet: startRet,
		stopRet:  func() error { return nil },
	}

	app := Start(ta, "hello", func() {
		t.Logf("called cancel()")
	})
	assert.Assert(t, erl.IsAlive(app.self))
	assert.Assert(t, !app.Stopped())
}

func TestStart_ErrorsCausePanic(t *testing.T) {
	failSrv := genserver.NewTestServer[int](genserver.SetInitProbe[int](func(self erl.PID, args any) (int, any, error) {
		return 0, nil, errors.New("uh-oh")
	}))

	startRet := func(self erl.PID, args any) (erl.PID, error) {
		assert.Check(t, cmp.Equal(args, "hello"))
		return startRootParent(self, rootArgs{
			children: []parent.ChildSpec{
				basicChildSpec("child1"),
				{
					ID: "child2",
					Start: func(self erl.PID) (erl.PID, error) {
						return genserver.StartLink[int](self, failSrv, nil, genserver.InheritOpts(genserver.DefaultOpts()))
					},
				},
			},
			maxRestarts: 3,
			maxSeconds:  5,
		})
	}

	ta := &testApp{
		startRet: startRet,
		stopRet:  func() error { return nil },
	}

	var app *App
	assert.Check(t, cmp.Panics(func() {
		app = Start(ta, "hello", func() {
			t.Logf("called cancel()")
		})
	}))

	assert.Assert(t, app == nil)
}

func TestApp_SupervisorExitCallsCancel(t *testing.T) {
	timeBomb := genserver.NewTestServer[int](genserver.SetInitProbe[int](func(self erl.PID, args any) (int, any, error) {
		erl.Send(self, genserver.NewTestMsg[int](
			genserver.SetProbe[int](func(self erl.PID, arg any, state int) (any, int, error) {
				<-time.After(chronos.Dur("1s"))
				return nil, 2, errors.New("uh-oh")
			})))

		return 0, nil, nil
	}))

	startRet := func(self erl.PID, args any) (erl.PID, error) {
		assert.Check(t, cmp.Equal(args, "hello"))
		return startRootParent(self, rootArgs{
			children: []parent.ChildSpec{
				{
					ID: "child1",
					Start: func(self erl.PID) (erl.PID, error) {
						return genserver.StartLink[int](self, timeBomb, nil, genserver.InheritOpts(genserver.DefaultOpts()))
					},
				},
				{
					ID: "child2",
					Start: func(self erl.PID) (erl.PID, error) {
						return genserver.StartLink[int](self, timeBomb, nil, genserver.InheritOpts(genserver.DefaultOpts()))
					},
				},
			},
			maxRestarts: 1,
			maxSeconds:  5,
		})
	}

	cancelled := make(chan string)
	ta := &testApp{
		startRet: startRet,
		stopRet:  func() error { return nil },
	}
	app := Start(ta, "hello", func() {
		cancelled <- "cancelled"
	})

	<-cancelled

	assert.Assert(t, app.Stopped())
	assert.Assert(t, !erl.IsAlive(app.self))
}

func TestApp_StopCallsCancel(t *testing.T) {
	startRet := func(self erl.PID, args any) (erl.PID, error) {
		assert.Check(t, cmp.Equal(args, "hello"))
		return startRootParent(self, rootArgs{
			children: []parent.ChildSpec{
				basicChildSpec("child1"),
				basicChildSpec("child2"),
			},
			maxRestarts: 3,
			maxSeconds:  5,
		})
	}

	cancelled := make(chan string, 1)
	ta := &testApp{
		startRet: startRet,
		stopRet:  func() error { return nil },
	}
	app := Start(ta, "hello", func() {
		cancelled <- "cancelled"
	})

	err := app.Stop()

	<-cancelled

	assert.NilError(t, err)
	assert.Assert(t, app.Stopped())
	assert.Assert(t, !erl.IsAlive(app.self))
}
