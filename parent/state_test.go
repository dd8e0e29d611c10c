package parent

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/corrigan-hale/parentcore/erl"
)

func newTestPID(t *testing.T) erl.PID {
	t.Helper()
	pid, _ := erl.NewTestReceiver(t)
	return pid
}

func TestState_RegisterAndLookupByIDAndPID(t *testing.T) {
	s := NewState(3, 5)
	pid := newTestPID(t)

	assert.NilError(t, s.Register(pid, ChildSpec{ID: "child1"}, erl.TimerRef{}))

	byID, ok := s.Lookup("child1")
	assert.Assert(t, ok)
	assert.Equal(t, byID.pid, pid)

	byPID, ok := s.Lookup(pid)
	assert.Assert(t, ok)
	assert.Equal(t, byPID.spec.ID, ChildID("child1"))
}

func TestState_RegisterRejectsDuplicateID(t *testing.T) {
	s := NewState(3, 5)
	pid1 := newTestPID(t)
	pid2 := newTestPID(t)

	assert.NilError(t, s.Register(pid1, ChildSpec{ID: "child1"}, erl.TimerRef{}))

	err := s.Register(pid2, ChildSpec{ID: "child1"}, erl.TimerRef{})
	var asErr AlreadyStartedError
	assert.Assert(t, errors.As(err, &asErr))
	assert.Equal(t, asErr.PID, pid1)
}

func TestState_RegisterAssignsIncreasingStartupIndex(t *testing.T) {
	s := NewState(3, 5)
	pid1, pid2 := newTestPID(t), newTestPID(t)

	assert.NilError(t, s.Register(pid1, ChildSpec{ID: "a"}, erl.TimerRef{}))
	assert.NilError(t, s.Register(pid2, ChildSpec{ID: "b"}, erl.TimerRef{}))

	recA, _ := s.Lookup("a")
	recB, _ := s.Lookup("b")
	assert.Assert(t, recA.startupIndex < recB.startupIndex)
}

func TestState_PopWithDependents_FollowsBindsTo(t *testing.T) {
	s := NewState(3, 5)
	base, dependent := newTestPID(t), newTestPID(t)

	assert.NilError(t, s.Register(base, ChildSpec{ID: "base"}, erl.TimerRef{}))
	assert.NilError(t, s.Register(dependent, ChildSpec{ID: "dependent", BindsTo: []ChildID{"base"}}, erl.TimerRef{}))

	popped := s.PopWithDependents("base")
	assert.Equal(t, len(popped), 2)

	_, stillThere := s.Lookup("base")
	assert.Assert(t, !stillThere)
	_, stillThere = s.Lookup("dependent")
	assert.Assert(t, !stillThere)
}

func TestState_PopWithDependents_FollowsShutdownGroup(t *testing.T) {
	s := NewState(3, 5)
	a, b, c := newTestPID(t), newTestPID(t), newTestPID(t)

	assert.NilError(t, s.Register(a, ChildSpec{ID: "a", ShutdownGroup: "g1"}, erl.TimerRef{}))
	assert.NilError(t, s.Register(b, ChildSpec{ID: "b", ShutdownGroup: "g1"}, erl.TimerRef{}))
	assert.NilError(t, s.Register(c, ChildSpec{ID: "c"}, erl.TimerRef{}))

	popped := s.PopWithDependents("a")
	assert.Equal(t, len(popped), 2)

	_, cStillThere := s.Lookup("c")
	assert.Assert(t, cStillThere)
}

func TestState_PopWithDependents_UnknownRefIsNoop(t *testing.T) {
	s := NewState(3, 5)
	assert.Assert(t, s.PopWithDependents("nonexistent") == nil)
}

func TestState_ReRegister_PreservesStartupIndexAndCounter(t *testing.T) {
	s := NewState(3, 5)
	pid := newTestPID(t)
	assert.NilError(t, s.Register(pid, ChildSpec{ID: "child1"}, erl.TimerRef{}))

	rec, _ := s.Lookup("child1")
	popped := s.PopWithDependents(pid)
	assert.Equal(t, len(popped), 1)

	newPID := newTestPID(t)
	assert.NilError(t, s.ReRegister(popped[0], newPID, erl.TimerRef{}))

	reRec, ok := s.Lookup("child1")
	assert.Assert(t, ok)
	assert.Equal(t, reRec.pid, newPID)
	assert.Equal(t, reRec.startupIndex, rec.startupIndex)
	assert.Assert(t, reRec.counter == rec.counter)
}

func TestState_UpdateMeta(t *testing.T) {
	s := NewState(3, 5)
	pid := newTestPID(t)
	assert.NilError(t, s.Register(pid, ChildSpec{ID: "child1", Meta: 1}, erl.TimerRef{}))

	err := s.UpdateMeta("child1", func(m Meta) Meta {
		return m.(int) + 1
	})
	assert.NilError(t, err)

	meta, _ := s.ChildMeta("child1")
	assert.Equal(t, meta, 2)
}

func TestState_UpdateMeta_UnknownChild(t *testing.T) {
	s := NewState(3, 5)
	err := s.UpdateMeta("nonexistent", func(m Meta) Meta { return m })
	assert.ErrorIs(t, err, ErrUnknownChild)
}

func TestState_Reinitialize_ClearsButPreservesSequence(t *testing.T) {
	s := NewState(3, 5)
	pid1 := newTestPID(t)
	assert.NilError(t, s.Register(pid1, ChildSpec{ID: "a"}, erl.TimerRef{}))

	s.Reinitialize()
	assert.Equal(t, s.NumChildren(), 0)

	pid2 := newTestPID(t)
	assert.NilError(t, s.Register(pid2, ChildSpec{ID: "b"}, erl.TimerRef{}))
	rec, _ := s.Lookup("b")
	assert.Assert(t, rec.startupIndex > 0)
}

func TestState_AllByStartupIndex_IsAscending(t *testing.T) {
	s := NewState(3, 5)
	ids := []ChildID{"a", "b", "c"}
	for _, id := range ids {
		assert.NilError(t, s.Register(newTestPID(t), ChildSpec{ID: id}, erl.TimerRef{}))
	}

	all := s.allByStartupIndex()
	assert.Equal(t, len(all), 3)
	for i := range ids {
		assert.Equal(t, all[i].spec.ID, ids[i])
	}
}
