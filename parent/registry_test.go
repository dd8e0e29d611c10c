package parent

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"
)

func TestMapRegistry_LookupMissReportsFalse(t *testing.T) {
	r := NewMapRegistry()
	_, ok := r.Lookup("nonexistent")
	assert.Assert(t, !ok)
}

func TestMapRegistry_SnapshotIsACopy(t *testing.T) {
	r := NewMapRegistry()
	r.snapshot([]ChildInfo{{ID: "a"}})

	out := r.Snapshot()
	assert.Equal(t, len(out), 1)

	out[0].ID = "mutated"
	stillA, ok := r.Lookup("a")
	assert.Assert(t, ok)
	_ = stillA
}

func TestMapRegistry_SnapshotReplacesPreviousContents(t *testing.T) {
	r := NewMapRegistry()
	r.snapshot([]ChildInfo{{ID: "a"}, {ID: "b"}})
	r.snapshot([]ChildInfo{{ID: "c"}})

	_, ok := r.Lookup("a")
	assert.Assert(t, !ok)
	_, ok = r.Lookup("c")
	assert.Assert(t, ok)
}

func TestParentRegistry_PublishesOnStartAndShutdownAll(t *testing.T) {
	self := newTestPID(t)
	reg := NewMapRegistry()
	p := New(WithRegistry(reg))

	pid1, err := p.StartChild(self, okChildSpec("a"))
	assert.NilError(t, err)
	pid2, err := p.StartChild(self, okChildSpec("b"))
	assert.NilError(t, err)

	found1, ok := reg.Lookup("a")
	assert.Assert(t, ok)
	assert.Equal(t, found1, pid1)
	found2, ok := reg.Lookup("b")
	assert.Assert(t, ok)
	assert.Equal(t, found2, pid2)

	p.ShutdownAll(self, errors.New("stopping"))

	_, ok = reg.Lookup("a")
	assert.Assert(t, !ok)
	assert.Equal(t, len(reg.Snapshot()), 0)
}

func TestParentRegistry_PublishesOnRestart(t *testing.T) {
	self := newTestPID(t)
	reg := NewMapRegistry()
	p := New(WithRegistry(reg))

	oldPID, err := p.StartChild(self, okChildSpec("a"))
	assert.NilError(t, err)

	newPID, err := p.RestartChild(self, "a")
	assert.NilError(t, err)
	assert.Assert(t, newPID != oldPID)

	found, ok := reg.Lookup("a")
	assert.Assert(t, ok)
	assert.Equal(t, found, newPID)
}

func TestParentRegistry_NilRegistryIsOptional(t *testing.T) {
	self := newTestPID(t)
	p := New()

	_, err := p.StartChild(self, okChildSpec("a"))
	assert.NilError(t, err)
	assert.Assert(t, p.opts.registry == nil)
}
