package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alien-vm/internal/value"
)

type fakeChunk struct{ constants []value.Value }

func (f *fakeChunk) ConstantValues() []value.Value { return f.constants }

func TestMarkAndSweepKeepsReachableObjects(t *testing.T) {
	h := New()

	reachable := &Function{Name: "alive"}
	unreachable := &Function{Name: "dead"}
	h.Register(reachable)
	h.Register(unreachable)

	Mark(reachable)
	h.sweep()

	require.Len(t, h.Objects, 1)
	assert.Equal(t, reachable, h.Objects[0])
}

func TestMarkTracesInstanceFieldsAndClass(t *testing.T) {
	h := New()
	class := NewClass("Point")
	instance := NewInstance(class)
	h.Register(class)
	h.Register(instance)

	inner := &Instance{Class: class, Fields: map[string]value.Value{}}
	h.Register(inner)
	instance.SetField("child", value.NewObj(inner))

	Mark(instance)
	h.sweep()

	require.Len(t, h.Objects, 3)
}

func TestMarkTracesBoundMethodReceiver(t *testing.T) {
	h := New()
	class := NewClass("Counter")
	method := &Function{Name: "next"}
	class.Methods["next"] = method
	receiver := NewInstance(class)
	bound := &BoundMethod{Receiver: value.NewObj(receiver), Method: method}

	h.Register(class)
	h.Register(method)
	h.Register(receiver)
	h.Register(bound)

	Mark(bound)
	h.sweep()

	assert.Len(t, h.Objects, 4)
}

func TestCollectGarbageKeepsThresholdWithoutSweep(t *testing.T) {
	h := New()
	h.NextGC = 100
	h.Register(&Function{Name: "a"})
	h.Register(&Function{Name: "b"})

	calledMarkRoots := false
	h.CollectGarbage(func() { calledMarkRoots = true })

	assert.False(t, calledMarkRoots, "should not mark when below threshold")
	assert.Equal(t, 100, h.NextGC)
}

func TestCollectGarbageSweepsWhenThresholdReached(t *testing.T) {
	h := New()
	h.NextGC = 1
	survivor := &Function{Name: "kept"}
	doomed := &Function{Name: "freed"}
	h.Register(survivor)
	h.Register(doomed)

	h.CollectGarbage(func() { Mark(survivor) })

	require.Len(t, h.Objects, 1)
	assert.Equal(t, survivor, h.Objects[0])
	assert.Equal(t, 2, h.NextGC)
}

func TestFunctionMarkTracesChunkConstants(t *testing.T) {
	h := New()
	nested := &Function{Name: "nested"}
	fc := &fakeChunk{constants: []value.Value{value.NewObj(nested)}}
	outer := &Function{Name: "outer", Chunk: fc}

	h.Register(outer)
	h.Register(nested)

	Mark(outer)
	h.sweep()

	require.Len(t, h.Objects, 2)
}
