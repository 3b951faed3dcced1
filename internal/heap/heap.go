// Package heap implements Alien's runtime object model and its
// mark-and-sweep collector. Functions, classes, instances and bound
// methods are four distinct Go struct types traced by a type switch in
// Mark — there is no shared interface carrying a virtual Mark method,
// so the collector never dispatches through a vtable.
package heap

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	"alien-vm/internal/value"
)

// Chunker is satisfied by *chunk.Chunk. heap cannot import chunk
// directly (chunk imports value, and a Function's constant pool can
// itself hold Values that point back into the heap), so Function holds
// its chunk behind this narrow interface instead.
type Chunker interface {
	ConstantValues() []value.Value
}

// Function is a compiled function or method: a name, its bytecode
// chunk, and its parameter count. The top-level script is itself a
// Function named "script" with zero arity.
type Function struct {
	Name    string
	Arity   int
	Chunk   Chunker
	DebugID string // short tag assigned at allocation; --trace-gc output does not print it
	marked  bool
}

// NewFunction allocates a Function and tags it with a debug id; it
// does not register the object with a Heap, since the compiler must
// control exactly when that happens relative to a possible collection.
func NewFunction(name string, arity int, ch Chunker) *Function {
	return &Function{Name: name, Arity: arity, Chunk: ch, DebugID: newDebugID()}
}

func (f *Function) String() string { return fmt.Sprintf("<fn %s>", f.Name) }

// Class is a named bag of methods, each an Alien Function.
type Class struct {
	Name    string
	Methods map[string]*Function
	DebugID string
	marked  bool
}

func NewClass(name string) *Class {
	return &Class{Name: name, Methods: make(map[string]*Function), DebugID: newDebugID()}
}

func (c *Class) String() string { return fmt.Sprintf("<class %s>", c.Name) }

// FindMethod looks up a method by name, walking no inheritance chain —
// Alien classes do not support inheritance.
func (c *Class) FindMethod(name string) (*Function, bool) {
	m, ok := c.Methods[name]
	return m, ok
}

// Instance is a live object of some Class, holding its own field set.
type Instance struct {
	Class   *Class
	Fields  map[string]value.Value
	DebugID string
	marked  bool
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]value.Value), DebugID: newDebugID()}
}

func (i *Instance) String() string { return fmt.Sprintf("<instance %s>", i.Class.Name) }

func (i *Instance) GetField(name string) (value.Value, bool) {
	v, ok := i.Fields[name]
	return v, ok
}

func (i *Instance) SetField(name string, v value.Value) {
	i.Fields[name] = v
}

// BoundMethod pairs a method Function with the receiver it was bound
// to off of GET_PROPERTY; calling it installs Receiver into slot 0.
type BoundMethod struct {
	Receiver value.Value
	Method   *Function
	DebugID  string
	marked   bool
}

// NewBoundMethod allocates a BoundMethod over a receiver and its
// resolved method, tagged with a debug id like every other heap kind.
func NewBoundMethod(receiver value.Value, method *Function) *BoundMethod {
	return &BoundMethod{Receiver: receiver, Method: method, DebugID: newDebugID()}
}

func (b *BoundMethod) String() string { return fmt.Sprintf("<bound method %s>", b.Method.Name) }

// newDebugID returns a short per-object id tag; it is never compared,
// exposed to Alien source, or printed by the --trace-gc output.
func newDebugID() string { return uuid.NewString()[:8] }

// Heap owns every allocated object and runs the collector over them.
// Whoever allocates an object adds it via Register right after
// allocation; nothing is ever removed from Objects except by sweep.
type Heap struct {
	Objects []interface{}
	NextGC  int

	// Trace, if set, is invoked after every collection that actually
	// swept (not on checks that stayed below threshold) with the
	// object count immediately before and after. Set by the CLI's
	// --trace-gc flag; nil in normal operation.
	Trace func(before, after int)
}

func New() *Heap {
	return &Heap{NextGC: 50}
}

// Register must be called immediately after allocating any heap object
// (*Function, *Class, *Instance, *BoundMethod), before the allocation
// can possibly be reached by a collection — otherwise a GC triggered
// mid-construction could free it out from under its own initializer.
func (h *Heap) Register(obj interface{}) {
	h.Objects = append(h.Objects, obj)
}

// CollectGarbage is the VM's GC trigger, called before every
// instruction dispatch. If the live object count has reached NextGC it
// marks roots (via markRoots, which the VM supplies since only the VM
// knows the stack, globals and call frames), sweeps, and sets NextGC to
// twice the surviving object count. Below the threshold it does nothing,
// so NextGC keeps its value until the next real collection.
func (h *Heap) CollectGarbage(markRoots func()) {
	if len(h.Objects) >= h.NextGC {
		before := len(h.Objects)
		markRoots()
		h.sweep()
		if h.Trace != nil {
			h.Trace(before, len(h.Objects))
		}
		h.NextGC = len(h.Objects) * 2
	}
}

// Mark flags obj (and everything it transitively references) as
// reachable. It is a type switch, not a virtual method call — Function,
// Class, Instance and BoundMethod each get their own traversal rule
// inline here rather than implementing a common interface.
func Mark(obj interface{}) {
	switch o := obj.(type) {
	case nil:
		return
	case *Function:
		if o.marked {
			return
		}
		o.marked = true
		if o.Chunk != nil {
			for _, c := range o.Chunk.ConstantValues() {
				markValue(c)
			}
		}
	case *Class:
		if o.marked {
			return
		}
		o.marked = true
		for _, m := range o.Methods {
			Mark(m)
		}
	case *Instance:
		if o.marked {
			return
		}
		o.marked = true
		Mark(o.Class)
		for _, v := range o.Fields {
			markValue(v)
		}
	case *BoundMethod:
		if o.marked {
			return
		}
		o.marked = true
		Mark(o.Method)
		markValue(o.Receiver)
	}
}

func markValue(v value.Value) {
	if v.IsObj() {
		Mark(v.AsObj())
	}
}

func isMarked(obj interface{}) bool {
	switch o := obj.(type) {
	case *Function:
		return o.marked
	case *Class:
		return o.marked
	case *Instance:
		return o.marked
	case *BoundMethod:
		return o.marked
	default:
		return true
	}
}

func unmark(obj interface{}) {
	switch o := obj.(type) {
	case *Function:
		o.marked = false
	case *Class:
		o.marked = false
	case *Instance:
		o.marked = false
	case *BoundMethod:
		o.marked = false
	}
}

// sweep drops every unmarked object and flips the mark bit on every
// survivor back to false, so the next cycle starts from a clean slate.
// Unmarking a survivor is a side effect of the predicate itself, so
// slices.DeleteFunc's single pass does both the flip and the compaction.
func (h *Heap) sweep() {
	h.Objects = slices.DeleteFunc(h.Objects, func(obj interface{}) bool {
		if !isMarked(obj) {
			return true
		}
		unmark(obj)
		return false
	})
}
