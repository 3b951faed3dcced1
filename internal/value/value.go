// Package value defines the runtime Value: the tagged union every VM
// stack slot, global, and object field holds.
package value

import "fmt"

type Type int

const (
	Nil Type = iota
	Bool
	Number
	String
	Obj // heap-allocated: *heap.Function, *heap.Class, *heap.Instance, *heap.BoundMethod
)

// Value is a small value-type union. Nil, Bool, Number and String carry
// their payload inline (strings are immutable, so copying a Value
// copies the string header, not the bytes); Obj carries a pointer into
// the heap and is the only variant with identity semantics.
type Value struct {
	typ Type
	b   bool
	n   float64
	s   string
	obj interface{}
}

func Null() Value              { return Value{typ: Nil} }
func NewBool(b bool) Value     { return Value{typ: Bool, b: b} }
func NewNumber(n float64) Value { return Value{typ: Number, n: n} }
func NewString(s string) Value { return Value{typ: String, s: s} }
func NewObj(o interface{}) Value {
	if o == nil {
		panic("value: NewObj called with nil object")
	}
	return Value{typ: Obj, obj: o}
}

func (v Value) Type() Type           { return v.typ }
func (v Value) IsNil() bool          { return v.typ == Nil }
func (v Value) IsBool() bool         { return v.typ == Bool }
func (v Value) IsNumber() bool       { return v.typ == Number }
func (v Value) IsString() bool       { return v.typ == String }
func (v Value) IsObj() bool          { return v.typ == Obj }

func (v Value) AsBool() bool      { return v.b }
func (v Value) AsNumber() float64 { return v.n }
func (v Value) AsString() string  { return v.s }
func (v Value) AsObj() interface{} { return v.obj }

// Truthy implements Alien's truthiness rule: nil and false are falsey,
// everything else (including 0 and "") is truthy.
func (v Value) Truthy() bool {
	switch v.typ {
	case Nil:
		return false
	case Bool:
		return v.b
	default:
		return true
	}
}

// Equal implements value equality: Nil/Bool/Number/String compare by
// value, Obj compares by identity (pointer equality).
func Equal(a, b Value) bool {
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case Nil:
		return true
	case Bool:
		return a.b == b.b
	case Number:
		return a.n == b.n
	case String:
		return a.s == b.s
	case Obj:
		return a.obj == b.obj
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.typ {
	case Nil:
		return "nil"
	case Bool:
		return fmt.Sprintf("%t", v.b)
	case Number:
		return formatNumber(v.n)
	case String:
		return v.s
	case Obj:
		return fmt.Sprintf("%v", v.obj)
	default:
		return "<unknown>"
	}
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return fmt.Sprintf("%d", int64(n))
	}
	return fmt.Sprintf("%g", n)
}
