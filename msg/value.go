package msg

import (
	"encoding/binary"
	"math"

	"github.com/wippyai/dynmsg/schema"
)

// Value is a single storage cell: the raw bits of one scalar plus at most
// one handle to a shared sub-object. A Value does not know its own kind;
// every read and write is keyed by the declared schema.Kind of the field or
// element it occupies. Interpreting a cell through an accessor that does not
// match its declared kind returns that kind's zero value rather than
// corrupting memory; the Message and Array containers check declared kinds
// at their boundaries so this cannot happen through their API.
//
// Value carries no reference count of its own. Acquiring and releasing the
// handle it may hold is the container's responsibility.
type Value struct {
	ref  any
	bits uint64
}

// BoolValue returns a Value holding a bool.
func BoolValue(v bool) Value {
	if v {
		return Value{bits: 1}
	}
	return Value{}
}

// Int32Value returns a Value holding an int32.
func Int32Value(v int32) Value { return Value{bits: uint64(uint32(v))} }

// Int64Value returns a Value holding an int64.
func Int64Value(v int64) Value { return Value{bits: uint64(v)} }

// UInt32Value returns a Value holding a uint32.
func UInt32Value(v uint32) Value { return Value{bits: uint64(v)} }

// UInt64Value returns a Value holding a uint64.
func UInt64Value(v uint64) Value { return Value{bits: v} }

// Float32Value returns a Value holding a float32.
func Float32Value(v float32) Value { return Value{bits: uint64(math.Float32bits(v))} }

// Float64Value returns a Value holding a float64.
func Float64Value(v float64) Value { return Value{bits: math.Float64bits(v)} }

// StringValue returns a Value holding a string or bytes handle.
func StringValue(s *String) Value { return Value{ref: s} }

// ArrayValue returns a Value holding an array handle.
func ArrayValue(a *Array) Value { return Value{ref: a} }

// MessageValue returns a Value holding a message handle.
func MessageValue(m *Message) Value { return Value{ref: m} }

// Bool reads the cell as a bool.
func (v Value) Bool() bool { return v.bits != 0 }

// Int32 reads the cell as an int32.
func (v Value) Int32() int32 { return int32(uint32(v.bits)) }

// Int64 reads the cell as an int64.
func (v Value) Int64() int64 { return int64(v.bits) }

// UInt32 reads the cell as a uint32.
func (v Value) UInt32() uint32 { return uint32(v.bits) }

// UInt64 reads the cell as a uint64.
func (v Value) UInt64() uint64 { return v.bits }

// Float32 reads the cell as a float32.
func (v Value) Float32() float32 { return math.Float32frombits(uint32(v.bits)) }

// Float64 reads the cell as a float64.
func (v Value) Float64() float64 { return math.Float64frombits(v.bits) }

// Str returns the string handle, or nil if the cell holds none.
func (v Value) Str() *String {
	s, _ := v.ref.(*String)
	return s
}

// Array returns the array handle, or nil if the cell holds none.
func (v Value) Array() *Array {
	a, _ := v.ref.(*Array)
	return a
}

// Msg returns the message handle, or nil if the cell holds none.
func (v Value) Msg() *Message {
	m, _ := v.ref.(*Message)
	return m
}

// sameHandle reports whether two cells hold the identical sub-object.
func sameHandle(a, b Value) bool {
	return a.ref != nil && a.ref == b.ref
}

// refValue acquires one reference on the handle the cell holds, if any.
func refValue(v Value) {
	switch h := v.ref.(type) {
	case *String:
		h.Ref()
	case *Array:
		h.Ref()
	case *Message:
		h.Ref()
	}
}

// unrefValue releases one reference on the handle the cell holds, if any.
// At zero the handle releases its own direct children; freeing never
// cascades more than one level synchronously.
func unrefValue(v Value) {
	switch h := v.ref.(type) {
	case *String:
		h.Unref()
	case *Array:
		h.Unref()
	case *Message:
		h.Unref()
	}
}

// readScalar reads an inline scalar of the given kind from the start of b.
// Pure memory operation: no reference counts are touched.
func readScalar(b []byte, k schema.Kind) Value {
	switch k.Size() {
	case 1:
		return Value{bits: uint64(b[0])}
	case 4:
		return Value{bits: uint64(binary.LittleEndian.Uint32(b))}
	case 8:
		return Value{bits: binary.LittleEndian.Uint64(b)}
	default:
		return Value{}
	}
}

// writeScalar writes an inline scalar of the given kind to the start of b.
// Pure memory operation: no reference counts are touched.
func writeScalar(b []byte, v Value, k schema.Kind) {
	switch k.Size() {
	case 1:
		if v.bits != 0 {
			b[0] = 1
		} else {
			b[0] = 0
		}
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(v.bits))
	case 8:
		binary.LittleEndian.PutUint64(b, v.bits)
	}
}
