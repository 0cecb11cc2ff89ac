package msg

import (
	"sync/atomic"

	"github.com/wippyai/dynmsg/errors"
	"github.com/wippyai/dynmsg/schema"
)

const arrayInitialCap = 4

// Array is a growable, reference-counted sequence of values of one element
// kind. Element storage beyond the logical length is retained across Reset
// so repeated decode cycles can reuse previously allocated strings and
// submessages instead of reallocating them.
type Array struct {
	elemType *schema.MessageDef
	vals     []Value
	n        int
	refs     atomic.Int32
	elem     schema.Kind
}

// NewArray returns an empty array of the given element kind, refcount 1.
// For arrays of submessages use NewMessageArray, which carries the element
// message type needed to allocate children.
func NewArray(elem schema.Kind) *Array {
	a := &Array{elem: elem}
	a.refs.Store(1)
	return a
}

// NewMessageArray returns an empty array of submessages of the given type,
// refcount 1.
func NewMessageArray(elemType *schema.MessageDef) *Array {
	a := NewArray(schema.Message)
	a.elemType = elemType
	return a
}

// ElemKind returns the element kind.
func (a *Array) ElemKind() schema.Kind { return a.elem }

// ElemType returns the element message type for submessage arrays, or nil.
func (a *Array) ElemType() *schema.MessageDef { return a.elemType }

// Len returns the logical element count.
func (a *Array) Len() int { return a.n }

// Get returns the element at index i without transferring ownership: the
// caller must not assume exclusive access to a shared element.
func (a *Array) Get(i int) (Value, error) {
	if i < 0 || i >= a.n {
		return Value{}, errors.OutOfBounds(errors.PhaseGet, nil, i, a.n)
	}
	return a.vals[i], nil
}

// Set overwrites the element at index i. For reference-counted element
// kinds the previous occupant's reference is released before the new
// value's reference is acquired; no element is ever overwritten without
// first releasing its prior occupant.
func (a *Array) Set(i int, v Value) error {
	if i < 0 || i >= a.n {
		return errors.OutOfBounds(errors.PhaseSet, nil, i, a.n)
	}
	if err := a.checkElem(v, errors.PhaseSet); err != nil {
		return err
	}
	a.store(i, v)
	return nil
}

// Append adds v at the end, growing capacity geometrically. For
// reference-counted element kinds a reference on v is acquired, and any
// retained occupant of the reused slot is released first.
func (a *Array) Append(v Value) error {
	if err := a.checkElem(v, errors.PhaseAppend); err != nil {
		return err
	}
	a.ensureSlot()
	a.store(a.n, v)
	a.n++
	return nil
}

// AppendMutable grows the array by one element and returns the new slot's
// value for in-place population. Valid only for reference-counted element
// kinds. The slot's retained occupant is reused when this array is its sole
// owner; otherwise it is released and a fresh empty instance is allocated.
func (a *Array) AppendMutable() (Value, error) {
	if !a.elem.IsRefCounted() {
		return Value{}, errors.WrongFieldKind(errors.PhaseAppend, nil, a.elem.String(), "AppendMutable")
	}
	if a.elem == schema.Message && a.elemType == nil {
		return Value{}, errors.NilPointer(errors.PhaseAppend, nil, "element message type")
	}

	a.ensureSlot()
	v := recycleValue(a.vals[a.n], a.elem, false, a.elemType)
	a.vals[a.n] = v
	a.n++
	return v, nil
}

// Reset sets the logical length to zero without releasing elements or
// freeing storage. Retained elements become recycle candidates for the next
// populate cycle.
func (a *Array) Reset() {
	a.n = 0
}

// Ref acquires one reference and returns a.
func (a *Array) Ref() *Array {
	a.refs.Add(1)
	return a
}

// Unref releases one reference. The last release releases every retained
// reference-counted element (one level) and drops the buffer.
func (a *Array) Unref() {
	if a == nil {
		return
	}
	if a.refs.Add(-1) != 0 {
		return
	}
	if a.elem.IsRefCounted() {
		// All initialized slots, including retained ones beyond the
		// logical length, hold a reference.
		for i := range a.vals {
			unrefValue(a.vals[i])
		}
	}
	a.vals = nil
	a.n = 0
}

// checkElem verifies that a caller-supplied value matches the element kind.
// Scalar cells are unverifiable (a Value carries no tag); only handles are
// checked.
func (a *Array) checkElem(v Value, phase errors.Phase) error {
	switch a.elem {
	case schema.String, schema.Bytes:
		if v.Str() == nil {
			return errors.NilPointer(phase, nil, "string handle")
		}
	case schema.Message:
		m := v.Msg()
		if m == nil {
			return errors.NilPointer(phase, nil, "message handle")
		}
		if a.elemType != nil && m.def != a.elemType {
			return errors.KindMismatch(phase, nil, m.def.Name(), a.elemType.Name())
		}
	default:
		if v.ref != nil {
			return errors.KindMismatch(phase, nil, a.elem.String(), "handle")
		}
	}
	return nil
}

// store writes v into slot i with release-then-acquire bookkeeping.
func (a *Array) store(i int, v Value) {
	if a.elem.IsRefCounted() {
		old := a.vals[i]
		if sameHandle(old, v) {
			return
		}
		unrefValue(old)
		refValue(v)
	}
	a.vals[i] = v
}

// ensureSlot makes slot a.n addressable, doubling capacity when full.
// Growth either fully succeeds or leaves the array untouched.
func (a *Array) ensureSlot() {
	if a.n < len(a.vals) {
		return
	}
	if len(a.vals) == cap(a.vals) {
		newCap := cap(a.vals) * 2
		if newCap < arrayInitialCap {
			newCap = arrayInitialCap
		}
		grown := make([]Value, len(a.vals), newCap)
		copy(grown, a.vals)
		a.vals = grown
	}
	a.vals = a.vals[:len(a.vals)+1]
}
