package msg

import (
	"sync/atomic"

	"github.com/wippyai/dynmsg/errors"
	"github.com/wippyai/dynmsg/schema"
)

// Message is a fixed-layout container for one message instance. Inline
// scalars and the presence bitmap live in a byte region whose geometry is
// entirely determined by the compiled schema; strings, arrays, and
// submessages live in reference slots and are shared with any other owner
// holding a reference.
//
// The presence bitmap is the single source of truth for Has: an explicitly
// set zero value is distinct from an unset field. Clear zeroes the bitmap
// only, which keeps slot occupants retained as recycle candidates.
//
// Sharing a Message across goroutines via Ref/Unref is safe; mutating one
// instance from more than one goroutine is not.
type Message struct {
	def   *schema.MessageDef
	data  []byte
	slots []Value
	refs  atomic.Int32
}

// NewMessage returns a fresh message of the given type: all presence bits
// zero, refcount 1.
func NewMessage(def *schema.MessageDef) *Message {
	m := &Message{
		def:   def,
		data:  make([]byte, def.Size()),
		slots: make([]Value, def.SlotCount()),
	}
	m.refs.Store(1)
	return m
}

// Def returns the message type.
func (m *Message) Def() *schema.MessageDef { return m.def }

// Has reports whether the field holds an explicitly set value. Fields of a
// different message type report false.
func (m *Message) Has(f *schema.FieldDef) bool {
	if f == nil || f.Parent() != m.def {
		return false
	}
	bit := f.Index()
	return m.data[bit>>3]&(1<<(bit&7)) != 0
}

// Get returns the stored value if the field is set, or the schema default.
// For reference-counted fields the returned handle grants no mutation
// rights; use GetMutable to populate a field in place. An unset submessage
// or repeated field reads as a nil handle.
func (m *Message) Get(f *schema.FieldDef) (Value, error) {
	if err := m.checkField(f, errors.PhaseGet); err != nil {
		return Value{}, err
	}
	if !m.Has(f) {
		return defaultValue(f), nil
	}
	if f.IsRefCounted() {
		return m.slots[f.Slot()], nil
	}
	return readScalar(m.data[f.Offset():], f.Kind()), nil
}

// GetMutable returns a writable handle for a string, bytes, array, or
// submessage field. If the field is already set the existing handle is
// returned; otherwise the slot's retained occupant is recycled when this
// message is its sole owner, or a fresh empty instance is allocated, and
// the field is marked present.
func (m *Message) GetMutable(f *schema.FieldDef) (Value, error) {
	if err := m.checkField(f, errors.PhaseGet); err != nil {
		return Value{}, err
	}
	if !f.IsRefCounted() {
		return Value{}, errors.WrongFieldKind(errors.PhaseGet, m.fieldPath(f), f.Kind().String(), "GetMutable")
	}
	if f.Kind() == schema.Message && f.MessageType() == nil {
		return Value{}, errors.NilPointer(errors.PhaseGet, m.fieldPath(f), "message type")
	}

	slot := f.Slot()
	if m.Has(f) {
		return m.slots[slot], nil
	}
	v := recycleValue(m.slots[slot], f.Kind(), f.Repeated(), f.MessageType())
	m.slots[slot] = v
	m.setBit(f)
	return v, nil
}

// Set stores a value and marks the field present. For reference-counted
// fields the slot's previous occupant is released strictly before the new
// value's reference is acquired.
func (m *Message) Set(f *schema.FieldDef, v Value) error {
	if err := m.checkField(f, errors.PhaseSet); err != nil {
		return err
	}
	if err := m.checkValue(f, v); err != nil {
		return err
	}

	if f.IsRefCounted() {
		slot := f.Slot()
		old := m.slots[slot]
		if !sameHandle(old, v) {
			unrefValue(old)
			refValue(v)
			m.slots[slot] = v
		}
	} else {
		writeScalar(m.data[f.Offset():], v, f.Kind())
	}
	m.setBit(f)
	return nil
}

// AppendValue appends a scalar, string, or bytes value to a repeated
// field's backing array, creating (or recycling) the array on first use.
// Submessage elements go through AppendEmptyMessage instead.
func (m *Message) AppendValue(f *schema.FieldDef, v Value) error {
	if err := m.checkField(f, errors.PhaseAppend); err != nil {
		return err
	}
	if !f.Repeated() || f.Kind() == schema.Message {
		return errors.WrongFieldKind(errors.PhaseAppend, m.fieldPath(f), f.Kind().String(), "AppendValue")
	}
	arr, err := m.mutableArray(f)
	if err != nil {
		return err
	}
	return arr.Append(v)
}

// AppendEmptyMessage appends an empty submessage to a repeated message
// field and returns it for in-place population, creating the backing array
// on first use and recycling a retained child when possible.
func (m *Message) AppendEmptyMessage(f *schema.FieldDef) (*Message, error) {
	if err := m.checkField(f, errors.PhaseAppend); err != nil {
		return nil, err
	}
	if !f.Repeated() || f.Kind() != schema.Message {
		return nil, errors.WrongFieldKind(errors.PhaseAppend, m.fieldPath(f), f.Kind().String(), "AppendEmptyMessage")
	}
	if f.MessageType() == nil {
		return nil, errors.NilPointer(errors.PhaseAppend, m.fieldPath(f), "message type")
	}
	arr, err := m.mutableArray(f)
	if err != nil {
		return nil, err
	}
	v, err := arr.AppendMutable()
	if err != nil {
		return nil, err
	}
	return v.Msg(), nil
}

// Clear zeroes the presence bitmap: every field reverts to its default.
// No references are released and no memory is freed, which is what makes
// slot occupants recyclable on the next populate cycle.
func (m *Message) Clear() {
	b := m.data[:m.def.BitmapBytes()]
	for i := range b {
		b[i] = 0
	}
}

// ClearField clears a single field's presence bit.
func (m *Message) ClearField(f *schema.FieldDef) error {
	if err := m.checkField(f, errors.PhaseSet); err != nil {
		return err
	}
	bit := f.Index()
	m.data[bit>>3] &^= 1 << (bit & 7)
	return nil
}

// Ref acquires one reference and returns m.
func (m *Message) Ref() *Message {
	m.refs.Add(1)
	return m
}

// Unref releases one reference. The last release releases every slot
// occupant (one level; further freeing is driven by each sub-object's own
// count) and drops the data region. Unref on a nil message is a no-op.
func (m *Message) Unref() {
	if m == nil {
		return
	}
	if m.refs.Add(-1) != 0 {
		return
	}
	for i := range m.slots {
		unrefValue(m.slots[i])
		m.slots[i] = Value{}
	}
	m.data = nil
}

func (m *Message) setBit(f *schema.FieldDef) {
	bit := f.Index()
	m.data[bit>>3] |= 1 << (bit & 7)
}

func (m *Message) fieldPath(f *schema.FieldDef) []string {
	return []string{m.def.Name(), f.Name()}
}

func (m *Message) checkField(f *schema.FieldDef, phase errors.Phase) error {
	if f == nil {
		return errors.NilPointer(phase, []string{m.def.Name()}, "field")
	}
	if f.Parent() != m.def {
		return errors.UnknownField(phase, []string{m.def.Name()}, f.Name())
	}
	return nil
}

// checkValue verifies that a caller-supplied value matches the field's
// declared storage. Scalar cells are unverifiable (a Value carries no tag);
// handles are checked by type and, where known, by message type.
func (m *Message) checkValue(f *schema.FieldDef, v Value) error {
	switch {
	case f.Repeated():
		a := v.Array()
		if a == nil {
			return errors.NilPointer(errors.PhaseSet, m.fieldPath(f), "array handle")
		}
		if a.ElemKind() != f.Kind() {
			return errors.KindMismatch(errors.PhaseSet, m.fieldPath(f), f.Kind().String(), a.ElemKind().String())
		}
		if f.Kind() == schema.Message && f.MessageType() != nil &&
			a.ElemType() != nil && a.ElemType() != f.MessageType() {
			return errors.KindMismatch(errors.PhaseSet, m.fieldPath(f), f.MessageType().Name(), a.ElemType().Name())
		}
	case f.Kind() == schema.String || f.Kind() == schema.Bytes:
		if v.Str() == nil {
			return errors.NilPointer(errors.PhaseSet, m.fieldPath(f), "string handle")
		}
	case f.Kind() == schema.Message:
		child := v.Msg()
		if child == nil {
			return errors.NilPointer(errors.PhaseSet, m.fieldPath(f), "message handle")
		}
		if f.MessageType() != nil && child.def != f.MessageType() {
			return errors.KindMismatch(errors.PhaseSet, m.fieldPath(f), f.MessageType().Name(), child.def.Name())
		}
	default:
		if v.ref != nil {
			return errors.KindMismatch(errors.PhaseSet, m.fieldPath(f), f.Kind().String(), "handle")
		}
	}
	return nil
}

// mutableArray returns the field's backing array, creating or recycling it
// and marking the field present on first use.
func (m *Message) mutableArray(f *schema.FieldDef) (*Array, error) {
	slot := f.Slot()
	if m.Has(f) {
		return m.slots[slot].Array(), nil
	}
	v := recycleValue(m.slots[slot], f.Kind(), true, f.MessageType())
	m.slots[slot] = v
	m.setBit(f)
	return v.Array(), nil
}

// defaultValue materializes a field's schema default. String and bytes
// defaults wrap the schema's bytes without copying; the returned handle is
// read-only by the Get contract.
func defaultValue(f *schema.FieldDef) Value {
	if f.Repeated() {
		return Value{}
	}
	switch f.Kind() {
	case schema.String, schema.Bytes:
		s := NewString()
		s.buf = f.Default().Bytes
		return StringValue(s)
	case schema.Message:
		return Value{}
	default:
		return Value{bits: f.Default().Bits}
	}
}
