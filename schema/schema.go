package schema

import (
	"go.uber.org/zap"

	"github.com/wippyai/dynmsg/errors"
	"github.com/wippyai/dynmsg/schema/internal/layout"
)

// Default holds a field's schema-declared default value. Bits carries the
// raw scalar bits (integers, floats via their IEEE bit pattern, bool as
// 0/1); Bytes carries string and bytes defaults. Repeated and message
// fields have no default.
type Default struct {
	Bytes []byte
	Bits  uint64
}

// Field is the input description of one field, as supplied to NewMessageDef.
type Field struct {
	MessageType *MessageDef
	Name        string
	Default     Default
	Number      uint32
	Kind        Kind
	Repeated    bool
}

// FieldDef is a compiled field descriptor: the input description plus the
// layout products the message container needs for O(1) access.
type FieldDef struct {
	parent  *MessageDef
	msgType *MessageDef
	name    string
	def     Default
	number  uint32
	offset  uint32
	index   int
	slot    int
	kind    Kind
	rep     bool
}

// Number returns the field number.
func (f *FieldDef) Number() uint32 { return f.number }

// Name returns the field name.
func (f *FieldDef) Name() string { return f.name }

// Kind returns the declared value kind. For repeated fields this is the
// element kind; the field's storage is an array handle.
func (f *FieldDef) Kind() Kind { return f.kind }

// Repeated reports whether the field holds an array of values.
func (f *FieldDef) Repeated() bool { return f.rep }

// Default returns the schema-declared default value.
func (f *FieldDef) Default() Default { return f.def }

// Parent returns the message type this field belongs to.
func (f *FieldDef) Parent() *MessageDef { return f.parent }

// MessageType returns the child message type for message-kind fields, or nil.
func (f *FieldDef) MessageType() *MessageDef { return f.msgType }

// Index returns the field's ordinal, which is also its presence-bit index.
func (f *FieldDef) Index() int { return f.index }

// Offset returns the byte offset of inline scalar storage within the
// message data region. Only meaningful when IsRefCounted is false.
func (f *FieldDef) Offset() uint32 { return f.offset }

// Slot returns the reference-slot index for out-of-line storage, or -1 for
// inline scalar fields.
func (f *FieldDef) Slot() int { return f.slot }

// IsRefCounted reports whether the field's storage is a shared,
// reference-counted handle: any repeated field (array handle) and any
// string, bytes, or message field.
func (f *FieldDef) IsRefCounted() bool {
	return f.rep || f.kind.IsRefCounted()
}

// BindMessageType links a message-kind field to its child message type.
// Construction order cannot always supply the child up front: recursive and
// mutually recursive message types need the parent def to exist first.
func (f *FieldDef) BindMessageType(md *MessageDef) error {
	if f.kind != Message {
		return errors.WrongFieldKind(errors.PhaseCompile, []string{f.parent.name, f.name}, f.kind.String(), "BindMessageType")
	}
	if f.msgType != nil {
		return errors.InvalidInput(errors.PhaseCompile, []string{f.parent.name, f.name}, "message type already bound")
	}
	if md == nil {
		return errors.NilPointer(errors.PhaseCompile, []string{f.parent.name, f.name}, "message type")
	}
	f.msgType = md
	return nil
}

// MessageDef is a compiled message descriptor: the ordered field list plus
// the storage geometry of one message instance.
type MessageDef struct {
	byNumber map[uint32]*FieldDef
	byName   map[string]*FieldDef
	name     string
	fields   []*FieldDef
	size     uint32
	bitmap   uint32
	slots    int
}

// Name returns the full message type name.
func (md *MessageDef) Name() string { return md.name }

// Fields returns the fields in declaration order. The returned slice must
// not be modified.
func (md *MessageDef) Fields() []*FieldDef { return md.fields }

// FieldByNumber returns the field with the given number, or nil.
func (md *MessageDef) FieldByNumber(n uint32) *FieldDef { return md.byNumber[n] }

// FieldByName returns the field with the given name, or nil.
func (md *MessageDef) FieldByName(name string) *FieldDef { return md.byName[name] }

// Size returns the byte length of one message instance's data region
// (presence bitmap plus inline scalar storage).
func (md *MessageDef) Size() uint32 { return md.size }

// BitmapBytes returns the byte length of the presence bitmap prefix.
func (md *MessageDef) BitmapBytes() uint32 { return md.bitmap }

// SlotCount returns the number of reference slots a message instance needs.
func (md *MessageDef) SlotCount() int { return md.slots }

// NewMessageDef compiles a message descriptor from a field list. Presence
// bits are assigned in declaration order; inline scalar offsets are packed
// with natural alignment; reference-counted fields get sequential slots.
func NewMessageDef(name string, fields []Field) (*MessageDef, error) {
	md := &MessageDef{
		name:     name,
		fields:   make([]*FieldDef, 0, len(fields)),
		byNumber: make(map[uint32]*FieldDef, len(fields)),
		byName:   make(map[string]*FieldDef, len(fields)),
	}

	cells := make([]layout.Cell, len(fields))
	for i, in := range fields {
		if in.Number == 0 {
			return nil, errors.InvalidInput(errors.PhaseCompile, []string{name, in.Name}, "field number must be positive")
		}
		if in.Name == "" {
			return nil, errors.InvalidInput(errors.PhaseCompile, []string{name}, "field name must not be empty")
		}
		if in.MessageType != nil && in.Kind != Message {
			return nil, errors.KindMismatch(errors.PhaseCompile, []string{name, in.Name}, in.Kind.String(), Message.String())
		}

		f := &FieldDef{
			parent:  md,
			msgType: in.MessageType,
			name:    in.Name,
			def:     in.Default,
			number:  in.Number,
			index:   i,
			kind:    in.Kind,
			rep:     in.Repeated,
		}
		if _, dup := md.byNumber[f.number]; dup {
			return nil, errors.DuplicateField(errors.PhaseCompile, []string{name, f.name}, "number")
		}
		if _, dup := md.byName[f.name]; dup {
			return nil, errors.DuplicateField(errors.PhaseCompile, []string{name, f.name}, "name")
		}
		md.byNumber[f.number] = f
		md.byName[f.name] = f
		md.fields = append(md.fields, f)

		if f.IsRefCounted() {
			cells[i] = layout.Cell{Ref: true}
		} else {
			cells[i] = layout.Cell{Size: f.kind.Size(), Align: f.kind.Alignment()}
		}
	}

	info := layout.Compute(cells)
	md.size = info.Size
	md.bitmap = info.BitmapBytes
	md.slots = info.SlotCount
	for i, f := range md.fields {
		f.offset = info.Offsets[i]
		f.slot = info.Slots[i]
	}

	Logger().Debug("compiled message layout",
		zap.String("message", name),
		zap.Int("fields", len(md.fields)),
		zap.Uint32("size", md.size),
		zap.Uint32("bitmap_bytes", md.bitmap),
		zap.Int("ref_slots", md.slots))

	return md, nil
}
