package msg

import "github.com/wippyai/dynmsg/schema"

// recycleValue produces an empty instance for a slot, reusing the slot's
// retained occupant when the container is its sole owner. A shared occupant
// is released (the other owners keep it alive) and a fresh instance is
// allocated instead. This is the one place the sole-owner probe lives;
// Array.AppendMutable, Message.GetMutable, and repeated-field creation all
// funnel through it.
func recycleValue(old Value, k schema.Kind, repeated bool, msgType *schema.MessageDef) Value {
	if repeated {
		if a := old.Array(); a != nil {
			if a.refs.Load() == 1 && a.elem == k {
				a.Reset()
				return ArrayValue(a)
			}
			a.Unref()
		}
		if k == schema.Message {
			return ArrayValue(NewMessageArray(msgType))
		}
		return ArrayValue(NewArray(k))
	}

	switch k {
	case schema.String, schema.Bytes:
		if s := old.Str(); s != nil {
			if s.refs.Load() == 1 {
				s.buf = s.buf[:0]
				return StringValue(s)
			}
			s.Unref()
		}
		return StringValue(NewString())

	case schema.Message:
		if m := old.Msg(); m != nil {
			if m.refs.Load() == 1 && m.def == msgType {
				m.Clear()
				return MessageValue(m)
			}
			m.Unref()
		}
		return MessageValue(NewMessage(msgType))
	}

	return Value{}
}

// Recycle returns a message of the given type ready for population: m
// itself, cleared, when m exists and has no other owner; otherwise m is
// released and a fresh message is allocated. A decode loop can reuse one
// allocation across arbitrarily many records this way, as long as nothing
// else retains a reference between iterations.
func Recycle(m *Message, def *schema.MessageDef) *Message {
	if m == nil {
		return NewMessage(def)
	}
	if m.refs.Load() == 1 && m.def == def {
		m.Clear()
		return m
	}
	m.Unref()
	return NewMessage(def)
}
