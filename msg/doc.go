// Package msg implements the schema-driven in-memory message model.
//
// A Message stores inline scalars and a presence bitmap in a byte region
// laid out by its schema.MessageDef, and shares strings, arrays, and
// submessages through reference-counted handles held in reference slots.
// An Array is the growable container backing repeated fields. A Value is
// the single untagged cell both containers traffic in; every read and
// write is keyed by the field's declared schema kind.
//
// # Ownership
//
// Strings, arrays, and messages are shared by atomic reference count. The
// discipline at every mutation site is release-then-acquire: the slot's
// previous occupant is released (and freed if that was the last reference)
// strictly before the new occupant's reference is acquired and stored.
// Releasing the last reference releases an object's direct children only;
// each child's own count drives any further freeing.
//
// # Recycling
//
// Clear and Reset revert containers to empty without releasing anything,
// leaving slot occupants retained. The next GetMutable, AppendMutable, or
// Recycle reuses a retained occupant in place when the container is its
// sole owner, which lets a decode loop process millions of records against
// one set of allocations:
//
//	var m *msg.Message
//	for scanner.Scan() {
//		m = msg.Recycle(m, def)
//		// populate m via Set / GetMutable / AppendEmptyMessage
//	}
//	m.Unref()
//
// # Concurrency
//
// Ref and Unref are atomic, so a populated object may be shared across
// goroutines for reading and each owner may drop its reference on any
// goroutine. Mutation of a given instance is single-owner; the model
// provides safe sharing, not safe concurrent mutation.
package msg
