// Package schema defines runtime field and message descriptors.
//
// A MessageDef compiles a field list into the storage geometry the msg
// package interprets at runtime: a presence-bit index per field, a byte
// offset for every inline scalar, a reference-slot index for every shared
// handle (strings, bytes, arrays, submessages), and the total data size.
// Field access through a compiled descriptor is O(1).
//
// Descriptors are immutable after construction, with one exception:
// message-kind fields may be bound to their child MessageDef after the
// fact via BindMessageType, which is what makes recursive message types
// constructible.
//
// Descriptors can be built directly with NewMessageDef, or converted from
// protobuf descriptors by the protodesc package.
package schema
