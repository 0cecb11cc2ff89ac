// Package dynmsg provides a schema-driven in-memory model for structured
// messages: scalar fields, strings, nested messages, and repeated fields,
// stored compactly and interpreted through runtime field metadata instead
// of per-message generated code.
//
// It is the value model that wire-format decoders, encoders, and printers
// populate and read. Field access is O(1) through byte offsets and
// reference-slot indexes precomputed by a compiled schema, and sub-objects
// are shared between owners through atomic reference counts with a
// recycle-instead-of-free fast path for decode-in-a-loop workloads.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	dynmsg/          Root package: overview documentation
//	├── msg/         Value cells, arrays, messages, refcounting and recycling
//	├── schema/      Field/message descriptors and layout compilation
//	├── protoschema/ Descriptor conversion from protobuf descriptor sets
//	├── errors/      Structured error types for debugging
//	└── cmd/layout/  CLI that prints compiled message layouts
//
// # Quick Start
//
// Compile a descriptor and populate a message:
//
//	def, err := schema.NewMessageDef("demo.Point", []schema.Field{
//	    {Name: "x", Number: 1, Kind: schema.Int32},
//	    {Name: "y", Number: 2, Kind: schema.Int32},
//	    {Name: "label", Number: 3, Kind: schema.String},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m := msg.NewMessage(def)
//	defer m.Unref()
//
//	m.Set(def.FieldByName("x"), msg.Int32Value(3))
//	v, _ := m.GetMutable(def.FieldByName("label"))
//	v.Str().SetBytes([]byte("origin"))
//
// # Presence
//
// Every field has a presence bit, and the bitmap is the single source of
// truth for Has: an explicitly stored zero is distinct from an unset
// field, and reading an unset field yields the schema default.
//
// # Ownership and Recycling
//
// Strings, arrays, and submessages are shared by atomic reference count
// and freed when the last owner releases them. Clear and Reset leave slot
// occupants retained, and the next populate cycle reuses them in place
// when the container is their sole owner — a decode loop can process
// millions of records against one set of allocations via msg.Recycle.
//
// # Thread Safety
//
// Acquiring and releasing references is safe from any goroutine. Mutating
// a given message or array is single-owner: the model provides safe
// sharing of immutable sub-objects, not safe concurrent mutation.
//
// # Error Handling
//
// Errors use the structured types from the errors package:
//
//	[set] kind_mismatch at demo.Point.label: field kind string, want int32
//	[get] out_of_bounds: index 5 out of bounds (length 3)
package dynmsg
