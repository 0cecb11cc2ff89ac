// Package protoschema builds schema descriptors from protobuf descriptors.
//
// It converts protoreflect message descriptors, or a whole serialized
// FileDescriptorSet, into the compiled schema.MessageDef form the msg
// package interprets. Proto wire-level integer variants collapse onto
// their storage kinds (sint32/sfixed32 store as int32, and so on), enums
// store as int32, and proto2 explicit defaults carry over. Map and group
// fields are not supported.
package protoschema
