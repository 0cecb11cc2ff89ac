package protoschema

import (
	"math"

	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/wippyai/dynmsg/errors"
	"github.com/wippyai/dynmsg/schema"
)

// FromMessageDescriptor converts a protobuf message descriptor (and,
// recursively, every message type it references) into a compiled
// schema.MessageDef. Recursive and mutually recursive types are handled.
func FromMessageDescriptor(md protoreflect.MessageDescriptor) (*schema.MessageDef, error) {
	c := newConverter()
	return c.convert(md)
}

// FromFileDescriptorSet parses a serialized FileDescriptorSet (the output
// of protoc --descriptor_set_out) and converts every message type in it.
// The result maps full message names to their compiled defs.
func FromFileDescriptorSet(data []byte) (map[string]*schema.MessageDef, error) {
	var fds descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(data, &fds); err != nil {
		return nil, errors.Wrap(errors.PhaseConvert, errors.KindInvalidInput, err, "parse FileDescriptorSet")
	}
	files, err := protodesc.NewFiles(&fds)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConvert, errors.KindInvalidInput, err, "resolve FileDescriptorSet")
	}

	c := newConverter()
	var rangeErr error
	files.RangeFiles(func(fd protoreflect.FileDescriptor) bool {
		rangeErr = c.convertAll(fd.Messages())
		return rangeErr == nil
	})
	if rangeErr != nil {
		return nil, rangeErr
	}

	out := make(map[string]*schema.MessageDef, len(c.memo))
	for name, def := range c.memo {
		out[string(name)] = def
	}
	Logger().Debug("converted descriptor set", zap.Int("messages", len(out)))
	return out, nil
}

type converter struct {
	memo map[protoreflect.FullName]*schema.MessageDef
}

func newConverter() *converter {
	return &converter{memo: make(map[protoreflect.FullName]*schema.MessageDef)}
}

func (c *converter) convertAll(msgs protoreflect.MessageDescriptors) error {
	for i := 0; i < msgs.Len(); i++ {
		if _, err := c.convert(msgs.Get(i)); err != nil {
			return err
		}
	}
	return nil
}

func (c *converter) convert(md protoreflect.MessageDescriptor) (*schema.MessageDef, error) {
	if def, ok := c.memo[md.FullName()]; ok {
		return def, nil
	}

	fields := md.Fields()
	in := make([]schema.Field, fields.Len())
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		kind, err := kindOf(md, fd)
		if err != nil {
			return nil, err
		}
		in[i] = schema.Field{
			Name:     string(fd.Name()),
			Number:   uint32(fd.Number()),
			Kind:     kind,
			Repeated: fd.Cardinality() == protoreflect.Repeated,
			Default:  defaultOf(fd),
		}
	}

	def, err := schema.NewMessageDef(string(md.FullName()), in)
	if err != nil {
		return nil, err
	}
	// Memoize before descending so cyclic references resolve to this def.
	c.memo[md.FullName()] = def

	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		if fd.Kind() != protoreflect.MessageKind {
			continue
		}
		child, err := c.convert(fd.Message())
		if err != nil {
			return nil, err
		}
		if err := def.Fields()[i].BindMessageType(child); err != nil {
			return nil, err
		}
	}

	// Nested declarations are types in their own right even when unreferenced.
	if err := c.convertAll(md.Messages()); err != nil {
		return nil, err
	}

	return def, nil
}

func kindOf(md protoreflect.MessageDescriptor, fd protoreflect.FieldDescriptor) (schema.Kind, error) {
	if fd.IsMap() {
		return 0, errors.Unsupported(errors.PhaseConvert, "map field "+string(fd.FullName()))
	}
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return schema.Bool, nil
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind, protoreflect.EnumKind:
		return schema.Int32, nil
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return schema.Int64, nil
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return schema.UInt32, nil
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return schema.UInt64, nil
	case protoreflect.FloatKind:
		return schema.Float32, nil
	case protoreflect.DoubleKind:
		return schema.Float64, nil
	case protoreflect.StringKind:
		return schema.String, nil
	case protoreflect.BytesKind:
		return schema.Bytes, nil
	case protoreflect.MessageKind:
		return schema.Message, nil
	default:
		return 0, errors.New(errors.PhaseConvert, errors.KindUnsupported).
			Path(string(md.FullName()), string(fd.Name())).
			Detail("field kind %s", fd.Kind()).
			Build()
	}
}

func defaultOf(fd protoreflect.FieldDescriptor) schema.Default {
	if fd.Cardinality() == protoreflect.Repeated || fd.Kind() == protoreflect.MessageKind {
		return schema.Default{}
	}
	v := fd.Default()
	switch fd.Kind() {
	case protoreflect.BoolKind:
		if v.Bool() {
			return schema.Default{Bits: 1}
		}
		return schema.Default{}
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return schema.Default{Bits: uint64(uint32(int32(v.Int())))}
	case protoreflect.EnumKind:
		return schema.Default{Bits: uint64(uint32(int32(v.Enum())))}
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return schema.Default{Bits: uint64(v.Int())}
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind, protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return schema.Default{Bits: v.Uint()}
	case protoreflect.FloatKind:
		return schema.Default{Bits: uint64(math.Float32bits(float32(v.Float())))}
	case protoreflect.DoubleKind:
		return schema.Default{Bits: math.Float64bits(v.Float())}
	case protoreflect.StringKind:
		return schema.Default{Bytes: []byte(v.String())}
	case protoreflect.BytesKind:
		return schema.Default{Bytes: v.Bytes()}
	default:
		return schema.Default{}
	}
}
