package schema

// Kind is the value-kind tag for a field or array element. A stored value
// carries no tag of its own; readers and writers always supply the declared
// kind from schema metadata.
type Kind uint8

const (
	Bool Kind = iota
	Int32
	Int64
	UInt32
	UInt64
	Float32
	Float64
	String
	Bytes
	Message
)

var kindNames = [...]string{
	Bool:    "bool",
	Int32:   "int32",
	Int64:   "int64",
	UInt32:  "uint32",
	UInt64:  "uint64",
	Float32: "float32",
	Float64: "float64",
	String:  "string",
	Bytes:   "bytes",
	Message: "message",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsScalar reports whether values of this kind are stored inline by copy.
func (k Kind) IsScalar() bool {
	return k <= Float64
}

// IsRefCounted reports whether values of this kind are shared handles whose
// lifetime is managed by reference counting.
func (k Kind) IsRefCounted() bool {
	return k == String || k == Bytes || k == Message
}

// Size returns the inline byte width of a scalar kind, or 0 for
// reference-counted kinds, which are stored out of line in reference slots.
func (k Kind) Size() uint32 {
	switch k {
	case Bool:
		return 1
	case Int32, UInt32, Float32:
		return 4
	case Int64, UInt64, Float64:
		return 8
	default:
		return 0
	}
}

// Alignment returns the required byte alignment for inline storage of a
// scalar kind, or 0 for reference-counted kinds.
func (k Kind) Alignment() uint32 {
	return k.Size() // scalar widths are their own alignment
}
