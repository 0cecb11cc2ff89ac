package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile Phase = "compile" // schema construction and layout
	PhaseGet     Phase = "get"     // field/element reads
	PhaseSet     Phase = "set"     // field/element writes
	PhaseAppend  Phase = "append"  // repeated-field appends
	PhaseRecycle Phase = "recycle" // recycle/reuse operations
	PhaseConvert Phase = "convert" // descriptor conversion
)

// Kind categorizes the error
type Kind string

const (
	KindKindMismatch   Kind = "kind_mismatch"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindWrongFieldKind Kind = "wrong_field_kind"
	KindUnknownField   Kind = "unknown_field"
	KindDuplicateField Kind = "duplicate_field"
	KindInvalidInput   Kind = "invalid_input"
	KindUnsupported    Kind = "unsupported"
	KindAllocation     Kind = "allocation"
	KindOverflow       Kind = "overflow"
	KindNilPointer     Kind = "nil_pointer"
	KindNotFound       Kind = "not_found"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	FieldKind string
	WantKind  string
	Detail    string
	Path      []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.FieldKind != "" || e.WantKind != "" {
		b.WriteString(": ")
		if e.FieldKind != "" && e.WantKind != "" {
			b.WriteString("field kind ")
			b.WriteString(e.FieldKind)
			b.WriteString(", want ")
			b.WriteString(e.WantKind)
		} else if e.FieldKind != "" {
			b.WriteString("field kind ")
			b.WriteString(e.FieldKind)
		} else {
			b.WriteString("want kind ")
			b.WriteString(e.WantKind)
		}
	}

	if e.Detail != "" {
		if e.FieldKind != "" || e.WantKind != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// FieldKind sets the declared kind of the field involved
func (b *Builder) FieldKind(k string) *Builder {
	b.err.FieldKind = k
	return b
}

// WantKind sets the kind the operation required
func (b *Builder) WantKind(k string) *Builder {
	b.err.WantKind = k
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// KindMismatch creates a kind mismatch error
func KindMismatch(phase Phase, path []string, fieldKind, wantKind string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindKindMismatch,
		Path:      path,
		FieldKind: fieldKind,
		WantKind:  wantKind,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// WrongFieldKind creates an error for an operation applied to the wrong kind of field
func WrongFieldKind(phase Phase, path []string, fieldKind, operation string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindWrongFieldKind,
		Path:      path,
		FieldKind: fieldKind,
		Detail:    fmt.Sprintf("operation %s not valid for this field kind", operation),
	}
}

// UnknownField creates an unknown field error
func UnknownField(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownField,
		Path:   path,
		Detail: fmt.Sprintf("field %q does not belong to this message type", fieldName),
	}
}

// DuplicateField creates a duplicate field definition error
func DuplicateField(phase Phase, path []string, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicateField,
		Path:   path,
		Detail: fmt.Sprintf("duplicate field %s", what),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, targetKind string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindOverflow,
		Path:     path,
		WantKind: targetKind,
		Detail:   fmt.Sprintf("value %v overflows %s", value, targetKind),
		Value:    value,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		Detail: fmt.Sprintf("nil %s", what),
	}
}

// NotFound creates a not found error
func NotFound(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: what,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
