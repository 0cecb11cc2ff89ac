package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:     PhaseSet,
				Kind:      KindKindMismatch,
				Path:      []string{"Person", "age"},
				FieldKind: "int32",
				WantKind:  "string",
				Detail:    "cannot store",
			},
			contains: []string{"[set]", "kind_mismatch", "Person.age", "int32", "string", "cannot store"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseGet,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[get]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseConvert,
				Kind:   KindUnsupported,
				Detail: "map fields",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[convert]", "unsupported", "map fields", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseCompile,
		Kind:  KindInvalidInput,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseSet,
		Kind:  KindKindMismatch,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseSet, Kind: KindKindMismatch}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseGet, Kind: KindKindMismatch}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseSet, Kind: KindOutOfBounds}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseSet, Kind: KindKindMismatch}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match same phase and kind")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("boom")
	err := New(PhaseAppend, KindWrongFieldKind).
		Path("Order", "items").
		FieldKind("message").
		Detail("use AppendEmptyMessage for %s fields", "submessage").
		Cause(cause).
		Value(42).
		Build()

	if err.Phase != PhaseAppend || err.Kind != KindWrongFieldKind {
		t.Errorf("phase/kind: got %s/%s", err.Phase, err.Kind)
	}
	if len(err.Path) != 2 || err.Path[1] != "items" {
		t.Errorf("path: got %v", err.Path)
	}
	if err.Detail != "use AppendEmptyMessage for submessage fields" {
		t.Errorf("detail: got %q", err.Detail)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not preserved through chain")
	}
	if err.Value != 42 {
		t.Errorf("value: got %v", err.Value)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
	}{
		{"KindMismatch", KindMismatch(PhaseSet, nil, "int32", "string"), KindKindMismatch},
		{"OutOfBounds", OutOfBounds(PhaseGet, nil, 5, 3), KindOutOfBounds},
		{"WrongFieldKind", WrongFieldKind(PhaseAppend, nil, "int32", "GetMutable"), KindWrongFieldKind},
		{"UnknownField", UnknownField(PhaseSet, nil, "nope"), KindUnknownField},
		{"DuplicateField", DuplicateField(PhaseCompile, nil, "number 3"), KindDuplicateField},
		{"Unsupported", Unsupported(PhaseConvert, "group fields"), KindUnsupported},
		{"AllocationFailed", AllocationFailed(PhaseAppend, 1024), KindAllocation},
		{"Overflow", Overflow(PhaseCompile, nil, 1<<40, "uint32"), KindOverflow},
		{"NilPointer", NilPointer(PhaseSet, nil, "message"), KindNilPointer},
		{"NotFound", NotFound(PhaseConvert, "message my.Type"), KindNotFound},
		{"InvalidInput", InvalidInput(PhaseCompile, nil, "no fields"), KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("kind: got %s, want %s", tt.err.Kind, tt.kind)
			}
			if tt.err.Error() == "" {
				t.Error("empty error message")
			}
		})
	}
}

func TestOutOfBoundsDetail(t *testing.T) {
	err := OutOfBounds(PhaseGet, []string{"items"}, 10, 5)
	msg := err.Error()
	if !strings.Contains(msg, "index 10 out of bounds (length 5)") {
		t.Errorf("message %q missing bounds detail", msg)
	}
	if err.Value != 10 {
		t.Errorf("value: got %v, want 10", err.Value)
	}
}
