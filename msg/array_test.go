package msg

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/wippyai/dynmsg/errors"
	"github.com/wippyai/dynmsg/schema"
)

func childDef(t *testing.T) *schema.MessageDef {
	t.Helper()
	def, err := schema.NewMessageDef("test.Child", []schema.Field{
		{Name: "value", Number: 1, Kind: schema.Int32},
		{Name: "label", Number: 2, Kind: schema.String},
	})
	if err != nil {
		t.Fatalf("child def: %v", err)
	}
	return def
}

func TestArrayAppendAndGet(t *testing.T) {
	a := NewArray(schema.Int64)

	const n = 100
	for i := 0; i < n; i++ {
		if err := a.Append(Int64Value(int64(i))); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	if a.Len() != n {
		t.Fatalf("len: got %d, want %d", a.Len(), n)
	}
	if cap(a.vals) < n {
		t.Fatalf("cap: got %d, want >= %d", cap(a.vals), n)
	}

	for i := 0; i < n; i++ {
		v, err := a.Get(i)
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if v.Int64() != int64(i) {
			t.Errorf("elem %d: got %d", i, v.Int64())
		}
	}
}

func TestArrayBounds(t *testing.T) {
	a := NewArray(schema.Int32)
	if err := a.Append(Int32Value(1)); err != nil {
		t.Fatal(err)
	}

	for _, i := range []int{-1, 1, 100} {
		if _, err := a.Get(i); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseGet, Kind: errors.KindOutOfBounds}) {
			t.Errorf("Get(%d): got %v, want out_of_bounds", i, err)
		}
		if err := a.Set(i, Int32Value(0)); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseSet, Kind: errors.KindOutOfBounds}) {
			t.Errorf("Set(%d): got %v, want out_of_bounds", i, err)
		}
	}
}

func TestArraySetReleasesPrevious(t *testing.T) {
	a := NewArray(schema.String)

	first := NewStringCopy([]byte("first"))
	if err := a.Append(StringValue(first)); err != nil {
		t.Fatal(err)
	}
	// caller keeps its ref; array holds a second
	if got := first.refs.Load(); got != 2 {
		t.Fatalf("after append: refs %d, want 2", got)
	}
	first.Unref()

	second := NewStringCopy([]byte("second"))
	if err := a.Set(0, StringValue(second)); err != nil {
		t.Fatal(err)
	}
	if got := first.refs.Load(); got != 0 {
		t.Errorf("previous occupant not released: refs %d", got)
	}
	if got := second.refs.Load(); got != 2 {
		t.Errorf("new occupant refs %d, want 2", got)
	}

	v, _ := a.Get(0)
	if v.Str().String() != "second" {
		t.Errorf("got %q", v.Str().String())
	}
}

func TestArraySetSameHandle(t *testing.T) {
	a := NewArray(schema.String)
	s := NewStringCopy([]byte("x"))
	if err := a.Append(StringValue(s)); err != nil {
		t.Fatal(err)
	}
	s.Unref() // array is now sole owner, refs == 1

	// re-storing the sole-owned occupant must not free it
	if err := a.Set(0, StringValue(s)); err != nil {
		t.Fatal(err)
	}
	if got := s.refs.Load(); got != 1 {
		t.Errorf("refs %d, want 1", got)
	}
	if s.Bytes() == nil {
		t.Error("occupant was freed by self-assignment")
	}
}

func TestArrayKindChecks(t *testing.T) {
	t.Run("scalar array rejects handles", func(t *testing.T) {
		a := NewArray(schema.Int32)
		err := a.Append(StringValue(NewString()))
		if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseAppend, Kind: errors.KindKindMismatch}) {
			t.Errorf("got %v, want kind_mismatch", err)
		}
	})

	t.Run("string array rejects nil handle", func(t *testing.T) {
		a := NewArray(schema.String)
		err := a.Append(Value{})
		if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseAppend, Kind: errors.KindNilPointer}) {
			t.Errorf("got %v, want nil_pointer", err)
		}
	})

	t.Run("message array rejects wrong type", func(t *testing.T) {
		def := childDef(t)
		other, err := schema.NewMessageDef("test.Other", nil)
		if err != nil {
			t.Fatal(err)
		}
		a := NewMessageArray(def)
		wrong := NewMessage(other)
		defer wrong.Unref()
		if err := a.Append(MessageValue(wrong)); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseAppend, Kind: errors.KindKindMismatch}) {
			t.Errorf("got %v, want kind_mismatch", err)
		}
	})

	t.Run("AppendMutable on scalar array", func(t *testing.T) {
		a := NewArray(schema.Float64)
		if _, err := a.AppendMutable(); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseAppend, Kind: errors.KindWrongFieldKind}) {
			t.Errorf("got %v, want wrong_field_kind", err)
		}
	})
}

func TestArrayAppendMutableMessages(t *testing.T) {
	def := childDef(t)
	value := def.FieldByName("value")
	a := NewMessageArray(def)

	for i := 1; i <= 3; i++ {
		v, err := a.AppendMutable()
		if err != nil {
			t.Fatalf("AppendMutable %d: %v", i, err)
		}
		if err := v.Msg().Set(value, Int32Value(int32(i))); err != nil {
			t.Fatalf("populate %d: %v", i, err)
		}
	}

	if a.Len() != 3 {
		t.Fatalf("len: got %d, want 3", a.Len())
	}
	for i := 0; i < 3; i++ {
		v, err := a.Get(i)
		if err != nil {
			t.Fatal(err)
		}
		got, err := v.Msg().Get(value)
		if err != nil {
			t.Fatal(err)
		}
		if got.Int32() != int32(i+1) {
			t.Errorf("elem %d: got %d, want %d", i, got.Int32(), i+1)
		}
	}
}

func TestArrayRecyclingReusesMemory(t *testing.T) {
	def := childDef(t)
	a := NewMessageArray(def)

	// first cycle: allocate three children
	ptrs := make([]*Message, 3)
	for i := range ptrs {
		v, err := a.AppendMutable()
		if err != nil {
			t.Fatal(err)
		}
		ptrs[i] = v.Msg()
	}
	a.Reset()

	// second cycle: the same instances come back, cleared
	for i := range ptrs {
		v, err := a.AppendMutable()
		if err != nil {
			t.Fatal(err)
		}
		if v.Msg() != ptrs[i] {
			t.Errorf("slot %d: recycled a different instance", i)
		}
		if v.Msg().Has(def.FieldByName("value")) {
			t.Errorf("slot %d: recycled instance not cleared", i)
		}
	}

	// steady state allocates nothing
	a.Reset()
	allocs := testing.AllocsPerRun(50, func() {
		for i := 0; i < 3; i++ {
			if _, err := a.AppendMutable(); err != nil {
				panic(err)
			}
		}
		a.Reset()
	})
	if allocs != 0 {
		t.Errorf("steady-state recycle allocated %.1f objects per cycle", allocs)
	}
}

func TestArrayRecyclingSkipsSharedElement(t *testing.T) {
	a := NewArray(schema.String)

	v, err := a.AppendMutable()
	if err != nil {
		t.Fatal(err)
	}
	held := v.Str().Ref() // second owner appears
	held.SetBytes([]byte("keep"))
	a.Reset()

	v2, err := a.AppendMutable()
	if err != nil {
		t.Fatal(err)
	}
	if v2.Str() == held {
		t.Fatal("shared element must not be recycled")
	}
	// the array dropped its ref; ours keeps the contents alive
	if got := held.refs.Load(); got != 1 {
		t.Errorf("held refs %d, want 1", got)
	}
	if held.String() != "keep" {
		t.Errorf("shared contents clobbered: %q", held.String())
	}
	held.Unref()
}

func TestArrayUnrefReleasesElements(t *testing.T) {
	a := NewArray(schema.String)
	strs := make([]*String, 5)
	for i := range strs {
		strs[i] = NewStringCopy([]byte(fmt.Sprintf("s%d", i)))
		if err := a.Append(StringValue(strs[i])); err != nil {
			t.Fatal(err)
		}
		strs[i].Unref() // array is sole owner
	}

	// retained elements beyond the logical length are released too
	a.Reset()
	a.Unref()

	for i, s := range strs {
		if got := s.refs.Load(); got != 0 {
			t.Errorf("element %d: refs %d, want 0", i, got)
		}
	}
}
