package layout

import "testing"

func TestAlignTo(t *testing.T) {
	tests := []struct {
		offset uint32
		align  uint32
		want   uint32
	}{
		{0, 1, 0},
		{0, 4, 0},
		{1, 1, 1},
		{1, 4, 4},
		{3, 2, 4},
		{4, 4, 4},
		{5, 8, 8},
		{9, 8, 16},
	}

	for _, tc := range tests {
		if got := AlignTo(tc.offset, tc.align); got != tc.want {
			t.Errorf("AlignTo(%d, %d): got %d, want %d", tc.offset, tc.align, got, tc.want)
		}
	}
}

func TestComputeEmpty(t *testing.T) {
	info := Compute(nil)
	if info.BitmapBytes != 0 {
		t.Errorf("bitmap bytes: got %d, want 0", info.BitmapBytes)
	}
	if info.Size != 0 {
		t.Errorf("size: got %d, want 0", info.Size)
	}
	if info.SlotCount != 0 {
		t.Errorf("slot count: got %d, want 0", info.SlotCount)
	}
}

func TestComputeScalarsOnly(t *testing.T) {
	// bool, u32, u64, u8-sized bool again: checks alignment padding
	cells := []Cell{
		{Size: 1, Align: 1},
		{Size: 4, Align: 4},
		{Size: 8, Align: 8},
		{Size: 1, Align: 1},
	}
	info := Compute(cells)

	if info.BitmapBytes != 1 {
		t.Fatalf("bitmap bytes: got %d, want 1", info.BitmapBytes)
	}

	wantOffs := []uint32{1, 4, 8, 16}
	for i, want := range wantOffs {
		if info.Offsets[i] != want {
			t.Errorf("offset[%d]: got %d, want %d", i, info.Offsets[i], want)
		}
		if info.Slots[i] != -1 {
			t.Errorf("slot[%d]: got %d, want -1", i, info.Slots[i])
		}
	}

	// 16 + 1 byte, rounded up to max align 8
	if info.Size != 24 {
		t.Errorf("size: got %d, want 24", info.Size)
	}
	if info.SlotCount != 0 {
		t.Errorf("slot count: got %d, want 0", info.SlotCount)
	}
}

func TestComputeRefSlots(t *testing.T) {
	cells := []Cell{
		{Ref: true},
		{Size: 4, Align: 4},
		{Ref: true},
		{Ref: true},
	}
	info := Compute(cells)

	wantSlots := []int{0, -1, 1, 2}
	for i, want := range wantSlots {
		if info.Slots[i] != want {
			t.Errorf("slot[%d]: got %d, want %d", i, info.Slots[i], want)
		}
	}
	if info.SlotCount != 3 {
		t.Errorf("slot count: got %d, want 3", info.SlotCount)
	}
	if info.Offsets[1] != 4 {
		t.Errorf("scalar offset: got %d, want 4", info.Offsets[1])
	}
	if info.Size != 8 {
		t.Errorf("size: got %d, want 8", info.Size)
	}
}

func TestComputeBitmapSizing(t *testing.T) {
	tests := []struct {
		fields int
		want   uint32
	}{
		{1, 1},
		{8, 1},
		{9, 2},
		{16, 2},
		{17, 3},
		{64, 8},
		{65, 9},
	}

	for _, tc := range tests {
		cells := make([]Cell, tc.fields)
		for i := range cells {
			cells[i] = Cell{Size: 1, Align: 1}
		}
		info := Compute(cells)
		if info.BitmapBytes != tc.want {
			t.Errorf("%d fields: bitmap bytes got %d, want %d", tc.fields, info.BitmapBytes, tc.want)
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	cells := []Cell{
		{Size: 8, Align: 8},
		{Ref: true},
		{Size: 1, Align: 1},
		{Size: 4, Align: 4},
	}
	a := Compute(cells)
	b := Compute(cells)

	if a.Size != b.Size || a.SlotCount != b.SlotCount {
		t.Fatal("layout not deterministic")
	}
	for i := range cells {
		if a.Offsets[i] != b.Offsets[i] || a.Slots[i] != b.Slots[i] {
			t.Fatalf("layout not deterministic at field %d", i)
		}
	}
}
