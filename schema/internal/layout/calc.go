package layout

// Cell describes one field's storage requirements: the inline byte width and
// alignment for scalar storage, or Ref for out-of-line reference-slot storage.
type Cell struct {
	Size  uint32
	Align uint32
	Ref   bool
}

// Info is the computed layout for one message type.
//
// Offsets and Slots are parallel to the input cells: Offsets[i] is the byte
// offset of an inline field into the message data region (including the
// bitmap prefix), Slots[i] is the reference-slot index of an out-of-line
// field. The unused entry of each pair is zero / -1 respectively.
type Info struct {
	Offsets     []uint32
	Slots       []int
	BitmapBytes uint32
	Size        uint32
	SlotCount   int
	Align       uint32
}

// AlignTo rounds offset up to the next multiple of align. align must be a
// power of two.
func AlignTo(offset, align uint32) uint32 {
	return (offset + align - 1) &^ (align - 1)
}

// Compute lays out a message: one presence bit per field at the front of the
// data region, then inline scalar storage packed sequentially with natural
// alignment. Out-of-line fields consume reference slots instead of bytes.
// The layout is deterministic for a given cell sequence.
func Compute(cells []Cell) Info {
	info := Info{
		Offsets:     make([]uint32, len(cells)),
		Slots:       make([]int, len(cells)),
		BitmapBytes: uint32(len(cells)+7) / 8,
		Align:       1,
	}

	offset := info.BitmapBytes
	for i, c := range cells {
		if c.Ref {
			info.Offsets[i] = 0
			info.Slots[i] = info.SlotCount
			info.SlotCount++
			continue
		}
		info.Slots[i] = -1

		offset = AlignTo(offset, c.Align)
		info.Offsets[i] = offset
		offset += c.Size

		if c.Align > info.Align {
			info.Align = c.Align
		}
	}

	info.Size = AlignTo(offset, info.Align)
	return info
}
