package sheet

// Heap is the bump allocator backing formula and label text. Entries are
// append-only: the firmware never frees heap text, it only abandons it
// when a cell is overwritten, and the host model does the same. Addresses
// are target addresses so they can be stored in cell records as-is.
type Heap struct {
	base uint16
	data []byte
}

func NewHeap(base uint16, size int) Heap {
	return Heap{base: base, data: make([]byte, 0, size)}
}

// Alloc reserves n bytes and returns their target address and backing
// slice. A request that does not fit fails whole and leaves the heap
// unchanged.
func (h *Heap) Alloc(n int) (addr uint16, buf []byte, err error) {
	used := len(h.data)
	if used+n > cap(h.data) {
		return 0, nil, ErrHeapFull
	}
	h.data = h.data[: used+n]
	return h.base + uint16(used), h.data[used:], nil
}

// At returns the used heap from target address addr on, or nil when addr
// does not point inside it.
func (h *Heap) At(addr uint16) []byte {
	off := int(addr) - int(h.base)
	if off < 0 || off >= len(h.data) {
		return nil
	}
	return h.data[off:]
}

// Ptr is the target address the next allocation would get.
func (h *Heap) Ptr() uint16 {
	return h.base + uint16(len(h.data))
}

func (h *Heap) Used() int {
	return len(h.data)
}

func (h *Heap) Size() int {
	return cap(h.data)
}

// Image is the used portion of the heap, ready to copy into a seed block.
func (h *Heap) Image() []byte {
	return h.data
}
