// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package z80

// fixup is a pending absolute reference: a little-endian 16-bit field at
// offset, to be patched with the address of label once all emission is done.
type fixup struct {
	offset int
	label  string
}

// Builder accumulates the target image. Methods record the first failure and
// turn all later calls into no-ops; Finish reports it. A Builder is good for
// exactly one image.
type Builder struct {
	origin uint16
	code   []byte
	labels map[string]uint16
	fixups []fixup
	final  bool
	err    error
}

// NewBuilder returns an empty builder whose first emitted byte lands at
// address origin.
func NewBuilder(origin uint16) *Builder {
	return &Builder{
		origin: origin,
		labels: map[string]uint16{},
	}
}

func (bld *Builder) fail(err error) {
	if bld.err == nil {
		bld.err = err
	}
}

// Err returns the first recorded failure, if any.
func (bld *Builder) Err() error {
	return bld.err
}

// Pos is the address the next emitted byte will occupy.
func (bld *Builder) Pos() uint16 {
	return bld.origin + uint16(len(bld.code))
}

// Len is the number of bytes emitted so far.
func (bld *Builder) Len() int {
	return len(bld.code)
}

// Emit appends raw bytes at the current position.
func (bld *Builder) Emit(data ...byte) {
	if bld.final {
		bld.fail(ErrImageFinal)
		return
	}
	bld.code = append(bld.code, data...)
}

// EmitWord appends a 16-bit value, least-significant byte first.
func (bld *Builder) EmitWord(value uint16) {
	bld.Emit(byte(value), byte(value>>8))
}

// EmitString appends the bytes of s followed by a NUL terminator.
func (bld *Builder) EmitString(s string) {
	bld.Emit([]byte(s)...)
	bld.Emit(0x00)
}

// Label records name at the current position. Redefinition is an error.
func (bld *Builder) Label(name string) {
	if bld.final {
		bld.fail(ErrImageFinal)
		return
	}
	if _, dup := bld.labels[name]; dup {
		bld.fail(ErrLabelDuplicate(name))
		return
	}
	bld.labels[name] = bld.Pos()
}

// Lookup reports the address of a defined label.
func (bld *Builder) Lookup(name string) (addr uint16, ok bool) {
	addr, ok = bld.labels[name]
	return
}

// Fixup appends a 2-byte placeholder to be patched with the address of name
// during Finish. The label may not be defined yet.
func (bld *Builder) Fixup(name string) {
	if bld.final {
		bld.fail(ErrImageFinal)
		return
	}
	bld.fixups = append(bld.fixups, fixup{offset: len(bld.code), label: name})
	bld.Emit(0x00, 0x00)
}

// EmitRelative appends the signed displacement from the byte after this one
// to name. The label must already be defined and within branch range; unlike
// Fixup there is no deferred pass to catch a miss later.
func (bld *Builder) EmitRelative(name string) {
	if bld.final {
		bld.fail(ErrImageFinal)
		return
	}
	target, ok := bld.labels[name]
	if !ok {
		bld.fail(ErrLabelUndefined{Label: name, Site: bld.Pos()})
		bld.Emit(0x00)
		return
	}

	distance := int(target) - (int(bld.Pos()) + 1)
	if distance < -128 || distance > 127 {
		bld.fail(ErrBranchRange{Label: name, Site: bld.Pos(), Distance: distance})
		bld.Emit(0x00)
		return
	}
	bld.Emit(byte(int8(distance)))
}

// Finish resolves every pending fixup and returns the final image. The
// builder is consumed: any further use fails with ErrImageFinal. No fixup is
// patched unless all of them resolve.
func (bld *Builder) Finish() (img Image, err error) {
	if bld.final {
		err = ErrImageFinal
		return
	}
	bld.final = true

	if bld.err != nil {
		err = bld.err
		return
	}

	for _, fix := range bld.fixups {
		if _, ok := bld.labels[fix.label]; !ok {
			err = ErrLabelUndefined{Label: fix.label, Site: bld.origin + uint16(fix.offset)}
			return
		}
	}

	for _, fix := range bld.fixups {
		addr := bld.labels[fix.label]
		bld.code[fix.offset] = byte(addr)
		bld.code[fix.offset+1] = byte(addr >> 8)
	}

	img = Image(bld.code)
	bld.code = nil
	bld.fixups = nil
	return
}

// Image is a finished, fully resolved flat byte image. Position 0 corresponds
// to the target's execution-start address.
type Image []byte

// Word reads the little-endian 16-bit value at offset.
func (img Image) Word(offset int) uint16 {
	return uint16(img[offset]) | uint16(img[offset+1])<<8
}

// Contains reports whether the image holds the byte sequence want.
func (img Image) Contains(want []byte) bool {
	if len(want) == 0 {
		return true
	}
	for n := 0; n+len(want) <= len(img); n++ {
		matched := true
		for i, b := range want {
			if img[n+i] != b {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}
