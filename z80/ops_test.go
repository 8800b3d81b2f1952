package z80

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpsEncoding(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		name string
		emit func(bld *Builder)
		want []byte
	}{
		{"ld d,h", func(bld *Builder) { bld.LdR(REG_D, REG_H) }, []byte{0x54}},
		{"ld a,(hl)", func(bld *Builder) { bld.LdR(REG_A, REG_M) }, []byte{0x7E}},
		{"ld (hl),n", func(bld *Builder) { bld.LdN(REG_M, 0x20) }, []byte{0x36, 0x20}},
		{"ld a,n", func(bld *Builder) { bld.LdN(REG_A, 0xFF) }, []byte{0x3E, 0xFF}},
		{"ld a,(nn)", func(bld *Builder) { bld.LdAMem(0x35F0) }, []byte{0x3A, 0xF0, 0x35}},
		{"ld (nn),a", func(bld *Builder) { bld.LdMemA(0x35F0) }, []byte{0x32, 0xF0, 0x35}},
		{"ld hl,(nn)", func(bld *Builder) { bld.LdHLMem(0x1234) }, []byte{0x2A, 0x34, 0x12}},
		{"ld (nn),hl", func(bld *Builder) { bld.LdMemHL(0x1234) }, []byte{0x22, 0x34, 0x12}},
		{"ld sp,nn", func(bld *Builder) { bld.LdP(PAIR_SP, 0x5FFF) }, []byte{0x31, 0xFF, 0x5F}},
		{"ld bc,nn", func(bld *Builder) { bld.LdP(PAIR_BC, 6) }, []byte{0x01, 0x06, 0x00}},
		{"add a,(hl)", func(bld *Builder) { bld.AddR(REG_M) }, []byte{0x86}},
		{"adc a,(hl)", func(bld *Builder) { bld.AdcR(REG_M) }, []byte{0x8E}},
		{"sbc a,c", func(bld *Builder) { bld.SbcR(REG_C) }, []byte{0x99}},
		{"xor a", func(bld *Builder) { bld.XorR(REG_A) }, []byte{0xAF}},
		{"or a", func(bld *Builder) { bld.OrR(REG_A) }, []byte{0xB7}},
		{"cp n", func(bld *Builder) { bld.CpN(0x0D) }, []byte{0xFE, 0x0D}},
		{"and n", func(bld *Builder) { bld.AndN(0xDF) }, []byte{0xE6, 0xDF}},
		{"inc (hl)", func(bld *Builder) { bld.IncR(REG_M) }, []byte{0x34}},
		{"dec b", func(bld *Builder) { bld.DecR(REG_B) }, []byte{0x05}},
		{"inc de", func(bld *Builder) { bld.IncP(PAIR_DE) }, []byte{0x13}},
		{"dec hl", func(bld *Builder) { bld.DecP(PAIR_HL) }, []byte{0x2B}},
		{"add hl,hl", func(bld *Builder) { bld.AddHL(PAIR_HL) }, []byte{0x29}},
		{"add hl,bc", func(bld *Builder) { bld.AddHL(PAIR_BC) }, []byte{0x09}},
		{"sbc hl,de", func(bld *Builder) { bld.SbcHL(PAIR_DE) }, []byte{0xED, 0x52}},
		{"push af", func(bld *Builder) { bld.Push(PAIR_AF) }, []byte{0xF5}},
		{"pop hl", func(bld *Builder) { bld.Pop(PAIR_HL) }, []byte{0xE1}},
		{"ex de,hl", func(bld *Builder) { bld.ExDEHL() }, []byte{0xEB}},
		{"daa", func(bld *Builder) { bld.Daa() }, []byte{0x27}},
		{"scf", func(bld *Builder) { bld.Scf() }, []byte{0x37}},
		{"rld", func(bld *Builder) { bld.Rld() }, []byte{0xED, 0x6F}},
		{"ldir", func(bld *Builder) { bld.Ldir() }, []byte{0xED, 0xB0}},
		{"in a,(80h)", func(bld *Builder) { bld.In(0x80) }, []byte{0xDB, 0x80}},
		{"out (81h),a", func(bld *Builder) { bld.Out(0x81) }, []byte{0xD3, 0x81}},
		{"ret", func(bld *Builder) { bld.Ret() }, []byte{0xC9}},
		{"ret z", func(bld *Builder) { bld.RetCond(COND_Z) }, []byte{0xC8}},
		{"ret nc", func(bld *Builder) { bld.RetCond(COND_NC) }, []byte{0xD0}},
		{"halt", func(bld *Builder) { bld.Halt() }, []byte{0x76}},
	}

	for _, c := range cases {
		bld := NewBuilder(0)
		c.emit(bld)
		img, err := bld.Finish()
		assert.NoError(err, c.name)
		assert.Equal(Image(c.want), img, c.name)
	}
}

func TestOpsBranches(t *testing.T) {
	assert := assert.New(t)

	bld := NewBuilder(0)
	bld.Label("loop")
	bld.Jp("main")      // 0x0000
	bld.JpCond(COND_Z, "main")  // 0x0003
	bld.JpCond(COND_C, "main")  // 0x0006
	bld.Call("main")    // 0x0009
	bld.CallCond(COND_NZ, "main") // 0x000C
	bld.Djnz("loop")    // 0x000F
	bld.Jr("loop")      // 0x0011
	bld.JrCond(COND_NC, "loop") // 0x0013
	bld.Label("main")   // 0x0015
	bld.Ret()

	img, err := bld.Finish()
	assert.NoError(err)

	assert.Equal(byte(0xC3), img[0x00])
	assert.Equal(byte(0xCA), img[0x03])
	assert.Equal(byte(0xDA), img[0x06])
	assert.Equal(byte(0xCD), img[0x09])
	assert.Equal(byte(0xC4), img[0x0C])
	for _, offset := range []int{0x01, 0x04, 0x07, 0x0A, 0x0D} {
		assert.Equal(uint16(0x0015), img.Word(offset))
	}

	assert.Equal([]byte{0x10, 0xEF}, []byte(img[0x0F:0x11])) // DJNZ -17
	assert.Equal([]byte{0x18, 0xED}, []byte(img[0x11:0x13])) // JR -19
	assert.Equal([]byte{0x30, 0xEB}, []byte(img[0x13:0x15])) // JR NC,-21
}
