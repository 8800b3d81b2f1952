// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"zcalc/gen"
	"zcalc/sheet"
	"zcalc/z80"
)

// Enough steps for a boot, a few edits and repaints, and the quit path.
const stepBudget = 5_000_000

func TestMachineRomWriteProtect(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine([]byte{0x76}, 0x80, 0x81) // HALT
	halted, err := m.Run(10)
	assert.NoError(err)
	assert.True(halted)

	m.Write(0x0000, 0xAA)
	assert.Equal(byte(0x76), m.Peek(0x0000))
	m.Write(0x8000, 0x55)
	assert.Equal(byte(0x55), m.Peek(0x8000))
}

func TestMachineFault(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine([]byte{0xFF}, 0x80, 0x81)
	halted, err := m.Run(10)
	assert.False(halted)
	assert.ErrorIs(err, z80.ErrOpcodeUnknown{})

	var rt *ErrRuntime
	assert.True(errors.As(err, &rt))
	assert.Equal(uint16(0), rt.Pc)
}

func bootImage(t *testing.T, sh *sheet.Sheet) *Machine {
	t.Helper()
	lay := gen.DefaultLayout()
	img, err := gen.Generate(lay, sh)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return NewMachine(img, lay.StatusPort, lay.DataPort)
}

func TestMachineBootAndQuit(t *testing.T) {
	assert := assert.New(t)

	m := bootImage(t, nil)
	m.Acia.FeedString("q")
	halted, err := m.Run(stepBudget)
	assert.NoError(err)
	assert.True(halted)

	out := string(m.Acia.Sent())
	assert.Contains(out, "zcalc 1.0")
	assert.Contains(out, "16x64 BCD spreadsheet")
	assert.Contains(out, "A1:")
	assert.Contains(out, "goodbye")
}

func TestMachineIdlePolls(t *testing.T) {
	assert := assert.New(t)

	// No input: the firmware paints the screen and sits in the getc
	// poll without halting or faulting.
	m := bootImage(t, nil)
	halted, err := m.Run(500_000)
	assert.NoError(err)
	assert.False(halted)
	assert.Contains(string(m.Acia.Sent()), "zcalc 1.0")
}

func TestMachineEditEvaluates(t *testing.T) {
	assert := assert.New(t)

	m := bootImage(t, nil)
	m.Acia.FeedString("=9/4\r")
	m.Acia.FeedString("\x1b[C")
	m.Acia.FeedString("=2.5*4\r")
	m.Acia.FeedString("q")
	halted, err := m.Run(stepBudget)
	assert.NoError(err)
	assert.True(halted)

	out := string(m.Acia.Sent())
	assert.Contains(out, "2.25")
	assert.Contains(out, "10.00")

	// A1's record became a formula whose heap entry carries the source
	// and the cached result.
	lay := gen.DefaultLayout()
	rec := lay.CellBase
	assert.Equal(byte(2), m.Peek(rec))
	ptr := uint16(m.Peek(rec+2)) | uint16(m.Peek(rec+3))<<8
	assert.Equal(lay.HeapBase, ptr)
	assert.Equal(byte('9'), m.Peek(ptr))
	assert.Equal(byte('/'), m.Peek(ptr+1))
	assert.Equal(byte('4'), m.Peek(ptr+2))
	assert.Equal(byte(0), m.Peek(ptr+3))
	assert.Equal(byte(0), m.Peek(ptr+4)) // sign
	cache := []byte{m.Peek(ptr + 5), m.Peek(ptr + 6), m.Peek(ptr + 7), m.Peek(ptr + 8)}
	assert.Equal([]byte{0x00, 0x00, 0x02, 0x25}, cache)
}

func TestMachineSeededSheet(t *testing.T) {
	assert := assert.New(t)

	lay := gen.DefaultLayout()
	sh := sheet.NewSheet(lay.Geometry())
	set := func(ref, text string) {
		r, err := sh.ParseRef(ref)
		if err != nil {
			t.Fatalf("ref %v: %v", ref, err)
		}
		if err := sh.Commit(r, text); err != nil {
			t.Fatalf("commit %v: %v", ref, err)
		}
	}
	set("A1", "3")
	set("B1", "=A1*2")
	set("C1", "=@SUM(A1:B1)")
	set("D1", "\"total")
	sh.Recalc()

	m := bootImage(t, sh)
	m.Acia.FeedString("q")
	halted, err := m.Run(stepBudget)
	assert.NoError(err)
	assert.True(halted)

	out := string(m.Acia.Sent())
	assert.Contains(out, "3.00")
	assert.Contains(out, "6.00")
	assert.Contains(out, "9.00")
	assert.Contains(out, "total")

	// Seed runs restored the records: B1 is a formula cell.
	assert.Equal(byte(2), m.Peek(lay.CellBase+6))
}
