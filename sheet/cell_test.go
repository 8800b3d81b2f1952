package sheet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"zcalc/bcd"
)

func num(t *testing.T, text string) bcd.Value {
	t.Helper()
	val, err := bcd.Parse(text)
	if err != nil {
		t.Fatalf("bad test number %q: %v", text, err)
	}
	return val
}

func TestCellAddress(t *testing.T) {
	assert := assert.New(t)

	sh := NewSheet(DefaultGeometry())
	assert.Equal(uint16(0x2000), sh.Address(CellRef{Col: 0, Row: 0}))
	assert.Equal(uint16(0x2006), sh.Address(CellRef{Col: 1, Row: 0}))
	assert.Equal(uint16(0x2060), sh.Address(CellRef{Col: 0, Row: 1}))
	assert.Equal(uint16(0x37FA), sh.Address(CellRef{Col: 15, Row: 63}))

	// Address order is row-major and gapless.
	prev := sh.Address(CellRef{})
	for row := 0; row < 64; row++ {
		for col := 0; col < 16; col++ {
			if row == 0 && col == 0 {
				continue
			}
			addr := sh.Address(CellRef{Col: col, Row: row})
			assert.Equal(prev+RecordSize, addr, "cell %v", CellRef{Col: col, Row: row})
			prev = addr
		}
	}
}

func TestCellRefString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("A1", CellRef{}.String())
	assert.Equal("B5", CellRef{Col: 1, Row: 4}.String())
	assert.Equal("P64", CellRef{Col: 15, Row: 63}.String())
}

func TestCellTypeString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("empty", CELL_EMPTY.String())
	assert.Equal("formula", CELL_FORMULA.String())
	assert.Equal("label", CELL_LABEL.String())
	assert.Equal("CellType(9)", CellType(9).String())
}

func TestCellNumber(t *testing.T) {
	assert := assert.New(t)

	sh := NewSheet(DefaultGeometry())
	ref := CellRef{Col: 2, Row: 3}
	assert.Equal(CELL_EMPTY, sh.Type(ref))

	sh.SetNumber(ref, num(t, "-12.34"))
	assert.Equal(CELL_NUMBER, sh.Type(ref))

	val, err := sh.Value(ref)
	assert.NoError(err)
	assert.Equal("-12.34", val.String())

	sh.Clear(ref)
	assert.Equal(CELL_EMPTY, sh.Type(ref))
	val, err = sh.Value(ref)
	assert.NoError(err)
	assert.Equal(bcd.Value{}, val)
}

func TestCellRepeat(t *testing.T) {
	assert := assert.New(t)

	sh := NewSheet(DefaultGeometry())
	ref := CellRef{Col: 0, Row: 9}
	sh.SetRepeat(ref, '-')
	assert.Equal(CELL_REPEAT, sh.Type(ref))
	assert.Equal(byte('-'), sh.Fill(ref))

	_, err := sh.Value(ref)
	assert.ErrorIs(err, ErrCellValue)
}

func TestCellLabel(t *testing.T) {
	assert := assert.New(t)

	sh := NewSheet(DefaultGeometry())
	before := sh.HeapPtr()

	err := sh.SetLabel(CellRef{Col: 1, Row: 1}, "Budget 2026")
	assert.NoError(err)
	assert.Equal(CELL_LABEL, sh.Type(CellRef{Col: 1, Row: 1}))
	assert.Equal("Budget 2026", sh.Text(CellRef{Col: 1, Row: 1}))
	assert.Equal(before+uint16(len("Budget 2026")+1), sh.HeapPtr())

	// Labels have no numeric value.
	_, err = sh.Value(CellRef{Col: 1, Row: 1})
	assert.ErrorIs(err, ErrCellValue)
}

func TestCellCommit(t *testing.T) {
	assert := assert.New(t)

	sh := NewSheet(DefaultGeometry())
	ref := CellRef{Col: 0, Row: 0}

	assert.NoError(sh.Commit(ref, "42"))
	assert.Equal(CELL_NUMBER, sh.Type(ref))
	val, err := sh.Value(ref)
	assert.NoError(err)
	assert.Equal("42.00", val.String())

	assert.NoError(sh.Commit(ref, "\"total"))
	assert.Equal(CELL_LABEL, sh.Type(ref))
	assert.Equal("total", sh.Text(ref))

	assert.NoError(sh.Commit(ref, "=1+2"))
	assert.Equal(CELL_FORMULA, sh.Type(ref))
	assert.Equal("1+2", sh.Text(ref))
	val, err = sh.Value(ref)
	assert.NoError(err)
	assert.Equal("3.00", val.String())

	// Empty input commits nothing.
	assert.NoError(sh.Commit(ref, ""))
	assert.Equal(CELL_FORMULA, sh.Type(ref))

	// Junk converts the cell to an error cell and reports why.
	err = sh.Commit(ref, "12x4")
	assert.ErrorIs(err, bcd.ErrNumber(""))
	assert.Equal(CELL_ERROR, sh.Type(ref))

	// A bad formula does the same.
	sh.Commit(ref, "7")
	err = sh.Commit(ref, "=1++2")
	assert.ErrorIs(err, ErrOperand)
	assert.Equal(CELL_ERROR, sh.Type(ref))

	// Over-long input is rejected outright, leaving the cell alone.
	sh.Commit(ref, "7")
	err = sh.Commit(ref, "="+strings.Repeat("1+", 25)+"1")
	assert.ErrorIs(err, ErrInputLong)
	assert.Equal(CELL_NUMBER, sh.Type(ref))
}

func TestCellHeapFull(t *testing.T) {
	assert := assert.New(t)

	geo := DefaultGeometry()
	geo.HeapSize = 8
	sh := NewSheet(geo)
	ref := CellRef{Col: 0, Row: 0}
	sh.SetNumber(ref, num(t, "5"))

	// 9 bytes of label text cannot fit in an 8-byte heap; the edit is
	// rejected whole.
	err := sh.SetLabel(ref, "12345678")
	assert.ErrorIs(err, ErrHeapFull)
	assert.Equal(CELL_NUMBER, sh.Type(ref))
	assert.Equal(0, sh.heap.Used())

	// A formula needs text+NUL plus the 5-byte cache: "1+2" wants 9.
	err = sh.SetFormula(ref, "1+2")
	assert.ErrorIs(err, ErrHeapFull)
	assert.Equal(CELL_NUMBER, sh.Type(ref))
	assert.Equal(0, sh.heap.Used())

	// An exact fit still works.
	assert.NoError(sh.SetLabel(ref, "1234567"))
	assert.Equal(CELL_LABEL, sh.Type(ref))
	assert.Equal(8, sh.heap.Used())
}

func TestHeapAlloc(t *testing.T) {
	assert := assert.New(t)

	h := NewHeap(0x3900, 16)
	addr, buf, err := h.Alloc(6)
	assert.NoError(err)
	assert.Equal(uint16(0x3900), addr)
	assert.Len(buf, 6)

	copy(buf, "hello")
	assert.Equal(byte(0), buf[5])

	addr, _, err = h.Alloc(10)
	assert.NoError(err)
	assert.Equal(uint16(0x3906), addr)
	assert.Equal(uint16(0x3910), h.Ptr())

	_, _, err = h.Alloc(1)
	assert.ErrorIs(err, ErrHeapFull)
	assert.Equal(16, h.Used())

	assert.Equal([]byte("hello"), h.At(0x3900)[:5])
	assert.Nil(h.At(0x3910))
	assert.Nil(h.At(0x38FF))
}

func TestParseRef(t *testing.T) {
	assert := assert.New(t)

	sh := NewSheet(DefaultGeometry())
	tests := []struct {
		in   string
		want CellRef
	}{
		{"A1", CellRef{Col: 0, Row: 0}},
		{"p64", CellRef{Col: 15, Row: 63}},
		{"$B$5", CellRef{Col: 1, Row: 4}},
		{"c10", CellRef{Col: 2, Row: 9}},
	}
	for _, test := range tests {
		ref, err := sh.ParseRef(test.in)
		assert.NoError(err, "ref %v", test.in)
		assert.Equal(test.want, ref, "ref %v", test.in)
	}

	for _, in := range []string{"", "Q1", "A0", "A65", "A", "5", "B123", "A1x", "$$A1"} {
		_, err := sh.ParseRef(in)
		assert.ErrorIs(err, ErrCellRef(""), "ref %v", in)
	}
}
