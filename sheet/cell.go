// Package sheet models the calculator's cell store exactly as the firmware
// lays it out in target RAM: a fixed grid of 6-byte cell records plus a
// bump-allocated heap for formula and label text. The generator uses it to
// bake seeded images, and the firmware's arithmetic is expected to agree
// with it cell for cell.
package sheet

import (
	"bytes"

	"zcalc/bcd"
)

type CellType byte

//go:generate go tool stringer -linecomment -type=CellType

const (
	CELL_EMPTY   = CellType(0) // empty
	CELL_NUMBER  = CellType(1) // number
	CELL_FORMULA = CellType(2) // formula
	CELL_ERROR   = CellType(3) // error
	CELL_REPEAT  = CellType(4) // repeat
	CELL_LABEL   = CellType(5) // label
)

const (
	// RecordSize is the footprint of one cell record in target RAM.
	RecordSize = 6

	// InputMax is the longest input line a cell commit accepts.
	InputMax = 40

	// SignNegative is the record sign byte for negative values; zero
	// marks non-negative.
	SignNegative = byte(0x80)
)

// Record byte offsets. Bytes 2..5 hold the BCD magnitude for number cells,
// a little-endian heap pointer (bytes 2..3) for formula and label cells,
// and the fill character (byte 2) for repeat cells.
const (
	offType = 0
	offSign = 1
	offBody = 2
)

// CellRef names one cell by zero-based column and row. Callers validate
// ranges before handing a ref to the store; the store does not.
type CellRef struct {
	Col int
	Row int
}

func (ref CellRef) String() string {
	return string(rune('A'+ref.Col)) + itoa(ref.Row+1)
}

func itoa(n int) string {
	if n >= 10 {
		return string([]byte{'0' + byte(n/10), '0' + byte(n%10)})
	}
	return string([]byte{'0' + byte(n)})
}

// Geometry fixes where the cell grid and heap live in the target address
// space. The store needs the bases so the pointers it writes into records
// are valid on the target, not just on the host.
type Geometry struct {
	Cols     int
	Rows     int
	CellBase uint16
	HeapBase uint16
	HeapSize int
}

// DefaultGeometry is the layout the stock firmware image uses.
func DefaultGeometry() Geometry {
	return Geometry{
		Cols:     16,
		Rows:     64,
		CellBase: 0x2000,
		HeapBase: 0x3900,
		HeapSize: 0x2000,
	}
}

// Sheet is the host-side cell store. Its backing bytes are laid out
// record for record as the firmware's RAM regions, so they can be copied
// straight into a ROM seed block.
type Sheet struct {
	geo   Geometry
	cells []byte
	heap  Heap
}

func NewSheet(geo Geometry) (sh *Sheet) {
	sh = &Sheet{
		geo:   geo,
		cells: make([]byte, geo.Cols*geo.Rows*RecordSize),
		heap:  NewHeap(geo.HeapBase, geo.HeapSize),
	}
	return sh
}

func (sh *Sheet) Geometry() Geometry {
	return sh.geo
}

// Address returns the target address of a cell's record.
func (sh *Sheet) Address(ref CellRef) uint16 {
	return sh.geo.CellBase + uint16((ref.Row*sh.geo.Cols+ref.Col)*RecordSize)
}

func (sh *Sheet) record(ref CellRef) []byte {
	off := (ref.Row*sh.geo.Cols + ref.Col) * RecordSize
	return sh.cells[off : off+RecordSize]
}

func (sh *Sheet) Type(ref CellRef) CellType {
	return CellType(sh.record(ref)[offType])
}

// Value returns the numeric value a cell contributes to arithmetic:
// empty cells read as zero, number cells read their record, and formula
// cells read the cached result stored after their source text in the
// heap. Every other type has no value.
func (sh *Sheet) Value(ref CellRef) (val bcd.Value, err error) {
	rec := sh.record(ref)
	switch CellType(rec[offType]) {
	case CELL_EMPTY:
	case CELL_NUMBER:
		val.Neg = rec[offSign] == SignNegative
		copy(val.Mag[:], rec[offBody:offBody+4])
	case CELL_FORMULA:
		_, cache := sh.entry(leWord(rec[offBody:]))
		if cache == nil {
			err = ErrCellValue
			break
		}
		val.Neg = cache[0] == SignNegative
		copy(val.Mag[:], cache[1:5])
	default:
		err = ErrCellValue
	}
	return val, err
}

// Text returns the heap-stored source of a formula or label cell, without
// its leading '=' or '"' marker.
func (sh *Sheet) Text(ref CellRef) string {
	rec := sh.record(ref)
	switch CellType(rec[offType]) {
	case CELL_FORMULA, CELL_LABEL:
		text, _ := sh.entry(leWord(rec[offBody:]))
		return text
	}
	return ""
}

// Fill returns the fill character of a repeat cell.
func (sh *Sheet) Fill(ref CellRef) byte {
	rec := sh.record(ref)
	if CellType(rec[offType]) != CELL_REPEAT {
		return 0
	}
	return rec[offBody]
}

// entry splits a heap entry at addr into its text and, for formula
// entries, the 5-byte sign+magnitude cache that follows the NUL.
func (sh *Sheet) entry(addr uint16) (text string, cache []byte) {
	raw := sh.heap.At(addr)
	n := bytes.IndexByte(raw, 0)
	if n < 0 {
		return "", nil
	}
	if len(raw) < n+1+5 {
		return string(raw[:n]), nil
	}
	return string(raw[:n]), raw[n+1 : n+1+5]
}

func (sh *Sheet) Clear(ref CellRef) {
	rec := sh.record(ref)
	for i := range rec {
		rec[i] = 0
	}
}

func (sh *Sheet) SetNumber(ref CellRef, val bcd.Value) {
	rec := sh.record(ref)
	rec[offType] = byte(CELL_NUMBER)
	rec[offSign] = signByte(val.Neg)
	copy(rec[offBody:], val.Mag[:])
}

func (sh *Sheet) SetError(ref CellRef) {
	sh.Clear(ref)
	sh.record(ref)[offType] = byte(CELL_ERROR)
}

func (sh *Sheet) SetRepeat(ref CellRef, fill byte) {
	sh.Clear(ref)
	rec := sh.record(ref)
	rec[offType] = byte(CELL_REPEAT)
	rec[offBody] = fill
}

// SetLabel stores text in the heap and points the cell at it. On a full
// heap the cell is left untouched.
func (sh *Sheet) SetLabel(ref CellRef, text string) (err error) {
	addr, buf, err := sh.heap.Alloc(len(text) + 1)
	if err != nil {
		return err
	}
	copy(buf, text)
	buf[len(text)] = 0

	sh.Clear(ref)
	rec := sh.record(ref)
	rec[offType] = byte(CELL_LABEL)
	putLeWord(rec[offBody:], addr)
	return nil
}

// SetFormula evaluates expr (without its leading '='), stores the source
// text and the cached result in the heap, and points the cell at the
// entry. An evaluation failure converts the cell to an error cell and
// reports why; a full heap rejects the edit without touching anything.
func (sh *Sheet) SetFormula(ref CellRef, expr string) (err error) {
	val, err := sh.Eval(expr)
	if err != nil {
		sh.SetError(ref)
		return err
	}

	addr, buf, err := sh.heap.Alloc(len(expr) + 1 + 5)
	if err != nil {
		return err
	}
	copy(buf, expr)
	buf[len(expr)] = 0
	buf[len(expr)+1] = signByte(val.Neg)
	copy(buf[len(expr)+2:], val.Mag[:])

	sh.Clear(ref)
	rec := sh.record(ref)
	rec[offType] = byte(CELL_FORMULA)
	rec[offSign] = signByte(val.Neg)
	putLeWord(rec[offBody:], addr)
	return nil
}

// Commit applies one line of cell input the way the firmware's edit mode
// does: a leading '"' makes a label, a leading '=' makes a formula, and
// anything else must parse as a number or the cell becomes an error cell.
// Empty input commits nothing.
func (sh *Sheet) Commit(ref CellRef, text string) (err error) {
	if len(text) > InputMax {
		return ErrInputLong
	}
	if text == "" {
		return nil
	}
	switch text[0] {
	case '"':
		return sh.SetLabel(ref, text[1:])
	case '=':
		return sh.SetFormula(ref, text[1:])
	}
	val, err := bcd.Parse(text)
	if err != nil {
		sh.SetError(ref)
		return err
	}
	sh.SetNumber(ref, val)
	return nil
}

// CellImage is the raw record block, laid out in target address order.
func (sh *Sheet) CellImage() []byte {
	return sh.cells
}

// HeapImage is the used portion of the heap.
func (sh *Sheet) HeapImage() []byte {
	return sh.heap.Image()
}

// HeapPtr is the target address of the next free heap byte.
func (sh *Sheet) HeapPtr() uint16 {
	return sh.heap.Ptr()
}

func signByte(neg bool) byte {
	if neg {
		return SignNegative
	}
	return 0
}

func leWord(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func putLeWord(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}
