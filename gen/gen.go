// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package gen emits the calculator firmware: a complete Z80 program built
// once, at build time, through the z80.Builder. The emitted application
// is a polling terminal spreadsheet; everything it needs (editor, display
// engine, BCD arithmetic, formula evaluator, seed data) is laid down as
// one flat image whose first instruction is the reset entry point.
//
// Firmware register conventions, used throughout the emitted routines:
// io.putc takes the character in A and preserves BC/DE/HL; io.puts walks
// a NUL-terminated string at HL; cell.addr maps D=row/E=col to the record
// address in HL; BCD routines work on the fixed scratch slots (num_a is
// the running accumulator, num_b the operand) with carry set on failure.
package gen

import (
	"github.com/sirupsen/logrus"

	"zcalc/sheet"
	"zcalc/z80"
)

// scratch is the firmware's number work area, allocated in the layout's
// scratch region.
type scratch struct {
	numA    uint16 // 4  accumulator magnitude
	numB    uint16 // 4  operand magnitude
	wacc    uint16 // 8  wide multiply accumulator
	wdiv    uint16 // 5  scaled dividend
	wdvs    uint16 // 5  aligned divisor
	quot    uint16 // 4  quotient counter
	dispBuf uint16 // 10 rendered number, NUL-terminated
}

func allotScratch(base uint16) scratch {
	return scratch{
		numA:    base,
		numB:    base + 4,
		wacc:    base + 8,
		wdiv:    base + 16,
		wdvs:    base + 21,
		quot:    base + 26,
		dispBuf: base + 32,
	}
}

// vars is the firmware's variable page. Everything the application
// tracks between keystrokes lives at a fixed address here; startup zeroes
// the whole page.
type vars struct {
	curCol, curRow   uint16
	viewCol, viewRow uint16
	width            uint16 // column width, 5..15
	visCols          uint16 // visible columns at the current width
	cw               uint16 // cell content width (width-2)
	edLen            uint16 // input buffer length
	heapPtr          uint16 // 2: next free heap byte
	evPtr            uint16 // 2: evaluator cursor
	evOp             uint16 // pending operator
	signA, signB     uint16 // accumulator / operand signs
	a2bDot           uint16 // number parser state
	a2bFrac          uint16
	a2bWhole         uint16
	a2bAny           uint16
	mulDig           uint16 // multiply digit counter
	rngFn            uint16 // range function index
	rngC1, rngR1     uint16 // range corners
	rngC2, rngR2     uint16
	rngC, rngR       uint16 // range walker
	rngFound         uint16
	rngCnt           uint16 // 4: range cell count, 1.00 units
	rngBestS         uint16
	rngBest          uint16 // 4: running extreme
	rngSaveS         uint16
	rngSave          uint16 // 4: saved accumulator across a range
	rcAddr           uint16 // 2: recalc record walker
	rcCnt            uint16 // 2: recalc records left
	rcText           uint16 // 2: recalc formula text
	drRow, drCol     uint16 // display walkers
	drCnt, drScr     uint16
	tmp              uint16
}

func allotVars(base uint16) vars {
	v := vars{}
	next := base
	byteVar := func() uint16 { addr := next; next++; return addr }
	wordVar := func() uint16 { addr := next; next += 2; return addr }
	magVar := func() uint16 { addr := next; next += 4; return addr }

	v.curCol = byteVar()
	v.curRow = byteVar()
	v.viewCol = byteVar()
	v.viewRow = byteVar()
	v.width = byteVar()
	v.visCols = byteVar()
	v.cw = byteVar()
	v.edLen = byteVar()
	v.heapPtr = wordVar()
	v.evPtr = wordVar()
	v.evOp = byteVar()
	v.signA = byteVar()
	v.signB = byteVar()
	v.a2bDot = byteVar()
	v.a2bFrac = byteVar()
	v.a2bWhole = byteVar()
	v.a2bAny = byteVar()
	v.mulDig = byteVar()
	v.rngFn = byteVar()
	v.rngC1 = byteVar()
	v.rngR1 = byteVar()
	v.rngC2 = byteVar()
	v.rngR2 = byteVar()
	v.rngC = byteVar()
	v.rngR = byteVar()
	v.rngFound = byteVar()
	v.rngCnt = magVar()
	v.rngBestS = byteVar()
	v.rngBest = magVar()
	v.rngSaveS = byteVar()
	v.rngSave = magVar()
	v.rcAddr = wordVar()
	v.rcCnt = wordVar()
	v.rcText = wordVar()
	v.drRow = byteVar()
	v.drCol = byteVar()
	v.drCnt = byteVar()
	v.drScr = byteVar()
	v.tmp = byteVar()
	return v
}

// Generator owns one firmware build: a builder positioned at the reset
// vector, the memory map, and the optional seeded sheet whose records
// become the ROM seed block.
type Generator struct {
	lay Layout
	b   *z80.Builder
	sh  *sheet.Sheet
	log logrus.FieldLogger
	s   scratch
	v   vars
}

func New(lay Layout, seed *sheet.Sheet) (g *Generator, err error) {
	if err = lay.Check(); err != nil {
		return nil, err
	}
	g = &Generator{
		lay: lay,
		b:   z80.NewBuilder(0),
		sh:  seed,
		log: logrus.WithField("mod", "gen"),
		s:   allotScratch(lay.ScratchBase),
		v:   allotVars(lay.VarBase),
	}
	return g, nil
}

// Build emits every firmware section, resolves all fixups, and checks
// the image against the ROM capacity. Any emission or resolution problem
// fails the whole build; no partial image comes back.
func (g *Generator) Build() (img z80.Image, err error) {
	sections := []struct {
		name string
		emit func()
	}{
		{"startup", g.startup},
		{"mainloop", g.mainLoop},
		{"editor", g.editor},
		{"commands", g.commands},
		{"display", g.display},
		{"eval", g.evaluator},
		{"cells", g.cellOps},
		{"bcd", g.bcdOps},
		{"chario", g.charIO},
		{"strings", g.stringTable},
		{"seed", g.seedTable},
	}
	for _, sec := range sections {
		at := g.b.Len()
		sec.emit()
		g.log.WithFields(logrus.Fields{
			"section": sec.name,
			"origin":  at,
			"bytes":   g.b.Len() - at,
		}).Debug("section emitted")
	}

	if img, err = g.b.Finish(); err != nil {
		return nil, err
	}
	if len(img) > g.lay.RomSize {
		return nil, ErrImageSize{Len: len(img), Max: g.lay.RomSize}
	}
	g.log.WithFields(logrus.Fields{
		"bytes": len(img),
		"rom":   g.lay.RomSize,
	}).Info("image resolved")
	return img, nil
}

// Generate builds a firmware image for the given layout, seeded from sh
// (nil for an empty sheet).
func Generate(lay Layout, sh *sheet.Sheet) (z80.Image, error) {
	g, err := New(lay, sh)
	if err != nil {
		return nil, err
	}
	return g.Build()
}

// Screen rows derived from the layout's visible-row count.
func (g *Generator) rowHdr() byte    { return 3 }
func (g *Generator) rowData() byte   { return 4 }
func (g *Generator) rowStatus() byte { return byte(4 + g.lay.VisRows) }
func (g *Generator) rowInput() byte  { return byte(5 + g.lay.VisRows) }

// heapEnd is the first address past the heap region.
func (g *Generator) heapEnd() uint16 {
	return g.lay.HeapBase + uint16(g.lay.HeapSize)
}

// putCh emits code printing one literal character.
func (g *Generator) putCh(ch byte) {
	g.b.LdN(z80.REG_A, ch)
	g.b.Call("io.putc")
}

// putStr emits code printing a NUL-terminated ROM string.
func (g *Generator) putStr(label string) {
	g.b.LdPLabel(z80.PAIR_HL, label)
	g.b.Call("io.puts")
}

// goTo emits code positioning the terminal cursor (1-based row/col).
func (g *Generator) goTo(row, col byte) {
	g.b.LdN(z80.REG_D, row)
	g.b.LdN(z80.REG_E, col)
	g.b.Call("vt.goto")
}

// zeroFill emits the classic overlapped-LDIR clear of a RAM region.
func (g *Generator) zeroFill(base uint16, size uint16) {
	g.b.LdP(z80.PAIR_HL, base)
	g.b.LdN(z80.REG_M, 0)
	g.b.LdP(z80.PAIR_DE, base+1)
	g.b.LdP(z80.PAIR_BC, size-1)
	g.b.Ldir()
}
