package gen

import (
	"zcalc/z80"
)

// display emits the screen painters. The layout is fixed: title on row
// 1, key help on row 2, column header on row 3, the cell window below
// it, then the status row (cursor ref and source form) and the input
// row. disp.full repaints everything; disp.sync is the cheap path after
// a cursor move, repainting the window only when the view scrolled.
func (g *Generator) display() {
	b := g.b
	s := g.s
	v := g.v

	b.Label("disp.full")
	g.putStr("esc.hide")
	g.putStr("esc.cls")
	g.putStr("str.title")
	g.goTo(2, 1)
	g.putStr("str.help")
	b.Call("disp.hdr")
	b.Call("disp.data")
	b.Call("disp.status")
	b.Call("disp.input")
	g.putStr("esc.show")
	b.Ret()

	// column letters, each at the left of its field past the 4-column
	// row-number gutter
	b.Label("disp.hdr")
	g.goTo(g.rowHdr(), 1)
	g.putStr("str.sp4")
	b.LdAMem(v.viewCol)
	b.AddN('A')
	b.LdMemA(v.tmp)
	b.LdAMem(v.visCols)
	b.LdMemA(v.drCnt)
	b.Label("disp.hdr.col")
	g.putStr("str.sp4")
	b.LdAMem(v.tmp)
	b.Call("io.putc")
	b.LdAMem(v.tmp)
	b.IncR(z80.REG_A)
	b.LdMemA(v.tmp)
	b.LdAMem(v.width)
	b.SubN(5)
	b.JpCond(z80.COND_Z, "disp.hdr.next")
	b.LdR(z80.REG_B, z80.REG_A)
	b.Label("disp.hdr.pad")
	g.putCh(' ')
	b.Djnz("disp.hdr.pad")
	b.Label("disp.hdr.next")
	b.LdAMem(v.drCnt)
	b.DecR(z80.REG_A)
	b.LdMemA(v.drCnt)
	b.JpCond(z80.COND_NZ, "disp.hdr.col")
	b.Ret()

	b.Label("disp.data")
	b.LdAMem(v.viewRow)
	b.LdMemA(v.drRow)
	b.LdN(z80.REG_A, g.rowData())
	b.LdMemA(v.drScr)
	b.Label("disp.data.row")
	b.Call("disp.row")
	b.LdAMem(v.drRow)
	b.IncR(z80.REG_A)
	b.LdMemA(v.drRow)
	b.LdAMem(v.drScr)
	b.IncR(z80.REG_A)
	b.LdMemA(v.drScr)
	b.CpN(g.rowStatus())
	b.JpCond(z80.COND_C, "disp.data.row")
	b.Ret()

	// one window row: right-aligned row number in the gutter, then the
	// visible cells
	b.Label("disp.row")
	b.LdAMem(v.drScr)
	b.LdR(z80.REG_D, z80.REG_A)
	b.LdN(z80.REG_E, 1)
	b.Call("vt.goto")
	g.putCh(' ')
	b.LdAMem(v.drRow)
	b.IncR(z80.REG_A)
	b.LdR(z80.REG_C, z80.REG_A)
	b.CpN(10)
	b.JpCond(z80.COND_NC, "disp.row.num")
	g.putCh(' ')
	b.Label("disp.row.num")
	b.LdR(z80.REG_A, z80.REG_C)
	b.Call("io.putnum")
	g.putCh(' ')
	b.LdAMem(v.viewCol)
	b.LdMemA(v.drCol)
	b.LdAMem(v.visCols)
	b.LdMemA(v.drCnt)
	b.Label("disp.row.cell")
	b.Call("disp.cell")
	b.LdAMem(v.drCol)
	b.IncR(z80.REG_A)
	b.LdMemA(v.drCol)
	b.LdAMem(v.drCnt)
	b.DecR(z80.REG_A)
	b.LdMemA(v.drCnt)
	b.JpCond(z80.COND_NZ, "disp.row.cell")
	b.Ret()

	// cur.is: Z when the cell being drawn is the cursor cell.
	b.Label("cur.is")
	b.LdAMem(v.curCol)
	b.LdR(z80.REG_C, z80.REG_A)
	b.LdAMem(v.drCol)
	b.CpR(z80.REG_C)
	b.RetCond(z80.COND_NZ)
	b.LdAMem(v.curRow)
	b.LdR(z80.REG_C, z80.REG_A)
	b.LdAMem(v.drRow)
	b.CpR(z80.REG_C)
	b.Ret()

	b.Label("disp.cell")
	b.Call("cur.is")
	b.JpCond(z80.COND_NZ, "disp.cell.pl")
	b.LdN(z80.REG_A, '[')
	b.Jp("disp.cell.open")
	b.Label("disp.cell.pl")
	b.LdN(z80.REG_A, ' ')
	b.Label("disp.cell.open")
	b.Call("io.putc")
	b.Call("disp.content")
	b.Call("cur.is")
	b.JpCond(z80.COND_NZ, "disp.cell.pr")
	b.LdN(z80.REG_A, ']')
	b.Jp("disp.cell.close")
	b.Label("disp.cell.pr")
	b.LdN(z80.REG_A, ' ')
	b.Label("disp.cell.close")
	b.Jp("io.putc")

	// disp.content: exactly cw characters for the cell at dr_row/dr_col.
	// Numbers and formula results are right-aligned with up to five
	// leading zeros trimmed; a value too wide for the column renders as
	// '#' fill, the convention terminals inherited from the early
	// spreadsheets.
	b.Label("disp.content")
	b.LdAMem(v.drRow)
	b.LdR(z80.REG_D, z80.REG_A)
	b.LdAMem(v.drCol)
	b.LdR(z80.REG_E, z80.REG_A)
	b.Call("cell.addr")
	b.LdR(z80.REG_A, z80.REG_M)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "ct.empty")
	b.CpN(1)
	b.JpCond(z80.COND_Z, "ct.numfml")
	b.CpN(2)
	b.JpCond(z80.COND_Z, "ct.numfml")
	b.CpN(3)
	b.JpCond(z80.COND_Z, "ct.err")
	b.CpN(4)
	b.JpCond(z80.COND_Z, "ct.rep")
	b.Jp("ct.label")

	b.Label("ct.empty")
	b.LdAMem(v.cw)
	b.LdR(z80.REG_B, z80.REG_A)
	b.Label("ct.empty.l")
	g.putCh(' ')
	b.Djnz("ct.empty.l")
	b.Ret()

	b.Label("ct.numfml")
	b.LdAMem(v.drRow)
	b.LdR(z80.REG_D, z80.REG_A)
	b.LdAMem(v.drCol)
	b.LdR(z80.REG_E, z80.REG_A)
	b.Call("cell.loadv")
	b.Call("bcd.b2a")
	b.LdP(z80.PAIR_HL, s.dispBuf)
	b.LdN(z80.REG_B, 5)
	b.Label("ct.n.trim")
	b.LdR(z80.REG_A, z80.REG_M)
	b.CpN('0')
	b.JpCond(z80.COND_NZ, "ct.n.meas")
	b.IncP(z80.PAIR_HL)
	b.Djnz("ct.n.trim")
	b.Label("ct.n.meas")
	b.LdAMem(v.signB)
	b.OrR(z80.REG_A)
	b.LdN(z80.REG_A, 4)
	b.JpCond(z80.COND_Z, "ct.n.len")
	b.IncR(z80.REG_A)
	b.Label("ct.n.len")
	b.AddR(z80.REG_B)
	b.LdR(z80.REG_C, z80.REG_A)
	b.LdAMem(v.cw)
	b.SubR(z80.REG_C)
	b.JpCond(z80.COND_C, "ct.n.hash")
	b.JpCond(z80.COND_Z, "ct.n.body")
	b.LdR(z80.REG_B, z80.REG_A)
	b.Label("ct.n.sp")
	g.putCh(' ')
	b.Djnz("ct.n.sp")
	b.Label("ct.n.body")
	b.LdAMem(v.signB)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "ct.n.mag")
	g.putCh('-')
	b.Label("ct.n.mag")
	b.Jp("io.puts")

	b.Label("ct.n.hash")
	b.LdAMem(v.cw)
	b.LdR(z80.REG_B, z80.REG_A)
	b.Label("ct.n.hl")
	g.putCh('#')
	b.Djnz("ct.n.hl")
	b.Ret()

	b.Label("ct.err")
	b.LdAMem(v.cw)
	b.CpN(5)
	b.JpCond(z80.COND_C, "ct.n.hash")
	b.SubN(5)
	b.JpCond(z80.COND_Z, "ct.err.s")
	b.LdR(z80.REG_B, z80.REG_A)
	b.Label("ct.err.sp")
	g.putCh(' ')
	b.Djnz("ct.err.sp")
	b.Label("ct.err.s")
	g.putStr("str.errcell")
	b.Ret()

	b.Label("ct.rep")
	b.IncP(z80.PAIR_HL)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_C, z80.REG_M)
	b.LdAMem(v.cw)
	b.LdR(z80.REG_B, z80.REG_A)
	b.Label("ct.rep.l")
	b.LdR(z80.REG_A, z80.REG_C)
	b.Call("io.putc")
	b.Djnz("ct.rep.l")
	b.Ret()

	b.Label("ct.label")
	b.IncP(z80.PAIR_HL)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_A, z80.REG_M)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_H, z80.REG_M)
	b.LdR(z80.REG_L, z80.REG_A)
	b.LdAMem(v.cw)
	b.LdR(z80.REG_B, z80.REG_A)
	b.Label("ct.lab.l")
	b.LdR(z80.REG_A, z80.REG_M)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "ct.lab.pad")
	b.Call("io.putc")
	b.IncP(z80.PAIR_HL)
	b.Djnz("ct.lab.l")
	b.Ret()
	b.Label("ct.lab.pad")
	g.putCh(' ')
	b.Djnz("ct.lab.pad")
	b.Ret()

	// status row: "C12: <source form>"
	b.Label("disp.status")
	g.goTo(g.rowStatus(), 1)
	g.putStr("esc.eol")
	b.LdAMem(v.curCol)
	b.AddN('A')
	b.Call("io.putc")
	b.LdAMem(v.curRow)
	b.IncR(z80.REG_A)
	b.Call("io.putnum")
	g.putCh(':')
	g.putCh(' ')
	b.Call("src.form")
	b.LdP(z80.PAIR_HL, g.lay.InputBase)
	b.Jp("io.puts")

	// src.form regenerates the editable source of the cursor cell into
	// the input buffer and sets ed_len. Number cells reprint from the
	// stored value, formula and label cells from the heap body behind
	// their marker, error cells as the bare marker text. Repeat cells
	// start an edit from scratch.
	b.Label("src.form")
	b.XorR(z80.REG_A)
	b.LdMemA(g.lay.InputBase)
	b.LdMemA(v.edLen)
	b.Call("cur.addr")
	b.LdR(z80.REG_A, z80.REG_M)
	b.OrR(z80.REG_A)
	b.RetCond(z80.COND_Z)
	b.CpN(1)
	b.JpCond(z80.COND_Z, "sf.num")
	b.CpN(2)
	b.JpCond(z80.COND_Z, "sf.fml")
	b.CpN(3)
	b.JpCond(z80.COND_Z, "sf.err")
	b.CpN(4)
	b.RetCond(z80.COND_Z)
	b.LdN(z80.REG_A, '"')
	b.LdMemA(g.lay.InputBase)
	b.Call("sf.text")
	b.Jp("sf.len")

	b.Label("sf.fml")
	b.LdN(z80.REG_A, '=')
	b.LdMemA(g.lay.InputBase)
	b.Call("sf.text")
	b.Jp("sf.len")

	// sf.text: copy the heap body of the record at HL after the marker.
	b.Label("sf.text")
	b.IncP(z80.PAIR_HL)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_A, z80.REG_M)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_H, z80.REG_M)
	b.LdR(z80.REG_L, z80.REG_A)
	b.LdP(z80.PAIR_DE, g.lay.InputBase+1)
	b.Jp("str.copy")

	b.Label("sf.num")
	b.LdAMem(v.curRow)
	b.LdR(z80.REG_D, z80.REG_A)
	b.LdAMem(v.curCol)
	b.LdR(z80.REG_E, z80.REG_A)
	b.Call("cell.loadv")
	b.Call("bcd.b2a")
	b.LdP(z80.PAIR_HL, s.dispBuf)
	b.LdN(z80.REG_B, 5)
	b.Label("sf.num.trim")
	b.LdR(z80.REG_A, z80.REG_M)
	b.CpN('0')
	b.JpCond(z80.COND_NZ, "sf.num.copy")
	b.IncP(z80.PAIR_HL)
	b.Djnz("sf.num.trim")
	b.Label("sf.num.copy")
	b.LdP(z80.PAIR_DE, g.lay.InputBase)
	b.LdAMem(v.signB)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "sf.num.mag")
	b.LdN(z80.REG_A, '-')
	b.LdDEA()
	b.IncP(z80.PAIR_DE)
	b.Label("sf.num.mag")
	b.Call("str.copy")
	b.Jp("sf.len")

	b.Label("sf.err")
	b.LdPLabel(z80.PAIR_HL, "str.errsrc")
	b.LdP(z80.PAIR_DE, g.lay.InputBase)
	b.Call("str.copy")

	b.Label("sf.len")
	b.LdP(z80.PAIR_HL, g.lay.InputBase)
	b.Call("str.len")
	b.LdR(z80.REG_A, z80.REG_C)
	b.LdMemA(v.edLen)
	b.Ret()

	b.Label("disp.input")
	g.goTo(g.rowInput(), 1)
	g.putStr("esc.eol")
	g.putCh('>')
	g.putCh(' ')
	b.LdP(z80.PAIR_HL, g.lay.InputBase)
	b.Jp("io.puts")

	b.Label("disp.sync")
	b.Call("view.fix")
	b.JpCond(z80.COND_NZ, "disp.full")
	b.Call("disp.data")
	b.Jp("disp.status")

	// view.fix scrolls the view origin the minimum distance that puts
	// the cursor inside the window. NZ when the origin moved.
	b.Label("view.fix")
	b.LdN(z80.REG_B, 0)
	b.LdAMem(v.viewCol)
	b.LdR(z80.REG_C, z80.REG_A)
	b.LdAMem(v.curCol)
	b.CpR(z80.REG_C)
	b.JpCond(z80.COND_NC, "view.fix.right")
	b.LdMemA(v.viewCol)
	b.LdN(z80.REG_B, 1)
	b.Jp("view.fix.rows")
	b.Label("view.fix.right")
	b.LdAMem(v.visCols)
	b.AddR(z80.REG_C)
	b.LdR(z80.REG_C, z80.REG_A)
	b.LdAMem(v.curCol)
	b.CpR(z80.REG_C)
	b.JpCond(z80.COND_C, "view.fix.rows")
	b.LdAMem(v.visCols)
	b.LdR(z80.REG_C, z80.REG_A)
	b.LdAMem(v.curCol)
	b.SubR(z80.REG_C)
	b.IncR(z80.REG_A)
	b.LdMemA(v.viewCol)
	b.LdN(z80.REG_B, 1)
	b.Label("view.fix.rows")
	b.LdAMem(v.viewRow)
	b.LdR(z80.REG_C, z80.REG_A)
	b.LdAMem(v.curRow)
	b.CpR(z80.REG_C)
	b.JpCond(z80.COND_NC, "view.fix.down")
	b.LdMemA(v.viewRow)
	b.LdN(z80.REG_B, 1)
	b.Jp("view.fix.out")
	b.Label("view.fix.down")
	b.LdR(z80.REG_A, z80.REG_C)
	b.AddN(byte(g.lay.VisRows))
	b.LdR(z80.REG_C, z80.REG_A)
	b.LdAMem(v.curRow)
	b.CpR(z80.REG_C)
	b.JpCond(z80.COND_C, "view.fix.out")
	b.SubN(byte(g.lay.VisRows) - 1)
	b.LdMemA(v.viewRow)
	b.LdN(z80.REG_B, 1)
	b.Label("view.fix.out")
	b.LdR(z80.REG_A, z80.REG_B)
	b.OrR(z80.REG_A)
	b.Ret()
}
