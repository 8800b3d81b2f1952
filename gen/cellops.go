package gen

import (
	"zcalc/sheet"
	"zcalc/z80"
)

// cellOps emits the cell-store routines: record addressing, value
// loading, the heap bump allocator, the commit paths, and the global
// recalculation walk. Record layout and addressing match package sheet
// byte for byte; that is what lets seeded images boot coherently.
func (g *Generator) cellOps() {
	b := g.b
	s := g.s
	v := g.v

	records := uint16(gridCols * gridRows)

	// cell.addr: D=row, E=col (0-based) to record address in HL.
	// address = cell_base + (row*16 + col) * 6. Clobbers DE.
	b.Label("cell.addr")
	b.LdN(z80.REG_H, 0)
	b.LdR(z80.REG_L, z80.REG_D)
	for n := 0; n < 4; n++ {
		b.AddHL(z80.PAIR_HL)
	}
	b.LdN(z80.REG_D, 0)
	b.AddHL(z80.PAIR_DE)
	b.AddHL(z80.PAIR_HL)
	b.LdR(z80.REG_E, z80.REG_L)
	b.LdR(z80.REG_D, z80.REG_H)
	b.AddHL(z80.PAIR_HL)
	b.AddHL(z80.PAIR_DE)
	b.LdP(z80.PAIR_DE, g.lay.CellBase)
	b.AddHL(z80.PAIR_DE)
	b.Ret()

	// cur.addr: record address of the cursor cell.
	b.Label("cur.addr")
	b.LdAMem(v.curRow)
	b.LdR(z80.REG_D, z80.REG_A)
	b.LdAMem(v.curCol)
	b.LdR(z80.REG_E, z80.REG_A)
	b.Jp("cell.addr")

	// cell.loadv: D=row, E=col; the cell's numeric value lands in
	// sign_b/num_b. Empty reads as zero, numbers from the record,
	// formulas from the cached result after their heap text. Any other
	// type has no value: carry set.
	b.Label("cell.loadv")
	b.Call("cell.addr")
	b.LdR(z80.REG_A, z80.REG_M)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "cl.zero")
	b.CpN(byte(sheet.CELL_NUMBER))
	b.JpCond(z80.COND_Z, "cl.num")
	b.CpN(byte(sheet.CELL_FORMULA))
	b.JpCond(z80.COND_Z, "cl.fml")
	b.Scf()
	b.Ret()

	b.Label("cl.zero")
	b.XorR(z80.REG_A)
	b.LdMemA(v.signB)
	b.LdP(z80.PAIR_HL, s.numB)
	b.Jp("mem.zero4")

	b.Label("cl.num")
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_A, z80.REG_M)
	b.LdMemA(v.signB)
	b.IncP(z80.PAIR_HL)
	b.LdP(z80.PAIR_DE, s.numB)
	b.LdP(z80.PAIR_BC, 4)
	b.Ldir()
	b.OrR(z80.REG_A)
	b.Ret()

	b.Label("cl.fml")
	b.IncP(z80.PAIR_HL)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_A, z80.REG_M)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_H, z80.REG_M)
	b.LdR(z80.REG_L, z80.REG_A)
	b.Label("cl.fml.scan")
	b.LdR(z80.REG_A, z80.REG_M)
	b.IncP(z80.PAIR_HL)
	b.OrR(z80.REG_A)
	b.JrCond(z80.COND_NZ, "cl.fml.scan")
	b.LdR(z80.REG_A, z80.REG_M)
	b.LdMemA(v.signB)
	b.IncP(z80.PAIR_HL)
	b.LdP(z80.PAIR_DE, s.numB)
	b.LdP(z80.PAIR_BC, 4)
	b.Ldir()
	b.OrR(z80.REG_A)
	b.Ret()

	// heap.take: C = entry size. Returns the entry address in HL and
	// advances the free pointer; carry set when the heap cannot hold
	// it, with nothing changed.
	b.Label("heap.take")
	b.LdHLMem(v.heapPtr)
	b.Push(z80.PAIR_HL)
	b.LdN(z80.REG_B, 0)
	b.AddHL(z80.PAIR_BC)
	b.ExDEHL()
	b.LdP(z80.PAIR_HL, g.heapEnd())
	b.OrR(z80.REG_A)
	b.SbcHL(z80.PAIR_DE)
	b.JpCond(z80.COND_C, "heap.take.full")
	b.ExDEHL()
	b.LdMemHL(v.heapPtr)
	b.Pop(z80.PAIR_HL)
	b.OrR(z80.REG_A)
	b.Ret()
	b.Label("heap.take.full")
	b.Pop(z80.PAIR_HL)
	b.Scf()
	b.Ret()

	// store.commit: apply the input buffer to the cursor cell. Leading
	// '"' is a label, '=' a formula, anything else must be a number or
	// the cell becomes an error cell. Empty input commits nothing. A
	// full heap beeps and keeps the old cell.
	b.Label("store.commit")
	b.LdAMem(g.lay.InputBase)
	b.OrR(z80.REG_A)
	b.RetCond(z80.COND_Z)
	b.CpN('"')
	b.JpCond(z80.COND_Z, "store.label")
	b.CpN('=')
	b.JpCond(z80.COND_Z, "store.formula")
	b.LdP(z80.PAIR_HL, g.lay.InputBase)
	b.Call("bcd.a2b")
	b.JpCond(z80.COND_C, "store.err")
	b.LdR(z80.REG_A, z80.REG_M)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_NZ, "store.err") // trailing junk
	b.Call("cur.addr")
	b.LdN(z80.REG_M, byte(sheet.CELL_NUMBER))
	b.IncP(z80.PAIR_HL)
	b.LdAMem(v.signB)
	b.LdR(z80.REG_M, z80.REG_A)
	b.IncP(z80.PAIR_HL)
	b.ExDEHL()
	b.LdP(z80.PAIR_HL, s.numB)
	b.LdP(z80.PAIR_BC, 4)
	b.Ldir()
	b.Ret()

	b.Label("store.err")
	b.Call("cur.addr")
	b.LdN(z80.REG_M, byte(sheet.CELL_ERROR))
	b.XorR(z80.REG_A)
	for n := 0; n < 5; n++ {
		b.IncP(z80.PAIR_HL)
		b.LdR(z80.REG_M, z80.REG_A)
	}
	b.Ret()

	// store.label: heap entry is the text after the '"', NUL-terminated.
	b.Label("store.label")
	b.LdAMem(v.edLen)
	b.LdR(z80.REG_C, z80.REG_A)
	b.Call("heap.take")
	b.JpCond(z80.COND_C, "store.bell")
	b.ExDEHL()
	b.Push(z80.PAIR_DE)
	b.LdP(z80.PAIR_HL, g.lay.InputBase+1)
	b.Call("str.copy")
	b.Call("cur.addr")
	b.Pop(z80.PAIR_DE)
	b.LdN(z80.REG_M, byte(sheet.CELL_LABEL))
	b.IncP(z80.PAIR_HL)
	b.XorR(z80.REG_A)
	b.LdR(z80.REG_M, z80.REG_A)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_M, z80.REG_E)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_M, z80.REG_D)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_M, z80.REG_A)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_M, z80.REG_A)
	b.Ret()

	// store.formula: evaluate first, so a bad formula becomes an error
	// cell without touching the heap; then text + NUL + sign + cached
	// result as one entry.
	b.Label("store.formula")
	b.LdP(z80.PAIR_HL, g.lay.InputBase+1)
	b.LdMemHL(v.evPtr)
	b.Call("ev.expr")
	b.JpCond(z80.COND_C, "store.err")
	b.LdAMem(v.edLen)
	b.AddN(5)
	b.LdR(z80.REG_C, z80.REG_A)
	b.Call("heap.take")
	b.JpCond(z80.COND_C, "store.bell")
	b.ExDEHL()
	b.Push(z80.PAIR_DE)
	b.LdP(z80.PAIR_HL, g.lay.InputBase+1)
	b.Call("str.copy")
	b.LdAMem(v.signA)
	b.LdDEA()
	b.IncP(z80.PAIR_DE)
	b.LdP(z80.PAIR_HL, s.numA)
	b.LdP(z80.PAIR_BC, 4)
	b.Ldir()
	b.Call("cur.addr")
	b.Pop(z80.PAIR_DE)
	b.LdN(z80.REG_M, byte(sheet.CELL_FORMULA))
	b.IncP(z80.PAIR_HL)
	b.LdAMem(v.signA)
	b.LdR(z80.REG_M, z80.REG_A)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_M, z80.REG_E)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_M, z80.REG_D)
	b.IncP(z80.PAIR_HL)
	b.XorR(z80.REG_A)
	b.LdR(z80.REG_M, z80.REG_A)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_M, z80.REG_A)
	b.Ret()

	b.Label("store.bell")
	b.Jp("io.bell")

	// recalc.all: one pass over every record in address order. Formula
	// cells re-evaluate their heap text; only the cached sign and
	// result are rewritten. A formula that now fails keeps its old
	// cache. Cells later in the scan contribute their previous value.
	b.Label("recalc.all")
	b.LdP(z80.PAIR_HL, g.lay.CellBase)
	b.LdMemHL(v.rcAddr)
	b.LdP(z80.PAIR_HL, records)
	b.LdMemHL(v.rcCnt)
	b.Label("rc.scan")
	b.LdHLMem(v.rcAddr)
	b.LdR(z80.REG_A, z80.REG_M)
	b.CpN(byte(sheet.CELL_FORMULA))
	b.JpCond(z80.COND_NZ, "rc.next")
	b.IncP(z80.PAIR_HL)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_A, z80.REG_M)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_H, z80.REG_M)
	b.LdR(z80.REG_L, z80.REG_A)
	b.LdMemHL(v.rcText)
	b.LdMemHL(v.evPtr)
	b.Call("ev.expr")
	b.JpCond(z80.COND_C, "rc.next")
	b.LdHLMem(v.rcText)
	b.Label("rc.tonul")
	b.LdR(z80.REG_A, z80.REG_M)
	b.IncP(z80.PAIR_HL)
	b.OrR(z80.REG_A)
	b.JrCond(z80.COND_NZ, "rc.tonul")
	b.LdAMem(v.signA)
	b.LdR(z80.REG_M, z80.REG_A)
	b.IncP(z80.PAIR_HL)
	b.ExDEHL()
	b.LdP(z80.PAIR_HL, s.numA)
	b.LdP(z80.PAIR_BC, 4)
	b.Ldir()
	b.Label("rc.next")
	b.LdHLMem(v.rcAddr)
	b.LdP(z80.PAIR_DE, sheet.RecordSize)
	b.AddHL(z80.PAIR_DE)
	b.LdMemHL(v.rcAddr)
	b.LdHLMem(v.rcCnt)
	b.DecP(z80.PAIR_HL)
	b.LdMemHL(v.rcCnt)
	b.LdR(z80.REG_A, z80.REG_H)
	b.OrR(z80.REG_L)
	b.JpCond(z80.COND_NZ, "rc.scan")
	b.Ret()
}
