package gen

import (
	"zcalc/z80"
)

// evaluator emits the formula engine. ev.expr walks the NUL-terminated
// expression at ev_ptr strictly left to right, no precedence: the
// running value stays in sign_a/num_a, each operand is produced into
// sign_b/num_b, and the pending operator applies them. Carry set means
// the whole evaluation failed; partial results are meaningless then.
func (g *Generator) evaluator() {
	b := g.b
	s := g.s
	v := g.v

	b.Label("ev.expr")
	b.Call("ev.operand")
	b.RetCond(z80.COND_C)
	b.Call("ev.b2acc")
	b.Label("ev.loop")
	b.LdHLMem(v.evPtr)
	b.LdR(z80.REG_A, z80.REG_M)
	b.OrR(z80.REG_A)
	b.RetCond(z80.COND_Z)
	b.IncP(z80.PAIR_HL)
	b.LdMemHL(v.evPtr)
	b.LdMemA(v.evOp)
	b.Call("ev.operand")
	b.RetCond(z80.COND_C)
	b.LdAMem(v.evOp)
	b.CpN('+')
	b.JpCond(z80.COND_Z, "ev.add")
	b.CpN('-')
	b.JpCond(z80.COND_Z, "ev.sub")
	b.CpN('*')
	b.JpCond(z80.COND_Z, "ev.mul")
	b.CpN('/')
	b.JpCond(z80.COND_Z, "ev.div")
	b.Scf()
	b.Ret()

	b.Label("ev.add")
	b.Call("bcd.signed")
	b.RetCond(z80.COND_C)
	b.Jp("ev.loop")

	b.Label("ev.sub")
	b.LdAMem(v.signB)
	b.XorN(0x80)
	b.LdMemA(v.signB)
	b.Call("bcd.signed")
	b.RetCond(z80.COND_C)
	b.Jp("ev.loop")

	// products and quotients carry the xor of the operand signs, unless
	// the result is zero
	b.Label("ev.mul")
	b.Call("ev.sgn")
	b.Call("bcd.mul")
	b.RetCond(z80.COND_C)
	b.Jp("ev.fix")

	b.Label("ev.div")
	b.Call("ev.sgn")
	b.Call("bcd.div")
	b.RetCond(z80.COND_C)

	b.Label("ev.fix")
	b.Call("bcd.tst")
	b.JpCond(z80.COND_Z, "ev.fix.z")
	b.LdAMem(v.tmp)
	b.LdMemA(v.signA)
	b.Jp("ev.loop")
	b.Label("ev.fix.z")
	b.XorR(z80.REG_A)
	b.LdMemA(v.signA)
	b.Jp("ev.loop")

	b.Label("ev.sgn")
	b.LdAMem(v.signA)
	b.LdR(z80.REG_C, z80.REG_A)
	b.LdAMem(v.signB)
	b.XorR(z80.REG_C)
	b.LdMemA(v.tmp)
	b.Ret()

	b.Label("ev.b2acc")
	b.LdP(z80.PAIR_HL, s.numB)
	b.LdP(z80.PAIR_DE, s.numA)
	b.LdP(z80.PAIR_BC, 4)
	b.Ldir()
	b.LdAMem(v.signB)
	b.LdMemA(v.signA)
	b.Ret()

	b.Label("ev.acc2b")
	b.LdP(z80.PAIR_HL, s.numA)
	b.LdP(z80.PAIR_DE, s.numB)
	b.LdP(z80.PAIR_BC, 4)
	b.Ldir()
	b.LdAMem(v.signA)
	b.LdMemA(v.signB)
	b.Ret()

	// ev.operand: one operand into sign_b/num_b. '@' opens a range
	// function, '$' or a letter a cell reference, '-', '.' or a digit
	// a number. Anything else fails.
	b.Label("ev.operand")
	b.LdHLMem(v.evPtr)
	b.LdR(z80.REG_A, z80.REG_M)
	b.CpN('@')
	b.JpCond(z80.COND_Z, "ev.range.in")
	b.CpN('$')
	b.JpCond(z80.COND_Z, "ev.ref.in")
	b.LdR(z80.REG_C, z80.REG_A)
	b.AndN(0xDF)
	b.CpN('A')
	b.JpCond(z80.COND_C, "ev.operand.notl")
	b.CpN('Z' + 1)
	b.JpCond(z80.COND_C, "ev.ref.in")
	b.Label("ev.operand.notl")
	b.LdR(z80.REG_A, z80.REG_C)
	b.CpN('-')
	b.JpCond(z80.COND_Z, "ev.num.in")
	b.CpN('.')
	b.JpCond(z80.COND_Z, "ev.num.in")
	b.CpN('0')
	b.JpCond(z80.COND_C, "ev.operand.err")
	b.CpN('9' + 1)
	b.JpCond(z80.COND_C, "ev.num.in")
	b.Label("ev.operand.err")
	b.Scf()
	b.Ret()

	b.Label("ev.num.in")
	b.Call("bcd.a2b")
	b.RetCond(z80.COND_C)
	b.LdMemHL(v.evPtr)
	b.Ret()

	b.Label("ev.ref.in")
	b.Call("ev.ref")
	b.RetCond(z80.COND_C)
	b.Jp("cell.loadv")

	b.Label("ev.range.in")
	b.IncP(z80.PAIR_HL)
	b.LdMemHL(v.evPtr)
	b.Jp("ev.range")

	// ev.ref parses a cell reference at ev_ptr into D=row, E=col, both
	// 0-based, advancing ev_ptr past it. '$' markers are accepted and
	// ignored; ev.refr is the range-endpoint entry, which rejects them.
	b.Label("ev.ref")
	b.LdN(z80.REG_B, 1)
	b.Jp("ev.refc")
	b.Label("ev.refr")
	b.LdN(z80.REG_B, 0)
	b.Label("ev.refc")
	b.LdHLMem(v.evPtr)
	b.LdR(z80.REG_A, z80.REG_M)
	b.CpN('$')
	b.JpCond(z80.COND_NZ, "ev.refc.col")
	b.LdR(z80.REG_A, z80.REG_B)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "ev.ref.err")
	b.IncP(z80.PAIR_HL)
	b.Label("ev.refc.col")
	b.LdR(z80.REG_A, z80.REG_M)
	b.AndN(0xDF)
	b.CpN('A')
	b.JpCond(z80.COND_C, "ev.ref.err")
	b.CpN('A' + gridCols)
	b.JpCond(z80.COND_NC, "ev.ref.err")
	b.SubN('A')
	b.LdR(z80.REG_E, z80.REG_A)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_A, z80.REG_M)
	b.CpN('$')
	b.JpCond(z80.COND_NZ, "ev.refc.row")
	b.LdR(z80.REG_A, z80.REG_B)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "ev.ref.err")
	b.IncP(z80.PAIR_HL)
	b.Label("ev.refc.row")
	b.LdN(z80.REG_B, 0)
	b.LdN(z80.REG_C, 0)
	b.Label("ev.refc.dig")
	b.LdR(z80.REG_A, z80.REG_M)
	b.CpN('0')
	b.JpCond(z80.COND_C, "ev.refc.end")
	b.CpN('9' + 1)
	b.JpCond(z80.COND_NC, "ev.refc.end")
	b.SubN('0')
	b.LdR(z80.REG_D, z80.REG_A)
	b.LdR(z80.REG_A, z80.REG_B)
	b.CpN(2)
	b.JpCond(z80.COND_NC, "ev.ref.err") // 3 digits cannot name a row
	b.IncR(z80.REG_B)
	b.LdR(z80.REG_A, z80.REG_C)
	b.AddR(z80.REG_A)
	b.AddR(z80.REG_A)
	b.AddR(z80.REG_C)
	b.AddR(z80.REG_A)
	b.AddR(z80.REG_D)
	b.LdR(z80.REG_C, z80.REG_A)
	b.IncP(z80.PAIR_HL)
	b.Jr("ev.refc.dig")
	b.Label("ev.refc.end")
	b.LdR(z80.REG_A, z80.REG_B)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "ev.ref.err")
	b.LdR(z80.REG_A, z80.REG_C)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "ev.ref.err")
	b.CpN(gridRows + 1)
	b.JpCond(z80.COND_NC, "ev.ref.err")
	b.DecR(z80.REG_A)
	b.LdR(z80.REG_D, z80.REG_A)
	b.LdMemHL(v.evPtr)
	b.OrR(z80.REG_A)
	b.Ret()
	b.Label("ev.ref.err")
	b.Scf()
	b.Ret()

	// ev.range: '@' already consumed. The name is matched against the
	// function table, then "(from:to)" with plain references. The walk
	// is column-major over the inclusive rectangle; only number and
	// formula cells take part. The outer accumulator is parked in
	// rng_save for the duration.
	b.Label("ev.range")
	fns := []struct {
		label string
		index byte
	}{
		{"str.fn.sum", 0},
		{"str.fn.avg", 1},
		{"str.fn.min", 2},
		{"str.fn.max", 3},
		{"str.fn.count", 4},
	}
	b.LdHLMem(v.evPtr)
	for _, fn := range fns {
		b.LdN(z80.REG_A, fn.index)
		b.LdMemA(v.rngFn)
		b.LdPLabel(z80.PAIR_DE, fn.label)
		b.Call("str.match")
		b.JpCond(z80.COND_Z, "ev.range.named")
	}
	b.Scf()
	b.Ret()

	b.Label("ev.range.named")
	b.LdMemHL(v.evPtr)
	b.LdR(z80.REG_A, z80.REG_M)
	b.CpN('(')
	b.JpCond(z80.COND_NZ, "ev.range.err")
	b.IncP(z80.PAIR_HL)
	b.LdMemHL(v.evPtr)
	b.Call("ev.refr")
	b.RetCond(z80.COND_C)
	b.LdR(z80.REG_A, z80.REG_E)
	b.LdMemA(v.rngC1)
	b.LdR(z80.REG_A, z80.REG_D)
	b.LdMemA(v.rngR1)
	b.LdHLMem(v.evPtr)
	b.LdR(z80.REG_A, z80.REG_M)
	b.CpN(':')
	b.JpCond(z80.COND_NZ, "ev.range.err")
	b.IncP(z80.PAIR_HL)
	b.LdMemHL(v.evPtr)
	b.Call("ev.refr")
	b.RetCond(z80.COND_C)
	b.LdR(z80.REG_A, z80.REG_E)
	b.LdMemA(v.rngC2)
	b.LdR(z80.REG_A, z80.REG_D)
	b.LdMemA(v.rngR2)
	b.LdHLMem(v.evPtr)
	b.LdR(z80.REG_A, z80.REG_M)
	b.CpN(')')
	b.JpCond(z80.COND_NZ, "ev.range.err")
	b.IncP(z80.PAIR_HL)
	b.LdMemHL(v.evPtr)
	b.Jp("ev.range.walk")
	b.Label("ev.range.err")
	b.Scf()
	b.Ret()

	b.Label("ev.range.walk")
	b.LdP(z80.PAIR_HL, s.numA)
	b.LdP(z80.PAIR_DE, v.rngSave)
	b.LdP(z80.PAIR_BC, 4)
	b.Ldir()
	b.LdAMem(v.signA)
	b.LdMemA(v.rngSaveS)
	b.XorR(z80.REG_A)
	b.LdMemA(v.signA)
	b.LdMemA(v.rngFound)
	b.LdMemA(v.rngBestS)
	b.LdP(z80.PAIR_HL, s.numA)
	b.Call("mem.zero4")
	b.LdP(z80.PAIR_HL, v.rngCnt)
	b.Call("mem.zero4")
	b.LdP(z80.PAIR_HL, v.rngBest)
	b.Call("mem.zero4")
	b.LdAMem(v.rngC1)
	b.LdMemA(v.rngC)

	b.Label("ev.range.col")
	b.LdAMem(v.rngC2)
	b.LdR(z80.REG_C, z80.REG_A)
	b.LdAMem(v.rngC)
	b.CpR(z80.REG_C)
	b.JpCond(z80.COND_Z, "ev.range.coldo")
	b.JpCond(z80.COND_NC, "ev.range.fin")
	b.Label("ev.range.coldo")
	b.LdAMem(v.rngR1)
	b.LdMemA(v.rngR)

	b.Label("ev.range.row")
	b.LdAMem(v.rngR2)
	b.LdR(z80.REG_C, z80.REG_A)
	b.LdAMem(v.rngR)
	b.CpR(z80.REG_C)
	b.JpCond(z80.COND_Z, "ev.range.rowdo")
	b.JpCond(z80.COND_NC, "ev.range.nextcol")
	b.Label("ev.range.rowdo")
	b.LdAMem(v.rngR)
	b.LdR(z80.REG_D, z80.REG_A)
	b.LdAMem(v.rngC)
	b.LdR(z80.REG_E, z80.REG_A)
	b.Call("cell.addr")
	b.LdR(z80.REG_A, z80.REG_M)
	b.CpN(1)
	b.JpCond(z80.COND_Z, "ev.range.cell")
	b.CpN(2)
	b.JpCond(z80.COND_Z, "ev.range.cell")
	b.Jp("ev.range.nextrow")

	b.Label("ev.range.cell")
	b.LdAMem(v.rngR)
	b.LdR(z80.REG_D, z80.REG_A)
	b.LdAMem(v.rngC)
	b.LdR(z80.REG_E, z80.REG_A)
	b.Call("cell.loadv")
	b.RetCond(z80.COND_C)
	b.LdAMem(v.rngFn)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "ev.range.sum")
	b.CpN(1)
	b.JpCond(z80.COND_Z, "ev.range.sum")
	b.CpN(2)
	b.JpCond(z80.COND_Z, "ev.range.min")
	b.CpN(3)
	b.JpCond(z80.COND_Z, "ev.range.max")
	b.Jp("ev.range.count")

	b.Label("ev.range.sum")
	b.Call("bcd.signed")
	b.RetCond(z80.COND_C)
	b.Jp("ev.range.count")

	b.Label("ev.range.min")
	b.LdAMem(v.rngFound)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "ev.range.takeb")
	b.LdP(z80.PAIR_HL, s.numB)
	b.LdP(z80.PAIR_DE, v.rngBest)
	b.LdN(z80.REG_B, 4)
	b.Call("bcd.cmpb")
	b.JpCond(z80.COND_C, "ev.range.takeb")
	b.Jp("ev.range.count")

	b.Label("ev.range.max")
	b.LdAMem(v.rngFound)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "ev.range.takeb")
	b.LdP(z80.PAIR_HL, s.numB)
	b.LdP(z80.PAIR_DE, v.rngBest)
	b.LdN(z80.REG_B, 4)
	b.Call("bcd.cmpb")
	b.JpCond(z80.COND_Z, "ev.range.count")
	b.JpCond(z80.COND_C, "ev.range.count")

	b.Label("ev.range.takeb")
	b.LdP(z80.PAIR_HL, s.numB)
	b.LdP(z80.PAIR_DE, v.rngBest)
	b.LdP(z80.PAIR_BC, 4)
	b.Ldir()
	b.LdAMem(v.signB)
	b.LdMemA(v.rngBestS)

	b.Label("ev.range.count")
	b.LdP(z80.PAIR_HL, v.rngCnt+2)
	b.LdR(z80.REG_A, z80.REG_M)
	b.AddN(1)
	b.Daa()
	b.LdR(z80.REG_M, z80.REG_A)
	for n := 0; n < 2; n++ {
		b.DecP(z80.PAIR_HL)
		b.LdR(z80.REG_A, z80.REG_M)
		b.AdcN(0)
		b.Daa()
		b.LdR(z80.REG_M, z80.REG_A)
	}
	b.LdN(z80.REG_A, 1)
	b.LdMemA(v.rngFound)

	b.Label("ev.range.nextrow")
	b.LdAMem(v.rngR)
	b.IncR(z80.REG_A)
	b.LdMemA(v.rngR)
	b.Jp("ev.range.row")

	b.Label("ev.range.nextcol")
	b.LdAMem(v.rngC)
	b.IncR(z80.REG_A)
	b.LdMemA(v.rngC)
	b.Jp("ev.range.col")

	// finalize: the operand contract puts the result in sign_b/num_b
	// and restores the saved outer accumulator
	b.Label("ev.range.fin")
	b.LdAMem(v.rngFn)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "ev.range.fsum")
	b.CpN(1)
	b.JpCond(z80.COND_Z, "ev.range.favg")
	b.CpN(4)
	b.JpCond(z80.COND_Z, "ev.range.fcnt")
	b.LdP(z80.PAIR_HL, v.rngBest)
	b.LdP(z80.PAIR_DE, s.numB)
	b.LdP(z80.PAIR_BC, 4)
	b.Ldir()
	b.LdAMem(v.rngBestS)
	b.LdMemA(v.signB)
	b.Jp("ev.range.rest")

	b.Label("ev.range.fsum")
	b.Call("ev.acc2b")
	b.Jp("ev.range.rest")

	b.Label("ev.range.favg")
	b.LdP(z80.PAIR_HL, v.rngCnt)
	b.LdR(z80.REG_A, z80.REG_M)
	for n := 0; n < 3; n++ {
		b.IncP(z80.PAIR_HL)
		b.OrR(z80.REG_M)
	}
	b.JpCond(z80.COND_Z, "ev.range.favg0")
	b.LdP(z80.PAIR_HL, v.rngCnt)
	b.LdP(z80.PAIR_DE, s.numB)
	b.LdP(z80.PAIR_BC, 4)
	b.Ldir()
	b.LdAMem(v.signA)
	b.LdMemA(v.tmp)
	b.Call("bcd.div")
	b.RetCond(z80.COND_C)
	b.Call("bcd.tst")
	b.JpCond(z80.COND_Z, "ev.range.favgz")
	b.LdAMem(v.tmp)
	b.LdMemA(v.signA)
	b.Jp("ev.range.favgm")
	b.Label("ev.range.favgz")
	b.XorR(z80.REG_A)
	b.LdMemA(v.signA)
	b.Label("ev.range.favgm")
	b.Call("ev.acc2b")
	b.Jp("ev.range.rest")
	b.Label("ev.range.favg0")
	b.XorR(z80.REG_A)
	b.LdMemA(v.signB)
	b.LdP(z80.PAIR_HL, s.numB)
	b.Call("mem.zero4")
	b.Jp("ev.range.rest")

	b.Label("ev.range.fcnt")
	b.LdP(z80.PAIR_HL, v.rngCnt)
	b.LdP(z80.PAIR_DE, s.numB)
	b.LdP(z80.PAIR_BC, 4)
	b.Ldir()
	b.XorR(z80.REG_A)
	b.LdMemA(v.signB)

	b.Label("ev.range.rest")
	b.LdP(z80.PAIR_HL, v.rngSave)
	b.LdP(z80.PAIR_DE, s.numA)
	b.LdP(z80.PAIR_BC, 4)
	b.Ldir()
	b.LdAMem(v.rngSaveS)
	b.LdMemA(v.signA)
	b.OrR(z80.REG_A)
	b.Ret()
}
