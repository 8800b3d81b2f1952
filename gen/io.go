package gen

import (
	"zcalc/z80"
)

// charIO emits the polled ACIA routines, the VT positioning helper, and
// the small string utilities everything else leans on.
//
// io.putc preserves every register but AF. io.puts consumes HL. io.getc
// returns the key in A. vt.goto takes D=row, E=col (1-based).
func (g *Generator) charIO() {
	b := g.b

	b.Label("io.getc")
	b.In(g.lay.StatusPort)
	b.AndN(0x01)
	b.JrCond(z80.COND_Z, "io.getc")
	b.In(g.lay.DataPort)
	b.Ret()

	b.Label("io.putc")
	b.Push(z80.PAIR_AF)
	b.Label("io.putc.wait")
	b.In(g.lay.StatusPort)
	b.AndN(0x02)
	b.JrCond(z80.COND_Z, "io.putc.wait")
	b.Pop(z80.PAIR_AF)
	b.Out(g.lay.DataPort)
	b.Ret()

	b.Label("io.puts")
	b.LdR(z80.REG_A, z80.REG_M)
	b.OrR(z80.REG_A)
	b.RetCond(z80.COND_Z)
	b.Call("io.putc")
	b.IncP(z80.PAIR_HL)
	b.Jr("io.puts")

	// Two ASCII digits, leading zero kept: ANSI parameters.
	b.Label("io.putdec")
	b.LdN(z80.REG_B, '0')
	b.Label("io.putdec.tens")
	b.CpN(10)
	b.JpCond(z80.COND_C, "io.putdec.out")
	b.SubN(10)
	b.IncR(z80.REG_B)
	b.Jr("io.putdec.tens")
	b.Label("io.putdec.out")
	b.LdR(z80.REG_C, z80.REG_A)
	b.LdR(z80.REG_A, z80.REG_B)
	b.Call("io.putc")
	b.LdR(z80.REG_A, z80.REG_C)
	b.AddN('0')
	b.Jp("io.putc")

	// One or two digits, no leading zero: row numbers, status refs.
	b.Label("io.putnum")
	b.LdN(z80.REG_B, 0)
	b.Label("io.putnum.tens")
	b.CpN(10)
	b.JpCond(z80.COND_C, "io.putnum.out")
	b.SubN(10)
	b.IncR(z80.REG_B)
	b.Jr("io.putnum.tens")
	b.Label("io.putnum.out")
	b.LdR(z80.REG_C, z80.REG_A)
	b.LdR(z80.REG_A, z80.REG_B)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "io.putnum.ones")
	b.AddN('0')
	b.Call("io.putc")
	b.Label("io.putnum.ones")
	b.LdR(z80.REG_A, z80.REG_C)
	b.AddN('0')
	b.Jp("io.putc")

	b.Label("io.crlf")
	b.LdN(z80.REG_A, 0x0D)
	b.Call("io.putc")
	b.LdN(z80.REG_A, 0x0A)
	b.Jp("io.putc")

	b.Label("io.bell")
	b.LdN(z80.REG_A, 0x07)
	b.Jp("io.putc")

	b.Label("vt.goto")
	b.LdN(z80.REG_A, 0x1B)
	b.Call("io.putc")
	b.LdN(z80.REG_A, '[')
	b.Call("io.putc")
	b.LdR(z80.REG_A, z80.REG_D)
	b.Call("io.putdec")
	b.LdN(z80.REG_A, ';')
	b.Call("io.putc")
	b.LdR(z80.REG_A, z80.REG_E)
	b.Call("io.putdec")
	b.LdN(z80.REG_A, 'H')
	b.Jp("io.putc")

	// str.copy: (HL) -> (DE) through the NUL; DE ends one past it.
	b.Label("str.copy")
	b.LdR(z80.REG_A, z80.REG_M)
	b.LdDEA()
	b.IncP(z80.PAIR_HL)
	b.IncP(z80.PAIR_DE)
	b.OrR(z80.REG_A)
	b.JrCond(z80.COND_NZ, "str.copy")
	b.Ret()

	// str.len: BC = length of the string at HL, excluding the NUL.
	b.Label("str.len")
	b.LdP(z80.PAIR_BC, 0)
	b.Label("str.len.scan")
	b.LdR(z80.REG_A, z80.REG_M)
	b.OrR(z80.REG_A)
	b.RetCond(z80.COND_Z)
	b.IncP(z80.PAIR_HL)
	b.IncP(z80.PAIR_BC)
	b.Jr("str.len.scan")

	// str.match: case-folds the text at HL against the upper-case
	// pattern at DE. On a match Z is set and HL has advanced past it;
	// otherwise NZ and HL is back where it started.
	b.Label("str.match")
	b.Push(z80.PAIR_HL)
	b.Label("str.match.next")
	b.LdADE()
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "str.match.hit")
	b.LdR(z80.REG_C, z80.REG_A)
	b.LdR(z80.REG_A, z80.REG_M)
	b.AndN(0xDF)
	b.CpR(z80.REG_C)
	b.JpCond(z80.COND_NZ, "str.match.miss")
	b.IncP(z80.PAIR_HL)
	b.IncP(z80.PAIR_DE)
	b.Jr("str.match.next")
	b.Label("str.match.hit")
	b.Pop(z80.PAIR_DE)
	b.Ret()
	b.Label("str.match.miss")
	b.Pop(z80.PAIR_HL)
	b.Ret()
}
