package gen

import (
	"zcalc/z80"
)

// commands emits the '/' command mode: one prompt on the input row, one
// key to pick the command, then whatever input that command needs. Every
// command ends with a full repaint.
func (g *Generator) commands() {
	b := g.b
	v := g.v

	prompt := func(label string) {
		g.goTo(g.rowInput(), 1)
		g.putStr("esc.eol")
		g.putStr(label)
	}
	clearInput := func() {
		b.XorR(z80.REG_A)
		b.LdMemA(g.lay.InputBase)
		b.LdMemA(v.edLen)
	}

	b.Label("cmd.run")
	prompt("str.cmd")
	b.Call("io.getc")
	b.LdR(z80.REG_C, z80.REG_A)
	b.AndN(0xDF)
	b.CpN('G')
	b.JpCond(z80.COND_Z, "cmd.goto")
	b.CpN('C')
	b.JpCond(z80.COND_Z, "cmd.clear")
	b.CpN('R')
	b.JpCond(z80.COND_Z, "cmd.rep")
	b.CpN('W')
	b.JpCond(z80.COND_Z, "cmd.width")
	b.CpN('Q')
	b.JpCond(z80.COND_Z, "main.quit")
	b.LdR(z80.REG_A, z80.REG_C)
	b.CpN(0x1B)
	b.JpCond(z80.COND_Z, "cmd.out")
	b.CpN('-')
	b.JpCond(z80.COND_Z, "cmd.fill")
	b.Jp("cmd.bell")

	b.Label("cmd.goto")
	prompt("str.pr.goto")
	clearInput()
	b.Call("io.gets")
	b.JpCond(z80.COND_C, "cmd.out")
	b.LdP(z80.PAIR_HL, g.lay.InputBase)
	b.LdMemHL(v.evPtr)
	b.Call("ev.ref")
	b.JpCond(z80.COND_C, "cmd.bell")
	b.LdHLMem(v.evPtr)
	b.LdR(z80.REG_A, z80.REG_M)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_NZ, "cmd.bell")
	b.LdR(z80.REG_A, z80.REG_E)
	b.LdMemA(v.curCol)
	b.LdR(z80.REG_A, z80.REG_D)
	b.LdMemA(v.curRow)
	b.Call("view.fix")
	b.Jp("cmd.out")

	b.Label("cmd.clear")
	b.Call("cur.addr")
	b.LdN(z80.REG_B, 6)
	b.XorR(z80.REG_A)
	b.Label("cmd.clear.l")
	b.LdR(z80.REG_M, z80.REG_A)
	b.IncP(z80.PAIR_HL)
	b.Djnz("cmd.clear.l")
	b.Call("recalc.all")
	b.Jp("cmd.out")

	// replicate: copy the cursor record to the target. Formula and
	// label copies share the source's heap body.
	b.Label("cmd.rep")
	prompt("str.pr.copy")
	clearInput()
	b.Call("io.gets")
	b.JpCond(z80.COND_C, "cmd.out")
	b.LdP(z80.PAIR_HL, g.lay.InputBase)
	b.LdMemHL(v.evPtr)
	b.Call("ev.ref")
	b.JpCond(z80.COND_C, "cmd.bell")
	b.LdHLMem(v.evPtr)
	b.LdR(z80.REG_A, z80.REG_M)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_NZ, "cmd.bell")
	b.Call("cell.addr")
	b.ExDEHL()
	b.Push(z80.PAIR_DE)
	b.Call("cur.addr")
	b.Pop(z80.PAIR_DE)
	b.LdP(z80.PAIR_BC, 6)
	b.Ldir()
	b.Call("recalc.all")
	b.Jp("cmd.out")

	b.Label("cmd.fill")
	prompt("str.pr.fill")
	b.Call("io.getc")
	b.CpN(0x1B)
	b.JpCond(z80.COND_Z, "cmd.out")
	b.CpN(0x20)
	b.JpCond(z80.COND_C, "cmd.bell")
	b.CpN(0x7F)
	b.JpCond(z80.COND_NC, "cmd.bell")
	b.LdR(z80.REG_C, z80.REG_A)
	b.Call("cur.addr")
	b.LdN(z80.REG_M, 4)
	b.IncP(z80.PAIR_HL)
	b.LdN(z80.REG_M, 0)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_M, z80.REG_C)
	for n := 0; n < 3; n++ {
		b.IncP(z80.PAIR_HL)
		b.LdN(z80.REG_M, 0)
	}
	b.Jp("cmd.out")

	b.Label("cmd.width")
	prompt("str.pr.width")
	clearInput()
	b.Call("io.gets")
	b.JpCond(z80.COND_C, "cmd.out")
	b.LdP(z80.PAIR_HL, g.lay.InputBase)
	b.LdR(z80.REG_A, z80.REG_M)
	b.CpN('0')
	b.JpCond(z80.COND_C, "cmd.bell")
	b.CpN('9' + 1)
	b.JpCond(z80.COND_NC, "cmd.bell")
	b.SubN('0')
	b.LdR(z80.REG_C, z80.REG_A)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_A, z80.REG_M)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "cmd.width.have")
	b.CpN('0')
	b.JpCond(z80.COND_C, "cmd.bell")
	b.CpN('9' + 1)
	b.JpCond(z80.COND_NC, "cmd.bell")
	b.SubN('0')
	b.LdR(z80.REG_D, z80.REG_A)
	b.LdR(z80.REG_A, z80.REG_C)
	b.AddR(z80.REG_A)
	b.AddR(z80.REG_A)
	b.AddR(z80.REG_C)
	b.AddR(z80.REG_A)
	b.AddR(z80.REG_D)
	b.LdR(z80.REG_C, z80.REG_A)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_A, z80.REG_M)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_NZ, "cmd.bell")
	b.Label("cmd.width.have")
	b.LdR(z80.REG_A, z80.REG_C)
	b.CpN(widthMin)
	b.JpCond(z80.COND_C, "cmd.bell")
	b.CpN(widthMax + 1)
	b.JpCond(z80.COND_NC, "cmd.bell")
	b.LdMemA(v.width)
	b.SubN(2)
	b.LdMemA(v.cw)
	b.LdAMem(v.width)
	b.LdR(z80.REG_D, z80.REG_A)
	b.LdN(z80.REG_A, byte(g.lay.ScreenCols-4))
	b.LdN(z80.REG_E, 0)
	b.Label("cmd.width.div")
	b.CpR(z80.REG_D)
	b.JpCond(z80.COND_C, "cmd.width.done")
	b.SubR(z80.REG_D)
	b.IncR(z80.REG_E)
	b.Jp("cmd.width.div")
	b.Label("cmd.width.done")
	b.LdR(z80.REG_A, z80.REG_E)
	b.CpN(gridCols + 1)
	b.JpCond(z80.COND_C, "cmd.width.set")
	b.LdN(z80.REG_A, gridCols)
	b.Label("cmd.width.set")
	b.LdMemA(v.visCols)
	b.Call("view.fix")
	b.Jp("cmd.out")

	b.Label("cmd.bell")
	b.Call("io.bell")
	b.Label("cmd.out")
	b.Call("disp.full")
	b.Jp("main.loop")
}
