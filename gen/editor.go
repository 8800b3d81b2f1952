package gen

import (
	"zcalc/z80"
)

// editor emits line input and the edit flow. io.gets continues editing
// whatever is already in the input buffer, so ENTER on a cell preloads
// its source form and a typed seed character starts a fresh entry.
// ENTER accepts (carry clear), ESC cancels (carry set); clearing a cell
// is the /C command's job, an emptied buffer commits nothing.
func (g *Generator) editor() {
	b := g.b
	v := g.v

	b.Label("io.gets")
	b.Call("io.getc")
	b.CpN(0x0D)
	b.JpCond(z80.COND_Z, "gets.ok")
	b.CpN(0x1B)
	b.JpCond(z80.COND_Z, "gets.esc")
	b.CpN(0x08)
	b.JpCond(z80.COND_Z, "gets.bs")
	b.CpN(0x7F)
	b.JpCond(z80.COND_Z, "gets.bs")
	b.CpN(0x20)
	b.JpCond(z80.COND_C, "gets.bell")
	b.CpN(0x7F)
	b.JpCond(z80.COND_NC, "gets.bell")
	b.LdR(z80.REG_C, z80.REG_A)
	b.LdAMem(v.edLen)
	b.CpN(inputMax)
	b.JpCond(z80.COND_NC, "gets.bell")
	b.LdR(z80.REG_E, z80.REG_A)
	b.LdN(z80.REG_D, 0)
	b.LdP(z80.PAIR_HL, g.lay.InputBase)
	b.AddHL(z80.PAIR_DE)
	b.LdR(z80.REG_M, z80.REG_C)
	b.IncP(z80.PAIR_HL)
	b.LdN(z80.REG_M, 0)
	b.IncR(z80.REG_A)
	b.LdMemA(v.edLen)
	b.LdR(z80.REG_A, z80.REG_C)
	b.Call("io.putc")
	b.Jp("io.gets")

	b.Label("gets.bs")
	b.LdAMem(v.edLen)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "gets.bell")
	b.DecR(z80.REG_A)
	b.LdMemA(v.edLen)
	b.LdR(z80.REG_E, z80.REG_A)
	b.LdN(z80.REG_D, 0)
	b.LdP(z80.PAIR_HL, g.lay.InputBase)
	b.AddHL(z80.PAIR_DE)
	b.LdN(z80.REG_M, 0)
	g.putCh(0x08)
	g.putCh(' ')
	g.putCh(0x08)
	b.Jp("io.gets")

	b.Label("gets.bell")
	b.Call("io.bell")
	b.Jp("io.gets")

	b.Label("gets.ok")
	b.OrR(z80.REG_A)
	b.Ret()
	b.Label("gets.esc")
	b.Scf()
	b.Ret()

	// edit.new: A holds the seed character the main loop dispatched on.
	b.Label("edit.new")
	b.LdMemA(g.lay.InputBase)
	b.LdP(z80.PAIR_HL, g.lay.InputBase+1)
	b.LdN(z80.REG_M, 0)
	b.LdN(z80.REG_A, 1)
	b.LdMemA(v.edLen)
	b.Jp("edit.run")

	b.Label("edit.cur")
	b.Call("src.form")

	b.Label("edit.run")
	b.Call("disp.input")
	b.Call("io.gets")
	b.JpCond(z80.COND_C, "edit.cancel")
	b.Call("store.commit")
	b.Call("recalc.all")
	b.XorR(z80.REG_A)
	b.LdMemA(g.lay.InputBase)
	b.LdMemA(v.edLen)
	b.Call("disp.full")
	b.Jp("main.loop")

	b.Label("edit.cancel")
	b.XorR(z80.REG_A)
	b.LdMemA(g.lay.InputBase)
	b.LdMemA(v.edLen)
	b.Call("disp.input")
	b.Jp("main.loop")
}
