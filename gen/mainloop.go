package gen

import (
	"zcalc/z80"
)

// startup emits the reset path. The stack pointer load must be the very
// first instruction: automated checks key on opcode 0x31 at offset 0 to
// tell a bootable image from a data file.
func (g *Generator) startup() {
	b := g.b
	v := g.v

	visCols := (g.lay.ScreenCols - 4) / widthDefault
	if visCols > gridCols {
		visCols = gridCols
	}
	if visCols < 1 {
		visCols = 1
	}

	b.Label("startup")
	b.LdP(z80.PAIR_SP, g.lay.StackTop)
	g.putStr("str.banner")
	g.zeroFill(g.lay.VarBase, varBytes)
	g.zeroFill(g.lay.InputBase, inputBytes)
	g.zeroFill(g.lay.CellBase, cellBytes)
	b.LdN(z80.REG_A, widthDefault)
	b.LdMemA(v.width)
	b.LdN(z80.REG_A, widthDefault-2)
	b.LdMemA(v.cw)
	b.LdN(z80.REG_A, byte(visCols))
	b.LdMemA(v.visCols)
	b.LdP(z80.PAIR_HL, g.lay.HeapBase)
	b.LdMemHL(v.heapPtr)
	b.Call("seed.copy")
	b.Call("disp.full")
	b.Jp("main.loop")
}

// mainLoop emits the keyboard dispatcher. Arrows (CSI sequences) and
// hjkl move, ENTER edits the cursor cell, a leading '=' '"' '-' '.' or
// digit opens a fresh entry seeded with that character, '/' enters
// command mode, '!' forces a recalculation, 'q' leaves.
func (g *Generator) mainLoop() {
	b := g.b
	v := g.v

	b.Label("main.loop")
	b.Call("io.getc")
	b.CpN(0x1B)
	b.JpCond(z80.COND_Z, "nav.esc")
	b.CpN('h')
	b.JpCond(z80.COND_Z, "nav.left")
	b.CpN('j')
	b.JpCond(z80.COND_Z, "nav.down")
	b.CpN('k')
	b.JpCond(z80.COND_Z, "nav.up")
	b.CpN('l')
	b.JpCond(z80.COND_Z, "nav.right")
	b.CpN(0x0D)
	b.JpCond(z80.COND_Z, "edit.cur")
	b.CpN('/')
	b.JpCond(z80.COND_Z, "cmd.run")
	b.CpN('!')
	b.JpCond(z80.COND_Z, "main.recalc")
	b.CpN('q')
	b.JpCond(z80.COND_Z, "main.quit")
	b.CpN('=')
	b.JpCond(z80.COND_Z, "edit.new")
	b.CpN('"')
	b.JpCond(z80.COND_Z, "edit.new")
	b.CpN('-')
	b.JpCond(z80.COND_Z, "edit.new")
	b.CpN('.')
	b.JpCond(z80.COND_Z, "edit.new")
	b.CpN('0')
	b.JpCond(z80.COND_C, "main.bad")
	b.CpN('9' + 1)
	b.JpCond(z80.COND_C, "edit.new")
	b.Label("main.bad")
	b.Call("io.bell")
	b.Jp("main.loop")

	b.Label("nav.esc")
	b.Call("io.getc")
	b.CpN('[')
	b.JpCond(z80.COND_NZ, "main.loop")
	b.Call("io.getc")
	b.CpN('A')
	b.JpCond(z80.COND_Z, "nav.up")
	b.CpN('B')
	b.JpCond(z80.COND_Z, "nav.down")
	b.CpN('C')
	b.JpCond(z80.COND_Z, "nav.right")
	b.CpN('D')
	b.JpCond(z80.COND_Z, "nav.left")
	b.Jp("main.loop")

	b.Label("nav.up")
	b.LdAMem(v.curRow)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "main.loop")
	b.DecR(z80.REG_A)
	b.LdMemA(v.curRow)
	b.Jp("nav.moved")

	b.Label("nav.down")
	b.LdAMem(v.curRow)
	b.CpN(gridRows - 1)
	b.JpCond(z80.COND_NC, "main.loop")
	b.IncR(z80.REG_A)
	b.LdMemA(v.curRow)
	b.Jp("nav.moved")

	b.Label("nav.left")
	b.LdAMem(v.curCol)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "main.loop")
	b.DecR(z80.REG_A)
	b.LdMemA(v.curCol)
	b.Jp("nav.moved")

	b.Label("nav.right")
	b.LdAMem(v.curCol)
	b.CpN(gridCols - 1)
	b.JpCond(z80.COND_NC, "main.loop")
	b.IncR(z80.REG_A)
	b.LdMemA(v.curCol)

	b.Label("nav.moved")
	b.Call("disp.sync")
	b.Jp("main.loop")

	b.Label("main.recalc")
	b.Call("recalc.all")
	b.Call("disp.full")
	b.Jp("main.loop")

	b.Label("main.quit")
	g.putStr("esc.show")
	g.putStr("esc.cls")
	g.putStr("str.bye")
	b.Halt()
}
