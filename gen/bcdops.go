package gen

import (
	"zcalc/z80"
)

// bcdOps emits the packed-decimal engine. Magnitudes are 4 bytes, most
// significant digit first; num_a is the accumulator, num_b the operand,
// with signs in sign_a/sign_b (0x00 or 0x80). Routines that can fail
// return with carry set and clear it otherwise.
//
// The byte-level behavior matches package bcd; the host engine is the
// reference the emitted code is tested against.
func (g *Generator) bcdOps() {
	b := g.b
	s := g.s
	v := g.v

	// mem.zero4: clear 4 bytes at HL.
	b.Label("mem.zero4")
	b.XorR(z80.REG_A)
	for n := 0; n < 3; n++ {
		b.LdR(z80.REG_M, z80.REG_A)
		b.IncP(z80.PAIR_HL)
	}
	b.LdR(z80.REG_M, z80.REG_A)
	b.Ret()

	// bcd.cmpb: byte compare, HL and DE at the most significant byte,
	// B = count. Z equal; carry set when (HL) side is smaller. Valid as
	// a magnitude compare because the format is fixed width, MSD first.
	b.Label("bcd.cmp4")
	b.LdP(z80.PAIR_HL, s.numA)
	b.LdP(z80.PAIR_DE, s.numB)
	b.LdN(z80.REG_B, 4)
	b.Label("bcd.cmpb")
	b.LdADE()
	b.LdR(z80.REG_C, z80.REG_A)
	b.LdR(z80.REG_A, z80.REG_M)
	b.CpR(z80.REG_C)
	b.RetCond(z80.COND_NZ)
	b.IncP(z80.PAIR_HL)
	b.IncP(z80.PAIR_DE)
	b.Djnz("bcd.cmpb")
	b.Ret()

	// bcd.addb: decimal add, HL and DE at the least significant byte,
	// B = count. (HL) += (DE); carry out means the sum did not fit.
	b.Label("bcd.addb")
	b.OrR(z80.REG_A)
	b.Label("bcd.addb.loop")
	b.LdADE()
	b.AdcR(z80.REG_M)
	b.Daa()
	b.LdR(z80.REG_M, z80.REG_A)
	b.DecP(z80.PAIR_HL)
	b.DecP(z80.PAIR_DE)
	b.Djnz("bcd.addb.loop")
	b.Ret()

	// bcd.subb: decimal subtract, (HL) -= (DE), same calling shape.
	// The minuend must not be smaller; bcd.signed orders operands.
	b.Label("bcd.subb")
	b.OrR(z80.REG_A)
	b.Label("bcd.subb.loop")
	b.LdADE()
	b.LdR(z80.REG_C, z80.REG_A)
	b.LdR(z80.REG_A, z80.REG_M)
	b.SbcR(z80.REG_C)
	b.Daa()
	b.LdR(z80.REG_M, z80.REG_A)
	b.DecP(z80.PAIR_HL)
	b.DecP(z80.PAIR_DE)
	b.Djnz("bcd.subb.loop")
	b.Ret()

	// bcd.tst: Z set when num_a is zero.
	b.Label("bcd.tst")
	b.LdP(z80.PAIR_HL, s.numA)
	b.LdR(z80.REG_A, z80.REG_M)
	for n := 0; n < 3; n++ {
		b.IncP(z80.PAIR_HL)
		b.OrR(z80.REG_M)
	}
	b.Ret()

	// bcd.signed: num_a/sign_a += num_b/sign_b. Matching signs add;
	// differing signs subtract the smaller magnitude from the larger
	// and keep the larger's sign. Zero normalizes to non-negative.
	// Carry set on 8-digit overflow.
	b.Label("bcd.signed")
	b.LdAMem(v.signA)
	b.LdR(z80.REG_C, z80.REG_A)
	b.LdAMem(v.signB)
	b.CpR(z80.REG_C)
	b.JpCond(z80.COND_NZ, "bcd.signed.diff")
	b.LdP(z80.PAIR_HL, s.numA+3)
	b.LdP(z80.PAIR_DE, s.numB+3)
	b.LdN(z80.REG_B, 4)
	b.Call("bcd.addb")
	b.RetCond(z80.COND_C)
	b.Jp("bcd.signed.norm")

	b.Label("bcd.signed.diff")
	b.Call("bcd.cmp4")
	b.JpCond(z80.COND_C, "bcd.signed.bwin")
	b.LdP(z80.PAIR_HL, s.numA+3)
	b.LdP(z80.PAIR_DE, s.numB+3)
	b.LdN(z80.REG_B, 4)
	b.Call("bcd.subb")
	b.Jp("bcd.signed.norm")

	b.Label("bcd.signed.bwin")
	b.LdP(z80.PAIR_HL, s.numB+3)
	b.LdP(z80.PAIR_DE, s.numA+3)
	b.LdN(z80.REG_B, 4)
	b.Call("bcd.subb")
	b.LdP(z80.PAIR_HL, s.numB)
	b.LdP(z80.PAIR_DE, s.numA)
	b.LdP(z80.PAIR_BC, 4)
	b.Ldir()
	b.LdAMem(v.signB)
	b.LdMemA(v.signA)

	b.Label("bcd.signed.norm")
	b.Call("bcd.tst")
	b.RetCond(z80.COND_NZ)
	b.XorR(z80.REG_A)
	b.LdMemA(v.signA)
	b.Ret()

	// bcd.a2b: parse decimal text at HL into sign_b/num_b, stopping at
	// the first character that is not a digit or '.'; HL is left there.
	// Leading zeros do not count against the 6 whole digits. Carry set
	// when there are no digits, a second '.', or too many whole digits.
	b.Label("bcd.a2b")
	b.XorR(z80.REG_A)
	b.LdMemA(v.signB)
	b.LdMemA(v.a2bDot)
	b.LdMemA(v.a2bFrac)
	b.LdMemA(v.a2bWhole)
	b.LdMemA(v.a2bAny)
	b.LdP(z80.PAIR_DE, s.numB)
	for n := 0; n < 3; n++ {
		b.LdDEA()
		b.IncP(z80.PAIR_DE)
	}
	b.LdDEA()
	b.LdR(z80.REG_A, z80.REG_M)
	b.CpN('-')
	b.JpCond(z80.COND_NZ, "a2b.scan")
	b.LdN(z80.REG_A, 0x80)
	b.LdMemA(v.signB)
	b.IncP(z80.PAIR_HL)

	b.Label("a2b.scan")
	b.LdR(z80.REG_A, z80.REG_M)
	b.CpN('.')
	b.JpCond(z80.COND_Z, "a2b.dot")
	b.CpN('0')
	b.JpCond(z80.COND_C, "a2b.done")
	b.CpN('9' + 1)
	b.JpCond(z80.COND_NC, "a2b.done")
	b.SubN('0')
	b.LdR(z80.REG_C, z80.REG_A)
	b.LdAMem(v.a2bDot)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "a2b.whole")
	b.LdAMem(v.a2bFrac)
	b.CpN(2)
	b.JpCond(z80.COND_NC, "a2b.mark") // 3rd fraction digit: ignored
	b.IncR(z80.REG_A)
	b.LdMemA(v.a2bFrac)
	b.Jp("a2b.push")

	b.Label("a2b.whole")
	// a leading zero is not significant
	b.LdAMem(v.a2bWhole)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_NZ, "a2b.count")
	b.LdR(z80.REG_A, z80.REG_C)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "a2b.mark")
	b.XorR(z80.REG_A)
	b.Label("a2b.count")
	b.IncR(z80.REG_A)
	b.LdMemA(v.a2bWhole)
	b.CpN(7)
	b.JpCond(z80.COND_NC, "a2b.err")

	b.Label("a2b.push")
	// num_b = num_b*10 + digit, one RLD chain from the low byte up
	b.Push(z80.PAIR_HL)
	b.LdP(z80.PAIR_HL, s.numB+3)
	b.LdR(z80.REG_A, z80.REG_C)
	for n := 0; n < 3; n++ {
		b.Rld()
		b.DecP(z80.PAIR_HL)
	}
	b.Rld()
	b.Pop(z80.PAIR_HL)

	b.Label("a2b.mark")
	b.LdN(z80.REG_A, 1)
	b.LdMemA(v.a2bAny)
	b.IncP(z80.PAIR_HL)
	b.Jr("a2b.scan")

	b.Label("a2b.dot")
	b.LdAMem(v.a2bDot)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_NZ, "a2b.err")
	b.LdN(z80.REG_A, 1)
	b.LdMemA(v.a2bDot)
	b.IncP(z80.PAIR_HL)
	b.Jr("a2b.scan")

	b.Label("a2b.done")
	b.LdAMem(v.a2bAny)
	b.OrR(z80.REG_A)
	b.JpCond(z80.COND_Z, "a2b.err")
	// scale so the value carries exactly 2 fraction digits
	b.LdAMem(v.a2bFrac)
	b.LdR(z80.REG_C, z80.REG_A)
	b.LdN(z80.REG_A, 2)
	b.SubR(z80.REG_C)
	b.JpCond(z80.COND_Z, "a2b.ok")
	b.LdR(z80.REG_B, z80.REG_A)
	b.Label("a2b.pad")
	b.Push(z80.PAIR_HL)
	b.LdP(z80.PAIR_HL, s.numB+3)
	b.XorR(z80.REG_A)
	for n := 0; n < 3; n++ {
		b.Rld()
		b.DecP(z80.PAIR_HL)
	}
	b.Rld()
	b.Pop(z80.PAIR_HL)
	b.Djnz("a2b.pad")
	b.Label("a2b.ok")
	b.OrR(z80.REG_A)
	b.Ret()
	b.Label("a2b.err")
	b.Scf()
	b.Ret()

	// bcd.b2a: render num_b into disp_buf as DDDDDD.DD plus NUL. No
	// trimming here; that is the display's concern.
	b.Label("bcd.b2a")
	b.LdP(z80.PAIR_HL, s.numB)
	b.LdP(z80.PAIR_DE, s.dispBuf)
	b.LdN(z80.REG_B, 3)
	b.Label("b2a.whole")
	b.LdR(z80.REG_A, z80.REG_M)
	b.Call("bcd.put2")
	b.IncP(z80.PAIR_HL)
	b.Djnz("b2a.whole")
	b.LdN(z80.REG_A, '.')
	b.LdDEA()
	b.IncP(z80.PAIR_DE)
	b.LdR(z80.REG_A, z80.REG_M)
	b.Call("bcd.put2")
	b.XorR(z80.REG_A)
	b.LdDEA()
	b.Ret()

	// bcd.put2: unpack the byte in A into two ASCII digits at DE.
	b.Label("bcd.put2")
	b.LdR(z80.REG_C, z80.REG_A)
	for n := 0; n < 4; n++ {
		b.Rrca()
	}
	b.AndN(0x0F)
	b.AddN('0')
	b.LdDEA()
	b.IncP(z80.PAIR_DE)
	b.LdR(z80.REG_A, z80.REG_C)
	b.AndN(0x0F)
	b.AddN('0')
	b.LdDEA()
	b.IncP(z80.PAIR_DE)
	b.Ret()

	// bcd.mul: num_a *= num_b, magnitudes only; signs are the caller's.
	// Shift-and-add over a 16-digit accumulator, one multiplier digit at
	// a time MSD first, then rescaled by 100 (low byte dropped). Carry
	// set when the product exceeds 8 digits. num_b is consumed.
	b.Label("bcd.mul")
	b.LdP(z80.PAIR_HL, s.wacc)
	b.LdN(z80.REG_B, 8)
	b.XorR(z80.REG_A)
	b.Label("mul.clr")
	b.LdR(z80.REG_M, z80.REG_A)
	b.IncP(z80.PAIR_HL)
	b.Djnz("mul.clr")
	b.LdN(z80.REG_A, 8)
	b.LdMemA(v.mulDig)

	b.Label("mul.digit")
	// accumulator up one digit
	b.XorR(z80.REG_A)
	b.LdP(z80.PAIR_HL, s.wacc+7)
	for n := 0; n < 7; n++ {
		b.Rld()
		b.DecP(z80.PAIR_HL)
	}
	b.Rld()
	// pull the top digit off num_b
	b.XorR(z80.REG_A)
	b.LdP(z80.PAIR_HL, s.numB+3)
	for n := 0; n < 3; n++ {
		b.Rld()
		b.DecP(z80.PAIR_HL)
	}
	b.Rld()
	b.AndN(0x0F)
	b.JpCond(z80.COND_Z, "mul.next")
	b.LdR(z80.REG_B, z80.REG_A)
	b.Label("mul.adds")
	b.Push(z80.PAIR_BC)
	b.Call("mul.addw")
	b.Pop(z80.PAIR_BC)
	b.Djnz("mul.adds")
	b.Label("mul.next")
	b.LdAMem(v.mulDig)
	b.DecR(z80.REG_A)
	b.LdMemA(v.mulDig)
	b.JpCond(z80.COND_NZ, "mul.digit")
	// rescale: result is wacc[3..6]; anything above is overflow
	b.LdAMem(s.wacc)
	b.LdP(z80.PAIR_HL, s.wacc+1)
	b.OrR(z80.REG_M)
	b.IncP(z80.PAIR_HL)
	b.OrR(z80.REG_M)
	b.JpCond(z80.COND_Z, "mul.fit")
	b.Scf()
	b.Ret()
	b.Label("mul.fit")
	b.LdP(z80.PAIR_HL, s.wacc+3)
	b.LdP(z80.PAIR_DE, s.numA)
	b.LdP(z80.PAIR_BC, 4)
	b.Ldir()
	b.OrR(z80.REG_A)
	b.Ret()

	// mul.addw: wacc += num_a, with the carry rippled through the
	// accumulator's upper half.
	b.Label("mul.addw")
	b.LdP(z80.PAIR_HL, s.wacc+7)
	b.LdP(z80.PAIR_DE, s.numA+3)
	b.LdN(z80.REG_B, 4)
	b.Call("bcd.addb")
	b.LdN(z80.REG_B, 4)
	b.Label("mul.rip")
	b.LdR(z80.REG_A, z80.REG_M)
	b.AdcN(0)
	b.Daa()
	b.LdR(z80.REG_M, z80.REG_A)
	b.DecP(z80.PAIR_HL)
	b.Djnz("mul.rip")
	b.Ret()

	// bcd.div: num_a /= num_b by repeated subtraction. The dividend is
	// prescaled by 100 into a 10-digit working copy so the quotient
	// keeps its 2 fraction digits. Carry set on a zero divisor or a
	// quotient past 8 digits.
	b.Label("bcd.div")
	b.LdP(z80.PAIR_HL, s.numB)
	b.LdR(z80.REG_A, z80.REG_M)
	for n := 0; n < 3; n++ {
		b.IncP(z80.PAIR_HL)
		b.OrR(z80.REG_M)
	}
	b.JpCond(z80.COND_NZ, "div.go")
	b.Scf()
	b.Ret()

	b.Label("div.go")
	b.LdP(z80.PAIR_HL, s.numA)
	b.LdP(z80.PAIR_DE, s.wdiv)
	b.LdP(z80.PAIR_BC, 4)
	b.Ldir()
	b.XorR(z80.REG_A)
	b.LdMemA(s.wdiv + 4)
	b.LdMemA(s.wdvs)
	b.LdP(z80.PAIR_HL, s.numB)
	b.LdP(z80.PAIR_DE, s.wdvs+1)
	b.LdP(z80.PAIR_BC, 4)
	b.Ldir()
	b.LdP(z80.PAIR_HL, s.quot)
	b.Call("mem.zero4")

	b.Label("div.loop")
	b.LdP(z80.PAIR_HL, s.wdiv)
	b.LdP(z80.PAIR_DE, s.wdvs)
	b.LdN(z80.REG_B, 5)
	b.Call("bcd.cmpb")
	b.JpCond(z80.COND_C, "div.done")
	b.LdP(z80.PAIR_HL, s.wdiv+4)
	b.LdP(z80.PAIR_DE, s.wdvs+4)
	b.LdN(z80.REG_B, 5)
	b.Call("bcd.subb")
	b.LdP(z80.PAIR_HL, s.quot+3)
	b.LdN(z80.REG_B, 4)
	b.Scf()
	b.Label("div.tick")
	b.LdR(z80.REG_A, z80.REG_M)
	b.AdcN(0)
	b.Daa()
	b.LdR(z80.REG_M, z80.REG_A)
	b.DecP(z80.PAIR_HL)
	b.Djnz("div.tick")
	b.RetCond(z80.COND_C)
	b.Jp("div.loop")

	b.Label("div.done")
	b.LdP(z80.PAIR_HL, s.quot)
	b.LdP(z80.PAIR_DE, s.numA)
	b.LdP(z80.PAIR_BC, 4)
	b.Ldir()
	b.OrR(z80.REG_A)
	b.Ret()
}
