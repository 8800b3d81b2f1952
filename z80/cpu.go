package z80

// Bus is the CPU's window onto the machine: memory bytes and I/O ports.
type Bus interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
	In(port byte) byte
	Out(port byte, value byte)
}

// Flag bits of the F register.
const (
	FLAG_S = byte(0x80) // sign
	FLAG_Z = byte(0x40) // zero
	FLAG_H = byte(0x10) // half carry
	FLAG_P = byte(0x04) // parity / overflow
	FLAG_N = byte(0x02) // subtraction
	FLAG_C = byte(0x01) // carry
)

// CPU interprets the instruction subset the Builder emits. Registers are
// exported for tests and machine wiring.
type CPU struct {
	A, F byte
	B, C byte
	D, E byte
	H, L byte

	SP, PC uint16

	Halted bool
	Steps  uint64

	bus Bus
}

// NewCPU returns a reset CPU attached to bus.
func NewCPU(bus Bus) (cpu *CPU) {
	cpu = &CPU{bus: bus}
	return
}

// Reset clears all registers and the halt latch. Execution restarts at 0.
func (cpu *CPU) Reset() {
	*cpu = CPU{bus: cpu.bus}
}

func (cpu *CPU) flag(mask byte) bool {
	return cpu.F&mask != 0
}

func (cpu *CPU) setFlag(mask byte, on bool) {
	if on {
		cpu.F |= mask
	} else {
		cpu.F &^= mask
	}
}

func (cpu *CPU) fetch() (value byte) {
	value = cpu.bus.Read(cpu.PC)
	cpu.PC++
	return
}

func (cpu *CPU) fetchWord() (value uint16) {
	value = uint16(cpu.fetch())
	value |= uint16(cpu.fetch()) << 8
	return
}

// HL returns the HL pair.
func (cpu *CPU) HL() uint16 {
	return uint16(cpu.H)<<8 | uint16(cpu.L)
}

func (cpu *CPU) getR(r Reg) byte {
	switch r {
	case REG_B:
		return cpu.B
	case REG_C:
		return cpu.C
	case REG_D:
		return cpu.D
	case REG_E:
		return cpu.E
	case REG_H:
		return cpu.H
	case REG_L:
		return cpu.L
	case REG_M:
		return cpu.bus.Read(cpu.HL())
	default:
		return cpu.A
	}
}

func (cpu *CPU) setR(r Reg, value byte) {
	switch r {
	case REG_B:
		cpu.B = value
	case REG_C:
		cpu.C = value
	case REG_D:
		cpu.D = value
	case REG_E:
		cpu.E = value
	case REG_H:
		cpu.H = value
	case REG_L:
		cpu.L = value
	case REG_M:
		cpu.bus.Write(cpu.HL(), value)
	default:
		cpu.A = value
	}
}

// getP reads a pair in the SP group (LD/INC/DEC/ADD HL contexts).
func (cpu *CPU) getP(p Pair) uint16 {
	switch p {
	case PAIR_BC:
		return uint16(cpu.B)<<8 | uint16(cpu.C)
	case PAIR_DE:
		return uint16(cpu.D)<<8 | uint16(cpu.E)
	case PAIR_HL:
		return cpu.HL()
	default:
		return cpu.SP
	}
}

func (cpu *CPU) setP(p Pair, value uint16) {
	hi, lo := byte(value>>8), byte(value)
	switch p {
	case PAIR_BC:
		cpu.B, cpu.C = hi, lo
	case PAIR_DE:
		cpu.D, cpu.E = hi, lo
	case PAIR_HL:
		cpu.H, cpu.L = hi, lo
	default:
		cpu.SP = value
	}
}

func parity8(value byte) bool {
	value ^= value >> 4
	value ^= value >> 2
	value ^= value >> 1
	return value&1 == 0
}

func (cpu *CPU) szpFlags(value byte) {
	cpu.setFlag(FLAG_S, value&0x80 != 0)
	cpu.setFlag(FLAG_Z, value == 0)
	cpu.setFlag(FLAG_P, parity8(value))
}

func (cpu *CPU) add8(value byte, carry bool) {
	cy := byte(0)
	if carry {
		cy = 1
	}
	sum := uint16(cpu.A) + uint16(value) + uint16(cy)
	res := byte(sum)

	cpu.setFlag(FLAG_C, sum > 0xFF)
	cpu.setFlag(FLAG_H, (cpu.A&0x0F)+(value&0x0F)+cy > 0x0F)
	cpu.setFlag(FLAG_P, (cpu.A^res)&(value^res)&0x80 != 0)
	cpu.setFlag(FLAG_N, false)
	cpu.setFlag(FLAG_S, res&0x80 != 0)
	cpu.setFlag(FLAG_Z, res == 0)
	cpu.A = res
}

func (cpu *CPU) sub8(value byte, borrow bool, store bool) {
	cy := byte(0)
	if borrow {
		cy = 1
	}
	diff := int(cpu.A) - int(value) - int(cy)
	res := byte(diff)

	cpu.setFlag(FLAG_C, diff < 0)
	cpu.setFlag(FLAG_H, int(cpu.A&0x0F)-int(value&0x0F)-int(cy) < 0)
	cpu.setFlag(FLAG_P, (cpu.A^value)&(cpu.A^res)&0x80 != 0)
	cpu.setFlag(FLAG_N, true)
	cpu.setFlag(FLAG_S, res&0x80 != 0)
	cpu.setFlag(FLAG_Z, res == 0)
	if store {
		cpu.A = res
	}
}

func (cpu *CPU) logic8(res byte, half bool) {
	cpu.A = res
	cpu.F = 0
	cpu.setFlag(FLAG_H, half)
	cpu.szpFlags(res)
}

func (cpu *CPU) alu(op byte, value byte) {
	switch op {
	case 0: // ADD
		cpu.add8(value, false)
	case 1: // ADC
		cpu.add8(value, cpu.flag(FLAG_C))
	case 2: // SUB
		cpu.sub8(value, false, true)
	case 3: // SBC
		cpu.sub8(value, cpu.flag(FLAG_C), true)
	case 4: // AND
		cpu.logic8(cpu.A&value, true)
	case 5: // XOR
		cpu.logic8(cpu.A^value, false)
	case 6: // OR
		cpu.logic8(cpu.A|value, false)
	default: // CP
		cpu.sub8(value, false, false)
	}
}

func (cpu *CPU) inc8(value byte) (res byte) {
	res = value + 1
	cpu.setFlag(FLAG_H, value&0x0F == 0x0F)
	cpu.setFlag(FLAG_P, value == 0x7F)
	cpu.setFlag(FLAG_N, false)
	cpu.setFlag(FLAG_S, res&0x80 != 0)
	cpu.setFlag(FLAG_Z, res == 0)
	return
}

func (cpu *CPU) dec8(value byte) (res byte) {
	res = value - 1
	cpu.setFlag(FLAG_H, value&0x0F == 0)
	cpu.setFlag(FLAG_P, value == 0x80)
	cpu.setFlag(FLAG_N, true)
	cpu.setFlag(FLAG_S, res&0x80 != 0)
	cpu.setFlag(FLAG_Z, res == 0)
	return
}

func (cpu *CPU) addHL(value uint16) {
	hl := cpu.HL()
	sum := uint32(hl) + uint32(value)
	cpu.setFlag(FLAG_C, sum > 0xFFFF)
	cpu.setFlag(FLAG_H, (hl&0x0FFF)+(value&0x0FFF) > 0x0FFF)
	cpu.setFlag(FLAG_N, false)
	cpu.setP(PAIR_HL, uint16(sum))
}

func (cpu *CPU) sbcHL(value uint16) {
	hl := cpu.HL()
	cy := uint32(0)
	if cpu.flag(FLAG_C) {
		cy = 1
	}
	diff := int64(hl) - int64(value) - int64(cy)
	res := uint16(diff)

	cpu.setFlag(FLAG_C, diff < 0)
	cpu.setFlag(FLAG_H, int(hl&0x0FFF)-int(value&0x0FFF)-int(cy) < 0)
	cpu.setFlag(FLAG_P, (hl^value)&(hl^res)&0x8000 != 0)
	cpu.setFlag(FLAG_N, true)
	cpu.setFlag(FLAG_S, res&0x8000 != 0)
	cpu.setFlag(FLAG_Z, res == 0)
	cpu.setP(PAIR_HL, res)
}

func (cpu *CPU) daa() {
	a := cpu.A
	adj := byte(0)
	if cpu.flag(FLAG_H) || (!cpu.flag(FLAG_N) && a&0x0F > 0x09) {
		adj |= 0x06
	}
	if cpu.flag(FLAG_C) || (!cpu.flag(FLAG_N) && a > 0x99) {
		adj |= 0x60
	}

	var res byte
	if cpu.flag(FLAG_N) {
		res = a - adj
	} else {
		res = a + adj
	}

	cpu.setFlag(FLAG_C, adj >= 0x60)
	if cpu.flag(FLAG_N) {
		cpu.setFlag(FLAG_H, (a^res)&0x10 != 0)
	} else {
		cpu.setFlag(FLAG_H, (a&0x0F)+(adj&0x0F) > 0x0F)
	}
	cpu.setFlag(FLAG_S, res&0x80 != 0)
	cpu.setFlag(FLAG_Z, res == 0)
	cpu.setFlag(FLAG_P, parity8(res))
	cpu.A = res
}

func (cpu *CPU) cond(cc byte) bool {
	switch cc {
	case 0:
		return !cpu.flag(FLAG_Z)
	case 1:
		return cpu.flag(FLAG_Z)
	case 2:
		return !cpu.flag(FLAG_C)
	case 3:
		return cpu.flag(FLAG_C)
	case 4:
		return !cpu.flag(FLAG_P)
	case 5:
		return cpu.flag(FLAG_P)
	case 6:
		return !cpu.flag(FLAG_S)
	default:
		return cpu.flag(FLAG_S)
	}
}

func (cpu *CPU) push(value uint16) {
	cpu.SP -= 2
	cpu.bus.Write(cpu.SP, byte(value))
	cpu.bus.Write(cpu.SP+1, byte(value>>8))
}

func (cpu *CPU) pop() (value uint16) {
	value = uint16(cpu.bus.Read(cpu.SP)) | uint16(cpu.bus.Read(cpu.SP+1))<<8
	cpu.SP += 2
	return
}

func (cpu *CPU) stepED(pc uint16) (err error) {
	op := cpu.fetch()
	switch {
	case op == 0x6F: // RLD
		m := cpu.bus.Read(cpu.HL())
		cpu.bus.Write(cpu.HL(), m<<4|cpu.A&0x0F)
		cpu.A = cpu.A&0xF0 | m>>4
		cpu.setFlag(FLAG_H, false)
		cpu.setFlag(FLAG_N, false)
		cpu.szpFlags(cpu.A)
	case op == 0xB0: // LDIR
		for {
			cpu.bus.Write(cpu.getP(PAIR_DE), cpu.bus.Read(cpu.HL()))
			cpu.setP(PAIR_HL, cpu.HL()+1)
			cpu.setP(PAIR_DE, cpu.getP(PAIR_DE)+1)
			bc := cpu.getP(PAIR_BC) - 1
			cpu.setP(PAIR_BC, bc)
			if bc == 0 {
				break
			}
		}
		cpu.setFlag(FLAG_H, false)
		cpu.setFlag(FLAG_N, false)
		cpu.setFlag(FLAG_P, false)
	case op&0xCF == 0x42: // SBC HL,p
		cpu.sbcHL(cpu.getP(Pair(op >> 4 & 3)))
	default:
		err = ErrOpcodeUnknown{Opcode: op, Prefix: 0xED, Pc: pc}
	}
	return
}

// Step fetches, decodes and executes one instruction. A halted CPU reports
// ErrHalted; an opcode outside the emitted subset reports ErrOpcodeUnknown.
func (cpu *CPU) Step() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	pc := cpu.PC
	op := cpu.fetch()
	cpu.Steps++

	switch {
	case op == 0x76: // HALT
		cpu.Halted = true

	case op&0xC0 == 0x40: // LD r,r'
		cpu.setR(Reg(op>>3&7), cpu.getR(Reg(op&7)))

	case op&0xC0 == 0x80: // ALU A,r
		cpu.alu(op>>3&7, cpu.getR(Reg(op&7)))

	case op&0xC7 == 0x06: // LD r,n
		cpu.setR(Reg(op>>3&7), cpu.fetch())

	case op&0xC7 == 0x04: // INC r
		r := Reg(op >> 3 & 7)
		cpu.setR(r, cpu.inc8(cpu.getR(r)))

	case op&0xC7 == 0x05: // DEC r
		r := Reg(op >> 3 & 7)
		cpu.setR(r, cpu.dec8(cpu.getR(r)))

	case op&0xCF == 0x01: // LD p,nn
		cpu.setP(Pair(op>>4&3), cpu.fetchWord())

	case op&0xCF == 0x03: // INC p
		p := Pair(op >> 4 & 3)
		cpu.setP(p, cpu.getP(p)+1)

	case op&0xCF == 0x0B: // DEC p
		p := Pair(op >> 4 & 3)
		cpu.setP(p, cpu.getP(p)-1)

	case op&0xCF == 0x09: // ADD HL,p
		cpu.addHL(cpu.getP(Pair(op >> 4 & 3)))

	case op&0xCF == 0xC5: // PUSH p
		if Pair(op>>4&3) == PAIR_AF {
			cpu.push(uint16(cpu.A)<<8 | uint16(cpu.F))
		} else {
			cpu.push(cpu.getP(Pair(op >> 4 & 3)))
		}

	case op&0xCF == 0xC1: // POP p
		if Pair(op>>4&3) == PAIR_AF {
			value := cpu.pop()
			cpu.A, cpu.F = byte(value>>8), byte(value)
		} else {
			cpu.setP(Pair(op>>4&3), cpu.pop())
		}

	case op&0xC7 == 0xC6: // ALU A,n
		cpu.alu(op>>3&7, cpu.fetch())

	case op&0xC7 == 0xC2: // JP cc,nn
		addr := cpu.fetchWord()
		if cpu.cond(op >> 3 & 7) {
			cpu.PC = addr
		}

	case op&0xC7 == 0xC4: // CALL cc,nn
		addr := cpu.fetchWord()
		if cpu.cond(op >> 3 & 7) {
			cpu.push(cpu.PC)
			cpu.PC = addr
		}

	case op&0xC7 == 0xC0: // RET cc
		if cpu.cond(op >> 3 & 7) {
			cpu.PC = cpu.pop()
		}

	case op&0xE7 == 0x20: // JR cc,e
		disp := int8(cpu.fetch())
		if cpu.cond(op >> 3 & 3) {
			cpu.PC += uint16(int16(disp))
		}

	default:
		err = cpu.stepMisc(pc, op)
	}

	return
}

func (cpu *CPU) stepMisc(pc uint16, op byte) (err error) {
	switch op {
	case 0x00: // NOP
	case 0x07: // RLCA
		cpu.setFlag(FLAG_C, cpu.A&0x80 != 0)
		cpu.A = cpu.A<<1 | cpu.A>>7
		cpu.setFlag(FLAG_H, false)
		cpu.setFlag(FLAG_N, false)
	case 0x0F: // RRCA
		cpu.setFlag(FLAG_C, cpu.A&0x01 != 0)
		cpu.A = cpu.A>>1 | cpu.A<<7
		cpu.setFlag(FLAG_H, false)
		cpu.setFlag(FLAG_N, false)
	case 0x17: // RLA
		carry := byte(0)
		if cpu.flag(FLAG_C) {
			carry = 1
		}
		cpu.setFlag(FLAG_C, cpu.A&0x80 != 0)
		cpu.A = cpu.A<<1 | carry
		cpu.setFlag(FLAG_H, false)
		cpu.setFlag(FLAG_N, false)
	case 0x1F: // RRA
		carry := byte(0)
		if cpu.flag(FLAG_C) {
			carry = 0x80
		}
		cpu.setFlag(FLAG_C, cpu.A&0x01 != 0)
		cpu.A = cpu.A>>1 | carry
		cpu.setFlag(FLAG_H, false)
		cpu.setFlag(FLAG_N, false)
	case 0x10: // DJNZ e
		disp := int8(cpu.fetch())
		cpu.B--
		if cpu.B != 0 {
			cpu.PC += uint16(int16(disp))
		}
	case 0x12: // LD (DE),A
		cpu.bus.Write(cpu.getP(PAIR_DE), cpu.A)
	case 0x18: // JR e
		disp := int8(cpu.fetch())
		cpu.PC += uint16(int16(disp))
	case 0x1A: // LD A,(DE)
		cpu.A = cpu.bus.Read(cpu.getP(PAIR_DE))
	case 0x22: // LD (nn),HL
		addr := cpu.fetchWord()
		cpu.bus.Write(addr, cpu.L)
		cpu.bus.Write(addr+1, cpu.H)
	case 0x27: // DAA
		cpu.daa()
	case 0x2A: // LD HL,(nn)
		addr := cpu.fetchWord()
		cpu.L = cpu.bus.Read(addr)
		cpu.H = cpu.bus.Read(addr + 1)
	case 0x2F: // CPL
		cpu.A = ^cpu.A
		cpu.setFlag(FLAG_H, true)
		cpu.setFlag(FLAG_N, true)
	case 0x32: // LD (nn),A
		cpu.bus.Write(cpu.fetchWord(), cpu.A)
	case 0x37: // SCF
		cpu.setFlag(FLAG_C, true)
		cpu.setFlag(FLAG_H, false)
		cpu.setFlag(FLAG_N, false)
	case 0x3A: // LD A,(nn)
		cpu.A = cpu.bus.Read(cpu.fetchWord())
	case 0x3F: // CCF
		cpu.setFlag(FLAG_H, cpu.flag(FLAG_C))
		cpu.setFlag(FLAG_C, !cpu.flag(FLAG_C))
		cpu.setFlag(FLAG_N, false)
	case 0xC3: // JP nn
		cpu.PC = cpu.fetchWord()
	case 0xC9: // RET
		cpu.PC = cpu.pop()
	case 0xCD: // CALL nn
		addr := cpu.fetchWord()
		cpu.push(cpu.PC)
		cpu.PC = addr
	case 0xD3: // OUT (n),A
		cpu.bus.Out(cpu.fetch(), cpu.A)
	case 0xDB: // IN A,(n)
		cpu.A = cpu.bus.In(cpu.fetch())
	case 0xEB: // EX DE,HL
		cpu.D, cpu.H = cpu.H, cpu.D
		cpu.E, cpu.L = cpu.L, cpu.E
	case 0xED:
		err = cpu.stepED(pc)
	default:
		err = ErrOpcodeUnknown{Opcode: op, Pc: pc}
	}
	return
}
