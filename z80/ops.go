package z80

// Reg is a 3-bit register operand of the 8-bit load and ALU groups.
// REG_M addresses memory at HL.
type Reg int

const (
	REG_B = Reg(0)
	REG_C = Reg(1)
	REG_D = Reg(2)
	REG_E = Reg(3)
	REG_H = Reg(4)
	REG_L = Reg(5)
	REG_M = Reg(6)
	REG_A = Reg(7)
)

// Pair is a 2-bit register-pair operand. PAIR_AF shares the PAIR_SP encoding
// and is only meaningful for Push and Pop.
type Pair int

const (
	PAIR_BC = Pair(0)
	PAIR_DE = Pair(1)
	PAIR_HL = Pair(2)
	PAIR_SP = Pair(3)
	PAIR_AF = Pair(3)
)

// Cond is a 2-bit branch condition.
type Cond int

const (
	COND_NZ = Cond(0)
	COND_Z  = Cond(1)
	COND_NC = Cond(2)
	COND_C  = Cond(3)
)

// 8-bit loads.

// LdR emits LD dst,src. The dst==src==REG_M encoding is HALT, not a load;
// use Halt for that.
func (bld *Builder) LdR(dst, src Reg) {
	bld.Emit(0x40 | byte(dst)<<3 | byte(src))
}

// LdN emits LD dst,n.
func (bld *Builder) LdN(dst Reg, n byte) {
	bld.Emit(0x06|byte(dst)<<3, n)
}

// LdAMem emits LD A,(addr).
func (bld *Builder) LdAMem(addr uint16) {
	bld.Emit(0x3A)
	bld.EmitWord(addr)
}

// LdMemA emits LD (addr),A.
func (bld *Builder) LdMemA(addr uint16) {
	bld.Emit(0x32)
	bld.EmitWord(addr)
}

// LdADE emits LD A,(DE).
func (bld *Builder) LdADE() {
	bld.Emit(0x1A)
}

// LdDEA emits LD (DE),A.
func (bld *Builder) LdDEA() {
	bld.Emit(0x12)
}

// 16-bit loads.

// LdP emits LD p,nn.
func (bld *Builder) LdP(p Pair, nn uint16) {
	bld.Emit(0x01 | byte(p)<<4)
	bld.EmitWord(nn)
}

// LdPLabel emits LD p,label as a fixup resolved at Finish.
func (bld *Builder) LdPLabel(p Pair, name string) {
	bld.Emit(0x01 | byte(p)<<4)
	bld.Fixup(name)
}

// LdHLMem emits LD HL,(addr).
func (bld *Builder) LdHLMem(addr uint16) {
	bld.Emit(0x2A)
	bld.EmitWord(addr)
}

// LdMemHL emits LD (addr),HL.
func (bld *Builder) LdMemHL(addr uint16) {
	bld.Emit(0x22)
	bld.EmitWord(addr)
}

// ALU group, register operands.

func (bld *Builder) AddR(r Reg) { bld.Emit(0x80 | byte(r)) } // ADD A,r
func (bld *Builder) AdcR(r Reg) { bld.Emit(0x88 | byte(r)) } // ADC A,r
func (bld *Builder) SubR(r Reg) { bld.Emit(0x90 | byte(r)) } // SUB r
func (bld *Builder) SbcR(r Reg) { bld.Emit(0x98 | byte(r)) } // SBC A,r
func (bld *Builder) AndR(r Reg) { bld.Emit(0xA0 | byte(r)) } // AND r
func (bld *Builder) XorR(r Reg) { bld.Emit(0xA8 | byte(r)) } // XOR r
func (bld *Builder) OrR(r Reg)  { bld.Emit(0xB0 | byte(r)) } // OR r
func (bld *Builder) CpR(r Reg)  { bld.Emit(0xB8 | byte(r)) } // CP r

// ALU group, immediate operands.

func (bld *Builder) AddN(n byte) { bld.Emit(0xC6, n) } // ADD A,n
func (bld *Builder) AdcN(n byte) { bld.Emit(0xCE, n) } // ADC A,n
func (bld *Builder) SubN(n byte) { bld.Emit(0xD6, n) } // SUB n
func (bld *Builder) SbcN(n byte) { bld.Emit(0xDE, n) } // SBC A,n
func (bld *Builder) AndN(n byte) { bld.Emit(0xE6, n) } // AND n
func (bld *Builder) XorN(n byte) { bld.Emit(0xEE, n) } // XOR n
func (bld *Builder) OrN(n byte)  { bld.Emit(0xF6, n) } // OR n
func (bld *Builder) CpN(n byte)  { bld.Emit(0xFE, n) } // CP n

// Increments, decrements, 16-bit arithmetic.

func (bld *Builder) IncR(r Reg) { bld.Emit(0x04 | byte(r)<<3) } // INC r
func (bld *Builder) DecR(r Reg) { bld.Emit(0x05 | byte(r)<<3) } // DEC r
func (bld *Builder) IncP(p Pair) { bld.Emit(0x03 | byte(p)<<4) } // INC p
func (bld *Builder) DecP(p Pair) { bld.Emit(0x0B | byte(p)<<4) } // DEC p
func (bld *Builder) AddHL(p Pair) { bld.Emit(0x09 | byte(p)<<4) } // ADD HL,p

// SbcHL emits SBC HL,p.
func (bld *Builder) SbcHL(p Pair) {
	bld.Emit(0xED, 0x42|byte(p)<<4)
}

// Accumulator and flag operations.

func (bld *Builder) Daa()  { bld.Emit(0x27) } // DAA
func (bld *Builder) Cpl()  { bld.Emit(0x2F) } // CPL
func (bld *Builder) Scf()  { bld.Emit(0x37) } // SCF
func (bld *Builder) Ccf()  { bld.Emit(0x3F) } // CCF
func (bld *Builder) Rlca() { bld.Emit(0x07) } // RLCA
func (bld *Builder) Rrca() { bld.Emit(0x0F) } // RRCA
func (bld *Builder) Rla()  { bld.Emit(0x17) } // RLA
func (bld *Builder) Rra()  { bld.Emit(0x1F) } // RRA

// Rld emits RLD, the one-nibble left rotate through A and (HL).
func (bld *Builder) Rld() {
	bld.Emit(0xED, 0x6F)
}

// Control flow. Absolute targets are label fixups; relative targets must be
// already-defined labels within range.

// Jp emits JP label.
func (bld *Builder) Jp(name string) {
	bld.Emit(0xC3)
	bld.Fixup(name)
}

// JpCond emits JP cc,label.
func (bld *Builder) JpCond(cc Cond, name string) {
	bld.Emit(0xC2 | byte(cc)<<3)
	bld.Fixup(name)
}

// Call emits CALL label.
func (bld *Builder) Call(name string) {
	bld.Emit(0xCD)
	bld.Fixup(name)
}

// CallCond emits CALL cc,label.
func (bld *Builder) CallCond(cc Cond, name string) {
	bld.Emit(0xC4 | byte(cc)<<3)
	bld.Fixup(name)
}

func (bld *Builder) Ret()            { bld.Emit(0xC9) }                // RET
func (bld *Builder) RetCond(cc Cond) { bld.Emit(0xC0 | byte(cc)<<3) } // RET cc

// Jr emits JR label.
func (bld *Builder) Jr(name string) {
	bld.Emit(0x18)
	bld.EmitRelative(name)
}

// JrCond emits JR cc,label.
func (bld *Builder) JrCond(cc Cond, name string) {
	bld.Emit(0x20 | byte(cc)<<3)
	bld.EmitRelative(name)
}

// Djnz emits DJNZ label.
func (bld *Builder) Djnz(name string) {
	bld.Emit(0x10)
	bld.EmitRelative(name)
}

// Stack and exchange.

func (bld *Builder) Push(p Pair) { bld.Emit(0xC5 | byte(p)<<4) } // PUSH p
func (bld *Builder) Pop(p Pair)  { bld.Emit(0xC1 | byte(p)<<4) } // POP p
func (bld *Builder) ExDEHL()     { bld.Emit(0xEB) }              // EX DE,HL

// Ports and block transfer.

func (bld *Builder) In(port byte)  { bld.Emit(0xDB, port) } // IN A,(port)
func (bld *Builder) Out(port byte) { bld.Emit(0xD3, port) } // OUT (port),A

// Ldir emits LDIR, the BC-counted block copy from (HL) to (DE).
func (bld *Builder) Ldir() {
	bld.Emit(0xED, 0xB0)
}

func (bld *Builder) Nop()  { bld.Emit(0x00) } // NOP
func (bld *Builder) Halt() { bld.Emit(0x76) } // HALT
