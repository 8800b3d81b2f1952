// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs firmware images on a model of the target
// machine: a Z80, 64K of memory with the ROM write-protected at the
// bottom, and an ACIA on two I/O ports. It exists so a freshly built
// image can be exercised without hardware, both in tests and behind
// the interactive terminal bridge.
package emulator

import (
	"github.com/sirupsen/logrus"

	"zcalc/z80"
)

// Machine is one target instance. It is the CPU's bus: memory reads
// and writes land in mem, port traffic lands on the ACIA.
type Machine struct {
	Acia Acia

	cpu        *z80.CPU
	mem        [0x10000]byte
	rom        int
	statusPort byte
	dataPort   byte
	log        logrus.FieldLogger
}

// NewMachine builds a machine with rom at address 0 and the ACIA on the
// given ports. The CPU comes up reset, about to fetch the first ROM
// byte.
func NewMachine(rom []byte, statusPort, dataPort byte) (m *Machine) {
	m = &Machine{
		rom:        len(rom),
		statusPort: statusPort,
		dataPort:   dataPort,
		log:        logrus.WithField("mod", "emulator"),
	}
	copy(m.mem[:], rom)
	m.cpu = z80.NewCPU(m)
	m.log.WithFields(logrus.Fields{
		"rom":    len(rom),
		"status": statusPort,
		"data":   dataPort,
	}).Debug("machine ready")
	return
}

func (m *Machine) Read(addr uint16) byte {
	return m.mem[addr]
}

// Write drops stores into the ROM region, the way a mask ROM would.
func (m *Machine) Write(addr uint16, value byte) {
	if int(addr) < m.rom {
		return
	}
	m.mem[addr] = value
}

func (m *Machine) In(port byte) byte {
	switch port {
	case m.statusPort:
		return m.Acia.Status()
	case m.dataPort:
		return m.Acia.ReadData()
	}
	return 0xFF
}

func (m *Machine) Out(port byte, value byte) {
	if port == m.dataPort {
		m.Acia.WriteData(value)
	}
}

// CPU exposes the processor for register inspection.
func (m *Machine) CPU() *z80.CPU {
	return m.cpu
}

// Halted reports whether the firmware has executed HALT.
func (m *Machine) Halted() bool {
	return m.cpu.Halted
}

// Peek reads memory without going through the CPU.
func (m *Machine) Peek(addr uint16) byte {
	return m.mem[addr]
}

// Run executes at most maxSteps instructions, stopping early at HALT.
// An execution fault comes back as an ErrRuntime naming the faulting
// address.
func (m *Machine) Run(maxSteps int) (halted bool, err error) {
	for n := 0; n < maxSteps; n++ {
		pc := m.cpu.PC
		if err = m.cpu.Step(); err != nil {
			m.log.WithField("pc", pc).Debug("fault")
			return false, &ErrRuntime{Pc: pc, Err: err}
		}
		if m.cpu.Halted {
			return true, nil
		}
	}
	return false, nil
}
