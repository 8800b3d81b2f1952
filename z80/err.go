package z80

import (
	"errors"

	"zcalc/translate"
)

var f = translate.From

var (
	// Builder errors
	ErrImageFinal = errors.New(f("image is final"))

	// Cpu errors
	ErrHalted = errors.New(f("cpu halted"))
)

type ErrLabelDuplicate string

func (el ErrLabelDuplicate) Error() string {
	return f("label %v duplicated", string(el))
}

func (el ErrLabelDuplicate) Is(err error) (ok bool) {
	_, ok = err.(ErrLabelDuplicate)
	return
}

type ErrLabelUndefined struct {
	Label string
	Site  uint16
}

func (err ErrLabelUndefined) Error() string {
	return f("label %v undefined at 0x%04x", err.Label, err.Site)
}

func (err ErrLabelUndefined) Is(target error) (ok bool) {
	_, ok = target.(ErrLabelUndefined)
	return
}

type ErrBranchRange struct {
	Label    string
	Site     uint16
	Distance int
}

func (err ErrBranchRange) Error() string {
	return f("branch to %v at 0x%04x spans %v bytes", err.Label, err.Site, err.Distance)
}

type ErrOpcodeUnknown struct {
	Opcode byte
	Prefix byte
	Pc     uint16
}

func (err ErrOpcodeUnknown) Error() string {
	if err.Prefix != 0 {
		return f("unknown opcode 0x%02x%02x at 0x%04x", err.Prefix, err.Opcode, err.Pc)
	}
	return f("unknown opcode 0x%02x at 0x%04x", err.Opcode, err.Pc)
}

func (err ErrOpcodeUnknown) Is(target error) (ok bool) {
	_, ok = target.(ErrOpcodeUnknown)
	return
}
