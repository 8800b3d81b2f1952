package sheet

import (
	"errors"

	"zcalc/translate"
)

var f = translate.From

var (
	// Capacity errors: resource limits, not syntax problems. Nothing is
	// committed when one of these is reported.
	ErrHeapFull  = errors.New(f("formula heap full"))
	ErrInputLong = errors.New(f("input too long"))

	// Parse errors
	ErrOperand     = errors.New(f("operand expected"))
	ErrCellValue   = errors.New(f("cell has no value"))
	ErrRangeSyntax = errors.New(f("range syntax"))
)

type ErrCellRef string

func (err ErrCellRef) Error() string {
	return f("'%v' is not a cell reference", string(err))
}

func (err ErrCellRef) Is(target error) (ok bool) {
	_, ok = target.(ErrCellRef)
	return
}

type ErrFunction string

func (err ErrFunction) Error() string {
	return f("'@%v' is not a range function", string(err))
}

func (err ErrFunction) Is(target error) (ok bool) {
	_, ok = target.(ErrFunction)
	return
}

type ErrOperator byte

func (err ErrOperator) Error() string {
	return f("'%c' is not an operator", byte(err))
}

func (err ErrOperator) Is(target error) (ok bool) {
	_, ok = target.(ErrOperator)
	return
}

// ErrFormula wraps an evaluation failure with the formula text and the
// cursor position where it surfaced.
type ErrFormula struct {
	Text string
	At   int
	Err  error
}

func (err ErrFormula) Error() string {
	return f("formula '%v' at %d: %v", err.Text, err.At, err.Err)
}

func (err ErrFormula) Unwrap() error {
	return err.Err
}
