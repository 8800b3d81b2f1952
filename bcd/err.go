package bcd

import (
	"errors"

	"zcalc/translate"
)

var f = translate.From

var (
	ErrOverflow     = errors.New(f("bcd overflow"))
	ErrDivideByZero = errors.New(f("divide by zero"))
)

type ErrNumber string

func (err ErrNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

func (err ErrNumber) Is(target error) (ok bool) {
	_, ok = target.(ErrNumber)
	return
}
