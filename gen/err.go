package gen

import (
	"zcalc/translate"
)

var f = translate.From

type ErrLayout string

func (err ErrLayout) Error() string {
	return f("bad layout: %v", string(err))
}

func (err ErrLayout) Is(target error) (ok bool) {
	_, ok = target.(ErrLayout)
	return
}

// ErrImageSize reports an emitted image too large for the ROM region.
type ErrImageSize struct {
	Len int
	Max int
}

func (err ErrImageSize) Error() string {
	return f("image is %d bytes, ROM holds %d", err.Len, err.Max)
}

func (err ErrImageSize) Is(target error) (ok bool) {
	_, ok = target.(ErrImageSize)
	return
}

// ErrEntryLen reports a seeded cell entry too long for the firmware's
// input buffer, which would make the cell impossible to re-edit.
type ErrEntryLen struct {
	Ref string
	Len int
}

func (err ErrEntryLen) Error() string {
	return f("%v: entry is %d characters, the editor holds %d", err.Ref, err.Len, inputMax)
}

func (err ErrEntryLen) Is(target error) (ok bool) {
	_, ok = target.(ErrEntryLen)
	return
}

// ErrSeed wraps a failure inside a seed script.
type ErrSeed struct {
	Path string
	Err  error
}

func (err ErrSeed) Error() string {
	return f("seed %v: %v", err.Path, err.Err)
}

func (err ErrSeed) Unwrap() error {
	return err.Err
}
