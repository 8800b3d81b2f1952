// Package bcd implements the packed-decimal arithmetic of the spreadsheet:
// 8 digits in 4 bytes, most significant digit first, with the final 2 digits
// an implied fraction. Signs are carried out of band, so every magnitude is
// non-negative. The magnitude 00012345 reads as 123.45.
package bcd

// Mag is a packed-decimal magnitude.
type Mag [4]byte

// Value couples a magnitude with its sign.
type Value struct {
	Neg bool
	Mag Mag
}

var (
	// Zero is the all-zeros magnitude.
	Zero = Mag{}
	// One is 1.00, the unit the range functions count in.
	One = Mag{0x00, 0x00, 0x01, 0x00}
	// Max is the largest representable magnitude, 999999.99.
	Max = Mag{0x99, 0x99, 0x99, 0x99}
)

// Add returns a+b, failing with ErrOverflow when the true sum needs more
// than 8 digits.
func Add(a, b Mag) (sum Mag, err error) {
	carry := byte(0)
	for n := 3; n >= 0; n-- {
		lo := a[n]&0x0F + b[n]&0x0F + carry
		carry = 0
		if lo > 9 {
			lo -= 10
			carry = 1
		}
		hi := a[n]>>4 + b[n]>>4 + carry
		carry = 0
		if hi > 9 {
			hi -= 10
			carry = 1
		}
		sum[n] = hi<<4 | lo
	}
	if carry != 0 {
		err = ErrOverflow
	}
	return
}

// Sub returns a-b. The caller guarantees a >= b; AddSigned owns operand
// ordering.
func Sub(a, b Mag) (diff Mag) {
	borrow := byte(0)
	for n := 3; n >= 0; n-- {
		lo := int8(a[n]&0x0F) - int8(b[n]&0x0F) - int8(borrow)
		borrow = 0
		if lo < 0 {
			lo += 10
			borrow = 1
		}
		hi := int8(a[n]>>4) - int8(b[n]>>4) - int8(borrow)
		borrow = 0
		if hi < 0 {
			hi += 10
			borrow = 1
		}
		diff[n] = byte(hi)<<4 | byte(lo)
	}
	return
}

// Compare returns -1, 0 or 1 as a is less than, equal to or greater than b.
// A plain byte-wise compare is exact because the representation is fixed
// width with the most significant digit first.
func Compare(a, b Mag) int {
	for n := range a {
		switch {
		case a[n] < b[n]:
			return -1
		case a[n] > b[n]:
			return 1
		}
	}
	return 0
}

// AddSigned adds two signed values. Matching signs add magnitudes and keep
// the sign; differing signs subtract the smaller magnitude from the larger
// and take the larger's sign. A zero result is always non-negative.
func AddSigned(a, b Value) (res Value, err error) {
	if a.Neg == b.Neg {
		res.Neg = a.Neg
		res.Mag, err = Add(a.Mag, b.Mag)
		if err != nil {
			res = Value{}
			return
		}
	} else {
		switch Compare(a.Mag, b.Mag) {
		case 1:
			res.Neg = a.Neg
			res.Mag = Sub(a.Mag, b.Mag)
		case -1:
			res.Neg = b.Neg
			res.Mag = Sub(b.Mag, a.Mag)
		}
	}

	if res.Mag == Zero {
		res.Neg = false
	}
	return
}

// wide is the double-width product accumulator: 16 digits.
type wide [8]byte

func wideAdd(acc *wide, addend *wide) {
	carry := byte(0)
	for n := 7; n >= 0; n-- {
		lo := acc[n]&0x0F + addend[n]&0x0F + carry
		carry = 0
		if lo > 9 {
			lo -= 10
			carry = 1
		}
		hi := acc[n]>>4 + addend[n]>>4 + carry
		carry = 0
		if hi > 9 {
			hi -= 10
			carry = 1
		}
		acc[n] = hi<<4 | lo
	}
}

// wideShl10 shifts the accumulator left one decimal digit.
func wideShl10(acc *wide) {
	carry := byte(0)
	for n := 7; n >= 0; n-- {
		next := acc[n] >> 4
		acc[n] = acc[n]<<4 | carry
		carry = next
	}
}

// Mul multiplies by shift-and-add: for each multiplier digit, most
// significant first, the accumulator is shifted up one digit and the
// multiplicand added in 0-9 times. The double-width result is rescaled by
// 100 (the low byte dropped) to keep the 2-place convention, then truncated
// to 8 digits; anything above that is ErrOverflow.
func Mul(a, b Mag) (prod Mag, err error) {
	var acc, wa wide
	copy(wa[4:], a[:])

	for n := range 8 {
		digit := b[n/2]
		if n%2 == 0 {
			digit >>= 4
		} else {
			digit &= 0x0F
		}

		wideShl10(&acc)
		for range digit {
			wideAdd(&acc, &wa)
		}
	}

	if acc[0] != 0 || acc[1] != 0 || acc[2] != 0 {
		err = ErrOverflow
		return
	}
	copy(prod[:], acc[3:7])
	return
}

// work is the prescaled dividend: 10 digits.
type work [5]byte

func workCompare(a, b work) int {
	for n := range a {
		switch {
		case a[n] < b[n]:
			return -1
		case a[n] > b[n]:
			return 1
		}
	}
	return 0
}

func workSub(acc *work, sub work) {
	borrow := byte(0)
	for n := 4; n >= 0; n-- {
		lo := int8(acc[n]&0x0F) - int8(sub[n]&0x0F) - int8(borrow)
		borrow = 0
		if lo < 0 {
			lo += 10
			borrow = 1
		}
		hi := int8(acc[n]>>4) - int8(sub[n]>>4) - int8(borrow)
		borrow = 0
		if hi < 0 {
			hi += 10
			borrow = 1
		}
		acc[n] = byte(hi)<<4 | byte(lo)
	}
}

// Div divides by repeated subtraction. The dividend is prescaled by 100 so
// the quotient keeps 2 decimal places, then the divisor is subtracted from
// the working copy while a packed quotient counter ticks up. Failing cases
// are a zero divisor (ErrDivideByZero) and a quotient beyond 8 digits
// (ErrOverflow).
func Div(a, b Mag) (quot Mag, err error) {
	if b == Zero {
		err = ErrDivideByZero
		return
	}

	var rem, div work
	copy(rem[:4], a[:]) // a × 100
	copy(div[1:], b[:])

	for workCompare(rem, div) >= 0 {
		workSub(&rem, div)

		carry := byte(1)
		for n := 3; n >= 0 && carry != 0; n-- {
			lo := quot[n]&0x0F + carry
			carry = 0
			if lo > 9 {
				lo -= 10
				carry = 1
			}
			hi := quot[n] >> 4
			if carry != 0 {
				hi++
				carry = 0
				if hi > 9 {
					hi -= 10
					carry = 1
				}
			}
			quot[n] = hi<<4 | lo
		}
		if carry != 0 {
			quot = Zero
			err = ErrOverflow
			return
		}
	}
	return
}

// Parse converts decimal text to a signed value: an optional leading '-',
// digits, and at most one '.'. Only the first 2 fractional digits are kept;
// extras are ignored rather than rejected. Missing fractional digits scale
// the result so it always carries exactly 2 implied decimals. More than 6
// whole digits cannot be represented and fail with ErrOverflow.
func Parse(text string) (val Value, err error) {
	rest := text
	if len(rest) > 0 && rest[0] == '-' {
		val.Neg = true
		rest = rest[1:]
	}

	var whole, frac []byte
	seen := false
	dot := false
	for n := 0; n < len(rest); n++ {
		ch := rest[n]
		switch {
		case ch >= '0' && ch <= '9':
			seen = true
			if !dot {
				whole = append(whole, ch-'0')
			} else if len(frac) < 2 {
				frac = append(frac, ch-'0')
			}
		case ch == '.' && !dot:
			dot = true
		default:
			err = ErrNumber(text)
			return
		}
	}
	if !seen {
		err = ErrNumber(text)
		return
	}

	for len(whole) > 1 && whole[0] == 0 {
		whole = whole[1:]
	}
	if len(whole) > 6 {
		err = ErrOverflow
		return
	}
	for len(frac) < 2 {
		frac = append(frac, 0)
	}

	digits := append(whole, frac...)
	at := 8 - len(digits)
	for _, d := range digits {
		val.Mag[at/2] |= d << (4 * uint(1-at%2))
		at++
	}

	if val.Mag == Zero {
		val.Neg = false
	}
	return
}

// Format renders a magnitude as exactly 9 characters, DDDDDD.DD, with no
// leading-zero suppression; trimming is a display concern.
func Format(mag Mag) string {
	text := make([]byte, 0, 9)
	for n := range 8 {
		digit := mag[n/2]
		if n%2 == 0 {
			digit >>= 4
		} else {
			digit &= 0x0F
		}
		if n == 6 {
			text = append(text, '.')
		}
		text = append(text, '0'+digit)
	}
	return string(text)
}

// String renders the value the way the status line shows it: optional sign,
// whole part with leading zeros trimmed, always 2 decimals.
func (v Value) String() string {
	text := Format(v.Mag)
	at := 0
	for at < 5 && text[at] == '0' {
		at++
	}
	if v.Neg {
		return "-" + text[at:]
	}
	return text[at:]
}
