package bcd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mag(text string) Mag {
	val, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return val.Mag
}

func TestParse(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		text string
		neg  bool
		want Mag
	}{
		{"123.45", false, Mag{0x00, 0x01, 0x23, 0x45}},
		{"-0.5", true, Mag{0x00, 0x00, 0x00, 0x50}},
		{"7", false, Mag{0x00, 0x00, 0x07, 0x00}},
		{"999999.99", false, Mag{0x99, 0x99, 0x99, 0x99}},
		{"1.234", false, Mag{0x00, 0x00, 0x01, 0x23}},
		{"5.", false, Mag{0x00, 0x00, 0x05, 0x00}},
		{".25", false, Mag{0x00, 0x00, 0x00, 0x25}},
		{"0", false, Mag{}},
		{"-0", false, Mag{}},
		{"000042", false, Mag{0x00, 0x00, 0x42, 0x00}},
	}

	for _, c := range cases {
		val, err := Parse(c.text)
		assert.NoError(err, c.text)
		assert.Equal(c.neg, val.Neg, c.text)
		assert.Equal(c.want, val.Mag, c.text)
	}
}

func TestParseErrors(t *testing.T) {
	assert := assert.New(t)

	for _, text := range []string{"", "-", ".", "12x", "1.2.3", "--5"} {
		_, err := Parse(text)
		assert.ErrorIs(err, ErrNumber(""), text)
	}

	_, err := Parse("1234567")
	assert.ErrorIs(err, ErrOverflow)
}

func TestFormatRoundTrip(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		text string
		want string
	}{
		{"123.45", "000123.45"},
		{"0", "000000.00"},
		{"999999.99", "999999.99"},
		{"0.07", "000000.07"},
	}

	for _, c := range cases {
		val, err := Parse(c.text)
		assert.NoError(err)
		assert.Equal(c.want, Format(val.Mag), c.text)
	}

	assert.Equal("-70.00", Value{Neg: true, Mag: mag("70")}.String())
	assert.Equal("0.50", Value{Mag: mag("0.5")}.String())
}

func TestAdd(t *testing.T) {
	assert := assert.New(t)

	sum, err := Add(mag("123.45"), mag("876.55"))
	assert.NoError(err)
	assert.Equal(mag("1000.00"), sum)

	sum, err = Add(mag("199999.99"), mag("0.01"))
	assert.NoError(err)
	assert.Equal(mag("200000.00"), sum)

	_, err = Add(mag("999999.99"), mag("0.01"))
	assert.ErrorIs(err, ErrOverflow)
}

func TestSub(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(mag("70.00"), Sub(mag("100.00"), mag("30.00")))
	assert.Equal(mag("0.01"), Sub(mag("200000.00"), mag("199999.99")))
	assert.Equal(Zero, Sub(mag("55.55"), mag("55.55")))
}

func TestCompare(t *testing.T) {
	assert := assert.New(t)

	values := []Mag{Zero, mag("0.01"), mag("0.99"), mag("1.00"), mag("99.99"), mag("100.00"), Max}
	for i, a := range values {
		assert.Equal(0, Compare(a, a))
		for _, b := range values[i+1:] {
			assert.Equal(-1, Compare(a, b))
			assert.Equal(1, Compare(b, a))
		}
	}
}

func TestAddSigned(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		a, b, want Value
	}{
		{Value{false, mag("100.00")}, Value{true, mag("30.00")}, Value{false, mag("70.00")}},
		{Value{true, mag("100.00")}, Value{false, mag("30.00")}, Value{true, mag("70.00")}},
		{Value{true, mag("2.50")}, Value{true, mag("2.50")}, Value{true, mag("5.00")}},
		{Value{false, mag("5.00")}, Value{true, mag("5.00")}, Value{false, Zero}},
		{Value{false, Zero}, Value{false, Zero}, Value{false, Zero}},
	}

	for n, c := range cases {
		res, err := AddSigned(c.a, c.b)
		assert.NoError(err, n)
		assert.Equal(c.want, res, n)

		// commutative
		res, err = AddSigned(c.b, c.a)
		assert.NoError(err, n)
		assert.Equal(c.want, res, n)
	}

	_, err := AddSigned(Value{Mag: Max}, Value{Mag: mag("0.01")})
	assert.ErrorIs(err, ErrOverflow)
}

func TestMul(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		a, b, want string
	}{
		{"2.00", "3.00", "6.00"},
		{"0.50", "0.50", "0.25"},
		{"12.34", "0", "0"},
		{"1000.00", "999.99", "999990.00"},
		{"0.10", "0.10", "0.01"},
		{"0.01", "0.01", "0"}, // truncates below the fraction
	}

	for _, c := range cases {
		prod, err := Mul(mag(c.a), mag(c.b))
		assert.NoError(err, c)
		assert.Equal(mag(c.want), prod, c)
	}

	_, err := Mul(mag("1000.00"), mag("1000.00"))
	assert.ErrorIs(err, ErrOverflow)
}

func TestDiv(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		a, b, want string
	}{
		{"10.00", "4.00", "2.50"},
		{"3.00", "2.00", "1.50"},
		{"1.00", "3.00", "0.33"},
		{"0", "5.00", "0"},
		{"100.00", "0.50", "200.00"},
	}

	for _, c := range cases {
		quot, err := Div(mag(c.a), mag(c.b))
		assert.NoError(err, c)
		assert.Equal(mag(c.want), quot, c)
	}

	_, err := Div(mag("1.00"), Zero)
	assert.ErrorIs(err, ErrDivideByZero)
}
