package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"zcalc/bcd"
)

func evalString(t *testing.T, sh *Sheet, expr string) string {
	t.Helper()
	val, err := sh.Eval(expr)
	if err != nil {
		t.Fatalf("eval %q: %v", expr, err)
	}
	return val.String()
}

func TestEvalLeftToRight(t *testing.T) {
	assert := assert.New(t)

	sh := NewSheet(DefaultGeometry())
	tests := []struct {
		expr string
		want string
	}{
		{"2", "2.00"},
		{"2+3*4", "20.00"},
		{"10-2-3", "5.00"},
		{"2+3/2", "2.50"},
		{"10/4", "2.50"},
		{"2-5", "-3.00"},
		{"-2*3", "-6.00"},
		{"2*-3", "-6.00"},
		{"-5/2", "-2.50"},
		{"-2*-3", "6.00"},
		{"5-5", "0.00"},
		{"0-0", "0.00"},
		{"1.5+.5", "2.00"},
	}
	for _, test := range tests {
		assert.Equal(test.want, evalString(t, sh, test.expr), "expr %v", test.expr)
	}
}

func TestEvalCellRefs(t *testing.T) {
	assert := assert.New(t)

	sh := NewSheet(DefaultGeometry())
	sh.SetNumber(CellRef{Col: 0, Row: 0}, num(t, "3"))
	sh.SetNumber(CellRef{Col: 0, Row: 1}, num(t, "4"))

	// No precedence: (3+4)*2, not 3+8.
	assert.Equal("14.00", evalString(t, sh, "A1+A2*2"))
	assert.Equal("14.00", evalString(t, sh, "$A$1+$a2*2"))

	// Empty cells read as zero.
	assert.Equal("3.00", evalString(t, sh, "A1+B1"))

	// A formula operand contributes its cached result.
	assert.NoError(sh.SetFormula(CellRef{Col: 1, Row: 0}, "A1*A2"))
	assert.Equal("24.00", evalString(t, sh, "B1*2"))
}

func TestEvalErrors(t *testing.T) {
	assert := assert.New(t)

	sh := NewSheet(DefaultGeometry())
	sh.SetLabel(CellRef{Col: 3, Row: 0}, "title")

	tests := []struct {
		expr string
		want error
	}{
		{"", ErrOperand},
		{"+", ErrOperand},
		{"2+", ErrOperand},
		{"1++2", ErrOperand},
		{"2&3", ErrOperator(0)},
		{"Q1", ErrCellRef("")},
		{"A99", ErrCellRef("")},
		{"A0", ErrCellRef("")},
		{"D1", ErrCellValue},
		{"@BOGUS(A1:A2)", ErrFunction("")},
		{"@SUM A1:A2", ErrRangeSyntax},
		{"@SUM(A1;A2)", ErrRangeSyntax},
		{"@SUM(A1:A2", ErrRangeSyntax},
		{"@SUM($A1:A2)", ErrCellRef("")},
		{"1/0", bcd.ErrDivideByZero},
		{"1/(0)", ErrOperand},
		{"900000+900000", bcd.ErrOverflow},
		{"12x4", ErrOperator(0)},
	}
	for _, test := range tests {
		_, err := sh.Eval(test.expr)
		assert.ErrorIs(err, test.want, "expr %v", test.expr)

		var wrap ErrFormula
		assert.ErrorAs(err, &wrap, "expr %v", test.expr)
		assert.Equal(test.expr, wrap.Text, "expr %v", test.expr)
	}
}

func TestEvalRangeFuncs(t *testing.T) {
	assert := assert.New(t)

	sh := NewSheet(DefaultGeometry())
	sh.SetNumber(CellRef{Col: 0, Row: 0}, num(t, "1"))
	sh.SetNumber(CellRef{Col: 0, Row: 1}, num(t, "2"))
	// A3 left empty.

	assert.Equal("3.00", evalString(t, sh, "@SUM(A1:A3)"))
	assert.Equal("1.50", evalString(t, sh, "@AVG(A1:A3)"))
	assert.Equal("2.00", evalString(t, sh, "@COUNT(A1:A3)"))
	assert.Equal("1.00", evalString(t, sh, "@MIN(A1:A3)"))
	assert.Equal("2.00", evalString(t, sh, "@MAX(A1:A3)"))
	assert.Equal("6.00", evalString(t, sh, "@sum(a1:a3)*2"))

	// Empty ranges are defined: zero, sign positive, even for AVG.
	for _, expr := range []string{"@SUM(D1:D4)", "@AVG(D1:D4)", "@MIN(D1:D4)", "@MAX(D1:D4)", "@COUNT(D1:D4)"} {
		assert.Equal("0.00", evalString(t, sh, expr), "expr %v", expr)
	}
}

func TestEvalRangeRect(t *testing.T) {
	assert := assert.New(t)

	sh := NewSheet(DefaultGeometry())
	sh.SetNumber(CellRef{Col: 1, Row: 4}, num(t, "10"))  // B5
	sh.SetNumber(CellRef{Col: 1, Row: 6}, num(t, "30"))  // B7
	sh.SetNumber(CellRef{Col: 2, Row: 5}, num(t, "-20")) // C6
	sh.SetLabel(CellRef{Col: 2, Row: 4}, "skip me")      // C5
	assert.NoError(sh.SetFormula(CellRef{Col: 2, Row: 6}, "B5*2")) // C7 caches 20

	assert.Equal("40.00", evalString(t, sh, "@SUM(B5:C7)"))
	assert.Equal("4.00", evalString(t, sh, "@COUNT(B5:C7)"))
	assert.Equal("10.00", evalString(t, sh, "@AVG(B5:C7)"))

	// MIN/MAX order by magnitude; the winner keeps its own sign.
	assert.Equal("10.00", evalString(t, sh, "@MIN(B5:C7)"))
	assert.Equal("30.00", evalString(t, sh, "@MAX(B5:C7)"))
	assert.Equal("-20.00", evalString(t, sh, "@MAX(B5:C6)"))
	assert.Equal("-20.00", evalString(t, sh, "@AVG(C5:C6)"))
}

func TestRecalcSinglePass(t *testing.T) {
	assert := assert.New(t)

	sh := NewSheet(DefaultGeometry())
	a1 := CellRef{Col: 0, Row: 0}
	b1 := CellRef{Col: 1, Row: 0}
	c1 := CellRef{Col: 2, Row: 0}

	sh.SetNumber(c1, num(t, "1"))
	assert.NoError(sh.SetFormula(b1, "C1"))
	assert.NoError(sh.SetFormula(a1, "B1"))

	// Changing a plain number does not touch formula caches.
	sh.SetNumber(c1, num(t, "9"))
	val, _ := sh.Value(a1)
	assert.Equal("1.00", val.String())

	// One pass in address order: A1 is recomputed before B1, so it
	// still sees B1's previous cache.
	sh.Recalc()
	val, _ = sh.Value(a1)
	assert.Equal("1.00", val.String())
	val, _ = sh.Value(b1)
	assert.Equal("9.00", val.String())

	// The next pass catches A1 up.
	sh.Recalc()
	val, _ = sh.Value(a1)
	assert.Equal("9.00", val.String())
}

func TestRecalcIdempotent(t *testing.T) {
	assert := assert.New(t)

	sh := NewSheet(DefaultGeometry())
	sh.SetNumber(CellRef{Col: 0, Row: 0}, num(t, "3"))
	sh.SetNumber(CellRef{Col: 0, Row: 1}, num(t, "4"))
	assert.NoError(sh.SetFormula(CellRef{Col: 1, Row: 0}, "A1+A2*2"))
	assert.NoError(sh.SetFormula(CellRef{Col: 1, Row: 1}, "@SUM(A1:A2)"))
	sh.SetLabel(CellRef{Col: 0, Row: 2}, "totals")

	sh.Recalc()
	cells := append([]byte(nil), sh.CellImage()...)
	heap := append([]byte(nil), sh.HeapImage()...)
	ptr := sh.HeapPtr()

	// With no dependency changes a recalc rewrites caches in place and
	// allocates nothing.
	sh.Recalc()
	assert.Equal(cells, sh.CellImage())
	assert.Equal(heap, sh.HeapImage())
	assert.Equal(ptr, sh.HeapPtr())
}

func TestRecalcKeepsCacheOnError(t *testing.T) {
	assert := assert.New(t)

	sh := NewSheet(DefaultGeometry())
	a1 := CellRef{Col: 0, Row: 0}
	b1 := CellRef{Col: 1, Row: 0}

	sh.SetNumber(b1, num(t, "4"))
	assert.NoError(sh.SetFormula(a1, "B1"))

	// B1 stops being numeric; the formula keeps its last good cache.
	sh.SetLabel(b1, "gone")
	sh.Recalc()
	assert.Equal(CELL_FORMULA, sh.Type(a1))
	val, err := sh.Value(a1)
	assert.NoError(err)
	assert.Equal("4.00", val.String())
}
