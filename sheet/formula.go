package sheet

import (
	"strings"

	"zcalc/bcd"
)

// Eval evaluates a formula expression (without its leading '=') strictly
// left to right: each operator applies to the running value and the
// operand after it, with no precedence. "2+3*4" is 20, not 14. Cell
// references read the referenced cell's current stored value; formula
// cells contribute their cached result and are never re-evaluated here.
func (sh *Sheet) Eval(expr string) (val bcd.Value, err error) {
	ev := evaluator{sh: sh, text: expr}
	val, err = ev.run()
	if err != nil {
		err = ErrFormula{Text: expr, At: ev.at, Err: err}
	}
	return val, err
}

// ParseRef parses a bare cell reference such as "B5" or "$C$12".
func (sh *Sheet) ParseRef(text string) (ref CellRef, err error) {
	ev := evaluator{sh: sh, text: text}
	ref, err = ev.cellRef(true)
	if err == nil && ev.at != len(text) {
		err = ErrCellRef(text)
	}
	return ref, err
}

// Recalc re-evaluates every formula cell in address order, exactly once,
// rewriting only the cached sign and result that follow its source text
// in the heap. A formula referring to a cell later in the scan sees that
// cell's previous cached value until the next recalc; a formula that now
// fails to evaluate keeps its previous cache.
func (sh *Sheet) Recalc() {
	for row := 0; row < sh.geo.Rows; row++ {
		for col := 0; col < sh.geo.Cols; col++ {
			rec := sh.record(CellRef{Col: col, Row: row})
			if CellType(rec[offType]) != CELL_FORMULA {
				continue
			}
			text, cache := sh.entry(leWord(rec[offBody:]))
			if cache == nil {
				continue
			}
			val, err := sh.Eval(text)
			if err != nil {
				continue
			}
			cache[0] = signByte(val.Neg)
			copy(cache[1:5], val.Mag[:])
		}
	}
}

// evaluator walks the expression with a single byte cursor, the same way
// the firmware's parser does. It never skips whitespace.
type evaluator struct {
	sh   *Sheet
	text string
	at   int
}

func (ev *evaluator) run() (val bcd.Value, err error) {
	val, err = ev.operand()
	if err != nil {
		return val, err
	}
	for ev.at < len(ev.text) {
		op := ev.text[ev.at]
		ev.at++

		var rhs bcd.Value
		rhs, err = ev.operand()
		if err != nil {
			return val, err
		}
		val, err = apply(op, val, rhs)
		if err != nil {
			return val, err
		}
	}
	return val, nil
}

func apply(op byte, a, b bcd.Value) (val bcd.Value, err error) {
	switch op {
	case '+':
		return bcd.AddSigned(a, b)
	case '-':
		b.Neg = !b.Neg
		return bcd.AddSigned(a, b)
	case '*':
		val.Mag, err = bcd.Mul(a.Mag, b.Mag)
	case '/':
		val.Mag, err = bcd.Div(a.Mag, b.Mag)
	default:
		return val, ErrOperator(op)
	}
	if err != nil {
		return bcd.Value{}, err
	}
	if val.Mag != bcd.Zero {
		val.Neg = a.Neg != b.Neg
	}
	return val, nil
}

func (ev *evaluator) operand() (val bcd.Value, err error) {
	if ev.at >= len(ev.text) {
		return val, ErrOperand
	}
	ch := ev.text[ev.at]
	switch {
	case ch == '@':
		ev.at++
		return ev.rangeFunc()
	case ch == '$' || isLetter(ch):
		var ref CellRef
		ref, err = ev.cellRef(true)
		if err != nil {
			return val, err
		}
		return ev.sh.Value(ref)
	case ch == '-' || ch == '.' || isDigit(ch):
		return ev.number()
	}
	return val, ErrOperand
}

func (ev *evaluator) number() (val bcd.Value, err error) {
	start := ev.at
	if ev.text[ev.at] == '-' {
		ev.at++
	}
	for ev.at < len(ev.text) {
		ch := ev.text[ev.at]
		if !isDigit(ch) && ch != '.' {
			break
		}
		ev.at++
	}
	return bcd.Parse(ev.text[start:ev.at])
}

// cellRef scans a column letter and a 1-2 digit row. The '$' markers of
// absolute references are accepted and ignored when dollar is set; range
// endpoints do not take them.
func (ev *evaluator) cellRef(dollar bool) (ref CellRef, err error) {
	start := ev.at
	if dollar && ev.at < len(ev.text) && ev.text[ev.at] == '$' {
		ev.at++
	}
	if ev.at >= len(ev.text) || !isLetter(ev.text[ev.at]) {
		return ref, ErrCellRef(ev.text[start:ev.at])
	}
	col := int(upper(ev.text[ev.at]) - 'A')
	ev.at++
	if dollar && ev.at < len(ev.text) && ev.text[ev.at] == '$' {
		ev.at++
	}
	row, digits := 0, 0
	for ev.at < len(ev.text) && isDigit(ev.text[ev.at]) {
		row = row*10 + int(ev.text[ev.at]-'0')
		digits++
		ev.at++
	}
	if col >= ev.sh.geo.Cols || digits == 0 || row < 1 || row > ev.sh.geo.Rows {
		return ref, ErrCellRef(ev.text[start:ev.at])
	}
	return CellRef{Col: col, Row: row - 1}, nil
}

func (ev *evaluator) rangeFunc() (val bcd.Value, err error) {
	start := ev.at
	for ev.at < len(ev.text) && isLetter(ev.text[ev.at]) {
		ev.at++
	}
	name := strings.ToUpper(ev.text[start:ev.at])
	switch name {
	case "SUM", "AVG", "MIN", "MAX", "COUNT":
	default:
		return val, ErrFunction(name)
	}

	if !ev.take('(') {
		return val, ErrRangeSyntax
	}
	from, err := ev.cellRef(false)
	if err != nil {
		return val, err
	}
	if !ev.take(':') {
		return val, ErrRangeSyntax
	}
	to, err := ev.cellRef(false)
	if err != nil {
		return val, err
	}
	if !ev.take(')') {
		return val, ErrRangeSyntax
	}

	// Column-major walk of the inclusive rectangle. Only number and
	// formula cells count; everything else is passed over.
	var sum, best bcd.Value
	var count bcd.Mag
	found := false
	for col := from.Col; col <= to.Col; col++ {
		for row := from.Row; row <= to.Row; row++ {
			ref := CellRef{Col: col, Row: row}
			switch ev.sh.Type(ref) {
			case CELL_NUMBER, CELL_FORMULA:
			default:
				continue
			}
			var cell bcd.Value
			cell, err = ev.sh.Value(ref)
			if err != nil {
				return val, err
			}
			switch name {
			case "SUM", "AVG":
				sum, err = bcd.AddSigned(sum, cell)
				if err != nil {
					return val, err
				}
			case "MIN":
				if !found || bcd.Compare(cell.Mag, best.Mag) < 0 {
					best = cell
				}
			case "MAX":
				if !found || bcd.Compare(cell.Mag, best.Mag) > 0 {
					best = cell
				}
			}
			count, err = bcd.Add(count, bcd.One)
			if err != nil {
				return val, err
			}
			found = true
		}
	}

	switch name {
	case "SUM":
		return sum, nil
	case "AVG":
		if count == bcd.Zero {
			return val, nil
		}
		val.Mag, err = bcd.Div(sum.Mag, count)
		if err != nil {
			return bcd.Value{}, err
		}
		if val.Mag != bcd.Zero {
			val.Neg = sum.Neg
		}
		return val, nil
	case "MIN", "MAX":
		return best, nil
	}
	return bcd.Value{Neg: false, Mag: count}, nil
}

func (ev *evaluator) take(ch byte) bool {
	if ev.at < len(ev.text) && ev.text[ev.at] == ch {
		ev.at++
		return true
	}
	return false
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	up := ch &^ 0x20
	return up >= 'A' && up <= 'Z'
}

func upper(ch byte) byte {
	return ch &^ 0x20
}
