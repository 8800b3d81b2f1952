package gen

// stringTable lays down every ROM string. All are NUL-terminated for
// io.puts; the esc.* entries are raw VT220 control sequences.
func (g *Generator) stringTable() {
	b := g.b

	put := func(label, text string) {
		b.Label(label)
		b.EmitString(text)
	}

	put("str.banner", "zcalc 1.0\r\n")
	put("str.title", "zcalc -- 16x64 BCD spreadsheet")
	put("str.help", "arrows/hjkl move  ENTER edit  = \" . 0-9 enter  / cmd  ! recalc  q quit")
	put("str.cmd", "/ G)oto C)lear R)eplicate -)fill W)idth Q)uit ")
	put("str.pr.goto", "go: ")
	put("str.pr.copy", "to: ")
	put("str.pr.fill", "fill: ")
	put("str.pr.width", "width: ")
	put("str.bye", "goodbye\r\n")
	put("str.errcell", " #ERR")
	put("str.errsrc", "#ERR")
	put("str.sp4", "    ")

	put("str.fn.sum", "SUM")
	put("str.fn.avg", "AVG")
	put("str.fn.min", "MIN")
	put("str.fn.max", "MAX")
	put("str.fn.count", "COUNT")

	put("esc.cls", "\x1b[2J\x1b[H")
	put("esc.eol", "\x1b[K")
	put("esc.hide", "\x1b[?25l")
	put("esc.show", "\x1b[?25h")
}
