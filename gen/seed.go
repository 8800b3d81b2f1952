package gen

import (
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"zcalc/sheet"
	"zcalc/z80"
)

// seedTable emits seed.copy and the run table it walks at reset. Each
// run is dest word, length word, then the bytes; a zero dest word ends
// the table. With no seed sheet only the terminator is emitted.
func (g *Generator) seedTable() {
	b := g.b

	b.Label("seed.copy")
	b.LdPLabel(z80.PAIR_HL, "seed.data")
	b.Label("seed.next")
	b.LdR(z80.REG_E, z80.REG_M)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_D, z80.REG_M)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_A, z80.REG_D)
	b.OrR(z80.REG_E)
	b.RetCond(z80.COND_Z)
	b.LdR(z80.REG_C, z80.REG_M)
	b.IncP(z80.PAIR_HL)
	b.LdR(z80.REG_B, z80.REG_M)
	b.IncP(z80.PAIR_HL)
	b.Ldir()
	b.Jr("seed.next")

	b.Label("seed.data")
	if g.sh != nil {
		cells := g.sh.CellImage()
		records := len(cells) / sheet.RecordSize
		for start := 0; start < records; {
			if cells[start*sheet.RecordSize] == 0 {
				start++
				continue
			}
			end := start
			for end < records && cells[end*sheet.RecordSize] != 0 {
				end++
			}
			run := cells[start*sheet.RecordSize : end*sheet.RecordSize]
			b.EmitWord(g.lay.CellBase + uint16(start*sheet.RecordSize))
			b.EmitWord(uint16(len(run)))
			b.Emit(run...)
			start = end
		}
		if heap := g.sh.HeapImage(); len(heap) > 0 {
			b.EmitWord(g.lay.HeapBase)
			b.EmitWord(uint16(len(heap)))
			b.Emit(heap...)
			ptr := g.sh.HeapPtr()
			b.EmitWord(g.v.heapPtr)
			b.EmitWord(2)
			b.Emit(byte(ptr), byte(ptr>>8))
		}
	}
	b.EmitWord(0)
}

// LoadSeed runs a Starlark seed script and returns the sheet it built.
// The script sees a single builtin, set(ref, text), which commits text
// to a cell exactly as typing it in the editor would.
func LoadSeed(path string, lay Layout) (*sheet.Sheet, error) {
	sh := sheet.NewSheet(lay.Geometry())
	set := starlark.NewBuiltin("set", func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var refText, text string
		if err := starlark.UnpackPositionalArgs("set", args, kwargs, 2, &refText, &text); err != nil {
			return nil, err
		}
		ref, err := sh.ParseRef(refText)
		if err != nil {
			return nil, err
		}
		if len(text) > inputMax {
			return nil, ErrEntryLen{Ref: ref.String(), Len: len(text)}
		}
		if err = sh.Commit(ref, text); err != nil {
			return nil, err
		}
		return starlark.None, nil
	})

	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{"set": set}
	if _, err := starlark.ExecFileOptions(&opts, &thread, path, nil, pred); err != nil {
		return nil, ErrSeed{Path: path, Err: err}
	}
	sh.Recalc()
	return sh, nil
}
