package gen

import (
	"github.com/BurntSushi/toml"

	"zcalc/sheet"
)

// Layout fixes the target memory map and console geometry the firmware is
// generated against. All regions are in the Z80's 64 KiB address space;
// the grid itself is fixed at 16 columns by 64 rows of 6-byte records.
type Layout struct {
	RomSize     int    `toml:"rom_size"`
	CellBase    uint16 `toml:"cell_base"`
	InputBase   uint16 `toml:"input_base"`
	ScratchBase uint16 `toml:"scratch_base"`
	HeapBase    uint16 `toml:"heap_base"`
	HeapSize    int    `toml:"heap_size"`
	VarBase     uint16 `toml:"var_base"`
	StackTop    uint16 `toml:"stack_top"`
	StatusPort  byte   `toml:"status_port"`
	DataPort    byte   `toml:"data_port"`
	ScreenCols  int    `toml:"screen_cols"`
	VisRows     int    `toml:"vis_rows"`
}

const (
	gridCols = 16
	gridRows = 64

	cellBytes  = gridCols * gridRows * sheet.RecordSize
	inputBytes = 64
	inputMax   = 40
	varBytes   = 256

	// column width limits the /W command accepts, bracket included
	widthMin     = 5
	widthMax     = 15
	widthDefault = 9
)

// DefaultLayout is the stock memory map baked into the binary when no
// layout file is given.
func DefaultLayout() Layout {
	return Layout{
		RomSize:     0x2000,
		CellBase:    0x2000,
		InputBase:   0x3800,
		ScratchBase: 0x3840,
		HeapBase:    0x3900,
		HeapSize:    0x2000,
		VarBase:     0x5900,
		StackTop:    0x5FFF,
		StatusPort:  0x80,
		DataPort:    0x81,
		ScreenCols:  80,
		VisRows:     10,
	}
}

// LoadLayout reads a TOML layout file over the defaults, so a file only
// needs the keys it changes.
func LoadLayout(path string) (lay Layout, err error) {
	lay = DefaultLayout()
	if _, err = toml.DecodeFile(path, &lay); err != nil {
		return lay, err
	}
	return lay, lay.Check()
}

// Check rejects maps whose regions overlap, run out of address space, or
// cannot host the firmware's fixed structures.
func (lay Layout) Check() error {
	switch {
	case lay.RomSize < 0x400 || lay.RomSize > 0x8000:
		return ErrLayout(f("rom_size %d out of range", lay.RomSize))
	case int(lay.CellBase) < lay.RomSize:
		return ErrLayout(f("cell_base overlaps ROM"))
	case int(lay.CellBase)+cellBytes > int(lay.InputBase):
		return ErrLayout(f("input_base overlaps the cell grid"))
	case int(lay.InputBase)+inputBytes > int(lay.ScratchBase):
		return ErrLayout(f("scratch_base overlaps the input buffer"))
	case int(lay.ScratchBase)+inputBytes > int(lay.HeapBase):
		return ErrLayout(f("heap_base overlaps the scratch area"))
	case lay.HeapSize < 256:
		return ErrLayout(f("heap_size %d too small", lay.HeapSize))
	case int(lay.HeapBase)+lay.HeapSize > int(lay.VarBase):
		return ErrLayout(f("var_base overlaps the heap"))
	case int(lay.VarBase)+varBytes > int(lay.StackTop):
		return ErrLayout(f("stack_top overlaps the variable page"))
	case int(lay.StackTop) > 0xFFFF:
		return ErrLayout(f("stack_top beyond address space"))
	case lay.StatusPort == lay.DataPort:
		return ErrLayout(f("status_port and data_port collide"))
	case lay.ScreenCols < 40 || lay.ScreenCols > 132:
		return ErrLayout(f("screen_cols %d out of range", lay.ScreenCols))
	case lay.VisRows < 4 || lay.VisRows > 18:
		return ErrLayout(f("vis_rows %d out of range", lay.VisRows))
	}
	return nil
}

// Geometry is the cell-store view of the map, shared with the host model
// so seeded sheets produce target-valid heap pointers.
func (lay Layout) Geometry() sheet.Geometry {
	return sheet.Geometry{
		Cols:     gridCols,
		Rows:     gridRows,
		CellBase: lay.CellBase,
		HeapBase: lay.HeapBase,
		HeapSize: lay.HeapSize,
	}
}
