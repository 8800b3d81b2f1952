package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayoutDefaultsCheck(t *testing.T) {
	assert := assert.New(t)
	assert.NoError(DefaultLayout().Check())
}

func TestLayoutCheckRejects(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		name string
		warp func(lay *Layout)
	}{
		{"rom too small", func(lay *Layout) { lay.RomSize = 0x200 }},
		{"cells in rom", func(lay *Layout) { lay.CellBase = 0x1000 }},
		{"input in cells", func(lay *Layout) { lay.InputBase = lay.CellBase }},
		{"scratch in input", func(lay *Layout) { lay.ScratchBase = lay.InputBase }},
		{"heap in scratch", func(lay *Layout) { lay.HeapBase = lay.ScratchBase }},
		{"heap tiny", func(lay *Layout) { lay.HeapSize = 64 }},
		{"vars in heap", func(lay *Layout) { lay.VarBase = lay.HeapBase }},
		{"stack in vars", func(lay *Layout) { lay.StackTop = lay.VarBase }},
		{"port collision", func(lay *Layout) { lay.DataPort = lay.StatusPort }},
		{"screen narrow", func(lay *Layout) { lay.ScreenCols = 20 }},
		{"too many rows", func(lay *Layout) { lay.VisRows = 30 }},
	}
	for _, c := range cases {
		lay := DefaultLayout()
		c.warp(&lay)
		assert.ErrorIs(lay.Check(), ErrLayout(""), c.name)
	}
}

func TestLoadLayoutOverridesDefaults(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "layout.toml")
	text := "vis_rows = 12\nstatus_port = 0x10\ndata_port = 0x11\n"
	assert.NoError(os.WriteFile(path, []byte(text), 0o644))

	lay, err := LoadLayout(path)
	assert.NoError(err)
	assert.Equal(12, lay.VisRows)
	assert.Equal(byte(0x10), lay.StatusPort)
	assert.Equal(byte(0x11), lay.DataPort)

	// Keys the file does not mention keep their defaults.
	assert.Equal(0x2000, lay.RomSize)
	assert.Equal(uint16(0x2000), lay.CellBase)
}

func TestLoadLayoutChecks(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "layout.toml")
	assert.NoError(os.WriteFile(path, []byte("rom_size = 128\n"), 0o644))

	_, err := LoadLayout(path)
	assert.ErrorIs(err, ErrLayout(""))
}

func TestLoadLayoutMissingFile(t *testing.T) {
	assert := assert.New(t)

	_, err := LoadLayout(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(err)
}
