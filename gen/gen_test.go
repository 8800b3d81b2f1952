package gen

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"zcalc/sheet"
)

func TestGenerateEmpty(t *testing.T) {
	assert := assert.New(t)

	lay := DefaultLayout()
	img, err := Generate(lay, nil)
	assert.NoError(err)
	assert.LessOrEqual(len(img), lay.RomSize)

	// The reset path must begin with LD SP,nn.
	assert.Equal(byte(0x31), img[0])
	assert.Equal(lay.StackTop, img.Word(1))

	assert.True(img.Contains([]byte("zcalc 1.0")))
	assert.True(img.Contains([]byte("16x64 BCD spreadsheet")))
	assert.True(img.Contains([]byte("goodbye")))
	assert.True(img.Contains([]byte("COUNT")))
	assert.True(img.Contains([]byte{0x1B, '[', '2', 'J'}))
}

func TestGenerateDeterministic(t *testing.T) {
	assert := assert.New(t)

	lay := DefaultLayout()
	one, err := Generate(lay, nil)
	assert.NoError(err)
	two, err := Generate(lay, nil)
	assert.NoError(err)
	assert.True(bytes.Equal(one, two))
}

func TestGenerateRejectsBadLayout(t *testing.T) {
	assert := assert.New(t)

	lay := DefaultLayout()
	lay.DataPort = lay.StatusPort
	_, err := Generate(lay, nil)
	assert.ErrorIs(err, ErrLayout(""))
}

func TestGenerateSeedRuns(t *testing.T) {
	assert := assert.New(t)

	lay := DefaultLayout()
	sh := sheet.NewSheet(lay.Geometry())
	ref, err := sh.ParseRef("B2")
	assert.NoError(err)
	assert.NoError(sh.Commit(ref, "1.25"))
	ref, err = sh.ParseRef("A1")
	assert.NoError(err)
	assert.NoError(sh.Commit(ref, "=B2"))
	sh.Recalc()

	img, err := Generate(lay, sh)
	assert.NoError(err)

	// B2's number record travels as its own run: dest, length, then the
	// six record bytes.
	assert.True(img.Contains([]byte{
		0x66, 0x20, 0x06, 0x00,
		1, 0, 0x00, 0x00, 0x01, 0x25,
	}))

	// A1's formula body and cache are in the heap run at the heap base.
	assert.True(img.Contains([]byte{
		0x00, 0x39, 0x08, 0x00,
		'B', '2', 0, 0, 0x00, 0x00, 0x01, 0x25,
	}))

	// The heap pointer variable is seeded past the used bytes.
	v := allotVars(lay.VarBase)
	assert.True(img.Contains([]byte{
		byte(v.heapPtr), byte(v.heapPtr >> 8), 0x02, 0x00,
		0x08, 0x39,
	}))
}
