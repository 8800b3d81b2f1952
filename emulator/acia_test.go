// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAciaStatus(t *testing.T) {
	assert := assert.New(t)

	ac := &Acia{}
	assert.Equal(StatusTxEmpty, ac.Status())

	ac.FeedString("a")
	assert.Equal(StatusTxEmpty|StatusRxFull, ac.Status())

	assert.Equal(byte('a'), ac.ReadData())
	assert.Equal(StatusTxEmpty, ac.Status())

	// Reading past the queue yields zero, not a stall.
	assert.Equal(byte(0), ac.ReadData())
}

func TestAciaQueueOrder(t *testing.T) {
	assert := assert.New(t)

	ac := &Acia{}
	ac.FeedString("ok")
	ac.Feed([]byte{0x1B})
	assert.Equal(byte('o'), ac.ReadData())
	assert.Equal(byte('k'), ac.ReadData())
	assert.Equal(byte(0x1B), ac.ReadData())
}

func TestAciaCapture(t *testing.T) {
	assert := assert.New(t)

	ac := &Acia{}
	ac.WriteData('h')
	ac.WriteData('i')
	assert.Equal([]byte("hi"), ac.Sent())
}

func TestAciaOutputWriter(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	ac := &Acia{Output: &buf}
	ac.WriteData('x')
	ac.WriteData('y')
	assert.Equal("xy", buf.String())
	assert.Empty(ac.Sent())
}
