// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"io"
	"sync"
)

// Status register bits, as the firmware's polling loops read them.
const (
	StatusRxFull  = byte(0x01) // a received byte is waiting
	StatusTxEmpty = byte(0x02) // the transmitter can take a byte
)

// Acia models the machine's serial port: one status port, one data
// port, in the style of the MC6850. Reception is a queue filled by
// Feed, safe to call from another goroutine while the CPU runs.
// Transmission either streams to Output or, when Output is nil, is
// captured for Sent. The transmitter is always ready; this is a
// simulation, the wire has no baud rate.
type Acia struct {
	Output io.Writer // live sink for transmitted bytes, nil to capture

	mu sync.Mutex
	rx []byte
	tx []byte
}

// Feed queues received bytes for the firmware to read.
func (ac *Acia) Feed(data []byte) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.rx = append(ac.rx, data...)
}

// FeedString queues a keystroke sequence.
func (ac *Acia) FeedString(text string) {
	ac.Feed([]byte(text))
}

// Status returns the status register value.
func (ac *Acia) Status() (status byte) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	status = StatusTxEmpty
	if len(ac.rx) > 0 {
		status |= StatusRxFull
	}
	return
}

// ReadData pops the next received byte; 0 when nothing is waiting.
func (ac *Acia) ReadData() (value byte) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	if len(ac.rx) == 0 {
		return 0
	}
	value = ac.rx[0]
	ac.rx = ac.rx[1:]
	return
}

// WriteData transmits one byte.
func (ac *Acia) WriteData(value byte) {
	if ac.Output != nil {
		ac.Output.Write([]byte{value})
		return
	}
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.tx = append(ac.tx, value)
}

// Sent returns everything transmitted so far when no Output is wired.
func (ac *Acia) Sent() []byte {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	return ac.tx
}
