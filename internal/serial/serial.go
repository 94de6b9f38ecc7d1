// Package serial opens the GNSS receiver's UART in raw mode for
// poll-driven reads: a read returns whatever is buffered and never
// blocks the caller.
package serial

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Port is a raw 8N1 serial device.
type Port struct {
	f *os.File
}

// Open configures the device at the given baud rate.
func Open(device string, baud int) (*Port, error) {
	f, err := openSerial(device, baud)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", device, err)
	}
	return &Port{f: f}, nil
}

// ReadAvailable returns the bytes currently buffered, up to len(p).
// A drained port returns 0 and no error. The zero-byte read a drained
// tty produces surfaces as io.EOF from the file layer; it means "nothing
// yet", not end of stream.
func (p *Port) ReadAvailable(buf []byte) (int, error) {
	n, err := p.f.Read(buf)
	if n > 0 {
		return n, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return 0, nil
	}
	return 0, err
}

func (p *Port) Close() error {
	return p.f.Close()
}
