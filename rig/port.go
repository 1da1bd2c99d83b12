package rig

import (
	"fmt"
	"io"
	"log/slog"

	"go.bug.st/serial"
)

// Port writes frames to a serial device.
type Port struct {
	w   io.WriteCloser
	log *slog.Logger
}

// Open opens the named serial device at the given baud rate.
func Open(name string, baud int, log *slog.Logger) (*Port, error) {
	mode := &serial.Mode{BaudRate: baud}
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s at %d baud: %w", name, baud, err)
	}
	port := NewPort(p, log)
	port.log.Info("serial: port opened", "device", name, "baud", baud)
	return port, nil
}

// NewPort wraps an already open writer.
func NewPort(w io.WriteCloser, log *slog.Logger) *Port {
	if log == nil {
		log = slog.Default()
	}
	return &Port{w: w, log: log}
}

// SendFrame encodes and writes a Frame.
func (p *Port) SendFrame(f Frame) error {
	data := f.Encode()
	n, err := p.w.Write(data)
	if err != nil {
		return fmt.Errorf("serial: write: %w", err)
	}
	p.log.Debug("serial: frame sent", "bytes", n, "seq", f.Seq, "strum_mask", f.StrumMask)
	return nil
}

// Close closes the underlying port.
func (p *Port) Close() error {
	p.log.Info("serial: closing port")
	return p.w.Close()
}
