// Package rig drives a mechanical fretting rig over a serial link. Every
// change is sent as a full-state frame.
package rig

import (
	"errors"
	"fmt"
)

const (
	OpenFret      = 255
	MaxStrings    = 8 // StrumMask is one byte
	CmdApplyFrame = 0x10
	SOF0          = 0xAA
	SOF1          = 0x55
)

// ErrBadFrame is returned by Decode for malformed input.
var ErrBadFrame = errors.New("rig: bad frame")

// Frame is a full-state snapshot of every string.
type Frame struct {
	Fret      []byte // fret number per string, OpenFret = open/muted
	StrumMask byte   // bit N set = strum string N
	ProfileID byte
	Duration  byte
	Seq       byte
}

// NewFrame returns a frame with every string open and nothing strummed.
func NewFrame(strings int) Frame {
	f := Frame{Fret: make([]byte, strings)}
	for i := range f.Fret {
		f.Fret[i] = OpenFret
	}
	return f
}

// Encode builds the on-wire representation:
//
//	[SOF0][SOF1][LEN][CMD][fret0..N-1][StrumMask][ProfileID][Duration][Seq][CKS]
//
// LEN counts CMD and the payload; CKS is the XOR of LEN, CMD and the payload.
func (f *Frame) Encode() []byte {
	payload := make([]byte, 0, len(f.Fret)+4)
	payload = append(payload, f.Fret...)
	payload = append(payload, f.StrumMask, f.ProfileID, f.Duration, f.Seq)

	length := byte(len(payload) + 1) // +1 for CMD byte
	cks := length ^ CmdApplyFrame
	for _, b := range payload {
		cks ^= b
	}

	out := []byte{SOF0, SOF1, length, CmdApplyFrame}
	out = append(out, payload...)
	out = append(out, cks)
	return out
}

// Decode parses one encoded frame.
func Decode(b []byte) (Frame, error) {
	if len(b) < 9 || b[0] != SOF0 || b[1] != SOF1 {
		return Frame{}, fmt.Errorf("%w: missing start of frame", ErrBadFrame)
	}
	length := int(b[2])
	if len(b) != length+4 {
		return Frame{}, fmt.Errorf("%w: length %d does not match %d bytes", ErrBadFrame, length, len(b))
	}
	if b[3] != CmdApplyFrame {
		return Frame{}, fmt.Errorf("%w: command 0x%02x", ErrBadFrame, b[3])
	}
	cks := b[2]
	for _, c := range b[3 : len(b)-1] {
		cks ^= c
	}
	if cks != b[len(b)-1] {
		return Frame{}, fmt.Errorf("%w: checksum", ErrBadFrame)
	}
	payload := b[4 : len(b)-1]
	n := len(payload) - 4
	if n < 1 || n > MaxStrings {
		return Frame{}, fmt.Errorf("%w: %d strings", ErrBadFrame, n)
	}
	return Frame{
		Fret:      append([]byte(nil), payload[:n]...),
		StrumMask: payload[n],
		ProfileID: payload[n+1],
		Duration:  payload[n+2],
		Seq:       payload[n+3],
	}, nil
}
