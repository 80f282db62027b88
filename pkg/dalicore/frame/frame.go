// Package frame builds and classifies DALI wire frames: 16-bit standard
// frames, 24-bit extended frames, and 25-bit quiescent control frames.
package frame

import (
	"github.com/go-dali/dalidrv/pkg/dalicore/addr"
	"github.com/go-dali/dalidrv/pkg/dalicore/command"
)

// Length is the bit width of a DALI frame as reported by the adapter's
// frame-length tag byte.
type Length uint8

const (
	Standard   Length = 16
	Extended   Length = 24
	Quiescent  Length = 25
)

// Frame is a fully encoded DALI frame ready for transport, carrying its own
// bit length since 24 and 25-bit frames both occupy three payload bytes on
// the wire but mean different things to the adapter.
type Frame struct {
	Length Length
	Value  uint32
}

// AddressedCommand encodes a standard 16-bit frame carrying a command to an
// address: the address byte's low bit is set to mark it as a command rather
// than a direct-arc-power level, per the Open Question resolved in favour of
// the addr.Code()<<8 form.
func AddressedCommand(a addr.Address, cmd command.Code) Frame {
	addrByte := uint32(a.Code()) | 0x01
	return Frame{Length: Standard, Value: (addrByte << 8) | uint32(cmd)}
}

// DirectArcPower encodes a standard 16-bit frame setting a gear's level directly;
// the address byte's low bit is clear for Short/Group addresses, distinguishing it
// from AddressedCommand. Broadcast's Code() is already 0xFF and is passed through.
func DirectArcPower(a addr.Address, level uint8) Frame {
	addrByte := uint32(a.Code())
	return Frame{Length: Standard, Value: (addrByte << 8) | uint32(level)}
}

// SpecialCommand encodes a standard 16-bit frame carrying a special-command
// opcode and its single operand byte.
func SpecialCommand(code command.SpecialCode, operand uint8) Frame {
	return Frame{Length: Standard, Value: (uint32(code) << 8) | uint32(operand)}
}

const (
	quiescentStart = 0xFFFE1D
	quiescentStop  = 0xFFFE1E
)

// StartQuiescent encodes the 25-bit frame that suppresses background
// application traffic on the bus during commissioning.
func StartQuiescent() Frame { return Frame{Length: Quiescent, Value: quiescentStart} }

// StopQuiescent encodes the corresponding end-of-quiescent frame.
func StopQuiescent() Frame { return Frame{Length: Quiescent, Value: quiescentStop} }

// HighByte, MidByte and LowByte split Value into the three bytes the vendor
// adapter packet format expects for frames wider than 16 bits.
func (f Frame) HighByte() uint8 { return uint8(f.Value >> 16) }
func (f Frame) MidByte() uint8  { return uint8(f.Value >> 8) }
func (f Frame) LowByte() uint8  { return uint8(f.Value) }

// IsCommandFrame reports whether a standard frame's address byte marks it as
// an addressed command (bit 0 set) as opposed to a direct arc power level.
func (f Frame) IsCommandFrame() bool {
	return f.Length == Standard && f.MidByte()&0x01 != 0
}
