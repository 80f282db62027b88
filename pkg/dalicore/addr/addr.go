// Package addr implements DALI bus address encoding and classification.
//
// A DALI address byte names one of three disjoint address spaces: a single
// short address (0..63), a group (0..15), or broadcast. The byte layout is
// fixed by IEC 62386 and is never overloaded with command data; the command
// itself travels in the second byte of a standard frame.
package addr

import "fmt"

// Kind distinguishes the three address variants.
type Kind int

const (
	Short Kind = iota
	Group
	Broadcast
)

// Address is a tagged union over the three DALI address variants. It is
// constructed only via NewShort, NewGroup, or Broadcast, never directly.
type Address struct {
	kind  Kind
	value uint8 // short address 0..63, or group 0..15; unused for Broadcast
}

// NewShort returns the address of gear at the given short address.
func NewShort(short uint8) (Address, error) {
	if short > 63 {
		return Address{}, fmt.Errorf("addr: short address %d out of range 0..63", short)
	}
	return Address{kind: Short, value: short}, nil
}

// NewGroup returns the address of the given group.
func NewGroup(group uint8) (Address, error) {
	if group > 15 {
		return Address{}, fmt.Errorf("addr: group %d out of range 0..15", group)
	}
	return Address{kind: Group, value: group}, nil
}

// NewBroadcast returns the all-devices broadcast address.
func NewBroadcast() Address {
	return Address{kind: Broadcast}
}

func (a Address) Kind() Kind { return a.kind }

// Short returns the short address and true if a is a Short address.
func (a Address) Short() (uint8, bool) {
	if a.kind != Short {
		return 0, false
	}
	return a.value, true
}

// Group returns the group number and true if a is a Group address.
func (a Address) Group() (uint8, bool) {
	if a.kind != Group {
		return 0, false
	}
	return a.value, true
}

// Code returns the DALI wire address byte for a, per IEC 62386 addressing:
// short addresses occupy bits 1..6 with bit 0 reserved for the
// direct-arc-power/command discriminator added by the caller, groups set bit
// 7 with bits 5..6 clear, and broadcast is all ones.
func (a Address) Code() uint8 {
	switch a.kind {
	case Short:
		return a.value << 1
	case Group:
		return 0x80 | (a.value << 1)
	case Broadcast:
		return 0xFF
	default:
		panic("addr: invalid address kind")
	}
}

// Decode classifies a received wire address byte. 0xFF decodes as broadcast;
// any other byte in the special-command opcode space
// (IsSpecialCommand(b) == true) is an error rather than an address.
func Decode(b uint8) (Address, error) {
	if b == 0xFF {
		return NewBroadcast(), nil
	}
	if IsSpecialCommand(b) {
		return Address{}, fmt.Errorf("addr: byte 0x%02X is a special command opcode, not an address", b)
	}
	if b&0x80 != 0 {
		return NewGroup((b >> 1) & 0x0F)
	}
	return NewShort((b >> 1) & 0x3F)
}

// IsSpecialCommand reports whether wire byte b belongs to the special-command
// opcode space rather than the address space: both the high bit and at least
// one of bits 5-6 must be set.
func IsSpecialCommand(b uint8) bool {
	return b&0x80 != 0 && b&0x60 != 0
}

// MatchesGear reports whether address a addresses the gear identified by
// shortAddr and the given 16-bit group-membership bitmap (bit N set means
// member of group N).
func (a Address) MatchesGear(shortAddr uint8, groups uint16) bool {
	switch a.kind {
	case Short:
		return a.value == shortAddr
	case Group:
		return groups&(1<<a.value) != 0
	case Broadcast:
		return true
	default:
		return false
	}
}

func (a Address) String() string {
	switch a.kind {
	case Short:
		return fmt.Sprintf("short(%d)", a.value)
	case Group:
		return fmt.Sprintf("group(%d)", a.value)
	case Broadcast:
		return "broadcast"
	default:
		return "invalid"
	}
}
