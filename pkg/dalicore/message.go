package dalicore

import "github.com/go-dali/dalidrv/pkg/dalicore/addr"

// Source distinguishes frames this process transmitted from frames observed
// originating elsewhere on the bus.
type Source int

const (
	SourceExternal Source = iota
	SourceSelf
)

// MessageKind discriminates the inbound message variants a transceiver may
// deliver to the correlator and to subscribed observers.
type MessageKind int

const (
	KindNAK MessageKind = iota
	KindNumericResponse
	KindFramingError
	KindSpecialCommand
	KindAddressedCommand
	KindDirectArcPower
	KindTransmitComplete
	KindBadFrame
)

// Message is a decoded inbound DALI message. Only the fields relevant to
// Kind are populated; see the field comments.
type Message struct {
	Src Source
	Seq uint8 // 0 for externally observed frames, 1..255 for self-originated

	MsgKind MessageKind

	// Value holds the numeric response byte for KindNumericResponse, the raw
	// packet type byte for KindTransmitComplete, the level for
	// KindDirectArcPower, or the operand byte for KindSpecialCommand.
	Value uint8

	// Addr is populated for KindAddressedCommand / KindDirectArcPower. Cmd
	// holds the command byte for KindAddressedCommand and the opcode for
	// KindSpecialCommand.
	Addr addr.Address
	Cmd  uint8

	// Raw holds the undecoded packet for KindBadFrame.
	Raw []byte
}

func (m Message) IsSelf() bool { return m.Src == SourceSelf }
