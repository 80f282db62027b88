// Package vendorhid implements the USB HID transport for the Tridonic-style
// DALI USB bridge (vendor 0x17B5, product 0x0020), whose packet format was
// reverse-engineered by USB traffic capture rather than published by the
// vendor.
package vendorhid

import "fmt"

const (
	VendorID  = 0x17b5
	ProductID = 0x0020

	outboundPacketSize = 64
	inboundPacketSize  = 16

	sourceSelf     = 0x12
	sourceExternal = 0x11
)

// packetType is the inbound packet's byte [1], classifying what kind of
// event the bridge is reporting.
type packetType uint8

const (
	typeNAK               packetType = 0x71
	typeResponse          packetType = 0x72
	typeTransmitComplete  packetType = 0x73
	typeBroadcastReceived packetType = 0x74
	typeTransmitComplete2 packetType = 0x76
	typeFramingError      packetType = 0x77
)

// buildPacket encodes one outbound frame into a 64-byte HID report. length
// must be 16, 24, or 25; repeat is 1 (send once) or 2 (send twice on the
// wire, required for DALI configuration commands).
func buildPacket(seq uint8, length int, value uint32, repeat int) ([]byte, error) {
	pkt := make([]byte, outboundPacketSize)
	pkt[0] = sourceSelf
	pkt[1] = seq
	if repeat == 2 {
		pkt[2] = 0x20
	}

	switch length {
	case 16:
		pkt[3] = 0x03
	case 24:
		pkt[3] = 0x04
		pkt[5] = byte(value >> 16)
	case 25:
		pkt[3] = 0x06
		pkt[5] = byte(value >> 16)
	default:
		return nil, fmt.Errorf("vendorhid: invalid frame length %d", length)
	}

	pkt[6] = byte(value >> 8)
	pkt[7] = byte(value)
	return pkt, nil
}

// decodedPacket is the parsed form of one inbound HID report, before it is
// turned into a dalicore.Message by the caller (which needs access to the
// addr/command packages vendorhid does not import, to avoid a dependency
// cycle through dalicore).
type decodedPacket struct {
	fromSelf  bool
	pktType   packetType
	highByte  byte
	midByte   byte
	lowByte   byte
	seq       uint8
}

func parsePacket(data []byte) (*decodedPacket, error) {
	if len(data) < 9 {
		return nil, fmt.Errorf("vendorhid: short inbound packet (%d bytes)", len(data))
	}
	src := data[0]
	if src != sourceSelf && src != sourceExternal {
		return nil, fmt.Errorf("vendorhid: unrecognised source byte 0x%02X", src)
	}
	return &decodedPacket{
		fromSelf: src == sourceSelf,
		pktType:  packetType(data[1]),
		highByte: data[3],
		midByte:  data[4],
		lowByte:  data[5],
		seq:      data[8],
	}, nil
}
