// Package simhid is an in-memory Adapter standing in for a real DALI USB
// bridge, used by tests and by dalictl's --simulate flag so the
// commissioning and gear-scan logic can be exercised without hardware.
package simhid

import (
	"context"
	"sync"

	"github.com/go-dali/dalidrv/pkg/adapter"
)

// Gear is one simulated bus device: its assigned short address (0xFF = none),
// its fixed 24-bit search/random address, and a minimal response surface
// used during commissioning and scanning.
type Gear struct {
	ShortAddress uint8 // 0..63, or 0xFF for unaddressed
	SearchAddr   uint32
	Withdrawn    bool
	DeviceType   uint8
	GroupMask    uint16
	Level        uint8
}

// Device is a simulated DALI bus: a fixed population of Gear plus enough
// protocol state (DTR0, selected search-address bytes) to answer Compare,
// memory-bank reads, and standard commands the way real gear would.
type Device struct {
	mu     sync.Mutex
	serial string
	gears  []*Gear

	dtr0 uint8
	dtr1 uint8

	searchHigh, searchMid, searchLow uint8
	withdrawPending                  bool
	replied                          bool

	inbox chan []byte
}

// New returns a simulated bridge with the given initial gear population.
func New(serial string, gears []*Gear) *Device {
	return &Device{serial: serial, gears: gears, inbox: make(chan []byte, 64)}
}

func (d *Device) Serial() string { return d.serial }
func (d *Device) Close() error   { close(d.inbox); return nil }

// WritePacket interprets one outbound HID-format packet exactly as the real
// bridge's firmware would, and synthesizes whatever inbound packet(s) that
// produces.
func (d *Device) WritePacket(ctx context.Context, pkt []byte) error {
	if len(pkt) < 8 {
		return nil
	}
	seq := pkt[1]
	length := pkt[3]
	high, mid, low := pkt[5], pkt[6], pkt[7]

	d.mu.Lock()
	defer d.mu.Unlock()

	d.replied = false
	switch {
	case length == 0x03 && isSpecialMid(mid):
		d.handleSpecial(seq, mid, low)
	case length == 0x03 && mid&0x01 != 0:
		d.handleAddressedCommand(seq, mid, low)
	case length == 0x03:
		d.handleDirectArcPower(seq, mid, low)
	default:
		_ = high
	}
	// A frame that draws no backward frame from any gear is reported as NAK,
	// so every send the transceiver awaits is resolved.
	if !d.replied {
		d.reply(nakPacket(seq))
	}
	return nil
}

func isSpecialMid(mid byte) bool {
	return mid&0x80 != 0 && mid&0x60 != 0
}

func (d *Device) reply(pkt []byte) {
	d.replied = true
	select {
	case d.inbox <- pkt:
	default:
	}
}

func nakPacket(seq uint8) []byte {
	p := make([]byte, 16)
	p[0] = 0x11
	p[1] = 0x71
	p[8] = seq
	return p
}

func responsePacket(seq, value uint8) []byte {
	p := make([]byte, 16)
	p[0] = 0x11
	p[1] = 0x72
	p[5] = value
	p[8] = seq
	return p
}

func framingErrorPacket(seq uint8) []byte {
	p := make([]byte, 16)
	p[0] = 0x11
	p[1] = 0x77
	p[8] = seq
	return p
}

const (
	specialTerminate   = 0xa1
	specialInitialise  = 0xA5
	specialRandomise   = 0xa7
	specialCompare     = 0xa9
	specialWithdraw    = 0xab
	specialSearchH     = 0xb1
	specialSearchM     = 0xb3
	specialSearchL     = 0xb5
	specialProgramAddr = 0xb7
	specialQueryAddr   = 0xbb
	specialSetDTR0     = 0xa3
	specialSetDTR1     = 0xc3
)

func (d *Device) activeGears() []*Gear {
	var out []*Gear
	for _, g := range d.gears {
		if !g.Withdrawn {
			out = append(out, g)
		}
	}
	return out
}

func (d *Device) handleSpecial(seq, mid, low byte) {
	switch mid {
	case specialTerminate:
		d.withdrawPending = false
	case specialInitialise, specialRandomise:
		// no reply
	case specialSearchH:
		d.searchHigh = low
	case specialSearchM:
		d.searchMid = low
	case specialSearchL:
		d.searchLow = low
	case specialSetDTR0:
		d.dtr0 = low
	case specialSetDTR1:
		d.dtr1 = low
	case specialCompare:
		target := uint32(d.searchHigh)<<16 | uint32(d.searchMid)<<8 | uint32(d.searchLow)
		matches := 0
		for _, g := range d.activeGears() {
			if g.SearchAddr <= target {
				matches++
			}
		}
		switch matches {
		case 0:
			d.reply(nakPacket(seq))
		case 1:
			d.reply(responsePacket(seq, 0xFF))
		default:
			d.reply(framingErrorPacket(seq))
		}
	case specialProgramAddr:
		target := uint32(d.searchHigh)<<16 | uint32(d.searchMid)<<8 | uint32(d.searchLow)
		for _, g := range d.activeGears() {
			if g.SearchAddr == target {
				g.ShortAddress = (low >> 1)
			}
		}
	case specialQueryAddr:
		target := uint32(d.searchHigh)<<16 | uint32(d.searchMid)<<8 | uint32(d.searchLow)
		for _, g := range d.activeGears() {
			if g.SearchAddr == target {
				d.reply(responsePacket(seq, g.ShortAddress<<1|1))
				return
			}
		}
		d.reply(nakPacket(seq))
	case specialWithdraw:
		target := uint32(d.searchHigh)<<16 | uint32(d.searchMid)<<8 | uint32(d.searchLow)
		for _, g := range d.activeGears() {
			if g.SearchAddr == target {
				g.Withdrawn = true
			}
		}
	}
}

func (d *Device) handleAddressedCommand(seq, mid, low byte) {
	target := mid >> 1
	for _, g := range d.gears {
		if g.ShortAddress == target {
			switch low {
			case 0x99: // QueryDeviceType
				d.reply(responsePacket(seq, g.DeviceType))
			case 0xA0: // QueryActualLevel
				d.reply(responsePacket(seq, g.Level))
			case 0xA1: // QueryMaxLevel
				d.reply(responsePacket(seq, 254))
			case 0xA2: // QueryMinLevel
				d.reply(responsePacket(seq, 1))
			case 0xC0: // QueryGroupsZeroToSeven
				d.reply(responsePacket(seq, byte(g.GroupMask)))
			case 0xC1: // QueryGroupsEightToFifteen
				d.reply(responsePacket(seq, byte(g.GroupMask>>8)))
			case 0xC5: // ReadMemoryLocation
				d.replyMemoryByte(seq, g)
			default:
				d.reply(nakPacket(seq))
			}
			return
		}
	}
	d.reply(nakPacket(seq))
}

// replyMemoryByte answers one ReadMemoryLocation read against the currently
// selected bank (DTR1) and offset (DTR0), synthesizing a plausible bank-0
// device-identity block; DTR0 auto-increments after every read, matching the
// addressing behaviour real DALI gear implements.
func (d *Device) replyMemoryByte(seq byte, g *Gear) {
	defer func() { d.dtr0++ }()
	if d.dtr1 != 0 {
		d.reply(nakPacket(seq))
		return
	}
	buf := bank0Image(g)
	if int(d.dtr0) >= len(buf) {
		d.reply(nakPacket(seq))
		return
	}
	d.reply(responsePacket(seq, buf[d.dtr0]))
}

// bank0Image synthesizes the memory bank 0 device-identity block a real
// ballast would report, keyed off the gear's search address so distinct
// simulated gears report distinct identities.
func bank0Image(g *Gear) []byte {
	buf := make([]byte, 27)
	buf[2] = 1 // last addressable memory bank
	for i := 0; i < 6; i++ {
		buf[3+i] = byte(g.SearchAddr >> uint(8*(5-i)))
	}
	buf[9], buf[10] = 1, 0 // firmware 1.0
	for i := 0; i < 8; i++ {
		buf[11+i] = byte(g.SearchAddr >> uint(8*(i%3)))
	}
	buf[19], buf[20] = 1, 0 // hardware 1.0
	buf[21] = 2             // DALI version 2
	buf[24] = 1             // logical unit count
	buf[25] = 1             // logical gear count
	buf[26] = 0             // control index
	return buf
}

func (d *Device) handleDirectArcPower(seq, mid, low byte) {
	target := mid >> 1
	for _, g := range d.gears {
		if g.ShortAddress == target {
			g.Level = low
			return
		}
	}
}

func (d *Device) ReadPacket(ctx context.Context) ([]byte, error) {
	select {
	case pkt, ok := <-d.inbox:
		if !ok {
			return nil, nil
		}
		return pkt, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		return nil, nil
	}
}

var _ adapter.Adapter = (*Device)(nil)
