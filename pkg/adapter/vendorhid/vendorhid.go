package vendorhid

import (
	"context"
	"fmt"

	usb "github.com/daedaluz/gousb"
	"github.com/daedaluz/gousb/hid"

	"github.com/go-dali/dalidrv/pkg/adapter"
)

// Device is a vendorhid Adapter backed by a real USB HID bridge.
type Device struct {
	hid    *hid.Device
	serial string
}

// Discover enumerates attached bridges matching VendorID/ProductID and
// returns their Identity without opening them.
func Discover() ([]adapter.Identity, error) {
	devices, err := usb.FindDevices(func(d *usb.Device) bool {
		desc := d.GetDeviceDescriptor()
		return desc.IDVendor == VendorID && desc.IDProduct == ProductID
	})
	if err != nil {
		return nil, fmt.Errorf("vendorhid: enumerate: %w", err)
	}

	var ids []adapter.Identity
	for _, d := range devices {
		if err := d.Open(); err != nil {
			continue
		}
		desc := d.GetDeviceDescriptor()
		serial, err := d.GetStringDescriptor(desc.ISerialNumber)
		d.Close()
		if err != nil {
			continue
		}
		ids = append(ids, adapter.Identity{Vendor: desc.IDVendor, Product: desc.IDProduct, Serial: serial})
	}
	return ids, nil
}

// Open opens the bridge identified by id and returns it as an adapter.Adapter.
func Open(id adapter.Identity) (adapter.Adapter, error) {
	devices, err := usb.FindDevices(func(d *usb.Device) bool {
		desc := d.GetDeviceDescriptor()
		return desc.IDVendor == id.Vendor && desc.IDProduct == id.Product
	})
	if err != nil {
		return nil, fmt.Errorf("vendorhid: enumerate: %w", err)
	}

	for _, d := range devices {
		if err := d.Open(); err != nil {
			continue
		}
		desc := d.GetDeviceDescriptor()
		serial, err := d.GetStringDescriptor(desc.ISerialNumber)
		if err != nil || serial != id.Serial {
			d.Close()
			continue
		}
		return &Device{hid: hid.NewHIDDevice(d), serial: serial}, nil
	}
	return nil, fmt.Errorf("vendorhid: no bridge matching serial %q", id.Serial)
}

func (d *Device) WritePacket(ctx context.Context, pkt []byte) error {
	_, err := d.hid.Write(pkt)
	if err != nil {
		return fmt.Errorf("vendorhid: write: %w", err)
	}
	return nil
}

func (d *Device) ReadPacket(ctx context.Context) ([]byte, error) {
	buf := make([]byte, inboundPacketSize)
	n, err := d.hid.Read(buf)
	if err != nil {
		// A read timeout on the bridge is normal idle behaviour, not a
		// transport failure; the caller treats (nil, nil) as "nothing this
		// cycle" per the adapter.Adapter contract.
		return nil, nil
	}
	if n == 0 {
		return nil, nil
	}
	return buf[:n], nil
}

func (d *Device) Serial() string { return d.serial }

func (d *Device) Close() error {
	return d.hid.Close()
}

// EncodeOutbound builds the raw HID report for one DALI frame send.
func EncodeOutbound(seq uint8, length int, value uint32, repeat int) ([]byte, error) {
	return buildPacket(seq, length, value, repeat)
}

// DecodeInbound parses one raw HID report into its component fields, for the
// bus package to turn into a dalicore.Message.
type Inbound = decodedPacket

func DecodeInbound(data []byte) (*Inbound, error) {
	return parsePacket(data)
}

func (p *Inbound) FromSelf() bool   { return p.fromSelf }
func (p *Inbound) HighByte() byte   { return p.highByte }
func (p *Inbound) MidByte() byte    { return p.midByte }
func (p *Inbound) LowByte() byte    { return p.lowByte }
func (p *Inbound) Seq() uint8       { return p.seq }
func (p *Inbound) IsNAK() bool      { return p.pktType == typeNAK }
func (p *Inbound) IsResponse() bool { return p.pktType == typeResponse }
func (p *Inbound) IsFramingError() bool {
	return p.pktType == typeFramingError
}
func (p *Inbound) IsTransmitComplete() bool {
	return p.pktType == typeTransmitComplete || p.pktType == typeTransmitComplete2
}
func (p *Inbound) IsBroadcastReceived() bool { return p.pktType == typeBroadcastReceived }
func (p *Inbound) RawType() uint8            { return uint8(p.pktType) }
