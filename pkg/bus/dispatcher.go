package bus

import (
	"context"

	"github.com/go-dali/dalidrv/pkg/adapter/vendorhid"
	"github.com/go-dali/dalidrv/pkg/dalicore"
	"github.com/go-dali/dalidrv/pkg/dalicore/addr"
)

// decodeMessage turns one raw inbound HID-format packet into a typed
// dalicore.Message. The vendor HID packet layout is the wire contract
// between this driver and the bridge firmware, shared by the real vendorhid
// transport and the simhid test double, so both are decoded identically
// here regardless of which Adapter produced the bytes.
func decodeMessage(raw []byte) (dalicore.Message, error) {
	p, err := vendorhid.DecodeInbound(raw)
	if err != nil {
		return dalicore.Message{}, err
	}

	src := dalicore.SourceExternal
	if p.FromSelf() {
		src = dalicore.SourceSelf
	}
	msg := dalicore.Message{Src: src, Seq: p.Seq()}

	switch {
	case p.IsNAK():
		msg.MsgKind = dalicore.KindNAK
	case p.IsResponse():
		msg.MsgKind = dalicore.KindNumericResponse
		msg.Value = p.LowByte()
	case p.IsFramingError():
		msg.MsgKind = dalicore.KindFramingError
	case p.IsTransmitComplete():
		msg.MsgKind = dalicore.KindTransmitComplete
		msg.Value = p.RawType()
	case addr.IsSpecialCommand(p.MidByte()):
		msg.MsgKind = dalicore.KindSpecialCommand
		msg.Cmd = p.MidByte()
		msg.Value = p.LowByte()
	case p.MidByte()&0x01 == 0:
		a, decErr := addr.Decode(p.MidByte())
		if decErr != nil {
			return dalicore.Message{}, decErr
		}
		msg.MsgKind = dalicore.KindDirectArcPower
		msg.Addr = a
		msg.Value = p.LowByte()
	default:
		a, decErr := addr.Decode(p.MidByte())
		if decErr != nil {
			return dalicore.Message{}, decErr
		}
		msg.MsgKind = dalicore.KindAddressedCommand
		msg.Addr = a
		msg.Cmd = p.LowByte()
	}
	return msg, nil
}

// readLoop owns the adapter's blocking ReadPacket call exclusively. Each
// decoded message is posted to the transceiver's loop goroutine over inbox;
// it never touches the correlator or gear/group state directly, matching the
// single-writer rule for the loop goroutine.
func (t *Transceiver) readLoop(ctx context.Context) {
	defer close(t.readerDone)
	for {
		select {
		case <-t.stop:
			return
		default:
		}

		raw, err := t.adapter.ReadPacket(ctx)
		if err != nil {
			t.logger.Error("adapter read failed", "error", err)
			select {
			case t.ioErr <- err:
			default:
			}
			return
		}
		if raw == nil {
			continue
		}

		msg, err := decodeMessage(raw)
		if err != nil {
			t.logger.Warn("protocol decode error", "error", err)
			continue
		}

		select {
		case t.inbox <- msg:
		case <-t.stop:
			return
		}
	}
}
