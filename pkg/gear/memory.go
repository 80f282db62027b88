package gear

import (
	"context"
	"fmt"

	"github.com/go-dali/dalidrv/pkg/dalicore/command"
)

// readMemory sets DTR1/DTR0 to select bank and offset, then reads num bytes
// one at a time via ReadMemoryLocation, as DALI memory banks offer no
// multi-byte burst read.
func (g *Gear) readMemory(ctx context.Context, bank, offset uint8, num int) ([]byte, error) {
	if _, err := g.t.SendSpecialCmd(ctx, command.SetDTR1, bank, 1); err != nil {
		return nil, err
	}
	if _, err := g.t.SendSpecialCmd(ctx, command.SetDTR0, offset, 1); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, num)
	for i := 0; i < num; i++ {
		res, err := g.sendCmd(ctx, command.ReadMemoryLocation)
		if err != nil {
			return nil, err
		}
		if !res.Present {
			return nil, fmt.Errorf("gear: got no response reading memory bank %d offset %d", bank, offset+uint8(i))
		}
		buf = append(buf, res.Value)
	}
	return buf, nil
}

// parseBank0 decodes the 25-byte window starting at memory bank 0 offset 2,
// per the layout documented by the DALI memory bank 0 specification:
// last-memory-bank, 48-bit GTIN, firmware version, serial number, hardware
// version, DALI version, and logical unit/gear counts.
func parseBank0(buf []byte) Info {
	var info Info
	if len(buf) < 25 {
		return info
	}

	info.LastMemoryBank = buf[0]

	var gtin uint64
	for _, b := range buf[1:7] {
		gtin = gtin<<8 | uint64(b)
	}
	info.GTIN = gtin

	info.FirmwareVersion = fmt.Sprintf("%d.%d", buf[7], buf[8])
	info.Serial = fmt.Sprintf("%02x%02x%02x%02x%02x.%02x%02x%02x",
		buf[13], buf[12], buf[11], buf[10], buf[9], buf[16], buf[15], buf[14])
	info.HardwareVersion = fmt.Sprintf("%d.%d", buf[17], buf[18])
	info.DALIVersion = buf[19]

	info.LogicalUnitCount = buf[22]
	info.LogicalGearCount = buf[23]
	info.ControlIndex = buf[24]

	return info
}
