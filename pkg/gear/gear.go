// Package gear models the logical gear and group state of a DALI bus: their
// identity, group membership, dimming level, and the high-level operations
// built on top of the bus package's raw send primitives.
package gear

import (
	"context"
	"fmt"

	"github.com/go-dali/dalidrv/pkg/bus"
	"github.com/go-dali/dalidrv/pkg/dalicore/addr"
	"github.com/go-dali/dalidrv/pkg/dalicore/command"
	"github.com/go-dali/dalidrv/pkg/productinfo"
)

// Type is one of the nine DALI device-type categories reported by
// QueryDeviceType.
type Type uint8

const (
	TypeFluorescentLamp Type = iota
	TypeEmergencyLighting
	TypeHIDLamp
	TypeLowVoltageHalogen
	TypeIncandescentDimmer
	TypeDCControlledDimmer
	TypeLEDLamp
	TypeRelay
	TypeColour
)

// Fade packs the fade-time and fade-rate nibbles returned by
// QueryFadeTimeFadeRate.
type Fade struct {
	Time uint8
	Rate uint8
}

// Info is the device-identity information read from memory bank 0 during a
// scan.
type Info struct {
	LastMemoryBank    uint8
	GTIN              uint64
	FirmwareVersion   string
	Serial            string
	HardwareVersion   string
	DALIVersion       uint8
	LogicalUnitCount  uint8
	LogicalGearCount  uint8
	ControlIndex      uint8

	// Product is the optional product-database record for GTIN, populated
	// only when a product-info cache was supplied to NewModel/NewGear and
	// the lookup found a match. Its absence is never an error.
	Product *productinfo.Record
}

// Gear is one of the 64 logical gear slots a Transceiver tracks. A slot with
// Present == false did not answer QueryDeviceType on its most recent
// FetchDeviceInfo, or has not been fetched yet.
type Gear struct {
	ShortAddress uint8
	Present      bool
	Type         Type
	Info         Info
	Groups       uint16
	MinLevel     uint8
	MaxLevel     uint8
	Level        uint8

	t  *bus.Transceiver
	pi *productinfo.Cache
}

// NewGear constructs the (initially absent) gear slot for short address s. pi
// may be nil, disabling product-info enrichment during FetchDeviceInfo.
func NewGear(t *bus.Transceiver, s uint8, pi *productinfo.Cache) *Gear {
	return &Gear{ShortAddress: s, t: t, pi: pi}
}

// address returns this gear's wire address, short-circuiting the error path
// since ShortAddress is always constructed in range.
func (g *Gear) address() addr.Address {
	a, err := addr.NewShort(g.ShortAddress)
	if err != nil {
		panic(err)
	}
	return a
}

// UniqueID combines GTIN, serial, and control index, which DALI defines as
// globally unique and immutable for a logical gear.
func (g *Gear) UniqueID() (string, error) {
	if !g.Present {
		return "", fmt.Errorf("gear: device info not fetched for short address %d", g.ShortAddress)
	}
	return fmt.Sprintf("%d-%s-%d", g.Info.GTIN, g.Info.Serial, g.Info.ControlIndex), nil
}

func (g *Gear) sendCmd(ctx context.Context, cmd command.Code) (bus.Result, error) {
	return g.t.SendCmd(ctx, g.address(), cmd, 1)
}

// FetchDeviceInfo queries device type, memory bank 0, group membership, and
// level/min/max, populating Info and leaving Present false if the gear does
// not respond to QueryDeviceType (i.e. the slot is unoccupied).
func (g *Gear) FetchDeviceInfo(ctx context.Context) error {
	res, err := g.sendCmd(ctx, command.QueryDeviceType)
	if err != nil {
		return err
	}
	if !res.Present {
		g.Present = false
		return nil
	}
	g.Present = true
	g.Type = Type(res.Value)

	buf, err := g.readMemory(ctx, 0, 2, 25)
	if err != nil {
		return err
	}
	g.Info = parseBank0(buf)

	// Product-info enrichment is best-effort: a lookup failure or a miss
	// never fails the scan, per the side channel's non-fatal contract.
	if g.pi != nil {
		if rec, found, err := g.pi.Fetch(ctx, g.Info.GTIN); err == nil && found {
			g.Info.Product = rec
		}
	}

	g0, err := g.sendCmd(ctx, command.QueryGroupsZeroToSeven)
	if err != nil {
		return err
	}
	g1, err := g.sendCmd(ctx, command.QueryGroupsEightToFifteen)
	if err != nil {
		return err
	}
	g.Groups = uint16(g1.Value)<<8 | uint16(g0.Value)

	min, err := g.sendCmd(ctx, command.QueryMinLevel)
	if err != nil {
		return err
	}
	g.MinLevel = min.Value

	max, err := g.sendCmd(ctx, command.QueryMaxLevel)
	if err != nil {
		return err
	}
	g.MaxLevel = max.Value

	return g.UpdateLevel(ctx)
}

// UpdateLevel refreshes Level from QueryActualLevel.
func (g *Gear) UpdateLevel(ctx context.Context) error {
	res, err := g.sendCmd(ctx, command.QueryActualLevel)
	if err != nil {
		return err
	}
	g.Level = res.Value
	return nil
}

// MatchesAddress reports whether a matches this gear, per the address
// classification rules in pkg/dalicore/addr.
func (g *Gear) MatchesAddress(a addr.Address) bool {
	return a.MatchesGear(g.ShortAddress, g.Groups)
}

// On recalls the last active level. Sending the bare On command does not
// work reliably on common LED ballasts, so this is what most DALI drivers
// actually do.
func (g *Gear) On(ctx context.Context) error {
	_, err := g.sendCmd(ctx, command.GoToLastActiveLevel)
	return err
}

func (g *Gear) Off(ctx context.Context) error {
	_, err := g.sendCmd(ctx, command.Off)
	return err
}

func (g *Gear) Max(ctx context.Context) error {
	_, err := g.sendCmd(ctx, command.RecallMaxLevel)
	return err
}

func (g *Gear) Min(ctx context.Context) error {
	_, err := g.sendCmd(ctx, command.RecallMinLevel)
	return err
}

func (g *Gear) Brighten(ctx context.Context) error {
	_, err := g.sendCmd(ctx, command.Up)
	return err
}

func (g *Gear) Dim(ctx context.Context) error {
	_, err := g.sendCmd(ctx, command.Down)
	return err
}

// Brightness sets the level directly via direct arc power.
func (g *Gear) Brightness(ctx context.Context, level uint8) error {
	_, err := g.t.SendDirectArcPower(ctx, g.address(), level)
	return err
}

// Toggle queries the current level and turns the gear off if lit, on
// (recall last active level) if dark.
func (g *Gear) Toggle(ctx context.Context) error {
	if err := g.UpdateLevel(ctx); err != nil {
		return err
	}
	if g.Level == 0 {
		return g.On(ctx)
	}
	return g.Off(ctx)
}

// QueryFade returns the gear's fade time/rate pair.
func (g *Gear) QueryFade(ctx context.Context) (Fade, error) {
	res, err := g.sendCmd(ctx, command.QueryFadeTimeFadeRate)
	if err != nil {
		return Fade{}, err
	}
	return Fade{Time: res.Value >> 4, Rate: res.Value & 0x0F}, nil
}

func (g *Gear) QueryPowerOnLevel(ctx context.Context) (uint8, error) {
	res, err := g.sendCmd(ctx, command.QueryPowerOnLevel)
	if err != nil {
		return 0, err
	}
	return res.Value, nil
}

// SetPowerOnLevel programs the level used at next power-on. Per the resolved
// Open Question on repeat semantics, the repeat-required SetPowerOnLevel
// send uses the transport's repeat-twice flag rather than two independent
// sends, so the two repetitions are guaranteed to land within the 100ms
// window DALI requires.
func (g *Gear) SetPowerOnLevel(ctx context.Context, level uint8) error {
	if _, err := g.t.SendSpecialCmd(ctx, command.SetDTR0, level, 1); err != nil {
		return err
	}
	_, err := g.t.SendCmd(ctx, g.address(), command.SetPowerOnLevel, 2)
	return err
}

func (g *Gear) QueryPhysicalMinimum(ctx context.Context) (uint8, error) {
	res, err := g.sendCmd(ctx, command.QueryPhysicalMinimum)
	if err != nil {
		return 0, err
	}
	return res.Value, nil
}

func (g *Gear) QueryStatus(ctx context.Context) (uint8, error) {
	res, err := g.sendCmd(ctx, command.QueryStatus)
	if err != nil {
		return 0, err
	}
	return res.Value, nil
}

func (g *Gear) QueryLampFailure(ctx context.Context) (bool, error) {
	res, err := g.sendCmd(ctx, command.QueryLampFailure)
	if err != nil {
		return false, err
	}
	return res.Present, nil
}
