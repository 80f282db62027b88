package gear

import (
	"context"

	"github.com/go-dali/dalidrv/pkg/bus"
	"github.com/go-dali/dalidrv/pkg/productinfo"
)

// Model is the fixed-size logical view of a bus: exactly 64 gear slots and
// 16 group slots, regardless of how many are actually populated. Slot
// absence is represented by Gear.Present == false, never by omitting the
// slot, per the data model invariant.
type Model struct {
	Gears  [64]*Gear
	Groups [16]*Group
}

// NewModel allocates a fresh, empty Model bound to t. pi is an optional
// product-info cache consulted during Scan; pass nil to disable it.
func NewModel(t *bus.Transceiver, pi *productinfo.Cache) *Model {
	m := &Model{}
	for i := range m.Gears {
		m.Gears[i] = NewGear(t, uint8(i), pi)
	}
	for i := range m.Groups {
		m.Groups[i] = NewGroup(t, uint8(i))
	}
	return m
}

// PresentGear returns every gear slot currently known to be occupied.
func (m *Model) PresentGear() []*Gear {
	var out []*Gear
	for _, g := range m.Gears {
		if g.Present {
			out = append(out, g)
		}
	}
	return out
}

// PresentGroups returns every group with at least one member.
func (m *Model) PresentGroups() []*Group {
	var out []*Group
	for _, g := range m.Groups {
		if g.HasGear() {
			out = append(out, g)
		}
	}
	return out
}

// Scan queries every short address for device presence and identity, then
// derives group membership from the refreshed gear table.
func (m *Model) Scan(ctx context.Context) error {
	for _, g := range m.Gears {
		if err := g.FetchDeviceInfo(ctx); err != nil {
			return err
		}
	}
	for _, grp := range m.Groups {
		grp.RefreshMembers(m.Gears[:])
	}
	return nil
}
