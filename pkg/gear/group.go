package gear

import (
	"context"

	"github.com/go-dali/dalidrv/pkg/bus"
	"github.com/go-dali/dalidrv/pkg/dalicore/addr"
	"github.com/go-dali/dalidrv/pkg/dalicore/command"
)

// Group is one of the 16 logical group addresses. Membership is derived by
// scanning every gear's group bitmap, never stored independently, since the
// gear's bitmap is the authoritative source per the data model.
type Group struct {
	Number  uint8
	Members []*Gear

	t *bus.Transceiver
}

func NewGroup(t *bus.Transceiver, n uint8) *Group {
	return &Group{Number: n, t: t}
}

func (g *Group) address() addr.Address {
	a, err := addr.NewGroup(g.Number)
	if err != nil {
		panic(err)
	}
	return a
}

// RefreshMembers rescans gears for membership in this group, given the full
// current gear slot table.
func (g *Group) RefreshMembers(gears []*Gear) {
	mask := uint16(1) << g.Number
	g.Members = g.Members[:0]
	for _, gr := range gears {
		if gr.Present && gr.Groups&mask != 0 {
			g.Members = append(g.Members, gr)
		}
	}
}

// HasGear reports whether any gear currently belongs to this group.
func (g *Group) HasGear() bool { return len(g.Members) > 0 }

// MinLevel and MaxLevel derive from the first member, falling back to the
// DALI-wide default range when the group is empty.
func (g *Group) MinLevel() uint8 {
	if len(g.Members) == 0 {
		return 1
	}
	return g.Members[0].MinLevel
}

func (g *Group) MaxLevel() uint8 {
	if len(g.Members) == 0 {
		return 254
	}
	return g.Members[0].MaxLevel
}

func (g *Group) sendCmd(ctx context.Context, cmd command.Code) (bus.Result, error) {
	return g.t.SendCmd(ctx, g.address(), cmd, 1)
}

func (g *Group) On(ctx context.Context) error {
	_, err := g.sendCmd(ctx, command.GoToLastActiveLevel)
	return err
}

func (g *Group) Off(ctx context.Context) error {
	_, err := g.sendCmd(ctx, command.Off)
	return err
}

func (g *Group) Max(ctx context.Context) error {
	_, err := g.sendCmd(ctx, command.RecallMaxLevel)
	return err
}

func (g *Group) Min(ctx context.Context) error {
	_, err := g.sendCmd(ctx, command.RecallMinLevel)
	return err
}

func (g *Group) Brighten(ctx context.Context) error {
	_, err := g.sendCmd(ctx, command.Up)
	return err
}

func (g *Group) Dim(ctx context.Context) error {
	_, err := g.sendCmd(ctx, command.Down)
	return err
}

func (g *Group) Brightness(ctx context.Context, level uint8) error {
	_, err := g.t.SendDirectArcPower(ctx, g.address(), level)
	return err
}

// UpdateLevel delegates to the first member, per the group data model.
func (g *Group) UpdateLevel(ctx context.Context) (uint8, error) {
	if len(g.Members) == 0 {
		return 0, nil
	}
	if err := g.Members[0].UpdateLevel(ctx); err != nil {
		return 0, err
	}
	return g.Members[0].Level, nil
}
