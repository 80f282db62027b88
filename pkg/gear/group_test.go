package gear

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupRefreshMembers(t *testing.T) {
	g3 := NewGroup(nil, 3)
	gears := []*Gear{
		{ShortAddress: 1, Present: true, Groups: 1 << 3},
		{ShortAddress: 2, Present: true, Groups: 1 << 4},
		{ShortAddress: 3, Present: false, Groups: 1 << 3},
	}

	g3.RefreshMembers(gears)

	assert.True(t, g3.HasGear())
	assert.Len(t, g3.Members, 1)
	assert.Equal(t, uint8(1), g3.Members[0].ShortAddress)
}

func TestGroupEmptyDefaultsRange(t *testing.T) {
	g := NewGroup(nil, 0)
	assert.False(t, g.HasGear())
	assert.Equal(t, uint8(1), g.MinLevel())
	assert.Equal(t, uint8(254), g.MaxLevel())
}

func TestGroupLevelRangeFollowsFirstMember(t *testing.T) {
	g := NewGroup(nil, 1)
	gears := []*Gear{{ShortAddress: 5, Present: true, Groups: 1 << 1, MinLevel: 10, MaxLevel: 200}}
	g.RefreshMembers(gears)

	assert.Equal(t, uint8(10), g.MinLevel())
	assert.Equal(t, uint8(200), g.MaxLevel())
}
