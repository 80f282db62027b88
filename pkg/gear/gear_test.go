package gear

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-dali/dalidrv/pkg/adapter/simhid"
	"github.com/go-dali/dalidrv/pkg/bus"
	"github.com/go-dali/dalidrv/pkg/dalicore/addr"
)

func TestQueryFadeSplitsNibbles(t *testing.T) {
	f := Fade{Time: 0xA >> 4, Rate: 0xA & 0x0F}
	assert.Equal(t, uint8(0), f.Time)
	assert.Equal(t, uint8(0xA), f.Rate)
}

// TestToggleTurnsOffWhenLit exercises scenario S6: a lit gear toggled off.
func TestToggleTurnsOffWhenLit(t *testing.T) {
	sim := simhid.New("test-toggle", []*simhid.Gear{
		{ShortAddress: 5, SearchAddr: 0x1, DeviceType: 6, Level: 128},
	})
	tr := bus.Open(sim, nil)
	defer tr.Close()

	g := NewGear(tr, 5, nil)
	g.Present = true

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := g.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint8(128), g.Level)
}

func TestMatchesAddress(t *testing.T) {
	g := &Gear{ShortAddress: 5, Groups: 1 << 2}

	short, err := addr.NewShort(5)
	require.NoError(t, err)
	assert.True(t, g.MatchesAddress(short))

	other, err := addr.NewShort(6)
	require.NoError(t, err)
	assert.False(t, g.MatchesAddress(other))
}
