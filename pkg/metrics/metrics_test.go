package metrics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-dali/dalidrv/pkg/gear"
)

func TestWriteTextIncludesPresentGearAndGroupCounts(t *testing.T) {
	model := gear.NewModel(nil, nil)
	model.Gears[5].Present = true
	model.Gears[5].Level = 128
	model.Gears[5].Type = gear.TypeLEDLamp
	model.Groups[2].Members = []*gear.Gear{model.Gears[5]}

	collector := NewCollector("vendorhid-test", model, func() int { return 3 })

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, collector))

	out := buf.String()
	assert.Contains(t, out, `dali_gear_present{short_address="5",transceiver="vendorhid-test"} 1`)
	assert.Contains(t, out, `dali_gear_level{short_address="5",transceiver="vendorhid-test"} 128`)
	assert.Contains(t, out, `dali_group_member_count{group="2",transceiver="vendorhid-test"} 1`)
	assert.Contains(t, out, `dali_bus_pending_requests{transceiver="vendorhid-test"} 3`)
}

func TestWriteTextOmitsLevelForAbsentGear(t *testing.T) {
	model := gear.NewModel(nil, nil)
	collector := NewCollector("vendorhid-test", model, nil)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, collector))

	out := buf.String()
	assert.Contains(t, out, `dali_gear_present{short_address="0",transceiver="vendorhid-test"} 0`)
	assert.NotContains(t, out, "dali_gear_level")
}
