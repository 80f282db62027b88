package gear

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-dali/dalidrv/pkg/adapter/simhid"
	"github.com/go-dali/dalidrv/pkg/bus"
	"github.com/go-dali/dalidrv/pkg/productinfo"
)

type fakeProductFetcher struct {
	records map[uint64]*productinfo.Record
}

func (f *fakeProductFetcher) Fetch(_ context.Context, gtin uint64) (*productinfo.Record, error) {
	return f.records[gtin], nil
}

func TestModelScanFindsPresentGearAndSkipsAbsent(t *testing.T) {
	sim := simhid.New("test-model", []*simhid.Gear{
		{ShortAddress: 2, SearchAddr: 0x1, DeviceType: 6, Level: 50, GroupMask: 1 << 4},
	})
	tr := bus.Open(sim, nil)
	defer tr.Close()

	model := NewModel(tr, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	require.NoError(t, model.Scan(ctx))

	present := model.PresentGear()
	require.Len(t, present, 1)
	assert.Equal(t, uint8(2), present[0].ShortAddress)
	assert.Equal(t, Type(6), present[0].Type)
}

func TestModelHasFixedSizeSlots(t *testing.T) {
	model := NewModel(nil, nil)
	assert.Len(t, model.Gears, 64)
	assert.Len(t, model.Groups, 16)
	assert.Empty(t, model.PresentGear())
	assert.Empty(t, model.PresentGroups())
}

func TestModelScanEnrichesWithProductInfo(t *testing.T) {
	sim := simhid.New("test-model-pi", []*simhid.Gear{
		{ShortAddress: 3, SearchAddr: 0x1, DeviceType: 6, Level: 0},
	})
	tr := bus.Open(sim, nil)
	defer tr.Close()

	fetcher := &fakeProductFetcher{records: map[uint64]*productinfo.Record{
		1: {Brand: "Acme", ProductName: "Driver-1"},
	}}
	model := NewModel(tr, productinfo.NewCache(fetcher))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	require.NoError(t, model.Scan(ctx))

	present := model.PresentGear()
	require.Len(t, present, 1)
	require.NotNil(t, present[0].Info.Product)
	assert.Equal(t, "Acme", present[0].Info.Product.Brand)
}
