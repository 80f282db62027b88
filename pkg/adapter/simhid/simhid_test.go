package simhid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryDeviceTypeRespondsForKnownGear(t *testing.T) {
	d := New("sim", []*Gear{{ShortAddress: 4, DeviceType: 6}})
	pkt := make([]byte, 64)
	pkt[1] = 9
	pkt[3] = 0x03
	pkt[5], pkt[6], pkt[7] = 0, (4<<1)|1, 0x99

	require.NoError(t, d.WritePacket(context.Background(), pkt))

	reply, err := d.ReadPacket(context.Background())
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Equal(t, byte(0x72), reply[1]) // typeResponse
	assert.Equal(t, byte(6), reply[5])
}

func TestQueryDeviceTypeNAKsForUnknownGear(t *testing.T) {
	d := New("sim", []*Gear{{ShortAddress: 4, DeviceType: 6}})
	pkt := make([]byte, 64)
	pkt[1] = 1
	pkt[3] = 0x03
	pkt[5], pkt[6], pkt[7] = 0, (9<<1)|1, 0x99

	require.NoError(t, d.WritePacket(context.Background(), pkt))

	reply, err := d.ReadPacket(context.Background())
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Equal(t, byte(0x71), reply[1]) // typeNAK
}

func TestReadPacketNonBlockingWhenEmpty(t *testing.T) {
	d := New("sim", nil)
	pkt, err := d.ReadPacket(context.Background())
	require.NoError(t, err)
	assert.Nil(t, pkt)
}

func TestDirectArcPowerSetsLevel(t *testing.T) {
	d := New("sim", []*Gear{{ShortAddress: 1}})
	pkt := make([]byte, 64)
	pkt[1] = 1
	pkt[3] = 0x03
	pkt[5], pkt[6], pkt[7] = 0, 1<<1, 200 // even mid byte: DAPC, not a command

	require.NoError(t, d.WritePacket(context.Background(), pkt))
	assert.Equal(t, uint8(200), d.gears[0].Level)
}
