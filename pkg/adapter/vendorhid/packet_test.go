package vendorhid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPacketStandardFrame(t *testing.T) {
	pkt, err := buildPacket(7, 16, 0x0700, 1)
	require.NoError(t, err)
	assert.Len(t, pkt, outboundPacketSize)
	assert.Equal(t, byte(sourceSelf), pkt[0])
	assert.Equal(t, byte(7), pkt[1])
	assert.Equal(t, byte(0x00), pkt[2])
	assert.Equal(t, byte(0x03), pkt[3])
	assert.Equal(t, byte(0x07), pkt[6])
	assert.Equal(t, byte(0x00), pkt[7])
}

func TestBuildPacketRepeatFlag(t *testing.T) {
	pkt, err := buildPacket(1, 16, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, byte(0x20), pkt[2])
}

func TestBuildPacketExtendedFrame(t *testing.T) {
	pkt, err := buildPacket(1, 24, 0xFFE1D, 1)
	require.NoError(t, err)
	assert.Equal(t, byte(0x04), pkt[3])
	assert.Equal(t, byte(0x0F), pkt[5])
}

func TestBuildPacketInvalidLength(t *testing.T) {
	_, err := buildPacket(1, 17, 0, 1)
	assert.Error(t, err)
}

func inboundPacket(src, pktType, high, mid, low, seq byte) []byte {
	pkt := make([]byte, inboundPacketSize)
	pkt[0] = src
	pkt[1] = pktType
	pkt[3] = high
	pkt[4] = mid
	pkt[5] = low
	pkt[8] = seq
	return pkt
}

// TestParsePacketNumericResponse exercises the packet shape of scenario S3
// (a RESPONSE packet), here carrying value 254 in the low byte and seq 9.
func TestParsePacketNumericResponse(t *testing.T) {
	raw := inboundPacket(sourceSelf, byte(typeResponse), 0, 0, 254, 9)
	p, err := parsePacket(raw)
	require.NoError(t, err)
	assert.True(t, p.IsResponse())
	assert.Equal(t, byte(254), p.LowByte())
	assert.Equal(t, uint8(9), p.Seq())
}

// TestParsePacketFramingError exercises scenario S4.
func TestParsePacketFramingError(t *testing.T) {
	raw := inboundPacket(sourceSelf, byte(typeFramingError), 0, 0, 0, 3)
	p, err := parsePacket(raw)
	require.NoError(t, err)
	assert.True(t, p.IsFramingError())
	assert.False(t, p.IsNAK())
}

func TestParsePacketRejectsUnknownSource(t *testing.T) {
	raw := inboundPacket(0x99, byte(typeNAK), 0, 0, 0, 0)
	_, err := parsePacket(raw)
	assert.Error(t, err)
}

func TestParsePacketRejectsShortBuffer(t *testing.T) {
	_, err := parsePacket(make([]byte, 4))
	assert.Error(t, err)
}

func TestParsePacketTransmitCompleteVariants(t *testing.T) {
	for _, pt := range []byte{byte(typeTransmitComplete), byte(typeTransmitComplete2)} {
		raw := inboundPacket(sourceSelf, pt, 0, 0, 0, 0)
		p, err := parsePacket(raw)
		require.NoError(t, err)
		assert.True(t, p.IsTransmitComplete())
	}
}
