package gear

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildBank0() []byte {
	buf := make([]byte, 25)
	buf[0] = 3 // last memory bank
	// GTIN = 0x010203040506 (48 bits, big-endian) -> buf[1:7]
	copy(buf[1:7], []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06})
	buf[7], buf[8] = 2, 1 // firmware 2.1
	copy(buf[9:17], []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88})
	buf[17], buf[18] = 1, 0 // hardware 1.0
	buf[19] = 2             // DALI version
	buf[22] = 1             // logical unit count
	buf[23] = 1             // logical gear count
	buf[24] = 0             // control index
	return buf
}

func TestParseBank0(t *testing.T) {
	info := parseBank0(buildBank0())
	assert.Equal(t, uint8(3), info.LastMemoryBank)
	assert.Equal(t, uint64(0x010203040506), info.GTIN)
	assert.Equal(t, "2.1", info.FirmwareVersion)
	assert.Equal(t, "1.0", info.HardwareVersion)
	assert.Equal(t, uint8(2), info.DALIVersion)
	assert.Equal(t, uint8(1), info.LogicalUnitCount)
	assert.Equal(t, uint8(1), info.LogicalGearCount)
	assert.Equal(t, uint8(0), info.ControlIndex)
}

func TestParseBank0ShortBufferReturnsZeroValue(t *testing.T) {
	info := parseBank0(make([]byte, 10))
	assert.Equal(t, Info{}, info)
}
