package external

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckCRCRoundTrip(t *testing.T) {
	buf := make([]byte, 12)
	copy(buf, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A})
	EncodeCRC(buf)
	assert.True(t, CheckCRC(buf))
}

func TestCheckCRCRejectsCorruption(t *testing.T) {
	buf := make([]byte, 12)
	EncodeCRC(buf)
	buf[3] ^= 0xFF
	assert.False(t, CheckCRC(buf))
}

func TestCheckCRCRejectsWrongLength(t *testing.T) {
	assert.False(t, CheckCRC(make([]byte, 11)))
	assert.False(t, CheckCRC(make([]byte, 13)))
}
