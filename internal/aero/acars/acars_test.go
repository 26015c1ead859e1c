package acars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JS-HobbySoft/aero/internal/aero/packets"
	"github.com/JS-HobbySoft/aero/internal/aero/signalunit"
)

func TestIsACARSData(t *testing.T) {
	p := New()
	assert.True(t, p.IsACARSData([]byte("QU HDQOWXH .A6-FNF 123456/CHIABCD QU HDQOWXH ")))
	assert.False(t, p.IsACARSData([]byte("no registration token here")))
	assert.False(t, p.IsACARSData(nil))
}

func TestIsACARSDataTolerantOfTrailingPadding(t *testing.T) {
	p := New()
	payload := append([]byte("QU HDQOWXH .A6-FNF"), 0, 0, 0)
	assert.True(t, p.IsACARSData(payload))
}

func TestIsACARSDataRejectsBinaryGarbage(t *testing.T) {
	p := New()
	assert.False(t, p.IsACARSData([]byte{0x01, 0x02, 0xFF, 0x10}))
}

func TestParseExtractsRegAndMessage(t *testing.T) {
	p := New()
	payload := []byte("QU HDQOWXH .A6-FNF 123456/CHIABCD QU HDQOWXH ")
	rec, ok, err := p.Parse(payload)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ".A6-FNF", rec["plane_reg"])
	assert.Equal(t, string(payload), rec["message"])
}

func TestParseNoRegistrationReturnsNotOK(t *testing.T) {
	p := New()
	_, ok, err := p.Parse([]byte("plain text, no registration"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func isuUnit(declaredLen int, fragment []byte) signalunit.Unit {
	var u signalunit.Unit
	u.Tag = packets.TagISU
	u.Buf[0] = packets.TagISU
	u.Buf[1] = byte(declaredLen >> 8)
	u.Buf[2] = byte(declaredLen)
	copy(u.Buf[3:10], fragment)
	return u
}

func ssuUnit(seqNo byte, fragment []byte) signalunit.Unit {
	var u signalunit.Unit
	u.Tag = 0xC0
	u.Buf[0] = 0xC0
	u.Buf[1] = seqNo
	copy(u.Buf[2:10], fragment)
	return u
}

func TestScenarioISUPlusThreeSSUsReassemblesACARSMessage(t *testing.T) {
	// spec.md §8 S2: non-C, an ACARS ISU+SSUs sequence (seq 2, 1, 0)
	// built from this payload reassembles and emits one record with
	// msg_name="ACARS" and a non-empty plane_reg. An ISU plus three SSUs
	// carries 31 bytes, so only the first 31 of the payload's 45 bytes
	// (which include the registration token) are sent. CRC validation
	// happens upstream in the signal-unit framer and is not re-checked here.
	message := "QU HDQOWXH .A6-FNF 123456/CHIABCD QU HDQOWXH "
	const fragSize = 8
	total := 7 + 3*fragSize // ISU carries 7, each SSU carries 8

	c := packets.NewClassifier(New(), nil, nil)

	c.Process(isuUnit(total, []byte(message[0:7])))
	_, emit := c.Process(ssuUnit(2, []byte(message[7:15])))
	assert.False(t, emit, "non-terminal SSU must not emit")

	_, emit = c.Process(ssuUnit(1, []byte(message[15:23])))
	assert.False(t, emit)

	rec, emit := c.Process(ssuUnit(0, []byte(message[23:31])))
	require.True(t, emit, "seq_no==0 SSU must close the transaction and emit")
	assert.Equal(t, "ACARS", rec["msg_name"])
	assert.Equal(t, ".A6-FNF", rec["plane_reg"])
	assert.NotEmpty(t, rec["plane_reg"])
}
