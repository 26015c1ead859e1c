package packets

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JS-HobbySoft/aero/internal/aero/external"
	"github.com/JS-HobbySoft/aero/internal/aero/signalunit"
)

func unit(tag byte, rest ...byte) signalunit.Unit {
	var u signalunit.Unit
	u.Tag = tag
	u.Buf[0] = tag
	copy(u.Buf[1:], rest)
	return u
}

type fakeACARS struct {
	isACARS bool
	record  Record
	ok      bool
	err     error
}

func (f *fakeACARS) IsACARSData(payload []byte) bool { return f.isACARS }
func (f *fakeACARS) Parse(payload []byte) (Record, bool, error) {
	return f.record, f.ok, f.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestProcessReservedDropped(t *testing.T) {
	c := NewClassifier(nil, nil, nil)
	c.Now = fixedClock(time.Unix(100, 0))
	rec, emit := c.Process(unit(TagReserved0x26))
	assert.False(t, emit)
	assert.NotContains(t, rec, "msg_name")
}

func TestProcessAESIndex(t *testing.T) {
	c := NewClassifier(nil, nil, nil)
	c.Now = fixedClock(time.Unix(200, 0))
	rec, emit := c.Process(unit(TagAESSystemTableBroadcastIndex))
	require.True(t, emit)
	assert.Equal(t, NameAESSystemTableBroadcastIndex, rec["msg_name"])
	assert.Equal(t, float64(200), rec["timestamp"])
}

func TestProcessUnknownTagIsReservedAndDropped(t *testing.T) {
	c := NewClassifier(nil, nil, nil)
	// 0x40 is not SSU-masked, not ISU, not 0x26, not AES index, and not in
	// the tag dictionary, so NameForTag falls back to "Reserved (unknown)",
	// which IsReservedName excludes from emission.
	_, emit := c.Process(unit(0x40))
	assert.False(t, emit)
}

func TestProcessNamedNonSuppressedTagEmitsBareRecord(t *testing.T) {
	c := NewClassifier(nil, nil, nil)
	rec, emit := c.Process(unit(0x30))
	require.True(t, emit)
	assert.Equal(t, "P Channel Status", rec["msg_name"])
	assert.Contains(t, rec, "timestamp")
}

func TestProcessOrphanSSUDropped(t *testing.T) {
	c := NewClassifier(nil, nil, nil)
	_, emit := c.Process(unit(0xC1, 5))
	assert.False(t, emit, "an SSU with no active transaction must be dropped")
}

func TestProcessSSUSupersededByNewISU(t *testing.T) {
	// S4: a new ISU discards the prior in-progress transaction silently.
	c := NewClassifier(nil, nil, nil)
	c.Process(unit(TagISU, 0x00, 0x07)) // declares 7-byte payload
	c.txn.AppendSSU(unit(0xC1, 3))      // seq 3, not closing
	require.True(t, c.txn.Active)
	require.Len(t, c.txn.SSUs, 1)

	c.Process(unit(TagISU, 0x00, 0x05)) // new ISU supersedes
	assert.True(t, c.txn.Active)
	assert.Empty(t, c.txn.SSUs, "prior SSUs must be cleared on a superseding ISU")
}

func TestProcessISUPlusSSUReassemblesAndInvokesACARS(t *testing.T) {
	acars := &fakeACARS{
		isACARS: true,
		record:  Record{"plane_reg": ".N12345", "message": "hello"},
		ok:      true,
	}
	c := NewClassifier(acars, nil, nil)

	c.Process(unit(TagISU, 0x00, 0x08)) // declare 8-byte payload (7 from ISU + 1 from SSU)
	rec, emit := c.Process(unit(0xC0, 0x00, 'X'))
	require.True(t, emit)
	assert.Equal(t, "ACARS", rec["msg_name"])
	assert.Equal(t, ".N12345", rec["plane_reg"])
	assert.Contains(t, rec, "signal_unit")
	assert.False(t, c.txn.Active, "transaction must close on seq_no==0")
}

func TestProcessSubParserErrorDropsSilently(t *testing.T) {
	acars := &fakeACARS{isACARS: true, err: errors.New("boom")}
	c := NewClassifier(acars, nil, nil)
	c.Process(unit(TagISU, 0x00, 0x01))
	_, emit := c.Process(unit(0xC0, 0x00))
	assert.False(t, emit)
}

func TestProcessEnrichmentAttached(t *testing.T) {
	acars := &fakeACARS{
		isACARS: true,
		record:  Record{"plane_reg": ".N1", "message": "m"},
		ok:      true,
	}
	enricher := enricherFunc(func(msg string, dir external.Direction) map[string]any {
		return map[string]any{"decoded": true}
	})
	c := NewClassifier(acars, enricher, nil)
	c.Process(unit(TagISU, 0x00, 0x01))
	rec, emit := c.Process(unit(0xC0, 0x00))
	require.True(t, emit)
	assert.Equal(t, map[string]any{"decoded": true}, rec["libacars"])
}

type enricherFunc func(message string, dir external.Direction) map[string]any

func (f enricherFunc) Enrich(message string, dir external.Direction) map[string]any {
	return f(message, dir)
}
