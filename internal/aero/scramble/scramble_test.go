package scramble

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLFSRInitialState(t *testing.T) {
	l := NewLFSR()
	assert.Equal(t, uint16(initialState), l.state)
}

func TestLFSRPeriod(t *testing.T) {
	// R2: the byte at index i equals the byte at index i+32767 (period 2^15-1).
	const period = (1 << 15) - 1
	seq := Sequence(period + 8)
	for i := 0; i < 8; i++ {
		assert.Equal(t, seq[i], seq[i+period], "LFSR sequence not periodic at offset %d", i)
	}
}

// TestSequenceMatchesOriginalSource pins the generator against the byte
// sequence module_aero_decoder.cpp's left-shifting LFSR produces from the
// same seed (spec.md §3), so a reciprocal-polynomial regression (right-shift
// instead of left-shift, or packing the outgoing bit instead of the new one)
// is caught here instead of only self-consistency checks.
func TestSequenceMatchesOriginalSource(t *testing.T) {
	want := []byte{0x13, 0x1b, 0xc4, 0x25}
	assert.Equal(t, want, Sequence(len(want)))
}

func TestSequenceDeterministic(t *testing.T) {
	a := Sequence(64)
	b := Sequence(64)
	assert.Equal(t, a, b, "descrambling sequence must be reproducible across calls")
}

func TestReverseBitsIsInvolution(t *testing.T) {
	// R3: bit-reversal followed by bit-reversal is identity.
	for b := 0; b < 256; b++ {
		got := reverseBits(reverseBits(byte(b)))
		assert.Equal(t, byte(b), got)
	}
}

func TestReverseBitsKnownValues(t *testing.T) {
	assert.Equal(t, byte(0x00), reverseBits(0x00))
	assert.Equal(t, byte(0xFF), reverseBits(0xFF))
	assert.Equal(t, byte(0x01), reverseBits(0x80))
	assert.Equal(t, byte(0x0F), reverseBits(0xF0))
}

func TestDescrambleRoundTrip(t *testing.T) {
	// Descrambling twice with the same sequence (no reversal) is identity,
	// since XOR with the same byte sequence is its own inverse.
	orig := []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC}
	buf := append([]byte(nil), orig...)
	Descramble(buf, false)
	Descramble(buf, false)
	assert.Equal(t, orig, buf)
}

func TestDescrambleAllZeroMatchesSequence(t *testing.T) {
	// S1: an all-zero input XORed with the descrambler sequence yields the
	// sequence itself; with reversal enabled it yields the bit-reversed
	// sequence (the non-C path).
	n := 16
	buf := make([]byte, n)
	Descramble(buf, false)
	assert.Equal(t, Sequence(n), buf)

	buf2 := make([]byte, n)
	Descramble(buf2, true)
	want := Sequence(n)
	for i := range want {
		want[i] = reverseBits(want[i])
	}
	assert.Equal(t, want, buf2)
}
