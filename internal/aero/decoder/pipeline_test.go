package decoder

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JS-HobbySoft/aero/internal/aero/config"
	"github.com/JS-HobbySoft/aero/internal/aero/sync"
)

func smallConfig() config.Decoder {
	return config.Decoder{
		InterCols:   1,
		InterBlocks: 1,
		DummyBits:   0,
	}
}

func TestNewDerivesGeometryAndRejectsBadConfig(t *testing.T) {
	p, err := New(smallConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, 112, p.Geometry().TotalFrameSize) // 32 sync + 16 hdr + 64 info

	_, err = New(config.Decoder{}, nil)
	assert.Error(t, err, "InterCols/InterBlocks default to 0 and must be rejected")
}

// TestProcessFrameAllZero covers S1: a frame of all-zero soft symbols must
// decode without panicking, reporting a well-formed BER and leaving the
// state at SEARCHING (processFrame does not correlate; only readFrame
// updates the lock state).
func TestProcessFrameAllZero(t *testing.T) {
	p, err := New(smallConfig(), nil)
	require.NoError(t, err)

	out := p.processFrame()
	assert.Equal(t, Searching, p.Stats().State)
	assert.GreaterOrEqual(t, p.Stats().ViterbiBER, 0.0)
	assert.LessOrEqual(t, p.Stats().ViterbiBER, 1.0)
	if out.OK {
		assert.Len(t, out.Bytes, p.derandLen)
	}
}

// TestBERGateDropsHighBERFrames covers B1: when the configured threshold is
// stricter than the observed BER, the frame must be dropped (OK=false, no
// Bytes), and the gate compares using BERThresholdOrDefault, not the raw
// zero-valued field.
func TestBERGateDropsHighBERFrames(t *testing.T) {
	cfg := smallConfig()
	cfg.BERThreshold = 1e-12 // Only a BER of exactly zero passes this threshold.
	p, err := New(cfg, nil)
	require.NoError(t, err)

	// Corrupt the soft buffer with alternating extreme values so the
	// decode is forced to disagree with at least one received sample.
	for i := range p.softBuf {
		if i%2 == 0 {
			p.softBuf[i] = 100
		} else {
			p.softBuf[i] = -100
		}
	}

	out := p.processFrame()
	assert.False(t, out.OK)
	assert.Nil(t, out.Bytes)
}

// TestReadFrameRealignsOnNonZeroOffset covers B2: when the correlator finds
// the sync word at a non-zero offset within the first raw read, readFrame
// must shift the buffer into alignment and top up the tail with freshly
// read symbols rather than leaving stale data behind.
func TestReadFrameRealignsOnNonZeroOffset(t *testing.T) {
	p, err := New(smallConfig(), nil)
	require.NoError(t, err)

	const shift = 5
	frame := p.Geometry().TotalFrameSize

	amplified := make([]byte, len(sync.BinaryPhasePattern))
	for i, b := range sync.BinaryPhasePattern {
		if b != 0 {
			amplified[i] = 100
		} else {
			amplified[i] = byte(int8(-100))
		}
	}

	var raw bytes.Buffer
	raw.Write(make([]byte, shift))
	raw.Write(amplified)
	raw.Write(make([]byte, frame-shift-len(amplified)))
	raw.Write(make([]byte, shift)) // tail refill consumed by the realignment.

	require.NoError(t, p.readFrame(&raw))

	for i, b := range sync.BinaryPhasePattern {
		want := int8(-100)
		if b != 0 {
			want = 100
		}
		assert.Equal(t, want, p.softBuf[i], "position %d after realignment", i)
	}

	probe := p.corr.Correlate(p.softBuf)
	assert.Equal(t, 0, probe.Offset, "buffer must be sync-aligned after realignment")
}

func TestRunStopsCleanlyOnEOF(t *testing.T) {
	p, err := New(smallConfig(), nil)
	require.NoError(t, err)

	var emitted int
	err = p.Run(context.Background(), bytes.NewReader(make([]byte, p.Geometry().TotalFrameSize*2)), func(Output) {
		emitted++
	})
	assert.NoError(t, err)
}

// TestProcessFrameCChannelEmitsCanonical336ByteFrame covers spec.md §4.K's
// C-channel output layout: 36 signalling bytes followed by 300 voice bytes.
func TestProcessFrameCChannelEmitsCanonical336ByteFrame(t *testing.T) {
	cfg := config.Decoder{IsC: true, InterCols: 1, InterBlocks: 1}
	p, err := New(cfg, nil)
	require.NoError(t, err)

	out := p.processFrame()
	if out.OK {
		assert.Len(t, out.Bytes, 336)
	}
}

func TestRunStopsOnContextCancellation(t *testing.T) {
	p, err := New(smallConfig(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := bytes.NewReader(make([]byte, p.Geometry().TotalFrameSize*10))
	err = p.Run(ctx, src, func(Output) { t.Fatal("emit must not be called once the context is already cancelled") })
	assert.NoError(t, err)
}
