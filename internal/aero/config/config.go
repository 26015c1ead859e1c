// Package config holds the plain parameter structs the decoder and parser
// pipelines are built from. Loading these from a file or flag set is the
// caller's concern, not this package's: it only knows how to turn the raw
// options into the derived frame geometry the rest of the pipeline needs.
package config

import "fmt"

// Decoder carries every option recognized by the decoder pipeline (spec.md
// §6, "Configuration options (decoder)").
type Decoder struct {
	IsC            bool    // C-channel mode.
	OQPSK          bool    // Offset-modulated vs binary-phase.
	DummyBits      int     // Post-sync padding bits.
	InterCols      int     // Interleaver column count.
	InterBlocks    int     // Interleaver block count.
	BERThreshold   float64 // Maximum post-Viterbi BER accepted for emission.
	VFOFreq        float64 // Diagnostic label only.
	VFOName        string  // Diagnostic label only.
}

// DefaultBERThreshold is used when a Decoder is constructed with a zero
// BERThreshold, matching the original's parameters.contains("ber_thresold")
// fallback of 1.0.
const DefaultBERThreshold = 1.0

// Geometry is the frame geometry derived from a Decoder config at
// construction time (spec.md §3). It never changes for the lifetime of a
// pipeline.
type Geometry struct {
	SyncSize             int
	HdrSize              int
	InterleaverBlockSize int
	RawInfoSize          int // Pre C-channel-override info size; sizes the total frame, the deinterleave buffer and the depuncture input.
	InfoSize             int // Effective info size; sizes the Viterbi decode and the descrambled output.
	TotalFrameSize       int
}

// DeriveGeometry computes frame geometry from a Decoder config, per spec.md
// §3's formulas. The C-channel info-size override (to 5460) is applied here,
// after TotalFrameSize has already been computed from the raw value — this
// resolves the Open Question in spec.md §9 about which denominator the
// override is meant to affect.
func DeriveGeometry(cfg Decoder) Geometry {
	var g Geometry

	if cfg.IsC {
		g.SyncSize = 52 * 2
	} else if cfg.OQPSK {
		g.SyncSize = 64
	} else {
		g.SyncSize = 32
	}

	if cfg.IsC {
		g.HdrSize = cfg.DummyBits
	} else {
		g.HdrSize = 16 + cfg.DummyBits
	}

	g.InterleaverBlockSize = 64 * cfg.InterCols
	g.RawInfoSize = g.InterleaverBlockSize * cfg.InterBlocks
	g.TotalFrameSize = g.SyncSize + g.HdrSize + g.RawInfoSize

	if cfg.IsC {
		g.InfoSize = 5460
	} else {
		g.InfoSize = g.RawInfoSize
	}

	return g
}

// Validate reports an error for configuration combinations the pipeline
// cannot operate on.
func (c Decoder) Validate() error {
	if c.InterCols <= 0 {
		return fmt.Errorf("aero: inter_cols must be positive, got %d", c.InterCols)
	}
	if c.InterBlocks <= 0 {
		return fmt.Errorf("aero: inter_blocks must be positive, got %d", c.InterBlocks)
	}
	if c.DummyBits < 0 {
		return fmt.Errorf("aero: dummy_bits must not be negative, got %d", c.DummyBits)
	}
	return nil
}

// BERThresholdOrDefault returns the configured threshold, or
// DefaultBERThreshold if it was left at its zero value.
func (c Decoder) BERThresholdOrDefault() float64 {
	if c.BERThreshold == 0 {
		return DefaultBERThreshold
	}
	return c.BERThreshold
}

// UDPSink is one destination every emitted parser record is JSON-serialized
// and sent to.
type UDPSink struct {
	Address string
	Port    int
}

// Parser carries every option recognized by the parser pipeline (spec.md §6,
// "Configuration options (parser)").
type Parser struct {
	IsC        bool
	UDPSinks   []UDPSink
	SaveFiles  bool // Default true; caller must set explicitly since Go's zero value is false.
	StationID  string
	OutputHint string // Base output directory; records land under <OutputHint>/<msg_name>/.
}
