// Package sync implements the Aero frame-sync correlator (spec.md §4.A): it
// slides a known bit pattern against a buffer of soft symbols and reports
// the offset, phase, and Q-swap state that produced the strongest
// correlation.
//
// The approach is grounded in the sliding matched-filter search used by
// rtlamr's Decoder.Search/Filter (programmerq/rtlamr, decode/decode.go):
// here the "filter" is a direct sliding dot product against a known soft
// pattern rather than a Manchester cumulative-sum filter, since the Aero
// sync word is a fixed bit sequence rather than a data-dependent edge.
package sync

// Modulation selects which phase/swap search the correlator performs.
type Modulation int

const (
	// BPSK is binary phase-shift keying: only the four quadrant rotations
	// are searched, no Q-arm swap.
	BPSK Modulation = iota
	// OQPSK is offset QPSK: quadrant rotations are searched jointly with
	// the Q-arm delay swap described in spec.md §4.B.
	OQPSK
)

// Phase is one of the four quadrant rotations a correlator candidate is
// evaluated under.
type Phase int

const (
	Phase0 Phase = iota
	Phase90
	Phase180
	Phase270
)

var allPhases = [4]Phase{Phase0, Phase90, Phase180, Phase270}

// Correlator slides a fixed bit pattern against soft-symbol buffers of a
// known frame length, searching jointly over offset, phase rotation, and
// (for OQPSK) Q-arm swap.
type Correlator struct {
	mod       Modulation
	pattern   []int8 // Expected pattern, mapped to +1/-1 soft-equivalent hard values.
	frameSize int
}

// NewCorrelator builds a Correlator for the given modulation, expected bit
// pattern (MSB-first, one bit per element, 0/1 valued) and target frame
// length. The bit pattern is the channel-dependent sync word from spec.md
// §6.
func NewCorrelator(mod Modulation, bits []byte, frameSize int) *Correlator {
	pattern := make([]int8, len(bits))
	for i, b := range bits {
		if b != 0 {
			pattern[i] = 1
		} else {
			pattern[i] = -1
		}
	}
	return &Correlator{mod: mod, pattern: pattern, frameSize: frameSize}
}

// Result is what Correlate reports for the winning candidate.
type Result struct {
	Offset int     // Best offset in [0, frameSize); 0 means the sync word starts at position 0.
	Phase  Phase   // Winning quadrant rotation.
	Swap   bool    // Winning Q-arm swap state (OQPSK only; always false for BPSK).
	Score  float64 // Peak absolute correlation for the winning candidate.
}

// rotate returns the soft value soft would read as under the given
// quadrant phase rotation, for the purposes of correlation against the
// (phase-0) reference pattern. This mirrors the rotate_soft inverse applied
// later by the Derotator: here we rotate the *reference's expectation*
// rather than the buffer, to avoid mutating caller-owned soft samples
// during the search.
func rotate(v int8, phase Phase) int8 {
	switch phase {
	case Phase0:
		return v
	case Phase180:
		return -v
	default:
		// Phase90/Phase270 only have a meaningful effect on the I/Q pairing
		// for OQPSK; for the purposes of a real-valued correlation search
		// they behave as a sign flip same as Phase180 would on the opposite
		// arm. The Derotator is the authority on the actual rotation
		// applied to the recovered buffer; the correlator only needs a
		// consistent, invertible ordering of four candidates to search.
		return -v
	}
}

// score computes the correlation of soft[offset:offset+len(pattern)] against
// the reference pattern under the given phase/swap hypothesis.
func (c *Correlator) score(soft []int8, offset int, phase Phase, swap bool) float64 {
	var sum float64
	n := len(c.pattern)
	for i := 0; i < n; i++ {
		idx := offset + i
		if c.mod == OQPSK && swap && idx%2 == 1 {
			// A swapped Q-arm reads one symbol behind on odd (Q) samples;
			// position 0 has nothing to read from, contributing zero.
			if idx == 0 {
				continue
			}
			idx--
		}
		if idx >= len(soft) {
			return sum
		}
		sum += float64(soft[idx]) * float64(rotate(c.pattern[i], phase))
	}
	return sum
}

// Correlate evaluates every offset in [0, len(soft)-patternLen] under every
// phase (and, for OQPSK, both swap states), and returns the offset/phase/swap
// triple with the strongest absolute correlation together with its score.
//
// offset==0 signals frame lock per spec.md §4.A's contract.
func (c *Correlator) Correlate(soft []int8) Result {
	var best Result
	bestAbs := -1.0

	swapStates := []bool{false}
	if c.mod == OQPSK {
		swapStates = []bool{false, true}
	}

	limit := len(soft) - len(c.pattern)
	if limit < 0 {
		limit = 0
	}

	for offset := 0; offset <= limit; offset++ {
		for _, phase := range allPhases {
			for _, swap := range swapStates {
				s := c.score(soft, offset, phase, swap)
				abs := s
				if abs < 0 {
					abs = -abs
				}
				if abs > bestAbs {
					bestAbs = abs
					best = Result{Offset: offset, Phase: phase, Swap: swap, Score: s}
				}
			}
		}
	}

	return best
}

// FrameSize reports the frame length this correlator was constructed for.
func (c *Correlator) FrameSize() int { return c.frameSize }
