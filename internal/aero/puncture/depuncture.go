// Package puncture implements the C-channel depuncturer (spec.md §4.D): it
// reconstructs a rate-1/2 soft stream from a rate-2/3 punctured stream by
// inserting soft-zero erasures at the punctured positions, per the
// puncturing matrix [1,1,0] repeating (spec.md §6).
package puncture

// Matrix is the fixed rate-2/3 puncturing pattern: bit positions with a 1
// were transmitted, positions with a 0 were punctured (erased) and must be
// reinserted as a soft zero.
var Matrix = [3]byte{1, 1, 0}

// Depuncture reconstructs a rate-1/2 stream from a rate-2/3 punctured
// stream of the given length (the count of transmitted code bits to
// consume from in). rate is carried as a parameter to match the original
// call signature (spec.md §4.D: depuncture(in, out, rate=2, len)) though
// this implementation only supports the rate-2/3 matrix Aero actually uses.
// One erasure is inserted after every two consumed symbols, so out must have
// room for length + (length+1)/2 - 1 entries (94 for a length of 63).
func Depuncture(in []int8, out []int8, rate int, length int) {
	_ = rate // Always 2 for Aero's rate-2/3 code; kept for contract fidelity.

	inPos := 0
	outPos := 0
	matPos := 0

	for inPos < length {
		if Matrix[matPos] == 1 {
			out[outPos] = in[inPos]
			inPos++
		} else {
			out[outPos] = 0 // Soft-zero erasure at the punctured position.
		}
		outPos++
		matPos = (matPos + 1) % len(Matrix)
	}
}
