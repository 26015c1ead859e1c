// Package interleave implements the Aero matrix deinterleaver (spec.md
// §4.C): a block of 64*cols soft symbols is written into a matrix by rows
// on the transmit side, so the receiver must read it back out by columns to
// undo that reordering.
package interleave

// Rows is the fixed row count of the Aero interleaver matrix (64 rows of cols
// symbols each, per spec.md §3's interleaver_block_size = 64*cols formula).
const Rows = 64

// Deinterleave reads a 64*cols block of soft symbols written by rows on the
// transmit side, and writes it to out in column-major order — i.e. it
// inverts the transmit-side row/column interleaver. len(in) and len(out)
// must both equal 64*cols.
func Deinterleave(in []int8, out []int8, cols int) {
	n := Rows * cols
	_ = in[:n]
	_ = out[:n]
	idx := 0
	for col := 0; col < cols; col++ {
		for row := 0; row < Rows; row++ {
			// in was written row-major (row*cols+col); read it back
			// column-major so the output walks down each column in turn.
			out[idx] = in[row*cols+col]
			idx++
		}
	}
}
