package sync

// Sync words reproduced bit-for-bit from
// original_source/plugins/inmarsat_support/aero/module_aero_decoder.cpp.
// spec.md §6 restates BinaryPhasePattern correctly but gives a different
// (18-bit-divergent) hex literal for the offset-modulated word; the
// original source's literal bit pattern is authoritative here.

// BinaryPhasePattern is the 32-bit sync word for the non-C, binary-phase
// channel: 0xE15AE893, MSB-first.
var BinaryPhasePattern = bitsFromUint32(0xE15AE893, 32)

// OffsetModPattern is the 64-bit sync word for the non-C, offset-modulated
// channel: 0xFC0333CCFCC0C30F, MSB-first.
var OffsetModPattern = bitsFromUint64(0xFC0333CCFCC0C30F, 64)

// CChannelPattern is the 104-bit C-channel sync word, given literally (not
// as a packed integer) in the original source.
var CChannelPattern = []byte{
	1, 0, 0, 0, 1, 0, 0, 0,
	1, 1, 0, 1, 1, 0, 1, 0,
	0, 0, 0, 1, 1, 0, 1, 1,
	0, 0, 1, 0, 1, 1, 1, 1,
	0, 1, 1, 1, 1, 0, 0, 1,
	1, 0, 0, 0, 0, 0, 1, 1,
	0, 1, 0, 1, 1, 0, 1, 0,
	1, 1, 0, 0, 0, 0, 0, 1,
	1, 0, 0, 1, 1, 1, 1, 0,
	1, 1, 1, 1, 0, 1, 0, 0,
	1, 1, 0, 1, 1, 0, 0, 0,
	0, 1, 0, 1, 1, 0, 1, 1,
	0, 0, 0, 1, 0, 0, 0, 1,
}

func bitsFromUint32(v uint32, width int) []byte {
	bits := make([]byte, width)
	for i := 0; i < width; i++ {
		bits[i] = byte((v >> uint(width-1-i)) & 1)
	}
	return bits
}

func bitsFromUint64(v uint64, width int) []byte {
	bits := make([]byte, width)
	for i := 0; i < width; i++ {
		bits[i] = byte((v >> uint(width-1-i)) & 1)
	}
	return bits
}

// NewForChannel builds the Correlator appropriate for a given channel
// configuration, matching the dispatch in AeroDecoderModule's constructor.
func NewForChannel(isC, oqpsk bool, totalFrameSize int) *Correlator {
	switch {
	case isC:
		mod := BPSK
		if oqpsk {
			mod = OQPSK
		}
		return NewCorrelator(mod, CChannelPattern, totalFrameSize)
	case oqpsk:
		return NewCorrelator(OQPSK, OffsetModPattern, totalFrameSize)
	default:
		return NewCorrelator(BPSK, BinaryPhasePattern, totalFrameSize)
	}
}
