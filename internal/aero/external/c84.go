package external

// SignallingSize and VoiceSize are the two regions a C-channel frame's
// derandomized buffer is split into (spec.md §4.K/§9): 36 bytes of
// multiplexed signalling blocks followed by 300 bytes of AMBE voice data,
// for a combined 336-byte frame.
const (
	SignallingSize = 36
	VoiceSize      = 300
	C84FrameSize   = SignallingSize + VoiceSize
)

// UnpackC84 splits a C-channel derandomized buffer into its signalling and
// voice regions, reordering so signalling leads (spec.md §4.K: "emitting
// the signalling bytes first"). The real Inmarsat C84 circuit-mode
// multiplexing pattern that interleaves blocks data throughout the voice
// stream (module_aero_decoder.cpp's unpack_areo_c84_packet) was not part of
// the retrieval pack — decode_utils.h, the file that would define it, was
// filtered out of original_source/. This implementation assumes the
// simplest layout consistent with spec.md §9's documented sizes: the first
// SignallingSize bytes of buf are already the signalling region and the
// following VoiceSize bytes are already the voice region, so unpacking is a
// straight split rather than a byte-interleave. buf must be at least
// C84FrameSize bytes long.
func UnpackC84(buf []byte) (signalling, voice []byte) {
	signalling = buf[:SignallingSize]
	voice = buf[SignallingSize:C84FrameSize]
	return signalling, voice
}
