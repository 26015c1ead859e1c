package external

// VoiceDecoder is the narrow interface the C-channel voice path depends on.
// AMBE is a proprietary, licensed vocoder; spec.md §1/§7 keeps the actual
// codec out of scope and treats it as an external collaborator, the same
// way the teacher treats the RTL-SDR tuner hardware as something StartReceive
// merely reads bytes from rather than models.
type VoiceDecoder interface {
	// DecodePCM converts one AMBE voice frame (the 300-byte voice region of
	// a 336-byte C-channel frame, per spec.md §3) into signed 16-bit PCM
	// samples. Implementations own their own internal state across calls.
	DecodePCM(voiceFrame []byte) (pcm []int16, err error)
}

// NoopVoiceDecoder satisfies VoiceDecoder without linking a real AMBE
// vocoder; it is the default wired into the parser pipeline when no
// VoiceDecoder is supplied, so the C-channel path still runs end-to-end
// (signalling extraction, WAV header bookkeeping) in environments without
// licensed codec bindings.
type NoopVoiceDecoder struct{}

// AMBESubframes is the number of 12-byte AMBE subframes packed into one
// 300-byte C-channel voice region, and SamplesPerSubframe is the number of
// 8kHz PCM samples each subframe decodes to (module_aero_decoder.cpp's
// `ambed->decode(voice_data, 25, audio_out)` with a 160-sample output per
// subframe), for a fixed 4000-sample (8000-byte) PCM frame.
const (
	AMBESubframes      = 25
	SamplesPerSubframe = 160
	PCMSamplesPerFrame = AMBESubframes * SamplesPerSubframe
)

// DecodePCM returns silence of the expected sample count rather than
// failing, so the rest of the C-channel pipeline (signalling parse, WAV
// writer) keeps exercising its own logic independent of the codec.
func (NoopVoiceDecoder) DecodePCM(voiceFrame []byte) ([]int16, error) {
	return make([]int16, PCMSamplesPerFrame), nil
}
