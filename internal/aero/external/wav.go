package external

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WavWriter is the narrow interface the C-channel voice sink depends on: a
// RIFF/WAVE header is written up front with a placeholder data size, PCM
// samples are appended as they're decoded, and the header's size fields are
// patched once the final byte count is known (spec.md §5's "write_header
// then finish_header with the final accumulated size").
type WavWriter interface {
	WriteHeader(sampleRate, channels int) error
	WriteSamples(pcm []int16) error
	Close() error
}

// monoWavWriter is the default WavWriter: a direct RIFF header writer over
// an io.WriteSeeker, mirroring the teacher's habit of hand-rolling small
// binary formats (e.g. the mode_s CRC table) rather than pulling in a
// decode-oriented audio library for a write-only need.
type monoWavWriter struct {
	w             io.WriteSeeker
	sampleRate    int
	channels      int
	bytesWritten  uint32
	headerWritten bool
}

// NewWavWriter returns a WavWriter that writes to w, which must support
// Seek so the header can be patched in Close.
func NewWavWriter(w io.WriteSeeker) WavWriter {
	return &monoWavWriter{w: w}
}

const wavHeaderSize = 44

// WriteHeader writes a 44-byte canonical RIFF/WAVE header for 16-bit PCM
// audio with a zeroed data size, to be patched on Close.
func (m *monoWavWriter) WriteHeader(sampleRate, channels int) error {
	m.sampleRate = sampleRate
	m.channels = channels

	const bitsPerSample = 16
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	header := make([]byte, wavHeaderSize)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36) // patched in Close
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(header[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], 0) // patched in Close

	if _, err := m.w.Write(header); err != nil {
		return fmt.Errorf("write wav header: %w", err)
	}
	m.headerWritten = true
	return nil
}

// WriteSamples appends little-endian 16-bit PCM samples.
func (m *monoWavWriter) WriteSamples(pcm []int16) error {
	if !m.headerWritten {
		return fmt.Errorf("wav: WriteSamples called before WriteHeader")
	}
	buf := make([]byte, len(pcm)*2)
	for i, s := range pcm {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	n, err := m.w.Write(buf)
	m.bytesWritten += uint32(n)
	if err != nil {
		return fmt.Errorf("write wav samples: %w", err)
	}
	return nil
}

// Close patches the RIFF chunk size and data chunk size with the final
// accumulated byte count, then seeks back to end of stream.
func (m *monoWavWriter) Close() error {
	if !m.headerWritten {
		return nil
	}
	if _, err := m.w.Seek(4, io.SeekStart); err != nil {
		return fmt.Errorf("wav: seek riff size: %w", err)
	}
	if err := binary.Write(m.w, binary.LittleEndian, uint32(36+m.bytesWritten)); err != nil {
		return fmt.Errorf("wav: patch riff size: %w", err)
	}
	if _, err := m.w.Seek(40, io.SeekStart); err != nil {
		return fmt.Errorf("wav: seek data size: %w", err)
	}
	if err := binary.Write(m.w, binary.LittleEndian, m.bytesWritten); err != nil {
		return fmt.Errorf("wav: patch data size: %w", err)
	}
	_, err := m.w.Seek(0, io.SeekEnd)
	return err
}
