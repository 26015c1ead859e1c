// Package parser implements the Aero parser pipeline (spec.md §4.L): it
// drives the signal-unit framer, packet classifier, and user-data
// reassembler over a continuous byte stream, routing every emitted record
// to the configured sinks and, for the C-channel, forwarding voice bytes to
// the AMBE decoder and WAV sink.
//
// The read/process/emit loop shape and the C-channel's three-signal-units-
// then-voice framing follow module_aero_parser.cpp's process() loop
// (original_source/plugins/inmarsat_support/aero/module_aero_parser.cpp),
// read end to end this session.
package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/JS-HobbySoft/aero/internal/aero/config"
	"github.com/JS-HobbySoft/aero/internal/aero/external"
	"github.com/JS-HobbySoft/aero/internal/aero/packets"
	"github.com/JS-HobbySoft/aero/internal/aero/signalunit"
	"github.com/JS-HobbySoft/aero/internal/aero/sink"
	"github.com/JS-HobbySoft/aero/internal/aero/telemetry"
)

// appName and appVersion are stamped into every UDP-sent record's
// source.app subtree when a station_id is configured (spec.md §6), the way
// module_aero_parser.cpp stamps its own product name and SATDUMP_VERSION.
const (
	appName    = "aero-parser"
	appVersion = "0.1.0"
)

// Pipeline is the parser's scoped processing state (spec.md §5: file
// handles and the audio sink are "scoped to the parser's process
// invocation").
type Pipeline struct {
	cfg        config.Parser
	classifier *packets.Classifier
	udp        *sink.Fanout
	file       *sink.File
	voice      external.VoiceDecoder
	wav        external.WavWriter
	history    *telemetry.History
	planes     *telemetry.PlaneCache
	log        *slog.Logger

	unitBuf [signalunit.Size]byte
	voiceBuf [external.VoiceSize]byte
}

// Option configures optional Pipeline collaborators beyond what config.Parser
// carries.
type Option func(*Pipeline)

// WithVoiceDecoder overrides the default no-op AMBE decoder.
func WithVoiceDecoder(v external.VoiceDecoder) Option {
	return func(p *Pipeline) { p.voice = v }
}

// WithWavWriter supplies the WAV sink the C-channel path writes decoded PCM
// to. Without one, the C-channel path still decodes voice but discards the
// PCM; ignored for non-C.
func WithWavWriter(w external.WavWriter) Option {
	return func(p *Pipeline) { p.wav = w }
}

// WithLibacarsEnricher overrides the default no-op libacars enrichment.
func WithLibacarsEnricher(e external.LibacarsEnricher) Option {
	return func(p *Pipeline) { p.classifier.Enricher = e }
}

// New builds a Pipeline from cfg, wiring UDP and (if cfg.SaveFiles is set and
// cfg.OutputHint is non-empty) file sinks, and the packet classifier over the
// given ACARS sub-parser.
func New(cfg config.Parser, acarsParser packets.ACARSParser, log *slog.Logger, opts ...Option) (*Pipeline, error) {
	if log == nil {
		log = slog.Default()
	}

	var udpSinks []sink.Sink
	for _, s := range cfg.UDPSinks {
		u, err := sink.NewUDP(s.Address, s.Port)
		if err != nil {
			return nil, fmt.Errorf("aero: building udp sink %s:%d: %w", s.Address, s.Port, err)
		}
		udpSinks = append(udpSinks, u)
	}

	p := &Pipeline{
		cfg:        cfg,
		classifier: packets.NewClassifier(acarsParser, nil, log),
		voice:      external.NoopVoiceDecoder{},
		history:    telemetry.NewHistory(),
		planes:     telemetry.NewPlaneCache(),
		log:        log,
	}
	if len(udpSinks) > 0 {
		p.udp = sink.NewFanout(udpSinks, func(s sink.Sink, err error) {
			log.Error("udp sink send failed", "error", err)
		})
	}
	if cfg.SaveFiles && cfg.OutputHint != "" {
		p.file = sink.NewFile(cfg.OutputHint)
	}

	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// History exposes the bounded packet history for a dashboard to snapshot.
func (p *Pipeline) History() *telemetry.History { return p.history }

// Close releases every scoped resource (sinks, WAV writer).
func (p *Pipeline) Close() error {
	var first error
	if p.udp != nil {
		if err := p.udp.Close(); err != nil && first == nil {
			first = err
		}
	}
	if p.wav != nil {
		if err := p.wav.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Run drives the pipeline against r until ctx is cancelled or r returns an
// error other than io.EOF or io.ErrUnexpectedEOF (a trailing partial unit or
// voice frame ends the run without error; spec.md §5's cooperative
// single-threaded loop).
// For C-channel input, r is expected to yield 336-byte frames (3 signal
// units then 300 voice bytes, spec.md §4.L); otherwise r yields a stream of
// 12-byte signal units.
func (p *Pipeline) Run(ctx context.Context, r io.Reader) error {
	if p.cfg.IsC {
		if p.wav != nil {
			if err := p.wav.WriteHeader(8000, 1); err != nil {
				return fmt.Errorf("aero: writing wav header: %w", err)
			}
		}
		return p.runC(ctx, r)
	}
	return p.runNonC(ctx, r)
}

func (p *Pipeline) runNonC(ctx context.Context, r io.Reader) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if _, err := io.ReadFull(r, p.unitBuf[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil
			}
			return fmt.Errorf("aero: reading signal unit: %w", err)
		}
		p.processUnit(ctx, p.unitBuf[:])
	}
}

func (p *Pipeline) runC(ctx context.Context, r io.Reader) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		for i := 0; i < 3; i++ {
			if _, err := io.ReadFull(r, p.unitBuf[:]); err != nil {
				if err == io.EOF || err == io.ErrUnexpectedEOF {
					return nil
				}
				return fmt.Errorf("aero: reading c-channel signal unit: %w", err)
			}
			p.processUnit(ctx, p.unitBuf[:])
		}

		if _, err := io.ReadFull(r, p.voiceBuf[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil
			}
			return fmt.Errorf("aero: reading c-channel voice frame: %w", err)
		}
		if err := p.processVoice(p.voiceBuf[:]); err != nil {
			p.log.Error("voice decode failed", "error", err)
		}
	}
}

// processUnit validates a single 12-byte signal unit's CRC, classifies it,
// and dispatches any emitted record to the configured sinks.
func (p *Pipeline) processUnit(ctx context.Context, buf []byte) {
	if !signalunit.Validate(buf) {
		return
	}
	var u signalunit.Unit
	copy(u.Buf[:], buf)
	u.Tag = u.Buf[0]

	rec, ok := p.classifier.Process(u)
	if !ok {
		return
	}
	p.dispatch(ctx, rec)
}

func (p *Pipeline) processVoice(voiceFrame []byte) error {
	pcm, err := p.voice.DecodePCM(voiceFrame)
	if err != nil {
		return fmt.Errorf("decoding ambe voice frame: %w", err)
	}
	if p.wav == nil {
		return nil
	}
	return p.wav.WriteSamples(pcm)
}

// dispatch routes an emitted record to history, UDP sinks (always, with an
// optional source/station stamp), and the file sink (only when the
// msg_name isn't on the suppression list, per spec.md §4.H).
func (p *Pipeline) dispatch(ctx context.Context, rec packets.Record) {
	name, _ := rec["msg_name"].(string)

	p.history.Push(rec)
	if name == "ACARS" {
		if reg, _ := rec["plane_reg"].(string); reg != "" && !p.planes.Seen(reg) {
			p.log.Info("new plane seen", "plane_reg", reg)
		}
	}

	if p.udp != nil {
		udpRec := rec
		if p.cfg.StationID != "" {
			udpRec = cloneRecord(rec)
			udpRec["source"] = map[string]any{
				"station_id": p.cfg.StationID,
				"app": map[string]any{
					"name":    appName,
					"version": appVersion,
				},
			}
		}
		p.udp.Send(ctx, udpRec)
	}

	if p.file != nil && !packets.Suppressed(name) {
		if err := p.file.Send(ctx, rec); err != nil {
			p.log.Error("file sink send failed", "error", err)
		}
	}
}

func cloneRecord(rec packets.Record) packets.Record {
	out := make(packets.Record, len(rec)+1)
	for k, v := range rec {
		out[k] = v
	}
	return out
}
