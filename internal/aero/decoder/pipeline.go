// Package decoder implements the Aero decoder pipeline (spec.md §4.K): it
// orchestrates sync correlation, derotation, deinterleaving, (C-channel)
// depuncturing, Viterbi decoding, and descrambling over a continuous stream
// of soft symbols, writing recovered bytes downstream.
//
// The single-threaded read/process/write loop follows the teacher's
// `rtl_adsb.StartReceive` shape (`rtl_adsb/rtl_adsb.go`): block on an
// `io.Reader`, process one unit of work per iteration, emit results through
// a callback, and exit cleanly when the reader or a cancellation signal
// says to stop.
package decoder

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/JS-HobbySoft/aero/internal/aero/config"
	"github.com/JS-HobbySoft/aero/internal/aero/external"
	"github.com/JS-HobbySoft/aero/internal/aero/interleave"
	"github.com/JS-HobbySoft/aero/internal/aero/puncture"
	"github.com/JS-HobbySoft/aero/internal/aero/rotation"
	"github.com/JS-HobbySoft/aero/internal/aero/scramble"
	"github.com/JS-HobbySoft/aero/internal/aero/sync"
	"github.com/JS-HobbySoft/aero/internal/aero/viterbi"
)

// State is the decoder's frame-sync state (spec.md §4.K).
type State int

const (
	// Searching means the correlator has not yet reported offset==0.
	Searching State = iota
	// Locked means the most recent correlation found the sync word at the
	// start of the frame buffer.
	Locked
)

func (s State) String() string {
	if s == Locked {
		return "LOCKED"
	}
	return "SEARCHING"
}

// Stats is a point-in-time snapshot of decoder telemetry (spec.md §9's
// "Module stats surface", generalized from the original's free-form
// `module_stats` map into a typed struct per the redesign note against
// dynamic trees for anything the core itself consumes).
type Stats struct {
	State            State
	CorrelatorLocked bool
	CorrelatorScore  float64
	ViterbiBER       float64
}

// Pipeline is the decoder's scoped, reusable processing state. All buffers
// are sized once at construction and reused across frames (spec.md §5:
// "buffers ... are exclusively owned by their pipeline and reused across
// frames").
type Pipeline struct {
	cfg  config.Decoder
	geom config.Geometry

	corr *sync.Correlator
	vit  *viterbi.Decoder
	log  *slog.Logger

	rawBuf        []byte // Scratch for reading raw signed-byte symbols off the wire.
	softBuf       []int8 // One full frame of soft symbols.
	deinterleaved []int8 // Deinterleaved soft symbols, geom.RawInfoSize long.
	depunctured   []int8 // C-channel only: depunctured soft symbols.
	hardOut       []byte // Viterbi hard-decision output.

	infoBits  int
	derandLen int // geom.InfoSize/16: byte count the descrambler/bit-reversal covers.

	lastCorr sync.Result // Set once per frame by readFrame, consumed by processFrame.

	state Stats
}

// New builds a Pipeline from cfg, after validating it and deriving its
// frame geometry.
func New(cfg config.Decoder, log *slog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	geom := config.DeriveGeometry(cfg)
	corr := sync.NewForChannel(cfg.IsC, cfg.OQPSK, geom.TotalFrameSize)

	infoBits := geom.InfoSize / 2
	traceback := geom.InfoSize / 5
	vit := viterbi.New(infoBits, [2]int{109, 79}, traceback)

	p := &Pipeline{
		cfg:       cfg,
		geom:      geom,
		corr:      corr,
		vit:       vit,
		log:       log,
		rawBuf:    make([]byte, geom.TotalFrameSize),
		softBuf:   make([]int8, geom.TotalFrameSize),
		deinterleaved: make([]int8, geom.RawInfoSize),
		hardOut:   make([]byte, (infoBits+7)/8),
		infoBits:  infoBits,
		derandLen: geom.InfoSize / 16,
	}
	if cfg.IsC {
		// Depuncture restores roughly 3/2 as many soft symbols as it
		// consumes; geom.InfoSize*2 is a generous fixed upper bound so the
		// scratch buffer never needs resizing mid-stream.
		p.depunctured = make([]int8, geom.InfoSize*2)
	}
	return p, nil
}

// Geometry exposes the derived frame geometry, mainly for tests and the
// dashboard.
func (p *Pipeline) Geometry() config.Geometry { return p.geom }

// Stats returns the most recent per-frame telemetry snapshot.
func (p *Pipeline) Stats() Stats { return p.state }

// Output is one decoded frame's payload ready for the signal-unit framer
// (non-C) or, for the C-channel, the 336-byte signalling-then-voice frame,
// alongside whether it passed the BER gate at all (an ungated frame carries
// no Bytes).
type Output struct {
	Bytes []byte
	BER   float64
	OK    bool // False if the frame was dropped (BER >= threshold); Bytes is nil.
}

// processFrame runs one full frame of previously-read soft symbols (already
// resident in the pipeline's internal buffer via readFrame) through B-F and
// returns the decoded, descrambled bytes.
func (p *Pipeline) processFrame() Output {
	result := p.lastCorr

	rotation.Derotate(p.softBuf, result.Phase, result.Swap && p.cfg.OQPSK)

	for i := 0; i < p.cfg.InterBlocks; i++ {
		start := p.geom.SyncSize + p.geom.HdrSize + p.geom.InterleaverBlockSize*i
		interleave.Deinterleave(
			p.softBuf[start:start+p.geom.InterleaverBlockSize],
			p.deinterleaved[p.geom.InterleaverBlockSize*i:p.geom.InterleaverBlockSize*(i+1)],
			p.cfg.InterCols,
		)
	}

	var viterbiIn []int8
	terminated := false
	if p.cfg.IsC {
		puncture.Depuncture(p.deinterleaved, p.depunctured, 2, p.geom.RawInfoSize-1)
		viterbiIn = p.depunctured
		terminated = true
	} else {
		viterbiIn = p.deinterleaved
	}

	p.vit.Work(viterbiIn, p.hardOut, terminated)
	p.state.ViterbiBER = p.vit.BER()

	if p.state.ViterbiBER >= p.cfg.BERThresholdOrDefault() {
		return Output{OK: false}
	}

	derandBuf := p.hardOut[:p.derandLen]
	scramble.Descramble(derandBuf, !p.cfg.IsC)

	if p.cfg.IsC {
		// Reorder into the canonical 336-byte C-channel frame: signalling
		// first, then voice (spec.md §4.K).
		signalling, voice := external.UnpackC84(derandBuf)
		out := make([]byte, external.C84FrameSize)
		copy(out, signalling)
		copy(out[external.SignallingSize:], voice)
		return Output{Bytes: out, BER: p.state.ViterbiBER, OK: true}
	}

	out := make([]byte, p.derandLen)
	copy(out, derandBuf)
	return Output{Bytes: out, BER: p.state.ViterbiBER, OK: true}
}

// readFrame reads one total_frame_size block of soft symbols (one signed
// byte per symbol on the wire) from r into the pipeline's buffer, correlates
// once against the sync pattern, then realigns on a non-zero offset by
// shifting the buffer and refilling its tail (spec.md §4.K: "re-align by
// shifting the buffer and refilling the tail from the input source").
//
// The single correlation this performs is also the one processFrame later
// uses for derotation, matching module_aero_decoder.cpp's single
// correlate_soft() call per frame: lock state and the winning phase/swap
// hypothesis are both decided from the pre-realignment buffer, not
// re-derived after shifting it into alignment.
func (p *Pipeline) readFrame(r io.Reader) error {
	if _, err := io.ReadFull(r, p.rawBuf); err != nil {
		return err
	}
	unpackSoft(p.rawBuf, p.softBuf)

	result := p.corr.Correlate(p.softBuf)
	p.lastCorr = result
	p.state.CorrelatorLocked = result.Offset == 0
	p.state.CorrelatorScore = result.Score
	if p.state.CorrelatorLocked {
		p.state.State = Locked
	} else {
		p.state.State = Searching
	}

	if result.Offset != 0 && result.Offset < p.geom.TotalFrameSize {
		pos := result.Offset
		copy(p.softBuf, p.softBuf[pos:])
		// The shift above only fills the first (TotalFrameSize-pos) slots;
		// the trailing pos slots are stale and need pos fresh symbols.
		if _, err := io.ReadFull(r, p.rawBuf[:pos]); err != nil {
			return err
		}
		unpackSoft(p.rawBuf[:pos], p.softBuf[p.geom.TotalFrameSize-pos:])
	}
	return nil
}

func unpackSoft(raw []byte, soft []int8) {
	for i, b := range raw {
		soft[i] = int8(b)
	}
}

// Run drives the pipeline against r, calling emit for every frame that
// passes the BER gate, until ctx is cancelled or r returns an error other
// than io.EOF (spec.md §5's cooperative single-threaded loop with a
// boolean cancellation flag, expressed here as a context per Go idiom).
func (p *Pipeline) Run(ctx context.Context, r io.Reader, emit func(Output)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := p.readFrame(r); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("aero: reading frame: %w", err)
		}

		out := p.processFrame()
		if out.OK {
			emit(out)
		}

		p.logStatus()
	}
}

func (p *Pipeline) logStatus() {
	p.log.Debug("aero decoder frame",
		"vfo_name", p.cfg.VFOName,
		"vfo_freq", p.cfg.VFOFreq,
		"viterbi_ber", p.state.ViterbiBER,
		"lock", p.state.State.String(),
	)
}
