package packets

import (
	"log/slog"
	"time"

	"github.com/JS-HobbySoft/aero/internal/aero/external"
	"github.com/JS-HobbySoft/aero/internal/aero/signalunit"
)

// ACARSParser is the narrow sub-parser interface spec.md §4.J requires:
// detect whether reassembled user data looks like ACARS, and attempt to
// decode it into a Record. Its implementation (registration and message
// text extraction) is this repository's own `internal/aero/acars` package, kept behind an
// interface here the way the teacher keeps `mode_s.Decoder` behind its own
// package boundary from `1090.go`'s dispatch loop.
type ACARSParser interface {
	IsACARSData(payload []byte) bool
	Parse(payload []byte) (Record, bool, error)
}

// Classifier dispatches validated signal units by their message-ID tag
// (spec.md §4.H) and drives the user-data reassembler (spec.md §4.I). It
// holds the single in-progress Transaction the pipeline allows.
type Classifier struct {
	ACARS    ACARSParser
	Enricher external.LibacarsEnricher
	Now      func() time.Time // Overridable for tests; defaults to time.Now.
	Log      *slog.Logger

	txn Transaction
}

// NewClassifier returns a Classifier wired to the given ACARS sub-parser.
// A nil Enricher or Log is replaced with a no-op default.
func NewClassifier(acarsParser ACARSParser, enricher external.LibacarsEnricher, log *slog.Logger) *Classifier {
	if enricher == nil {
		enricher = external.NoopEnricher{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Classifier{ACARS: acarsParser, Enricher: enricher, Log: log}
}

func (c *Classifier) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Process classifies one validated signal unit and returns the record that
// would be handed to downstream sinks, along with whether it should
// actually be emitted. A record is only emitted once it carries a
// "msg_name" key — this mirrors module_aero_parser.cpp's process_final_pkt,
// which silently no-ops on any record lacking msg_name, so an unnamed
// record is this package's equivalent of "drop" (spec.md §4.H).
func (c *Classifier) Process(u signalunit.Unit) (Record, bool) {
	rec := NewRecord()

	switch {
	case u.Tag == TagISU:
		c.txn.BeginISU(u)

	case u.Tag == TagReserved0x26:
		// Reserved; always silently dropped.

	case IsSSU(u.Tag):
		if !c.txn.Active {
			c.Log.Debug("orphan SSU dropped, no active transaction")
			break
		}
		if closed := c.txn.AppendSSU(u); closed {
			if r, ok := c.reassemble(); ok {
				rec = r
			}
		}

	case u.Tag == TagAESSystemTableBroadcastIndex:
		rec["msg_name"] = NameAESSystemTableBroadcastIndex

	default:
		name := NameForTag(u.Tag)
		if !Suppressed(name) && !IsReservedName(name) {
			rec["msg_name"] = name
		}
	}

	rec["timestamp"] = float64(c.now().Unix())
	_, hasName := rec["msg_name"]
	return rec, hasName
}

// reassemble runs the closed transaction's payload through the ACARS
// sub-parser (spec.md §4.I steps 1-4) and builds the enriched record on
// success.
func (c *Classifier) reassemble() (Record, bool) {
	payload := c.txn.Payload()

	if c.ACARS == nil || !c.ACARS.IsACARSData(payload) {
		return nil, false
	}

	rec, ok, err := c.ACARS.Parse(payload)
	if err != nil {
		c.Log.Error("acars sub-parser failed", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	rec["msg_name"] = "ACARS"
	rec["signal_unit"] = c.txn.ISU

	if enrichment := c.Enricher.Enrich(messageText(rec), external.DirectionGroundToAir); len(enrichment) > 0 {
		rec["libacars"] = enrichment
	}

	return rec, true
}

func messageText(rec Record) string {
	if m, ok := rec["message"].(string); ok {
		return m
	}
	return ""
}
