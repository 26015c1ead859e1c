// Package acars implements the Aero ACARS sub-parser (spec.md §4.J): it
// recognizes character-oriented ACARS text embedded in reassembled Aero
// user data and extracts the aircraft registration and message body. The
// original source's own ACARS decoder and the libacars ASN.1 enrichment
// tables were not part of the retrieval pack (spec.md §1 keeps both as
// external collaborators); this package implements only the character-frame
// recognition the core spec actually exercises (spec.md §8's S2 scenario),
// grounded in the plain ASCII-text shape of its documented test vector
// rather than a reconstructed bit-exact ARINC 618 character frame.
package acars

import (
	"regexp"
	"strings"

	"github.com/JS-HobbySoft/aero/internal/aero/packets"
)

// regMarker matches an aircraft registration token: a leading '.' followed
// by alphanumerics and hyphens, e.g. ".A6-FNF" (spec.md §8 S2's test
// vector).
var regMarker = regexp.MustCompile(`\.[A-Z0-9][A-Z0-9-]{2,}`)

// Parser implements packets.ACARSParser.
type Parser struct{}

// New returns a ready-to-use ACARS sub-parser.
func New() *Parser { return &Parser{} }

// IsACARSData reports whether payload looks like ACARS character-oriented
// text: printable ASCII carrying a registration marker token.
func (p *Parser) IsACARSData(payload []byte) bool {
	if len(payload) == 0 {
		return false
	}
	for _, b := range payload {
		if b < 0x20 || b > 0x7E {
			if b != 0 { // trailing zero padding from fixed-size reassembly is tolerated
				return false
			}
		}
	}
	text := strings.TrimRight(string(payload), "\x00")
	return regMarker.MatchString(text)
}

// Parse extracts the registration and message text from an ACARS payload.
// It returns ok=false (no error) if the payload doesn't actually carry a
// registration marker, so callers can treat "not really ACARS" distinctly
// from "malformed ACARS" per spec.md §4.J's optional<record> contract.
func (p *Parser) Parse(payload []byte) (packets.Record, bool, error) {
	text := strings.TrimRight(string(payload), "\x00")
	loc := regMarker.FindStringIndex(text)
	if loc == nil {
		return nil, false, nil
	}

	reg := text[loc[0]:loc[1]]
	rec := packets.NewRecord()
	rec["plane_reg"] = reg
	rec["message"] = text
	return rec, true, nil
}
