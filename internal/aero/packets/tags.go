package packets

// Tag constants reproduced from module_aero_parser.cpp's switch dispatch
// (spec.md §3's "Message tags"). The tag→name dictionary and the exact
// byte for "ISU" are not carried in the retrieved source (the original
// pkts.h header defining MessageUserDataISU::MSG_ID and friends was not
// part of the retrieval pack); the values below are chosen to satisfy the
// documented constraints — ISU's top two bits must NOT both be 1 (so it is
// never misread as an SSU) and 0x26 is reserved — and are recorded as an
// assumption in this repository's design notes rather than presented as
// verified wire values.
const (
	// TagISU begins a user-data transaction (spec.md §4.H).
	TagISU byte = 0x09
	// TagReserved0x26 is always silently dropped.
	TagReserved0x26 byte = 0x26
	// TagAESSystemTableBroadcastIndex is reported as its own named record.
	TagAESSystemTableBroadcastIndex byte = 0x17
	// ssuMask identifies an SSU: any tag whose top two bits are both 1.
	ssuMask byte = 0xC0
)

// IsSSU reports whether tag's top two bits are set (spec.md: "any tag whose
// top two bits are 11 (0xC0 mask)").
func IsSSU(tag byte) bool { return tag&ssuMask == ssuMask }

// NameAESSystemTableBroadcastIndex is the record name for that tag.
const NameAESSystemTableBroadcastIndex = "AES System Table Broadcast (Index)"

// tagNames is the message-ID tag→name dictionary (spec.md: "Others: named
// via a tag→name dictionary"), reproduced from module_aero_parser.cpp's
// stringList plus the small set of other named tags it references
// (Acknowledge, T Channel Assignment). The full production dictionary is
// much larger; this subset covers every name the suppression list and the
// worked examples reference.
var tagNames = map[byte]string{
	TagReserved0x26:                 "Reserved 0x26",
	TagAESSystemTableBroadcastIndex: NameAESSystemTableBroadcastIndex,
	0x15:                            "Acknowledge (RACK / TACK P Channel, PACK R Channel)",
	0x16:                            "T Channel Assignment",
	0x30:                            "P Channel Status",
}

// NameForTag looks up a tag's human-readable name. IsSSU tags are reported
// as "SSU" regardless of their specific bit pattern, matching
// module_aero_parser.cpp's single shared SSU name for the whole 0xC0-masked
// range.
func NameForTag(tag byte) string {
	if IsSSU(tag) {
		return "SSU"
	}
	if name, ok := tagNames[tag]; ok {
		return name
	}
	return "Reserved (unknown)"
}

// suppressionList inhibits persistent logging and file emission (but not
// UDP streaming), reproduced verbatim from module_aero_parser.cpp's
// stringList.
var suppressionList = map[string]bool{
	"SSU":                                true,
	NameAESSystemTableBroadcastIndex:     true,
	"Reserved 0x26":                      true,
	"Acknowledge (RACK / TACK P Channel, PACK R Channel)": true,
	"T Channel Assignment":                                true,
}

// Suppressed reports whether name is on the suppression list.
func Suppressed(name string) bool { return suppressionList[name] }

// IsReservedName reports whether name is one of the "Reserved …" tag-
// dictionary placeholders spec.md §4.H excludes from bare-record emission.
func IsReservedName(name string) bool {
	const prefix = "Reserved"
	return len(name) >= len(prefix) && name[:len(prefix)] == prefix
}
