// Package packets implements the Aero packet classifier and user-data
// reassembler (spec.md §4.H/§4.I): dispatch a validated signal unit by its
// first-byte tag, and join an ISU with its trailing SSU fragments into a
// reassembled user-data payload for the ACARS sub-parser.
package packets

// Record is the free-form structured document spec.md §3 describes as the
// emitted record: a key/value tree always carrying at least "timestamp"
// and, when classified, "msg_name". It is a plain map rather than a fixed
// struct (the teacher's typed message structs don't fit here) because the
// tag space is open-ended and most tags only ever populate msg_name and
// timestamp; the richer ACARS/AES records populate it with more keys.
type Record map[string]any

// NewRecord returns an empty Record ready to be populated by a handler.
func NewRecord() Record { return make(Record) }
