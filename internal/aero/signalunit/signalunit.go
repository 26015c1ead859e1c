// Package signalunit implements the Aero signal-unit framer (spec.md §4.G):
// it slices a post-descramble byte stream into fixed 12-byte units and
// validates each one's CRC before handing it on to the packet classifier.
package signalunit

import "github.com/JS-HobbySoft/aero/internal/aero/external"

// Size is the fixed length of an Aero signal unit in bytes.
const Size = 12

// Unit is a single validated 12-byte signal unit. Tag is buf[0], the
// message-ID byte the classifier dispatches on.
type Unit struct {
	Buf [Size]byte
	Tag byte
}

// Split walks data in 12-byte quanta, discarding any trailing partial unit,
// and returns only the units whose CRC validates (spec.md: "On success,
// forwards to the classifier; on failure, silently drops"). Bad-CRC drops
// are not reported as errors; callers that want visibility into drop counts
// should compare len(data)/Size against len(result) or instrument Validate
// directly.
func Split(data []byte) []Unit {
	n := len(data) / Size
	out := make([]Unit, 0, n)
	for i := 0; i < n; i++ {
		var u Unit
		copy(u.Buf[:], data[i*Size:(i+1)*Size])
		if !external.CheckCRC(u.Buf[:]) {
			continue
		}
		u.Tag = u.Buf[0]
		out = append(out, u)
	}
	return out
}

// Validate reports whether a single 12-byte buffer passes the signal unit's
// CRC check, without allocating a Unit. Used by callers that need a per-unit
// pass/fail signal (e.g. stats counters) rather than the filtered slice
// Split returns.
func Validate(buf []byte) bool {
	return external.CheckCRC(buf)
}
