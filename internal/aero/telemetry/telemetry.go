// Package telemetry holds the parser pipeline's GUI-facing observation
// state (spec.md §5): a mutex-guarded, bounded packet-history ring buffer
// the dashboard reads from a separate goroutine, and a recently-seen
// aircraft-registration cache used to decide when a newly decoded ACARS
// message is worth a louder log line.
package telemetry

import (
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/JS-HobbySoft/aero/internal/aero/packets"
)

// HistoryLimit is the per-category cap spec.md §5 assigns the GUI's packet
// history: "bounded to 200 entries per category (ACARS; other packets),
// evicting the oldest on overflow."
const HistoryLimit = 200

// History is the bounded ring buffer of recently classified records, split
// into the ACARS and "everything else" categories the original GUI tabs by.
// All mutation happens from the parser goroutine via Push; Snapshot is safe
// to call concurrently from a GUI-refresh goroutine (spec.md §5: "access to
// these containers is guarded by an exclusive lock... the GUI only reads").
type History struct {
	mu    sync.RWMutex
	acars []packets.Record
	other []packets.Record
}

// NewHistory returns an empty History.
func NewHistory() *History { return &History{} }

// Push appends rec to the ACARS or "other" category depending on its
// msg_name, evicting the oldest entry once a category reaches HistoryLimit.
// Push is a no-op for records with no msg_name, since those are never
// emitted in the first place (packets.Classifier.Process already filters
// them).
func (h *History) Push(rec packets.Record) {
	name, _ := rec["msg_name"].(string)
	if name == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if name == "ACARS" {
		h.acars = appendBounded(h.acars, rec)
	} else {
		h.other = appendBounded(h.other, rec)
	}
}

func appendBounded(list []packets.Record, rec packets.Record) []packets.Record {
	list = append(list, rec)
	if len(list) > HistoryLimit {
		list = list[len(list)-HistoryLimit:]
	}
	return list
}

// Snapshot returns copies of both history categories for a GUI refresh
// cycle, safe to call while Push runs concurrently on another goroutine.
func (h *History) Snapshot() (acars, other []packets.Record) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	acars = make([]packets.Record, len(h.acars))
	copy(acars, h.acars)
	other = make([]packets.Record, len(h.other))
	copy(other, h.other)
	return acars, other
}

// planeCacheTTL mirrors mode_s.Decoder's MODES_ICAO_CACHE_TTL pattern
// (Regentag-go1090/mode_s/decoder.go): entries age out after a fixed window
// rather than being tracked forever.
const planeCacheTTL = 5 * time.Minute

// PlaneCache tracks recently-seen aircraft registrations so the parser can
// tell a freshly-appearing plane_reg from a repeat within the TTL window,
// grounded on the teacher's own icao_cache (go-cache wrapping a TTL'd
// recently-seen-address set).
type PlaneCache struct {
	c *cache.Cache
}

// NewPlaneCache returns a PlaneCache with entries expiring after
// planeCacheTTL, purged every 30 seconds.
func NewPlaneCache() *PlaneCache {
	return &PlaneCache{c: cache.New(planeCacheTTL, 30*time.Second)}
}

// Seen marks reg as seen just now and reports whether it had already been
// seen within the TTL window.
func (p *PlaneCache) Seen(reg string) (alreadySeen bool) {
	_, found := p.c.Get(reg)
	p.c.SetDefault(reg, time.Now())
	return found
}
