// Package sink implements the record fan-out destinations a parsed Aero
// record can be sent to (spec.md §4's sink fan-out): UDP, per-message-type
// JSON files, and (via Fanout) any combination of the two. Every Send keeps
// going on a per-destination error rather than aborting the whole fan-out,
// per spec.md §7's error-handling contract.
package sink

import "context"

// Sink is one destination a JSON-serializable record can be sent to.
type Sink interface {
	Send(ctx context.Context, record map[string]any) error
	Close() error
}

// Fanout sends every record to each of its member sinks, logging (via the
// caller-supplied onError, typically wrapping slog) any destination's
// failure without letting it stop the others.
type Fanout struct {
	sinks   []Sink
	onError func(sink Sink, err error)
}

// NewFanout builds a Fanout over sinks. onError may be nil, in which case
// per-sink errors are silently dropped.
func NewFanout(sinks []Sink, onError func(sink Sink, err error)) *Fanout {
	return &Fanout{sinks: sinks, onError: onError}
}

// Send dispatches record to every member sink independently.
func (f *Fanout) Send(ctx context.Context, record map[string]any) error {
	for _, s := range f.sinks {
		if err := s.Send(ctx, record); err != nil && f.onError != nil {
			f.onError(s, err)
		}
	}
	return nil
}

// Close closes every member sink, returning the first error encountered (if
// any) after attempting to close them all.
func (f *Fanout) Close() error {
	var first error
	for _, s := range f.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
