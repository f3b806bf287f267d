package trace

import "sync"

// Recorder keeps events in memory. With a positive limit only the newest
// limit events survive.
type Recorder struct {
	mu      sync.Mutex
	level   Level
	limit   int
	events  []Event
	dropped int
}

// NewRecorder returns a recorder accepting scopes up to level.
func NewRecorder(level Level, limit int) *Recorder {
	return &Recorder{level: level, limit: limit}
}

func (r *Recorder) Emit(ev Event) {
	if !r.level.Allows(ev.Scope) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.limit > 0 && len(r.events) == r.limit {
		copy(r.events, r.events[1:])
		r.events = r.events[:len(r.events)-1]
		r.dropped++
	}
	r.events = append(r.events, ev)
}

func (r *Recorder) Level() Level { return r.level }

func (r *Recorder) Close() error { return nil }

// Events returns a copy of the recorded events in emission order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Dropped reports how many events were evicted by the limit.
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Named returns the recorded events with the given name and kind.
func (r *Recorder) Named(kind Kind, name string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Kind == kind && ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}
