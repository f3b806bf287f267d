package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

type tracerKey struct{}

type spanKey struct{}

// WithTracer attaches t to ctx. A nil t detaches tracing.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer of ctx or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// SpanID returns the id of the innermost span started on ctx, 0 if none.
func SpanID(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(spanKey{}).(uint64)
	return id
}

// Span is an open interval of work. A nil *Span is valid and does nothing,
// which is what Start returns when the level filters the scope out.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	attrs   []Attr
	ended   atomic.Bool
}

// Start opens a span under the innermost span of ctx and returns a context
// carrying it. Attributes are emitted on both the begin and the end event.
func Start(ctx context.Context, scope Scope, name string, attrs ...Attr) (context.Context, *Span) {
	t := FromContext(ctx)
	if !t.Level().Allows(scope) {
		return ctx, nil
	}
	s := &Span{
		tracer:  t,
		id:      spanCounter.Add(1),
		parent:  SpanID(ctx),
		scope:   scope,
		name:    name,
		started: time.Now(),
		attrs:   attrs,
	}
	t.Emit(s.event(KindBegin, s.started, ""))
	return context.WithValue(ctx, spanKey{}, s.id), s
}

// Set adds an attribute reported on the end event.
func (s *Span) Set(key, value string) *Span {
	if s != nil {
		s.attrs = append(s.attrs, A(key, value))
	}
	return s
}

// End closes the span once; later calls are ignored.
func (s *Span) End(detail string) {
	if s == nil || !s.ended.CompareAndSwap(false, true) {
		return
	}
	now := time.Now()
	ev := s.event(KindEnd, now, detail)
	ev.Elapsed = now.Sub(s.started)
	s.tracer.Emit(ev)
}

// ID returns the span id, 0 for a nil span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

func (s *Span) event(kind Kind, at time.Time, detail string) Event {
	return Event{
		Time:   at,
		Seq:    seqCounter.Add(1),
		Kind:   kind,
		Scope:  s.scope,
		Span:   s.id,
		Parent: s.parent,
		Name:   s.name,
		Detail: detail,
		Attrs:  append([]Attr(nil), s.attrs...),
	}
}

// Mark emits an instant event inside the innermost span of ctx.
func Mark(ctx context.Context, scope Scope, name, detail string, attrs ...Attr) {
	t := FromContext(ctx)
	if !t.Level().Allows(scope) {
		return
	}
	t.Emit(Event{
		Time:   time.Now(),
		Seq:    seqCounter.Add(1),
		Kind:   KindMark,
		Scope:  scope,
		Parent: SpanID(ctx),
		Name:   name,
		Detail: detail,
		Attrs:  attrs,
	})
}
