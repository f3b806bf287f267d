package trace

import "time"

// Kind of a trace event.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindMark // instant event inside a span, e.g. a cache hit
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindMark:
		return "mark"
	default:
		return "unknown"
	}
}

// Attr is one key/value annotation. Attributes keep insertion order.
type Attr struct {
	Key   string
	Value string
}

// A builds an Attr.
func A(key, value string) Attr { return Attr{Key: key, Value: value} }

// Event is a single record produced by a span.
type Event struct {
	Time    time.Time
	Seq     uint64 // process-wide, monotonic
	Kind    Kind
	Scope   Scope
	Span    uint64
	Parent  uint64 // 0 for a root span
	Name    string
	Detail  string
	Elapsed time.Duration // KindEnd only
	Attrs   []Attr
}

// Attr returns the value of key and whether it is present.
func (e *Event) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
