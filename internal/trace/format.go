package trace

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Format of a trace stream.
type Format uint8

const (
	FormatAuto Format = iota // by output file extension
	FormatText
	FormatNDJSON
)

// ParseFormat parses a --trace-format value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	default:
		return FormatAuto, fmt.Errorf("invalid trace format %q (expected auto|text|ndjson)", s)
	}
}

type eventJSON struct {
	Time      string            `json:"time"`
	Seq       uint64            `json:"seq"`
	Kind      string            `json:"kind"`
	Scope     string            `json:"scope"`
	Span      uint64            `json:"span"`
	Parent    uint64            `json:"parent,omitempty"`
	Name      string            `json:"name"`
	Detail    string            `json:"detail,omitempty"`
	ElapsedUS int64             `json:"elapsed_us,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

// appendEvent renders ev as one line terminated by '\n'.
func appendEvent(dst []byte, ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return appendJSON(dst, ev)
	}
	return appendText(dst, ev)
}

func appendJSON(dst []byte, ev *Event) []byte {
	j := eventJSON{
		Time:      ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:       ev.Seq,
		Kind:      ev.Kind.String(),
		Scope:     ev.Scope.String(),
		Span:      ev.Span,
		Parent:    ev.Parent,
		Name:      ev.Name,
		Detail:    ev.Detail,
		ElapsedUS: ev.Elapsed.Microseconds(),
	}
	if len(ev.Attrs) > 0 {
		j.Attrs = make(map[string]string, len(ev.Attrs))
		for _, a := range ev.Attrs {
			j.Attrs[a.Key] = a.Value
		}
	}
	data, err := json.Marshal(j)
	if err != nil {
		// только строки и числа, Marshal тут не падает
		return dst
	}
	return append(append(dst, data...), '\n')
}

// appendText writes "15:04:05.000000 #seq scope  > name key=value (detail) 1.2ms".
// Literal spans are indented under their file.
func appendText(dst []byte, ev *Event) []byte {
	dst = ev.Time.AppendFormat(dst, "15:04:05.000000")
	dst = append(dst, " #"...)
	dst = strconv.AppendUint(dst, ev.Seq, 10)
	dst = append(dst, ' ')
	dst = append(dst, fmt.Sprintf("%-7s ", ev.Scope)...)
	for s := ScopeRun; s < ev.Scope; s++ {
		dst = append(dst, "  "...)
	}
	switch ev.Kind {
	case KindBegin:
		dst = append(dst, "> "...)
	case KindEnd:
		dst = append(dst, "< "...)
	default:
		dst = append(dst, "* "...)
	}
	dst = append(dst, ev.Name...)
	for _, a := range ev.Attrs {
		dst = append(dst, ' ')
		dst = append(dst, a.Key...)
		dst = append(dst, '=')
		dst = strconv.AppendQuote(dst, a.Value)
	}
	if ev.Detail != "" {
		dst = append(dst, " ("...)
		dst = append(dst, ev.Detail...)
		dst = append(dst, ')')
	}
	if ev.Kind == KindEnd {
		dst = append(dst, ' ')
		dst = append(dst, ev.Elapsed.String()...)
	}
	return append(dst, '\n')
}
