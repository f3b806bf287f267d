package astio

import (
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"constlit/internal/source"
)

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// span returns the byte range covered by n: from its own position to the end
// of its last descendant.
func (d *decoder) span(n *yaml.Node) source.Span {
	if n == nil {
		return d.fileSpan()
	}
	if sp, ok := d.spans[n]; ok {
		return sp
	}
	start := d.file.Offset(uint32(max(n.Line, 0)), uint32(max(n.Column, 0)))
	end := start
	switch n.Kind {
	case yaml.ScalarNode:
		width := uint32(len(n.Value))
		if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
			width += 2
		}
		end = start + width
	case yaml.AliasNode:
		end = start + uint32(len(n.Value)) + 1
	default:
		for _, child := range n.Content {
			if child == nil {
				continue
			}
			if e := d.span(child).End; e > end {
				end = e
			}
		}
	}
	if limit := uint32(len(d.file.Content)); end > limit {
		end = limit
	}
	sp := source.Span{File: d.file.ID, Start: start, End: end}
	d.spans[n] = sp
	return sp
}

func (d *decoder) fileSpan() source.Span {
	return source.Span{File: d.file.ID, Start: 0, End: uint32(len(d.file.Content))}
}

// isIdentifier accepts letters, digits, '_' and '$', not starting with a digit.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	if unicode.IsDigit(first) {
		return false
	}
	for _, r := range s {
		if r != '_' && r != '$' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
