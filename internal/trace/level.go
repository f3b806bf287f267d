package trace

import (
	"fmt"
	"strings"
)

// Scope is the granularity of a span. Coarser scopes have smaller values.
type Scope uint8

// ScopeRun covers a whole driver run, ScopeFile one AST document and
// ScopeLiteral one constant function literal.
const (
	ScopeRun Scope = iota + 1
	ScopeFile
	ScopeLiteral
)

var scopeNames = [...]string{
	ScopeRun:     "run",
	ScopeFile:    "file",
	ScopeLiteral: "literal",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Level is the finest scope a tracer keeps.
type Level uint8

const (
	LevelOff Level = iota
	LevelRun
	LevelFile
	LevelLiteral
)

func (l Level) String() string {
	if l == LevelOff {
		return "off"
	}
	return Scope(l).String()
}

// Allows reports whether spans of scope s are recorded at level l.
func (l Level) Allows(s Scope) bool {
	return l != LevelOff && uint8(s) <= uint8(l)
}

// ParseLevel parses a --trace-level value.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off":
		return LevelOff, nil
	case "run":
		return LevelRun, nil
	case "file":
		return LevelFile, nil
	case "literal", "all":
		return LevelLiteral, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level %q (expected off|run|file|literal)", s)
	}
}
