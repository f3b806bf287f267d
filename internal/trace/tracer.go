package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Tracer receives events. Implementations must be safe for concurrent use:
// documents and literals are checked in parallel.
type Tracer interface {
	Emit(ev Event)
	Level() Level
	Close() error
}

// Config describes a tracer built by Open.
type Config struct {
	Level  Level
	Format Format
	// Path is the output file; "" or "-" means stderr.
	Path string
	// Writer overrides Path when set.
	Writer io.Writer
}

// Open builds a tracer from cfg. LevelOff yields Nop.
func Open(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	format := cfg.Format
	if format == FormatAuto {
		format = FormatText
		if strings.HasSuffix(cfg.Path, ".ndjson") || strings.HasSuffix(cfg.Path, ".jsonl") {
			format = FormatNDJSON
		}
	}
	w := cfg.Writer
	var closer io.Closer
	switch {
	case w != nil:
	case cfg.Path == "" || cfg.Path == "-":
		w = os.Stderr
	default:
		f, err := os.Create(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open trace output: %w", err)
		}
		w, closer = f, f
	}
	return &writerTracer{w: w, closer: closer, level: cfg.Level, format: format}, nil
}

// writerTracer formats every accepted event straight into w.
type writerTracer struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	level  Level
	format Format
	err    error
}

func (t *writerTracer) Emit(ev Event) {
	if !t.level.Allows(ev.Scope) {
		return
	}
	line := appendEvent(nil, &ev, t.format)
	t.mu.Lock()
	defer t.mu.Unlock()
	// первую ошибку записи запоминаем, проверка не должна из-за нее падать
	if t.err == nil {
		_, t.err = t.w.Write(line)
	}
}

func (t *writerTracer) Level() Level { return t.level }

func (t *writerTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	err := t.err
	if t.closer != nil {
		if cerr := t.closer.Close(); err == nil {
			err = cerr
		}
		t.closer = nil
	}
	if err != nil {
		return fmt.Errorf("trace output: %w", err)
	}
	return nil
}

type nopTracer struct{}

func (nopTracer) Emit(Event)   {}
func (nopTracer) Level() Level { return LevelOff }
func (nopTracer) Close() error { return nil }

// Nop discards everything.
var Nop Tracer = nopTracer{}
