package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"constlit/internal/source"
)

// arena is an append-only slice addressed by 1-based IDs; slot 0 stays empty
// so that the zero ID means "none".
type arena[ID ~uint32, T any] struct {
	data []T
}

func newArena[ID ~uint32, T any](capacity, fallback uint32) arena[ID, T] {
	if capacity == 0 {
		capacity = fallback
	}
	return arena[ID, T]{data: make([]T, 1, capacity+1)}
}

func (a *arena[ID, T]) push(v T, what string) ID {
	value, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("%s arena overflow: %w", what, err))
	}
	a.data = append(a.data, v)
	return ID(value)
}

// Get returns the element or nil for the zero or an unknown ID. The pointer
// is invalidated by the next allocation.
func (a *arena[ID, T]) Get(id ID) *T {
	if id == 0 || int(id) >= len(a.data) {
		return nil
	}
	return &a.data[id]
}

// Len reports the number of elements without the sentinel.
func (a *arena[ID, T]) Len() int { return len(a.data) - 1 }

// Data exposes the elements without the sentinel; Data()[i] has ID i+1.
func (a *arena[ID, T]) Data() []T {
	if len(a.data) <= 1 {
		return nil
	}
	return a.data[1:]
}

func (a *arena[ID, T]) each(fn func(ID, *T)) {
	for i := 1; i < len(a.data); i++ {
		// push не выдает индексов за пределами uint32
		fn(ID(i), &a.data[i]) //nolint:gosec
	}
}

// toSymbolID converts an arena index into an ID.
func toSymbolID(idx int) (SymbolID, error) {
	value, err := safecast.Conv[uint32](idx)
	if err != nil {
		return NoSymbolID, fmt.Errorf("symbol index %d overflows: %w", idx, err)
	}
	return SymbolID(value), nil
}

// Scopes is the scope arena of one resolution pass.
type Scopes struct {
	arena[ScopeID, Scope]
}

// NewScopes creates a scope arena; capacity 0 picks a small default.
func NewScopes(capacity uint32) *Scopes {
	return &Scopes{newArena[ScopeID, Scope](capacity, 32)}
}

// New allocates a scope and records it among the children of parent.
func (s *Scopes) New(kind ScopeKind, parent ScopeID, owner ScopeOwner, span source.Span) ScopeID {
	id := s.push(Scope{
		Kind:      kind,
		Parent:    parent,
		Owner:     owner,
		Span:      span,
		NameIndex: make(map[source.StringID]SymbolID),
	}, "scopes")
	if p := s.Get(parent); p != nil {
		p.Children = append(p.Children, id)
	}
	return id
}

// Symbols is the declaration arena. Declarations are immutable once their
// flags are settled by the resolver.
type Symbols struct {
	arena[SymbolID, Symbol]
}

// NewSymbols creates a symbol arena; capacity 0 picks a small default.
func NewSymbols(capacity uint32) *Symbols {
	return &Symbols{newArena[SymbolID, Symbol](capacity, 64)}
}

// New copies sym into the arena.
func (s *Symbols) New(sym *Symbol) SymbolID {
	if sym == nil {
		panic("symbols.New: nil symbol")
	}
	return s.push(*sym, "symbols")
}
