package hexagram

import (
	"errors"
	"fmt"
)

// ErrInvalidSymbol matches every *InvalidTrigramError via errors.Is.
var ErrInvalidSymbol = errors.New("hexagram: invalid symbol")

// SymbolKind names the table a rejected value was looked up in.
type SymbolKind string

const (
	KindTrigram  SymbolKind = "trigram"
	KindStem     SymbolKind = "stem"
	KindBranch   SymbolKind = "branch"
	KindElement  SymbolKind = "element"
	KindRelative SymbolKind = "relative"
)

// InvalidTrigramError reports a name outside one of the fixed symbol sets.
// It always points at unvalidated caller input; the engine never substitutes
// a default in its place.
type InvalidTrigramError struct {
	Kind  SymbolKind
	Value string
}

func (e *InvalidTrigramError) Error() string {
	return fmt.Sprintf("hexagram: unknown %s %q", e.Kind, e.Value)
}

// Is reports whether target is ErrInvalidSymbol.
func (e *InvalidTrigramError) Is(target error) bool {
	return target == ErrInvalidSymbol
}

func invalid(kind SymbolKind, value string) error {
	return &InvalidTrigramError{Kind: kind, Value: value}
}
