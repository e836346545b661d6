package grammar

import (
	"encoding/json"
	"fmt"
	"sort"
)

type SymbolKind int

const (
	SymbolKindNonTerminal SymbolKind = iota
	SymbolKindTerminal
	SymbolKindExternal
	SymbolKindEnd
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolKindNonTerminal:
		return "non-terminal"
	case SymbolKindTerminal:
		return "terminal"
	case SymbolKindExternal:
		return "external"
	case SymbolKindEnd:
		return "end"
	}
	return "?"
}

// Symbol is a resolved reference to a variable, terminal, or external token.
// Index is a dense, zero-based position in the table owned by the symbol's kind.
type Symbol struct {
	Kind  SymbolKind `json:"kind"`
	Index int        `json:"index"`
}

func NonTerminalSymbol(index int) Symbol {
	return Symbol{Kind: SymbolKindNonTerminal, Index: index}
}

func TerminalSymbol(index int) Symbol {
	return Symbol{Kind: SymbolKindTerminal, Index: index}
}

func ExternalSymbol(index int) Symbol {
	return Symbol{Kind: SymbolKindExternal, Index: index}
}

func EndSymbol() Symbol {
	return Symbol{Kind: SymbolKindEnd}
}

func (s Symbol) IsNonTerminal() bool {
	return s.Kind == SymbolKindNonTerminal
}

func (s Symbol) IsTerminal() bool {
	return s.Kind == SymbolKindTerminal
}

func (s Symbol) IsExternal() bool {
	return s.Kind == SymbolKindExternal
}

func (s Symbol) String() string {
	var prefix string
	switch s.Kind {
	case SymbolKindNonTerminal:
		prefix = "n"
	case SymbolKindTerminal:
		prefix = "t"
	case SymbolKindExternal:
		prefix = "x"
	case SymbolKindEnd:
		prefix = "e"
	default:
		prefix = "?"
	}
	return fmt.Sprintf("%v%v", prefix, s.Index)
}

// Alias is a display name assigned to a symbol in produced syntax trees.
type Alias struct {
	Value   string `json:"value"`
	IsNamed bool   `json:"is_named"`
}

// AliasMap assigns each symbol its default display alias.
type AliasMap map[Symbol]Alias

// MarshalJSON renders the map as a list sorted by symbol so serialized
// output is stable across runs.
func (m AliasMap) MarshalJSON() ([]byte, error) {
	type entry struct {
		Symbol Symbol `json:"symbol"`
		Alias  Alias  `json:"alias"`
	}
	entries := make([]entry, 0, len(m))
	for sym, alias := range m {
		entries = append(entries, entry{Symbol: sym, Alias: alias})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].Symbol, entries[j].Symbol
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Index < b.Index
	})
	return json.Marshal(entries)
}
