package grammar

import (
	mlspec "github.com/nihei9/maleeni/spec"
)

// LexicalVariable is one token definition: a normalized rule tree describing
// how the token is recognized, plus the implicit precedence used to pick
// between overlapping matches at runtime.
type LexicalVariable struct {
	Name               string       `json:"name"`
	Kind               VariableKind `json:"kind"`
	ImplicitPrecedence int          `json:"implicit_precedence,omitempty"`
	Rule               Rule         `json:"rule"`
}

// LexicalGrammar holds the expanded token definitions together with the
// separator rules implicitly allowed between tokens. LexSpec is the same
// information rendered in the form the downstream lexical-automaton builder
// consumes.
type LexicalGrammar struct {
	Variables  []LexicalVariable `json:"variables"`
	Separators []Rule            `json:"separators,omitempty"`
	LexSpec    *mlspec.LexSpec   `json:"lex_spec,omitempty"`
}

// Variable returns the lexical variable a terminal symbol refers to.
func (g *LexicalGrammar) Variable(sym Symbol) *LexicalVariable {
	if !sym.IsTerminal() || sym.Index >= len(g.Variables) {
		return nil
	}
	return &g.Variables[sym.Index]
}
