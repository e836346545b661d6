package grammar

// SyntaxVariable is a variable whose rule tree has been flattened into an
// ordered list of productions. The order of the productions matches the
// declaration order of the alternatives; table construction relies on it for
// default conflict resolution.
type SyntaxVariable struct {
	Name        string       `json:"name"`
	Kind        VariableKind `json:"kind"`
	Productions []Production `json:"productions"`
}

// SyntaxGrammar is the normalized syntactic half of a prepared grammar.
type SyntaxGrammar struct {
	Variables           []SyntaxVariable              `json:"variables"`
	ExtraSymbols        []Symbol                      `json:"extra_symbols,omitempty"`
	ExpectedConflicts   [][]Symbol                    `json:"expected_conflicts,omitempty"`
	ExternalTokens      []ExternalToken               `json:"external_tokens,omitempty"`
	SupertypeSymbols    []Symbol                      `json:"supertype_symbols,omitempty"`
	VariablesToInline   []Symbol                      `json:"variables_to_inline,omitempty"`
	WordToken           *Symbol                       `json:"word_token,omitempty"`
	PrecedenceOrderings [][]PrecedenceEntry           `json:"precedence_orderings,omitempty"`
	ReservedWordSets    []ReservedWordContext[Symbol] `json:"reserved_word_sets,omitempty"`
}

// Variable returns the syntax variable a non-terminal symbol refers to.
func (g *SyntaxGrammar) Variable(sym Symbol) *SyntaxVariable {
	if !sym.IsNonTerminal() || sym.Index >= len(g.Variables) {
		return nil
	}
	return &g.Variables[sym.Index]
}
