package grammar

import "reflect"

// ExternalToken describes a token recognized by an external scanner. When an
// external token shares a name with an internal lexical variable, the
// corresponding internal symbol is recorded so the two stay interchangeable.
type ExternalToken struct {
	Name                       string       `json:"name"`
	Kind                       VariableKind `json:"kind"`
	CorrespondingInternalToken *Symbol      `json:"corresponding_internal_token,omitempty"`
}

// ReservedWordContext names a set of reserved words that apply in a
// particular parse context. The element type progresses from Rule to Symbol
// as the pipeline resolves references.
type ReservedWordContext[T any] struct {
	Name          string `json:"name"`
	ReservedWords []T    `json:"reserved_words"`
}

// InputGrammar is the fully-parsed grammar description handed to the
// preparation pipeline. Producing it from source text is the surrounding
// tool's responsibility.
type InputGrammar struct {
	Name                string                      `json:"name"`
	Variables           []Variable                  `json:"variables"`
	ExtraSymbols        []Rule                      `json:"extra_symbols,omitempty"`
	ExpectedConflicts   [][]string                  `json:"expected_conflicts,omitempty"`
	PrecedenceOrderings [][]PrecedenceEntry         `json:"precedence_orderings,omitempty"`
	ExternalTokens      []Rule                      `json:"external_tokens,omitempty"`
	VariablesToInline   []string                    `json:"variables_to_inline,omitempty"`
	SupertypeSymbols    []string                    `json:"supertype_symbols,omitempty"`
	WordToken           string                      `json:"word_token,omitempty"`
	ReservedWordSets    []ReservedWordContext[Rule] `json:"reserved_word_sets,omitempty"`
}

// RulesEqual reports whether two rule trees are structurally identical.
func RulesEqual(a, b Rule) bool {
	return reflect.DeepEqual(a, b)
}
