// Package prepare transforms a user-authored grammar into the normalized
// forms a parse-table builder requires: a syntax grammar of flat productions
// over resolved symbols, a lexical grammar of expanded token definitions, a
// map of inlinable productions, and a map of default display aliases.
package prepare

import (
	"github.com/kagari-lang/kagari/grammar"
)

// IntermediateGrammar is the aggregate shape shared by the two middle stages
// of the pipeline. T is the representation of extra (non-syntax) symbols and
// U the representation of external tokens; both become progressively more
// resolved as the pipeline advances.
type IntermediateGrammar[T, U any] struct {
	Variables           []grammar.Variable
	ExtraSymbols        []T
	ExpectedConflicts   [][]grammar.Symbol
	PrecedenceOrderings [][]grammar.PrecedenceEntry
	ExternalTokens      []U
	VariablesToInline   []grammar.Symbol
	SupertypeSymbols    []grammar.Symbol
	WordToken           *grammar.Symbol
	ReservedWordSets    []grammar.ReservedWordContext[T]
}

// InternedGrammar is the pipeline state after symbol interning: every name
// reference has been resolved, but tokens have not been separated out yet.
type InternedGrammar = IntermediateGrammar[grammar.Rule, grammar.Variable]

// ExtractedSyntaxGrammar is the syntactic skeleton left after token
// extraction.
type ExtractedSyntaxGrammar = IntermediateGrammar[grammar.Symbol, grammar.ExternalToken]

// ExtractedLexicalGrammar is the lexical half produced by token extraction:
// token definitions still in rule-tree form, plus the separator rules
// implicitly allowed between tokens.
type ExtractedLexicalGrammar struct {
	Variables  []grammar.Variable
	Separators []grammar.Rule
}

// Result is the 4-tuple handed to the parse-table builder.
type Result struct {
	SyntaxGrammar  *grammar.SyntaxGrammar
	LexicalGrammar *grammar.LexicalGrammar
	Inlines        *grammar.InlinedProductionMap
	Aliases        grammar.AliasMap
}

// Prepare runs the full preparation pipeline. The first failing stage aborts
// the run; no partial output is returned.
func Prepare(input *grammar.InputGrammar) (*Result, error) {
	if err := validatePrecedences(input); err != nil {
		return nil, wrapError(err)
	}

	interned, err := internSymbols(input)
	if err != nil {
		return nil, wrapError(err)
	}
	extractedSyntax, extractedLexical, err := extractTokens(interned)
	if err != nil {
		return nil, wrapError(err)
	}
	expandRepeats(extractedSyntax)
	syntax, err := flattenGrammar(extractedSyntax)
	if err != nil {
		return nil, wrapError(err)
	}
	lexical, err := expandTokens(input.Name, extractedLexical)
	if err != nil {
		return nil, wrapError(err)
	}
	aliases := extractDefaultAliases(syntax, lexical)
	inlines, err := processInlines(syntax, lexical)
	if err != nil {
		return nil, wrapError(err)
	}

	return &Result{
		SyntaxGrammar:  syntax,
		LexicalGrammar: lexical,
		Inlines:        inlines,
		Aliases:        aliases,
	}, nil
}
