package prepare

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kagari-lang/kagari/grammar"
)

func calcGrammar() *grammar.InputGrammar {
	return &grammar.InputGrammar{
		Name: "calc",
		Variables: []grammar.Variable{
			grammar.NamedVariable("doc", grammar.Seq(
				grammar.Ref("expr"),
				grammar.Repeat(grammar.Seq(grammar.Lit(";"), grammar.Ref("expr"))),
			)),
			grammar.NamedVariable("expr", grammar.Choice(
				grammar.PrecLeft(grammar.NamePrecedence("sum"), grammar.Seq(
					grammar.Ref("expr"), grammar.Lit("+"), grammar.Ref("expr"),
				)),
				grammar.Ref("term"),
			)),
			grammar.NamedVariable("term", grammar.Choice(
				grammar.Ref("number"),
				grammar.Seq(grammar.Lit("("), grammar.Ref("expr"), grammar.Lit(")")),
			)),
			grammar.NamedVariable("number", grammar.Pat("[0-9]+")),
		},
		ExtraSymbols: []grammar.Rule{grammar.Pat(`\s+`)},
		PrecedenceOrderings: [][]grammar.PrecedenceEntry{
			{grammar.NamedEntry("sum")},
		},
		VariablesToInline: []string{"term"},
	}
}

func TestPrepare(t *testing.T) {
	result, err := Prepare(calcGrammar())
	require.NoError(t, err)

	syntax := result.SyntaxGrammar
	var names []string
	for _, v := range syntax.Variables {
		names = append(names, v.Name)
		require.Len(t, v.Productions, 2)
	}
	require.Equal(t, []string{"doc", "expr", "term", "doc_repeat1"}, names)

	var kinds []string
	for _, e := range result.LexicalGrammar.LexSpec.Entries {
		kinds = append(kinds, string(e.Kind))
	}
	require.Equal(t, []string{"token_1", "token_2", "token_3", "token_4", "number", "token_6"}, kinds)
	require.Equal(t, []grammar.Rule{grammar.Pat(`\s+`)}, result.LexicalGrammar.Separators)

	// The repeat-synthesized variable is displayed under the repeating rule's
	// name; punctuation tokens are displayed as their literal text.
	require.Equal(t, grammar.Alias{Value: "doc", IsNamed: true},
		result.Aliases[grammar.NonTerminalSymbol(3)])
	require.Equal(t, grammar.Alias{Value: "+"},
		result.Aliases[grammar.TerminalSymbol(1)])

	// term substitutes into expr's second production.
	exprProd := syntax.Variables[1].Productions[1]
	require.True(t, result.Inlines.HasInlinedSteps(exprProd.ID))
	alternatives := result.Inlines.InlinedProductions(exprProd.ID, 0)
	require.Len(t, alternatives, 2)
	require.Equal(t, []grammar.Symbol{grammar.TerminalSymbol(4)}, stepSymbols(alternatives[0]))
	require.Equal(t, []grammar.Symbol{
		grammar.TerminalSymbol(2),
		grammar.NonTerminalSymbol(1),
		grammar.TerminalSymbol(3),
	}, stepSymbols(alternatives[1]))
}

func TestPrepareResolvesAllStepSymbols(t *testing.T) {
	result, err := Prepare(calcGrammar())
	require.NoError(t, err)

	syntax := result.SyntaxGrammar
	for _, v := range syntax.Variables {
		for _, p := range v.Productions {
			for _, step := range p.Steps {
				switch step.Symbol.Kind {
				case grammar.SymbolKindNonTerminal:
					require.Less(t, step.Symbol.Index, len(syntax.Variables))
				case grammar.SymbolKindTerminal:
					require.Less(t, step.Symbol.Index, len(result.LexicalGrammar.Variables))
				case grammar.SymbolKindExternal:
					require.Less(t, step.Symbol.Index, len(syntax.ExternalTokens))
				default:
					t.Fatalf("unexpected symbol %v in production of %v", step.Symbol, v.Name)
				}
			}
		}
	}
}

func TestPrepareIsDeterministic(t *testing.T) {
	first, err := Prepare(calcGrammar())
	require.NoError(t, err)
	second, err := Prepare(calcGrammar())
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestPrepareReportsTaggedErrors(t *testing.T) {
	tests := []struct {
		caption string
		mutate  func(input *grammar.InputGrammar)
		kind    ErrorKind
		errMsg  string
	}{
		{
			caption: "an undeclared precedence aborts the run",
			mutate: func(input *grammar.InputGrammar) {
				input.Variables[1].Rule = grammar.Prec(
					grammar.NamePrecedence("product"), grammar.Ref("term"),
				)
			},
			kind:   ErrorKindUndeclaredPrecedence,
			errMsg: "Undeclared precedence 'product' in rule 'expr'",
		},
		{
			caption: "conflicting orderings abort the run",
			mutate: func(input *grammar.InputGrammar) {
				input.PrecedenceOrderings = [][]grammar.PrecedenceEntry{
					{grammar.NamedEntry("sum"), grammar.NamedEntry("product")},
					{grammar.NamedEntry("product"), grammar.NamedEntry("sum")},
				}
			},
			kind:   ErrorKindConflictingOrdering,
			errMsg: "Conflicting orderings for precedences 'product' and 'sum'",
		},
		{
			caption: "an undefined reference aborts the run",
			mutate: func(input *grammar.InputGrammar) {
				input.Variables[0].Rule = grammar.Ref("ghost")
			},
			kind:   ErrorKindInternSymbols,
			errMsg: "Undefined symbol 'ghost' in rule 'doc'",
		},
		{
			caption: "inlining a token aborts the run",
			mutate: func(input *grammar.InputGrammar) {
				input.VariablesToInline = []string{"number"}
			},
			kind:   ErrorKindExtractTokens,
			errMsg: "The rule 'number' cannot be inlined because it is a token",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			input := calcGrammar()
			tt.mutate(input)
			_, err := Prepare(input)
			require.Error(t, err)

			var prepErr *Error
			require.True(t, errors.As(err, &prepErr))
			require.Equal(t, tt.kind, prepErr.Kind)
			require.Equal(t, tt.errMsg, err.Error())
		})
	}
}
