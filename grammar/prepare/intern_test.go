package prepare

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kagari-lang/kagari/grammar"
)

func TestInternSymbols(t *testing.T) {
	tests := []struct {
		caption   string
		input     *grammar.InputGrammar
		rules     []grammar.Rule
		kinds     []grammar.VariableKind
		wordToken *grammar.Symbol
		errMsg    string
	}{
		{
			caption: "references resolve to variables in declaration order",
			input: &grammar.InputGrammar{
				Name: "test",
				Variables: []grammar.Variable{
					grammar.NamedVariable("expr", grammar.Seq(grammar.Ref("term"), grammar.Ref("expr"))),
					grammar.NamedVariable("term", grammar.Lit("x")),
				},
			},
			rules: []grammar.Rule{
				grammar.Seq(
					grammar.Sym(grammar.NonTerminalSymbol(1)),
					grammar.Sym(grammar.NonTerminalSymbol(0)),
				),
				grammar.Lit("x"),
			},
			kinds: []grammar.VariableKind{grammar.VariableKindNamed, grammar.VariableKindNamed},
		},
		{
			caption: "an underscore prefix marks a variable hidden",
			input: &grammar.InputGrammar{
				Name: "test",
				Variables: []grammar.Variable{
					grammar.NamedVariable("expr", grammar.Ref("_inner")),
					grammar.NamedVariable("_inner", grammar.Lit("x")),
				},
			},
			rules: []grammar.Rule{
				grammar.Sym(grammar.NonTerminalSymbol(1)),
				grammar.Lit("x"),
			},
			kinds: []grammar.VariableKind{grammar.VariableKindNamed, grammar.VariableKindHidden},
		},
		{
			caption: "references falling through to external tokens resolve as external symbols",
			input: &grammar.InputGrammar{
				Name: "test",
				Variables: []grammar.Variable{
					grammar.NamedVariable("doc", grammar.Ref("comment")),
				},
				ExternalTokens: []grammar.Rule{grammar.Ref("comment")},
			},
			rules: []grammar.Rule{
				grammar.Sym(grammar.ExternalSymbol(0)),
			},
			kinds: []grammar.VariableKind{grammar.VariableKindNamed},
		},
		{
			caption: "a variable shadows an external token of the same name",
			input: &grammar.InputGrammar{
				Name: "test",
				Variables: []grammar.Variable{
					grammar.NamedVariable("doc", grammar.Ref("comment")),
					grammar.NamedVariable("comment", grammar.Token(grammar.Pat("//.*"))),
				},
				ExternalTokens: []grammar.Rule{grammar.Ref("comment")},
			},
			rules: []grammar.Rule{
				grammar.Sym(grammar.NonTerminalSymbol(1)),
				grammar.Token(grammar.Pat("//.*")),
			},
			kinds: []grammar.VariableKind{grammar.VariableKindNamed, grammar.VariableKindNamed},
		},
		{
			caption: "the word token resolves like any other name",
			input: &grammar.InputGrammar{
				Name: "test",
				Variables: []grammar.Variable{
					grammar.NamedVariable("doc", grammar.Ref("ident")),
					grammar.NamedVariable("ident", grammar.Token(grammar.Pat("\\w+"))),
				},
				WordToken: "ident",
			},
			rules: []grammar.Rule{
				grammar.Sym(grammar.NonTerminalSymbol(1)),
				grammar.Token(grammar.Pat("\\w+")),
			},
			kinds:     []grammar.VariableKind{grammar.VariableKindNamed, grammar.VariableKindNamed},
			wordToken: &grammar.Symbol{Kind: grammar.SymbolKindNonTerminal, Index: 1},
		},
		{
			caption: "an unresolvable reference is reported with its enclosing rule",
			input: &grammar.InputGrammar{
				Name: "test",
				Variables: []grammar.Variable{
					grammar.NamedVariable("expr", grammar.Ref("nothing")),
				},
			},
			errMsg: "Undefined symbol 'nothing' in rule 'expr'",
		},
		{
			caption: "an unresolvable inline target is reported",
			input: &grammar.InputGrammar{
				Name: "test",
				Variables: []grammar.Variable{
					grammar.NamedVariable("expr", grammar.Lit("x")),
				},
				VariablesToInline: []string{"ghost"},
			},
			errMsg: "Undefined symbol 'ghost'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			interned, err := internSymbols(tt.input)
			if tt.errMsg != "" {
				require.Error(t, err)
				require.Equal(t, tt.errMsg, err.Error())
				return
			}
			require.NoError(t, err)
			require.Len(t, interned.Variables, len(tt.rules))
			for i, want := range tt.rules {
				require.True(t, grammar.RulesEqual(want, interned.Variables[i].Rule),
					"variable %v: want %#v, got %#v", tt.input.Variables[i].Name, want, interned.Variables[i].Rule)
				require.Equal(t, tt.kinds[i], interned.Variables[i].Kind)
			}
			require.Equal(t, tt.wordToken, interned.WordToken)
		})
	}
}

func TestInternSymbolsCarriesAncillaryFields(t *testing.T) {
	input := &grammar.InputGrammar{
		Name: "test",
		Variables: []grammar.Variable{
			grammar.NamedVariable("a", grammar.Ref("b")),
			grammar.NamedVariable("b", grammar.Lit("x")),
		},
		ExtraSymbols:      []grammar.Rule{grammar.Pat("\\s")},
		ExpectedConflicts: [][]string{{"a", "b"}},
		VariablesToInline: []string{"b"},
		SupertypeSymbols:  []string{"a"},
		ReservedWordSets: []grammar.ReservedWordContext[grammar.Rule]{
			{Name: "global", ReservedWords: []grammar.Rule{grammar.Lit("if")}},
		},
	}
	interned, err := internSymbols(input)
	require.NoError(t, err)

	require.Equal(t, []grammar.Rule{grammar.Pat("\\s")}, interned.ExtraSymbols)
	require.Equal(t, [][]grammar.Symbol{
		{grammar.NonTerminalSymbol(0), grammar.NonTerminalSymbol(1)},
	}, interned.ExpectedConflicts)
	require.Equal(t, []grammar.Symbol{grammar.NonTerminalSymbol(1)}, interned.VariablesToInline)
	require.Equal(t, []grammar.Symbol{grammar.NonTerminalSymbol(0)}, interned.SupertypeSymbols)
	require.Len(t, interned.ReservedWordSets, 1)
	require.Equal(t, "global", interned.ReservedWordSets[0].Name)
	require.Equal(t, []grammar.Rule{grammar.Lit("if")}, interned.ReservedWordSets[0].ReservedWords)
}
