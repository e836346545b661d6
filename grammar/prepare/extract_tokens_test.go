package prepare

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kagari-lang/kagari/grammar"
)

func TestExtractTokens(t *testing.T) {
	tests := []struct {
		caption     string
		interned    *InternedGrammar
		syntaxRules map[string]grammar.Rule
		tokens      []grammar.Variable
		separators  []grammar.Rule
		errMsg      string
	}{
		{
			caption: "string literals are lifted into anonymous tokens",
			interned: &InternedGrammar{
				Variables: []grammar.Variable{
					grammar.NamedVariable("sum", grammar.Seq(
						grammar.Sym(grammar.NonTerminalSymbol(0)),
						grammar.Lit("+"),
						grammar.Sym(grammar.NonTerminalSymbol(0)),
					)),
				},
			},
			syntaxRules: map[string]grammar.Rule{
				"sum": grammar.Seq(
					grammar.Sym(grammar.NonTerminalSymbol(0)),
					grammar.Sym(grammar.TerminalSymbol(0)),
					grammar.Sym(grammar.NonTerminalSymbol(0)),
				),
			},
			tokens: []grammar.Variable{
				grammar.AnonymousVariable("+", grammar.Lit("+")),
			},
		},
		{
			caption: "identical literals share one token",
			interned: &InternedGrammar{
				Variables: []grammar.Variable{
					grammar.NamedVariable("pair", grammar.Seq(
						grammar.Lit(","), grammar.Lit(","),
					)),
				},
			},
			syntaxRules: map[string]grammar.Rule{
				"pair": grammar.Seq(
					grammar.Sym(grammar.TerminalSymbol(0)),
					grammar.Sym(grammar.TerminalSymbol(0)),
				),
			},
			tokens: []grammar.Variable{
				grammar.AnonymousVariable(",", grammar.Lit(",")),
			},
		},
		{
			caption: "a variable whose body is one token names that token",
			interned: &InternedGrammar{
				Variables: []grammar.Variable{
					grammar.NamedVariable("doc", grammar.Sym(grammar.NonTerminalSymbol(1))),
					grammar.NamedVariable("number", grammar.Pat("[0-9]+")),
				},
			},
			syntaxRules: map[string]grammar.Rule{
				"doc": grammar.Sym(grammar.TerminalSymbol(0)),
			},
			tokens: []grammar.Variable{
				grammar.NamedVariable("number", grammar.Pat("[0-9]+")),
			},
		},
		{
			caption: "a token-marked subtree is lifted whole",
			interned: &InternedGrammar{
				Variables: []grammar.Variable{
					grammar.NamedVariable("doc", grammar.Seq(
						grammar.Token(grammar.Seq(
							grammar.Lit("#"), grammar.Pat("[a-z]+"),
						)),
						grammar.Lit("end"),
					)),
				},
			},
			syntaxRules: map[string]grammar.Rule{
				"doc": grammar.Seq(
					grammar.Sym(grammar.TerminalSymbol(0)),
					grammar.Sym(grammar.TerminalSymbol(1)),
				),
			},
			tokens: []grammar.Variable{
				grammar.AnonymousVariable("doc_token1", grammar.Seq(
					grammar.Lit("#"), grammar.Pat("[a-z]+"),
				)),
				grammar.AnonymousVariable("end", grammar.Lit("end")),
			},
		},
		{
			caption: "annotations around a token marker stay on the syntactic side",
			interned: &InternedGrammar{
				Variables: []grammar.Variable{
					grammar.NamedVariable("doc", grammar.PrecLeft(
						grammar.NumberPrecedence(2),
						grammar.Token(grammar.Lit("if")),
					)),
				},
			},
			syntaxRules: map[string]grammar.Rule{
				"doc": grammar.PrecLeft(
					grammar.NumberPrecedence(2),
					grammar.Sym(grammar.TerminalSymbol(0)),
				),
			},
			tokens: []grammar.Variable{
				grammar.AnonymousVariable("if", grammar.Lit("if")),
			},
		},
		{
			caption: "variables reachable only from token bodies move into the lexical grammar",
			interned: &InternedGrammar{
				Variables: []grammar.Variable{
					grammar.NamedVariable("doc", grammar.Sym(grammar.NonTerminalSymbol(1))),
					grammar.NamedVariable("word", grammar.Token(grammar.Sym(grammar.NonTerminalSymbol(2)))),
					grammar.HiddenVariable("_letters", grammar.Pat("[a-z]+")),
				},
			},
			syntaxRules: map[string]grammar.Rule{
				"doc": grammar.Sym(grammar.TerminalSymbol(0)),
			},
			tokens: []grammar.Variable{
				grammar.NamedVariable("word", grammar.Sym(grammar.TerminalSymbol(1))),
				grammar.HiddenVariable("_letters", grammar.Pat("[a-z]+")),
			},
		},
		{
			caption: "extras referencing tokens become separators",
			interned: &InternedGrammar{
				Variables: []grammar.Variable{
					grammar.NamedVariable("doc", grammar.Sym(grammar.NonTerminalSymbol(1))),
					grammar.NamedVariable("ws", grammar.Pat("\\s+")),
				},
				ExtraSymbols: []grammar.Rule{grammar.Sym(grammar.NonTerminalSymbol(1))},
			},
			syntaxRules: map[string]grammar.Rule{
				"doc": grammar.Sym(grammar.TerminalSymbol(0)),
			},
			tokens: []grammar.Variable{
				grammar.NamedVariable("ws", grammar.Pat("\\s+")),
			},
			separators: []grammar.Rule{grammar.Pat("\\s+")},
		},
		{
			caption: "the start rule cannot become a token",
			interned: &InternedGrammar{
				Variables: []grammar.Variable{
					grammar.NamedVariable("doc", grammar.Pat("[a-z]+")),
				},
				WordToken: symbolPtr(grammar.NonTerminalSymbol(0)),
			},
			errMsg: "The start rule 'doc' cannot be a token",
		},
		{
			caption: "a compound extra is rejected",
			interned: &InternedGrammar{
				Variables: []grammar.Variable{
					grammar.NamedVariable("doc", grammar.Seq(grammar.Lit("x"), grammar.Lit("y"))),
				},
				ExtraSymbols: []grammar.Rule{grammar.Seq(
					grammar.Lit("a"), grammar.Lit("b"),
				)},
			},
			errMsg: "Extra rules must be tokens or external tokens",
		},
		{
			caption: "an inline target that became a token is rejected",
			interned: &InternedGrammar{
				Variables: []grammar.Variable{
					grammar.NamedVariable("doc", grammar.Sym(grammar.NonTerminalSymbol(1))),
					grammar.NamedVariable("number", grammar.Pat("[0-9]+")),
				},
				VariablesToInline: []grammar.Symbol{grammar.NonTerminalSymbol(1)},
			},
			errMsg: "The rule 'number' cannot be inlined because it is a token",
		},
		{
			caption: "the word token cannot be an external token",
			interned: &InternedGrammar{
				Variables: []grammar.Variable{
					grammar.NamedVariable("doc", grammar.Seq(grammar.Lit("x"), grammar.Lit("y"))),
				},
				ExternalTokens: []grammar.Variable{
					grammar.NamedVariable("comment", grammar.Sym(grammar.ExternalSymbol(0))),
				},
				WordToken: symbolPtr(grammar.ExternalSymbol(0)),
			},
			errMsg: "The word token 'comment' must be a token",
		},
		{
			caption: "a supertype that became a token is rejected",
			interned: &InternedGrammar{
				Variables: []grammar.Variable{
					grammar.NamedVariable("doc", grammar.Sym(grammar.NonTerminalSymbol(1))),
					grammar.NamedVariable("number", grammar.Pat("[0-9]+")),
				},
				SupertypeSymbols: []grammar.Symbol{grammar.NonTerminalSymbol(1)},
			},
			errMsg: "The supertype rule 'number' must not be a token",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			syntax, lexical, err := extractTokens(tt.interned)
			if tt.errMsg != "" {
				require.Error(t, err)
				require.Equal(t, tt.errMsg, err.Error())
				return
			}
			require.NoError(t, err)

			require.Len(t, syntax.Variables, len(tt.syntaxRules))
			for _, v := range syntax.Variables {
				want, ok := tt.syntaxRules[v.Name]
				require.True(t, ok, "unexpected syntactic variable %v", v.Name)
				require.True(t, grammar.RulesEqual(want, v.Rule),
					"variable %v: want %#v, got %#v", v.Name, want, v.Rule)
			}

			require.Equal(t, tt.tokens, lexical.Variables)
			require.Equal(t, tt.separators, lexical.Separators)
		})
	}
}

func TestExtractTokensRenumbersDensely(t *testing.T) {
	// doc refers to both a surviving variable and one that moves into the
	// lexical grammar; the survivor must be renumbered to close the gap.
	interned := &InternedGrammar{
		Variables: []grammar.Variable{
			grammar.NamedVariable("doc", grammar.Seq(
				grammar.Sym(grammar.NonTerminalSymbol(1)),
				grammar.Sym(grammar.NonTerminalSymbol(2)),
			)),
			grammar.NamedVariable("number", grammar.Pat("[0-9]+")),
			grammar.NamedVariable("phrase", grammar.Seq(
				grammar.Sym(grammar.NonTerminalSymbol(1)),
				grammar.Sym(grammar.NonTerminalSymbol(1)),
			)),
		},
	}
	syntax, lexical, err := extractTokens(interned)
	require.NoError(t, err)

	require.Len(t, syntax.Variables, 2)
	require.Equal(t, "doc", syntax.Variables[0].Name)
	require.Equal(t, "phrase", syntax.Variables[1].Name)
	require.True(t, grammar.RulesEqual(
		grammar.Seq(
			grammar.Sym(grammar.TerminalSymbol(0)),
			grammar.Sym(grammar.NonTerminalSymbol(1)),
		),
		syntax.Variables[0].Rule,
	))
	require.True(t, grammar.RulesEqual(
		grammar.Seq(
			grammar.Sym(grammar.TerminalSymbol(0)),
			grammar.Sym(grammar.TerminalSymbol(0)),
		),
		syntax.Variables[1].Rule,
	))
	require.Equal(t, []grammar.Variable{
		grammar.NamedVariable("number", grammar.Pat("[0-9]+")),
	}, lexical.Variables)
}

func symbolPtr(sym grammar.Symbol) *grammar.Symbol {
	return &sym
}
