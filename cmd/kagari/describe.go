package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	verr "github.com/kagari-lang/kagari/error"
	"github.com/kagari-lang/kagari/grammar"
	"github.com/kagari-lang/kagari/grammar/prepare"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe",
		Short:   "Print a prepared grammar in readable format",
		Example: `  kagari describe grammar.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

const describeTemplate = `# {{ .Name }}

## Variables
{{ range .Variables }}
{{ . }}
{{- end }}

## Tokens
{{ range .Tokens }}
{{ . }}
{{- end }}
{{- if .Aliases }}

## Default aliases
{{ range .Aliases }}
{{ . }}
{{- end }}
{{- end }}
{{- if .InlineCount }}

inlined production steps: {{ .InlineCount }}
{{- end }}
`

type description struct {
	Name        string
	Variables   []string
	Tokens      []string
	Aliases     []string
	InlineCount int
}

func runDescribe(cmd *cobra.Command, args []string) error {
	input, sourceName, err := readInputGrammar(args)
	if err != nil {
		return err
	}
	result, err := prepare.Prepare(input)
	if err != nil {
		return &verr.SpecError{Cause: err, SourceName: sourceName}
	}

	desc := describeResult(input.Name, result)
	tmpl, err := template.New("description").Parse(describeTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(os.Stdout, desc)
}

func describeResult(name string, result *prepare.Result) *description {
	desc := &description{
		Name:        name,
		InlineCount: result.Inlines.Len(),
	}

	for _, variable := range result.SyntaxGrammar.Variables {
		var b strings.Builder
		fmt.Fprintf(&b, "%v (%v):", variable.Name, variable.Kind)
		for _, production := range variable.Productions {
			fmt.Fprintf(&b, "\n    →")
			if len(production.Steps) == 0 {
				fmt.Fprintf(&b, " ε")
			}
			for _, step := range production.Steps {
				fmt.Fprintf(&b, " %v", symbolName(step.Symbol, result))
			}
		}
		desc.Variables = append(desc.Variables, b.String())
	}

	for i, token := range result.LexicalGrammar.Variables {
		entry := result.LexicalGrammar.LexSpec.Entries[i]
		kind := fmt.Sprintf("%v", token.Kind)
		if entry.Fragment {
			kind = "fragment"
		}
		desc.Tokens = append(desc.Tokens,
			fmt.Sprintf("%v (%v): %v", entry.Kind, kind, entry.Pattern))
	}

	for _, sym := range sortedAliasSymbols(result.Aliases) {
		desc.Aliases = append(desc.Aliases,
			fmt.Sprintf("%v → %v", symbolName(sym, result), result.Aliases[sym].Value))
	}

	return desc
}

func symbolName(sym grammar.Symbol, result *prepare.Result) string {
	switch sym.Kind {
	case grammar.SymbolKindNonTerminal:
		if v := result.SyntaxGrammar.Variable(sym); v != nil {
			return v.Name
		}
	case grammar.SymbolKindTerminal:
		if v := result.LexicalGrammar.Variable(sym); v != nil {
			return fmt.Sprintf("%q", v.Name)
		}
	case grammar.SymbolKindExternal:
		if sym.Index < len(result.SyntaxGrammar.ExternalTokens) {
			return result.SyntaxGrammar.ExternalTokens[sym.Index].Name
		}
	}
	return sym.String()
}

func sortedAliasSymbols(aliases grammar.AliasMap) []grammar.Symbol {
	syms := make([]grammar.Symbol, 0, len(aliases))
	for sym := range aliases {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		if syms[i].Kind != syms[j].Kind {
			return syms[i].Kind < syms[j].Kind
		}
		return syms[i].Index < syms[j].Index
	})
	return syms
}
