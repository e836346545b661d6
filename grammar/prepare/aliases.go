package prepare

import (
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/kagari-lang/kagari/grammar"
)

// extractDefaultAliases computes a default display name for every symbol that
// would otherwise be invisible or unstable in produced syntax trees. A symbol
// aliased identically at every use site gets that alias as its default and
// the per-step aliases are cleared in place; hidden, anonymous, and
// repeat-synthesized symbols without an explicit alias get one derived from
// their name or literal text. First-production, first-step order breaks ties.
func extractDefaultAliases(syntax *grammar.SyntaxGrammar, lexical *grammar.LexicalGrammar) grammar.AliasMap {
	type aliasStatus struct {
		alias      *grammar.Alias
		consistent bool
	}
	statuses := map[grammar.Symbol]*aliasStatus{}
	for _, variable := range syntax.Variables {
		for _, production := range variable.Productions {
			for _, step := range production.Steps {
				status, ok := statuses[step.Symbol]
				if !ok {
					statuses[step.Symbol] = &aliasStatus{alias: step.Alias, consistent: true}
					continue
				}
				if !aliasesEqual(status.alias, step.Alias) {
					status.consistent = false
				}
			}
		}
	}

	aliases := grammar.AliasMap{}
	for sym, status := range statuses {
		if status.consistent && status.alias != nil {
			aliases[sym] = *status.alias
		}
	}

	// Promoted aliases become defaults; drop the now-redundant step aliases.
	for vi := range syntax.Variables {
		for pi := range syntax.Variables[vi].Productions {
			steps := syntax.Variables[vi].Productions[pi].Steps
			for si := range steps {
				if steps[si].Alias == nil {
					continue
				}
				if def, ok := aliases[steps[si].Symbol]; ok && def == *steps[si].Alias {
					steps[si].Alias = nil
				}
			}
		}
	}

	for sym := range statuses {
		if _, ok := aliases[sym]; ok {
			continue
		}
		if alias, ok := derivedAlias(sym, syntax, lexical); ok {
			aliases[sym] = alias
		}
	}

	return aliases
}

func aliasesEqual(a, b *grammar.Alias) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

var wordLiteralRE = regexp.MustCompile(`^[A-Za-z_][0-9A-Za-z_]*$`)

func derivedAlias(sym grammar.Symbol, syntax *grammar.SyntaxGrammar, lexical *grammar.LexicalGrammar) (grammar.Alias, bool) {
	switch sym.Kind {
	case grammar.SymbolKindNonTerminal:
		variable := syntax.Variable(sym)
		if variable == nil {
			return grammar.Alias{}, false
		}
		switch variable.Kind {
		case grammar.VariableKindAuxiliary:
			return grammar.Alias{Value: trimAuxiliarySuffix(variable.Name), IsNamed: true}, true
		case grammar.VariableKindHidden:
			return grammar.Alias{Value: strings.TrimLeft(variable.Name, "_"), IsNamed: true}, true
		}
	case grammar.SymbolKindTerminal:
		variable := lexical.Variable(sym)
		if variable == nil || variable.Kind != grammar.VariableKindAnonymous {
			return grammar.Alias{}, false
		}
		value := variable.Name
		if wordLiteralRE.MatchString(value) {
			value = strcase.ToSnake(value)
		}
		return grammar.Alias{Value: value}, true
	}
	return grammar.Alias{}, false
}

var auxiliarySuffixRE = regexp.MustCompile(`_repeat[0-9]+$`)

func trimAuxiliarySuffix(name string) string {
	for {
		trimmed := auxiliarySuffixRE.ReplaceAllString(name, "")
		if trimmed == name {
			return name
		}
		name = trimmed
	}
}
