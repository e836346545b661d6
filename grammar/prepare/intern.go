package prepare

import (
	"strings"

	"github.com/kagari-lang/kagari/grammar"
)

// internSymbols resolves every name reference in the input grammar into a
// symbol with a stable index. The first-declared variable becomes the start
// symbol; all other indices follow declaration order within their kind, so
// later stages can append synthetic symbols without renumbering.
func internSymbols(input *grammar.InputGrammar) (*InternedGrammar, error) {
	in := &interner{input: input}

	variables := make([]grammar.Variable, 0, len(input.Variables))
	for _, variable := range input.Variables {
		rule, err := in.internRule(variable.Name, variable.Rule)
		if err != nil {
			return nil, err
		}
		variables = append(variables, grammar.Variable{
			Name: variable.Name,
			Kind: variableKindForName(variable.Name),
			Rule: rule,
		})
	}

	externalTokens := make([]grammar.Variable, 0, len(input.ExternalTokens))
	for _, token := range input.ExternalTokens {
		rule, err := in.internRule("", token)
		if err != nil {
			return nil, err
		}
		var name string
		kind := grammar.VariableKindAnonymous
		switch t := token.(type) {
		case grammar.NamedSymbolRule:
			name = t.Name
			kind = variableKindForName(t.Name)
		case grammar.StringRule:
			name = t.Value
		}
		externalTokens = append(externalTokens, grammar.Variable{
			Name: name,
			Kind: kind,
			Rule: rule,
		})
	}

	extraSymbols := make([]grammar.Rule, 0, len(input.ExtraSymbols))
	for _, extra := range input.ExtraSymbols {
		rule, err := in.internRule("", extra)
		if err != nil {
			return nil, err
		}
		extraSymbols = append(extraSymbols, rule)
	}

	expectedConflicts := make([][]grammar.Symbol, 0, len(input.ExpectedConflicts))
	for _, conflict := range input.ExpectedConflicts {
		syms := make([]grammar.Symbol, 0, len(conflict))
		for _, name := range conflict {
			sym, err := in.symbolForName(name, "")
			if err != nil {
				return nil, err
			}
			syms = append(syms, sym)
		}
		expectedConflicts = append(expectedConflicts, syms)
	}

	variablesToInline := make([]grammar.Symbol, 0, len(input.VariablesToInline))
	for _, name := range input.VariablesToInline {
		sym, err := in.symbolForName(name, "")
		if err != nil {
			return nil, err
		}
		variablesToInline = append(variablesToInline, sym)
	}

	supertypeSymbols := make([]grammar.Symbol, 0, len(input.SupertypeSymbols))
	for _, name := range input.SupertypeSymbols {
		sym, err := in.symbolForName(name, "")
		if err != nil {
			return nil, err
		}
		supertypeSymbols = append(supertypeSymbols, sym)
	}

	var wordToken *grammar.Symbol
	if input.WordToken != "" {
		sym, err := in.symbolForName(input.WordToken, "")
		if err != nil {
			return nil, err
		}
		wordToken = &sym
	}

	reservedWordSets := make([]grammar.ReservedWordContext[grammar.Rule], 0, len(input.ReservedWordSets))
	for _, set := range input.ReservedWordSets {
		words := make([]grammar.Rule, 0, len(set.ReservedWords))
		for _, word := range set.ReservedWords {
			rule, err := in.internRule("", word)
			if err != nil {
				return nil, err
			}
			words = append(words, rule)
		}
		reservedWordSets = append(reservedWordSets, grammar.ReservedWordContext[grammar.Rule]{
			Name:          set.Name,
			ReservedWords: words,
		})
	}

	return &InternedGrammar{
		Variables:           variables,
		ExtraSymbols:        extraSymbols,
		ExpectedConflicts:   expectedConflicts,
		PrecedenceOrderings: input.PrecedenceOrderings,
		ExternalTokens:      externalTokens,
		VariablesToInline:   variablesToInline,
		SupertypeSymbols:    supertypeSymbols,
		WordToken:           wordToken,
		ReservedWordSets:    reservedWordSets,
	}, nil
}

func variableKindForName(name string) grammar.VariableKind {
	if strings.HasPrefix(name, "_") {
		return grammar.VariableKindHidden
	}
	return grammar.VariableKindNamed
}

type interner struct {
	input *grammar.InputGrammar
}

func (in *interner) internRule(ruleName string, rule grammar.Rule) (grammar.Rule, error) {
	switch r := rule.(type) {
	case grammar.NamedSymbolRule:
		sym, err := in.symbolForName(r.Name, ruleName)
		if err != nil {
			return nil, err
		}
		return grammar.SymbolRule{Symbol: sym}, nil
	case grammar.SeqRule:
		members, err := in.internRules(ruleName, r.Members)
		if err != nil {
			return nil, err
		}
		return grammar.SeqRule{Members: members}, nil
	case grammar.ChoiceRule:
		members, err := in.internRules(ruleName, r.Members)
		if err != nil {
			return nil, err
		}
		return grammar.ChoiceRule{Members: members}, nil
	case grammar.RepeatRule:
		content, err := in.internRule(ruleName, r.Content)
		if err != nil {
			return nil, err
		}
		return grammar.RepeatRule{Content: content}, nil
	case grammar.MetadataRule:
		content, err := in.internRule(ruleName, r.Content)
		if err != nil {
			return nil, err
		}
		return grammar.MetadataRule{Params: r.Params, Content: content}, nil
	default:
		return rule, nil
	}
}

func (in *interner) internRules(ruleName string, rules []grammar.Rule) ([]grammar.Rule, error) {
	interned := make([]grammar.Rule, 0, len(rules))
	for _, rule := range rules {
		r, err := in.internRule(ruleName, rule)
		if err != nil {
			return nil, err
		}
		interned = append(interned, r)
	}
	return interned, nil
}

func (in *interner) symbolForName(name, ruleName string) (grammar.Symbol, error) {
	for i, variable := range in.input.Variables {
		if variable.Name == name {
			return grammar.NonTerminalSymbol(i), nil
		}
	}
	for i, token := range in.input.ExternalTokens {
		if ref, ok := token.(grammar.NamedSymbolRule); ok && ref.Name == name {
			return grammar.ExternalSymbol(i), nil
		}
	}
	return grammar.Symbol{}, &UndefinedSymbolError{Name: name, Rule: ruleName}
}
