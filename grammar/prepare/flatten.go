package prepare

import (
	"github.com/kagari-lang/kagari/grammar"
)

// flattenGrammar converts each variable's rule tree into an explicit list of
// productions. Choices fan out into one production per alternative in
// declaration order; sequences concatenate steps; metadata attaches its
// precedence, associativity, field, and alias to the steps it wraps, with
// inner metadata overriding outer on conflict. Any rule shape that cannot be
// represented as a flat production at this point signals an upstream
// invariant violation.
func flattenGrammar(g *ExtractedSyntaxGrammar) (*grammar.SyntaxGrammar, error) {
	variables := make([]grammar.SyntaxVariable, 0, len(g.Variables))
	for i, v := range g.Variables {
		lhs := grammar.NonTerminalSymbol(i)
		alternatives, err := flattenRule(v.Name, v.Rule, grammar.MetadataParams{})
		if err != nil {
			return nil, err
		}
		productions := make([]grammar.Production, 0, len(alternatives))
		for _, alt := range alternatives {
			productions = append(productions, grammar.NewProduction(lhs, alt.dynamicPrecedence, alt.steps))
		}
		variables = append(variables, grammar.SyntaxVariable{
			Name:        v.Name,
			Kind:        v.Kind,
			Productions: productions,
		})
	}

	return &grammar.SyntaxGrammar{
		Variables:           variables,
		ExtraSymbols:        g.ExtraSymbols,
		ExpectedConflicts:   g.ExpectedConflicts,
		ExternalTokens:      g.ExternalTokens,
		SupertypeSymbols:    g.SupertypeSymbols,
		VariablesToInline:   g.VariablesToInline,
		WordToken:           g.WordToken,
		PrecedenceOrderings: g.PrecedenceOrderings,
		ReservedWordSets:    g.ReservedWordSets,
	}, nil
}

type flatAlternative struct {
	steps             []grammar.ProductionStep
	dynamicPrecedence int
}

func flattenRule(ruleName string, rule grammar.Rule, params grammar.MetadataParams) ([]flatAlternative, error) {
	switch r := rule.(type) {
	case grammar.BlankRule:
		return []flatAlternative{{dynamicPrecedence: params.DynamicPrecedence}}, nil
	case grammar.SymbolRule:
		step := grammar.ProductionStep{
			Symbol:        r.Symbol,
			Precedence:    params.Precedence,
			Associativity: params.Associativity,
			Alias:         params.Alias,
			FieldName:     params.FieldName,
		}
		return []flatAlternative{{
			steps:             []grammar.ProductionStep{step},
			dynamicPrecedence: params.DynamicPrecedence,
		}}, nil
	case grammar.SeqRule:
		alternatives := []flatAlternative{{dynamicPrecedence: params.DynamicPrecedence}}
		for _, member := range r.Members {
			memberAlts, err := flattenRule(ruleName, member, params)
			if err != nil {
				return nil, err
			}
			combined := make([]flatAlternative, 0, len(alternatives)*len(memberAlts))
			for _, left := range alternatives {
				for _, right := range memberAlts {
					steps := make([]grammar.ProductionStep, 0, len(left.steps)+len(right.steps))
					steps = append(steps, left.steps...)
					steps = append(steps, right.steps...)
					dyn := left.dynamicPrecedence
					if right.dynamicPrecedence > dyn {
						dyn = right.dynamicPrecedence
					}
					combined = append(combined, flatAlternative{steps: steps, dynamicPrecedence: dyn})
				}
			}
			alternatives = combined
		}
		return alternatives, nil
	case grammar.ChoiceRule:
		var alternatives []flatAlternative
		for _, member := range r.Members {
			memberAlts, err := flattenRule(ruleName, member, params)
			if err != nil {
				return nil, err
			}
			alternatives = append(alternatives, memberAlts...)
		}
		return alternatives, nil
	case grammar.MetadataRule:
		return flattenRule(ruleName, r.Content, mergeParams(params, r.Params))
	case grammar.RepeatRule:
		return nil, flattenGrammarErrorf(ruleName,
			"The rule '%s' contains an unexpanded repeat", ruleName)
	default:
		return nil, flattenGrammarErrorf(ruleName,
			"The rule '%s' contains an unresolved construct", ruleName)
	}
}

// mergeParams layers inner metadata over outer metadata; fields the inner
// metadata leaves unset are inherited from the outer scope.
func mergeParams(outer, inner grammar.MetadataParams) grammar.MetadataParams {
	merged := outer
	if !inner.Precedence.IsNone() {
		merged.Precedence = inner.Precedence
	}
	if inner.Associativity != grammar.AssociativityNone {
		merged.Associativity = inner.Associativity
	}
	if inner.DynamicPrecedence != 0 {
		merged.DynamicPrecedence = inner.DynamicPrecedence
	}
	if inner.FieldName != "" {
		merged.FieldName = inner.FieldName
	}
	if inner.Alias != nil {
		merged.Alias = inner.Alias
	}
	return merged
}
