package prepare

import (
	"sort"

	"github.com/kagari-lang/kagari/grammar"
)

// processInlines computes, for every production step referring to an
// inline-marked variable, the alternative productions obtained by
// substituting the variable's own productions at that step. Substitution
// alternatives are fully expanded, so the table builder never has to chase a
// chain of inlined references. Inlining the start rule or a cyclic set of
// variables is ill-defined and fails.
func processInlines(syntax *grammar.SyntaxGrammar, lexical *grammar.LexicalGrammar) (*grammar.InlinedProductionMap, error) {
	inlined := grammar.NewInlinedProductionMap()
	if len(syntax.VariablesToInline) == 0 {
		return inlined, nil
	}

	inlineSet := map[int]bool{}
	for _, sym := range syntax.VariablesToInline {
		if !sym.IsNonTerminal() {
			name := sym.String()
			if v := lexical.Variable(sym); v != nil {
				name = v.Name
			}
			return nil, processInlinesErrorf(name,
				"The rule '%s' cannot be inlined because it is a token", name)
		}
		if sym.Index == 0 {
			return nil, processInlinesErrorf(syntax.Variables[0].Name,
				"The rule '%s' cannot be inlined because it is the start rule", syntax.Variables[0].Name)
		}
		inlineSet[sym.Index] = true
	}

	order, err := sortInlinedVariables(syntax, inlineSet)
	if err != nil {
		return nil, err
	}

	// Expand each inlined variable's own productions first, in dependency
	// order, so later substitutions are already fully expanded.
	expanded := map[int][]grammar.Production{}
	for _, idx := range order {
		lhs := grammar.NonTerminalSymbol(idx)
		var productions []grammar.Production
		for _, production := range syntax.Variables[idx].Productions {
			productions = append(productions, expandProduction(lhs, production, inlineSet, expanded)...)
		}
		expanded[idx] = productions
	}

	type workItem struct {
		lhs        grammar.Symbol
		production grammar.Production
	}
	var queue []workItem
	seen := map[grammar.ProductionID]bool{}
	for vi := range syntax.Variables {
		if inlineSet[vi] {
			continue
		}
		for _, production := range syntax.Variables[vi].Productions {
			if !seen[production.ID] {
				seen[production.ID] = true
				queue = append(queue, workItem{grammar.NonTerminalSymbol(vi), production})
			}
		}
	}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		for i, step := range item.production.Steps {
			if !step.Symbol.IsNonTerminal() || !inlineSet[step.Symbol.Index] {
				continue
			}
			alternatives := substituteStep(item.lhs, item.production, i, expanded[step.Symbol.Index])
			inlined.Record(item.production.ID, i, alternatives)
			for _, alt := range alternatives {
				if !seen[alt.ID] {
					seen[alt.ID] = true
					queue = append(queue, workItem{item.lhs, alt})
				}
			}
		}
	}

	return inlined, nil
}

// sortInlinedVariables orders the inline-marked variables so every variable
// comes after the inline-marked variables its productions refer to, failing
// on a reference cycle.
func sortInlinedVariables(syntax *grammar.SyntaxGrammar, inlineSet map[int]bool) ([]int, error) {
	indices := make([]int, 0, len(inlineSet))
	for idx := range inlineSet {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	const (
		unvisited = iota
		visiting
		done
	)
	state := map[int]int{}
	var order []int
	var visit func(idx int) error
	visit = func(idx int) error {
		switch state[idx] {
		case done:
			return nil
		case visiting:
			return processInlinesErrorf(syntax.Variables[idx].Name,
				"The rule '%s' cannot be inlined because it is part of an inlining cycle",
				syntax.Variables[idx].Name)
		}
		state[idx] = visiting
		for _, production := range syntax.Variables[idx].Productions {
			for _, step := range production.Steps {
				if step.Symbol.IsNonTerminal() && inlineSet[step.Symbol.Index] {
					if err := visit(step.Symbol.Index); err != nil {
						return err
					}
				}
			}
		}
		state[idx] = done
		order = append(order, idx)
		return nil
	}
	for _, idx := range indices {
		if err := visit(idx); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// expandProduction substitutes every inline-marked reference in a production,
// producing the cross-product of all substitution choices.
func expandProduction(lhs grammar.Symbol, production grammar.Production, inlineSet map[int]bool, expanded map[int][]grammar.Production) []grammar.Production {
	for i, step := range production.Steps {
		if step.Symbol.IsNonTerminal() && inlineSet[step.Symbol.Index] {
			var result []grammar.Production
			for _, alt := range substituteStep(lhs, production, i, expanded[step.Symbol.Index]) {
				result = append(result, expandProduction(lhs, alt, inlineSet, expanded)...)
			}
			return result
		}
	}
	return []grammar.Production{production}
}

// substituteStep replaces one step of a production with each of the given
// productions in turn. Inserted steps keep their own metadata; the last
// inserted step inherits the replaced step's precedence and associativity
// when it has none of its own, and the replaced step's field and alias apply
// to inserted steps that lack them.
func substituteStep(lhs grammar.Symbol, production grammar.Production, index int, replacements []grammar.Production) []grammar.Production {
	outer := production.Steps[index]
	alternatives := make([]grammar.Production, 0, len(replacements))
	for _, replacement := range replacements {
		steps := make([]grammar.ProductionStep, 0, len(production.Steps)+len(replacement.Steps)-1)
		steps = append(steps, production.Steps[:index]...)
		for i, step := range replacement.Steps {
			if step.FieldName == "" {
				step.FieldName = outer.FieldName
			}
			if step.Alias == nil {
				step.Alias = outer.Alias
			}
			if i == len(replacement.Steps)-1 {
				if step.Precedence.IsNone() {
					step.Precedence = outer.Precedence
				}
				if step.Associativity == grammar.AssociativityNone {
					step.Associativity = outer.Associativity
				}
			}
			steps = append(steps, step)
		}
		steps = append(steps, production.Steps[index+1:]...)
		dynamicPrecedence := production.DynamicPrecedence
		if replacement.DynamicPrecedence > dynamicPrecedence {
			dynamicPrecedence = replacement.DynamicPrecedence
		}
		alternatives = append(alternatives, grammar.NewProduction(lhs, dynamicPrecedence, steps))
	}
	return alternatives
}
