package prepare

import (
	"fmt"
	"sort"

	"github.com/kagari-lang/kagari/grammar"
)

// extractTokens splits the interned grammar into a syntactic skeleton and a
// lexical grammar. String and pattern literals and token-marked subtrees are
// lifted into lexical variables, and whole variables that are only reachable
// from token-level contexts (token bodies, external tokens, extras, the word
// token) move into the lexical grammar. Remaining symbols are renumbered
// densely.
func extractTokens(interned *InternedGrammar) (*ExtractedSyntaxGrammar, *ExtractedLexicalGrammar, error) {
	ex := &tokenExtractor{}

	variables := make([]grammar.Variable, len(interned.Variables))
	for i, v := range interned.Variables {
		variables[i] = grammar.Variable{Name: v.Name, Kind: v.Kind, Rule: ex.extract(v.Name, v.Rule)}
	}
	extras := make([]grammar.Rule, len(interned.ExtraSymbols))
	for i, extra := range interned.ExtraSymbols {
		extras[i] = ex.extract("", extra)
	}
	reservedSets := make([]grammar.ReservedWordContext[grammar.Rule], len(interned.ReservedWordSets))
	for i, set := range interned.ReservedWordSets {
		words := make([]grammar.Rule, len(set.ReservedWords))
		for j, word := range set.ReservedWords {
			words[j] = ex.extract("", word)
		}
		reservedSets[i] = grammar.ReservedWordContext[grammar.Rule]{Name: set.Name, ReservedWords: words}
	}

	// A variable whose entire body was extracted as one token is a named
	// token definition; it takes over the extracted token's name and kind.
	tokenAlias := map[int]int{}
	for i, v := range variables {
		if ref, ok := v.Rule.(grammar.SymbolRule); ok && ref.Symbol.IsTerminal() {
			token := &ex.tokens[ref.Symbol.Index]
			if token.Kind == grammar.VariableKindAnonymous {
				token.Name = v.Name
				token.Kind = v.Kind
			}
			tokenAlias[i] = ref.Symbol.Index
		}
	}

	// Reachability from token-level contexts decides which remaining
	// variables move wholly into the lexical grammar.
	lexicalSet := map[int]bool{}
	for i := range tokenAlias {
		lexicalSet[i] = true
	}
	var roots []int
	addRoot := func(sym grammar.Symbol) {
		if sym.IsNonTerminal() {
			roots = append(roots, sym.Index)
		}
	}
	for _, token := range ex.tokens {
		collectNonTerminals(token.Rule, addRoot)
	}
	for _, extra := range extras {
		collectNonTerminals(extra, addRoot)
	}
	for _, set := range reservedSets {
		for _, word := range set.ReservedWords {
			collectNonTerminals(word, addRoot)
		}
	}
	for _, token := range interned.ExternalTokens {
		collectNonTerminals(token.Rule, addRoot)
	}
	if interned.WordToken != nil {
		addRoot(*interned.WordToken)
	}
	for len(roots) > 0 {
		idx := roots[0]
		roots = roots[1:]
		if lexicalSet[idx] {
			continue
		}
		lexicalSet[idx] = true
		collectNonTerminals(variables[idx].Rule, addRoot)
	}

	if lexicalSet[0] && len(variables) > 0 {
		return nil, nil, extractTokensErrorf(variables[0].Name,
			"The start rule '%s' cannot be a token", variables[0].Name)
	}

	// Assign final indices: extracted tokens keep their positions, moved
	// variables follow in declaration order, and the remaining syntactic
	// variables are renumbered densely.
	var moved []int
	for idx := range lexicalSet {
		if _, aliased := tokenAlias[idx]; !aliased {
			moved = append(moved, idx)
		}
	}
	sort.Ints(moved)

	symbolMap := map[int]grammar.Symbol{}
	for idx, tokenIdx := range tokenAlias {
		symbolMap[idx] = grammar.TerminalSymbol(tokenIdx)
	}
	for i, idx := range moved {
		symbolMap[idx] = grammar.TerminalSymbol(len(ex.tokens) + i)
	}
	nextSyntax := 0
	var syntaxVariables []grammar.Variable
	for idx, v := range variables {
		if lexicalSet[idx] {
			continue
		}
		symbolMap[idx] = grammar.NonTerminalSymbol(nextSyntax)
		nextSyntax++
		syntaxVariables = append(syntaxVariables, v)
	}

	replace := func(rule grammar.Rule) grammar.Rule {
		return replaceNonTerminals(rule, symbolMap)
	}
	for i := range syntaxVariables {
		syntaxVariables[i].Rule = replace(syntaxVariables[i].Rule)
	}
	for i := range ex.tokens {
		ex.tokens[i].Rule = replace(ex.tokens[i].Rule)
	}
	lexicalVariables := ex.tokens
	for _, idx := range moved {
		v := variables[idx]
		v.Rule = replace(v.Rule)
		lexicalVariables = append(lexicalVariables, v)
	}

	mapSymbol := func(sym grammar.Symbol) grammar.Symbol {
		if sym.IsNonTerminal() {
			if mapped, ok := symbolMap[sym.Index]; ok {
				return mapped
			}
		}
		return sym
	}

	// Extras must be tokens or external tokens; their token rules double as
	// the lexical grammar's separators.
	var extraSymbols []grammar.Symbol
	var separators []grammar.Rule
	for _, extra := range extras {
		ref, ok := extra.(grammar.SymbolRule)
		if !ok {
			return nil, nil, extractTokensErrorf("",
				"Extra rules must be tokens or external tokens")
		}
		sym := mapSymbol(ref.Symbol)
		switch {
		case sym.IsTerminal():
			separators = append(separators, lexicalVariables[sym.Index].Rule)
		case sym.IsExternal():
		default:
			name := variableNameForSymbol(interned, ref.Symbol)
			return nil, nil, extractTokensErrorf(name,
				"The rule '%s' cannot be used as an extra because it is not a token", name)
		}
		extraSymbols = append(extraSymbols, sym)
	}

	expectedConflicts := make([][]grammar.Symbol, len(interned.ExpectedConflicts))
	for i, conflict := range interned.ExpectedConflicts {
		syms := make([]grammar.Symbol, len(conflict))
		for j, sym := range conflict {
			syms[j] = mapSymbol(sym)
		}
		expectedConflicts[i] = syms
	}

	variablesToInline := make([]grammar.Symbol, 0, len(interned.VariablesToInline))
	for _, sym := range interned.VariablesToInline {
		mapped := mapSymbol(sym)
		if !mapped.IsNonTerminal() {
			name := variableNameForSymbol(interned, sym)
			return nil, nil, extractTokensErrorf(name,
				"The rule '%s' cannot be inlined because it is a token", name)
		}
		variablesToInline = append(variablesToInline, mapped)
	}

	supertypeSymbols := make([]grammar.Symbol, 0, len(interned.SupertypeSymbols))
	for _, sym := range interned.SupertypeSymbols {
		mapped := mapSymbol(sym)
		if !mapped.IsNonTerminal() {
			name := variableNameForSymbol(interned, sym)
			return nil, nil, extractTokensErrorf(name,
				"The supertype rule '%s' must not be a token", name)
		}
		supertypeSymbols = append(supertypeSymbols, mapped)
	}

	var wordToken *grammar.Symbol
	if interned.WordToken != nil {
		mapped := mapSymbol(*interned.WordToken)
		if !mapped.IsTerminal() {
			name := variableNameForSymbol(interned, *interned.WordToken)
			return nil, nil, extractTokensErrorf(name,
				"The word token '%s' must be a token", name)
		}
		wordToken = &mapped
	}

	externalTokens := make([]grammar.ExternalToken, 0, len(interned.ExternalTokens))
	for _, token := range interned.ExternalTokens {
		external := grammar.ExternalToken{Name: token.Name, Kind: token.Kind}
		if ref, ok := token.Rule.(grammar.SymbolRule); ok && ref.Symbol.IsNonTerminal() {
			mapped := mapSymbol(ref.Symbol)
			if !mapped.IsTerminal() {
				return nil, nil, extractTokensErrorf(token.Name,
					"The external token '%s' must correspond to a token", token.Name)
			}
			external.CorrespondingInternalToken = &mapped
		}
		externalTokens = append(externalTokens, external)
	}

	reservedWordSets := make([]grammar.ReservedWordContext[grammar.Symbol], 0, len(reservedSets))
	for _, set := range reservedSets {
		words := make([]grammar.Symbol, 0, len(set.ReservedWords))
		for _, word := range set.ReservedWords {
			ref, ok := word.(grammar.SymbolRule)
			if !ok {
				return nil, nil, extractTokensErrorf(set.Name,
					"Reserved words in context '%s' must be tokens", set.Name)
			}
			sym := mapSymbol(ref.Symbol)
			if !sym.IsTerminal() && !sym.IsExternal() {
				name := variableNameForSymbol(interned, ref.Symbol)
				return nil, nil, extractTokensErrorf(name,
					"The reserved word '%s' must be a token", name)
			}
			words = append(words, sym)
		}
		reservedWordSets = append(reservedWordSets, grammar.ReservedWordContext[grammar.Symbol]{
			Name:          set.Name,
			ReservedWords: words,
		})
	}

	syntax := &ExtractedSyntaxGrammar{
		Variables:           syntaxVariables,
		ExtraSymbols:        extraSymbols,
		ExpectedConflicts:   expectedConflicts,
		PrecedenceOrderings: interned.PrecedenceOrderings,
		ExternalTokens:      externalTokens,
		VariablesToInline:   variablesToInline,
		SupertypeSymbols:    supertypeSymbols,
		WordToken:           wordToken,
		ReservedWordSets:    reservedWordSets,
	}
	lexical := &ExtractedLexicalGrammar{
		Variables:  lexicalVariables,
		Separators: separators,
	}
	return syntax, lexical, nil
}

type tokenExtractor struct {
	tokens []grammar.Variable
}

func (ex *tokenExtractor) extract(ownerName string, rule grammar.Rule) grammar.Rule {
	switch r := rule.(type) {
	case grammar.StringRule:
		return grammar.Sym(ex.internToken(grammar.Variable{
			Name: r.Value,
			Kind: grammar.VariableKindAnonymous,
			Rule: r,
		}))
	case grammar.PatternRule:
		return grammar.Sym(ex.internToken(grammar.Variable{
			Name: r.Value,
			Kind: grammar.VariableKindAnonymous,
			Rule: r,
		}))
	case grammar.SeqRule:
		members := make([]grammar.Rule, len(r.Members))
		for i, member := range r.Members {
			members[i] = ex.extract(ownerName, member)
		}
		return grammar.SeqRule{Members: members}
	case grammar.ChoiceRule:
		members := make([]grammar.Rule, len(r.Members))
		for i, member := range r.Members {
			members[i] = ex.extract(ownerName, member)
		}
		return grammar.ChoiceRule{Members: members}
	case grammar.RepeatRule:
		return grammar.RepeatRule{Content: ex.extract(ownerName, r.Content)}
	case grammar.MetadataRule:
		if r.Params.IsToken {
			// The whole subtree becomes one token. Annotations other than
			// the token marker stay on the syntactic side of the boundary.
			params := r.Params
			params.IsToken = false
			params.IsString = false
			sym := ex.internToken(grammar.Variable{
				Name: ex.tokenName(ownerName, r.Content),
				Kind: grammar.VariableKindAnonymous,
				Rule: r.Content,
			})
			if params.IsEmpty() {
				return grammar.Sym(sym)
			}
			return grammar.MetadataRule{Params: params, Content: grammar.Sym(sym)}
		}
		return grammar.MetadataRule{Params: r.Params, Content: ex.extract(ownerName, r.Content)}
	default:
		return rule
	}
}

func (ex *tokenExtractor) internToken(v grammar.Variable) grammar.Symbol {
	for i := range ex.tokens {
		if grammar.RulesEqual(ex.tokens[i].Rule, v.Rule) {
			return grammar.TerminalSymbol(i)
		}
	}
	ex.tokens = append(ex.tokens, v)
	return grammar.TerminalSymbol(len(ex.tokens) - 1)
}

func (ex *tokenExtractor) tokenName(ownerName string, content grammar.Rule) string {
	switch r := content.(type) {
	case grammar.StringRule:
		return r.Value
	case grammar.MetadataRule:
		return ex.tokenName(ownerName, r.Content)
	}
	if ownerName == "" {
		return fmt.Sprintf("token%d", len(ex.tokens)+1)
	}
	return fmt.Sprintf("%s_token%d", ownerName, len(ex.tokens)+1)
}

func collectNonTerminals(rule grammar.Rule, visit func(grammar.Symbol)) {
	switch r := rule.(type) {
	case grammar.SymbolRule:
		if r.Symbol.IsNonTerminal() {
			visit(r.Symbol)
		}
	case grammar.SeqRule:
		for _, member := range r.Members {
			collectNonTerminals(member, visit)
		}
	case grammar.ChoiceRule:
		for _, member := range r.Members {
			collectNonTerminals(member, visit)
		}
	case grammar.RepeatRule:
		collectNonTerminals(r.Content, visit)
	case grammar.MetadataRule:
		collectNonTerminals(r.Content, visit)
	}
}

func replaceNonTerminals(rule grammar.Rule, symbolMap map[int]grammar.Symbol) grammar.Rule {
	switch r := rule.(type) {
	case grammar.SymbolRule:
		if r.Symbol.IsNonTerminal() {
			if mapped, ok := symbolMap[r.Symbol.Index]; ok {
				return grammar.SymbolRule{Symbol: mapped}
			}
		}
		return r
	case grammar.SeqRule:
		members := make([]grammar.Rule, len(r.Members))
		for i, member := range r.Members {
			members[i] = replaceNonTerminals(member, symbolMap)
		}
		return grammar.SeqRule{Members: members}
	case grammar.ChoiceRule:
		members := make([]grammar.Rule, len(r.Members))
		for i, member := range r.Members {
			members[i] = replaceNonTerminals(member, symbolMap)
		}
		return grammar.ChoiceRule{Members: members}
	case grammar.RepeatRule:
		return grammar.RepeatRule{Content: replaceNonTerminals(r.Content, symbolMap)}
	case grammar.MetadataRule:
		return grammar.MetadataRule{Params: r.Params, Content: replaceNonTerminals(r.Content, symbolMap)}
	default:
		return rule
	}
}

func variableNameForSymbol(interned *InternedGrammar, sym grammar.Symbol) string {
	switch sym.Kind {
	case grammar.SymbolKindNonTerminal:
		if sym.Index < len(interned.Variables) {
			return interned.Variables[sym.Index].Name
		}
	case grammar.SymbolKindExternal:
		if sym.Index < len(interned.ExternalTokens) {
			return interned.ExternalTokens[sym.Index].Name
		}
	}
	return sym.String()
}
