package prepare

import (
	"fmt"
	"regexp"
	"strings"

	mlspec "github.com/nihei9/maleeni/spec"

	"github.com/kagari-lang/kagari/grammar"
)

// expandTokens performs the lexical analogue of flattening: each token
// definition's rule tree is normalized (metadata stripped, numeric precedence
// folded into the variable's implicit precedence, symbol references checked)
// and rendered into the pattern form the downstream automaton builder
// consumes. Hidden token variables become fragments; references to them stay
// as fragment references, while references to visible tokens are inlined.
func expandTokens(name string, g *ExtractedLexicalGrammar) (*grammar.LexicalGrammar, error) {
	variables := make([]grammar.LexicalVariable, 0, len(g.Variables))
	for _, v := range g.Variables {
		rule, prec, err := normalizeTokenRule(v.Name, v.Rule)
		if err != nil {
			return nil, err
		}
		variables = append(variables, grammar.LexicalVariable{
			Name:               v.Name,
			Kind:               v.Kind,
			ImplicitPrecedence: prec,
			Rule:               rule,
		})
	}

	separators := make([]grammar.Rule, 0, len(g.Separators))
	for _, sep := range g.Separators {
		rule, _, err := normalizeTokenRule("extra", sep)
		if err != nil {
			return nil, err
		}
		separators = append(separators, rule)
	}

	kindNames := assignLexKindNames(variables)
	renderer := &patternRenderer{variables: variables, kindNames: kindNames}
	entries := make([]*mlspec.LexEntry, 0, len(variables))
	for i, v := range variables {
		pattern, err := renderer.render(i)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &mlspec.LexEntry{
			Fragment: v.Kind == grammar.VariableKindHidden,
			Kind:     mlspec.LexKindName(kindNames[i]),
			Pattern:  mlspec.LexPattern(pattern),
		})
	}

	return &grammar.LexicalGrammar{
		Variables:  variables,
		Separators: separators,
		LexSpec: &mlspec.LexSpec{
			Name:    name,
			Entries: entries,
		},
	}, nil
}

// normalizeTokenRule strips metadata wrappers from a lexical rule tree and
// returns the numeric precedence of the outermost metadata node, which
// becomes the token's implicit precedence for longest/highest-priority match
// selection.
func normalizeTokenRule(tokenName string, rule grammar.Rule) (grammar.Rule, int, error) {
	prec := 0
	precSet := false
	var normalize func(r grammar.Rule) (grammar.Rule, error)
	normalize = func(r grammar.Rule) (grammar.Rule, error) {
		switch t := r.(type) {
		case grammar.SymbolRule:
			if !t.Symbol.IsTerminal() {
				return nil, expandTokensErrorf(tokenName,
					"The token '%s' refers to the %s symbol %v, which is not valid inside a token",
					tokenName, t.Symbol.Kind, t.Symbol)
			}
			return t, nil
		case grammar.SeqRule:
			members := make([]grammar.Rule, len(t.Members))
			for i, member := range t.Members {
				m, err := normalize(member)
				if err != nil {
					return nil, err
				}
				members[i] = m
			}
			return grammar.SeqRule{Members: members}, nil
		case grammar.ChoiceRule:
			members := make([]grammar.Rule, len(t.Members))
			for i, member := range t.Members {
				m, err := normalize(member)
				if err != nil {
					return nil, err
				}
				members[i] = m
			}
			return grammar.ChoiceRule{Members: members}, nil
		case grammar.RepeatRule:
			content, err := normalize(t.Content)
			if err != nil {
				return nil, err
			}
			return grammar.RepeatRule{Content: content}, nil
		case grammar.MetadataRule:
			if !precSet && t.Params.Precedence.Kind == grammar.PrecedenceKindNumber {
				prec = t.Params.Precedence.Number
				precSet = true
			}
			return normalize(t.Content)
		default:
			return r, nil
		}
	}
	normalized, err := normalize(rule)
	if err != nil {
		return nil, 0, err
	}
	return normalized, prec, nil
}

var lexKindNameRE = regexp.MustCompile(`^[A-Za-z_][0-9A-Za-z_]*$`)

// assignLexKindNames gives every lexical variable a unique, identifier-safe
// kind name for the automaton builder's spec.
func assignLexKindNames(variables []grammar.LexicalVariable) []string {
	used := map[string]bool{}
	names := make([]string, len(variables))
	for i, v := range variables {
		name := v.Name
		if !lexKindNameRE.MatchString(name) {
			name = fmt.Sprintf("token_%d", i+1)
		}
		for used[name] {
			name += "_"
		}
		used[name] = true
		names[i] = name
	}
	return names
}

type patternRenderer struct {
	variables []grammar.LexicalVariable
	kindNames []string
}

func (r *patternRenderer) render(index int) (string, error) {
	return r.renderRule(index, r.variables[index].Rule, map[int]bool{index: true})
}

func (r *patternRenderer) renderRule(owner int, rule grammar.Rule, visiting map[int]bool) (string, error) {
	switch t := rule.(type) {
	case grammar.BlankRule:
		return "", nil
	case grammar.StringRule:
		return mlspec.EscapePattern(t.Value), nil
	case grammar.PatternRule:
		return fmt.Sprintf("(%s)", t.Value), nil
	case grammar.SymbolRule:
		target := t.Symbol.Index
		if r.variables[target].Kind == grammar.VariableKindHidden {
			return fmt.Sprintf("\\f{%s}", r.kindNames[target]), nil
		}
		if visiting[target] {
			return "", expandTokensErrorf(r.variables[owner].Name,
				"The token '%s' refers to itself through '%s'",
				r.variables[owner].Name, r.variables[target].Name)
		}
		visiting[target] = true
		pattern, err := r.renderRule(owner, r.variables[target].Rule, visiting)
		delete(visiting, target)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s)", pattern), nil
	case grammar.SeqRule:
		var b strings.Builder
		for _, member := range t.Members {
			p, err := r.renderRule(owner, member, visiting)
			if err != nil {
				return "", err
			}
			b.WriteString(p)
		}
		return b.String(), nil
	case grammar.ChoiceRule:
		var parts []string
		optional := false
		for _, member := range t.Members {
			if _, ok := member.(grammar.BlankRule); ok {
				optional = true
				continue
			}
			p, err := r.renderRule(owner, member, visiting)
			if err != nil {
				return "", err
			}
			parts = append(parts, p)
		}
		pattern := fmt.Sprintf("(%s)", strings.Join(parts, "|"))
		if optional {
			pattern += "?"
		}
		return pattern, nil
	case grammar.RepeatRule:
		p, err := r.renderRule(owner, t.Content, visiting)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s)*", p), nil
	default:
		return "", expandTokensErrorf(r.variables[owner].Name,
			"The token '%s' contains an unresolved construct", r.variables[owner].Name)
	}
}
