package grammar

import (
	"encoding/json"
	"fmt"
)

// Rule trees serialize with an explicit kind discriminator so a grammar
// description can round-trip through JSON.
const (
	ruleKindBlank    = "blank"
	ruleKindString   = "string"
	ruleKindPattern  = "pattern"
	ruleKindRef      = "ref"
	ruleKindSymbol   = "symbol"
	ruleKindSeq      = "seq"
	ruleKindChoice   = "choice"
	ruleKindRepeat   = "repeat"
	ruleKindMetadata = "metadata"
)

func (BlankRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
	}{ruleKindBlank})
}

func (r StringRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  string `json:"kind"`
		Value string `json:"value"`
	}{ruleKindString, r.Value})
}

func (r PatternRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  string `json:"kind"`
		Value string `json:"value"`
		Flags string `json:"flags,omitempty"`
	}{ruleKindPattern, r.Value, r.Flags})
}

func (r NamedSymbolRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	}{ruleKindRef, r.Name})
}

func (r SymbolRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind   string `json:"kind"`
		Symbol Symbol `json:"symbol"`
	}{ruleKindSymbol, r.Symbol})
}

func (r SeqRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string `json:"kind"`
		Members []Rule `json:"members"`
	}{ruleKindSeq, r.Members})
}

func (r ChoiceRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string `json:"kind"`
		Members []Rule `json:"members"`
	}{ruleKindChoice, r.Members})
}

func (r RepeatRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string `json:"kind"`
		Content Rule   `json:"content"`
	}{ruleKindRepeat, r.Content})
}

func (r MetadataRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string         `json:"kind"`
		Params  MetadataParams `json:"params"`
		Content Rule           `json:"content"`
	}{ruleKindMetadata, r.Params, r.Content})
}

// UnmarshalRule parses one serialized rule tree.
func UnmarshalRule(data []byte) (Rule, error) {
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	switch probe.Kind {
	case ruleKindBlank:
		return BlankRule{}, nil
	case ruleKindString:
		var v struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return StringRule{Value: v.Value}, nil
	case ruleKindPattern:
		var v struct {
			Value string `json:"value"`
			Flags string `json:"flags"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return PatternRule{Value: v.Value, Flags: v.Flags}, nil
	case ruleKindRef:
		var v struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return NamedSymbolRule{Name: v.Name}, nil
	case ruleKindSymbol:
		var v struct {
			Symbol Symbol `json:"symbol"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return SymbolRule{Symbol: v.Symbol}, nil
	case ruleKindSeq, ruleKindChoice:
		var v struct {
			Members []json.RawMessage `json:"members"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		members, err := unmarshalRuleList(v.Members)
		if err != nil {
			return nil, err
		}
		if probe.Kind == ruleKindSeq {
			return SeqRule{Members: members}, nil
		}
		return ChoiceRule{Members: members}, nil
	case ruleKindRepeat:
		var v struct {
			Content json.RawMessage `json:"content"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		content, err := UnmarshalRule(v.Content)
		if err != nil {
			return nil, err
		}
		return RepeatRule{Content: content}, nil
	case ruleKindMetadata:
		var v struct {
			Params  MetadataParams  `json:"params"`
			Content json.RawMessage `json:"content"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		content, err := UnmarshalRule(v.Content)
		if err != nil {
			return nil, err
		}
		return MetadataRule{Params: v.Params, Content: content}, nil
	}
	return nil, fmt.Errorf("unknown rule kind %q", probe.Kind)
}

func unmarshalRuleList(raw []json.RawMessage) ([]Rule, error) {
	if raw == nil {
		return nil, nil
	}
	rules := make([]Rule, 0, len(raw))
	for _, data := range raw {
		rule, err := UnmarshalRule(data)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (v *Variable) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name string          `json:"name"`
		Kind VariableKind    `json:"kind"`
		Rule json.RawMessage `json:"rule"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v.Name = raw.Name
	v.Kind = raw.Kind
	if raw.Rule != nil {
		rule, err := UnmarshalRule(raw.Rule)
		if err != nil {
			return err
		}
		v.Rule = rule
	}
	return nil
}

func (g *InputGrammar) UnmarshalJSON(data []byte) error {
	type reservedWordSetJSON struct {
		Name          string            `json:"name"`
		ReservedWords []json.RawMessage `json:"reserved_words"`
	}
	var raw struct {
		Name                string                `json:"name"`
		Variables           []Variable            `json:"variables"`
		ExtraSymbols        []json.RawMessage     `json:"extra_symbols"`
		ExpectedConflicts   [][]string            `json:"expected_conflicts"`
		PrecedenceOrderings [][]PrecedenceEntry   `json:"precedence_orderings"`
		ExternalTokens      []json.RawMessage     `json:"external_tokens"`
		VariablesToInline   []string              `json:"variables_to_inline"`
		SupertypeSymbols    []string              `json:"supertype_symbols"`
		WordToken           string                `json:"word_token"`
		ReservedWordSets    []reservedWordSetJSON `json:"reserved_word_sets"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	extras, err := unmarshalRuleList(raw.ExtraSymbols)
	if err != nil {
		return err
	}
	externals, err := unmarshalRuleList(raw.ExternalTokens)
	if err != nil {
		return err
	}
	var reservedWordSets []ReservedWordContext[Rule]
	for _, set := range raw.ReservedWordSets {
		words, err := unmarshalRuleList(set.ReservedWords)
		if err != nil {
			return err
		}
		reservedWordSets = append(reservedWordSets, ReservedWordContext[Rule]{
			Name:          set.Name,
			ReservedWords: words,
		})
	}

	*g = InputGrammar{
		Name:                raw.Name,
		Variables:           raw.Variables,
		ExtraSymbols:        extras,
		ExpectedConflicts:   raw.ExpectedConflicts,
		PrecedenceOrderings: raw.PrecedenceOrderings,
		ExternalTokens:      externals,
		VariablesToInline:   raw.VariablesToInline,
		SupertypeSymbols:    raw.SupertypeSymbols,
		WordToken:           raw.WordToken,
		ReservedWordSets:    reservedWordSets,
	}
	return nil
}
