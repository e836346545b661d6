package prepare

import (
	"github.com/kagari-lang/kagari/grammar"
)

// validatePrecedences checks that every named precedence used in the grammar
// is declared in some precedence-ordering list, and that no two lists imply
// contradictory orderings for the same pair of entries.
func validatePrecedences(input *grammar.InputGrammar) error {
	// For any two entries a and b, if a comes before b in some list, then it
	// cannot come after b in any list. Pairs are keyed in canonical order so
	// the same pair is recognized regardless of which entry came first.
	type pairKey struct {
		first, second grammar.PrecedenceEntry
	}
	pairs := map[pairKey]bool{}
	for _, list := range input.PrecedenceOrderings {
		for i, entry1 := range list {
			for _, entry2 := range list[i+1:] {
				if entry2 == entry1 {
					continue
				}
				first, second := entry1, entry2
				firstLeads := true
				if grammar.ComparePrecedenceEntries(entry1, entry2) > 0 {
					first, second = entry2, entry1
					firstLeads = false
				}
				key := pairKey{first: first, second: second}
				if leads, ok := pairs[key]; ok {
					if leads != firstLeads {
						return &ConflictingOrderingError{
							Precedence1: first.String(),
							Precedence2: second.String(),
						}
					}
				} else {
					pairs[key] = firstLeads
				}
			}
		}
	}

	declared := map[string]struct{}{}
	for _, list := range input.PrecedenceOrderings {
		for _, entry := range list {
			if entry.Kind == grammar.PrecedenceEntryKindName {
				declared[entry.Name] = struct{}{}
			}
		}
	}
	for _, variable := range input.Variables {
		if err := validateRulePrecedences(variable.Name, variable.Rule, declared); err != nil {
			return err
		}
	}

	return nil
}

func validateRulePrecedences(ruleName string, rule grammar.Rule, declared map[string]struct{}) error {
	switch r := rule.(type) {
	case grammar.RepeatRule:
		return validateRulePrecedences(ruleName, r.Content, declared)
	case grammar.SeqRule:
		for _, member := range r.Members {
			if err := validateRulePrecedences(ruleName, member, declared); err != nil {
				return err
			}
		}
	case grammar.ChoiceRule:
		for _, member := range r.Members {
			if err := validateRulePrecedences(ruleName, member, declared); err != nil {
				return err
			}
		}
	case grammar.MetadataRule:
		if p := r.Params.Precedence; p.Kind == grammar.PrecedenceKindName {
			if _, ok := declared[p.Name]; !ok {
				return &UndeclaredPrecedenceError{
					Precedence: p.Name,
					Rule:       ruleName,
				}
			}
		}
		return validateRulePrecedences(ruleName, r.Content, declared)
	}
	return nil
}
