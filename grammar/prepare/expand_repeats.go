package prepare

import (
	"fmt"

	"github.com/kagari-lang/kagari/grammar"
)

// expandRepeats rewrites every repeat in the syntax grammar into a
// left-recursive auxiliary variable: repeat(R) becomes a fresh variable
// aux = aux R | R, and the repeat site becomes (aux | blank). Auxiliary
// variables are appended to the variable list, so no renumbering is needed.
// The rewrite preserves the recognized language and any metadata wrapping
// the repeat; it mutates the grammar in place.
func expandRepeats(g *ExtractedSyntaxGrammar) {
	e := &repeatExpander{grammar: g}
	for i := 0; i < len(g.Variables); i++ {
		e.baseName = g.Variables[i].Name
		e.auxCount = 0
		g.Variables[i].Rule = e.expand(g.Variables[i].Rule)
	}
}

type repeatExpander struct {
	grammar  *ExtractedSyntaxGrammar
	baseName string
	auxCount int
}

func (e *repeatExpander) expand(rule grammar.Rule) grammar.Rule {
	switch r := rule.(type) {
	case grammar.SeqRule:
		members := make([]grammar.Rule, len(r.Members))
		for i, member := range r.Members {
			members[i] = e.expand(member)
		}
		return grammar.SeqRule{Members: members}
	case grammar.ChoiceRule:
		members := make([]grammar.Rule, len(r.Members))
		for i, member := range r.Members {
			members[i] = e.expand(member)
		}
		return grammar.ChoiceRule{Members: members}
	case grammar.MetadataRule:
		return grammar.MetadataRule{Params: r.Params, Content: e.expand(r.Content)}
	case grammar.RepeatRule:
		inner := e.expand(r.Content)
		sym := grammar.NonTerminalSymbol(len(e.grammar.Variables))
		aux := grammar.AuxiliaryVariable(
			e.nextAuxName(),
			grammar.Choice(grammar.Seq(grammar.Sym(sym), inner), inner),
		)
		e.grammar.Variables = append(e.grammar.Variables, aux)
		return grammar.Choice(grammar.Sym(sym), grammar.Blank())
	default:
		return rule
	}
}

func (e *repeatExpander) nextAuxName() string {
	for {
		e.auxCount++
		name := fmt.Sprintf("%s_repeat%d", e.baseName, e.auxCount)
		if !e.nameInUse(name) {
			return name
		}
	}
}

func (e *repeatExpander) nameInUse(name string) bool {
	for _, v := range e.grammar.Variables {
		if v.Name == name {
			return true
		}
	}
	return false
}
