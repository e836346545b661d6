package grammar

import (
	"fmt"
	"strconv"
)

// Rule is a recursive expression defining how a variable may be derived.
// A rule tree is the source of truth for a variable until the flattening
// stage converts it into productions.
type Rule interface {
	ruleNode()
}

type BlankRule struct{}

type StringRule struct {
	Value string `json:"value"`
}

type PatternRule struct {
	Value string `json:"value"`
	Flags string `json:"flags,omitempty"`
}

// NamedSymbolRule is an unresolved reference to a variable or an external
// token. The symbol interner replaces every occurrence with a SymbolRule.
type NamedSymbolRule struct {
	Name string `json:"name"`
}

type SymbolRule struct {
	Symbol Symbol `json:"symbol"`
}

type SeqRule struct {
	Members []Rule `json:"members"`
}

type ChoiceRule struct {
	Members []Rule `json:"members"`
}

type RepeatRule struct {
	Content Rule `json:"content"`
}

type MetadataRule struct {
	Params  MetadataParams `json:"params"`
	Content Rule           `json:"content"`
}

func (BlankRule) ruleNode()       {}
func (StringRule) ruleNode()      {}
func (PatternRule) ruleNode()     {}
func (NamedSymbolRule) ruleNode() {}
func (SymbolRule) ruleNode()      {}
func (SeqRule) ruleNode()         {}
func (ChoiceRule) ruleNode()      {}
func (RepeatRule) ruleNode()      {}
func (MetadataRule) ruleNode()    {}

type Associativity int

const (
	AssociativityNone Associativity = iota
	AssociativityLeft
	AssociativityRight
)

func (a Associativity) String() string {
	switch a {
	case AssociativityLeft:
		return "left"
	case AssociativityRight:
		return "right"
	}
	return ""
}

// MetadataParams carries the disambiguation and rendering annotations a
// metadata rule attaches to the rule it wraps.
type MetadataParams struct {
	Precedence        Precedence    `json:"precedence"`
	Associativity     Associativity `json:"associativity,omitempty"`
	DynamicPrecedence int           `json:"dynamic_precedence,omitempty"`
	FieldName         string        `json:"field_name,omitempty"`
	Alias             *Alias        `json:"alias,omitempty"`
	IsToken           bool          `json:"is_token,omitempty"`
	IsString          bool          `json:"is_string,omitempty"`
}

func (p MetadataParams) IsEmpty() bool {
	return p == MetadataParams{}
}

type PrecedenceKind int

const (
	PrecedenceKindNone PrecedenceKind = iota
	PrecedenceKindNumber
	PrecedenceKindName
)

// Precedence is either absent, numeric, or a named reference into the
// grammar's declared precedence vocabulary.
type Precedence struct {
	Kind   PrecedenceKind `json:"kind"`
	Number int            `json:"number,omitempty"`
	Name   string         `json:"name,omitempty"`
}

func NoPrecedence() Precedence {
	return Precedence{}
}

func NumberPrecedence(n int) Precedence {
	return Precedence{Kind: PrecedenceKindNumber, Number: n}
}

func NamePrecedence(name string) Precedence {
	return Precedence{Kind: PrecedenceKindName, Name: name}
}

func (p Precedence) IsNone() bool {
	return p.Kind == PrecedenceKindNone
}

func (p Precedence) String() string {
	switch p.Kind {
	case PrecedenceKindNumber:
		return strconv.Itoa(p.Number)
	case PrecedenceKindName:
		return fmt.Sprintf("'%s'", p.Name)
	}
	return "none"
}

type PrecedenceEntryKind int

const (
	PrecedenceEntryKindName PrecedenceEntryKind = iota
	PrecedenceEntryKindNumber
)

// PrecedenceEntry is one element of a declared precedence-ordering list.
type PrecedenceEntry struct {
	Kind   PrecedenceEntryKind `json:"kind"`
	Name   string              `json:"name,omitempty"`
	Number int                 `json:"number,omitempty"`
}

func NamedEntry(name string) PrecedenceEntry {
	return PrecedenceEntry{Kind: PrecedenceEntryKindName, Name: name}
}

func NumberEntry(n int) PrecedenceEntry {
	return PrecedenceEntry{Kind: PrecedenceEntryKindNumber, Number: n}
}

func (e PrecedenceEntry) String() string {
	if e.Kind == PrecedenceEntryKindName {
		return fmt.Sprintf("'%s'", e.Name)
	}
	return strconv.Itoa(e.Number)
}

// ComparePrecedenceEntries defines the canonical total order over precedence
// entries: named entries sort before numeric ones, names sort by string
// order, and numbers sort by value.
func ComparePrecedenceEntries(a, b PrecedenceEntry) int {
	if a.Kind != b.Kind {
		if a.Kind == PrecedenceEntryKindName {
			return -1
		}
		return 1
	}
	if a.Kind == PrecedenceEntryKindName {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	}
	switch {
	case a.Number < b.Number:
		return -1
	case a.Number > b.Number:
		return 1
	}
	return 0
}

func Blank() Rule {
	return BlankRule{}
}

func Lit(value string) Rule {
	return StringRule{Value: value}
}

func Pat(value string) Rule {
	return PatternRule{Value: value}
}

func Ref(name string) Rule {
	return NamedSymbolRule{Name: name}
}

func Sym(sym Symbol) Rule {
	return SymbolRule{Symbol: sym}
}

func Seq(members ...Rule) Rule {
	return SeqRule{Members: members}
}

func Choice(members ...Rule) Rule {
	return ChoiceRule{Members: members}
}

func Repeat(content Rule) Rule {
	return RepeatRule{Content: content}
}

func Prec(p Precedence, content Rule) Rule {
	return MetadataRule{Params: MetadataParams{Precedence: p}, Content: content}
}

func PrecLeft(p Precedence, content Rule) Rule {
	return MetadataRule{
		Params:  MetadataParams{Precedence: p, Associativity: AssociativityLeft},
		Content: content,
	}
}

func PrecRight(p Precedence, content Rule) Rule {
	return MetadataRule{
		Params:  MetadataParams{Precedence: p, Associativity: AssociativityRight},
		Content: content,
	}
}

func PrecDynamic(n int, content Rule) Rule {
	return MetadataRule{Params: MetadataParams{DynamicPrecedence: n}, Content: content}
}

func Token(content Rule) Rule {
	return MetadataRule{Params: MetadataParams{IsToken: true}, Content: content}
}

func Field(name string, content Rule) Rule {
	return MetadataRule{Params: MetadataParams{FieldName: name}, Content: content}
}

func Aliased(content Rule, value string, isNamed bool) Rule {
	return MetadataRule{
		Params:  MetadataParams{Alias: &Alias{Value: value, IsNamed: isNamed}},
		Content: content,
	}
}
