package grammar

type VariableKind int

const (
	// VariableKindNamed variables appear in syntax trees under their own name.
	VariableKindNamed VariableKind = iota
	// VariableKindHidden variables are elided from syntax trees. A variable
	// whose name starts with an underscore is hidden.
	VariableKindHidden
	// VariableKindAnonymous variables are synthesized for string literals.
	VariableKindAnonymous
	// VariableKindAuxiliary variables are synthesized by repeat expansion.
	VariableKindAuxiliary
)

func (k VariableKind) String() string {
	switch k {
	case VariableKindNamed:
		return "named"
	case VariableKindHidden:
		return "hidden"
	case VariableKindAnonymous:
		return "anonymous"
	case VariableKindAuxiliary:
		return "auxiliary"
	}
	return "?"
}

// Variable is a single named rule in the grammar.
type Variable struct {
	Name string       `json:"name"`
	Kind VariableKind `json:"kind"`
	Rule Rule         `json:"rule"`
}

func NamedVariable(name string, rule Rule) Variable {
	return Variable{Name: name, Kind: VariableKindNamed, Rule: rule}
}

func HiddenVariable(name string, rule Rule) Variable {
	return Variable{Name: name, Kind: VariableKindHidden, Rule: rule}
}

func AnonymousVariable(name string, rule Rule) Variable {
	return Variable{Name: name, Kind: VariableKindAnonymous, Rule: rule}
}

func AuxiliaryVariable(name string, rule Rule) Variable {
	return Variable{Name: name, Kind: VariableKindAuxiliary, Rule: rule}
}
