package grammar

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ProductionID identifies a production by its left-hand side, its steps, and
// their attached metadata. Structurally identical productions of the same
// variable share an identity.
type ProductionID [32]byte

func (id ProductionID) String() string {
	return hex.EncodeToString(id[:])
}

func (id ProductionID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// ProductionStep is one element of a flattened production: a symbol together
// with the precedence, associativity, field, and alias metadata that applied
// at its position in the original rule tree.
type ProductionStep struct {
	Symbol        Symbol        `json:"symbol"`
	Precedence    Precedence    `json:"precedence"`
	Associativity Associativity `json:"associativity,omitempty"`
	Alias         *Alias        `json:"alias,omitempty"`
	FieldName     string        `json:"field_name,omitempty"`
}

// Production is one flattened alternative of a variable.
type Production struct {
	ID                ProductionID     `json:"id"`
	DynamicPrecedence int              `json:"dynamic_precedence,omitempty"`
	Steps             []ProductionStep `json:"steps"`
}

func NewProduction(lhs Symbol, dynamicPrecedence int, steps []ProductionStep) Production {
	return Production{
		ID:                genProductionID(lhs, steps),
		DynamicPrecedence: dynamicPrecedence,
		Steps:             steps,
	}
}

func genProductionID(lhs Symbol, steps []ProductionStep) ProductionID {
	h := sha256.New()
	fmt.Fprintf(h, "%d:%d", lhs.Kind, lhs.Index)
	for _, step := range steps {
		fmt.Fprintf(h, ";%d:%d/%v/%v/%v", step.Symbol.Kind, step.Symbol.Index,
			step.Precedence, step.Associativity, step.FieldName)
		if step.Alias != nil {
			fmt.Fprintf(h, "/%v:%v", step.Alias.Value, step.Alias.IsNamed)
		}
	}
	var id ProductionID
	copy(id[:], h.Sum(nil))
	return id
}

func (p *Production) IsEmpty() bool {
	return len(p.Steps) == 0
}

// FirstPrecedence returns the precedence attached to the first step, which is
// the production-level precedence for conflict resolution.
func (p *Production) FirstPrecedence() Precedence {
	if len(p.Steps) == 0 {
		return NoPrecedence()
	}
	return p.Steps[0].Precedence
}

func (p *Production) Equals(q *Production) bool {
	return p.ID == q.ID
}
