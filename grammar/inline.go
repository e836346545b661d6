package grammar

import (
	"encoding/json"
	"sort"
)

// ProductionStepID addresses one step of one production.
type ProductionStepID struct {
	Production ProductionID
	StepIndex  int
}

// InlinedProductionMap records, for every production step that refers to an
// inline-marked variable, the alternative productions obtained by
// substituting the variable's own productions at that step. Built once by the
// inline processor and consumed read-only by the table builder.
type InlinedProductionMap struct {
	Productions []Production
	stepMap     map[ProductionStepID][]int
}

func NewInlinedProductionMap() *InlinedProductionMap {
	return &InlinedProductionMap{
		stepMap: map[ProductionStepID][]int{},
	}
}

// Record stores the substitution alternatives for a step, interning each
// production so identical expansions are shared.
func (m *InlinedProductionMap) Record(id ProductionID, stepIndex int, alternatives []Production) {
	indices := make([]int, 0, len(alternatives))
	for _, alt := range alternatives {
		indices = append(indices, m.intern(alt))
	}
	m.stepMap[ProductionStepID{Production: id, StepIndex: stepIndex}] = indices
}

func (m *InlinedProductionMap) intern(prod Production) int {
	for i := range m.Productions {
		if m.Productions[i].Equals(&prod) {
			return i
		}
	}
	m.Productions = append(m.Productions, prod)
	return len(m.Productions) - 1
}

// InlinedProductions returns the alternatives recorded for a step, or nil if
// the step does not refer to an inlined variable.
func (m *InlinedProductionMap) InlinedProductions(id ProductionID, stepIndex int) []*Production {
	indices, ok := m.stepMap[ProductionStepID{Production: id, StepIndex: stepIndex}]
	if !ok {
		return nil
	}
	prods := make([]*Production, 0, len(indices))
	for _, i := range indices {
		prods = append(prods, &m.Productions[i])
	}
	return prods
}

// HasInlinedSteps reports whether any step of the given production was
// expanded.
func (m *InlinedProductionMap) HasInlinedSteps(id ProductionID) bool {
	for key := range m.stepMap {
		if key.Production == id {
			return true
		}
	}
	return false
}

func (m *InlinedProductionMap) Len() int {
	return len(m.stepMap)
}

// MarshalJSON renders the map as a sorted entry list so serialized output is
// stable across runs.
func (m *InlinedProductionMap) MarshalJSON() ([]byte, error) {
	type entry struct {
		Production   ProductionID `json:"production"`
		StepIndex    int          `json:"step_index"`
		Alternatives []int        `json:"alternatives"`
	}
	entries := make([]entry, 0, len(m.stepMap))
	for key, indices := range m.stepMap {
		entries = append(entries, entry{
			Production:   key.Production,
			StepIndex:    key.StepIndex,
			Alternatives: indices,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Production != b.Production {
			return a.Production.String() < b.Production.String()
		}
		return a.StepIndex < b.StepIndex
	})
	return json.Marshal(struct {
		Productions []Production `json:"productions"`
		Steps       []entry      `json:"steps"`
	}{m.Productions, entries})
}
