package error

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SpecError decorates a grammar-preparation failure with the name of the
// grammar description it came from, for presentation at the CLI boundary.
// The underlying cause keeps its structured fields when serialized.
type SpecError struct {
	Cause      error
	SourceName string
}

func (e *SpecError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)
	return b.String()
}

func (e *SpecError) Unwrap() error {
	return e.Cause
}

func (e *SpecError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		SourceName string `json:"source_name,omitempty"`
		Cause      error  `json:"cause"`
	}{e.SourceName, e.Cause})
}
