package prepare

import (
	"encoding/json"
	"fmt"
)

// ErrorKind tags the pipeline stage a preparation failure originated from.
type ErrorKind string

const (
	ErrorKindUndeclaredPrecedence ErrorKind = "undeclared-precedence"
	ErrorKindConflictingOrdering  ErrorKind = "conflicting-precedence-ordering"
	ErrorKindInternSymbols        ErrorKind = "intern-symbols"
	ErrorKindExtractTokens        ErrorKind = "extract-tokens"
	ErrorKindFlattenGrammar       ErrorKind = "flatten-grammar"
	ErrorKindExpandTokens         ErrorKind = "expand-tokens"
	ErrorKindProcessInlines       ErrorKind = "process-inlines"
)

// Error is the single tagged failure type returned by Prepare. Cause is one
// of the stage-specific error types below; its structured fields survive JSON
// serialization so tooling can present the failure without re-parsing source.
type Error struct {
	Kind  ErrorKind `json:"kind"`
	Cause error     `json:"cause"`
}

func (e *Error) Error() string {
	return e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    ErrorKind `json:"kind"`
		Message string    `json:"message"`
		Cause   error     `json:"cause"`
	}{e.Kind, e.Cause.Error(), e.Cause})
}

func wrapError(err error) *Error {
	var kind ErrorKind
	switch err.(type) {
	case *UndeclaredPrecedenceError:
		kind = ErrorKindUndeclaredPrecedence
	case *ConflictingOrderingError:
		kind = ErrorKindConflictingOrdering
	case *UndefinedSymbolError:
		kind = ErrorKindInternSymbols
	case *ExtractTokensError:
		kind = ErrorKindExtractTokens
	case *FlattenGrammarError:
		kind = ErrorKindFlattenGrammar
	case *ExpandTokensError:
		kind = ErrorKindExpandTokens
	case *ProcessInlinesError:
		kind = ErrorKindProcessInlines
	default:
		kind = ErrorKind("internal")
	}
	return &Error{Kind: kind, Cause: err}
}

// UndeclaredPrecedenceError reports a named precedence used in a rule but
// absent from every precedence-ordering list.
type UndeclaredPrecedenceError struct {
	Precedence string `json:"precedence"`
	Rule       string `json:"rule"`
}

func (e *UndeclaredPrecedenceError) Error() string {
	return fmt.Sprintf("Undeclared precedence '%s' in rule '%s'", e.Precedence, e.Rule)
}

// ConflictingOrderingError reports two precedence entries ordered oppositely
// in two different ordering lists. The fields hold the entries' display
// strings in canonical (comparison) order.
type ConflictingOrderingError struct {
	Precedence1 string `json:"precedence_1"`
	Precedence2 string `json:"precedence_2"`
}

func (e *ConflictingOrderingError) Error() string {
	return fmt.Sprintf("Conflicting orderings for precedences %s and %s", e.Precedence1, e.Precedence2)
}

// UndefinedSymbolError reports a rule reference that names nothing declared
// in the grammar.
type UndefinedSymbolError struct {
	Name string `json:"name"`
	Rule string `json:"rule,omitempty"`
}

func (e *UndefinedSymbolError) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("Undefined symbol '%s' in rule '%s'", e.Name, e.Rule)
	}
	return fmt.Sprintf("Undefined symbol '%s'", e.Name)
}

// ExtractTokensError reports a symbol used in a context inconsistent with its
// lexical/syntactic classification.
type ExtractTokensError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (e *ExtractTokensError) Error() string {
	return e.Message
}

func extractTokensErrorf(name, format string, args ...interface{}) *ExtractTokensError {
	return &ExtractTokensError{Name: name, Message: fmt.Sprintf(format, args...)}
}

// FlattenGrammarError reports a rule shape the flattener cannot represent as
// a flat production. It signals an upstream invariant violation, not a user
// error.
type FlattenGrammarError struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e *FlattenGrammarError) Error() string {
	return e.Message
}

func flattenGrammarErrorf(rule, format string, args ...interface{}) *FlattenGrammarError {
	return &FlattenGrammarError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// ExpandTokensError reports a construct invalid at the token level.
type ExpandTokensError struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

func (e *ExpandTokensError) Error() string {
	return e.Message
}

func expandTokensErrorf(token, format string, args ...interface{}) *ExpandTokensError {
	return &ExpandTokensError{Token: token, Message: fmt.Sprintf(format, args...)}
}

// ProcessInlinesError reports an ill-defined inlining request.
type ProcessInlinesError struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e *ProcessInlinesError) Error() string {
	return e.Message
}

func processInlinesErrorf(rule, format string, args ...interface{}) *ProcessInlinesError {
	return &ProcessInlinesError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}
