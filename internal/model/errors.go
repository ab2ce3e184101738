package model

import "fmt"

// The three runtime error kinds of the engine. All of them are recovered
// internally by the fallback path and never surface to API callers;
// configuration-time graph errors are the only fatal class.

// ValidationError reports a malformed or missing required request field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}

// UnknownNodeError reports a graph reference that does not resolve
type UnknownNodeError struct {
	NodeID string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("question node not found: %s", e.NodeID)
}

// EvaluationError reports a condition whose operator and answer value types
// are incompatible (e.g. greater_than against a non-numeric answer).
type EvaluationError struct {
	Field    string
	Operator Operator
	Reason   string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("cannot evaluate %s on %q: %s", e.Operator, e.Field, e.Reason)
}
