package models

import "fmt"

// ValidationError reports bad local input rejected before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a write that targeted a missing record.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// AIErrorKind classifies AI request failures.
type AIErrorKind string

const (
	// AIErrorNetwork covers transport and non-2xx HTTP failures.
	AIErrorNetwork AIErrorKind = "network"
	// AIErrorMalformedResponse means the payload was not valid JSON.
	AIErrorMalformedResponse AIErrorKind = "malformed_response"
	// AIErrorSchemaViolation means JSON parsed but did not conform; Path
	// identifies the offending field.
	AIErrorSchemaViolation AIErrorKind = "schema_violation"
	// AIErrorBusy means a request was rejected because one is already in
	// flight (reject policy only).
	AIErrorBusy AIErrorKind = "busy"
	// AIErrorSuperseded means a newer request replaced this one before its
	// response arrived; the response was discarded.
	AIErrorSuperseded AIErrorKind = "superseded"
)

// AIError is the failure value returned by the AI orchestration layer. It is
// always returned, never panicked, and carries enough detail for the calling
// feature to present a clear error state.
type AIError struct {
	Kind   AIErrorKind
	Path   string // set for schema violations
	Detail string
	Err    error
}

func (e *AIError) Error() string {
	switch {
	case e.Kind == AIErrorSchemaViolation && e.Path != "":
		return fmt.Sprintf("ai request failed (%s at %s): %s", e.Kind, e.Path, e.Detail)
	case e.Detail != "":
		return fmt.Sprintf("ai request failed (%s): %s", e.Kind, e.Detail)
	default:
		return fmt.Sprintf("ai request failed (%s)", e.Kind)
	}
}

func (e *AIError) Unwrap() error {
	return e.Err
}
