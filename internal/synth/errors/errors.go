// Package errors provides structured error handling for the armforge
// synthesizer. It defines error codes, categories, and formatting for both
// human-readable terminal output and machine-parseable JSON for tooling.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a unique error code in the synthesizer
type ErrorCode string

// ErrorCategory represents the category of a synthesis error
type ErrorCategory string

const (
	// CategoryConfiguration represents configuration errors (CFG001-099)
	CategoryConfiguration ErrorCategory = "configuration"
	// CategoryReference represents reference resolution errors (REF100-199)
	CategoryReference ErrorCategory = "reference"
	// CategoryDependency represents dependency ordering errors (DEP200-299)
	CategoryDependency ErrorCategory = "dependency"
	// CategoryValidation represents document validation errors (VAL300-399)
	CategoryValidation ErrorCategory = "validation"
)

// ErrorSeverity indicates the severity level of an error
type ErrorSeverity string

const (
	// SeverityError indicates an error that aborts synthesis
	SeverityError ErrorSeverity = "error"
	// SeverityWarning indicates a degraded-but-continued condition
	SeverityWarning ErrorSeverity = "warning"
)

// Well-known error codes.
const (
	// CodeUnknownDocument: a synthesis context was constructed for a document
	// that does not exist in the supplied document metadata.
	CodeUnknownDocument ErrorCode = "CFG001"
	// CodeInconsistentAssignment: the document assignment and document
	// metadata disagree, e.g. a resource missing from the assignment or
	// assigned to a document without metadata.
	CodeInconsistentAssignment ErrorCode = "CFG002"
	// CodeReservedDocumentName: a grouping produced a document whose name is
	// reserved for the root document.
	CodeReservedDocumentName ErrorCode = "CFG003"
	// CodeResourceNotFound: a reference names a resource id absent from the
	// document assignment.
	CodeResourceNotFound ErrorCode = "REF101"
	// CodeInvalidReference: a cross-document reference was requested for a
	// resource that is co-located in the current document.
	CodeInvalidReference ErrorCode = "REF102"
	// CodeBrokenReference: a cross-document reference record is internally
	// inconsistent, e.g. its target document never declares the output it
	// names.
	CodeBrokenReference ErrorCode = "REF103"
	// CodeCyclicDependency: the document-level dependency graph contains a
	// cycle, so no deployment order exists.
	CodeCyclicDependency ErrorCode = "DEP201"
	// CodeDanglingDependency: a resource depends on an id that no resource
	// declares. Warning only; the edge is dropped.
	CodeDanglingDependency ErrorCode = "VAL301"
	// CodeOversizedResource: a single resource exceeds the document size
	// ceiling on its own. Warning only; the resource becomes a singleton
	// document.
	CodeOversizedResource ErrorCode = "VAL302"
	// CodeOversizedDocument: a generated document exceeds the size ceiling
	// even though none of its resources does alone, e.g. when affinity
	// splitting kept resources together past the ceiling. Warning only.
	CodeOversizedDocument ErrorCode = "VAL303"
)

// SynthError represents a structured synthesis error with enough information
// for terminal output and for machine consumption
type SynthError struct {
	// Code is the unique error code (e.g. "CFG001", "REF101")
	Code ErrorCode `json:"code"`
	// Category is the error category
	Category ErrorCategory `json:"category"`
	// Severity is the error severity level
	Severity ErrorSeverity `json:"severity"`
	// Message is the primary error message
	Message string `json:"message"`
	// Document is the output document involved, if any
	Document string `json:"document,omitempty"`
	// Resource is the resource id involved, if any
	Resource string `json:"resource,omitempty"`
	// Suggestion provides a hint for fixing the error
	Suggestion string `json:"suggestion,omitempty"`
	// Known lists a sample of known identifiers to aid debugging
	Known []string `json:"known,omitempty"`
}

// Error implements the error interface
func (e *SynthError) Error() string {
	if e.Document != "" {
		return fmt.Sprintf("[%s] %s (document %q)", e.Code, e.Message, e.Document)
	}
	if e.Resource != "" {
		return fmt.Sprintf("[%s] %s (resource %q)", e.Code, e.Message, e.Resource)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// ToJSON returns the error as a JSON string for tooling
func (e *SynthError) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// WithSuggestion sets a fix hint on the error
func (e *SynthError) WithSuggestion(s string) *SynthError {
	e.Suggestion = s
	return e
}

// WithKnown attaches a sample of known identifiers to the error
func (e *SynthError) WithKnown(ids []string) *SynthError {
	e.Known = ids
	return e
}

// IsCode reports whether err is a *SynthError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	se, ok := err.(*SynthError)
	return ok && se.Code == code
}

// NewConfigurationError creates a configuration error. Configuration errors
// are fatal: the caller passed inconsistent inputs and retrying without
// changing them cannot succeed.
func NewConfigurationError(code ErrorCode, format string, args ...interface{}) *SynthError {
	return &SynthError{
		Code:     code,
		Category: CategoryConfiguration,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
	}
}

// NewNotFoundError creates a reference error for an unknown resource id.
func NewNotFoundError(resourceID string, format string, args ...interface{}) *SynthError {
	return &SynthError{
		Code:     CodeResourceNotFound,
		Category: CategoryReference,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Resource: resourceID,
	}
}

// NewInvalidReferenceError creates a reference error for a cross-document
// reference to a co-located resource.
func NewInvalidReferenceError(resourceID string, format string, args ...interface{}) *SynthError {
	return &SynthError{
		Code:       CodeInvalidReference,
		Category:   CategoryReference,
		Severity:   SeverityError,
		Message:    fmt.Sprintf(format, args...),
		Resource:   resourceID,
		Suggestion: "use ResourceReference for resources in the current document",
	}
}

// NewCyclicDependencyError creates a dependency error naming the document on
// which the cycle was detected.
func NewCyclicDependencyError(document string) *SynthError {
	return &SynthError{
		Code:     CodeCyclicDependency,
		Category: CategoryDependency,
		Severity: SeverityError,
		Message:  fmt.Sprintf("cyclic dependency detected involving document %q", document),
		Document: document,
	}
}

// NewWarning creates a non-fatal validation finding.
func NewWarning(code ErrorCode, format string, args ...interface{}) *SynthError {
	return &SynthError{
		Code:     code,
		Category: CategoryValidation,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
	}
}
