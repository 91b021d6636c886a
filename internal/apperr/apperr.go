// Package apperr defines the error kinds surfaced by the synthesis pipeline.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindConfiguration Kind = "CONFIGURATION_ERROR"
	KindAnalysis      Kind = "ANALYSIS_ERROR"
	KindGeneration    Kind = "GENERATION_ERROR"
	KindValidation    Kind = "VALIDATION_ERROR"
	KindEnrichment    Kind = "ENRICHMENT_ERROR"
	KindRegistryFetch Kind = "REGISTRY_FETCH_ERROR"
	KindDiagnosis     Kind = "DIAGNOSIS_ERROR"
)

// Error carries a kind plus enough context to render a user-facing diagnostic.
// Subject names the offending node, connection or field when there is one.
// Raw holds unparsed model output for generation failures.
type Error struct {
	Kind    Kind
	Message string
	Subject string
	Raw     string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Subject != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Subject)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: err}
}

func Configuration(format string, args ...any) *Error {
	return New(KindConfiguration, format, args...)
}

func Analysis(format string, args ...any) *Error {
	return New(KindAnalysis, format, args...)
}

func Validation(subject, format string, args ...any) *Error {
	e := New(KindValidation, format, args...)
	e.Subject = subject
	return e
}

func Generation(raw string, cause error, format string, args ...any) *Error {
	e := Wrap(KindGeneration, cause, format, args...)
	e.Raw = raw
	return e
}

func Diagnosis(cause error, format string, args ...any) *Error {
	return Wrap(KindDiagnosis, cause, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
