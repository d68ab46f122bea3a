// Package errors provides structured error handling for listkit components.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Kind identifies the category of an error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindFetch indicates a network or parse failure in the data source.
	KindFetch
	// KindValidation indicates a fetched payload that is not array-shaped
	// at the requested expression path.
	KindValidation
	// KindRender indicates a template expansion failure.
	KindRender
	// KindTemplate indicates that no template could be resolved for a host.
	KindTemplate
	// KindLayout indicates a denied layout change. Layout denials are
	// swallowed by the controller and never surface from Refresh.
	KindLayout
	// KindAction indicates an invalid animation action invocation.
	KindAction
	// KindConfig indicates a configuration error.
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindFetch:
		return "fetch"
	case KindValidation:
		return "validation"
	case KindRender:
		return "render"
	case KindTemplate:
		return "template"
	case KindLayout:
		return "layout"
	case KindAction:
		return "action"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Error represents a structured error in a listkit component.
type Error struct {
	// Op is the operation that failed (e.g., "list.Controller.Refresh").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Path is the expression path involved, if applicable.
	Path string
	// Value is the offending value for validation errors.
	Value any
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("listkit: %s [%s] path=%q: %v", e.Op, e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("listkit: %s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E wraps err with an operation and kind.
func E(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err, Timestamp: time.Now()}
}

// Fetchf creates a fetch error with a formatted message.
func Fetchf(op, format string, args ...any) *Error {
	return E(op, KindFetch, fmt.Errorf(format, args...))
}

// Validationf creates a validation error carrying the expression path and
// the offending value for diagnostics.
func Validationf(op, path string, value any, format string, args ...any) *Error {
	e := E(op, KindValidation, fmt.Errorf(format, args...))
	e.Path = path
	e.Value = value
	return e
}

// Renderf creates a render error with a formatted message.
func Renderf(op, format string, args ...any) *Error {
	return E(op, KindRender, fmt.Errorf(format, args...))
}

// Templatef creates a template resolution error with a formatted message.
func Templatef(op, format string, args ...any) *Error {
	return E(op, KindTemplate, fmt.Errorf(format, args...))
}

// Actionf creates an action error with a formatted message.
func Actionf(op, format string, args ...any) *Error {
	return E(op, KindAction, fmt.Errorf(format, args...))
}

// Configf creates a configuration error with a formatted message.
func Configf(op, format string, args ...any) *Error {
	return E(op, KindConfig, fmt.Errorf(format, args...))
}

// IsKind reports whether any error in err's chain is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
