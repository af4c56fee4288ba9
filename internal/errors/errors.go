// Package errors provides a lightweight structured error type (LaunchmanError)
// for category-based classification across the descriptor compiler and CLI.
package errors

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorCategory represents the category of a launchman error for classification.
type ErrorCategory string

const (
	// Schedule and descriptor validation errors
	CategoryRange      ErrorCategory = "range"
	CategoryExpression ErrorCategory = "expression"
	CategoryConflict   ErrorCategory = "conflict"
	CategoryDescriptor ErrorCategory = "descriptor"
	CategorySocketKey  ErrorCategory = "socketkey"
	CategoryEntryPoint ErrorCategory = "entrypoint"

	// External collaborator errors
	CategoryControlTool ErrorCategory = "controltool"
	CategoryFileSystem  ErrorCategory = "filesystem"

	// Configuration and infrastructure errors
	CategoryConfig   ErrorCategory = "config"
	CategoryInternal ErrorCategory = "internal"
)

// LaunchmanError is a structured error with category and context.
type LaunchmanError struct {
	Category ErrorCategory `json:"category"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for LaunchmanError.
type ContextFields map[string]any

// Error implements the error interface.
func (e *LaunchmanError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Category, e.Message)
	if len(e.Context) > 0 {
		msg += contextSuffix(e.Context)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// contextSuffix renders context fields in a stable order.
func contextSuffix(ctx ContextFields) string {
	if len(ctx) == 0 {
		return ""
	}
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, ctx[k]))
	}
	return " (" + strings.Join(parts, " ") + ")"
}

// Unwrap implements error unwrapping for Go 1.13+ error handling.
func (e *LaunchmanError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *LaunchmanError) WithContext(key string, value any) *LaunchmanError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new LaunchmanError.
func New(category ErrorCategory, message string) *LaunchmanError {
	return &LaunchmanError{
		Category: category,
		Message:  message,
	}
}

// Wrap creates a new LaunchmanError that wraps an existing error.
func Wrap(err error, category ErrorCategory, message string) *LaunchmanError {
	return &LaunchmanError{
		Category: category,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category.
func IsCategory(err error, category ErrorCategory) bool {
	if le, ok := err.(*LaunchmanError); ok {
		return le.Category == category
	}
	return false
}
