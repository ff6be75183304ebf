package aggregates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes aggregate failure semantics across domains.
type ErrorCode string

const (
	CodeInvalidValue       ErrorCode = "invalid_value"
	CodeNotFound           ErrorCode = "not_found"
	CodeConflict           ErrorCode = "conflict"
	CodeInvariantViolation ErrorCode = "invariant_violation"
	CodeInvalidTransition  ErrorCode = "invalid_transition"
)

// DomainError is the closed set of business failures produced by aggregates.
// Only the types in this file implement it.
type DomainError interface {
	error
	Code() ErrorCode
	UserMessage() string
	sealed()
}

type InvalidValueError struct {
	Field  string
	Reason string
}

type NotFoundError struct {
	Entity string
	ID     string
}

type ConflictError struct {
	Reason string
}

type InvariantViolationError struct {
	Invariant string
	Reason    string
}

type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
	Reason string
}

func InvalidValue(field, reason string) error {
	return &InvalidValueError{Field: strings.TrimSpace(field), Reason: strings.TrimSpace(reason)}
}

func NotFound(entity string, id any) error {
	return &NotFoundError{Entity: strings.TrimSpace(entity), ID: strings.TrimSpace(fmt.Sprint(id))}
}

func Conflict(reason string) error {
	return &ConflictError{Reason: strings.TrimSpace(reason)}
}

func InvariantViolation(invariant, reason string) error {
	return &InvariantViolationError{Invariant: strings.TrimSpace(invariant), Reason: strings.TrimSpace(reason)}
}

func InvalidTransition(entity string, from, to any, reason string) error {
	return &InvalidTransitionError{
		Entity: strings.TrimSpace(entity),
		From:   fmt.Sprint(from),
		To:     fmt.Sprint(to),
		Reason: strings.TrimSpace(reason),
	}
}

func (e *InvalidValueError) Code() ErrorCode { return CodeInvalidValue }
func (e *InvalidValueError) UserMessage() string {
	return fmt.Sprintf("Invalid value for %s: %s", e.Field, e.Reason)
}
func (e *InvalidValueError) Error() string { return string(e.Code()) + ": " + e.UserMessage() }
func (e *InvalidValueError) sealed()       {}

func (e *NotFoundError) Code() ErrorCode { return CodeNotFound }
func (e *NotFoundError) UserMessage() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}
func (e *NotFoundError) Error() string { return string(e.Code()) + ": " + e.UserMessage() }
func (e *NotFoundError) sealed()       {}

func (e *ConflictError) Code() ErrorCode     { return CodeConflict }
func (e *ConflictError) UserMessage() string { return e.Reason }
func (e *ConflictError) Error() string       { return string(e.Code()) + ": " + e.UserMessage() }
func (e *ConflictError) sealed()             {}

func (e *InvariantViolationError) Code() ErrorCode { return CodeInvariantViolation }
func (e *InvariantViolationError) UserMessage() string {
	return fmt.Sprintf("Invariant %s violated: %s", e.Invariant, e.Reason)
}
func (e *InvariantViolationError) Error() string { return string(e.Code()) + ": " + e.UserMessage() }
func (e *InvariantViolationError) sealed()       {}

func (e *InvalidTransitionError) Code() ErrorCode { return CodeInvalidTransition }
func (e *InvalidTransitionError) UserMessage() string {
	return fmt.Sprintf("%s cannot move %s -> %s: %s", e.Entity, e.From, e.To, e.Reason)
}
func (e *InvalidTransitionError) Error() string { return string(e.Code()) + ": " + e.UserMessage() }
func (e *InvalidTransitionError) sealed()       {}

// AsDomainError unwraps err to its domain failure, if it carries one.
func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if !errors.As(err, &de) {
		return nil, false
	}
	return de, true
}

// IsCode checks whether err (or wrapped err) carries the given aggregate code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the aggregate error code when available.
func CodeOf(err error) ErrorCode {
	de, ok := AsDomainError(err)
	if !ok {
		return ""
	}
	return de.Code()
}

// IsInvariant reports whether err is a violation of the named invariant.
func IsInvariant(err error, invariant string) bool {
	var iv *InvariantViolationError
	if !errors.As(err, &iv) {
		return false
	}
	return iv.Invariant == invariant
}
