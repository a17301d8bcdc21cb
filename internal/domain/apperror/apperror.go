// Package apperror holds the typed failures returned by the loan engine.
// Callers branch on Kind (or errors.Is against the sentinels below); Field names
// the offending input when there is one.
package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation        Kind = "validation"
	KindIllegalTransition Kind = "illegal_transition"
	KindAuthorization     Kind = "authorization"
	KindLoanNotPayable    Kind = "loan_not_payable"
	KindInvalidPrincipal  Kind = "invalid_principal"
	KindInvalidRate       Kind = "invalid_rate"
	KindInvalidTerm       Kind = "invalid_term"
	KindNotFound          Kind = "not_found"
	KindDuplicate         Kind = "duplicate"
	KindUnauthenticated   Kind = "unauthenticated"
)

type Error struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *Error) Error() string {
	switch {
	case e.Field != "" && e.Message != "":
		return fmt.Sprintf("%s: %s %s", e.Kind, e.Field, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	default:
		return string(e.Kind)
	}
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrValidation) works
// for every validation failure regardless of field.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// sentinels, one per kind
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrIllegalTransition = &Error{Kind: KindIllegalTransition}
	ErrAuthorization     = &Error{Kind: KindAuthorization}
	ErrLoanNotPayable    = &Error{Kind: KindLoanNotPayable}
	ErrInvalidPrincipal  = &Error{Kind: KindInvalidPrincipal}
	ErrInvalidRate       = &Error{Kind: KindInvalidRate}
	ErrInvalidTerm       = &Error{Kind: KindInvalidTerm}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrDuplicate         = &Error{Kind: KindDuplicate}
	ErrUnauthenticated   = &Error{Kind: KindUnauthenticated}
)

func New(kind Kind, field, msg string) *Error {
	return &Error{Kind: kind, Field: field, Message: msg}
}

func Validation(field, msg string) *Error { return New(KindValidation, field, msg) }

func IllegalTransition(msg string) *Error { return New(KindIllegalTransition, "status", msg) }

func Authorization(msg string) *Error { return New(KindAuthorization, "", msg) }

func NotFound(what string) *Error { return New(KindNotFound, "", what+" not found") }

func Duplicate(field, msg string) *Error { return New(KindDuplicate, field, msg) }

func Unauthenticated(msg string) *Error { return New(KindUnauthenticated, "", msg) }

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// FieldOf returns the offending field of the first *Error in err's chain.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
