package model

import (
	"errors"
	"fmt"
)

// ErrorKind names a rejected ledger operation. Every kind is deterministic and
// recoverable by the caller.
type ErrorKind string

const (
	DuplicateEventID           ErrorKind = "DuplicateEventId"
	DuplicateSeat              ErrorKind = "DuplicateSeat"
	DuplicateTicketID          ErrorKind = "DuplicateTicketId"
	EventNotFound              ErrorKind = "EventNotFound"
	EventNotActive             ErrorKind = "EventNotActive"
	TicketNotFound             ErrorKind = "TicketNotFound"
	TicketNotForSale           ErrorKind = "TicketNotForSale"
	IncorrectPayment           ErrorKind = "IncorrectPayment"
	NotOwner                   ErrorKind = "NotOwner"
	InsufficientPendingBalance ErrorKind = "InsufficientPendingBalance"
	InvalidRequest             ErrorKind = "InvalidRequest"
)

// Error is returned by every rejected ledger operation. A rejected operation
// leaves no observable state change.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any *Error of the same kind, so errors.Is(err, &Error{Kind: k})
// works through wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the ledger error wrapped in err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
