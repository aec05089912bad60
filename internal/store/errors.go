package store

import (
	"errors"
	"fmt"
)

// Kind classifies store failures
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error is returned by every store operation that fails
type Error struct {
	Kind Kind
	Msg  string // safe to show to the user
	Err  error  // underlying cause, for logs
}

// Sentinels for errors.Is
var (
	ErrValidation  = &Error{Kind: KindValidation}
	ErrNotFound    = &Error{Kind: KindNotFound}
	ErrPersistence = &Error{Kind: KindPersistence}
)

func newError(kind Kind, msg string, underlying error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: underlying}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Msg, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// IsKind reports whether err is a store error of the given kind
func IsKind(err error, kind Kind) bool {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Kind == kind
	}
	return false
}

func taskNotFound(id string) *Error {
	return newError(KindNotFound, fmt.Sprintf("task %s not found", id), nil)
}

func subTaskNotFound(taskID, subTaskID string) *Error {
	return newError(KindNotFound, fmt.Sprintf("sub-task %s of task %s not found", subTaskID, taskID), nil)
}
