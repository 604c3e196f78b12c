package usecase

import (
	"errors"

	"github.com/dododo1295/quicknotes/repository"
)

type Kind int

const (
	KindOK Kind = iota
	KindNotFound
	KindInvalid
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindNotFound:
		return "not_found"
	case KindInvalid:
		return "invalid"
	case KindFailure:
		return "failure"
	}
	return "unknown"
}

// Result is the outcome of a service operation. Message is set for OK and
// NotFound, Error for Invalid and Failure. Total is set on list results.
type Result[T any] struct {
	Kind    Kind
	Message string
	Error   string
	Data    T
	Total   *int

	cause error
}

func (r Result[T]) OK() bool {
	return r.Kind == KindOK
}

// Cause is the store error behind a Failure, if any.
func (r Result[T]) Cause() error {
	return r.cause
}

func ok[T any](message string, data T) Result[T] {
	return Result[T]{Kind: KindOK, Message: message, Data: data}
}

func okList[T any](message string, items []T) Result[[]T] {
	total := len(items)
	return Result[[]T]{Kind: KindOK, Message: message, Data: items, Total: &total}
}

func notFound[T any](message string) Result[T] {
	return Result[T]{Kind: KindNotFound, Message: message}
}

func invalid[T any](message string) Result[T] {
	return Result[T]{Kind: KindInvalid, Error: message}
}

// failure reports the store's message when there is one and fallback otherwise.
func failure[T any](cause error, fallback string) Result[T] {
	msg := fallback
	switch {
	case errors.Is(cause, repository.ErrNoteNotFound):
		msg = noteNotFound
	case cause != nil && cause.Error() != "":
		msg = cause.Error()
	}
	return Result[T]{Kind: KindFailure, Error: msg, cause: cause}
}
