// Package result carries either a value or a typed failure across service
// boundaries. Business failures travel as values, never as panics.
package result

import (
	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
)

// Result holds exactly one of a value or a failure.
type Result[T any] struct {
	value T
	err   error
}

func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail builds a failed result. A nil failure is itself a bug and is reported as one.
func Fail[T any](err error) Result[T] {
	if err == nil {
		err = domainagg.InvariantViolation("result.nilFailure", "failure constructed without an error")
	}
	return Result[T]{err: err}
}

// From adapts a (value, error) pair.
func From[T any](v T, err error) Result[T] {
	if err != nil {
		return Result[T]{err: err}
	}
	return Ok(v)
}

func (r Result[T]) IsOk() bool { return r.err == nil }

func (r Result[T]) Err() error { return r.err }

// Value returns the zero value on failure.
func (r Result[T]) Value() T { return r.value }

func (r Result[T]) Get() (T, error) { return r.value, r.err }

func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.err != nil {
		return Result[U]{err: r.err}
	}
	return Ok(fn(r.value))
}

func FlatMap[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if r.err != nil {
		return Result[U]{err: r.err}
	}
	return fn(r.value)
}

func Match[T, U any](r Result[T], onOk func(T) U, onFail func(error) U) U {
	if r.err != nil {
		return onFail(r.err)
	}
	return onOk(r.value)
}
