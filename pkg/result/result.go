// Package result provides the two-case outcome type used throughout the
// parser. Every getter, resolver, and builder phase returns a Result instead
// of raising: success carries a value, failure carries a typed error. This
// keeps per-row failures recoverable and lets callers accumulate them without
// aborting a batch.
package result

import "fmt"

// Result holds either a value or an error, never both.
type Result[T any] struct {
	value T
	err   error
}

// Ok creates a successful Result carrying value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err creates a failed Result carrying err.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// Errf creates a failed Result from a formatted message.
func Errf[T any](format string, args ...any) Result[T] {
	return Result[T]{err: fmt.Errorf(format, args...)}
}

// IsOk reports whether the Result is a success.
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// IsErr reports whether the Result is a failure.
func (r Result[T]) IsErr() bool {
	return r.err != nil
}

// Ok returns the success value, or the zero value on failure.
func (r Result[T]) Ok() T {
	return r.value
}

// Err returns the error, or nil on success.
func (r Result[T]) Err() error {
	return r.err
}

// Unwrap returns the success value and panics on failure. Reserved for
// tests and for call sites that have already checked IsOk.
func (r Result[T]) Unwrap() T {
	if r.err != nil {
		panic(fmt.Sprintf("called Unwrap on failed result: %v", r.err))
	}
	return r.value
}

// UnwrapErr returns the error and panics on success.
func (r Result[T]) UnwrapErr() error {
	if r.err == nil {
		panic("called UnwrapErr on successful result")
	}
	return r.err
}

// UnwrapOr returns the success value, or fallback on failure.
func (r Result[T]) UnwrapOr(fallback T) T {
	if r.err != nil {
		return fallback
	}
	return r.value
}

// Map transforms the success value through fn, passing failures through.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.err != nil {
		return Err[U](r.err)
	}
	return Ok(fn(r.value))
}
