package model

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. Every concrete error type below matches exactly one.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrIO         = errors.New("i/o failure")
	ErrParse      = errors.New("malformed record")
)

// ValidationError rejects caller input: bad or duplicate account numbers,
// out-of-range transaction indexes, invalid report names.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports an account number that is not in the chart.
type NotFoundError struct {
	Number int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("account %d not found", e.Number)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// IOError wraps a filesystem failure with the operation and path involved.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// ParseError describes one persisted row that could not be decoded.
// File loaders skip such rows; the bank importer rejects the whole file.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }
