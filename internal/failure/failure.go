// Package failure classifies errors surfaced to the command entry points.
//
// Every fetch, decode or input check that fails is wrapped in an *Error
// carrying one of three kinds, so callers can pick an exit code without
// string matching.
package failure

import (
	"errors"
	"fmt"
)

// Kind identifies the class of a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindDecode
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Op names the operation that failed,
// e.g. "GET /iss-now.json".
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so errors.Is(err, ErrNetwork)
// works through any amount of wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNetwork    = &Error{Kind: KindNetwork}
	ErrDecode     = &Error{Kind: KindDecode}
	ErrValidation = &Error{Kind: KindValidation}
)

// Network wraps err as a network failure.
func Network(op string, err error) error {
	return &Error{Kind: KindNetwork, Op: op, Err: err}
}

// Decode wraps err as a decode failure.
func Decode(op string, err error) error {
	return &Error{Kind: KindDecode, Op: op, Err: err}
}

// Validation wraps err as a validation failure.
func Validation(op string, err error) error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain, or
// KindUnknown.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// ExitCode maps err to a process exit status. nil maps to 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case KindNetwork:
		return 2
	case KindDecode:
		return 3
	case KindValidation:
		return 4
	default:
		return 1
	}
}
