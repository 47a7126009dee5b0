// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specflag

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an *Error.
type ErrorKind int

const (
	// SpecificationError reports malformed usage text.
	SpecificationError ErrorKind = iota + 1
	// ValueError reports a token that cannot be coerced or violates a constraint.
	ValueError
	// LookupError reports an undeclared long name, short flag or position.
	LookupError
	// StateError reports a non-multiple flag given more than once.
	StateError
	// RequiredError reports a required flag that was never set.
	RequiredError
)

func (k ErrorKind) String() string {
	switch k {
	case SpecificationError:
		return "specification error"
	case ValueError:
		return "value error"
	case LookupError:
		return "lookup error"
	case StateError:
		return "state error"
	case RequiredError:
		return "required error"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinel errors matched by errors.Is against an *Error of the same kind.
var (
	ErrSpecification = errors.New("specification error")
	ErrValue         = errors.New("value error")
	ErrLookup        = errors.New("lookup error")
	ErrState         = errors.New("state error")
	ErrRequired      = errors.New("required error")

	// ErrHelp is returned by ParseArgs after the usage text was written
	// because --help was given. Callers should exit successfully.
	ErrHelp = errors.New("help requested")
)

// Error is the structured error produced by specification parsing, command
// line matching and the accessors.
type Error struct {
	Kind ErrorKind
	Flag string // long name of the flag involved, if any
	Pos  int    // positional index involved, if any
	Line int    // 1-based usage text line for specification errors
	Msg  string
	Err  error // underlying cause, if any
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrSpecification:
		return e.Kind == SpecificationError
	case ErrValue:
		return e.Kind == ValueError
	case ErrLookup:
		return e.Kind == LookupError
	case ErrState:
		return e.Kind == StateError
	case ErrRequired:
		return e.Kind == RequiredError
	}
	return false
}

func specErrorf(format string, args ...any) *Error {
	return &Error{Kind: SpecificationError, Msg: fmt.Sprintf(format, args...)}
}

func valueErrorf(flag string, format string, args ...any) *Error {
	return &Error{Kind: ValueError, Flag: flag, Msg: fmt.Sprintf(format, args...)}
}

func lookupErrorf(format string, args ...any) *Error {
	return &Error{Kind: LookupError, Msg: fmt.Sprintf(format, args...)}
}
