// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specflag

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Policy selects what the Must* accessors and MustParse do with an error
// when no handler was installed with WithErrorHandler.
type Policy int

const (
	// ExitOnError prints the error to stderr and exits with status 1. A help
	// request exits with status 0.
	ExitOnError Policy = iota
	// PanicOnError panics with the error.
	PanicOnError
)

// Option configures a Spec.
type Option func(*Spec)

// WithPolicy sets the fatal error policy.
func WithPolicy(p Policy) Option {
	return func(s *Spec) {
		s.policy = p
	}
}

// WithErrorHandler routes fatal errors to fn instead of the policy. fn may
// return; the Must* accessor then returns the zero value.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Spec) {
		s.onError = fn
	}
}

// WithExit replaces os.Exit for ExitOnError.
func WithExit(exit func(code int)) Option {
	return func(s *Spec) {
		if exit != nil {
			s.exit = exit
		}
	}
}

// WithProgramName sets the name used to prefix fatal error messages.
func WithProgramName(name string) Option {
	return func(s *Spec) {
		s.prog = name
	}
}

// WithHelpOutput sets where the usage text is written for --help.
func WithHelpOutput(w io.Writer) Option {
	return func(s *Spec) {
		if w != nil {
			s.helpOut = w
		}
	}
}

// WithStdio sets the streams used for the stdin and stdout pseudo-files and
// for fatal error messages.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(s *Spec) {
		if stdin != nil {
			s.stdin = stdin
		}
		if stdout != nil {
			s.stdout = stdout
		}
		if stderr != nil {
			s.stderr = stderr
		}
	}
}

// WithType registers a custom type name, as RegisterType does. It panics if
// name is not a valid custom type name.
func WithType(name string, validate Validator) Option {
	return func(s *Spec) {
		if err := s.RegisterType(name, validate); err != nil {
			panic(err)
		}
	}
}

// fatal surfaces err through the handler or the policy.
func (s *Spec) fatal(err error) {
	if s.onError != nil {
		s.onError(err)
		return
	}
	if s.policy == PanicOnError {
		panic(err)
	}
	if errors.Is(err, ErrHelp) {
		s.exit(0)
		return
	}
	red := color.New(color.FgRed)
	red.Fprintf(s.stderr, "%s error:", s.prog)
	fmt.Fprintf(s.stderr, " %v\n", err)
	s.exit(1)
}

// Quitf reports a caller-detected error through the same path as the Must*
// accessors.
func (s *Spec) Quitf(format string, args ...any) {
	s.fatal(fmt.Errorf(format, args...))
}

// MustParse runs ParseArgs and hands any error, including ErrHelp, to the
// fatal handler. It returns s for chaining.
func (s *Spec) MustParse(args []string) *Spec {
	if err := s.ParseArgs(args); err != nil {
		s.fatal(err)
	}
	return s
}

// Parse builds a Spec from usage and matches os.Args[1:] against it,
// exiting the process on errors unless opts say otherwise.
func Parse(usage string, opts ...Option) *Spec {
	return New(usage, opts...).MustParse(os.Args[1:])
}
