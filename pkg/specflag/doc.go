// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package specflag parses command-line arguments described by a program's own
// usage text. The text that documents the flags also declares their names,
// types, defaults and multiplicity.
//
// # Usage Text
//
// Every line that starts (after indentation) with '-' or '<' declares a flag
// or a positional argument. Other lines are documentation:
//
//	const usage = `
//	Prints lines from a file.
//	  -v, --verbose          print progress
//	  -n, --lines (1..100)   number of lines
//	  -o, --output (default stdout)
//	  -I, --include... (string)  search directories
//	  <file> (infile)        the input file
//	`
//
// A flag without a parenthesized specifier is a boolean that defaults to
// false. A specifier is a range lo..hi, "default VALUE" (the type is inferred
// from the literal), or a type name (string, integer, float, bool, infile,
// outfile, or a name registered with WithType) optionally followed by
// "default VALUE". A flag with no default is required unless it holds an
// array.
//
// A "..." after the flag name lets the flag repeat; after a positional it
// collects all remaining arguments. A "..." inside the parentheses makes a
// flag take a comma or space separated list in one argument.
//
// # Basic Usage
//
//	s := specflag.Parse(usage)
//	n := s.MustInt("lines")
//	in := s.MustInFile("file")
//	defer in.Close()
//
// Parse exits the process on errors and on --help. Use New with
// WithPolicy, WithErrorHandler or WithExit to decide otherwise, and the
// non-Must accessors to handle errors one by one:
//
//	s := specflag.New(usage, specflag.WithPolicy(specflag.PanicOnError))
//	if err := s.ParseArgs(args); err != nil {
//	    return err
//	}
//	dirs, err := s.Strings("include")
//
// # Errors
//
// Errors are *Error values classified by ErrorKind; use errors.Is with
// ErrSpecification, ErrValue, ErrLookup, ErrState or ErrRequired. A value
// that fails to convert does not stop ParseArgs: the error is kept by the
// flag and returned when it is read.
package specflag
