// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specflag

import (
	"fmt"
	"io"
	"os"
)

// value returns the matched value of the named flag, or the error it holds.
func (s *Spec) value(name string) (*Flag, Value, error) {
	if !s.argsParsed {
		return nil, Value{}, &Error{Kind: StateError, Flag: name, Msg: "command line has not been parsed"}
	}
	f, err := s.flagByLong(name)
	if err != nil {
		return nil, Value{}, err
	}
	if err := f.Value.Err(); err != nil {
		return f, Value{}, err
	}
	return f, f.Value, nil
}

func (s *Spec) scalar(name string, want Kind) (Value, error) {
	f, v, err := s.value(name)
	if err != nil {
		return Value{}, err
	}
	if v.Kind() != want {
		return Value{}, mismatch(f.Long, Type{Kind: want}, v.Type())
	}
	return v, nil
}

func (s *Spec) array(name string, want Kind) ([]Value, error) {
	f, v, err := s.value(name)
	if err != nil {
		return nil, err
	}
	elems, ok := v.Elems()
	if !ok {
		return nil, mismatch(f.Long, ArrayOf(Type{Kind: want}), v.Type())
	}
	if len(elems) > 0 && elems[0].Kind() != want {
		return nil, mismatch(f.Long, ArrayOf(Type{Kind: want}), v.Type())
	}
	return elems, nil
}

func mismatch(name string, want, got Type) error {
	return valueErrorf(name, "flag '%s' is not a %s, but %s", name, want, got.Name())
}

// String returns the value of a string flag.
func (s *Spec) String(name string) (string, error) {
	v, err := s.scalar(name, KindString)
	if err != nil {
		return "", err
	}
	str, _ := v.AsString()
	return str, nil
}

// Int returns the value of an integer flag.
func (s *Spec) Int(name string) (int, error) {
	v, err := s.scalar(name, KindInt)
	if err != nil {
		return 0, err
	}
	n, _ := v.AsInt()
	return int(n), nil
}

// Float returns the value of a float flag.
func (s *Spec) Float(name string) (float32, error) {
	v, err := s.scalar(name, KindFloat)
	if err != nil {
		return 0, err
	}
	x, _ := v.AsFloat()
	return x, nil
}

// Bool returns the value of a boolean flag.
func (s *Spec) Bool(name string) (bool, error) {
	v, err := s.scalar(name, KindBool)
	if err != nil {
		return false, err
	}
	b, _ := v.AsBool()
	return b, nil
}

// InFile opens the file named by an infile flag. The pseudo-file stdin
// yields the Spec's standard input, which is not closed by Close.
func (s *Spec) InFile(name string) (io.ReadCloser, error) {
	v, err := s.scalar(name, KindInFile)
	if err != nil {
		return nil, err
	}
	path, _ := v.AsPath()
	if path == "stdin" {
		return io.NopCloser(s.stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Kind: ValueError, Flag: name, Msg: fmt.Sprintf("can't open '%s' for reading", path), Err: err}
	}
	return f, nil
}

// OutFile creates the file named by an outfile flag. The pseudo-file stdout
// yields the Spec's standard output, which is not closed by Close.
func (s *Spec) OutFile(name string) (io.WriteCloser, error) {
	v, err := s.scalar(name, KindOutFile)
	if err != nil {
		return nil, err
	}
	path, _ := v.AsPath()
	if path == "stdout" {
		return nopWriteCloser{s.stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, &Error{Kind: ValueError, Flag: name, Msg: fmt.Sprintf("can't open '%s' for writing", path), Err: err}
	}
	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Strings returns the values of a string array or multiple string flag.
func (s *Spec) Strings(name string) ([]string, error) {
	elems, err := s.array(name, KindString)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i], _ = e.AsString()
	}
	return out, nil
}

// Ints returns the values of an integer array or multiple integer flag.
func (s *Spec) Ints(name string) ([]int, error) {
	elems, err := s.array(name, KindInt)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(elems))
	for i, e := range elems {
		n, _ := e.AsInt()
		out[i] = int(n)
	}
	return out, nil
}

// Floats returns the values of a float array or multiple float flag.
func (s *Spec) Floats(name string) ([]float32, error) {
	elems, err := s.array(name, KindFloat)
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(elems))
	for i, e := range elems {
		out[i], _ = e.AsFloat()
	}
	return out, nil
}

// Bools returns the values of a boolean array or multiple boolean flag.
func (s *Spec) Bools(name string) ([]bool, error) {
	elems, err := s.array(name, KindBool)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(elems))
	for i, e := range elems {
		out[i], _ = e.AsBool()
	}
	return out, nil
}

func must[T any](s *Spec, v T, err error) T {
	if err != nil {
		s.fatal(err)
	}
	return v
}

// MustString is like String but reports errors through the fatal handler.
func (s *Spec) MustString(name string) string {
	v, err := s.String(name)
	return must(s, v, err)
}

// MustInt is like Int but reports errors through the fatal handler.
func (s *Spec) MustInt(name string) int {
	v, err := s.Int(name)
	return must(s, v, err)
}

// MustFloat is like Float but reports errors through the fatal handler.
func (s *Spec) MustFloat(name string) float32 {
	v, err := s.Float(name)
	return must(s, v, err)
}

// MustBool is like Bool but reports errors through the fatal handler.
func (s *Spec) MustBool(name string) bool {
	v, err := s.Bool(name)
	return must(s, v, err)
}

// MustInFile is like InFile but reports errors through the fatal handler.
func (s *Spec) MustInFile(name string) io.ReadCloser {
	v, err := s.InFile(name)
	return must(s, v, err)
}

// MustOutFile is like OutFile but reports errors through the fatal handler.
func (s *Spec) MustOutFile(name string) io.WriteCloser {
	v, err := s.OutFile(name)
	return must(s, v, err)
}

// MustStrings is like Strings but reports errors through the fatal handler.
func (s *Spec) MustStrings(name string) []string {
	v, err := s.Strings(name)
	return must(s, v, err)
}

// MustInts is like Ints but reports errors through the fatal handler.
func (s *Spec) MustInts(name string) []int {
	v, err := s.Ints(name)
	return must(s, v, err)
}

// MustFloats is like Floats but reports errors through the fatal handler.
func (s *Spec) MustFloats(name string) []float32 {
	v, err := s.Floats(name)
	return must(s, v, err)
}

// MustBools is like Bools but reports errors through the fatal handler.
func (s *Spec) MustBools(name string) []bool {
	v, err := s.Bools(name)
	return must(s, v, err)
}

// Get converts the raw text captured for a scalar flag with parse. It is
// meant for custom types, whose values are stored as strings.
func Get[T any](s *Spec, name string, parse func(string) (T, error)) (T, error) {
	var zero T
	f, _, err := s.value(name)
	if err != nil {
		return zero, err
	}
	if len(f.Raw) == 0 {
		return zero, &Error{Kind: RequiredError, Flag: f.Long, Pos: f.Pos, Msg: fmt.Sprintf("flag '%s' has no value", f.Long)}
	}
	v, err := parse(f.Raw[len(f.Raw)-1])
	if err != nil {
		return zero, &Error{Kind: ValueError, Flag: f.Long, Msg: fmt.Sprintf("flag '%s': %v", f.Long, err), Err: err}
	}
	return v, nil
}

// GetAll converts every raw token captured for a flag with parse. Tokens of
// array-typed flags are split like array values.
func GetAll[T any](s *Spec, name string, parse func(string) (T, error)) ([]T, error) {
	f, _, err := s.value(name)
	if err != nil {
		return nil, err
	}
	var parts []string
	for _, raw := range f.Raw {
		if f.Type.IsArray() {
			parts = append(parts, splitList(raw)...)
		} else {
			parts = append(parts, raw)
		}
	}
	out := make([]T, 0, len(parts))
	for _, p := range parts {
		v, err := parse(p)
		if err != nil {
			return nil, &Error{Kind: ValueError, Flag: f.Long, Msg: fmt.Sprintf("flag '%s': %v", f.Long, err), Err: err}
		}
		out = append(out, v)
	}
	return out, nil
}

// MustGet is like Get but reports errors through the fatal handler.
func MustGet[T any](s *Spec, name string, parse func(string) (T, error)) T {
	v, err := Get(s, name, parse)
	return must(s, v, err)
}
