// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specflag

import (
	"errors"
	"fmt"
)

// Flag is one flag or positional argument declared in the usage text.
type Flag struct {
	// Long is the unique name of the flag. A flag declared with only a short
	// name uses that character; a positional uses the name between < and >.
	Long string
	// Short is the single-character alias, or 0.
	Short rune
	Type  Type
	// Value is the current value. After ParseArgs it holds the matched value,
	// the default, or an error value.
	Value   Value
	Default Value
	IsSet   bool
	// Multiple flags may be repeated; a multiple positional takes all
	// remaining arguments.
	Multiple bool
	// Pos is the 1-based ordinal of a positional argument, 0 for flags.
	Pos  int
	Help string
	// Raw holds the command-line tokens accepted for the flag, in order, or
	// the default's text once the default has been adopted. Tokens that fail
	// coercion or the flag's constraint are not recorded.
	Raw []string

	constraint constraint
	defaultRaw string
}

// Positional reports whether f is a positional argument.
func (f *Flag) Positional() bool {
	return f.Pos > 0
}

// IsArray reports whether f holds an array, either because its type is an
// array or because it may be given more than once.
func (f *Flag) IsArray() bool {
	return f.Type.IsArray() || f.Multiple
}

// Constraint describes the range or custom type check on f, or "".
func (f *Flag) Constraint() string {
	if f.constraint == nil {
		return ""
	}
	return f.constraint.String()
}

func (f *Flag) setFromString(raw string) error {
	v := f.Type.Parse(raw)
	if !v.IsErr() && f.constraint != nil {
		v = f.constraint.apply(f.Long, v)
	}
	if v.IsErr() {
		v = Failed(flagError(f.Long, v.Err()))
	}
	if err := f.setValue(v); err != nil {
		return err
	}
	if !v.IsErr() {
		f.Raw = append(f.Raw, raw)
	}
	return nil
}

func (f *Flag) setBool() error {
	if err := f.setValue(Bool(true)); err != nil {
		return err
	}
	f.Raw = append(f.Raw, "true")
	return nil
}

func (f *Flag) setValue(v Value) error {
	if f.IsSet && !f.Multiple {
		return &Error{
			Kind: StateError,
			Flag: f.Long,
			Pos:  f.Pos,
			Msg:  fmt.Sprintf("flag already specified %s", f.Long),
		}
	}
	f.IsSet = true
	switch {
	case !f.Multiple:
		f.Value = v
	case f.Value.IsErr():
		// keep the first failure
	case v.IsErr():
		f.Value = v
	case f.Value.Kind() != KindArray:
		f.Value = Array(v)
	default:
		f.Value = f.Value.withElem(v)
	}
	return nil
}

// check finalizes an unset flag: arrays fall back to their default or to an
// empty array, other flags adopt their default or become required errors.
func (f *Flag) check() {
	if f.IsSet {
		return
	}
	switch {
	case !f.Default.IsNone():
		f.Value = f.Default
		if f.defaultRaw != "" {
			f.Raw = append(f.Raw, f.defaultRaw)
		}
	case f.IsArray():
		if f.Value.Kind() != KindArray {
			f.Value = Array()
		}
	default:
		what := "flag"
		if f.Positional() {
			what = "argument"
		}
		f.Value = Failed(&Error{
			Kind: RequiredError,
			Flag: f.Long,
			Pos:  f.Pos,
			Msg:  fmt.Sprintf("%s '%s' is required", what, f.Long),
		})
	}
}

func (f *Flag) clear() {
	f.IsSet = false
	f.Raw = nil
	f.Value = Value{}
	if f.Multiple {
		f.Value = Array()
	}
}

// flagError attaches the flag name to a coercion error.
func flagError(name string, err error) error {
	var e *Error
	if !errors.As(err, &e) {
		return &Error{Kind: ValueError, Flag: name, Msg: fmt.Sprintf("flag '%s': %v", name, err), Err: err}
	}
	if e.Flag != "" {
		return e
	}
	c := *e
	c.Flag = name
	c.Msg = fmt.Sprintf("flag '%s': %s", name, e.Msg)
	return &c
}

// Validator checks the raw text of a custom-typed value.
type Validator func(raw string) error

// constraint is a check applied to every coerced value of a flag, and to
// each element of an array value.
type constraint interface {
	apply(flag string, v Value) Value
	String() string
}

func applyEach(v Value, fn func(Value) Value) Value {
	elems, ok := v.Elems()
	if !ok {
		return fn(v)
	}
	for _, e := range elems {
		if r := applyEach(e, fn); r.IsErr() {
			return r
		}
	}
	return v
}

type rangeConstraint struct {
	lo, hi Value
}

func newRangeConstraint(lo, hi string) (rangeConstraint, error) {
	lv, err := ParseLiteral(lo)
	if err != nil {
		return rangeConstraint{}, err
	}
	hv, err := ParseLiteral(hi)
	if err != nil {
		return rangeConstraint{}, err
	}
	if lv.Kind() != hv.Kind() {
		return rangeConstraint{}, errors.New("range values must be same type")
	}
	if k := lv.Kind(); k != KindInt && k != KindFloat {
		return rangeConstraint{}, errors.New("range values must be integer or float")
	}
	return rangeConstraint{lo: lv, hi: hv}, nil
}

func (c rangeConstraint) kind() Kind {
	return c.lo.Kind()
}

func (c rangeConstraint) String() string {
	return c.lo.String() + ".." + c.hi.String()
}

func (c rangeConstraint) apply(flag string, v Value) Value {
	return applyEach(v, func(e Value) Value {
		inRange := false
		switch c.kind() {
		case KindInt:
			n, ok := e.AsInt()
			lo, _ := c.lo.AsInt()
			hi, _ := c.hi.AsInt()
			inRange = ok && n >= lo && n <= hi
		case KindFloat:
			x, ok := e.AsFloat()
			lo, _ := c.lo.AsFloat()
			hi, _ := c.hi.AsFloat()
			inRange = ok && x >= lo && x <= hi
		}
		if inRange {
			return e
		}
		return Failed(&Error{
			Kind: ValueError,
			Flag: flag,
			Msg:  fmt.Sprintf("flag '%s' out of range %s", flag, c),
		})
	})
}

type customConstraint struct {
	name     string
	validate Validator
}

func (c customConstraint) String() string {
	return c.name
}

func (c customConstraint) apply(flag string, v Value) Value {
	return applyEach(v, func(e Value) Value {
		s, _ := e.AsString()
		if err := c.validate(s); err != nil {
			return Failed(&Error{
				Kind: ValueError,
				Flag: flag,
				Msg:  fmt.Sprintf("flag '%s' is not a valid %s: %v", flag, c.name, err),
				Err:  err,
			})
		}
		return e
	})
}
