// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specflag

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the tag shared by Type and Value.
type Kind int

const (
	KindNone Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindInFile
	KindOutFile
	KindArray
)

// Type describes the expected shape of a flag value. Elem is only set for
// KindArray.
type Type struct {
	Kind Kind
	Elem *Type
}

// Scalar types.
var (
	TypeString  = Type{Kind: KindString}
	TypeInt     = Type{Kind: KindInt}
	TypeFloat   = Type{Kind: KindFloat}
	TypeBool    = Type{Kind: KindBool}
	TypeInFile  = Type{Kind: KindInFile}
	TypeOutFile = Type{Kind: KindOutFile}
)

// builtinTypes maps usage-text type names to types.
var builtinTypes = map[string]Type{
	"string":  TypeString,
	"integer": TypeInt,
	"float":   TypeFloat,
	"bool":    TypeBool,
	"infile":  TypeInFile,
	"outfile": TypeOutFile,
}

// ArrayOf returns the array type with the given element type.
func ArrayOf(elem Type) Type {
	return Type{Kind: KindArray, Elem: &elem}
}

// IsArray reports whether t is an array type.
func (t Type) IsArray() bool {
	return t.Kind == KindArray
}

// Equal reports whether t and o describe the same shape.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind != KindArray {
		return true
	}
	if t.Elem == nil || o.Elem == nil {
		return t.Elem == o.Elem
	}
	return t.Elem.Equal(*o.Elem)
}

// Name returns the short name used in usage text and error messages.
func (t Type) Name() string {
	switch t.Kind {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindInFile:
		return "infile"
	case KindOutFile:
		return "outfile"
	case KindArray:
		return "array"
	}
	return "none"
}

func (t Type) String() string {
	if t.Kind == KindArray && t.Elem != nil {
		return "array of " + t.Elem.String()
	}
	return t.Name()
}

// Parse coerces raw into a Value of type t. Failures are returned as an
// error Value rather than an error so that they can be carried by a flag
// until it is read.
func (t Type) Parse(raw string) Value {
	switch t.Kind {
	case KindString:
		return Str(raw)
	case KindInt:
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return conversionError(raw, t, err)
		}
		return Int(int32(n))
	case KindFloat:
		x, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return conversionError(raw, t, err)
		}
		return Float(float32(x))
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return conversionError(raw, t, err)
		}
		return Bool(b)
	case KindInFile:
		return InFile(raw)
	case KindOutFile:
		return OutFile(raw)
	case KindArray:
		if t.Elem == nil {
			return conversionError(raw, t, nil)
		}
		parts := splitList(raw)
		elems := make([]Value, 0, len(parts))
		for _, part := range parts {
			v := t.Elem.Parse(part)
			if v.IsErr() {
				return v
			}
			elems = append(elems, v)
		}
		return Array(elems...)
	}
	return conversionError(raw, t, nil)
}

// splitList splits an array token on commas when it contains any, and on
// runs of whitespace otherwise.
func splitList(raw string) []string {
	if strings.Contains(raw, ",") {
		return strings.Split(raw, ",")
	}
	return strings.Fields(raw)
}

func conversionError(raw string, t Type, err error) Value {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		err = numErr.Err
	}
	msg := fmt.Sprintf("can't convert %q to %s", raw, t)
	if err != nil {
		msg += ": " + err.Error()
	}
	return Failed(&Error{Kind: ValueError, Msg: msg, Err: err})
}

// Value is a typed flag value. The zero Value is the None value.
type Value struct {
	kind  Kind
	str   string // string payload and file paths
	num   int32
	float float32
	flag  bool
	elems []Value
	err   error
}

// Str returns a string value.
func Str(s string) Value { return Value{kind: KindString, str: s} }

// Int returns an integer value.
func Int(n int32) Value { return Value{kind: KindInt, num: n} }

// Float returns a float value.
func Float(x float32) Value { return Value{kind: KindFloat, float: x} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// InFile returns an input file reference; "stdin" names standard input.
func InFile(path string) Value { return Value{kind: KindInFile, str: path} }

// OutFile returns an output file reference; "stdout" names standard output.
func OutFile(path string) Value { return Value{kind: KindOutFile, str: path} }

// Array returns an array value holding elems.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindArray, elems: elems}
}

// Failed returns an error value carrying err.
func Failed(err error) Value { return Value{err: err} }

// Kind returns the value's tag. Error values report KindNone.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether v is the None value.
func (v Value) IsNone() bool { return v.kind == KindNone && v.err == nil }

// IsErr reports whether v is an error value.
func (v Value) IsErr() bool { return v.err != nil }

// Err returns the error carried by an error value, or nil.
func (v Value) Err() error { return v.err }

// Type returns the type of v. The element type of an array is taken from its
// first element; an empty array has element type None.
func (v Value) Type() Type {
	if v.kind != KindArray {
		return Type{Kind: v.kind}
	}
	if len(v.elems) == 0 {
		return ArrayOf(Type{})
	}
	return ArrayOf(v.elems[0].Type())
}

// AsString returns the payload of a string value.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString && v.err == nil
}

// AsInt returns the payload of an integer value.
func (v Value) AsInt() (int32, bool) {
	return v.num, v.kind == KindInt && v.err == nil
}

// AsFloat returns the payload of a float value.
func (v Value) AsFloat() (float32, bool) {
	return v.float, v.kind == KindFloat && v.err == nil
}

// AsBool returns the payload of a boolean value.
func (v Value) AsBool() (bool, bool) {
	return v.flag, v.kind == KindBool && v.err == nil
}

// AsPath returns the path of an input or output file reference.
func (v Value) AsPath() (string, bool) {
	return v.str, (v.kind == KindInFile || v.kind == KindOutFile) && v.err == nil
}

// Elems returns the elements of an array value.
func (v Value) Elems() ([]Value, bool) {
	return v.elems, v.kind == KindArray && v.err == nil
}

// Len returns the number of elements of an array value, and 0 otherwise.
func (v Value) Len() int {
	return len(v.elems)
}

// withElem returns v with e appended. v must be an array.
func (v Value) withElem(e Value) Value {
	elems := make([]Value, len(v.elems), len(v.elems)+1)
	copy(elems, v.elems)
	return Array(append(elems, e)...)
}

// Interface returns v as a plain Go value: string, int32, float32, bool,
// []any or nil. File references return their path.
func (v Value) Interface() any {
	if v.err != nil {
		return nil
	}
	switch v.kind {
	case KindString, KindInFile, KindOutFile:
		return v.str
	case KindInt:
		return v.num
	case KindFloat:
		return v.float
	case KindBool:
		return v.flag
	case KindArray:
		out := make([]any, len(v.elems))
		for i, e := range v.elems {
			out[i] = e.Interface()
		}
		return out
	}
	return nil
}

func (v Value) String() string {
	if v.err != nil {
		return "error: " + v.err.Error()
	}
	switch v.kind {
	case KindString, KindInFile, KindOutFile:
		return v.str
	case KindInt:
		return strconv.FormatInt(int64(v.num), 10)
	case KindFloat:
		return strconv.FormatFloat(float64(v.float), 'g', -1, 32)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindArray:
		parts := make([]string, len(v.elems))
		for i, e := range v.elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	}
	return ""
}

// ParseLiteral infers a value from a default written in usage text: a
// leading digit (optionally signed) gives an integer, or a float when a '.'
// is present; a leading single quote forces a string and the quotes are
// stripped; stdin and stdout give file references; anything else is a
// string.
func ParseLiteral(raw string) (Value, error) {
	if raw == "" {
		return Value{}, &Error{Kind: ValueError, Msg: "empty default value"}
	}
	switch {
	case looksNumeric(raw):
		t := TypeInt
		if strings.Contains(raw, ".") {
			t = TypeFloat
		}
		v := t.Parse(raw)
		if v.IsErr() {
			return Value{}, v.Err()
		}
		return v, nil
	case raw[0] == '\'':
		s, err := unquote(raw)
		if err != nil {
			return Value{}, err
		}
		return Str(s), nil
	case raw == "stdin":
		return InFile(raw), nil
	case raw == "stdout":
		return OutFile(raw), nil
	}
	return Str(raw), nil
}

func looksNumeric(raw string) bool {
	if raw[0] == '-' || raw[0] == '+' {
		raw = raw[1:]
	}
	return raw != "" && raw[0] >= '0' && raw[0] <= '9'
}

// unquote strips a pair of single quotes from raw, if present.
func unquote(raw string) (string, error) {
	if !strings.HasPrefix(raw, "'") {
		return raw, nil
	}
	if len(raw) < 2 || !strings.HasSuffix(raw, "'") {
		return "", &Error{Kind: ValueError, Msg: fmt.Sprintf("unterminated quote in %s", raw)}
	}
	return raw[1 : len(raw)-1], nil
}
