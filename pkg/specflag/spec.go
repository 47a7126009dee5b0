// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specflag

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/yeetrun/specflag/pkg/textscan"
	"tailscale.com/util/mak"
)

// Spec holds the flags declared by a usage text and, once ParseArgs has run,
// their values. A Spec is not safe for concurrent use; distinct Specs are
// independent.
type Spec struct {
	text  string
	flags []*Flag

	byLong  map[string]*Flag
	byShort map[rune]*Flag
	byPos   map[int]*Flag

	pos     int  // last positional ordinal assigned
	varargs bool // a multiple positional has been declared
	types   map[string]Validator

	specParsed bool
	argsParsed bool

	policy  Policy
	onError func(error)
	exit    func(int)
	prog    string
	helpOut io.Writer
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// New returns a Spec for the given usage text. The text is not parsed until
// ParseSpec or ParseArgs is called.
func New(usage string, opts ...Option) *Spec {
	s := &Spec{
		text:    usage,
		policy:  ExitOnError,
		exit:    os.Exit,
		prog:    filepath.Base(os.Args[0]),
		helpOut: os.Stdout,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterType declares a custom type name usable in type specifiers. Values
// of custom types are stored as strings; validate, if non-nil, is applied to
// every value and default of that type.
func (s *Spec) RegisterType(name string, validate Validator) error {
	if _, ok := builtinTypes[name]; ok {
		return fmt.Errorf("type %q is built in", name)
	}
	if name == "" || name == "default" || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("invalid type name %q", name)
	}
	mak.Set(&s.types, name, validate)
	return nil
}

func (s *Spec) lookupType(name string) (Type, Validator, bool) {
	if t, ok := builtinTypes[name]; ok {
		return t, nil, true
	}
	if v, ok := s.types[name]; ok {
		return TypeString, v, true
	}
	return Type{}, nil, false
}

// Usage returns the usage text with its common indentation removed.
func (s *Spec) Usage() string {
	return dedent(s.text)
}

// Flags returns the declared flags in declaration order.
func (s *Spec) Flags() []*Flag {
	out := make([]*Flag, len(s.flags))
	copy(out, s.flags)
	return out
}

// Lookup returns the flag with the given long name.
func (s *Spec) Lookup(name string) (*Flag, bool) {
	f, ok := s.byLong[name]
	return f, ok
}

// ParseSpec parses the usage text into flag definitions. Running it again
// discards any previous definitions and values.
func (s *Spec) ParseSpec() error {
	s.flags = nil
	s.byLong, s.byShort, s.byPos = nil, nil, nil
	s.pos = 0
	s.varargs = false
	s.specParsed = false
	s.argsParsed = false

	for i, line := range strings.Split(s.text, "\n") {
		f, err := s.parseLine(strings.TrimSuffix(line, "\r"))
		if err == nil && f != nil {
			err = s.addFlag(f)
		}
		if err != nil {
			var e *Error
			if errors.As(err, &e) {
				e.Line = i + 1
				return e
			}
			return &Error{Kind: SpecificationError, Line: i + 1, Msg: err.Error(), Err: err}
		}
	}
	if _, ok := s.byLong["help"]; !ok {
		help := &Flag{
			Long:       "help",
			Type:       TypeBool,
			Default:    Bool(false),
			Help:       "this help",
			defaultRaw: "false",
		}
		if _, taken := s.byShort['h']; !taken {
			help.Short = 'h'
		}
		if err := s.addFlag(help); err != nil {
			return err
		}
	}
	s.specParsed = true
	return nil
}

func (s *Spec) addFlag(f *Flag) error {
	if _, ok := s.byLong[f.Long]; ok {
		return specErrorf("flag %s already defined", f.Long)
	}
	if f.Short != 0 {
		if other, ok := s.byShort[f.Short]; ok {
			return specErrorf("short flag -%c already used by %s", f.Short, other.Long)
		}
	}
	if f.Positional() {
		if s.varargs {
			if f.Multiple {
				return specErrorf("only one varargs positional allowed, %s is the second", f.Long)
			}
			return specErrorf("positional %s declared after varargs positional", f.Long)
		}
		s.varargs = f.Multiple
		s.pos = f.Pos
		mak.Set(&s.byPos, f.Pos, f)
	}
	if f.Short != 0 {
		mak.Set(&s.byShort, f.Short, f)
	}
	mak.Set(&s.byLong, f.Long, f)
	s.flags = append(s.flags, f)
	return nil
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isLongNameRune(r rune) bool {
	return isAlnum(r) || r == '_' || r == '-'
}

// parseLine parses one line of usage text. It returns a nil Flag for lines
// that do not declare anything.
func (s *Spec) parseLine(line string) (*Flag, error) {
	sc := textscan.New(line)
	if !sc.SkipSpace() {
		return nil, nil
	}
	f := &Flag{}
	switch {
	case sc.Accept("--"):
		long, err := scanLong(sc)
		if err != nil {
			return nil, err
		}
		f.Long = long
	case sc.Accept("-"):
		r := sc.Next()
		if r == textscan.EOF {
			return nil, specErrorf("missing short flag after '-'")
		}
		if !isAlnum(r) {
			return nil, specErrorf("%q isn't allowed: only letters or digits in short flags", r)
		}
		f.Short = r
		f.Long = string(r)
		switch {
		case sc.Accept(","):
			sc.SkipSpace()
			if !sc.Accept("--") {
				return nil, specErrorf("expected long flag after short flag %q", r)
			}
			long, err := scanLong(sc)
			if err != nil {
				return nil, err
			}
			f.Long = long
		case sc.Done(), unicode.IsSpace(sc.Peek()), sc.HasPrefix("..."):
		default:
			return nil, specErrorf("%q isn't allowed: short flag not followed by comma or space", sc.Peek())
		}
	case sc.Accept("<"):
		name, ok := sc.TakeUntil('>')
		if !ok {
			return nil, specErrorf("missing '>' after positional %q", name)
		}
		sc.Next()
		f.Long = strings.TrimSpace(name)
		if f.Long == "" {
			return nil, specErrorf("empty positional name")
		}
		f.Pos = s.pos + 1
	default:
		return nil, nil
	}

	if sc.Accept("...") {
		f.Multiple = true
	}

	sc.SkipSpace()
	if sc.Accept("(") {
		inner, ok := sc.TakeUntil(')')
		if !ok {
			return nil, specErrorf("missing ')' in type specifier for %s", f.Long)
		}
		sc.Next()
		if err := s.parseTypeSpec(f, strings.TrimSpace(inner)); err != nil {
			return nil, err
		}
	} else if f.Positional() {
		f.Type = TypeString
		if f.Multiple {
			f.Default = Array()
		}
	} else if f.Multiple {
		f.Type = TypeBool
		f.Default = Array()
	} else {
		f.Type = TypeBool
		f.Default = Bool(false)
		f.defaultRaw = "false"
	}
	f.Help = sc.TrimmedRest()
	if f.Multiple {
		f.Value = Array()
	}
	return f, nil
}

func scanLong(sc *textscan.Scanner) (string, error) {
	long := sc.TakeWhile(isLongNameRune)
	if long == "" {
		return "", specErrorf("missing long flag name")
	}
	if r := sc.Peek(); r != textscan.EOF && r != '.' && !unicode.IsSpace(r) {
		return "", specErrorf("%q isn't allowed: long flag chars are alphanumeric, '_' or '-'", r)
	}
	return long, nil
}

// parseTypeSpec interprets the text between the parentheses of a type
// specifier: a range lo..hi, "default VALUE", or "TYPE [default VALUE]",
// optionally followed by "...".
func (s *Spec) parseTypeSpec(f *Flag, spec string) error {
	if spec == "" {
		return specErrorf("empty type specifier for %s", f.Long)
	}
	array := false
	if strings.HasSuffix(spec, "...") {
		array = true
		spec = strings.TrimSpace(strings.TrimSuffix(spec, "..."))
		if spec == "" {
			return specErrorf("empty type specifier for %s", f.Long)
		}
	}

	var (
		inferred   Value
		hasDefault bool
		defaultRaw string
	)
	sc := textscan.New(spec)
	word := sc.TakeWhile(func(r rune) bool { return !unicode.IsSpace(r) })
	rest := sc.TrimmedRest()
	t, validate, known := s.lookupType(word)
	switch {
	case word == "default":
		if rest == "" {
			return specErrorf("missing default value for %s", f.Long)
		}
		v, err := ParseLiteral(rest)
		if err != nil {
			return specErrorf("bad default for %s: %v", f.Long, err)
		}
		f.Type = v.Type()
		inferred, hasDefault, defaultRaw = v, true, rest
	case known:
		f.Type = t
		if validate != nil {
			f.constraint = customConstraint{name: word, validate: validate}
		}
		if rest != "" {
			dsc := textscan.New(rest)
			if !dsc.Accept("default") || !unicode.IsSpace(dsc.Peek()) || !dsc.SkipSpace() {
				return specErrorf("unexpected %q after type %s", rest, word)
			}
			hasDefault, defaultRaw = true, dsc.TrimmedRest()
		}
	case strings.Contains(spec, ".."):
		lo, hi, _ := strings.Cut(spec, "..")
		c, err := newRangeConstraint(strings.TrimSpace(lo), strings.TrimSpace(hi))
		if err != nil {
			return specErrorf("bad range for %s: %v", f.Long, err)
		}
		f.Type = Type{Kind: c.kind()}
		f.constraint = c
	default:
		return specErrorf("not a known type %s", word)
	}

	if array {
		if f.Positional() {
			f.Multiple = true
		} else {
			f.Type = ArrayOf(f.Type)
		}
	}

	switch {
	case hasDefault && !inferred.IsNone() && !array:
		f.Default = inferred
	case hasDefault:
		text, err := unquote(defaultRaw)
		if err != nil {
			return specErrorf("bad default for %s: %v", f.Long, err)
		}
		v := f.Type.Parse(text)
		if v.IsErr() {
			return specErrorf("bad default for %s: %v", f.Long, v.Err())
		}
		f.Default = v
	case f.IsArray():
		f.Default = Array()
	}
	if hasDefault {
		text, _ := unquote(defaultRaw)
		f.defaultRaw = text
		if f.constraint != nil {
			if v := f.constraint.apply(f.Long, f.Default); v.IsErr() {
				return specErrorf("bad default for %s: %v", f.Long, v.Err())
			}
		}
		if f.Multiple && f.Default.Kind() != KindArray {
			f.Default = Array(f.Default)
		}
	}
	return nil
}

// dedent removes the indentation of the first non-blank line from every
// line, and drops leading and trailing blank lines.
func dedent(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}
	first := lines[0]
	indent := first[:len(first)-len(strings.TrimLeftFunc(first, unicode.IsSpace))]
	var b strings.Builder
	for _, line := range lines {
		n := 0
		for n < len(indent) && n < len(line) && line[n] == indent[n] {
			n++
		}
		b.WriteString(line[n:])
		b.WriteByte('\n')
	}
	return b.String()
}
