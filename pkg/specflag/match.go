// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specflag

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ParseArgs matches command-line arguments (without the program name)
// against the declared flags, parsing the usage text first if needed.
//
// Long flags are given as --name, --name=value or --name:value; short flags
// as -x, -xvalue, -x=value or -x:value, and boolean short flags may be
// combined as in -vk. An empty inline value, as in --name=, takes the next
// argument. A bare -- makes every following argument positional.
//
// Values that cannot be coerced do not stop matching: the flag holds the
// error until it is read. ParseArgs fails for unknown flags, missing flag
// values, surplus positional arguments and repeated non-multiple flags. If
// --help was given the usage text is written to the help output and ErrHelp
// is returned.
func (s *Spec) ParseArgs(args []string) error {
	if !s.specParsed {
		if err := s.ParseSpec(); err != nil {
			return err
		}
	}
	s.Reset()

	literal := false
	k := 1
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case !literal && arg == "--":
			literal = true

		case !literal && strings.HasPrefix(arg, "--"):
			name, value, inline := splitInline(arg[2:])
			f, err := s.flagByLong(name)
			if err != nil {
				return err
			}
			if f.Type.Kind == KindBool {
				if err := f.setBool(); err != nil {
					return err
				}
				continue
			}
			if !inline || value == "" {
				if i+1 >= len(args) {
					return noValue(f)
				}
				i++
				value = args[i]
			}
			if err := f.setFromString(value); err != nil {
				return err
			}

		case !literal && len(arg) > 1 && arg[0] == '-':
			rest := arg[1:]
			for rest != "" {
				r, size := utf8.DecodeRuneInString(rest)
				rest = rest[size:]
				f, err := s.flagByShort(r)
				if err != nil {
					return err
				}
				if f.Type.Kind == KindBool {
					if err := f.setBool(); err != nil {
						return err
					}
					continue
				}
				value := rest
				if strings.HasPrefix(value, "=") || strings.HasPrefix(value, ":") {
					value = value[1:]
				}
				if value == "" {
					if i+1 >= len(args) {
						return noValue(f)
					}
					i++
					value = args[i]
				}
				if err := f.setFromString(value); err != nil {
					return err
				}
				break
			}

		default:
			f, err := s.flagByPos(k)
			if err != nil {
				return err
			}
			if !f.Multiple {
				k++
			}
			if err := f.setFromString(arg); err != nil {
				return err
			}
		}
	}

	if help, ok := s.byLong["help"]; ok && help.IsSet {
		if b, _ := help.Value.AsBool(); b {
			if _, err := io.WriteString(s.helpOut, s.Usage()); err != nil {
				return fmt.Errorf("failed to write usage: %w", err)
			}
			return ErrHelp
		}
	}

	for _, f := range s.flags {
		f.check()
	}
	s.argsParsed = true
	return nil
}

// Reset clears every flag so that ParseArgs can match a new command line.
func (s *Spec) Reset() {
	for _, f := range s.flags {
		f.clear()
	}
	s.argsParsed = false
}

// Errors returns the deferred errors held by flags after ParseArgs, joined,
// or nil if every flag holds a usable value.
func (s *Spec) Errors() error {
	var errs []error
	for _, f := range s.flags {
		if err := f.Value.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// splitInline splits "name=value" or "name:value" at the first separator.
func splitInline(s string) (name, value string, ok bool) {
	if idx := strings.IndexAny(s, "=:"); idx >= 0 {
		return s[:idx], s[idx+1:], true
	}
	return s, "", false
}

func noValue(f *Flag) error {
	return &Error{Kind: ValueError, Flag: f.Long, Msg: fmt.Sprintf("no value for flag '%s'", f.Long)}
}

func (s *Spec) flagByLong(name string) (*Flag, error) {
	if f, ok := s.byLong[name]; ok {
		return f, nil
	}
	e := lookupErrorf("no long flag '%s'", name)
	e.Flag = name
	return nil, e
}

func (s *Spec) flagByShort(r rune) (*Flag, error) {
	if f, ok := s.byShort[r]; ok {
		return f, nil
	}
	return nil, lookupErrorf("no short flag '%c'", r)
}

func (s *Spec) flagByPos(pos int) (*Flag, error) {
	if f, ok := s.byPos[pos]; ok {
		return f, nil
	}
	e := lookupErrorf("too many positional arguments: no positional argument %d", pos)
	e.Pos = pos
	return nil, e
}
