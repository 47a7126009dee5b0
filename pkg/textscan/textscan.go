// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package textscan provides a small rune cursor over a single line of text.
package textscan

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// EOF is returned by Peek and Next once the input is exhausted.
const EOF rune = -1

// Scanner is a cursor over a string. The zero value scans the empty string.
type Scanner struct {
	src string
	off int
}

// New returns a Scanner positioned at the start of s.
func New(s string) *Scanner {
	return &Scanner{src: s}
}

// Peek returns the next rune without consuming it.
func (s *Scanner) Peek() rune {
	if s.off >= len(s.src) {
		return EOF
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.off:])
	return r
}

// Next consumes and returns the next rune.
func (s *Scanner) Next() rune {
	if s.off >= len(s.src) {
		return EOF
	}
	r, n := utf8.DecodeRuneInString(s.src[s.off:])
	s.off += n
	return r
}

// Accept consumes prefix if the remaining input starts with it.
func (s *Scanner) Accept(prefix string) bool {
	if strings.HasPrefix(s.src[s.off:], prefix) {
		s.off += len(prefix)
		return true
	}
	return false
}

// HasPrefix reports whether the remaining input starts with prefix.
func (s *Scanner) HasPrefix(prefix string) bool {
	return strings.HasPrefix(s.src[s.off:], prefix)
}

// TakeWhile consumes runes while keep returns true and returns them.
func (s *Scanner) TakeWhile(keep func(rune) bool) string {
	start := s.off
	for s.off < len(s.src) {
		r, n := utf8.DecodeRuneInString(s.src[s.off:])
		if !keep(r) {
			break
		}
		s.off += n
	}
	return s.src[start:s.off]
}

// TakeUntil consumes up to, but not including, the first rune in stops.
// The boolean result is false when no stop rune was found, in which case
// the rest of the input has been consumed.
func (s *Scanner) TakeUntil(stops ...rune) (string, bool) {
	rest := s.src[s.off:]
	idx := strings.IndexFunc(rest, func(r rune) bool {
		for _, stop := range stops {
			if r == stop {
				return true
			}
		}
		return false
	})
	if idx < 0 {
		s.off = len(s.src)
		return rest, false
	}
	s.off += idx
	return rest[:idx], true
}

// SkipSpace consumes whitespace and reports whether any input remains.
func (s *Scanner) SkipSpace() bool {
	s.TakeWhile(unicode.IsSpace)
	return s.off < len(s.src)
}

// Rest consumes and returns the remaining input.
func (s *Scanner) Rest() string {
	rest := s.src[s.off:]
	s.off = len(s.src)
	return rest
}

// Remaining returns the unconsumed input without advancing.
func (s *Scanner) Remaining() string {
	return s.src[s.off:]
}

// Offset returns the byte offset of the cursor.
func (s *Scanner) Offset() int {
	return s.off
}

// Done reports whether the input is exhausted.
func (s *Scanner) Done() bool {
	return s.off >= len(s.src)
}

// TrimmedRest consumes the remaining input and returns it with surrounding
// whitespace removed.
func (s *Scanner) TrimmedRest() string {
	return strings.TrimSpace(s.Rest())
}
