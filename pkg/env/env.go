// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package env

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Write writes an environment file with the given name and variables.
func Write(name string, vars map[string]string) error {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := Marshal(f, vars); err != nil {
		return fmt.Errorf("failed to marshal env: %v", err)
	}
	return f.Close()
}

// Marshal writes vars as NAME=value lines sorted by name. Values that a
// shell would split or expand are double quoted.
func Marshal(w io.Writer, vars map[string]string) error {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if !validName(name) {
			return fmt.Errorf("invalid variable name %q", name)
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", name, quote(vars[name])); err != nil {
			return err
		}
	}
	return nil
}

// Name builds a variable name from a prefix and a flag name: letters are
// upper-cased and anything else becomes an underscore.
func Name(prefix, flag string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, r := range flag {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func validName(name string) bool {
	if name == "" || unicode.IsDigit(rune(name[0])) {
		return false
	}
	for _, r := range name {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\n\"'#$\\`;&|<>()*?[]~") {
		return v
	}
	return strconv.Quote(v)
}
