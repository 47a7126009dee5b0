// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specflag

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testUsage = `
Test program.
  -v,--verbose
  -k
  -o,--output (default 'stdout')
  -p (integer...)
  -I,--include... (string)
  <in> (string)
  <out> (string...)
`

type matched struct {
	Verbose bool
	K       bool
	Output  string
	P       []int
	Include []string
	In      string
	Out     []string
}

func matchTestUsage(t *testing.T, args ...string) matched {
	t.Helper()
	s := New(testUsage)
	if err := s.ParseArgs(args); err != nil {
		t.Fatalf("ParseArgs(%q) error = %v", args, err)
	}
	var m matched
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	var err error
	m.Verbose, err = s.Bool("verbose")
	collect(err)
	m.K, err = s.Bool("k")
	collect(err)
	m.Output, err = s.String("output")
	collect(err)
	m.P, err = s.Ints("p")
	collect(err)
	m.Include, err = s.Strings("include")
	collect(err)
	m.In, err = s.String("in")
	collect(err)
	m.Out, err = s.Strings("out")
	collect(err)
	if len(errs) > 0 {
		t.Fatalf("accessor errors = %v", errs)
	}
	return m
}

func TestParseArgsScenarios(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want matched
	}{
		{
			name: "defaults",
			args: []string{"boo", "hello"},
			want: matched{Output: "stdout", P: []int{}, Include: []string{}, In: "boo", Out: []string{"hello"}},
		},
		{
			name: "combined short booleans",
			args: []string{"-vk", "boo", "hello"},
			want: matched{Verbose: true, K: true, Output: "stdout", P: []int{}, Include: []string{}, In: "boo", Out: []string{"hello"}},
		},
		{
			name: "array flag",
			args: []string{"-p", "10 20 30", "boo", "hello"},
			want: matched{Output: "stdout", P: []int{10, 20, 30}, Include: []string{}, In: "boo", Out: []string{"hello"}},
		},
		{
			name: "literal mode",
			args: []string{"boo", "hello", "baggins", "--", "--frodo"},
			want: matched{Output: "stdout", P: []int{}, Include: []string{}, In: "boo", Out: []string{"hello", "baggins", "--frodo"}},
		},
		{
			name: "multiple flag",
			args: []string{"-I.", "-I..", "--include", "lib", "boo", "hello"},
			want: matched{Output: "stdout", P: []int{}, Include: []string{".", "..", "lib"}, In: "boo", Out: []string{"hello"}},
		},
		{
			name: "inline long values",
			args: []string{"--output=x.txt", "-p", "1,2", "boo", "hello"},
			want: matched{Output: "x.txt", P: []int{1, 2}, Include: []string{}, In: "boo", Out: []string{"hello"}},
		},
		{
			name: "colon value",
			args: []string{"--output:y.txt", "-I:lib", "boo", "hello"},
			want: matched{Output: "y.txt", P: []int{}, Include: []string{"lib"}, In: "boo", Out: []string{"hello"}},
		},
		{
			name: "short value forms",
			args: []string{"-vo=z.txt", "boo", "-", "-k"},
			want: matched{Verbose: true, K: true, Output: "z.txt", P: []int{}, Include: []string{}, In: "boo", Out: []string{"-"}},
		},
		{
			name: "empty inline value takes next argument",
			args: []string{"--output=", "o.txt", "--include:", "lib", "boo", "hello"},
			want: matched{Output: "o.txt", P: []int{}, Include: []string{"lib"}, In: "boo", Out: []string{"hello"}},
		},
		{
			name: "flags after positionals",
			args: []string{"boo", "hello", "-v", "world"},
			want: matched{Verbose: true, Output: "stdout", P: []int{}, Include: []string{}, In: "boo", Out: []string{"hello", "world"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchTestUsage(t, tt.args...)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseArgs(%q) mismatch (-want +got):\n%s", tt.args, diff)
			}
		})
	}
}

func TestCombinedShortEqualsSeparate(t *testing.T) {
	combined := matchTestUsage(t, "-vk", "boo", "hello")
	separate := matchTestUsage(t, "-v", "-k", "boo", "hello")
	if diff := cmp.Diff(separate, combined); diff != "" {
		t.Errorf("-vk differs from -v -k (-separate +combined):\n%s", diff)
	}
}

func TestPositionalAccess(t *testing.T) {
	s := New(`
  -s,--str (string)
  <frodo> (float)
  <bonzo>... (integer)
`)
	if err := s.ParseArgs([]string{"1", "10", "20", "30"}); err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}

	_, err := s.String("str")
	if !errors.Is(err, ErrRequired) || !strings.Contains(err.Error(), "is required") {
		t.Errorf("String(str) error = %v, want required error", err)
	}
	_, err = s.String("frodo")
	if err == nil || !strings.Contains(err.Error(), "not a string, but float") {
		t.Errorf("String(frodo) error = %v, want type mismatch", err)
	}
	if x, err := s.Float("frodo"); err != nil || x != 1.0 {
		t.Errorf("Float(frodo) = %v, %v, want 1, nil", x, err)
	}
	bonzo, err := s.Ints("bonzo")
	if err != nil {
		t.Fatalf("Ints(bonzo) error = %v", err)
	}
	if diff := cmp.Diff([]int{10, 20, 30}, bonzo); diff != "" {
		t.Errorf("Ints(bonzo) mismatch (-want +got):\n%s", diff)
	}
}

func TestParseArgsErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{"unknown long", []string{"--frodo", "boo"}, ErrLookup, "no long flag 'frodo'"},
		{"unknown short", []string{"-vx", "boo"}, ErrLookup, "no short flag 'x'"},
		{"missing long value", []string{"boo", "--output"}, ErrValue, "no value for flag 'output'"},
		{"missing short value", []string{"boo", "-p"}, ErrValue, "no value for flag 'p'"},
		{"repeated flag", []string{"-o", "a", "-o", "b", "boo"}, ErrState, "flag already specified output"},
		{"repeated bool", []string{"-v", "--verbose", "boo"}, ErrState, "flag already specified verbose"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(testUsage).ParseArgs(tt.args)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseArgs(%q) error = %v, want %v", tt.args, err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("ParseArgs(%q) error = %q, want it to contain %q", tt.args, err, tt.wantMsg)
			}
		})
	}
}

func TestTooManyPositionals(t *testing.T) {
	err := New("  <a>\n  <b> (integer)\n").ParseArgs([]string{"x", "1", "y"})
	var e *Error
	if !errors.As(err, &e) || e.Kind != LookupError {
		t.Fatalf("ParseArgs() error = %v, want lookup error", err)
	}
	if e.Pos != 3 {
		t.Errorf("Pos = %d, want 3", e.Pos)
	}
	if !strings.Contains(e.Error(), "too many positional arguments") {
		t.Errorf("error = %q, want too many positional arguments", e)
	}
}

func TestDeferredValueErrors(t *testing.T) {
	s := New(`
  -n (integer)
  -r (1..10)
  -c (integer default 3)
  <file> (string)
`)
	if err := s.ParseArgs([]string{"-n", "lots", "-r", "50"}); err != nil {
		t.Fatalf("ParseArgs() error = %v, want deferred errors", err)
	}
	if _, err := s.Int("n"); !errors.Is(err, ErrValue) || !strings.Contains(err.Error(), `flag 'n': can't convert "lots" to integer`) {
		t.Errorf("Int(n) error = %v", err)
	}
	if _, err := s.Int("r"); !errors.Is(err, ErrValue) || !strings.Contains(err.Error(), "flag 'r' out of range 1..10") {
		t.Errorf("Int(r) error = %v", err)
	}
	if c, err := s.Int("c"); err != nil || c != 3 {
		t.Errorf("Int(c) = %d, %v, want 3, nil", c, err)
	}
	if _, err := s.String("file"); !errors.Is(err, ErrRequired) || !strings.Contains(err.Error(), "argument 'file' is required") {
		t.Errorf("String(file) error = %v", err)
	}

	errs := s.Errors()
	for _, want := range []string{"lots", "out of range", "file"} {
		if errs == nil || !strings.Contains(errs.Error(), want) {
			t.Errorf("Errors() = %v, want it to mention %q", errs, want)
		}
	}
}

func TestMultipleKeepsFirstError(t *testing.T) {
	s := New("  -n... (integer)\n")
	if err := s.ParseArgs([]string{"-n", "1", "-n", "x", "-n", "y"}); err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	_, err := s.Ints("n")
	if err == nil || !strings.Contains(err.Error(), `"x"`) {
		t.Errorf("Ints(n) error = %v, want conversion error for x", err)
	}
}

func TestHelp(t *testing.T) {
	var buf bytes.Buffer
	s := New(testUsage, WithHelpOutput(&buf))
	if err := s.ParseArgs([]string{"--help"}); !errors.Is(err, ErrHelp) {
		t.Fatalf("ParseArgs(--help) error = %v, want ErrHelp", err)
	}
	if got, want := buf.String(), s.Usage(); got != want {
		t.Errorf("help output = %q, want %q", got, want)
	}
	if !strings.HasPrefix(buf.String(), "Test program.\n") {
		t.Errorf("help output not dedented: %q", buf.String())
	}

	buf.Reset()
	if err := s.ParseArgs([]string{"-h"}); !errors.Is(err, ErrHelp) {
		t.Fatalf("ParseArgs(-h) error = %v, want ErrHelp", err)
	}
}

func TestRawCaptures(t *testing.T) {
	s := New(testUsage)
	if err := s.ParseArgs([]string{"-I", "a", "-I", "b", "-p", "1 2", "boo", "x", "y"}); err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	tests := []struct {
		name string
		want []string
	}{
		{"include", []string{"a", "b"}},
		{"p", []string{"1 2"}},
		{"out", []string{"x", "y"}},
		{"output", []string{"stdout"}},
		{"verbose", []string{"false"}},
	}
	for _, tt := range tests {
		f, _ := s.Lookup(tt.name)
		if diff := cmp.Diff(tt.want, f.Raw); diff != "" {
			t.Errorf("%s Raw mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestRawSkipsRejectedTokens(t *testing.T) {
	s := New(`  -n... (1..5)
  -p (integer)
`)
	if err := s.ParseArgs([]string{"-n", "2", "-n", "9", "-n", "x", "-p", "zz"}); err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	n, _ := s.Lookup("n")
	if diff := cmp.Diff([]string{"2"}, n.Raw); diff != "" {
		t.Errorf("n Raw mismatch (-want +got):\n%s", diff)
	}
	p, _ := s.Lookup("p")
	if len(p.Raw) != 0 {
		t.Errorf("p Raw = %q, want empty", p.Raw)
	}
	if _, err := s.Int("p"); !errors.Is(err, ErrValue) {
		t.Errorf("Int(p) error = %v, want ErrValue", err)
	}
}

func TestReparse(t *testing.T) {
	s := New(testUsage)
	if err := s.ParseArgs([]string{"-v", "-I", "a", "boo", "one"}); err != nil {
		t.Fatalf("first ParseArgs() error = %v", err)
	}
	if err := s.ParseArgs([]string{"boo", "two"}); err != nil {
		t.Fatalf("second ParseArgs() error = %v", err)
	}
	if v, _ := s.Bool("verbose"); v {
		t.Error("verbose still set after re-parse")
	}
	inc, _ := s.Strings("include")
	out, _ := s.Strings("out")
	if len(inc) != 0 || !cmp.Equal(out, []string{"two"}) {
		t.Errorf("include = %q, out = %q after re-parse", inc, out)
	}
}

func TestAccessBeforeParse(t *testing.T) {
	s := New(testUsage)
	if _, err := s.Bool("verbose"); !errors.Is(err, ErrState) {
		t.Errorf("Bool() before ParseArgs error = %v, want ErrState", err)
	}
}
