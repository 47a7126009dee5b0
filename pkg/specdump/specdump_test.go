// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specdump

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/specflag/pkg/specflag"
	"gopkg.in/yaml.v3"
)

const usage = `
  -v, --verbose
  -k
  -n, --count (1..5)
  -I, --include... (string)
  <file> (string)
`

func parsed(t *testing.T, args ...string) []*specflag.Flag {
	t.Helper()
	s := specflag.New(usage)
	if err := s.ParseArgs(args); err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	return s.Flags()
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatTable, "JSON": FormatJSON, "yaml": FormatYAML, "env": FormatEnv} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) succeeded, want error")
	}
}

func TestRenderTable(t *testing.T) {
	var b bytes.Buffer
	if err := Render(&b, FormatTable, parsed(t, "-v", "-n", "9", "-I", "a", "-I", "b", "x.txt"), Options{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), b.String())
	}
	checks := []struct {
		line int
		want []string
	}{
		{0, []string{"FLAG", "TYPE", "SET", "VALUE"}},
		{1, []string{"-v, --verbose", "bool", "yes", "true"}},
		{2, []string{"-k", "bool", "no", "false"}},
		{3, []string{"-n, --count", "integer (1..5)", "yes", "error: flag 'count' out of range 1..5"}},
		{4, []string{"-I, --include...", "string", "yes", "[a b]"}},
		{5, []string{"<file>", "string", "yes", "x.txt"}},
		{6, []string{"-h, --help", "bool", "no", "false"}},
	}
	for _, c := range checks {
		for _, want := range c.want {
			if !strings.Contains(lines[c.line], want) {
				t.Errorf("line %d = %q, want it to contain %q", c.line, lines[c.line], want)
			}
		}
	}
}

func TestRenderJSON(t *testing.T) {
	var b bytes.Buffer
	if err := Render(&b, FormatJSON, parsed(t, "-k", "-I", "a", "in"), Options{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	var got []map[string]any
	if err := json.Unmarshal(b.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, b.String())
	}
	if len(got) != 6 {
		t.Fatalf("got %d entries, want 6", len(got))
	}
	if diff := cmp.Diff([]any{"a"}, got[3]["value"]); diff != "" {
		t.Errorf("include value mismatch (-want +got):\n%s", diff)
	}
	if got[2]["error"] == nil || !strings.Contains(got[2]["error"].(string), "required") {
		t.Errorf("count error = %v, want required", got[2]["error"])
	}
	if got[4]["position"] != float64(1) {
		t.Errorf("file position = %v, want 1", got[4]["position"])
	}
}

func TestRenderYAML(t *testing.T) {
	var b bytes.Buffer
	if err := Render(&b, FormatYAML, parsed(t, "-n", "3", "in"), Options{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	var got []Entry
	if err := yaml.Unmarshal(b.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, b.String())
	}
	if got[2].Name != "count" || got[2].Value != 3 || got[2].Constraint != "1..5" {
		t.Errorf("count entry = %+v", got[2])
	}
	if diff := cmp.Diff([]string{"3"}, got[2].Raw); diff != "" {
		t.Errorf("count raw mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderEnv(t *testing.T) {
	var b bytes.Buffer
	flags := parsed(t, "-v", "-I", "a", "-I", "b c", "in.txt")
	if err := Render(&b, FormatEnv, flags, Options{EnvPrefix: "APP_"}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "APP_FILE=in.txt\nAPP_HELP=false\nAPP_INCLUDE=\"a,b c\"\nAPP_K=false\nAPP_VERBOSE=true\n"
	if got := b.String(); got != want {
		t.Errorf("Render(env) = %q, want %q", got, want)
	}
}
