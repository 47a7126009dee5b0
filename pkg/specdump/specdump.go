// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package specdump renders matched flags for inspection.
package specdump

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yeetrun/specflag/pkg/env"
	"github.com/yeetrun/specflag/pkg/specflag"
	"github.com/yeetrun/specflag/pkg/tui"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatEnv   Format = "env"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML, FormatEnv:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want table, json, yaml or env)", s)
}

// Entry is the rendered form of one flag.
type Entry struct {
	Name       string   `json:"name" yaml:"name"`
	Short      string   `json:"short,omitempty" yaml:"short,omitempty"`
	Position   int      `json:"position,omitempty" yaml:"position,omitempty"`
	Type       string   `json:"type" yaml:"type"`
	Multiple   bool     `json:"multiple,omitempty" yaml:"multiple,omitempty"`
	Constraint string   `json:"constraint,omitempty" yaml:"constraint,omitempty"`
	Set        bool     `json:"set" yaml:"set"`
	Value      any      `json:"value" yaml:"value"`
	Raw        []string `json:"raw,omitempty" yaml:"raw,omitempty"`
	Error      string   `json:"error,omitempty" yaml:"error,omitempty"`
	Help       string   `json:"help,omitempty" yaml:"help,omitempty"`
}

// Entries converts flags in order.
func Entries(flags []*specflag.Flag) []Entry {
	out := make([]Entry, 0, len(flags))
	for _, f := range flags {
		e := Entry{
			Name:       f.Long,
			Position:   f.Pos,
			Type:       f.Type.String(),
			Multiple:   f.Multiple,
			Constraint: f.Constraint(),
			Set:        f.IsSet,
			Value:      f.Value.Interface(),
			Raw:        f.Raw,
			Help:       f.Help,
		}
		if f.Short != 0 {
			e.Short = string(f.Short)
		}
		if err := f.Value.Err(); err != nil {
			e.Error = err.Error()
		}
		out = append(out, e)
	}
	return out
}

// Options tune Render.
type Options struct {
	Color     tui.Colorizer
	EnvPrefix string
}

// Render writes flags to w in the given format.
func Render(w io.Writer, format Format, flags []*specflag.Flag, opts Options) error {
	switch format {
	case FormatTable, "":
		return renderTable(w, flags, opts.Color)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(Entries(flags))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Entries(flags)); err != nil {
			return err
		}
		return enc.Close()
	case FormatEnv:
		return env.Marshal(w, EnvVars(flags, opts.EnvPrefix))
	}
	return fmt.Errorf("unknown format %q", format)
}

// EnvVars maps every flag holding a value to an environment variable named
// after the flag. Array elements are joined with commas.
func EnvVars(flags []*specflag.Flag, prefix string) map[string]string {
	vars := make(map[string]string, len(flags))
	for _, f := range flags {
		if f.Value.IsErr() || f.Value.IsNone() {
			continue
		}
		vars[env.Name(prefix, f.Long)] = plain(f.Value)
	}
	return vars
}

func plain(v specflag.Value) string {
	elems, ok := v.Elems()
	if !ok {
		return v.String()
	}
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	return strings.Join(parts, ",")
}

func displayName(f *specflag.Flag) string {
	if f.Positional() {
		return "<" + f.Long + ">"
	}
	name := "--" + f.Long
	if f.Short != 0 && string(f.Short) == f.Long {
		name = "-" + f.Long
	} else if f.Short != 0 {
		name = "-" + string(f.Short) + ", " + name
	}
	if f.Multiple {
		name += "..."
	}
	return name
}

func renderTable(w io.Writer, flags []*specflag.Flag, c tui.Colorizer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "FLAG\tTYPE\tSET\tVALUE")
	for _, f := range flags {
		typ := f.Type.String()
		if con := f.Constraint(); con != "" {
			typ += " (" + con + ")"
		}
		set := "no"
		if f.IsSet {
			set = "yes"
		}
		val := c.Wrap(tui.ColorGreen, f.Value.String())
		if err := f.Value.Err(); err != nil {
			val = c.Wrap(tui.ColorRed, "error: "+err.Error())
		} else if !f.IsSet {
			val = c.Wrap(tui.ColorDim, f.Value.String())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", displayName(f), typ, set, val)
	}
	return tw.Flush()
}
