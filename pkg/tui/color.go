// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	ColorReset  = "\x1b[0m"
	ColorRed    = "\x1b[31m"
	ColorGreen  = "\x1b[32m"
	ColorYellow = "\x1b[33m"
	ColorCyan   = "\x1b[36m"
	ColorDim    = "\x1b[90m"
)

// Mode selects when output is colored.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeAlways Mode = "always"
	ModeNever  Mode = "never"
)

// ParseMode parses a color mode; the empty string means ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeAlways, ModeNever:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

type Colorizer struct {
	Enabled bool
}

var isTerminalFn = term.IsTerminal

// NewColorizer returns a Colorizer for w. In ModeAuto color is used only
// when w is a terminal, NO_COLOR is unset and TERM is not dumb.
func NewColorizer(w io.Writer, mode Mode) Colorizer {
	switch mode {
	case ModeAlways:
		return Colorizer{Enabled: true}
	case ModeNever:
		return Colorizer{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return Colorizer{}
	}
	if t := os.Getenv("TERM"); t == "" || t == "dumb" {
		return Colorizer{}
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok || !isTerminalFn(int(f.Fd())) {
		return Colorizer{}
	}
	return Colorizer{Enabled: true}
}

func (c Colorizer) Wrap(code, text string) string {
	if !c.Enabled || code == "" {
		return text
	}
	return code + text + ColorReset
}
