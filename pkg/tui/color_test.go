// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"bytes"
	"os"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"always", ModeAlways, false},
		{"never", ModeNever, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewColorizer(t *testing.T) {
	old := isTerminalFn
	t.Cleanup(func() { isTerminalFn = old })
	isTerminalFn = func(int) bool { return true }

	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "xterm-256color")

	if c := NewColorizer(os.Stdout, ModeAuto); !c.Enabled {
		t.Error("auto on a terminal: color disabled")
	}
	if c := NewColorizer(&bytes.Buffer{}, ModeAuto); c.Enabled {
		t.Error("auto on a buffer: color enabled")
	}
	if c := NewColorizer(&bytes.Buffer{}, ModeAlways); !c.Enabled {
		t.Error("always: color disabled")
	}
	if c := NewColorizer(os.Stdout, ModeNever); c.Enabled {
		t.Error("never: color enabled")
	}

	t.Setenv("TERM", "dumb")
	if c := NewColorizer(os.Stdout, ModeAuto); c.Enabled {
		t.Error("TERM=dumb: color enabled")
	}
	t.Setenv("TERM", "xterm")
	t.Setenv("NO_COLOR", "1")
	if c := NewColorizer(os.Stdout, ModeAuto); c.Enabled {
		t.Error("NO_COLOR: color enabled")
	}
}

func TestWrap(t *testing.T) {
	on := Colorizer{Enabled: true}
	if got, want := on.Wrap(ColorRed, "x"), ColorRed+"x"+ColorReset; got != want {
		t.Errorf("Wrap() = %q, want %q", got, want)
	}
	if got := (Colorizer{}).Wrap(ColorRed, "x"); got != "x" {
		t.Errorf("disabled Wrap() = %q, want %q", got, "x")
	}
	if got := on.Wrap("", "x"); got != "x" {
		t.Errorf("Wrap(no code) = %q, want %q", got, "x")
	}
}
