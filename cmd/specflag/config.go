// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/yeetrun/specflag/pkg/specflag"
)

const configName = ".specflag.toml"

type config struct {
	Format    string   `toml:"format,omitempty"`
	Color     string   `toml:"color,omitempty"`
	EnvPrefix string   `toml:"env_prefix,omitempty"`
	Types     []string `toml:"types,omitempty"`
}

type configLocation struct {
	Path   string
	Config *config
}

func loadConfigFromCwd() (*configLocation, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return loadConfigFromDir(cwd)
}

// loadConfigFromDir returns the nearest config file at or above startDir,
// or an empty config if there is none.
func loadConfigFromDir(startDir string) (*configLocation, error) {
	path, err := findConfigPath(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &configLocation{Config: &config{}}, nil
		}
		return nil, err
	}
	var cfg config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return &configLocation{Path: path, Config: &cfg}, nil
}

// validate checks that every custom type name could be registered.
func (c *config) validate() error {
	s := specflag.New("")
	for _, name := range c.Types {
		if err := s.RegisterType(name, nil); err != nil {
			return fmt.Errorf("types: %w", err)
		}
	}
	return nil
}

func findConfigPath(startDir string) (string, error) {
	dir := filepath.Clean(startDir)
	for {
		path := filepath.Join(dir, configName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// applyEnv overrides config values from SPECFLAG_* variables.
func (c *config) applyEnv() {
	if v := os.Getenv("SPECFLAG_FORMAT"); v != "" {
		c.Format = v
	}
	if v := os.Getenv("SPECFLAG_COLOR"); v != "" {
		c.Color = v
	}
	if v := os.Getenv("SPECFLAG_ENV_PREFIX"); v != "" {
		c.EnvPrefix = v
	}
}
