// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command specflag checks usage-text flag specifications and shows how a
// command line is matched against them.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/shayne/yargs"
	"github.com/yeetrun/specflag/pkg/env"
	"github.com/yeetrun/specflag/pkg/specdump"
	"github.com/yeetrun/specflag/pkg/specflag"
	"github.com/yeetrun/specflag/pkg/tui"
	"golang.org/x/sync/errgroup"
)

var loadedConfig = &config{}

func init() {
	loc, err := loadConfigFromCwd()
	if err != nil {
		log.Printf("failed to load %s: %v", configName, err)
	} else {
		loadedConfig = loc.Config
	}
	loadedConfig.applyEnv()
}

type globalFlagsParsed struct {
	Color string `flag:"color" help:"Color output (auto|always|never) (SPECFLAG_COLOR)"`
}

type checkFlagsParsed struct {
	Format    string `flag:"format" help:"Output format (table|json|yaml|env) (SPECFLAG_FORMAT)"`
	EnvFile   string `flag:"env-file" help:"Also write matched values to this env file"`
	EnvPrefix string `flag:"env-prefix" help:"Prefix for env variable names"`
}

func main() {
	globalFlags, args, err := parseGlobalFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if globalFlags.Color != "" {
		loadedConfig.Color = globalFlags.Color
	}
	mode, err := tui.ParseMode(loadedConfig.Color)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	color.NoColor = !tui.NewColorizer(os.Stdout, mode).Enabled

	handlers := map[string]yargs.SubcommandHandler{
		"check": handleCheck,
		"lint":  handleLint,
		"usage": handleUsage,
	}
	if err := yargs.RunSubcommands(context.Background(), args, buildHelpConfig(), globalFlagsParsed{}, handlers); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseGlobalFlags(args []string) (globalFlagsParsed, []string, error) {
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return globalFlagsParsed{}, nil, err
	}
	return result.Flags, result.RemainingArgs, nil
}

func buildHelpConfig() yargs.HelpConfig {
	return yargs.HelpConfig{
		Command: yargs.CommandInfo{
			Name:        "specflag",
			Description: "Check usage-text flag specifications and the command lines they accept.",
			Examples: []string{
				"specflag check app.usage -- -v --count 3 input.txt",
				"specflag check --format=json app.usage -- -I lib -I vendor",
				"specflag lint cmd/*/usage.txt",
				"specflag usage app.usage",
			},
		},
		SubCommands: map[string]yargs.SubCommandInfo{
			"check": {
				Name:        "check",
				Description: "Match arguments against a spec and print every flag",
				Usage:       "SPEC [--format=FORMAT] [--env-file=PATH] [-- ARGS...]",
				Examples:    []string{"specflag check app.usage -- -vk hello"},
			},
			"lint": {
				Name:        "lint",
				Description: "Parse specs and report errors",
				Usage:       "SPEC...",
			},
			"usage": {
				Name:        "usage",
				Description: "Print a spec's usage text without indentation",
				Usage:       "SPEC",
			},
		},
	}
}

// readSpec reads a spec file; "-" reads standard input.
func readSpec(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read spec: %w", err)
	}
	return string(b), nil
}

// newSpec builds a Spec with the config's custom types registered.
func newSpec(text string, cfg *config, opts ...specflag.Option) (*specflag.Spec, error) {
	s := specflag.New(text, opts...)
	for _, name := range cfg.Types {
		if err := s.RegisterType(name, nil); err != nil {
			return nil, fmt.Errorf("config types: %w", err)
		}
	}
	return s, nil
}

func handleCheck(_ context.Context, args []string) error {
	if len(args) > 0 && args[0] == "check" {
		args = args[1:]
	}
	result, err := yargs.ParseFlags[checkFlagsParsed](args)
	if err != nil {
		return err
	}
	if len(result.Args) != 1 {
		return errors.New("check takes exactly one SPEC argument")
	}
	cfg := *loadedConfig
	if result.Flags.Format != "" {
		cfg.Format = result.Flags.Format
	}
	if result.Flags.EnvPrefix != "" {
		cfg.EnvPrefix = result.Flags.EnvPrefix
	}
	mode, _ := tui.ParseMode(cfg.Color)
	return runCheck(os.Stdout, &cfg, checkRequest{
		SpecPath: result.Args[0],
		Args:     result.RemainingArgs,
		EnvFile:  result.Flags.EnvFile,
		Color:    tui.NewColorizer(os.Stdout, mode),
	})
}

type checkRequest struct {
	SpecPath string
	Args     []string
	EnvFile  string
	Color    tui.Colorizer
}

func runCheck(w io.Writer, cfg *config, req checkRequest) error {
	format, err := specdump.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	text, err := readSpec(req.SpecPath)
	if err != nil {
		return err
	}
	s, err := newSpec(text, cfg, specflag.WithHelpOutput(w), specflag.WithProgramName(req.SpecPath))
	if err != nil {
		return err
	}
	if err := s.ParseArgs(req.Args); err != nil {
		if errors.Is(err, specflag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := specdump.Render(w, format, s.Flags(), specdump.Options{Color: req.Color, EnvPrefix: cfg.EnvPrefix}); err != nil {
		return err
	}
	if req.EnvFile != "" {
		if err := env.Write(req.EnvFile, specdump.EnvVars(s.Flags(), cfg.EnvPrefix)); err != nil {
			return err
		}
	}
	if err := s.Errors(); err != nil {
		return fmt.Errorf("invalid arguments:\n%w", err)
	}
	return nil
}

func handleLint(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "lint" {
		args = args[1:]
	}
	if len(args) == 0 {
		return errors.New("lint needs at least one SPEC argument")
	}
	return runLint(ctx, os.Stdout, loadedConfig, args)
}

type lintResult struct {
	flags int
	err   error
}

// runLint parses every spec concurrently and reports them in argument order.
func runLint(ctx context.Context, w io.Writer, cfg *config, paths []string) error {
	results := make([]lintResult, len(paths))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := readSpec(path)
			if err != nil {
				results[i].err = err
				return nil
			}
			s, err := newSpec(text, cfg)
			if err != nil {
				results[i].err = err
				return nil
			}
			if err := s.ParseSpec(); err != nil {
				results[i].err = err
				return nil
			}
			results[i].flags = len(s.Flags())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	ok := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()
	failed := 0
	for i, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(w, "%s %s: %v\n", fail("FAIL"), paths[i], r.err)
			continue
		}
		fmt.Fprintf(w, "%s   %s (%d flags)\n", ok("ok"), paths[i], r.flags)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d specs failed", failed, len(paths))
	}
	return nil
}

func handleUsage(_ context.Context, args []string) error {
	if len(args) > 0 && args[0] == "usage" {
		args = args[1:]
	}
	if len(args) != 1 {
		return errors.New("usage takes exactly one SPEC argument")
	}
	text, err := readSpec(args[0])
	if err != nil {
		return err
	}
	s, err := newSpec(text, loadedConfig)
	if err != nil {
		return err
	}
	if err := s.ParseSpec(); err != nil {
		return err
	}
	_, err = io.WriteString(os.Stdout, s.Usage())
	return err
}
