// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/tgl/internal/config"
)

// app holds global flag values and the configuration shared by all
// subcommands of one invocation.
type app struct {
	configPath string
	jsonMode   bool

	cfg *config.Config
}

// NewRootCmd creates the top-level "tgl" command with global flags and all
// subcommands registered. Running it without a subcommand plays the game.
func NewRootCmd() *cobra.Command {
	a := &app{}
	var pf playFlags

	root := &cobra.Command{
		Use:   "tgl",
		Short: "A small piece of interactive fiction behind a door",
		Long: "tgl is a text adventure that plays out in the terminal.\n" +
			"Knock, step inside, and read the notes left in the room.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPlay(cmd, pf)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: ~/.tgl/config.toml)")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output reports and errors as JSON")
	pf.register(root)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &ValidationError{Field: "flags", Reason: err.Error(), Example: cmd.UseLine()}
	})

	root.AddCommand(a.newPlayCmd())
	root.AddCommand(a.newSessionCmd())
	root.AddCommand(a.newNotesCmd())
	root.AddCommand(a.newConfigCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	root := NewRootCmd()
	root.SetArgs(args)
	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return ExitSuccess
	}

	jsonMode, _ := root.PersistentFlags().GetBool("json")
	DisplayError(cmd.ErrOrStderr(), err, jsonMode)

	code := GetExitCode(err)
	if code == ExitGeneralError && isUsageError(err) {
		code = ExitUsageError
	}
	return code
}

// config loads the configuration once per invocation. --config selects a
// file explicitly; otherwise the default locations are searched.
func (a *app) loadConfig() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFromPath(a.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, &ConfigError{Path: a.configPath, Err: err}
	}

	config.SetGlobal(cfg)
	a.cfg = cfg
	return cfg, nil
}

// exactArgs is cobra.ExactArgs with a usage error instead of a plain one.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &ValidationError{
				Field:   "arguments",
				Reason:  fmt.Sprintf("accepts %d arg(s), received %d", n, len(args)),
				Example: cmd.UseLine(),
			}
		}
		return nil
	}
}

// isUsageError reports cobra's own unknown-command errors, which are not typed.
func isUsageError(err error) bool {
	return strings.HasPrefix(err.Error(), "unknown command")
}
