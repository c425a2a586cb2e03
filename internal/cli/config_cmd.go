// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/jeranaias/tgl/internal/config"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration, environment overrides included",
		Args:  cobra.NoArgs,
		RunE:  a.runConfigShow,
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigInit(cmd, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "get KEY",
		Short: "Print one value, e.g. pacing.speed",
		Args:  exactArgs(1),
		RunE:  a.runConfigGet,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one value in the config file",
		Args:  exactArgs(2),
		RunE:  a.runConfigSet,
	})
	return cmd
}

// filePath is the config file commands write to.
func (a *app) filePath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	path, err := config.ConfigPathTOML()
	if err != nil {
		return "", &ConfigError{Err: err}
	}
	return path, nil
}

func (a *app) runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if a.jsonMode {
		fmt.Fprintln(out, cfg.String())
		return nil
	}
	if err := toml.NewEncoder(out).Encode(cfg); err != nil {
		return NewCommandError("config", "show", "could not encode configuration", err)
	}
	return nil
}

func (a *app) runConfigInit(cmd *cobra.Command, force bool) error {
	path, err := a.filePath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return NewValidationErrorWithExample("config", path, "file already exists", "tgl config init --force")
	}
	if a.configPath == "" {
		if err := config.EnsureConfigDir(); err != nil {
			return &ConfigError{Path: path, Err: err}
		}
	}
	if err := save(config.Default(), path); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Wrote "+path))
	return nil
}

func (a *app) runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	val, err := cfg.Get(args[0])
	if err != nil {
		return NewValidationErrorWithExample("key", args[0], err.Error(), "one of: "+strings.Join(config.GetAllKeys(), ", "))
	}
	fmt.Fprintln(cmd.OutOrStdout(), val)
	return nil
}

// runConfigSet edits the file itself, so environment overrides active in
// this shell are not written back.
func (a *app) runConfigSet(cmd *cobra.Command, args []string) error {
	path, err := a.filePath()
	if err != nil {
		return err
	}

	cfg := config.Default()
	if _, statErr := os.Stat(path); statErr == nil {
		if err := load(cfg, path); err != nil {
			return &ConfigError{Path: path, Err: err}
		}
	}

	if err := cfg.Set(args[0], args[1]); err != nil {
		return NewValidationErrorWithExample("key", args[0]+"="+args[1], err.Error(), "tgl config set pacing.speed 2")
	}
	if err := cfg.Validate(); err != nil {
		var verrs config.ValidateErrors
		if errors.As(err, &verrs) {
			return &ValidationError{Field: verrs[0].Field, Value: args[1], Reason: verrs[0].Message}
		}
		return err
	}

	if a.configPath == "" {
		if err := config.EnsureConfigDir(); err != nil {
			return &ConfigError{Path: path, Err: err}
		}
	}
	if err := save(cfg, path); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
	return nil
}

func isJSON(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".json")
}

func load(cfg *config.Config, path string) error {
	if isJSON(path) {
		return config.LoadJSON(cfg, path)
	}
	return config.LoadTOML(cfg, path)
}

func save(cfg *config.Config, path string) error {
	if isJSON(path) {
		return config.SaveJSON(cfg, path)
	}
	return config.SaveTOML(cfg, path)
}
