// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jeranaias/tgl/internal/session"
)

func (a *app) newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or reset the saved session",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the saved player name and remaining actions",
		Args:  cobra.NoArgs,
		RunE:  a.runSessionShow,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Forget the saved session so the next visit starts fresh",
		Args:  cobra.NoArgs,
		RunE:  a.runSessionReset,
	})
	return cmd
}

// sessionReport is the JSON shape of "session show".
type sessionReport struct {
	Found     bool           `json:"found"`
	Corrupt   bool           `json:"corrupt,omitempty"`
	Backend   string         `json:"backend"`
	Path      string         `json:"path,omitempty"`
	Key       string         `json:"key"`
	State     *session.State `json:"state,omitempty"`
	Exhausted bool           `json:"exhausted"`
}

func (a *app) runSessionShow(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	mgr, err := newSessionManager(cfg, store)
	if err != nil {
		return NewCommandError("session", "show", "could not create session manager", err)
	}

	report := sessionReport{
		Backend: cfg.Storage.Backend,
		Path:    cfg.Storage.Path,
		Key:     cfg.Game.StateKey,
	}
	st, found, err := mgr.Peek(cmd.Context())
	switch {
	case errors.Is(err, session.ErrCorrupt):
		report.Found = true
		report.Corrupt = true
	case err != nil:
		return NewCommandError("session", "show", "could not read the store", err)
	case found:
		report.Found = true
		report.State = &st
		report.Exhausted = st.ActionCounter <= 0
	}

	out := cmd.OutOrStdout()
	if a.jsonMode {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintln(out, TitleStyle.Render("Session"))
	fmt.Fprintln(out, RenderField("Backend", report.Backend))
	if report.Path != "" {
		fmt.Fprintln(out, RenderField("Path", report.Path))
	}
	fmt.Fprintln(out, RenderField("Key", report.Key))

	switch {
	case report.Corrupt:
		fmt.Fprintln(out, WarningStyle.Render("The saved session is unreadable. The next visit starts fresh."))
	case !report.Found:
		fmt.Fprintln(out, DimStyle.Render("No saved session. Nobody has knocked yet."))
	default:
		fmt.Fprintln(out, RenderField("Player", st.PlayerName))
		fmt.Fprintln(out, RenderField("Actions left", strconv.Itoa(st.ActionCounter)))
		if report.Exhausted {
			fmt.Fprintln(out, DimStyle.Render("The room is out of patience."))
		}
	}
	return nil
}

func (a *app) runSessionReset(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	mgr, err := newSessionManager(cfg, store)
	if err != nil {
		return NewCommandError("session", "reset", "could not create session manager", err)
	}
	if err := mgr.Reset(cmd.Context()); err != nil {
		return NewCommandError("session", "reset", "could not delete the saved session", err)
	}

	if a.jsonMode {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]bool{"success": true})
	}
	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Session reset."))
	return nil
}
