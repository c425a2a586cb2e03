// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/jeranaias/tgl/internal/notes"
	"github.com/jeranaias/tgl/internal/util"
)

func (a *app) newNotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Browse the note collection outside the game",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every note with its author",
		Args:  cobra.NoArgs,
		RunE:  a.runNotesList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Render one note as markdown",
		Args:  exactArgs(1),
		RunE:  a.runNotesShow,
	})
	return cmd
}

func (a *app) runNotesList(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	coll, err := loadNotes(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if a.jsonMode {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(coll.All())
	}

	writeNoteTable(out, coll.All(), GetTerminalWidth())
	fmt.Fprintln(out)
	fmt.Fprintln(out, DimStyle.Render(fmt.Sprintf("%d notes by %d authors", coll.Len(), len(coll.Authors()))))
	return nil
}

// writeNoteTable prints ID, author and first line in aligned columns.
// Column widths are measured in terminal cells, so wide runes line up.
func writeNoteTable(w io.Writer, all []notes.Note, width int) {
	idWidth, authorWidth := len("ID"), len("AUTHOR")
	for _, n := range all {
		idWidth = max(idWidth, runewidth.StringWidth(n.ID))
		authorWidth = max(authorWidth, runewidth.StringWidth(n.Meta.Author))
	}

	textWidth := width - idWidth - authorWidth - 4
	if textWidth < 10 {
		textWidth = 10
	}

	row := func(id, author, text string) string {
		return runewidth.FillRight(id, idWidth) + "  " +
			runewidth.FillRight(author, authorWidth) + "  " +
			runewidth.Truncate(text, textWidth, "...")
	}

	fmt.Fprintln(w, TitleStyle.UnsetMarginBottom().Render(row("ID", "AUTHOR", "FIRST LINE")))
	for _, n := range all {
		fmt.Fprintln(w, row(n.ID, n.Meta.Author, firstLine(n.Text)))
	}
}

func firstLine(text string) string {
	for _, l := range util.SplitLines(text) {
		if s := strings.TrimSpace(l); s != "" {
			return s
		}
	}
	return ""
}

func (a *app) runNotesShow(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	coll, err := loadNotes(cfg)
	if err != nil {
		return err
	}

	n, ok := coll.ByID(args[0])
	if !ok {
		return NewNotFoundError("note", args[0])
	}

	out := cmd.OutOrStdout()
	if a.jsonMode {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(n)
	}

	rendered, err := renderMarkdown(noteMarkdown(n), GetTerminalWidth(), ColorsEnabled() && !cfg.UI.NoColor)
	if err != nil {
		return NewCommandError("notes", "show", "could not render note", err)
	}
	fmt.Fprint(out, rendered)
	return nil
}

// noteMarkdown lays a note out as a markdown document: the ID as heading,
// the text as a block quote, then author and hints.
func noteMarkdown(n notes.Note) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", n.ID)
	for _, l := range util.SplitLines(n.Text) {
		fmt.Fprintf(&b, "> %s\n", l)
	}
	if n.Meta.Author != "" {
		fmt.Fprintf(&b, "\n*by %s*\n", n.Meta.Author)
	}
	if n.HasHints() {
		b.WriteString("\n## Hints\n\n")
		for _, h := range n.Meta.Hints {
			fmt.Fprintf(&b, "- %s\n", h)
		}
	}
	return b.String()
}

// renderMarkdown renders md for the terminal. Without color it uses the
// notty style so no escape sequences are written.
func renderMarkdown(md string, width int, color bool) (string, error) {
	style := glamour.WithStandardStyle("notty")
	if color {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
