package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/byte4ever/extedit/editor"
	"github.com/byte4ever/extedit/placeholders"
)

// locationOptions describes the cursor through flags.
// Lines and columns are one based on the command line.
type locationOptions struct {
	line         int
	column       int
	offset       int
	selStart     int
	selEnd       int
	selectedText string
}

func (lo *locationOptions) bind(cmd *cobra.Command) {
	cmd.Flags().IntVarP(
		&lo.line, "line", "l", 1,
		"cursor line, one based",
	)
	cmd.Flags().IntVarP(
		&lo.column, "column", "c", 1,
		"cursor column, one based",
	)
	cmd.Flags().IntVar(
		&lo.offset, "offset", 0,
		"cursor offset in characters, instead of --line/--column",
	)
	cmd.Flags().IntVar(
		&lo.selStart, "selection-start", 0,
		"selection start offset",
	)
	cmd.Flags().IntVar(
		&lo.selEnd, "selection-end", 0,
		"selection end offset",
	)
	cmd.Flags().StringVar(
		&lo.selectedText, "selected-text", "",
		"currently selected text",
	)

	cmd.MarkFlagsMutuallyExclusive("offset", "line")
	cmd.MarkFlagsMutuallyExclusive("offset", "column")
}

// location builds the Location for file. The caret is
// known when any cursor flag was given.
func (lo *locationOptions) location(
	cmd *cobra.Command,
	file string,
) (placeholders.Location, error) {
	const errCtx = "reading cursor location"

	loc := placeholders.Location{
		File:           file,
		SelectedText:   lo.selectedText,
		SelectionStart: lo.selStart,
		SelectionEnd:   lo.selEnd,
	}

	fl := cmd.Flags()

	switch {
	case fl.Changed("offset"):
		content, err := os.ReadFile(file) //nolint:gosec // path from CLI argument
		if err != nil {
			return loc, fmt.Errorf("%s: %w", errCtx, err)
		}

		loc.Caret = true
		loc.Line0, loc.Column0 = placeholders.Position(
			content, lo.offset,
		)

	case fl.Changed("line") || fl.Changed("column"):
		if lo.line < 1 || lo.column < 1 {
			return loc, fmt.Errorf(
				"%s: line and column start at 1", errCtx,
			)
		}

		loc.Caret = true
		loc.Line0 = lo.line - 1
		loc.Column0 = lo.column - 1
	}

	if fl.Changed("offset") &&
		!fl.Changed("selection-start") &&
		!fl.Changed("selection-end") {
		// Without a selection both bounds sit at the caret.
		loc.SelectionStart = lo.offset
		loc.SelectionEnd = lo.offset
	}

	return loc, nil
}

// runOptions are shared by commands that launch.
type runOptions struct {
	vars   varOptions
	dryRun bool
	wait   bool
	format string
}

func (rn *runOptions) bind(cmd *cobra.Command) {
	rn.vars.bind(cmd)

	cmd.Flags().BoolVarP(
		&rn.dryRun, "dry-run", "n", false,
		"print the command instead of running it",
	)
	cmd.Flags().BoolVarP(
		&rn.wait, "wait", "w", false,
		"wait for the command, attached to the terminal (for terminal editors)",
	)
	cmd.Flags().StringVarP(
		&rn.format, "output", "o", formatShell,
		"dry-run output format: lines, json, shell or extedit",
	)
}

func (rn *runOptions) editor(ro *rootOptions) (*editor.Editor, error) {
	st, err := ro.store()
	if err != nil {
		return nil, err
	}

	vars, err := rn.vars.table()
	if err != nil {
		return nil, err
	}

	return &editor.Editor{
		Settings: st,
		Launcher: ro.launcher,
		Vars:     vars,
		DryRun:   rn.dryRun,
		Wait:     rn.wait,
	}, nil
}

// report prints the dry-run command or the status line.
func (rn *runOptions) report(
	cmd *cobra.Command,
	res editor.Result,
) error {
	if rn.dryRun {
		return writeArgv(cmd.OutOrStdout(), res.Argv, rn.format)
	}

	if _, err := fmt.Fprint(cmd.OutOrStdout(), res.Output); err != nil {
		return err
	}

	_, err := fmt.Fprintln(cmd.ErrOrStderr(), res.Status)

	return err
}

// fail prints the rendered error message, if the failure
// produced one, and returns err.
func (rn *runOptions) fail(
	cmd *cobra.Command,
	res editor.Result,
	err error,
) error {
	if res.Status != "" {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), res.Status) //nolint:errcheck // already failing
	}

	return err
}

// hintNotConfigured decorates ErrNotConfigured with the
// command that fixes it.
func hintNotConfigured(err error, kind string) error {
	if errors.Is(err, editor.ErrNotConfigured) {
		return fmt.Errorf(
			"%w\nconfigure it with: extedit config set %s TEMPLATE",
			err, kind,
		)
	}

	return err
}

func newEditCommand(ro *rootOptions) *cobra.Command {
	var (
		lo locationOptions
		rn runOptions
	)

	cmd := &cobra.Command{
		Use:   "edit FILE",
		Short: "Edit FILE with the configured edit command",
		Long: `Edit FILE at a cursor location with the "edit" command template.
Without --line, --column or --offset the location is unknown and the "open"
command template is used instead.`,
		Example: `  extedit edit main.go --line 42 --column 7
  extedit edit main.go --offset 1200 --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const errCtx = "edit"

			loc, err := lo.location(cmd, args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			ed, err := rn.editor(ro)
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			res, err := ed.Edit(cmd.Context(), loc)
			if err != nil {
				kind := "open"
				if loc.Caret {
					kind = "edit"
				}

				return rn.fail(cmd, res, fmt.Errorf(
					"%s: %w", errCtx, hintNotConfigured(err, kind),
				))
			}

			return rn.report(cmd, res)
		},
	}

	lo.bind(cmd)
	rn.bind(cmd)

	return cmd
}

func newOpenCommand(ro *rootOptions) *cobra.Command {
	var rn runOptions

	cmd := &cobra.Command{
		Use:     "open FILE",
		Short:   "Open FILE with the configured open command",
		Example: `  extedit open README.md`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const errCtx = "open"

			ed, err := rn.editor(ro)
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			res, err := ed.Edit(
				cmd.Context(),
				placeholders.Location{File: args[0]},
			)
			if err != nil {
				return rn.fail(cmd, res, fmt.Errorf(
					"%s: %w", errCtx, hintNotConfigured(err, "open"),
				))
			}

			return rn.report(cmd, res)
		},
	}

	rn.bind(cmd)

	return cmd
}
