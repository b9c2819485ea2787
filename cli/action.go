package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newActionCommand(ro *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action",
		Short: "Manage and run custom actions",
	}

	cmd.AddCommand(
		newActionAddCommand(ro),
		newActionListCommand(ro),
		newActionRemoveCommand(ro),
		newActionRunCommand(ro),
	)

	return cmd
}

func newActionAddCommand(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "add TITLE TEMPLATE",
		Short:   "Add a custom action and print its ID",
		Example: `  extedit action add Format 'gofmt -w ${file}'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			const errCtx = "action add"

			st, err := ro.store()
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			act, err := st.AddAction(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), act.ID)

			return err
		},
	}
}

func newActionListCommand(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List custom actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			const errCtx = "action list"

			st, err := ro.store()
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			acts, err := st.Actions(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			tbl := newTable(cmd.OutOrStdout(), "ID", "TITLE", "COMMAND")
			for _, act := range acts {
				tbl.AddRow(act.ID, act.Title, act.CmdLine)
			}

			tbl.Print()

			return nil
		},
	}
}

func newActionRemoveCommand(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a custom action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const errCtx = "action remove"

			st, err := ro.store()
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			if err := st.RemoveAction(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			return nil
		},
	}
}

func newActionRunCommand(ro *rootOptions) *cobra.Command {
	var (
		lo locationOptions
		rn runOptions
	)

	cmd := &cobra.Command{
		Use:     "run ID|TITLE FILE",
		Short:   "Run a custom action on FILE at a cursor location",
		Example: `  extedit action run Format main.go --line 1`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			const errCtx = "action run"

			loc, err := lo.location(cmd, args[1])
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			ed, err := rn.editor(ro)
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			res, err := ed.RunAction(cmd.Context(), args[0], loc)
			if err != nil {
				return rn.fail(
					cmd, res, fmt.Errorf("%s: %w", errCtx, err),
				)
			}

			return rn.report(cmd, res)
		},
	}

	lo.bind(cmd)
	rn.bind(cmd)

	return cmd
}
