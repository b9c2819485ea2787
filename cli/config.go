package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/byte4ever/extedit/cmdline"
	"github.com/byte4ever/extedit/prefs"
)

func newConfigCommand(ro *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change the configured command templates",
	}

	cmd.AddCommand(
		newConfigGetCommand(ro),
		newConfigSetCommand(ro),
		newConfigMessageCommand(ro),
		newConfigShowCommand(ro),
	)

	return cmd
}

func newConfigGetCommand(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get edit|open",
		Short: "Print the command template of a command type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const errCtx = "config get"

			ct, err := prefs.ParseCmdType(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			st, err := ro.store()
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			tpl, err := st.LoadCmd(cmd.Context(), ct)
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), tpl)

			return err
		},
	}
}

func newConfigSetCommand(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set edit|open TEMPLATE",
		Short: "Validate and store the command template of a command type",
		Example: `  extedit config set edit 'vim ${file} "+call cursor(${line}, ${column})"'
  extedit config set open 'gvim ${file}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			const errCtx = "config set"

			ct, err := prefs.ParseCmdType(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			st, err := ro.store()
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			if err := st.SaveCmd(
				cmd.Context(), ct, args[1],
			); err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			keys, err := cmdline.Placeholders(args[1])
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			_, err = fmt.Fprintf(
				cmd.ErrOrStderr(),
				"stored %s in %s (placeholders: %s)\n",
				ct, st.Path(), strings.Join(keys, " "),
			)

			return err
		},
	}
}

func newConfigMessageCommand(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "message status|error TEMPLATE",
		Short: "Set the status or error message template",
		Long: `Set the message printed after launching. Tags: {file}, {program} and,
for the error message, {error}. An empty TEMPLATE restores the default.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			const errCtx = "config message"

			var key string

			switch args[0] {
			case "status":
				key = prefs.StatusMsgKey
			case "error":
				key = prefs.ErrorMsgKey
			default:
				return fmt.Errorf(
					"%s: unknown message %q (want status or error)",
					errCtx, args[0],
				)
			}

			st, err := ro.store()
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			if err := st.Save(cmd.Context(), key, args[1]); err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			return nil
		},
	}
}

func newConfigShowCommand(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List every stored setting and command type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			const errCtx = "config show"

			st, err := ro.store()
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			settings, err := st.Settings(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			// Command types are listed even when unset.
			for _, ct := range prefs.CmdTypes {
				if _, ok := settings[ct.Key()]; !ok {
					settings[ct.Key()] = ""
				}
			}

			keys := make([]string, 0, len(settings))
			for key := range settings {
				keys = append(keys, key)
			}

			sort.Strings(keys)

			tbl := newTable(cmd.OutOrStdout(), "KEY", "VALUE")
			for _, key := range keys {
				tbl.AddRow(
					strings.TrimPrefix(key, prefs.Prefix),
					settings[key],
				)
			}

			tbl.Print()

			return nil
		},
	}
}
