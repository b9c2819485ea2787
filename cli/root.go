package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/byte4ever/extedit/launcher"
	"github.com/byte4ever/extedit/prefs"
)

// starter spawns parsed commands.
type starter interface {
	Start(ctx context.Context, argv []string) error
}

type rootOptions struct {
	prefsPath string
	verbose   bool
	launcher  starter
}

// store opens the settings store selected by --prefs.
func (ro *rootOptions) store() (*prefs.Store, error) {
	const errCtx = "opening settings"

	pa := ro.prefsPath
	if pa == "" {
		var err error

		pa, err = prefs.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	return prefs.NewStore(pa), nil
}

// NewRootCommand returns the extedit root command. Commands
// run with --wait are attached to the process's stdio.
func NewRootCommand() *cobra.Command {
	return newRootCommand(launcher.Launcher{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
}

func newRootCommand(st starter) *cobra.Command {
	ro := &rootOptions{launcher: st}

	root := &cobra.Command{
		Use:   "extedit",
		Short: "Open files in external programs using command templates",
		Long: `extedit turns command templates such as

  vim ${file} "+${line}G${column0}l"

into argument vectors and runs them. Placeholders: ${file}, ${fileName},
${fileBasename}, ${fileExt}, ${line}, ${line0}, ${column}, ${column0},
${selectedText}, ${selectionStart}, ${selectionEnd}. Unknown placeholders are
passed through unchanged.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if ro.verbose {
				level = slog.LevelDebug
			}

			slog.SetDefault(slog.New(slog.NewTextHandler(
				cmd.ErrOrStderr(),
				&slog.HandlerOptions{Level: level},
			)))
		},
	}

	root.PersistentFlags().StringVar(
		&ro.prefsPath, "prefs", "",
		"settings file (default $"+prefs.EnvPath+
			" or <config dir>/extedit/prefs.yaml)",
	)
	root.PersistentFlags().BoolVarP(
		&ro.verbose, "verbose", "v", false,
		"log debug information to stderr",
	)

	root.AddCommand(
		newParseCommand(),
		newEditCommand(ro),
		newOpenCommand(ro),
		newConfigCommand(ro),
		newActionCommand(ro),
	)

	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCommand()
	root.SetArgs(args)

	return root.ExecuteContext(ctx)
}
