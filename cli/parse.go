package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/byte4ever/extedit/cmdline"
	"github.com/byte4ever/extedit/varfile"
)

// varOptions collects extra placeholder values from flags.
type varOptions struct {
	vars     []string
	varFiles []string
}

func (vo *varOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(
		&vo.vars, "var", nil,
		"extra placeholder NAME=VALUE, used as ${NAME} (repeatable)",
	)
	cmd.Flags().StringArrayVar(
		&vo.varFiles, "vars-file", nil,
		"file of \"NAME VALUE\" lines (repeatable)",
	)
}

func (vo *varOptions) table() (map[string]string, error) {
	return varfile.Collect(vo.varFiles, vo.vars)
}

func newParseCommand() *cobra.Command {
	var (
		vo           varOptions
		format       string
		placeholders bool
	)

	cmd := &cobra.Command{
		Use:   "parse TEMPLATE",
		Short: "Tokenize a command template and print the arguments",
		Example: `  extedit parse 'vim ${file} "+${line}G"' --var file=/tmp/a.txt --var line=3
  extedit parse 'code -g ${file}' --output json
  extedit parse 'vim ${file} +${line}' --placeholders`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const errCtx = "parse"

			if placeholders {
				keys, err := cmdline.Placeholders(args[0])
				if err != nil {
					return fmt.Errorf("%s: %w", errCtx, err)
				}

				return writeArgv(cmd.OutOrStdout(), keys, format)
			}

			repl, err := vo.table()
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			argv, err := cmdline.Parse(args[0], repl)
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			return writeArgv(cmd.OutOrStdout(), argv, format)
		},
	}

	vo.bind(cmd)

	cmd.Flags().StringVarP(
		&format, "output", "o", formatLines,
		"output format: lines, json, shell or extedit",
	)
	cmd.Flags().BoolVar(
		&placeholders, "placeholders", false,
		"list the placeholders referenced instead",
	)

	return cmd
}
