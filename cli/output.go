package cli

import (
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rodaine/table"
	"mvdan.cc/sh/v3/syntax"

	"github.com/byte4ever/extedit/cmdline"
)

// Output formats for argument vectors.
const (
	formatLines   = "lines"
	formatJSON    = "json"
	formatShell   = "shell"
	formatExtedit = "extedit"
)

// writeArgv prints argv in the requested format.
func writeArgv(
	w io.Writer,
	argv []string,
	format string,
) error {
	const errCtx = "writing command"

	switch format {
	case formatLines, "":
		for _, arg := range argv {
			if _, err := fmt.Fprintln(w, arg); err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}
		}

	case formatJSON:
		by, err := json.Marshal(argv)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		if _, err := fmt.Fprintln(w, string(by)); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

	case formatShell:
		line, err := shellLine(argv)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

	case formatExtedit:
		if _, err := fmt.Fprintln(w, cmdline.Join(argv)); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

	default:
		return fmt.Errorf(
			"%s: unknown output format %q (want %s, %s, %s or %s)",
			errCtx, format,
			formatLines, formatJSON, formatShell, formatExtedit,
		)
	}

	return nil
}

// shellLine renders argv as a bash command line.
func shellLine(argv []string) (string, error) {
	quoted := make([]string, 0, len(argv))

	for _, arg := range argv {
		qu, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("quoting %q: %w", arg, err)
		}

		quoted = append(quoted, qu)
	}

	return strings.Join(quoted, " "), nil
}

// newTable returns a padded table writing to w.
func newTable(w io.Writer, headers ...interface{}) table.Table {
	return table.New(headers...).
		WithWriter(w).
		WithPadding(2)
}
