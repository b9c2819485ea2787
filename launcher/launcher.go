package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// ErrEmptyCommand is returned for an empty argument vector.
var ErrEmptyCommand = errors.New("empty command")

// Launcher runs argument vectors. The zero value uses the
// current working directory and environment.
type Launcher struct {
	// Dir is the working directory; empty means the
	// current one.
	Dir string

	// Env is appended to the current environment.
	Env []string

	// Stdin, Stdout and Stderr are attached to commands
	// started by Run. Start never attaches them.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Start spawns argv without waiting for it to exit. The
// child is reaped in the background and its stdio is
// /dev/null, so Start suits GUI programs; use Run for
// programs that need a terminal. Cancelling ctx after
// Start returns does not affect the child.
func (l Launcher) Start(ctx context.Context, argv []string) error {
	const errCtx = "starting command"

	if len(argv) == 0 {
		return fmt.Errorf("%s: %w", errCtx, ErrEmptyCommand)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info(
		"starting",
		"cmd", argv[0],
		"args", strings.Join(argv[1:], " "),
	)

	cmd := exec.Command(argv[0], argv[1:]...) //nolint:gosec,noctx // argv comes from the user's own template
	l.configure(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf(
			"%s: %s: %w", errCtx, argv[0], err,
		)
	}

	go func() {
		if err := cmd.Wait(); err != nil {
			slog.Warn(
				"command exited with error",
				"cmd", argv[0],
				"pid", cmd.Process.Pid,
				"error", err,
			)

			return
		}

		slog.Debug(
			"command exited",
			"cmd", argv[0],
			"pid", cmd.Process.Pid,
		)
	}()

	return nil
}

// Run executes argv and waits for it. When Stdout or
// Stderr is set the command's output streams there and
// Run returns ""; otherwise the combined stdout+stderr
// output is captured and returned.
func (l Launcher) Run(
	ctx context.Context,
	argv []string,
) (string, error) {
	const errCtx = "running command"

	if len(argv) == 0 {
		return "", fmt.Errorf("%s: %w", errCtx, ErrEmptyCommand)
	}

	slog.Info(
		"executing",
		"cmd", argv[0],
		"args", strings.Join(argv[1:], " "),
	)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // argv comes from the user's own template
	l.configure(cmd)

	if l.Stdout != nil || l.Stderr != nil {
		cmd.Stdin = l.Stdin
		cmd.Stdout = l.Stdout
		cmd.Stderr = l.Stderr

		if err := cmd.Run(); err != nil {
			return "", fmt.Errorf(
				"%s: %s %s: %w",
				errCtx, argv[0], strings.Join(argv[1:], " "), err,
			)
		}

		return "", nil
	}

	cmd.Stdin = l.Stdin

	by, err := cmd.CombinedOutput()

	slog.Debug("output", "result", string(by))

	if err != nil {
		return string(by), fmt.Errorf(
			"%s: %s %s: %w",
			errCtx, argv[0], strings.Join(argv[1:], " "), err,
		)
	}

	return string(by), nil
}

func (l Launcher) configure(cmd *exec.Cmd) {
	if l.Dir != "" {
		cmd.Dir = l.Dir
	}

	if len(l.Env) > 0 {
		cmd.Env = append(os.Environ(), l.Env...)
	}
}
