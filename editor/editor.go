package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/byte4ever/extedit/cmdline"
	"github.com/byte4ever/extedit/messages"
	"github.com/byte4ever/extedit/placeholders"
	"github.com/byte4ever/extedit/prefs"
)

var (
	// ErrNotConfigured is returned when the selected
	// command template is blank.
	ErrNotConfigured = errors.New("no command configured")

	// ErrNoLocation is returned when a flow needs the
	// cursor location and none is known.
	ErrNoLocation = errors.New("cursor location unknown")
)

// Settings is the subset of the settings store the editor
// reads.
type Settings interface {
	Load(ctx context.Context, key string) (string, error)
	LoadCmd(ctx context.Context, ct prefs.CmdType) (string, error)
	FindAction(ctx context.Context, ref string) (prefs.Action, error)
}

// Starter spawns an argument vector.
type Starter interface {
	Start(ctx context.Context, argv []string) error
}

// Runner is implemented by starters that can also wait for
// the command and capture its output.
type Runner interface {
	Run(ctx context.Context, argv []string) (string, error)
}

// Editor ties settings, placeholder building, parsing and
// launching together.
type Editor struct {
	// Settings provides command templates and actions.
	Settings Settings

	// Launcher starts the parsed command.
	Launcher Starter

	// Vars holds extra replacements. Built-in keys win
	// over them.
	Vars map[string]string

	// DryRun parses but never launches.
	DryRun bool

	// Wait runs the command to completion and captures its
	// output when Launcher is a Runner.
	Wait bool
}

// Result describes one prepared or launched command.
type Result struct {
	// Name is the command type or action title used.
	Name string

	// Template is the trimmed command template.
	Template string

	// Argv is the tokenized command.
	Argv []string

	// Status is the rendered status or error message.
	Status string

	// Launched reports whether the process was started.
	Launched bool

	// Output is the combined output of a waited command.
	Output string
}

// Edit opens loc.File with the edit command when the cursor
// location is known, and with the open command otherwise.
func (ed *Editor) Edit(
	ctx context.Context,
	loc placeholders.Location,
) (Result, error) {
	const errCtx = "editing externally"

	ct := prefs.OpenExternally
	if loc.Caret {
		ct = prefs.EditExternally
	}

	slog.Info(
		"selected command",
		"type", ct.String(),
		"file", loc.File,
	)

	res, err := ed.Preview(ctx, ct, loc)
	if err != nil {
		return res, fmt.Errorf("%s: %w", errCtx, err)
	}

	res, err = ed.launch(ctx, loc.File, res)
	if err != nil {
		return res, fmt.Errorf("%s: %w", errCtx, err)
	}

	return res, nil
}

// Preview prepares the command configured for ct without
// launching it. Location keys are only substituted for the
// edit command.
func (ed *Editor) Preview(
	ctx context.Context,
	ct prefs.CmdType,
	loc placeholders.Location,
) (Result, error) {
	const errCtx = "preparing command"

	tpl, err := ed.Settings.LoadCmd(ctx, ct)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	if ct != prefs.EditExternally {
		loc.Caret = false
	}

	res, err := ed.prepare(ct.String(), tpl, loc)
	if err != nil {
		return res, fmt.Errorf("%s: %w", errCtx, err)
	}

	return res, nil
}

// RunAction runs the custom action matching ref (ID or
// title) for loc. Actions always need the cursor location.
func (ed *Editor) RunAction(
	ctx context.Context,
	ref string,
	loc placeholders.Location,
) (Result, error) {
	const errCtx = "running action"

	if !loc.Caret {
		return Result{}, fmt.Errorf(
			"%s %q: %w", errCtx, ref, ErrNoLocation,
		)
	}

	act, err := ed.Settings.FindAction(ctx, ref)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	res, err := ed.prepare(act.Title, act.CmdLine, loc)
	if err != nil {
		return res, fmt.Errorf("%s: %w", errCtx, err)
	}

	res, err = ed.launch(ctx, loc.File, res)
	if err != nil {
		return res, fmt.Errorf("%s: %w", errCtx, err)
	}

	return res, nil
}

// prepare trims and tokenizes tpl against the replacement
// table derived from loc.
func (ed *Editor) prepare(
	name string,
	tpl string,
	loc placeholders.Location,
) (Result, error) {
	res := Result{
		Name:     name,
		Template: strings.TrimSpace(tpl),
	}

	if res.Template == "" {
		return res, fmt.Errorf("%s: %w", name, ErrNotConfigured)
	}

	builtin, err := placeholders.ForLocation(loc)
	if err != nil {
		return res, err
	}

	argv, err := cmdline.Parse(
		res.Template,
		placeholders.Merge(ed.Vars, builtin),
	)
	if err != nil {
		return res, err
	}

	res.Argv = argv

	slog.Info("calling command", "argv", argv)

	return res, nil
}

func (ed *Editor) launch(
	ctx context.Context,
	file string,
	res Result,
) (Result, error) {
	render := ed.renderer(ctx)

	program := ""
	if len(res.Argv) > 0 {
		program = filepath.Base(res.Argv[0])
	}

	if ed.DryRun {
		slog.Info("dry run: not launching", "argv", res.Argv)

		res.Status = render.RenderStatus(file, program)

		return res, nil
	}

	if err := ed.start(ctx, &res); err != nil {
		res.Status = render.RenderError(file, program, err)

		return res, fmt.Errorf("launching %s: %w", program, err)
	}

	res.Launched = true
	res.Status = render.RenderStatus(file, program)

	return res, nil
}

func (ed *Editor) start(ctx context.Context, res *Result) error {
	if runner, ok := ed.Launcher.(Runner); ok && ed.Wait {
		out, err := runner.Run(ctx, res.Argv)
		res.Output = out

		return err
	}

	return ed.Launcher.Start(ctx, res.Argv)
}

// renderer loads message overrides. Failures fall back to
// the defaults since the messages are cosmetic.
func (ed *Editor) renderer(ctx context.Context) messages.Renderer {
	var re messages.Renderer

	for key, dst := range map[string]*string{
		prefs.StatusMsgKey: &re.Status,
		prefs.ErrorMsgKey:  &re.Error,
	} {
		val, err := ed.Settings.Load(ctx, key)
		if err != nil {
			slog.Warn(
				"loading message template",
				"key", key,
				"error", err,
			)

			continue
		}

		*dst = val
	}

	return re
}
