package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/extedit/cli"
	"github.com/byte4ever/extedit/cmdline"
	"github.com/byte4ever/extedit/editor"
)

// The root command replaces the process wide slog default,
// so these tests do not run in parallel.

type recorder struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (rc *recorder) Start(_ context.Context, argv []string) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.calls = append(rc.calls, argv)

	return rc.err
}

type harness struct {
	prefs   string
	starter *recorder
}

func newHarness(tb testing.TB) *harness {
	tb.Helper()

	return &harness{
		prefs:   filepath.Join(tb.TempDir(), "prefs.yaml"),
		starter: &recorder{},
	}
}

// run executes args and returns stdout and stderr.
func (h *harness) run(
	tb testing.TB,
	args ...string,
) (string, string, error) {
	tb.Helper()

	var stdout, stderr bytes.Buffer

	root := cli.NewRootCommandForTest(h.starter)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--prefs", h.prefs}, args...))

	err := root.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func (h *harness) mustRun(tb testing.TB, args ...string) string {
	tb.Helper()

	out, _, err := h.run(tb, args...)
	require.NoError(tb, err)

	return out
}

func writeFile(tb testing.TB, name, content string) string {
	tb.Helper()

	pa := filepath.Join(tb.TempDir(), name)
	require.NoError(tb, os.WriteFile(pa, []byte(content), 0o600))

	return pa
}

func TestParse_lines(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t,
		"parse", `vim ${file} "+${line}G" ${other}`,
		"--var", "file=/tmp/a b.txt",
		"--var", "line=3",
	)

	assert.Equal(t, "vim\n/tmp/a b.txt\n+3G\n${other}\n", out)
}

func TestParse_json(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t,
		"parse", `code -g "a b"`, "--output", "json",
	)

	assert.Equal(t, "[\"code\",\"-g\",\"a b\"]\n", out)
}

func TestParse_shell(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "parse", `vim "a b"`, "-o", "shell")

	assert.Equal(t, "vim 'a b'\n", out)
}

func TestParse_extedit_output_parses_back(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t,
		"parse", `vim ${file} c\$d`,
		"--var", "file=/tmp/it's here.txt",
		"-o", "extedit",
	)

	assert.Equal(t, `vim "/tmp/it\'s here.txt" c\$d`+"\n", out)

	back := h.mustRun(t, "parse", strings.TrimSpace(out))
	assert.Equal(t, "vim\n/tmp/it's here.txt\nc$d\n", back)
}

func TestParse_vars_file(t *testing.T) {
	h := newHarness(t)
	vars := writeFile(t, "vars.txt", "PROJECT /src/proj\n")

	out := h.mustRun(t,
		"parse", "make -C ${PROJECT}",
		"--vars-file", vars,
	)

	assert.Equal(t, "make\n-C\n/src/proj\n", out)
}

func TestParse_placeholders(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t,
		"parse", "vim ${file} +${line} ${file}", "--placeholders",
	)

	assert.Equal(t, "${file}\n${line}\n", out)
}

func TestParse_malformed(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run(t, "parse", `vim "unclosed`)

	require.Error(t, err)

	var pe *cmdline.ParseError

	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, cmdline.ErrUnclosedQuote)
}

func TestParse_unknown_format(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run(t, "parse", "vim", "-o", "xml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestConfig_set_get_show(t *testing.T) {
	h := newHarness(t)

	_, stderr, err := h.run(t,
		"config", "set", "edit", "vim ${file} +${line}",
	)
	require.NoError(t, err)
	assert.Contains(t, stderr, "${file} ${line}")

	out := h.mustRun(t, "config", "get", "edit")
	assert.Equal(t, "vim ${file} +${line}\n", out)

	out = h.mustRun(t, "config", "get", "open")
	assert.Equal(t, "\n", out)

	out = h.mustRun(t, "config", "show")
	assert.Contains(t, out, "EDIT_EXTERNALLY_CMD")
	assert.Contains(t, out, "vim ${file} +${line}")
}

func TestConfig_show_lists_unset_command_types(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "config", "show")

	assert.Contains(t, out, "EDIT_EXTERNALLY_CMD")
	assert.Contains(t, out, "OPEN_EXTERNALLY_CMD")
}

func TestConfig_set_rejects_malformed(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run(t, "config", "set", "open", `vim ${fi$le}`)

	require.Error(t, err)
	assert.ErrorIs(t, err, cmdline.ErrInvalidCharacter)

	out := h.mustRun(t, "config", "get", "open")
	assert.Equal(t, "\n", out)
}

func TestConfig_unknown_type(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run(t, "config", "get", "browse")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command type")
}

func TestConfig_message(t *testing.T) {
	h := newHarness(t)
	file := writeFile(t, "a.txt", "")

	h.mustRun(t, "config", "set", "open", "gvim ${file}")
	h.mustRun(t, "config", "message", "status", "launched {program}")

	_, stderr, err := h.run(t, "open", file)

	require.NoError(t, err)
	assert.Contains(t, stderr, "launched gvim")

	_, _, err = h.run(t, "config", "message", "warning", "x")
	require.Error(t, err)
}

func TestEdit_dry_run_with_line_and_column(t *testing.T) {
	h := newHarness(t)
	file := writeFile(t, "main.go", "package main\n")

	h.mustRun(t,
		"config", "set", "edit",
		`vim ${file} "+call cursor(${line}, ${column})"`,
	)

	out := h.mustRun(t,
		"edit", file, "--line", "4", "--column", "2",
		"--dry-run", "-o", "json",
	)

	assert.Equal(
		t,
		`["vim","`+file+`","+call cursor(4, 2)"]`+"\n",
		out,
	)
	assert.Empty(t, h.starter.calls)
}

func TestEdit_offset(t *testing.T) {
	h := newHarness(t)
	file := writeFile(t, "notes.txt", "ab\ncd")

	h.mustRun(t,
		"config", "set", "edit",
		"ed ${line}:${column} ${selectionStart}-${selectionEnd}",
	)

	out := h.mustRun(t,
		"edit", file, "--offset", "4", "-n", "-o", "lines",
	)

	assert.Equal(t, "ed\n2:2\n4-4\n", out)
}

func TestEdit_offset_and_line_are_exclusive(t *testing.T) {
	h := newHarness(t)
	file := writeFile(t, "a.txt", "")

	_, _, err := h.run(t, "edit", file, "--offset", "1", "--line", "2")

	require.Error(t, err)
}

func TestEdit_launches(t *testing.T) {
	h := newHarness(t)
	file := writeFile(t, "a.txt", "")

	h.mustRun(t, "config", "set", "edit", "vim +${line} ${fileName}")

	_, stderr, err := h.run(t, "edit", file, "-l", "7")

	require.NoError(t, err)
	require.Len(t, h.starter.calls, 1)
	assert.Equal(t, []string{"vim", "+7", "a.txt"}, h.starter.calls[0])
	assert.Contains(t, stderr, "Editing file "+file+" with vim")
}

func TestEdit_without_location_uses_open(t *testing.T) {
	h := newHarness(t)
	file := writeFile(t, "a.txt", "")

	h.mustRun(t, "config", "set", "edit", "vim +${line} ${file}")
	h.mustRun(t, "config", "set", "open", "xdg-open ${file}")

	h.mustRun(t, "edit", file)

	require.Len(t, h.starter.calls, 1)
	assert.Equal(t, []string{"xdg-open", file}, h.starter.calls[0])
}

func TestEdit_launch_failure(t *testing.T) {
	h := newHarness(t)
	h.starter.err = errors.New("no such program")
	file := writeFile(t, "a.txt", "")

	h.mustRun(t, "config", "set", "open", "nope ${file}")

	_, stderr, err := h.run(t, "open", file)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such program")
	assert.Contains(
		t, stderr, "Error opening "+file+" with nope: no such program",
	)
}

func TestEdit_launch_failure_custom_message(t *testing.T) {
	h := newHarness(t)
	h.starter.err = errors.New("no such program")
	file := writeFile(t, "a.txt", "")

	h.mustRun(t, "config", "set", "edit", "nope +${line} ${file}")
	h.mustRun(t,
		"config", "message", "error", "cannot edit {file}: {error}",
	)

	_, stderr, err := h.run(t, "edit", file, "--line", "3")

	require.Error(t, err)
	assert.Contains(
		t, stderr, "cannot edit "+file+": no such program",
	)
}

func TestAction_run_failure_prints_message(t *testing.T) {
	h := newHarness(t)
	h.starter.err = errors.New("exit status 2")
	file := writeFile(t, "main.go", "")

	h.mustRun(t, "action", "add", "Format", "gofmt -w ${file}")

	_, stderr, err := h.run(t, "action", "run", "Format", file, "-l", "1")

	require.Error(t, err)
	assert.Contains(t, stderr, "with gofmt: exit status 2")
}

func TestOpen_not_configured(t *testing.T) {
	h := newHarness(t)
	file := writeFile(t, "a.txt", "")

	_, _, err := h.run(t, "open", file)

	require.Error(t, err)
	require.ErrorIs(t, err, editor.ErrNotConfigured)
	assert.Contains(t, err.Error(), "extedit config set open")
}

func TestAction_add_list_run_remove(t *testing.T) {
	h := newHarness(t)
	file := writeFile(t, "main.go", "")

	out := h.mustRun(t, "action", "add", "Format", "gofmt -w ${file}")
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out = h.mustRun(t, "action", "list")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Format")
	assert.Contains(t, out, "gofmt -w ${file}")

	h.mustRun(t, "action", "run", "Format", file, "--line", "1")

	require.Len(t, h.starter.calls, 1)
	assert.Equal(t, []string{"gofmt", "-w", file}, h.starter.calls[0])

	h.mustRun(t, "action", "remove", id)

	out = h.mustRun(t, "action", "list")
	assert.NotContains(t, out, id)
}

func TestAction_run_requires_location(t *testing.T) {
	h := newHarness(t)
	file := writeFile(t, "main.go", "")

	h.mustRun(t, "action", "add", "Format", "gofmt -w ${file}")

	_, _, err := h.run(t, "action", "run", "Format", file)

	require.Error(t, err)
	assert.ErrorIs(t, err, editor.ErrNoLocation)
}

func TestAction_add_rejects_malformed(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run(t, "action", "add", "Broken", `x \`)

	require.Error(t, err)
	assert.ErrorIs(t, err, cmdline.ErrEscapeAtEnd)
}

func TestShellLine(t *testing.T) {
	t.Parallel()

	line, err := cli.ShellLineForTest([]string{"vim", "a b", ""})

	require.NoError(t, err)
	assert.Equal(t, "vim 'a b' ''", line)
}

type waitRecorder struct {
	recorder
}

func (wr *waitRecorder) Run(
	ctx context.Context,
	argv []string,
) (string, error) {
	return "formatted\n", wr.Start(ctx, argv)
}

func TestAction_run_wait_prints_output(t *testing.T) {
	h := newHarness(t)
	file := writeFile(t, "main.go", "")

	h.mustRun(t, "action", "add", "Format", "gofmt -l ${file}")

	var stdout, stderr bytes.Buffer

	wr := &waitRecorder{}
	root := cli.NewRootCommandForTest(wr)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{
		"--prefs", h.prefs,
		"action", "run", "Format", file, "--line", "1", "--wait",
	})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, "formatted\n", stdout.String())
	assert.Equal(t, [][]string{{"gofmt", "-l", file}}, wr.calls)
}
