package messages_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/byte4ever/extedit/messages"
)

func TestRenderStatus_default(t *testing.T) {
	t.Parallel()

	got := messages.Renderer{}.RenderStatus("/src/main.go", "vim")

	assert.Equal(t, "Editing file /src/main.go with vim", got)
}

func TestRenderStatus_custom(t *testing.T) {
	t.Parallel()

	re := messages.Renderer{Status: "{program} <- {file}"}

	assert.Equal(t, "code <- a.txt", re.RenderStatus("a.txt", "code"))
}

func TestRenderError_default(t *testing.T) {
	t.Parallel()

	got := messages.Renderer{}.RenderError(
		"a.txt", "vim", errors.New("not found"),
	)

	assert.Equal(t, "Error opening a.txt with vim: not found", got)
}

func TestRenderError_nil_error(t *testing.T) {
	t.Parallel()

	got := messages.Renderer{Error: "failed: {error}."}.RenderError(
		"a.txt", "vim", nil,
	)

	assert.Equal(t, "failed: .", got)
}

func TestRender_unknown_tag_preserved(t *testing.T) {
	t.Parallel()

	got := messages.Render(
		"{file} and {unknown}",
		map[string]any{"file": "x"},
	)

	assert.Equal(t, "x and {unknown}", got)
}

func FuzzRender(f *testing.F) {
	f.Add("Hello {name}!", "name", "World")
	f.Add("{", "k", "v")
	f.Add("}", "k", "v")
	f.Add("", "key", "val")

	f.Fuzz(func(t *testing.T, tpl string, key string, val string) {
		// We only verify it does not panic.
		_ = messages.Render(tpl, map[string]any{key: val})
	})
}
