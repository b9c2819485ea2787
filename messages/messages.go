package messages

import (
	"github.com/valyala/fasttemplate"
)

// Default templates.
const (
	DefaultStatus = "Editing file {file} with {program}"
	DefaultError  = "Error opening {file} with {program}: {error}"
)

// Renderer expands status and error templates. Empty
// fields fall back to the defaults.
type Renderer struct {
	Status string
	Error  string
}

// RenderStatus renders the message for a successful
// launch of program on file.
func (r Renderer) RenderStatus(file string, program string) string {
	return Render(
		orDefault(r.Status, DefaultStatus),
		map[string]any{
			"file":    file,
			"program": program,
		},
	)
}

// RenderError renders the message for a failed launch.
func (r Renderer) RenderError(
	file string,
	program string,
	err error,
) string {
	reason := ""
	if err != nil {
		reason = err.Error()
	}

	return Render(
		orDefault(r.Error, DefaultError),
		map[string]any{
			"file":    file,
			"program": program,
			"error":   reason,
		},
	)
}

// Render substitutes {name} tags in tpl with values from
// vars. Unknown tags are kept as-is.
func Render(tpl string, vars map[string]any) string {
	return fasttemplate.ExecuteStringStd(tpl, "{", "}", vars)
}

func orDefault(val string, def string) string {
	if val == "" {
		return def
	}

	return val
}
