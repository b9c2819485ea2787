package placeholders

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Conventional placeholder keys, delimiters included.
const (
	File           = "${file}"
	FileName       = "${fileName}"
	FileBasename   = "${fileBasename}"
	FileExt        = "${fileExt}"
	Line           = "${line}"
	Line0          = "${line0}"
	Column         = "${column}"
	Column0        = "${column0}"
	SelectedText   = "${selectedText}"
	SelectionStart = "${selectionStart}"
	SelectionEnd   = "${selectionEnd}"
)

// Location describes where the user is in a file. Line0 and
// Column0 are zero based. Caret reports whether the cursor
// position is known at all; without it only the file keys
// are filled.
type Location struct {
	File           string
	Caret          bool
	Line0          int
	Column0        int
	SelectedText   string
	SelectionStart int
	SelectionEnd   int
}

// Key wraps name in placeholder delimiters.
func Key(name string) string {
	return "${" + name + "}"
}

// ForFile returns the file related replacements for path.
// The path is made absolute when possible.
func ForFile(path string) (map[string]string, error) {
	const errCtx = "building file placeholders"

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	name := filepath.Base(abs)
	ext := extension(name)
	base := name

	if ext != "" {
		base = strings.TrimSuffix(name, "."+ext)
	}

	return map[string]string{
		File:         abs,
		FileName:     name,
		FileBasename: base,
		FileExt:      ext,
	}, nil
}

// ForLocation returns the file replacements plus, when the
// caret is known, the line, column and selection ones.
func ForLocation(loc Location) (map[string]string, error) {
	const errCtx = "building location placeholders"

	repl, err := ForFile(loc.File)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if !loc.Caret {
		return repl, nil
	}

	repl[Line0] = strconv.Itoa(loc.Line0)
	repl[Line] = strconv.Itoa(loc.Line0 + 1)
	repl[Column0] = strconv.Itoa(loc.Column0)
	repl[Column] = strconv.Itoa(loc.Column0 + 1)
	repl[SelectedText] = loc.SelectedText
	repl[SelectionStart] = strconv.Itoa(loc.SelectionStart)
	repl[SelectionEnd] = strconv.Itoa(loc.SelectionEnd)

	return repl, nil
}

// Merge combines tables into a new one. Later tables win
// on duplicate keys.
func Merge(tables ...map[string]string) map[string]string {
	merged := make(map[string]string)

	for _, tbl := range tables {
		for key, val := range tbl {
			merged[key] = val
		}
	}

	return merged
}

// Position converts a caret offset, counted in characters,
// into zero based line and column numbers. Offsets outside
// content are clamped.
func Position(content []byte, offset int) (int, int) {
	runes := []rune(string(content))

	if offset < 0 {
		offset = 0
	}

	if offset > len(runes) {
		offset = len(runes)
	}

	line0, column0 := 0, 0

	for _, ch := range runes[:offset] {
		if ch == '\n' {
			line0++
			column0 = 0

			continue
		}

		column0++
	}

	return line0, column0
}

// extension returns the extension of name without the dot.
// Names whose only dot is the leading one have none.
func extension(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 {
		return ""
	}

	return name[idx+1:]
}
