package varfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/byte4ever/extedit/placeholders"
)

// Load reads variable files and merges them into a single
// replacement table keyed ${KEY}. Lines without a space
// are silently skipped.
func Load(files []string) (map[string]string, error) {
	const errCtx = "loading variable files"

	vars := make(map[string]string)

	for _, vf := range files {
		content, err := os.ReadFile(vf) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		for _, line := range strings.Split(
			string(content), "\n",
		) {
			line = strings.TrimSuffix(line, "\r")

			parts := strings.SplitN(line, " ", 2)
			if len(parts) == 2 && parts[0] != "" {
				vars[placeholders.Key(parts[0])] = parts[1]
			}
		}
	}

	return vars, nil
}

// ParseAssignments turns NAME=VALUE pairs into a
// replacement table keyed ${NAME}.
func ParseAssignments(
	assignments []string,
) (map[string]string, error) {
	const errCtx = "parsing variable assignments"

	vars := make(map[string]string, len(assignments))

	for _, as := range assignments {
		parts := strings.SplitN(as, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf(
				"%s: variable must be NAME=value, got %s",
				errCtx, as,
			)
		}

		vars[placeholders.Key(parts[0])] = parts[1]
	}

	return vars, nil
}

// Collect loads files first and lets assignments override
// them.
func Collect(
	files []string,
	assignments []string,
) (map[string]string, error) {
	const errCtx = "collecting variables"

	fromFiles, err := Load(files)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	fromFlags, err := ParseAssignments(assignments)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return placeholders.Merge(fromFiles, fromFlags), nil
}
