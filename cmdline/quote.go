package cmdline

import "strings"

// Quote renders token so that Parse yields it back as a
// single token. Escapes are added for backslashes, quotes
// and '$'; tokens containing whitespace are wrapped in
// double quotes. The empty token renders as "" which
// Parse drops, since empty tokens are never emitted.
func Quote(token string) string {
	if token == "" {
		return `""`
	}

	var sb strings.Builder

	grouped := strings.ContainsAny(token, " \t\n\r")
	if grouped {
		sb.WriteByte('"')
	}

	for idx := 0; idx < len(token); idx++ {
		switch token[idx] {
		case escapeChar, '"', '\'', placeholderStart:
			sb.WriteByte(escapeChar)
		}

		sb.WriteByte(token[idx])
	}

	if grouped {
		sb.WriteByte('"')
	}

	return sb.String()
}

// Join quotes every token and joins them with single
// spaces, producing a command line Parse splits back into
// tokens.
func Join(tokens []string) string {
	quoted := make([]string, 0, len(tokens))

	for _, tok := range tokens {
		quoted = append(quoted, Quote(tok))
	}

	return strings.Join(quoted, " ")
}
