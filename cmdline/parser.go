package cmdline

import (
	"fmt"
	"strings"
)

const (
	escapeChar       = '\\'
	placeholderStart = '$'
	placeholderOpen  = '{'
	placeholderEnd   = '}'
)

type mode int

const (
	modeParse mode = iota
	modePlaceholder
)

// lookupFunc resolves a complete placeholder, delimiters
// included, to its replacement.
type lookupFunc func(key string) (string, bool)

// Parser tokenizes command lines against a fixed
// replacement table. A Parser may be shared by concurrent
// Parse calls as long as Replace is not called at the same
// time.
type Parser struct {
	replacements map[string]string
}

// NewParser returns a Parser using a copy of replacements.
// Keys include their delimiters, e.g. "${file}".
func NewParser(replacements map[string]string) *Parser {
	pa := &Parser{
		replacements: make(map[string]string, len(replacements)),
	}

	for key, val := range replacements {
		pa.replacements[key] = val
	}

	return pa
}

// Replace registers value as the replacement of key and
// returns the Parser for chaining.
func (p *Parser) Replace(key string, value string) *Parser {
	if p.replacements == nil {
		p.replacements = make(map[string]string)
	}

	p.replacements[key] = value

	return p
}

// Parse tokenizes cmdLine using the Parser's replacement
// table.
func (p *Parser) Parse(cmdLine string) ([]string, error) {
	return tokenize(cmdLine, lookupIn(p.replacements))
}

// Parse splits cmdLine into an argument vector, resolving
// escapes and quotes and substituting ${...} placeholders
// found in replacements. Placeholders missing from
// replacements are kept literally. replacements may be nil.
//
// On malformed input Parse returns a nil slice and a
// *ParseError.
func Parse(
	cmdLine string,
	replacements map[string]string,
) ([]string, error) {
	return tokenize(cmdLine, lookupIn(replacements))
}

// Validate reports whether cmdLine is well formed. The
// returned error, if any, is a *ParseError.
func Validate(cmdLine string) error {
	_, err := Parse(cmdLine, nil)

	return err
}

// Placeholders returns the placeholder keys referenced by
// cmdLine in order of first occurrence, without
// duplicates. Escaped placeholder starts are not reported.
func Placeholders(cmdLine string) ([]string, error) {
	seen := make(map[string]struct{})
	keys := []string{}

	_, err := tokenize(cmdLine, func(key string) (string, bool) {
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}

		return "", false
	})
	if err != nil {
		return nil, err
	}

	return keys, nil
}

func lookupIn(replacements map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		val, ok := replacements[key]

		return val, ok
	}
}

// tokenize is the single-pass state machine behind Parse.
// Checks run in a fixed order: escape, quote, placeholder
// delimiters, whitespace, then literal. Every special
// character is ASCII, so input is scanned by byte and
// anything else, invalid UTF-8 included, is copied as is.
func tokenize(
	cmdLine string,
	lookup lookupFunc,
) ([]string, error) {
	var (
		token       strings.Builder
		placeholder strings.Builder
		quote       byte
		md          = modeParse
	)

	tokens := []string{}

	// active is the accumulator literal characters go to.
	active := func() *strings.Builder {
		if md == modePlaceholder {
			return &placeholder
		}

		return &token
	}

	for idx := 0; idx < len(cmdLine); idx++ {
		ch := cmdLine[idx]

		switch {
		case ch == escapeChar:
			if idx+1 >= len(cmdLine) {
				return nil, newParseError(
					cmdLine,
					ErrEscapeAtEnd,
					ErrEscapeAtEnd.Error(),
				)
			}

			idx++
			active().WriteByte(cmdLine[idx])

		case isQuote(ch) && md == modeParse:
			switch quote {
			case 0:
				quote = ch
			case ch:
				quote = 0
			default:
				token.WriteByte(ch)
			}

		case ch == placeholderStart:
			if md == modePlaceholder {
				return nil, newParseError(
					cmdLine,
					ErrInvalidCharacter,
					fmt.Sprintf(
						"%s %c found in placeholder %s",
						ErrInvalidCharacter, ch,
						placeholder.String(),
					),
				)
			}

			if idx+1 < len(cmdLine) &&
				cmdLine[idx+1] == placeholderOpen {
				md = modePlaceholder
				placeholder.WriteByte(placeholderStart)
				placeholder.WriteByte(placeholderOpen)
				idx++

				continue
			}

			token.WriteByte(ch)

		case ch == placeholderEnd && md == modePlaceholder:
			placeholder.WriteByte(ch)
			key := placeholder.String()

			if val, ok := lookup(key); ok {
				token.WriteString(val)
			} else {
				token.WriteString(key)
			}

			placeholder.Reset()
			md = modeParse

		case isSpace(ch) && md == modeParse && quote == 0:
			// Consecutive whitespace collapses.
			if token.Len() > 0 {
				tokens = append(tokens, token.String())
				token.Reset()
			}

		default:
			active().WriteByte(ch)
		}
	}

	if placeholder.Len() > 0 {
		return nil, newParseError(
			cmdLine,
			ErrUnclosedPlaceholder,
			fmt.Sprintf(
				"%s: %s",
				ErrUnclosedPlaceholder, placeholder.String(),
			),
		)
	}

	if quote != 0 {
		return nil, newParseError(
			cmdLine,
			ErrUnclosedQuote,
			fmt.Sprintf("%s: %c", ErrUnclosedQuote, quote),
		)
	}

	if token.Len() > 0 {
		tokens = append(tokens, token.String())
	}

	return tokens, nil
}

func isQuote(ch byte) bool {
	return ch == '"' || ch == '\''
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}
