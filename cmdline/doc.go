// Package cmdline tokenizes human-authored command templates into argument
// vectors while substituting ${name} placeholders from a replacement table.
//
// The grammar is deliberately small: whitespace separates tokens, single or
// double quotes group whitespace into one token, a backslash takes the next
// character literally, and ${...} spans are looked up in the replacement
// table. Unknown placeholders are kept verbatim. Backslashes take precedence
// over quotes, so a quote character can be embedded inside a quoted span.
//
// Parse is the one-shot entry point; Parser keeps a replacement table for
// repeated use. Malformed templates yield a *ParseError that unwraps to one of
// the package sentinels.
package cmdline
