// Package messages renders the status lines shown after launching an external
// command. Templates use single-brace {name} tags expanded with
// valyala/fasttemplate; unknown tags are preserved.
package messages
