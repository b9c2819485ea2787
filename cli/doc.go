// Package cli builds the extedit command tree: tokenizing templates, editing
// and opening files with the configured external commands, managing the
// settings file and running custom actions.
package cli
