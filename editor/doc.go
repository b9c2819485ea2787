// Package editor implements the "edit externally" flows: it picks the
// configured command template for the situation, builds the replacement table
// from the file location, tokenizes the template with cmdline and hands the
// argument vector to a launcher.
//
// The main entry points are Editor.Edit, Editor.RunAction and Editor.Preview.
package editor
