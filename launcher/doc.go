// Package launcher starts the processes described by tokenized command lines.
// Start spawns without waiting, matching how editors are opened; Run waits and
// captures combined output.
package launcher
