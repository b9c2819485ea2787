package cli

// Exported aliases for testing internal functions from
// the cli_test package.

// NewRootCommandForTest exposes newRootCommand.
var NewRootCommandForTest = newRootCommand

// ShellLineForTest exposes shellLine.
var ShellLineForTest = shellLine
