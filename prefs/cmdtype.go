package prefs

import (
	"fmt"
	"strings"
)

// CmdType selects which configured command line is used.
type CmdType int

const (
	// EditExternally edits a file at a known cursor
	// location.
	EditExternally CmdType = iota

	// OpenExternally opens a file without location
	// information.
	OpenExternally
)

// CmdTypes lists every command type in display order.
var CmdTypes = []CmdType{EditExternally, OpenExternally}

// String returns the settings name of the command type.
func (ct CmdType) String() string {
	switch ct {
	case EditExternally:
		return "EDIT_EXTERNALLY_CMD"
	case OpenExternally:
		return "OPEN_EXTERNALLY_CMD"
	default:
		return fmt.Sprintf("CmdType(%d)", int(ct))
	}
}

// Key returns the settings key holding the command line.
func (ct CmdType) Key() string {
	return Prefix + ct.String()
}

// ParseCmdType accepts "edit", "open" or the full settings
// name, case insensitively.
func ParseCmdType(name string) (CmdType, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "EDIT", EditExternally.String():
		return EditExternally, nil
	case "OPEN", OpenExternally.String():
		return OpenExternally, nil
	default:
		return 0, fmt.Errorf(
			"unknown command type %q (want edit or open)",
			name,
		)
	}
}
