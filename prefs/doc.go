// Package prefs persists command templates and custom actions in a YAML
// settings file. Keys are namespaced with the "EditExternally-" prefix; the
// two command types select the template used when the cursor location is
// known (edit) or not (open).
//
// The file is guarded by a sibling ".lock" file so several processes can share
// it, and it is rewritten atomically through a temporary file.
package prefs
