// Package placeholders builds the replacement tables consumed by cmdline from
// an edited file and the cursor location inside it.
package placeholders
