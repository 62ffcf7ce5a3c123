// Package facade provides the simplest possible entry point for masking:
// a single synchronous call against whatever engine is currently
// installed in a registry. It exists so one-shot callers (the CLI's text
// command, a future GUI command handler) don't need to know that rule
// reloads happen behind an atomic swap.
package facade

import "github.com/AiToByte/safemask/pkg/registry"

// MaskText masks s through cell's current engine snapshot and returns the
// result as a string.
func MaskText(cell *registry.Cell, s string) string {
	return string(cell.Snapshot().Mask([]byte(s)))
}

// MaskBytes masks data through cell's current engine snapshot.
func MaskBytes(cell *registry.Cell, data []byte) []byte {
	return cell.Snapshot().Mask(data)
}
