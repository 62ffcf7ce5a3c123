// Package registry holds the process-wide mask engine behind an atomic
// pointer so rule reloads can swap it out without taking a lock and
// without disturbing callers mid-mask: a caller that already took a
// snapshot keeps using it until it asks again.
package registry

import (
	"sync/atomic"

	"github.com/AiToByte/safemask/pkg/matcher"
	"github.com/AiToByte/safemask/pkg/types"
)

// Cell is a hot-swappable holder for a mask engine. The zero Cell is not
// usable; construct one with New.
type Cell struct {
	engine atomic.Pointer[matcher.Engine]
}

// New builds a Cell whose initial engine is built from rules.
func New(rules []types.Rule) (*Cell, []matcher.Diagnostic) {
	eng, diags := matcher.New(rules)
	c := &Cell{}
	c.engine.Store(eng)
	return c, diags
}

// Snapshot returns the engine currently installed. The returned pointer
// remains valid and usable even after a later Replace swaps in a new one;
// callers never observe a torn or half-updated engine.
func (c *Cell) Snapshot() *matcher.Engine {
	return c.engine.Load()
}

// Replace builds a new engine from rules and installs it atomically,
// returning the engine that was replaced (nil if this is the first
// install) and any per-rule diagnostics from the build.
func (c *Cell) Replace(rules []types.Rule) (previous *matcher.Engine, diags []matcher.Diagnostic) {
	eng, diags := matcher.New(rules)
	previous = c.engine.Swap(eng)
	return previous, diags
}
