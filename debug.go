package canopy

import (
	"context"
	"log/slog"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip attribute formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// debugMaxTreeDepth is the owner-chain depth above which a debug canvas warns.
const debugMaxTreeDepth = 32

// debugMaxChildCount is the sub-object count above which a debug canvas warns.
const debugMaxChildCount = 1000

// debugCheckObject walks o's subtree and warns about suspicious hierarchies.
// Only called when the canvas is in debug mode.
func (c *Canvas) debugCheckObject(o *Object) {
	depth := 0
	for p := o; p != nil; p = p.owner {
		depth++
	}
	c.debugCheckSubtree(o, depth)
}

func (c *Canvas) debugCheckSubtree(o *Object, depth int) {
	if depth > debugMaxTreeDepth {
		c.logger.Warn("canopy: object hierarchy too deep",
			"object", o.String(), "depth", depth, "threshold", debugMaxTreeDepth)
		return
	}
	if len(o.children) > debugMaxChildCount {
		c.logger.Warn("canopy: object has too many sub-objects",
			"object", o.String(), "children", len(o.children), "threshold", debugMaxChildCount)
	}
	for _, ch := range o.children {
		c.debugCheckSubtree(ch, depth+1)
	}
}
