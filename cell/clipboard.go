package cell

import (
	"gioui.org/io/clipboard"
)

// GioClipboard buffers text written to the clipboard until the next frame
// flushes it as a clipboard operation.
type GioClipboard struct {
	pending string
	dirty   bool
}

// WriteText schedules txt to be written to the system clipboard. Only the
// latest write of a frame takes effect.
func (c *GioClipboard) WriteText(txt string) {
	c.pending = txt
	c.dirty = true
}

// Pending returns the text waiting for the next flush.
func (c *GioClipboard) Pending() (string, bool) {
	return c.pending, c.dirty
}

// Flush emits the pending write, if any.
func (c *GioClipboard) Flush(gtx C) {
	if !c.dirty {
		return
	}
	clipboard.WriteOp{Text: c.pending}.Add(gtx.Ops)
	c.pending, c.dirty = "", false
}
