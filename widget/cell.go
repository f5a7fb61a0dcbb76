package widget

import (
	"gioui.org/widget"
	"gioui.org/x/component"
)

// Cell holds the interactive state of a message cell across frames.
type Cell struct {
	// ContextArea holds the clicks state for the right-click context menu.
	component.ContextArea
	// Menu lists the options of the context menu.
	Menu component.MenuState
	// Options holds one clickable per menu option.
	Options []widget.Clickable
	// Bubble tracks taps on the message bubble.
	Bubble widget.Clickable
	// FailIcon tracks taps on the failed-delivery icon.
	FailIcon widget.Clickable
	// Image caches the op of the message image.
	Image CachedImage
	// Avatar caches the op of the sender avatar.
	Avatar CachedImage
}
