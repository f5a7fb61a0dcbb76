package layout

import (
	"gioui.org/layout"
)

// Reverse the order of the flex children in place when shouldReverse is
// set. Cells use it to mirror their content for outgoing messages.
func Reverse(shouldReverse bool, items ...layout.FlexChild) []layout.FlexChild {
	if !shouldReverse {
		return items
	}
	for head, tail := 0, len(items)-1; head < tail; head, tail = head+1, tail-1 {
		items[head], items[tail] = items[tail], items[head]
	}
	return items
}
