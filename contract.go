// Package chatitems provides presenters, view-models and cached bubble
// layouts for media chat items laid out with Gio.
//
// The subpackages are wired together as follows:
//
//	message.Item -> viewmodel.Builder -> viewmodel.ViewModel
//	             -> presenter.Presenter -> cell.Cell -> bubble.Cache
package chatitems

import (
	"errors"
	"fmt"
)

// ErrContract is wrapped by the values the packages of this module panic with
// when a caller breaks an API contract, such as handing a presenter the wrong
// kind of cell. Such panics indicate integration bugs and are not meant to be
// recovered.
var ErrContract = errors.New("contract violation")

// Violation builds an error wrapping ErrContract.
func Violation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrContract, fmt.Sprintf(format, args...))
}
