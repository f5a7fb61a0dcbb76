package fetch

import (
	"log"

	"git.sr.ht/~gioverse/chatitems/viewmodel"
)

// Bind loads id into the view-model, driving its transfer observables.
// It must be called from the frame goroutine. Failures are logged and
// surface as a Failed transfer status; retrying is up to the caller.
func Bind(l *Loader, vm *viewmodel.Media, id string, direction viewmodel.TransferDirection) *Request {
	vm.TransferDirection.Set(direction)
	vm.SetProgress(0)
	vm.TransferStatus.Set(viewmodel.Transferring)
	return l.Request(id,
		func(p float64) {
			vm.SetProgress(p)
		},
		func(r Result) {
			if r.Err != nil {
				log.Printf("loading %s: %v", r.ID, r.Err)
				vm.TransferStatus.Set(viewmodel.Failed)
				return
			}
			vm.Image.Set(r.Image)
			vm.SetProgress(1)
			vm.TransferStatus.Set(viewmodel.Succeeded)
		},
	)
}
