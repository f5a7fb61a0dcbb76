package viewmodel

// TransferStatus is the state of an upload or download attached to a media
// message.
type TransferStatus uint8

const (
	Idle TransferStatus = iota
	Transferring
	Succeeded
	Failed
)

func (s TransferStatus) String() string {
	switch s {
	case Idle:
		return "idle"
	case Transferring:
		return "transferring"
	case Succeeded:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown transfer status"
	}
}

// TransferDirection indicates whether media is being sent or received.
type TransferDirection uint8

const (
	Download TransferDirection = iota
	Upload
)

func (d TransferDirection) String() string {
	if d == Upload {
		return "upload"
	}
	return "download"
}

// ProgressStatus is the state a progress indicator should show for a
// transfer.
type ProgressStatus uint8

const (
	// ProgressHidden means no indicator is shown.
	ProgressHidden ProgressStatus = iota
	ProgressStarting
	ProgressInProgress
	ProgressCompleted
)

func (p ProgressStatus) String() string {
	switch p {
	case ProgressHidden:
		return "hidden"
	case ProgressStarting:
		return "starting"
	case ProgressInProgress:
		return "inProgress"
	case ProgressCompleted:
		return "completed"
	default:
		return "unknown progress status"
	}
}

// Progress derives the indicator state for a transfer.
func Progress(status TransferStatus, progress float64) ProgressStatus {
	if status != Transferring {
		return ProgressHidden
	}
	switch {
	case progress <= 0:
		return ProgressStarting
	case progress >= 1:
		return ProgressCompleted
	default:
		return ProgressInProgress
	}
}

// clamp progress into [0,1].
func clamp(p float64) float64 {
	if p != p || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
