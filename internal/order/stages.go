package order

// Stages is the canonical linear workflow used for progress display.
// Terminal failure and cancellation states are deliberately absent: they have
// no position on the happy path and must render as a distinct terminal
// visual instead.
var Stages = []Status{
	StatusAwaitingPayment,
	StatusPaymentConfirmed,
	StatusStockReserved,
	StatusReadyForShipment,
	StatusShipped,
	StatusDelivered,
}

// StageIndex returns the position of a status in the canonical stage list,
// or -1 for off-path states such as CANCELLED.
func StageIndex(status Status) int {
	for i, s := range Stages {
		if s == status {
			return i
		}
	}
	return -1
}

// StageState classifies one display stage relative to the order's status.
type StageState int

const (
	StagePending StageState = iota
	StageCurrent
	StageCompleted
)

// StageStateAt reports how stage i should render for the given status. When
// the status is off-path no stage is current: everything renders pending and
// the caller shows the terminal state instead.
func StageStateAt(status Status, i int) StageState {
	idx := StageIndex(status)
	switch {
	case idx < 0:
		return StagePending
	case i < idx:
		return StageCompleted
	case i == idx:
		return StageCurrent
	default:
		return StagePending
	}
}
