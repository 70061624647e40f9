package core

type RunState int

const (
	RunStateIdle RunState = iota
	RunStateBatchRunning
	RunStateDone
	RunStateFailed
)

func RunStateFromString(s string) RunState {
	switch s {
	case RunStateIdle.String():
		return RunStateIdle
	case RunStateBatchRunning.String():
		return RunStateBatchRunning
	case RunStateDone.String():
		return RunStateDone
	case RunStateFailed.String():
		return RunStateFailed
	default:
		return RunStateIdle
	}
}

func (s RunState) String() string {
	switch s {
	case RunStateIdle:
		return "idle"
	case RunStateBatchRunning:
		return "batch_running"
	case RunStateDone:
		return "done"
	case RunStateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// IsFinal reports whether no transition leaves the state.
func (s RunState) IsFinal() bool {
	return s == RunStateDone || s == RunStateFailed
}

// RunEvent is emitted on every state transition of a run.
type RunEvent struct {
	RunID string
	State RunState
	// Batch is the zero based index of the running batch, or the batch that
	// failed. It is -1 before the first batch starts.
	Batch int
	// Size is the number of items in the running batch.
	Size int
	Err  error
}
