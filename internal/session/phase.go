package session

// Phase is the lifecycle position of the loaded track.
//
//	Idle -> Loading -> Playing <-> Paused -> Ended -> Loading | Idle
//
// Closed is reachable from every phase and is terminal.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhasePlaying
	PhasePaused
	PhaseEnded
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseEnded:
		return "ended"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// loaded reports whether an engine instance is ready in this phase.
func (p Phase) loaded() bool {
	return p == PhasePlaying || p == PhasePaused
}
