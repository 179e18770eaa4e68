package pipeline

import "fmt"

// State is a position in the run state machine.
type State int

const (
	Validating State = iota + 1
	BuildingTransform
	RunningTransform
	BuildingSpectrum
	RunningSpectrum
	Done
	Aborted
)

func (s State) String() string {
	switch s {
	case Validating:
		return "Validating"
	case BuildingTransform:
		return "BuildingTransform"
	case RunningTransform:
		return "RunningTransform"
	case BuildingSpectrum:
		return "BuildingSpectrum"
	case RunningSpectrum:
		return "RunningSpectrum"
	case Done:
		return "Done"
	case Aborted:
		return "Aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == Done || s == Aborted
}

// next is the only successor of each non-terminal state on the success path.
var next = map[State]State{
	Validating:        BuildingTransform,
	BuildingTransform: RunningTransform,
	RunningTransform:  BuildingSpectrum,
	BuildingSpectrum:  RunningSpectrum,
	RunningSpectrum:   Done,
}

// Transition is reported to observers on every state change. Err is set only
// for transitions into Aborted.
type Transition struct {
	From State
	To   State
	Err  error
}
