package flow

// State is a trail's lifecycle stage.
type State uint8

const (
	Growing  State = iota // Still appending points
	Complete              // Reached its target length, frozen
	Retired               // Removed from the active set
)

func (s State) String() string {
	switch s {
	case Growing:
		return "growing"
	case Complete:
		return "complete"
	case Retired:
		return "retired"
	default:
		return "unknown"
	}
}
