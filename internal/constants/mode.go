package constants

// Mode selects which computation a scenario or request runs.
type Mode string

const (
	// ModeSimulate runs the iterative network dynamics solver.
	ModeSimulate Mode = "simulate"

	// ModeExplore evaluates q's score function once with supplied context scores.
	ModeExplore Mode = "explore"
)

// Valid returns true if the mode is a recognized value.
func (m Mode) Valid() bool {
	switch m {
	case ModeSimulate, ModeExplore:
		return true
	}
	return false
}

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}
