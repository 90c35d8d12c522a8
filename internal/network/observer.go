package network

// Observer receives solver progress. Implementations must not retain or
// mutate the trajectory slice passed to OnComplete.
type Observer interface {
	// OnIteration is called after each iteration record is appended.
	OnIteration(runID string, rec IterationRecord)

	// OnComplete is called once when the run terminates, including on
	// cancellation (outcome "cancelled").
	OnComplete(result SimulationResult, outcome string)
}

// Observers fans progress out to several observers in order.
type Observers []Observer

// OnIteration implements Observer.
func (o Observers) OnIteration(runID string, rec IterationRecord) {
	for _, obs := range o {
		if obs != nil {
			obs.OnIteration(runID, rec)
		}
	}
}

// OnComplete implements Observer.
func (o Observers) OnComplete(result SimulationResult, outcome string) {
	for _, obs := range o {
		if obs != nil {
			obs.OnComplete(result, outcome)
		}
	}
}
