// Package simulation provides a test harness for validating the dynamics of
// the stake network solver across many scenarios.
//
// The harness exercises the real network.Solver with no mocks. Scenarios are
// Go values (or YAML scenario files) that fix stakes, constants and
// iteration bounds; sweeps vary one input across a range. Every run is
// observed, so assertions can compare what observers saw with the returned
// trajectory.
//
// Usage:
//
//	func TestDoubtLowersScore(t *testing.T) {
//	    r := simulation.NewRunner(t)
//	    points := r.Sweep(simulation.Sweep{
//	        Base:   simulation.Baseline(),
//	        Param:  "x_d",
//	        Values: []float64{0, 1, 2, 3, 4, 5},
//	    })
//	    simulation.AssertMonotone(t, points, simulation.FirstQ, simulation.NonIncreasing)
//	}
package simulation
