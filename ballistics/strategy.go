package ballistics

import "math"

// LaunchStrategy picks a single launch solution for a set of parameters.
// Implementations are stateless values; the ok result is false when no
// feasible interception exists in the searched domain.
type LaunchStrategy interface {
	Solve(params LaunchParams, config SolverConfig) (InterceptSolution, bool)
}

// MinTimeLaunch throws as soon as physically possible: it returns the
// shortest-flight-time solution of the full search.
type MinTimeLaunch struct{}

// Solve returns the best (earliest) solution of SolveIntercept.
func (MinTimeLaunch) Solve(params LaunchParams, config SolverConfig) (InterceptSolution, bool) {
	result := SolveIntercept(params, config)
	if result.Best == nil {
		return InterceptSolution{}, false
	}
	return *result.Best, true
}

// ArcLaunch throws with a fixed parabola apex height, trading speed for a
// consistent arc. ArcHeight is the desired apex above the launch point in
// meters, > 0.
type ArcLaunch struct {
	ArcHeight float64
}

// Solve computes the ideal flight time for the configured apex from the
// symmetric-parabola relation h = g*T²/8 (a projectile landing at its
// launch height peaks at g*T²/8), so idealT = sqrt(8h/g).
//
// The direct closed-form velocity at idealT is tried first; when its speed
// fits within MaxSpeed that solution is returned as-is, skipping the full
// search. Otherwise the full search runs and the solution whose flight
// time is closest to idealT wins. ok is false only when that search comes
// back empty.
func (a ArcLaunch) Solve(params LaunchParams, config SolverConfig) (InterceptSolution, bool) {
	idealT := math.Sqrt(8 * a.ArcHeight / params.Gravity)

	// Fast path: the common case is that the comfortable arc is reachable.
	if direct := makeSolution(params, idealT); direct.Valid {
		return direct, true
	}

	result := SolveIntercept(params, config)
	if result.Best == nil {
		return InterceptSolution{}, false
	}

	closest := result.Solutions[0]
	for _, sol := range result.Solutions[1:] {
		if math.Abs(sol.FlightTime-idealT) < math.Abs(closest.FlightTime-idealT) {
			closest = sol
		}
	}
	return closest, true
}
