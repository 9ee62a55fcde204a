package ballistics

import (
	"math"
	"sort"
)

// dedupQuantum is the flight-time granularity used when deduplicating
// candidate solutions. Two candidates whose flight times round to the same
// millisecond are treated as the same solution. This collapses the
// near-identical samples adjacent search steps produce; it is a tunable
// tie-breaking policy, not a uniqueness guarantee, and can in principle
// merge two genuinely distinct solutions under 1ms apart.
const dedupQuantum = 1e-3

// LaunchParams describes one interception problem. Built fresh by the
// caller per decision and treated as immutable for the duration of the
// solve.
type LaunchParams struct {
	// LaunchPos is the projectile's release point.
	LaunchPos Vec3 `json:"launchPos"`
	// Target is the mover to intercept.
	Target MovingTarget `json:"target"`
	// MaxSpeed is the launcher's speed limit, > 0.
	MaxSpeed float64 `json:"maxSpeed"`
	// Gravity is the downward acceleration magnitude, > 0.
	Gravity float64 `json:"gravity"`
	// Damping is the linear air-drag coefficient, >= 0.
	Damping float64 `json:"damping"`
}

// InterceptSolution is one feasible way to hit the target: launch with
// LaunchVelocity now and the projectile meets the target at InterceptPos
// after FlightTime seconds.
type InterceptSolution struct {
	LaunchVelocity Vec3    `json:"launchVelocity"`
	InterceptPos   Vec3    `json:"interceptPos"`
	FlightTime     float64 `json:"flightTime"`
	Speed          float64 `json:"speed"`
	Valid          bool    `json:"valid"`
}

// SolverResult is the ranked outcome of a solve. Solutions is ordered by
// ascending flight time; Best points at the first entry, or is nil when no
// feasible interception exists in the searched time domain.
type SolverResult struct {
	Solutions []InterceptSolution `json:"solutions"`
	Best      *InterceptSolution  `json:"best,omitempty"`
}

// timeInterval is a contiguous range of flight times whose required launch
// speed stays within MaxSpeed.
type timeInterval struct {
	start, end float64
}

// scanState is the coarse-scan state machine.
type scanState int

const (
	// stateSearching means the scan is between feasible runs.
	stateSearching scanState = iota
	// stateInFeasibleRun means an interval is open and awaiting its end.
	stateInFeasibleRun
)

// SolveIntercept searches the flight-time domain [MinTime, MaxTime] for
// launch times whose required speed stays within params.MaxSpeed.
//
// Phase 1 samples the domain at CoarseStep, tracking feasible runs with a
// two-state machine and refining each run boundary by fixed-iteration
// bisection. Phase 2 rescans every feasible interval at FineStep to locate
// the minimum-speed time, then assembles candidates: the earliest feasible
// time, the minimum-speed time, and each interval boundary that passes its
// own feasibility check, deduplicated on flight time rounded to the
// nearest millisecond and sorted ascending by flight time.
//
// The search is deterministic and never fails: an empty domain of feasible
// times yields an empty result with a nil Best.
func SolveIntercept(params LaunchParams, config SolverConfig) SolverResult {
	intervals := findFeasibleIntervals(params, config)
	if len(intervals) == 0 {
		return SolverResult{}
	}

	// Phase 2: fine scan inside the feasible intervals.
	earliest := intervals[0].start
	minSpeedTime := earliest
	minSpeed := math.Inf(1)
	for _, iv := range intervals {
		if iv.start < earliest {
			earliest = iv.start
		}
		for i := 0; ; i++ {
			t := iv.start + float64(i)*config.FineStep
			if t > iv.end {
				break
			}
			if speed := requiredSpeed(params, t); speed < minSpeed {
				minSpeed = speed
				minSpeedTime = t
			}
		}
	}

	solutions := []InterceptSolution{makeSolution(params, earliest)}
	solutions = appendIfNewTime(solutions, makeSolution(params, minSpeedTime))
	for _, iv := range intervals {
		for _, t := range [2]float64{iv.start, iv.end} {
			if sol := makeSolution(params, t); sol.Valid {
				solutions = appendIfNewTime(solutions, sol)
			}
		}
	}

	sort.Slice(solutions, func(i, j int) bool {
		return solutions[i].FlightTime < solutions[j].FlightTime
	})

	return SolverResult{Solutions: solutions, Best: &solutions[0]}
}

// findFeasibleIntervals is the phase-1 coarse scan. It walks the time
// domain at CoarseStep and emits one interval per contiguous feasible run,
// with run boundaries sharpened by bisection. A run still open when the
// scan ends is closed at MaxTime.
func findFeasibleIntervals(params LaunchParams, config SolverConfig) []timeInterval {
	var intervals []timeInterval
	state := stateSearching
	openStart := 0.0
	prevT := 0.0

	for i := 0; ; i++ {
		t := config.MinTime + float64(i)*config.CoarseStep
		if t > config.MaxTime {
			break
		}
		feasible := requiredSpeed(params, t) <= params.MaxSpeed

		switch state {
		case stateSearching:
			if feasible {
				if i == 0 {
					// The domain starts inside a feasible run.
					openStart = t
				} else {
					openStart = refineBoundary(params, t, prevT, config.BisectIterations)
				}
				state = stateInFeasibleRun
			}
		case stateInFeasibleRun:
			if !feasible {
				end := refineBoundary(params, prevT, t, config.BisectIterations)
				intervals = append(intervals, timeInterval{start: openStart, end: end})
				state = stateSearching
			}
		}
		prevT = t
	}

	if state == stateInFeasibleRun {
		intervals = append(intervals, timeInterval{start: openStart, end: config.MaxTime})
	}
	return intervals
}

// refineBoundary bisects between a known-feasible and a known-infeasible
// time to sharpen a feasibility boundary. It always runs the configured
// number of halving steps (fixed, deterministic cost; no tolerance check)
// and returns the feasible side of the final bracket.
func refineBoundary(params LaunchParams, feasibleT, infeasibleT float64, iterations int) float64 {
	for i := 0; i < iterations; i++ {
		mid := 0.5 * (feasibleT + infeasibleT)
		if requiredSpeed(params, mid) <= params.MaxSpeed {
			feasibleT = mid
		} else {
			infeasibleT = mid
		}
	}
	return feasibleT
}

// requiredSpeed returns the launch speed needed to intercept the target at
// flight time t.
func requiredSpeed(params LaunchParams, t float64) float64 {
	intercept := params.Target.Predict(t)
	return ComputeLaunchVelocity(params.LaunchPos, intercept, t, params.Gravity, params.Damping).Length()
}

// makeSolution builds the full solution for flight time t, flagging it
// invalid when the required speed exceeds the launcher's limit.
func makeSolution(params LaunchParams, t float64) InterceptSolution {
	intercept := params.Target.Predict(t)
	velocity := ComputeLaunchVelocity(params.LaunchPos, intercept, t, params.Gravity, params.Damping)
	speed := velocity.Length()
	return InterceptSolution{
		LaunchVelocity: velocity,
		InterceptPos:   intercept,
		FlightTime:     t,
		Speed:          speed,
		Valid:          speed <= params.MaxSpeed,
	}
}

// appendIfNewTime appends sol unless an existing candidate shares its
// flight time when rounded to dedupQuantum. The candidate set stays tiny
// (rarely above five entries) so a linear scan beats a map here.
func appendIfNewTime(solutions []InterceptSolution, sol InterceptSolution) []InterceptSolution {
	key := math.Round(sol.FlightTime / dedupQuantum)
	for _, existing := range solutions {
		if math.Round(existing.FlightTime/dedupQuantum) == key {
			return solutions
		}
	}
	return append(solutions, sol)
}
