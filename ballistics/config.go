package ballistics

import "fmt"

// SolverConfig controls the granularity and bounds of the flight-time
// search. It trades precision against CPU cost: phase 1 samples about
// (MaxTime-MinTime)/CoarseStep points and phase 2 resamples every feasible
// interval at FineStep. Callers running one solve per agent per frame
// should size these to their frame budget.
type SolverConfig struct {
	// CoarseStep is the phase-1 sampling interval in seconds.
	CoarseStep float64 `json:"coarseStep" yaml:"coarse_step"`
	// FineStep is the phase-2 sampling interval in seconds. Must not
	// exceed CoarseStep.
	FineStep float64 `json:"fineStep" yaml:"fine_step"`
	// MinTime and MaxTime bound the searched flight-time domain.
	MinTime float64 `json:"minTime" yaml:"min_time"`
	MaxTime float64 `json:"maxTime" yaml:"max_time"`
	// BisectIterations is the fixed number of halving steps used to
	// refine each feasibility boundary.
	BisectIterations int `json:"bisectIterations" yaml:"bisect_iterations"`
}

// DefaultSolverConfig returns the standard search configuration. The
// result is a fresh value each call; there is no shared mutable default.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		CoarseStep:       0.05,
		FineStep:         0.005,
		MinTime:          0.1,
		MaxTime:          5.0,
		BisectIterations: 10,
	}
}

// Validate reports the first violated configuration invariant. It is meant
// to run once where configuration is loaded; SolveIntercept itself does not
// re-check these per call.
func (c SolverConfig) Validate() error {
	if c.CoarseStep <= 0 {
		return fmt.Errorf("coarse step must be positive, got %g", c.CoarseStep)
	}
	if c.FineStep <= 0 || c.FineStep > c.CoarseStep {
		return fmt.Errorf("fine step must be in (0, %g], got %g", c.CoarseStep, c.FineStep)
	}
	if c.MinTime < 0 {
		return fmt.Errorf("min time must not be negative, got %g", c.MinTime)
	}
	if c.MinTime >= c.MaxTime {
		return fmt.Errorf("min time %g must be below max time %g", c.MinTime, c.MaxTime)
	}
	if c.BisectIterations < 1 {
		return fmt.Errorf("bisect iterations must be at least 1, got %d", c.BisectIterations)
	}
	return nil
}
