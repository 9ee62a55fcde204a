package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lab1702/ballistics-web/ballistics"
)

// Strategy names accepted in plan requests
const (
	StrategyMinTime = "min_time"
	StrategyArc     = "arc"
)

// SolveRequest asks for the full ranked solution set of one interception
// problem. ID is echoed back so callers can correlate replies on a shared
// socket; an empty ID gets a server-assigned UUID.
type SolveRequest struct {
	ID     string                   `json:"id,omitempty"`
	Params ballistics.LaunchParams  `json:"params"`
	Config *ballistics.SolverConfig `json:"config,omitempty"`
}

// PlanRequest asks a launch strategy for a single chosen solution.
type PlanRequest struct {
	ID        string                   `json:"id,omitempty"`
	Params    ballistics.LaunchParams  `json:"params"`
	Config    *ballistics.SolverConfig `json:"config,omitempty"`
	Strategy  string                   `json:"strategy"`
	ArcHeight float64                  `json:"arcHeight,omitempty"`
}

// SolveResponse carries a full solver result back to the caller.
type SolveResponse struct {
	ID     string                  `json:"id"`
	Result ballistics.SolverResult `json:"result"`
}

// PlanResponse carries a strategy's pick. Solution is nil when the search
// found no feasible interception.
type PlanResponse struct {
	ID       string                        `json:"id"`
	Solution *ballistics.InterceptSolution `json:"solution,omitempty"`
	Found    bool                          `json:"found"`
}

// ErrorResponse reports a rejected request.
type ErrorResponse struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

// validateParams rejects launch parameters that violate the caller
// contract before they reach the core.
func validateParams(p ballistics.LaunchParams) error {
	if !(p.MaxSpeed > 0) {
		return fmt.Errorf("maxSpeed must be positive, got %g", p.MaxSpeed)
	}
	if !(p.Gravity > 0) {
		return fmt.Errorf("gravity must be a positive magnitude, got %g", p.Gravity)
	}
	if p.Damping < 0 || math.IsNaN(p.Damping) {
		return fmt.Errorf("damping must not be negative, got %g", p.Damping)
	}
	for _, v := range []float64{
		p.LaunchPos.X, p.LaunchPos.Y, p.LaunchPos.Z,
		p.Target.Position.X, p.Target.Position.Y, p.Target.Position.Z,
		p.Target.Velocity.X, p.Target.Velocity.Y, p.Target.Velocity.Z,
		p.Target.Acceleration.X, p.Target.Acceleration.Y, p.Target.Acceleration.Z,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("positions, velocities and accelerations must be finite")
		}
	}
	return nil
}

// resolveConfig picks the request's config override if present, otherwise
// the service default, validating overrides here so the core never has to.
// The sample cap bounds worst-case solver CPU per request.
func (s *Server) resolveConfig(override *ballistics.SolverConfig) (ballistics.SolverConfig, error) {
	if override == nil {
		return s.cfg.Solver, nil
	}
	if err := override.Validate(); err != nil {
		return ballistics.SolverConfig{}, fmt.Errorf("config override: %w", err)
	}
	if s.cfg.MaxConfigSamples > 0 {
		samples := (override.MaxTime - override.MinTime) / override.FineStep
		if samples > float64(s.cfg.MaxConfigSamples) {
			return ballistics.SolverConfig{}, fmt.Errorf(
				"config override implies %.0f samples, above the server cap of %d",
				samples, s.cfg.MaxConfigSamples)
		}
	}
	return *override, nil
}

// solve runs the full search for a validated request.
func (s *Server) solve(req SolveRequest) (SolveResponse, error) {
	if err := validateParams(req.Params); err != nil {
		return SolveResponse{}, err
	}
	config, err := s.resolveConfig(req.Config)
	if err != nil {
		return SolveResponse{}, err
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	result := ballistics.SolveIntercept(req.Params, config)
	s.stats.recordSolve(result.Best != nil)
	s.logSolve(id, req.Params, result)

	return SolveResponse{ID: id, Result: result}, nil
}

// plan runs a launch strategy for a validated request.
func (s *Server) plan(req PlanRequest) (PlanResponse, error) {
	if err := validateParams(req.Params); err != nil {
		return PlanResponse{}, err
	}
	config, err := s.resolveConfig(req.Config)
	if err != nil {
		return PlanResponse{}, err
	}

	var strategy ballistics.LaunchStrategy
	switch req.Strategy {
	case StrategyMinTime:
		strategy = ballistics.MinTimeLaunch{}
	case StrategyArc:
		if !(req.ArcHeight > 0) {
			return PlanResponse{}, fmt.Errorf("arc strategy needs a positive arcHeight, got %g", req.ArcHeight)
		}
		strategy = ballistics.ArcLaunch{ArcHeight: req.ArcHeight}
	default:
		return PlanResponse{}, fmt.Errorf("unknown strategy %q", req.Strategy)
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	solution, found := strategy.Solve(req.Params, config)
	s.stats.recordPlan(found)

	resp := PlanResponse{ID: id, Found: found}
	if found {
		resp.Solution = &solution
	}
	return resp, nil
}

// handleSolve answers a websocket solve request.
func (c *Client) handleSolve(data json.RawMessage) {
	var req SolveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendError("", "malformed solve request: "+err.Error())
		return
	}

	resp, err := c.server.solve(req)
	if err != nil {
		c.sendError(req.ID, err.Error())
		return
	}
	c.trySend(ServerMessage{Type: MsgTypeResult, Data: resp})
}

// handlePlan answers a websocket plan request.
func (c *Client) handlePlan(data json.RawMessage) {
	var req PlanRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendError("", "malformed plan request: "+err.Error())
		return
	}

	resp, err := c.server.plan(req)
	if err != nil {
		c.sendError(req.ID, err.Error())
		return
	}
	c.trySend(ServerMessage{Type: MsgTypeChosen, Data: resp})
}

// HandleSolve is the one-shot HTTP variant of the websocket solve message:
// POST a SolveRequest, get a SolveResponse.
func (s *Server) HandleSolve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(ErrorResponse{Message: "POST required"})
		return
	}

	var req SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Message: "malformed solve request: " + err.Error()})
		return
	}

	resp, err := s.solve(req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{ID: req.ID, Message: err.Error()})
		return
	}
	json.NewEncoder(w).Encode(resp)
}

// logSolve emits the per-solve debug line when solve debugging is on.
func (s *Server) logSolve(id string, params ballistics.LaunchParams, result ballistics.SolverResult) {
	if !DebugSolves {
		return
	}
	fields := []zap.Field{
		zap.String("id", id),
		zap.Float64("maxSpeed", params.MaxSpeed),
		zap.Int("solutions", len(result.Solutions)),
	}
	if result.Best != nil {
		fields = append(fields,
			zap.Float64("bestFlightTime", result.Best.FlightTime),
			zap.Float64("bestSpeed", result.Best.Speed))
	}
	s.log.Debug("solve", fields...)
}
