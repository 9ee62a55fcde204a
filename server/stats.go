package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// solveStats counts request outcomes across all clients.
type solveStats struct {
	solves     atomic.Uint64
	noSolution atomic.Uint64
	plans      atomic.Uint64
	planMisses atomic.Uint64
}

func (st *solveStats) recordSolve(found bool) {
	st.solves.Add(1)
	if !found {
		st.noSolution.Add(1)
	}
}

func (st *solveStats) recordPlan(found bool) {
	st.plans.Add(1)
	if !found {
		st.planMisses.Add(1)
	}
}

// HandleStats returns request totals since startup.
func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	// Enable CORS for cross-origin requests
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")

	response := map[string]interface{}{
		"clients":    s.ClientCount(),
		"solves":     s.stats.solves.Load(),
		"noSolution": s.stats.noSolution.Load(),
		"plans":      s.stats.plans.Load(),
		"planMisses": s.stats.planMisses.Load(),
	}

	json.NewEncoder(w).Encode(response)
}
