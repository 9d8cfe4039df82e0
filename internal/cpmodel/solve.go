package cpmodel

import (
	"time"

	"github.com/campusforge/gradplan/internal/engine"
)

// Status is the outcome every solve reports.
type Status int

const (
	StatusInfeasible Status = iota
	StatusFeasible
	StatusUnknown
)

func (s Status) String() string {
	switch s {
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	default:
		return "UNKNOWN"
	}
}

// Solution is a decoded, real-valued assignment plus solve metadata.
type Solution struct {
	Status    Status
	Values    map[int]int // engine.Var.ID() -> real value
	Objective int
	Elapsed   time.Duration
}

// Solve runs plain feasibility search (no objective).
func (m *Model) Solve(timeLimit time.Duration) Solution {
	start := time.Now()
	cfg := m.eng.Config()
	cfg.TimeLimit = timeLimit
	m.eng.SetConfig(cfg)

	solver := engine.NewSolver(m.eng)
	state, ok, err := solver.Solve()
	sol := Solution{Elapsed: time.Since(start)}
	switch {
	case err == engine.ErrSearchLimitReached:
		sol.Status = StatusUnknown
	case !ok:
		sol.Status = StatusInfeasible
	default:
		sol.Status = StatusFeasible
		sol.Values = decode(state)
	}
	return sol
}

// SolveOptimal runs branch-and-bound search maximizing (or minimizing)
// objective within timeLimit. On limit expiry the best incumbent found
// so far is returned with StatusUnknown.
func (m *Model) SolveOptimal(objective *IntVar, maximize bool, timeLimit time.Duration) Solution {
	start := time.Now()
	solver := engine.NewSolver(m.eng)
	dir := engine.Minimize
	if maximize {
		dir = engine.Maximize
	}
	state, ok, err := solver.SolveOptimalWithOptions(objective.v, dir, engine.WithTimeLimit(timeLimit))
	sol := Solution{Elapsed: time.Since(start)}
	switch {
	case !ok && err == engine.ErrSearchLimitReached:
		sol.Status = StatusUnknown
	case !ok:
		sol.Status = StatusInfeasible
	case err == engine.ErrSearchLimitReached:
		sol.Status = StatusUnknown
		sol.Values = decode(state)
		sol.Objective = objective.ValueIn(sol.Values)
	default:
		sol.Status = StatusFeasible
		sol.Values = decode(state)
		sol.Objective = objective.ValueIn(sol.Values)
	}
	return sol
}

// SolveAll enumerates up to maxSolutions complete assignments, invoking
// visit for each (stop early by returning false). The Timetable solver's
// multi-solution enumeration does not use it; it calls Solve repeatedly.
func (m *Model) SolveAll(maxSolutions int, visit func(Solution) bool) int {
	solver := engine.NewSolver(m.eng)
	count, _ := solver.SolveAll(maxSolutions, func(state *engine.SolverState) bool {
		return visit(Solution{Status: StatusFeasible, Values: decode(state)})
	})
	return count
}

func decode(state *engine.SolverState) map[int]int {
	out := make(map[int]int)
	for id, v := range state.Assignment() {
		out[id] = fromEngine(v)
	}
	return out
}
