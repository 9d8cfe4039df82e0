package engine

import (
	"errors"
	"time"
)

// ErrSearchLimitReached is returned by Solve/SolveOptimal when a time or
// node limit is hit before the search tree is exhausted. The caller may
// still have a usable (if unproven) result: Solve returns whatever
// complete assignment it found, if any; SolveOptimal returns its best
// incumbent.
var ErrSearchLimitReached = errors.New("engine: search limit reached")

// Solver runs propagation-guided depth-first search over a Model.
type Solver struct {
	model     *Model
	nodes     int
	deadline  time.Time
	hasDead   bool
	nodeLimit int
}

// NewSolver returns a Solver bound to m, honoring m.Config()'s time and
// node limits.
func NewSolver(m *Model) *Solver {
	s := &Solver{model: m}
	cfg := m.Config()
	if cfg.TimeLimit > 0 {
		s.deadline = time.Now().Add(cfg.TimeLimit)
		s.hasDead = true
	}
	s.nodeLimit = cfg.NodeLimit
	return s
}

func (s *Solver) limitReached() bool {
	if s.hasDead && time.Now().After(s.deadline) {
		return true
	}
	if s.nodeLimit > 0 && s.nodes >= s.nodeLimit {
		return true
	}
	return false
}

// propagate runs every constraint to a fixed point against state,
// narrowing in place (via state.Set, which copies on first write).
// Returns ok=false as soon as a constraint proves infeasibility.
func (s *Solver) propagate(state *SolverState) bool {
	for {
		anyChanged := false
		for _, c := range s.model.constraints {
			changed, ok := c.Propagate(state)
			if !ok {
				return false
			}
			if changed {
				anyChanged = true
			}
		}
		if !anyChanged {
			return true
		}
	}
}

func (s *Solver) selectBranchVar(state *SolverState) *Var {
	cfg := s.model.Config()
	var best *Var
	bestSize := -1
	for _, v := range s.model.vars {
		d := state.Get(v)
		if d.IsSingleton() {
			continue
		}
		size := d.Count()
		if cfg.VariableOrdering == FirstUnbound {
			return v
		}
		if best == nil || size < bestSize {
			best = v
			bestSize = size
		}
	}
	return best
}

func (s *Solver) branchValues(d Domain, cfg *SolverConfig) []int {
	values := d.Values()
	if cfg.ValueOrdering == DescendingValue {
		for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
			values[i], values[j] = values[j], values[i]
		}
	}
	return values
}

// Solve runs depth-first search and returns the first complete,
// constraint-satisfying assignment found. ok is false if the model is
// infeasible; err is ErrSearchLimitReached if a time/node limit cut the
// search short before that could be determined.
func (s *Solver) Solve() (*SolverState, bool, error) {
	root := NewSolverState(s.model)
	if !s.propagate(root) {
		return nil, false, nil
	}
	return s.dfs(root)
}

func (s *Solver) dfs(state *SolverState) (*SolverState, bool, error) {
	if s.limitReached() {
		return nil, false, ErrSearchLimitReached
	}
	s.nodes++

	branchVar := s.selectBranchVar(state)
	if branchVar == nil {
		return state, true, nil
	}

	cfg := s.model.Config()
	domain := state.Get(branchVar)
	for _, val := range s.branchValues(domain, cfg) {
		child := state.Branch()
		if !child.Set(branchVar, NewSingletonDomain(domain.MaxValue(), val)) {
			continue
		}
		if !s.propagate(child) {
			continue
		}
		result, ok, err := s.dfs(child)
		if err != nil {
			return result, ok, err
		}
		if ok {
			return result, true, nil
		}
	}
	return nil, false, nil
}

// SolveAll enumerates complete assignments by depth-first search, calling
// visit for each. Enumeration stops once visit returns false, once
// maxSolutions have been found (maxSolutions<=0 means unbounded), or once
// a time/node limit is reached. It returns the count of solutions
// visited and ErrSearchLimitReached if a limit cut enumeration short.
func (s *Solver) SolveAll(maxSolutions int, visit func(*SolverState) bool) (int, error) {
	root := NewSolverState(s.model)
	if !s.propagate(root) {
		return 0, nil
	}
	count := 0
	var walk func(*SolverState) (bool, error)
	walk = func(state *SolverState) (bool, error) {
		if s.limitReached() {
			return false, ErrSearchLimitReached
		}
		s.nodes++
		branchVar := s.selectBranchVar(state)
		if branchVar == nil {
			count++
			cont := visit(state)
			if !cont {
				return false, nil
			}
			if maxSolutions > 0 && count >= maxSolutions {
				return false, nil
			}
			return true, nil
		}
		cfg := s.model.Config()
		domain := state.Get(branchVar)
		for _, val := range s.branchValues(domain, cfg) {
			child := state.Branch()
			if !child.Set(branchVar, NewSingletonDomain(domain.MaxValue(), val)) {
				continue
			}
			if !s.propagate(child) {
				continue
			}
			cont, err := walk(child)
			if err != nil {
				return false, err
			}
			if !cont {
				return false, nil
			}
		}
		return true, nil
	}
	_, err := walk(root)
	return count, err
}
