package engine

import "time"

// OptimizeDirection selects whether SolveOptimal searches for the
// minimum or maximum value of the objective Var.
type OptimizeDirection int

const (
	Minimize OptimizeDirection = iota
	Maximize
)

// OptimizeOption configures a SolveOptimal call.
type OptimizeOption func(*optimizeOptions)

type optimizeOptions struct {
	timeLimit time.Duration
	nodeLimit int
}

// WithTimeLimit bounds SolveOptimal's total search time. When the limit
// is reached, SolveOptimal returns its best incumbent so far along with
// ErrSearchLimitReached.
func WithTimeLimit(d time.Duration) OptimizeOption {
	return func(o *optimizeOptions) { o.timeLimit = d }
}

// WithNodeLimit bounds the number of search nodes SolveOptimal explores.
func WithNodeLimit(n int) OptimizeOption {
	return func(o *optimizeOptions) { o.nodeLimit = n }
}

// SolveOptimal is SolveOptimalWithOptions with no limits.
func (s *Solver) SolveOptimal(objective *Var, dir OptimizeDirection) (*SolverState, bool, error) {
	return s.SolveOptimalWithOptions(objective, dir)
}

// SolveOptimalWithOptions runs branch-and-bound search, tightening the
// objective's domain every time a better complete assignment is found.
// It is anytime: if a time or node limit cuts the search short, it
// returns the best incumbent found so far (ok=true if any complete
// assignment was found at all) together with ErrSearchLimitReached.
func (s *Solver) SolveOptimalWithOptions(objective *Var, dir OptimizeDirection, opts ...OptimizeOption) (*SolverState, bool, error) {
	cfg := optimizeOptions{}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.timeLimit > 0 {
		s.deadline = time.Now().Add(cfg.timeLimit)
		s.hasDead = true
	}
	if cfg.nodeLimit > 0 {
		s.nodeLimit = cfg.nodeLimit
	}

	root := NewSolverState(s.model)
	if !s.propagate(root) {
		return nil, false, nil
	}

	var best *SolverState
	var bestValue int
	haveBest := false
	var searchErr error

	var walk func(*SolverState)
	walk = func(state *SolverState) {
		if searchErr != nil {
			return
		}
		if s.limitReached() {
			searchErr = ErrSearchLimitReached
			return
		}
		s.nodes++

		if haveBest {
			bound := state.Get(objective)
			min, hasMin := bound.Min()
			max, hasMax := bound.Max()
			if dir == Minimize && hasMin && min >= bestValue {
				return
			}
			if dir == Maximize && hasMax && max <= bestValue {
				return
			}
		}

		branchVar := s.selectBranchVar(state)
		if branchVar == nil {
			val, _ := state.Get(objective).SingletonValue()
			if !haveBest || (dir == Minimize && val < bestValue) || (dir == Maximize && val > bestValue) {
				best = state
				bestValue = val
				haveBest = true
			}
			return
		}

		bcfg := s.model.Config()
		domain := state.Get(branchVar)
		for _, v := range s.branchValues(domain, bcfg) {
			child := state.Branch()
			if !child.Set(branchVar, NewSingletonDomain(domain.MaxValue(), v)) {
				continue
			}
			if !s.propagate(child) {
				continue
			}
			walk(child)
			if searchErr != nil {
				return
			}
		}
	}

	walk(root)
	return best, haveBest, searchErr
}
