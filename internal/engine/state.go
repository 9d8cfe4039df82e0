package engine

// SolverState holds the narrowed Domain for every Var along one branch
// of the search tree. States are copy-on-write: Branch returns a new
// state sharing the parent's domain slice until a write occurs.
type SolverState struct {
	domains []Domain
	owned   bool
}

// NewSolverState seeds a state from a Model's initial Var domains.
func NewSolverState(m *Model) *SolverState {
	domains := make([]Domain, len(m.vars))
	for i, v := range m.vars {
		domains[i] = v.Domain()
	}
	return &SolverState{domains: domains, owned: true}
}

// Get returns the current domain of the Var with the given ID.
func (s *SolverState) Get(v *Var) Domain { return s.domains[v.ID()] }

// Set narrows the domain of the Var with the given ID. Returns false
// without modifying state if the new domain is empty.
func (s *SolverState) Set(v *Var, d Domain) bool {
	if d.IsEmpty() {
		return false
	}
	if !s.owned {
		cp := make([]Domain, len(s.domains))
		copy(cp, s.domains)
		s.domains = cp
		s.owned = true
	}
	s.domains[v.ID()] = d
	return true
}

// Branch returns a new state that shares this state's domains until one
// of them is narrowed.
func (s *SolverState) Branch() *SolverState {
	return &SolverState{domains: s.domains, owned: false}
}

// IsComplete reports whether every domain in state is a singleton.
func (s *SolverState) IsComplete() bool {
	for _, d := range s.domains {
		if !d.IsSingleton() {
			return false
		}
	}
	return true
}

// Assignment extracts the singleton value of every Var once IsComplete
// is true. Vars whose domain is not a singleton are omitted.
func (s *SolverState) Assignment() map[int]int {
	out := make(map[int]int, len(s.domains))
	for id, d := range s.domains {
		if v, ok := d.SingletonValue(); ok {
			out[id] = v
		}
	}
	return out
}
