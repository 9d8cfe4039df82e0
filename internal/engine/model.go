package engine

import "fmt"

// Constraint narrows the domains of the Vars it touches. Propagate is
// called repeatedly until every constraint in a Model reaches a fixed
// point (no further narrowing possible) or one of them detects an empty
// domain, at which point the branch is infeasible.
type Constraint interface {
	// Variables returns every Var this constraint reads or narrows.
	Variables() []*Var

	// Propagate narrows state's domains to remove values that cannot
	// participate in any solution given the constraint, and reports
	// whether it changed anything. It returns ok=false the moment it
	// proves the constraint can never hold under state's domains.
	Propagate(state *SolverState) (changed bool, ok bool)

	// Type identifies the constraint kind for logging and metrics.
	Type() string
}

// Model is a CSP: a set of Vars with their initial Domains plus the
// Constraints linking them. Models are built once, then solved; the
// Solver never mutates a Model, only the per-branch SolverState.
type Model struct {
	vars        []*Var
	constraints []Constraint
	config      *SolverConfig
}

// NewModel returns an empty model with default solver configuration.
func NewModel() *Model {
	return &Model{config: DefaultSolverConfig()}
}

// NewVariable creates and registers a Var with the given domain.
func (m *Model) NewVariable(domain Domain) *Var {
	v := NewVar(len(m.vars), domain)
	m.vars = append(m.vars, v)
	return v
}

// NewNamedVariable creates and registers a Var with a debug name.
func (m *Model) NewNamedVariable(domain Domain, name string) *Var {
	v := NewNamedVar(len(m.vars), domain, name)
	m.vars = append(m.vars, v)
	return v
}

// AddConstraint registers a constraint against the model.
func (m *Model) AddConstraint(c Constraint) { m.constraints = append(m.constraints, c) }

// Variables returns every Var registered so far. Callers must not
// mutate the returned slice.
func (m *Model) Variables() []*Var { return m.vars }

// Constraints returns every Constraint registered so far.
func (m *Model) Constraints() []Constraint { return m.constraints }

// Config returns the model's solver configuration.
func (m *Model) Config() *SolverConfig { return m.config }

// SetConfig replaces the model's solver configuration.
func (m *Model) SetConfig(c *SolverConfig) {
	if c != nil {
		m.config = c
	}
}

func (m *Model) String() string {
	return fmt.Sprintf("Model{vars=%d constraints=%d}", len(m.vars), len(m.constraints))
}
