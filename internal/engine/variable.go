package engine

import "fmt"

// Var is a finite-domain decision variable. Its initial Domain is set at
// construction time via Model.NewVariable; the Solver never mutates a
// Var in place, instead tracking narrowed domains per search node in a
// SolverState (see solver.go).
type Var struct {
	id     int
	name   string
	domain Domain
}

// NewVar creates a Var with the given initial domain. Most callers go
// through Model.NewVariable instead, which also registers the Var.
func NewVar(id int, domain Domain) *Var {
	return &Var{id: id, domain: domain, name: fmt.Sprintf("v%d", id)}
}

// NewNamedVar creates a Var with an explicit debug name.
func NewNamedVar(id int, domain Domain, name string) *Var {
	return &Var{id: id, domain: domain, name: name}
}

func (v *Var) ID() int        { return v.id }
func (v *Var) Name() string   { return v.name }
func (v *Var) Domain() Domain { return v.domain }
