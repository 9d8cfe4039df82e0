// Package dnf holds the disjunctive-normal-form types a parsed
// prerequisite/co-requisite/post-requisite/credit-restriction
// expression is represented as. Producing these from a raw expression
// string is the DNF Expression Parser's job, an external collaborator
// out of this repository's scope; this package only defines the shape
// the interpreter in internal/prereq consumes.
package dnf

// Expression is a disjunction of Clauses: clause1 OR clause2 OR ...
type Expression []Clause

// Clause is a conjunction of Atoms: atom1 AND atom2 AND ...
type Clause []string

// IsEmpty reports whether the expression has no clauses (equivalently:
// the course has no such requirement).
func (e Expression) IsEmpty() bool { return len(e) == 0 }
