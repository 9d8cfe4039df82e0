// Package prereq interprets a parsed DNF expression against a
// dependent-variable Library, producing the satisfied-boolean and any
// unknown-atom assumption booleans a course's prerequisite, co-requisite,
// or post-requisite list requires.
package prereq

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/campusforge/gradplan/internal/cpmodel"
	"github.com/campusforge/gradplan/internal/depvar"
	"github.com/campusforge/gradplan/internal/dnf"
)

// Relation selects which dependent-variable ordering a course-code atom
// resolves to.
type Relation int

const (
	RelationPrerequisite Relation = iota
	RelationCoRequisite
	RelationPostRequisite
	RelationCreditRestriction
)

var (
	courseCodeRe = regexp.MustCompile(`^[a-z]{3,4}\d{4}u$`)
	standingRe   = regexp.MustCompile(`^(first|second|third|fourth)_year_standing$`)
	creditsRe    = regexp.MustCompile(`^(\d+)_credit_hours$`)
)

// Interpreter builds the "course_taken -> requirement satisfied" boolean
// for a course's DNF expression, tracking unknown atoms so the
// objective can minimize their count.
type Interpreter struct {
	model *cpmodel.Model
	lib   *depvar.Library

	unknowns []*cpmodel.BoolVar
}

// New builds an Interpreter over a Library shared with the rest of the
// solve.
func New(model *cpmodel.Model, lib *depvar.Library) *Interpreter {
	return &Interpreter{model: model, lib: lib}
}

// UnknownAssumptions returns every unknown-prerequisite assumption
// boolean created so far, for the objective to minimize.
func (in *Interpreter) UnknownAssumptions() []*cpmodel.BoolVar { return in.unknowns }

// Interpret builds the satisfied-boolean for course's expr under the
// given Relation and enforces "course_taken -> satisfied" as a hard
// constraint (the caller supplies `taken` since the Library's taken map
// already has it, but passing it explicitly keeps this package
// decoupled from the grid's internal shape).
func (in *Interpreter) Interpret(course string, expr dnf.Expression, relation Relation, taken *cpmodel.BoolVar) *cpmodel.BoolVar {
	satisfied := in.Satisfied(course, expr, relation)
	if taken != nil {
		in.model.ImpliesBoolTrue(taken, satisfied)
	}
	return satisfied
}

// Satisfied builds (without enforcing course_taken->satisfied) the
// boolean that is true when expr holds for course, given relation's atom
// interpretation. An empty expression is vacuously satisfied.
func (in *Interpreter) Satisfied(course string, expr dnf.Expression, relation Relation) *cpmodel.BoolVar {
	if expr.IsEmpty() {
		return in.model.NewConstBool(true)
	}
	clauseVars := make([]*cpmodel.BoolVar, 0, len(expr))
	for ci, clause := range expr {
		witnesses := make([]*cpmodel.BoolVar, 0, len(clause))
		for _, atom := range clause {
			witnesses = append(witnesses, in.witness(course, atom, relation))
		}
		name := fmt.Sprintf("clause_%s_%d", course, ci)
		clauseVars = append(clauseVars, in.lib.AllTrue(witnesses, name))
	}
	return in.model.Or(clauseVars, "dnf_"+course)
}

func (in *Interpreter) witness(course, atom string, relation Relation) *cpmodel.BoolVar {
	switch {
	case courseCodeRe.MatchString(atom):
		switch relation {
		case RelationCoRequisite:
			return in.lib.TakenBeforeOrConcurrently(atom, course)
		case RelationPostRequisite:
			return in.lib.TakenAfter(atom, course)
		default:
			return in.lib.TakenBefore(atom, course)
		}
	case standingRe.MatchString(atom):
		m := standingRe.FindStringSubmatch(atom)
		return in.lib.StandingMet(m[1], course)
	case creditsRe.MatchString(atom):
		m := creditsRe.FindStringSubmatch(atom)
		n, _ := strconv.Atoi(m[1])
		return in.lib.CreditsPrereqMet(n, course)
	default:
		unk := in.model.NewBoolVar("unknown_prereq_" + course + "_" + atom)
		in.unknowns = append(in.unknowns, unk)
		return unk
	}
}
