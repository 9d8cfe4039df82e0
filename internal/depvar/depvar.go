// Package depvar is the dependent-variable library: memoized
// constructors for derived predicates used throughout the
// Graduation Requirements Solver, the Feasibility/Diagnosis Solver, and
// the DNF prerequisite interpreter. Every factory is keyed by a
// course-pair or course-level tuple; a cache miss builds the variable
// and its defining constraints once, a hit returns the cached variable,
// so thousands of prerequisite atoms referencing the same pair never
// duplicate model size.
package depvar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/campusforge/gradplan/internal/catalog"
	"github.com/campusforge/gradplan/internal/cpmodel"
	"github.com/campusforge/gradplan/internal/semester"
)

// ConcurrencyVariant selects which of the two TakenBeforeOrConcurrently
// reification directions a Library enforces: the planning variant
// conditions the ordering only on the later course being taken, the
// feasibility
// variant conditions on both courses being taken (so an untaken b never
// manufactures spurious infeasibility).
type ConcurrencyVariant int

const (
	VariantPlanning ConcurrencyVariant = iota
	VariantFeasibility
)

// Library builds and caches dependent variables against one solve's
// Model, catalog, and taken/taken_in grid. A Library must not outlive
// the solve whose Model it was built against: its cached variables
// reference that model.
type Library struct {
	model   *cpmodel.Model
	cat     *catalog.Store
	numSems int // N, real semesters 1..N
	variant ConcurrencyVariant

	taken   map[string]*cpmodel.BoolVar
	takenIn map[string]*cpmodel.IntVar

	falseBool *cpmodel.BoolVar

	allTrueCache  map[string]*cpmodel.BoolVar
	allTakenCache map[string]*cpmodel.BoolVar
	beforeCache   map[[2]string]*cpmodel.BoolVar
	concCache     map[[2]string]*cpmodel.BoolVar
	afterCache    map[[2]string]*cpmodel.BoolVar
	standingCache map[string]*cpmodel.BoolVar
	creditsBySem  map[int]*cpmodel.IntVar
	creditsPrereq map[string]*cpmodel.BoolVar
}

// New builds a Library over an already-constructed taken/taken_in grid
// (see internal/planner and internal/diagnose, which build the grid
// booleans and call into this library to layer prerequisite and filter
// logic on top).
func New(model *cpmodel.Model, cat *catalog.Store, numSemesters int, variant ConcurrencyVariant, taken map[string]*cpmodel.BoolVar, takenIn map[string]*cpmodel.IntVar) *Library {
	return &Library{
		model:   model,
		cat:     cat,
		numSems: numSemesters,
		variant: variant,
		taken:   taken,
		takenIn: takenIn,

		falseBool: model.NewConstBool(false),

		allTrueCache:  make(map[string]*cpmodel.BoolVar),
		allTakenCache: make(map[string]*cpmodel.BoolVar),
		beforeCache:   make(map[[2]string]*cpmodel.BoolVar),
		concCache:     make(map[[2]string]*cpmodel.BoolVar),
		afterCache:    make(map[[2]string]*cpmodel.BoolVar),
		standingCache: make(map[string]*cpmodel.BoolVar),
		creditsBySem:  make(map[int]*cpmodel.IntVar),
		creditsPrereq: make(map[string]*cpmodel.BoolVar),
	}
}

func tupleKey(codes []string) string {
	cp := append([]string(nil), codes...)
	sort.Strings(cp)
	return strings.Join(cp, "|")
}

// AllTrue returns a boolean that is true exactly when every var in vars
// is true.
func (l *Library) AllTrue(vars []*cpmodel.BoolVar, cacheKey string) *cpmodel.BoolVar {
	if v, ok := l.allTrueCache[cacheKey]; ok {
		return v
	}
	if len(vars) == 0 {
		v := l.model.NewConstBool(true)
		l.allTrueCache[cacheKey] = v
		return v
	}
	count := l.model.CountTrue(vars, 0, len(vars), "alltrue_count_"+cacheKey)
	target := l.model.NewConstInt(len(vars))
	v := l.model.ReifiedComparison(count, target, cpmodel.GE, "alltrue_"+cacheKey)
	l.allTrueCache[cacheKey] = v
	return v
}

// AllTaken returns AllTrue(taken[c] for c in set), memoized by the
// sorted course-set tuple. A course absent from the catalog pins the
// whole result false rather than aborting the solve.
func (l *Library) AllTaken(codes []string) *cpmodel.BoolVar {
	key := tupleKey(codes)
	if v, ok := l.allTakenCache[key]; ok {
		return v
	}
	vars := make([]*cpmodel.BoolVar, 0, len(codes))
	for _, c := range codes {
		tv, ok := l.taken[c]
		if !ok {
			l.allTakenCache[key] = l.falseBool
			return l.falseBool
		}
		vars = append(vars, tv)
	}
	v := l.AllTrue(vars, "allTaken:"+key)
	l.allTakenCache[key] = v
	return v
}

// TakenBefore returns v where v=true implies both a and b are taken and
// taken_in(a) < taken_in(b). v is used positively as a prerequisite
// witness; when false the relation is left unconstrained.
func (l *Library) TakenBefore(a, b string) *cpmodel.BoolVar {
	key := [2]string{a, b}
	if v, ok := l.beforeCache[key]; ok {
		return v
	}
	ai, aok := l.takenIn[a]
	bi, bok := l.takenIn[b]
	if !aok || !bok {
		l.beforeCache[key] = l.falseBool
		return l.falseBool
	}
	v := l.model.NewBoolVar(fmt.Sprintf("taken_before_%s_%s", a, b))
	l.model.ImpliesBoolTrue(v, l.AllTaken([]string{a, b}))
	l.model.ImpliesComparison(v, ai, bi, cpmodel.LT)
	l.beforeCache[key] = v
	return v
}

// TakenBeforeOrConcurrently returns v where v=true implies
// taken_in(a) <= taken_in(b), conditioned on taken-ness per the
// Library's ConcurrencyVariant.
func (l *Library) TakenBeforeOrConcurrently(a, b string) *cpmodel.BoolVar {
	key := [2]string{a, b}
	if v, ok := l.concCache[key]; ok {
		return v
	}
	ai, aok := l.takenIn[a]
	bi, bok := l.takenIn[b]
	if !aok || !bok {
		l.concCache[key] = l.falseBool
		return l.falseBool
	}
	v := l.model.NewBoolVar(fmt.Sprintf("taken_before_or_conc_%s_%s", a, b))
	switch l.variant {
	case VariantPlanning:
		l.model.ImpliesBoolTrue(v, l.taken[b])
	case VariantFeasibility:
		l.model.ImpliesBoolTrue(v, l.AllTaken([]string{a, b}))
	}
	l.model.ImpliesComparison(v, ai, bi, cpmodel.LE)
	l.concCache[key] = v
	return v
}

// TakenAfter returns v where v=true implies both a and b are taken and
// taken_in(a) > taken_in(b).
func (l *Library) TakenAfter(a, b string) *cpmodel.BoolVar {
	key := [2]string{a, b}
	if v, ok := l.afterCache[key]; ok {
		return v
	}
	ai, aok := l.takenIn[a]
	bi, bok := l.takenIn[b]
	if !aok || !bok {
		l.afterCache[key] = l.falseBool
		return l.falseBool
	}
	v := l.model.NewBoolVar(fmt.Sprintf("taken_after_%s_%s", a, b))
	l.model.ImpliesBoolTrue(v, l.AllTaken([]string{a, b}))
	l.model.ImpliesComparison(v, ai, bi, cpmodel.GT)
	l.afterCache[key] = v
	return v
}

// StandingMet returns v <-> taken_in(c) >= threshold(level).
func (l *Library) StandingMet(level, c string) *cpmodel.BoolVar {
	key := level + "|" + c
	if v, ok := l.standingCache[key]; ok {
		return v
	}
	threshold, ok := semester.Threshold(level)
	if !ok {
		l.standingCache[key] = l.falseBool
		return l.falseBool
	}
	ci, cok := l.takenIn[c]
	if !cok {
		l.standingCache[key] = l.falseBool
		return l.falseBool
	}
	target := l.model.NewConstInt(threshold)
	v := l.model.ReifiedComparison(ci, target, cpmodel.GE, "standing_"+key)
	l.standingCache[key] = v
	return v
}

// CreditsBySemester returns the scaled (x10) credit-hour total of every
// course taken strictly before semester s. Semester 1 is always 0.
func (l *Library) CreditsBySemester(s int) *cpmodel.IntVar {
	if v, ok := l.creditsBySem[s]; ok {
		return v
	}
	if s <= 1 {
		v := l.model.NewConstInt(0)
		l.creditsBySem[s] = v
		return v
	}

	codes := l.cat.Codes()
	terms := make([]*cpmodel.IntVar, 0, len(codes))
	coeffs := make([]int, 0, len(codes))
	maxTotal := 0
	for _, code := range codes {
		ti, ok := l.takenIn[code]
		if !ok {
			continue
		}
		course, _ := l.cat.Get(code)
		scaled := course.ScaledCreditHours()
		sConst := l.model.NewConstInt(s)
		before := l.model.ReifiedComparison(ti, sConst, cpmodel.LT, fmt.Sprintf("before_%s_%d", code, s))
		term := l.model.NewIntVar(0, scaled, fmt.Sprintf("credit_term_%s_%d", code, s))
		l.model.Mux(before, term, scaled, 0)
		terms = append(terms, term)
		coeffs = append(coeffs, 1)
		maxTotal += scaled
	}
	var total *cpmodel.IntVar
	if len(terms) == 0 {
		total = l.model.NewConstInt(0)
	} else {
		total = l.model.Sum(terms, coeffs, 0, maxTotal, fmt.Sprintf("credits_by_sem_%d", s))
	}
	l.creditsBySem[s] = total
	return total
}

// CreditsPrereqMet returns v <-> there exists a semester s at which c is
// taken and CreditsBySemester(s) >= n*10.
func (l *Library) CreditsPrereqMet(n int, c string) *cpmodel.BoolVar {
	key := fmt.Sprintf("%d|%s", n, c)
	if v, ok := l.creditsPrereq[key]; ok {
		return v
	}
	ci, ok := l.takenIn[c]
	if !ok {
		l.creditsPrereq[key] = l.falseBool
		return l.falseBool
	}

	// creditsAtTakenIn picks out CreditsBySemester(s) for the semester s
	// that taken_in(c) actually equals, by summing a per-semester term
	// that is CreditsBySemester(s) when taken_in(c)==s and 0 otherwise.
	terms := make([]*cpmodel.IntVar, 0, l.numSems+1)
	coeffs := make([]int, 0, l.numSems+1)
	maxCredits := 0
	for s := 1; s <= l.numSems+1; s++ {
		sConst := l.model.NewConstInt(s)
		ind := l.model.ReifiedEquals(ci, sConst, fmt.Sprintf("taken_eq_sem_%s_%d", c, s))
		creditsAtS := l.CreditsBySemester(s)
		_, hi := creditsAtS.Bounds()
		term := l.model.CondEqual(ind, creditsAtS, 0, fmt.Sprintf("credits_at_%s_%d", c, s))
		terms = append(terms, term)
		coeffs = append(coeffs, 1)
		if hi > maxCredits {
			maxCredits = hi
		}
	}
	creditsAtTakenIn := l.model.Sum(terms, coeffs, 0, maxCredits, "credits_at_taken_in_"+c)
	threshold := l.model.NewConstInt(n * 10)
	v := l.model.ReifiedComparison(creditsAtTakenIn, threshold, cpmodel.GE, "credits_prereq_met_"+key)
	l.creditsPrereq[key] = v
	return v
}
