package diagnose

import (
	"fmt"
	"sort"
	"time"

	"github.com/campusforge/gradplan/internal/catalog"
	"github.com/campusforge/gradplan/internal/cpmodel"
	"github.com/campusforge/gradplan/internal/depvar"
	"github.com/campusforge/gradplan/internal/prereq"
	"github.com/campusforge/gradplan/internal/programmap"
	"github.com/campusforge/gradplan/internal/semester"
)

const defaultDiagnosticsTimeLimit = 60 * time.Second

// Solver is the Feasibility/Diagnosis Solver, sharing a catalog and
// program map with a planner.Solver but building its own reified model
// per solve.
type Solver struct {
	cat *catalog.Store
	pm  *programmap.ProgramMap
}

// New returns a Solver bound to a catalog and program map.
func New(cat *catalog.Store, pm *programmap.ProgramMap) *Solver {
	return &Solver{cat: cat, pm: pm}
}

type assumption struct {
	bool     *cpmodel.BoolVar
	describe func(values map[int]int) Violation
}

type diagGrid struct {
	numSemesters int
	rows         map[string][]*cpmodel.BoolVar
	taken        map[string]*cpmodel.BoolVar
	takenIn      map[string]*cpmodel.IntVar
	core         map[string]*cpmodel.BoolVar
	elective     map[string]*cpmodel.BoolVar
}

func buildDiagGrid(model *cpmodel.Model, cat *catalog.Store, numSemesters int) *diagGrid {
	g := &diagGrid{
		numSemesters: numSemesters,
		rows:         make(map[string][]*cpmodel.BoolVar),
		taken:        make(map[string]*cpmodel.BoolVar),
		takenIn:      make(map[string]*cpmodel.IntVar),
		core:         make(map[string]*cpmodel.BoolVar),
		elective:     make(map[string]*cpmodel.BoolVar),
	}
	unknown := semester.Unknown(numSemesters)
	for _, code := range cat.Codes() {
		row := make([]*cpmodel.BoolVar, numSemesters)
		for s := 0; s < numSemesters; s++ {
			row[s] = model.NewBoolVar(fmt.Sprintf("grid_%s_%d", code, s+1))
		}
		g.rows[code] = row

		taken := model.Or(row, "taken_"+code)
		g.taken[code] = taken

		takenIn := model.NewIntVar(1, unknown, "taken_in_"+code)
		for s := 0; s < numSemesters; s++ {
			model.ImpliesEqualConst(row[s], takenIn, s+1)
		}
		model.ImpliesEqualConst(model.Not(taken), takenIn, unknown)
		g.takenIn[code] = takenIn

		core := model.NewBoolVar("core_" + code)
		elective := model.NewBoolVar("elective_" + code)
		model.AtMostOne([]*cpmodel.BoolVar{core, elective})
		roleCount := model.CountTrue([]*cpmodel.BoolVar{core, elective}, 0, 2, "role_count_"+code)
		model.AddEquality(roleCount, taken.AsInt())
		g.core[code] = core
		g.elective[code] = elective
	}
	return g
}

// Verify builds the reified feasibility model for req and diagnoses it.
func (s *Solver) Verify(req VerifyRequest) (*Result, error) {
	if dup, n, ok := firstDuplicate(req); ok {
		return &Result{
			Status:     "INFEASIBLE",
			Violations: []Violation{{Category: CategoryCourseRepeated, Reason: fmt.Sprintf("%s appears %d times in the provided history", dup, n)}},
		}, nil
	}

	numSemesters := req.numSemesters()
	model := cpmodel.NewModel()
	g := buildDiagGrid(model, s.cat, numSemesters)

	var assumptions []assumption

	for code, row := range g.rows {
		assumptions = append(assumptions, rowLimitAssumption(model, code, row))
	}

	limit := 5
	for sem := 1; sem <= numSemesters; sem++ {
		var column []*cpmodel.BoolVar
		for code := range g.rows {
			column = append(column, g.rows[code][sem-1])
		}
		if len(column) == 0 {
			continue
		}
		assumptions = append(assumptions, semesterLimitAssumption(model, sem, column, limit))
	}

	lib := depvar.New(model, s.cat, numSemesters, depvar.VariantFeasibility, g.taken, g.takenIn)
	interp := prereq.New(model, lib)

	for _, code := range s.pm.RequiredCourses {
		if core, ok := g.core[code]; ok {
			assumptions = append(assumptions, requiredAssumption(model, code, core))
		}
	}

	for gi, group := range s.pm.OneOfGroups {
		var coreVars []*cpmodel.BoolVar
		for _, code := range group {
			if core, ok := g.core[code]; ok {
				coreVars = append(coreVars, core)
			}
		}
		if len(coreVars) > 0 {
			assumptions = append(assumptions, oneOfAssumption(model, gi, group, coreVars))
		}
	}

	for code := range g.taken {
		course, _ := s.cat.Get(code)
		if course.PreRequisites.IsEmpty() {
			continue
		}
		satisfied := interp.Satisfied(code, course.PreRequisites, prereq.RelationPrerequisite)
		assumptions = append(assumptions, prereqAssumption(model, lib, code, g.taken[code], satisfied))
	}

	for _, fc := range s.pm.FilterConstraints {
		if a := buildFilterAssumption(model, s.cat, g, fc); a != nil {
			assumptions = append(assumptions, *a)
		}
	}

	for _, code := range req.MustTake {
		if taken, ok := g.taken[code]; ok {
			model.AddEqualityConst(taken.AsInt(), 1)
		}
	}
	for _, code := range req.MustNotTake {
		if taken, ok := g.taken[code]; ok {
			model.AddEqualityConst(taken.AsInt(), 0)
		}
	}
	for _, cs := range req.CompletedCourses {
		if row, ok := g.rows[cs.Code]; ok && cs.Semester >= 1 && cs.Semester <= numSemesters {
			model.AddEqualityConst(row[cs.Semester-1].AsInt(), 1)
		}
	}
	for _, cs := range req.TakenIn {
		if row, ok := g.rows[cs.Code]; ok && cs.Semester >= 1 && cs.Semester <= numSemesters {
			model.AddEqualityConst(row[cs.Semester-1].AsInt(), 1)
		}
	}

	assumptionBools := make([]*cpmodel.BoolVar, len(assumptions))
	for i, a := range assumptions {
		assumptionBools[i] = a.bool
	}
	objective := model.CountTrue(assumptionBools, 0, len(assumptionBools), "satisfied_assumptions")

	timeLimit := req.TimeLimit
	if timeLimit <= 0 {
		timeLimit = defaultDiagnosticsTimeLimit
	}
	sol := model.SolveOptimal(objective, true, timeLimit)

	result := &Result{Status: sol.Status.String(), Elapsed: sol.Elapsed}
	if sol.Values == nil {
		if sol.Status == cpmodel.StatusInfeasible {
			result.Violations = []Violation{{Category: CategoryInfeasibleModel, Reason: "no assignment satisfies the hard constraints"}}
		}
		return result, nil
	}

	var violations []Violation
	for _, a := range assumptions {
		if !a.bool.ValueIn(sol.Values) {
			violations = append(violations, a.describe(sol.Values))
		}
	}
	sort.Slice(violations, func(i, j int) bool { return violations[i].Category < violations[j].Category })
	result.Violations = violations
	return result, nil
}

func firstDuplicate(req VerifyRequest) (string, int, bool) {
	history := make([]CourseSemester, 0, len(req.CompletedCourses)+len(req.TakenIn))
	history = append(history, req.CompletedCourses...)
	history = append(history, req.TakenIn...)
	counts := make(map[string]int, len(history))
	for _, cs := range history {
		counts[cs.Code]++
	}
	for _, cs := range history {
		if counts[cs.Code] > 1 {
			return cs.Code, counts[cs.Code], true
		}
	}
	return "", 0, false
}

func rowLimitAssumption(model *cpmodel.Model, code string, row []*cpmodel.BoolVar) assumption {
	count := model.CountTrue(row, 0, len(row), "rowcount_"+code)
	a := model.ReifiedComparison(count, model.NewConstInt(1), cpmodel.LE, "a_rowlimit_"+code)
	return assumption{
		bool: a,
		describe: func(values map[int]int) Violation {
			return Violation{Category: CategoryTakenAtMostOnce, Reason: fmt.Sprintf("%s assigned to more than one semester", code)}
		},
	}
}

func semesterLimitAssumption(model *cpmodel.Model, sem int, column []*cpmodel.BoolVar, limit int) assumption {
	count := model.CountTrue(column, 0, len(column), fmt.Sprintf("colcount_%d", sem))
	a := model.ReifiedComparison(count, model.NewConstInt(limit), cpmodel.LE, fmt.Sprintf("a_semlimit_%d", sem))
	return assumption{
		bool: a,
		describe: func(values map[int]int) Violation {
			return Violation{Category: CategorySemesterCourseLimit, Reason: fmt.Sprintf("semester %d exceeds the course limit of %d", sem, limit)}
		},
	}
}

func requiredAssumption(model *cpmodel.Model, code string, core *cpmodel.BoolVar) assumption {
	a := model.ReifiedComparison(core.AsInt(), model.NewConstInt(1), cpmodel.GE, "a_required_"+code)
	return assumption{
		bool: a,
		describe: func(values map[int]int) Violation {
			return Violation{Category: CategoryRequiredMissing, Reason: fmt.Sprintf("%s is required but was not taken as core", code)}
		},
	}
}

func oneOfAssumption(model *cpmodel.Model, gi int, group []string, coreVars []*cpmodel.BoolVar) assumption {
	count := model.CountTrue(coreVars, 0, len(coreVars), fmt.Sprintf("oneofcount_%d", gi))
	a := model.ReifiedComparison(count, model.NewConstInt(1), cpmodel.GE, fmt.Sprintf("a_oneof_%d", gi))
	groupCopy := append([]string(nil), group...)
	return assumption{
		bool: a,
		describe: func(values map[int]int) Violation {
			return Violation{Category: CategoryOneOfRequirement, Reason: fmt.Sprintf("none of %v was taken as core", groupCopy)}
		},
	}
}

// prereqAssumption builds an assumption that is forced false exactly
// when the course is taken and its prerequisites are not satisfied,
// leaving the solver free to choose that outcome rather than failing
// the whole model the way internal/planner's hard implication does.
func prereqAssumption(model *cpmodel.Model, lib *depvar.Library, code string, taken, satisfied *cpmodel.BoolVar) assumption {
	notSatisfied := model.Not(satisfied)
	badCase := lib.AllTrue([]*cpmodel.BoolVar{taken, notSatisfied}, "badprereq_"+code)
	a := model.Not(badCase)
	return assumption{
		bool: a,
		describe: func(values map[int]int) Violation {
			return Violation{Category: CategoryPrerequisiteNotMet, Reason: fmt.Sprintf("prerequisites for %s are not met", code)}
		},
	}
}

func buildFilterAssumption(model *cpmodel.Model, cat *catalog.Store, g *diagGrid, fc programmap.FilterConstraint) *assumption {
	type match struct {
		code      string
		indicator *cpmodel.BoolVar
		scaled    int
	}
	var matches []match
	maxTotal := 0
	for _, code := range cat.Codes() {
		course, _ := cat.Get(code)
		if !fc.Filter.Matches(code, course.Program, int(course.YearLevel)) {
			continue
		}
		var indicator *cpmodel.BoolVar
		switch fc.Filter.CourseType {
		case programmap.TypeCore:
			indicator = g.core[code]
		case programmap.TypeElective:
			indicator = g.elective[code]
		default:
			indicator = g.taken[code]
		}
		if indicator == nil {
			continue
		}
		scaled := course.ScaledCreditHours()
		matches = append(matches, match{code: code, indicator: indicator, scaled: scaled})
		maxTotal += scaled
	}
	if len(matches) == 0 {
		return nil
	}

	terms := make([]*cpmodel.IntVar, len(matches))
	for i, m := range matches {
		terms[i] = model.CondEqual(m.indicator, model.NewConstInt(m.scaled), 0, fmt.Sprintf("filtterm_%s_%d", fc.Name, i))
	}
	coeffs := make([]int, len(terms))
	for i := range coeffs {
		coeffs[i] = 1
	}
	total := model.Sum(terms, coeffs, 0, maxTotal, "filtertotal_"+fc.Name)

	var lteBool, gteBool *cpmodel.BoolVar
	if fc.LTE != nil {
		lteBool = model.ReifiedComparison(total, model.NewConstInt(scaledCredits(*fc.LTE)), cpmodel.LE, "a_"+fc.Name+"_lte")
	}
	if fc.GTE != nil {
		gteBool = model.ReifiedComparison(total, model.NewConstInt(scaledCredits(*fc.GTE)), cpmodel.GE, "a_"+fc.Name+"_gte")
	}

	var combined *cpmodel.BoolVar
	switch {
	case lteBool != nil && gteBool != nil:
		both := model.CountTrue([]*cpmodel.BoolVar{lteBool, gteBool}, 0, 2, "a_"+fc.Name+"_both_count")
		combined = model.ReifiedComparison(both, model.NewConstInt(2), cpmodel.GE, "a_"+fc.Name)
	case lteBool != nil:
		combined = lteBool
	case gteBool != nil:
		combined = gteBool
	default:
		return nil
	}

	name := fc.Name
	lte, gte := fc.LTE, fc.GTE
	describe := func(values map[int]int) Violation {
		currentScaled := total.ValueIn(values)
		current := float64(currentScaled) / 10.0
		var contributing []string
		for _, m := range matches {
			if m.indicator.ValueIn(values) {
				contributing = append(contributing, m.code)
			}
		}
		return Violation{
			Category:     Category(name),
			Reason:       fmt.Sprintf("%s credit-hour total %.1f is outside its required bounds", name, current),
			Current:      &current,
			LTE:          lte,
			GTE:          gte,
			Contributing: contributing,
		}
	}
	return &assumption{bool: combined, describe: describe}
}

func scaledCredits(v float64) int {
	return int(v*10 + 0.5)
}
