package planner

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

// unknownPrereqPenalty must exceed any achievable rating or
// course-count objective value so that avoiding an unknown-prerequisite
// assumption always wins over the secondary objective.
const unknownPrereqPenalty = 10_000

const defaultPlannerTimeLimit = 5 * time.Second

// ErrDuplicateCourse is returned when a request names the same course
// in completed_courses/taken_in more than once, whether or not the
// semesters differ; duplicates short-circuit before any solve is attempted.
type ErrDuplicateCourse struct {
	Code  string
	Count int
}

func (e *ErrDuplicateCourse) Error() string {
	return fmt.Sprintf("course %s appears %d times in request", e.Code, e.Count)
}

// ErrInvalidSemester is returned when a request forces a taken course
// into the reserved "unknown" semester value.
type ErrInvalidSemester struct {
	Code     string
	Semester int
}

func (e *ErrInvalidSemester) Error() string {
	return fmt.Sprintf("course %s cannot be forced into reserved semester %d", e.Code, e.Semester)
}

// Solver is the Graduation Requirements Solver, built once over a
// catalog and program map and reused across many solve() calls; no
// solve-specific state is held on the struct itself; the catalog is
// shared read-only and each solve owns its own model.
type Solver struct {
	cat *catalog.Store
	pm  *programmap.ProgramMap
}

// New returns a Solver bound to a catalog and program map.
func New(cat *catalog.Store, pm *programmap.ProgramMap) *Solver {
	return &Solver{cat: cat, pm: pm}
}

// grid is the planner's assignment-grid scaffolding, built once per
// solve. internal/diagnose builds its own grid with a similar
// construction and reified assumptions layered on top; it does not use
// this type.
type grid struct {
	model        *cpmodel.Model
	numSemesters int
	rows         map[string][]*cpmodel.BoolVar // code -> per-semester booleans
	taken        map[string]*cpmodel.BoolVar
	takenIn      map[string]*cpmodel.IntVar
	core         map[string]*cpmodel.BoolVar
	elective     map[string]*cpmodel.BoolVar
}

func buildGrid(model *cpmodel.Model, cat *catalog.Store, numSemesters int) *grid {
	g := &grid{
		model:        model,
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
		model.AtMostOne(row)
		g.rows[code] = row

		taken := model.Or(row, "taken_"+code)
		g.taken[code] = taken

		takenIn := model.NewIntVar(1, unknown, "taken_in_"+code)
		for s := 0; s < numSemesters; s++ {
			model.ImpliesEqualConst(row[s], takenIn, s+1)
		}
		notTaken := model.Not(taken)
		model.ImpliesEqualConst(notTaken, takenIn, unknown)
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

// applyRequirements layers program-map rules, credit restrictions, and
// prerequisite/co-requisite/post-requisite interpretation onto g. It
// returns the prereq.Interpreter so the objective can penalize its
// unknown-atom assumptions.
func applyRequirements(g *grid, cat *catalog.Store, pm *programmap.ProgramMap, lib *depvar.Library) *prereq.Interpreter {
	model := g.model
	interp := prereq.New(model, lib)

	for _, code := range pm.RequiredCourses {
		if core, ok := g.core[code]; ok {
			model.AddEqualityConst(core.AsInt(), 1)
		}
	}

	for gi, group := range pm.OneOfGroups {
		vars := make([]*cpmodel.IntVar, 0, len(group))
		for _, code := range group {
			if core, ok := g.core[code]; ok {
				vars = append(vars, core.AsInt())
			}
		}
		if len(vars) > 0 {
			coeffs := make([]int, len(vars))
			for i := range coeffs {
				coeffs[i] = 1
			}
			model.Sum(vars, coeffs, 1, 1, fmt.Sprintf("oneof_%d", gi))
		}
	}

	for code := range g.taken {
		course, _ := cat.Get(code)
		interp.Interpret(code, course.PreRequisites, prereq.RelationPrerequisite, g.taken[code])
		interp.Interpret(code, course.CoRequisites, prereq.RelationCoRequisite, g.taken[code])
		interp.Interpret(code, course.PostRequisites, prereq.RelationPostRequisite, g.taken[code])

		for _, clause := range course.CreditRestrictions {
			group := []*cpmodel.BoolVar{g.taken[code]}
			for _, atom := range clause {
				if tv, ok := g.taken[atom]; ok {
					group = append(group, tv)
				}
			}
			if len(group) > 1 {
				model.AtMostOne(group)
			}
		}
	}

	for _, fc := range pm.FilterConstraints {
		applyFilterConstraint(g, cat, fc)
	}

	return interp
}

func applyFilterConstraint(g *grid, cat *catalog.Store, fc programmap.FilterConstraint) {
	model := g.model
	var terms []*cpmodel.IntVar
	var coeffs []int
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
		term := model.CondEqual(indicator, model.NewConstInt(scaled), 0, "filter_term_"+fc.Name+"_"+code)
		terms = append(terms, term)
		coeffs = append(coeffs, 1)
		maxTotal += scaled
	}
	if len(terms) == 0 {
		return
	}

	lo, hi := 0, maxTotal
	if fc.GTE != nil {
		lo = int(*fc.GTE*10 + 0.5)
	}
	if fc.LTE != nil {
		hi = int(*fc.LTE*10 + 0.5)
	}
	model.Sum(terms, coeffs, lo, hi, "filter_sum_"+fc.Name)
}

// dedupeOverrides merges completed_courses and taken_in into a single
// code->semester map, returning ErrDuplicateCourse if any course code
// is named more than once.
func dedupeOverrides(entries []CourseSemester) (map[string]int, error) {
	counts := make(map[string]int, len(entries))
	for _, e := range entries {
		counts[e.Code]++
	}
	out := make(map[string]int, len(entries))
	for _, e := range entries {
		if counts[e.Code] > 1 {
			return nil, &ErrDuplicateCourse{Code: e.Code, Count: counts[e.Code]}
		}
		out[e.Code] = e.Semester
	}
	return out, nil
}

// Solve builds and solves the graduation requirements model for req.
func (s *Solver) Solve(req GenerateRequest) (*Result, error) {
	numSemesters := req.NumSemesters()
	limit := req.SemesterCourseLimit
	if limit <= 0 {
		limit = 5
	}

	forced, err := dedupeOverrides(append(append([]CourseSemester{}, req.CompletedCourses...), req.TakenIn...))
	if err != nil {
		return nil, err
	}
	unknownSem := semester.Unknown(numSemesters)
	for code, sem := range forced {
		if sem == unknownSem {
			return nil, &ErrInvalidSemester{Code: code, Semester: sem}
		}
	}

	model := cpmodel.NewModel()
	g := buildGrid(model, s.cat, numSemesters)

	for sem := 1; sem <= numSemesters; sem++ {
		var column []*cpmodel.BoolVar
		for code := range g.rows {
			column = append(column, g.rows[code][sem-1])
		}
		if len(column) > 0 {
			model.CountTrue(column, 0, limit, fmt.Sprintf("col_count_%d", sem))
		}
	}

	lib := depvar.New(model, s.cat, numSemesters, depvar.VariantPlanning, g.taken, g.takenIn)
	interp := applyRequirements(g, s.cat, s.pm, lib)

	for code, sem := range forced {
		if row, ok := g.rows[code]; ok {
			model.AddEqualityConst(row[sem-1].AsInt(), 1)
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

	objective := buildObjective(model, g, interp, req.CourseRatings)

	timeLimit := req.TimeLimit
	if timeLimit <= 0 {
		timeLimit = defaultPlannerTimeLimit
	}
	sol := model.SolveOptimal(objective, true, timeLimit)

	result := &Result{Status: sol.Status.String(), Elapsed: sol.Elapsed}
	if sol.Status != cpmodel.StatusFeasible && sol.Status != cpmodel.StatusUnknown {
		return result, nil
	}
	if sol.Values == nil {
		return result, nil
	}

	result.Plan = decodePlan(g, sol.Values, numSemesters)
	for _, unk := range interp.UnknownAssumptions() {
		if unk.ValueIn(sol.Values) {
			result.UnknownPrereqs = append(result.UnknownPrereqs, unk.Var().Name())
		}
	}
	sort.Strings(result.UnknownPrereqs)
	return result, nil
}

// buildObjective returns the maximization objective. Every term is
// phrased as a reward with a nonnegative coefficient: avoided
// unknown-prerequisite assumptions, then either the rating sum (a
// negatively-rated course rewards its complement) or, absent ratings,
// the count of courses not taken.
func buildObjective(model *cpmodel.Model, g *grid, interp *prereq.Interpreter, ratings map[string]int) *cpmodel.IntVar {
	unknowns := interp.UnknownAssumptions()
	var terms []*cpmodel.IntVar
	var coeffs []int
	hi := 0

	if len(unknowns) > 0 {
		handled := make([]*cpmodel.BoolVar, len(unknowns))
		for i, u := range unknowns {
			handled[i] = model.Not(u)
		}
		handledCount := model.CountTrue(handled, 0, len(handled), "handled_count")
		terms = append(terms, handledCount)
		coeffs = append(coeffs, unknownPrereqPenalty)
		hi += unknownPrereqPenalty * len(unknowns)
	}

	if len(ratings) > 0 {
		for code, rating := range ratings {
			taken, ok := g.taken[code]
			if !ok || rating == 0 {
				continue
			}
			if rating > 0 {
				terms = append(terms, taken.AsInt())
				coeffs = append(coeffs, rating)
				hi += rating
			} else {
				terms = append(terms, model.Not(taken).AsInt())
				coeffs = append(coeffs, -rating)
				hi += -rating
			}
		}
	} else {
		for code := range g.taken {
			terms = append(terms, model.Not(g.taken[code]).AsInt())
			coeffs = append(coeffs, 1)
			hi++
		}
	}

	if len(terms) == 0 {
		return model.NewConstInt(0)
	}
	return model.Sum(terms, coeffs, 0, hi, "objective")
}

func decodePlan(g *grid, values map[int]int, numSemesters int) *Plan {
	plan := &Plan{Semesters: make(map[int][]PlannedCourse)}
	for code, row := range g.rows {
		for s := 0; s < numSemesters; s++ {
			if row[s].ValueIn(values) {
				kind := KindElective
				if g.core[code].ValueIn(values) {
					kind = KindCore
				}
				plan.Semesters[s+1] = append(plan.Semesters[s+1], PlannedCourse{Code: code, Kind: kind})
			}
		}
	}
	for s := range plan.Semesters {
		sort.Slice(plan.Semesters[s], func(i, j int) bool {
			return plan.Semesters[s][i].Code < plan.Semesters[s][j].Code
		})
	}
	return plan
}
