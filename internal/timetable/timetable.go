package timetable

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/campusforge/gradplan/internal/cpmodel"
)

const defaultTimetableTimeLimit = 5 * time.Second
const defaultMaxSolutions = 10

// Solver is the Timetable Solver.
type Solver struct{}

// New returns a Solver. It is stateless: every solve builds its own
// model from the Request's section list.
func New() *Solver { return &Solver{} }

type interval struct {
	beginMinute, endMinute int
	crn                    string // empty for a ForcedConflict
}

type grid struct {
	model    *cpmodel.Model
	sections []Section
	taken    map[string]*cpmodel.BoolVar // keyed by CRN
	byDay    map[Weekday][]interval
}

// culledSections drops any section whose subject and course code match
// none of the request's filters, so no variables are created for
// sections the filters could never select.
func culledSections(sections []Section, filters []FilterConstraint) []Section {
	allowSubjects := make(map[string]bool)
	allowCourses := make(map[string]bool)
	any := false
	for _, fc := range filters {
		for _, s := range fc.Filter.Subjects {
			allowSubjects[s] = true
			any = true
		}
		for _, c := range fc.Filter.CourseNames {
			allowCourses[c] = true
			any = true
		}
	}
	if !any {
		return sections
	}
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		if allowSubjects[s.Subject] || allowCourses[s.CourseCode] {
			out = append(out, s)
		}
	}
	return out
}

func buildGrid(sections []Section, forced []ForcedConflict) *grid {
	model := cpmodel.NewModel()
	g := &grid{model: model, sections: sections, taken: make(map[string]*cpmodel.BoolVar), byDay: make(map[Weekday][]interval)}

	for _, s := range sections {
		g.taken[s.CRN] = model.NewBoolVar("taken_" + s.CRN)
		for _, mt := range s.MeetingTimes {
			for _, d := range mt.Weekdays {
				g.byDay[d] = append(g.byDay[d], interval{beginMinute: mt.BeginMinute, endMinute: mt.EndMinute, crn: s.CRN})
			}
		}
	}
	for _, fc := range forced {
		g.byDay[fc.Weekday] = append(g.byDay[fc.Weekday], interval{beginMinute: fc.BeginMinute, endMinute: fc.EndMinute})
	}

	for day := Weekday(0); day < daysPerWeek; day++ {
		ivs := g.byDay[day]
		for i := 0; i < len(ivs); i++ {
			for j := i + 1; j < len(ivs); j++ {
				if !overlaps(ivs[i], ivs[j]) {
					continue
				}
				switch {
				case ivs[i].crn == "" && ivs[j].crn == "":
					// two forced conflicts overlapping is a request error
					// the caller is responsible for, not a model concern.
				case ivs[i].crn == "":
					model.AddEqualityConst(g.taken[ivs[j].crn].AsInt(), 0)
				case ivs[j].crn == "":
					model.AddEqualityConst(g.taken[ivs[i].crn].AsInt(), 0)
				default:
					model.AtMostOne([]*cpmodel.BoolVar{g.taken[ivs[i].crn], g.taken[ivs[j].crn]})
				}
			}
		}
	}

	byCourseType := make(map[string][]*cpmodel.BoolVar)
	for _, s := range sections {
		key := s.CourseCode + "|" + s.Type.String()
		byCourseType[key] = append(byCourseType[key], g.taken[s.CRN])
	}
	for _, vars := range byCourseType {
		if len(vars) > 1 {
			model.AtMostOne(vars)
		}
	}

	// Each group holds a set of interchangeable options (e.g. every lab
	// section that could fill the "pick a lab" slot); taking the owning
	// section requires at least one option per group, and every group is
	// satisfied independently (so a lecture with both a lab group and a
	// tutorial group requires one from each).
	for _, s := range sections {
		for gi, group := range s.LinkGroups {
			var groupVars []*cpmodel.BoolVar
			for _, crn := range group {
				if v, ok := g.taken[crn]; ok {
					groupVars = append(groupVars, v)
				}
			}
			if len(groupVars) == 0 {
				continue
			}
			count := model.CountTrue(groupVars, 0, len(groupVars), fmt.Sprintf("link_%s_%d_count", s.CRN, gi))
			satisfied := model.ReifiedComparison(count, model.NewConstInt(1), cpmodel.GE, fmt.Sprintf("link_%s_%d_ok", s.CRN, gi))
			model.ImpliesBoolTrue(g.taken[s.CRN], satisfied)
		}
	}

	return g
}

func overlaps(a, b interval) bool {
	return a.beginMinute < b.endMinute && b.beginMinute < a.endMinute
}

func (g *grid) filterAssumption(model *cpmodel.Model, fc FilterConstraint) *cpmodel.BoolVar {
	var lectureVars []*cpmodel.BoolVar
	for _, s := range g.sections {
		if s.Type != Lecture {
			continue
		}
		if !fc.Filter.Matches(s.CourseCode, s.Subject, s.YearLevel) {
			continue
		}
		lectureVars = append(lectureVars, g.taken[s.CRN])
	}
	if len(lectureVars) == 0 {
		return nil
	}
	count := model.CountTrue(lectureVars, 0, len(lectureVars), "filtcount_"+fc.Name)
	var bools []*cpmodel.BoolVar
	if fc.EQ != nil {
		bools = append(bools, model.ReifiedComparison(count, model.NewConstInt(*fc.EQ), cpmodel.EQ, "a_"+fc.Name+"_eq"))
	}
	if fc.LTE != nil {
		bools = append(bools, model.ReifiedComparison(count, model.NewConstInt(*fc.LTE), cpmodel.LE, "a_"+fc.Name+"_lte"))
	}
	if fc.GTE != nil {
		bools = append(bools, model.ReifiedComparison(count, model.NewConstInt(*fc.GTE), cpmodel.GE, "a_"+fc.Name+"_gte"))
	}
	if len(bools) == 0 {
		return nil
	}
	if len(bools) == 1 {
		return bools[0]
	}
	all := model.CountTrue(bools, 0, len(bools), "a_"+fc.Name+"_all_count")
	return model.ReifiedComparison(all, model.NewConstInt(len(bools)), cpmodel.GE, "a_"+fc.Name)
}

func (g *grid) dayMetrics(model *cpmodel.Model) (hasClassOn, timeOnCampus map[Weekday]*cpmodel.IntVar) {
	hasClassOn = make(map[Weekday]*cpmodel.IntVar)
	timeOnCampus = make(map[Weekday]*cpmodel.IntVar)
	for day := Weekday(0); day < daysPerWeek; day++ {
		ivs := g.byDay[day]
		var sectionIvs []interval
		seen := make(map[string]bool)
		for _, iv := range ivs {
			if iv.crn != "" && !seen[iv.crn] {
				seen[iv.crn] = true
				sectionIvs = append(sectionIvs, iv)
			}
		}
		if len(sectionIvs) == 0 {
			hasClassOn[day] = model.NewConstInt(0)
			timeOnCampus[day] = model.NewConstInt(0)
			continue
		}
		var takenHere []*cpmodel.BoolVar
		var beginTerms, endTerms []*cpmodel.IntVar
		for _, iv := range sectionIvs {
			takenHere = append(takenHere, g.taken[iv.crn])
			beginTerms = append(beginTerms, model.CondEqual(g.taken[iv.crn], model.NewConstInt(iv.beginMinute), 2359, fmt.Sprintf("daystart_%d_%s", day, iv.crn)))
			endTerms = append(endTerms, model.CondEqual(g.taken[iv.crn], model.NewConstInt(iv.endMinute), 0, fmt.Sprintf("dayend_%d_%s", day, iv.crn)))
		}
		has := model.Or(takenHere, fmt.Sprintf("has_class_on_%d", day))
		hasClassOn[day] = has.AsInt()
		dayStart := model.MinEquality(beginTerms, fmt.Sprintf("day_start_%d", day))
		dayEnd := model.MaxEquality(endTerms, fmt.Sprintf("day_end_%d", day))
		// span is only lower-bounded (span + dayStart >= dayEnd); the
		// time-on-campus objective minimizes it, so it settles at
		// max(dayEnd-dayStart, 0), which is zero on a day with no class,
		// where the coerced bounds leave dayEnd below dayStart.
		span := model.NewIntVar(0, 2359, fmt.Sprintf("day_span_%d", day))
		spanPlusStart := model.Sum([]*cpmodel.IntVar{span, dayStart}, []int{1, 1}, 0, 2*2359, fmt.Sprintf("day_span_start_%d", day))
		model.AddGreaterOrEqual(spanPlusStart, dayEnd)
		timeOnCampus[day] = span
	}
	return hasClassOn, timeOnCampus
}

func (s *Solver) buildObjective(model *cpmodel.Model, g *grid, obj Objective) *cpmodel.IntVar {
	takenVars := make([]*cpmodel.BoolVar, 0, len(g.sections))
	for _, sec := range g.sections {
		takenVars = append(takenVars, g.taken[sec.CRN])
	}
	totalTaken := model.CountTrue(takenVars, 0, len(takenVars), "total_taken")

	switch obj {
	case DaysOnCampus:
		hasClassOn, _ := g.dayMetrics(model)
		terms := make([]*cpmodel.IntVar, 0, daysPerWeek+1)
		coeffs := make([]int, 0, daysPerWeek+1)
		for day := Weekday(0); day < daysPerWeek; day++ {
			terms = append(terms, hasClassOn[day])
			coeffs = append(coeffs, 1000)
		}
		terms = append(terms, totalTaken)
		coeffs = append(coeffs, 1)
		return model.Sum(terms, coeffs, 0, 1000*daysPerWeek+len(g.sections), "objective_days")
	case TimeOnCampus:
		_, timeOnCampus := g.dayMetrics(model)
		terms := make([]*cpmodel.IntVar, 0, daysPerWeek)
		coeffs := make([]int, 0, daysPerWeek)
		maxSpan := 0
		for day := Weekday(0); day < daysPerWeek; day++ {
			terms = append(terms, timeOnCampus[day])
			coeffs = append(coeffs, 1)
			maxSpan += 2359
		}
		return model.Sum(terms, coeffs, 0, maxSpan, "objective_time")
	default: // CoursesTaken: count distinct courses, not sections.
		byCourse := make(map[string][]*cpmodel.BoolVar)
		for _, sec := range g.sections {
			byCourse[sec.CourseCode] = append(byCourse[sec.CourseCode], g.taken[sec.CRN])
		}
		var courseTaken []*cpmodel.BoolVar
		for code, vars := range byCourse {
			courseTaken = append(courseTaken, model.Or(vars, "course_taken_"+code))
		}
		return model.CountTrue(courseTaken, 0, len(courseTaken), "objective_courses")
	}
}

// Solve builds and solves the weekly schedule model for req.
func (s *Solver) Solve(req Request) (*Result, error) {
	sections := culledSections(req.Sections, req.FilterConstraints)
	g := buildGrid(sections, req.ForcedConflicts)

	excluded := make(map[string]bool, len(req.ExcludedCourses))
	for _, code := range req.ExcludedCourses {
		excluded[code] = true
	}
	for _, sec := range sections {
		if excluded[sec.CourseCode] {
			g.model.AddEqualityConst(g.taken[sec.CRN].AsInt(), 0)
		}
	}

	for _, fc := range req.FilterConstraints {
		if a := g.filterAssumption(g.model, fc); a != nil {
			g.model.AddEqualityConst(a.AsInt(), 1)
		}
	}

	objective := s.buildObjective(g.model, g, req.Objective)
	timeLimit := req.TimeLimit
	if timeLimit <= 0 {
		timeLimit = defaultTimetableTimeLimit
	}
	sol := g.model.SolveOptimal(objective, false, timeLimit)

	result := &Result{Status: sol.Status.String(), Elapsed: sol.Elapsed}
	if sol.Values != nil {
		result.Schedule = decodeSchedule(g, sol.Values)
	}
	return result, nil
}

func decodeSchedule(g *grid, values map[int]int) *Schedule {
	var sched Schedule
	for _, sec := range g.sections {
		if g.taken[sec.CRN].ValueIn(values) {
			sched.Sections = append(sched.Sections, ScheduledSection{CRN: sec.CRN, CourseCode: sec.CourseCode, Type: sec.Type})
		}
	}
	sort.Slice(sched.Sections, func(i, j int) bool { return sched.Sections[i].CRN < sched.Sections[j].CRN })
	return &sched
}

func courseSetKey(sched *Schedule) string {
	codes := make(map[string]bool)
	for _, sec := range sched.Sections {
		codes[sec.CourseCode] = true
	}
	list := make([]string, 0, len(codes))
	for c := range codes {
		list = append(list, c)
	}
	sort.Strings(list)
	return strings.Join(list, ",")
}

// EnumerateSchedules yields up to req.MaxSolutions (default 10) schedules
// that differ as multisets of courses, by iteratively excluding
// previously-seen courses and re-solving.
func (s *Solver) EnumerateSchedules(req Request, visit func(*Schedule) bool) error {
	maxSolutions := req.MaxSolutions
	if maxSolutions <= 0 {
		maxSolutions = defaultMaxSolutions
	}

	seen := make(map[string]bool)
	type frontierEntry struct{ excluded map[string]bool }
	queue := []frontierEntry{{excluded: map[string]bool{}}}
	yielded := 0

	for len(queue) > 0 && yielded < maxSolutions {
		entry := queue[0]
		queue = queue[1:]

		r := req
		r.ExcludedCourses = make([]string, 0, len(entry.excluded))
		for code := range entry.excluded {
			r.ExcludedCourses = append(r.ExcludedCourses, code)
		}

		result, err := s.Solve(r)
		if err != nil {
			return err
		}
		if result.Schedule == nil {
			continue
		}
		key := courseSetKey(result.Schedule)
		if seen[key] {
			continue
		}
		seen[key] = true
		yielded++
		if !visit(result.Schedule) {
			return nil
		}

		codes := make(map[string]bool)
		for _, sec := range result.Schedule.Sections {
			codes[sec.CourseCode] = true
		}
		for code := range codes {
			if entry.excluded[code] {
				continue
			}
			next := make(map[string]bool, len(entry.excluded)+1)
			for k := range entry.excluded {
				next[k] = true
			}
			next[code] = true
			queue = append(queue, frontierEntry{excluded: next})
		}
	}
	return nil
}
