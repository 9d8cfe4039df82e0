package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusforge/gradplan/internal/catalog"
	"github.com/campusforge/gradplan/internal/dnf"
	"github.com/campusforge/gradplan/internal/planner"
	"github.com/campusforge/gradplan/internal/programmap"
)

// miniCatalog builds a small, self-contained course table with a
// prerequisite chain, a co-requisite pair, a one-of group, and a
// credit-restriction pair, small enough that every filter quota below
// is satisfiable, unlike the shipped embedded fixture, whose quotas
// model a much larger real catalog and are intentionally exercised by
// the diagnosis tests instead.
func miniCatalog() *catalog.Store {
	return catalog.NewStore([]catalog.Course{
		{Code: "csci1000u", Program: "cs", YearLevel: 1, CreditHours: 3},
		{Code: "csci2000u", Program: "cs", YearLevel: 2, CreditHours: 3,
			PreRequisites: dnf.Expression{{"csci1000u"}}},
		{Code: "csci3000u", Program: "cs", YearLevel: 3, CreditHours: 3,
			PreRequisites: dnf.Expression{{"csci2000u", "third_year_standing"}}},
		{Code: "csci3100u", Program: "cs", YearLevel: 3, CreditHours: 3,
			PreRequisites: dnf.Expression{{"csci2000u"}},
			CoRequisites:  dnf.Expression{{"csci3000u"}}},
		{Code: "math1000u", Program: "cs", YearLevel: 1, CreditHours: 3},
		{Code: "math1500u", Program: "cs", YearLevel: 1, CreditHours: 3,
			CreditRestrictions: dnf.Expression{{"math1000u"}}},
		{Code: "elec1000u", Program: "elective", YearLevel: 1, CreditHours: 3},
		{Code: "elec2000u", Program: "elective", YearLevel: 2, CreditHours: 3},
	})
}

func miniProgramMap() *programmap.ProgramMap {
	return &programmap.ProgramMap{
		Name:            "mini-cs",
		RequiredCourses: []string{"csci1000u", "csci2000u", "csci3000u"},
		OneOfGroups:     [][]string{{"math1000u", "math1500u"}},
		FilterConstraints: []programmap.FilterConstraint{
			{
				Name: "Electives",
				LTE:  floatPtr(6),
				Filter: programmap.Filter{
					Programs:   []string{"elective"},
					CourseType: programmap.TypeElective,
				},
			},
		},
	}
}

func floatPtr(f float64) *float64 { return &f }

func TestSolveHappyPathSatisfiesProgramMap(t *testing.T) {
	s := planner.New(miniCatalog(), miniProgramMap())
	result, err := s.Solve(planner.GenerateRequest{})
	require.NoError(t, err)
	require.Equal(t, "FEASIBLE", result.Status)
	require.NotNil(t, result.Plan)

	taken := make(map[string]planner.CourseKind)
	for _, courses := range result.Plan.Semesters {
		for _, pc := range courses {
			_, dup := taken[pc.Code]
			assert.False(t, dup, "course %s assigned to more than one semester", pc.Code)
			taken[pc.Code] = pc.Kind
		}
	}

	for _, req := range miniProgramMap().RequiredCourses {
		assert.Contains(t, taken, req, "required course %s must be taken", req)
		assert.Equal(t, planner.KindCore, taken[req], "required course %s must be taken as core", req)
	}

	oneOfCount := 0
	for _, code := range []string{"math1000u", "math1500u"} {
		if kind, ok := taken[code]; ok && kind == planner.KindCore {
			oneOfCount++
		}
	}
	assert.Equal(t, 1, oneOfCount, "exactly one of the one-of group must be core")
}

func TestSolveMustTakeForcesTransitivePrerequisites(t *testing.T) {
	s := planner.New(miniCatalog(), miniProgramMap())
	result, err := s.Solve(planner.GenerateRequest{MustTake: []string{"csci3100u"}})
	require.NoError(t, err)
	require.Equal(t, "FEASIBLE", result.Status)
	require.NotNil(t, result.Plan)

	takenIn := make(map[string]int)
	for sem, courses := range result.Plan.Semesters {
		for _, pc := range courses {
			takenIn[pc.Code] = sem
		}
	}
	require.Contains(t, takenIn, "csci3100u")
	require.Contains(t, takenIn, "csci2000u", "prerequisite of csci3100u must be scheduled")
	require.Contains(t, takenIn, "csci3000u", "co-requisite of csci3100u must be scheduled")
	assert.Less(t, takenIn["csci2000u"], takenIn["csci3100u"], "prerequisite must be taken strictly before")
	assert.LessOrEqual(t, takenIn["csci3000u"], takenIn["csci3100u"], "co-requisite may be taken at or before")
}

func TestSolveMustNotTakeExcludesCourse(t *testing.T) {
	s := planner.New(miniCatalog(), miniProgramMap())
	result, err := s.Solve(planner.GenerateRequest{MustNotTake: []string{"elec1000u"}})
	require.NoError(t, err)
	require.NotNil(t, result.Plan)

	for _, courses := range result.Plan.Semesters {
		for _, pc := range courses {
			assert.NotEqual(t, "elec1000u", pc.Code)
		}
	}
}

func TestSolveDuplicateCourseIsShortCircuited(t *testing.T) {
	s := planner.New(miniCatalog(), miniProgramMap())
	_, err := s.Solve(planner.GenerateRequest{
		TakenIn: []planner.CourseSemester{
			{Code: "csci1000u", Semester: 1},
			{Code: "csci1000u", Semester: 2},
		},
	})
	require.Error(t, err)
	var dup *planner.ErrDuplicateCourse
	assert.ErrorAs(t, err, &dup)
	assert.Equal(t, "csci1000u", dup.Code)
}

func TestSolveInvalidSemesterIsRejected(t *testing.T) {
	s := planner.New(miniCatalog(), miniProgramMap())
	req := planner.GenerateRequest{
		TakenIn: []planner.CourseSemester{{Code: "csci1000u", Semester: 9}},
	}
	_, err := s.Solve(req)
	require.Error(t, err)
	var invalid *planner.ErrInvalidSemester
	assert.ErrorAs(t, err, &invalid)
}

func TestSolveCreditRestrictionForbidsBothCourses(t *testing.T) {
	s := planner.New(miniCatalog(), miniProgramMap())
	result, err := s.Solve(planner.GenerateRequest{
		MustTake: []string{"math1000u", "math1500u"},
	})
	require.NoError(t, err)
	assert.Equal(t, "INFEASIBLE", result.Status)
	assert.Nil(t, result.Plan)
}
