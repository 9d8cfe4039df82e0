package diagnose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusforge/gradplan/internal/catalog"
	"github.com/campusforge/gradplan/internal/diagnose"
	"github.com/campusforge/gradplan/internal/dnf"
	"github.com/campusforge/gradplan/internal/programmap"
)

func miniCatalog() *catalog.Store {
	return catalog.NewStore([]catalog.Course{
		{Code: "csci1000u", Program: "cs", YearLevel: 1, CreditHours: 3},
		{Code: "csci2000u", Program: "cs", YearLevel: 2, CreditHours: 3,
			PreRequisites: dnf.Expression{{"csci1000u"}}},
		{Code: "csci9999u", Program: "cs", YearLevel: 4, CreditHours: 3,
			PreRequisites: dnf.Expression{{"csci2000u"}}},
		{Code: "scie1000u", Program: "science", YearLevel: 1, CreditHours: 3},
		{Code: "scie2000u", Program: "science", YearLevel: 2, CreditHours: 3},
	})
}

func miniProgramMap() *programmap.ProgramMap {
	return &programmap.ProgramMap{
		Name:            "mini-cs",
		RequiredCourses: []string{"csci1000u", "csci2000u"},
		OneOfGroups:     [][]string{{"scie1000u", "scie2000u"}},
		FilterConstraints: []programmap.FilterConstraint{
			{
				Name: "Science Electives",
				GTE:  floatPtr(45),
				Filter: programmap.Filter{
					Programs:   []string{"science"},
					CourseType: programmap.TypeAll,
				},
			},
		},
	}
}

func floatPtr(f float64) *float64 { return &f }

func TestVerifyRepeatDetection(t *testing.T) {
	s := diagnose.New(miniCatalog(), miniProgramMap())
	result, err := s.Verify(diagnose.VerifyRequest{
		TakenIn: []diagnose.CourseSemester{
			{Code: "csci1000u", Semester: 5},
			{Code: "csci1000u", Semester: 6},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, diagnose.CategoryCourseRepeated, result.Violations[0].Category)
}

func TestVerifyInfeasibleQuotaReportsFilterViolation(t *testing.T) {
	s := diagnose.New(miniCatalog(), miniProgramMap())
	result, err := s.Verify(diagnose.VerifyRequest{
		MustNotTake: []string{"scie1000u", "scie2000u"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Violations)

	var found *diagnose.Violation
	for i := range result.Violations {
		if result.Violations[i].Category == diagnose.Category("Science Electives") {
			found = &result.Violations[i]
		}
	}
	require.NotNil(t, found, "expected a Science Electives quota violation")
	require.NotNil(t, found.Current)
	assert.Less(t, *found.Current, 45.0)
	require.NotNil(t, found.GTE)
	assert.Equal(t, 45.0, *found.GTE)
}

func TestVerifySatisfiableRequestHasNoViolations(t *testing.T) {
	relaxed := &programmap.ProgramMap{
		Name:            "mini-cs-relaxed",
		RequiredCourses: []string{"csci1000u", "csci2000u"},
		OneOfGroups:     [][]string{{"scie1000u", "scie2000u"}},
	}
	s := diagnose.New(miniCatalog(), relaxed)
	result, err := s.Verify(diagnose.VerifyRequest{})
	require.NoError(t, err)
	assert.Empty(t, result.Violations)
	assert.Equal(t, "FEASIBLE", result.Status)
}

func TestVerifyMissingRequiredCourseIsReported(t *testing.T) {
	relaxed := &programmap.ProgramMap{
		Name:            "mini-cs-relaxed",
		RequiredCourses: []string{"csci1000u", "csci2000u"},
	}
	s := diagnose.New(miniCatalog(), relaxed)
	result, err := s.Verify(diagnose.VerifyRequest{
		MustNotTake: []string{"csci2000u"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Violations)
	assert.Equal(t, diagnose.CategoryRequiredMissing, result.Violations[0].Category)
}
