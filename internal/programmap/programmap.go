// Package programmap holds the degree requirement description a
// catalog-level program is validated and planned against: required
// courses, one-of groups, and filter (credit-hour quota) constraints.
package programmap

// CourseType selects which set of courses a Filter matches by role.
type CourseType int

const (
	TypeAll CourseType = iota
	TypeCore
	TypeElective
)

// Filter is a predicate over the catalog. Each non-empty dimension
// narrows the match conjunctively; when CourseType is Core or Elective,
// the course must additionally have been taken in that role.
type Filter struct {
	CourseNames []string
	Programs    []string
	YearLevels  []int
	CourseType  CourseType
}

// Matches reports whether a course with the given code/program/year
// satisfies every non-empty dimension of the filter's catalog-level
// predicate (course-type role matching is evaluated by the caller
// against the solved assignment, since it depends on
// taken_as_core/taken_as_elective).
func (f Filter) Matches(code, program string, yearLevel int) bool {
	if len(f.CourseNames) > 0 && !containsString(f.CourseNames, code) {
		return false
	}
	if len(f.Programs) > 0 && !containsString(f.Programs, program) {
		return false
	}
	if len(f.YearLevels) > 0 && !containsInt(f.YearLevels, yearLevel) {
		return false
	}
	return true
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsInt(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}

// FilterConstraint asserts bounds on the scaled credit-hour sum over a
// Filter's matched, taken courses. Either bound may be absent (nil).
type FilterConstraint struct {
	Name   string
	LTE    *float64
	GTE    *float64
	Filter Filter
}

// ProgramMap is a degree's full requirement set.
type ProgramMap struct {
	Name              string
	RequiredCourses   []string
	OneOfGroups       [][]string
	FilterConstraints []FilterConstraint
}
