// Package catalogload builds the read-only catalog/program-map registry
// the HTTP surface (internal/httpapi.CatalogRegistry) looks up by
// course-map name. It is loaded exactly once at process start, from
// Postgres when DATABASE_URL is configured, or from an embedded JSON
// fixture otherwise, so the solver test suite and a first `go run`
// never require a live database.
package catalogload

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/campusforge/gradplan/internal/catalog"
	"github.com/campusforge/gradplan/internal/dnf"
	"github.com/campusforge/gradplan/internal/programmap"
)

//go:embed fixtures/computer_science.json
var csFixtureJSON []byte

// fixtureCourse is the embedded fixture's course row shape, mirroring
// the scraper's persistent catalog columns.
type fixtureCourse struct {
	Code               string     `json:"code"`
	Program            string     `json:"program"`
	YearLevel          int        `json:"year_level"`
	CreditHours        float64    `json:"credit_hours"`
	PreRequisites      [][]string `json:"pre_requisites"`
	CoRequisites       [][]string `json:"co_requisites"`
	CreditRestrictions [][]string `json:"credit_restrictions"`
	PostRequisites     [][]string `json:"post_requisites"`
}

type fixtureFilterConstraint struct {
	Name   string   `json:"name"`
	LTE    *float64 `json:"lte"`
	GTE    *float64 `json:"gte"`
	Filter struct {
		CourseNames []string `json:"course_names"`
		Programs    []string `json:"programs"`
		YearLevels  []int    `json:"year_levels"`
		CourseType  string   `json:"course_type"`
	} `json:"filter"`
}

type fixtureProgramMap struct {
	Name              string                    `json:"name"`
	RequiredCourses   []string                  `json:"required_courses"`
	OneOfGroups       [][]string                `json:"one_of_groups"`
	FilterConstraints []fixtureFilterConstraint `json:"filter_constraints"`
}

type fixtureDocument struct {
	Courses    []fixtureCourse   `json:"courses"`
	ProgramMap fixtureProgramMap `json:"program_map"`
}

func toDNF(clauses [][]string) dnf.Expression {
	if len(clauses) == 0 {
		return nil
	}
	expr := make(dnf.Expression, 0, len(clauses))
	for _, clause := range clauses {
		expr = append(expr, dnf.Clause(clause))
	}
	return expr
}

func courseType(raw string) programmap.CourseType {
	switch strings.ToLower(raw) {
	case "core":
		return programmap.TypeCore
	case "elective":
		return programmap.TypeElective
	default:
		return programmap.TypeAll
	}
}

func buildFromDocument(doc fixtureDocument) (*catalog.Store, *programmap.ProgramMap, error) {
	courses := make([]catalog.Course, 0, len(doc.Courses))
	for _, c := range doc.Courses {
		courses = append(courses, catalog.Course{
			Code:               c.Code,
			Program:            c.Program,
			YearLevel:          catalog.YearLevel(c.YearLevel),
			CreditHours:        c.CreditHours,
			PreRequisites:      toDNF(c.PreRequisites),
			CoRequisites:       toDNF(c.CoRequisites),
			PostRequisites:     toDNF(c.PostRequisites),
			CreditRestrictions: toDNF(c.CreditRestrictions),
		})
	}

	constraints := make([]programmap.FilterConstraint, 0, len(doc.ProgramMap.FilterConstraints))
	for _, fc := range doc.ProgramMap.FilterConstraints {
		constraints = append(constraints, programmap.FilterConstraint{
			Name: fc.Name,
			LTE:  fc.LTE,
			GTE:  fc.GTE,
			Filter: programmap.Filter{
				CourseNames: fc.Filter.CourseNames,
				Programs:    fc.Filter.Programs,
				YearLevels:  fc.Filter.YearLevels,
				CourseType:  courseType(fc.Filter.CourseType),
			},
		})
	}

	pm := &programmap.ProgramMap{
		Name:              doc.ProgramMap.Name,
		RequiredCourses:   doc.ProgramMap.RequiredCourses,
		OneOfGroups:       doc.ProgramMap.OneOfGroups,
		FilterConstraints: constraints,
	}
	return catalog.NewStore(courses), pm, nil
}

// LoadFixture parses the named embedded fixture ("computer-science" is
// the only one shipped) into a Store and ProgramMap pair.
func LoadFixture(name string) (*catalog.Store, *programmap.ProgramMap, error) {
	switch strings.ToLower(name) {
	case "computer-science", "computer_science", "cs":
		var doc fixtureDocument
		if err := json.Unmarshal(csFixtureJSON, &doc); err != nil {
			return nil, nil, fmt.Errorf("catalogload: parse embedded fixture: %w", err)
		}
		return buildFromDocument(doc)
	default:
		return nil, nil, fmt.Errorf("catalogload: unknown fixture course_map %q", name)
	}
}
