// Package catalog is the immutable, indexed course table. It is built
// once at process start from whatever loader populates it (see
// internal/catalogload) and shared read-only across every solve
// thereafter.
package catalog

import (
	"strings"

	"github.com/campusforge/gradplan/internal/dnf"
)

// YearLevel is a course's catalog year-level, 1 through 4.
type YearLevel int

// Course is one row of the catalog: code, program, year-level, credit
// hours, and its four DNF requirement lists.
type Course struct {
	Code        string
	Program     string
	YearLevel   YearLevel
	CreditHours float64

	PreRequisites      dnf.Expression
	CoRequisites       dnf.Expression
	PostRequisites     dnf.Expression
	CreditRestrictions dnf.Expression
}

// ScaledCreditHours returns the course's credit hours scaled by 10, as
// an integer. Some courses carry fractional credit hours and the
// solver only sums integers, so every quota uses the same x10 scale.
func (c Course) ScaledCreditHours() int {
	return int(c.CreditHours*10 + 0.5)
}

// Store is a row-major, code-indexed table of Courses. It never mutates
// after NewStore returns.
type Store struct {
	byCode map[string]Course
	codes  []string
}

// NewStore builds a Store from a course list. Course codes are
// normalized to lowercase, matching the catalog's persistence
// convention ("<prefix><code>u", e.g. csci3070u).
func NewStore(courses []Course) *Store {
	s := &Store{byCode: make(map[string]Course, len(courses)), codes: make([]string, 0, len(courses))}
	for _, c := range courses {
		c.Code = strings.ToLower(c.Code)
		if _, exists := s.byCode[c.Code]; !exists {
			s.codes = append(s.codes, c.Code)
		}
		s.byCode[c.Code] = c
	}
	return s
}

// Get returns the course with the given code (case-insensitive) and
// whether it exists. A miss is not an error: callers in the
// dependent-variable library treat a missing course as a pinned-false
// witness rather than aborting.
func (s *Store) Get(code string) (Course, bool) {
	c, ok := s.byCode[strings.ToLower(code)]
	return c, ok
}

// Codes returns every course code in the store, in load order.
func (s *Store) Codes() []string {
	out := make([]string, len(s.codes))
	copy(out, s.codes)
	return out
}

// Len returns the number of courses in the store.
func (s *Store) Len() int { return len(s.codes) }
