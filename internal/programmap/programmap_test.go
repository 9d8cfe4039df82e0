package programmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusforge/gradplan/internal/programmap"
)

func TestFilterMatchesByCourseName(t *testing.T) {
	f := programmap.Filter{CourseNames: []string{"csci3070u"}}
	assert.True(t, f.Matches("csci3070u", "computer-science", 3))
	assert.False(t, f.Matches("csci4160u", "computer-science", 4))
}

func TestFilterMatchesByProgramOrYearLevel(t *testing.T) {
	f := programmap.Filter{Programs: []string{"science"}}
	assert.True(t, f.Matches("scie3100u", "science", 3))
	assert.False(t, f.Matches("csci3070u", "computer-science", 3))

	y := programmap.Filter{YearLevels: []int{3}}
	assert.True(t, y.Matches("anything", "any-program", 3))
	assert.False(t, y.Matches("anything", "any-program", 4))
}

func TestFilterNarrowsConjunctively(t *testing.T) {
	f := programmap.Filter{Programs: []string{"computer-science"}, YearLevels: []int{4}}
	assert.True(t, f.Matches("csci4160u", "computer-science", 4))
	assert.False(t, f.Matches("csci3070u", "computer-science", 3), "right program, wrong year")
	assert.False(t, f.Matches("scie4100u", "science", 4), "right year, wrong program")
}

func TestEmptyFilterMatchesEverything(t *testing.T) {
	f := programmap.Filter{}
	assert.True(t, f.Matches("csci1000u", "computer-science", 1))
}
