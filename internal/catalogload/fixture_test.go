package catalogload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFixtureComputerScience(t *testing.T) {
	store, pm, err := LoadFixture("computer-science")
	require.NoError(t, err)
	require.NotNil(t, store)
	require.NotNil(t, pm)

	assert.Equal(t, "computer-science", pm.Name)
	assert.NotEmpty(t, pm.RequiredCourses)
	assert.NotEmpty(t, pm.OneOfGroups)
	assert.NotEmpty(t, pm.FilterConstraints)

	course, ok := store.Get("csci4160u")
	require.True(t, ok)
	assert.Len(t, course.PreRequisites, 2, "csci4160u has two prerequisite clauses (math2050u or math1850u)")

	_, ok = store.Get("nope0000u")
	assert.False(t, ok)
}

func TestLoadFixtureUnknownCourseMap(t *testing.T) {
	_, _, err := LoadFixture("underwater-basket-weaving")
	assert.Error(t, err)
}

func TestLoadFixtureCaseInsensitive(t *testing.T) {
	_, _, err := LoadFixture("Computer-Science")
	assert.NoError(t, err)
}
