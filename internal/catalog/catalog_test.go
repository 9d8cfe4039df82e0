package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusforge/gradplan/internal/catalog"
)

func TestNewStoreLowercasesCodesAndLooksUpCaseInsensitively(t *testing.T) {
	store := catalog.NewStore([]catalog.Course{{Code: "CSCI3070U", CreditHours: 3}})
	c, ok := store.Get("CSCI3070U")
	assert.True(t, ok)
	assert.Equal(t, "csci3070u", c.Code)

	c2, ok2 := store.Get("csci3070u")
	assert.True(t, ok2)
	assert.Equal(t, c.Code, c2.Code)
}

func TestGetMissingCourseIsNotAnError(t *testing.T) {
	store := catalog.NewStore(nil)
	_, ok := store.Get("does-not-exist")
	assert.False(t, ok)
}

func TestScaledCreditHoursHandlesFractions(t *testing.T) {
	c := catalog.Course{CreditHours: 1.5}
	assert.Equal(t, 15, c.ScaledCreditHours())
}

func TestCodesReturnsLoadOrderAndLen(t *testing.T) {
	store := catalog.NewStore([]catalog.Course{{Code: "b"}, {Code: "a"}})
	assert.Equal(t, []string{"b", "a"}, store.Codes())
	assert.Equal(t, 2, store.Len())
}
