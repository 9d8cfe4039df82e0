package depvar_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusforge/gradplan/internal/catalog"
	"github.com/campusforge/gradplan/internal/cpmodel"
	"github.com/campusforge/gradplan/internal/depvar"
)

const numSemesters = 4 // semesters 1..4, 5 = unknown

// buildGrid creates a minimal taken/taken_in grid over codes, without any
// program-map or prerequisite logic layered on top, for exercising the
// dependent-variable library's contracts in isolation.
func buildGrid(model *cpmodel.Model, codes []string, numSemesters int) (map[string]*cpmodel.BoolVar, map[string]*cpmodel.IntVar) {
	taken := make(map[string]*cpmodel.BoolVar)
	takenIn := make(map[string]*cpmodel.IntVar)
	unknown := numSemesters + 1
	for _, code := range codes {
		row := make([]*cpmodel.BoolVar, numSemesters)
		for s := 0; s < numSemesters; s++ {
			row[s] = model.NewBoolVar(fmt.Sprintf("grid_%s_%d", code, s+1))
		}
		model.AtMostOne(row)
		t := model.Or(row, "taken_"+code)
		taken[code] = t
		ti := model.NewIntVar(1, unknown, "taken_in_"+code)
		for s := 0; s < numSemesters; s++ {
			model.ImpliesEqualConst(row[s], ti, s+1)
		}
		model.ImpliesEqualConst(model.Not(t), ti, unknown)
		takenIn[code] = ti
	}
	return taken, takenIn
}

func TestTakenBeforeRequiresStrictOrderAndBothTaken(t *testing.T) {
	model := cpmodel.NewModel()
	cat := catalog.NewStore([]catalog.Course{{Code: "a", CreditHours: 3}, {Code: "b", CreditHours: 3}})
	taken, takenIn := buildGrid(model, []string{"a", "b"}, numSemesters)
	lib := depvar.New(model, cat, numSemesters, depvar.VariantPlanning, taken, takenIn)

	before := lib.TakenBefore("a", "b")
	model.AddEqualityConst(before.AsInt(), 1)

	sol := model.Solve(2 * time.Second)
	require.Equal(t, cpmodel.StatusFeasible, sol.Status)
	assert.True(t, taken["a"].ValueIn(sol.Values))
	assert.True(t, taken["b"].ValueIn(sol.Values))
	assert.Less(t, takenIn["a"].ValueIn(sol.Values), takenIn["b"].ValueIn(sol.Values))
}

func TestAllTakenPinsFalseForUnknownCourse(t *testing.T) {
	model := cpmodel.NewModel()
	cat := catalog.NewStore([]catalog.Course{{Code: "a", CreditHours: 3}})
	taken, takenIn := buildGrid(model, []string{"a"}, numSemesters)
	lib := depvar.New(model, cat, numSemesters, depvar.VariantPlanning, taken, takenIn)

	v := lib.AllTaken([]string{"a", "does-not-exist"})
	model.AddEqualityConst(taken["a"].AsInt(), 1)

	sol := model.Solve(2 * time.Second)
	require.Equal(t, cpmodel.StatusFeasible, sol.Status)
	assert.False(t, v.ValueIn(sol.Values), "a set referencing a catalog-miss must never be AllTaken")
}

func TestStandingMetThresholds(t *testing.T) {
	// third-year standing needs taken_in >= 5, so this grid must span a
	// full eight-semester horizon.
	const sems = 8
	model := cpmodel.NewModel()
	cat := catalog.NewStore([]catalog.Course{{Code: "ethc4010u", CreditHours: 3}})
	taken, takenIn := buildGrid(model, []string{"ethc4010u"}, sems)
	lib := depvar.New(model, cat, sems, depvar.VariantPlanning, taken, takenIn)

	thirdYear := lib.StandingMet("third", "ethc4010u")
	model.AddEqualityConst(taken["ethc4010u"].AsInt(), 1)
	model.AddEqualityConst(thirdYear.AsInt(), 1)

	sol := model.Solve(2 * time.Second)
	require.Equal(t, cpmodel.StatusFeasible, sol.Status)
	assert.GreaterOrEqual(t, takenIn["ethc4010u"].ValueIn(sol.Values), 5, "third-year standing requires taken_in >= 5")
}

func TestCreditsBySemesterAccumulatesEarlierCourses(t *testing.T) {
	model := cpmodel.NewModel()
	cat := catalog.NewStore([]catalog.Course{
		{Code: "a", CreditHours: 3},
		{Code: "b", CreditHours: 3},
	})
	taken, takenIn := buildGrid(model, []string{"a", "b"}, numSemesters)
	lib := depvar.New(model, cat, numSemesters, depvar.VariantPlanning, taken, takenIn)

	model.AddEqualityConst(takenIn["a"], 1)
	model.AddEqualityConst(takenIn["b"], 2)

	creditsAtSem3 := lib.CreditsBySemester(3)
	sol := model.Solve(2 * time.Second)
	require.Equal(t, cpmodel.StatusFeasible, sol.Status)
	// Both "a" (sem 1) and "b" (sem 2) were taken strictly before semester 3,
	// at 3 credit hours each, scaled x10 => 60.
	assert.Equal(t, 60, creditsAtSem3.ValueIn(sol.Values))
}

func TestCreditsPrereqMetRequiresAccumulatedThreshold(t *testing.T) {
	model := cpmodel.NewModel()
	cat := catalog.NewStore([]catalog.Course{
		{Code: "a", CreditHours: 3},
		{Code: "b", CreditHours: 3},
		{Code: "gate", CreditHours: 3},
	})
	taken, takenIn := buildGrid(model, []string{"a", "b", "gate"}, numSemesters)
	lib := depvar.New(model, cat, numSemesters, depvar.VariantPlanning, taken, takenIn)

	met := lib.CreditsPrereqMet(6, "gate")
	model.AddEqualityConst(taken["gate"].AsInt(), 1)
	model.AddEqualityConst(met.AsInt(), 1)

	sol := model.Solve(2 * time.Second)
	require.Equal(t, cpmodel.StatusFeasible, sol.Status)
	gateSem := takenIn["gate"].ValueIn(sol.Values)
	accumulated := 0
	for _, code := range []string{"a", "b"} {
		if takenIn[code].ValueIn(sol.Values) < gateSem {
			accumulated += 30
		}
	}
	assert.GreaterOrEqual(t, accumulated, 60, "6 credit hours (scaled: 60) must be accumulated before gate's semester")
}
