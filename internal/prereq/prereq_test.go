package prereq_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusforge/gradplan/internal/catalog"
	"github.com/campusforge/gradplan/internal/cpmodel"
	"github.com/campusforge/gradplan/internal/depvar"
	"github.com/campusforge/gradplan/internal/dnf"
	"github.com/campusforge/gradplan/internal/prereq"
)

const numSemesters = 4

func buildGrid(model *cpmodel.Model, codes []string) (map[string]*cpmodel.BoolVar, map[string]*cpmodel.IntVar) {
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

func TestInterpretForbidsTakingWithoutSatisfiedClause(t *testing.T) {
	model := cpmodel.NewModel()
	cat := catalog.NewStore([]catalog.Course{{Code: "csci1000u", CreditHours: 3}, {Code: "csci2000u", CreditHours: 3}})
	taken, takenIn := buildGrid(model, []string{"csci1000u", "csci2000u"})
	lib := depvar.New(model, cat, numSemesters, depvar.VariantPlanning, taken, takenIn)
	interp := prereq.New(model, lib)

	// csci2000u requires csci1000u as a prerequisite.
	interp.Interpret("csci2000u", dnf.Expression{{"csci1000u"}}, prereq.RelationPrerequisite, taken["csci2000u"])
	model.AddEqualityConst(taken["csci2000u"].AsInt(), 1)
	model.AddEqualityConst(taken["csci1000u"].AsInt(), 0) // csci1000u never taken

	sol := model.Solve(2 * time.Second)
	assert.Equal(t, cpmodel.StatusInfeasible, sol.Status, "csci2000u cannot be taken while its sole prerequisite is never taken")
}

func TestInterpretAllowsEitherDNFClause(t *testing.T) {
	model := cpmodel.NewModel()
	cat := catalog.NewStore([]catalog.Course{
		{Code: "csci1000u", CreditHours: 3}, {Code: "csci1100u", CreditHours: 3}, {Code: "csci2000u", CreditHours: 3},
	})
	taken, takenIn := buildGrid(model, []string{"csci1000u", "csci1100u", "csci2000u"})
	lib := depvar.New(model, cat, numSemesters, depvar.VariantPlanning, taken, takenIn)
	interp := prereq.New(model, lib)

	// csci2000u requires (csci1000u) OR (csci1100u).
	interp.Interpret("csci2000u", dnf.Expression{{"csci1000u"}, {"csci1100u"}}, prereq.RelationPrerequisite, taken["csci2000u"])
	model.AddEqualityConst(taken["csci2000u"].AsInt(), 1)
	model.AddEqualityConst(taken["csci1000u"].AsInt(), 0)
	model.AddEqualityConst(taken["csci1100u"].AsInt(), 1)

	sol := model.Solve(2 * time.Second)
	require.Equal(t, cpmodel.StatusFeasible, sol.Status)
	assert.True(t, taken["csci2000u"].ValueIn(sol.Values))
}

func TestInterpretUnparseableAtomBecomesUnknownAssumption(t *testing.T) {
	model := cpmodel.NewModel()
	cat := catalog.NewStore([]catalog.Course{{Code: "c", CreditHours: 3}})
	taken, takenIn := buildGrid(model, []string{"c"})
	lib := depvar.New(model, cat, numSemesters, depvar.VariantPlanning, taken, takenIn)
	interp := prereq.New(model, lib)

	interp.Interpret("c", dnf.Expression{{"some-unparseable-atom"}}, prereq.RelationPrerequisite, taken["c"])
	require.Len(t, interp.UnknownAssumptions(), 1)

	model.AddEqualityConst(taken["c"].AsInt(), 1)
	sol := model.Solve(2 * time.Second)
	require.Equal(t, cpmodel.StatusFeasible, sol.Status)
	assert.True(t, interp.UnknownAssumptions()[0].ValueIn(sol.Values), "the solver must set unk=1 to take c despite the unparseable atom")
}

func TestInterpretEmptyExpressionIsVacuouslySatisfied(t *testing.T) {
	model := cpmodel.NewModel()
	cat := catalog.NewStore([]catalog.Course{{Code: "a", CreditHours: 3}})
	taken, takenIn := buildGrid(model, []string{"a"})
	lib := depvar.New(model, cat, numSemesters, depvar.VariantPlanning, taken, takenIn)
	interp := prereq.New(model, lib)

	interp.Interpret("a", nil, prereq.RelationPrerequisite, taken["a"])
	model.AddEqualityConst(taken["a"].AsInt(), 1)

	sol := model.Solve(2 * time.Second)
	assert.Equal(t, cpmodel.StatusFeasible, sol.Status)
}
