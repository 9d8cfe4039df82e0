package cpmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumAndBounds(t *testing.T) {
	m := NewModel()
	a := m.NewIntVar(0, 5, "a")
	b := m.NewIntVar(0, 5, "b")
	total := m.Sum([]*IntVar{a, b}, []int{1, 1}, 0, 3, "total")
	_ = total

	sol := m.Solve(time.Second)
	require.Equal(t, StatusFeasible, sol.Status)
	sum := a.ValueIn(sol.Values) + b.ValueIn(sol.Values)
	assert.LessOrEqual(t, sum, 3)
}

func TestAtMostOne(t *testing.T) {
	m := NewModel()
	bools := []*BoolVar{m.NewBoolVar("x"), m.NewBoolVar("y"), m.NewBoolVar("z")}
	m.AtMostOne(bools)
	m.AddEqualityConst(boolAsInt(m, bools[0]), 1)
	m.AddEqualityConst(boolAsInt(m, bools[1]), 1)

	sol := m.Solve(time.Second)
	assert.Equal(t, StatusInfeasible, sol.Status)
}

// boolAsInt is test-only scaffolding: BoolVar and IntVar share the same
// underlying engine representation, so an equality-to-constant on the
// raw var works directly.
func boolAsInt(m *Model, b *BoolVar) *IntVar {
	return &IntVar{v: b.v, lo: 0, hi: 1}
}

func TestMapDomainShiftsValues(t *testing.T) {
	m := NewModel()
	a := m.NewIntVar(0, 3, "a")
	b := m.MapDomain(a, 1, "b")
	m.AddEqualityConst(a, 2)

	sol := m.Solve(time.Second)
	require.Equal(t, StatusFeasible, sol.Status)
	assert.Equal(t, 3, b.ValueIn(sol.Values))
}

func TestMaxEquality(t *testing.T) {
	m := NewModel()
	a := m.NewConstInt(3)
	b := m.NewConstInt(7)
	c := m.NewConstInt(5)
	mx := m.MaxEquality([]*IntVar{a, b, c}, "mx")

	sol := m.Solve(time.Second)
	require.Equal(t, StatusFeasible, sol.Status)
	assert.Equal(t, 7, mx.ValueIn(sol.Values))
}

func TestSolveOptimalMaximize(t *testing.T) {
	m := NewModel()
	a := m.NewIntVar(0, 5, "a")
	b := m.NewIntVar(0, 5, "b")
	total := m.Sum([]*IntVar{a, b}, []int{1, 1}, 0, 10, "total")
	m.AddInequality(a, b)

	sol := m.SolveOptimal(total, true, time.Second)
	require.Equal(t, StatusFeasible, sol.Status)
	assert.Equal(t, 9, sol.Objective)
}
