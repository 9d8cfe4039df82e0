// Package cpmodel is a thin, conventionally-signed façade over
// internal/engine. The engine only represents domains of positive
// integers ([1, MaxValue], never zero or negative); cpmodel hides that
// by encoding every real value as engine value = real value + 1, so
// every exported type here behaves like an ordinary zero-based integer
// or boolean CP variable. Callers never see the +1 offset.
package cpmodel

import "github.com/campusforge/gradplan/internal/engine"

// Model builds a constraint satisfaction problem using real-valued
// (zero-based) variables and relational/arithmetic constraints, and
// delegates solving to internal/engine.
type Model struct {
	eng *engine.Model
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{eng: engine.NewModel()}
}

// Engine exposes the underlying engine.Model for callers that need to
// configure solver limits directly (internal/engine.SolverConfig).
func (m *Model) Engine() *engine.Model { return m.eng }

// BoolVar is a boolean decision variable. Internally it is an IntVar
// restricted to {0,1}.
type BoolVar struct {
	v *engine.Var
}

// IntVar is an integer decision variable over [Lo, Hi].
type IntVar struct {
	v      *engine.Var
	lo, hi int
}

const offset = 1

func toEngine(real int) int  { return real + offset }
func fromEngine(eng int) int { return eng - offset }

// NewBoolVar creates an unconstrained boolean variable.
func (m *Model) NewBoolVar(name string) *BoolVar {
	d := engine.NewBitSetDomain(toEngine(1))
	return &BoolVar{v: m.eng.NewNamedVariable(d, name)}
}

// NewConstBool creates a boolean variable pinned to val.
func (m *Model) NewConstBool(val bool) *BoolVar {
	real := 0
	if val {
		real = 1
	}
	d := engine.NewSingletonDomain(toEngine(1), toEngine(real))
	return &BoolVar{v: m.eng.NewVariable(d)}
}

// Var exposes the underlying engine Var.
func (b *BoolVar) Var() *engine.Var { return b.v }

// ValueIn reads b's assigned value from a Solution.Values map (real,
// already-decoded values keyed by engine.Var.ID()).
func (b *BoolVar) ValueIn(assignment map[int]int) bool {
	return assignment[b.v.ID()] == 1
}

// AsInt views b as a 0/1 IntVar, sharing the same underlying engine Var.
// Useful for feeding booleans into Sum/MaxEquality/AddEquality, which
// operate on IntVar.
func (b *BoolVar) AsInt() *IntVar { return &IntVar{v: b.v, lo: 0, hi: 1} }

// NewIntVar creates an integer variable with domain [lo, hi]. lo must be
// >= 0: the engine cannot represent negative domain values.
func (m *Model) NewIntVar(lo, hi int, name string) *IntVar {
	if lo < 0 {
		lo = 0
	}
	if hi < lo {
		hi = lo
	}
	d := engine.NewBitSetDomainFromValues(toEngine(hi), rangeValues(toEngine(lo), toEngine(hi))...)
	return &IntVar{v: m.eng.NewNamedVariable(d, name), lo: lo, hi: hi}
}

// NewConstInt creates an integer variable pinned to val.
func (m *Model) NewConstInt(val int) *IntVar {
	d := engine.NewSingletonDomain(toEngine(val), toEngine(val))
	return &IntVar{v: m.eng.NewVariable(d), lo: val, hi: val}
}

func rangeValues(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		out = append(out, v)
	}
	return out
}

// Var exposes the underlying engine Var.
func (iv *IntVar) Var() *engine.Var { return iv.v }

// Bounds returns the variable's real-valued [lo, hi] range as declared
// at construction. After solving, the actual domain may be narrower;
// use ValueIn for the solved value.
func (iv *IntVar) Bounds() (int, int) { return iv.lo, iv.hi }

// ValueIn reads iv's assigned value from a Solution.Values map (real,
// already-decoded values keyed by engine.Var.ID()).
func (iv *IntVar) ValueIn(assignment map[int]int) int {
	return assignment[iv.v.ID()]
}
