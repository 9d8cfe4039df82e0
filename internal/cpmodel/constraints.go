package cpmodel

import "github.com/campusforge/gradplan/internal/engine"

// AddEquality enforces a == b.
func (m *Model) AddEquality(a, b *IntVar) {
	m.eng.AddConstraint(engine.NewInequality(a.v, b.v, engine.EQ))
}

// AddInequality enforces a != b.
func (m *Model) AddInequality(a, b *IntVar) {
	m.eng.AddConstraint(engine.NewInequality(a.v, b.v, engine.NE))
}

// AddLessOrEqual enforces a <= b.
func (m *Model) AddLessOrEqual(a, b *IntVar) {
	m.eng.AddConstraint(engine.NewInequality(a.v, b.v, engine.LE))
}

// AddGreaterOrEqual enforces a >= b.
func (m *Model) AddGreaterOrEqual(a, b *IntVar) {
	m.eng.AddConstraint(engine.NewInequality(a.v, b.v, engine.GE))
}

// AddLessOrEqualConst enforces a <= k.
func (m *Model) AddLessOrEqualConst(a *IntVar, k int) {
	m.AddLessOrEqual(a, m.NewConstInt(k))
}

// AddGreaterOrEqualConst enforces a >= k.
func (m *Model) AddGreaterOrEqualConst(a *IntVar, k int) {
	m.AddGreaterOrEqual(a, m.NewConstInt(k))
}

// AddEqualityConst enforces a == k.
func (m *Model) AddEqualityConst(a *IntVar, k int) {
	m.AddEquality(a, m.NewConstInt(k))
}

// MapDomain creates a new IntVar equal to source+delta and links it to
// source with a hard constraint (e.g. converting a course's catalog
// index into its forced-semester index).
func (m *Model) MapDomain(source *IntVar, delta int, name string) *IntVar {
	lo, hi := source.lo+delta, source.hi+delta
	target := m.NewIntVar(lo, hi, name)
	m.eng.AddConstraint(engine.NewArithmetic(source.v, target.v, delta))
	return target
}

// Sum creates a new IntVar equal to sum(coeffs[i] * terms[i].real), with
// the created var's domain bounded to [lo, hi] (infeasible if the true
// sum falls outside that range; callers use lo/hi to directly encode
// <=/>= bounds on the sum without a separate constraint).
func (m *Model) Sum(terms []*IntVar, coeffs []int, lo, hi int, name string) *IntVar {
	engVars := make([]*engine.Var, len(terms))
	cs := append([]int(nil), coeffs...)
	sumCoeff := 0
	rawLo, rawHi := 0, 0
	for i, t := range terms {
		engVars[i] = t.v
		c := cs[i]
		sumCoeff += c
		lov, hiv := toEngine(t.lo)*c, toEngine(t.hi)*c
		if c < 0 {
			lov, hiv = hiv, lov
		}
		rawLo += lov
		rawHi += hiv
	}
	// The engine only represents domain values >= 1; when negative
	// coefficients can pull the raw total below that, fold a pinned
	// constant term into the sum to lift it back into range.
	shift := 0
	if rawLo < 1 {
		shift = 1 - rawLo
		one := m.eng.NewVariable(engine.NewSingletonDomain(1, 1))
		engVars = append(engVars, one)
		cs = append(cs, shift)
		rawLo += shift
		rawHi += shift
	}
	rawTotal := m.eng.NewNamedVariable(engine.NewBitSetDomainFromValues(rawHi, rangeValues(rawLo, rawHi)...), name+"_raw")
	m.eng.AddConstraint(engine.NewLinearSum(engVars, cs, rawTotal))

	target := m.NewIntVar(lo, hi, name)
	delta := offset - sumCoeff - shift
	m.eng.AddConstraint(engine.NewArithmetic(rawTotal, target.v, delta))
	return target
}

// ExactlyOne enforces that exactly one of vars is true.
func (m *Model) ExactlyOne(vars []*BoolVar) {
	m.countTrue(vars, 1, 1)
}

// AtMostOne enforces that at most one of vars is true.
func (m *Model) AtMostOne(vars []*BoolVar) {
	m.countTrue(vars, 0, 1)
}

// AtLeastOne enforces that at least one of vars is true.
func (m *Model) AtLeastOne(vars []*BoolVar) {
	m.countTrue(vars, 1, len(vars))
}

func (m *Model) countTrue(vars []*BoolVar, lo, hi int) {
	engVars := make([]*engine.Var, len(vars))
	for i, v := range vars {
		engVars[i] = v.v
	}
	result := m.eng.NewVariable(engine.NewBitSetDomainFromValues(toEngine(len(vars)), rangeValues(toEngine(lo), toEngine(hi))...))
	m.eng.AddConstraint(engine.NewCount(engVars, toEngine(1), result))
}

// CountTrue returns a new IntVar equal to the number of vars that are
// true, bounded to [lo, hi].
func (m *Model) CountTrue(vars []*BoolVar, lo, hi int, name string) *IntVar {
	engVars := make([]*engine.Var, len(vars))
	for i, v := range vars {
		engVars[i] = v.v
	}
	target := m.NewIntVar(lo, hi, name)
	m.eng.AddConstraint(engine.NewCount(engVars, toEngine(1), target.v))
	return target
}

// MaxEquality creates a new IntVar equal to max(vars).
func (m *Model) MaxEquality(vars []*IntVar, name string) *IntVar {
	engVars, lo, hi := collectBounds(vars)
	target := m.NewIntVar(lo, hi, name)
	m.eng.AddConstraint(engine.NewMaxOfArray(engVars, target.v))
	return target
}

// MinEquality creates a new IntVar equal to min(vars).
func (m *Model) MinEquality(vars []*IntVar, name string) *IntVar {
	engVars, lo, hi := collectBounds(vars)
	target := m.NewIntVar(lo, hi, name)
	m.eng.AddConstraint(engine.NewMinOfArray(engVars, target.v))
	return target
}

func collectBounds(vars []*IntVar) ([]*engine.Var, int, int) {
	engVars := make([]*engine.Var, len(vars))
	lo, hi := vars[0].lo, vars[0].hi
	for i, v := range vars {
		engVars[i] = v.v
		if v.lo < lo {
			lo = v.lo
		}
		if v.hi > hi {
			hi = v.hi
		}
	}
	return engVars, lo, hi
}

// Not creates a new BoolVar that is always the logical negation of b.
// Boolean Vars share the engine's {false,true} domain, so this is a
// plain hard disequality constraint, not a reification.
func (m *Model) Not(b *BoolVar) *BoolVar {
	v := m.NewBoolVar("not")
	m.eng.AddConstraint(engine.NewInequality(b.v, v.v, engine.NE))
	return v
}

// Or creates a new BoolVar that is true exactly when at least one of
// vars is true. An empty vars slice returns a constant false.
func (m *Model) Or(vars []*BoolVar, name string) *BoolVar {
	if len(vars) == 0 {
		return m.NewConstBool(false)
	}
	count := m.CountTrue(vars, 0, len(vars), name+"_count")
	zero := m.NewConstInt(0)
	return m.ReifiedComparison(count, zero, GT, name)
}

// ReifiedEquals creates a new BoolVar whose truth value tracks whether
// a == b, bidirectionally: fixing the indicator fixes the comparison,
// and fixing the comparison (e.g. both sides become singletons) fixes
// the indicator. This is the engine's primitive for exposing "was this
// constraint satisfied" as data, as the Feasibility/Diagnosis solver
// requires.
func (m *Model) ReifiedEquals(a, b *IntVar, name string) *BoolVar {
	ind := m.NewBoolVar(name)
	m.eng.AddConstraint(engine.NewEqualityReified(ind.v, a.v, b.v))
	return ind
}

// Kind re-exports engine.InequalityKind so callers outside cpmodel never
// need to import internal/engine directly for comparison constraints.
type Kind = engine.InequalityKind

const (
	LT = engine.LT
	LE = engine.LE
	GT = engine.GT
	GE = engine.GE
	EQ = engine.EQ
	NE = engine.NE
)

// ReifiedComparison creates a new BoolVar whose truth value tracks
// whether a <kind> b, bidirectionally.
func (m *Model) ReifiedComparison(a, b *IntVar, kind Kind, name string) *BoolVar {
	ind := m.NewBoolVar(name)
	m.eng.AddConstraint(engine.NewReifiedComparison(ind.v, a.v, b.v, kind))
	return ind
}

// OnlyEnforceIf ties an arbitrary engine.Constraint to a BoolVar
// assumption: the constraint is only required to hold when cond is
// true. Used for "diagnostic" constraints the Feasibility solver may
// relax one at a time, and for reified prerequisite clauses.
func (m *Model) OnlyEnforceIf(cond *BoolVar, c engine.Constraint) {
	m.eng.AddConstraint(engine.NewReified(cond.v, c))
}

// CondEqual creates a new IntVar equal to source when cond is true and
// to offValue when cond is false.
func (m *Model) CondEqual(cond *BoolVar, source *IntVar, offValue int, name string) *IntVar {
	lo, hi := source.lo, source.hi
	if offValue < lo {
		lo = offValue
	}
	if offValue > hi {
		hi = offValue
	}
	target := m.NewIntVar(lo, hi, name)
	m.eng.AddConstraint(engine.NewCondEqual(cond.v, target.v, source.v, toEngine(offValue)))
	return target
}

// ImpliesBoolTrue enforces cond=true => b=true.
func (m *Model) ImpliesBoolTrue(cond *BoolVar, b *BoolVar) {
	m.OnlyEnforceIf(cond, engine.NewInequality(b.v, m.NewConstBool(true).v, engine.EQ))
}

// ImpliesBoolFalse enforces cond=true => b=false.
func (m *Model) ImpliesBoolFalse(cond *BoolVar, b *BoolVar) {
	m.OnlyEnforceIf(cond, engine.NewInequality(b.v, m.NewConstBool(false).v, engine.EQ))
}

// ImpliesComparison enforces cond=true => a <kind> b.
func (m *Model) ImpliesComparison(cond *BoolVar, a, b *IntVar, kind Kind) {
	m.OnlyEnforceIf(cond, engine.NewInequality(a.v, b.v, kind))
}

// ImpliesEqualConst enforces cond=true => a == k.
func (m *Model) ImpliesEqualConst(cond *BoolVar, a *IntVar, k int) {
	m.OnlyEnforceIf(cond, engine.NewInequality(a.v, m.NewConstInt(k).v, engine.EQ))
}

// ImpliesComparisonConst enforces cond=true => a <kind> k.
func (m *Model) ImpliesComparisonConst(cond *BoolVar, a *IntVar, kind Kind, k int) {
	m.OnlyEnforceIf(cond, engine.NewInequality(a.v, m.NewConstInt(k).v, kind))
}

// Mux pins target to onValue when cond is true and to offValue when
// cond is false.
func (m *Model) Mux(cond *BoolVar, target *IntVar, onValue, offValue int) {
	m.eng.AddConstraint(engine.NewMux(cond.v, target.v, toEngine(onValue), toEngine(offValue)))
}
