package engine

// boolDomainMax is the MaxValue every boolean Var in this engine uses:
// domain {1,2} where 1 means false and 2 means true. cpmodel.BoolVar
// relies on this exact encoding.
const boolDomainMax = 2
const boolFalse = 1
const boolTrue = 2

// Reified links a boolean indicator Var to the satisfiability of an
// inner Constraint: indicator=true enforces the inner constraint,
// indicator=false enforces the inner constraint's negation is not
// required to be propagated (the branch is simply left unconstrained by
// it). This is bidirectional in the true direction only: if search
// fixes indicator to true, the inner constraint propagates normally; if
// a later propagation round proves the inner constraint cannot hold
// given the current domains, indicator is narrowed to false.
//
// This is the engine's "assumption boolean" / "only enforce if"
// primitive.
type Reified struct {
	Indicator *Var
	Inner     Constraint
}

func NewReified(indicator *Var, inner Constraint) *Reified {
	return &Reified{Indicator: indicator, Inner: inner}
}

func (c *Reified) Variables() []*Var {
	return append([]*Var{c.Indicator}, c.Inner.Variables()...)
}
func (c *Reified) Type() string { return "Reified(" + c.Inner.Type() + ")" }

func (c *Reified) Propagate(state *SolverState) (bool, bool) {
	ind := state.Get(c.Indicator)

	if ind.IsSingleton() {
		v, _ := ind.SingletonValue()
		if v == boolFalse {
			return false, true
		}
		changed, ok := c.Inner.Propagate(state)
		return changed, ok
	}

	// Speculatively check feasibility of the inner constraint without
	// committing: run it on a branched (copy-on-write) state and see if
	// it fails outright.
	probe := state.Branch()
	_, ok := c.Inner.Propagate(probe)
	if !ok {
		if !state.Set(c.Indicator, ind.Remove(boolTrue)) {
			return false, false
		}
		return true, true
	}
	return false, true
}

// EqualityReified links a boolean indicator Var to whether Left and
// Right currently hold the same value: indicator=true forces Left=Right,
// indicator=false forces Left!=Right. It is the bidirectional primitive
// the Feasibility/Diagnosis solver uses to expose "this constraint was
// satisfied" as data.
type EqualityReified struct {
	Indicator   *Var
	Left, Right *Var
}

func NewEqualityReified(indicator, left, right *Var) *EqualityReified {
	return &EqualityReified{Indicator: indicator, Left: left, Right: right}
}

func (c *EqualityReified) Variables() []*Var { return []*Var{c.Indicator, c.Left, c.Right} }
func (c *EqualityReified) Type() string      { return "EqualityReified" }

func (c *EqualityReified) Propagate(state *SolverState) (bool, bool) {
	ind := state.Get(c.Indicator)
	left := state.Get(c.Left)
	right := state.Get(c.Right)
	changed := false

	if v, ok := ind.SingletonValue(); ok {
		if v == boolTrue {
			eq := NewInequality(c.Left, c.Right, EQ)
			return eq.Propagate(state)
		}
		ne := NewInequality(c.Left, c.Right, NE)
		return ne.Propagate(state)
	}

	if left.IsSingleton() && right.IsSingleton() {
		lv, _ := left.SingletonValue()
		rv, _ := right.SingletonValue()
		want := boolFalse
		if lv == rv {
			want = boolTrue
		}
		if !ind.Has(want) {
			return false, false
		}
		if !ind.IsSingleton() {
			if !state.Set(c.Indicator, NewSingletonDomain(ind.MaxValue(), want)) {
				return false, false
			}
			changed = true
		}
		return changed, true
	}

	if !left.Intersect(right).IsEmpty() {
		return changed, true
	}
	// domains share no common value: Left can never equal Right
	if !ind.Has(boolFalse) {
		return false, false
	}
	if ind.Has(boolTrue) {
		if !state.Set(c.Indicator, NewSingletonDomain(ind.MaxValue(), boolFalse)) {
			return false, false
		}
		changed = true
	}
	return changed, true
}

// ReifiedComparison links a boolean indicator Var to whether Left <kind>
// Right currently holds, for any InequalityKind. It is the
// bidirectional primitive StandingMet, CreditsBySemester, and
// CreditsPrereqMet use to expose a threshold comparison as a boolean.
type ReifiedComparison struct {
	Indicator   *Var
	Left, Right *Var
	Kind        InequalityKind
}

func NewReifiedComparison(indicator, left, right *Var, kind InequalityKind) *ReifiedComparison {
	return &ReifiedComparison{Indicator: indicator, Left: left, Right: right, Kind: kind}
}

func (c *ReifiedComparison) Variables() []*Var { return []*Var{c.Indicator, c.Left, c.Right} }
func (c *ReifiedComparison) Type() string      { return "ReifiedComparison" }

func negate(k InequalityKind) InequalityKind {
	switch k {
	case LT:
		return GE
	case LE:
		return GT
	case GT:
		return LE
	case GE:
		return LT
	case EQ:
		return NE
	case NE:
		return EQ
	}
	return k
}

// holds reports, given bounds, whether the comparison is forced true
// (1), forced false (-1), or still undetermined (0).
func holds(lmin, lmax, rmin, rmax int, kind InequalityKind) int {
	switch kind {
	case LT:
		if lmax < rmin {
			return 1
		}
		if lmin >= rmax {
			return -1
		}
	case LE:
		if lmax <= rmin {
			return 1
		}
		if lmin > rmax {
			return -1
		}
	case GT:
		if lmin > rmax {
			return 1
		}
		if lmax <= rmin {
			return -1
		}
	case GE:
		if lmin >= rmax {
			return 1
		}
		if lmax < rmin {
			return -1
		}
	case EQ:
		if lmin == lmax && rmin == rmax && lmin == rmin {
			return 1
		}
		if lmax < rmin || lmin > rmax {
			return -1
		}
	case NE:
		if lmax < rmin || lmin > rmax {
			return 1
		}
		if lmin == lmax && rmin == rmax && lmin == rmin {
			return -1
		}
	}
	return 0
}

func (c *ReifiedComparison) Propagate(state *SolverState) (bool, bool) {
	ind := state.Get(c.Indicator)
	left := state.Get(c.Left)
	right := state.Get(c.Right)

	if v, ok := ind.SingletonValue(); ok {
		kind := c.Kind
		if v == boolFalse {
			kind = negate(c.Kind)
		}
		inner := NewInequality(c.Left, c.Right, kind)
		return inner.Propagate(state)
	}

	lmin, _ := left.Min()
	lmax, _ := left.Max()
	rmin, _ := right.Min()
	rmax, _ := right.Max()

	switch holds(lmin, lmax, rmin, rmax, c.Kind) {
	case 1:
		if !ind.Has(boolTrue) {
			return false, false
		}
		if !state.Set(c.Indicator, NewSingletonDomain(ind.MaxValue(), boolTrue)) {
			return false, false
		}
		return true, true
	case -1:
		if !ind.Has(boolFalse) {
			return false, false
		}
		if !state.Set(c.Indicator, NewSingletonDomain(ind.MaxValue(), boolFalse)) {
			return false, false
		}
		return true, true
	}
	return false, true
}

// CondEqual enforces Target = Source when Indicator is true, and
// Target = OffValue when Indicator is false. Unlike Mux, the "true"
// branch's value is itself a Var rather than a fixed constant; this is
// how CreditsPrereqMet picks out "credits accumulated as of the
// semester a course was actually taken" from a per-semester array of
// credit-total Vars.
type CondEqual struct {
	Indicator *Var
	Target    *Var
	Source    *Var
	OffValue  int
}

func NewCondEqual(indicator, target, source *Var, offValue int) *CondEqual {
	return &CondEqual{Indicator: indicator, Target: target, Source: source, OffValue: offValue}
}

func (c *CondEqual) Variables() []*Var { return []*Var{c.Indicator, c.Target, c.Source} }
func (c *CondEqual) Type() string      { return "CondEqual" }

func (c *CondEqual) Propagate(state *SolverState) (bool, bool) {
	ind := state.Get(c.Indicator)
	if v, ok := ind.SingletonValue(); ok {
		if v == boolFalse {
			target := state.Get(c.Target)
			want := NewSingletonDomain(target.MaxValue(), c.OffValue)
			if !target.Equal(want) {
				if !state.Set(c.Target, want) {
					return false, false
				}
				return true, true
			}
			return false, true
		}
		eq := NewInequality(c.Target, c.Source, EQ)
		return eq.Propagate(state)
	}
	return false, true
}

// Mux pins Target to OnValue when Indicator is true and to OffValue when
// Indicator is false. It is how cpmodel encodes "this variable
// contributes OnValue to a linear sum if this boolean is true, else
// OffValue" without widening the engine's domain model to include
// negative or zero raw values (see internal/cpmodel's offset
// convention).
type Mux struct {
	Indicator         *Var
	Target            *Var
	OnValue, OffValue int
}

func NewMux(indicator, target *Var, onValue, offValue int) *Mux {
	return &Mux{Indicator: indicator, Target: target, OnValue: onValue, OffValue: offValue}
}

func (c *Mux) Variables() []*Var { return []*Var{c.Indicator, c.Target} }
func (c *Mux) Type() string      { return "Mux" }

func (c *Mux) Propagate(state *SolverState) (bool, bool) {
	ind := state.Get(c.Indicator)
	target := state.Get(c.Target)
	changed := false

	if v, ok := ind.SingletonValue(); ok {
		want := c.OffValue
		if v == boolTrue {
			want = c.OnValue
		}
		if !target.Has(want) {
			return false, false
		}
		if !target.IsSingleton() {
			if !state.Set(c.Target, NewSingletonDomain(target.MaxValue(), want)) {
				return false, false
			}
			changed = true
		}
		return changed, true
	}

	canOn := target.Has(c.OnValue)
	canOff := target.Has(c.OffValue)
	if !canOn && !ind.Has(boolFalse) {
		return false, false
	}
	if !canOff && !ind.Has(boolTrue) {
		return false, false
	}
	newInd := ind
	if !canOn {
		newInd = newInd.Remove(boolTrue)
	}
	if !canOff {
		newInd = newInd.Remove(boolFalse)
	}
	if !newInd.Equal(ind) {
		if !state.Set(c.Indicator, newInd) {
			return false, false
		}
		changed = true
	}
	return changed, true
}
