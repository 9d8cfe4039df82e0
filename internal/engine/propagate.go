package engine

// InequalityKind identifies the relational operator an Inequality
// constraint enforces between two Vars.
type InequalityKind int

const (
	LT InequalityKind = iota
	LE
	GT
	GE
	EQ
	NE
)

// Inequality enforces Left <op> Right, bounds-consistently: it narrows
// each side's domain to the range still reachable given the other
// side's current bounds. NE prunes only once a side is a singleton,
// removing that value from the other side (disequality between wide
// domains has no useful bounds narrowing).
type Inequality struct {
	Left, Right *Var
	Kind        InequalityKind
}

func NewInequality(left, right *Var, kind InequalityKind) *Inequality {
	return &Inequality{Left: left, Right: right, Kind: kind}
}

func (c *Inequality) Variables() []*Var { return []*Var{c.Left, c.Right} }
func (c *Inequality) Type() string      { return "Inequality" }

func (c *Inequality) Propagate(state *SolverState) (bool, bool) {
	left := state.Get(c.Left)
	right := state.Get(c.Right)
	lmin, ok1 := left.Min()
	lmax, ok2 := left.Max()
	rmin, ok3 := right.Min()
	rmax, ok4 := right.Max()
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false, false
	}

	changed := false
	newLeft := left
	newRight := right

	switch c.Kind {
	case LT:
		newLeft = newLeft.RemoveAbove(rmax - 1)
		newRight = newRight.RemoveBelow(lmin + 1)
	case LE:
		newLeft = newLeft.RemoveAbove(rmax)
		newRight = newRight.RemoveBelow(lmin)
	case GT:
		newLeft = newLeft.RemoveBelow(rmin + 1)
		newRight = newRight.RemoveAbove(lmax - 1)
	case GE:
		newLeft = newLeft.RemoveBelow(rmin)
		newRight = newRight.RemoveAbove(lmax)
	case EQ:
		newLeft = left.Intersect(right)
		newRight = right.Intersect(left)
	case NE:
		if lv, ok := left.SingletonValue(); ok {
			newRight = newRight.Remove(lv)
		}
		if rv, ok := right.SingletonValue(); ok {
			newLeft = newLeft.Remove(rv)
		}
	}

	if !newLeft.Equal(left) {
		if !state.Set(c.Left, newLeft) {
			return false, false
		}
		changed = true
		left = newLeft
	}
	if !newRight.Equal(right) {
		if !state.Set(c.Right, newRight) {
			return false, false
		}
		changed = true
	}
	if left.IsEmpty() || newRight.IsEmpty() {
		return changed, false
	}
	return changed, true
}

// Arithmetic enforces Target = Source + Offset, bounds-consistently.
// This is the engine's map-domain primitive: it lets callers shift a
// variable's meaning (e.g. course index to semester index) without a
// dedicated constraint type per offset.
type Arithmetic struct {
	Source, Target *Var
	Offset         int
}

func NewArithmetic(source, target *Var, offset int) *Arithmetic {
	return &Arithmetic{Source: source, Target: target, Offset: offset}
}

func (c *Arithmetic) Variables() []*Var { return []*Var{c.Source, c.Target} }
func (c *Arithmetic) Type() string      { return "Arithmetic" }

func (c *Arithmetic) Propagate(state *SolverState) (bool, bool) {
	source := state.Get(c.Source)
	target := state.Get(c.Target)

	newTarget := NewBitSetDomainFromValues(target.MaxValue())
	for _, v := range source.Values() {
		shifted := v + c.Offset
		if shifted >= 1 && shifted <= target.MaxValue() && target.Has(shifted) {
			newTarget = newTarget.Union(NewSingletonDomain(target.MaxValue(), shifted)).(*BitSetDomain)
		}
	}

	newSource := NewBitSetDomainFromValues(source.MaxValue())
	for _, v := range target.Values() {
		shifted := v - c.Offset
		if shifted >= 1 && shifted <= source.MaxValue() && source.Has(shifted) {
			newSource = newSource.Union(NewSingletonDomain(source.MaxValue(), shifted)).(*BitSetDomain)
		}
	}

	changed := false
	if !newTarget.Equal(target) {
		if !state.Set(c.Target, newTarget) {
			return false, false
		}
		changed = true
	}
	if !newSource.Equal(source) {
		if !state.Set(c.Source, newSource) {
			return false, false
		}
		changed = true
	}
	if newTarget.IsEmpty() || newSource.IsEmpty() {
		return changed, false
	}
	return changed, true
}
