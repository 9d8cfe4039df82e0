package engine

// LinearSum enforces Total = sum(Coeffs[i] * Terms[i]), propagating
// bounds consistency: each term and the total are narrowed to the range
// still reachable given the others' current bounds. Coefficients may be
// negative.
type LinearSum struct {
	Terms  []*Var
	Coeffs []int
	Total  *Var
}

func NewLinearSum(terms []*Var, coeffs []int, total *Var) *LinearSum {
	return &LinearSum{Terms: terms, Coeffs: coeffs, Total: total}
}

func (c *LinearSum) Variables() []*Var {
	vars := make([]*Var, 0, len(c.Terms)+1)
	vars = append(vars, c.Terms...)
	vars = append(vars, c.Total)
	return vars
}
func (c *LinearSum) Type() string { return "LinearSum" }

func (c *LinearSum) Propagate(state *SolverState) (bool, bool) {
	changed := false

	sumMin, sumMax := 0, 0
	termBounds := make([][2]int, len(c.Terms))
	for i, t := range c.Terms {
		d := state.Get(t)
		tmin, ok1 := d.Min()
		tmax, ok2 := d.Max()
		if !ok1 || !ok2 {
			return false, false
		}
		lo, hi := tmin*c.Coeffs[i], tmax*c.Coeffs[i]
		if lo > hi {
			lo, hi = hi, lo
		}
		termBounds[i] = [2]int{lo, hi}
		sumMin += lo
		sumMax += hi
	}

	total := state.Get(c.Total)
	newTotal := total.RemoveAbove(sumMax).RemoveBelow(sumMin)
	if !newTotal.Equal(total) {
		if !state.Set(c.Total, newTotal) {
			return false, false
		}
		changed = true
	}
	totalMin, ok1 := newTotal.Min()
	totalMax, ok2 := newTotal.Max()
	if !ok1 || !ok2 {
		return changed, false
	}

	for i, t := range c.Terms {
		coeff := c.Coeffs[i]
		if coeff == 0 {
			continue
		}
		otherMin, otherMax := sumMin-termBounds[i][0], sumMax-termBounds[i][1]
		// slack available for term i given total's current bounds
		lo := totalMin - otherMax
		hi := totalMax - otherMin

		d := state.Get(t)
		var newD Domain
		if coeff > 0 {
			newD = d.RemoveBelow(ceilDiv(lo, coeff)).RemoveAbove(floorDiv(hi, coeff))
		} else {
			newD = d.RemoveBelow(ceilDiv(hi, coeff)).RemoveAbove(floorDiv(lo, coeff))
		}
		if !newD.Equal(d) {
			if !state.Set(t, newD) {
				return false, false
			}
			changed = true
		}
		if newD.IsEmpty() {
			return changed, false
		}
	}
	return changed, true
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) == (b < 0)) {
		q++
	}
	return q
}

// Count enforces Result = |{ i : Vars[i] = Target }| in the
// bounds-consistency sense. Result holds the count shifted by one, since
// the engine's domains cannot represent zero; callers encode and decode
// accordingly (see internal/cpmodel). It is the engine's building block
// for exactly-one / at-least-one / at-most-one reasoning over boolean
// indicator Vars.
type Count struct {
	Vars   []*Var
	Target int
	Result *Var
}

func NewCount(vars []*Var, target int, result *Var) *Count {
	return &Count{Vars: vars, Target: target, Result: result}
}

func (c *Count) Variables() []*Var {
	vars := make([]*Var, 0, len(c.Vars)+1)
	vars = append(vars, c.Vars...)
	vars = append(vars, c.Result)
	return vars
}
func (c *Count) Type() string { return "Count" }

func (c *Count) Propagate(state *SolverState) (bool, bool) {
	forced, possible := 0, 0
	for _, v := range c.Vars {
		d := state.Get(v)
		if !d.Has(c.Target) {
			continue
		}
		possible++
		if d.IsSingleton() {
			forced++
		}
	}

	result := state.Get(c.Result)
	newResult := result.RemoveBelow(forced + 1).RemoveAbove(possible + 1)
	changed := false
	if !newResult.Equal(result) {
		if !state.Set(c.Result, newResult) {
			return false, false
		}
		changed = true
	}
	if newResult.IsEmpty() {
		return changed, false
	}

	rmin, _ := newResult.Min()
	rmax, _ := newResult.Max()
	cmin, cmax := rmin-1, rmax-1
	switch {
	case possible == cmin && possible > forced:
		// the lower bound needs every remaining candidate
		for _, v := range c.Vars {
			d := state.Get(v)
			if d.IsSingleton() || !d.Has(c.Target) {
				continue
			}
			if !state.Set(v, NewSingletonDomain(d.MaxValue(), c.Target)) {
				return false, false
			}
			changed = true
		}
	case forced == cmax && possible > forced:
		// the upper bound is met; no further candidate may match
		for _, v := range c.Vars {
			d := state.Get(v)
			if d.IsSingleton() || !d.Has(c.Target) {
				continue
			}
			if !state.Set(v, d.Remove(c.Target)) {
				return false, false
			}
			changed = true
		}
	}
	return changed, true
}

// MaxOfArray enforces Result = max(Vars). MinOfArray enforces
// Result = min(Vars).
type MaxOfArray struct {
	Vars   []*Var
	Result *Var
}

func NewMaxOfArray(vars []*Var, result *Var) *MaxOfArray {
	return &MaxOfArray{Vars: vars, Result: result}
}

func (c *MaxOfArray) Variables() []*Var { return append(append([]*Var{}, c.Vars...), c.Result) }
func (c *MaxOfArray) Type() string      { return "MaxOfArray" }

func (c *MaxOfArray) Propagate(state *SolverState) (bool, bool) {
	overallMax, overallMin := 0, -1<<62
	for _, v := range c.Vars {
		d := state.Get(v)
		mn, ok1 := d.Min()
		mx, ok2 := d.Max()
		if !ok1 || !ok2 {
			return false, false
		}
		if mx > overallMax {
			overallMax = mx
		}
		if mn > overallMin {
			overallMin = mn
		}
	}
	result := state.Get(c.Result)
	newResult := result.RemoveAbove(overallMax)
	changed := false
	if !newResult.Equal(result) {
		if !state.Set(c.Result, newResult) {
			return false, false
		}
		changed = true
	}
	if newResult.IsEmpty() {
		return changed, false
	}
	resMax, ok := newResult.Max()
	if !ok {
		return changed, false
	}
	for _, v := range c.Vars {
		d := state.Get(v)
		nd := d.RemoveAbove(resMax)
		if !nd.Equal(d) {
			if !state.Set(v, nd) {
				return false, false
			}
			changed = true
		}
	}
	return changed, true
}

type MinOfArray struct {
	Vars   []*Var
	Result *Var
}

func NewMinOfArray(vars []*Var, result *Var) *MinOfArray {
	return &MinOfArray{Vars: vars, Result: result}
}

func (c *MinOfArray) Variables() []*Var { return append(append([]*Var{}, c.Vars...), c.Result) }
func (c *MinOfArray) Type() string      { return "MinOfArray" }

func (c *MinOfArray) Propagate(state *SolverState) (bool, bool) {
	overallMin := 1 << 62
	for _, v := range c.Vars {
		d := state.Get(v)
		mn, ok := d.Min()
		if !ok {
			return false, false
		}
		if mn < overallMin {
			overallMin = mn
		}
	}
	result := state.Get(c.Result)
	newResult := result.RemoveBelow(overallMin)
	changed := false
	if !newResult.Equal(result) {
		if !state.Set(c.Result, newResult) {
			return false, false
		}
		changed = true
	}
	if newResult.IsEmpty() {
		return changed, false
	}
	resMin, ok := newResult.Min()
	if !ok {
		return changed, false
	}
	for _, v := range c.Vars {
		d := state.Get(v)
		nd := d.RemoveBelow(resMin)
		if !nd.Equal(d) {
			if !state.Set(v, nd) {
				return false, false
			}
			changed = true
		}
	}
	return changed, true
}
